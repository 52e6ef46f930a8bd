package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/leon37/ReceiptLedger/internal/infrastructure/mailer"
	"github.com/leon37/ReceiptLedger/internal/model"
	"github.com/leon37/ReceiptLedger/internal/repository"
	"gorm.io/gorm"
)

// FriendService 好友有向边的状态机：
//
//	NONE → pending → confirmed
//	NONE → invited → pending（对方注册时 rehome）→ confirmed
//	pending --拒绝/撤销--> NONE
type FriendService struct {
	friendRepo *repository.FriendRepository
	userRepo   *repository.UserRepository
	mail       mailer.Mailer
}

func NewFriendService(friendRepo *repository.FriendRepository, userRepo *repository.UserRepository, mail mailer.Mailer) *FriendService {
	return &FriendService{
		friendRepo: friendRepo,
		userRepo:   userRepo,
		mail:       mail,
	}
}

// Request 向某邮箱发起好友请求
// 对方没注册 → 转成邮箱邀请边；重复邀请同一邮箱 → ErrDuplicateInvite
func (s *FriendService) Request(ctx context.Context, requester *model.User, targetEmail string) (*model.Friend, error) {
	target, err := s.userRepo.GetByEmail(ctx, targetEmail)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return s.invite(ctx, requester, targetEmail)
	}

	if target.ID == requester.ID {
		return nil, ErrSelfFriend
	}

	// 任一方向已确认 → 已经是好友
	if _, err := s.friendRepo.FindBetween(ctx, requester.ID, target.ID, model.FriendStatusConfirmed); err == nil {
		return nil, ErrAlreadyFriends
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 区分“你已经发过”和“对方发给你的还挂着”
	if _, err := s.friendRepo.FindDirected(ctx, requester.ID, target.ID, model.FriendStatusPending); err == nil {
		return nil, ErrRequestAlreadySent
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.friendRepo.FindDirected(ctx, target.ID, requester.ID, model.FriendStatusPending); err == nil {
		return nil, ErrRequestAlreadyReceived
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	edge := &model.Friend{
		MainUserID:   requester.ID,
		FriendUserID: &target.ID,
		Status:       model.FriendStatusPending,
	}
	if err := s.friendRepo.Create(ctx, edge); err != nil {
		return nil, err
	}
	return edge, nil
}

func (s *FriendService) invite(ctx context.Context, requester *model.User, email string) (*model.Friend, error) {
	if _, err := s.friendRepo.FindInvite(ctx, requester.ID, email); err == nil {
		return nil, ErrDuplicateInvite
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	edge := &model.Friend{
		MainUserID: requester.ID,
		TempEmail:  email,
		Status:     model.FriendStatusInvited,
	}
	if err := s.friendRepo.Create(ctx, edge); err != nil {
		return nil, err
	}

	// 邀请邮件是尽力而为，发不出去不影响边的创建
	if err := s.mail.SendInvite(email, requester.FirstName); err != nil {
		slog.Error("发送邀请邮件失败", "email", email, "error", err)
	}
	return edge, nil
}

// Respond 响应别人发来的请求：1 确认，0 删除，其余 → ErrInvalidAnswer
func (s *FriendService) Respond(ctx context.Context, responderID, requesterID uint, answer int) error {
	if answer != 0 && answer != 1 {
		return ErrInvalidAnswer
	}

	edge, err := s.friendRepo.FindDirected(ctx, requesterID, responderID, model.FriendStatusPending)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFriendNotFound
		}
		return err
	}

	if answer == 1 {
		edge.Status = model.FriendStatusConfirmed
		return s.friendRepo.Save(ctx, edge)
	}
	return s.friendRepo.Delete(ctx, edge.ID)
}

// FriendInfo 边上另一端的用户信息
type FriendInfo struct {
	UserID    uint   `json:"user_id,omitempty"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	Email     string `json:"email"`
}

// FriendState 按状态分好的三组边，外加还没被认领的邮箱邀请
type FriendState struct {
	SentPending     []FriendInfo `json:"sent_pending"`
	ReceivedPending []FriendInfo `json:"received_pending"`
	Confirmed       []FriendInfo `json:"confirmed"`
	PendingInvites  []string     `json:"pending_invites"`
}

// ListState 把该用户参与的边分拣成 已发送/已收到/已确认
func (s *FriendService) ListState(ctx context.Context, userID uint) (*FriendState, error) {
	edges, err := s.friendRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 先收集所有对端 id，一次查完用户信息
	ids := make([]uint, 0, len(edges))
	for _, e := range edges {
		if e.MainUserID != userID {
			ids = append(ids, e.MainUserID)
		} else if e.FriendUserID != nil {
			ids = append(ids, *e.FriendUserID)
		}
	}
	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	info := func(id uint) FriendInfo {
		u := byID[id]
		return FriendInfo{UserID: u.ID, Username: u.Username, FirstName: u.FirstName, Email: u.Email}
	}

	state := &FriendState{
		SentPending:     []FriendInfo{},
		ReceivedPending: []FriendInfo{},
		Confirmed:       []FriendInfo{},
		PendingInvites:  []string{},
	}
	for _, e := range edges {
		switch e.Status {
		case model.FriendStatusInvited:
			if e.MainUserID == userID {
				state.PendingInvites = append(state.PendingInvites, e.TempEmail)
			}
		case model.FriendStatusPending:
			if e.MainUserID == userID && e.FriendUserID != nil {
				state.SentPending = append(state.SentPending, info(*e.FriendUserID))
			} else {
				state.ReceivedPending = append(state.ReceivedPending, info(e.MainUserID))
			}
		case model.FriendStatusConfirmed:
			if e.MainUserID == userID && e.FriendUserID != nil {
				state.Confirmed = append(state.Confirmed, info(*e.FriendUserID))
			} else {
				state.Confirmed = append(state.Confirmed, info(e.MainUserID))
			}
		}
	}
	return state, nil
}

// Remove 删除已确认的好友关系，方向不限
func (s *FriendService) Remove(ctx context.Context, userID, otherID uint) error {
	edge, err := s.friendRepo.FindBetween(ctx, userID, otherID, model.FriendStatusConfirmed)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFriendNotFound
		}
		return err
	}
	return s.friendRepo.Delete(ctx, edge.ID)
}

// RehomeInvites 注册时调用：把发到这个邮箱的邀请边改挂到真实账号上
// 邀请 → 待确认，temp_email 清空
func (s *FriendService) RehomeInvites(ctx context.Context, newUser *model.User) error {
	edges, err := s.friendRepo.ListInvitesByEmail(ctx, newUser.Email)
	if err != nil {
		return err
	}
	for i := range edges {
		edge := &edges[i]
		edge.FriendUserID = &newUser.ID
		edge.TempEmail = ""
		edge.Status = model.FriendStatusPending
		if err := s.friendRepo.Save(ctx, edge); err != nil {
			return err
		}
		slog.Info("邀请边已 rehome", "edgeID", edge.ID, "newUserID", newUser.ID)
	}
	return nil
}
