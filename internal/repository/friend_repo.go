package repository

import (
	"context"

	"github.com/leon37/ReceiptLedger/internal/model"
	"gorm.io/gorm"
)

type FriendRepository struct {
	db *gorm.DB
}

func NewFriendRepository(db *gorm.DB) *FriendRepository {
	return &FriendRepository{db: db}
}

func (r *FriendRepository) Create(ctx context.Context, edge *model.Friend) error {
	return r.db.WithContext(ctx).Create(edge).Error
}

func (r *FriendRepository) Save(ctx context.Context, edge *model.Friend) error {
	return r.db.WithContext(ctx).Save(edge).Error
}

func (r *FriendRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Friend{}, id).Error
}

// FindDirected 查 a→b 方向、指定状态的边
func (r *FriendRepository) FindDirected(ctx context.Context, fromID, toID uint, status string) (*model.Friend, error) {
	var edge model.Friend
	err := r.db.WithContext(ctx).
		Where("main_user_id = ? AND friend_user_id = ? AND status = ?", fromID, toID, status).
		First(&edge).Error
	if err != nil {
		return nil, err
	}
	return &edge, nil
}

// FindBetween 查两人之间任一方向、指定状态的边
func (r *FriendRepository) FindBetween(ctx context.Context, aID, bID uint, status string) (*model.Friend, error) {
	var edge model.Friend
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Where(
			r.db.Where("main_user_id = ? AND friend_user_id = ?", aID, bID).
				Or("main_user_id = ? AND friend_user_id = ?", bID, aID),
		).
		First(&edge).Error
	if err != nil {
		return nil, err
	}
	return &edge, nil
}

// FindInvite 查某人发给某邮箱的邀请边
func (r *FriendRepository) FindInvite(ctx context.Context, fromID uint, email string) (*model.Friend, error) {
	var edge model.Friend
	err := r.db.WithContext(ctx).
		Where("main_user_id = ? AND temp_email = ? AND status = ?", fromID, email, model.FriendStatusInvited).
		First(&edge).Error
	if err != nil {
		return nil, err
	}
	return &edge, nil
}

// ListInvitesByEmail 注册 rehome 用：查所有发到该邮箱的邀请边
func (r *FriendRepository) ListInvitesByEmail(ctx context.Context, email string) ([]model.Friend, error) {
	var edges []model.Friend
	err := r.db.WithContext(ctx).
		Where("temp_email = ? AND status = ?", email, model.FriendStatusInvited).
		Find(&edges).Error
	return edges, err
}

// ListByUser 某用户参与的全部边（两个方向）
func (r *FriendRepository) ListByUser(ctx context.Context, userID uint) ([]model.Friend, error) {
	var edges []model.Friend
	err := r.db.WithContext(ctx).
		Where("main_user_id = ? OR friend_user_id = ?", userID, userID).
		Order("id ASC").
		Find(&edges).Error
	return edges, err
}
