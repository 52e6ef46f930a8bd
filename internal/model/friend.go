package model

import "time"

// 好友边状态机：
//
//	pending   已注册用户间的待确认请求 (FriendUserID 有值)
//	invited   发给未注册邮箱的邀请 (TempEmail 有值，注册时被 rehome 成 pending)
//	confirmed 双方确认，终态
//
// 用显式 status 列而不是靠哪个字段非空来猜状态
const (
	FriendStatusPending   = "pending"
	FriendStatusInvited   = "invited"
	FriendStatusConfirmed = "confirmed"
)

// Friend 有向边：MainUser 发起，FriendUser（或 TempEmail）接收
type Friend struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	MainUserID uint `gorm:"not null;index" json:"main_user_id"`

	FriendUserID *uint  `gorm:"index" json:"friend_user_id"`
	TempEmail    string `gorm:"type:varchar(255);index" json:"temp_email,omitempty"`

	Status string `gorm:"type:varchar(16);not null;index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Friend) TableName() string {
	return "friends"
}
