package model

import "time"

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"type:varchar(100);not null;unique" json:"username"`
	Email     string    `gorm:"type:varchar(255);not null;unique;index" json:"email"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"`
	FirstName string    `gorm:"type:varchar(100)" json:"first_name"`
	LastName  string    `gorm:"type:varchar(100)" json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserProfile 与 User 一对一
// 注册时一并创建，创建的副作用是给该用户播种默认分类（见 AuthService.Register）
type UserProfile struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	UserID    uint   `gorm:"not null;uniqueIndex" json:"user_id"`
	Telephone string `gorm:"type:varchar(32)" json:"telephone"`
	// ResetCode 一次性重置码，用后即清空
	ResetCode    string    `gorm:"type:varchar(36)" json:"-"`
	ForwardEmail string    `gorm:"type:varchar(255)" json:"forward_email"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
