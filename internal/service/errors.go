package service

import "errors"

// 业务错误集中定义，controller 层据此映射 HTTP 状态码：
// 重复/占用类 → 409，找不到 → 404，输入不合法 → 400
var (
	// 分类
	ErrDuplicateCategory = errors.New("category already exists")
	ErrParentCategory    = errors.New("parent category cannot be deleted")
	ErrCategoryInUse     = errors.New("items exist in this category")
	ErrCategoryNotFound  = errors.New("category does not exist")
	ErrCategoryDepth     = errors.New("sub category cannot have children")

	// 好友
	ErrSelfFriend             = errors.New("cannot add self as friend")
	ErrAlreadyFriends         = errors.New("you are already friends")
	ErrRequestAlreadySent     = errors.New("you already sent a friend request")
	ErrRequestAlreadyReceived = errors.New("you have a pending request from them")
	ErrDuplicateInvite        = errors.New("invite already sent to this email")
	ErrInvalidAnswer          = errors.New("answer must be 0 or 1")
	ErrFriendNotFound         = errors.New("friend relation does not exist")

	// 分摊
	ErrBadIDList            = errors.New("shared user ids must be comma separated integers")
	ErrBadAmountList        = errors.New("shared amounts must be comma separated decimals")
	ErrListLengthMismatch   = errors.New("shared user ids and amounts must have the same length")
	ErrDuplicateSharedUsers = errors.New("shared user ids must be unique")
	ErrUsersDoNotExist      = errors.New("list of users do not exist")
	ErrInvalidTotal         = errors.New("receipt total must be greater than zero")
	ErrSplitExists          = errors.New("split already exists")

	// 账号
	ErrDuplicateTelephone = errors.New("telephone number already in use")

	// 通用
	ErrNotOwner = errors.New("no permission on this resource")
)
