package service

import "errors"

// 哨兵错误：对外统一语义，隐藏底层实现细节
var (
	// ErrInvalidInput 参数不合法
	ErrInvalidInput = errors.New("invalid input")
	// ErrInternal 内部错误（对外不暴露细节）
	ErrInternal = errors.New("internal server error")

	// ErrInvalidCredentials 用户名或密码错误（登录时统一返回，防止用户枚举）
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUserNotFound 用户不存在（仅用于非登录场景，如 GetProfile）
	ErrUserNotFound = errors.New("user not found")
	// ErrUserAlreadyExists 用户已存在（注册时）
	ErrUserAlreadyExists = errors.New("user already exists")

	ErrAlertNotFound   = errors.New("alert not found")
	ErrCommentNotFound = errors.New("comment not found")
	// ErrCommentNotOwned 只有评论作者可以修改评论
	ErrCommentNotOwned = errors.New("comment does not belong to user")

	ErrTagAlreadyExists = errors.New("tag already exists")
	// ErrFeatureStoreUnavailable 运行期开关依赖 Redis，未连接时无法修改
	ErrFeatureStoreUnavailable = errors.New("feature flag store unavailable")
)
