package interfaces

import (
	"context"
	"errors"

	"stellar-federation/internal/repository/entity"
)

// ErrUserNotFound 用户在目录中不存在
var ErrUserNotFound = errors.New("user not found")

// UserDirectory 用户目录（外部身份系统或用户表）
type UserDirectory interface {
	// SearchUsers 按名称检索候选用户，允许模糊匹配，调用方负责精确过滤
	// Login/Email 须按目录中的原始大小写返回；精确过滤区分大小写，混合大小写的登录名不会被解析
	// 实现若限制返回条数，必须先保留与 term 完全相同的行
	SearchUsers(ctx context.Context, term string) ([]*entity.DirectoryUser, error)

	// GetUser 根据 ID 获取用户，不存在时返回 ErrUserNotFound
	GetUser(ctx context.Context, userID string) (*entity.DirectoryUser, error)

	// Backend 后端名称，用于日志和指标
	Backend() string
}

// AccountStore 每个用户一个可选的 Stellar 账户 ID
type AccountStore interface {
	// GetAccountID 读取账户 ID，未设置时 ok=false
	GetAccountID(ctx context.Context, userID string) (accountID string, ok bool, err error)

	// SetAccountID 写入账户 ID
	SetAccountID(ctx context.Context, userID, accountID string) error

	// DeleteAccountID 清除账户 ID，未设置时不报错
	DeleteAccountID(ctx context.Context, userID string) error

	// ListUserIDs 列出所有设置过账户 ID 的用户
	ListUserIDs(ctx context.Context) ([]string, error)

	Backend() string
}
