package entity

import (
	"time"

	"github.com/aarondl/null/v8"
)

// DirectoryUser 目录中的用户，Login/Email 保持目录中的原始大小写
type DirectoryUser struct {
	ID    string `boil:"id" json:"id"`
	Login string `boil:"username" json:"login"`
	Email string `boil:"email" json:"email"`
}

// Matches 报告名称是否与登录名或邮箱完全相同（区分大小写）
func (u *DirectoryUser) Matches(name string) bool {
	return u.Login == name || u.Email == name
}

// UserStellarAccount user_stellar_accounts 表的一行
type UserStellarAccount struct {
	UserID    string      `boil:"user_id" json:"user_id"`
	AccountID null.String `boil:"account_id" json:"account_id"`
	UpdatedAt time.Time   `boil:"updated_at" json:"updated_at"`
}

// TableName 返回表名
func (UserStellarAccount) TableName() string {
	return "user_stellar_accounts"
}

// Present 账户 ID 已设置且非空
func (a *UserStellarAccount) Present() bool {
	return a.AccountID.Valid && a.AccountID.String != ""
}
