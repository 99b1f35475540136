package impl

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/aarondl/sqlboiler/v4/queries"

	"stellar-federation/internal/repository/entity"
	"stellar-federation/internal/repository/interfaces"
)

// BackendPostgres PostgreSQL 后端名称
const BackendPostgres = "postgres"

// directorySearchLimit 单次模糊查询返回的最大候选数
const directorySearchLimit = 50

// likeEscaper 转义 LIKE 模式中的通配符
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// PostgresDirectory 基于 users 表的用户目录
type PostgresDirectory struct {
	db *sql.DB
}

// NewPostgresDirectory 创建 PostgreSQL 用户目录
func NewPostgresDirectory(db *sql.DB) *PostgresDirectory {
	return &PostgresDirectory{db: db}
}

// SearchUsers 在用户名和邮箱上做 ILIKE 子串匹配，已软删除的用户不参与
// 与 term 完全相同的行排在最前，LIMIT 只截掉模糊命中
func (r *PostgresDirectory) SearchUsers(ctx context.Context, term string) ([]*entity.DirectoryUser, error) {
	queryStr := `
		SELECT id::text AS id, username, email
		FROM users
		WHERE deleted_at IS NULL
		  AND (username ILIKE $1 ESCAPE '\' OR email ILIKE $1 ESCAPE '\')
		ORDER BY (username = $2 OR email = $2) DESC, username
		LIMIT $3
	`

	pattern := "%" + likeEscaper.Replace(term) + "%"

	var users []*entity.DirectoryUser
	if err := queries.Raw(queryStr, pattern, term, directorySearchLimit).Bind(ctx, r.db, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *PostgresDirectory) GetUser(ctx context.Context, userID string) (*entity.DirectoryUser, error) {
	queryStr := `
		SELECT id::text AS id, username, email
		FROM users
		WHERE id::text = $1 AND deleted_at IS NULL
	`

	var user entity.DirectoryUser
	err := queries.Raw(queryStr, userID).Bind(ctx, r.db, &user)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, interfaces.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresDirectory) Backend() string {
	return BackendPostgres
}
