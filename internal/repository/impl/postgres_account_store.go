package impl

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aarondl/sqlboiler/v4/queries"

	"stellar-federation/internal/repository/entity"
)

// accountSchema user_stellar_accounts 表结构，user_id 与目录中的用户 ID 一致
const accountSchema = `
CREATE TABLE IF NOT EXISTS user_stellar_accounts (
	user_id    TEXT PRIMARY KEY,
	account_id TEXT,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresAccountStore 基于 user_stellar_accounts 表的账户存储
type PostgresAccountStore struct {
	db *sql.DB
}

// NewPostgresAccountStore 创建 PostgreSQL 账户存储
func NewPostgresAccountStore(db *sql.DB) *PostgresAccountStore {
	return &PostgresAccountStore{db: db}
}

// EnsureSchema 建表（幂等）
func (r *PostgresAccountStore) EnsureSchema(ctx context.Context) error {
	_, err := queries.Raw(accountSchema).ExecContext(ctx, r.db)
	return err
}

func (r *PostgresAccountStore) GetAccountID(ctx context.Context, userID string) (string, bool, error) {
	queryStr := `
		SELECT user_id, account_id, updated_at
		FROM user_stellar_accounts
		WHERE user_id = $1
	`

	var row entity.UserStellarAccount
	err := queries.Raw(queryStr, userID).Bind(ctx, r.db, &row)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if !row.Present() {
		return "", false, nil
	}
	return row.AccountID.String, true, nil
}

func (r *PostgresAccountStore) SetAccountID(ctx context.Context, userID, accountID string) error {
	queryStr := `
		INSERT INTO user_stellar_accounts (user_id, account_id, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id)
		DO UPDATE SET account_id = EXCLUDED.account_id, updated_at = now()
	`
	_, err := queries.Raw(queryStr, userID, accountID).ExecContext(ctx, r.db)
	return err
}

func (r *PostgresAccountStore) DeleteAccountID(ctx context.Context, userID string) error {
	_, err := queries.Raw(`DELETE FROM user_stellar_accounts WHERE user_id = $1`, userID).ExecContext(ctx, r.db)
	return err
}

func (r *PostgresAccountStore) ListUserIDs(ctx context.Context) ([]string, error) {
	queryStr := `
		SELECT user_id, account_id, updated_at
		FROM user_stellar_accounts
		WHERE account_id IS NOT NULL AND account_id <> ''
		ORDER BY user_id
	`

	var rows []*entity.UserStellarAccount
	if err := queries.Raw(queryStr).Bind(ctx, r.db, &rows); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.UserID)
	}
	return ids, nil
}

func (r *PostgresAccountStore) Backend() string {
	return BackendPostgres
}

// DB 返回底层连接池，供连接池指标采集使用
func (r *PostgresAccountStore) DB() *sql.DB {
	return r.db
}
