//go:build integration

package impl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fedredis "stellar-federation/internal/pkg/redis"
	"stellar-federation/internal/repository/interfaces"
	"stellar-federation/internal/test"
)

func TestPostgresDirectory_Integration(t *testing.T) {
	ctx := context.Background()
	db := test.SetupTestDB(t)
	test.TruncateTable(t, db, "users")

	_, err := db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, deleted_at) VALUES
		('11111111-1111-1111-1111-111111111111', 'alice', 'alice@example.com', NULL),
		('22222222-2222-2222-2222-222222222222', 'alicia', 'alicia@example.com', NULL),
		('33333333-3333-3333-3333-333333333333', 'al_ce', 'gone@example.com', now())
	`)
	require.NoError(t, err)

	dir := NewPostgresDirectory(db)

	t.Run("子串匹配且排除软删除用户", func(t *testing.T) {
		users, err := dir.SearchUsers(ctx, "ALI")
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "alice", users[0].Login)
		assert.Equal(t, "alicia", users[1].Login)
	})

	t.Run("通配符按字面匹配", func(t *testing.T) {
		users, err := dir.SearchUsers(ctx, "l_c")
		require.NoError(t, err)
		assert.Empty(t, users)
	})

	t.Run("模糊命中超过上限时完全匹配不被截掉", func(t *testing.T) {
		_, err := db.ExecContext(ctx, `
			INSERT INTO users (id, username, email)
			SELECT gen_random_uuid(), 'a' || lpad(i::text, 2, '0') || 'al', 'a' || lpad(i::text, 2, '0') || 'al@example.com'
			FROM generate_series(0, 59) AS i
		`)
		require.NoError(t, err)
		_, err = db.ExecContext(ctx, `
			INSERT INTO users (id, username, email) VALUES
			('44444444-4444-4444-4444-444444444444', 'al', 'al@example.com')
		`)
		require.NoError(t, err)

		users, err := dir.SearchUsers(ctx, "al")
		require.NoError(t, err)
		require.Len(t, users, directorySearchLimit)
		assert.Equal(t, "al", users[0].Login)
	})

	t.Run("两个完全匹配都会返回", func(t *testing.T) {
		_, err := db.ExecContext(ctx, `
			INSERT INTO users (id, username, email) VALUES
			('55555555-5555-5555-5555-555555555555', 'zz-other', 'al')
		`)
		require.NoError(t, err)

		users, err := dir.SearchUsers(ctx, "al")
		require.NoError(t, err)
		exact := 0
		for _, u := range users {
			if u.Matches("al") {
				exact++
			}
		}
		assert.Equal(t, 2, exact)
	})

	t.Run("按 ID 获取", func(t *testing.T) {
		user, err := dir.GetUser(ctx, "11111111-1111-1111-1111-111111111111")
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", user.Email)

		_, err = dir.GetUser(ctx, "33333333-3333-3333-3333-333333333333")
		assert.ErrorIs(t, err, interfaces.ErrUserNotFound)
	})
}

func TestPostgresAccountStore_Integration(t *testing.T) {
	ctx := context.Background()
	db := test.SetupTestDB(t)

	store := NewPostgresAccountStore(db)
	require.NoError(t, store.EnsureSchema(ctx))
	require.NoError(t, store.EnsureSchema(ctx))
	test.TruncateTable(t, db, "user_stellar_accounts")

	_, ok, err := store.GetAccountID(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.SetAccountID(ctx, "u1", "GAAA"))
	require.NoError(t, store.SetAccountID(ctx, "u1", "GBBB"))
	require.NoError(t, store.SetAccountID(ctx, "u2", ""))

	accountID, ok, err := store.GetAccountID(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "GBBB", accountID)

	_, ok, err = store.GetAccountID(ctx, "u2")
	require.NoError(t, err)
	assert.False(t, ok)

	ids, err := store.ListUserIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, ids)

	require.NoError(t, store.DeleteAccountID(ctx, "u1"))
	_, ok, err = store.GetAccountID(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisAccountStore_Integration(t *testing.T) {
	ctx := context.Background()
	rdb := test.SetupTestRedis(t)
	client := fedredis.Wrap(rdb, "federation-test")

	store := NewRedisAccountStore(client, "it:")
	require.NoError(t, rdb.Del(ctx, store.Key()).Err())

	require.NoError(t, store.SetAccountID(ctx, "u2", "GBBB"))
	require.NoError(t, store.SetAccountID(ctx, "u1", "GAAA"))

	accountID, ok, err := store.GetAccountID(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "GAAA", accountID)

	ids, err := store.ListUserIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, ids)

	require.NoError(t, store.DeleteAccountID(ctx, "u1"))
	_, ok, err = store.GetAccountID(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)
}
