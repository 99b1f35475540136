package impl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stellar-federation/internal/repository/entity"
	"stellar-federation/internal/repository/interfaces"
)

func seedDirectory() *MemoryDirectory {
	return NewMemoryDirectory(
		&entity.DirectoryUser{ID: "1", Login: "alice", Email: "alice@example.com"},
		&entity.DirectoryUser{ID: "2", Login: "alicia", Email: "alicia@example.com"},
		&entity.DirectoryUser{ID: "3", Login: "Bob", Email: "bob@example.com"},
	)
}

func TestMemoryDirectory_SearchUsers(t *testing.T) {
	ctx := context.Background()
	dir := seedDirectory()

	tests := []struct {
		name    string
		term    string
		wantIDs []string
	}{
		{"子串命中多个用户", "ali", []string{"1", "2"}},
		{"不区分大小写", "bob", []string{"3"}},
		{"按邮箱命中", "alicia@", []string{"2"}},
		{"无匹配", "carol", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, err := dir.SearchUsers(ctx, tt.term)
			require.NoError(t, err)

			ids := make([]string, 0, len(users))
			for _, u := range users {
				ids = append(ids, u.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestMemoryDirectory_GetUser(t *testing.T) {
	ctx := context.Background()
	dir := seedDirectory()

	user, err := dir.GetUser(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, "Bob", user.Login)

	// 返回的是副本
	user.Login = "mallory"
	again, err := dir.GetUser(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, "Bob", again.Login)

	dir.Remove("3")
	_, err = dir.GetUser(ctx, "3")
	assert.ErrorIs(t, err, interfaces.ErrUserNotFound)
}

func TestMemoryAccountStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryAccountStore(map[string]string{"1": "GAAA", "2": ""})

	t.Run("读取已设置的账户", func(t *testing.T) {
		accountID, ok, err := store.GetAccountID(ctx, "1")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "GAAA", accountID)
	})

	t.Run("空值视为未设置", func(t *testing.T) {
		_, ok, err := store.GetAccountID(ctx, "2")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("写入和删除", func(t *testing.T) {
		require.NoError(t, store.SetAccountID(ctx, "9", "GZZZ"))
		ids, err := store.ListUserIDs(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "9"}, ids)

		require.NoError(t, store.DeleteAccountID(ctx, "9"))
		require.NoError(t, store.DeleteAccountID(ctx, "9"))
		_, ok, err := store.GetAccountID(ctx, "9")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\%b\_c\\d`, likeEscaper.Replace(`a%b_c\d`))
}
