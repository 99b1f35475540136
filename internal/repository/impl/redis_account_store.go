package impl

import (
	"context"
	"sort"

	fedredis "stellar-federation/internal/pkg/redis"
)

// BackendRedis Redis 后端名称
const BackendRedis = "redis"

// RedisAccountStore 账户 ID 存在一个哈希里，field 为用户 ID
type RedisAccountStore struct {
	client *fedredis.Client
	key    string
}

// NewRedisAccountStore 创建 Redis 账户存储，keyPrefix 来自配置
func NewRedisAccountStore(client *fedredis.Client, keyPrefix string) *RedisAccountStore {
	return &RedisAccountStore{
		client: client,
		key:    keyPrefix + "stellar_accounts",
	}
}

func (r *RedisAccountStore) GetAccountID(ctx context.Context, userID string) (string, bool, error) {
	accountID, ok, err := r.client.HashGet(ctx, r.key, userID)
	if err != nil {
		return "", false, err
	}
	if !ok || accountID == "" {
		return "", false, nil
	}
	return accountID, true, nil
}

func (r *RedisAccountStore) SetAccountID(ctx context.Context, userID, accountID string) error {
	return r.client.HashSet(ctx, r.key, userID, accountID)
}

func (r *RedisAccountStore) DeleteAccountID(ctx context.Context, userID string) error {
	return r.client.HashDelete(ctx, r.key, userID)
}

// ListUserIDs 返回哈希中的全部用户 ID，已排序
func (r *RedisAccountStore) ListUserIDs(ctx context.Context) ([]string, error) {
	ids, err := r.client.HashKeys(ctx, r.key)
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *RedisAccountStore) Backend() string {
	return BackendRedis
}

// Key 返回使用的哈希键
func (r *RedisAccountStore) Key() string {
	return r.key
}
