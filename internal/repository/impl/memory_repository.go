package impl

import (
	"context"
	"sort"
	"strings"
	"sync"

	"stellar-federation/internal/repository/entity"
	"stellar-federation/internal/repository/interfaces"
)

// BackendMemory 内存后端名称
const BackendMemory = "memory"

// MemoryDirectory 内存用户目录，用于本地开发和测试
type MemoryDirectory struct {
	mu    sync.RWMutex
	users map[string]*entity.DirectoryUser
}

// NewMemoryDirectory 创建内存用户目录
func NewMemoryDirectory(users ...*entity.DirectoryUser) *MemoryDirectory {
	d := &MemoryDirectory{users: make(map[string]*entity.DirectoryUser, len(users))}
	for _, u := range users {
		d.Put(u)
	}
	return d
}

// Put 新增或替换用户
func (d *MemoryDirectory) Put(user *entity.DirectoryUser) {
	if user == nil || user.ID == "" {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	cp := *user
	d.users[user.ID] = &cp
}

// Remove 删除用户
func (d *MemoryDirectory) Remove(userID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.users, userID)
}

// SearchUsers 对登录名和邮箱做不区分大小写的子串匹配，结果按 ID 排序
func (d *MemoryDirectory) SearchUsers(_ context.Context, term string) ([]*entity.DirectoryUser, error) {
	needle := strings.ToLower(term)

	d.mu.RLock()
	defer d.mu.RUnlock()

	result := make([]*entity.DirectoryUser, 0)
	for _, u := range d.users {
		if strings.Contains(strings.ToLower(u.Login), needle) ||
			strings.Contains(strings.ToLower(u.Email), needle) {
			cp := *u
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (d *MemoryDirectory) GetUser(_ context.Context, userID string) (*entity.DirectoryUser, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	u, ok := d.users[userID]
	if !ok {
		return nil, interfaces.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (d *MemoryDirectory) Backend() string {
	return BackendMemory
}

// MemoryAccountStore 内存账户存储
type MemoryAccountStore struct {
	mu       sync.RWMutex
	accounts map[string]string
}

// NewMemoryAccountStore 创建内存账户存储，seed 为 userID -> accountID
func NewMemoryAccountStore(seed map[string]string) *MemoryAccountStore {
	s := &MemoryAccountStore{accounts: make(map[string]string, len(seed))}
	for userID, accountID := range seed {
		s.accounts[userID] = accountID
	}
	return s
}

func (s *MemoryAccountStore) GetAccountID(_ context.Context, userID string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accountID, ok := s.accounts[userID]
	if !ok || accountID == "" {
		return "", false, nil
	}
	return accountID, true, nil
}

func (s *MemoryAccountStore) SetAccountID(_ context.Context, userID, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[userID] = accountID
	return nil
}

func (s *MemoryAccountStore) DeleteAccountID(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accounts, userID)
	return nil
}

func (s *MemoryAccountStore) ListUserIDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.accounts))
	for userID, accountID := range s.accounts {
		if accountID != "" {
			ids = append(ids, userID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *MemoryAccountStore) Backend() string {
	return BackendMemory
}
