package impl

import (
	"context"
	"errors"
	"time"

	"stellar-federation/internal/pkg/metrics"
	"stellar-federation/internal/pkg/xerrors"
	"stellar-federation/internal/repository/entity"
	"stellar-federation/internal/repository/interfaces"
)

// InstrumentedDirectory 为用户目录记录调用指标，并把后端错误包装为 CodeDirectoryError
type InstrumentedDirectory struct {
	next    interfaces.UserDirectory
	metrics *metrics.FederationMetrics
}

// NewInstrumentedDirectory 包装用户目录
func NewInstrumentedDirectory(next interfaces.UserDirectory) *InstrumentedDirectory {
	return &InstrumentedDirectory{next: next, metrics: metrics.DefaultFederationMetrics}
}

func (d *InstrumentedDirectory) SearchUsers(ctx context.Context, term string) ([]*entity.DirectoryUser, error) {
	start := time.Now()
	users, err := d.next.SearchUsers(ctx, term)
	d.metrics.ObserveCall(d.next.Backend(), "search_users", err, time.Since(start))
	if err != nil {
		return nil, xerrors.NewDirectoryError(d.next.Backend(), "SearchUsers", err)
	}
	return users, nil
}

func (d *InstrumentedDirectory) GetUser(ctx context.Context, userID string) (*entity.DirectoryUser, error) {
	start := time.Now()
	user, err := d.next.GetUser(ctx, userID)
	if errors.Is(err, interfaces.ErrUserNotFound) {
		d.metrics.ObserveCall(d.next.Backend(), "get_user", nil, time.Since(start))
		return nil, err
	}
	d.metrics.ObserveCall(d.next.Backend(), "get_user", err, time.Since(start))
	if err != nil {
		return nil, xerrors.NewDirectoryError(d.next.Backend(), "GetUser", err).
			WithMetadata("user_id", userID)
	}
	return user, nil
}

func (d *InstrumentedDirectory) Backend() string {
	return d.next.Backend()
}

// InstrumentedStore 为账户存储记录调用指标，并把后端错误包装为 CodeAccountStoreError
type InstrumentedStore struct {
	next    interfaces.AccountStore
	metrics *metrics.FederationMetrics
}

// NewInstrumentedStore 包装账户存储
func NewInstrumentedStore(next interfaces.AccountStore) *InstrumentedStore {
	return &InstrumentedStore{next: next, metrics: metrics.DefaultFederationMetrics}
}

func (s *InstrumentedStore) GetAccountID(ctx context.Context, userID string) (string, bool, error) {
	start := time.Now()
	accountID, ok, err := s.next.GetAccountID(ctx, userID)
	s.metrics.ObserveCall(s.next.Backend(), "get_account_id", err, time.Since(start))
	if err != nil {
		return "", false, s.wrap("GetAccountID", userID, err)
	}
	return accountID, ok, nil
}

func (s *InstrumentedStore) SetAccountID(ctx context.Context, userID, accountID string) error {
	start := time.Now()
	err := s.next.SetAccountID(ctx, userID, accountID)
	s.metrics.ObserveCall(s.next.Backend(), "set_account_id", err, time.Since(start))
	if err != nil {
		return s.wrap("SetAccountID", userID, err)
	}
	return nil
}

func (s *InstrumentedStore) DeleteAccountID(ctx context.Context, userID string) error {
	start := time.Now()
	err := s.next.DeleteAccountID(ctx, userID)
	s.metrics.ObserveCall(s.next.Backend(), "delete_account_id", err, time.Since(start))
	if err != nil {
		return s.wrap("DeleteAccountID", userID, err)
	}
	return nil
}

func (s *InstrumentedStore) ListUserIDs(ctx context.Context) ([]string, error) {
	start := time.Now()
	ids, err := s.next.ListUserIDs(ctx)
	s.metrics.ObserveCall(s.next.Backend(), "list_user_ids", err, time.Since(start))
	if err != nil {
		return nil, xerrors.NewAccountStoreError(s.next.Backend(), "ListUserIDs", err)
	}
	return ids, nil
}

func (s *InstrumentedStore) Backend() string {
	return s.next.Backend()
}

func (s *InstrumentedStore) wrap(operation, userID string, err error) error {
	return xerrors.NewAccountStoreError(s.next.Backend(), operation, err).
		WithMetadata("user_id", userID)
}
