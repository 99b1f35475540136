package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stellar-federation/internal/domain/federation"
	"stellar-federation/internal/pkg/log"
	"stellar-federation/internal/pkg/metrics"
	"stellar-federation/internal/repository/entity"
	"stellar-federation/internal/repository/impl"
)

const (
	aliceAccount = "GBRPYHIL2CI3FNQ4BXLFMNDLFJUNPU2HY3ZMFSHONUCEOASW7QC7OX2H"
	carolAccount = "GCAROLXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXX"
	daveAccount  = "GDAVEXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXX"
)

// stubDirectory 返回固定候选，用于模拟模糊检索结果
type stubDirectory struct {
	candidates []*entity.DirectoryUser
	err        error
}

func (s *stubDirectory) SearchUsers(context.Context, string) ([]*entity.DirectoryUser, error) {
	return s.candidates, s.err
}

func (s *stubDirectory) GetUser(context.Context, string) (*entity.DirectoryUser, error) {
	return nil, errors.New("not used")
}

func (s *stubDirectory) Backend() string { return "stub" }

type failingStore struct {
	*impl.MemoryAccountStore
}

func (failingStore) GetAccountID(context.Context, string) (string, bool, error) {
	return "", false, errors.New("store unavailable")
}

func testLogger() log.Logger {
	return log.NewLogger(slog.NewTextHandler(io.Discard, nil))
}

func newResolver(t *testing.T, dir *impl.MemoryDirectory, store *impl.MemoryAccountStore) (*ResolverService, *metrics.FederationMetrics) {
	t.Helper()
	s, err := NewResolverService(dir, store, SiteConfig{URL: "https://example.com", Name: "Example"}, testLogger())
	require.NoError(t, err)
	m := metrics.NewFederationMetricsWithRegistry("test", prometheus.NewRegistry())
	s.metrics = m
	return s, m
}

func seededResolver(t *testing.T) (*ResolverService, *metrics.FederationMetrics) {
	t.Helper()
	dir := impl.NewMemoryDirectory(
		&entity.DirectoryUser{ID: "1", Login: "alice", Email: "alice@mail.example.com"},
		&entity.DirectoryUser{ID: "2", Login: "alicia", Email: "alicia@mail.example.com"},
		&entity.DirectoryUser{ID: "3", Login: "bob", Email: "bob@mail.example.com"},
		&entity.DirectoryUser{ID: "4", Login: "carol", Email: "carol@mail.example.com"},
		&entity.DirectoryUser{ID: "5", Login: "carol2", Email: "carol"},
		&entity.DirectoryUser{ID: "6", Login: "dave", Email: "dave@mail.example.com"},
		&entity.DirectoryUser{ID: "7", Login: "dave.old", Email: "dave"},
	)
	store := impl.NewMemoryAccountStore(map[string]string{
		"1": aliceAccount,
		"2": "GALICIAXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXX",
		"4": carolAccount,
		"5": carolAccount,
		"6": daveAccount,
		"7": "",
	})
	return newResolver(t, dir, store)
}

func resolveBody(t *testing.T, s *ResolverService, query federation.Query) (int, string) {
	t.Helper()
	result, err := s.Resolve(context.Background(), query)
	require.NoError(t, err)
	body, err := result.Body()
	require.NoError(t, err)
	return result.HTTPStatus(), string(body)
}

func TestResolve_Scenarios(t *testing.T) {
	s, _ := seededResolver(t)

	tests := []struct {
		name       string
		query      federation.Query
		wantStatus int
		wantBody   string
	}{
		{
			name:       "精确匹配登录名",
			query:      federation.NewQuery("name", "alice*example.com"),
			wantStatus: http.StatusOK,
			wantBody:   `{"account_id":"` + aliceAccount + `","stellar_address":"alice*example.com"}`,
		},
		{
			name:       "按邮箱匹配",
			query:      federation.NewQuery("name", "alice@mail.example.com*example.com"),
			wantStatus: http.StatusOK,
			wantBody:   `{"account_id":"` + aliceAccount + `","stellar_address":"alice@mail.example.com*example.com"}`,
		},
		{
			name:       "域名不属于本站",
			query:      federation.NewQuery("name", "alice*other.com"),
			wantStatus: http.StatusNotFound,
			wantBody:   `{"code":"not_found","message":"Account not found"}`,
		},
		{
			name:       "不支持的查询类型",
			query:      federation.NewQuery("email", "alice*example.com"),
			wantStatus: http.StatusNotImplemented,
			wantBody:   `{"code":"not_implemented","message":"This operation is not implemented. Only type=name is supported."}`,
		},
		{
			name:       "缺少分隔符",
			query:      federation.NewQuery("name", "aliceexample.com"),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"code":"invalid_request","message":"Please use an address of the form name*domain.com"}`,
		},
		{
			name:       "用户未设置账户",
			query:      federation.NewQuery("name", "bob*example.com"),
			wantStatus: http.StatusNotFound,
			wantBody:   `{"code":"not_found","message":"Account not found"}`,
		},
		{
			name:       "用户不存在",
			query:      federation.NewQuery("name", "mallory*example.com"),
			wantStatus: http.StatusNotFound,
			wantBody:   `{"code":"not_found","message":"Account not found"}`,
		},
		{
			name:       "两个用户同时匹配时拒绝解析",
			query:      federation.NewQuery("name", "carol*example.com"),
			wantStatus: http.StatusNotFound,
			wantBody:   `{"code":"not_found","message":"Account not found"}`,
		},
		{
			name:       "空账户不参与匹配计数",
			query:      federation.NewQuery("name", "dave*example.com"),
			wantStatus: http.StatusOK,
			wantBody:   `{"account_id":"` + daveAccount + `","stellar_address":"dave*example.com"}`,
		},
		{
			name:       "域名为站点主机的后缀",
			query:      federation.NewQuery("name", "alice*ample.com"),
			wantStatus: http.StatusOK,
			wantBody:   `{"account_id":"` + aliceAccount + `","stellar_address":"alice*ample.com"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := resolveBody(t, s, tt.query)
			assert.Equal(t, tt.wantStatus, status)
			assert.JSONEq(t, tt.wantBody, body)
		})
	}
}

func TestResolve_MissingParams(t *testing.T) {
	s, _ := seededResolver(t)

	tests := []struct {
		name  string
		query federation.Query
	}{
		{"两个参数都缺失", federation.Query{}},
		{"缺少 type", federation.Query{Q: "alice*example.com", HasQ: true}},
		{"缺少 q", federation.Query{Type: "name", HasType: true}},
		{"缺少 q 且 type 不支持", federation.Query{Type: "id", HasType: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := resolveBody(t, s, tt.query)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.JSONEq(t, `{"code":"invalid_request","message":"both q and type parameter are required"}`, body)
		})
	}
}

func TestResolve_UnsupportedType(t *testing.T) {
	s, _ := seededResolver(t)

	for _, q := range []string{"alice*example.com", "", "garbage", "a*b*c"} {
		for _, typ := range []string{"id", "txid", "forward", "", "Name"} {
			status, body := resolveBody(t, s, federation.NewQuery(typ, q))
			assert.Equal(t, http.StatusNotImplemented, status, "type=%q q=%q", typ, q)
			assert.Contains(t, body, `"code":"not_implemented"`)
		}
	}
}

func TestResolve_InvalidAddress(t *testing.T) {
	s, _ := seededResolver(t)

	for _, q := range []string{"", "alice", "alice*", "*example.com", "*", "a*b*c", "alice**example.com"} {
		t.Run(q, func(t *testing.T) {
			status, body := resolveBody(t, s, federation.NewQuery("name", q))
			assert.Equal(t, http.StatusBadRequest, status)
			assert.JSONEq(t, `{"code":"invalid_request","message":"Please use an address of the form name*domain.com"}`, body)
		})
	}
}

func TestResolve_ForeignDomainNeverResolves(t *testing.T) {
	s, _ := seededResolver(t)

	for _, q := range []string{"alice*other.com", "alice*example.com.evil.org", "alice*www.example.com", "bob*example.org"} {
		t.Run(q, func(t *testing.T) {
			status, body := resolveBody(t, s, federation.NewQuery("name", q))
			assert.Equal(t, http.StatusNotFound, status)
			assert.JSONEq(t, `{"code":"not_found","message":"Account not found"}`, body)
		})
	}
}

func TestResolve_CaseInsensitive(t *testing.T) {
	s, _ := seededResolver(t)

	want := `{"account_id":"` + aliceAccount + `","stellar_address":"alice*example.com"}`
	for _, q := range []string{"Alice*Example.com", "alice*example.com", "ALICE*EXAMPLE.COM"} {
		t.Run(q, func(t *testing.T) {
			status, body := resolveBody(t, s, federation.NewQuery("name", q))
			assert.Equal(t, http.StatusOK, status)
			assert.JSONEq(t, want, body)
		})
	}
}

func TestResolve_HostAndAddressShareLowercasing(t *testing.T) {
	dir := impl.NewMemoryDirectory(&entity.DirectoryUser{ID: "1", Login: "kate"})
	store := impl.NewMemoryAccountStore(map[string]string{"1": aliceAccount})
	s, err := NewResolverService(dir, store, SiteConfig{URL: "https://\u212Aelvin.Example", Name: "Example"}, testLogger())
	require.NoError(t, err)
	assert.Equal(t, "kelvin.example", s.SiteHost())

	status, body := resolveBody(t, s, federation.NewQuery("name", "\u212Aate*\u212Aelvin.example"))
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"account_id":"`+aliceAccount+`","stellar_address":"kate*kelvin.example"}`, body)
}

func TestResolve_Idempotent(t *testing.T) {
	s, _ := seededResolver(t)

	for _, q := range []string{"alice*example.com", "carol*example.com", "alice", "alice*other.com"} {
		query := federation.NewQuery("name", q)
		status1, body1 := resolveBody(t, s, query)
		status2, body2 := resolveBody(t, s, query)
		assert.Equal(t, status1, status2)
		assert.Equal(t, body1, body2)
	}
}

func TestResolve_DeduplicatesCandidates(t *testing.T) {
	alice := &entity.DirectoryUser{ID: "1", Login: "alice", Email: "alice"}
	dir := &stubDirectory{candidates: []*entity.DirectoryUser{
		alice,
		alice,
		{ID: "2", Login: "alicia", Email: "alicia@example.com"},
		nil,
	}}
	store := impl.NewMemoryAccountStore(map[string]string{"1": aliceAccount, "2": carolAccount})

	s, err := NewResolverService(dir, store, SiteConfig{URL: "https://example.com", Name: "Example"}, testLogger())
	require.NoError(t, err)

	status, body := resolveBody(t, s, federation.NewQuery("name", "alice*example.com"))
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"account_id":"`+aliceAccount+`","stellar_address":"alice*example.com"}`, body)
}

func TestResolve_CollaboratorFailure(t *testing.T) {
	t.Run("目录故障", func(t *testing.T) {
		dir := &stubDirectory{err: errors.New("directory unavailable")}
		s, err := NewResolverService(dir, impl.NewMemoryAccountStore(nil), SiteConfig{URL: "https://example.com", Name: "Example"}, testLogger())
		require.NoError(t, err)
		m := metrics.NewFederationMetricsWithRegistry("test", prometheus.NewRegistry())
		s.metrics = m

		result, err := s.Resolve(context.Background(), federation.NewQuery("name", "alice*example.com"))
		require.Error(t, err)
		assert.False(t, result.OK())
		assert.Equal(t, float64(1), testutil.ToFloat64(m.LookupsTotal.WithLabelValues(metrics.GetServiceName(), metrics.OutcomeFailure)))
	})

	t.Run("存储故障", func(t *testing.T) {
		dir := impl.NewMemoryDirectory(&entity.DirectoryUser{ID: "1", Login: "alice"})
		s, err := NewResolverService(dir, failingStore{impl.NewMemoryAccountStore(nil)}, SiteConfig{URL: "https://example.com", Name: "Example"}, testLogger())
		require.NoError(t, err)

		_, err = s.Resolve(context.Background(), federation.NewQuery("name", "alice*example.com"))
		require.Error(t, err)
	})
}

func TestResolve_Metrics(t *testing.T) {
	s, m := seededResolver(t)
	service := metrics.GetServiceName()

	resolveBody(t, s, federation.NewQuery("name", "alice*example.com"))
	resolveBody(t, s, federation.NewQuery("name", "carol*example.com"))
	resolveBody(t, s, federation.NewQuery("name", "alice*other.com"))
	resolveBody(t, s, federation.Query{})

	assert.Equal(t, float64(1), testutil.ToFloat64(m.LookupsTotal.WithLabelValues(service, metrics.OutcomeSuccess)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.LookupsTotal.WithLabelValues(service, metrics.OutcomeAmbiguous)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.LookupsTotal.WithLabelValues(service, metrics.OutcomeDomainMismatch)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.LookupsTotal.WithLabelValues(service, metrics.OutcomeInvalidRequest)))
}

func TestNewResolverService_InvalidSite(t *testing.T) {
	_, err := NewResolverService(impl.NewMemoryDirectory(), impl.NewMemoryAccountStore(nil), SiteConfig{URL: "not a url"}, testLogger())
	require.Error(t, err)
}
