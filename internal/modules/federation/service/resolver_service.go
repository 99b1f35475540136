// Package service 实现联邦解析与发现文档的核心逻辑
package service

import (
	"context"
	"time"

	"stellar-federation/internal/domain/federation"
	"stellar-federation/internal/pkg/ctxkey"
	"stellar-federation/internal/pkg/log"
	"stellar-federation/internal/pkg/metrics"
	"stellar-federation/internal/repository/entity"
	"stellar-federation/internal/repository/interfaces"
)

// ResolverService 联邦解析器，启动时构建一次，请求间无状态共享
type ResolverService struct {
	directory interfaces.UserDirectory
	store     interfaces.AccountStore
	siteHost  string
	logger    log.Logger
	metrics   *metrics.FederationMetrics
}

// NewResolverService 创建联邦解析器
func NewResolverService(
	directory interfaces.UserDirectory,
	store interfaces.AccountStore,
	site SiteConfig,
	logger log.Logger,
) (*ResolverService, error) {
	host, err := site.Host()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.GetLogger()
	}

	return &ResolverService{
		directory: directory,
		store:     store,
		siteHost:  host,
		logger:    logger,
		metrics:   metrics.DefaultFederationMetrics,
	}, nil
}

// SiteHost 返回负责的站点主机名
func (s *ResolverService) SiteHost() string {
	return s.siteHost
}

// Resolve 按协议解析一次查询
// 协议错误以 Result 返回；只有目录或存储故障才返回 error
func (s *ResolverService) Resolve(ctx context.Context, query federation.Query) (federation.Result, error) {
	start := time.Now()
	result, outcome, err := s.resolve(ctx, query)
	if err != nil {
		outcome = metrics.OutcomeFailure
	}
	s.metrics.RecordLookup(outcome, time.Since(start))
	return result, err
}

func (s *ResolverService) resolve(ctx context.Context, query federation.Query) (federation.Result, string, error) {
	if !query.HasType || !query.HasQ {
		return federation.ErrMissingParams(), metrics.OutcomeInvalidRequest, nil
	}
	if query.Type != federation.QueryTypeName {
		return federation.ErrNotImplemented(), metrics.OutcomeNotImplemented, nil
	}

	addr, ok := federation.ParseAddress(query.Q)
	if !ok {
		return federation.ErrInvalidQuery(), metrics.OutcomeInvalidQuery, nil
	}

	ctx = ctxkey.WithValue(ctx, ctxkey.FederationQuery, addr.String())

	if !addr.ServedBy(s.siteHost) {
		s.logger.DebugContext(ctx, "域名不属于本站点",
			log.String("domain", addr.Domain),
			log.String("site_host", s.siteHost))
		return federation.ErrNotFound(), metrics.OutcomeDomainMismatch, nil
	}

	matches, err := s.lookup(ctx, addr.Name)
	if err != nil {
		s.logger.ErrorContext(ctx, "联邦地址解析失败",
			log.String("address", addr.String()),
			log.Err(err))
		return federation.Result{}, metrics.OutcomeFailure, err
	}

	switch len(matches) {
	case 1:
		s.logger.InfoContext(ctx, "联邦地址解析成功",
			log.String("address", addr.String()),
			log.String("user_id", matches[0].userID))
		return federation.Success(matches[0].accountID, addr), metrics.OutcomeSuccess, nil
	case 0:
		s.logger.DebugContext(ctx, "未找到匹配账户", log.String("address", addr.String()))
		return federation.ErrNotFound(), metrics.OutcomeNotFound, nil
	default:
		s.logger.WarnContext(ctx, "多个用户匹配同一地址，拒绝解析",
			log.String("address", addr.String()),
			log.Int("matches", len(matches)))
		return federation.ErrNotFound(), metrics.OutcomeAmbiguous, nil
	}
}

type accountMatch struct {
	userID    string
	accountID string
}

// lookup 两阶段查询：目录宽泛检索，再按登录名/邮箱精确过滤并要求已设置账户 ID
func (s *ResolverService) lookup(ctx context.Context, name string) ([]accountMatch, error) {
	candidates, err := s.directory.SearchUsers(ctx, name)
	if err != nil {
		return nil, err
	}

	exact := exactMatches(candidates, name)

	matches := make([]accountMatch, 0, len(exact))
	for _, user := range exact {
		accountID, ok, err := s.store.GetAccountID(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		if !ok || accountID == "" {
			continue
		}
		matches = append(matches, accountMatch{userID: user.ID, accountID: accountID})
	}
	return matches, nil
}

// exactMatches 保留登录名或邮箱与 name 完全相同的候选，按用户 ID 去重并保持顺序
func exactMatches(candidates []*entity.DirectoryUser, name string) []*entity.DirectoryUser {
	seen := make(map[string]struct{}, len(candidates))
	exact := make([]*entity.DirectoryUser, 0, len(candidates))
	for _, c := range candidates {
		if c == nil || !c.Matches(name) {
			continue
		}
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		exact = append(exact, c)
	}
	return exact
}
