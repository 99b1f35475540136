// Package service 账户 ID 编辑：鉴权、校验、写入并发布变更事件
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"stellar-federation/internal/modules/profile/dto"
	"stellar-federation/internal/pkg/log"
	"stellar-federation/internal/pkg/metrics"
	"stellar-federation/internal/pkg/notify"
	"stellar-federation/internal/pkg/validator"
	"stellar-federation/internal/pkg/xerrors"
	"stellar-federation/internal/repository/interfaces"
)

// 账户变更动作
const (
	ActionSet   = "set"
	ActionClear = "clear"
)

// EditAuthorizer 判断调用方能否编辑目标用户，由 Keto 客户端实现
type EditAuthorizer interface {
	CanEditUser(ctx context.Context, editorID, targetUserID string) (bool, error)
}

// EventPublisher 发布账户变更事件
type EventPublisher interface {
	PublishAccountEvent(ctx context.Context, event notify.AccountEvent) error
}

// ProfileService 账户 ID 编辑服务
type ProfileService struct {
	directory  interfaces.UserDirectory
	store      interfaces.AccountStore
	authorizer EditAuthorizer
	publisher  EventPublisher
	logger     log.Logger
	metrics    *metrics.FederationMetrics
	now        func() time.Time
}

// NewProfileService 创建编辑服务
// authorizer 为 nil 时只允许用户编辑自己；publisher 为 nil 时不发布事件
func NewProfileService(
	directory interfaces.UserDirectory,
	store interfaces.AccountStore,
	authorizer EditAuthorizer,
	publisher EventPublisher,
	logger log.Logger,
) *ProfileService {
	if logger == nil {
		logger = log.GetLogger()
	}
	return &ProfileService{
		directory:  directory,
		store:      store,
		authorizer: authorizer,
		publisher:  publisher,
		logger:     logger,
		metrics:    metrics.DefaultFederationMetrics,
		now:        time.Now,
	}
}

// GetAccount 读取目标用户的账户 ID
func (s *ProfileService) GetAccount(ctx context.Context, callerID, userID string) (*dto.AccountResponse, error) {
	if err := s.authorize(ctx, callerID, userID); err != nil {
		return nil, err
	}
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	accountID, _, err := s.store.GetAccountID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.AccountResponse{UserID: userID, AccountID: accountID}, nil
}

// SetAccount 设置目标用户的账户 ID，去除首尾空白后为空则清除
func (s *ProfileService) SetAccount(ctx context.Context, callerID, userID, accountID string) (*dto.AccountResponse, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return s.ClearAccount(ctx, callerID, userID)
	}
	if !validator.IsStellarAccount(accountID) {
		return nil, xerrors.New(xerrors.CodeInvalidStellarAccount, "请输入以 G 开头的 56 位 Stellar 公钥").
			WithMetadata("field", "account_id")
	}

	if err := s.authorize(ctx, callerID, userID); err != nil {
		return nil, err
	}
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.store.SetAccountID(ctx, userID, accountID); err != nil {
		return nil, err
	}
	s.afterChange(ctx, ActionSet, notify.AccountEvent{
		UserID:    userID,
		AccountID: accountID,
		ChangedBy: callerID,
	})
	return &dto.AccountResponse{UserID: userID, AccountID: accountID}, nil
}

// ClearAccount 清除目标用户的账户 ID
func (s *ProfileService) ClearAccount(ctx context.Context, callerID, userID string) (*dto.AccountResponse, error) {
	if err := s.authorize(ctx, callerID, userID); err != nil {
		return nil, err
	}
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.store.DeleteAccountID(ctx, userID); err != nil {
		return nil, err
	}
	s.afterChange(ctx, ActionClear, notify.AccountEvent{
		UserID:    userID,
		ChangedBy: callerID,
	})
	return &dto.AccountResponse{UserID: userID}, nil
}

// authorize 本人或被授予 edit 关系的调用方可以编辑
func (s *ProfileService) authorize(ctx context.Context, callerID, userID string) error {
	if callerID == "" {
		return xerrors.NewAuthError("未找到用户信息")
	}
	if callerID == userID {
		return nil
	}
	if s.authorizer == nil {
		return xerrors.NewPermissionError("user:"+userID, "edit")
	}

	allowed, err := s.authorizer.CanEditUser(ctx, callerID, userID)
	if err != nil {
		return err
	}
	if !allowed {
		s.logger.WarnContext(ctx, "无权编辑该用户的账户",
			log.String("caller_id", callerID),
			log.String("target_user_id", userID))
		return xerrors.NewPermissionError("user:"+userID, "edit")
	}
	return nil
}

func (s *ProfileService) ensureUser(ctx context.Context, userID string) error {
	_, err := s.directory.GetUser(ctx, userID)
	if errors.Is(err, interfaces.ErrUserNotFound) {
		return xerrors.NewUserNotFoundError(userID)
	}
	return err
}

// afterChange 记录指标和业务日志并发布事件，发布失败只记日志
func (s *ProfileService) afterChange(ctx context.Context, action string, event notify.AccountEvent) {
	event.At = s.now().UTC()
	s.metrics.RecordAccountChange(action)
	log.LogBusinessEvent(ctx, "stellar_account_"+action, "user", event.UserID, map[string]interface{}{
		"changed_by": event.ChangedBy,
	})

	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishAccountEvent(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "发布账户变更事件失败",
			log.String("user_id", event.UserID),
			log.String("action", action),
			log.Err(err))
	}
}
