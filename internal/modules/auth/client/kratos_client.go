package client

import (
	"context"
	"net/http"
	"strings"

	ory "github.com/ory/kratos-client-go"

	"stellar-federation/internal/pkg/log"
	"stellar-federation/internal/pkg/xerrors"
)

// identitySearchPageSize 单次按标识符查询的上限，同一标识符理论上只对应一个身份
const identitySearchPageSize = 50

// KratosClient 封装 Ory Kratos Admin API（身份目录）和 Public API（会话校验）
type KratosClient struct {
	adminClient  *ory.APIClient
	publicClient *ory.APIClient
}

// NewKratosClient 创建 Kratos 客户端，publicURL 为空时不支持会话校验
func NewKratosClient(adminURL, publicURL string) *KratosClient {
	c := &KratosClient{adminClient: newAPIClient(adminURL)}
	if publicURL != "" {
		c.publicClient = newAPIClient(publicURL)
	}
	return c
}

func newAPIClient(url string) *ory.APIClient {
	cfg := ory.NewConfiguration()
	cfg.Servers = []ory.ServerConfiguration{{URL: strings.TrimRight(url, "/")}}
	return ory.NewAPIClient(cfg)
}

// FindIdentitiesByIdentifier 按登录标识符（用户名或邮箱）查询身份
func (c *KratosClient) FindIdentitiesByIdentifier(ctx context.Context, identifier string) ([]ory.Identity, error) {
	identities, resp, err := c.adminClient.IdentityAPI.ListIdentities(ctx).
		CredentialsIdentifier(identifier).
		PageSize(identitySearchPageSize).
		Execute()
	if appErr := kratosError(ctx, "ListIdentities", resp, err); appErr != nil {
		return nil, appErr.WithMetadata("identifier", identifier)
	}
	return identities, nil
}

// GetIdentity 根据 ID 获取身份，身份不存在时返回 CodeUserNotFound
func (c *KratosClient) GetIdentity(ctx context.Context, identityID string) (*ory.Identity, error) {
	identity, resp, err := c.adminClient.IdentityAPI.GetIdentity(ctx, identityID).Execute()
	if appErr := kratosError(ctx, "GetIdentity", resp, err); appErr != nil {
		return nil, appErr.WithMetadata("identity_id", identityID)
	}
	return identity, nil
}

// ValidateSession 校验会话令牌并返回身份 ID
func (c *KratosClient) ValidateSession(ctx context.Context, sessionToken string) (string, error) {
	if c.publicClient == nil {
		return "", xerrors.New(xerrors.CodeKratosError, "Kratos public API 未配置").
			WithService("kratos_client", "ValidateSession")
	}

	session, resp, err := c.publicClient.FrontendAPI.ToSession(ctx).
		XSessionToken(sessionToken).
		Execute()
	if appErr := kratosError(ctx, "ValidateSession", resp, err); appErr != nil {
		return "", appErr
	}

	if !session.GetActive() {
		return "", xerrors.NewAuthError("会话已失效").WithService("kratos_client", "ValidateSession")
	}
	identity := session.GetIdentity()
	if identity.Id == "" {
		return "", xerrors.NewAuthError("会话缺少身份信息").WithService("kratos_client", "ValidateSession")
	}
	return identity.Id, nil
}

// Ping 检查 Admin API 是否可达
func (c *KratosClient) Ping(ctx context.Context) error {
	_, resp, err := c.adminClient.MetadataAPI.IsAlive(ctx).Execute()
	if appErr := kratosError(ctx, "IsAlive", resp, err); appErr != nil {
		return appErr
	}
	return nil
}

// IdentityTraits 从身份 traits 中提取 email 和 username，缺失时返回空串
func IdentityTraits(identity *ory.Identity) (email, username string) {
	traits, ok := identity.Traits.(map[string]interface{})
	if !ok {
		return "", ""
	}
	email, _ = traits["email"].(string)
	username, _ = traits["username"].(string)
	return email, username
}

// kratosError 将 Kratos 调用结果转换为 AppError，成功时返回 nil
func kratosError(ctx context.Context, operation string, resp *http.Response, err error) *xerrors.AppError {
	if resp != nil && resp.StatusCode >= http.StatusBadRequest {
		log.WarnContext(ctx, "Kratos API 返回错误状态码",
			log.Int("status_code", resp.StatusCode),
			log.String("operation", operation))
		return xerrors.NewKratosAPIError(operation, resp.StatusCode).
			WithService("kratos_client", operation)
	}
	if err != nil {
		log.ErrorContext(ctx, "调用 Kratos 失败", log.String("operation", operation), log.Err(err))
		return xerrors.NewKratosError(operation, err).WithService("kratos_client", operation)
	}
	return nil
}
