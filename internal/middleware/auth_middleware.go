package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"stellar-federation/internal/pkg/ctxkey"
	"stellar-federation/internal/pkg/log"
	"stellar-federation/internal/pkg/xerrors"
)

// SessionValidator 校验会话令牌并返回身份 ID（由 Kratos 客户端实现）
type SessionValidator interface {
	ValidateSession(ctx context.Context, sessionToken string) (identityID string, err error)
}

// CurrentUser 当前请求的调用方
type CurrentUser struct {
	UserID       string // Kratos Identity ID
	SessionToken string
}

// SessionAuthMiddleware 从 X-Session-Token 或 Bearer 令牌中解析调用方身份
func SessionAuthMiddleware(sessions SessionValidator, logger log.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			token := extractSessionToken(c)
			if token == "" {
				logger.WarnContext(ctx, "认证失败: 缺少会话令牌")
				return xerrors.NewAuthError("未授权访问: 缺少会话令牌").WithService("middleware", "auth")
			}

			identityID, err := sessions.ValidateSession(ctx, token)
			if err != nil {
				if appErr, ok := xerrors.As(err); ok && appErr.Code != xerrors.CodeAuthenticationFailed {
					return appErr
				}
				logger.WarnContext(ctx, "认证失败: 会话无效", log.Err(err))
				return xerrors.NewAuthError("会话无效或已过期").WithService("middleware", "auth")
			}

			ctx = ctxkey.WithValue(ctx, ctxkey.UserID, identityID)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Set(string(ctxkey.CurrentUser), &CurrentUser{UserID: identityID, SessionToken: token})

			logger.DebugContext(ctx, "用户认证成功", log.String("user_id", identityID))
			return next(c)
		}
	}
}

// GetCurrentUser 从 Echo Context 中获取当前调用方
func GetCurrentUser(c echo.Context) (*CurrentUser, error) {
	currentUser, ok := c.Get(string(ctxkey.CurrentUser)).(*CurrentUser)
	if !ok || currentUser == nil {
		return nil, xerrors.NewAuthError("未找到用户信息")
	}
	return currentUser, nil
}

func extractSessionToken(c echo.Context) string {
	if token := strings.TrimSpace(c.Request().Header.Get("X-Session-Token")); token != "" {
		return token
	}
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
