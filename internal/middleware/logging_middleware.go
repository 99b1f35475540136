package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"stellar-federation/internal/pkg/ctxkey"
	"stellar-federation/internal/pkg/log"
)

// LoggingConfig 日志配置
type LoggingConfig struct {
	// SkipPaths 跳过日志记录的路径
	SkipPaths []string

	// LogQuery 是否记录查询串（联邦查询中包含被查询的地址）
	LogQuery bool

	// SensitiveHeaders 需要脱敏的 Header
	SensitiveHeaders []string
}

// DefaultLoggingConfig 默认日志配置
func DefaultLoggingConfig() *LoggingConfig {
	return &LoggingConfig{
		SkipPaths: []string{
			"/health",
			"/readyz",
			"/metrics",
			"/favicon.ico",
		},
		LogQuery: true,
		SensitiveHeaders: []string{
			echo.HeaderAuthorization,
			echo.HeaderCookie,
			"X-Session-Token",
		},
	}
}

// LoggingMiddleware 日志中间件
func LoggingMiddleware(logger log.Logger) echo.MiddlewareFunc {
	return LoggingMiddlewareWithConfig(logger, DefaultLoggingConfig())
}

// LoggingMiddlewareWithConfig 带配置的日志中间件
func LoggingMiddlewareWithConfig(logger log.Logger, config *LoggingConfig) echo.MiddlewareFunc {
	if config == nil {
		config = DefaultLoggingConfig()
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if shouldSkip(req.URL.Path, config.SkipPaths) {
				return next(c)
			}

			start := time.Now()
			ctx := req.Context()

			fields := []any{
				log.String("method", req.Method),
				log.String("path", req.URL.Path),
				log.String("client_ip", c.RealIP()),
			}
			if config.LogQuery && req.URL.RawQuery != "" {
				fields = append(fields, log.String("query", req.URL.RawQuery))
			}

			logger.DebugContext(ctx, "请求开始",
				append(fields, log.Any("headers", sanitizeHeaders(req.Header, config.SensitiveHeaders)))...)

			err := next(c)

			// 认证中间件可能替换了请求 context
			ctx = c.Request().Context()
			statusCode := c.Response().Status
			fields = append(fields,
				log.Int("status_code", statusCode),
				log.Duration("duration", time.Since(start).Milliseconds()),
				log.Int64("response_size", c.Response().Size),
			)
			if route := c.Path(); route != "" {
				fields = append(fields, log.String("route", route))
			}
			if userID := ctxkey.GetString(ctx, ctxkey.UserID); userID != "" {
				fields = append(fields, log.String("caller_id", userID))
			}

			switch {
			case err != nil:
				fields = append(fields, log.Err(err))
				logger.ErrorContext(ctx, "请求处理出错", fields...)
			case statusCode >= 500:
				logger.ErrorContext(ctx, "请求完成（服务器错误）", fields...)
			case statusCode >= 400:
				logger.WarnContext(ctx, "请求完成（客户端错误）", fields...)
			default:
				logger.InfoContext(ctx, "请求完成", fields...)
			}

			return err
		}
	}
}

func shouldSkip(path string, skipPaths []string) bool {
	for _, p := range skipPaths {
		if path == p || (strings.HasSuffix(p, "/*") && strings.HasPrefix(path, strings.TrimSuffix(p, "*"))) {
			return true
		}
	}
	return false
}

func sanitizeHeaders(headers http.Header, sensitive []string) map[string]string {
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		if len(v) == 0 {
			continue
		}
		redacted := false
		for _, s := range sensitive {
			if strings.EqualFold(k, s) {
				redacted = true
				break
			}
		}
		if redacted {
			out[k] = "***"
		} else {
			out[k] = v[0]
		}
	}
	return out
}
