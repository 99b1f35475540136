// File: internal/pkg/trace/middleware.go
package trace

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"stellar-federation/internal/pkg/ctxkey"
)

// Middleware Echo 中间件 - 提取或生成 TraceID / RequestID 并存储到 context
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			traceID := ExtractFromHeader(req.Header)
			requestID := uuid.NewString()

			ctx := WithTraceID(req.Context(), traceID)
			ctx = WithRequestID(ctx, requestID)
			ctx = ctxkey.WithValue(ctx, ctxkey.HTTPMethod, req.Method)
			c.SetRequest(req.WithContext(ctx))

			// 回写到响应头，方便客户端关联
			c.Response().Header().Set("X-Trace-Id", traceID)
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)
			c.Set(string(ctxkey.TraceID), traceID)

			return next(c)
		}
	}
}
