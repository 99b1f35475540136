package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"

	"stellar-federation/internal/pkg/log"
	"stellar-federation/internal/pkg/response"
	"stellar-federation/internal/pkg/xerrors"
)

// RecoveryMiddleware 捕获处理器 panic 并返回 500
func RecoveryMiddleware(logger log.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}

				ctx := c.Request().Context()
				logger.ErrorContext(ctx, "应用程序 panic",
					log.Any("panic_value", r),
					log.String("path", c.Request().URL.Path),
					log.String("method", c.Request().Method),
					log.String("stack", string(debug.Stack())),
				)

				appErr := xerrors.FromCode(xerrors.CodeInternalError).
					WithService("echo-middleware", "recovery").
					WithMetadata("panic_value", fmt.Sprintf("%v", r))

				if c.Response().Committed {
					err = appErr
					return
				}
				err = response.EchoError(c, appErr)
			}()

			return next(c)
		}
	}
}
