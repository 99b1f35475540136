package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"stellar-federation/internal/pkg/log"
	"stellar-federation/internal/pkg/metrics"
	"stellar-federation/internal/pkg/response"
	"stellar-federation/internal/pkg/xerrors"
)

// ErrorMiddleware 统一错误处理中间件，将处理器返回的错误写成统一响应
func ErrorMiddleware(logger log.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}
			if c.Response().Committed {
				return err
			}

			ctx := c.Request().Context()

			var (
				appErr  *xerrors.AppError
				echoErr *echo.HTTPError
			)
			switch {
			case errors.As(err, &appErr):
			case errors.As(err, &echoErr):
				appErr = convertEchoError(echoErr)
			default:
				appErr = xerrors.NewWithError(xerrors.CodeInternalError, "系统内部错误", err).
					WithService("echo-middleware", "error_handler")
				logger.ErrorContext(ctx, "未处理的错误",
					log.Err(err),
					log.String("error_type", fmt.Sprintf("%T", err)),
				)
			}

			status := appErr.HTTPStatus()
			if appErr.Level >= xerrors.LevelError {
				log.LogAppError(ctx, "请求失败", appErr)
			}
			metrics.DefaultErrorMetrics.RecordError(appErr, status, c.Request().Method, "")

			return response.EchoError(c, appErr)
		}
	}
}

// convertEchoError 将 Echo 错误转换为业务错误
func convertEchoError(echoErr *echo.HTTPError) *xerrors.AppError {
	msg := fmt.Sprintf("%v", echoErr.Message)
	switch echoErr.Code {
	case http.StatusBadRequest:
		return xerrors.New(xerrors.CodeInvalidRequest, msg)
	case http.StatusUnauthorized:
		return xerrors.FromCode(xerrors.CodeAuthenticationFailed).WithMetadata("echo_message", msg)
	case http.StatusForbidden:
		return xerrors.FromCode(xerrors.CodePermissionDenied).WithMetadata("echo_message", msg)
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return xerrors.FromCode(xerrors.CodeResourceNotFound).WithMetadata("echo_code", echoErr.Code)
	default:
		return xerrors.FromCode(xerrors.CodeInternalError).
			WithMetadata("echo_code", echoErr.Code).
			WithMetadata("echo_message", msg)
	}
}
