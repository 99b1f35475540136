package response

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"stellar-federation/internal/pkg/trace"
	"stellar-federation/internal/pkg/xerrors"
)

// EchoOK 输出 200 成功响应
func EchoOK[T any](c echo.Context, data T) error {
	resp := Success(&data)
	resp.TraceID = trace.GetTraceID(c.Request().Context())
	return c.JSON(http.StatusOK, resp)
}

// EchoError 将错误转换为统一的失败响应，非 AppError 视为内部错误
func EchoError(c echo.Context, err error) error {
	appErr, ok := xerrors.As(err)
	if !ok {
		appErr = xerrors.Wrap(err, xerrors.CodeInternalError, xerrors.CodeInternalError.Message())
	}

	resp := Failure(appErr)
	resp.TraceID = trace.GetTraceID(c.Request().Context())
	return c.JSON(appErr.HTTPStatus(), resp)
}
