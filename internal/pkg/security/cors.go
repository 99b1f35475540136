// Package security 提供通用的安全相关中间件
package security

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// CORSConfig CORS 配置
type CORSConfig struct {
	AllowOrigins  []string
	AllowMethods  []string
	AllowHeaders  []string
	ExposeHeaders []string
}

// DefaultCORSConfig 联邦协议要求任意来源可读，因此不携带凭据、允许所有来源
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			"X-Trace-Id",
			"X-Request-Id",
			"X-Session-Token",
		},
		ExposeHeaders: []string{
			"X-Trace-Id",
			echo.HeaderXRequestID,
		},
	}
}

// CORSMiddleware CORS 中间件
func CORSMiddleware() echo.MiddlewareFunc {
	return CORSMiddlewareWithConfig(DefaultCORSConfig())
}

// CORSMiddlewareWithConfig 使用自定义配置的 CORS 中间件
func CORSMiddlewareWithConfig(config CORSConfig) echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  config.AllowOrigins,
		AllowMethods:  config.AllowMethods,
		AllowHeaders:  config.AllowHeaders,
		ExposeHeaders: config.ExposeHeaders,
	})
}

// AllowAnyOrigin 在响应上直接写入 Access-Control-Allow-Origin: *
// 中间件只在请求带 Origin 时写该头，协议端点需要无条件返回
func AllowAnyOrigin(c echo.Context) {
	c.Response().Header().Set(echo.HeaderAccessControlAllowOrigin, "*")
}

// SecurityHeadersMiddleware 安全响应头，HSTS 仅对 TLS 请求生效
func SecurityHeadersMiddleware() echo.MiddlewareFunc {
	return middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
	})
}
