// File: internal/pkg/metrics/middleware.go
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Middleware 记录 HTTP 请求数、延迟和进行中请求数，标签使用路由模板
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			route := c.Path()
			if IsHealthCheckEndpoint(route) {
				return next(c)
			}

			m := DefaultHTTPMetrics
			service := GetServiceName()
			start := time.Now()

			m.IncInProgress(service)
			defer m.DecInProgress(service)

			if route != "" {
				c.Response().Header().Set("X-Route-Pattern", route)
			}

			err := next(c)

			status := c.Response().Status
			if err != nil {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				} else if !c.Response().Committed {
					status = http.StatusInternalServerError
				}
			}

			m.RecordRequest(service, route, c.Request().Method, status, time.Since(start))
			return err
		}
	}
}

// EchoHandler 暴露 /metrics，gatherer 为 nil 时使用默认注册表
func EchoHandler(gatherer prometheus.Gatherer) echo.HandlerFunc {
	var h http.Handler
	if gatherer == nil {
		h = promhttp.Handler()
	} else {
		h = promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
	}
	return echo.WrapHandler(h)
}
