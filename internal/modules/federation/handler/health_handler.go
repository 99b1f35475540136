package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"stellar-federation/internal/pkg/log"
)

// readinessTimeout 单个依赖检查的超时
const readinessTimeout = 3 * time.Second

// HealthCheck 依赖检查函数
type HealthCheck func(ctx context.Context) error

// HealthHandler 存活与就绪检查
type HealthHandler struct {
	service string
	checks  map[string]HealthCheck
	logger  log.Logger
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(service string, logger log.Logger) *HealthHandler {
	return &HealthHandler{
		service: service,
		checks:  make(map[string]HealthCheck),
		logger:  logger,
	}
}

// AddCheck 注册就绪检查项，需在服务启动前调用
func (h *HealthHandler) AddCheck(name string, check HealthCheck) {
	h.checks[name] = check
}

// Health 存活检查
// @Summary 存活检查
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"service": h.service,
	})
}

// Ready 就绪检查，任一依赖失败返回 503
// @Summary 就绪检查
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /readyz [get]
func (h *HealthHandler) Ready(c echo.Context) error {
	ctx := c.Request().Context()
	results := make(map[string]string, len(h.checks))
	healthy := true

	for name, check := range h.checks {
		checkCtx, cancel := context.WithTimeout(ctx, readinessTimeout)
		err := check(checkCtx)
		cancel()

		if err != nil {
			healthy = false
			results[name] = err.Error()
			h.logger.WarnContext(ctx, "就绪检查失败", log.String("dependency", name), log.Err(err))
			continue
		}
		results[name] = "ok"
	}

	status := http.StatusOK
	state := "ready"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "not_ready"
	}
	return c.JSON(status, map[string]interface{}{
		"status": state,
		"checks": results,
	})
}
