// File: internal/pkg/metrics/error_metrics.go
package metrics

import (
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"stellar-federation/internal/pkg/xerrors"
)

// ErrorMetrics 应用错误指标
type ErrorMetrics struct {
	// 错误总数（按错误码、分类、级别）
	ErrorsByCode *prometheus.CounterVec

	// 错误响应的 HTTP 状态码
	HTTPResponses *prometheus.CounterVec

	// 严重错误（外部依赖故障）
	CriticalErrors *prometheus.CounterVec
}

// DefaultErrorMetrics 默认的错误指标实例
var DefaultErrorMetrics *ErrorMetrics

func init() {
	DefaultErrorMetrics = NewErrorMetricsWithRegistry(Namespace, GetRegisterer())
}

// NewErrorMetricsWithRegistry 使用指定注册表创建错误指标
func NewErrorMetricsWithRegistry(namespace string, registerer prometheus.Registerer) *ErrorMetrics {
	factory := promauto.With(registerer)

	return &ErrorMetrics{
		ErrorsByCode: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "errors",
				Name:      "total",
				Help:      "Total number of application errors by code, category and level",
			},
			[]string{"service", "method", "code", "category", "level"},
		),
		HTTPResponses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "errors",
				Name:      "http_responses_total",
				Help:      "Error responses by HTTP status code",
			},
			[]string{"service", "status_code", "method"},
		),
		CriticalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "errors",
				Name:      "critical_total",
				Help:      "Critical errors by code",
			},
			[]string{"service", "code"},
		),
	}
}

// RecordError 记录一次 AppError
func (m *ErrorMetrics) RecordError(appErr *xerrors.AppError, statusCode int, method, service string) {
	if appErr == nil {
		return
	}

	service = normalizeServiceName(service)
	method = normalizeMethod(method)
	code := strconv.Itoa(appErr.Code.ToInt())

	m.ErrorsByCode.WithLabelValues(service, method, code, appErr.Category, appErr.Level.String()).Inc()
	m.HTTPResponses.WithLabelValues(service, strconv.Itoa(statusCode), method).Inc()
	if appErr.IsCritical() {
		m.CriticalErrors.WithLabelValues(service, code).Inc()
	}
}

func normalizeMethod(method string) string {
	if method == "" {
		return "UNKNOWN"
	}
	return strings.ToUpper(method)
}
