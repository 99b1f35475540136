// File: internal/pkg/metrics/resource_metrics.go
package metrics

import (
	"database/sql"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ResourceMetrics 数据库连接池与 Redis 操作指标
type ResourceMetrics struct {
	DBConnections *prometheus.GaugeVec // 按状态 open/in_use/idle
	DBWaitCount   *prometheus.GaugeVec // 累计等待次数（取自 sql.DBStats）

	RedisOperations        *prometheus.CounterVec
	RedisOperationDuration *prometheus.HistogramVec
	RedisErrors            *prometheus.CounterVec
}

// DefaultResourceMetrics 默认的资源指标实例
var DefaultResourceMetrics *ResourceMetrics

// RedisOperationBuckets Redis 操作延迟 buckets，单位秒
var RedisOperationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}

func init() {
	DefaultResourceMetrics = NewResourceMetricsWithRegistry(Namespace, GetRegisterer())
}

// NewResourceMetricsWithRegistry 使用指定注册表创建资源指标
func NewResourceMetricsWithRegistry(namespace string, registerer prometheus.Registerer) *ResourceMetrics {
	factory := promauto.With(registerer)

	return &ResourceMetrics{
		DBConnections: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "db",
				Name:      "connections",
				Help:      "Current number of database connections by state (open/in_use/idle)",
			},
			[]string{"service", "database", "state"},
		),
		DBWaitCount: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "db",
				Name:      "wait_count",
				Help:      "Cumulative number of connections waited for",
			},
			[]string{"service", "database"},
		),
		RedisOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "redis",
				Name:      "operations_total",
				Help:      "Total number of Redis operations by operation and result",
			},
			[]string{"operation", "result", "service"},
		),
		RedisOperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "redis",
				Name:      "operation_duration_seconds",
				Help:      "Redis operation latency",
				Buckets:   RedisOperationBuckets,
			},
			[]string{"operation", "service"},
		),
		RedisErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "redis",
				Name:      "errors_total",
				Help:      "Total number of Redis errors by type",
			},
			[]string{"error_type", "service"},
		),
	}
}

// RecordDBPoolStats 记录 sql.DB 连接池快照
func (m *ResourceMetrics) RecordDBPoolStats(service, database string, stats sql.DBStats) {
	service = normalizeServiceName(service)
	m.DBConnections.WithLabelValues(service, database, "open").Set(float64(stats.OpenConnections))
	m.DBConnections.WithLabelValues(service, database, "in_use").Set(float64(stats.InUse))
	m.DBConnections.WithLabelValues(service, database, "idle").Set(float64(stats.Idle))
	m.DBWaitCount.WithLabelValues(service, database).Set(float64(stats.WaitCount))
}

// RecordRedisOperation 记录 Redis 操作结果与耗时
func (m *ResourceMetrics) RecordRedisOperation(operation string, success bool, duration time.Duration, service string) {
	service = normalizeServiceName(service)
	result := "success"
	if !success {
		result = "error"
	}

	m.RedisOperations.WithLabelValues(operation, result, service).Inc()
	m.RedisOperationDuration.WithLabelValues(operation, service).Observe(duration.Seconds())
}

// RecordRedisError 记录 Redis 错误类型（timeout / connection_error 等）
func (m *ResourceMetrics) RecordRedisError(errorType, service string) {
	m.RedisErrors.WithLabelValues(errorType, normalizeServiceName(service)).Inc()
}
