package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 查询结果标签
const (
	OutcomeSuccess        = "success"
	OutcomeInvalidRequest = "invalid_request"
	OutcomeInvalidQuery   = "invalid_query"
	OutcomeNotFound       = "not_found"
	OutcomeNotImplemented = "not_implemented"
	OutcomeDomainMismatch = "domain_mismatch"
	OutcomeAmbiguous      = "ambiguous"
	OutcomeFailure        = "failure"
)

// FederationMetrics 联邦解析与账户编辑指标
type FederationMetrics struct {
	LookupsTotal      *prometheus.CounterVec
	LookupDuration    *prometheus.HistogramVec
	CollaboratorCalls *prometheus.HistogramVec
	AccountChanges    *prometheus.CounterVec
	OrphansRemoved    *prometheus.CounterVec
}

// DefaultFederationMetrics 默认的联邦指标实例
var DefaultFederationMetrics *FederationMetrics

func init() {
	DefaultFederationMetrics = NewFederationMetricsWithRegistry(Namespace, GetRegisterer())
}

// NewFederationMetricsWithRegistry 使用指定注册表创建联邦指标
func NewFederationMetricsWithRegistry(namespace string, registerer prometheus.Registerer) *FederationMetrics {
	factory := promauto.With(registerer)

	return &FederationMetrics{
		LookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "lookup",
				Name:      "total",
				Help:      "Federation name lookups by outcome",
			},
			[]string{"service", "outcome"},
		),
		LookupDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "lookup",
				Name:      "duration_seconds",
				Help:      "Federation name lookup latency including directory and store calls",
				Buckets:   HTTPBuckets,
			},
			[]string{"service"},
		),
		CollaboratorCalls: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "collaborator",
				Name:      "call_duration_seconds",
				Help:      "Latency of user directory and account store calls",
				Buckets:   HTTPBuckets,
			},
			[]string{"backend", "operation", "result"},
		),
		AccountChanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "account",
				Name:      "changes_total",
				Help:      "Account identifier changes by action (set/clear)",
			},
			[]string{"service", "action"},
		),
		OrphansRemoved: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "account",
				Name:      "orphans_removed_total",
				Help:      "Account identifiers removed because their user no longer exists",
			},
			[]string{"service"},
		),
	}
}

// RecordLookup 记录一次解析的结果和耗时
func (m *FederationMetrics) RecordLookup(outcome string, duration time.Duration) {
	service := GetServiceName()
	m.LookupsTotal.WithLabelValues(service, outcome).Inc()
	m.LookupDuration.WithLabelValues(service).Observe(duration.Seconds())
}

// ObserveCall 记录目录或存储后端的一次调用
func (m *FederationMetrics) ObserveCall(backend, operation string, err error, duration time.Duration) {
	result := "success"
	if err != nil {
		result = "error"
	}
	m.CollaboratorCalls.WithLabelValues(backend, operation, result).Observe(duration.Seconds())
}

// RecordAccountChange 记录账户编辑，action 为 set 或 clear
func (m *FederationMetrics) RecordAccountChange(action string) {
	m.AccountChanges.WithLabelValues(GetServiceName(), action).Inc()
}

// RecordOrphansRemoved 记录清理任务删除的孤立账户数
func (m *FederationMetrics) RecordOrphansRemoved(n int) {
	if n <= 0 {
		return
	}
	m.OrphansRemoved.WithLabelValues(GetServiceName()).Add(float64(n))
}
