package metrics

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"stellar-federation/internal/pkg/xerrors"
)

func TestFederationMetrics_RecordLookup(t *testing.T) {
	withServiceName(t, "federation")
	reg := prometheus.NewRegistry()
	m := NewFederationMetricsWithRegistry("test", reg)

	m.RecordLookup(OutcomeSuccess, 10*time.Millisecond)
	m.RecordLookup(OutcomeNotFound, 5*time.Millisecond)
	m.RecordLookup(OutcomeNotFound, 5*time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.LookupsTotal.WithLabelValues("federation", OutcomeSuccess)))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.LookupsTotal.WithLabelValues("federation", OutcomeNotFound)))
}

func TestFederationMetrics_ObserveCall(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewFederationMetricsWithRegistry("test", reg)

	m.ObserveCall("kratos", "search_users", nil, time.Millisecond)
	m.ObserveCall("kratos", "search_users", errors.New("timeout"), time.Millisecond)

	count, err := testutil.GatherAndCount(reg, "test_collaborator_call_duration_seconds")
	assert.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestFederationMetrics_Orphans(t *testing.T) {
	withServiceName(t, "federation")
	m := NewFederationMetricsWithRegistry("test", prometheus.NewRegistry())

	m.RecordOrphansRemoved(0)
	m.RecordOrphansRemoved(3)
	m.RecordAccountChange("set")

	assert.Equal(t, float64(3), testutil.ToFloat64(m.OrphansRemoved.WithLabelValues("federation")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.AccountChanges.WithLabelValues("federation", "set")))
}

func TestErrorMetrics_RecordError(t *testing.T) {
	m := NewErrorMetricsWithRegistry("test", prometheus.NewRegistry())

	m.RecordError(nil, 500, "GET", "svc")
	m.RecordError(xerrors.FromCode(xerrors.CodeDirectoryError), 500, "get", "svc")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.CriticalErrors.WithLabelValues("svc", "700101")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPResponses.WithLabelValues("svc", "500", "GET")))
}

func TestResourceMetrics(t *testing.T) {
	m := NewResourceMetricsWithRegistry("test", prometheus.NewRegistry())

	m.RecordDBPoolStats("svc", "postgres", sql.DBStats{OpenConnections: 4, InUse: 1, Idle: 3, WaitCount: 7})
	m.RecordRedisOperation("HGET", true, time.Millisecond, "svc")
	m.RecordRedisOperation("HGET", false, time.Millisecond, "svc")
	m.RecordRedisError("timeout", "svc")

	assert.Equal(t, float64(3), testutil.ToFloat64(m.DBConnections.WithLabelValues("svc", "postgres", "idle")))
	assert.Equal(t, float64(7), testutil.ToFloat64(m.DBWaitCount.WithLabelValues("svc", "postgres")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RedisOperations.WithLabelValues("HGET", "error", "svc")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RedisErrors.WithLabelValues("timeout", "svc")))
}
