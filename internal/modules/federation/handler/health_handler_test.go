package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	h := NewHealthHandler("federation", testLogger())
	e := echo.New()
	e.GET("/health", h.Health)
	e.GET("/readyz", h.Ready)

	rec := doGet(e, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	t.Run("依赖全部正常", func(t *testing.T) {
		h.AddCheck("database", func(context.Context) error { return nil })
		rec := doGet(e, "/readyz")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("依赖故障返回 503", func(t *testing.T) {
		h.AddCheck("redis", func(context.Context) error { return errors.New("connection refused") })

		req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var body struct {
			Status string            `json:"status"`
			Checks map[string]string `json:"checks"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "not_ready", body.Status)
		assert.Equal(t, "ok", body.Checks["database"])
		assert.Equal(t, "connection refused", body.Checks["redis"])
	})
}
