package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stellar-federation/internal/pkg/trace"
	"stellar-federation/internal/pkg/xerrors"
)

type accountView struct {
	UserID string `json:"user_id"`
}

func newContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(trace.WithTraceID(req.Context(), "trace-1"))
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestEchoOK(t *testing.T) {
	c, rec := newContext(t)
	require.NoError(t, EchoOK(c, accountView{UserID: "u1"}))

	var body ResponseResult[accountView]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 100000, body.Code)
	assert.Equal(t, "trace-1", body.TraceID)
	require.NotNil(t, body.Data)
	assert.Equal(t, "u1", body.Data.UserID)
}

func TestEchoError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"权限不足", xerrors.NewPermissionError("user", "edit"), http.StatusForbidden, 300001},
		{"普通错误", errors.New("boom"), http.StatusInternalServerError, 100001},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext(t)
			require.NoError(t, EchoError(c, tt.err))

			var body ResponseResult[EmptyData]
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Nil(t, body.Data)
		})
	}
}
