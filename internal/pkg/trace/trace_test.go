package trace

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFromHeader(t *testing.T) {
	tests := []struct {
		name    string
		headers http.Header
		want    string
	}{
		{
			name:    "优先使用 X-Trace-Id",
			headers: http.Header{"X-Trace-Id": {"abc"}, "X-Request-Id": {"def"}},
			want:    "abc",
		},
		{
			name:    "回退到 X-Request-Id",
			headers: http.Header{"X-Request-Id": {"def"}},
			want:    "def",
		},
		{
			name:    "解析 traceparent",
			headers: http.Header{"Traceparent": {"00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"}},
			want:    "4bf92f3577b34da6a3ce929d0e0e4736",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractFromHeader(tt.headers))
		})
	}
}

func TestExtractFromHeader_Generate(t *testing.T) {
	id := ExtractFromHeader(http.Header{"Traceparent": {"garbage"}})
	assert.Len(t, id, 32)
	assert.NotEqual(t, id, ExtractFromHeader(http.Header{}))
}

func TestMiddleware(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/.federation", nil)
	req.Header.Set("X-Trace-Id", "trace-1")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seenTrace, seenRequest string
	handler := Middleware()(func(c echo.Context) error {
		seenTrace = GetTraceID(c.Request().Context())
		seenRequest = GetRequestID(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, handler(c))
	assert.Equal(t, "trace-1", seenTrace)
	assert.NotEmpty(t, seenRequest)
	assert.Equal(t, "trace-1", rec.Header().Get("X-Trace-Id"))
	assert.Equal(t, seenRequest, rec.Header().Get(echo.HeaderXRequestID))
}
