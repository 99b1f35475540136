package xerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		code ErrorCode
		want int
	}{
		{"参数错误", CodeInvalidParams, http.StatusBadRequest},
		{"账户格式错误", CodeInvalidStellarAccount, http.StatusBadRequest},
		{"用户不存在", CodeUserNotFound, http.StatusNotFound},
		{"未认证", CodeAuthenticationFailed, http.StatusUnauthorized},
		{"无权限", CodePermissionDenied, http.StatusForbidden},
		{"目录失败", CodeDirectoryError, http.StatusServiceUnavailable},
		{"内部错误", CodeInternalError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, CodeInternalError, "x"))

	base := errors.New("connection refused")
	wrapped := Wrap(base, CodeDatabaseError, "查询失败")
	require.NotNil(t, wrapped)
	assert.Equal(t, CodeDatabaseError, wrapped.Code)
	assert.ErrorIs(t, wrapped, base)
	assert.True(t, wrapped.IsRetryable())
	assert.True(t, wrapped.IsCritical())
	assert.NotEmpty(t, wrapped.File)

	again := Wrap(fmt.Errorf("outer: %w", wrapped), CodeInternalError, "ignored")
	assert.Same(t, wrapped, again)
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("search: %w", NewDirectoryError("kratos", "search_users", errors.New("timeout")))
	assert.True(t, HasCode(err, CodeDirectoryError))
	assert.False(t, HasCode(err, CodeAccountStoreError))
	assert.False(t, HasCode(errors.New("plain"), CodeDirectoryError))
}

func TestNewKratosAPIError(t *testing.T) {
	assert.Equal(t, CodeAuthenticationFailed, NewKratosAPIError("to_session", 401).Code)
	assert.Equal(t, CodeUserNotFound, NewKratosAPIError("get_identity", 404).Code)
	assert.Equal(t, CodeKratosError, NewKratosAPIError("list_identities", 502).Code)
}

func TestAppError_Error(t *testing.T) {
	err := NewValidationError("account_id", "格式错误")
	assert.Equal(t, "[100002] 格式错误", err.Error())
	assert.Equal(t, "account_id", err.Context.Metadata["field"])
	assert.Equal(t, LevelWarn, err.Level)
}
