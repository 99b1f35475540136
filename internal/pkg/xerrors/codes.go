// File: internal/pkg/xerrors/codes.go
package xerrors

import (
	"fmt"
	"net/http"
)

// ErrorCode 错误码类型（类型安全）
type ErrorCode int

// IsValid 检查错误码是否在预定义列表中
func (c ErrorCode) IsValid() bool {
	_, exists := codeMessages[c]
	return exists
}

// String 返回错误码的字符串表示
func (c ErrorCode) String() string {
	if msg, ok := codeMessages[c]; ok {
		return fmt.Sprintf("%d (%s)", c, msg)
	}
	return fmt.Sprintf("%d (未定义的错误码)", c)
}

// Message 返回错误码对应的消息
func (c ErrorCode) Message() string {
	if msg, ok := codeMessages[c]; ok {
		return msg
	}
	return "未知错误"
}

// ToInt 转换为 int
func (c ErrorCode) ToInt() int {
	return int(c)
}

// -----------------------------------------------------------------------------
// 业务错误码统一定义，按领域分段
// -----------------------------------------------------------------------------
const (
	// 1xxxxx: 通用错误码
	CodeSuccess          ErrorCode = 100000 // 操作成功
	CodeInternalError    ErrorCode = 100001 // 内部服务错误
	CodeInvalidParams    ErrorCode = 100002 // 参数错误
	CodeInvalidRequest   ErrorCode = 100003 // 请求格式错误
	CodeResourceNotFound ErrorCode = 100404 // 资源不存在
	CodeNotImplemented   ErrorCode = 100501 // 功能未实现

	// 2xxxxx: 认证相关错误码
	CodeAuthenticationFailed ErrorCode = 200001 // 认证失败
	CodeInvalidToken         ErrorCode = 200002 // 无效令牌
	CodeSessionExpired       ErrorCode = 200007 // 会话过期

	// 3xxxxx: 权限相关错误码
	CodePermissionDenied ErrorCode = 300001 // 权限不足

	// 4xxxxx: 用户目录错误码
	CodeUserNotFound ErrorCode = 400001 // 用户不存在

	// 6xxxxx: 联邦业务错误码
	CodeInvalidStellarAccount ErrorCode = 600001 // 账户 ID 格式错误
	CodeFederationConfig      ErrorCode = 600002 // 联邦配置错误

	// 7xxxxx: 外部依赖错误码
	CodeExternalServiceError ErrorCode = 700001 // 外部服务错误
	CodeKratosError          ErrorCode = 700002 // Kratos 服务错误
	CodeKetoError            ErrorCode = 700003 // Keto 服务错误
	CodeDatabaseError        ErrorCode = 700004 // 数据库错误
	CodeCacheError           ErrorCode = 700005 // 缓存错误
	CodeMessageQueueError    ErrorCode = 700006 // 消息队列错误
	CodeDirectoryError       ErrorCode = 700101 // 用户目录查询失败
	CodeAccountStoreError    ErrorCode = 700102 // 账户属性存储失败
)

var codeMessages = map[ErrorCode]string{
	CodeSuccess:          "操作成功",
	CodeInternalError:    "内部服务错误",
	CodeInvalidParams:    "参数错误",
	CodeInvalidRequest:   "请求格式错误",
	CodeResourceNotFound: "资源不存在",
	CodeNotImplemented:   "功能未实现",

	CodeAuthenticationFailed: "认证失败",
	CodeInvalidToken:         "无效令牌",
	CodeSessionExpired:       "会话过期",

	CodePermissionDenied: "权限不足",

	CodeUserNotFound: "用户不存在",

	CodeInvalidStellarAccount: "Stellar 账户 ID 格式错误",
	CodeFederationConfig:      "联邦配置错误",

	CodeExternalServiceError: "外部服务错误",
	CodeKratosError:          "Kratos 服务错误",
	CodeKetoError:            "Keto 服务错误",
	CodeDatabaseError:        "数据库错误",
	CodeCacheError:           "缓存错误",
	CodeMessageQueueError:    "消息队列错误",
	CodeDirectoryError:       "用户目录查询失败",
	CodeAccountStoreError:    "账户属性存储失败",
}

// GetHTTPStatus 根据业务错误码获取HTTP状态码
func GetHTTPStatus(code ErrorCode) int {
	switch {
	case code == CodeSuccess:
		return http.StatusOK
	case code == CodeInvalidParams || code == CodeInvalidRequest || code == CodeInvalidStellarAccount:
		return http.StatusBadRequest
	case code == CodeResourceNotFound || code == CodeUserNotFound:
		return http.StatusNotFound
	case code == CodeNotImplemented:
		return http.StatusNotImplemented
	case code >= 200000 && code < 300000:
		return http.StatusUnauthorized
	case code >= 300000 && code < 400000:
		return http.StatusForbidden
	case code >= 700000 && code < 800000:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// getCategoryByCode 根据错误码获取分类
func getCategoryByCode(code ErrorCode) string {
	switch {
	case code >= 100000 && code < 200000:
		return "system"
	case code >= 200000 && code < 300000:
		return "authentication"
	case code >= 300000 && code < 400000:
		return "authorization"
	case code >= 400000 && code < 500000:
		return "directory"
	case code >= 600000 && code < 700000:
		return "federation"
	case code >= 700000 && code < 800000:
		return "external"
	default:
		return "unknown"
	}
}

// getLevelByCode 根据错误码获取级别
func getLevelByCode(code ErrorCode) ErrorLevel {
	switch {
	case code == CodeSuccess:
		return LevelInfo
	case code >= 100002 && code < 200000:
		return LevelWarn
	case code >= 200000 && code < 700000:
		return LevelWarn
	case code >= 700000:
		return LevelCritical
	default:
		return LevelError
	}
}

// isRetryableByCode 根据错误码判断是否可重试
func isRetryableByCode(code ErrorCode) bool {
	switch code {
	case CodeInternalError, CodeExternalServiceError, CodeKratosError, CodeKetoError,
		CodeDatabaseError, CodeCacheError, CodeMessageQueueError,
		CodeDirectoryError, CodeAccountStoreError:
		return true
	default:
		return false
	}
}
