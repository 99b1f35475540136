package federation

import (
	"encoding/json"
	"net/http"
)

// ErrorCode 协议错误码（封闭集合）
type ErrorCode string

const (
	CodeInvalidRequest ErrorCode = "invalid_request"
	CodeInvalidQuery   ErrorCode = "invalid_query"
	CodeNotFound       ErrorCode = "not_found"
	CodeNotImplemented ErrorCode = "not_implemented"
)

// 协议错误消息
const (
	MessageMissingParams  = "both q and type parameter are required"
	MessageNotImplemented = "This operation is not implemented. Only type=name is supported."
	MessageInvalidQuery   = "Please use an address of the form name*domain.com"
	MessageNotFound       = "Account not found"
)

// WireCode 返回响应体中使用的错误码，invalid_query 与 invalid_request 同属 400
func (c ErrorCode) WireCode() string {
	if c == CodeInvalidQuery {
		return string(CodeInvalidRequest)
	}
	return string(c)
}

// HTTPStatus 返回错误码对应的 HTTP 状态码
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case CodeInvalidRequest, CodeInvalidQuery:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeNotImplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// Record 成功解析的账户记录
type Record struct {
	AccountID      string `json:"account_id"`
	StellarAddress string `json:"stellar_address"`
}

// Error 协议错误
type Error struct {
	Code    ErrorCode
	Message string
}

// MarshalJSON 输出 {"code": <wire code>, "message": ...}
func (e Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    e.Code.WireCode(),
		Message: e.Message,
	})
}

// Result 解析结果，Record 与 Err 恰有一个非空
type Result struct {
	Record *Record
	Err    *Error
}

// Success 构造成功结果
func Success(accountID string, addr StellarAddress) Result {
	return Result{Record: &Record{AccountID: accountID, StellarAddress: addr.String()}}
}

// Failure 构造错误结果
func Failure(code ErrorCode, message string) Result {
	return Result{Err: &Error{Code: code, Message: message}}
}

func ErrMissingParams() Result  { return Failure(CodeInvalidRequest, MessageMissingParams) }
func ErrNotImplemented() Result { return Failure(CodeNotImplemented, MessageNotImplemented) }
func ErrInvalidQuery() Result   { return Failure(CodeInvalidQuery, MessageInvalidQuery) }
func ErrNotFound() Result       { return Failure(CodeNotFound, MessageNotFound) }

// OK 是否为成功结果
func (r Result) OK() bool {
	return r.Record != nil
}

// HTTPStatus 结果对应的 HTTP 状态码
func (r Result) HTTPStatus() int {
	if r.Record != nil {
		return http.StatusOK
	}
	if r.Err != nil {
		return r.Err.Code.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// Body 结果的 JSON 响应体
func (r Result) Body() ([]byte, error) {
	if r.Record != nil {
		return json.Marshal(r.Record)
	}
	return json.Marshal(r.Err)
}
