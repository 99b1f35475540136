package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"stellar-federation/internal/pkg/xerrors"
)

// stellarAccountPattern Stellar 公钥：G 开头的 56 位 base32 字符
var stellarAccountPattern = regexp.MustCompile(`^G[A-Z2-7]{55}$`)

// CustomValidator wraps go-playground validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return toAppError(err)
	}
	return nil
}

// New creates a new custom validator instance with the federation rules registered
func New() echo.Validator {
	return &CustomValidator{validator: NewValidate()}
}

// NewValidate 返回注册了自定义规则的底层 validator
func NewValidate() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("stellar_account", validateStellarAccount)
	return v
}

// IsStellarAccount 判断字符串是否为合法的 Stellar 账户 ID
func IsStellarAccount(s string) bool {
	return stellarAccountPattern.MatchString(s)
}

func validateStellarAccount(fl validator.FieldLevel) bool {
	return IsStellarAccount(fl.Field().String())
}

func toAppError(err error) *xerrors.AppError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return xerrors.NewWithError(xerrors.CodeInvalidParams, "请求参数错误", err)
	}

	first := verrs[0]
	code := xerrors.CodeInvalidParams
	if first.Tag() == "stellar_account" {
		code = xerrors.CodeInvalidStellarAccount
	}

	appErr := xerrors.New(code, fieldMessage(first)).
		WithMetadata("field", strings.ToLower(first.Field()))
	if len(verrs) > 1 {
		appErr.WithMetadata("error_count", len(verrs))
	}
	return appErr
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s 不能为空", field)
	case "stellar_account":
		return "请输入以 G 开头的 56 位 Stellar 公钥"
	case "max":
		return fmt.Sprintf("%s 长度不能超过 %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s 校验失败(%s)", field, fe.Tag())
	}
}
