package handler

import (
	"strings"

	"github.com/labstack/echo/v4"

	custommiddleware "stellar-federation/internal/middleware"
	"stellar-federation/internal/modules/profile/dto"
	"stellar-federation/internal/modules/profile/service"
	"stellar-federation/internal/pkg/response"
	"stellar-federation/internal/pkg/xerrors"
)

// ProfileHandler 账户 ID 编辑接口
type ProfileHandler struct {
	service *service.ProfileService
}

// NewProfileHandler 创建账户编辑处理器
func NewProfileHandler(s *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: s}
}

// GetAccount 读取账户 ID
// @Summary 获取用户的 Stellar 账户 ID
// @Tags Profile
// @Produce json
// @Security SessionToken
// @Param user_id path string true "用户 ID"
// @Success 200 {object} response.ResponseResult[dto.AccountResponse]
// @Failure 401 {object} response.ResponseResult[response.EmptyData]
// @Failure 403 {object} response.ResponseResult[response.EmptyData]
// @Failure 404 {object} response.ResponseResult[response.EmptyData]
// @Router /api/v1/profile/{user_id}/stellar-account [get]
func (h *ProfileHandler) GetAccount(c echo.Context) error {
	caller, userID, err := h.target(c)
	if err != nil {
		return err
	}

	resp, err := h.service.GetAccount(c.Request().Context(), caller, userID)
	if err != nil {
		return err
	}
	return response.EchoOK(c, resp)
}

// UpdateAccount 设置账户 ID
// @Summary 设置或清除用户的 Stellar 账户 ID
// @Description account_id 为空字符串时清除
// @Tags Profile
// @Accept json
// @Produce json
// @Security SessionToken
// @Param user_id path string true "用户 ID"
// @Param request body dto.UpdateAccountRequest true "账户 ID"
// @Success 200 {object} response.ResponseResult[dto.AccountResponse]
// @Failure 400 {object} response.ResponseResult[response.EmptyData]
// @Failure 401 {object} response.ResponseResult[response.EmptyData]
// @Failure 403 {object} response.ResponseResult[response.EmptyData]
// @Failure 404 {object} response.ResponseResult[response.EmptyData]
// @Router /api/v1/profile/{user_id}/stellar-account [put]
func (h *ProfileHandler) UpdateAccount(c echo.Context) error {
	caller, userID, err := h.target(c)
	if err != nil {
		return err
	}

	var req dto.UpdateAccountRequest
	if err := c.Bind(&req); err != nil {
		return xerrors.New(xerrors.CodeInvalidParams, "请求格式错误")
	}
	req.AccountID = strings.TrimSpace(req.AccountID)
	if err := c.Validate(&req); err != nil {
		return err
	}

	resp, err := h.service.SetAccount(c.Request().Context(), caller, userID, req.AccountID)
	if err != nil {
		return err
	}
	return response.EchoOK(c, resp)
}

// DeleteAccount 清除账户 ID
// @Summary 清除用户的 Stellar 账户 ID
// @Tags Profile
// @Produce json
// @Security SessionToken
// @Param user_id path string true "用户 ID"
// @Success 200 {object} response.ResponseResult[dto.AccountResponse]
// @Failure 401 {object} response.ResponseResult[response.EmptyData]
// @Failure 403 {object} response.ResponseResult[response.EmptyData]
// @Failure 404 {object} response.ResponseResult[response.EmptyData]
// @Router /api/v1/profile/{user_id}/stellar-account [delete]
func (h *ProfileHandler) DeleteAccount(c echo.Context) error {
	caller, userID, err := h.target(c)
	if err != nil {
		return err
	}

	resp, err := h.service.ClearAccount(c.Request().Context(), caller, userID)
	if err != nil {
		return err
	}
	return response.EchoOK(c, resp)
}

// target 取出调用方和路径中的目标用户
func (h *ProfileHandler) target(c echo.Context) (string, string, error) {
	currentUser, err := custommiddleware.GetCurrentUser(c)
	if err != nil {
		return "", "", err
	}

	userID := strings.TrimSpace(c.Param("user_id"))
	if userID == "" {
		return "", "", xerrors.NewValidationError("user_id", "user_id 不能为空")
	}
	return currentUser.UserID, userID, nil
}
