// Package handler 联邦协议的 HTTP 适配层
package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"stellar-federation/internal/domain/federation"
	"stellar-federation/internal/modules/federation/service"
	"stellar-federation/internal/pkg/log"
	"stellar-federation/internal/pkg/security"
)

const (
	// ContentTypeFederationJSON 联邦响应固定使用的 Content-Type
	ContentTypeFederationJSON = "application/json; charset=utf-8"

	// ContentTypeTOML 发现文档的 Content-Type
	ContentTypeTOML = "text/toml"
)

// internalErrorBody 目录或存储故障时的固定响应体
var internalErrorBody = []byte(`{"code":"internal_error","message":"Internal server error"}`)

// Resolver 由 service.ResolverService 实现
type Resolver interface {
	Resolve(ctx context.Context, query federation.Query) (federation.Result, error)
}

// FederationHandler 发现文档与联邦查询
type FederationHandler struct {
	resolver  Resolver
	discovery *service.DiscoveryService
	logger    log.Logger
}

// NewFederationHandler 创建联邦处理器
func NewFederationHandler(resolver Resolver, discovery *service.DiscoveryService, logger log.Logger) *FederationHandler {
	return &FederationHandler{
		resolver:  resolver,
		discovery: discovery,
		logger:    logger,
	}
}

// StellarTOML 发现文档
// @Summary 获取 stellar.toml
// @Description 返回 FEDERATION_SERVER 指向本站解析器的发现文档
// @Tags Federation
// @Produce plain
// @Success 200 {string} string "stellar.toml"
// @Router /.well-known/stellar.toml [get]
func (h *FederationHandler) StellarTOML(c echo.Context) error {
	security.AllowAnyOrigin(c)
	return c.Blob(http.StatusOK, ContentTypeTOML, h.discovery.Document())
}

// Resolve 联邦查询
// @Summary 解析联邦地址
// @Description 将 name*domain 解析为 Stellar 账户 ID，仅支持 type=name
// @Tags Federation
// @Produce json
// @Param type query string true "查询类型，只支持 name"
// @Param q query string true "联邦地址 name*domain"
// @Success 200 {object} federation.Record
// @Failure 400 {object} ProtocolError
// @Failure 404 {object} ProtocolError
// @Failure 500 {object} ProtocolError
// @Failure 501 {object} ProtocolError
// @Router /.federation [get]
func (h *FederationHandler) Resolve(c echo.Context) error {
	security.AllowAnyOrigin(c)

	ctx := c.Request().Context()
	result, err := h.resolver.Resolve(ctx, federation.QueryFromValues(c.QueryParams()))
	if err != nil {
		h.logger.ErrorContext(ctx, "联邦查询失败，返回 500", log.Err(err))
		return c.Blob(http.StatusInternalServerError, ContentTypeFederationJSON, internalErrorBody)
	}

	body, err := result.Body()
	if err != nil {
		h.logger.ErrorContext(ctx, "联邦响应序列化失败", log.Err(err))
		return c.Blob(http.StatusInternalServerError, ContentTypeFederationJSON, internalErrorBody)
	}
	return c.Blob(result.HTTPStatus(), ContentTypeFederationJSON, body)
}

// ProtocolError 协议错误响应体（仅用于文档）
type ProtocolError struct {
	Code    string `json:"code" example:"not_found"`
	Message string `json:"message" example:"Account not found"`
}
