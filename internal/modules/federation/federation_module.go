// Package federation 组装联邦服务：后端、服务、HTTP 路由和定时任务
package federation

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "stellar-federation/docs/federation" // Swagger 文档

	custommiddleware "stellar-federation/internal/middleware"
	"stellar-federation/internal/modules/federation/handler"
	"stellar-federation/internal/modules/federation/service"
	"stellar-federation/internal/modules/federation/tasks"
	profilehandler "stellar-federation/internal/modules/profile/handler"
	profileservice "stellar-federation/internal/modules/profile/service"
	"stellar-federation/internal/pkg/config"
	"stellar-federation/internal/pkg/log"
	"stellar-federation/internal/pkg/metrics"
	"stellar-federation/internal/pkg/notify"
	"stellar-federation/internal/pkg/security"
	"stellar-federation/internal/pkg/trace"
	"stellar-federation/internal/pkg/validator"
)

// FederationModule 联邦服务模块
type FederationModule struct {
	cfg      *config.Config
	logger   log.Logger
	backends *Backends

	httpServer *echo.Echo

	resolver  *service.ResolverService
	discovery *service.DiscoveryService

	federationHandler *handler.FederationHandler
	healthHandler     *handler.HealthHandler
	profileHandler    *profilehandler.ProfileHandler

	sweepTask *tasks.OrphanSweepTask
}

// NewFederationModule 创建模块并完成路由注册，不启动监听
func NewFederationModule(cfg *config.Config, backends *Backends, logger log.Logger) (*FederationModule, error) {
	metrics.SetServiceName(cfg.Server.ServiceName)

	m := &FederationModule{
		cfg:      cfg,
		logger:   logger,
		backends: backends,
	}

	// 1. 核心服务
	if err := m.initServices(); err != nil {
		return nil, err
	}

	// 2. HTTP 服务器与中间件
	m.initHTTPServer()

	// 3. 处理器
	m.initHandlers()

	// 4. 路由
	m.setupRoutes()

	// 5. 定时任务
	m.sweepTask = tasks.NewOrphanSweepTask(
		backends.Directory,
		backends.Store,
		m.publisher(),
		backends.DB,
		logger,
	)

	return m, nil
}

// NewResolver 按配置构建解析器，CLI 的 resolve 命令也使用它
func NewResolver(cfg *config.Config, backends *Backends, logger log.Logger) (*service.ResolverService, error) {
	return service.NewResolverService(backends.Directory, backends.Store, siteConfig(cfg), logger)
}

func siteConfig(cfg *config.Config) service.SiteConfig {
	return service.SiteConfig{URL: cfg.Site.URL, Name: cfg.Site.Name}
}

func (m *FederationModule) initServices() error {
	resolver, err := NewResolver(m.cfg, m.backends, m.logger)
	if err != nil {
		return err
	}
	discovery, err := service.NewDiscoveryService(siteConfig(m.cfg))
	if err != nil {
		return err
	}

	m.resolver = resolver
	m.discovery = discovery
	m.logger.Info("联邦解析器已初始化", log.String("site_host", resolver.SiteHost()))
	return nil
}

// initHTTPServer 初始化 Echo 和中间件
func (m *FederationModule) initHTTPServer() {
	m.httpServer = echo.New()
	m.httpServer.HideBanner = true
	m.httpServer.HidePort = true
	m.httpServer.Validator = validator.New()

	// ========== 中间件配置（顺序很重要！） ==========

	// 1. TraceID 中间件 - 最先执行，生成或提取 TraceID
	m.httpServer.Use(trace.Middleware())

	// 2. Metrics 中间件 - 按路由模板记录请求指标
	m.httpServer.Use(metrics.Middleware())

	// 3. Logging 中间件 - 记录请求日志（依赖 TraceID）
	m.httpServer.Use(custommiddleware.LoggingMiddleware(m.logger))

	// 4. Recovery 中间件 - 捕获 panic
	m.httpServer.Use(custommiddleware.RecoveryMiddleware(m.logger))

	// 5. Error 中间件 - 统一错误处理
	m.httpServer.Use(custommiddleware.ErrorMiddleware(m.logger))

	// 6. CORS 中间件 - 联邦协议要求任意来源可读
	m.httpServer.Use(security.CORSMiddleware())

	// 7. 安全响应头
	m.httpServer.Use(security.SecurityHeadersMiddleware())

	// 8. 请求超时，目录和存储调用共享请求的 context
	if m.cfg.Server.RequestTimeout > 0 {
		m.httpServer.Use(echomiddleware.ContextTimeout(m.cfg.Server.RequestTimeout))
	}
}

func (m *FederationModule) initHandlers() {
	m.federationHandler = handler.NewFederationHandler(m.resolver, m.discovery, m.logger)

	m.healthHandler = handler.NewHealthHandler(m.cfg.Server.ServiceName, m.logger)
	if db := m.backends.DB; db != nil {
		m.healthHandler.AddCheck("database", db.PingContext)
	}
	if rdb := m.backends.Redis; rdb != nil {
		m.healthHandler.AddCheck("redis", rdb.Healthy)
	}
	if m.backends.NATS != nil {
		m.healthHandler.AddCheck("nats", func(context.Context) error { return notify.Healthy() })
	}
	if m.cfg.Directory.Backend == config.DirectoryKratos && m.backends.Kratos != nil {
		m.healthHandler.AddCheck("kratos", m.backends.Kratos.Ping)
	}

	// 编辑接口依赖 Kratos 会话校验
	if m.backends.Kratos != nil && m.cfg.Kratos.PublicURL != "" {
		var authorizer profileservice.EditAuthorizer
		if m.backends.Keto != nil {
			authorizer = m.backends.Keto
		}
		profileSvc := profileservice.NewProfileService(
			m.backends.Directory,
			m.backends.Store,
			authorizer,
			m.publisher(),
			m.logger,
		)
		m.profileHandler = profilehandler.NewProfileHandler(profileSvc)
	}
}

// publisher NATS 未配置时返回 nil，不发布事件
func (m *FederationModule) publisher() tasks.EventPublisher {
	if m.backends.NATS == nil {
		return nil
	}
	return notify.AccountPublisher{Prefix: m.cfg.NATS.Subject}
}

// setupRoutes 注册路由
func (m *FederationModule) setupRoutes() {
	// 联邦协议
	m.httpServer.GET("/.well-known/stellar.toml", m.federationHandler.StellarTOML)
	m.httpServer.GET("/.federation", m.federationHandler.Resolve)

	// 健康检查与指标
	m.httpServer.GET("/health", m.healthHandler.Health)
	m.httpServer.GET("/readyz", m.healthHandler.Ready)
	gatherer, _ := metrics.GetRegisterer().(prometheus.Gatherer)
	m.httpServer.GET("/metrics", metrics.EchoHandler(gatherer))

	// 账户编辑（需要会话）
	if m.profileHandler != nil {
		profile := m.httpServer.Group("/api/v1/profile",
			custommiddleware.SessionAuthMiddleware(m.backends.Kratos, m.logger))
		{
			profile.GET("/:user_id/stellar-account", m.profileHandler.GetAccount)
			profile.PUT("/:user_id/stellar-account", m.profileHandler.UpdateAccount)
			profile.DELETE("/:user_id/stellar-account", m.profileHandler.DeleteAccount)
		}
	} else {
		m.logger.Warn("未配置 kratos.public_url，账户编辑接口未启用")
	}

	// Swagger 仅在非生产环境开放
	if m.cfg.Server.EnableSwagger && !m.cfg.IsProduction() {
		m.httpServer.GET("/swagger/*", echoSwagger.WrapHandler)
	}
}

// Echo 返回 HTTP 服务器（测试使用）
func (m *FederationModule) Echo() *echo.Echo {
	return m.httpServer
}

// Start 启动定时任务和 HTTP 服务，阻塞直到服务器关闭
func (m *FederationModule) Start() error {
	if err := m.sweepTask.Start(m.cfg.Tasks.OrphanSweep); err != nil {
		return err
	}

	m.logger.Info("联邦服务启动",
		log.String("listen_addr", m.cfg.Server.ListenAddr),
		log.String("site_url", m.cfg.Site.URL))

	if err := m.httpServer.Start(m.cfg.Server.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 优雅关闭：先停止接收请求，再停止定时任务
func (m *FederationModule) Shutdown(ctx context.Context) error {
	err := m.httpServer.Shutdown(ctx)
	m.sweepTask.Stop()
	return err
}
