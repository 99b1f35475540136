package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"stellar-federation/internal/modules/federation"
	"stellar-federation/internal/pkg/config"
	"stellar-federation/internal/pkg/log"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := log.GetLogger()
			logger.Info("配置加载完成", log.Any("config", config.SanitizeForLog(cfg)))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			backends, err := federation.OpenBackends(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := backends.Close(); err != nil {
					logger.Error("关闭后端连接失败", err)
				}
			}()

			module, err := federation.NewFederationModule(cfg, backends, logger)
			if err != nil {
				return err
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- module.Start()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				logger.Info("收到退出信号，开始优雅关闭")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := module.Shutdown(shutdownCtx); err != nil {
				logger.Error("HTTP 服务关闭失败", err)
				return err
			}
			logger.Info("联邦服务已停止")
			return nil
		},
	}
}
