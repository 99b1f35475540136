package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stellar-federation/internal/pkg/config"
	"stellar-federation/internal/pkg/log"
)

// @title           Stellar Federation API
// @version         1.0
// @description     Stellar 联邦地址解析、发现文档与账户 ID 编辑接口
// @BasePath  /

// @securityDefinitions.apikey SessionToken
// @in header
// @name X-Session-Token
// @description Kratos 会话令牌

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "federation-server",
		Short: "Stellar federation server",
		Long: `Serves stellar.toml and answers federation lookups (type=name),
mapping name*domain addresses to Stellar account IDs.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (YAML)")

	rootCmd.AddCommand(
		serveCmd(),
		resolveCmd(),
		editorsCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig 加载配置并初始化全局日志
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	log.Init(log.ParseLevel(cfg.LogLevel), cfg.Environment)
	return cfg, nil
}
