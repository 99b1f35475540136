// Package config 负责加载联邦服务的 YAML 配置，并用环境变量覆盖。
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DirectoryKratos   = "kratos"
	DirectoryPostgres = "postgres"
	DirectoryMemory   = "memory"

	StoreRedis    = "redis"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config 服务完整配置
type Config struct {
	Environment string `yaml:"environment" validate:"oneof=development test production"`
	LogLevel    string `yaml:"log_level"`

	Server    ServerConfig    `yaml:"server"`
	Site      SiteConfig      `yaml:"site"`
	Directory DirectoryConfig `yaml:"directory"`
	Store     StoreConfig     `yaml:"store"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Kratos    KratosConfig    `yaml:"kratos"`
	Keto      KetoConfig      `yaml:"keto"`
	NATS      NATSConfig      `yaml:"nats"`
	Tasks     TasksConfig     `yaml:"tasks"`

	// SeedUsers 仅供 memory 目录/存储使用
	SeedUsers []SeedUser `yaml:"seed_users" validate:"dive"`
}

type ServerConfig struct {
	ListenAddr     string        `yaml:"listen_addr" validate:"required"`
	ServiceName    string        `yaml:"service_name" validate:"required"`
	RequestTimeout time.Duration `yaml:"request_timeout" validate:"gte=0"`
	EnableSwagger  bool          `yaml:"enable_swagger"`
}

// SiteConfig 站点信息，决定联邦域名和发现文档中的解析器地址
type SiteConfig struct {
	URL  string `yaml:"url" validate:"required,url"`
	Name string `yaml:"name" validate:"required"`
}

type DirectoryConfig struct {
	Backend string `yaml:"backend" validate:"oneof=kratos postgres memory"`
}

type StoreConfig struct {
	Backend string `yaml:"backend" validate:"oneof=redis postgres memory"`
}

type DatabaseConfig struct {
	URL             string        `yaml:"url"`
	MaxOpenConns    int           `yaml:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int           `yaml:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type RedisConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port" validate:"gte=0,lte=65535"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db" validate:"gte=0"`
	KeyPrefix string `yaml:"key_prefix"`
}

// Addr 返回 host:port
func (r RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	return net.JoinHostPort(r.Host, strconv.Itoa(r.Port))
}

type KratosConfig struct {
	AdminURL  string `yaml:"admin_url" validate:"omitempty,url"`
	PublicURL string `yaml:"public_url" validate:"omitempty,url"`
}

// KetoConfig 为空时编辑接口只允许用户修改自己的账户
type KetoConfig struct {
	ReadAddr  string `yaml:"read_addr"`
	WriteAddr string `yaml:"write_addr"`
	Namespace string `yaml:"namespace"`
}

type NATSConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

type TasksConfig struct {
	// OrphanSweep cron 表达式，为空表示禁用
	OrphanSweep string `yaml:"orphan_sweep"`
}

// SeedUser memory 后端的初始用户
type SeedUser struct {
	ID        string `yaml:"id" validate:"required"`
	Login     string `yaml:"login" validate:"required"`
	Email     string `yaml:"email" validate:"omitempty,email"`
	AccountID string `yaml:"account_id"`
}

// Default 返回本地开发可直接使用的默认配置
func Default() *Config {
	return &Config{
		Environment: "development",
		LogLevel:    "info",
		Server: ServerConfig{
			ListenAddr:     ":8080",
			ServiceName:    "federation",
			RequestTimeout: 10 * time.Second,
			EnableSwagger:  true,
		},
		Site: SiteConfig{
			URL:  "http://localhost:8080",
			Name: "StellarPress",
		},
		Directory: DirectoryConfig{Backend: DirectoryMemory},
		Store:     StoreConfig{Backend: StoreMemory},
		Database: DatabaseConfig{
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Redis: RedisConfig{
			Port:      6379,
			KeyPrefix: "federation:",
		},
		Keto: KetoConfig{Namespace: "User"},
		NATS: NATSConfig{Subject: "federation.account"},
		Tasks: TasksConfig{
			OrphanSweep: "@every 1h",
		},
	}
}

// Load 读取配置文件（可为空），应用环境变量覆盖并校验
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("解析配置文件失败: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 结构体标签校验加后端之间的依赖检查
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("配置校验失败: %w", err)
	}

	u, err := url.Parse(c.Site.URL)
	if err != nil || u.Hostname() == "" {
		return fmt.Errorf("配置校验失败: site.url 缺少主机名: %q", c.Site.URL)
	}

	var errs []error
	if c.Directory.Backend == DirectoryKratos && c.Kratos.AdminURL == "" {
		errs = append(errs, errors.New("directory.backend=kratos 需要 kratos.admin_url"))
	}
	if (c.Directory.Backend == DirectoryPostgres || c.Store.Backend == StorePostgres) && c.Database.URL == "" {
		errs = append(errs, errors.New("postgres 后端需要 database.url"))
	}
	if c.Store.Backend == StoreRedis && c.Redis.Host == "" {
		errs = append(errs, errors.New("store.backend=redis 需要 redis.host"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("配置校验失败: %w", errors.Join(errs...))
	}
	return nil
}

// IsProduction 是否生产环境
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
