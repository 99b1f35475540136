package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
)

// GetEnvOrDefault 获取环境变量，如果不存在则返回默认值
func GetEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetEnvIntOrDefault 获取整数环境变量，缺失或无法解析时返回默认值
func GetEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// applyEnvOverrides 环境变量 > 配置文件
func applyEnvOverrides(cfg *Config) {
	cfg.Environment = GetEnvOrDefault("FEDERATION_ENV", cfg.Environment)
	cfg.LogLevel = GetEnvOrDefault("FEDERATION_LOG_LEVEL", cfg.LogLevel)
	cfg.Server.ListenAddr = GetEnvOrDefault("FEDERATION_LISTEN_ADDR", cfg.Server.ListenAddr)
	cfg.Site.URL = GetEnvOrDefault("FEDERATION_SITE_URL", cfg.Site.URL)
	cfg.Site.Name = GetEnvOrDefault("FEDERATION_SITE_NAME", cfg.Site.Name)
	cfg.Directory.Backend = GetEnvOrDefault("FEDERATION_DIRECTORY_BACKEND", cfg.Directory.Backend)
	cfg.Store.Backend = GetEnvOrDefault("FEDERATION_STORE_BACKEND", cfg.Store.Backend)

	cfg.Database.URL = GetEnvOrDefault("DATABASE_URL", cfg.Database.URL)

	cfg.Redis.Host = GetEnvOrDefault("REDIS_HOST", cfg.Redis.Host)
	cfg.Redis.Port = GetEnvIntOrDefault("REDIS_PORT", cfg.Redis.Port)
	cfg.Redis.Password = GetEnvOrDefault("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = GetEnvIntOrDefault("REDIS_DB", cfg.Redis.DB)

	cfg.Kratos.AdminURL = GetEnvOrDefault("KRATOS_ADMIN_URL", cfg.Kratos.AdminURL)
	cfg.Kratos.PublicURL = GetEnvOrDefault("KRATOS_PUBLIC_URL", cfg.Kratos.PublicURL)
	cfg.Keto.ReadAddr = GetEnvOrDefault("KETO_READ_ADDR", cfg.Keto.ReadAddr)
	cfg.Keto.WriteAddr = GetEnvOrDefault("KETO_WRITE_ADDR", cfg.Keto.WriteAddr)
	cfg.NATS.URL = GetEnvOrDefault("NATS_URL", cfg.NATS.URL)
}

// SanitizeForLog 生成可写入日志的配置摘要，隐藏密码和连接串中的凭据
func SanitizeForLog(cfg *Config) map[string]any {
	values := map[string]any{
		"environment":       cfg.Environment,
		"log_level":         cfg.LogLevel,
		"listen_addr":       cfg.Server.ListenAddr,
		"site_url":          cfg.Site.URL,
		"directory_backend": cfg.Directory.Backend,
		"store_backend":     cfg.Store.Backend,
		"database_url":      redactURL(cfg.Database.URL),
		"redis_addr":        cfg.Redis.Addr(),
		"redis_password":    cfg.Redis.Password,
		"kratos_admin_url":  cfg.Kratos.AdminURL,
		"keto_read_addr":    cfg.Keto.ReadAddr,
		"nats_url":          redactURL(cfg.NATS.URL),
		"orphan_sweep":      cfg.Tasks.OrphanSweep,
		"seed_users":        len(cfg.SeedUsers),
	}

	sanitized := make(map[string]any, len(values))
	for k, v := range values {
		if s, ok := v.(string); ok && s != "" && isSensitiveKey(k) {
			sanitized[k] = "***REDACTED***"
			continue
		}
		sanitized[k] = v
	}
	return sanitized
}

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	return u.Redacted()
}

// isSensitiveKey 判断是否是敏感配置项
func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	for _, keyword := range []string{"password", "secret", "token", "credential", "private"} {
		if strings.Contains(lowerKey, keyword) {
			return true
		}
	}
	return false
}
