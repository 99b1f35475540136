package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "federation.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, ":8080", cfg.Server.ListenAddr)
	assert.Equal(t, "StellarPress", cfg.Site.Name)
	assert.Equal(t, DirectoryMemory, cfg.Directory.Backend)
	assert.Equal(t, "@every 1h", cfg.Tasks.OrphanSweep)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
environment: production
server:
  listen_addr: ":9000"
  service_name: federation
  request_timeout: 3s
site:
  url: https://example.com/blog
  name: StellarPress
directory:
  backend: memory
store:
  backend: redis
redis:
  host: localhost
  port: 6379
seed_users:
  - id: u1
    login: alice
    email: alice@example.com
    account_id: GABC
`)
	t.Setenv("FEDERATION_LISTEN_ADDR", ":9100")
	t.Setenv("REDIS_PASSWORD", "s3cret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, ":9100", cfg.Server.ListenAddr)
	assert.Equal(t, 3*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "https://example.com/blog", cfg.Site.URL)
	assert.Equal(t, "s3cret", cfg.Redis.Password)
	require.Len(t, cfg.SeedUsers, 1)
	assert.Equal(t, "alice", cfg.SeedUsers[0].Login)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "未知目录后端",
			body: "directory:\n  backend: ldap\n",
		},
		{
			name: "kratos 缺少地址",
			body: "directory:\n  backend: kratos\n",
		},
		{
			name: "postgres 缺少连接串",
			body: "store:\n  backend: postgres\n",
		},
		{
			name: "redis 缺少主机",
			body: "store:\n  backend: redis\n",
		},
		{
			name: "站点地址无效",
			body: "site:\n  url: not-a-url\n  name: x\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSanitizeForLog(t *testing.T) {
	cfg := Default()
	cfg.Redis.Password = "hunter2"
	cfg.Database.URL = "postgres://fed:pw@db:5432/fed?sslmode=disable"

	out := SanitizeForLog(cfg)
	assert.Equal(t, "***REDACTED***", out["redis_password"])
	assert.NotContains(t, out["database_url"], "pw@")
	assert.Equal(t, cfg.Site.URL, out["site_url"])
}
