//go:build integration

package test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
	goredis "github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// usersSchema 目录测试使用的最小 users 表
const usersSchema = `
CREATE TABLE IF NOT EXISTS users (
	id         UUID PRIMARY KEY,
	username   TEXT NOT NULL,
	email      TEXT NOT NULL,
	deleted_at TIMESTAMPTZ
)`

// SetupTestDB 返回测试数据库连接
// 设置了 TEST_DATABASE_URL 时直接使用，否则启动 postgres 容器
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		dsn = startPostgres(t)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Skipf("无法连接测试数据库: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		t.Skipf("无法ping测试数据库: %v", err)
	}

	if _, err := db.ExecContext(ctx, usersSchema); err != nil {
		t.Fatalf("创建 users 表失败: %v", err)
	}
	return db
}

func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "federation",
				"POSTGRES_PASSWORD": "federation",
				"POSTGRES_DB":       "federation_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("无法启动 postgres 容器: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("停止 postgres 容器失败: %v", err)
		}
	})

	endpoint, err := container.PortEndpoint(ctx, "5432/tcp", "")
	if err != nil {
		t.Fatalf("获取 postgres 容器地址失败: %v", err)
	}
	return fmt.Sprintf("postgres://federation:federation@%s/federation_test?sslmode=disable", endpoint)
}

// SetupTestRedis 返回测试 Redis 客户端
// 设置了 TEST_REDIS_ADDR 时直接使用，否则启动 redis 容器
func SetupTestRedis(t *testing.T) *goredis.Client {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = startRedis(t)
	}

	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Skipf("无法连接测试 Redis: %v", err)
	}
	return rdb
}

func startRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("无法启动 redis 容器: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("停止 redis 容器失败: %v", err)
		}
	})

	endpoint, err := container.PortEndpoint(ctx, "6379/tcp", "")
	if err != nil {
		t.Fatalf("获取 redis 容器地址失败: %v", err)
	}
	return endpoint
}

// TruncateTable 清空表数据
func TruncateTable(t *testing.T, db *sql.DB, table string) {
	t.Helper()

	query := fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)
	if _, err := db.Exec(query); err != nil {
		t.Fatalf("清空表失败 %s: %v", table, err)
	}
}
