package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"stellar-federation/internal/pkg/metrics"
)

// Config Redis 配置
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Client Redis 客户端封装，所有操作都记录资源指标
type Client struct {
	*redis.Client
	service string
}

// NewClient 创建 Redis 客户端并测试连接
func NewClient(cfg Config, service string) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	return Wrap(rdb, service), nil
}

// Wrap 包装已有的 go-redis 客户端
func Wrap(rdb *redis.Client, service string) *Client {
	if service == "" {
		service = metrics.GetServiceName()
	}
	return &Client{Client: rdb, service: service}
}

func (c *Client) record(op string, start time.Time, err error) {
	metrics.DefaultResourceMetrics.RecordRedisOperation(op, err == nil || errors.Is(err, redis.Nil), time.Since(start), c.service)
	if err == nil || errors.Is(err, redis.Nil) {
		return
	}
	errType := "operation_error"
	if errors.Is(err, context.DeadlineExceeded) {
		errType = "timeout"
	}
	metrics.DefaultResourceMetrics.RecordRedisError(errType, c.service)
}

// HashGet 读取哈希字段，字段不存在时 ok=false
func (c *Client) HashGet(ctx context.Context, key, field string) (value string, ok bool, err error) {
	start := time.Now()
	value, err = c.HGet(ctx, key, field).Result()
	c.record("HGET", start, err)

	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// HashSet 写入哈希字段
func (c *Client) HashSet(ctx context.Context, key, field, value string) error {
	start := time.Now()
	err := c.HSet(ctx, key, field, value).Err()
	c.record("HSET", start, err)
	return err
}

// HashDelete 删除哈希字段
func (c *Client) HashDelete(ctx context.Context, key string, fields ...string) error {
	start := time.Now()
	err := c.HDel(ctx, key, fields...).Err()
	c.record("HDEL", start, err)
	return err
}

// HashKeys 列出哈希的全部字段
func (c *Client) HashKeys(ctx context.Context, key string) ([]string, error) {
	start := time.Now()
	keys, err := c.HKeys(ctx, key).Result()
	c.record("HKEYS", start, err)
	return keys, err
}

// Healthy 就绪检查使用
func (c *Client) Healthy(ctx context.Context) error {
	start := time.Now()
	err := c.Ping(ctx).Err()
	c.record("PING", start, err)
	return err
}
