package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

var (
	ncMu sync.RWMutex
	nc   *nats.Conn
)

// 事件主题后缀，完整主题为 <prefix>.<suffix>
const (
	SubjectAccountUpdated = "updated"
	SubjectAccountCleared = "cleared"
)

// AccountEvent 账户 ID 变更事件
type AccountEvent struct {
	UserID    string    `json:"user_id"`
	AccountID string    `json:"account_id,omitempty"`
	ChangedBy string    `json:"changed_by"`
	Reason    string    `json:"reason,omitempty"`
	At        time.Time `json:"at"`
}

// SetNatsConn 设置全局 NATS 连接（由 main 提供）
func SetNatsConn(conn *nats.Conn) {
	ncMu.Lock()
	defer ncMu.Unlock()
	nc = conn
}

func natsConn() *nats.Conn {
	ncMu.RLock()
	defer ncMu.RUnlock()
	return nc
}

// Connect 连接 NATS 并设置为全局连接
func Connect(url, name string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("NATS 连接失败: %w", err)
	}
	SetNatsConn(conn)
	return conn, nil
}

// Healthy 未配置 NATS 时视为健康
func Healthy() error {
	conn := natsConn()
	if conn == nil {
		return nil
	}
	if !conn.IsConnected() {
		return fmt.Errorf("NATS 未连接: %s", conn.Status())
	}
	return nil
}

// Publish 发布 JSON 事件，没有连接时静默降级
func Publish(ctx context.Context, subject string, payload interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	conn := natsConn()
	if conn == nil {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event failed: %w", err)
	}
	return conn.Publish(subject, data)
}

// AccountPublisher 以固定前缀发布账户事件
type AccountPublisher struct {
	Prefix string
}

// PublishAccountEvent 根据 AccountID 是否为空选择 updated / cleared 主题
func (p AccountPublisher) PublishAccountEvent(ctx context.Context, event AccountEvent) error {
	suffix := SubjectAccountUpdated
	if event.AccountID == "" {
		suffix = SubjectAccountCleared
	}
	return Publish(ctx, p.Prefix+"."+suffix, event)
}
