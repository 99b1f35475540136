package tasks

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/robfig/cron/v3"

	"stellar-federation/internal/pkg/log"
	"stellar-federation/internal/pkg/metrics"
	"stellar-federation/internal/pkg/notify"
	"stellar-federation/internal/repository/interfaces"
)

// sweepTimeout 单次清理的超时
const sweepTimeout = 5 * time.Minute

// EventPublisher 发布账户清除事件
type EventPublisher interface {
	PublishAccountEvent(ctx context.Context, event notify.AccountEvent) error
}

// OrphanSweepTask 清理目录中已不存在的用户的账户 ID
// 保证每个账户 ID 都属于一个现存用户
type OrphanSweepTask struct {
	directory interfaces.UserDirectory
	store     interfaces.AccountStore
	publisher EventPublisher
	db        *sql.DB
	logger    log.Logger
	cron      *cron.Cron
	metrics   *metrics.FederationMetrics
}

// NewOrphanSweepTask 创建清理任务，db 为 nil 时不采集连接池指标
func NewOrphanSweepTask(
	directory interfaces.UserDirectory,
	store interfaces.AccountStore,
	publisher EventPublisher,
	db *sql.DB,
	logger log.Logger,
) *OrphanSweepTask {
	return &OrphanSweepTask{
		directory: directory,
		store:     store,
		publisher: publisher,
		db:        db,
		logger:    logger,
		metrics:   metrics.DefaultFederationMetrics,
	}
}

// Start 按 cron 表达式启动调度，表达式为空时不启动
// 使用 robfig/cron 标准格式，支持 @every 1h 这类描述符
func (t *OrphanSweepTask) Start(schedule string) error {
	if schedule == "" {
		t.logger.Info("【定时任务】孤立账户清理已禁用")
		return nil
	}

	t.cron = cron.New()
	if _, err := t.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()

		t.logger.Info("【定时任务】开始清理孤立账户")
		removed, err := t.Run(ctx)
		if err != nil {
			t.logger.Error("【定时任务】孤立账户清理失败", err, log.Int("removed", removed))
			return
		}
		t.logger.Info("【定时任务】孤立账户清理完成", log.Int("removed", removed))
	}); err != nil {
		t.logger.Error("【定时任务】添加孤立账户清理任务失败", err, log.String("schedule", schedule))
		return err
	}

	t.cron.Start()
	t.logger.Info("【定时任务】孤立账户清理已启动", log.String("schedule", schedule))
	return nil
}

// Run 执行一次清理，返回删除的数量
// 目录查询失败的用户跳过，留到下一轮
func (t *OrphanSweepTask) Run(ctx context.Context) (int, error) {
	t.recordPoolStats()

	userIDs, err := t.store.ListUserIDs(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			t.metrics.RecordOrphansRemoved(removed)
			return removed, err
		}

		_, err := t.directory.GetUser(ctx, userID)
		if err == nil {
			continue
		}
		if !errors.Is(err, interfaces.ErrUserNotFound) {
			t.logger.WarnContext(ctx, "【定时任务】查询用户失败，跳过",
				log.String("user_id", userID),
				log.Err(err))
			continue
		}

		if err := t.store.DeleteAccountID(ctx, userID); err != nil {
			t.logger.ErrorContext(ctx, "【定时任务】删除孤立账户失败",
				log.String("user_id", userID),
				log.Err(err))
			continue
		}
		removed++
		t.publishCleared(ctx, userID)
	}

	t.metrics.RecordOrphansRemoved(removed)
	return removed, nil
}

func (t *OrphanSweepTask) publishCleared(ctx context.Context, userID string) {
	if t.publisher == nil {
		return
	}
	event := notify.AccountEvent{
		UserID:    userID,
		ChangedBy: "system",
		Reason:    "user_removed",
		At:        time.Now().UTC(),
	}
	if err := t.publisher.PublishAccountEvent(ctx, event); err != nil {
		t.logger.WarnContext(ctx, "【定时任务】发布清除事件失败",
			log.String("user_id", userID),
			log.Err(err))
	}
}

func (t *OrphanSweepTask) recordPoolStats() {
	if t.db == nil {
		return
	}
	metrics.DefaultResourceMetrics.RecordDBPoolStats(metrics.GetServiceName(), "postgres", t.db.Stats())
}

// Stop 停止定时任务（优雅关闭）
func (t *OrphanSweepTask) Stop() {
	if t.cron != nil {
		t.logger.Info("【定时任务】正在停止定时任务...")
		ctx := t.cron.Stop()
		<-ctx.Done()
		t.logger.Info("【定时任务】定时任务已停止")
	}
}
