// File: internal/pkg/log/log.go
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"stellar-federation/internal/pkg/ctxkey"
	"stellar-federation/internal/pkg/xerrors"
)

// Logger 接口定义（在消费端定义）
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, err error, args ...any)

	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)

	With(args ...any) Logger
	WithGroup(name string) Logger
}

// StructuredLogger slog的包装器
type StructuredLogger struct {
	logger *slog.Logger
}

var globalLogger Logger

// Init 初始化日志器，输出到 stdout
func Init(level slog.Level, environment string) {
	InitWithWriter(os.Stdout, level, environment)
}

// InitWithWriter 初始化日志器到指定输出
// production 使用 JSON，其余环境使用带源码位置的文本格式
func InitWithWriter(w io.Writer, level slog.Level, environment string) {
	var handler slog.Handler
	if environment == "production" {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{
			Level:     level,
			AddSource: true,
		})
	}

	logger := slog.New(NewContextHandler(handler))
	globalLogger = &StructuredLogger{logger: logger}
	slog.SetDefault(logger)
}

// ParseLevel 将配置中的日志级别字符串转换为 slog.Level，未知值返回 Info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// GetLogger 获取全局logger
func GetLogger() Logger {
	if globalLogger == nil {
		Init(slog.LevelInfo, "development")
	}
	return globalLogger
}

// NewLogger 创建新的logger实例
func NewLogger(handler slog.Handler) Logger {
	return &StructuredLogger{
		logger: slog.New(NewContextHandler(handler)),
	}
}

func (l *StructuredLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

func (l *StructuredLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

func (l *StructuredLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

func (l *StructuredLogger) Error(msg string, err error, args ...any) {
	args = append(args, slog.Any("error", err))
	l.logger.Error(msg, args...)
}

func (l *StructuredLogger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.logger.DebugContext(ctx, msg, args...)
}

func (l *StructuredLogger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.logger.InfoContext(ctx, msg, args...)
}

func (l *StructuredLogger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.logger.WarnContext(ctx, msg, args...)
}

func (l *StructuredLogger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.logger.ErrorContext(ctx, msg, args...)
}

func (l *StructuredLogger) With(args ...any) Logger {
	return &StructuredLogger{logger: l.logger.With(args...)}
}

func (l *StructuredLogger) WithGroup(name string) Logger {
	return &StructuredLogger{logger: l.logger.WithGroup(name)}
}

// ContextHandler 从 context 中提取 trace_id / request_id / user_id / federation_query 附加到每条日志
type ContextHandler struct {
	next slog.Handler
}

// NewContextHandler 创建上下文handler
func NewContextHandler(next slog.Handler) *ContextHandler {
	if ch, ok := next.(*ContextHandler); ok {
		return ch
	}
	return &ContextHandler{next: next}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		for _, key := range []ctxkey.ContextKey{ctxkey.TraceID, ctxkey.RequestID, ctxkey.UserID, ctxkey.FederationQuery} {
			if v := ctxkey.GetString(ctx, key); v != "" {
				r.AddAttrs(slog.String(string(key), v))
			}
		}
	}
	return h.next.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{next: h.next.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{next: h.next.WithGroup(name)}
}

// 便捷函数，使用全局logger

func Debug(msg string, args ...any) {
	GetLogger().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	GetLogger().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	GetLogger().Warn(msg, args...)
}

func Error(msg string, err error, args ...any) {
	GetLogger().Error(msg, err, args...)
}

func DebugContext(ctx context.Context, msg string, args ...any) {
	GetLogger().DebugContext(ctx, msg, args...)
}

func InfoContext(ctx context.Context, msg string, args ...any) {
	GetLogger().InfoContext(ctx, msg, args...)
}

func WarnContext(ctx context.Context, msg string, args ...any) {
	GetLogger().WarnContext(ctx, msg, args...)
}

func ErrorContext(ctx context.Context, msg string, args ...any) {
	GetLogger().ErrorContext(ctx, msg, args...)
}

// LogAppError 按 AppError 的级别记录日志，结构化字段来自其 LogValue
func LogAppError(ctx context.Context, msg string, appErr *xerrors.AppError) {
	if appErr == nil {
		return
	}
	logger := GetLogger()

	switch appErr.Level {
	case xerrors.LevelCritical, xerrors.LevelError:
		logger.ErrorContext(ctx, msg, slog.Any("app_error", appErr))
	case xerrors.LevelWarn:
		logger.WarnContext(ctx, msg, slog.Any("app_error", appErr))
	default:
		logger.InfoContext(ctx, msg, slog.Any("app_error", appErr))
	}
}

// LogHTTPRequest 记录HTTP请求日志，级别由状态码决定
func LogHTTPRequest(ctx context.Context, method, path string, statusCode int, durationMs int64, clientIP string) {
	args := []any{
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status_code", statusCode),
		slog.Int64("duration_ms", durationMs),
		slog.String("client_ip", clientIP),
	}

	switch {
	case statusCode >= 500:
		GetLogger().ErrorContext(ctx, "请求完成(服务端错误)", args...)
	case statusCode >= 400:
		GetLogger().WarnContext(ctx, "请求完成(客户端错误)", args...)
	default:
		GetLogger().InfoContext(ctx, "请求完成", args...)
	}
}

// LogBusinessEvent 记录业务事件
func LogBusinessEvent(ctx context.Context, event string, entityType, entityID string, metadata map[string]interface{}) {
	args := []any{
		slog.String("event", event),
		slog.String("entity_type", entityType),
		slog.String("entity_id", entityID),
	}
	if metadata != nil {
		args = append(args, slog.Any("metadata", metadata))
	}
	GetLogger().InfoContext(ctx, "业务事件", args...)
}

// String 字符串属性
func String(key, value string) slog.Attr {
	return slog.String(key, value)
}

// Int 整数属性
func Int(key string, value int) slog.Attr {
	return slog.Int(key, value)
}

func Int64(key string, value int64) slog.Attr {
	return slog.Int64(key, value)
}

// Bool 布尔属性
func Bool(key string, value bool) slog.Attr {
	return slog.Bool(key, value)
}

// Any 任意类型属性
func Any(key string, value interface{}) slog.Attr {
	return slog.Any(key, value)
}

// Err 错误属性，统一使用 "error" 作为键
func Err(err error) slog.Attr {
	return slog.Any("error", err)
}

// Duration 时间间隔属性（以毫秒为单位）
func Duration(key string, durationMs int64) slog.Attr {
	return slog.Int64(key+"_ms", durationMs)
}
