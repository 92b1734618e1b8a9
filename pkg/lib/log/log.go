// Package log 提供 go-dispatch 统一日志接口
//
// 基于 internal/util/logger 的子系统 Handler 封装，提供简洁的日志 API。
// 日志级别由 DISPATCH_LOG_LEVEL 环境变量或 config.LogConfig 控制。
package log

import (
	"context"
	"io"
	"log/slog"

	"github.com/dep2p/go-dispatch/internal/util/logger"
	"github.com/dep2p/go-dispatch/pkg/interfaces"
)

// 日志级别常量
const (
	LevelTrace = logger.LevelTrace
	LevelDebug = logger.LevelDebug
	LevelInfo  = logger.LevelInfo
	LevelWarn  = logger.LevelWarn
	LevelError = logger.LevelError
	LevelFatal = logger.LevelFatal
	LevelTest  = logger.LevelTest
)

// SetOutput 设置日志输出目标
//
// 已创建的 logger 同样会重定向到新的 Writer。
//
// 示例：
//
//	file, _ := os.OpenFile("app.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
//	log.SetOutput(file)
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// SetLevel 设置指定组件的日志级别
func SetLevel(component string, level slog.Level) {
	logger.SetLevel(component, level)
}

// SetGlobalLevel 设置所有已创建组件的日志级别
func SetGlobalLevel(level slog.Level) {
	logger.SetGlobalLevel(level)
}

// ParseLevel 解析日志级别名称
func ParseLevel(name string) (slog.Level, bool) {
	return logger.ParseLevel(name)
}

// Configure 使用显式配置覆盖 DISPATCH_LOG_* 环境变量
//
// levels 与 DISPATCH_LOG_LEVEL 格式相同（"core/handling=debug,info"），
// format 为 "text" 或 "json"。
func Configure(levels, format string, addSource bool) {
	cfg := &logger.Config{
		DefaultLevel: LevelInfo,
		Format:       logger.ParseFormat(format),
		AddSource:    addSource,
	}
	logger.ParseLevelConfig(cfg, levels)
	logger.Configure(cfg)
}

// ============================================================================
//                              LazyLogger
// ============================================================================

// LazyLogger 懒加载 logger
//
// 每次日志调用时从子系统缓存中获取 logger，
// 支持在运行时动态调整级别和输出目标。
//
// 使用方式：
//
//	var myLog = log.Logger("core/handling")  // 返回 *LazyLogger
//	myLog.Info("hello")                        // 动态使用当前子系统配置
type LazyLogger struct {
	component string
}

// 确保 LazyLogger 与 *slog.Logger 实现 interfaces.Logger 接口
var (
	_ interfaces.Logger = (*LazyLogger)(nil)
	_ interfaces.Logger = (*slog.Logger)(nil)
)

func (l *LazyLogger) get() *slog.Logger {
	return logger.Logger(l.component)
}

// Trace 输出 Trace 级别日志
func (l *LazyLogger) Trace(msg string, args ...any) {
	l.get().Log(context.Background(), LevelTrace, msg, args...)
}

// Debug 输出 Debug 级别日志
func (l *LazyLogger) Debug(msg string, args ...any) {
	l.get().Debug(msg, args...)
}

// Info 输出 Info 级别日志
func (l *LazyLogger) Info(msg string, args ...any) {
	l.get().Info(msg, args...)
}

// Warn 输出 Warn 级别日志
func (l *LazyLogger) Warn(msg string, args ...any) {
	l.get().Warn(msg, args...)
}

// Error 输出 Error 级别日志
func (l *LazyLogger) Error(msg string, args ...any) {
	l.get().Error(msg, args...)
}

// Fatal 输出 Fatal 级别日志
//
// 仅记录，不终止进程。
func (l *LazyLogger) Fatal(msg string, args ...any) {
	l.get().Log(context.Background(), LevelFatal, msg, args...)
}

// Log 按指定级别输出
func (l *LazyLogger) Log(ctx context.Context, level slog.Level, msg string, args ...any) {
	l.get().Log(ctx, level, msg, args...)
}

// With 添加额外的属性
func (l *LazyLogger) With(args ...any) *slog.Logger {
	return l.get().With(args...)
}

// Component 返回组件名
func (l *LazyLogger) Component() string {
	return l.component
}

// Logger 返回带组件名的 LazyLogger
func Logger(component string) *LazyLogger {
	return &LazyLogger{component: component}
}

// ============================================================================
//                              工具函数
// ============================================================================

// TruncateID 安全截取 ID 用于日志显示
//
// 如果 ID 长度小于等于 maxLen，返回原 ID；
// 否则返回前 maxLen 个字符。
func TruncateID(id string, maxLen int) string {
	if len(id) <= maxLen {
		return id
	}
	return id[:maxLen]
}
