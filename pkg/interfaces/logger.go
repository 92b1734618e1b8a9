// Package interfaces 定义 go-dispatch 公共接口
//
// 本文件定义 Logger 接口，Dispatcher 通过它报告失败结果和处理器异常。
package interfaces

import (
	"context"
	"log/slog"
)

// Logger 日志接口
//
// 纯副作用输出，不向 Dispatcher 返回任何约定。
// *slog.Logger 与 *log.LazyLogger 均满足该接口。
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	// Log 按指定级别输出（用于 trace/fatal/test 等扩展级别）
	Log(ctx context.Context, level slog.Level, msg string, args ...any)
}
