// Package logger 是 go-dispatch 各子系统共用的 slog 后端
//
// 每个子系统（"core/handling"、"core/dispatcher"、"sensor-sim" 等）
// 持有一个带 subsystem 属性的 *slog.Logger，级别可以单独调整：
//
//	DISPATCH_LOG_LEVEL=core/handling=debug,info
//	DISPATCH_LOG_FORMAT=json
//
// 除 slog 内置级别外，处理器 panic 使用 LevelFatal，工作者轮询细节使用 LevelTrace。
// 业务代码通过 pkg/lib/log 使用，不直接依赖本包。
package logger

import (
	"io"
	"log/slog"
	"sync"
)

var (
	// loggers 子系统 → *slog.Logger
	loggers sync.Map

	// handlers 子系统 → *subsystemHandler，供运行时调整级别
	handlers sync.Map
)

// Logger 返回子系统的 Logger，同一子系统始终返回同一实例
//
// 首次创建时按当前配置（环境变量或 Configure）确定级别和输出格式。
func Logger(subsystem string) *slog.Logger {
	if l, ok := loggers.Load(subsystem); ok {
		return l.(*slog.Logger)
	}

	cfg := ConfigFromEnv()
	h := newHandler(subsystem, cfg.LevelForSubsystem(subsystem), cfg.Format, cfg.AddSource)

	actual, loaded := loggers.LoadOrStore(subsystem, slog.New(h))
	if !loaded {
		handlers.Store(subsystem, h)
	}
	return actual.(*slog.Logger)
}

// SetLevel 调整已创建子系统的级别，包括由其 With 派生的 Logger
func SetLevel(subsystem string, level slog.Level) {
	if h, ok := handlers.Load(subsystem); ok {
		h.(*subsystemHandler).SetLevel(level)
	}
}

// SetGlobalLevel 调整所有已创建子系统的级别
func SetGlobalLevel(level slog.Level) {
	handlers.Range(func(_, value any) bool {
		value.(*subsystemHandler).SetLevel(level)
		return true
	})
}

// SetOutput 切换所有 Logger 的输出目标，已创建的 Logger 同样生效
func SetOutput(w io.Writer) {
	globalOutputMu.Lock()
	globalOutput = w
	globalOutputMu.Unlock()
}

// Discard 返回丢弃所有记录的 Logger
func Discard() *slog.Logger {
	return slog.New(DiscardHandler())
}
