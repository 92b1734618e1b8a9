package logger

import (
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// 环境变量名
const (
	EnvLogLevel     = "DISPATCH_LOG_LEVEL"
	EnvLogFormat    = "DISPATCH_LOG_FORMAT"
	EnvLogAddSource = "DISPATCH_LOG_ADD_SOURCE"
)

// 扩展日志级别
//
// slog 内置 debug/info/warn/error，此处补充 trace、fatal 与 test。
// fatal 仅表示严重程度，不会终止进程。
const (
	LevelTrace = slog.Level(-8)
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
	LevelFatal = slog.Level(12)
	LevelTest  = slog.Level(16)
)

// LogFormat 日志输出格式
type LogFormat int

const (
	// FormatText 文本格式（默认）
	FormatText LogFormat = iota
	// FormatJSON JSON 格式
	FormatJSON
)

// Config 日志配置
type Config struct {
	// DefaultLevel 默认日志级别
	DefaultLevel slog.Level

	// SubsystemLevels 各子系统的日志级别
	SubsystemLevels map[string]slog.Level

	// Format 输出格式
	Format LogFormat

	// AddSource 是否添加源码位置
	AddSource bool
}

// LevelForSubsystem 获取指定子系统的日志级别
func (c *Config) LevelForSubsystem(subsystem string) slog.Level {
	if level, ok := c.SubsystemLevels[subsystem]; ok {
		return level
	}
	return c.DefaultLevel
}

// current 当前生效的配置，首次使用时从环境变量解析
var current atomic.Pointer[Config]

// ConfigFromEnv 返回当前配置
//
// 未调用 Configure 时解析 DISPATCH_LOG_LEVEL、DISPATCH_LOG_FORMAT 与
// DISPATCH_LOG_ADD_SOURCE，结果被缓存。
func ConfigFromEnv() *Config {
	if cfg := current.Load(); cfg != nil {
		return cfg
	}
	current.CompareAndSwap(nil, parseConfig())
	return current.Load()
}

// parseConfig 解析环境变量配置
func parseConfig() *Config {
	cfg := &Config{
		DefaultLevel:    slog.LevelInfo,
		SubsystemLevels: make(map[string]slog.Level),
		Format:          FormatText,
		AddSource:       false,
	}

	if levelStr := os.Getenv(EnvLogLevel); levelStr != "" {
		ParseLevelConfig(cfg, levelStr)
	}

	if formatStr := os.Getenv(EnvLogFormat); formatStr != "" {
		cfg.Format = ParseFormat(formatStr)
	}

	if addSourceStr := os.Getenv(EnvLogAddSource); addSourceStr != "" {
		cfg.AddSource = addSourceStr != "false" && addSourceStr != "0"
	}

	return cfg
}

// ParseFormat 解析日志格式名称，未知名称返回 FormatText
func ParseFormat(s string) LogFormat {
	if strings.ToLower(strings.TrimSpace(s)) == "json" {
		return FormatJSON
	}
	return FormatText
}

// ParseLevelConfig 解析日志级别配置字符串
// 格式: subsystem=level,subsystem=level,defaultLevel
// 示例: core/handling=debug,core/queue=warn,info
func ParseLevelConfig(cfg *Config, levelStr string) {
	if cfg.SubsystemLevels == nil {
		cfg.SubsystemLevels = make(map[string]slog.Level)
	}

	parts := strings.Split(levelStr, ",")
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if strings.Contains(part, "=") {
			kv := strings.SplitN(part, "=", 2)
			subsystem := strings.TrimSpace(kv[0])
			if level, ok := ParseLevel(strings.TrimSpace(kv[1])); ok {
				cfg.SubsystemLevels[subsystem] = level
			}
		} else if level, ok := ParseLevel(part); ok {
			cfg.DefaultLevel = level
		}
	}
}

// ParseLevel 解析日志级别名称
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(name) {
	case "trace":
		return LevelTrace, true
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	case "fatal":
		return LevelFatal, true
	case "test":
		return LevelTest, true
	default:
		return LevelInfo, false
	}
}

// Configure 用显式配置替换环境变量配置
//
// 已创建的 Logger 立即同步级别；输出格式与 AddSource 在 Logger 创建时确定，
// 只对之后创建的子系统生效。
func Configure(cfg *Config) {
	current.Store(cfg)
	handlers.Range(func(key, value any) bool {
		value.(*subsystemHandler).SetLevel(cfg.LevelForSubsystem(key.(string)))
		return true
	})
}

// ResetConfig 丢弃缓存的配置，下次使用时重新读取环境变量
func ResetConfig() {
	current.Store(nil)
}
