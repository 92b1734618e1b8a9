package config

import (
	"fmt"
	"strings"

	"github.com/dep2p/go-dispatch/pkg/lib/log"
)

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别，格式同 DISPATCH_LOG_LEVEL
	// 例如 "info" 或 "core/handling=debug,warn"
	// 默认值: info
	Level string `json:"level"`

	// Format 输出格式（text/json）
	// 默认值: text
	Format string `json:"format"`

	// AddSource 是否输出源码位置
	// 默认值: false
	AddSource bool `json:"add_source"`
}

// DefaultLogConfig 返回默认的日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:  "info",
		Format: "text",
	}
}

// Validate 验证日志配置的有效性
func (c *LogConfig) Validate() error {
	switch strings.ToLower(c.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Format)
	}

	for _, part := range strings.Split(c.Level, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if i := strings.IndexByte(part, '='); i >= 0 {
			part = strings.TrimSpace(part[i+1:])
		}
		if _, ok := log.ParseLevel(part); !ok {
			return fmt.Errorf("log.level: unknown level %q", part)
		}
	}
	return nil
}

// Apply 将日志配置应用到全局日志子系统
func (c *LogConfig) Apply() {
	log.Configure(c.Level, c.Format, c.AddSource)
}
