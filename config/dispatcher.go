package config

import (
	"errors"
	"time"
)

// DispatcherConfig 调度器配置
type DispatcherConfig struct {
	// StopTimeout 停止时等待工作者退出的最长时间
	// 超时后 Stop 返回 ERROR_STOPPING，0 表示无限等待
	// 默认值: 5s
	StopTimeout Duration `json:"stop_timeout"`

	// IgnorePublishAfterStop 停止后发布是否静默忽略
	// false 时返回 ERROR_STOPPING
	// 默认值: false
	IgnorePublishAfterStop bool `json:"ignore_publish_after_stop"`
}

// DefaultDispatcherConfig 返回默认的调度器配置
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		StopTimeout: Duration(5 * time.Second),
	}
}

// Validate 验证调度器配置的有效性
func (c *DispatcherConfig) Validate() error {
	if c.StopTimeout < 0 {
		return errors.New("dispatcher.stop_timeout must not be negative")
	}
	return nil
}
