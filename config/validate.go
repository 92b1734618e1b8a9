package config

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// combine 合并多个校验错误，全部为 nil 时返回 nil
func combine(errs ...error) error {
	return multierr.Combine(errs...)
}

// ValidateAll 验证整个配置的有效性
//
// 这是 Config.Validate() 的别名，额外处理 nil 配置。
func ValidateAll(c *Config) error {
	if c == nil {
		return errors.New("config is nil")
	}
	return c.Validate()
}

// ValidateAndFix 验证配置并尝试自动修复常见问题
//
// 可修复的问题：
//   - 队列容量、工作者数量非正数 -> 使用默认值
//   - 轮询间隔非正数 -> 使用默认值
//   - 超时时间为负 -> 使用默认值
//   - 限流突发容量缺失 -> 1
//   - 日志格式为空 -> text
func ValidateAndFix(c *Config) (*Config, error) {
	if c == nil {
		return NewConfig(), nil
	}

	def := NewConfig()

	if c.Dispatcher.StopTimeout < 0 {
		c.Dispatcher.StopTimeout = def.Dispatcher.StopTimeout
	}
	if c.Handling.QueueCapacity <= 0 {
		c.Handling.QueueCapacity = def.Handling.QueueCapacity
	}
	if c.Handling.Workers <= 0 {
		c.Handling.Workers = def.Handling.Workers
	}
	if c.Handling.PollInterval <= 0 {
		c.Handling.PollInterval = def.Handling.PollInterval
	}
	if c.Handling.RateLimit > 0 && c.Handling.RateBurst <= 0 {
		c.Handling.RateBurst = 1
	}
	if c.Metrics.TrimInterval < 0 {
		c.Metrics.TrimInterval = def.Metrics.TrimInterval
	}
	if c.Metrics.IdleTimeout < 0 {
		c.Metrics.IdleTimeout = def.Metrics.IdleTimeout
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}

	// 验证修复后的配置
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed after fixes: %w", err)
	}

	return c, nil
}

// MustValidate 验证配置，如果失败则 panic
//
// 仅用于初始化阶段或测试代码。
// 生产代码应使用 Validate() 并处理错误。
func MustValidate(c *Config) {
	if err := ValidateAll(c); err != nil {
		panic(fmt.Sprintf("config validation failed: %v", err))
	}
}
