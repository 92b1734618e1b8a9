package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/dep2p/go-dispatch/pkg/types"
)

// HandlingConfig Handling 默认配置
//
// 由宿主程序（如 cmd/sensor-sim）在创建 Handling 时使用，
// 调用 AddHandling 时显式传入的参数优先。
type HandlingConfig struct {
	// QueueCapacity 队列容量
	// 默认值: 1024
	QueueCapacity int `json:"queue_capacity"`

	// Workers 每个 Handling 的工作者数量
	// 默认值: 1
	Workers int `json:"workers"`

	// Priority 优先级（lowest/low/normal/high/highest）
	// 默认值: normal
	Priority types.Priority `json:"priority"`

	// PushPolicy 队列满时的入队策略（reject/block）
	// 默认值: reject
	PushPolicy types.PushPolicy `json:"push_policy"`

	// PollInterval 工作者空闲时的最长等待间隔
	// 默认值: 100ms
	PollInterval Duration `json:"poll_interval"`

	// DrainOnStop 停止时是否处理完队列中剩余事件
	// false 时剩余事件被丢弃
	// 默认值: true
	DrainOnStop bool `json:"drain_on_stop"`

	// RateLimit 每秒最多接受的事件数，0 表示不限制
	// 默认值: 0
	RateLimit float64 `json:"rate_limit"`

	// RateBurst 限流突发容量，RateLimit > 0 时生效
	// 默认值: 1
	RateBurst int `json:"rate_burst"`
}

// DefaultHandlingConfig 返回默认的 Handling 配置
func DefaultHandlingConfig() HandlingConfig {
	return HandlingConfig{
		QueueCapacity: 1024,
		Workers:       1,
		Priority:      types.PriorityNormal,
		PushPolicy:    types.PushReject,
		PollInterval:  Duration(100 * time.Millisecond),
		DrainOnStop:   true,
		RateBurst:     1,
	}
}

// Validate 验证 Handling 配置的有效性
func (c *HandlingConfig) Validate() error {
	var errs []error
	if c.QueueCapacity <= 0 {
		errs = append(errs, fmt.Errorf("handling.queue_capacity must be positive, got %d", c.QueueCapacity))
	}
	if c.Workers <= 0 {
		errs = append(errs, fmt.Errorf("handling.workers must be positive, got %d", c.Workers))
	}
	if !c.Priority.IsValid() {
		errs = append(errs, fmt.Errorf("handling.priority invalid: %s", c.Priority))
	}
	if c.PushPolicy != types.PushReject && c.PushPolicy != types.PushBlock {
		errs = append(errs, fmt.Errorf("handling.push_policy invalid: %d", int(c.PushPolicy)))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, errors.New("handling.poll_interval must be positive"))
	}
	if c.RateLimit < 0 {
		errs = append(errs, errors.New("handling.rate_limit must not be negative"))
	}
	if c.RateLimit > 0 && c.RateBurst <= 0 {
		errs = append(errs, errors.New("handling.rate_burst must be positive when rate_limit is set"))
	}
	return combine(errs...)
}
