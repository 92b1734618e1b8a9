package config

import (
	"errors"
	"time"
)

// MetricsConfig 指标配置
//
// 配置 Handling 级别的计数与速率统计。
type MetricsConfig struct {
	// Enabled 是否启用指标收集
	// 默认值: true
	Enabled bool `json:"enabled"`

	// Prometheus 是否注册 Prometheus Collector
	// 默认值: false
	Prometheus bool `json:"prometheus"`

	// TrimInterval 清理空闲条目的间隔
	// 默认值: 5m
	TrimInterval Duration `json:"trim_interval"`

	// IdleTimeout 空闲超时，超过此时间的条目会被清理
	// 默认值: 30m
	IdleTimeout Duration `json:"idle_timeout"`
}

// DefaultMetricsConfig 返回默认的指标配置
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled:      true,
		TrimInterval: Duration(5 * time.Minute),
		IdleTimeout:  Duration(30 * time.Minute),
	}
}

// Validate 验证指标配置的有效性
func (c *MetricsConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.TrimInterval < 0 || c.IdleTimeout < 0 {
		return errors.New("metrics intervals must not be negative")
	}
	return nil
}
