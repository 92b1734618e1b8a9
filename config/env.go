package config

import (
	"fmt"
	"os"
	"strconv"

	"go.uber.org/multierr"
)

// 环境变量名称
const (
	EnvStopTimeout    = "DISPATCH_STOP_TIMEOUT"
	EnvQueueCapacity  = "DISPATCH_QUEUE_CAPACITY"
	EnvWorkers        = "DISPATCH_WORKERS"
	EnvPriority       = "DISPATCH_PRIORITY"
	EnvPushPolicy     = "DISPATCH_PUSH_POLICY"
	EnvDrainOnStop    = "DISPATCH_DRAIN_ON_STOP"
	EnvRateLimit      = "DISPATCH_RATE_LIMIT"
	EnvMetricsEnabled = "DISPATCH_METRICS_ENABLED"
)

// ApplyEnv 使用 DISPATCH_ 前缀的环境变量覆盖配置
//
// 未设置的变量不改变配置；无法解析的变量全部收集后一并返回。
// 日志相关变量（DISPATCH_LOG_*）由日志子系统直接读取。
func ApplyEnv(cfg *Config) error {
	return applyEnv(cfg, os.LookupEnv)
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	var err error

	if v, ok := lookup(EnvStopTimeout); ok {
		err = multierr.Append(err, parseInto(EnvStopTimeout, cfg.Dispatcher.StopTimeout.UnmarshalText, v))
	}
	if v, ok := lookup(EnvQueueCapacity); ok {
		err = multierr.Append(err, parseInt(EnvQueueCapacity, &cfg.Handling.QueueCapacity, v))
	}
	if v, ok := lookup(EnvWorkers); ok {
		err = multierr.Append(err, parseInt(EnvWorkers, &cfg.Handling.Workers, v))
	}
	if v, ok := lookup(EnvPriority); ok {
		err = multierr.Append(err, parseInto(EnvPriority, cfg.Handling.Priority.UnmarshalText, v))
	}
	if v, ok := lookup(EnvPushPolicy); ok {
		err = multierr.Append(err, parseInto(EnvPushPolicy, cfg.Handling.PushPolicy.UnmarshalText, v))
	}
	if v, ok := lookup(EnvDrainOnStop); ok {
		err = multierr.Append(err, parseBool(EnvDrainOnStop, &cfg.Handling.DrainOnStop, v))
	}
	if v, ok := lookup(EnvRateLimit); ok {
		f, perr := strconv.ParseFloat(v, 64)
		if perr != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", EnvRateLimit, perr))
		} else {
			cfg.Handling.RateLimit = f
		}
	}
	if v, ok := lookup(EnvMetricsEnabled); ok {
		err = multierr.Append(err, parseBool(EnvMetricsEnabled, &cfg.Metrics.Enabled, v))
	}

	return err
}

func parseInto(name string, unmarshal func([]byte) error, v string) error {
	if err := unmarshal([]byte(v)); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func parseInt(name string, dst *int, v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = n
	return nil
}

func parseBool(name string, dst *bool, v string) error {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = b
	return nil
}
