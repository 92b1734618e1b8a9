package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/multierr"

	"github.com/dep2p/go-dispatch"
	"github.com/dep2p/go-dispatch/config"
)

// ============================================================================
//                              配置加载（CLI 专用）
// ============================================================================

// 模拟器专用环境变量
const (
	envSensors   = "SENSOR_SIM_SENSORS"
	envInterval  = "SENSOR_SIM_INTERVAL"
	envThreshold = "SENSOR_SIM_THRESHOLD"
)

// simParams 模拟器运行参数（不属于 config.Config）
type simParams struct {
	sensors   int
	interval  time.Duration
	threshold float64
	maxAlarms int
	duration  time.Duration
}

func (p simParams) validate() error {
	var err error
	if p.sensors <= 0 {
		err = multierr.Append(err, errors.New("sensors must be positive"))
	}
	if p.interval <= 0 {
		err = multierr.Append(err, errors.New("interval must be positive"))
	}
	if p.maxAlarms < 0 {
		err = multierr.Append(err, errors.New("max-alarms must be non-negative"))
	}
	if p.duration < 0 {
		err = multierr.Append(err, errors.New("duration must be non-negative"))
	}
	return err
}

// loadConfig 加载统一配置
//
// 配置优先级（从高到低）：
//  1. 命令行参数
//  2. 环境变量（DISPATCH_* 前缀）
//  3. 配置文件
//  4. 默认值
func loadConfig(path string) (*config.Config, error) {
	cfg := config.NewConfig()
	if path != "" {
		var err error
		cfg, err = config.LoadFile(path)
		if err != nil {
			return nil, err
		}
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return nil, fmt.Errorf("环境变量错误: %w", err)
	}
	return cfg, nil
}

// applySimEnv 应用模拟器专用环境变量
func applySimEnv(p *simParams, lookup func(string) (string, bool)) error {
	var err error
	if v, ok := lookup(envSensors); ok {
		n, perr := strconv.Atoi(v)
		if perr != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", envSensors, perr))
		} else {
			p.sensors = n
		}
	}
	if v, ok := lookup(envInterval); ok {
		d, perr := time.ParseDuration(v)
		if perr != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", envInterval, perr))
		} else {
			p.interval = d
		}
	}
	if v, ok := lookup(envThreshold); ok {
		f, perr := strconv.ParseFloat(v, 64)
		if perr != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", envThreshold, perr))
		} else {
			p.threshold = f
		}
	}
	return err
}

// buildOptions 由配置构建 Engine 选项
//
// 只有提供了配置文件时才用 config.Log 覆盖 DISPATCH_LOG_* 环境变量。
func buildOptions(cfg *config.Config, fromFile bool, metricsAddr string) []dispatch.Option {
	opts := []dispatch.Option{
		dispatch.WithConfig(cfg),
		dispatch.WithExitHandling(),
	}
	if fromFile {
		opts = append(opts, dispatch.WithLogConfig())
	}
	if metricsAddr != "" {
		opts = append(opts, dispatch.WithPrometheus(nil))
	}
	return opts
}

// osLookup 包装 os.LookupEnv，便于测试替换
var osLookup = os.LookupEnv
