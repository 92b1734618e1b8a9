package metrics

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-dispatch/config"
	"github.com/dep2p/go-dispatch/pkg/lib/log"
)

var logger = log.Logger("core/metrics")

// Config 指标配置
type Config struct {
	// Enabled 是否启用指标收集
	Enabled bool

	// TrimInterval 清理空闲统计的间隔，0 表示不清理
	TrimInterval time.Duration

	// IdleTimeout 空闲超过此时长的 Handling 统计会被清理
	IdleTimeout time.Duration
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return ConfigFromUnified(nil)
}

// ConfigFromUnified 从统一配置创建指标配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return Config{
		Enabled:      cfg.Metrics.Enabled,
		TrimInterval: cfg.Metrics.TrimInterval.Duration(),
		IdleTimeout:  cfg.Metrics.IdleTimeout.Duration(),
	}
}

// Params Metrics 依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
	Clock      clock.Clock    `optional:"true"`
	Lifecycle  fx.Lifecycle
}

// Module 是 metrics 的 Fx 模块
var Module = fx.Module("metrics",
	fx.Provide(NewReporterFromParams),
)

// NewReporterFromParams 从参数创建 Reporter
//
// 指标关闭时返回 Nop()。启用时注册生命周期钩子，
// 按 TrimInterval 定期清理空闲的 Handling 统计。
func NewReporterFromParams(p Params) Reporter {
	cfg := ConfigFromUnified(p.UnifiedCfg)
	if !cfg.Enabled {
		return Nop()
	}

	clk := p.Clock
	if clk == nil {
		clk = clock.New()
	}
	counter := NewCounterWithClock(clk)

	if cfg.TrimInterval > 0 && cfg.IdleTimeout > 0 {
		trimmer := newTrimmer(counter, clk, cfg.TrimInterval, cfg.IdleTimeout)
		p.Lifecycle.Append(fx.Hook{
			OnStart: func(context.Context) error {
				trimmer.start()
				return nil
			},
			OnStop: func(context.Context) error {
				trimmer.stop()
				return nil
			},
		})
	}
	return counter
}

// trimmer 定期清理空闲统计
type trimmer struct {
	counter  *Counter
	clock    clock.Clock
	interval time.Duration
	idle     time.Duration
	done     chan struct{}
	exited   chan struct{}
}

func newTrimmer(c *Counter, clk clock.Clock, interval, idle time.Duration) *trimmer {
	return &trimmer{
		counter:  c,
		clock:    clk,
		interval: interval,
		idle:     idle,
		done:     make(chan struct{}),
		exited:   make(chan struct{}),
	}
}

func (t *trimmer) start() {
	ticker := t.clock.Ticker(t.interval)
	go func() {
		defer close(t.exited)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				t.counter.TrimIdle(t.clock.Now().Add(-t.idle))
				logger.Trace("空闲统计已清理")
			case <-t.done:
				return
			}
		}
	}()
}

func (t *trimmer) stop() {
	close(t.done)
	<-t.exited
}
