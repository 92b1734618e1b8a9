package dispatcher

import (
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-dispatch/config"
	"github.com/dep2p/go-dispatch/internal/core/handling"
	"github.com/dep2p/go-dispatch/internal/core/metrics"
)

// Options Dispatcher 可选参数
type Options struct {
	// StopTimeout 停止时等待工作者退出的最长时间，0 表示只受调用方 ctx 限制
	StopTimeout time.Duration

	// IgnorePublishAfterStop 停止后发布返回 OK 而不是 ERROR_STOPPING
	IgnorePublishAfterStop bool

	// Reporter 指标记录器，传递给所有 Handling
	Reporter metrics.Reporter

	// Clock 时钟，传递给所有 Handling
	Clock clock.Clock

	// HandlingDefaults 每个 Handling 的默认选项，AddHandling 传入的选项在其后应用
	HandlingDefaults []handling.Option
}

// Option 配置 Dispatcher 的函数
type Option func(*Options)

func defaultOptions() Options {
	return Options{
		StopTimeout: 5 * time.Second,
		Reporter:    metrics.Nop(),
		Clock:       clock.New(),
	}
}

// WithStopTimeout 设置停止等待时间
func WithStopTimeout(d time.Duration) Option {
	return func(o *Options) {
		if d >= 0 {
			o.StopTimeout = d
		}
	}
}

// WithIgnorePublishAfterStop 停止后的发布静默成功
func WithIgnorePublishAfterStop() Option {
	return func(o *Options) {
		o.IgnorePublishAfterStop = true
	}
}

// WithReporter 设置指标记录器
func WithReporter(r metrics.Reporter) Option {
	return func(o *Options) {
		if r != nil {
			o.Reporter = r
		}
	}
}

// WithClock 设置时钟
func WithClock(c clock.Clock) Option {
	return func(o *Options) {
		if c != nil {
			o.Clock = c
		}
	}
}

// WithHandlingDefaults 追加每个 Handling 的默认选项
func WithHandlingDefaults(opts ...handling.Option) Option {
	return func(o *Options) {
		o.HandlingDefaults = append(o.HandlingDefaults, opts...)
	}
}

// FromConfig 从统一配置设置 Dispatcher 与 Handling 默认值
func FromConfig(cfg *config.Config) Option {
	return func(o *Options) {
		if cfg == nil {
			return
		}
		o.StopTimeout = cfg.Dispatcher.StopTimeout.Duration()
		o.IgnorePublishAfterStop = cfg.Dispatcher.IgnorePublishAfterStop

		hc := cfg.Handling
		o.HandlingDefaults = append(o.HandlingDefaults,
			handling.WithPushPolicy(hc.PushPolicy),
			handling.WithPollInterval(hc.PollInterval.Duration()),
			handling.WithDrainOnStop(hc.DrainOnStop),
			handling.WithRateLimit(hc.RateLimit, hc.RateBurst),
		)
	}
}
