package handling

import (
	"time"

	"github.com/benbjohnson/clock"
	"golang.org/x/time/rate"

	"github.com/dep2p/go-dispatch/internal/core/metrics"
	"github.com/dep2p/go-dispatch/pkg/types"
)

// DefaultPollInterval 工作者空闲时的默认最长等待间隔
const DefaultPollInterval = 100 * time.Millisecond

// PanicHandler 处理器 panic 回调
//
// event 为触发 panic 的事件，stack 为 debug.Stack() 的输出。
// 回调自身的 panic 会被忽略。
type PanicHandler func(key types.HandlingKey, event any, recovered any, stack []byte)

// Options Handling 可选参数
type Options struct {
	// Policy 队列满时的入队策略
	Policy types.PushPolicy

	// PollInterval 工作者空闲时的最长等待间隔
	PollInterval time.Duration

	// Drain 停止时是否处理完剩余事件
	Drain bool

	// Limiter 入队限流器，nil 表示不限流
	Limiter *rate.Limiter

	// Clock 时钟（测试中使用 clock.NewMock()）
	Clock clock.Clock

	// Reporter 指标记录器
	Reporter metrics.Reporter

	// OnPanic 处理器 panic 回调
	OnPanic PanicHandler
}

// Option 配置 Handling 的函数
type Option func(*Options)

func defaultOptions() Options {
	return Options{
		Policy:       types.PushReject,
		PollInterval: DefaultPollInterval,
		Drain:        true,
		Clock:        clock.New(),
		Reporter:     metrics.Nop(),
	}
}

// WithPushPolicy 设置队列满时的入队策略
func WithPushPolicy(p types.PushPolicy) Option {
	return func(o *Options) {
		o.Policy = p
	}
}

// WithPollInterval 设置工作者空闲时的最长等待间隔
//
// 非正数被忽略。
func WithPollInterval(d time.Duration) Option {
	return func(o *Options) {
		if d > 0 {
			o.PollInterval = d
		}
	}
}

// WithDrainOnStop 设置停止时是否处理完剩余事件
func WithDrainOnStop(drain bool) Option {
	return func(o *Options) {
		o.Drain = drain
	}
}

// WithRateLimit 限制每秒入队的事件数
//
// perSecond <= 0 表示不限流。
func WithRateLimit(perSecond float64, burst int) Option {
	return func(o *Options) {
		if perSecond <= 0 {
			o.Limiter = nil
			return
		}
		if burst <= 0 {
			burst = 1
		}
		o.Limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithLimiter 使用外部限流器（可在多个 Handling 间共享）
func WithLimiter(l *rate.Limiter) Option {
	return func(o *Options) {
		o.Limiter = l
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

// WithReporter 设置指标记录器
func WithReporter(r metrics.Reporter) Option {
	return func(o *Options) {
		if r != nil {
			o.Reporter = r
		}
	}
}

// WithPanicHandler 设置处理器 panic 回调
func WithPanicHandler(fn PanicHandler) Option {
	return func(o *Options) {
		o.OnPanic = fn
	}
}
