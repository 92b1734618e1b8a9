package dispatch

import (
	"errors"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-dispatch/config"
	"github.com/dep2p/go-dispatch/internal/core/dispatcher"
	"github.com/dep2p/go-dispatch/internal/core/handling"
	"github.com/dep2p/go-dispatch/pkg/types"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	// 统一配置（默认 config.NewConfig()）
	config *config.Config

	// 是否在构建前应用 DISPATCH_ 环境变量
	useEnv bool

	// 是否将 config.Log 应用到全局日志子系统
	applyLog bool

	// 退出事件
	exitHandling bool

	// Prometheus 注册器，为 nil 时使用 Engine 自带的 Registry
	registerer prometheus.Registerer

	clock clock.Clock

	// 追加给底层 Dispatcher 的选项
	dispatcherOpts []dispatcher.Option

	// 用户自定义 Fx 选项
	userFxOptions []fx.Option
}

// newOptions 创建默认选项
func newOptions() *options {
	return &options{
		config: config.NewConfig(),
	}
}

// apply 依次应用选项，出错立即返回
func (o *options) apply(opts ...Option) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(o); err != nil {
			return err
		}
	}
	return nil
}

// ============================================================================
//                              配置来源
// ============================================================================

// WithConfig 使用完整配置
//
// 配置被克隆，调用方后续修改不影响 Engine。
// 排在它之后的选项会继续覆盖对应字段。
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return errors.New("config is nil")
		}
		o.config = config.CloneConfig(cfg)
		return nil
	}
}

// WithConfigFile 从 JSON 文件加载配置
func WithConfigFile(path string) Option {
	return func(o *options) error {
		cfg, err := config.LoadFile(path)
		if err != nil {
			return err
		}
		o.config = cfg
		return nil
	}
}

// WithEnv 在构建前应用 DISPATCH_ 前缀的环境变量
func WithEnv() Option {
	return func(o *options) error {
		o.useEnv = true
		return nil
	}
}

// WithLogConfig 将 config.Log 应用到全局日志子系统
//
// 默认不修改全局日志配置（仍由 DISPATCH_LOG_* 环境变量控制）。
func WithLogConfig() Option {
	return func(o *options) error {
		o.applyLog = true
		return nil
	}
}

// ============================================================================
//                              Dispatcher 选项
// ============================================================================

// WithStopTimeout 设置 Stop 等待工作者退出的最长时间
//
// 0 表示一直等待。
func WithStopTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return errors.New("stop timeout must be non-negative")
		}
		o.config.Dispatcher.StopTimeout = config.Duration(d)
		return nil
	}
}

// WithIgnorePublishAfterStop 停止后发布静默返回 OK
func WithIgnorePublishAfterStop() Option {
	return func(o *options) error {
		o.config.Dispatcher.IgnorePublishAfterStop = true
		return nil
	}
}

// WithClock 替换时钟（测试使用 clock.NewMock()）
func WithClock(clk clock.Clock) Option {
	return func(o *options) error {
		o.clock = clk
		return nil
	}
}

// WithDispatcherOptions 追加底层 Dispatcher 选项
func WithDispatcherOptions(opts ...dispatcher.Option) Option {
	return func(o *options) error {
		o.dispatcherOpts = append(o.dispatcherOpts, opts...)
		return nil
	}
}

// ============================================================================
//                              Handling 默认值
// ============================================================================

// WithPushPolicy 设置 Handling 默认的满队列策略
func WithPushPolicy(p types.PushPolicy) Option {
	return func(o *options) error {
		if p != types.PushReject && p != types.PushBlock {
			return errors.New("invalid push policy")
		}
		o.config.Handling.PushPolicy = p
		return nil
	}
}

// WithDrainOnStop 设置停止时是否处理完队列中剩余事件
func WithDrainOnStop(drain bool) Option {
	return func(o *options) error {
		o.config.Handling.DrainOnStop = drain
		return nil
	}
}

// WithRateLimit 为每个 Handling 设置默认入队速率限制
func WithRateLimit(perSecond float64, burst int) Option {
	return func(o *options) error {
		if perSecond < 0 || burst < 1 {
			return errors.New("rate limit must be non-negative with burst >= 1")
		}
		o.config.Handling.RateLimit = perSecond
		o.config.Handling.RateBurst = burst
		return nil
	}
}

// WithPollInterval 设置空闲工作者的轮询间隔
func WithPollInterval(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return errors.New("poll interval must be positive")
		}
		o.config.Handling.PollInterval = config.Duration(d)
		return nil
	}
}

// WithPanicHandler 为所有 Handling 设置 panic 回调
func WithPanicHandler(fn PanicHandler) Option {
	return func(o *options) error {
		o.dispatcherOpts = append(o.dispatcherOpts,
			dispatcher.WithHandlingDefaults(handling.WithPanicHandler(fn)))
		return nil
	}
}

// ============================================================================
//                              指标
// ============================================================================

// WithMetrics 启用或禁用内置统计
func WithMetrics(enabled bool) Option {
	return func(o *options) error {
		o.config.Metrics.Enabled = enabled
		return nil
	}
}

// WithPrometheus 将 Handling 指标注册到 Prometheus
//
// reg 为 nil 时使用 Engine 自带的 Registry，可通过 Engine.Gatherer 获取。
// 同时隐式启用内置统计。
func WithPrometheus(reg prometheus.Registerer) Option {
	return func(o *options) error {
		o.config.Metrics.Enabled = true
		o.config.Metrics.Prometheus = true
		o.registerer = reg
		return nil
	}
}

// ============================================================================
//                              扩展
// ============================================================================

// WithExitHandling 注册 Exit 事件的 Handling
//
// 收到 Exit 事件后 Engine.ExitRequested() 关闭，宿主随后调用 Stop。
func WithExitHandling() Option {
	return func(o *options) error {
		o.exitHandling = true
		return nil
	}
}

// WithFxOptions 追加自定义 Fx 选项
//
// 可用于向 group:"dispatcher_options" 提供 Option，或注入额外组件。
func WithFxOptions(opts ...fx.Option) Option {
	return func(o *options) error {
		o.userFxOptions = append(o.userFxOptions, opts...)
		return nil
	}
}
