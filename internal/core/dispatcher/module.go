package dispatcher

import (
	"context"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-dispatch/config"
	"github.com/dep2p/go-dispatch/internal/core/metrics"
)

// ============================================================================
// Fx 模块
// ============================================================================

// Params Dispatcher 依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config   `optional:"true"`
	Reporter   metrics.Reporter `optional:"true"`
	Clock      clock.Clock      `optional:"true"`
	Options    []Option         `group:"dispatcher_options"`
}

// Module 返回 Fx 模块
//
// 提供 *Dispatcher，并把 Start/Stop 挂到 fx 生命周期上。
// 其他模块可以通过 group:"dispatcher_options" 追加 Option。
func Module() fx.Option {
	return fx.Module("dispatcher",
		fx.Provide(NewFromParams),
		fx.Invoke(registerLifecycle),
	)
}

// NewFromParams 从依赖参数创建 Dispatcher
func NewFromParams(p Params) *Dispatcher {
	opts := []Option{
		FromConfig(p.UnifiedCfg),
		WithReporter(p.Reporter),
		WithClock(p.Clock),
	}
	opts = append(opts, p.Options...)
	return New(opts...)
}

// lifecycleInput 生命周期输入参数
type lifecycleInput struct {
	fx.In
	LC         fx.Lifecycle
	Dispatcher *Dispatcher
}

// registerLifecycle 注册生命周期
func registerLifecycle(input lifecycleInput) {
	d := input.Dispatcher
	input.LC.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			return d.Start().Err()
		},
		OnStop: func(ctx context.Context) error {
			return d.StopContext(ctx).Err()
		},
	})
}
