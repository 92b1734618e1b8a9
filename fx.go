package dispatch

import (
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-dispatch/internal/core/dispatcher"
	"github.com/dep2p/go-dispatch/internal/core/metrics"
	"github.com/dep2p/go-dispatch/pkg/lib/log"
)

// buildFxApp 构建 Fx 应用
//
// 加载顺序（按依赖）：
//  1. 配置注入
//  2. Metrics（Reporter，按配置返回 Counter 或 Nop）
//  3. Dispatcher（生命周期挂到 fx.Lifecycle）
//  4. 条件模块：Prometheus 导出、Exit 事件
//  5. 用户扩展

var fxLogger = log.Logger("dispatch/fx")

func buildFxApp(o *options, e *Engine) (*fx.App, error) {
	// ════════════════════════════════════════════════════════════════════════
	// 1. 配置验证（前置）
	// ════════════════════════════════════════════════════════════════════════
	if err := o.config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	modules := []fx.Option{
		fx.Supply(o.config),
	}
	if o.clock != nil {
		clk := o.clock
		modules = append(modules, fx.Provide(func() clock.Clock { return clk }))
	}

	// ════════════════════════════════════════════════════════════════════════
	// 2. 核心模块
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules,
		metrics.Module,
		dispatcher.Module(),
	)
	for _, opt := range o.dispatcherOpts {
		opt := opt
		modules = append(modules, fx.Provide(fx.Annotate(
			func() dispatcher.Option { return opt },
			fx.ResultTags(`group:"dispatcher_options"`),
		)))
	}

	// ════════════════════════════════════════════════════════════════════════
	// 3. 条件模块
	// ════════════════════════════════════════════════════════════════════════
	if o.config.Metrics.Prometheus {
		modules = append(modules, fx.Invoke(registerCollector(o.registerer, e)))
		fxLogger.Debug("已启用 Prometheus 导出")
	}
	if o.exitHandling {
		modules = append(modules, fx.Invoke(wireExitHandling(e)))
	}

	// ════════════════════════════════════════════════════════════════════════
	// 4. 用户扩展（Fx Options）
	// ════════════════════════════════════════════════════════════════════════
	if len(o.userFxOptions) > 0 {
		modules = append(modules, o.userFxOptions...)
	}

	// ════════════════════════════════════════════════════════════════════════
	// 5. Engine 组件注入
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules, fx.Populate(&e.d, &e.reporter))

	// 禁用 Fx 默认日志输出
	modules = append(modules,
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
		fx.NopLogger,
	)

	app := fx.New(modules...)
	if err := app.Err(); err != nil {
		return nil, fmt.Errorf("build fx app: %w", err)
	}
	return app, nil
}

// collectorInput Prometheus 导出依赖
type collectorInput struct {
	fx.In
	Dispatcher *dispatcher.Dispatcher
	Reporter   metrics.Reporter
}

// registerCollector 将 Handling 指标注册到 Prometheus
func registerCollector(reg prometheus.Registerer, e *Engine) func(collectorInput) error {
	return func(in collectorInput) error {
		if reg == nil {
			r := prometheus.NewRegistry()
			e.gatherer = r
			reg = r
		} else if g, ok := reg.(prometheus.Gatherer); ok {
			e.gatherer = g
		}
		if err := reg.Register(metrics.NewCollector(in.Reporter, in.Dispatcher)); err != nil {
			return fmt.Errorf("register prometheus collector: %w", err)
		}
		return nil
	}
}
