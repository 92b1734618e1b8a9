package dispatch

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-dispatch/config"
	"github.com/dep2p/go-dispatch/internal/core/dispatcher"
	"github.com/dep2p/go-dispatch/internal/core/metrics"
	"github.com/dep2p/go-dispatch/pkg/lib/log"
	"github.com/dep2p/go-dispatch/pkg/types"
)

var logger = log.Logger("dispatch")

// initializeTimeout 启动超时（Fx App Start）
const initializeTimeout = 30 * time.Second

// ════════════════════════════════════════════════════════════════════════════
//                              Engine
// ════════════════════════════════════════════════════════════════════════════

// Engine 组装好的调度器运行时
//
// 持有 Fx 应用、底层 Dispatcher 与 Reporter。Start/Stop 驱动 Fx 生命周期，
// Dispatcher 的启停挂在其中。Stop 之后 Engine 不能再次启动。
type Engine struct {
	mu sync.Mutex

	app *fx.App
	cfg *config.Config

	d        *dispatcher.Dispatcher
	reporter metrics.Reporter
	gatherer prometheus.Gatherer

	exit       chan struct{}
	exitOnce   sync.Once
	exitReason atomic.Pointer[string]

	started bool
	closed  bool
}

// New 创建 Engine
//
// 返回的 Engine 尚未启动：可以注册 Handling，发布的事件在 Start 之后才会被处理。
//
// 示例：
//
//	eng, err := dispatch.New(
//	    dispatch.WithStopTimeout(2*time.Second),
//	    dispatch.WithExitHandling(),
//	)
//	if err != nil {
//	    return err
//	}
//	defer eng.Close()
//
//	dispatch.AddHandlingFunc(eng.Dispatcher(), "printer", 64, 1, func(t Tick) { fmt.Println(t) })
//	_ = eng.Start(ctx)
//	dispatch.Publish(eng.Dispatcher(), Tick{N: 1})
func New(opts ...Option) (*Engine, error) {
	o := newOptions()
	if err := o.apply(opts...); err != nil {
		return nil, fmt.Errorf("apply option: %w", err)
	}
	if o.useEnv {
		if err := config.ApplyEnv(o.config); err != nil {
			return nil, fmt.Errorf("apply env: %w", err)
		}
	}
	if o.applyLog {
		o.config.Log.Apply()
	}

	e := &Engine{
		cfg:  o.config,
		exit: make(chan struct{}),
	}

	app, err := buildFxApp(o, e)
	if err != nil {
		return nil, err
	}
	e.app = app

	logger.Debug("Engine 已创建", "id", e.d.ID())
	return e, nil
}

// Start 创建并启动 Engine
func Start(ctx context.Context, opts ...Option) (*Engine, error) {
	e, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := e.Start(ctx); err != nil {
		_ = e.Close()
		return nil, err
	}
	return e, nil
}

// Start 启动 Engine
//
// 启动 Fx 应用，进而启动 Dispatcher 及已注册的全部 Handling。
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}
	if e.started {
		return ErrAlreadyStarted
	}

	initCtx, cancel := context.WithTimeout(ctx, initializeTimeout)
	defer cancel()

	if err := e.app.Start(initCtx); err != nil {
		logger.Error("Engine 启动失败", "error", err)
		return fmt.Errorf("start: %w", err)
	}
	e.started = true

	logger.Info("Engine 已启动", "id", e.d.ID(), "handlings", e.d.HandlingCount())
	return nil
}

// Stop 停止 Engine
//
// 第一次调用停止 Fx 应用；之后的调用直接等待 Dispatcher 退出，
// 因此上一次因超时返回 ErrStopping 时可以再次调用 Stop 继续等待。
// 从未启动的 Engine 也可以 Stop，已排队事件被丢弃。
func (e *Engine) Stop(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || !e.started {
		e.closed = true
		return e.d.StopContext(ctx).Err()
	}
	e.closed = true

	if err := e.app.Stop(ctx); err != nil {
		logger.Warn("Engine 停止失败", "error", err)
		return fmt.Errorf("stop: %w", err)
	}

	logger.Info("Engine 已停止", "id", e.d.ID())
	return nil
}

// Close 停止 Engine，等待时间受 dispatcher.stop_timeout 限制
func (e *Engine) Close() error {
	return e.Stop(context.Background())
}

// ════════════════════════════════════════════════════════════════════════════
//                              访问器
// ════════════════════════════════════════════════════════════════════════════

// Dispatcher 返回底层 Dispatcher，用于 AddHandling/Publish
func (e *Engine) Dispatcher() *Dispatcher {
	return e.d
}

// ID 返回 Dispatcher 实例 ID
func (e *Engine) ID() string {
	return e.d.ID()
}

// State 返回 Dispatcher 生命周期状态
func (e *Engine) State() HandlingState {
	return e.d.State()
}

// Config 返回生效配置的副本
func (e *Engine) Config() *config.Config {
	return config.CloneConfig(e.cfg)
}

// Reporter 返回统计上报器（禁用统计时为 Nop）
func (e *Engine) Reporter() Reporter {
	return e.reporter
}

// Stats 返回各 Handling 的统计快照
func (e *Engine) Stats() map[HandlingKey]HandlingStats {
	return e.reporter.GetStatsByHandling()
}

// Handlings 返回全部 Handling 快照
func (e *Engine) Handlings() []HandlingInfo {
	return e.d.Handlings()
}

// Gatherer 返回 Prometheus Gatherer
//
// 未启用 WithPrometheus，或注册器本身不是 Gatherer 时返回 nil。
func (e *Engine) Gatherer() prometheus.Gatherer {
	return e.gatherer
}

// ════════════════════════════════════════════════════════════════════════════
//                              类型别名
// ════════════════════════════════════════════════════════════════════════════

type (
	// Dispatcher 按事件类型路由的调度器
	Dispatcher = dispatcher.Dispatcher

	// Reporter Handling 统计上报器
	Reporter = metrics.Reporter

	Result        = types.Result
	Priority      = types.Priority
	PushPolicy    = types.PushPolicy
	HandlingID    = types.HandlingID
	HandlingKey   = types.HandlingKey
	HandlingInfo  = types.HandlingInfo
	HandlingState = types.HandlingState
	HandlingStats = types.HandlingStats
)

// 结果码
const (
	OK                 = types.OK
	HandlingExists     = types.HandlingExists
	HandlingNotFound   = types.HandlingNotFound
	HandlerUsed        = types.HandlerUsed
	ZeroAmount         = types.ZeroAmount
	ErrorPublishing    = types.ErrorPublishing
	ErrorAddingHandler = types.ErrorAddingHandler
	ErrorStopping      = types.ErrorStopping
	ErrorUnknown       = types.ErrorUnknown
)

// 优先级
const (
	PriorityLowest  = types.PriorityLowest
	PriorityLow     = types.PriorityLow
	PriorityNormal  = types.PriorityNormal
	PriorityHigh    = types.PriorityHigh
	PriorityHighest = types.PriorityHighest
)

// 满队列策略
const (
	PushReject = types.PushReject
	PushBlock  = types.PushBlock
)

// 生命周期状态
const (
	StateCreated  = types.HandlingCreated
	StateRunning  = types.HandlingRunning
	StateStopping = types.HandlingStopping
	StateStopped  = types.HandlingStopped
)
