package handling

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/dep2p/go-dispatch/internal/core/lifecycle"
	"github.com/dep2p/go-dispatch/pkg/interfaces"
	"github.com/dep2p/go-dispatch/pkg/lib/log"
	"github.com/dep2p/go-dispatch/pkg/types"
)

var logger = log.Logger("core/handling")

// Config 创建 Handling 的必需参数
type Config[E any] struct {
	// ID Handling 标识，同一事件类型内唯一
	ID types.HandlingID

	// Queue 事件队列，由 Handling 独占
	Queue interfaces.Queue[E]

	// Factory 处理器工厂，每个工作者调用一次
	Factory interfaces.HandlerFactory[E]

	// Workers 工作者数量
	Workers int

	// Priority 优先级（路由元数据，不影响队列顺序）
	Priority types.Priority
}

// Runner 与事件类型无关的 Handling 视图
//
// Dispatcher 通过它管理不同事件类型的 Handling。
type Runner interface {
	ID() types.HandlingID
	Key() types.HandlingKey
	Priority() types.Priority
	State() types.HandlingState
	Info() types.HandlingInfo
	HandlerIdentities() []uintptr
	QueueIdentity() (uintptr, bool)
	Start() error
	Stop(ctx context.Context) error
	Done() <-chan struct{}
}

// Handling 一个有界队列加 N 个工作者
type Handling[E any] struct {
	id       types.HandlingID
	key      types.HandlingKey
	priority types.Priority
	queue    interfaces.Queue[E]
	handlers []interfaces.Handler[E]
	opts     Options

	tracker *lifecycle.Tracker

	// mu 串行化 Start 与 Stop
	mu sync.Mutex

	// pushMu 保证 Stop 之后不会有入队成功：
	// Push 在读锁内检查 accepting 并入队，Stop 在写锁内关闭 accepting
	pushMu    sync.RWMutex
	accepting atomic.Bool

	// stopCtx 在 Stop 开始时取消，用于中断阻塞入队和限流等待
	stopCtx    context.Context
	stopCancel context.CancelFunc

	// wake 唤醒空闲工作者，容量等于工作者数量
	wake chan struct{}
	// stopCh 关闭后工作者排空队列并退出
	stopCh   chan struct{}
	stopOnce sync.Once

	wg sync.WaitGroup
}

// 确保 Handling 实现 Runner 接口
var _ Runner = (*Handling[int])(nil)

// New 创建 Handling
//
// 工厂恰好被调用 Workers 次，每个工作者一个处理器实例。
// 返回的 Handling 处于 Created 状态，已可接受入队。
func New[E any](cfg Config[E], opts ...Option) (*Handling[E], error) {
	if err := cfg.ID.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidID, err)
	}
	if cfg.Workers <= 0 {
		return nil, ErrZeroWorkers
	}
	if isNil(cfg.Queue) {
		return nil, ErrNilQueue
	}
	if cfg.Factory == nil {
		return nil, ErrNilFactory
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Policy == types.PushBlock {
		if _, ok := cfg.Queue.(interfaces.BlockingQueue[E]); !ok {
			return nil, ErrQueueNotBlocking
		}
	}

	handlers := make([]interfaces.Handler[E], cfg.Workers)
	seen := make(map[uintptr]struct{}, cfg.Workers)
	for i := range handlers {
		hd := cfg.Factory()
		if isNil(hd) {
			return nil, fmt.Errorf("%w (worker %d)", ErrNilHandler, i)
		}
		if ident, ok := instanceIdentity(hd); ok {
			if _, dup := seen[ident]; dup {
				return nil, fmt.Errorf("%w (worker %d)", ErrDuplicateHandler, i)
			}
			seen[ident] = struct{}{}
		}
		handlers[i] = hd
	}

	key := types.HandlingKey{EventType: EventTypeName[E](), ID: cfg.ID}
	stopCtx, stopCancel := context.WithCancel(context.Background())

	h := &Handling[E]{
		id:         cfg.ID,
		key:        key,
		priority:   cfg.Priority,
		queue:      cfg.Queue,
		handlers:   handlers,
		opts:       o,
		tracker:    lifecycle.NewTracker(key.String()),
		stopCtx:    stopCtx,
		stopCancel: stopCancel,
		wake:       make(chan struct{}, cfg.Workers),
		stopCh:     make(chan struct{}),
	}
	h.accepting.Store(true)
	return h, nil
}

// EventTypeName 返回事件类型的名称（用于日志和指标标签）
func EventTypeName[E any]() string {
	return reflect.TypeFor[E]().String()
}

// ============================================================================
//                              访问器
// ============================================================================

// ID 返回 Handling 标识
func (h *Handling[E]) ID() types.HandlingID { return h.id }

// Key 返回事件类型与 ID 组成的键
func (h *Handling[E]) Key() types.HandlingKey { return h.key }

// Priority 返回优先级
func (h *Handling[E]) Priority() types.Priority { return h.priority }

// Workers 返回工作者数量
func (h *Handling[E]) Workers() int { return len(h.handlers) }

// State 返回生命周期状态
func (h *Handling[E]) State() types.HandlingState { return h.tracker.State() }

// Accepting 是否仍接受入队
func (h *Handling[E]) Accepting() bool { return h.accepting.Load() }

// Done 返回所有工作者退出后关闭的 channel
func (h *Handling[E]) Done() <-chan struct{} { return h.tracker.Done() }

// Handlers 返回每个工作者持有的处理器实例（副本切片）
func (h *Handling[E]) Handlers() []interfaces.Handler[E] {
	out := make([]interfaces.Handler[E], len(h.handlers))
	copy(out, h.handlers)
	return out
}

// HandlerIdentities 返回可按地址识别的处理器实例标识
//
// 只有指向非零大小类型的指针处理器参与识别；函数和值类型的处理器不可比较，
// 不会出现在结果中。
func (h *Handling[E]) HandlerIdentities() []uintptr {
	out := make([]uintptr, 0, len(h.handlers))
	for _, hd := range h.handlers {
		if ident, ok := instanceIdentity(hd); ok {
			out = append(out, ident)
		}
	}
	return out
}

// QueueIdentity 返回队列实例标识，非指针队列返回 false
func (h *Handling[E]) QueueIdentity() (uintptr, bool) {
	return instanceIdentity(h.queue)
}

// Info 返回 Handling 快照
func (h *Handling[E]) Info() types.HandlingInfo {
	return types.HandlingInfo{
		ID:        h.id,
		EventType: h.key.EventType,
		Priority:  h.priority,
		Workers:   len(h.handlers),
		State:     h.tracker.State(),
		Policy:    h.opts.Policy,
		Capacity:  h.queue.Capacity(),
		Occupied:  h.queue.Occupied(),
	}
}

// ============================================================================
//                              生命周期
// ============================================================================

// Start 启动工作者（Created → Running）
//
// 已运行时返回 nil；已停止时返回 ErrNotAccepting。
func (h *Handling[E]) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch h.tracker.State() {
	case types.HandlingRunning:
		return nil
	case types.HandlingStopping, types.HandlingStopped:
		return fmt.Errorf("%w: %s", ErrNotAccepting, h.key)
	}

	if err := h.tracker.Transition(types.HandlingRunning); err != nil {
		return err
	}

	h.wg.Add(len(h.handlers))
	for i := range h.handlers {
		go h.work(i)
	}

	// Created 期间入队的事件
	if n := h.queue.Occupied(); n > 0 {
		h.signal(n)
	}

	logger.Debug("Handling 已启动", "handling", h.key.String(), "workers", len(h.handlers))
	return nil
}

// Stop 停止 Handling
//
// 首次调用立即拒绝新的入队，并按 Drain 选项排空或清空队列；
// 之后等待工作者退出，ctx 结束时返回 ErrStopTimeout（工作者仍会在后台退出）。
// 可重复调用，每次调用都会重新等待。
func (h *Handling[E]) Stop(ctx context.Context) error {
	h.stopOnce.Do(h.beginStop)

	select {
	case <-h.tracker.Done():
		return nil
	default:
	}

	select {
	case <-h.tracker.Done():
		return nil
	case <-ctx.Done():
		logger.Warn("等待工作者退出超时", "handling", h.key.String(), "pending", h.queue.Occupied())
		return fmt.Errorf("%w: %s: %w", ErrStopTimeout, h.key, ctx.Err())
	}
}

// beginStop 关闭入队并通知工作者
func (h *Handling[E]) beginStop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	// 先中断阻塞中的入队，再在写锁内关闭 accepting
	h.stopCancel()
	h.pushMu.Lock()
	h.accepting.Store(false)
	h.pushMu.Unlock()

	if h.tracker.State() == types.HandlingCreated {
		// 从未启动，没有工作者需要等待
		h.discard()
		close(h.stopCh)
		if err := h.tracker.Transition(types.HandlingStopped); err != nil {
			logger.Error("状态迁移失败", "handling", h.key.String(), "err", err)
		}
		logger.Debug("Handling 已停止（未启动）", "handling", h.key.String())
		return
	}

	if err := h.tracker.Transition(types.HandlingStopping); err != nil {
		logger.Error("状态迁移失败", "handling", h.key.String(), "err", err)
	}
	if !h.opts.Drain {
		h.discard()
	}
	close(h.stopCh)

	go func() {
		h.wg.Wait()
		if err := h.tracker.Transition(types.HandlingStopped); err != nil {
			logger.Error("状态迁移失败", "handling", h.key.String(), "err", err)
			return
		}
		logger.Debug("Handling 已停止", "handling", h.key.String())
	}()
}

// discard 清空队列并记录丢弃数
func (h *Handling[E]) discard() {
	if n := h.queue.Clear(); n > 0 {
		h.opts.Reporter.LogDiscarded(h.key, n)
		logger.Info("停止时丢弃未处理事件", "handling", h.key.String(), "discarded", n)
	}
}

// ============================================================================
//                              入队
// ============================================================================

// Push 将事件放入队列并唤醒一个空闲工作者
//
// 返回 false 的情况：已停止、被限流、队列满（PushReject），
// 或 PushBlock 下等待期间 ctx 结束或 Handling 停止。
func (h *Handling[E]) Push(ctx context.Context, event E) bool {
	h.pushMu.RLock()
	ok := h.accepting.Load() && h.push(ctx, event)
	h.pushMu.RUnlock()

	if !ok {
		h.opts.Reporter.LogRejected(h.key)
		return false
	}

	h.opts.Reporter.LogPublished(h.key)
	h.signal(1)
	return true
}

func (h *Handling[E]) push(ctx context.Context, event E) bool {
	if h.opts.Policy != types.PushBlock {
		if h.opts.Limiter != nil && !h.opts.Limiter.Allow() {
			return false
		}
		return h.queue.Push(event)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(h.stopCtx, cancel)
	defer stop()

	if h.opts.Limiter != nil {
		if err := h.opts.Limiter.Wait(ctx); err != nil {
			return false
		}
	}
	// New 已校验队列实现 BlockingQueue
	bq := h.queue.(interfaces.BlockingQueue[E])
	return bq.PushWait(ctx, event) == nil
}

// signal 唤醒至多 n 个空闲工作者，不阻塞
func (h *Handling[E]) signal(n int) {
	for i := 0; i < n; i++ {
		select {
		case h.wake <- struct{}{}:
		default:
			return
		}
	}
}

// ============================================================================
//                              处理器标识
// ============================================================================

func isNil(x any) bool {
	if x == nil {
		return true
	}
	v := reflect.ValueOf(x)
	switch v.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Chan, reflect.Slice, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// instanceIdentity 返回指针实例（处理器、队列）的地址
//
// 零大小类型的不同实例可能共享地址，不参与识别。
func instanceIdentity(hd any) (uintptr, bool) {
	v := reflect.ValueOf(hd)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return 0, false
	}
	if v.Type().Elem().Size() == 0 {
		return 0, false
	}
	return v.Pointer(), true
}
