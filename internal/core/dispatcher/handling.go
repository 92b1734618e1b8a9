package dispatcher

import (
	"context"
	"errors"
	"reflect"

	"github.com/dep2p/go-dispatch/internal/core/handling"
	"github.com/dep2p/go-dispatch/pkg/interfaces"
	"github.com/dep2p/go-dispatch/pkg/types"
)

// AddHandling 为事件类型 E 注册 Handling
//
// 工厂被调用 workers 次，每个工作者一个处理器实例。
// Dispatcher 运行中时新 Handling 立即启动，否则在 Start 时启动。
//
// 返回值：
//   - HANDLING_EXISTS: id 已为 E 注册（原注册不受影响）
//   - ZERO_AMOUNT: workers <= 0
//   - HANDLER_USED: 处理器实例已绑定到其他 Handling，或工厂重复返回同一实例
//   - ERROR_ADDING_HANDLER: 队列/工厂/处理器为 nil、id 无效、队列已被其他 Handling
//     使用、Dispatcher 已停止
func AddHandling[E any](
	d *Dispatcher,
	id types.HandlingID,
	q interfaces.Queue[E],
	factory interfaces.HandlerFactory[E],
	workers int,
	priority types.Priority,
	opts ...handling.Option,
) types.Result {
	typ := reflect.TypeFor[E]()
	key := types.HandlingKey{EventType: typ.String(), ID: id}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopping.Load() {
		logger.Warn("Dispatcher 已停止，拒绝注册", "handling", key.String())
		return types.ErrorAddingHandler
	}

	reg := d.snapshot()
	if n := reg[typ]; n != nil {
		if existing, _ := n.find(id); existing != nil {
			logger.Warn("Handling 已存在", "handling", key.String())
			return types.HandlingExists
		}
	}

	if workers <= 0 {
		logger.Warn("工作者数量必须大于 0", "handling", key.String(), "workers", workers)
		return types.ZeroAmount
	}

	hopts := make([]handling.Option, 0, len(d.opts.HandlingDefaults)+len(opts)+2)
	hopts = append(hopts, handling.WithReporter(d.opts.Reporter), handling.WithClock(d.opts.Clock))
	hopts = append(hopts, d.opts.HandlingDefaults...)
	hopts = append(hopts, opts...)

	h, err := handling.New(handling.Config[E]{
		ID:       id,
		Queue:    q,
		Factory:  factory,
		Workers:  workers,
		Priority: priority,
	}, hopts...)
	if err != nil {
		res := resultFor(err)
		logger.Warn("创建 Handling 失败", "handling", key.String(), "result", res.String(), "err", err)
		return res
	}

	idents := h.HandlerIdentities()
	for _, ident := range idents {
		if owner, used := d.inUse[ident]; used {
			logger.Warn("处理器实例已被其他 Handling 使用", "handling", key.String(), "owner", owner.String())
			return types.HandlerUsed
		}
	}

	qident, hasQueueIdent := h.QueueIdentity()
	if hasQueueIdent {
		if owner, used := d.queues[qident]; used {
			logger.Warn("队列实例已被其他 Handling 使用", "handling", key.String(), "owner", owner.String())
			return types.ErrorAddingHandler
		}
	}

	if d.tracker.State() == types.HandlingRunning {
		if err := h.Start(); err != nil {
			logger.Error("启动 Handling 失败", "handling", key.String(), "err", err)
			return types.ErrorAddingHandler
		}
	}

	next := reg.clone()
	n := next[typ]
	if n == nil {
		n = &node{typ: typ}
	}
	next[typ] = n.with(h)
	d.reg.Store(&next)

	for _, ident := range idents {
		d.inUse[ident] = key
	}
	if hasQueueIdent {
		d.queues[qident] = key
	}
	d.opts.Reporter.Register(key)

	logger.Debug("Handling 已注册",
		"handling", key.String(),
		"workers", workers,
		"priority", priority.String(),
		"capacity", q.Capacity())
	return types.OK
}

// RemoveHandling 停止并注销事件类型 E 的 Handling
//
// 等待工作者退出的时间受 StopTimeout 限制，超时返回 ERROR_STOPPING
// （Handling 已注销，工作者在后台退出）。
func RemoveHandling[E any](d *Dispatcher, id types.HandlingID) types.Result {
	typ := reflect.TypeFor[E]()
	key := types.HandlingKey{EventType: typ.String(), ID: id}

	d.mu.Lock()
	reg := d.snapshot()
	n := reg[typ]
	var (
		h   handling.Runner
		idx = -1
	)
	if n != nil {
		h, idx = n.find(id)
	}
	if h == nil {
		d.mu.Unlock()
		logger.Debug("Handling 不存在", "handling", key.String())
		return types.HandlingNotFound
	}

	next := reg.clone()
	if len(n.handlings) == 1 {
		delete(next, typ)
	} else {
		next[typ] = n.without(idx)
	}
	d.reg.Store(&next)
	for _, ident := range h.HandlerIdentities() {
		delete(d.inUse, ident)
	}
	if qident, ok := h.QueueIdentity(); ok {
		delete(d.queues, qident)
	}
	d.mu.Unlock()

	ctx := context.Background()
	if d.opts.StopTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.opts.StopTimeout)
		defer cancel()
	}
	err := h.Stop(ctx)
	d.opts.Reporter.Forget(key)
	if err != nil {
		logger.Warn("移除 Handling 时停止超时", "handling", key.String(), "err", err)
		return types.ErrorStopping
	}

	logger.Debug("Handling 已移除", "handling", key.String())
	return types.OK
}

// resultFor 将 Handling 构造错误映射为结果码
func resultFor(err error) types.Result {
	switch {
	case err == nil:
		return types.OK
	case errors.Is(err, handling.ErrZeroWorkers):
		return types.ZeroAmount
	case errors.Is(err, handling.ErrDuplicateHandler):
		return types.HandlerUsed
	default:
		return types.ErrorAddingHandler
	}
}
