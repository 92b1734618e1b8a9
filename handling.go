package dispatch

import (
	"context"
	"time"

	"github.com/dep2p/go-dispatch/internal/core/dispatcher"
	"github.com/dep2p/go-dispatch/internal/core/handling"
	"github.com/dep2p/go-dispatch/internal/core/queue"
	"github.com/dep2p/go-dispatch/pkg/interfaces"
	"github.com/dep2p/go-dispatch/pkg/types"
)

// HandlingOption 单个 Handling 的选项
type HandlingOption = handling.Option

// PanicHandler 处理器 panic 回调
type PanicHandler = handling.PanicHandler

// ============================================================================
//                              队列
// ============================================================================

// NewRingQueue 创建容量固定的环形队列
func NewRingQueue[E any](capacity int) (*queue.Ring[E], error) {
	return queue.NewRing[E](capacity)
}

// NewChannelQueue 创建基于缓冲 channel 的队列
func NewChannelQueue[E any](capacity int) (*queue.Channel[E], error) {
	return queue.NewChannel[E](capacity)
}

// ============================================================================
//                              注册
// ============================================================================

// AddHandling 为事件类型 E 注册 Handling，参见 dispatcher.AddHandling
func AddHandling[E any](
	d *Dispatcher,
	id HandlingID,
	q interfaces.Queue[E],
	factory interfaces.HandlerFactory[E],
	workers int,
	priority Priority,
	opts ...HandlingOption,
) Result {
	return dispatcher.AddHandling(d, id, q, factory, workers, priority, opts...)
}

// AddHandlingFunc 使用环形队列和无状态函数注册 Handling
//
// 优先级为 Normal。容量无效时返回 ERROR_ADDING_HANDLER。
func AddHandlingFunc[E any](d *Dispatcher, id HandlingID, capacity, workers int, fn func(E), opts ...HandlingOption) Result {
	q, err := queue.NewRing[E](capacity)
	if err != nil {
		logger.Warn("创建队列失败", "handling", id, "capacity", capacity, "error", err)
		return types.ErrorAddingHandler
	}
	return dispatcher.AddHandling(d, id, q, interfaces.Stateless(fn), workers, types.PriorityNormal, opts...)
}

// RemoveHandling 注销并停止事件类型 E 的 Handling
func RemoveHandling[E any](d *Dispatcher, id HandlingID) Result {
	return dispatcher.RemoveHandling[E](d, id)
}

// ============================================================================
//                              发布
// ============================================================================

// Publish 将事件发布到 E 的全部 Handling
func Publish[E any](d *Dispatcher, event E) Result {
	return dispatcher.Publish(d, event)
}

// PublishContext 同 Publish，ctx 限制阻塞策略下的等待
func PublishContext[E any](ctx context.Context, d *Dispatcher, event E) Result {
	return dispatcher.PublishContext(ctx, d, event)
}

// PublishAtLeast 只发布到优先级不低于 atLeast 的 Handling
func PublishAtLeast[E any](d *Dispatcher, atLeast Priority, event E) Result {
	return dispatcher.PublishAtLeast(d, atLeast, event)
}

// PublishTo 只发布到指定 ID 的 Handling
func PublishTo[E any](d *Dispatcher, id HandlingID, event E) Result {
	return dispatcher.PublishTo(d, id, event)
}

// ============================================================================
//                              Handling 选项
// ============================================================================

// HandlingPushPolicy 覆盖 Handling 的满队列策略
func HandlingPushPolicy(p PushPolicy) HandlingOption {
	return handling.WithPushPolicy(p)
}

// HandlingDrainOnStop 覆盖 Handling 停止时是否处理完剩余事件
func HandlingDrainOnStop(drain bool) HandlingOption {
	return handling.WithDrainOnStop(drain)
}

// HandlingRateLimit 覆盖 Handling 的入队速率限制，perSecond 为 0 表示不限
func HandlingRateLimit(perSecond float64, burst int) HandlingOption {
	return handling.WithRateLimit(perSecond, burst)
}

// HandlingPollInterval 覆盖空闲工作者的轮询间隔
func HandlingPollInterval(d time.Duration) HandlingOption {
	return handling.WithPollInterval(d)
}

// HandlingPanicHandler 覆盖 Handling 的 panic 回调
func HandlingPanicHandler(fn PanicHandler) HandlingOption {
	return handling.WithPanicHandler(fn)
}
