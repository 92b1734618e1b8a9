package dispatcher

import (
	"context"
	"reflect"

	"github.com/dep2p/go-dispatch/internal/core/handling"
	"github.com/dep2p/go-dispatch/pkg/types"
)

// Publish 将事件发布到 E 的所有 Handling
//
// 返回值：
//   - OK: 至少一个 Handling 接受了事件
//   - HANDLING_NOT_FOUND: E 没有注册 Handling
//   - ERROR_PUBLISHING: 所有 Handling 都拒绝了事件（队列满、限流）
//   - ERROR_STOPPING: Dispatcher 已停止（WithIgnorePublishAfterStop 时为 OK）
func Publish[E any](d *Dispatcher, event E) types.Result {
	return publish(context.Background(), d, event, nil)
}

// PublishContext 同 Publish，ctx 限制 PushBlock 策略下的等待时间
func PublishContext[E any](ctx context.Context, d *Dispatcher, event E) types.Result {
	return publish(ctx, d, event, nil)
}

// PublishAtLeast 只发布到优先级不低于 atLeast 的 Handling
func PublishAtLeast[E any](d *Dispatcher, atLeast types.Priority, event E) types.Result {
	return publish(context.Background(), d, event, func(h handling.Runner) bool {
		return h.Priority() >= atLeast
	})
}

// PublishTo 只发布到指定 ID 的 Handling
func PublishTo[E any](d *Dispatcher, id types.HandlingID, event E) types.Result {
	return publish(context.Background(), d, event, func(h handling.Runner) bool {
		return h.ID() == id
	})
}

func publish[E any](ctx context.Context, d *Dispatcher, event E, match func(handling.Runner) bool) types.Result {
	if d.stopping.Load() {
		return d.publishAfterStop()
	}

	typ := reflect.TypeFor[E]()
	n := d.snapshot()[typ]
	if n == nil {
		logger.Debug("事件类型没有 Handling", "event_type", typ.String())
		return types.HandlingNotFound
	}

	matched, accepted := 0, 0
	for _, r := range n.handlings {
		if match != nil && !match(r) {
			continue
		}
		matched++
		// 节点按 reflect.Type 索引，类型断言必然成功
		if r.(*handling.Handling[E]).Push(ctx, event) {
			accepted++
		}
	}

	switch {
	case matched == 0:
		logger.Debug("没有匹配的 Handling", "event_type", typ.String())
		return types.HandlingNotFound
	case accepted == 0 && d.stopping.Load():
		// 发布与 Stop 并发，Handling 已不再接受入队
		return d.publishAfterStop()
	case accepted == 0:
		logger.Debug("所有 Handling 拒绝了事件", "event_type", typ.String(), "handlings", matched)
		return types.ErrorPublishing
	}
	return types.OK
}

// publishAfterStop 停止后发布的结果
func (d *Dispatcher) publishAfterStop() types.Result {
	if d.opts.IgnorePublishAfterStop {
		return types.OK
	}
	logger.Debug("Dispatcher 已停止，拒绝发布")
	return types.ErrorStopping
}
