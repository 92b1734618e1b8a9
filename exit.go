package dispatch

import (
	"github.com/dep2p/go-dispatch/internal/core/dispatcher"
	"github.com/dep2p/go-dispatch/internal/core/queue"
	"github.com/dep2p/go-dispatch/pkg/interfaces"
	"github.com/dep2p/go-dispatch/pkg/types"
)

// ExitHandlingID Exit 事件 Handling 的 ID
const ExitHandlingID HandlingID = "exit"

// exitQueueCapacity 多个发布者同时请求退出时仅第一个生效，小容量即可
const exitQueueCapacity = 4

// Exit 请求宿主进程退出的事件
//
// Exit 只是一个信号：处理器关闭 Engine.ExitRequested()，
// 真正的停止由宿主调用 Engine.Stop 完成。
type Exit struct {
	Reason string
}

// wireExitHandling 注册 Exit 事件的 Handling
func wireExitHandling(e *Engine) func(*dispatcher.Dispatcher) error {
	return func(d *dispatcher.Dispatcher) error {
		q, err := queue.NewRing[Exit](exitQueueCapacity)
		if err != nil {
			return err
		}
		return dispatcher.AddHandling(d, ExitHandlingID, q,
			interfaces.Stateless(e.onExit), 1, types.PriorityHighest).Err()
	}
}

func (e *Engine) onExit(ev Exit) {
	e.exitOnce.Do(func() {
		reason := ev.Reason
		e.exitReason.Store(&reason)
		close(e.exit)
		logger.Info("收到退出请求", "reason", reason)
	})
}

// RequestExit 发布 Exit 事件
//
// 未启用 WithExitHandling 时返回 HANDLING_NOT_FOUND。
func (e *Engine) RequestExit(reason string) Result {
	return dispatcher.Publish(e.d, Exit{Reason: reason})
}

// ExitRequested 返回在收到第一个 Exit 事件后关闭的 channel
func (e *Engine) ExitRequested() <-chan struct{} {
	return e.exit
}

// ExitReason 返回第一个 Exit 事件的原因，尚未收到时返回空字符串
func (e *Engine) ExitReason() string {
	if r := e.exitReason.Load(); r != nil {
		return *r
	}
	return ""
}
