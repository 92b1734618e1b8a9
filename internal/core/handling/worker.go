package handling

import (
	"fmt"
	"runtime/debug"

	"github.com/dep2p/go-dispatch/pkg/interfaces"
)

// work 工作者循环
//
// 有事件时立即处理；队列为空时等待唤醒、停止信号或轮询间隔。
// 停止信号到达后排空队列再退出。
func (h *Handling[E]) work(idx int) {
	defer h.wg.Done()

	handler := h.handlers[idx]
	ticker := h.opts.Clock.Ticker(h.opts.PollInterval)
	defer ticker.Stop()

	for {
		if event, ok := h.queue.Pop(); ok {
			h.invoke(handler, event)
			continue
		}

		select {
		case <-h.stopCh:
			for {
				event, ok := h.queue.Pop()
				if !ok {
					return
				}
				h.invoke(handler, event)
			}
		case <-h.wake:
		case <-ticker.C:
		}
	}
}

// invoke 调用处理器，捕获 panic
func (h *Handling[E]) invoke(handler interfaces.Handler[E], event E) {
	start := h.opts.Clock.Now()
	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			h.opts.Reporter.LogPanic(h.key)
			logger.Fatal("处理器 panic",
				"handling", h.key.String(),
				"panic", fmt.Sprint(r),
				"stack", string(stack))

			if h.opts.OnPanic != nil {
				func() {
					defer func() { _ = recover() }()
					h.opts.OnPanic(h.key, event, r, stack)
				}()
			}
		}
		h.opts.Reporter.LogHandled(h.key, h.opts.Clock.Since(start))
	}()

	handler.Handle(event)
}
