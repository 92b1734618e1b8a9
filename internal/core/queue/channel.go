package queue

import (
	"context"
	"fmt"

	pkgif "github.com/dep2p/go-dispatch/pkg/interfaces"
)

// Channel 基于带缓冲 channel 的队列
//
// Occupied 基于 len(ch)，在并发修改下是瞬时值。
type Channel[E any] struct {
	ch chan E
}

// 确保 Channel 实现接口
var _ pkgif.BlockingQueue[int] = (*Channel[int])(nil)

// NewChannel 创建容量为 capacity 的 channel 队列
func NewChannel[E any](capacity int) (*Channel[E], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}
	return &Channel[E]{ch: make(chan E, capacity)}, nil
}

// Push 非阻塞入队
func (c *Channel[E]) Push(event E) bool {
	select {
	case c.ch <- event:
		return true
	default:
		return false
	}
}

// PushWait 阻塞入队
func (c *Channel[E]) PushWait(ctx context.Context, event E) error {
	select {
	case c.ch <- event:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrQueueFull, ctx.Err())
	}
}

// Pop 非阻塞出队
func (c *Channel[E]) Pop() (E, bool) {
	select {
	case event := <-c.ch:
		return event, true
	default:
		var zero E
		return zero, false
	}
}

// Full 队列是否已满
func (c *Channel[E]) Full() bool {
	return len(c.ch) == cap(c.ch)
}

// Empty 队列是否为空
func (c *Channel[E]) Empty() bool {
	return len(c.ch) == 0
}

// Capacity 队列容量
func (c *Channel[E]) Capacity() int {
	return cap(c.ch)
}

// Occupied 当前元素数
func (c *Channel[E]) Occupied() int {
	return len(c.ch)
}

// Clear 清空队列
func (c *Channel[E]) Clear() int {
	n := 0
	for {
		select {
		case <-c.ch:
			n++
		default:
			return n
		}
	}
}
