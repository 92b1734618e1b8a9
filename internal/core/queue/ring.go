package queue

import (
	"context"
	"fmt"
	"sync"

	pkgif "github.com/dep2p/go-dispatch/pkg/interfaces"
)

// Ring 环形缓冲区队列
//
// 底层切片在创建时一次性分配，之后不再增长。
type Ring[E any] struct {
	mu    sync.Mutex
	buf   []E
	head  int // 队首下标
	count int // 当前元素数

	// notFull 出队或清空后发出信号，唤醒阻塞的 PushWait
	notFull chan struct{}
}

// 确保 Ring 实现接口
var _ pkgif.BlockingQueue[int] = (*Ring[int])(nil)

// NewRing 创建容量为 capacity 的环形队列
func NewRing[E any](capacity int) (*Ring[E], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}
	return &Ring[E]{
		buf:     make([]E, capacity),
		notFull: make(chan struct{}, 1),
	}, nil
}

// Push 非阻塞入队
func (r *Ring[E]) Push(event E) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.count == len(r.buf) {
		return false
	}
	r.buf[(r.head+r.count)%len(r.buf)] = event
	r.count++
	return true
}

// PushWait 阻塞入队
func (r *Ring[E]) PushWait(ctx context.Context, event E) error {
	for {
		if r.Push(event) {
			// 唤醒链：仍有空位时传递信号给下一个等待者
			if !r.Full() {
				r.signalNotFull()
			}
			return nil
		}
		select {
		case <-r.notFull:
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", ErrQueueFull, ctx.Err())
		}
	}
}

// Pop 非阻塞出队
func (r *Ring[E]) Pop() (E, bool) {
	r.mu.Lock()
	var zero E
	if r.count == 0 {
		r.mu.Unlock()
		return zero, false
	}
	event := r.buf[r.head]
	// 释放引用，避免持有已出队事件
	r.buf[r.head] = zero
	r.head = (r.head + 1) % len(r.buf)
	r.count--
	r.mu.Unlock()

	r.signalNotFull()
	return event, true
}

// Full 队列是否已满
func (r *Ring[E]) Full() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count == len(r.buf)
}

// Empty 队列是否为空
func (r *Ring[E]) Empty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count == 0
}

// Capacity 队列容量
func (r *Ring[E]) Capacity() int {
	return len(r.buf)
}

// Occupied 当前元素数
func (r *Ring[E]) Occupied() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Clear 清空队列
func (r *Ring[E]) Clear() int {
	r.mu.Lock()
	n := r.count
	var zero E
	for i := 0; i < r.count; i++ {
		r.buf[(r.head+i)%len(r.buf)] = zero
	}
	r.head = 0
	r.count = 0
	r.mu.Unlock()

	if n > 0 {
		r.signalNotFull()
	}
	return n
}

// signalNotFull 非阻塞发送空位信号
func (r *Ring[E]) signalNotFull() {
	select {
	case r.notFull <- struct{}{}:
	default:
	}
}
