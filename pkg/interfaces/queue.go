// Package interfaces 定义 go-dispatch 公共接口
//
// 本文件定义 Queue 接口，描述单一事件类型的有界 FIFO 队列。
package interfaces

import "context"

// Queue 有界 FIFO 队列
//
// 实现必须在内部完成同步：发布者与 Handling 的所有工作者并发访问同一队列。
// 任何情况下队列都不得超过容量增长，满队列时 Push 直接返回 false。
//
// 不变量：
//   - Occupied() <= Capacity()
//   - Full() 当且仅当 Occupied() == Capacity()
type Queue[E any] interface {
	// Push 非阻塞入队，队列满时返回 false 且不修改状态
	Push(event E) bool

	// Pop 非阻塞出队，队列空时返回 false
	Pop() (E, bool)

	// Full 队列是否已满
	Full() bool

	// Empty 队列是否为空
	Empty() bool

	// Capacity 队列容量
	Capacity() int

	// Occupied 当前事件数
	Occupied() int

	// Clear 清空队列，返回被丢弃的事件数
	Clear() int
}

// BlockingQueue 支持阻塞入队的队列
//
// 用于 PushBlock 策略：队列满时等待空位，直到 ctx 结束。
type BlockingQueue[E any] interface {
	Queue[E]

	// PushWait 阻塞入队，ctx 结束前仍无空位时返回错误
	PushWait(ctx context.Context, event E) error
}
