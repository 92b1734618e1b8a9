// Package queue 实现单一事件类型的有界 FIFO 队列
//
// 提供两种实现，均满足 interfaces.Queue 与 interfaces.BlockingQueue：
//   - Ring: 互斥锁保护的环形缓冲区，固定切片，不增长
//   - Channel: 带缓冲 channel
//
// # 满队列语义
//
// 两种实现的 Push 都是非阻塞的：队列满时返回 false，状态不变。
// 需要背压阻塞时使用 PushWait，它会等待空位直到 ctx 结束：
//
//	q, _ := queue.NewRing[Tick](2)
//	if !q.Push(Tick{Value: 1}) {
//	    // 队列已满
//	}
//	err := q.PushWait(ctx, Tick{Value: 2}) // 阻塞直到有空位
//
// Pop 永不阻塞，等待事件是工作者的职责。
//
// # 并发安全
//
// 所有方法都是并发安全的。
package queue
