// Package handling 实现 Handling：一个有界队列加一组竞争消费的工作者
//
// 每个工作者持有工厂产生的独立处理器实例，从共享队列弹出事件并同步调用。
// 同一事件只会被一个工作者处理；单工作者时处理顺序与入队顺序一致。
//
// # 生命周期
//
//	h, err := handling.New(handling.Config[Tick]{
//	    ID:      "printer",
//	    Queue:   q,
//	    Factory: interfaces.Stateless(printTick),
//	    Workers: 2,
//	})
//	h.Start()                 // Created → Running，启动 2 个工作者
//	h.Push(ctx, Tick{N: 1})   // 入队并唤醒一个空闲工作者
//	h.Stop(ctx)               // Running → Stopping → Stopped
//
// Created 状态下入队的事件会保留到 Start 之后处理。
//
// # 停止
//
// Stop 首先拒绝新的入队，随后按配置处理剩余事件：
//   - 默认排空：工作者处理完队列中已有的事件后退出
//   - WithDrainOnStop(false)：清空队列，丢弃数计入指标
//
// ctx 限定等待工作者退出的时间，超时返回 ErrStopTimeout，状态停留在 Stopping。
//
// # panic
//
// 处理器 panic 被工作者捕获，以 fatal 级别记录并附带堆栈，工作者继续运行。
package handling
