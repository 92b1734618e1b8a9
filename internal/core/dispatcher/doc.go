// Package dispatcher 实现按事件类型路由的调度器
//
// Dispatcher 按事件的 Go 类型（reflect.Type）索引 Handling。
// 发布时事件被放入该类型所有匹配 Handling 的队列，按优先级从高到低依次入队；
// 每个 Handling 的工作者竞争消费自己的队列。
//
// Go 方法不能带类型参数，因此类型相关的操作是包级泛型函数：
//
//	d := dispatcher.New()
//	res := dispatcher.AddHandling[Tick](d, "printer", q, factory, 1, types.PriorityNormal)
//	d.Start()
//	res = dispatcher.Publish(d, Tick{N: 1})
//	d.Stop()
//
// # 注册表
//
// 注册表是不可变的 map[reflect.Type]*node，通过 atomic.Pointer 发布。
// AddHandling/RemoveHandling 在互斥锁内复制并替换整张表，Publish 只做一次原子读取，不加锁。
//
// # 停止
//
// Stop 并行停止所有 Handling，等待受 StopTimeout 或调用方 ctx 限制。
// 任一 Handling 超时返回 ERROR_STOPPING，状态停留在 Stopping，
// 之后再次调用 Stop 会重新等待。Stop 可重复调用。
//
// Dispatcher 不可复制，只能通过 *Dispatcher 使用。
package dispatcher
