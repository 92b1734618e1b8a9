// Package dispatch 提供按事件类型路由的进程内事件调度器
//
// 每种事件类型可以注册多个 Handling；每个 Handling 拥有一个有界队列和
// 固定数量的工作者，每个工作者持有独立的处理器实例。
// 发布者把事件放入该类型全部 Handling 的队列后立即返回，
// 队列满时按 Handling 的策略拒绝或阻塞。
//
// # 核心概念
//
//   - Engine: 组装好的运行时（Fx 应用 + Dispatcher + 统计）
//   - Dispatcher: 按 reflect.Type 索引的 Handling 注册表
//   - Handling: 队列 + 处理器工厂 + N 个工作者
//   - Result: 热路径上的结果码，Result.Err() 可与 errors.Is 配合
//
// # 快速开始
//
//	import "github.com/dep2p/go-dispatch"
//
//	type Tick struct{ N int }
//
//	eng, err := dispatch.New(dispatch.WithExitHandling())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Close()
//
//	d := eng.Dispatcher()
//	q, _ := dispatch.NewRingQueue[Tick](64)
//	dispatch.AddHandling(d, "printer", q,
//	    interfaces.Stateless(func(t Tick) { fmt.Println(t.N) }),
//	    1, dispatch.PriorityNormal)
//
//	if err := eng.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	dispatch.Publish(d, Tick{N: 1})
//
//	<-eng.ExitRequested()
//
// Go 方法不能带类型参数，因此 AddHandling/Publish 等是包级泛型函数，
// 事件类型由参数推断。
//
// # 文件组织
//
//   - dispatch.go  - Engine 与类型别名
//   - handling.go  - 泛型注册/发布函数、队列构造、Handling 选项
//   - exit.go      - Exit 事件
//   - options.go   - Engine 选项
//   - fx.go        - Fx 装配
//   - errors.go    - 公共错误
package dispatch
