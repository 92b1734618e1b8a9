// Package metrics 提供 Handling 运行指标
//
// 按 Handling（事件类型 + HandlingID）统计：
//   - 入队成功 / 被拒绝次数
//   - 处理完成次数、累计耗时、最近 60 秒处理速率
//   - 处理器 panic 次数
//   - 停止时丢弃的事件数
//
// # 快速开始
//
//	counter := metrics.NewCounter()
//	key := types.HandlingKey{EventType: "main.Tick", ID: "printer"}
//
//	counter.LogPublished(key)
//	counter.LogHandled(key, 3*time.Millisecond)
//
//	stats := counter.GetHandlingStats(key)
//	fmt.Printf("handled=%d avg=%s\n", stats.Handled, stats.AvgDuration())
//
// # Prometheus
//
// Collector 在每次抓取时读取 Reporter 和 HandlingSource 的快照：
//
//	reg := prometheus.NewRegistry()
//	reg.MustRegister(metrics.NewCollector(counter, dispatcher))
//
// # Fx 模块
//
//	app := fx.New(
//	    fx.Supply(config.NewConfig()),
//	    metrics.Module,
//	    fx.Invoke(func(r metrics.Reporter) { ... }),
//	)
//
// Metrics.Enabled 为 false 时模块提供 Nop()。
//
// # 并发安全
//
// 所有方法都是并发安全的。计数使用原子操作，
// Handling 计数器首次使用时在写锁下创建。
package metrics
