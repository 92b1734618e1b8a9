// Package interfaces 定义 go-dispatch 的公共接口
//
// 接口文件与实现目录一一对应：
//
//   - queue.go    - Queue / BlockingQueue（实现：internal/core/queue）
//   - handler.go  - Handler / HandlerFunc / HandlerFactory（由使用方实现）
//   - logger.go   - Logger（实现：pkg/lib/log.LazyLogger、*slog.Logger）
//
// 所有接口都以事件类型 E 为类型参数，编译期保证队列、处理器
// 与发布的事件类型一致。
//
// # 处理器实例
//
// HandlerFactory 为每个工作者调用一次。有状态处理器必须每次返回新实例，
// 同一实例绑定到两个工作者或两个 Handling 会被拒绝（HANDLER_USED）。
// 无状态函数可以用 Stateless 包装，函数值不参与实例唯一性检查。
package interfaces
