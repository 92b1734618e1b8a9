// Package interfaces 定义 go-dispatch 公共接口
//
// 本文件定义 Handler 相关接口。
package interfaces

// Handler 事件处理器
//
// 每个工作者持有独立的 Handler 实例，Handle 在弹出事件的工作者上同步调用，
// 每个事件恰好调用一次。Handle 内的 panic 会被工作者循环捕获并记录，
// 不会传播给发布者，也不会终止工作者。
type Handler[E any] interface {
	// Handle 处理一个事件
	Handle(event E)
}

// HandlerFunc 函数形式的 Handler
type HandlerFunc[E any] func(event E)

// Handle 实现 Handler 接口
func (f HandlerFunc[E]) Handle(event E) {
	f(event)
}

// HandlerFactory 处理器工厂
//
// Handling 为每个工作者调用一次工厂，返回的实例不得与其他工作者
// 或其他 Handling 共享（有状态处理器需要独立实例）。
type HandlerFactory[E any] func() Handler[E]

// Stateless 将同一个 HandlerFunc 包装为工厂
//
// 仅适用于无状态处理器：每次调用返回同一个函数值。
func Stateless[E any](f func(event E)) HandlerFactory[E] {
	return func() Handler[E] {
		return HandlerFunc[E](f)
	}
}
