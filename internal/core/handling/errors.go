package handling

import "errors"

var (
	// ErrZeroWorkers 工作者数量为 0
	ErrZeroWorkers = errors.New("handling needs at least one worker")

	// ErrNilQueue 未提供队列
	ErrNilQueue = errors.New("handling queue is nil")

	// ErrNilFactory 未提供处理器工厂
	ErrNilFactory = errors.New("handler factory is nil")

	// ErrNilHandler 工厂返回 nil 处理器
	ErrNilHandler = errors.New("handler factory returned nil")

	// ErrDuplicateHandler 工厂多次返回同一个处理器实例
	ErrDuplicateHandler = errors.New("handler factory returned the same instance twice")

	// ErrInvalidID HandlingID 无效
	ErrInvalidID = errors.New("invalid handling id")

	// ErrQueueNotBlocking 阻塞入队策略要求队列实现 BlockingQueue
	ErrQueueNotBlocking = errors.New("push policy block requires a blocking queue")

	// ErrStopTimeout 等待工作者退出超时
	ErrStopTimeout = errors.New("timed out waiting for workers")

	// ErrNotAccepting Handling 已停止，不再接受启动或入队
	ErrNotAccepting = errors.New("handling is stopped")
)
