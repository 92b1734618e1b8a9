package queue

import "errors"

var (
	// ErrInvalidCapacity 容量必须大于 0
	ErrInvalidCapacity = errors.New("queue capacity must be positive")

	// ErrQueueFull 队列已满
	ErrQueueFull = errors.New("queue is full")
)
