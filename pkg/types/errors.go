// Package types 定义 go-dispatch 的基础类型
//
// 本文件定义所有公共错误类型。
package types

import "errors"

// ============================================================================
//                              结果码对应错误
// ============================================================================

var (
	// ErrHandlingExists 同一事件类型下 Handling ID 已存在
	ErrHandlingExists = errors.New("handling already exists")

	// ErrHandlingNotFound Handling 不存在
	ErrHandlingNotFound = errors.New("handling not found")

	// ErrHandlerUsed 处理器实例已被其他 Handling 使用
	ErrHandlerUsed = errors.New("handler already in use")

	// ErrZeroAmount 工作者数量为 0
	ErrZeroAmount = errors.New("zero amount of handlers")

	// ErrPublishing 没有任何目标队列接受事件
	ErrPublishing = errors.New("error publishing event")

	// ErrAddingHandler 添加 Handling 失败
	ErrAddingHandler = errors.New("error adding handler")

	// ErrStopping 停止失败（工作者未能在限定时间内退出）
	ErrStopping = errors.New("error stopping")

	// ErrUnknown 未分类错误
	ErrUnknown = errors.New("unknown error")
)

// ============================================================================
//                              ID 相关错误
// ============================================================================

var (
	// ErrEmptyHandlingID 空 Handling ID
	ErrEmptyHandlingID = errors.New("empty handling ID")

	// ErrHandlingIDTooLong Handling ID 超过最大长度
	ErrHandlingIDTooLong = errors.New("handling ID too long")
)
