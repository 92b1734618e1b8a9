package types

// ============================================================================
//                              Result - 操作结果码
// ============================================================================

// Result Dispatcher 操作结果码
//
// 所有可预期的失败都以 Result 返回，不使用 panic。
type Result uint8

const (
	// OK 操作成功
	OK Result = iota
	// HandlingExists 同一事件类型下 Handling ID 已注册
	HandlingExists
	// HandlingNotFound 事件类型或 ID 没有对应的 Handling
	HandlingNotFound
	// HandlerUsed 处理器实例已绑定到其他 Handling
	HandlerUsed
	// ZeroAmount 工作者数量为 0
	ZeroAmount
	// ErrorPublishing 没有目标队列接受事件
	ErrorPublishing
	// ErrorAddingHandler 构造队列/处理器/工作者失败
	ErrorAddingHandler
	// ErrorStopping 一个或多个工作者未能退出
	ErrorStopping
	// ErrorUnknown 无法分类的错误，必须伴随一条带原因的日志
	ErrorUnknown
)

// String 返回结果码的字符串表示
func (r Result) String() string {
	switch r {
	case OK:
		return "OK"
	case HandlingExists:
		return "HANDLING_EXISTS"
	case HandlingNotFound:
		return "HANDLING_NOT_FOUND"
	case HandlerUsed:
		return "HANDLER_USED"
	case ZeroAmount:
		return "ZERO_AMOUNT"
	case ErrorPublishing:
		return "ERROR_PUBLISHING"
	case ErrorAddingHandler:
		return "ERROR_ADDING_HANDLER"
	case ErrorStopping:
		return "ERROR_STOPPING"
	default:
		return "ERROR_UNKNOWN"
	}
}

// IsOK 是否成功
func (r Result) IsOK() bool {
	return r == OK
}

// Err 返回结果码对应的错误，OK 返回 nil
func (r Result) Err() error {
	switch r {
	case OK:
		return nil
	case HandlingExists:
		return ErrHandlingExists
	case HandlingNotFound:
		return ErrHandlingNotFound
	case HandlerUsed:
		return ErrHandlerUsed
	case ZeroAmount:
		return ErrZeroAmount
	case ErrorPublishing:
		return ErrPublishing
	case ErrorAddingHandler:
		return ErrAddingHandler
	case ErrorStopping:
		return ErrStopping
	default:
		return ErrUnknown
	}
}
