package types

import "fmt"

// MaxHandlingIDLen Handling ID 最大字节长度
const MaxHandlingIDLen = 32

// HandlingID Handling 标识
//
// 用于诊断和查找，在同一 Dispatcher 的同一事件类型下唯一。
type HandlingID string

// String 返回字符串表示
func (id HandlingID) String() string {
	return string(id)
}

// Validate 验证 ID 有效性
func (id HandlingID) Validate() error {
	if id == "" {
		return ErrEmptyHandlingID
	}
	if len(id) > MaxHandlingIDLen {
		return fmt.Errorf("%w: %d > %d", ErrHandlingIDTooLong, len(id), MaxHandlingIDLen)
	}
	return nil
}
