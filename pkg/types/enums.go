package types

import (
	"fmt"
	"strings"
)

// ============================================================================
//                              Priority - Handling 优先级
// ============================================================================

// Priority Handling 优先级
//
// 仅作为元数据附加在 Handling 上，不改变单个队列的 FIFO 顺序。
// 发布时可据此决定事件路由（参见 dispatcher.PublishAtLeast），
// 同一事件类型的多个 Handling 按优先级从高到低依次入队。
type Priority int

const (
	// PriorityLowest 最低优先级
	PriorityLowest Priority = iota
	// PriorityLow 低优先级
	PriorityLow
	// PriorityNormal 普通优先级（默认）
	PriorityNormal
	// PriorityHigh 高优先级
	PriorityHigh
	// PriorityHighest 最高优先级
	PriorityHighest
)

// String 返回优先级的字符串表示
func (p Priority) String() string {
	switch p {
	case PriorityLowest:
		return "lowest"
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	case PriorityHighest:
		return "highest"
	default:
		return fmt.Sprintf("priority(%d)", int(p))
	}
}

// IsValid 检查优先级是否在合法范围内
func (p Priority) IsValid() bool {
	return p >= PriorityLowest && p <= PriorityHighest
}

// ParsePriority 解析优先级名称
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lowest":
		return PriorityLowest, nil
	case "low":
		return PriorityLow, nil
	case "normal", "":
		return PriorityNormal, nil
	case "high":
		return PriorityHigh, nil
	case "highest":
		return PriorityHighest, nil
	default:
		return PriorityNormal, fmt.Errorf("invalid priority %q", s)
	}
}

// MarshalText 实现 encoding.TextMarshaler 接口
func (p Priority) MarshalText() ([]byte, error) {
	if !p.IsValid() {
		return nil, fmt.Errorf("invalid priority %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler 接口
func (p *Priority) UnmarshalText(text []byte) error {
	v, err := ParsePriority(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ============================================================================
//                              HandlingState - Handling 状态
// ============================================================================

// HandlingState Handling 生命周期状态
//
// 合法迁移：
//
//	Created → Running → Stopping → Stopped
//	Created → Stopped（从未启动，无工作者需要回收）
//
// 到达 Stopped 后不再有任何迁移。
type HandlingState int32

const (
	// HandlingCreated 已创建，工作者未启动
	HandlingCreated HandlingState = iota
	// HandlingRunning 工作者运行中
	HandlingRunning
	// HandlingStopping 已发出停止信号，等待工作者退出
	HandlingStopping
	// HandlingStopped 所有工作者已退出
	HandlingStopped
)

// String 返回状态的字符串表示
func (s HandlingState) String() string {
	switch s {
	case HandlingCreated:
		return "created"
	case HandlingRunning:
		return "running"
	case HandlingStopping:
		return "stopping"
	case HandlingStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// ============================================================================
//                              PushPolicy - 满队列策略
// ============================================================================

// PushPolicy 队列满时的入队策略
type PushPolicy int

const (
	// PushReject 队列满时立即拒绝（默认）
	PushReject PushPolicy = iota
	// PushBlock 队列满时阻塞直到有空位、Handling 停止或上下文结束
	PushBlock
)

// String 返回策略的字符串表示
func (p PushPolicy) String() string {
	switch p {
	case PushReject:
		return "reject"
	case PushBlock:
		return "block"
	default:
		return "unknown"
	}
}

// MarshalText 实现 encoding.TextMarshaler 接口
func (p PushPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler 接口
func (p *PushPolicy) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "reject", "":
		*p = PushReject
	case "block":
		*p = PushBlock
	default:
		return fmt.Errorf("invalid push policy %q", string(text))
	}
	return nil
}
