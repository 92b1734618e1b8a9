package types

// HandlingInfo Handling 快照
type HandlingInfo struct {
	// ID Handling 标识
	ID HandlingID

	// EventType 事件类型名称（reflect.Type.String()）
	EventType string

	// Priority 优先级
	Priority Priority

	// Workers 工作者数量
	Workers int

	// State 生命周期状态
	State HandlingState

	// Policy 满队列策略
	Policy PushPolicy

	// Capacity 队列容量
	Capacity int

	// Occupied 队列中待处理事件数
	Occupied int
}

// Key 返回 Handling 的全局唯一键
func (i HandlingInfo) Key() HandlingKey {
	return HandlingKey{EventType: i.EventType, ID: i.ID}
}

// HandlingKey Handling 全局唯一键
//
// HandlingID 仅在同一事件类型下唯一，跨事件类型的统计需要同时使用事件类型名。
type HandlingKey struct {
	EventType string
	ID        HandlingID
}

// String 返回 "事件类型/ID" 形式
func (k HandlingKey) String() string {
	return k.EventType + "/" + string(k.ID)
}
