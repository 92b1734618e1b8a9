package types

import "time"

// HandlingStats Handling 统计快照
//
// 由 metrics.Reporter 维护，表示某个时间点的累计计数。
type HandlingStats struct {
	Published  int64         // 入队成功数
	Rejected   int64         // 被拒绝数（队列满、限流、已停止）
	Handled    int64         // 处理完成数（含 panic）
	Panicked   int64         // 处理器 panic 数
	Discarded  int64         // 停止时被清空丢弃的事件数
	TotalTime  time.Duration // 累计处理耗时
	HandleRate float64       // 最近 60 秒平均处理速率（事件/秒）
}

// AvgDuration 平均处理耗时
func (s HandlingStats) AvgDuration() time.Duration {
	if s.Handled == 0 {
		return 0
	}
	return s.TotalTime / time.Duration(s.Handled)
}
