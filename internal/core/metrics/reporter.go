package metrics

import (
	"time"

	"github.com/dep2p/go-dispatch/pkg/types"
)

//go:generate mockgen -source=reporter.go -destination=mocks/mock_reporter.go -package=mocks

// Reporter 提供记录和检索 Handling 指标的方法
//
// Handling 的工作者和 Dispatcher 的发布路径会并发调用 Log* 方法，
// 实现必须是并发安全的。
type Reporter interface {
	// Register 标记 Handling 已注册，注册期间其统计不会被空闲清理移除
	Register(key types.HandlingKey)

	// LogPublished 记录一次成功入队
	LogPublished(key types.HandlingKey)

	// LogRejected 记录一次入队被拒绝
	LogRejected(key types.HandlingKey)

	// LogHandled 记录一次处理完成及其耗时
	LogHandled(key types.HandlingKey, elapsed time.Duration)

	// LogPanic 记录一次处理器 panic
	LogPanic(key types.HandlingKey)

	// LogDiscarded 记录停止时被丢弃的事件数
	LogDiscarded(key types.HandlingKey, n int)

	// GetHandlingStats 获取指定 Handling 的统计
	GetHandlingStats(key types.HandlingKey) types.HandlingStats

	// GetTotals 获取所有 Handling 的汇总统计
	GetTotals() types.HandlingStats

	// GetStatsByHandling 获取所有 Handling 的统计
	GetStatsByHandling() map[types.HandlingKey]types.HandlingStats

	// Forget 移除指定 Handling 的统计并取消注册（Handling 被移除时调用）
	Forget(key types.HandlingKey)

	// Reset 重置所有统计
	Reset()
}

// 确保 Counter 实现 Reporter 接口
var _ Reporter = (*Counter)(nil)

// Nop 返回不记录任何数据的 Reporter
func Nop() Reporter {
	return nopReporter{}
}

type nopReporter struct{}

func (nopReporter) Register(types.HandlingKey)                  {}
func (nopReporter) LogPublished(types.HandlingKey)              {}
func (nopReporter) LogRejected(types.HandlingKey)               {}
func (nopReporter) LogHandled(types.HandlingKey, time.Duration) {}
func (nopReporter) LogPanic(types.HandlingKey)                  {}
func (nopReporter) LogDiscarded(types.HandlingKey, int)         {}
func (nopReporter) GetHandlingStats(types.HandlingKey) types.HandlingStats {
	return types.HandlingStats{}
}
func (nopReporter) GetTotals() types.HandlingStats { return types.HandlingStats{} }
func (nopReporter) GetStatsByHandling() map[types.HandlingKey]types.HandlingStats {
	return map[types.HandlingKey]types.HandlingStats{}
}
func (nopReporter) Forget(types.HandlingKey) {}
func (nopReporter) Reset()                   {}
