package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-dispatch/pkg/types"
)

// handlingCounters 单个 Handling 的计数器
type handlingCounters struct {
	published atomic.Int64
	rejected  atomic.Int64
	handled   atomic.Int64
	panicked  atomic.Int64
	discarded atomic.Int64
	totalNs   atomic.Int64
	rate      *RateMeter

	// lastActive 最近一次 Log* 调用的时间（UnixNano）
	lastActive atomic.Int64
}

func (c *handlingCounters) snapshot() types.HandlingStats {
	return types.HandlingStats{
		Published:  c.published.Load(),
		Rejected:   c.rejected.Load(),
		Handled:    c.handled.Load(),
		Panicked:   c.panicked.Load(),
		Discarded:  c.discarded.Load(),
		TotalTime:  time.Duration(c.totalNs.Load()),
		HandleRate: c.rate.Rate(),
	}
}

// Counter Handling 指标计数器
//
// 全局计数使用原子操作，按 Handling 的计数器在首次使用时创建，
// 创建后只做原子更新。
type Counter struct {
	clock clock.Clock

	// 全局计数器
	totals handlingCounters

	// Handling 级计数器
	mu        sync.RWMutex
	handlings map[types.HandlingKey]*handlingCounters

	// registered 已注册的 Handling，TrimIdle 不会移除（受 mu 保护）
	registered map[types.HandlingKey]struct{}
}

// NewCounter 创建新的 Counter
func NewCounter() *Counter {
	return NewCounterWithClock(clock.New())
}

// NewCounterWithClock 使用指定时钟创建 Counter（测试中传入 clock.NewMock()）
func NewCounterWithClock(clk clock.Clock) *Counter {
	c := &Counter{
		clock:      clk,
		handlings:  make(map[types.HandlingKey]*handlingCounters),
		registered: make(map[types.HandlingKey]struct{}),
	}
	c.totals.rate = NewRateMeter(clk)
	return c
}

// get 获取或创建 Handling 计数器，并刷新其活跃时间
func (c *Counter) get(key types.HandlingKey) *handlingCounters {
	c.mu.RLock()
	hc := c.handlings[key]
	c.mu.RUnlock()
	if hc == nil {
		c.mu.Lock()
		if hc = c.handlings[key]; hc == nil {
			hc = &handlingCounters{rate: NewRateMeter(c.clock)}
			c.handlings[key] = hc
		}
		c.mu.Unlock()
	}
	hc.lastActive.Store(c.clock.Now().UnixNano())
	return hc
}

// Register 标记 Handling 已注册
func (c *Counter) Register(key types.HandlingKey) {
	c.mu.Lock()
	c.registered[key] = struct{}{}
	c.mu.Unlock()
	c.get(key)
}

// LogPublished 记录一次成功入队
func (c *Counter) LogPublished(key types.HandlingKey) {
	c.totals.published.Add(1)
	c.get(key).published.Add(1)
}

// LogRejected 记录一次入队被拒绝
func (c *Counter) LogRejected(key types.HandlingKey) {
	c.totals.rejected.Add(1)
	c.get(key).rejected.Add(1)
}

// LogHandled 记录一次处理完成
func (c *Counter) LogHandled(key types.HandlingKey, elapsed time.Duration) {
	hc := c.get(key)

	c.totals.handled.Add(1)
	c.totals.totalNs.Add(elapsed.Nanoseconds())
	c.totals.rate.Add(1)

	hc.handled.Add(1)
	hc.totalNs.Add(elapsed.Nanoseconds())
	hc.rate.Add(1)
}

// LogPanic 记录一次处理器 panic
func (c *Counter) LogPanic(key types.HandlingKey) {
	c.totals.panicked.Add(1)
	c.get(key).panicked.Add(1)
}

// LogDiscarded 记录被丢弃的事件数
func (c *Counter) LogDiscarded(key types.HandlingKey, n int) {
	if n <= 0 {
		return
	}
	c.totals.discarded.Add(int64(n))
	c.get(key).discarded.Add(int64(n))
}

// GetHandlingStats 返回 Handling 统计
func (c *Counter) GetHandlingStats(key types.HandlingKey) types.HandlingStats {
	c.mu.RLock()
	hc := c.handlings[key]
	c.mu.RUnlock()

	if hc == nil {
		return types.HandlingStats{}
	}
	return hc.snapshot()
}

// GetTotals 返回汇总统计
func (c *Counter) GetTotals() types.HandlingStats {
	return c.totals.snapshot()
}

// GetStatsByHandling 返回所有 Handling 统计
func (c *Counter) GetStatsByHandling() map[types.HandlingKey]types.HandlingStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[types.HandlingKey]types.HandlingStats, len(c.handlings))
	for key, hc := range c.handlings {
		result[key] = hc.snapshot()
	}
	return result
}

// Forget 移除 Handling 统计并取消注册
//
// 汇总统计保持不变。
func (c *Counter) Forget(key types.HandlingKey) {
	c.mu.Lock()
	delete(c.handlings, key)
	delete(c.registered, key)
	c.mu.Unlock()
}

// Reset 清除所有统计，注册状态保持不变
func (c *Counter) Reset() {
	c.totals.published.Store(0)
	c.totals.rejected.Store(0)
	c.totals.handled.Store(0)
	c.totals.panicked.Store(0)
	c.totals.discarded.Store(0)
	c.totals.totalNs.Store(0)
	c.totals.rate.Reset()

	c.mu.Lock()
	c.handlings = make(map[types.HandlingKey]*handlingCounters)
	c.mu.Unlock()
}

// TrimIdle 清理自 since 以来没有任何记录的未注册 Handling 统计
//
// 已注册的 Handling 即使长时间空闲也保留，只能通过 Forget 移除。
func (c *Counter) TrimIdle(since time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := since.UnixNano()
	for key, hc := range c.handlings {
		if _, live := c.registered[key]; live {
			continue
		}
		if hc.lastActive.Load() < cutoff {
			delete(c.handlings, key)
		}
	}
}
