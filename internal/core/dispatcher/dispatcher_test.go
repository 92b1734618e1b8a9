package dispatcher

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-dispatch/internal/core/handling"
	"github.com/dep2p/go-dispatch/internal/core/metrics"
	"github.com/dep2p/go-dispatch/internal/core/queue"
	"github.com/dep2p/go-dispatch/pkg/interfaces"
	"github.com/dep2p/go-dispatch/pkg/types"
)

// ============================================================================
// 测试辅助
// ============================================================================

type Tick struct {
	Value uint32
}

type Alarm struct {
	Level int
}

// tickLog 记录处理顺序
type tickLog struct {
	mu     sync.Mutex
	values []uint32
}

func (l *tickLog) Handle(t Tick) {
	l.mu.Lock()
	l.values = append(l.values, t.Value)
	l.mu.Unlock()
}

func (l *tickLog) snapshot() []uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]uint32, len(l.values))
	copy(out, l.values)
	return out
}

func ring[E any](t *testing.T, capacity int) *queue.Ring[E] {
	t.Helper()
	q, err := queue.NewRing[E](capacity)
	require.NoError(t, err)
	return q
}

func newDispatcher(t *testing.T, opts ...Option) *Dispatcher {
	t.Helper()
	opts = append([]Option{
		WithStopTimeout(2 * time.Second),
		WithHandlingDefaults(handling.WithPollInterval(5 * time.Millisecond)),
	}, opts...)
	d := New(opts...)
	t.Cleanup(func() { d.Stop() })
	return d
}

// ============================================================================
// 端到端
// ============================================================================

// TestDispatcher_TickQueueFull 第三次发布时队列仍满
func TestDispatcher_TickQueueFull(t *testing.T) {
	d := newDispatcher(t)
	log := &tickLog{}

	res := AddHandling(d, "printer", ring[Tick](t, 2), func() interfaces.Handler[Tick] { return log }, 1, types.PriorityNormal)
	require.Equal(t, types.OK, res)

	// 工作者尚未启动，前两个事件占满队列
	assert.Equal(t, types.OK, Publish(d, Tick{1}))
	assert.Equal(t, types.OK, Publish(d, Tick{2}))
	assert.Equal(t, types.ErrorPublishing, Publish(d, Tick{3}))

	require.Equal(t, types.OK, d.Start())
	require.Eventually(t, func() bool { return len(log.snapshot()) == 2 }, time.Second, time.Millisecond)

	assert.Equal(t, types.OK, Publish(d, Tick{3}))
	require.Eventually(t, func() bool { return len(log.snapshot()) == 3 }, time.Second, time.Millisecond)
	assert.Equal(t, []uint32{1, 2, 3}, log.snapshot())

	assert.Equal(t, types.OK, d.Stop())
}

// TestDispatcher_TickDrained 第一个事件已被取走，第三次发布成功
func TestDispatcher_TickDrained(t *testing.T) {
	d := newDispatcher(t)
	log := &tickLog{}
	entered := make(chan struct{})
	barrier := make(chan struct{})

	factory := func() interfaces.Handler[Tick] {
		return interfaces.HandlerFunc[Tick](func(ev Tick) {
			if ev.Value == 1 {
				close(entered)
				<-barrier
			}
			log.Handle(ev)
		})
	}
	require.Equal(t, types.OK, AddHandling(d, "printer", ring[Tick](t, 2), factory, 1, types.PriorityNormal))
	require.Equal(t, types.OK, d.Start())

	assert.Equal(t, types.OK, Publish(d, Tick{1}))
	<-entered
	assert.Equal(t, types.OK, Publish(d, Tick{2}))
	assert.Equal(t, types.OK, Publish(d, Tick{3}))
	close(barrier)

	require.Eventually(t, func() bool { return len(log.snapshot()) == 3 }, time.Second, time.Millisecond)
	assert.Equal(t, []uint32{1, 2, 3}, log.snapshot())
	assert.Equal(t, types.OK, d.Stop())
}

// TestDispatcher_NoLossSingleConsumer 多发布者、单消费者无丢失
func TestDispatcher_NoLossSingleConsumer(t *testing.T) {
	const publishers = 4
	const perPublisher = 250

	var handled atomic.Int64
	d := newDispatcher(t)
	require.Equal(t, types.OK, AddHandling(d, "count", ring[Tick](t, 32),
		interfaces.Stateless(func(Tick) { handled.Add(1) }), 1, types.PriorityNormal))
	require.Equal(t, types.OK, d.Start())

	var wg sync.WaitGroup
	for p := 0; p < publishers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perPublisher; i++ {
				for Publish(d, Tick{uint32(i)}) != types.OK {
					time.Sleep(50 * time.Microsecond)
				}
			}
		}()
	}
	wg.Wait()

	require.Equal(t, types.OK, d.Stop())
	assert.Equal(t, int64(publishers*perPublisher), handled.Load())
}

// ============================================================================
// 注册
// ============================================================================

// TestAddHandling_Exists 重复注册返回 HANDLING_EXISTS，原注册不受影响
func TestAddHandling_Exists(t *testing.T) {
	d := newDispatcher(t)
	first := &tickLog{}

	require.Equal(t, types.OK, AddHandling(d, "printer", ring[Tick](t, 4),
		func() interfaces.Handler[Tick] { return first }, 1, types.PriorityNormal))

	var secondCalls int
	res := AddHandling(d, "printer", ring[Tick](t, 4), func() interfaces.Handler[Tick] {
		secondCalls++
		return &tickLog{}
	}, 3, types.PriorityHigh)
	assert.Equal(t, types.HandlingExists, res)
	assert.Zero(t, secondCalls)

	infos := d.Handlings()
	require.Len(t, infos, 1)
	assert.Equal(t, 1, infos[0].Workers)
	assert.Equal(t, types.PriorityNormal, infos[0].Priority)

	require.Equal(t, types.OK, d.Start())
	require.Equal(t, types.OK, Publish(d, Tick{7}))
	require.Eventually(t, func() bool { return len(first.snapshot()) == 1 }, time.Second, time.Millisecond)

	// 同一 ID 可用于不同事件类型
	assert.Equal(t, types.OK, AddHandling(d, "printer", ring[Alarm](t, 4),
		interfaces.Stateless(func(Alarm) {}), 1, types.PriorityNormal))
}

// TestAddHandling_ZeroAmount 工作者数量为 0
func TestAddHandling_ZeroAmount(t *testing.T) {
	d := newDispatcher(t)
	res := AddHandling(d, "none", ring[Tick](t, 4), interfaces.Stateless(func(Tick) {}), 0, types.PriorityNormal)
	assert.Equal(t, types.ZeroAmount, res)
	assert.Zero(t, d.HandlingCount())
}

// TestAddHandling_HandlerUsed 处理器实例重复绑定
func TestAddHandling_HandlerUsed(t *testing.T) {
	d := newDispatcher(t)
	shared := &tickLog{}
	factory := func() interfaces.Handler[Tick] { return shared }

	require.Equal(t, types.OK, AddHandling(d, "a", ring[Tick](t, 4), factory, 1, types.PriorityNormal))
	assert.Equal(t, types.HandlerUsed, AddHandling(d, "b", ring[Tick](t, 4), factory, 1, types.PriorityNormal))

	// 同一工厂多次返回同一实例
	other := &tickLog{}
	assert.Equal(t, types.HandlerUsed, AddHandling(d, "c", ring[Tick](t, 4),
		func() interfaces.Handler[Tick] { return other }, 2, types.PriorityNormal))

	assert.Equal(t, 1, d.HandlingCount())

	// 移除后实例可以重新绑定
	require.Equal(t, types.OK, RemoveHandling[Tick](d, "a"))
	assert.Equal(t, types.OK, AddHandling(d, "b", ring[Tick](t, 4), factory, 1, types.PriorityNormal))
}

// TestAddHandling_QueueInUse 同一队列实例不能绑定到两个 Handling
func TestAddHandling_QueueInUse(t *testing.T) {
	d := newDispatcher(t)
	shared := ring[Tick](t, 16)
	a, b := &tickLog{}, &tickLog{}

	require.Equal(t, types.OK, AddHandling(d, "a", shared,
		func() interfaces.Handler[Tick] { return a }, 1, types.PriorityNormal))
	assert.Equal(t, types.ErrorAddingHandler, AddHandling(d, "b", shared,
		func() interfaces.Handler[Tick] { return b }, 1, types.PriorityNormal))
	// 失败的注册不占用 id
	require.Equal(t, types.OK, AddHandling(d, "b", ring[Tick](t, 16),
		func() interfaces.Handler[Tick] { return b }, 1, types.PriorityNormal))
	require.Equal(t, types.OK, d.Start())

	for i := uint32(1); i <= 10; i++ {
		require.Equal(t, types.OK, Publish(d, Tick{i}))
	}
	require.Eventually(t, func() bool {
		return len(a.snapshot()) == 10 && len(b.snapshot()) == 10
	}, 2*time.Second, 5*time.Millisecond)

	// 移除后队列可以重新绑定
	require.Equal(t, types.OK, RemoveHandling[Tick](d, "a"))
	assert.Equal(t, types.OK, AddHandling(d, "c", shared,
		interfaces.Stateless(func(Tick) {}), 1, types.PriorityNormal))
}

// TestAddHandling_RegistersMetrics 已注册的空闲 Handling 不会被清理统计
func TestAddHandling_RegistersMetrics(t *testing.T) {
	counter := metrics.NewCounter()
	d := newDispatcher(t, WithReporter(counter))
	key := types.HandlingKey{EventType: "dispatcher.Tick", ID: "idle"}

	require.Equal(t, types.OK, AddHandling(d, "idle", ring[Tick](t, 1),
		interfaces.Stateless(func(Tick) {}), 1, types.PriorityNormal))
	require.Equal(t, types.OK, Publish(d, Tick{1}))
	require.Equal(t, types.ErrorPublishing, Publish(d, Tick{2}))

	counter.TrimIdle(time.Now().Add(time.Hour))
	stats := counter.GetHandlingStats(key)
	assert.Equal(t, int64(1), stats.Published)
	assert.Equal(t, int64(1), stats.Rejected)

	require.Equal(t, types.OK, RemoveHandling[Tick](d, "idle"))
	assert.NotContains(t, counter.GetStatsByHandling(), key)
}

// TestAddHandling_ErrorAddingHandler 参数无效
func TestAddHandling_ErrorAddingHandler(t *testing.T) {
	d := newDispatcher(t)
	stateless := interfaces.Stateless(func(Tick) {})

	assert.Equal(t, types.ErrorAddingHandler, AddHandling[Tick](d, "nilq", nil, stateless, 1, types.PriorityNormal))
	assert.Equal(t, types.ErrorAddingHandler, AddHandling(d, "nilf", ring[Tick](t, 1), nil, 1, types.PriorityNormal))
	assert.Equal(t, types.ErrorAddingHandler, AddHandling(d, "", ring[Tick](t, 1), stateless, 1, types.PriorityNormal))
	assert.Equal(t, types.ErrorAddingHandler, AddHandling(d, "nilh", ring[Tick](t, 1),
		func() interfaces.Handler[Tick] { return nil }, 1, types.PriorityNormal))
	assert.Zero(t, d.HandlingCount())

	require.Equal(t, types.OK, d.Stop())
	assert.Equal(t, types.ErrorAddingHandler, AddHandling(d, "late", ring[Tick](t, 1), stateless, 1, types.PriorityNormal))
}

// TestAddHandling_WhileRunning 运行中注册立即启动
func TestAddHandling_WhileRunning(t *testing.T) {
	d := newDispatcher(t)
	require.Equal(t, types.OK, d.Start())

	log := &tickLog{}
	require.Equal(t, types.OK, AddHandling(d, "late", ring[Tick](t, 4),
		func() interfaces.Handler[Tick] { return log }, 1, types.PriorityNormal))

	infos := d.Handlings()
	require.Len(t, infos, 1)
	assert.Equal(t, types.HandlingRunning, infos[0].State)

	require.Equal(t, types.OK, Publish(d, Tick{9}))
	assert.Eventually(t, func() bool { return len(log.snapshot()) == 1 }, time.Second, time.Millisecond)
}

// TestRemoveHandling 注销
func TestRemoveHandling(t *testing.T) {
	counter := metrics.NewCounter()
	d := newDispatcher(t, WithReporter(counter))

	assert.Equal(t, types.HandlingNotFound, RemoveHandling[Tick](d, "missing"))

	require.Equal(t, types.OK, AddHandling(d, "a", ring[Tick](t, 4), interfaces.Stateless(func(Tick) {}), 1, types.PriorityNormal))
	require.Equal(t, types.OK, AddHandling(d, "b", ring[Tick](t, 4), interfaces.Stateless(func(Tick) {}), 1, types.PriorityNormal))
	require.Equal(t, types.OK, d.Start())
	require.Equal(t, types.OK, Publish(d, Tick{1}))

	assert.Equal(t, types.OK, RemoveHandling[Tick](d, "a"))
	assert.Equal(t, 1, d.HandlingCount())
	assert.Equal(t, types.HandlingNotFound, RemoveHandling[Tick](d, "a"))
	assert.Equal(t, types.HandlingNotFound, PublishTo(d, "a", Tick{2}))

	assert.Equal(t, types.OK, RemoveHandling[Tick](d, "b"))
	assert.Zero(t, d.HandlingCount())
	assert.Equal(t, types.HandlingNotFound, Publish(d, Tick{3}))
	assert.Empty(t, counter.GetStatsByHandling())
}

// ============================================================================
// 发布
// ============================================================================

// TestPublish_NotFound 事件类型没有 Handling
func TestPublish_NotFound(t *testing.T) {
	d := newDispatcher(t)
	assert.Equal(t, types.HandlingNotFound, Publish(d, Tick{1}))
}

// TestPublish_FanOut 同一事件类型的所有 Handling 都收到事件
func TestPublish_FanOut(t *testing.T) {
	d := newDispatcher(t)
	a, b := &tickLog{}, &tickLog{}

	require.Equal(t, types.OK, AddHandling(d, "a", ring[Tick](t, 4), func() interfaces.Handler[Tick] { return a }, 1, types.PriorityLow))
	require.Equal(t, types.OK, AddHandling(d, "b", ring[Tick](t, 4), func() interfaces.Handler[Tick] { return b }, 1, types.PriorityHigh))
	require.Equal(t, types.OK, d.Start())

	require.Equal(t, types.OK, Publish(d, Tick{5}))
	assert.Eventually(t, func() bool {
		return len(a.snapshot()) == 1 && len(b.snapshot()) == 1
	}, time.Second, time.Millisecond)
}

// TestPublish_PartialAccept 部分 Handling 拒绝时仍返回 OK
func TestPublish_PartialAccept(t *testing.T) {
	counter := metrics.NewCounter()
	d := newDispatcher(t, WithReporter(counter))

	require.Equal(t, types.OK, AddHandling(d, "small", ring[Tick](t, 1), interfaces.Stateless(func(Tick) {}), 1, types.PriorityNormal))
	require.Equal(t, types.OK, AddHandling(d, "large", ring[Tick](t, 8), interfaces.Stateless(func(Tick) {}), 1, types.PriorityNormal))

	assert.Equal(t, types.OK, Publish(d, Tick{1}))
	assert.Equal(t, types.OK, Publish(d, Tick{2}))

	small := types.HandlingKey{EventType: "dispatcher.Tick", ID: "small"}
	assert.Equal(t, int64(1), counter.GetHandlingStats(small).Rejected)
}

// TestPublish_Priority 优先级路由与顺序
func TestPublish_Priority(t *testing.T) {
	d := newDispatcher(t)
	low, normal, high := &tickLog{}, &tickLog{}, &tickLog{}

	require.Equal(t, types.OK, AddHandling(d, "low", ring[Tick](t, 4), func() interfaces.Handler[Tick] { return low }, 1, types.PriorityLow))
	require.Equal(t, types.OK, AddHandling(d, "normal", ring[Tick](t, 4), func() interfaces.Handler[Tick] { return normal }, 1, types.PriorityNormal))
	require.Equal(t, types.OK, AddHandling(d, "high", ring[Tick](t, 4), func() interfaces.Handler[Tick] { return high }, 1, types.PriorityHigh))

	infos := d.Handlings()
	require.Len(t, infos, 3)
	assert.Equal(t, types.HandlingID("high"), infos[0].ID)
	assert.Equal(t, types.HandlingID("normal"), infos[1].ID)
	assert.Equal(t, types.HandlingID("low"), infos[2].ID)

	require.Equal(t, types.OK, d.Start())

	assert.Equal(t, types.OK, PublishAtLeast(d, types.PriorityNormal, Tick{1}))
	assert.Equal(t, types.HandlingNotFound, PublishAtLeast(d, types.PriorityHighest, Tick{2}))
	assert.Equal(t, types.OK, PublishTo(d, "low", Tick{3}))
	assert.Equal(t, types.HandlingNotFound, PublishTo(d, "missing", Tick{4}))

	require.Equal(t, types.OK, d.Stop())
	assert.Equal(t, []uint32{1}, high.snapshot())
	assert.Equal(t, []uint32{1}, normal.snapshot())
	assert.Equal(t, []uint32{3}, low.snapshot())
}

// TestPublish_AfterStop 停止后发布
func TestPublish_AfterStop(t *testing.T) {
	t.Run("Rejected", func(t *testing.T) {
		d := newDispatcher(t)
		require.Equal(t, types.OK, AddHandling(d, "a", ring[Tick](t, 4), interfaces.Stateless(func(Tick) {}), 1, types.PriorityNormal))
		require.Equal(t, types.OK, d.Stop())
		assert.Equal(t, types.ErrorStopping, Publish(d, Tick{1}))
	})

	t.Run("Ignored", func(t *testing.T) {
		d := newDispatcher(t, WithIgnorePublishAfterStop())
		require.Equal(t, types.OK, d.Stop())
		assert.Equal(t, types.OK, Publish(d, Tick{1}))
	})
}

// TestPublishContext_Block 阻塞策略受 ctx 限制
func TestPublishContext_Block(t *testing.T) {
	d := newDispatcher(t)
	require.Equal(t, types.OK, AddHandling(d, "block", ring[Tick](t, 1), interfaces.Stateless(func(Tick) {}), 1,
		types.PriorityNormal, handling.WithPushPolicy(types.PushBlock)))

	require.Equal(t, types.OK, Publish(d, Tick{1}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Equal(t, types.ErrorPublishing, PublishContext(ctx, d, Tick{2}))
}

// TestPublish_ConcurrentWithStop 发布过程中 Dispatcher 停止返回 ERROR_STOPPING
func TestPublish_ConcurrentWithStop(t *testing.T) {
	for _, tc := range []struct {
		name   string
		opts   []Option
		expect types.Result
	}{
		{"Reject", nil, types.ErrorStopping},
		{"Ignore", []Option{WithIgnorePublishAfterStop()}, types.OK},
	} {
		t.Run(tc.name, func(t *testing.T) {
			d := newDispatcher(t, tc.opts...)
			require.Equal(t, types.OK, AddHandling(d, "block", ring[Tick](t, 1), interfaces.Stateless(func(Tick) {}), 1,
				types.PriorityNormal, handling.WithPushPolicy(types.PushBlock)))
			require.Equal(t, types.OK, Publish(d, Tick{1}))

			// 队列已满且未启动，发布阻塞直到 Stop 释放
			result := make(chan types.Result, 1)
			go func() { result <- PublishContext(context.Background(), d, Tick{2}) }()
			time.Sleep(10 * time.Millisecond)

			require.Equal(t, types.OK, d.Stop())
			select {
			case res := <-result:
				assert.Equal(t, tc.expect, res)
			case <-time.After(time.Second):
				t.Fatal("Stop 未释放阻塞的发布")
			}
		})
	}
}

// ============================================================================
// 生命周期
// ============================================================================

// TestDispatcher_StopIdempotent 重复停止均返回 OK
func TestDispatcher_StopIdempotent(t *testing.T) {
	d := newDispatcher(t)
	require.Equal(t, types.OK, AddHandling(d, "a", ring[Tick](t, 4), interfaces.Stateless(func(Tick) {}), 2, types.PriorityNormal))
	require.Equal(t, types.OK, d.Start())

	assert.Equal(t, types.OK, d.Stop())
	assert.Equal(t, types.OK, d.Stop())
	assert.NoError(t, d.Close())
	assert.Equal(t, types.HandlingStopped, d.State())
	assert.Equal(t, types.ErrorStopping, d.Start())

	select {
	case <-d.Done():
	default:
		t.Fatal("Done 未关闭")
	}
}

// TestDispatcher_StopWithoutStart 未启动直接停止
func TestDispatcher_StopWithoutStart(t *testing.T) {
	d := newDispatcher(t)
	require.Equal(t, types.OK, AddHandling(d, "a", ring[Tick](t, 4), interfaces.Stateless(func(Tick) {}), 1, types.PriorityNormal))
	require.Equal(t, types.OK, Publish(d, Tick{1}))

	assert.Equal(t, types.OK, d.Stop())
	assert.Equal(t, types.HandlingStopped, d.State())
	assert.Equal(t, types.HandlingStopped, d.Handlings()[0].State)
}

// TestDispatcher_StopTimeout 工作者未退出时返回 ERROR_STOPPING，之后可再次停止
func TestDispatcher_StopTimeout(t *testing.T) {
	d := newDispatcher(t, WithStopTimeout(20*time.Millisecond))
	entered := make(chan struct{})
	release := make(chan struct{})

	require.Equal(t, types.OK, AddHandling(d, "slow", ring[Tick](t, 4), interfaces.Stateless(func(Tick) {
		close(entered)
		<-release
	}), 1, types.PriorityNormal))
	require.Equal(t, types.OK, d.Start())
	require.Equal(t, types.OK, Publish(d, Tick{1}))
	<-entered

	assert.Equal(t, types.ErrorStopping, d.Stop())
	assert.Equal(t, types.HandlingStopping, d.State())
	assert.ErrorIs(t, d.Close(), types.ErrStopping)

	close(release)
	assert.Eventually(t, func() bool { return d.Stop() == types.OK }, time.Second, 5*time.Millisecond)
	assert.Equal(t, types.HandlingStopped, d.State())
}

// TestDispatcher_StartIdempotent 重复启动
func TestDispatcher_StartIdempotent(t *testing.T) {
	d := newDispatcher(t)
	assert.Equal(t, types.OK, d.Start())
	assert.Equal(t, types.OK, d.Start())
	assert.Equal(t, types.HandlingRunning, d.State())
}

// TestDispatcher_ID 实例标识
func TestDispatcher_ID(t *testing.T) {
	a, b := newDispatcher(t), newDispatcher(t)
	_, err := uuid.Parse(a.ID())
	assert.NoError(t, err)
	assert.NotEqual(t, a.ID(), b.ID())
}

// TestDispatcher_Handlings 快照排序与内容
func TestDispatcher_Handlings(t *testing.T) {
	d := newDispatcher(t)
	require.Equal(t, types.OK, AddHandling(d, "tick", ring[Tick](t, 4), interfaces.Stateless(func(Tick) {}), 2, types.PriorityNormal))
	require.Equal(t, types.OK, AddHandling(d, "alarm", ring[Alarm](t, 8), interfaces.Stateless(func(Alarm) {}), 1, types.PriorityHighest))

	infos := d.Handlings()
	require.Len(t, infos, 2)
	assert.Equal(t, "dispatcher.Alarm", infos[0].EventType)
	assert.Equal(t, 8, infos[0].Capacity)
	assert.Equal(t, "dispatcher.Tick", infos[1].EventType)
	assert.Equal(t, 2, infos[1].Workers)
	assert.Equal(t, 2, d.HandlingCount())
}
