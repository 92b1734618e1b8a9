package main

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-dispatch"
	"github.com/dep2p/go-dispatch/pkg/interfaces"
)

// ============================================================================
//                              事件
// ============================================================================

// Reading 传感器读数
type Reading struct {
	Sensor string
	Value  float64
	At     time.Time
}

// Alarm 读数越过阈值
type Alarm struct {
	Sensor    string
	Value     float64
	Threshold float64
}

// ============================================================================
//                              处理器
// ============================================================================

// summary 单个传感器的聚合结果
type summary struct {
	Count int
	Min   float64
	Max   float64
	Sum   float64
}

func (s summary) mean() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.Sum / float64(s.Count)
}

func (s *summary) add(v float64) {
	if s.Count == 0 || v < s.Min {
		s.Min = v
	}
	if s.Count == 0 || v > s.Max {
		s.Max = v
	}
	s.Count++
	s.Sum += v
}

// recorder 有状态处理器，每个工作者一个实例，无需加锁
type recorder struct {
	data map[string]*summary
}

func (r *recorder) Handle(ev Reading) {
	s := r.data[ev.Sensor]
	if s == nil {
		s = &summary{}
		r.data[ev.Sensor] = s
	}
	s.add(ev.Value)
}

// recorderSink 收集所有 recorder 实例，停止后合并
type recorderSink struct {
	mu        sync.Mutex
	recorders []*recorder
}

func (s *recorderSink) factory() interfaces.Handler[Reading] {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := &recorder{data: make(map[string]*summary)}
	s.recorders = append(s.recorders, r)
	return r
}

// merge 合并各工作者的聚合结果，只能在 Handling 停止后调用
func (s *recorderSink) merge() map[string]summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]summary)
	for _, r := range s.recorders {
		for name, part := range r.data {
			acc := out[name]
			if acc.Count == 0 {
				acc = *part
			} else {
				acc.Count += part.Count
				acc.Sum += part.Sum
				acc.Min = math.Min(acc.Min, part.Min)
				acc.Max = math.Max(acc.Max, part.Max)
			}
			out[name] = acc
		}
	}
	return out
}

// thresholdWatcher 把越界读数转发为 Alarm
type thresholdWatcher struct {
	d         *dispatch.Dispatcher
	threshold float64
}

func (w *thresholdWatcher) Handle(ev Reading) {
	if ev.Value <= w.threshold {
		return
	}
	if res := dispatch.Publish(w.d, Alarm{Sensor: ev.Sensor, Value: ev.Value, Threshold: w.threshold}); !res.IsOK() {
		logger.Warn("告警发布失败", "sensor", ev.Sensor, "result", res)
	}
}

// alarmCounter 统计告警，达到上限后请求退出
type alarmCounter struct {
	eng   *dispatch.Engine
	limit int

	mu    sync.Mutex
	count int
}

func (a *alarmCounter) Handle(ev Alarm) {
	a.mu.Lock()
	a.count++
	n := a.count
	a.mu.Unlock()

	logger.Info("告警", "sensor", ev.Sensor, "value", fmt.Sprintf("%.2f", ev.Value), "threshold", ev.Threshold)
	if a.limit > 0 && n == a.limit {
		a.eng.RequestExit(fmt.Sprintf("%d alarms", n))
	}
}

func (a *alarmCounter) total() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.count
}

// ============================================================================
//                              模拟器
// ============================================================================

// simulator 注册 Handling 并驱动传感器发布读数
type simulator struct {
	eng     *dispatch.Engine
	params  simParams
	clock   clock.Clock
	records *recorderSink
	alarms  *alarmCounter
}

func newSimulator(eng *dispatch.Engine, p simParams, clk clock.Clock) (*simulator, error) {
	s := &simulator{
		eng:     eng,
		params:  p,
		clock:   clk,
		records: &recorderSink{},
		alarms:  &alarmCounter{eng: eng, limit: p.maxAlarms},
	}
	if err := s.register(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *simulator) register() error {
	d := s.eng.Dispatcher()
	cfg := s.eng.Config().Handling

	readings, err := dispatch.NewRingQueue[Reading](cfg.QueueCapacity)
	if err != nil {
		return err
	}
	if res := dispatch.AddHandling(d, "recorder", readings, s.records.factory, cfg.Workers, cfg.Priority); !res.IsOK() {
		return fmt.Errorf("add recorder: %w", res.Err())
	}

	watch, err := dispatch.NewRingQueue[Reading](cfg.QueueCapacity)
	if err != nil {
		return err
	}
	watcher := func() interfaces.Handler[Reading] {
		return &thresholdWatcher{d: d, threshold: s.params.threshold}
	}
	if res := dispatch.AddHandling(d, "threshold", watch, watcher, 1, dispatch.PriorityHigh); !res.IsOK() {
		return fmt.Errorf("add threshold: %w", res.Err())
	}

	alarms, err := dispatch.NewChannelQueue[Alarm](cfg.QueueCapacity)
	if err != nil {
		return err
	}
	counter := func() interfaces.Handler[Alarm] { return s.alarms }
	if res := dispatch.AddHandling(d, "alarm-log", alarms, counter, 1, dispatch.PriorityHighest); !res.IsOK() {
		return fmt.Errorf("add alarm-log: %w", res.Err())
	}
	return nil
}

// run 启动所有传感器，直到 ctx 结束
func (s *simulator) run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < s.params.sensors; i++ {
		name := fmt.Sprintf("sensor-%02d", i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.sense(ctx, name)
		}()
	}
	wg.Wait()
}

// sense 单个传感器：按间隔发布随机游走读数
func (s *simulator) sense(ctx context.Context, name string) {
	ticker := s.clock.Ticker(s.params.interval)
	defer ticker.Stop()

	d := s.eng.Dispatcher()
	value := s.params.threshold / 2
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			value += rand.NormFloat64() * s.params.threshold / 10
			res := dispatch.PublishContext(ctx, d, Reading{Sensor: name, Value: value, At: now})
			switch res {
			case dispatch.OK:
			case dispatch.ErrorStopping:
				return
			default:
				logger.Debug("读数被拒绝", "sensor", name, "result", res)
			}
		}
	}
}

// report 输出聚合结果，只能在 Engine 停止后调用
func (s *simulator) report() []string {
	merged := s.records.merge()
	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names)+1)
	for _, name := range names {
		sm := merged[name]
		lines = append(lines, fmt.Sprintf("%-10s n=%-6d min=%8.2f max=%8.2f mean=%8.2f",
			name, sm.Count, sm.Min, sm.Max, sm.mean()))
	}
	lines = append(lines, fmt.Sprintf("alarms=%d", s.alarms.total()))
	return lines
}
