package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dep2p/go-dispatch/pkg/types"
)

const namespace = "dispatch"

// HandlingSource 提供 Handling 快照（由 Dispatcher 实现）
type HandlingSource interface {
	Handlings() []types.HandlingInfo
}

// Collector 将 Reporter 统计和队列状态导出为 Prometheus 指标
//
// 每次抓取时读取快照，不持有任何 Prometheus 内部状态。
type Collector struct {
	reporter Reporter
	source   HandlingSource

	published *prometheus.Desc
	rejected  *prometheus.Desc
	handled   *prometheus.Desc
	panicked  *prometheus.Desc
	discarded *prometheus.Desc
	seconds   *prometheus.Desc
	occupied  *prometheus.Desc
	capacity  *prometheus.Desc
	workers   *prometheus.Desc
	state     *prometheus.Desc
}

// 确保 Collector 实现 prometheus.Collector 接口
var _ prometheus.Collector = (*Collector)(nil)

// NewCollector 创建 Collector
//
// source 可以为 nil，此时只导出计数器。
func NewCollector(reporter Reporter, source HandlingSource) *Collector {
	labels := []string{"event_type", "handling"}
	desc := func(name, help string, extra ...string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "handling", name), help, append(labels, extra...), nil)
	}

	return &Collector{
		reporter:  reporter,
		source:    source,
		published: desc("published_total", "Events accepted into the handling queue."),
		rejected:  desc("rejected_total", "Events rejected by the handling (queue full, rate limited or stopped)."),
		handled:   desc("handled_total", "Events consumed by a handler."),
		panicked:  desc("panicked_total", "Handler invocations that panicked."),
		discarded: desc("discarded_total", "Queued events discarded on stop."),
		seconds:   desc("handle_seconds_total", "Cumulative handler execution time."),
		occupied:  desc("queue_occupied", "Events waiting in the queue."),
		capacity:  desc("queue_capacity", "Queue capacity."),
		workers:   desc("workers", "Worker goroutines configured for the handling."),
		state:     desc("state", "Handling lifecycle state (1 for the current state).", "state"),
	}
}

// Describe 实现 prometheus.Collector 接口
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.published
	ch <- c.rejected
	ch <- c.handled
	ch <- c.panicked
	ch <- c.discarded
	ch <- c.seconds
	ch <- c.occupied
	ch <- c.capacity
	ch <- c.workers
	ch <- c.state
}

// Collect 实现 prometheus.Collector 接口
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for key, s := range c.reporter.GetStatsByHandling() {
		lv := []string{key.EventType, string(key.ID)}
		ch <- prometheus.MustNewConstMetric(c.published, prometheus.CounterValue, float64(s.Published), lv...)
		ch <- prometheus.MustNewConstMetric(c.rejected, prometheus.CounterValue, float64(s.Rejected), lv...)
		ch <- prometheus.MustNewConstMetric(c.handled, prometheus.CounterValue, float64(s.Handled), lv...)
		ch <- prometheus.MustNewConstMetric(c.panicked, prometheus.CounterValue, float64(s.Panicked), lv...)
		ch <- prometheus.MustNewConstMetric(c.discarded, prometheus.CounterValue, float64(s.Discarded), lv...)
		ch <- prometheus.MustNewConstMetric(c.seconds, prometheus.CounterValue, s.TotalTime.Seconds(), lv...)
	}

	if c.source == nil {
		return
	}
	for _, info := range c.source.Handlings() {
		lv := []string{info.EventType, string(info.ID)}
		ch <- prometheus.MustNewConstMetric(c.occupied, prometheus.GaugeValue, float64(info.Occupied), lv...)
		ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(info.Capacity), lv...)
		ch <- prometheus.MustNewConstMetric(c.workers, prometheus.GaugeValue, float64(info.Workers), lv...)
		for s := types.HandlingCreated; s <= types.HandlingStopped; s++ {
			v := 0.0
			if s == info.State {
				v = 1
			}
			ch <- prometheus.MustNewConstMetric(c.state, prometheus.GaugeValue, v, append(lv, s.String())...)
		}
	}
}
