package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-dispatch/pkg/types"
)

type staticSource []types.HandlingInfo

func (s staticSource) Handlings() []types.HandlingInfo { return s }

func gather(t *testing.T, c prometheus.Collector) map[string]*dto.MetricFamily {
	t.Helper()
	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(c))

	families, err := reg.Gather()
	require.NoError(t, err)

	out := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		out[f.GetName()] = f
	}
	return out
}

// TestCollector_Counters 测试计数器导出
func TestCollector_Counters(t *testing.T) {
	counter := NewCounter()
	counter.LogPublished(keyTick)
	counter.LogPublished(keyTick)
	counter.LogHandled(keyTick, 500*time.Millisecond)

	families := gather(t, NewCollector(counter, nil))

	published := families["dispatch_handling_published_total"]
	require.NotNil(t, published)
	require.Len(t, published.GetMetric(), 1)
	m := published.GetMetric()[0]
	assert.Equal(t, 2.0, m.GetCounter().GetValue())

	labels := map[string]string{}
	for _, lp := range m.GetLabel() {
		labels[lp.GetName()] = lp.GetValue()
	}
	assert.Equal(t, "main.Tick", labels["event_type"])
	assert.Equal(t, "printer", labels["handling"])

	seconds := families["dispatch_handling_handle_seconds_total"]
	require.NotNil(t, seconds)
	assert.InDelta(t, 0.5, seconds.GetMetric()[0].GetCounter().GetValue(), 1e-9)

	assert.NotContains(t, families, "dispatch_handling_queue_occupied", "无 source 时不导出队列指标")
}

// TestCollector_Source 测试队列与状态指标
func TestCollector_Source(t *testing.T) {
	source := staticSource{{
		ID:        "printer",
		EventType: "main.Tick",
		Workers:   3,
		State:     types.HandlingRunning,
		Capacity:  16,
		Occupied:  5,
	}}

	families := gather(t, NewCollector(Nop(), source))

	assert.Equal(t, 5.0, families["dispatch_handling_queue_occupied"].GetMetric()[0].GetGauge().GetValue())
	assert.Equal(t, 16.0, families["dispatch_handling_queue_capacity"].GetMetric()[0].GetGauge().GetValue())
	assert.Equal(t, 3.0, families["dispatch_handling_workers"].GetMetric()[0].GetGauge().GetValue())

	state := families["dispatch_handling_state"]
	require.NotNil(t, state)
	require.Len(t, state.GetMetric(), 4)
	for _, m := range state.GetMetric() {
		var name string
		for _, lp := range m.GetLabel() {
			if lp.GetName() == "state" {
				name = lp.GetValue()
			}
		}
		want := 0.0
		if name == "running" {
			want = 1
		}
		assert.Equal(t, want, m.GetGauge().GetValue(), name)
	}
}
