package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-dispatch"
	"github.com/dep2p/go-dispatch/config"
)

func newTestEngine(t *testing.T) *dispatch.Engine {
	t.Helper()
	cfg := config.NewConfig()
	cfg.Handling.Workers = 3
	cfg.Handling.PollInterval = config.Duration(5 * time.Millisecond)

	eng, err := dispatch.New(buildOptions(cfg, false, "")...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })
	return eng
}

func TestSummary(t *testing.T) {
	var s summary
	assert.Zero(t, s.mean())

	for _, v := range []float64{3, -1, 4} {
		s.add(v)
	}
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, -1.0, s.Min)
	assert.Equal(t, 4.0, s.Max)
	assert.Equal(t, 2.0, s.mean())
}

func TestRecorderSink_Merge(t *testing.T) {
	sink := &recorderSink{}
	a := sink.factory()
	b := sink.factory()
	require.NotSame(t, a, b)

	a.Handle(Reading{Sensor: "s1", Value: 1})
	a.Handle(Reading{Sensor: "s2", Value: 10})
	b.Handle(Reading{Sensor: "s1", Value: 5})

	merged := sink.merge()
	require.Len(t, merged, 2)
	assert.Equal(t, summary{Count: 2, Min: 1, Max: 5, Sum: 6}, merged["s1"])
	assert.Equal(t, summary{Count: 1, Min: 10, Max: 10, Sum: 10}, merged["s2"])
}

func TestSimulator_EndToEnd(t *testing.T) {
	eng := newTestEngine(t)
	params := simParams{sensors: 2, interval: time.Millisecond, threshold: 50, maxAlarms: 2}

	sim, err := newSimulator(eng, params, clock.NewMock())
	require.NoError(t, err)
	require.Len(t, eng.Handlings(), 4) // recorder, threshold, alarm-log, exit

	require.NoError(t, eng.Start(context.Background()))

	d := eng.Dispatcher()
	for _, v := range []float64{10, 60, 20, 70} {
		require.Equal(t, dispatch.OK, dispatch.Publish(d, Reading{Sensor: "s1", Value: v}))
	}

	// 第二个告警触发 Exit
	select {
	case <-eng.ExitRequested():
	case <-time.After(2 * time.Second):
		t.Fatal("exit not requested")
	}
	assert.Equal(t, "2 alarms", eng.ExitReason())

	require.NoError(t, eng.Stop(context.Background()))

	lines := sim.report()
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "s1"))
	assert.Contains(t, lines[0], "n=4")
	assert.Equal(t, "alarms=2", lines[1])
}

func TestSimulator_Run(t *testing.T) {
	eng := newTestEngine(t)
	clk := clock.NewMock()
	params := simParams{sensors: 3, interval: time.Second, threshold: 1e9}

	sim, err := newSimulator(eng, params, clk)
	require.NoError(t, err)
	require.NoError(t, eng.Start(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		sim.run(ctx)
	}()

	require.Eventually(t, func() bool {
		clk.Add(time.Second)
		for key, st := range eng.Stats() {
			if key.ID == "recorder" && st.Published >= 6 {
				return true
			}
		}
		return false
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	<-done
	require.NoError(t, eng.Stop(context.Background()))

	merged := sim.records.merge()
	assert.NotEmpty(t, merged)
	for name := range merged {
		assert.True(t, strings.HasPrefix(name, "sensor-"), name)
	}
}

func TestSimParams_Validate(t *testing.T) {
	ok := simParams{sensors: 1, interval: time.Second}
	assert.NoError(t, ok.validate())

	bad := simParams{sensors: 0, interval: 0, maxAlarms: -1, duration: -1}
	err := bad.validate()
	require.Error(t, err)
	for _, want := range []string{"sensors", "interval", "max-alarms", "duration"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestApplySimEnv(t *testing.T) {
	env := map[string]string{
		envSensors:   "7",
		envInterval:  "250ms",
		envThreshold: "42.5",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	var p simParams
	require.NoError(t, applySimEnv(&p, lookup))
	assert.Equal(t, simParams{sensors: 7, interval: 250 * time.Millisecond, threshold: 42.5}, p)

	env[envSensors] = "x"
	env[envInterval] = "soon"
	err := applySimEnv(&p, lookup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), envSensors)
	assert.Contains(t, err.Error(), envInterval)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"handling": {"workers": 2}}`), 0o600))
	t.Setenv(config.EnvQueueCapacity, "16")

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Handling.Workers)
	assert.Equal(t, 16, cfg.Handling.QueueCapacity)

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestBuildOptions_Prometheus(t *testing.T) {
	eng, err := dispatch.New(buildOptions(config.NewConfig(), false, ":0")...)
	require.NoError(t, err)
	defer eng.Close()

	assert.NotNil(t, eng.Gatherer())
}
