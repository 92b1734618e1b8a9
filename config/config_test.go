package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-dispatch/pkg/types"
)

// TestNewConfig 测试创建默认配置
func TestNewConfig(t *testing.T) {
	cfg := NewConfig()
	require.NotNil(t, cfg)

	// 验证默认配置有效
	assert.NoError(t, cfg.Validate())

	assert.Equal(t, 5*time.Second, cfg.Dispatcher.StopTimeout.Duration())
	assert.Equal(t, 1024, cfg.Handling.QueueCapacity)
	assert.Equal(t, 1, cfg.Handling.Workers)
	assert.Equal(t, types.PriorityNormal, cfg.Handling.Priority)
	assert.Equal(t, types.PushReject, cfg.Handling.PushPolicy)
	assert.True(t, cfg.Handling.DrainOnStop)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
}

// TestConfig_Validate_CollectsAll 测试校验返回全部错误
func TestConfig_Validate_CollectsAll(t *testing.T) {
	cfg := NewConfig()
	cfg.Handling.QueueCapacity = 0
	cfg.Handling.Workers = -1
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "queue_capacity")
	assert.Contains(t, err.Error(), "workers")
	assert.Contains(t, err.Error(), "log.format")
}

// TestHandlingConfig 测试 Handling 配置
func TestHandlingConfig(t *testing.T) {
	t.Run("InvalidPriority", func(t *testing.T) {
		cfg := DefaultHandlingConfig()
		cfg.Priority = types.Priority(42)
		assert.Error(t, cfg.Validate())
	})

	t.Run("InvalidPushPolicy", func(t *testing.T) {
		cfg := DefaultHandlingConfig()
		cfg.PushPolicy = types.PushPolicy(9)
		assert.Error(t, cfg.Validate())
	})

	t.Run("RateBurstRequired", func(t *testing.T) {
		cfg := DefaultHandlingConfig()
		cfg.RateLimit = 10
		cfg.RateBurst = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("NegativeRate", func(t *testing.T) {
		cfg := DefaultHandlingConfig()
		cfg.RateLimit = -1
		assert.Error(t, cfg.Validate())
	})
}

// TestLogConfig 测试日志配置
func TestLogConfig(t *testing.T) {
	cfg := DefaultLogConfig()
	assert.NoError(t, cfg.Validate())

	cfg.Level = "core/handling=debug, trace"
	assert.NoError(t, cfg.Validate())

	cfg.Level = "core/handling=loud"
	assert.Error(t, cfg.Validate())
}

// TestDispatcherConfig 测试调度器配置
func TestDispatcherConfig(t *testing.T) {
	cfg := DefaultDispatcherConfig()
	assert.NoError(t, cfg.Validate())

	cfg.StopTimeout = 0
	assert.NoError(t, cfg.Validate(), "0 表示无限等待")

	cfg.StopTimeout = Duration(-time.Second)
	assert.Error(t, cfg.Validate())
}

// TestValidateAndFix 测试自动修复
func TestValidateAndFix(t *testing.T) {
	t.Run("Nil", func(t *testing.T) {
		cfg, err := ValidateAndFix(nil)
		require.NoError(t, err)
		assert.Equal(t, NewConfig(), cfg)
	})

	t.Run("Fixable", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Handling.QueueCapacity = 0
		cfg.Handling.Workers = 0
		cfg.Handling.PollInterval = 0
		cfg.Handling.RateLimit = 5
		cfg.Handling.RateBurst = 0
		cfg.Dispatcher.StopTimeout = Duration(-1)
		cfg.Log.Format = ""

		fixed, err := ValidateAndFix(cfg)
		require.NoError(t, err)
		assert.Equal(t, 1024, fixed.Handling.QueueCapacity)
		assert.Equal(t, 1, fixed.Handling.Workers)
		assert.Equal(t, 100*time.Millisecond, fixed.Handling.PollInterval.Duration())
		assert.Equal(t, 1, fixed.Handling.RateBurst)
		assert.Equal(t, 5*time.Second, fixed.Dispatcher.StopTimeout.Duration())
		assert.Equal(t, "text", fixed.Log.Format)
	})

	t.Run("Unfixable", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Handling.Priority = types.Priority(-3)
		_, err := ValidateAndFix(cfg)
		assert.Error(t, err)
	})
}

// TestMustValidate 测试 MustValidate
func TestMustValidate(t *testing.T) {
	assert.NotPanics(t, func() { MustValidate(NewConfig()) })
	assert.Panics(t, func() { MustValidate(nil) })
}

// TestFromJSON 测试 JSON 加载
func TestFromJSON(t *testing.T) {
	data := []byte(`{
		"dispatcher": {"stop_timeout": "2s", "ignore_publish_after_stop": true},
		"handling": {"queue_capacity": 64, "workers": 4, "priority": "high", "push_policy": "block", "poll_interval": 50000000},
		"log": {"level": "debug", "format": "json"}
	}`)

	cfg, err := FromJSON(data)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.Dispatcher.StopTimeout.Duration())
	assert.True(t, cfg.Dispatcher.IgnorePublishAfterStop)
	assert.Equal(t, 64, cfg.Handling.QueueCapacity)
	assert.Equal(t, 4, cfg.Handling.Workers)
	assert.Equal(t, types.PriorityHigh, cfg.Handling.Priority)
	assert.Equal(t, types.PushBlock, cfg.Handling.PushPolicy)
	assert.Equal(t, 50*time.Millisecond, cfg.Handling.PollInterval.Duration())
	assert.Equal(t, "json", cfg.Log.Format)

	// 未出现的字段保留默认值
	assert.True(t, cfg.Handling.DrainOnStop)
	assert.True(t, cfg.Metrics.Enabled)

	_, err = FromJSON([]byte(`{"handling": {"priority": "urgent"}}`))
	assert.Error(t, err)

	_, err = FromJSON([]byte(`{"dispatcher": {"stop_timeout": true}}`))
	assert.Error(t, err)
}

// TestToJSON_RoundTrip 测试序列化后可重新加载
func TestToJSON_RoundTrip(t *testing.T) {
	cfg := NewConfig()
	cfg.Handling.Priority = types.PriorityLow
	cfg.Handling.PushPolicy = types.PushBlock

	data, err := ToJSON(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"stop_timeout": "5s"`)
	assert.Contains(t, string(data), `"priority": "low"`)

	loaded, err := FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

// TestLoadFile 测试文件加载
func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(good, []byte(`{"handling": {"workers": 3}}`), 0o600))
	cfg, err := LoadFile(good)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Handling.Workers)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"handling": {"workers": 0}}`), 0o600))
	_, err = LoadFile(bad)
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

// TestCloneConfig 测试克隆互不影响
func TestCloneConfig(t *testing.T) {
	assert.Nil(t, CloneConfig(nil))

	cfg := NewConfig()
	cloned := CloneConfig(cfg)
	cloned.Handling.Workers = 8
	assert.Equal(t, 1, cfg.Handling.Workers)
}

// TestApplyEnv 测试环境变量覆盖
func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvStopTimeout:    "750ms",
		EnvQueueCapacity:  "16",
		EnvWorkers:        "2",
		EnvPriority:       "highest",
		EnvPushPolicy:     "block",
		EnvDrainOnStop:    "false",
		EnvRateLimit:      "12.5",
		EnvMetricsEnabled: "0",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := NewConfig()
	require.NoError(t, applyEnv(cfg, lookup))

	assert.Equal(t, 750*time.Millisecond, cfg.Dispatcher.StopTimeout.Duration())
	assert.Equal(t, 16, cfg.Handling.QueueCapacity)
	assert.Equal(t, 2, cfg.Handling.Workers)
	assert.Equal(t, types.PriorityHighest, cfg.Handling.Priority)
	assert.Equal(t, types.PushBlock, cfg.Handling.PushPolicy)
	assert.False(t, cfg.Handling.DrainOnStop)
	assert.Equal(t, 12.5, cfg.Handling.RateLimit)
	assert.False(t, cfg.Metrics.Enabled)
}

// TestApplyEnv_Errors 测试错误全部收集
func TestApplyEnv_Errors(t *testing.T) {
	t.Setenv(EnvWorkers, "many")
	t.Setenv(EnvStopTimeout, "soon")

	cfg := NewConfig()
	err := ApplyEnv(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvWorkers)
	assert.Contains(t, err.Error(), EnvStopTimeout)
	assert.Equal(t, 1, cfg.Handling.Workers, "解析失败时保留原值")
}

// TestDuration 测试 Duration 解析
func TestDuration(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("1m30s")))
	assert.Equal(t, 90*time.Second, d.Duration())

	require.NoError(t, d.UnmarshalText([]byte("1000")))
	assert.Equal(t, time.Microsecond, d.Duration())

	assert.Error(t, d.UnmarshalText([]byte("later")))
	assert.Equal(t, "1µs", d.String())
}
