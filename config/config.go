// Package config 提供统一的配置管理
//
// 本包采用混合配置模式：
//   - 主 Config 结构体嵌入所有子配置
//   - 每个子配置在独立文件中定义
//   - 支持从 JSON 加载和保存配置
//   - 支持 DISPATCH_ 前缀的环境变量覆盖
//
// 使用示例：
//
//	// 创建默认配置
//	cfg := config.NewConfig()
//	cfg.Handling.Workers = 4
//	cfg.Dispatcher.StopTimeout = config.Duration(2 * time.Second)
//
//	// 从 JSON 加载
//	cfg, err := config.FromJSON(data)
//
//	// 环境变量覆盖
//	err = config.ApplyEnv(cfg)
package config

// Config 是 go-dispatch 的完整配置结构
//
// 配置按照功能模块组织：
//   - Dispatcher: 停止超时、停止后发布行为
//   - Handling: 新建 Handling 的默认参数
//   - Metrics: 指标收集
//   - Log: 日志输出
type Config struct {
	// Dispatcher 调度器配置
	Dispatcher DispatcherConfig `json:"dispatcher"`

	// Handling Handling 默认配置
	Handling HandlingConfig `json:"handling"`

	// Metrics 指标配置
	Metrics MetricsConfig `json:"metrics"`

	// Log 日志配置
	Log LogConfig `json:"log"`
}

// NewConfig 创建默认配置
//
// 返回的配置使用所有组件的默认值，适用于大多数场景。
func NewConfig() *Config {
	return &Config{
		Dispatcher: DefaultDispatcherConfig(),
		Handling:   DefaultHandlingConfig(),
		Metrics:    DefaultMetricsConfig(),
		Log:        DefaultLogConfig(),
	}
}

// Validate 验证配置的有效性
//
// 检查所有子配置，返回合并后的全部错误。
// 建议在使用配置前调用此方法。
func (c *Config) Validate() error {
	return combine(
		c.Dispatcher.Validate(),
		c.Handling.Validate(),
		c.Metrics.Validate(),
		c.Log.Validate(),
	)
}
