// Package lib 包含基础设施工具库
//
// 本目录包含与调度语义无关的通用工具库：
//
//   - log: 日志封装（子系统 logger、级别配置）
//
// # 与 pkg/ 其他目录的关系
//
// pkg/ 目录包含三类内容：
//
//   - interfaces/: 组件公共接口（Queue、Handler、Logger）
//   - types/: 公共类型定义（Result、Priority、HandlingInfo 等）
//   - lib/: 基础设施工具库（本目录）
//
// # 使用示例
//
//	import "github.com/dep2p/go-dispatch/pkg/lib/log"
//
//	var logger = log.Logger("myapp/sensors")
//	logger.Info("传感器已上线", "id", id)
package lib
