// Package types 定义 go-dispatch 的公共数据结构
//
// 这是整个系统的最底层包，不依赖任何其他内部包。
// 所有类型都是纯值类型，用于在各模块间传递数据。
//
// # 文件组织
//
//   - ids.go      - HandlingID
//   - enums.go    - Priority, HandlingState, PushPolicy
//   - result.go   - Result 结果码
//   - errors.go   - 公共错误定义（与 Result 一一对应）
//   - handling.go - HandlingInfo 快照
//   - stats.go    - HandlingStats 统计快照
//
// # 结果码与错误
//
// 热路径（AddHandling/Publish/Stop）返回 Result 枚举而非 error，
// 需要与 errors.Is 配合时可使用 Result.Err()：
//
//	if r := dispatcher.Publish(d, Tick{Value: 1}); !r.IsOK() {
//	    if errors.Is(r.Err(), types.ErrPublishing) {
//	        // 所有目标队列均已满
//	    }
//	}
package types
