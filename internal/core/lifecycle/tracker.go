// Package lifecycle 提供 Handling/Dispatcher 生命周期状态机
//
// 状态定义（types.HandlingState）：
//
//	Created → Running → Stopping → Stopped
//	Created → Stopped（从未启动）
//
// 本模块的核心职责：
//  1. 校验状态迁移合法性，到达 Stopped 后拒绝一切迁移
//  2. 为每个状态提供完成信号，支持 WaitFor 阻塞等待
//  3. 通知状态变更回调
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dep2p/go-dispatch/pkg/lib/log"
	"github.com/dep2p/go-dispatch/pkg/types"
)

var logger = log.Logger("core/lifecycle")

// ErrIllegalTransition 非法状态迁移
var ErrIllegalTransition = errors.New("illegal state transition")

// legalTransitions 合法迁移表
var legalTransitions = map[types.HandlingState][]types.HandlingState{
	types.HandlingCreated:  {types.HandlingRunning, types.HandlingStopped},
	types.HandlingRunning:  {types.HandlingStopping},
	types.HandlingStopping: {types.HandlingStopped},
}

// Tracker 生命周期状态追踪器
type Tracker struct {
	mu sync.RWMutex

	// name 用于日志（Handling ID 或 Dispatcher ID）
	name string

	state types.HandlingState

	// 状态信号 map
	// key: 状态, value: 到达该状态（或越过该状态）后关闭的 channel
	signals map[types.HandlingState]chan struct{}

	onChange []func(old, new types.HandlingState)
}

// NewTracker 创建处于 Created 状态的追踪器
func NewTracker(name string) *Tracker {
	t := &Tracker{
		name:    name,
		state:   types.HandlingCreated,
		signals: make(map[types.HandlingState]chan struct{}),
	}
	for s := types.HandlingCreated; s <= types.HandlingStopped; s++ {
		t.signals[s] = make(chan struct{})
	}
	close(t.signals[types.HandlingCreated])
	return t
}

// State 返回当前状态
func (t *Tracker) State() types.HandlingState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

// Transition 迁移到目标状态
//
// 会同时完成被跳过的中间状态的信号（Created → Stopped 时
// Running/Stopping 的等待者也会被释放）。
func (t *Tracker) Transition(target types.HandlingState) error {
	t.mu.Lock()

	old := t.state
	if !isLegal(old, target) {
		t.mu.Unlock()
		return fmt.Errorf("%w: %s → %s (%s)", ErrIllegalTransition, old, target, t.name)
	}

	for s := old + 1; s <= target; s++ {
		close(t.signals[s])
	}
	t.state = target

	callbacks := make([]func(old, new types.HandlingState), len(t.onChange))
	copy(callbacks, t.onChange)
	t.mu.Unlock()

	logger.Trace("生命周期状态迁移", "name", t.name, "from", old.String(), "to", target.String())

	for _, cb := range callbacks {
		cb(old, target)
	}
	return nil
}

// WaitFor 等待到达（或越过）指定状态
func (t *Tracker) WaitFor(ctx context.Context, state types.HandlingState) error {
	t.mu.RLock()
	ch, ok := t.signals[state]
	t.mu.RUnlock()

	if !ok {
		return fmt.Errorf("invalid state: %d", state)
	}

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Reached 检查是否已到达（或越过）指定状态
func (t *Tracker) Reached(state types.HandlingState) bool {
	t.mu.RLock()
	ch, ok := t.signals[state]
	t.mu.RUnlock()

	if !ok {
		return false
	}
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

// Done 返回到达 Stopped 时关闭的 channel
func (t *Tracker) Done() <-chan struct{} {
	return t.signals[types.HandlingStopped]
}

// OnChange 注册状态变更回调
//
// 回调在迁移完成、锁释放后同步调用。
func (t *Tracker) OnChange(cb func(old, new types.HandlingState)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onChange = append(t.onChange, cb)
}

func isLegal(from, to types.HandlingState) bool {
	for _, s := range legalTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
