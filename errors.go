package dispatch

import (
	"errors"

	"github.com/dep2p/go-dispatch/pkg/types"
)

// 公共错误定义
var (
	// ────────────────────────────────────────────────────────────────────────
	// Engine 生命周期错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrNotStarted Engine 未启动
	ErrNotStarted = errors.New("engine not started")

	// ErrAlreadyStarted Engine 已启动
	ErrAlreadyStarted = errors.New("engine already started")

	// ErrEngineClosed Engine 已关闭
	ErrEngineClosed = errors.New("engine closed")

	// ────────────────────────────────────────────────────────────────────────
	// 结果码对应错误（与 Result.Err() 相同，便于 errors.Is）
	// ────────────────────────────────────────────────────────────────────────

	ErrHandlingExists   = types.ErrHandlingExists
	ErrHandlingNotFound = types.ErrHandlingNotFound
	ErrHandlerUsed      = types.ErrHandlerUsed
	ErrZeroAmount       = types.ErrZeroAmount
	ErrPublishing       = types.ErrPublishing
	ErrAddingHandler    = types.ErrAddingHandler
	ErrStopping         = types.ErrStopping
	ErrUnknown          = types.ErrUnknown
)
