package dispatcher

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-dispatch/internal/core/lifecycle"
	"github.com/dep2p/go-dispatch/internal/core/metrics"
	"github.com/dep2p/go-dispatch/pkg/lib/log"
	"github.com/dep2p/go-dispatch/pkg/types"
)

var logger = log.Logger("core/dispatcher")

// noCopy 配合 go vet copylocks 检查，禁止复制 Dispatcher
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Dispatcher 按事件类型路由的调度器
type Dispatcher struct {
	noCopy noCopy

	id   string
	opts Options

	// mu 串行化注册表修改与生命周期操作
	mu  sync.Mutex
	reg atomic.Pointer[registry]

	// inUse 已绑定到 Handling 的处理器实例（受 mu 保护）
	inUse map[uintptr]types.HandlingKey

	// queues 已绑定到 Handling 的队列实例（受 mu 保护）
	queues map[uintptr]types.HandlingKey

	tracker  *lifecycle.Tracker
	stopping atomic.Bool
}

// 确保 Dispatcher 可作为 Prometheus Collector 的数据源
var _ metrics.HandlingSource = (*Dispatcher)(nil)

// New 创建 Dispatcher
//
// 新建的 Dispatcher 处于 Created 状态：可以注册 Handling 和发布事件，
// 事件在 Start 之后才会被处理。
func New(opts ...Option) *Dispatcher {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	id := uuid.NewString()
	d := &Dispatcher{
		id:      id,
		opts:    o,
		inUse:   make(map[uintptr]types.HandlingKey),
		queues:  make(map[uintptr]types.HandlingKey),
		tracker: lifecycle.NewTracker("dispatcher/" + log.TruncateID(id, 8)),
	}
	empty := registry{}
	d.reg.Store(&empty)

	logger.Debug("Dispatcher 已创建", "id", log.TruncateID(id, 8))
	return d
}

// ID 返回实例标识
func (d *Dispatcher) ID() string { return d.id }

// State 返回生命周期状态
func (d *Dispatcher) State() types.HandlingState { return d.tracker.State() }

// Reporter 返回指标记录器
func (d *Dispatcher) Reporter() metrics.Reporter { return d.opts.Reporter }

func (d *Dispatcher) snapshot() registry { return *d.reg.Load() }

// ============================================================================
//                              生命周期
// ============================================================================

// Start 启动所有已注册的 Handling
//
// 已运行时返回 OK；停止后返回 ERROR_STOPPING。
func (d *Dispatcher) Start() types.Result {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch d.tracker.State() {
	case types.HandlingRunning:
		return types.OK
	case types.HandlingStopping, types.HandlingStopped:
		logger.Warn("Dispatcher 已停止，无法启动", "id", log.TruncateID(d.id, 8))
		return types.ErrorStopping
	}

	var errs error
	for _, h := range d.snapshot().all() {
		errs = multierr.Append(errs, h.Start())
	}
	if err := d.tracker.Transition(types.HandlingRunning); err != nil {
		errs = multierr.Append(errs, err)
	}
	if errs != nil {
		logger.Error("Dispatcher 启动失败", "id", log.TruncateID(d.id, 8), "err", errs)
		return types.ErrorUnknown
	}

	logger.Info("Dispatcher 已启动", "id", log.TruncateID(d.id, 8), "handlings", d.HandlingCount())
	return types.OK
}

// Stop 停止所有 Handling，使用 StopTimeout 限制等待时间
func (d *Dispatcher) Stop() types.Result {
	return d.StopContext(context.Background())
}

// StopContext 停止所有 Handling
//
// 新的发布立即被拒绝。各 Handling 并行停止，等待受 ctx 和 StopTimeout 限制。
// 全部工作者退出返回 OK；任一超时返回 ERROR_STOPPING。可重复调用。
func (d *Dispatcher) StopContext(ctx context.Context) types.Result {
	if d.opts.StopTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.opts.StopTimeout)
		defer cancel()
	}

	d.mu.Lock()
	first := !d.stopping.Swap(true)
	if first && d.tracker.State() == types.HandlingRunning {
		if err := d.tracker.Transition(types.HandlingStopping); err != nil {
			logger.Error("状态迁移失败", "err", err)
		}
	}
	handlings := d.snapshot().all()
	d.mu.Unlock()

	if first {
		logger.Info("Dispatcher 正在停止", "id", log.TruncateID(d.id, 8), "handlings", len(handlings))
	}

	var (
		errMu sync.Mutex
		errs  error
		g     errgroup.Group
	)
	for _, h := range handlings {
		g.Go(func() error {
			err := h.Stop(ctx)
			if err != nil {
				errMu.Lock()
				errs = multierr.Append(errs, err)
				errMu.Unlock()
			}
			return err
		})
	}
	_ = g.Wait()

	if errs != nil {
		for _, err := range multierr.Errors(errs) {
			logger.Warn("Handling 停止超时", "err", err)
		}
		return types.ErrorStopping
	}

	d.mu.Lock()
	if d.tracker.State() != types.HandlingStopped {
		if err := d.tracker.Transition(types.HandlingStopped); err != nil && !errors.Is(err, lifecycle.ErrIllegalTransition) {
			logger.Error("状态迁移失败", "err", err)
		}
		logger.Info("Dispatcher 已停止", "id", log.TruncateID(d.id, 8))
	}
	d.mu.Unlock()
	return types.OK
}

// Close 停止 Dispatcher 并等待所有工作者退出
func (d *Dispatcher) Close() error {
	return d.Stop().Err()
}

// Stopping 是否已开始停止
func (d *Dispatcher) Stopping() bool {
	return d.stopping.Load()
}

// Done 返回 Dispatcher 到达 Stopped 时关闭的 channel
func (d *Dispatcher) Done() <-chan struct{} {
	return d.tracker.Done()
}

// ============================================================================
//                              查询
// ============================================================================

// Handlings 返回所有 Handling 的快照
//
// 按事件类型名排序，同一类型内按优先级从高到低。
func (d *Dispatcher) Handlings() []types.HandlingInfo {
	reg := d.snapshot()

	nodes := make([]*node, 0, len(reg))
	for _, n := range reg {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].typ.String() < nodes[j].typ.String()
	})

	var out []types.HandlingInfo
	for _, n := range nodes {
		for _, h := range n.handlings {
			out = append(out, h.Info())
		}
	}
	return out
}

// HandlingCount 返回已注册的 Handling 数量
func (d *Dispatcher) HandlingCount() int {
	n := 0
	for _, node := range d.snapshot() {
		n += len(node.handlings)
	}
	return n
}
