package dispatcher

import (
	"reflect"

	"github.com/dep2p/go-dispatch/internal/core/handling"
	"github.com/dep2p/go-dispatch/pkg/types"
)

// node 事件类型节点
//
// 创建后不再修改；handlings 按优先级从高到低排列，同优先级按注册顺序。
type node struct {
	typ       reflect.Type
	handlings []handling.Runner
}

// find 按 ID 查找 Handling
func (n *node) find(id types.HandlingID) (handling.Runner, int) {
	for i, h := range n.handlings {
		if h.ID() == id {
			return h, i
		}
	}
	return nil, -1
}

// with 返回插入 h 后的新节点
func (n *node) with(h handling.Runner) *node {
	out := &node{typ: n.typ, handlings: make([]handling.Runner, 0, len(n.handlings)+1)}
	inserted := false
	for _, cur := range n.handlings {
		if !inserted && h.Priority() > cur.Priority() {
			out.handlings = append(out.handlings, h)
			inserted = true
		}
		out.handlings = append(out.handlings, cur)
	}
	if !inserted {
		out.handlings = append(out.handlings, h)
	}
	return out
}

// without 返回移除第 i 个 Handling 后的新节点
func (n *node) without(i int) *node {
	out := &node{typ: n.typ, handlings: make([]handling.Runner, 0, len(n.handlings)-1)}
	out.handlings = append(out.handlings, n.handlings[:i]...)
	out.handlings = append(out.handlings, n.handlings[i+1:]...)
	return out
}

// registry 不可变注册表
type registry map[reflect.Type]*node

// clone 复制注册表（节点共享，节点本身不可变）
func (r registry) clone() registry {
	out := make(registry, len(r)+1)
	for k, v := range r {
		out[k] = v
	}
	return out
}

// all 返回所有 Handling
func (r registry) all() []handling.Runner {
	var out []handling.Runner
	for _, n := range r {
		out = append(out, n.handlings...)
	}
	return out
}
