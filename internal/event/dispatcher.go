// Copyright 2021 ecodeclub
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package event 提供同步的发布订阅原语。
// 每个有状态的实体持有一个 Dispatcher，事件类型集合在构造时声明，
// 监听未声明的事件类型被视为编程错误。
package event

import (
	"fmt"
	"strings"
	"sync"
)

// Listener 事件回调
type Listener func(e *Event)

// Event 一次事件投递的上下文
type Event struct {
	// Type 当前投递的事件类型
	Type string
	// Types 同一次 Fire 中的全部事件类型
	Types []string
	// Source 触发事件的 Dispatcher 的 owner
	Source any
	Args   []any
	// Origin 转发前的原始事件，未经转发时为 nil
	Origin *Event
}

// Arg 返回第 i 个参数，越界返回 nil
func (e *Event) Arg(i int) any {
	if i < 0 || i >= len(e.Args) {
		return nil
	}
	return e.Args[i]
}

// Root 沿 Origin 链返回最初的事件
func (e *Event) Root() *Event {
	cur := e
	for cur.Origin != nil {
		cur = cur.Origin
	}
	return cur
}

// Subscription 是 On 返回的订阅句柄
type Subscription struct {
	d         *Dispatcher
	typ       string
	ns        string
	l         Listener
	cancelled bool
}

// Type 返回订阅的事件类型，不含命名空间
func (s *Subscription) Type() string {
	return s.typ
}

// Cancel 取消订阅，重复调用无副作用
func (s *Subscription) Cancel() {
	if s == nil {
		return
	}
	s.d.remove(s)
}

// Dispatcher 同步事件分发器
type Dispatcher struct {
	owner    any
	mu       sync.Mutex
	declared map[string]struct{}
	subs     map[string][]*Subscription
	// forwards 按来源保存转发订阅，Unforward 时批量取消
	forwards map[*Dispatcher][]*Subscription
}

func NewDispatcher(owner any, types ...string) *Dispatcher {
	d := &Dispatcher{
		owner:    owner,
		declared: make(map[string]struct{}, len(types)),
		subs:     make(map[string][]*Subscription, len(types)),
		forwards: make(map[*Dispatcher][]*Subscription),
	}
	d.Declare(types...)
	return d
}

// Declare 追加合法的事件类型
func (d *Dispatcher) Declare(types ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, t := range types {
		d.declared[t] = struct{}{}
	}
}

// Declared 判断事件类型是否已声明
func (d *Dispatcher) Declared(typ string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.declared[typ]
	return ok
}

// Types 返回所有已声明的事件类型
func (d *Dispatcher) Types() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	res := make([]string, 0, len(d.declared))
	for t := range d.declared {
		res = append(res, t)
	}
	return res
}

func splitType(typ string) (string, string) {
	if i := strings.IndexByte(typ, '.'); i >= 0 {
		return typ[:i], typ[i+1:]
	}
	return typ, ""
}

// On 订阅事件。typ 可以带 ".namespace" 后缀。
// l 为 nil 时等价于 Off(typ)，返回 nil。
func (d *Dispatcher) On(typ string, l Listener) *Subscription {
	if l == nil {
		d.Off(typ)
		return nil
	}
	base, ns := splitType(typ)
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.declared[base]; !ok {
		panic(fmt.Sprintf("erank: 事件类型 %s 未声明", base))
	}
	s := &Subscription{d: d, typ: base, ns: ns, l: l}
	d.subs[base] = append(d.subs[base], s)
	return s
}

// OnAll 一次性订阅多个事件类型，任意一个未声明时不订阅任何类型
func (d *Dispatcher) OnAll(types []string, l Listener) []*Subscription {
	if l == nil {
		for _, t := range types {
			d.Off(t)
		}
		return nil
	}
	for _, t := range types {
		base, _ := splitType(t)
		if !d.Declared(base) {
			panic(fmt.Sprintf("erank: 事件类型 %s 未声明", base))
		}
	}
	res := make([]*Subscription, 0, len(types))
	for _, t := range types {
		res = append(res, d.On(t, l))
	}
	return res
}

// Off 取消订阅。
// "type" 取消该类型全部订阅，"type.ns" 只取消该命名空间下的订阅，
// ".ns" 取消所有类型中该命名空间下的订阅。
func (d *Dispatcher) Off(typ string) {
	base, ns := splitType(typ)
	d.mu.Lock()
	defer d.mu.Unlock()
	for t, subs := range d.subs {
		if base != "" && t != base {
			continue
		}
		kept := subs[:0:0]
		for _, s := range subs {
			if ns == "" || s.ns == ns {
				s.cancelled = true
				continue
			}
			kept = append(kept, s)
		}
		d.subs[t] = kept
	}
}

func (d *Dispatcher) remove(s *Subscription) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if s.cancelled {
		return
	}
	s.cancelled = true
	subs := d.subs[s.typ]
	for i, c := range subs {
		if c == s {
			kept := make([]*Subscription, 0, len(subs)-1)
			kept = append(kept, subs[:i]...)
			d.subs[s.typ] = append(kept, subs[i+1:]...)
			return
		}
	}
}

// Listeners 返回某个事件类型当前的订阅数
func (d *Dispatcher) Listeners(typ string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.subs[typ])
}

// Fire 按顺序触发 types 中的每一个事件类型。
// 每种类型的监听器按订阅顺序同步调用，允许在监听器中再次 Fire。
func (d *Dispatcher) Fire(types []string, args ...any) {
	d.fire(types, nil, args)
}

func (d *Dispatcher) fire(types []string, origin *Event, args []any) {
	for _, t := range types {
		d.mu.Lock()
		snapshot := append([]*Subscription(nil), d.subs[t]...)
		d.mu.Unlock()
		if len(snapshot) == 0 {
			continue
		}
		e := &Event{Type: t, Types: types, Source: d.owner, Args: args, Origin: origin}
		for _, s := range snapshot {
			d.mu.Lock()
			cancelled := s.cancelled
			d.mu.Unlock()
			if cancelled {
				continue
			}
			s.l(e)
		}
	}
}

// Forward 把 from 上的 types 事件以同名转发到 d 上。
// 订阅句柄按 from 保存，通过 Unforward(from) 统一释放。
func (d *Dispatcher) Forward(from *Dispatcher, types ...string) {
	subs := make([]*Subscription, 0, len(types))
	for _, t := range types {
		typ := t
		subs = append(subs, from.On(typ, func(e *Event) {
			d.fire([]string{typ}, e, e.Args)
		}))
	}
	d.mu.Lock()
	d.forwards[from] = append(d.forwards[from], subs...)
	d.mu.Unlock()
}

// Unforward 取消所有来自 from 的转发
func (d *Dispatcher) Unforward(from *Dispatcher) {
	d.mu.Lock()
	subs := d.forwards[from]
	delete(d.forwards, from)
	d.mu.Unlock()
	for _, s := range subs {
		s.Cancel()
	}
}

// Forwarding 返回当前有转发关系的来源数量
func (d *Dispatcher) Forwarding() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.forwards)
}
