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

package erank

import (
	"strings"
)

// IsAggregated 从 g 开始向上查找最近的显式设置，都没有时为展开
func (p *Provider) IsAggregated(r *Ranking, g *Group) bool {
	for cur := g; cur != nil; cur = cur.Parent {
		key := groupKey(r.ID(), cur)
		if _, ok := p.aggregations[key]; ok {
			return true
		}
		if _, ok := p.expanded[key]; ok {
			return false
		}
	}
	return false
}

// SetAggregated 只在实际状态变化时修改并触发事件。
// 祖先分组的设置保持不变，g 自身记录一个覆盖值。
func (p *Provider) SetAggregated(r *Ranking, g *Group, v bool) {
	if p.IsAggregated(r, g) == v {
		return
	}
	p.override(r, g, v)
	p.fire([]string{EventAggregate, EventDirtyValues, EventDirty}, r, g, v)
}

// AggregateAllOf 折叠或展开 r 的所有分组，只触发一次事件
func (p *Provider) AggregateAllOf(r *Ranking, v bool) {
	groups := r.Groups()
	changed := false
	for _, g := range groups {
		if p.IsAggregated(r, g) == v {
			continue
		}
		p.override(r, g, v)
		changed = true
	}
	if !changed {
		return
	}
	p.fire([]string{EventAggregate, EventDirtyValues, EventDirty}, r, groups, v)
}

func (p *Provider) override(r *Ranking, g *Group, v bool) {
	key := groupKey(r.ID(), g)
	delete(p.aggregations, key)
	delete(p.expanded, key)
	// 子分组跟随新的设置
	deletePrefix(p.aggregations, key+".")
	deletePrefix(p.expanded, key+".")
	var inherited bool
	if g.Parent != nil {
		inherited = p.IsAggregated(r, g.Parent)
	}
	if inherited == v {
		return
	}
	if v {
		p.aggregations[key] = struct{}{}
	} else {
		p.expanded[key] = struct{}{}
	}
}

func (p *Provider) cleanUpAggregations(r *Ranking) {
	prefix := r.ID() + "@"
	deletePrefix(p.aggregations, prefix)
	deletePrefix(p.expanded, prefix)
}

func deletePrefix(m map[string]struct{}, prefix string) {
	for k := range m {
		if strings.HasPrefix(k, prefix) {
			delete(m, k)
		}
	}
}
