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

	"github.com/ecodeclub/erank/internal/colorpool"
)

const (
	OthersGroupName  = "Others"
	MissingGroupName = "Missing values"
	DefaultGroupName = "Default"
)

// Group 一个分组。叶子分组的 Order 是该组内排好序的行下标。
type Group struct {
	Name      string
	Color     string
	Parent    *Group
	Subgroups []*Group
	Order     []int
}

// ID 从根分组开始、以 "." 连接的名称路径
func (g *Group) ID() string {
	if g.Parent == nil {
		return g.Name
	}
	return g.Parent.ID() + "." + g.Name
}

// Path 从根分组到自身
func (g *Group) Path() []*Group {
	var res []*Group
	for cur := g; cur != nil; cur = cur.Parent {
		res = append(res, cur)
	}
	for i, j := 0, len(res)-1; i < j; i, j = i+1, j-1 {
		res[i], res[j] = res[j], res[i]
	}
	return res
}

// Leaves 深度优先返回所有叶子分组
func (g *Group) Leaves() []*Group {
	if len(g.Subgroups) == 0 {
		return []*Group{g}
	}
	var res []*Group
	for _, s := range g.Subgroups {
		res = append(res, s.Leaves()...)
	}
	return res
}

// Size 组内所有叶子的行数之和
func (g *Group) Size() int {
	if len(g.Subgroups) == 0 {
		return len(g.Order)
	}
	var res int
	for _, s := range g.Subgroups {
		res += s.Size()
	}
	return res
}

func OthersGroup() *Group {
	return &Group{Name: OthersGroupName, Color: colorpool.DefaultColor}
}

func MissingGroup() *Group {
	return &Group{Name: MissingGroupName, Color: colorpool.DefaultColor}
}

func DefaultGroup() *Group {
	return &Group{Name: DefaultGroupName, Color: colorpool.DefaultColor}
}

// unifyParents 让 ID 相同的父分组共享同一个实例，并重建 Subgroups
func unifyParents(groups []*Group) {
	lookup := make(map[string]*Group, len(groups))
	var resolve func(g *Group) *Group
	resolve = func(g *Group) *Group {
		id := g.ID()
		if c, ok := lookup[id]; ok {
			return c
		}
		lookup[id] = g
		if g.Parent != nil {
			p := resolve(g.Parent)
			g.Parent = p
			p.Subgroups = append(p.Subgroups, g)
		}
		return g
	}
	// 先清空父分组的 Subgroups，避免重复
	for _, g := range groups {
		for p := g.Parent; p != nil; p = p.Parent {
			p.Subgroups = nil
		}
	}
	for _, g := range groups {
		resolve(g)
	}
}

// groupKey 用于把 Group 序列化成聚合状态的 key。
// 名称里的 "." 和反斜杠会被转义，保证 key+"." 只匹配真正的子分组。
func groupKey(rankingID string, g *Group) string {
	return rankingID + "@" + escapedID(g)
}

var groupNameEscaper = strings.NewReplacer(`\`, `\\`, ".", `\.`)

func escapedID(g *Group) string {
	name := groupNameEscaper.Replace(g.Name)
	if g.Parent == nil {
		return name
	}
	return escapedID(g.Parent) + "." + name
}

// splitGroupKey 拆分 "<rankingId>@<groupId>"
func splitGroupKey(key string) (string, string, bool) {
	return strings.Cut(key, "@")
}
