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
	"math"
	"strings"

	"github.com/ecodeclub/erank/internal/colorpool"
)

// Unlimited 不限制层级深度
const Unlimited = math.MaxInt

// HierarchyNode 层级分类中的一个节点，构造后不再修改
type HierarchyNode struct {
	Path     string
	Name     string
	Label    string
	Color    string
	Children []*HierarchyNode
}

// CutOff 当前的截断位置：从 Node 开始最多展开 MaxDepth 层
type CutOff struct {
	Node     *HierarchyNode
	MaxDepth int
}

// BuildHierarchy 从描述构造层级树，没有颜色的非根节点从 pool 中按先序分配颜色
func BuildHierarchy(desc *HierarchyDesc, sep string, pool *colorpool.Pool) *HierarchyNode {
	if desc == nil {
		desc = &HierarchyDesc{}
	}
	var add func(parentPath string, d *HierarchyDesc, root bool) *HierarchyNode
	add = func(parentPath string, d *HierarchyDesc, root bool) *HierarchyNode {
		path := d.Name
		if parentPath != "" {
			path = parentPath + sep + d.Name
		}
		n := &HierarchyNode{Path: path, Name: d.Name, Label: d.Label, Color: d.Color}
		if n.Label == "" {
			n.Label = path
		}
		if n.Color == "" && !root {
			n.Color = pool.Next()
		}
		for _, child := range d.Children {
			n.Children = append(n.Children, add(path, child, false))
		}
		return n
	}
	return add("", desc, true)
}

// ComputeLeaves 深度优先收集叶子：没有子节点或者到达 maxDepth 的节点
func ComputeLeaves(node *HierarchyNode, maxDepth int) []*HierarchyNode {
	var leaves []*HierarchyNode
	var visit func(n *HierarchyNode, depth int)
	visit = func(n *HierarchyNode, depth int) {
		if depth >= maxDepth || len(n.Children) == 0 {
			leaves = append(leaves, n)
			return
		}
		for _, c := range n.Children {
			visit(c, depth+1)
		}
	}
	visit(node, 0)
	return leaves
}

// ResolveInnerNodes 广度优先返回所有节点
func ResolveInnerNodes(node *HierarchyNode) []*HierarchyNode {
	queue := []*HierarchyNode{node}
	for i := 0; i < len(queue); i++ {
		queue = append(queue, queue[i].Children...)
	}
	return queue
}

// HierarchyColumn 层级分类列
type HierarchyColumn struct {
	ValueColumn
	sep       string
	hierarchy *HierarchyNode
	cutOff    CutOff
	leaves    []*Category
	nodes     []*HierarchyNode
	byName    map[string]*Category
	byPath    map[string]*Category
}

func NewHierarchyColumn(id string, desc *ColumnDesc) *HierarchyColumn {
	c := &HierarchyColumn{}
	c.initValue(c, id, desc, EventCutOffChanged)
	c.setDefaultRenderer("categorical")
	c.sep = desc.HierarchySeparator
	if c.sep == "" {
		c.sep = "."
	}
	c.hierarchy = BuildHierarchy(desc.Hierarchy, c.sep, colorpool.New())
	c.applyCutOff(CutOff{Node: c.hierarchy, MaxDepth: Unlimited})
	return c
}

func (c *HierarchyColumn) Hierarchy() *HierarchyNode {
	return c.hierarchy
}

func (c *HierarchyColumn) Separator() string {
	return c.sep
}

func (c *HierarchyColumn) CutOff() CutOff {
	return c.cutOff
}

// SetCutOff Node 为 nil 时使用根节点，MaxDepth 不大于 0 时不限制深度
func (c *HierarchyColumn) SetCutOff(cut CutOff) {
	if cut.Node == nil {
		cut.Node = c.hierarchy
	}
	if cut.MaxDepth <= 0 {
		cut.MaxDepth = Unlimited
	}
	if cut == c.cutOff {
		return
	}
	old := c.cutOff
	c.applyCutOff(cut)
	c.fire([]string{EventCutOffChanged, EventDirtyHeader, EventDirtyValues, EventDirty}, old, cut)
}

func (c *HierarchyColumn) applyCutOff(cut CutOff) {
	c.cutOff = cut
	c.nodes = ComputeLeaves(cut.Node, cut.MaxDepth)
	c.leaves = make([]*Category, len(c.nodes))
	c.byName = make(map[string]*Category, len(c.nodes))
	c.byPath = make(map[string]*Category, len(c.nodes))
	for i, n := range c.nodes {
		cat := &Category{Name: n.Name, Label: n.Label, Color: n.Color, Index: i}
		c.leaves[i] = cat
		c.byPath[n.Path] = cat
		c.byName[n.Name] = cat
	}
}

// Categories 当前截断下的叶子
func (c *HierarchyColumn) Categories() []*Category {
	return c.leaves
}

// GetCategory 先按叶子名称和路径精确匹配，再找路径是取值前缀的叶子
func (c *HierarchyColumn) GetCategory(row DataRow) *Category {
	raw := c.GetRaw(row)
	if IsMissingValue(raw) {
		return nil
	}
	v := strings.TrimSpace(toString(raw))
	if cat, ok := c.byName[v]; ok {
		return cat
	}
	if cat, ok := c.byPath[v]; ok {
		return cat
	}
	for i, n := range c.nodes {
		if strings.HasPrefix(v, n.Path+c.sep) {
			return c.leaves[i]
		}
	}
	return nil
}

func (c *HierarchyColumn) GetValue(row DataRow) any {
	cat := c.GetCategory(row)
	if cat == nil {
		return nil
	}
	return cat.Name
}

func (c *HierarchyColumn) IsMissing(row DataRow) bool {
	return c.GetCategory(row) == nil
}

func (c *HierarchyColumn) GetLabel(row DataRow) string {
	return categoricalLabel(c, row)
}

func (c *HierarchyColumn) GetColor(row DataRow) string {
	return categoricalColor(c, row)
}

func (c *HierarchyColumn) Compare(a, b DataRow) int {
	return categoricalCompare(c, a, b)
}

func (c *HierarchyColumn) Group(row DataRow) *Group {
	return categoricalGroup(c, row)
}

func (c *HierarchyColumn) Dump(toDescRef DescRefFunc) Dump {
	r := c.ColumnBase.Dump(toDescRef)
	cut := Dump{"node": c.cutOff.Node.Path}
	if c.cutOff.MaxDepth != Unlimited {
		cut["maxDepth"] = c.cutOff.MaxDepth
	}
	r["cutOff"] = cut
	return r
}

func (c *HierarchyColumn) Restore(dump Dump, factory Factory) {
	c.ColumnBase.Restore(dump, factory)
	cut, ok := dump.Dump("cutOff")
	if !ok {
		return
	}
	target := CutOff{Node: c.hierarchy, MaxDepth: Unlimited}
	if path, ok := cut.String("node"); ok {
		for _, n := range ResolveInnerNodes(c.hierarchy) {
			if n.Path == path {
				target.Node = n
				break
			}
		}
	}
	if d, ok := cut.Int("maxDepth"); ok && d > 0 {
		target.MaxDepth = d
	}
	c.applyCutOff(target)
}
