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
	"slices"
)

// Composite 由子列派生取值的列
type Composite interface {
	Column
	Parent
	Children() []Column
	Push(col Column) Column
	Move(col Column, index int) Column
}

// 转发到组合列上的子列事件
var compositeForwarded = []string{
	EventDirtyHeader, EventDirtyValues, EventDirtyCaches, EventDirty, EventFilterChanged,
}

// 组合列的具体类型可以实现这些接口来约束和响应子列的变化
type (
	childAcceptor interface {
		accept(col Column) bool
	}
	childInserted interface {
		inserted(col Column, index int)
	}
	childRemoved interface {
		removed(col Column, index int)
	}
)

// CompositeColumn 拥有有序子列的列。插入不满足约束的子列时返回 nil。
type CompositeColumn struct {
	ColumnBase
	children []Column
}

func NewCompositeColumn(id string, desc *ColumnDesc) *CompositeColumn {
	c := &CompositeColumn{}
	c.initComposite(c, id, desc)
	return c
}

func (c *CompositeColumn) initComposite(self Column, id string, desc *ColumnDesc, events ...string) {
	c.init(self, id, desc, append([]string{EventAddColumn, EventMoveColumn, EventRemoveColumn, EventFilterChanged}, events...)...)
}

func (c *CompositeColumn) Children() []Column {
	return slices.Clone(c.children)
}

func (c *CompositeColumn) Length() int {
	return len(c.children)
}

func (c *CompositeColumn) IndexOf(col Column) int {
	return slices.Index(c.children, col)
}

// Insert 把 col 插入到 index。col 仍属于其他容器时返回 nil。
func (c *CompositeColumn) Insert(col Column, index int) Column {
	if col == nil || col.Parent() != nil {
		return nil
	}
	if a, ok := c.self.(childAcceptor); ok && !a.accept(col) {
		return nil
	}
	index = max(0, min(index, len(c.children)))
	c.children = slices.Insert(c.children, index, col)
	col.base().attach(c.self.(Parent))
	c.d.Forward(col.Dispatcher(), compositeForwarded...)
	if h, ok := c.self.(childInserted); ok {
		h.inserted(col, index)
	}
	c.fire([]string{EventAddColumn, EventDirtyHeader, EventDirtyValues, EventDirty}, col, index)
	return col
}

func (c *CompositeColumn) Push(col Column) Column {
	return c.self.(Parent).Insert(col, len(c.children))
}

func (c *CompositeColumn) Move(col Column, index int) Column {
	from := c.IndexOf(col)
	if from < 0 {
		return nil
	}
	index = max(0, min(index, len(c.children)-1))
	if from == index {
		return col
	}
	c.children = slices.Delete(c.children, from, from+1)
	c.children = slices.Insert(c.children, index, col)
	c.fire([]string{EventMoveColumn, EventDirtyHeader, EventDirtyValues, EventDirty}, col, index, from)
	return col
}

// Remove 移除子列并取消转发
func (c *CompositeColumn) Remove(col Column) bool {
	i := c.IndexOf(col)
	if i < 0 {
		return false
	}
	c.children = slices.Delete(c.children, i, i+1)
	c.d.Unforward(col.Dispatcher())
	col.base().attach(nil)
	if h, ok := c.self.(childRemoved); ok {
		h.removed(col, i)
	}
	c.fire([]string{EventRemoveColumn, EventDirtyHeader, EventDirtyValues, EventDirty}, col, i)
	return true
}

// IsFiltered 任意子列有过滤条件
func (c *CompositeColumn) IsFiltered() bool {
	for _, child := range c.children {
		if child.IsFiltered() {
			return true
		}
	}
	return false
}

// Filter 所有子列都接受时才接受
func (c *CompositeColumn) Filter(row DataRow) bool {
	for _, child := range c.children {
		if !child.Filter(row) {
			return false
		}
	}
	return true
}

func (c *CompositeColumn) Dump(toDescRef DescRefFunc) Dump {
	r := c.ColumnBase.Dump(toDescRef)
	children := make([]any, len(c.children))
	for i, child := range c.children {
		children[i] = child.Dump(toDescRef)
	}
	r["children"] = children
	return r
}

// Restore 通过 factory 重建子列，无法创建的子列被跳过
func (c *CompositeColumn) Restore(dump Dump, factory Factory) {
	c.ColumnBase.Restore(dump, factory)
	children, _ := dump.Dumps("children")
	for _, d := range children {
		if col := factory(d); col != nil {
			c.self.(Parent).Insert(col, len(c.children))
		}
	}
}

// CompositeNumberColumn 把子列的数值合成为一个数字
type CompositeNumberColumn struct {
	CompositeColumn
	compute func(row DataRow) float64
}

func (c *CompositeNumberColumn) initCompositeNumber(self Column, id string, desc *ColumnDesc,
	compute func(row DataRow) float64, events ...string) {
	c.initComposite(self, id, desc, events...)
	c.compute = compute
	c.setDefaultRenderer("number")
}

// accept 只接受数值列
func (c *CompositeNumberColumn) accept(col Column) bool {
	_, ok := col.(NumberValued)
	return ok
}

func (c *CompositeNumberColumn) GetNumber(row DataRow) float64 {
	return c.compute(row)
}

func (c *CompositeNumberColumn) GetRawNumber(row DataRow) float64 {
	return c.compute(row)
}

func (c *CompositeNumberColumn) GetValue(row DataRow) any {
	return c.compute(row)
}

func (c *CompositeNumberColumn) IsMissing(row DataRow) bool {
	return math.IsNaN(c.compute(row))
}

func (c *CompositeNumberColumn) GetLabel(row DataRow) string {
	return formatNumber(c.compute(row))
}

func (c *CompositeNumberColumn) Compare(a, b DataRow) int {
	av, bv := c.compute(a), c.compute(b)
	if res, ok := compareMissing(math.IsNaN(av), math.IsNaN(bv)); ok {
		return res
	}
	return compareFloat(av, bv)
}

func (c *CompositeNumberColumn) Group(row DataRow) *Group {
	if math.IsNaN(c.compute(row)) {
		return MissingGroup()
	}
	return DefaultGroup()
}
