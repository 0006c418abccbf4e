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
	"strconv"
)

// RankColumn 显示行在所属 Ranking 中的名次
type RankColumn struct {
	ColumnBase
}

func NewRankColumn(id string, desc *ColumnDesc) *RankColumn {
	c := &RankColumn{}
	c.init(c, id, desc)
	c.setDefaultWidth(50)
	return c
}

// GetRank 名次从 1 开始，不在当前结果中时为 -1
func (c *RankColumn) GetRank(row DataRow) int {
	if c.desc.RankAccessor != nil {
		return c.desc.RankAccessor(row, c.Ranking())
	}
	if r := c.Ranking(); r != nil {
		return r.Rank(row.I)
	}
	return -1
}

func (c *RankColumn) GetValue(row DataRow) any {
	return c.GetRank(row)
}

func (c *RankColumn) GetLabel(row DataRow) string {
	r := c.GetRank(row)
	if r < 0 {
		return ""
	}
	return strconv.Itoa(r)
}

// SelectionColumn 读写 Provider 的选择状态
type SelectionColumn struct {
	ColumnBase
}

func NewSelectionColumn(id string, desc *ColumnDesc) *SelectionColumn {
	c := &SelectionColumn{}
	c.init(c, id, desc, EventSelect)
	c.setDefaultWidth(20)
	c.setDefaultGroupRenderer("selection")
	return c
}

func (c *SelectionColumn) IsSelected(row DataRow) bool {
	return c.desc.IsSelected != nil && c.desc.IsSelected(row)
}

func (c *SelectionColumn) GetValue(row DataRow) any {
	return c.IsSelected(row)
}

func (c *SelectionColumn) GetLabel(row DataRow) string {
	return strconv.FormatBool(c.IsSelected(row))
}

// SetValue 返回是否发生了变化
func (c *SelectionColumn) SetValue(row DataRow, v bool) bool {
	if c.IsSelected(row) == v {
		return false
	}
	if c.desc.SetSelected != nil {
		c.desc.SetSelected(row, v)
	}
	c.fire([]string{EventSelect}, row.I, v)
	return true
}

func (c *SelectionColumn) Toggle(row DataRow) bool {
	v := !c.IsSelected(row)
	c.SetValue(row, v)
	return v
}

// SetValues 批量修改，例如选中一个分组内的所有行
func (c *SelectionColumn) SetValues(indices []int, v bool) {
	if len(indices) == 0 {
		return
	}
	if c.desc.SetSelectedAll != nil {
		c.desc.SetSelectedAll(indices, v)
	}
	c.fire([]string{EventSelect}, indices, v)
}

// Compare 选中的行排在前面
func (c *SelectionColumn) Compare(a, b DataRow) int {
	av, bv := c.IsSelected(a), c.IsSelected(b)
	switch {
	case av == bv:
		return 0
	case av:
		return -1
	}
	return 1
}

func (c *SelectionColumn) Group(row DataRow) *Group {
	if c.IsSelected(row) {
		return &Group{Name: "Selected", Color: "#ffa500"}
	}
	return &Group{Name: "Unselected", Color: DefaultColor}
}

// AggregateGroupColumn 折叠和展开分组
type AggregateGroupColumn struct {
	ColumnBase
}

func NewAggregateGroupColumn(id string, desc *ColumnDesc) *AggregateGroupColumn {
	c := &AggregateGroupColumn{}
	c.init(c, id, desc, EventAggregate)
	c.setDefaultWidth(20)
	return c
}

func (c *AggregateGroupColumn) IsAggregated(g *Group) bool {
	r := c.Ranking()
	return r != nil && c.desc.IsAggregated != nil && c.desc.IsAggregated(r, g)
}

// SetAggregated 返回是否发生了变化
func (c *AggregateGroupColumn) SetAggregated(g *Group, v bool) bool {
	r := c.Ranking()
	if r == nil || c.IsAggregated(g) == v {
		return false
	}
	if c.desc.SetAggregated != nil {
		c.desc.SetAggregated(r, g, v)
	}
	c.fire([]string{EventAggregate}, g, v)
	return true
}

// AggregateAll 折叠或展开所属 Ranking 的所有分组
func (c *AggregateGroupColumn) AggregateAll(v bool) {
	r := c.Ranking()
	if r == nil || c.desc.AggregateAll == nil {
		return
	}
	c.desc.AggregateAll(r, v)
	c.fire([]string{EventAggregate}, nil, v)
}

// GroupColumn 显示行所在的分组
type GroupColumn struct {
	ColumnBase
}

func NewGroupColumn(id string, desc *ColumnDesc) *GroupColumn {
	c := &GroupColumn{}
	c.init(c, id, desc)
	c.setDefaultWidth(50)
	return c
}

// GetGroup 行在所属 Ranking 当前结果中的分组
func (c *GroupColumn) GetGroup(row DataRow) *Group {
	if r := c.Ranking(); r != nil {
		return r.GroupOf(row.I)
	}
	return nil
}

func (c *GroupColumn) GetValue(row DataRow) any {
	if g := c.GetGroup(row); g != nil {
		return g.ID()
	}
	return nil
}

func (c *GroupColumn) GetLabel(row DataRow) string {
	if g := c.GetGroup(row); g != nil {
		return g.Name
	}
	return ""
}

// ActionColumn 每一行上的一组操作，由外部界面执行
type ActionColumn struct {
	ColumnBase
}

func NewActionColumn(id string, desc *ColumnDesc) *ActionColumn {
	c := &ActionColumn{}
	c.init(c, id, desc)
	c.setDefaultWidth(50)
	return c
}

func (c *ActionColumn) Actions() []string {
	return c.desc.Actions
}
