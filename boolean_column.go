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

var (
	groupTrue  = Category{Name: "true", Label: "True", Color: "#000000", Index: 1}
	groupFalse = Category{Name: "false", Label: "False", Color: "#ffffff", Index: 0}
)

// BooleanColumn 布尔列，永远不缺失
type BooleanColumn struct {
	ValueColumn
	categories []*Category
	filter     *bool
}

func NewBooleanColumn(id string, desc *ColumnDesc) *BooleanColumn {
	c := &BooleanColumn{}
	c.initValue(c, id, desc, EventFilterChanged)
	c.setDefaultWidth(30)
	t, f := groupTrue, groupFalse
	c.categories = []*Category{&t, &f}
	return c
}

// toBool true、"true"、"yes"、"x"（不区分大小写）为真，其余都为假
func toBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		s := strings.TrimSpace(b)
		return strings.EqualFold(s, "true") || strings.EqualFold(s, "yes") || strings.EqualFold(s, "x")
	default:
		return false
	}
}

func (c *BooleanColumn) GetBool(row DataRow) bool {
	return toBool(c.GetRaw(row))
}

func (c *BooleanColumn) GetValue(row DataRow) any {
	return c.GetBool(row)
}

func (c *BooleanColumn) IsMissing(DataRow) bool {
	return false
}

func (c *BooleanColumn) Categories() []*Category {
	return c.categories
}

func (c *BooleanColumn) GetCategory(row DataRow) *Category {
	if c.GetBool(row) {
		return c.categories[0]
	}
	return c.categories[1]
}

func (c *BooleanColumn) GetLabel(row DataRow) string {
	return categoricalLabel(c, row)
}

func (c *BooleanColumn) GetColor(row DataRow) string {
	return categoricalColor(c, row)
}

// Compare false 排在 true 前面
func (c *BooleanColumn) Compare(a, b DataRow) int {
	return categoricalCompare(c, a, b)
}

func (c *BooleanColumn) Group(row DataRow) *Group {
	return categoricalGroup(c, row)
}

// GetFilter nil 表示不过滤
func (c *BooleanColumn) GetFilter() *bool {
	return c.filter
}

func (c *BooleanColumn) IsFiltered() bool {
	return c.filter != nil
}

func (c *BooleanColumn) SetFilter(f *bool) {
	if (c.filter == nil && f == nil) || (c.filter != nil && f != nil && *c.filter == *f) {
		return
	}
	old := c.filter
	if f != nil {
		v := *f
		f = &v
	}
	c.filter = f
	c.fire(with(EventFilterChanged, valuesDirty), old, f)
}

func (c *BooleanColumn) Filter(row DataRow) bool {
	if c.filter == nil {
		return true
	}
	return c.GetBool(row) == *c.filter
}

func (c *BooleanColumn) Dump(toDescRef DescRefFunc) Dump {
	r := c.ColumnBase.Dump(toDescRef)
	if c.filter != nil {
		r["filter"] = *c.filter
	}
	return r
}

func (c *BooleanColumn) Restore(dump Dump, factory Factory) {
	c.ColumnBase.Restore(dump, factory)
	if f, ok := dump.Bool("filter"); ok {
		c.filter = &f
	}
}
