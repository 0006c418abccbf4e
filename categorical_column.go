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
	"github.com/ecodeclub/erank/internal/colorpool"
)

// CategoricalColumn 取值属于固定分类集合的列
type CategoricalColumn struct {
	ValueColumn
	categories []*Category
	lookup     map[string]*Category
	filter     *CategoricalFilter
}

func NewCategoricalColumn(id string, desc *ColumnDesc) *CategoricalColumn {
	c := &CategoricalColumn{}
	c.initValue(c, id, desc, EventFilterChanged)
	c.setDefaultWidth(150)
	c.categories = buildCategories(desc.Categories, colorpool.New())
	c.lookup = make(map[string]*Category, len(c.categories))
	for _, cat := range c.categories {
		c.lookup[cat.Name] = cat
	}
	return c
}

func (c *CategoricalColumn) Categories() []*Category {
	return c.categories
}

// GetCategory 未知的取值视为缺失
func (c *CategoricalColumn) GetCategory(row DataRow) *Category {
	v := c.GetRaw(row)
	if IsMissingValue(v) {
		return nil
	}
	return c.lookup[toString(v)]
}

func (c *CategoricalColumn) GetValue(row DataRow) any {
	cat := c.GetCategory(row)
	if cat == nil {
		return nil
	}
	return cat.Name
}

func (c *CategoricalColumn) IsMissing(row DataRow) bool {
	return c.GetCategory(row) == nil
}

func (c *CategoricalColumn) GetLabel(row DataRow) string {
	return categoricalLabel(c, row)
}

func (c *CategoricalColumn) GetColor(row DataRow) string {
	return categoricalColor(c, row)
}

func (c *CategoricalColumn) Compare(a, b DataRow) int {
	return categoricalCompare(c, a, b)
}

func (c *CategoricalColumn) Group(row DataRow) *Group {
	return categoricalGroup(c, row)
}

func (c *CategoricalColumn) GetFilter() *CategoricalFilter {
	return c.filter
}

func (c *CategoricalColumn) IsFiltered() bool {
	return c.filter != nil
}

func (c *CategoricalColumn) SetFilter(f *CategoricalFilter) {
	if c.filter.equal(f) {
		return
	}
	old := c.filter
	c.filter = f
	c.fire(with(EventFilterChanged, valuesDirty), old, f)
}

func (c *CategoricalColumn) Filter(row DataRow) bool {
	return c.filter.accept(c.GetCategory(row))
}

func (c *CategoricalColumn) Dump(toDescRef DescRefFunc) Dump {
	r := c.ColumnBase.Dump(toDescRef)
	if c.filter != nil {
		r["filter"] = c.filter.dump()
	}
	return r
}

func (c *CategoricalColumn) Restore(dump Dump, factory Factory) {
	c.ColumnBase.Restore(dump, factory)
	if dump.Has("filter") {
		c.filter = restoreCategoricalFilter(dump["filter"])
	}
}
