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
	"slices"

	"github.com/ecodeclub/erank/internal/colorpool"
)

// Category 分类列的一个取值
type Category struct {
	Name  string
	Label string
	Color string
	Value float64
	// Index 在所属列的分类列表中的位置，比较时按它排序
	Index int
}

// Categorical 分类列的能力
type Categorical interface {
	Column
	Categories() []*Category
	// GetCategory 行所属的分类，缺失时为 nil
	GetCategory(row DataRow) *Category
}

// CategoricalFilter 只保留 Categories 中的分类
type CategoricalFilter struct {
	Categories    []string
	FilterMissing bool
}

func (f *CategoricalFilter) equal(o *CategoricalFilter) bool {
	if f == nil || o == nil {
		return f == o
	}
	return f.FilterMissing == o.FilterMissing && slices.Equal(f.Categories, o.Categories)
}

func (f *CategoricalFilter) dump() any {
	if f == nil {
		return nil
	}
	return Dump{
		"filter":        slices.Clone(f.Categories),
		"filterMissing": f.FilterMissing,
	}
}

func restoreCategoricalFilter(v any) *CategoricalFilter {
	d, ok := asDump(v)
	if !ok {
		return nil
	}
	cats, _ := d.Strings("filter")
	missing, _ := d.Bool("filterMissing")
	return &CategoricalFilter{Categories: cats, FilterMissing: missing}
}

func (f *CategoricalFilter) accept(cat *Category) bool {
	if f == nil {
		return true
	}
	if cat == nil {
		return !f.FilterMissing
	}
	return slices.Contains(f.Categories, cat.Name)
}

// buildCategories 为没有颜色的分类从 pool 中分配颜色
func buildCategories(descs []CategoryDesc, pool *colorpool.Pool) []*Category {
	res := make([]*Category, len(descs))
	for i, d := range descs {
		c := &Category{Name: d.Name, Label: d.Label, Color: d.Color, Value: d.Value, Index: i}
		if c.Label == "" {
			c.Label = c.Name
		}
		if c.Color == "" {
			c.Color = pool.Next()
		} else {
			c.Color = colorpool.Normalize(c.Color)
		}
		res[i] = c
	}
	return res
}

func categoricalLabel(c Categorical, row DataRow) string {
	cat := c.GetCategory(row)
	if cat == nil {
		return ""
	}
	return cat.Label
}

func categoricalColor(c Categorical, row DataRow) string {
	cat := c.GetCategory(row)
	if cat == nil {
		return DefaultColor
	}
	return cat.Color
}

func categoricalCompare(c Categorical, a, b DataRow) int {
	ac, bc := c.GetCategory(a), c.GetCategory(b)
	if res, ok := compareMissing(ac == nil, bc == nil); ok {
		return res
	}
	return ac.Index - bc.Index
}

func categoricalGroup(c Categorical, row DataRow) *Group {
	cat := c.GetCategory(row)
	if cat == nil {
		return MissingGroup()
	}
	return &Group{Name: cat.Label, Color: cat.Color}
}
