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

	"github.com/ecodeclub/erank/internal/stats"
)

// ImpositionsColumn 两个子列叠加：第一个是数值列，决定取值；
// 第二个可选，是分类列，决定颜色。
type ImpositionsColumn struct {
	CompositeColumn
}

func NewImpositionsColumn(id string, desc *ColumnDesc) *ImpositionsColumn {
	c := &ImpositionsColumn{}
	c.initComposite(c, id, desc, EventMappingChanged)
	c.setDefaultRenderer("numbers")
	return c
}

func (c *ImpositionsColumn) accept(col Column) bool {
	switch len(c.children) {
	case 0:
		_, ok := col.(NumberValued)
		return ok
	case 1:
		_, ok := col.(Categorical)
		return ok
	default:
		return false
	}
}

// Insert 子列的位置由类型决定，index 被忽略
func (c *ImpositionsColumn) Insert(col Column, _ int) Column {
	return c.CompositeColumn.Insert(col, len(c.children))
}

func (c *ImpositionsColumn) inserted(col Column, index int) {
	if _, ok := col.(Mappable); ok && index == 0 {
		c.d.Forward(col.Dispatcher(), EventMappingChanged)
	}
}

func (c *ImpositionsColumn) wrapper() NumberValued {
	if len(c.children) == 0 {
		return nil
	}
	return c.children[0].(NumberValued)
}

// Label 使用默认标题时由子列的标题组成
func (c *ImpositionsColumn) Label() string {
	l := c.metadata.Label
	if l != ImpositionLabel || len(c.children) == 0 {
		return l
	}
	if len(c.children) == 1 {
		return c.children[0].Label()
	}
	return c.children[0].Label() + " (" + c.children[1].Label() + ")"
}

func (c *ImpositionsColumn) GetLabel(row DataRow) string {
	switch len(c.children) {
	case 0:
		return ""
	case 1:
		return c.children[0].GetLabel(row)
	}
	cat := c.children[1]
	return c.children[0].GetLabel(row) + " (" + cat.Label() + " = " + cat.GetLabel(row) + ")"
}

// GetColor 第二个子列的分类颜色
func (c *ImpositionsColumn) GetColor(row DataRow) string {
	if len(c.children) < 2 {
		return c.Color()
	}
	if cat := c.children[1].(Categorical).GetCategory(row); cat != nil {
		return cat.Color
	}
	return c.Color()
}

func (c *ImpositionsColumn) GetValue(row DataRow) any {
	if w := c.wrapper(); w != nil {
		return w.GetValue(row)
	}
	return nil
}

func (c *ImpositionsColumn) GetNumber(row DataRow) float64 {
	if w := c.wrapper(); w != nil {
		return w.GetNumber(row)
	}
	return math.NaN()
}

func (c *ImpositionsColumn) GetRawNumber(row DataRow) float64 {
	if w := c.wrapper(); w != nil {
		return w.GetRawNumber(row)
	}
	return math.NaN()
}

func (c *ImpositionsColumn) GetNumbers(row DataRow) []float64 {
	if w, ok := c.wrapper().(NumbersValued); ok {
		return w.GetNumbers(row)
	}
	return nil
}

func (c *ImpositionsColumn) GetRawNumbers(row DataRow) []float64 {
	if w, ok := c.wrapper().(NumbersValued); ok {
		return w.GetRawNumbers(row)
	}
	return nil
}

func (c *ImpositionsColumn) BoxPlot(row DataRow) *stats.LazyBoxPlot {
	if w, ok := c.wrapper().(NumbersValued); ok {
		return w.BoxPlot(row)
	}
	return nil
}

func (c *ImpositionsColumn) Mapping() MappingFunction {
	if w, ok := c.wrapper().(Mappable); ok {
		return w.Mapping()
	}
	return NewScaleMappingFunction(nil, nil)
}

func (c *ImpositionsColumn) OriginalMapping() MappingFunction {
	if w, ok := c.wrapper().(Mappable); ok {
		return w.OriginalMapping()
	}
	return NewScaleMappingFunction(nil, nil)
}

func (c *ImpositionsColumn) SetMapping(m MappingFunction) {
	if w, ok := c.wrapper().(Mappable); ok {
		w.SetMapping(m)
	}
}

func (c *ImpositionsColumn) SortMethod() string {
	if w, ok := c.wrapper().(interface{ SortMethod() string }); ok {
		return w.SortMethod()
	}
	return stats.MethodMin
}

func (c *ImpositionsColumn) SetSortMethod(m string) {
	if w, ok := c.wrapper().(interface{ SetSortMethod(string) }); ok {
		w.SetSortMethod(m)
	}
}

func (c *ImpositionsColumn) GetFilter() NumberFilter {
	if w, ok := c.wrapper().(NumberFilterable); ok {
		return w.GetFilter()
	}
	return NoNumberFilter()
}

func (c *ImpositionsColumn) SetFilter(f NumberFilter) {
	if w, ok := c.wrapper().(NumberFilterable); ok {
		w.SetFilter(f)
	}
}

func (c *ImpositionsColumn) IsMissing(row DataRow) bool {
	if w := c.wrapper(); w != nil {
		return w.IsMissing(row)
	}
	return true
}

func (c *ImpositionsColumn) Compare(a, b DataRow) int {
	av, bv := c.GetNumber(a), c.GetNumber(b)
	if res, ok := compareMissing(math.IsNaN(av), math.IsNaN(bv)); ok {
		return res
	}
	return compareFloat(av, bv)
}

func (c *ImpositionsColumn) Group(row DataRow) *Group {
	if w := c.wrapper(); w != nil {
		return w.Group(row)
	}
	return DefaultGroup()
}
