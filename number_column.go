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
	"sort"

	"github.com/ecodeclub/erank/internal/colorpool"
)

// NumberColumn 单个数值的列
type NumberColumn struct {
	ValueColumn
	numberState
	// thresholds 升序的分组阈值，为空时不分组
	thresholds []float64
}

func NewNumberColumn(id string, desc *ColumnDesc) *NumberColumn {
	c := &NumberColumn{}
	c.initValue(c, id, desc, EventMappingChanged, EventFilterChanged, EventGroupingChanged)
	c.initNumber(&c.ColumnBase, desc)
	c.setDefaultRenderer("number")
	c.setDefaultGroupRenderer("boxplot")
	c.setDefaultSummaryRenderer("histogram")
	return c
}

func (c *NumberColumn) GetRawNumber(row DataRow) float64 {
	return toNumber(c.GetRaw(row))
}

func (c *NumberColumn) GetNumber(row DataRow) float64 {
	v := c.GetRawNumber(row)
	if math.IsNaN(v) {
		return v
	}
	return c.mapping.Apply(v)
}

// GetValue 映射后的数字，缺失时为 NaN
func (c *NumberColumn) GetValue(row DataRow) any {
	return c.GetNumber(row)
}

func (c *NumberColumn) IsMissing(row DataRow) bool {
	return math.IsNaN(c.GetRawNumber(row))
}

// GetLabel 显示原始值
func (c *NumberColumn) GetLabel(row DataRow) string {
	return formatNumber(c.GetRawNumber(row))
}

func (c *NumberColumn) Compare(a, b DataRow) int {
	av, bv := c.GetNumber(a), c.GetNumber(b)
	if res, ok := compareMissing(math.IsNaN(av), math.IsNaN(bv)); ok {
		return res
	}
	return compareFloat(av, bv)
}

func (c *NumberColumn) IsFiltered() bool {
	return c.numberState.IsFiltered()
}

func (c *NumberColumn) Filter(row DataRow) bool {
	return c.filter.Accept(c.GetRawNumber(row))
}

func (c *NumberColumn) GroupThresholds() []float64 {
	return slices.Clone(c.thresholds)
}

// SetGroupThresholds 按阈值把原始值切分为若干组
func (c *NumberColumn) SetGroupThresholds(thresholds []float64) {
	t := slices.Clone(thresholds)
	slices.Sort(t)
	t = slices.Compact(t)
	if slices.Equal(t, c.thresholds) {
		return
	}
	old := c.thresholds
	c.thresholds = t
	c.fire(with(EventGroupingChanged, valuesDirty), old, slices.Clone(t))
}

func (c *NumberColumn) Group(row DataRow) *Group {
	v := c.GetRawNumber(row)
	if math.IsNaN(v) {
		return MissingGroup()
	}
	n := len(c.thresholds)
	if n == 0 {
		return DefaultGroup()
	}
	i := sort.Search(n, func(i int) bool {
		return c.thresholds[i] > v
	})
	var name string
	switch i {
	case 0:
		name = "< " + formatNumber(c.thresholds[0])
	case n:
		name = ">= " + formatNumber(c.thresholds[n-1])
	default:
		name = formatNumber(c.thresholds[i-1]) + " - " + formatNumber(c.thresholds[i])
	}
	color := colorpool.Blend("#ffffff", c.Color(), float64(i+1)/float64(n+1))
	return &Group{Name: name, Color: color}
}

func (c *NumberColumn) Dump(toDescRef DescRefFunc) Dump {
	r := c.ColumnBase.Dump(toDescRef)
	c.numberState.dump(r)
	if len(c.thresholds) > 0 {
		r["groupThresholds"] = slices.Clone(c.thresholds)
	}
	return r
}

func (c *NumberColumn) Restore(dump Dump, factory Factory) {
	c.ColumnBase.Restore(dump, factory)
	c.numberState.restore(dump)
	if t, ok := dump.Floats("groupThresholds"); ok {
		c.thresholds = t
	}
}
