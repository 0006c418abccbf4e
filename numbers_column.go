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

	"github.com/ecodeclub/erank/internal/stats"
)

// NumbersColumn 数值数组列，排序和过滤使用 sortMethod 归约后的值
type NumbersColumn struct {
	ValueColumn
	numberState
	sortMethod string
}

func NewNumbersColumn(id string, desc *ColumnDesc) *NumbersColumn {
	c := &NumbersColumn{}
	c.initValue(c, id, desc, EventMappingChanged, EventFilterChanged, EventSortMethodChanged)
	c.initNumber(&c.ColumnBase, desc)
	c.sortMethod = stats.MethodMedian
	if isNumbersSortMethod(desc.Sort) {
		c.sortMethod = desc.Sort
	}
	if n := len(desc.Labels); n > 0 {
		c.setDefaultWidth(math.Min(math.Max(100, float64(n*10)), 500))
	}
	c.setDefaultRenderer("heatmap")
	c.setDefaultSummaryRenderer("histogram")
	return c
}

// isNumbersSortMethod sum 和 count 不能用于排序
func isNumbersSortMethod(m string) bool {
	return stats.IsMethod(m) && m != stats.MethodSum && m != stats.MethodCount
}

// GetRawNumbers 原始数组，缺失的元素为 NaN
func (c *NumbersColumn) GetRawNumbers(row DataRow) []float64 {
	return toNumbers(c.GetRaw(row))
}

// GetNumbers 逐个映射后的数组
func (c *NumbersColumn) GetNumbers(row DataRow) []float64 {
	raw := c.GetRawNumbers(row)
	res := make([]float64, len(raw))
	for i, v := range raw {
		if math.IsNaN(v) {
			res[i] = v
			continue
		}
		res[i] = c.mapping.Apply(v)
	}
	return res
}

func (c *NumbersColumn) GetValue(row DataRow) any {
	return c.GetNumbers(row)
}

func (c *NumbersColumn) GetNumber(row DataRow) float64 {
	return stats.Reduce(c.sortMethod, c.GetNumbers(row))
}

func (c *NumbersColumn) GetRawNumber(row DataRow) float64 {
	return stats.Reduce(c.sortMethod, c.GetRawNumbers(row))
}

// BoxPlot 映射后数值的箱线图，数组缺失时为 nil
func (c *NumbersColumn) BoxPlot(row DataRow) *stats.LazyBoxPlot {
	if c.GetRaw(row) == nil {
		return nil
	}
	return stats.NewLazyBoxPlot(c.GetNumbers(row))
}

func (c *NumbersColumn) RawBoxPlot(row DataRow) *stats.LazyBoxPlot {
	if c.GetRaw(row) == nil {
		return nil
	}
	return stats.NewLazyBoxPlot(c.GetRawNumbers(row))
}

// IsMissing 没有任何有效数字
func (c *NumbersColumn) IsMissing(row DataRow) bool {
	return math.IsNaN(c.GetRawNumber(row))
}

func (c *NumbersColumn) GetLabels(row DataRow) []string {
	vals := c.GetRawNumbers(row)
	res := make([]string, len(vals))
	for i, v := range vals {
		res[i] = formatNumber(v)
	}
	return res
}

func (c *NumbersColumn) GetLabel(row DataRow) string {
	return "[" + strings.Join(c.GetLabels(row), ", ") + "]"
}

func (c *NumbersColumn) Compare(a, b DataRow) int {
	av, bv := c.GetNumber(a), c.GetNumber(b)
	if res, ok := compareMissing(math.IsNaN(av), math.IsNaN(bv)); ok {
		return res
	}
	return compareFloat(av, bv)
}

func (c *NumbersColumn) IsFiltered() bool {
	return c.numberState.IsFiltered()
}

func (c *NumbersColumn) Filter(row DataRow) bool {
	return c.filter.Accept(c.GetRawNumber(row))
}

func (c *NumbersColumn) SortMethod() string {
	return c.sortMethod
}

// SetSortMethod 不支持的方式被忽略
func (c *NumbersColumn) SetSortMethod(m string) {
	if m == c.sortMethod || !isNumbersSortMethod(m) {
		return
	}
	old := c.sortMethod
	c.sortMethod = m
	c.fire(with(EventSortMethodChanged, valuesDirty), old, m)
	sortByMeIfNeeded(c)
}

func (c *NumbersColumn) Dump(toDescRef DescRefFunc) Dump {
	r := c.ColumnBase.Dump(toDescRef)
	r["sortMethod"] = c.sortMethod
	c.numberState.dump(r)
	return r
}

func (c *NumbersColumn) Restore(dump Dump, factory Factory) {
	c.ColumnBase.Restore(dump, factory)
	if m, ok := dump.String("sortMethod"); ok && isNumbersSortMethod(m) {
		c.sortMethod = m
	}
	c.numberState.restore(dump)
}
