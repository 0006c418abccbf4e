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

// NumberValued 可以归约为单个数字的列
type NumberValued interface {
	Column
	// GetNumber 映射后的数字，缺失时为 NaN
	GetNumber(row DataRow) float64
	GetRawNumber(row DataRow) float64
}

// NumbersValued 数组类的数值列
type NumbersValued interface {
	NumberValued
	GetNumbers(row DataRow) []float64
	GetRawNumbers(row DataRow) []float64
	BoxPlot(row DataRow) *stats.LazyBoxPlot
}

// Mappable 带映射函数的数值列
type Mappable interface {
	Column
	Mapping() MappingFunction
	OriginalMapping() MappingFunction
	SetMapping(m MappingFunction)
}

// NumberFilterable 使用 NumberFilter 的列
type NumberFilterable interface {
	Column
	GetFilter() NumberFilter
	SetFilter(f NumberFilter)
}

// NumberFilter 保留 [Min, Max] 之间的原始值
type NumberFilter struct {
	Min           float64
	Max           float64
	FilterMissing bool
}

// NoNumberFilter 不过滤任何行
func NoNumberFilter() NumberFilter {
	return NumberFilter{Min: math.Inf(-1), Max: math.Inf(1)}
}

func (f NumberFilter) IsDummy() bool {
	return math.IsInf(f.Min, -1) && math.IsInf(f.Max, 1) && !f.FilterMissing
}

func (f NumberFilter) Accept(v float64) bool {
	if math.IsNaN(v) {
		return !f.FilterMissing
	}
	return v >= f.Min && v <= f.Max
}

// dump 无穷的边界不写入
func (f NumberFilter) dump() Dump {
	res := Dump{"filterMissing": f.FilterMissing}
	if !math.IsInf(f.Min, 0) {
		res["min"] = f.Min
	}
	if !math.IsInf(f.Max, 0) {
		res["max"] = f.Max
	}
	return res
}

func restoreNumberFilter(v any) NumberFilter {
	res := NoNumberFilter()
	d, ok := asDump(v)
	if !ok {
		return res
	}
	if m, ok := d.Float("min"); ok {
		res.Min = m
	}
	if m, ok := d.Float("max"); ok {
		res.Max = m
	}
	res.FilterMissing, _ = d.Bool("filterMissing")
	return res
}

// numberState number 和 numbers 列共享的映射与过滤状态
type numberState struct {
	col      *ColumnBase
	mapping  MappingFunction
	original MappingFunction
	filter   NumberFilter
}

func (s *numberState) initNumber(col *ColumnBase, desc *ColumnDesc) {
	s.col = col
	s.mapping = restoreMapping(desc)
	s.original = s.mapping.Clone()
	s.filter = NoNumberFilter()
}

// Mapping 返回副本，修改它不会影响列
func (s *numberState) Mapping() MappingFunction {
	return s.mapping.Clone()
}

func (s *numberState) OriginalMapping() MappingFunction {
	return s.original.Clone()
}

func (s *numberState) SetMapping(m MappingFunction) {
	if m == nil || s.mapping.Eq(m) {
		return
	}
	old := s.mapping
	s.mapping = m.Clone()
	s.col.fire(with(EventMappingChanged, valuesDirty), old, s.mapping.Clone())
}

func (s *numberState) GetFilter() NumberFilter {
	return s.filter
}

func (s *numberState) IsFiltered() bool {
	return !s.filter.IsDummy()
}

func (s *numberState) SetFilter(f NumberFilter) {
	if f == s.filter {
		return
	}
	old := s.filter
	s.filter = f
	s.col.fire(with(EventFilterChanged, valuesDirty), old, f)
}

func (s *numberState) dump(r Dump) {
	r["map"] = s.mapping.Dump()
	if !s.filter.IsDummy() {
		r["filter"] = s.filter.dump()
	}
}

func (s *numberState) restore(dump Dump) {
	if m, ok := restoreMappingDump(dump); ok {
		s.mapping = m
	}
	if dump.Has("filter") {
		s.filter = restoreNumberFilter(dump["filter"])
	}
}

// sortByMeIfNeeded 修改归约方式后，没有按这一列排序时改为按它降序排序
func sortByMeIfNeeded(c Column) {
	b := c.base()
	if _, prio := b.IsSortedByMe(); prio < 0 {
		b.SortByMe(false)
	}
}
