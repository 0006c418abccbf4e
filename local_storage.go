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
	"context"
	"math"
	"slices"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/erank/internal/errs"
	"github.com/ecodeclub/erank/internal/stats"
)

const maxMappingSample = 5000

// LocalStorage 全部在内存中的数据源
type LocalStorage struct {
	rows   []DataRow
	descs  []*ColumnDesc
	lookup map[string]*ColumnDesc
}

func NewLocalStorage(rows []any, descs []*ColumnDesc) *LocalStorage {
	s := &LocalStorage{
		rows: slice.Map(rows, func(i int, v any) DataRow {
			return DataRow{I: i, V: v}
		}),
		descs:  descs,
		lookup: make(map[string]*ColumnDesc, len(descs)),
	}
	for _, d := range descs {
		s.lookup[DescRef(d)] = d
	}
	return s
}

func (s *LocalStorage) TotalRows() int {
	return len(s.rows)
}

func (s *LocalStorage) Columns() []*ColumnDesc {
	return slices.Clone(s.descs)
}

func (s *LocalStorage) FindDesc(ref string) *ColumnDesc {
	return s.lookup[ref]
}

func (s *LocalStorage) Rows(ctx context.Context) ([]DataRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(s.rows), nil
}

// View 越界的下标返回错误
func (s *LocalStorage) View(ctx context.Context, indices []int) ([]DataRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res := make([]DataRow, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= len(s.rows) {
			return nil, errs.NewInvalidRowIndexError(idx)
		}
		res[i] = s.rows[idx]
	}
	return res, nil
}

func (s *LocalStorage) Search(ctx context.Context, col Column, match func(label string) bool) ([]int, error) {
	var res []int
	for _, row := range s.rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if match(col.GetLabel(row)) {
			res = append(res, row.I)
		}
	}
	return res, nil
}

// MappingSample 行数过多时等间隔抽样，缺失值被忽略
func (s *LocalStorage) MappingSample(ctx context.Context, col NumberValued) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	step := max(1, len(s.rows)/maxMappingSample)
	res := make([]float64, 0, min(len(s.rows), maxMappingSample))
	for i := 0; i < len(s.rows); i += step {
		if v := col.GetRawNumber(s.rows[i]); !math.IsNaN(v) {
			res = append(res, v)
		}
	}
	return res, nil
}

type bucket struct {
	group *Group
	rows  []DataRow
}

// Sort 过滤、按分组条件逐层分组，组内稳定排序，排序值相同时保持数据源中的顺序
func (s *LocalStorage) Sort(ctx context.Context, r *Ranking) ([]*Group, error) {
	criteria := r.SortCriteria()
	groupCriteria := r.GroupCriteria()

	lookup := make(map[string]*bucket)
	var buckets []*bucket
	for _, row := range s.rows {
		if row.I%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if !r.Filter(row) {
			continue
		}
		g := groupOf(row, groupCriteria)
		id := escapedID(g)
		b, ok := lookup[id]
		if !ok {
			b = &bucket{group: g}
			lookup[id] = b
			buckets = append(buckets, b)
		}
		b.rows = append(b.rows, row)
	}

	cmp := func(a, b DataRow) int {
		for _, c := range criteria {
			res := c.Col.Compare(a, b)
			if !c.Asc {
				res = -res
			}
			if res != 0 {
				return res
			}
		}
		return a.I - b.I
	}
	for _, b := range buckets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		slices.SortStableFunc(b.rows, cmp)
		b.group.Order = slice.Map(b.rows, func(_ int, row DataRow) int {
			return row.I
		})
	}
	buckets = sortBuckets(buckets, 0, r.GroupSortCriteria())

	groups := slice.Map(buckets, func(_ int, b *bucket) *Group {
		return b.group
	})
	unifyParents(groups)
	return groups, nil
}

// groupOf 每个分组条件产生一层分组
func groupOf(row DataRow, cols []Column) *Group {
	if len(cols) == 0 {
		return DefaultGroup()
	}
	var parent *Group
	for _, c := range cols {
		g := c.Group(row)
		parent = &Group{Name: g.Name, Color: g.Color, Parent: parent}
	}
	return parent
}

// sibling 同一个父分组下名称相同的所有叶子
type sibling struct {
	name    string
	buckets []*bucket
	rows    []DataRow
}

// sortBuckets 逐层排序第 depth 层及更深的分组，同一个父分组的叶子保持相邻。
// 有分组排序条件时按条件比较，否则按名称，Others 和 Missing values 排在最后。
func sortBuckets(buckets []*bucket, depth int, criteria []SortCriteria) []*bucket {
	if len(buckets) == 0 || depth >= len(buckets[0].group.Path()) {
		return buckets
	}
	lookup := make(map[string]*sibling)
	var siblings []*sibling
	for _, b := range buckets {
		name := b.group.Path()[depth].Name
		s, ok := lookup[name]
		if !ok {
			s = &sibling{name: name}
			lookup[name] = s
			siblings = append(siblings, s)
		}
		s.buckets = append(s.buckets, b)
		s.rows = append(s.rows, b.rows...)
	}
	slices.SortStableFunc(siblings, func(a, b *sibling) int {
		for _, c := range criteria {
			res := compareFloat(groupValue(c.Col, a.rows), groupValue(c.Col, b.rows))
			if !c.Asc {
				res = -res
			}
			if res != 0 {
				return res
			}
		}
		return compareGroupName(a.name, b.name)
	})
	res := make([]*bucket, 0, len(buckets))
	for _, s := range siblings {
		res = append(res, sortBuckets(s.buckets, depth+1, criteria)...)
	}
	return res
}

// groupValue 数值列取组内的中位数，其他列取组的大小
func groupValue(col Column, rows []DataRow) float64 {
	n, ok := col.(NumberValued)
	if !ok {
		return float64(len(rows))
	}
	vals := slice.Map(rows, func(_ int, row DataRow) float64 {
		return n.GetNumber(row)
	})
	v := stats.Reduce(stats.MethodMedian, vals)
	if math.IsNaN(v) {
		return math.Inf(-1)
	}
	return v
}

func compareGroupName(a, b string) int {
	rank := func(n string) int {
		switch n {
		case OthersGroupName:
			return 1
		case MissingGroupName:
			return 2
		}
		return 0
	}
	if ra, rb := rank(a), rank(b); ra != rb {
		return ra - rb
	}
	return compareStrings(a, b)
}
