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
	"regexp"
	"strings"

	"github.com/ecodeclub/erank/internal/stats"
	"github.com/valyala/bytebufferpool"
)

// SearchAndJump 不区分大小写地在 col 的标签中查找 search，
// 找到时触发 jumpToNearest
func (p *Provider) SearchAndJump(ctx context.Context, search string, col Column) ([]int, error) {
	needle := strings.ToLower(search)
	return p.searchAndJump(ctx, col, func(label string) bool {
		return strings.Contains(strings.ToLower(label), needle)
	})
}

func (p *Provider) SearchAndJumpRegexp(ctx context.Context, re *regexp.Regexp, col Column) ([]int, error) {
	return p.searchAndJump(ctx, col, re.MatchString)
}

func (p *Provider) searchAndJump(ctx context.Context, col Column, match func(string) bool) ([]int, error) {
	indices, err := p.storage.Search(ctx, col, match)
	if err != nil {
		return nil, err
	}
	p.JumpToNearest(indices)
	return indices, nil
}

func (p *Provider) JumpToNearest(indices []int) {
	if len(indices) == 0 {
		return
	}
	p.fire([]string{EventJumpToNearest}, indices)
}

func (p *Provider) MappingSample(ctx context.Context, col NumberValued) ([]float64, error) {
	return p.storage.MappingSample(ctx, col)
}

// StatsBuilder 在一组行上计算列的统计信息
type StatsBuilder struct {
	rows []DataRow
}

// Stats indices 为 nil 时使用全部数据
func (p *Provider) Stats(ctx context.Context, indices []int) (*StatsBuilder, error) {
	var (
		rows []DataRow
		err  error
	)
	if indices == nil {
		rows, err = p.storage.Rows(ctx)
	} else {
		rows, err = p.storage.View(ctx, indices)
	}
	if err != nil {
		return nil, err
	}
	return &StatsBuilder{rows: rows}, nil
}

// Number 映射之后的数值分布在 [0, 1] 上的直方图
func (b *StatsBuilder) Number(col NumberValued) stats.Statistics {
	vals := make([]float64, len(b.rows))
	for i, row := range b.rows {
		vals[i] = col.GetNumber(row)
	}
	return stats.ComputeStatistics(vals, 0, 1, 0)
}

// RawNumber 原始值在数据范围上的直方图
func (b *StatsBuilder) RawNumber(col NumberValued) stats.Statistics {
	vals := make([]float64, len(b.rows))
	for i, row := range b.rows {
		vals[i] = col.GetRawNumber(row)
	}
	return stats.ComputeStatistics(vals, math.NaN(), math.NaN(), 0)
}

func (b *StatsBuilder) BoxPlot(col NumberValued) stats.BoxPlot {
	vals := make([]float64, len(b.rows))
	for i, row := range b.rows {
		vals[i] = col.GetNumber(row)
	}
	return stats.ComputeBoxPlot(vals)
}

func (b *StatsBuilder) Categorical(col Categorical) stats.CategoricalStatistics {
	cats := col.Categories()
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.Name
	}
	vals := make([]string, len(b.rows))
	for i, row := range b.rows {
		if c := col.GetCategory(row); c != nil {
			vals[i] = c.Name
		}
	}
	return stats.ComputeCategoricalStatistics(names, vals)
}

// ExportOptions 导出表格的格式
type ExportOptions struct {
	Separator string
	Newline   string
	Header    bool
	Quote     bool
	QuoteChar string
	// Filter 为 nil 时导出所有非辅助列
	Filter func(col Column) bool
}

func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		Separator: "\t",
		Newline:   "\n",
		Header:    true,
		QuoteChar: `"`,
	}
}

// ExportTable 按 r 当前的顺序导出。r 还没有排过序时临时计算一次顺序。
func (p *Provider) ExportTable(ctx context.Context, r *Ranking, opts ExportOptions) (string, error) {
	order := r.Order()
	if len(r.Groups()) == 0 {
		res := p.handler(ctx, &SortContext{Reason: SortReasonExport, Ranking: r})
		if res.Err != nil {
			return "", res.Err
		}
		order = nil
		for _, g := range res.Groups {
			order = append(order, g.Order...)
		}
	}
	rows, err := p.storage.View(ctx, order)
	if err != nil {
		return "", err
	}
	filter := opts.Filter
	if filter == nil {
		filter = func(col Column) bool {
			return !IsSupportType(col.Type())
		}
	}
	var cols []Column
	for _, c := range r.FlatColumns() {
		if filter(c) {
			cols = append(cols, c)
		}
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	quote := func(s string) {
		if !opts.Quote {
			_, _ = buf.WriteString(s)
			return
		}
		_, _ = buf.WriteString(opts.QuoteChar)
		_, _ = buf.WriteString(strings.ReplaceAll(s, opts.QuoteChar, opts.QuoteChar+opts.QuoteChar))
		_, _ = buf.WriteString(opts.QuoteChar)
	}
	line := func(vals func(c Column) string) {
		for i, c := range cols {
			if i > 0 {
				_, _ = buf.WriteString(opts.Separator)
			}
			quote(vals(c))
		}
		_, _ = buf.WriteString(opts.Newline)
	}
	if opts.Header {
		line(Column.Label)
	}
	for _, row := range rows {
		line(func(c Column) string {
			return c.GetLabel(row)
		})
	}
	return buf.String(), nil
}
