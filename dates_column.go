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
	"time"

	"github.com/araddon/dateparse"
	"github.com/ecodeclub/erank/internal/stats"
)

// DefaultDateFormat dates 列默认的 Go 时间格式
const DefaultDateFormat = "2006-01-02"

// DatesColumn 日期数组列
type DatesColumn struct {
	ValueColumn
	format     string
	parse      string
	sortMethod string
}

func NewDatesColumn(id string, desc *ColumnDesc) *DatesColumn {
	c := &DatesColumn{}
	c.initValue(c, id, desc, EventSortMethodChanged)
	c.format = desc.DateFormat
	if c.format == "" {
		c.format = DefaultDateFormat
	}
	c.parse = desc.DateParse
	if c.parse == "" {
		c.parse = c.format
	}
	c.sortMethod = stats.MethodMedian
	if isDatesSortMethod(desc.Sort) {
		c.sortMethod = desc.Sort
	}
	c.setDefaultRenderer("default")
	return c
}

func isDatesSortMethod(m string) bool {
	return m == stats.MethodMin || m == stats.MethodMax || m == stats.MethodMedian
}

// ParseDate 先按 layout 解析，失败时交给 dateparse 猜测格式。
// 数字被当作 Unix 毫秒。无法解析时返回零值。
func ParseDate(v any, layout string) time.Time {
	switch d := v.(type) {
	case time.Time:
		return d
	case *time.Time:
		if d == nil {
			return time.Time{}
		}
		return *d
	case string:
		s := strings.TrimSpace(d)
		if IsMissingValue(s) {
			return time.Time{}
		}
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
		if t, err := dateparse.ParseAny(s); err == nil {
			return t
		}
		return time.Time{}
	default:
		n := toNumber(v)
		if math.IsNaN(n) {
			return time.Time{}
		}
		return time.UnixMilli(int64(n)).UTC()
	}
}

// GetDates 解析后的日期，无法解析的元素为零值。单个值被当作长度为 1 的数组。
func (c *DatesColumn) GetDates(row DataRow) []time.Time {
	var raws []any
	switch v := c.GetRaw(row).(type) {
	case nil:
		return nil
	case []time.Time:
		return v
	case []any:
		raws = v
	case []string:
		raws = make([]any, len(v))
		for i, s := range v {
			raws[i] = s
		}
	default:
		raws = []any{v}
	}
	res := make([]time.Time, len(raws))
	for i, r := range raws {
		res[i] = ParseDate(r, c.parse)
	}
	return res
}

func (c *DatesColumn) GetValue(row DataRow) any {
	return c.GetDates(row)
}

func (c *DatesColumn) validMillis(row DataRow) []float64 {
	dates := c.GetDates(row)
	res := make([]float64, 0, len(dates))
	for _, d := range dates {
		if !d.IsZero() {
			res = append(res, float64(d.UnixMilli()))
		}
	}
	return res
}

// IsMissing 没有任何有效日期
func (c *DatesColumn) IsMissing(row DataRow) bool {
	return len(c.validMillis(row)) == 0
}

func (c *DatesColumn) GetLabels(row DataRow) []string {
	dates := c.GetDates(row)
	res := make([]string, len(dates))
	for i, d := range dates {
		if !d.IsZero() {
			res[i] = d.Format(c.format)
		}
	}
	return res
}

func (c *DatesColumn) GetLabel(row DataRow) string {
	return strings.Join(c.GetLabels(row), ", ")
}

func (c *DatesColumn) Compare(a, b DataRow) int {
	av, bv := c.validMillis(a), c.validMillis(b)
	if res, ok := compareMissing(len(av) == 0, len(bv) == 0); ok {
		return res
	}
	return compareFloat(stats.Reduce(c.sortMethod, av), stats.Reduce(c.sortMethod, bv))
}

func (c *DatesColumn) SortMethod() string {
	return c.sortMethod
}

// SetSortMethod 只支持 min、max、median
func (c *DatesColumn) SetSortMethod(m string) {
	if m == c.sortMethod || !isDatesSortMethod(m) {
		return
	}
	old := c.sortMethod
	c.sortMethod = m
	c.fire(with(EventSortMethodChanged, valuesDirty), old, m)
	sortByMeIfNeeded(c)
}

func (c *DatesColumn) Dump(toDescRef DescRefFunc) Dump {
	r := c.ColumnBase.Dump(toDescRef)
	r["sortMethod"] = c.sortMethod
	return r
}

func (c *DatesColumn) Restore(dump Dump, factory Factory) {
	c.ColumnBase.Restore(dump, factory)
	if m, ok := dump.String("sortMethod"); ok && isDatesSortMethod(m) {
		c.sortMethod = m
	}
}
