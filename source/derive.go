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

package source

import (
	"encoding/json"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/erank"
)

const (
	// SampleSize 推断类型时每列最多检查的非缺失值数量
	SampleSize = 100
	// MaxCategories 超过这个数量的不同取值不再视为分类
	MaxCategories = 50
	// 不同取值占样本的比例低于它时视为分类
	categoricalRatio = 0.7
)

// Derive 按 t.Columns 的顺序为每一列推断描述符
func Derive(t *Table) []*erank.ColumnDesc {
	return slice.Map(t.Columns, func(_ int, name string) *erank.ColumnDesc {
		return deriveDesc(name, t.Column(name))
	})
}

func deriveDesc(name string, all []any) *erank.ColumnDesc {
	desc := &erank.ColumnDesc{Type: erank.TypeString, Label: name, Column: name}
	vals := sample(all)
	if len(vals) == 0 {
		return desc
	}
	switch {
	case every(vals, isBool):
		desc.Type = erank.TypeBoolean
	case every(vals, isNumber):
		desc.Type = erank.TypeNumber
		desc.Domain = domain(all)
	case every(vals, isNumberArray):
		desc.Type = erank.TypeNumbers
		desc.Domain = arrayDomain(all)
	case every(vals, isObject):
		desc.Type = erank.TypeMap
	case every(vals, isDate):
		desc.Type = erank.TypeDates
	default:
		if cats, ok := categories(vals); ok {
			desc.Type = erank.TypeCategorical
			desc.Categories = slice.Map(cats, func(_ int, c string) erank.CategoryDesc {
				return erank.CategoryDesc{Name: c}
			})
		}
	}
	return desc
}

func sample(all []any) []any {
	res := make([]any, 0, min(len(all), SampleSize))
	for _, v := range all {
		if len(res) >= SampleSize {
			break
		}
		if !erank.IsMissingValue(v) {
			res = append(res, v)
		}
	}
	return res
}

func every(vals []any, pred func(v any) bool) bool {
	for _, v := range vals {
		if !pred(v) {
			return false
		}
	}
	return true
}

func isBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return true
	case string:
		s := strings.TrimSpace(b)
		return strings.EqualFold(s, "true") || strings.EqualFold(s, "false")
	}
	return false
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n)
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

func isNumber(v any) bool {
	_, ok := number(v)
	return ok
}

func isNumberArray(v any) bool {
	switch arr := v.(type) {
	case []float64, []int:
		return true
	case []any:
		for _, e := range arr {
			if e != nil && !isNumber(e) {
				return false
			}
		}
		return true
	}
	return false
}

func isObject(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}

func isDate(v any) bool {
	switch d := v.(type) {
	case time.Time:
		return true
	case string:
		_, err := dateparse.ParseAny(strings.TrimSpace(d))
		return err == nil
	}
	return false
}

func domain(all []any) []float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range all {
		if f, ok := number(v); ok {
			lo, hi = min(lo, f), max(hi, f)
		}
	}
	return fixDomain(lo, hi)
}

func arrayDomain(all []any) []float64 {
	var flat []any
	for _, v := range all {
		switch arr := v.(type) {
		case []any:
			flat = append(flat, arr...)
		case []float64:
			for _, f := range arr {
				flat = append(flat, f)
			}
		case []int:
			for _, i := range arr {
				flat = append(flat, i)
			}
		}
	}
	return domain(flat)
}

// fixDomain 保证 lo < hi，只有一个取值时向上扩展 1
func fixDomain(lo, hi float64) []float64 {
	if math.IsInf(lo, 1) {
		return []float64{0, 1}
	}
	if lo == hi {
		hi = lo + 1
	}
	return []float64{lo, hi}
}

// categories 返回排好序的不同取值
func categories(vals []any) ([]string, bool) {
	set := make(map[string]struct{})
	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			return nil, false
		}
		set[strings.TrimSpace(s)] = struct{}{}
	}
	if len(set) > MaxCategories || float64(len(set)) >= float64(len(vals))*categoricalRatio {
		return nil, false
	}
	res := make([]string, 0, len(set))
	for k := range set {
		res = append(res, k)
	}
	slices.Sort(res)
	return res, true
}
