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

package stats

import (
	"math"
	"sort"
)

// Element 可以参与统计的数值类型
type Element interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// ToFloats 转换为 float64 切片
func ToFloats[T Element](vals []T) []float64 {
	res := make([]float64, len(vals))
	for i, v := range vals {
		res[i] = float64(v)
	}
	return res
}

// Aggregator 把一组已排序且不含 NaN 的数字归约为一个数字
type Aggregator func(sorted []float64) float64

const (
	MethodMin    = "min"
	MethodMax    = "max"
	MethodMedian = "median"
	MethodMean   = "mean"
	MethodQ1     = "q1"
	MethodQ3     = "q3"
	MethodSum    = "sum"
	MethodCount  = "count"
)

var aggregators = map[string]Aggregator{
	MethodMin: func(s []float64) float64 {
		return s[0]
	},
	MethodMax: func(s []float64) float64 {
		return s[len(s)-1]
	},
	MethodMedian: func(s []float64) float64 {
		return Quantile(s, 0.5)
	},
	MethodMean: func(s []float64) float64 {
		return sum(s) / float64(len(s))
	},
	MethodQ1: func(s []float64) float64 {
		return Quantile(s, 0.25)
	},
	MethodQ3: func(s []float64) float64 {
		return Quantile(s, 0.75)
	},
	MethodSum: sum,
	MethodCount: func(s []float64) float64 {
		return float64(len(s))
	},
}

// IsMethod 判断是否支持该归约方式
func IsMethod(method string) bool {
	_, ok := aggregators[method]
	return ok
}

// Reduce 忽略 NaN 后按 method 归约，没有有效数字时返回 NaN。
// 未知的 method 按 median 处理。
func Reduce(method string, vals []float64) float64 {
	s := sortedValid(vals)
	if len(s) == 0 {
		if method == MethodCount || method == MethodSum {
			return 0
		}
		return math.NaN()
	}
	agg, ok := aggregators[method]
	if !ok {
		agg = aggregators[MethodMedian]
	}
	return agg(s)
}

func sum(s []float64) float64 {
	var res float64
	for _, v := range s {
		res += v
	}
	return res
}

func sortedValid(vals []float64) []float64 {
	s := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			s = append(s, v)
		}
	}
	sort.Float64s(s)
	return s
}

// Quantile 线性插值分位数，sorted 必须已升序排列
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if p <= 0 || n == 1 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	h := float64(n-1) * p
	lo := int(math.Floor(h))
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}
