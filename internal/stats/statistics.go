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
)

// Bin 直方图的一个区间 [X0, X1)，最后一个区间包含 X1
type Bin struct {
	X0    float64 `json:"x0"`
	X1    float64 `json:"x1"`
	Count int     `json:"count"`
}

// Statistics 数值列的汇总统计
type Statistics struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Mean    float64 `json:"mean"`
	Count   int     `json:"count"`
	Missing int     `json:"missing"`
	MaxBin  int     `json:"maxBin"`
	Hist    []Bin   `json:"hist"`
}

// BinCount 按 Sturges 规则估计区间个数
func BinCount(n int) int {
	if n <= 1 {
		return 1
	}
	return int(math.Ceil(math.Log2(float64(n)))) + 1
}

// ComputeStatistics 在 [lo, hi] 上统计直方图，bins <= 0 时自动估计。
// lo 或 hi 为 NaN 时使用数据本身的范围。
func ComputeStatistics(vals []float64, lo, hi float64, bins int) Statistics {
	s := sortedValid(vals)
	res := Statistics{Count: len(s), Missing: len(vals) - len(s)}
	if bins <= 0 {
		bins = BinCount(len(s))
	}
	if len(s) == 0 {
		res.Min, res.Max, res.Mean = math.NaN(), math.NaN(), math.NaN()
		return res
	}
	res.Min = s[0]
	res.Max = s[len(s)-1]
	res.Mean = sum(s) / float64(len(s))
	if math.IsNaN(lo) {
		lo = res.Min
	}
	if math.IsNaN(hi) {
		hi = res.Max
	}
	res.Hist = make([]Bin, bins)
	width := (hi - lo) / float64(bins)
	for i := range res.Hist {
		res.Hist[i] = Bin{X0: lo + float64(i)*width, X1: lo + float64(i+1)*width}
	}
	for _, v := range s {
		if v < lo || v > hi {
			continue
		}
		idx := bins - 1
		if width > 0 {
			idx = int((v - lo) / width)
			if idx >= bins {
				idx = bins - 1
			}
		}
		res.Hist[idx].Count++
	}
	for _, b := range res.Hist {
		if b.Count > res.MaxBin {
			res.MaxBin = b.Count
		}
	}
	return res
}

// CategoricalBin 分类直方图的一项
type CategoricalBin struct {
	Cat   string `json:"cat"`
	Count int    `json:"count"`
}

// CategoricalStatistics 分类列的汇总统计
type CategoricalStatistics struct {
	Hist    []CategoricalBin `json:"hist"`
	Missing int              `json:"missing"`
	MaxBin  int              `json:"maxBin"`
}

// ComputeCategoricalStatistics 按 cats 的顺序统计 values 中每个分类出现的次数，
// 空串视为缺失，不在 cats 中的值被忽略。
func ComputeCategoricalStatistics(cats []string, values []string) CategoricalStatistics {
	idx := make(map[string]int, len(cats))
	res := CategoricalStatistics{Hist: make([]CategoricalBin, len(cats))}
	for i, c := range cats {
		idx[c] = i
		res.Hist[i].Cat = c
	}
	for _, v := range values {
		if v == "" {
			res.Missing++
			continue
		}
		if i, ok := idx[v]; ok {
			res.Hist[i].Count++
		}
	}
	for _, b := range res.Hist {
		if b.Count > res.MaxBin {
			res.MaxBin = b.Count
		}
	}
	return res
}
