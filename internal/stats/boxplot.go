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
	"sync"
)

// BoxPlot 箱线图统计量
type BoxPlot struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
	Q1     float64 `json:"q1"`
	Q3     float64 `json:"q3"`
	Mean   float64 `json:"mean"`
	// WhiskerLow 和 WhiskerHigh 是落在 1.5 倍四分位距以内的最远数据点
	WhiskerLow  float64   `json:"whiskerLow"`
	WhiskerHigh float64   `json:"whiskerHigh"`
	Outlier     []float64 `json:"outlier,omitempty"`
	Count       int       `json:"count"`
	Missing     int       `json:"missing"`
}

// ComputeBoxPlot 计算箱线图，NaN 计入 Missing
func ComputeBoxPlot(vals []float64) BoxPlot {
	s := sortedValid(vals)
	res := BoxPlot{Count: len(s), Missing: len(vals) - len(s)}
	if len(s) == 0 {
		nan := math.NaN()
		res.Min, res.Max, res.Median, res.Q1, res.Q3, res.Mean = nan, nan, nan, nan, nan, nan
		res.WhiskerLow, res.WhiskerHigh = nan, nan
		return res
	}
	res.Min = s[0]
	res.Max = s[len(s)-1]
	res.Median = Quantile(s, 0.5)
	res.Q1 = Quantile(s, 0.25)
	res.Q3 = Quantile(s, 0.75)
	res.Mean = sum(s) / float64(len(s))

	iqr := res.Q3 - res.Q1
	low := res.Q1 - 1.5*iqr
	high := res.Q3 + 1.5*iqr
	res.WhiskerLow = res.Max
	res.WhiskerHigh = res.Min
	for _, v := range s {
		if v < low || v > high {
			res.Outlier = append(res.Outlier, v)
			continue
		}
		res.WhiskerLow = math.Min(res.WhiskerLow, v)
		res.WhiskerHigh = math.Max(res.WhiskerHigh, v)
	}
	return res
}

// LazyBoxPlot 第一次访问时才计算的箱线图
type LazyBoxPlot struct {
	once sync.Once
	vals []float64
	bp   BoxPlot
}

func NewLazyBoxPlot(vals []float64) *LazyBoxPlot {
	return &LazyBoxPlot{vals: vals}
}

func (l *LazyBoxPlot) BoxPlot() BoxPlot {
	l.once.Do(func() {
		l.bp = ComputeBoxPlot(l.vals)
		l.vals = nil
	})
	return l.bp
}

// Get 按名称取统计量，支持 Reduce 的所有 method
func (b BoxPlot) Get(method string) float64 {
	switch method {
	case MethodMin:
		return b.Min
	case MethodMax:
		return b.Max
	case MethodQ1:
		return b.Q1
	case MethodQ3:
		return b.Q3
	case MethodMean:
		return b.Mean
	case MethodCount:
		return float64(b.Count)
	case MethodSum:
		if b.Count == 0 {
			return 0
		}
		return b.Mean * float64(b.Count)
	default:
		return b.Median
	}
}
