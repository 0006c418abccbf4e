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
)

// StackColumn 子列数值的加权和，权重之和为 1
type StackColumn struct {
	CompositeNumberColumn
	weights []float64
}

func NewStackColumn(id string, desc *ColumnDesc) *StackColumn {
	c := &StackColumn{}
	c.initCompositeNumber(c, id, desc, c.weightedSum, EventWeightsChanged)
	c.setDefaultRenderer("stack")
	c.setDefaultGroupRenderer("stack")
	c.setDefaultSummaryRenderer("default")
	return c
}

// weightedSum 缺失的子列按 0 计，全部缺失时为 NaN
func (c *StackColumn) weightedSum(row DataRow) float64 {
	var res float64
	valid := false
	for i, child := range c.children {
		v := child.(NumberValued).GetNumber(row)
		if math.IsNaN(v) {
			continue
		}
		valid = true
		res += v * c.weights[i]
	}
	if !valid {
		return math.NaN()
	}
	return res
}

func (c *StackColumn) Weights() []float64 {
	return slices.Clone(c.weights)
}

// SetWeights 长度与子列数量不一致或者和不为正时被忽略，其余情况归一化后生效
func (c *StackColumn) SetWeights(weights []float64) {
	if len(weights) != len(c.children) {
		return
	}
	w, ok := normalizeWeights(weights)
	if !ok || slices.Equal(w, c.weights) {
		return
	}
	old := c.weights
	c.weights = w
	c.fire([]string{EventWeightsChanged, EventDirtyHeader, EventDirtyValues, EventDirty}, old, slices.Clone(w))
}

func normalizeWeights(weights []float64) ([]float64, bool) {
	var sum float64
	for _, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, false
		}
		sum += w
	}
	if sum <= 0 {
		return nil, false
	}
	res := make([]float64, len(weights))
	for i, w := range weights {
		res[i] = w / sum
	}
	return res, true
}

// inserted 新子列取 1/n 的权重，其余按比例缩小
func (c *StackColumn) inserted(_ Column, index int) {
	n := float64(len(c.children))
	for i := range c.weights {
		c.weights[i] *= (n - 1) / n
	}
	c.weights = slices.Insert(c.weights, index, 1/n)
}

func (c *StackColumn) removed(_ Column, index int) {
	c.weights = slices.Delete(c.weights, index, index+1)
	if w, ok := normalizeWeights(c.weights); ok {
		c.weights = w
	}
}

func (c *StackColumn) Dump(toDescRef DescRefFunc) Dump {
	r := c.CompositeColumn.Dump(toDescRef)
	r["weights"] = slices.Clone(c.weights)
	return r
}

func (c *StackColumn) Restore(dump Dump, factory Factory) {
	c.CompositeColumn.Restore(dump, factory)
	if w, ok := dump.Floats("weights"); ok && len(w) == len(c.children) {
		if n, ok := normalizeWeights(w); ok {
			c.weights = n
		}
	}
}
