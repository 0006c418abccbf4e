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

// Package colorpool 按顺序分配分类颜色。
// 调色板用完后按黄金角在 HSV 色环上继续生成。
package colorpool

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Category10 常用的十色分类调色板
var Category10 = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

const (
	goldenAngle = 137.508
	// DefaultColor 缺失值和兜底分组使用的颜色
	DefaultColor = "#c1c1c1"
)

// Pool 颜色生成器，非并发安全
type Pool struct {
	palette []string
	next    int
}

func New() *Pool {
	return NewWithPalette(Category10)
}

func NewWithPalette(palette []string) *Pool {
	return &Pool{palette: palette}
}

// Next 返回下一个颜色
func (p *Pool) Next() string {
	i := p.next
	p.next++
	if i < len(p.palette) {
		return p.palette[i]
	}
	k := i - len(p.palette)
	h := math.Mod(float64(k+1)*goldenAngle, 360)
	return colorful.Hsv(h, 0.6, 0.85).Hex()
}

// Reset 从头开始分配
func (p *Pool) Reset() {
	p.next = 0
}

// Normalize 把合法的颜色统一为小写的 #rrggbb，非法值原样返回
func Normalize(c string) string {
	col, err := colorful.Hex(c)
	if err != nil {
		return c
	}
	return col.Hex()
}

// Blend 在 Lab 空间中按 t 混合两个颜色，t 取 [0,1]
func Blend(a, b string, t float64) string {
	ca, err := colorful.Hex(a)
	if err != nil {
		return b
	}
	cb, err := colorful.Hex(b)
	if err != nil {
		return a
	}
	return ca.BlendLab(cb, t).Clamped().Hex()
}
