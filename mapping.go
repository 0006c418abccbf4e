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
	"sort"

	"github.com/ecodeclub/erank/internal/script"
)

const (
	MappingLinear = "linear"
	MappingScript = "script"

	// DefaultMappingScript 脚本映射的默认代码
	DefaultMappingScript = "return linear(value, value_min, value_max)"
)

// MappingFunction 把原始数值映射到 [0, 1] 附近的区间
type MappingFunction interface {
	Apply(v float64) float64
	// Domain 原始值的区间
	Domain() []float64
	Clone() MappingFunction
	Eq(o MappingFunction) bool
	Dump() Dump
}

// ScaleMappingFunction 分段线性映射，超出 domain 的值被截断
type ScaleMappingFunction struct {
	domain []float64
	rng    []float64
}

// NewScaleMappingFunction domain 和 rng 的长度不一致时按较短的截断，
// 少于两个点时使用 [0, 1]
func NewScaleMappingFunction(domain, rng []float64) *ScaleMappingFunction {
	n := min(len(domain), len(rng))
	if n < 2 {
		if len(domain) >= 2 {
			return &ScaleMappingFunction{domain: slices.Clone(domain[:2]), rng: []float64{0, 1}}
		}
		return &ScaleMappingFunction{domain: []float64{0, 1}, rng: []float64{0, 1}}
	}
	return &ScaleMappingFunction{domain: slices.Clone(domain[:n]), rng: slices.Clone(rng[:n])}
}

func (s *ScaleMappingFunction) Domain() []float64 {
	return slices.Clone(s.domain)
}

func (s *ScaleMappingFunction) Range() []float64 {
	return slices.Clone(s.rng)
}

func (s *ScaleMappingFunction) Apply(v float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	d, r := s.domain, s.rng
	asc := d[0] <= d[len(d)-1]
	// 找到 v 所在的分段
	i := sort.Search(len(d)-1, func(i int) bool {
		if asc {
			return v <= d[i+1]
		}
		return v >= d[i+1]
	})
	if i >= len(d)-1 {
		i = len(d) - 2
	}
	d0, d1, r0, r1 := d[i], d[i+1], r[i], r[i+1]
	if d0 == d1 {
		return r0
	}
	t := (v - d0) / (d1 - d0)
	t = math.Max(0, math.Min(1, t))
	return r0 + t*(r1-r0)
}

func (s *ScaleMappingFunction) Clone() MappingFunction {
	return NewScaleMappingFunction(s.domain, s.rng)
}

func (s *ScaleMappingFunction) Eq(o MappingFunction) bool {
	other, ok := o.(*ScaleMappingFunction)
	return ok && slices.Equal(s.domain, other.domain) && slices.Equal(s.rng, other.rng)
}

func (s *ScaleMappingFunction) Dump() Dump {
	return Dump{
		"type":   MappingLinear,
		"domain": slices.Clone(s.domain),
		"range":  slices.Clone(s.rng),
	}
}

// ScriptMappingFunction 用脚本计算映射，结果截断到 [0, 1]。
// 脚本中可以使用 value、value_min、value_max、data_min、data_max。
type ScriptMappingFunction struct {
	domain []float64
	code   string
	eval   *script.Evaluator
	err    error
}

func NewScriptMappingFunction(domain []float64, code string) *ScriptMappingFunction {
	if len(domain) < 2 {
		domain = []float64{0, 1}
	}
	if code == "" {
		code = DefaultMappingScript
	}
	res := &ScriptMappingFunction{domain: slices.Clone(domain), code: code}
	res.eval, res.err = script.Compile(code)
	return res
}

func (s *ScriptMappingFunction) Code() string {
	return s.code
}

// Err 编译错误，有错误时 Apply 总是返回 NaN
func (s *ScriptMappingFunction) Err() error {
	return s.err
}

func (s *ScriptMappingFunction) Domain() []float64 {
	return slices.Clone(s.domain)
}

func (s *ScriptMappingFunction) Apply(v float64) float64 {
	if s.err != nil {
		return math.NaN()
	}
	lo, hi := s.domain[0], s.domain[len(s.domain)-1]
	res, err := s.eval.Eval(script.Env{Vars: map[string]float64{
		"value":     v,
		"value_min": lo,
		"value_max": hi,
		"data_min":  lo,
		"data_max":  hi,
	}})
	if err != nil || math.IsNaN(res) {
		return math.NaN()
	}
	return math.Max(0, math.Min(1, res))
}

func (s *ScriptMappingFunction) Clone() MappingFunction {
	return NewScriptMappingFunction(s.domain, s.code)
}

func (s *ScriptMappingFunction) Eq(o MappingFunction) bool {
	other, ok := o.(*ScriptMappingFunction)
	return ok && s.code == other.code && slices.Equal(s.domain, other.domain)
}

func (s *ScriptMappingFunction) Dump() Dump {
	return Dump{
		"type":   MappingScript,
		"code":   s.code,
		"domain": slices.Clone(s.domain),
	}
}

// CreateMappingFunction 从 dump 创建映射，未知类型按线性映射处理
func CreateMappingFunction(dump Dump) MappingFunction {
	domain, _ := dump.Floats("domain")
	if t, _ := dump.String("type"); t == MappingScript {
		code, _ := dump.String("code")
		return NewScriptMappingFunction(domain, code)
	}
	rng, ok := dump.Floats("range")
	if !ok {
		rng = []float64{0, 1}
	}
	return NewScaleMappingFunction(domain, rng)
}

// restoreMapping 描述符中的映射，优先使用 Map
func restoreMapping(desc *ColumnDesc) MappingFunction {
	if desc.Map != nil {
		return CreateMappingFunction(desc.Map)
	}
	rng := desc.Range
	if len(rng) == 0 {
		rng = []float64{0, 1}
	}
	return NewScaleMappingFunction(desc.Domain, rng)
}

// restoreMappingDump 列 dump 中的映射，兼容只有 domain 和 range 的旧格式
func restoreMappingDump(dump Dump) (MappingFunction, bool) {
	if m, ok := dump.Dump("map"); ok {
		return CreateMappingFunction(m), true
	}
	if domain, ok := dump.Floats("domain"); ok {
		rng, ok := dump.Floats("range")
		if !ok {
			rng = []float64{0, 1}
		}
		return NewScaleMappingFunction(domain, rng), true
	}
	return nil, false
}
