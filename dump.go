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
	"encoding/json"
	"math"
)

// Dump 可以序列化为 JSON 的状态快照。
// 读取时同时兼容内存中的 Go 类型和 encoding/json 解码出的类型。
type Dump map[string]any

// DescRefFunc 把描述符转换为 dump 中的引用
type DescRefFunc func(desc *ColumnDesc) any

// Factory 从列的 dump 创建列，失败时返回 nil
type Factory func(dump Dump) Column

func (d Dump) Has(key string) bool {
	v, ok := d[key]
	return ok && v != nil
}

func (d Dump) String(key string) (string, bool) {
	s, ok := d[key].(string)
	return s, ok
}

func (d Dump) Bool(key string) (bool, bool) {
	b, ok := d[key].(bool)
	return b, ok
}

func (d Dump) Float(key string) (float64, bool) {
	v, ok := d[key]
	if !ok || v == nil {
		return 0, false
	}
	f := toNumber(v)
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func (d Dump) Int(key string) (int, bool) {
	f, ok := d.Float(key)
	return int(f), ok
}

func (d Dump) Dump(key string) (Dump, bool) {
	return asDump(d[key])
}

// Slice 以 []any 返回数组类型的字段
func (d Dump) Slice(key string) ([]any, bool) {
	return asSlice(d[key])
}

func (d Dump) Strings(key string) ([]string, bool) {
	arr, ok := asSlice(d[key])
	if !ok {
		return nil, false
	}
	res := make([]string, 0, len(arr))
	for _, v := range arr {
		if s, ok := v.(string); ok {
			res = append(res, s)
		}
	}
	return res, true
}

func (d Dump) Floats(key string) ([]float64, bool) {
	arr, ok := asSlice(d[key])
	if !ok {
		return nil, false
	}
	res := make([]float64, 0, len(arr))
	for _, v := range arr {
		res = append(res, toNumber(v))
	}
	return res, true
}

func (d Dump) Ints(key string) ([]int, bool) {
	fs, ok := d.Floats(key)
	if !ok {
		return nil, false
	}
	res := make([]int, 0, len(fs))
	for _, f := range fs {
		if !math.IsNaN(f) {
			res = append(res, int(f))
		}
	}
	return res, true
}

// Dumps 以 []Dump 返回对象数组，非对象的元素被忽略
func (d Dump) Dumps(key string) ([]Dump, bool) {
	arr, ok := asSlice(d[key])
	if !ok {
		return nil, false
	}
	res := make([]Dump, 0, len(arr))
	for _, v := range arr {
		if sub, ok := asDump(v); ok {
			res = append(res, sub)
		}
	}
	return res, true
}

// Clone 深拷贝
func (d Dump) Clone() Dump {
	if d == nil {
		return nil
	}
	return cloneValue(d).(Dump)
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case Dump:
		res := make(Dump, len(x))
		for k, e := range x {
			res[k] = cloneValue(e)
		}
		return res
	case map[string]any:
		res := make(map[string]any, len(x))
		for k, e := range x {
			res[k] = cloneValue(e)
		}
		return res
	case []any:
		res := make([]any, len(x))
		for i, e := range x {
			res[i] = cloneValue(e)
		}
		return res
	case []Dump:
		res := make([]Dump, len(x))
		for i, e := range x {
			res[i] = cloneValue(e).(Dump)
		}
		return res
	case []string:
		return append([]string(nil), x...)
	case []float64:
		return append([]float64(nil), x...)
	case []int:
		return append([]int(nil), x...)
	default:
		return v
	}
}

// Normalize 经过一次 JSON 往返，得到与从文件恢复时一致的类型
func (d Dump) Normalize() (Dump, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	var res Dump
	err = json.Unmarshal(data, &res)
	return res, err
}

func asDump(v any) (Dump, bool) {
	switch x := v.(type) {
	case Dump:
		return x, true
	case map[string]any:
		return Dump(x), true
	default:
		return nil, false
	}
}

func asSlice(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case []Dump:
		res := make([]any, len(x))
		for i, e := range x {
			res[i] = e
		}
		return res, true
	case []string:
		res := make([]any, len(x))
		for i, e := range x {
			res[i] = e
		}
		return res, true
	case []float64:
		res := make([]any, len(x))
		for i, e := range x {
			res[i] = e
		}
		return res, true
	case []int:
		res := make([]any, len(x))
		for i, e := range x {
			res[i] = e
		}
		return res, true
	default:
		return nil, false
	}
}
