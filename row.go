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
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ecodeclub/erank/internal/model"
	"github.com/ecodeclub/erank/internal/stats"
)

// DataRow 一行数据，I 是它在数据源中的下标
type DataRow struct {
	I int
	V any
}

// Accessor 从一行中读取 desc 对应的原始值
type Accessor func(row DataRow, desc *ColumnDesc) any

var rowMetas = model.NewMetaRegistry()

// DefaultAccessor 按 desc.Column 读取原始值，支持：
// map[string]any、map[string]string、[]any、[]string（列名为下标）以及结构体。
func DefaultAccessor(row DataRow, desc *ColumnDesc) any {
	col := desc.Column
	switch v := row.V.(type) {
	case nil:
		return nil
	case map[string]any:
		return v[col]
	case map[string]string:
		s, ok := v[col]
		if !ok {
			return nil
		}
		return s
	case []any:
		if i, err := strconv.Atoi(col); err == nil && i >= 0 && i < len(v) {
			return v[i]
		}
		return nil
	case []string:
		if i, err := strconv.Atoi(col); err == nil && i >= 0 && i < len(v) {
			return v[i]
		}
		return nil
	default:
		meta, err := rowMetas.Get(v)
		if err != nil {
			return nil
		}
		res, _ := meta.Value(v, col)
		return res
	}
}

// DeriveDescs 根据结构体的字段和 erank tag 生成描述符，
// 字段顺序即列顺序
func DeriveDescs(row any) ([]*ColumnDesc, error) {
	meta, err := rowMetas.Get(row)
	if err != nil {
		return nil, err
	}
	res := make([]*ColumnDesc, 0, len(meta.Fields))
	for _, f := range meta.Fields {
		res = append(res, &ColumnDesc{Type: f.ColumnType, Label: f.Label, Column: f.ColumnName})
	}
	return res, nil
}

// toNumber 转换为 float64，无法转换时返回 NaN
func toNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case string:
		if IsMissingValue(n) {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	case []byte:
		return toNumber(string(n))
	default:
		return math.NaN()
	}
}

// toNumbers 把数组类的原始值转换为 []float64，非数组返回 nil
func toNumbers(v any) []float64 {
	switch arr := v.(type) {
	case nil:
		return nil
	case []float64:
		return arr
	case []int:
		return stats.ToFloats(arr)
	case []int64:
		return stats.ToFloats(arr)
	case []any:
		res := make([]float64, len(arr))
		for i, e := range arr {
			res[i] = toNumber(e)
		}
		return res
	case []string:
		res := make([]float64, len(arr))
		for i, e := range arr {
			res[i] = toNumber(e)
		}
		return res
	default:
		return nil
	}
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	case float64:
		return formatNumber(s)
	default:
		return fmt.Sprint(v)
	}
}

// formatNumber 最短的精确表示，NaN 为空串
func formatNumber(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
