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

package rows

import (
	"strconv"
	"strings"
)

// ScanMaps 读取全部结果，每行以列名为 key。
// 驱动返回的 []byte 按数据库列类型转换为数字或字符串。
// 调用方负责关闭 rows。
func ScanMaps(rs Rows) ([]string, []map[string]any, error) {
	cols, err := rs.Columns()
	if err != nil {
		return nil, nil, err
	}
	kinds := make([]string, len(cols))
	// 有些驱动无法提供列类型，此时只做最基本的转换
	if cts, err := rs.ColumnTypes(); err == nil && len(cts) == len(cols) {
		for i, ct := range cts {
			if ct != nil {
				kinds[i] = strings.ToUpper(ct.DatabaseTypeName())
			}
		}
	}
	var res []map[string]any
	vals := make([]any, len(cols))
	dest := make([]any, len(cols))
	for i := range vals {
		dest[i] = &vals[i]
	}
	for rs.Next() {
		if err = rs.Scan(dest...); err != nil {
			return nil, nil, err
		}
		row := make(map[string]any, len(cols))
		for i, c := range cols {
			row[c] = normalize(kinds[i], vals[i])
		}
		res = append(res, row)
	}
	return cols, res, rs.Err()
}

func normalize(kind string, v any) any {
	switch val := v.(type) {
	case []byte:
		return decode(kind, string(val))
	case string:
		return decode(kind, val)
	case int64:
		if kind == "BOOL" || kind == "BOOLEAN" {
			return val != 0
		}
		return float64(val)
	case int32:
		return float64(val)
	case float32:
		return float64(val)
	default:
		// time.Time、float64、bool 和 nil 原样保留
		return val
	}
}

func decode(kind, s string) any {
	switch {
	case isNumeric(kind):
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	case kind == "BOOL" || kind == "BOOLEAN":
		if b, err := strconv.ParseBool(s); err == nil {
			return b
		}
	}
	return s
}

func isNumeric(kind string) bool {
	switch kind {
	case "INT", "INTEGER", "TINYINT", "SMALLINT", "MEDIUMINT", "BIGINT",
		"UNSIGNED INT", "UNSIGNED TINYINT", "UNSIGNED SMALLINT", "UNSIGNED BIGINT",
		"DECIMAL", "NUMERIC", "FLOAT", "DOUBLE", "REAL":
		return true
	}
	return false
}
