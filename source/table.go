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

// Package source 从 CSV、JSON 和 SQL 加载数据，并根据数据推断列描述符。
package source

import "github.com/ecodeclub/erank/internal/rows"

// Table 加载的结果。Columns 保持数据源中列第一次出现的顺序。
type Table struct {
	Columns []string
	Rows    []map[string]any
}

// Data 转换为 erank.NewLocalStorage 需要的行
func (t *Table) Data() []any {
	res := make([]any, len(t.Rows))
	for i, r := range t.Rows {
		res[i] = r
	}
	return res
}

// Column 按顺序返回某一列的全部值，缺失的字段为 nil
func (t *Table) Column(name string) []any {
	res := make([]any, len(t.Rows))
	for i, r := range t.Rows {
		res[i] = r[name]
	}
	return res
}

// FromRecords 把内存中的记录转换为 Table，每条记录的长度必须和 columns 一致。
// 值的转换规则和 LoadSQL 相同，整数被转换为 float64。
func FromRecords(columns []string, records [][]any) (*Table, error) {
	cols, data, err := rows.ScanMaps(rows.NewDataRows(records, columns, nil))
	if err != nil {
		return nil, err
	}
	return &Table{Columns: cols, Rows: data}, nil
}
