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

package source

import (
	"context"
	"database/sql"

	"github.com/ecodeclub/erank/internal/rows"
)

// LoadSQL 执行查询并读取全部结果。
// 数字类型的列被转换为 float64，其余的 []byte 被转换为 string。
func LoadSQL(ctx context.Context, db *sql.DB, query string, args ...any) (*Table, error) {
	rs, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rs.Close()
	}()
	cols, data, err := rows.ScanMaps(rs)
	if err != nil {
		return nil, err
	}
	return &Table{Columns: cols, Rows: data}, nil
}
