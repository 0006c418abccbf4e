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
	"database/sql"
	"fmt"
	"reflect"

	"github.com/ecodeclub/erank/internal/errs"
)

var _ Rows = (*DataRows)(nil)

// DataRows 直接传入数据，伪装成了一个 Rows
// 非线程安全实现
type DataRows struct {
	data        [][]any
	len         int
	columns     []string
	columnTypes []*sql.ColumnType
	// 第几行
	idx int
}

func NewDataRows(data [][]any, columns []string, columnTypes []*sql.ColumnType) *DataRows {
	return &DataRows{
		data:        data,
		len:         len(data),
		columns:     columns,
		idx:         -1,
		columnTypes: columnTypes,
	}
}

func (d *DataRows) ColumnTypes() ([]*sql.ColumnType, error) {
	return d.columnTypes, nil
}

func (d *DataRows) Next() bool {
	if d.idx >= d.len-1 {
		return false
	}
	d.idx++
	return true
}

// Scan 只支持类型可以直接赋值的目标，*any 总是可以
func (d *DataRows) Scan(dest ...any) error {
	data := d.data[d.idx]
	if len(data) != len(dest) {
		return errs.NewScanWrongDestinationArgumentsError(len(data), len(dest))
	}
	for idx, dst := range dest {
		if err := assign(dst, data[idx]); err != nil {
			return err
		}
	}
	return nil
}

func assign(dst, src any) error {
	if p, ok := dst.(*any); ok {
		*p = src
		return nil
	}
	dv := reflect.ValueOf(dst)
	if dv.Kind() != reflect.Pointer || dv.IsNil() {
		return fmt.Errorf("erank: 扫描目标必须是非 nil 指针，实际是 %T", dst)
	}
	dv = dv.Elem()
	if src == nil {
		dv.SetZero()
		return nil
	}
	sv := reflect.ValueOf(src)
	switch {
	case sv.Type().AssignableTo(dv.Type()):
		dv.Set(sv)
	case sv.Type().ConvertibleTo(dv.Type()):
		dv.Set(sv.Convert(dv.Type()))
	default:
		return fmt.Errorf("erank: 无法把 %T 赋值给 %T", src, dst)
	}
	return nil
}

func (*DataRows) Close() error {
	return nil
}

func (d *DataRows) Columns() ([]string, error) {
	return d.columns, nil
}

func (*DataRows) Err() error {
	return nil
}
