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

package model

import (
	"reflect"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/ecodeclub/erank/internal/errs"
)

// RowMeta 描述一个作为数据行的结构体
type RowMeta struct {
	Name   string
	Fields []*FieldMeta
	// FieldMap 同时以列名和字段名为 key
	FieldMap map[string]*FieldMeta
	Typ      reflect.Type
}

// FieldMeta 结构体中的一个字段，对应一列
type FieldMeta struct {
	ColumnName string
	FieldName  string
	Label      string
	// ColumnType 推荐的列类型，可以通过 tag 中的 type= 覆盖
	ColumnType string
	Typ        reflect.Type
	Index      []int
}

// MetaRegistry 缓存行类型的元数据
type MetaRegistry interface {
	Get(row any) (*RowMeta, error)
	Register(row any) (*RowMeta, error)
}

func NewMetaRegistry() MetaRegistry {
	return &tagMetaRegistry{}
}

// tagMetaRegistry 基于 erank tag 的默认实现
type tagMetaRegistry struct {
	metas sync.Map
}

// Get 获取行类型的元数据，没有时自动注册
func (t *tagMetaRegistry) Get(row any) (*RowMeta, error) {
	typ := structType(reflect.TypeOf(row))
	if typ == nil {
		return nil, errs.NewUnsupportedRowError(row)
	}
	if v, ok := t.metas.Load(typ); ok {
		return v.(*RowMeta), nil
	}
	return t.Register(row)
}

func structType(typ reflect.Type) reflect.Type {
	if typ == nil {
		return nil
	}
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil
	}
	return typ
}

var timeType = reflect.TypeOf(time.Time{})

// Register 解析 erank tag：
// `erank:"-"` 忽略字段，
// `erank:"column=xxx,label=Xxx,type=number"` 覆盖默认值。
func (t *tagMetaRegistry) Register(row any) (*RowMeta, error) {
	typ := structType(reflect.TypeOf(row))
	if typ == nil {
		return nil, errs.NewUnsupportedRowError(row)
	}
	lens := typ.NumField()
	fields := make([]*FieldMeta, 0, lens)
	fieldMap := make(map[string]*FieldMeta, lens*2)
	for i := 0; i < lens; i++ {
		structField := typ.Field(i)
		if !structField.IsExported() {
			continue
		}
		tag := structField.Tag.Get("erank")
		if tag == "-" {
			continue
		}
		fm := &FieldMeta{
			ColumnName: underscoreName(structField.Name),
			FieldName:  structField.Name,
			Label:      structField.Name,
			ColumnType: columnType(structField.Type),
			Typ:        structField.Type,
			Index:      structField.Index,
		}
		for _, pair := range strings.Split(tag, ",") {
			k, v, ok := strings.Cut(strings.TrimSpace(pair), "=")
			if !ok {
				continue
			}
			switch k {
			case "column":
				fm.ColumnName = v
			case "label":
				fm.Label = v
			case "type":
				fm.ColumnType = v
			}
		}
		fields = append(fields, fm)
		fieldMap[fm.ColumnName] = fm
		fieldMap[fm.FieldName] = fm
	}
	meta := &RowMeta{
		Name:     underscoreName(typ.Name()),
		Fields:   fields,
		FieldMap: fieldMap,
		Typ:      typ,
	}
	t.metas.Store(typ, meta)
	return meta, nil
}

// columnType 根据字段类型推荐列类型
func columnType(typ reflect.Type) string {
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ == timeType {
		return "dates"
	}
	switch typ.Kind() {
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		elem := typ.Elem()
		if elem == timeType {
			return "dates"
		}
		if columnType(elem) == "number" {
			return "numbers"
		}
		return "string"
	case reflect.Map:
		return "map"
	default:
		return "string"
	}
}

// Value 读取 row 中 column 对应的字段，nil 指针返回 nil
func (m *RowMeta) Value(row any, column string) (any, bool) {
	fm, ok := m.FieldMap[column]
	if !ok {
		return nil, false
	}
	v := reflect.ValueOf(row)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, true
		}
		v = v.Elem()
	}
	if v.Type() != m.Typ {
		return nil, false
	}
	f := v.FieldByIndex(fm.Index)
	if f.Kind() == reflect.Pointer {
		if f.IsNil() {
			return nil, true
		}
		f = f.Elem()
	}
	return f.Interface(), true
}

// underscoreName 驼峰转下划线
func underscoreName(name string) string {
	var buf []rune
	for i, v := range name {
		if unicode.IsUpper(v) {
			if i != 0 {
				buf = append(buf, '_')
			}
			buf = append(buf, unicode.ToLower(v))
		} else {
			buf = append(buf, v)
		}
	}
	return string(buf)
}
