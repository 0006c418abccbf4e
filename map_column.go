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
	"reflect"
	"slices"
	"strings"
)

// KeyValue 映射列的一项
type KeyValue struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// MapColumn 键值对列表列
type MapColumn struct {
	ValueColumn
}

func NewMapColumn(id string, desc *ColumnDesc) *MapColumn {
	c := &MapColumn{}
	c.initValue(c, id, desc)
	c.setDefaultWidth(200)
	c.setDefaultRenderer("table")
	return c
}

// GetMap 统一为有序的键值对：
// map 和结构体按 key 排序，已经是键值对列表的保持原有顺序。
func (c *MapColumn) GetMap(row DataRow) []KeyValue {
	return toKeyValues(c.GetRaw(row))
}

func (c *MapColumn) GetValue(row DataRow) any {
	return c.GetMap(row)
}

func (c *MapColumn) IsMissing(row DataRow) bool {
	return len(c.GetMap(row)) == 0
}

// GetMapLabel 值格式化为字符串
func (c *MapColumn) GetMapLabel(row DataRow) []KeyValue {
	kvs := c.GetMap(row)
	res := make([]KeyValue, len(kvs))
	for i, kv := range kvs {
		res[i] = KeyValue{Key: kv.Key, Value: toString(kv.Value)}
	}
	return res
}

func (c *MapColumn) GetLabel(row DataRow) string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, kv := range c.GetMapLabel(row) {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(kv.Key)
		sb.WriteString(": ")
		sb.WriteString(kv.Value.(string))
	}
	sb.WriteByte('}')
	return sb.String()
}

func toKeyValues(v any) []KeyValue {
	switch m := v.(type) {
	case nil:
		return nil
	case []KeyValue:
		return m
	case []any:
		res := make([]KeyValue, 0, len(m))
		for _, e := range m {
			switch kv := e.(type) {
			case KeyValue:
				res = append(res, kv)
			default:
				if d, ok := asDump(e); ok {
					key, _ := d.String("key")
					res = append(res, KeyValue{Key: key, Value: d["value"]})
				}
			}
		}
		return res
	case map[string]any:
		res := make([]KeyValue, 0, len(m))
		for k, val := range m {
			res = append(res, KeyValue{Key: k, Value: val})
		}
		return sortByKey(res)
	case Dump:
		return toKeyValues(map[string]any(m))
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil
		}
		res := make([]KeyValue, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			res = append(res, KeyValue{Key: iter.Key().String(), Value: iter.Value().Interface()})
		}
		return sortByKey(res)
	case reflect.Struct:
		meta, err := rowMetas.Get(rv.Interface())
		if err != nil {
			return nil
		}
		res := make([]KeyValue, 0, len(meta.Fields))
		for _, f := range meta.Fields {
			val, _ := meta.Value(rv.Interface(), f.ColumnName)
			res = append(res, KeyValue{Key: f.ColumnName, Value: val})
		}
		return sortByKey(res)
	}
	return nil
}

func sortByKey(kvs []KeyValue) []KeyValue {
	slices.SortStableFunc(kvs, func(a, b KeyValue) int {
		if res := compareStrings(a.Key, b.Key); res != 0 {
			return res
		}
		return strings.Compare(a.Key, b.Key)
	})
	return kvs
}
