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
	"strconv"
)

// AnnotateColumn 可编辑的字符串列，本地覆盖值优先于数据源
type AnnotateColumn struct {
	StringColumn
	annotations map[int]string
}

func NewAnnotateColumn(id string, desc *ColumnDesc) *AnnotateColumn {
	c := &AnnotateColumn{annotations: make(map[int]string)}
	c.initString(c, id, desc, EventValueChanged)
	return c
}

func (c *AnnotateColumn) GetValue(row DataRow) any {
	if v, ok := c.annotations[row.I]; ok {
		return v
	}
	return c.StringColumn.GetValue(row)
}

func (c *AnnotateColumn) IsMissing(row DataRow) bool {
	if _, ok := c.annotations[row.I]; ok {
		return false
	}
	return c.StringColumn.IsMissing(row)
}

// SetValue 设置覆盖值，空串表示删除覆盖。返回是否发生了变化。
func (c *AnnotateColumn) SetValue(row DataRow, value string) bool {
	old := c.GetString(row)
	if old == value {
		return false
	}
	if value == "" {
		if _, ok := c.annotations[row.I]; !ok {
			return false
		}
		delete(c.annotations, row.I)
	} else {
		c.annotations[row.I] = value
	}
	c.fire([]string{EventValueChanged, EventDirtyValues, EventDirtyCaches, EventDirty}, row.I, old, value)
	return true
}

// Annotations 当前所有覆盖值的副本
func (c *AnnotateColumn) Annotations() map[int]string {
	res := make(map[int]string, len(c.annotations))
	for k, v := range c.annotations {
		res[k] = v
	}
	return res
}

func (c *AnnotateColumn) Dump(toDescRef DescRefFunc) Dump {
	r := c.StringColumn.Dump(toDescRef)
	annotations := make(map[string]any, len(c.annotations))
	for k, v := range c.annotations {
		annotations[strconv.Itoa(k)] = v
	}
	r["annotations"] = annotations
	return r
}

func (c *AnnotateColumn) Restore(dump Dump, factory Factory) {
	c.StringColumn.Restore(dump, factory)
	annotations, ok := dump.Dump("annotations")
	if !ok {
		return
	}
	c.annotations = make(map[int]string, len(annotations))
	for k, v := range annotations {
		i, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		if s, ok := v.(string); ok && s != "" {
			c.annotations[i] = s
		}
	}
}
