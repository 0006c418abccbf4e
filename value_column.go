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

// ValueColumn 直接从数据行读取原始值的列
type ValueColumn struct {
	ColumnBase
	accessor Accessor
}

func (c *ValueColumn) initValue(self Column, id string, desc *ColumnDesc, events ...string) {
	c.init(self, id, desc, events...)
	c.accessor = desc.Accessor
	if c.accessor == nil {
		c.accessor = DefaultAccessor
	}
}

// GetRaw 未经处理的原始值
func (c *ValueColumn) GetRaw(row DataRow) any {
	return c.accessor(row, c.desc)
}

// GetValue 缺失时返回 nil
func (c *ValueColumn) GetValue(row DataRow) any {
	v := c.GetRaw(row)
	if IsMissingValue(v) {
		return nil
	}
	return v
}

func (c *ValueColumn) IsMissing(row DataRow) bool {
	return IsMissingValue(c.GetRaw(row))
}

func (c *ValueColumn) Compare(a, b DataRow) int {
	av, bv := c.self.GetLabel(a), c.self.GetLabel(b)
	if res, ok := compareMissing(c.self.IsMissing(a), c.self.IsMissing(b)); ok {
		return res
	}
	switch {
	case av < bv:
		return -1
	case av > bv:
		return 1
	}
	return 0
}
