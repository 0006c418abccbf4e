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
	"regexp"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// FilterMissing 字符串过滤的特殊值：只保留非缺失的行
const FilterMissing = "__FILTER_MISSING"

const regexPrefix = "REGEX:"

// 字符串分组方式
const (
	StringGroupValue      = "value"
	StringGroupStartsWith = "startsWith"
	StringGroupRegex      = "regex"
)

var (
	collatorMu sync.Mutex
	collator   = collate.New(language.Und, collate.IgnoreCase)
)

// compareStrings 忽略大小写的本地化比较
func compareStrings(a, b string) int {
	collatorMu.Lock()
	defer collatorMu.Unlock()
	return collator.CompareString(a, b)
}

// StringFilter 字符串过滤条件，Regexp 优先于 Value
type StringFilter struct {
	Value  string
	Regexp *regexp.Regexp
}

func (f *StringFilter) equal(o *StringFilter) bool {
	if f == nil || o == nil {
		return f == o
	}
	if (f.Regexp == nil) != (o.Regexp == nil) {
		return false
	}
	if f.Regexp != nil {
		return f.Regexp.String() == o.Regexp.String()
	}
	return f.Value == o.Value
}

func (f *StringFilter) dump() any {
	if f == nil {
		return nil
	}
	if f.Regexp != nil {
		return regexPrefix + f.Regexp.String()
	}
	return f.Value
}

func restoreStringFilter(v any) *StringFilter {
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	if strings.HasPrefix(s, regexPrefix) {
		re, err := regexp.Compile(s[len(regexPrefix):])
		if err != nil {
			return nil
		}
		return &StringFilter{Regexp: re}
	}
	return &StringFilter{Value: s}
}

// StringGroupCriteria 字符串分组条件，Values 按顺序匹配
type StringGroupCriteria struct {
	Type   string
	Values []string
}

func (g StringGroupCriteria) equal(o StringGroupCriteria) bool {
	return g.Type == o.Type && slices.Equal(g.Values, o.Values)
}

// StringColumn 字符串列
type StringColumn struct {
	ValueColumn
	filter   *StringFilter
	grouping StringGroupCriteria
	// regexes 缓存 grouping 中编译好的正则
	regexes []*regexp.Regexp
}

func NewStringColumn(id string, desc *ColumnDesc) *StringColumn {
	c := &StringColumn{}
	c.initString(c, id, desc)
	return c
}

func (c *StringColumn) initString(self Column, id string, desc *ColumnDesc, events ...string) {
	c.initValue(self, id, desc, append([]string{EventFilterChanged, EventGroupingChanged}, events...)...)
	c.setDefaultWidth(200)
	c.grouping = StringGroupCriteria{Type: StringGroupStartsWith}
}

func (c *StringColumn) GetValue(row DataRow) any {
	v := c.GetRaw(row)
	if IsMissingValue(v) {
		return nil
	}
	return toString(v)
}

// GetString 缺失时为空串
func (c *StringColumn) GetString(row DataRow) string {
	v, _ := c.self.GetValue(row).(string)
	return v
}

func (c *StringColumn) GetLabel(row DataRow) string {
	return c.GetString(row)
}

func (c *StringColumn) Compare(a, b DataRow) int {
	av, bv := c.self.GetLabel(a), c.self.GetLabel(b)
	if res, ok := compareMissing(av == "", bv == ""); ok {
		return res
	}
	return compareStrings(av, bv)
}

func (c *StringColumn) GetFilter() *StringFilter {
	return c.filter
}

func (c *StringColumn) IsFiltered() bool {
	return c.filter != nil
}

// SetFilter 空的过滤条件等价于 nil
func (c *StringColumn) SetFilter(f *StringFilter) {
	if f != nil && f.Regexp == nil && f.Value == "" {
		f = nil
	}
	if c.filter.equal(f) {
		return
	}
	old := c.filter
	c.filter = f
	c.fire(with(EventFilterChanged, valuesDirty), old, f)
}

// ClearFilter 返回清除前是否有过滤条件
func (c *StringColumn) ClearFilter() bool {
	was := c.IsFiltered()
	c.SetFilter(nil)
	return was
}

func (c *StringColumn) Filter(row DataRow) bool {
	// 通过 self 取标签，AnnotateColumn 的覆盖值也参与过滤
	f := c.filter
	if f == nil {
		return true
	}
	r := c.self.GetLabel(row)
	switch {
	case f.Regexp != nil:
		return r != "" && f.Regexp.MatchString(r)
	case f.Value == FilterMissing:
		return strings.TrimSpace(r) != ""
	default:
		return r != "" && strings.Contains(strings.ToLower(r), strings.ToLower(f.Value))
	}
}

func (c *StringColumn) GroupCriteria() StringGroupCriteria {
	return StringGroupCriteria{Type: c.grouping.Type, Values: slices.Clone(c.grouping.Values)}
}

func (c *StringColumn) SetGroupCriteria(g StringGroupCriteria) {
	if g.Type == "" || c.grouping.equal(g) {
		return
	}
	old := c.GroupCriteria()
	c.grouping = StringGroupCriteria{Type: g.Type, Values: slices.Clone(g.Values)}
	c.regexes = nil
	c.fire(with(EventGroupingChanged, valuesDirty), old, c.GroupCriteria())
}

func (c *StringColumn) compiledRegexes() []*regexp.Regexp {
	if c.regexes == nil {
		c.regexes = make([]*regexp.Regexp, len(c.grouping.Values))
		for i, v := range c.grouping.Values {
			// 非法的正则不匹配任何值
			c.regexes[i], _ = regexp.Compile(v)
		}
	}
	return c.regexes
}

func (c *StringColumn) Group(row DataRow) *Group {
	value := c.self.GetLabel(row)
	if value == "" {
		return MissingGroup()
	}
	switch c.grouping.Type {
	case StringGroupValue:
		return &Group{Name: value, Color: DefaultColor}
	case StringGroupStartsWith:
		for _, v := range c.grouping.Values {
			if strings.HasPrefix(value, v) {
				return &Group{Name: v, Color: DefaultColor}
			}
		}
	case StringGroupRegex:
		for i, re := range c.compiledRegexes() {
			if re != nil && re.MatchString(value) {
				return &Group{Name: c.grouping.Values[i], Color: DefaultColor}
			}
		}
	}
	return OthersGroup()
}

func (c *StringColumn) Dump(toDescRef DescRefFunc) Dump {
	r := c.ColumnBase.Dump(toDescRef)
	r["filter"] = c.filter.dump()
	r["groupCriteria"] = Dump{
		"type":   c.grouping.Type,
		"values": slices.Clone(c.grouping.Values),
	}
	return r
}

func (c *StringColumn) Restore(dump Dump, factory Factory) {
	c.ColumnBase.Restore(dump, factory)
	if dump.Has("filter") {
		c.filter = restoreStringFilter(dump["filter"])
	}
	if g, ok := dump.Dump("groupCriteria"); ok {
		typ, _ := g.String("type")
		values, _ := g.Strings("values")
		if typ != "" {
			c.grouping = StringGroupCriteria{Type: typ, Values: values}
			c.regexes = nil
		}
	}
}
