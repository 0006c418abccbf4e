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
	"math"
	"sync"

	"github.com/ecodeclub/erank/internal/script"
)

// ScriptColumn 用脚本组合子列的数值。
// 脚本中可以使用 values、raws、children、col、index 以及 min、max、extent 等函数，
// 结果不是数字时为 NaN。
type ScriptColumn struct {
	CompositeNumberColumn
	script string

	mu   sync.Mutex
	eval *script.Evaluator
	err  error
}

func NewScriptColumn(id string, desc *ColumnDesc) *ScriptColumn {
	c := &ScriptColumn{script: desc.Script}
	if c.script == "" {
		c.script = DefaultScript
	}
	c.initCompositeNumber(c, id, desc, c.run, EventScriptChanged)
	c.setDefaultGroupRenderer("number")
	c.setDefaultSummaryRenderer("number")
	return c
}

func (c *ScriptColumn) Script() string {
	return c.script
}

// SetScript 修改脚本后，编译结果在下一次求值时重建
func (c *ScriptColumn) SetScript(s string) {
	if s == c.script {
		return
	}
	old := c.script
	c.mu.Lock()
	c.script = s
	c.reset()
	c.mu.Unlock()
	c.fire(with(EventScriptChanged, valuesDirty), old, s)
}

func (c *ScriptColumn) reset() {
	if c.eval != nil {
		c.eval.Close()
	}
	c.eval, c.err = nil, nil
}

// Err 脚本的编译错误
func (c *ScriptColumn) Err() error {
	_, err := c.evaluator()
	return err
}

func (c *ScriptColumn) evaluator() (*script.Evaluator, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.eval == nil && c.err == nil {
		c.eval, c.err = script.Compile(c.script)
	}
	return c.eval, c.err
}

func (c *ScriptColumn) run(row DataRow) float64 {
	eval, err := c.evaluator()
	if err != nil {
		return math.NaN()
	}
	res, err := eval.Eval(script.Env{
		Children: scriptColumns{cols: c.children, row: row},
		All: func() script.Columns {
			r := c.Ranking()
			if r == nil {
				return scriptColumns{row: row}
			}
			return scriptColumns{cols: c.others(r.FlatColumns()), row: row}
		},
		Index: row.I,
	})
	if err != nil {
		return math.NaN()
	}
	return res
}

// others 去掉自己、祖先以及包含脚本列的列，脚本之间不能互相引用
func (c *ScriptColumn) others(cols []Column) []Column {
	skip := map[Column]bool{c: true}
	for p := c.Parent(); p != nil; {
		col, ok := p.(Column)
		if !ok {
			break
		}
		skip[col] = true
		p = col.Parent()
	}
	res := make([]Column, 0, len(cols))
	for _, col := range cols {
		if !skip[col] && !hasScript(col) {
			res = append(res, col)
		}
	}
	return res
}

func hasScript(col Column) bool {
	for _, c := range FlatColumns([]Column{col}) {
		if _, ok := c.(*ScriptColumn); ok {
			return true
		}
	}
	return false
}

func (c *ScriptColumn) Dump(toDescRef DescRefFunc) Dump {
	r := c.CompositeColumn.Dump(toDescRef)
	r["script"] = c.script
	return r
}

func (c *ScriptColumn) Restore(dump Dump, factory Factory) {
	if s, ok := dump.String("script"); ok && s != "" {
		c.mu.Lock()
		c.script = s
		c.reset()
		c.mu.Unlock()
	}
	c.CompositeColumn.Restore(dump, factory)
}

// scriptColumns 把一组列在某一行上的取值暴露给脚本
type scriptColumns struct {
	cols []Column
	row  DataRow
}

func (s scriptColumns) Len() int {
	return len(s.cols)
}

func (s scriptColumns) ID(i int) string {
	return s.cols[i].ID()
}

func (s scriptColumns) Label(i int) string {
	return s.cols[i].Label()
}

func (s scriptColumns) Type(i int) string {
	return s.cols[i].Type()
}

func (s scriptColumns) Value(i int) float64 {
	if n, ok := s.cols[i].(NumberValued); ok {
		return n.GetNumber(s.row)
	}
	return toNumber(s.cols[i].GetValue(s.row))
}

func (s scriptColumns) Raw(i int) any {
	if n, ok := s.cols[i].(NumberValued); ok {
		return n.GetRawNumber(s.row)
	}
	return s.cols[i].GetValue(s.row)
}
