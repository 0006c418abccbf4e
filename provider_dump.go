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
	"encoding/json"
	"sort"
	"strings"

	"github.com/ecodeclub/erank/internal/errs"
	"go.uber.org/multierr"
)

// DescRefs 决定描述符在 dump 中的表示方式
type DescRefs interface {
	ToDescRef(desc *ColumnDesc) any
	FromDescRef(ref any) (*ColumnDesc, error)
}

// StorageDescRefs 数据源认识的描述符保存为 "type@column"，其余的内联保存
type StorageDescRefs struct {
	storage Storage
}

func NewStorageDescRefs(storage Storage) *StorageDescRefs {
	return &StorageDescRefs{storage: storage}
}

func (s *StorageDescRefs) ToDescRef(desc *ColumnDesc) any {
	if s.storage != nil {
		ref := DescRef(desc)
		if s.storage.FindDesc(ref) == desc {
			return ref
		}
	}
	return inlineDesc(desc)
}

func (s *StorageDescRefs) FromDescRef(ref any) (*ColumnDesc, error) {
	if name, ok := ref.(string); ok {
		if s.storage != nil {
			if desc := s.storage.FindDesc(name); desc != nil {
				return desc, nil
			}
		}
		return nil, errs.NewUnknownDescRefError(ref)
	}
	return decodeDesc(ref)
}

// inlineDesc 转换成只包含 JSON 类型的 Dump
func inlineDesc(desc *ColumnDesc) any {
	data, err := json.Marshal(desc)
	if err != nil {
		return Dump{"type": desc.Type, "label": desc.Label, "column": desc.Column}
	}
	var res Dump
	if err = json.Unmarshal(data, &res); err != nil {
		return Dump{"type": desc.Type, "label": desc.Label, "column": desc.Column}
	}
	return res
}

func decodeDesc(ref any) (*ColumnDesc, error) {
	switch v := ref.(type) {
	case *ColumnDesc:
		return v.Clone(), nil
	case Dump, map[string]any:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		var desc ColumnDesc
		if err = json.Unmarshal(data, &desc); err != nil {
			return nil, err
		}
		if desc.Type == "" {
			return nil, errs.NewUnknownDescRefError(ref)
		}
		return &desc, nil
	}
	return nil, errs.NewUnknownDescRefError(ref)
}

func (p *Provider) toDescRef(desc *ColumnDesc) any {
	return p.refs.ToDescRef(desc)
}

func (p *Provider) DumpColumn(col Column) Dump {
	return col.Dump(p.toDescRef)
}

// Dump 整个模型：选择、折叠状态以及所有 Ranking
func (p *Provider) Dump() Dump {
	rankings := p.Rankings()
	dumps := make([]any, len(rankings))
	for i, r := range rankings {
		dumps[i] = r.Dump(p.toDescRef)
	}
	res := Dump{
		"uid":          p.uid,
		"selection":    p.Selection(),
		"aggregations": sortedKeys(p.aggregations),
		"rankings":     dumps,
	}
	if len(p.expanded) > 0 {
		res["expanded"] = sortedKeys(p.expanded)
	}
	return res
}

func sortedKeys(m map[string]struct{}) []string {
	res := make([]string, 0, len(m))
	for k := range m {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}

// factory 恢复列的工厂，无法恢复的项记录到 errp 中并跳过
func (p *Provider) factory(errp *error) Factory {
	var create Factory
	create = func(d Dump) Column {
		desc, err := p.refs.FromDescRef(d["desc"])
		if err != nil {
			p.skip(errp, err)
			return nil
		}
		ctor, ok := p.columnTypes[desc.Type]
		if !ok {
			p.skip(errp, errs.NewUnknownColumnTypeError(desc.Type))
			return nil
		}
		p.fixDesc(desc)
		id, _ := d.String("id")
		col := ctor(id, desc)
		col.Restore(d, create)
		return col
	}
	return create
}

func (p *Provider) skip(errp *error, err error) {
	p.l.Warningf("跳过无法恢复的列: %v", err)
	*errp = multierr.Append(*errp, err)
}

func (p *Provider) createHelper(d Dump) Column {
	var err error
	return p.factory(&err)(d)
}

// RestoreColumn 恢复一列并分配新的 id，无法恢复时返回 nil
func (p *Provider) RestoreColumn(dump Dump) Column {
	col := p.createHelper(dump)
	if col == nil {
		return nil
	}
	assignNewID(col, p.nextID)
	return col
}

// RestoreRanking 恢复但不加入 Provider。没有名次列时在最前面补一个。
func (p *Provider) RestoreRanking(dump Dump) (*Ranking, error) {
	var err error
	r := p.restoreRanking(dump, &err)
	return r, err
}

func (p *Provider) restoreRanking(dump Dump, errp *error) *Ranking {
	r := p.NewRanking()
	r.Restore(dump, p.factory(errp))
	p.ensureRankColumn(r)
	for _, c := range r.Columns() {
		assignNewID(c, p.nextID)
	}
	return r
}

func (p *Provider) ensureRankColumn(r *Ranking) {
	for _, c := range r.Columns() {
		if _, ok := c.(*RankColumn); ok {
			return
		}
	}
	r.Insert(p.Create(CreateRankDesc()), 0)
}

// Restore 先清空现有的 Ranking，再按 dump 重建。
// 所有列都会分配新的 id，无法恢复的列被跳过，错误合并后返回。
func (p *Provider) Restore(dump Dump) error {
	p.ClearRankings()

	if uid, ok := dump.Int("uid"); ok {
		p.uid = uid
	} else {
		p.uid = 0
	}
	p.selection.Clear()
	if sel, ok := dump.Ints("selection"); ok {
		p.selection.Add(sel...)
	}
	p.aggregations = restoreKeys(dump, "aggregations")
	p.expanded = restoreKeys(dump, "expanded")

	var err error
	dumps, _ := dump.Dumps("rankings")
	rankings := make([]*Ranking, 0, len(dumps))
	// 折叠状态的 key 跟随新的 ranking id，所有 id 一次性替换
	ids := make(map[string]string, len(dumps))
	for _, rd := range dumps {
		r := p.restoreRanking(rd, &err)
		if old, ok := rd.String("id"); ok {
			ids[old] = r.ID()
		}
		rankings = append(rankings, r)
	}
	p.renameAggregations(ids)
	for _, r := range rankings {
		p.InsertRanking(r, -1)
	}
	if layout, ok := dump.Dump("layout"); ok {
		keys := make([]string, 0, len(layout))
		for k := range layout {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			bundle, _ := layout.Dumps(k)
			p.deriveRanking(bundle, &err)
		}
	}
	return err
}

func restoreKeys(dump Dump, key string) map[string]struct{} {
	res := make(map[string]struct{})
	keys, _ := dump.Strings(key)
	for _, k := range keys {
		if _, _, ok := splitGroupKey(k); ok {
			res[k] = struct{}{}
		}
	}
	return res
}

// renameAggregations ids 为旧 id 到新 id 的映射，不在其中的 key 保持不变
func (p *Provider) renameAggregations(ids map[string]string) {
	rename := func(m map[string]struct{}) map[string]struct{} {
		res := make(map[string]struct{}, len(m))
		for k := range m {
			if rid, gid, ok := splitGroupKey(k); ok {
				if to, found := ids[rid]; found {
					k = to + "@" + gid
				}
			}
			res[k] = struct{}{}
		}
		return res
	}
	p.aggregations = rename(p.aggregations)
	p.expanded = rename(p.expanded)
}

// deriveRanking 从旧版本的 layout 格式构造 Ranking
func (p *Provider) deriveRanking(bundle []Dump, errp *error) *Ranking {
	create := p.factory(errp)
	var toCol func(column Dump) Column
	toCol = func(column Dump) Column {
		typ, _ := column.String("type")
		label, _ := column.String("label")
		switch typ {
		case TypeRank:
			return p.Create(CreateRankDesc())
		case TypeSelection:
			return p.Create(CreateSelectionDesc())
		case TypeGroup:
			return p.Create(CreateGroupDesc(label))
		case TypeAggregate:
			return p.Create(CreateAggregationDesc())
		case TypeActions:
			col := p.Create(CreateActionDesc(label))
			col.Restore(column, create)
			return col
		case "stacked":
			stack := p.Create(CreateStackDesc(label)).(Composite)
			children, _ := column.Dumps("children")
			for _, child := range children {
				if c := toCol(child); c != nil {
					stack.Push(c)
				}
			}
			return stack
		}
		name, _ := column.String("column")
		desc := p.findDescByColumn(name)
		if desc == nil {
			p.skip(errp, errs.NewUnknownDescRefError(name))
			return nil
		}
		if label == "" {
			label = desc.Label
			if label == "" {
				label = desc.Column
			}
			column["label"] = label
		}
		col := p.Create(desc)
		if col != nil {
			col.Restore(column, create)
		}
		return col
	}
	r := p.NewRanking()
	for _, column := range bundle {
		if col := toCol(column); col != nil {
			r.Push(col)
		}
	}
	p.ensureRankColumn(r)
	p.InsertRanking(r, -1)
	return r
}

func (p *Provider) findDescByColumn(name string) *ColumnDesc {
	if p.storage == nil || strings.TrimSpace(name) == "" {
		return nil
	}
	for _, desc := range p.storage.Columns() {
		if desc.Column == name {
			return desc
		}
	}
	return nil
}
