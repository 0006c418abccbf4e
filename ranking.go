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
	"slices"
	"sync"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/erank/internal/event"
)

// SortCriteria 一个排序条件
type SortCriteria struct {
	Col Column
	Asc bool
}

// rankingForwarded 转发到 Ranking 上的列事件
var rankingForwarded = []string{EventDirtyHeader, EventDirtyValues, EventDirtyCaches, EventDirty}

var rankingEvents = []string{
	EventAddColumn, EventMoveColumn, EventRemoveColumn, EventLabelChanged,
	EventDirty, EventDirtyHeader, EventDirtyValues, EventDirtyCaches,
	EventDirtyOrder, EventOrderChanged, EventGroupsChanged,
	EventSortCriteriaChanged, EventGroupCriteriaChanged, EventGroupSortCriteriaChanged,
}

// Ranking 有序的列、排序和分组条件，以及排好序的分组结果。
// 列和条件只应在一个 goroutine 中修改；分组结果可以被并发读取。
type Ranking struct {
	id    string
	label string
	d     *event.Dispatcher

	columns           []Column
	sortCriteria      []SortCriteria
	groupSortCriteria []SortCriteria
	groupCriteria     []Column
	subs              map[Column][]*event.Subscription

	mu      sync.RWMutex
	groups  []*Group
	order   []int
	ranks   map[int]int
	groupOf map[int]*Group
}

func NewRanking(id string) *Ranking {
	r := &Ranking{
		id:    id,
		label: "Ranking " + id,
		subs:  make(map[Column][]*event.Subscription),
	}
	r.d = event.NewDispatcher(r, rankingEvents...)
	return r
}

func (r *Ranking) ID() string {
	return r.id
}

func (r *Ranking) Label() string {
	return r.label
}

func (r *Ranking) SetLabel(l string) {
	if l == r.label {
		return
	}
	old := r.label
	r.label = l
	r.d.Fire([]string{EventLabelChanged, EventDirtyHeader, EventDirty}, old, l)
}

func (r *Ranking) On(typ string, l event.Listener) *event.Subscription {
	return r.d.On(typ, l)
}

func (r *Ranking) Off(typ string) {
	r.d.Off(typ)
}

func (r *Ranking) Dispatcher() *event.Dispatcher {
	return r.d
}

func (r *Ranking) Columns() []Column {
	return slices.Clone(r.columns)
}

// FlatColumns 深度优先展开所有组合列
func (r *Ranking) FlatColumns() []Column {
	return FlatColumns(r.columns)
}

func (r *Ranking) Length() int {
	return len(r.columns)
}

func (r *Ranking) IndexOf(col Column) int {
	return slices.Index(r.columns, col)
}

// Find 在所有列（包括组合列的子列）中按 id 查找
func (r *Ranking) Find(id string) Column {
	for _, c := range r.FlatColumns() {
		if c.ID() == id {
			return c
		}
	}
	return nil
}

// Insert 插入到 index，col 仍属于其他容器时返回 nil。
// 第一个插入的非辅助列会成为默认的排序条件。
func (r *Ranking) Insert(col Column, index int) Column {
	if col == nil || col.Parent() != nil {
		return nil
	}
	index = max(0, min(index, len(r.columns)))
	r.columns = slices.Insert(r.columns, index, col)
	col.base().attach(r)
	r.d.Forward(col.Dispatcher(), rankingForwarded...)
	r.subscribe(col)
	r.d.Fire([]string{EventAddColumn, EventDirtyHeader, EventDirtyValues, EventDirty}, col, index)
	if len(r.sortCriteria) == 0 && !IsSupportType(col.Type()) {
		r.SortBy(col, TraitsOf(col).SortByDefault != "descending")
	}
	return col
}

func (r *Ranking) Push(col Column) Column {
	return r.Insert(col, len(r.columns))
}

// subscribe 过滤条件变化以及参与排序或分组的列取值变化时需要重新排序
func (r *Ranking) subscribe(col Column) {
	filter := col.On(EventFilterChanged, func(*event.Event) {
		r.dirtyOrder()
	})
	values := col.On(EventDirtyValues, func(e *event.Event) {
		if slices.Contains(e.Root().Types, EventFilterChanged) {
			return
		}
		if r.affectsOrder(col) {
			r.dirtyOrder()
		}
	})
	r.subs[col] = []*event.Subscription{filter, values}
}

func (r *Ranking) unsubscribe(col Column) {
	for _, s := range r.subs[col] {
		s.Cancel()
	}
	delete(r.subs, col)
	r.d.Unforward(col.Dispatcher())
}

// affectsOrder col 或它的某个子列参与了排序或分组
func (r *Ranking) affectsOrder(col Column) bool {
	for _, c := range FlatColumns([]Column{col}) {
		if r.isCriteria(c) {
			return true
		}
	}
	return false
}

func (r *Ranking) isCriteria(c Column) bool {
	has := func(s SortCriteria) bool { return s.Col == c }
	return slices.ContainsFunc(r.sortCriteria, has) ||
		slices.ContainsFunc(r.groupSortCriteria, has) ||
		slices.Contains(r.groupCriteria, c)
}

func (r *Ranking) dirtyOrder() {
	r.d.Fire([]string{EventDirtyOrder})
}

func (r *Ranking) Move(col Column, index int) Column {
	from := r.IndexOf(col)
	if from < 0 {
		return nil
	}
	index = max(0, min(index, len(r.columns)-1))
	if from == index {
		return col
	}
	r.columns = slices.Delete(r.columns, from, from+1)
	r.columns = slices.Insert(r.columns, index, col)
	r.d.Fire([]string{EventMoveColumn, EventDirtyHeader, EventDirtyValues, EventDirty}, col, index, from)
	return col
}

// Remove 移除列，同时把它和它的子列从排序、分组条件中去掉
func (r *Ranking) Remove(col Column) bool {
	i := r.IndexOf(col)
	if i < 0 {
		return false
	}
	r.columns = slices.Delete(r.columns, i, i+1)
	r.unsubscribe(col)
	col.base().attach(nil)
	r.d.Fire([]string{EventRemoveColumn, EventDirtyHeader, EventDirtyValues, EventDirty}, col, i)

	removed := FlatColumns([]Column{col})
	keep := func(s SortCriteria) bool { return !slices.Contains(removed, s.Col) }
	if sc := slice.FilterMap(r.sortCriteria, func(_ int, s SortCriteria) (SortCriteria, bool) {
		return s, keep(s)
	}); len(sc) != len(r.sortCriteria) {
		r.SetSortCriteria(sc)
	}
	if gs := slice.FilterMap(r.groupSortCriteria, func(_ int, s SortCriteria) (SortCriteria, bool) {
		return s, keep(s)
	}); len(gs) != len(r.groupSortCriteria) {
		r.SetGroupSortCriteria(gs)
	}
	if gc := slice.FilterMap(r.groupCriteria, func(_ int, c Column) (Column, bool) {
		return c, !slices.Contains(removed, c)
	}); len(gc) != len(r.groupCriteria) {
		r.SetGroupCriteria(gc)
	}
	return true
}

// Clear 移除所有列
func (r *Ranking) Clear() {
	for len(r.columns) > 0 {
		r.Remove(r.columns[len(r.columns)-1])
	}
}

func (r *Ranking) contains(col Column) bool {
	return slices.Contains(r.FlatColumns(), col)
}

func (r *Ranking) SortCriteria() []SortCriteria {
	return slices.Clone(r.sortCriteria)
}

// SortBy 只按 col 排序，col 不属于这个 Ranking 时返回 false
func (r *Ranking) SortBy(col Column, asc bool) bool {
	if !r.contains(col) {
		return false
	}
	r.SetSortCriteria([]SortCriteria{{Col: col, Asc: asc}})
	return true
}

// ToggleSorting 已经按 col 排序时反转方向，否则按它的默认方向排序
func (r *Ranking) ToggleSorting(col Column) bool {
	for _, s := range r.sortCriteria {
		if s.Col == col {
			return r.SortBy(col, !s.Asc)
		}
	}
	return r.SortBy(col, TraitsOf(col).SortByDefault != "descending")
}

func (r *Ranking) SetSortCriteria(criteria []SortCriteria) {
	if slices.Equal(criteria, r.sortCriteria) {
		return
	}
	old := r.sortCriteria
	r.sortCriteria = slices.Clone(criteria)
	r.d.Fire([]string{EventSortCriteriaChanged, EventDirtyHeader, EventDirty}, old, r.SortCriteria())
	r.dirtyOrder()
}

func (r *Ranking) GroupSortCriteria() []SortCriteria {
	return slices.Clone(r.groupSortCriteria)
}

func (r *Ranking) SetGroupSortCriteria(criteria []SortCriteria) {
	if slices.Equal(criteria, r.groupSortCriteria) {
		return
	}
	old := r.groupSortCriteria
	r.groupSortCriteria = slices.Clone(criteria)
	r.d.Fire([]string{EventGroupSortCriteriaChanged, EventDirtyHeader, EventDirty}, old, r.GroupSortCriteria())
	r.dirtyOrder()
}

func (r *Ranking) GroupCriteria() []Column {
	return slices.Clone(r.groupCriteria)
}

func (r *Ranking) SetGroupCriteria(cols []Column) {
	if slices.Equal(cols, r.groupCriteria) {
		return
	}
	old := r.groupCriteria
	r.groupCriteria = slices.Clone(cols)
	r.d.Fire([]string{EventGroupCriteriaChanged, EventDirtyHeader, EventDirty}, old, r.GroupCriteria())
	r.dirtyOrder()
}

// ToggleGrouping 把 col 加入或移出分组条件，返回之后是否按它分组
func (r *Ranking) ToggleGrouping(col Column) bool {
	if i := slices.Index(r.groupCriteria, col); i >= 0 {
		r.SetGroupCriteria(slices.Delete(r.GroupCriteria(), i, i+1))
		return false
	}
	if !r.contains(col) {
		return false
	}
	r.SetGroupCriteria(append(r.GroupCriteria(), col))
	return true
}

// IsFiltered 任意一列有过滤条件
func (r *Ranking) IsFiltered() bool {
	for _, c := range r.columns {
		if c.IsFiltered() {
			return true
		}
	}
	return false
}

// Filter 所有列都接受这一行
func (r *Ranking) Filter(row DataRow) bool {
	for _, c := range r.columns {
		if !c.Filter(row) {
			return false
		}
	}
	return true
}

// SetGroups 安装排序结果并重建名次
func (r *Ranking) SetGroups(groups []*Group) {
	order := make([]int, 0)
	ranks := make(map[int]int)
	groupOf := make(map[int]*Group)
	for _, g := range groups {
		for i, row := range g.Order {
			order = append(order, row)
			ranks[row] = i + 1
			groupOf[row] = g
		}
	}
	r.mu.Lock()
	old := r.order
	r.groups = groups
	r.order = order
	r.ranks = ranks
	r.groupOf = groupOf
	r.mu.Unlock()
	r.d.Fire([]string{EventOrderChanged, EventGroupsChanged, EventDirtyValues, EventDirty}, old, order, groups)
}

func (r *Ranking) Groups() []*Group {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.groups)
}

// Order 所有分组的行下标依次拼接
func (r *Ranking) Order() []int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Rank 行在所在分组中的名次，从 1 开始；不在结果中时为 -1
func (r *Ranking) Rank(row int) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if rank, ok := r.ranks[row]; ok {
		return rank
	}
	return -1
}

// GroupOf 行所在的叶子分组
func (r *Ranking) GroupOf(row int) *Group {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.groupOf[row]
}

func dumpCriteria(criteria []SortCriteria) []any {
	res := make([]any, len(criteria))
	for i, s := range criteria {
		res[i] = Dump{"sortBy": s.Col.ID(), "asc": s.Asc}
	}
	return res
}

func (r *Ranking) Dump(toDescRef DescRefFunc) Dump {
	columns := make([]any, len(r.columns))
	for i, c := range r.columns {
		columns[i] = c.Dump(toDescRef)
	}
	return Dump{
		"id":                r.id,
		"label":             r.label,
		"columns":           columns,
		"sortCriteria":      dumpCriteria(r.sortCriteria),
		"groupSortCriteria": dumpCriteria(r.groupSortCriteria),
		"groupColumns": slice.Map(r.groupCriteria, func(_ int, c Column) any {
			return c.ID()
		}),
	}
}

// Restore 重建列和条件，不触发事件。引用了未知列的条件被忽略。
func (r *Ranking) Restore(dump Dump, factory Factory) {
	if l, ok := dump.String("label"); ok {
		r.label = l
	}
	columns, _ := dump.Dumps("columns")
	for _, d := range columns {
		col := factory(d)
		if col == nil {
			continue
		}
		col.base().attach(r)
		r.columns = append(r.columns, col)
		r.d.Forward(col.Dispatcher(), rankingForwarded...)
		r.subscribe(col)
	}
	restore := func(key string) []SortCriteria {
		list, _ := dump.Dumps(key)
		res := make([]SortCriteria, 0, len(list))
		for _, s := range list {
			id, _ := s.String("sortBy")
			asc, _ := s.Bool("asc")
			if col := r.Find(id); col != nil {
				res = append(res, SortCriteria{Col: col, Asc: asc})
			}
		}
		return res
	}
	// 旧格式只有一个 sortColumn
	if sc, ok := dump.Dump("sortColumn"); ok && !dump.Has("sortCriteria") {
		id, _ := sc.String("sortBy")
		asc, _ := sc.Bool("asc")
		if col := r.Find(id); col != nil {
			r.sortCriteria = []SortCriteria{{Col: col, Asc: asc}}
		}
	} else {
		r.sortCriteria = restore("sortCriteria")
	}
	r.groupSortCriteria = restore("groupSortCriteria")
	ids, _ := dump.Strings("groupColumns")
	r.groupCriteria = slice.FilterMap(ids, func(_ int, id string) (Column, bool) {
		col := r.Find(id)
		return col, col != nil
	})
}
