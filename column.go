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

	"github.com/ecodeclub/erank/internal/colorpool"
	"github.com/ecodeclub/erank/internal/event"
)

const (
	DefaultColumnWidth = 100
	DefaultColor       = colorpool.DefaultColor
)

// MetaData 列上可以被用户修改的描述信息
type MetaData struct {
	Label       string
	Summary     string
	Description string
}

// Parent 持有列的容器：Ranking 或组合列
type Parent interface {
	ID() string
	Insert(col Column, index int) Column
	Remove(col Column) bool
	IndexOf(col Column) int
}

// Column 排名中的一列
type Column interface {
	ID() string
	Desc() *ColumnDesc
	Type() string

	On(typ string, l event.Listener) *event.Subscription
	Off(typ string)
	Dispatcher() *event.Dispatcher

	Width() float64
	SetWidth(w float64)
	Label() string
	SetLabel(label string)
	MetaData() MetaData
	SetMetaData(m MetaData)
	Color() string
	Visible() bool
	SetVisible(v bool)
	Renderer() string
	SetRenderer(r string)
	GroupRenderer() string
	SetGroupRenderer(r string)
	SummaryRenderer() string
	SetSummaryRenderer(r string)

	Parent() Parent
	Ranking() *Ranking

	GetValue(row DataRow) any
	GetLabel(row DataRow) string
	// GetColor 行在这一列上的颜色
	GetColor(row DataRow) string
	Compare(a, b DataRow) int
	Group(row DataRow) *Group
	IsMissing(row DataRow) bool
	IsFiltered() bool
	Filter(row DataRow) bool

	Dump(toDescRef DescRefFunc) Dump
	Restore(dump Dump, factory Factory)

	base() *ColumnBase
}

// ColumnBase 所有列共享的状态和默认行为。
// self 指向外层的具体类型，用于调用被覆盖的方法。
type ColumnBase struct {
	self     Column
	id       string
	desc     *ColumnDesc
	d        *event.Dispatcher
	width    float64
	metadata MetaData
	visible  bool
	parent   Parent

	renderer        string
	groupRenderer   string
	summaryRenderer string
	// 默认值用于 dump 时省略未修改的字段
	defaultRenderer        string
	defaultGroupRenderer   string
	defaultSummaryRenderer string
}

func (c *ColumnBase) init(self Column, id string, desc *ColumnDesc, events ...string) {
	c.self = self
	c.id = id
	c.desc = desc
	c.d = event.NewDispatcher(self, columnEvents...)
	c.d.Declare(events...)
	c.width = DefaultColumnWidth
	if desc.Width > 0 {
		c.width = desc.Width
	}
	c.visible = desc.Visible == nil || *desc.Visible
	c.metadata = MetaData{
		Label:       desc.Label,
		Summary:     desc.Summary,
		Description: desc.Description,
	}
	if c.metadata.Label == "" {
		c.metadata.Label = id
	}
	c.setDefaultRenderer(desc.Type)
	if desc.Renderer != "" {
		c.renderer = desc.Renderer
	}
	if desc.GroupRenderer != "" {
		c.groupRenderer = desc.GroupRenderer
	}
	if desc.SummaryRenderer != "" {
		c.summaryRenderer = desc.SummaryRenderer
	}
}

func (c *ColumnBase) base() *ColumnBase {
	return c
}

// setDefaultWidth 只在描述符没有指定宽度时生效
func (c *ColumnBase) setDefaultWidth(w float64) {
	if c.desc.Width <= 0 {
		c.width = w
	}
}

func (c *ColumnBase) setDefaultRenderer(r string) {
	c.renderer, c.defaultRenderer = r, r
	c.groupRenderer, c.defaultGroupRenderer = r, r
	c.summaryRenderer, c.defaultSummaryRenderer = r, r
}

func (c *ColumnBase) setDefaultGroupRenderer(r string) {
	c.groupRenderer, c.defaultGroupRenderer = r, r
}

func (c *ColumnBase) setDefaultSummaryRenderer(r string) {
	c.summaryRenderer, c.defaultSummaryRenderer = r, r
}

func (c *ColumnBase) ID() string {
	return c.id
}

func (c *ColumnBase) Desc() *ColumnDesc {
	return c.desc
}

func (c *ColumnBase) Type() string {
	return c.desc.Type
}

func (c *ColumnBase) On(typ string, l event.Listener) *event.Subscription {
	return c.d.On(typ, l)
}

func (c *ColumnBase) Off(typ string) {
	c.d.Off(typ)
}

func (c *ColumnBase) Dispatcher() *event.Dispatcher {
	return c.d
}

func (c *ColumnBase) fire(types []string, args ...any) {
	c.d.Fire(types, args...)
}

func (c *ColumnBase) Width() float64 {
	return c.width
}

// SetWidth 非正数或非有限数被忽略
func (c *ColumnBase) SetWidth(w float64) {
	if w <= 0 || math.IsInf(w, 0) || math.IsNaN(w) || w == c.width {
		return
	}
	old := c.width
	c.width = w
	c.fire(with(EventWidthChanged, headerDirty), old, w)
}

func (c *ColumnBase) Label() string {
	return c.metadata.Label
}

func (c *ColumnBase) SetLabel(label string) {
	m := c.self.MetaData()
	m.Label = label
	c.self.SetMetaData(m)
}

func (c *ColumnBase) MetaData() MetaData {
	return c.metadata
}

func (c *ColumnBase) SetMetaData(m MetaData) {
	if m == c.metadata {
		return
	}
	old := c.metadata
	c.metadata = m
	types := []string{EventMetaDataChanged}
	if old.Label != m.Label {
		types = append(types, EventLabelChanged)
	}
	c.fire(append(types, headerDirty...), old, m)
}

func (c *ColumnBase) Color() string {
	if c.desc.Color != "" {
		return c.desc.Color
	}
	return DefaultColor
}

func (c *ColumnBase) GetColor(DataRow) string {
	return c.self.Color()
}

func (c *ColumnBase) Visible() bool {
	return c.visible
}

func (c *ColumnBase) SetVisible(v bool) {
	if v == c.visible {
		return
	}
	c.visible = v
	c.fire(with(EventVisibilityChanged, headerDirty), !v, v)
}

func (c *ColumnBase) Renderer() string {
	return c.renderer
}

func (c *ColumnBase) SetRenderer(r string) {
	if r == c.renderer {
		return
	}
	old := c.renderer
	c.renderer = r
	c.fire(with(EventRendererTypeChanged, valuesDirty), old, r)
}

func (c *ColumnBase) GroupRenderer() string {
	return c.groupRenderer
}

func (c *ColumnBase) SetGroupRenderer(r string) {
	if r == c.groupRenderer {
		return
	}
	old := c.groupRenderer
	c.groupRenderer = r
	c.fire(with(EventGroupRendererChanged, valuesDirty), old, r)
}

func (c *ColumnBase) SummaryRenderer() string {
	return c.summaryRenderer
}

func (c *ColumnBase) SetSummaryRenderer(r string) {
	if r == c.summaryRenderer {
		return
	}
	old := c.summaryRenderer
	c.summaryRenderer = r
	c.fire(with(EventSummaryRendererChanged, headerDirty), old, r)
}

func (c *ColumnBase) Parent() Parent {
	return c.parent
}

func (c *ColumnBase) attach(p Parent) {
	c.parent = p
}

// Ranking 沿父链找到所属的 Ranking
func (c *ColumnBase) Ranking() *Ranking {
	switch p := c.parent.(type) {
	case *Ranking:
		return p
	case Column:
		return p.Ranking()
	default:
		return nil
	}
}

func (c *ColumnBase) GetValue(DataRow) any {
	return nil
}

func (c *ColumnBase) GetLabel(row DataRow) string {
	return toString(c.self.GetValue(row))
}

func (c *ColumnBase) Compare(DataRow, DataRow) int {
	return 0
}

func (c *ColumnBase) Group(DataRow) *Group {
	return DefaultGroup()
}

func (c *ColumnBase) IsMissing(DataRow) bool {
	return false
}

func (c *ColumnBase) IsFiltered() bool {
	return false
}

func (c *ColumnBase) Filter(DataRow) bool {
	return true
}

// SortByMe 让所属的 Ranking 只按这一列排序
func (c *ColumnBase) SortByMe(asc bool) bool {
	r := c.Ranking()
	if r == nil {
		return false
	}
	return r.SortBy(c.self, asc)
}

// IsSortedByMe 返回这一列在排序条件中的位置和方向，不在其中时 priority 为 -1
func (c *ColumnBase) IsSortedByMe() (asc bool, priority int) {
	r := c.Ranking()
	if r == nil {
		return false, -1
	}
	for i, s := range r.SortCriteria() {
		if s.Col == c.self {
			return s.Asc, i
		}
	}
	return false, -1
}

// GroupByMe 切换这一列是否参与分组
func (c *ColumnBase) GroupByMe() bool {
	r := c.Ranking()
	if r == nil {
		return false
	}
	return r.ToggleGrouping(c.self)
}

// IsGroupedBy 返回这一列在分组条件中的位置，不在其中时为 -1
func (c *ColumnBase) IsGroupedBy() int {
	r := c.Ranking()
	if r == nil {
		return -1
	}
	for i, g := range r.GroupCriteria() {
		if g == c.self {
			return i
		}
	}
	return -1
}

// RemoveMe 从父容器中移除自己
func (c *ColumnBase) RemoveMe() bool {
	if c.parent == nil {
		return false
	}
	return c.parent.Remove(c.self)
}

// InsertAfterMe 在父容器中紧跟自己插入 col
func (c *ColumnBase) InsertAfterMe(col Column) Column {
	if c.parent == nil {
		return nil
	}
	return c.parent.Insert(col, c.parent.IndexOf(c.self)+1)
}

func (c *ColumnBase) Dump(toDescRef DescRefFunc) Dump {
	r := Dump{
		"id":    c.id,
		"desc":  toDescRef(c.desc),
		"width": c.width,
	}
	if c.metadata.Label != c.defaultLabel() {
		r["label"] = c.metadata.Label
	}
	if c.metadata.Summary != c.desc.Summary {
		r["summary"] = c.metadata.Summary
	}
	if c.metadata.Description != c.desc.Description {
		r["description"] = c.metadata.Description
	}
	if c.renderer != c.defaultRenderer {
		r["renderer"] = c.renderer
	}
	if c.groupRenderer != c.defaultGroupRenderer {
		r["groupRenderer"] = c.groupRenderer
	}
	if c.summaryRenderer != c.defaultSummaryRenderer {
		r["summaryRenderer"] = c.summaryRenderer
	}
	if !c.visible {
		r["visible"] = false
	}
	return r
}

func (c *ColumnBase) defaultLabel() string {
	if c.desc.Label != "" {
		return c.desc.Label
	}
	return c.id
}

func (c *ColumnBase) Restore(dump Dump, _ Factory) {
	if w, ok := dump.Float("width"); ok && w > 0 && !math.IsInf(w, 0) {
		c.width = w
	}
	if l, ok := dump.String("label"); ok {
		c.metadata.Label = l
	}
	if s, ok := dump.String("summary"); ok {
		c.metadata.Summary = s
	}
	if s, ok := dump.String("description"); ok {
		c.metadata.Description = s
	}
	if r, ok := dump.String("renderer"); ok {
		c.renderer = r
	}
	if r, ok := dump.String("groupRenderer"); ok {
		c.groupRenderer = r
	}
	if r, ok := dump.String("summaryRenderer"); ok {
		c.summaryRenderer = r
	}
	if v, ok := dump.Bool("visible"); ok {
		c.visible = v
	}
}

// assignNewID 递归地为列及其子列分配新的 id
func assignNewID(col Column, next func() string) {
	b := col.base()
	if b.metadata.Label == b.id {
		b.metadata.Label = ""
	}
	b.id = next()
	if b.metadata.Label == "" {
		b.metadata.Label = b.id
	}
	if comp, ok := col.(Composite); ok {
		for _, child := range comp.Children() {
			assignNewID(child, next)
		}
	}
}

// FlatColumns 深度优先展开组合列，包含组合列自身
func FlatColumns(cols []Column) []Column {
	res := make([]Column, 0, len(cols))
	for _, c := range cols {
		res = append(res, c)
		if comp, ok := c.(Composite); ok {
			res = append(res, FlatColumns(comp.Children())...)
		}
	}
	return res
}
