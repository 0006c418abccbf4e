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
	"fmt"
	"math"
	"testing"

	"github.com/ecodeclub/erank/internal/event"
	"github.com/stretchr/testify/assert"
)

// recordEvents 记录 col 上 types 的每次投递
func recordEvents(d *event.Dispatcher, types ...string) *[]string {
	var res []string
	for _, typ := range types {
		d.On(typ, func(e *event.Event) {
			res = append(res, e.Type)
		})
	}
	return &res
}

func TestColumnBase_SetWidth(t *testing.T) {
	testCases := []struct {
		name       string
		width      float64
		wantWidth  float64
		wantEvents []string
	}{
		{
			name:       "changed",
			width:      120,
			wantWidth:  120,
			wantEvents: []string{EventWidthChanged, EventDirtyHeader, EventDirty},
		},
		{
			name:      "same",
			width:     200,
			wantWidth: 200,
		},
		{
			name:      "zero",
			width:     0,
			wantWidth: 200,
		},
		{
			name:      "negative",
			width:     -3,
			wantWidth: 200,
		},
		{
			name:      "inf",
			width:     math.Inf(1),
			wantWidth: 200,
		},
		{
			name:      "nan",
			width:     math.NaN(),
			wantWidth: 200,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewStringColumn("c", &ColumnDesc{Type: TypeString, Column: "name"})
			events := recordEvents(c.Dispatcher(), EventWidthChanged, EventDirtyHeader, EventDirty)
			c.SetWidth(tc.width)
			assert.Equal(t, tc.wantWidth, c.Width())
			assert.Equal(t, tc.wantEvents, *events)
		})
	}
}

func TestColumnBase_MetaData(t *testing.T) {
	c := NewStringColumn("c", &ColumnDesc{Type: TypeString, Column: "name", Summary: "s"})
	assert.Equal(t, "c", c.Label())
	events := recordEvents(c.Dispatcher(), EventMetaDataChanged, EventLabelChanged, EventDirtyHeader)

	c.SetLabel("Name")
	assert.Equal(t, "Name", c.Label())
	assert.Equal(t, []string{EventMetaDataChanged, EventLabelChanged, EventDirtyHeader}, *events)

	*events = nil
	c.SetMetaData(MetaData{Label: "Name", Summary: "other"})
	assert.Equal(t, []string{EventMetaDataChanged, EventDirtyHeader}, *events)

	*events = nil
	c.SetMetaData(MetaData{Label: "Name", Summary: "other"})
	assert.Empty(t, *events)
}

func TestColumnBase_Visible(t *testing.T) {
	hidden := false
	c := NewStringColumn("c", &ColumnDesc{Type: TypeString, Visible: &hidden})
	assert.False(t, c.Visible())
	var got []any
	c.On(EventVisibilityChanged, func(e *event.Event) {
		got = e.Args
	})
	c.SetVisible(true)
	assert.True(t, c.Visible())
	assert.Equal(t, []any{false, true}, got)
}

func TestColumnBase_Renderer(t *testing.T) {
	c := NewStringColumn("c", &ColumnDesc{Type: TypeString})
	assert.Equal(t, TypeString, c.Renderer())
	events := recordEvents(c.Dispatcher(), EventRendererTypeChanged, EventGroupRendererChanged,
		EventSummaryRendererChanged, EventDirtyValues, EventDirtyHeader)
	c.SetRenderer("link")
	c.SetGroupRenderer("link")
	c.SetSummaryRenderer("link")
	c.SetSummaryRenderer("link")
	assert.Equal(t, []string{
		EventRendererTypeChanged, EventDirtyValues,
		EventGroupRendererChanged, EventDirtyValues,
		EventSummaryRendererChanged, EventDirtyHeader,
	}, *events)
	d := c.Dump(descRef)
	assert.Equal(t, "link", d["renderer"])
	assert.Equal(t, "link", d["summaryRenderer"])
}

func TestColumnBase_DumpRestore(t *testing.T) {
	testCases := []struct {
		name   string
		before func(c *StringColumn)
		want   Dump
	}{
		{
			name:   "defaults omitted",
			before: func(c *StringColumn) {},
			want: Dump{
				"id": "c", "desc": "string@name", "width": 200.0,
			},
		},
		{
			name: "changed fields",
			before: func(c *StringColumn) {
				c.SetLabel("Label")
				c.SetWidth(50)
				c.SetVisible(false)
				c.SetMetaData(MetaData{Label: "Label", Summary: "sum", Description: "desc"})
			},
			want: Dump{
				"id": "c", "desc": "string@name", "width": 50.0,
				"label": "Label", "summary": "sum", "description": "desc",
				"visible": false,
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			desc := &ColumnDesc{Type: TypeString, Column: "name"}
			c := NewStringColumn("c", desc)
			tc.before(c)
			d := c.ColumnBase.Dump(descRef)
			assert.Equal(t, tc.want, d)

			restored := NewStringColumn("c", desc)
			restored.Restore(d, nil)
			assert.Equal(t, c.MetaData(), restored.MetaData())
			assert.Equal(t, c.Width(), restored.Width())
			assert.Equal(t, c.Visible(), restored.Visible())
		})
	}
}

func TestColumnBase_Ranking(t *testing.T) {
	r := NewRanking("r")
	stack := NewStackColumn("s", CreateStackDesc(""))
	child := NewNumberColumn("n", &ColumnDesc{Type: TypeNumber, Column: "age"})
	stack.Push(child)
	assert.Nil(t, child.Ranking())
	r.Push(stack)
	assert.Same(t, r, child.Ranking())
	assert.Same(t, r, stack.Ranking())

	assert.True(t, child.RemoveMe())
	assert.Nil(t, child.Ranking())
	assert.False(t, child.RemoveMe())
}

func TestColumnBase_SortAndGroupByMe(t *testing.T) {
	r := NewRanking("r")
	name := NewStringColumn("name", &ColumnDesc{Type: TypeString, Column: "name"})
	age := NewNumberColumn("age", &ColumnDesc{Type: TypeNumber, Column: "age"})
	r.Push(name)
	r.Push(age)

	asc, prio := age.IsSortedByMe()
	assert.Equal(t, -1, prio)
	assert.True(t, age.SortByMe(true))
	asc, prio = age.IsSortedByMe()
	assert.True(t, asc)
	assert.Equal(t, 0, prio)

	assert.Equal(t, -1, name.IsGroupedBy())
	assert.True(t, name.GroupByMe())
	assert.Equal(t, 0, name.IsGroupedBy())
	assert.True(t, name.GroupByMe())
	assert.Equal(t, -1, name.IsGroupedBy())

	inserted := name.InsertAfterMe(NewBooleanColumn("b", &ColumnDesc{Type: TypeBoolean, Column: "active"}))
	assert.NotNil(t, inserted)
	assert.Equal(t, 1, r.IndexOf(inserted))
}

func TestAssignNewID(t *testing.T) {
	stack := NewStackColumn("s", CreateStackDesc(""))
	a := NewNumberColumn("a", &ColumnDesc{Type: TypeNumber, Column: "age"})
	b := NewNumberColumn("b", &ColumnDesc{Type: TypeNumber, Column: "age", Label: "B"})
	stack.Push(a)
	stack.Push(b)
	i := 0
	assignNewID(stack, func() string {
		i++
		return fmt.Sprintf("x%d", i)
	})
	assert.Equal(t, []string{"x1", "x2", "x3"}, []string{stack.ID(), a.ID(), b.ID()})
	assert.Equal(t, "x2", a.Label())
	assert.Equal(t, "B", b.Label())
}

func TestFlatColumns(t *testing.T) {
	stack := NewStackColumn("s", CreateStackDesc(""))
	a := NewNumberColumn("a", &ColumnDesc{Type: TypeNumber, Column: "age"})
	stack.Push(a)
	name := NewStringColumn("name", &ColumnDesc{Type: TypeString, Column: "name"})
	res := FlatColumns([]Column{name, stack})
	assert.Equal(t, []Column{name, stack, a}, res)
}

func ExampleStringColumn_GetLabel() {
	c := NewStringColumn("c", &ColumnDesc{Type: TypeString, Column: "name"})
	fmt.Println(c.GetLabel(DataRow{V: map[string]any{"name": "Alice"}}))
	fmt.Println(c.IsMissing(DataRow{V: map[string]any{"name": "NA"}}))
	// Output:
	// Alice
	// true
}
