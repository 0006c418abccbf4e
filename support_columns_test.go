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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectionColumn_WithoutProvider(t *testing.T) {
	selected := map[int]bool{}
	desc := CreateSelectionDesc()
	desc.IsSelected = func(row DataRow) bool {
		return selected[row.I]
	}
	desc.SetSelected = func(row DataRow, v bool) {
		selected[row.I] = v
	}
	c := NewSelectionColumn("sel", desc)
	events := recordEvents(c.Dispatcher(), EventSelect)
	a, b := DataRow{I: 0}, DataRow{I: 1}

	assert.True(t, c.Toggle(a))
	assert.Equal(t, "true", c.GetLabel(a))
	assert.Equal(t, -1, c.Compare(a, b))
	assert.Equal(t, 1, c.Compare(b, a))
	assert.Equal(t, "Selected", c.Group(a).Name)
	assert.Equal(t, "Unselected", c.Group(b).Name)
	assert.False(t, c.Toggle(a))
	assert.Equal(t, 0, c.Compare(a, b))
	assert.Len(t, *events, 2)

	// 没有批量回调时只触发事件
	c.SetValues([]int{3}, true)
	c.SetValues(nil, true)
	assert.Len(t, *events, 3)

	bare := NewSelectionColumn("bare", CreateSelectionDesc())
	assert.False(t, bare.IsSelected(a))
}

func TestAggregateGroupColumn(t *testing.T) {
	p := newTestProvider(t)
	r := p.PushRanking(nil)
	col := p.Push(r, CreateAggregationDesc()).(*AggregateGroupColumn)
	g := &Group{Name: "A"}
	events := recordEvents(col.Dispatcher(), EventAggregate)

	assert.True(t, col.SetAggregated(g, true))
	assert.False(t, col.SetAggregated(g, true))
	assert.True(t, col.IsAggregated(g))
	assert.True(t, p.IsAggregated(r, g))

	col.AggregateAll(false)
	assert.Len(t, *events, 2)

	detached := NewAggregateGroupColumn("agg", CreateAggregationDesc())
	assert.False(t, detached.SetAggregated(g, true))
	assert.False(t, detached.IsAggregated(g))
}

func TestActionColumn(t *testing.T) {
	c := NewActionColumn("a", CreateActionDesc("", "edit", "delete"))
	assert.Equal(t, "actions", c.Label())
	assert.Equal(t, []string{"edit", "delete"}, c.Actions())
	assert.Equal(t, 50.0, c.Width())
}

func TestTraitsOf(t *testing.T) {
	testCases := []struct {
		name        string
		col         Column
		wantSupport bool
		wantDefault string
		wantCat     string
	}{
		{
			name:        "string",
			col:         NewStringColumn("s", &ColumnDesc{Type: TypeString}),
			wantDefault: "ascending",
			wantCat:     CategoryString,
		},
		{
			name:        "stack",
			col:         NewStackColumn("s", CreateStackDesc("")),
			wantDefault: "descending",
			wantCat:     CategoryCombine,
		},
		{
			name:        "rank",
			col:         NewRankColumn("r", CreateRankDesc()),
			wantSupport: true,
			wantCat:     CategorySupport,
		},
		{
			name: "unknown",
			col:  NewCompositeColumn("x", &ColumnDesc{Type: "custom"}),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tr := TraitsOf(tc.col)
			assert.Equal(t, tc.wantSupport, tr.Support)
			assert.Equal(t, tc.wantDefault, tr.SortByDefault)
			assert.Equal(t, tc.wantCat, tr.Category)
			assert.Equal(t, tc.wantSupport, IsSupportType(tc.col.Type()))
		})
	}
}

func TestDefaultColumnTypes(t *testing.T) {
	types := DefaultColumnTypes()
	for typ, ctor := range types {
		desc := &ColumnDesc{Type: typ, Column: "v"}
		col := ctor("id", desc)
		assert.Equal(t, typ, col.Type())
		assert.Equal(t, "id", col.ID())
		assert.Contains(t, traits, typ)
	}
}
