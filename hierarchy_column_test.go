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

	"github.com/ecodeclub/erank/internal/errs"
	"github.com/ecodeclub/erank/internal/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHierarchyDesc() *ColumnDesc {
	return &ColumnDesc{Type: TypeHierarchy, Column: "h", Hierarchy: &HierarchyDesc{
		Children: []*HierarchyDesc{
			{Name: "A", Children: []*HierarchyDesc{{Name: "a1"}, {Name: "a2", Color: "#ff0000"}}},
			{Name: "B"},
		},
	}}
}

func categoryNames(cats []*Category) []string {
	res := make([]string, len(cats))
	for i, c := range cats {
		res[i] = c.Name
	}
	return res
}

func TestBuildHierarchy(t *testing.T) {
	c := NewHierarchyColumn("h", testHierarchyDesc())
	root := c.Hierarchy()
	assert.Equal(t, "", root.Path)
	assert.Equal(t, "A.a1", root.Children[0].Children[0].Path)
	assert.Equal(t, "A.a1", root.Children[0].Children[0].Label)
	assert.Equal(t, "#ff0000", root.Children[0].Children[1].Color)
	assert.NotEmpty(t, root.Children[1].Color)

	nodes := ResolveInnerNodes(root)
	paths := make([]string, len(nodes))
	for i, n := range nodes {
		paths[i] = n.Path
	}
	assert.Equal(t, []string{"", "A", "B", "A.a1", "A.a2"}, paths)
}

func TestHierarchyColumn_GetCategory(t *testing.T) {
	testCases := []struct {
		name     string
		maxDepth int
		value    any
		want     string
	}{
		{name: "leaf name", value: "a1", want: "a1"},
		{name: "leaf path", value: "A.a2", want: "a2"},
		{name: "below leaf", value: "B.x.y", want: "B"},
		{name: "unknown", value: "C"},
		{name: "missing", value: nil},
		{name: "cut off by path", maxDepth: 1, value: "A.a1", want: "A"},
		{name: "cut off hides leaf name", maxDepth: 1, value: "a1"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewHierarchyColumn("h", testHierarchyDesc())
			c.SetCutOff(CutOff{MaxDepth: tc.maxDepth})
			row := DataRow{V: map[string]any{"h": tc.value}}
			cat := c.GetCategory(row)
			if tc.want == "" {
				assert.Nil(t, cat)
				assert.True(t, c.IsMissing(row))
				return
			}
			require.NotNil(t, cat)
			assert.Equal(t, tc.want, cat.Name)
			assert.Equal(t, tc.want, c.GetValue(row))
		})
	}
}

func TestHierarchyColumn_CutOff(t *testing.T) {
	c := NewHierarchyColumn("h", testHierarchyDesc())
	assert.Equal(t, []string{"a1", "a2", "B"}, categoryNames(c.Categories()))
	events := recordEvents(c.Dispatcher(), EventCutOffChanged, EventDirtyValues)

	c.SetCutOff(CutOff{})
	assert.Empty(t, *events)

	c.SetCutOff(CutOff{MaxDepth: 1})
	assert.Equal(t, []string{EventCutOffChanged, EventDirtyValues}, *events)
	assert.Equal(t, []string{"A", "B"}, categoryNames(c.Categories()))

	a := c.Hierarchy().Children[0]
	c.SetCutOff(CutOff{Node: a})
	assert.Equal(t, []string{"a1", "a2"}, categoryNames(c.Categories()))

	d := c.Dump(descRef)
	assert.Equal(t, Dump{"node": "A"}, d["cutOff"])
	restored := NewHierarchyColumn("h", c.Desc())
	restored.Restore(d, nil)
	assert.Same(t, restored.Hierarchy().Children[0], restored.CutOff().Node)
	assert.Equal(t, []string{"a1", "a2"}, categoryNames(restored.Categories()))
}

func TestHierarchyColumn_Compare(t *testing.T) {
	c := NewHierarchyColumn("h", testHierarchyDesc())
	a1 := DataRow{V: map[string]any{"h": "a1"}}
	b := DataRow{V: map[string]any{"h": "B"}}
	none := DataRow{V: map[string]any{}}
	assert.Less(t, c.Compare(a1, b), 0)
	assert.Equal(t, FirstIsMissing, c.Compare(none, b))
	assert.Equal(t, "B", c.Group(b).Name)
	assert.Equal(t, "#ff0000", c.GetColor(DataRow{V: map[string]any{"h": "a2"}}))
}

func TestIsHierarchical(t *testing.T) {
	testCases := []struct {
		name string
		cats []any
		want bool
	}{
		{name: "empty"},
		{name: "strings", cats: []any{"a", "b"}},
		{
			name: "maps without parent",
			cats: []any{map[string]any{"name": "a"}},
		},
		{
			name: "maps with parent",
			cats: []any{map[string]any{"name": "a"}, map[string]any{"name": "b", "parent": "a"}},
			want: true,
		},
		{
			name: "structs",
			cats: []any{ParentedCategory{Name: "a"}, &ParentedCategory{Name: "b", Parent: "a"}},
			want: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsHierarchical(tc.cats))
		})
	}
}

func TestDeriveHierarchy(t *testing.T) {
	testCases := []struct {
		name     string
		cats     []ParentedCategory
		wantName string
		wantKids []string
		wantErr  error
	}{
		{
			name: "many roots",
			cats: []ParentedCategory{
				{Name: "A"}, {Name: "a1", Parent: "A"}, {Name: "B"},
			},
			wantName: "",
			wantKids: []string{"A", "B"},
		},
		{
			name: "single root collapsed",
			cats: []ParentedCategory{
				{Name: "a1", Parent: "A"}, {Name: "A", Label: "Alpha"}, {Name: "a2", Parent: "A"},
			},
			wantName: "A",
			wantKids: []string{"a1", "a2"},
		},
		{
			name:    "missing root",
			cats:    []ParentedCategory{{Name: "a1", Parent: "A"}},
			wantErr: errs.ErrMissingRoot,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := DeriveHierarchy(tc.cats)
			assert.Equal(t, tc.wantErr, err)
			if err != nil {
				return
			}
			assert.Equal(t, tc.wantName, res.Name)
			kids := make([]string, len(res.Children))
			for i, k := range res.Children {
				kids[i] = k.Name
			}
			assert.Equal(t, tc.wantKids, kids)
		})
	}
}

func TestAnnotateColumn(t *testing.T) {
	c := NewAnnotateColumn("a", &ColumnDesc{Type: TypeAnnotate, Column: "name"})
	row := DataRow{I: 3, V: map[string]any{"name": "Alice"}}
	empty := DataRow{I: 4, V: map[string]any{}}
	var changed [][]any
	c.On(EventValueChanged, func(e *event.Event) {
		changed = append(changed, e.Args)
	})

	assert.False(t, c.SetValue(row, "Alice"))
	assert.True(t, c.SetValue(row, "Alicia"))
	assert.Equal(t, "Alicia", c.GetLabel(row))
	assert.True(t, c.IsMissing(empty))
	assert.True(t, c.SetValue(empty, "note"))
	assert.False(t, c.IsMissing(empty))

	// 覆盖值参与过滤
	c.SetFilter(&StringFilter{Value: "lici"})
	assert.True(t, c.Filter(row))

	d := c.Dump(descRef)
	assert.Equal(t, map[string]any{"3": "Alicia", "4": "note"}, d["annotations"])

	assert.True(t, c.SetValue(row, ""))
	assert.Equal(t, "Alice", c.GetLabel(row))
	assert.False(t, c.SetValue(DataRow{I: 9, V: map[string]any{"name": "x"}}, ""))
	assert.Equal(t, map[int]string{4: "note"}, c.Annotations())
	assert.Equal(t, []any{3, "Alice", "Alicia"}, changed[0])
	assert.Len(t, changed, 3)

	restored := NewAnnotateColumn("a", c.Desc())
	restored.Restore(d, nil)
	assert.Equal(t, map[int]string{3: "Alicia", 4: "note"}, restored.Annotations())
	assert.True(t, restored.IsFiltered())
}
