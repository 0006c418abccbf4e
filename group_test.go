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
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroup(t *testing.T) {
	root := &Group{Name: "root"}
	a := &Group{Name: "a", Parent: root, Order: []int{1, 2}}
	b := &Group{Name: "b", Parent: root, Order: []int{0}}
	root.Subgroups = []*Group{a, b}

	assert.Equal(t, "root.a", a.ID())
	assert.Equal(t, []*Group{root, a}, a.Path())
	assert.Equal(t, []*Group{a, b}, root.Leaves())
	assert.Equal(t, 3, root.Size())
	assert.Equal(t, "rank0@root.b", groupKey("rank0", b))

	rid, gid, ok := splitGroupKey("rank0@root.b")
	assert.True(t, ok)
	assert.Equal(t, "rank0", rid)
	assert.Equal(t, "root.b", gid)
	_, _, ok = splitGroupKey("broken")
	assert.False(t, ok)
}

func TestUnifyParents(t *testing.T) {
	// 同名的父分组由不同的实例表示
	a := &Group{Name: "a", Parent: &Group{Name: "p"}}
	b := &Group{Name: "b", Parent: &Group{Name: "p"}}
	c := &Group{Name: "c", Parent: &Group{Name: "q"}}
	unifyParents([]*Group{a, b, c})
	assert.Same(t, a.Parent, b.Parent)
	assert.NotSame(t, a.Parent, c.Parent)
	assert.Equal(t, []*Group{a, b}, a.Parent.Subgroups)

	// 重复调用不会产生重复的子分组
	unifyParents([]*Group{a, b, c})
	assert.Len(t, a.Parent.Subgroups, 2)
}

func TestDump_Accessors(t *testing.T) {
	raw := `{"s":"x","b":true,"f":1.5,"i":3,"n":null,"arr":[1,"2",null],"strs":["a",1,"b"],
		"obj":{"k":"v"},"objs":[{"a":1},"skip",{"b":2}]}`
	var d Dump
	require.NoError(t, json.Unmarshal([]byte(raw), &d))

	s, ok := d.String("s")
	assert.True(t, ok)
	assert.Equal(t, "x", s)
	_, ok = d.String("f")
	assert.False(t, ok)

	bv, ok := d.Bool("b")
	assert.True(t, ok && bv)

	f, ok := d.Float("f")
	assert.True(t, ok)
	assert.Equal(t, 1.5, f)
	_, ok = d.Float("n")
	assert.False(t, ok)
	_, ok = d.Float("s")
	assert.False(t, ok)

	i, ok := d.Int("i")
	assert.True(t, ok)
	assert.Equal(t, 3, i)

	assert.True(t, d.Has("s"))
	assert.False(t, d.Has("n"))
	assert.False(t, d.Has("missing"))

	floats, ok := d.Floats("arr")
	assert.True(t, ok)
	assert.Equal(t, 2.0, floats[1])
	assert.True(t, math.IsNaN(floats[2]))
	ints, _ := d.Ints("arr")
	assert.Equal(t, []int{1, 2}, ints)

	strs, _ := d.Strings("strs")
	assert.Equal(t, []string{"a", "b"}, strs)

	obj, ok := d.Dump("obj")
	assert.True(t, ok)
	assert.Equal(t, Dump{"k": "v"}, obj)

	objs, _ := d.Dumps("objs")
	assert.Len(t, objs, 2)
}

func TestDump_Clone(t *testing.T) {
	d := Dump{
		"nested": Dump{"list": []any{1, Dump{"x": 1}}},
		"floats": []float64{1, 2},
	}
	c := d.Clone()
	assert.Equal(t, d, c)
	c["nested"].(Dump)["list"].([]any)[1].(Dump)["x"] = 2
	c["floats"].([]float64)[0] = 9
	assert.Equal(t, 1, d["nested"].(Dump)["list"].([]any)[1].(Dump)["x"])
	assert.Equal(t, 1.0, d["floats"].([]float64)[0])
	assert.Nil(t, Dump(nil).Clone())
}

func TestDump_Normalize(t *testing.T) {
	d := Dump{"ints": []int{1, 2}, "nested": Dump{"f": 1}}
	n, err := d.Normalize()
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, 2.0}, n["ints"])
	assert.Equal(t, map[string]any{"f": 1.0}, n["nested"])
}

type person struct {
	Name     string
	Age      *int
	Born     time.Time `erank:"column=birthday"`
	Password string    `erank:"-"`
}

func TestDefaultAccessor(t *testing.T) {
	age := 42
	born := time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)
	testCases := []struct {
		name   string
		row    any
		column string
		want   any
	}{
		{name: "map", row: map[string]any{"a": 1}, column: "a", want: 1},
		{name: "map missing", row: map[string]any{"a": 1}, column: "b"},
		{name: "string map", row: map[string]string{"a": "x"}, column: "a", want: "x"},
		{name: "slice", row: []any{"x", 2}, column: "1", want: 2},
		{name: "slice out of range", row: []any{"x"}, column: "3"},
		{name: "string slice", row: []string{"x", "y"}, column: "0", want: "x"},
		{name: "struct", row: person{Name: "Ann"}, column: "name", want: "Ann"},
		{name: "struct pointer field", row: &person{Age: &age}, column: "age", want: 42},
		{name: "struct nil pointer field", row: person{}, column: "age"},
		{name: "struct tag", row: person{Born: born}, column: "birthday", want: born},
		{name: "struct ignored", row: person{Password: "p"}, column: "password"},
		{name: "nil", row: nil, column: "a"},
		{name: "unsupported", row: 3, column: "a"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := DefaultAccessor(DataRow{V: tc.row}, &ColumnDesc{Column: tc.column})
			assert.Equal(t, tc.want, res)
		})
	}
}

func TestToNumber(t *testing.T) {
	testCases := []struct {
		name string
		v    any
		want float64
	}{
		{name: "float", v: 1.5, want: 1.5},
		{name: "int", v: 2, want: 2},
		{name: "uint8", v: uint8(7), want: 7},
		{name: "json number", v: json.Number("3.5"), want: 3.5},
		{name: "string", v: " 4 ", want: 4},
		{name: "bytes", v: []byte("5"), want: 5},
		{name: "NA", v: "NA", want: math.NaN()},
		{name: "garbage", v: "abc", want: math.NaN()},
		{name: "bool", v: true, want: math.NaN()},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := toNumber(tc.v)
			if math.IsNaN(tc.want) {
				assert.True(t, math.IsNaN(res))
				return
			}
			assert.Equal(t, tc.want, res)
		})
	}
}

func TestIsMissingValue(t *testing.T) {
	testCases := []struct {
		v    any
		want bool
	}{
		{v: nil, want: true},
		{v: "", want: true},
		{v: "  ", want: true},
		{v: "na", want: true},
		{v: "NULL", want: true},
		{v: math.NaN(), want: true},
		{v: float32(math.NaN()), want: true},
		{v: "0", want: false},
		{v: 0, want: false},
		{v: false, want: false},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, IsMissingValue(tc.v), "%#v", tc.v)
	}
}

func TestDeriveDescs(t *testing.T) {
	descs, err := DeriveDescs(&person{})
	require.NoError(t, err)
	assert.Equal(t, []*ColumnDesc{
		{Type: TypeString, Label: "Name", Column: "name"},
		{Type: TypeNumber, Label: "Age", Column: "age"},
		{Type: TypeDates, Label: "Born", Column: "birthday"},
	}, descs)

	_, err = DeriveDescs(map[string]any{})
	assert.Error(t, err)
}
