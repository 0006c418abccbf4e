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
	"testing"

	"github.com/ecodeclub/erank/internal/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScoreColumn() *NumberColumn {
	return NewNumberColumn("score", &ColumnDesc{Type: TypeNumber, Label: "Score", Column: "score", Domain: []float64{0, 10}})
}

func newCatColumn() *CategoricalColumn {
	return NewCategoricalColumn("cat", &ColumnDesc{Type: TypeCategorical, Label: "Cat", Column: "cat",
		Categories: []CategoryDesc{{Name: "a", Color: "#00ff00"}, {Name: "b"}}})
}

func TestCompositeColumn_Children(t *testing.T) {
	c := NewCompositeColumn("c", &ColumnDesc{Type: "nested"})
	age, score := newAgeColumn(), newScoreColumn()
	var added, removed [][]any
	c.On(EventAddColumn, func(e *event.Event) {
		added = append(added, e.Args)
	})
	c.On(EventRemoveColumn, func(e *event.Event) {
		removed = append(removed, e.Args)
	})
	filterChanged := 0
	c.On(EventFilterChanged, func(e *event.Event) {
		filterChanged++
	})

	assert.Same(t, age, c.Push(age))
	assert.Same(t, score, c.Insert(score, 0))
	assert.Nil(t, c.Push(age))
	assert.Equal(t, []Column{score, age}, c.Children())
	assert.Equal(t, [][]any{{age, 0}, {score, 0}}, added)

	assert.Same(t, score, c.Move(score, 5))
	assert.Equal(t, []Column{age, score}, c.Children())

	age.SetFilter(NumberFilter{Min: 40, Max: math.Inf(1)})
	assert.Equal(t, 1, filterChanged)
	assert.True(t, c.IsFiltered())
	assert.False(t, c.Filter(DataRow{V: map[string]any{"age": 30}}))

	assert.True(t, c.Remove(age))
	assert.False(t, c.Remove(age))
	assert.Nil(t, age.Parent())
	assert.Equal(t, [][]any{{age, 0}}, removed)
	age.SetFilter(NoNumberFilter())
	assert.Equal(t, 1, filterChanged)
}

func TestStackColumn(t *testing.T) {
	c := NewStackColumn("s", CreateStackDesc(""))
	age, score := newAgeColumn(), newScoreColumn()
	c.Push(age)
	assert.Equal(t, []float64{1}, c.Weights())
	c.Push(score)
	assert.Equal(t, []float64{0.5, 0.5}, c.Weights())
	assert.Nil(t, c.Push(NewStringColumn("name", &ColumnDesc{Type: TypeString, Column: "name"})))

	testCases := []struct {
		name    string
		weights []float64
		row     map[string]any
		want    float64
	}{
		{
			name: "equal weights",
			row:  map[string]any{"age": 30, "score": 5},
			want: 0.4,
		},
		{
			name:    "weighted",
			weights: []float64{3, 1},
			row:     map[string]any{"age": 30, "score": 5},
			want:    0.35,
		},
		{
			name: "missing child counts as zero",
			row:  map[string]any{"score": 5},
			want: 0.25,
		},
		{
			name:    "invalid weights ignored",
			weights: []float64{1, -1},
			row:     map[string]any{"age": 30, "score": 5},
			want:    0.4,
		},
		{
			name:    "wrong length ignored",
			weights: []float64{1},
			row:     map[string]any{"age": 30, "score": 5},
			want:    0.4,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c.SetWeights([]float64{1, 1})
			if tc.weights != nil {
				c.SetWeights(tc.weights)
			}
			assert.InDelta(t, tc.want, c.GetNumber(DataRow{V: tc.row}), 1e-9)
		})
	}
	empty := DataRow{V: map[string]any{}}
	assert.True(t, math.IsNaN(c.GetNumber(empty)))
	assert.True(t, c.IsMissing(empty))
	assert.Equal(t, MissingGroupName, c.Group(empty).Name)

	c.SetWeights([]float64{3, 1})
	assert.True(t, c.Remove(age))
	assert.Equal(t, []float64{1}, c.Weights())
}

func TestStackColumn_DumpRestore(t *testing.T) {
	c := NewStackColumn("s", CreateStackDesc(""))
	c.Push(newAgeColumn())
	c.Push(newScoreColumn())
	c.SetWeights([]float64{1, 3})
	d := c.Dump(descRef)

	factory := func(d Dump) Column {
		id, _ := d.String("id")
		if id == "age" {
			return newAgeColumn()
		}
		return newScoreColumn()
	}
	restored := NewStackColumn("s", CreateStackDesc(""))
	restored.Restore(d, factory)
	require.Len(t, restored.Children(), 2)
	assert.InDeltaSlice(t, []float64{0.25, 0.75}, restored.Weights(), 1e-9)
}

func TestScriptColumn(t *testing.T) {
	c := NewScriptColumn("s", CreateScriptDesc(""))
	c.Push(newAgeColumn())
	c.Push(newScoreColumn())
	row := DataRow{V: map[string]any{"age": 30, "score": 5}}

	testCases := []struct {
		name    string
		script  string
		want    float64
		wantErr bool
	}{
		{name: "default", script: DefaultScript, want: 0.5},
		{name: "expression", script: "values[1] + values[2]", want: 0.8},
		{name: "raw values", script: "return raws[1] / 10", want: 3},
		{name: "by index", script: "index + 1", want: 8},
		{name: "not a number", script: "return 'x'", want: math.NaN()},
		{name: "compile error", script: "return (", want: math.NaN(), wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c.SetScript(tc.script)
			r := row
			if tc.name == "by index" {
				r.I = 7
			}
			res := c.GetNumber(r)
			if math.IsNaN(tc.want) {
				assert.True(t, math.IsNaN(res))
			} else {
				assert.InDelta(t, tc.want, res, 1e-9)
			}
			assert.Equal(t, tc.wantErr, c.Err() != nil)
		})
	}
}

func TestScriptColumn_DumpRestore(t *testing.T) {
	c := NewScriptColumn("s", CreateScriptDesc(""))
	events := recordEvents(c.Dispatcher(), EventScriptChanged)
	c.SetScript("min(values)")
	c.SetScript("min(values)")
	assert.Equal(t, []string{EventScriptChanged}, *events)

	restored := NewScriptColumn("s", CreateScriptDesc(""))
	restored.Restore(c.Dump(descRef), func(Dump) Column { return nil })
	assert.Equal(t, "min(values)", restored.Script())
}

func TestImpositionsColumn(t *testing.T) {
	c := NewImpositionsColumn("i", CreateImpositionsDesc(""))
	assert.Equal(t, ImpositionLabel, c.Label())
	assert.Nil(t, c.Push(newCatColumn()))

	age := newAgeColumn()
	age.SetLabel("Age")
	require.NotNil(t, c.Push(age))
	assert.Equal(t, "Age", c.Label())
	cat := newCatColumn()
	require.NotNil(t, c.Insert(cat, 0))
	assert.Nil(t, c.Push(newScoreColumn()))
	assert.Equal(t, []Column{age, cat}, c.Children())
	assert.Equal(t, "Age (Cat)", c.Label())

	row := DataRow{V: map[string]any{"age": 30, "cat": "a"}}
	assert.Equal(t, "30 (Cat = a)", c.GetLabel(row))
	assert.Equal(t, "#00ff00", c.GetColor(row))
	assert.InDelta(t, 0.3, c.GetNumber(row), 1e-9)
	assert.Equal(t, c.Color(), c.GetColor(DataRow{V: map[string]any{"age": 30}}))

	mappingChanged := 0
	c.On(EventMappingChanged, func(*event.Event) {
		mappingChanged++
	})
	c.SetMapping(NewScaleMappingFunction([]float64{0, 50}, []float64{0, 1}))
	assert.Equal(t, 1, mappingChanged)
	assert.InDelta(t, 0.6, c.GetNumber(row), 1e-9)
	assert.True(t, c.Mapping().Eq(age.Mapping()))

	c.SetFilter(NumberFilter{Min: 40, Max: math.Inf(1)})
	assert.True(t, age.IsFiltered())
	assert.False(t, c.Filter(row))

	c.SetLabel("Custom")
	assert.Equal(t, "Custom", c.Label())
}
