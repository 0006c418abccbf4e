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

package rows

import (
	"testing"
	"time"

	"github.com/ecodeclub/erank/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataRows_Next(t *testing.T) {
	testCases := []struct {
		name     string
		data     [][]any
		wantNext []bool
	}{
		{
			name:     "nil",
			wantNext: []bool{false},
		},
		{
			name:     "第一个",
			data:     [][]any{{1, 2, 3}},
			wantNext: []bool{true, false},
		},
		{
			name:     "多个",
			data:     [][]any{{1}, {2}},
			wantNext: []bool{true, true, false, false},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rows := NewDataRows(tc.data, nil, nil)
			for _, want := range tc.wantNext {
				assert.Equal(t, want, rows.Next())
			}
		})
	}
}

func TestDataRows_Scan(t *testing.T) {
	testCases := []struct {
		name    string
		data    []any
		dest    func() []any
		want    []any
		wantErr error
	}{
		{
			name: "any",
			data: []any{1, "a", nil},
			dest: func() []any {
				return []any{new(any), new(any), new(any)}
			},
			want: []any{1, "a", nil},
		},
		{
			name: "typed",
			data: []any{int64(1), "a"},
			dest: func() []any {
				return []any{new(int), new(string)}
			},
			want: []any{1, "a"},
		},
		{
			name: "nil to typed",
			data: []any{nil},
			dest: func() []any {
				s := "x"
				return []any{&s}
			},
			want: []any{""},
		},
		{
			name: "wrong arguments",
			data: []any{1, 2},
			dest: func() []any {
				return []any{new(any)}
			},
			wantErr: errs.NewScanWrongDestinationArgumentsError(2, 1),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rows := NewDataRows([][]any{tc.data}, nil, nil)
			require.True(t, rows.Next())
			dest := tc.dest()
			err := rows.Scan(dest...)
			assert.Equal(t, tc.wantErr, err)
			if err != nil {
				return
			}
			for i, d := range dest {
				switch v := d.(type) {
				case *any:
					assert.Equal(t, tc.want[i], *v)
				case *int:
					assert.Equal(t, tc.want[i], *v)
				case *string:
					assert.Equal(t, tc.want[i], *v)
				}
			}
		})
	}
}

func TestDataRows_Scan_Incompatible(t *testing.T) {
	rows := NewDataRows([][]any{{"a"}}, nil, nil)
	require.True(t, rows.Next())
	var dst time.Time
	assert.Error(t, rows.Scan(&dst))
	var i int
	assert.Error(t, rows.Scan(i))
}

func TestScanMaps(t *testing.T) {
	now := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
	rows := NewDataRows([][]any{
		{[]byte("Alice"), int64(30), now},
		{"Bob", nil, 1.5},
	}, []string{"name", "age", "when"}, nil)
	cols, res, err := ScanMaps(rows)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "age", "when"}, cols)
	assert.Equal(t, []map[string]any{
		{"name": "Alice", "age": 30.0, "when": now},
		{"name": "Bob", "age": nil, "when": 1.5},
	}, res)
}

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name string
		kind string
		v    any
		want any
	}{
		{name: "int bytes", kind: "INT", v: []byte("12"), want: 12.0},
		{name: "decimal string", kind: "DECIMAL", v: "1.25", want: 1.25},
		{name: "bad number", kind: "INT", v: []byte("x"), want: "x"},
		{name: "varchar", kind: "VARCHAR", v: []byte("12"), want: "12"},
		{name: "bool bytes", kind: "BOOLEAN", v: []byte("true"), want: true},
		{name: "bool int", kind: "BOOL", v: int64(0), want: false},
		{name: "int64", v: int64(3), want: 3.0},
		{name: "float32", v: float32(0.5), want: 0.5},
		{name: "nil", v: nil, want: nil},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, normalize(tc.kind, tc.v))
		})
	}
}
