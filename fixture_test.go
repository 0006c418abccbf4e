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

	"github.com/ecodeclub/erank/internal/logger"
)

func testRows() []any {
	return []any{
		map[string]any{"name": "Alice", "age": 30.0, "cat": "a", "active": true},
		map[string]any{"name": "Bob", "age": 50.0, "cat": "b", "active": false},
		map[string]any{"name": "Carl", "age": 40.0, "cat": "a", "active": true},
		map[string]any{"name": "Dora", "age": nil, "cat": "c", "active": false},
	}
}

func testDescs() []*ColumnDesc {
	return []*ColumnDesc{
		{Type: TypeString, Label: "Name", Column: "name"},
		{Type: TypeNumber, Label: "Age", Column: "age", Domain: []float64{0, 100}},
		{Type: TypeCategorical, Label: "Cat", Column: "cat",
			Categories: []CategoryDesc{{Name: "a"}, {Name: "b"}, {Name: "c"}}},
		{Type: TypeBoolean, Label: "Active", Column: "active"},
	}
}

func newTestStorage() *LocalStorage {
	return NewLocalStorage(testRows(), testDescs())
}

// newTestProvider 同步重排，不输出日志
func newTestProvider(t *testing.T, opts ...ProviderOption) *Provider {
	base := []ProviderOption{WithReorderDelay(0), WithLogger(logger.Discard())}
	p := NewProvider(newTestStorage(), append(base, opts...)...)
	t.Cleanup(func() {
		_ = p.Close()
	})
	return p
}

func findDesc(t *testing.T, p *Provider, column string) *ColumnDesc {
	t.Helper()
	for _, d := range p.Storage().Columns() {
		if d.Column == column {
			return d
		}
	}
	t.Fatalf("unknown column %s", column)
	return nil
}

func rowsOf(vals ...any) []DataRow {
	res := make([]DataRow, len(vals))
	for i, v := range vals {
		res[i] = DataRow{I: i, V: v}
	}
	return res
}

// descRef 以 DescRefFunc 的形式使用 DescRef
func descRef(d *ColumnDesc) any {
	return DescRef(d)
}
