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

package source

import (
	"testing"

	"github.com/ecodeclub/erank/internal/errs"
	"github.com/stretchr/testify/assert"
)

func TestFromRecords(t *testing.T) {
	testCases := []struct {
		name    string
		columns []string
		records [][]any
		want    *Table
		wantErr error
	}{
		{
			name:    "empty",
			columns: []string{"name"},
			want:    &Table{Columns: []string{"name"}},
		},
		{
			name:    "mixed values",
			columns: []string{"name", "goals", "rating", "active"},
			records: [][]any{
				{"Ann", int64(3), 7.5, true},
				{[]byte("Ben"), nil, float32(6), false},
			},
			want: &Table{
				Columns: []string{"name", "goals", "rating", "active"},
				Rows: []map[string]any{
					{"name": "Ann", "goals": 3.0, "rating": 7.5, "active": true},
					{"name": "Ben", "goals": nil, "rating": 6.0, "active": false},
				},
			},
		},
		{
			name:    "short record",
			columns: []string{"name", "goals"},
			records: [][]any{{"Ann"}},
			wantErr: errs.NewScanWrongDestinationArgumentsError(1, 2),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := FromRecords(tc.columns, tc.records)
			assert.Equal(t, tc.wantErr, err)
			if err != nil {
				return
			}
			assert.Equal(t, tc.want, res)
		})
	}
}
