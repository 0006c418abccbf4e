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

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOptions(t *testing.T) {
	testCases := []struct {
		name    string
		args    []string
		want    *options
		wantErr bool
	}{
		{
			name:    "missing config",
			args:    []string{},
			wantErr: true,
		},
		{
			name: "defaults",
			args: []string{"-c", "ranking.yaml"},
			want: &options{Config: "ranking.yaml", Format: formatTSV},
		},
		{
			name: "all",
			args: []string{"--config=r.yaml", "--dump", "out.json", "--restore", "in.json", "--format", "csv", "-v"},
			want: &options{Config: "r.yaml", Dump: "out.json", Restore: "in.json", Format: formatCSV, Verbose: true},
		},
		{
			name:    "bad format",
			args:    []string{"-c", "r.yaml", "--format", "xml"},
			wantErr: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			opts, err := parseOptions(tc.args)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.want, opts)
		})
	}
}
