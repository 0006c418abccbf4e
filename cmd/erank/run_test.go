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
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ecodeclub/erank/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const playersCSV = `name,age,team
Ann,30,red
Ben,25,blue
Cid,35,red
`

const playersConfig = `logLevel: error
source:
  path: players.csv
columns:
  - {type: string, column: name, label: Name}
  - {type: number, column: age, label: Age, domain: [0, 100]}
  - {type: categorical, column: team, label: Team, categories: [red, blue]}
`

// writeFixture 在临时目录中写入数据和配置，返回配置文件路径
func writeFixture(t *testing.T, rankings string) string {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "players.csv"), []byte(playersCSV), 0o644))
	cfg := filepath.Join(dir, "ranking.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(playersConfig+rankings), 0o644))
	return cfg
}

func TestRun(t *testing.T) {
	testCases := []struct {
		name     string
		rankings string
		format   string
		want     string
		wantErr  error
	}{
		{
			name:   "derive default",
			format: formatTSV,
			want:   "Name\tAge\tTeam\nAnn\t30\tred\nBen\t25\tblue\nCid\t35\tred\n",
		},
		{
			name: "sort desc",
			rankings: `rankings:
  - label: by age
    columns: [name, age]
    sort:
      - {column: age, desc: true}
`,
			format: formatTSV,
			want:   "Name\tAge\nCid\t35\nAnn\t30\nBen\t25\n",
		},
		{
			name: "csv with filter",
			rankings: `rankings:
  - columns: [name, age]
    filters:
      age: {min: 28}
    sort:
      - {column: age}
`,
			format: formatCSV,
			want:   "\"Name\",\"Age\"\n\"Ann\",\"30\"\n\"Cid\",\"35\"\n",
		},
		{
			name: "unknown column",
			rankings: `rankings:
  - columns: [name, height]
`,
			format:  formatTSV,
			wantErr: errs.NewInvalidFieldError("height"),
		},
		{
			name: "unknown sort column",
			rankings: `rankings:
  - columns: [name]
    sort:
      - {column: age}
`,
			format:  formatTSV,
			wantErr: errs.NewInvalidFieldError("age"),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := writeFixture(t, tc.rankings)
			out := &bytes.Buffer{}
			err := run(context.Background(), &options{Config: cfg, Format: tc.format}, out)
			assert.Equal(t, tc.wantErr, err)
			if err != nil {
				return
			}
			assert.Equal(t, tc.want, out.String())
		})
	}
}

func TestRun_DumpRestore(t *testing.T) {
	cfg := writeFixture(t, `rankings:
  - label: by age
    columns: [name, age]
    sort:
      - {column: age, desc: true}
`)
	dump := filepath.Join(filepath.Dir(cfg), "dump.json")
	first := &bytes.Buffer{}
	require.NoError(t, run(context.Background(), &options{Config: cfg, Format: formatTSV, Dump: dump}, first))

	data, err := os.ReadFile(dump)
	require.NoError(t, err)
	var d map[string]any
	require.NoError(t, json.Unmarshal(data, &d))
	assert.Len(t, d["rankings"], 1)

	second := &bytes.Buffer{}
	require.NoError(t, run(context.Background(), &options{Config: cfg, Format: formatTSV, Restore: dump}, second))
	assert.Equal(t, first.String(), second.String())

	err = run(context.Background(), &options{Config: cfg, Format: formatTSV, Restore: dump + ".missing"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRun_Derive(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "players.json"),
		[]byte(`{"items":[{"name":"Ann","age":30},{"name":"Ben","age":25}]}`), 0o644))
	cfg := filepath.Join(dir, "ranking.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("logLevel: error\nsource:\n  path: players.json\n  jsonPath: items\n"), 0o644))

	out := &bytes.Buffer{}
	require.NoError(t, run(context.Background(), &options{Config: cfg, Derive: true}, out))
	assert.Contains(t, out.String(), "type: number")
	assert.Contains(t, out.String(), "column: age")
}

func TestLoad(t *testing.T) {
	testCases := []struct {
		name    string
		sc      sourceConfig
		wantErr error
	}{
		{
			name:    "unsupported",
			sc:      sourceConfig{Kind: "xml"},
			wantErr: errs.NewUnsupportedSourceError("xml"),
		},
		{
			name:    "unknown driver",
			sc:      sourceConfig{Kind: "sql", Driver: "nope"},
			wantErr: assert.AnError,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := load(context.Background(), tc.sc)
			if tc.wantErr == assert.AnError {
				assert.Error(t, err)
				return
			}
			assert.Equal(t, tc.wantErr, err)
		})
	}
}

func TestLoad_SQLite(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "players.db")
	tbl, err := load(context.Background(), sourceConfig{
		Kind:   "sql",
		Driver: "sqlite3",
		DSN:    dsn,
		Query:  "SELECT 'Ann' AS `name`, 30 AS `age`",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "age"}, tbl.Columns)
	assert.Equal(t, "Ann", tbl.Rows[0]["name"])
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "r.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("source:\n  path: data/players.tsv\n"), 0o644))
	c, err := loadConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "tsv", c.Source.Kind)
	assert.Equal(t, filepath.Join(dir, "data", "players.tsv"), c.Source.Path)

	require.NoError(t, os.WriteFile(cfg, []byte("sources: {}\n"), 0o644))
	_, err = loadConfig(cfg)
	assert.Error(t, err)

	_, err = loadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
