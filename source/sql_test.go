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
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestLoadSQL(t *testing.T) {
	testCases := []struct {
		name     string
		mockRows func(mock sqlmock.Sqlmock)
		want     *Table
		wantErr  error
	}{
		{
			name: "query error",
			mockRows: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT .*").WillReturnError(errors.New("mock error"))
			},
			wantErr: errors.New("mock error"),
		},
		{
			name: "typed columns",
			mockRows: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRowsWithColumnDefinition(
					sqlmock.NewColumn("id").OfType("BIGINT", int64(0)),
					sqlmock.NewColumn("name").OfType("VARCHAR", ""),
					sqlmock.NewColumn("score").OfType("DECIMAL", ""),
				).AddRow([]byte("1"), []byte("Tom"), []byte("9.5")).
					AddRow([]byte("2"), nil, []byte("7"))
				mock.ExpectQuery("SELECT .*").WithArgs(10).WillReturnRows(rows)
			},
			want: &Table{
				Columns: []string{"id", "name", "score"},
				Rows: []map[string]any{
					{"id": 1.0, "name": "Tom", "score": 9.5},
					{"id": 2.0, "name": nil, "score": 7.0},
				},
			},
		},
		{
			name: "row error",
			mockRows: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id"}).
					AddRow([]byte("1")).
					RowError(0, errors.New("row error"))
				mock.ExpectQuery("SELECT .*").WillReturnRows(rows)
			},
			wantErr: errors.New("row error"),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer func() {
				_ = db.Close()
			}()
			tc.mockRows(mock)
			res, err := LoadSQL(context.Background(), db, "SELECT * FROM `scores` WHERE `id`<?", 10)
			assert.Equal(t, tc.wantErr, err)
			if err != nil {
				return
			}
			assert.Equal(t, tc.want, res)
		})
	}
}

// sqliteSuite 使用内存中的 SQLite 做端到端的加载测试
type sqliteSuite struct {
	suite.Suite
	db *sql.DB
}

func (s *sqliteSuite) SetupSuite() {
	db, err := sql.Open("sqlite3", ":memory:")
	s.Require().NoError(err)
	// 每个连接都是独立的内存数据库
	db.SetMaxOpenConns(1)
	s.db = db
	ctx := context.Background()
	_, err = db.ExecContext(ctx, "CREATE TABLE `players` (`name` TEXT, `goals` INTEGER, `rating` REAL)")
	s.Require().NoError(err)
	_, err = db.ExecContext(ctx, "INSERT INTO `players` VALUES ('Ann', 3, 7.5), ('Ben', NULL, 6)")
	s.Require().NoError(err)
}

func (s *sqliteSuite) TearDownSuite() {
	_ = s.db.Close()
}

func (s *sqliteSuite) TestLoad() {
	t := s.T()
	res, err := LoadSQL(context.Background(), s.db, "SELECT `name`, `goals`, `rating` FROM `players` ORDER BY `name`")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "goals", "rating"}, res.Columns)
	assert.Equal(t, []map[string]any{
		{"name": "Ann", "goals": 3.0, "rating": 7.5},
		{"name": "Ben", "goals": nil, "rating": 6.0},
	}, res.Rows)

	descs := Derive(res)
	assert.Equal(t, "number", descs[1].Type)
	assert.Equal(t, []float64{3, 4}, descs[1].Domain)
}

func (s *sqliteSuite) TestLoadWithArgs() {
	res, err := LoadSQL(context.Background(), s.db, "SELECT `name` FROM `players` WHERE `rating` > ?", 7)
	s.Require().NoError(err)
	s.Equal([]map[string]any{{"name": "Ann"}}, res.Rows)
}

func (s *sqliteSuite) TestBadQuery() {
	_, err := LoadSQL(context.Background(), s.db, "SELECT * FROM `missing`")
	s.Error(err)
}

func TestSQLite(t *testing.T) {
	suite.Run(t, new(sqliteSuite))
}
