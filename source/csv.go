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
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/ecodeclub/erank/internal/errs"
)

type CSVOption func(r *csv.Reader)

// WithComma 指定分隔符，默认为 ','
func WithComma(comma rune) CSVOption {
	return func(r *csv.Reader) {
		r.Comma = comma
	}
}

// LoadCSV 第一行是表头。值保持字符串，由各列自己解析。
// 比表头短的行缺少的字段不会出现在 map 中。
func LoadCSV(r io.Reader, opts ...CSVOption) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	for _, opt := range opts {
		opt(cr)
	}
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errs.ErrEmptySource
	}
	if err != nil {
		return nil, err
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	res := &Table{Columns: header}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(map[string]any, len(header))
		for i, v := range record {
			if i >= len(header) {
				break
			}
			row[header[i]] = v
		}
		res.Rows = append(res.Rows, row)
	}
	return res, nil
}
