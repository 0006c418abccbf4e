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
	"github.com/ecodeclub/erank/internal/errs"
	"github.com/tidwall/gjson"
)

// LoadJSON data 的根必须是对象数组
func LoadJSON(data []byte) (*Table, error) {
	return LoadJSONPath(data, "")
}

// LoadJSONPath 从 gjson 路径 path 处读取对象数组，例如 "data.items"
func LoadJSONPath(data []byte, path string) (*Table, error) {
	if !gjson.ValidBytes(data) {
		return nil, errs.ErrInvalidJSON
	}
	arr := gjson.ParseBytes(data)
	if path != "" {
		arr = arr.Get(path)
	}
	if !arr.IsArray() {
		return nil, errs.NewInvalidJSONError(path)
	}
	res := &Table{}
	seen := make(map[string]struct{})
	var err error
	arr.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			err = errs.NewInvalidJSONError(path)
			return false
		}
		row := make(map[string]any)
		item.ForEach(func(key, value gjson.Result) bool {
			k := key.String()
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				res.Columns = append(res.Columns, k)
			}
			row[k] = value.Value()
			return true
		})
		res.Rows = append(res.Rows, row)
		return true
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
