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
	"context"
)

// 触发排序的原因
const (
	SortReasonReorder = "reorder"
	SortReasonExport  = "export"
)

// SortContext 一次排序的输入
type SortContext struct {
	Reason  string
	Ranking *Ranking
}

type SortResult struct {
	Groups []*Group
	Err    error
}

type Middleware func(next HandleFunc) HandleFunc

type HandleFunc func(ctx context.Context, sortContext *SortContext) *SortResult

// chain 按注册顺序包装 root，第一个 middleware 在最外层
func chain(root HandleFunc, ms []Middleware) HandleFunc {
	for i := len(ms) - 1; i >= 0; i-- {
		root = ms[i](root)
	}
	return root
}
