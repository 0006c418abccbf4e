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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Middleware(t *testing.T) {
	testCases := []struct {
		name      string
		mdls      func(log *[]string) []Middleware
		wantLog   []string
		wantOrder []int
	}{
		{
			name: "no middleware",
			mdls: func(log *[]string) []Middleware {
				return nil
			},
			wantOrder: []int{0, 1, 2, 3},
		},
		{
			name: "one middleware",
			mdls: func(log *[]string) []Middleware {
				var mdl Middleware = func(next HandleFunc) HandleFunc {
					return func(ctx context.Context, sc *SortContext) *SortResult {
						*log = append(*log, sc.Reason)
						return next(ctx, sc)
					}
				}
				return []Middleware{mdl}
			},
			wantLog:   []string{SortReasonReorder},
			wantOrder: []int{0, 1, 2, 3},
		},
		{
			name: "many middleware",
			mdls: func(log *[]string) []Middleware {
				mdl1 := func(next HandleFunc) HandleFunc {
					return func(ctx context.Context, sc *SortContext) *SortResult {
						*log = append(*log, "mdl1 before")
						res := next(ctx, sc)
						*log = append(*log, "mdl1 after")
						return res
					}
				}
				mdl2 := func(next HandleFunc) HandleFunc {
					return func(ctx context.Context, sc *SortContext) *SortResult {
						*log = append(*log, "mdl2 before")
						res := next(ctx, sc)
						*log = append(*log, "mdl2 after")
						return res
					}
				}
				return []Middleware{mdl1, mdl2}
			},
			wantLog:   []string{"mdl1 before", "mdl2 before", "mdl2 after", "mdl1 after"},
			wantOrder: []int{0, 1, 2, 3},
		},
		{
			name: "replace result",
			mdls: func(log *[]string) []Middleware {
				mdl := func(next HandleFunc) HandleFunc {
					return func(ctx context.Context, sc *SortContext) *SortResult {
						return &SortResult{Groups: []*Group{{Name: "fixed", Order: []int{2, 0}}}}
					}
				}
				return []Middleware{mdl}
			},
			wantOrder: []int{2, 0},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var log []string
			mdls := tc.mdls(&log)
			p := newTestProvider(t, WithMiddlewares(mdls...))
			assert.Len(t, p.ms, len(mdls))
			r := p.PushRanking(nil)
			assert.Equal(t, tc.wantLog, log)
			assert.Equal(t, tc.wantOrder, r.Order())
		})
	}
}

func TestMiddleware_Export(t *testing.T) {
	var reasons []string
	p := newTestProvider(t, WithMiddlewares(func(next HandleFunc) HandleFunc {
		return func(ctx context.Context, sc *SortContext) *SortResult {
			reasons = append(reasons, sc.Reason)
			return next(ctx, sc)
		}
	}))
	r := p.NewRanking()
	_, err := p.ExportTable(context.Background(), r, DefaultExportOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{SortReasonExport}, reasons)
}
