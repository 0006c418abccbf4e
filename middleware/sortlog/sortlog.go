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

package sortlog

import (
	"context"
	"time"

	"github.com/ecodeclub/erank"
	"github.com/ecodeclub/erank/internal/logger"
)

// Entry 一次排序的记录
type Entry struct {
	Reason    string
	RankingID string
	Groups    int
	Rows      int
	Elapsed   time.Duration
	Err       error
}

type MiddlewareBuilder struct {
	logFunc func(entry Entry)
}

func NewBuilder() *MiddlewareBuilder {
	l := logger.New()
	return &MiddlewareBuilder{
		logFunc: func(e Entry) {
			if e.Err != nil {
				l.Warningf("sort %s ranking=%s err=%v", e.Reason, e.RankingID, e.Err)
				return
			}
			l.Infof("sort %s ranking=%s groups=%d rows=%d elapsed=%s",
				e.Reason, e.RankingID, e.Groups, e.Rows, e.Elapsed)
		},
	}
}

func (b *MiddlewareBuilder) LogFunc(logFunc func(entry Entry)) *MiddlewareBuilder {
	b.logFunc = logFunc
	return b
}

func (b *MiddlewareBuilder) Build() erank.Middleware {
	return func(next erank.HandleFunc) erank.HandleFunc {
		return func(ctx context.Context, sc *erank.SortContext) *erank.SortResult {
			start := time.Now()
			res := next(ctx, sc)
			e := Entry{
				Reason:  sc.Reason,
				Elapsed: time.Since(start),
				Err:     res.Err,
			}
			if sc.Ranking != nil {
				e.RankingID = sc.Ranking.ID()
			}
			e.Groups = len(res.Groups)
			for _, g := range res.Groups {
				e.Rows += len(g.Order)
			}
			b.logFunc(e)
			return res
		}
	}
}
