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
	"math"
	"sync"

	"github.com/ecodeclub/erank/internal/errs"
	"github.com/gohugoio/hashstructure"
)

// DescTable 把描述符保存为共享表中的下标。
// 内容相同的描述符只保存一次，适合克隆出很多列的场景。
type DescTable struct {
	mu    sync.Mutex
	descs []*ColumnDesc
	index map[uint64]int
}

func NewDescTable(descs ...*ColumnDesc) *DescTable {
	t := &DescTable{index: make(map[uint64]int, len(descs))}
	for _, d := range descs {
		t.ToDescRef(d)
	}
	return t
}

// ToDescRef 无法计算哈希时内联保存
func (t *DescTable) ToDescRef(desc *ColumnDesc) any {
	h, err := hashstructure.Hash(desc, nil)
	if err != nil {
		return inlineDesc(desc)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if i, ok := t.index[h]; ok {
		return i
	}
	t.descs = append(t.descs, desc)
	t.index[h] = len(t.descs) - 1
	return len(t.descs) - 1
}

func (t *DescTable) FromDescRef(ref any) (*ColumnDesc, error) {
	switch ref.(type) {
	case Dump, map[string]any, *ColumnDesc:
		return decodeDesc(ref)
	}
	f := toNumber(ref)
	if math.IsNaN(f) || f != math.Trunc(f) {
		return nil, errs.NewUnknownDescRefError(ref)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	i := int(f)
	if i < 0 || i >= len(t.descs) {
		return nil, errs.NewUnknownDescRefError(ref)
	}
	// 副本，避免多个 Provider 注入的回调互相覆盖
	return t.descs[i].Clone(), nil
}

// Descs 表中的描述符，下标即引用
func (t *DescTable) Descs() []*ColumnDesc {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*ColumnDesc(nil), t.descs...)
}
