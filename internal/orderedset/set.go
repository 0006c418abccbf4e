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

package orderedset

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Set 保留插入顺序的集合，非并发安全
type Set[T comparable] struct {
	m *orderedmap.OrderedMap[T, struct{}]
}

func New[T comparable](vals ...T) *Set[T] {
	s := &Set[T]{m: orderedmap.New[T, struct{}]()}
	s.Add(vals...)
	return s
}

// Add 追加元素，已存在的元素保持原来的位置。返回新增的个数。
func (s *Set[T]) Add(vals ...T) int {
	var cnt int
	for _, v := range vals {
		if _, present := s.m.Set(v, struct{}{}); !present {
			cnt++
		}
	}
	return cnt
}

// Delete 删除元素，返回实际删除的个数
func (s *Set[T]) Delete(vals ...T) int {
	var cnt int
	for _, v := range vals {
		if _, present := s.m.Delete(v); present {
			cnt++
		}
	}
	return cnt
}

func (s *Set[T]) Has(v T) bool {
	_, ok := s.m.Get(v)
	return ok
}

func (s *Set[T]) Len() int {
	return s.m.Len()
}

func (s *Set[T]) Clear() {
	s.m = orderedmap.New[T, struct{}]()
}

// Values 按插入顺序返回所有元素
func (s *Set[T]) Values() []T {
	res := make([]T, 0, s.m.Len())
	for p := s.m.Oldest(); p != nil; p = p.Next() {
		res = append(res, p.Key)
	}
	return res
}

// First 返回最早插入的元素
func (s *Set[T]) First() (T, bool) {
	p := s.m.Oldest()
	if p == nil {
		var zero T
		return zero, false
	}
	return p.Key, true
}

// Equal 判断两个集合的元素是否相同，不考虑顺序
func (s *Set[T]) Equal(vals []T) bool {
	other := make(map[T]struct{}, len(vals))
	for _, v := range vals {
		if !s.Has(v) {
			return false
		}
		other[v] = struct{}{}
	}
	return len(other) == s.Len()
}
