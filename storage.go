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

// Storage 行数据的来源，负责过滤、分组和排序
type Storage interface {
	TotalRows() int
	// Columns 数据源提供的描述符
	Columns() []*ColumnDesc
	// FindDesc 按 DescRef 的结果查找描述符，找不到时返回 nil
	FindDesc(ref string) *ColumnDesc
	// Sort 过滤后把可见的行划分到 Ranking 的分组中，组内按排序条件排好序。
	// 相同的输入总是得到相同的结果。
	Sort(ctx context.Context, r *Ranking) ([]*Group, error)
	View(ctx context.Context, indices []int) ([]DataRow, error)
	// Search 返回 col 的标签满足 match 的行下标
	Search(ctx context.Context, col Column, match func(label string) bool) ([]int, error)
	// MappingSample 用于编辑映射的原始数值样本
	MappingSample(ctx context.Context, col NumberValued) ([]float64, error)
	Rows(ctx context.Context) ([]DataRow, error)
}

// DescRef 数据源中描述符的引用："<type>@<column>"
func DescRef(desc *ColumnDesc) string {
	return desc.Type + "@" + desc.Column
}
