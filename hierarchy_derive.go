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
	"github.com/ecodeclub/erank/internal/errs"
)

// ParentedCategory 用父指针表示层级的扁平分类
type ParentedCategory struct {
	Name   string `json:"name"`
	Label  string `json:"label,omitempty"`
	Color  string `json:"color,omitempty"`
	Parent string `json:"parent,omitempty"`
}

// IsHierarchical 判断分类列表是否以父指针编码了层级：
// 第一项不是字符串，且至少有一项带有 parent。
func IsHierarchical(categories []any) bool {
	if len(categories) == 0 {
		return false
	}
	if _, ok := categories[0].(string); ok {
		return false
	}
	for _, c := range categories {
		switch v := c.(type) {
		case ParentedCategory:
			if v.Parent != "" {
				return true
			}
		case *ParentedCategory:
			if v != nil && v.Parent != "" {
				return true
			}
		default:
			if d, ok := asDump(c); ok && d.Has("parent") {
				return true
			}
		}
	}
	return false
}

// DeriveHierarchy 从扁平的父指针列表重建层级。
// 未出现过的父节点会被补成占位节点，父节点为空串的挂在根下；
// 根只有一个子节点时直接返回该子节点。
func DeriveHierarchy(categories []ParentedCategory) (*HierarchyDesc, error) {
	lookup := make(map[string]*HierarchyDesc, len(categories)+1)
	for _, c := range categories {
		item, ok := lookup[c.Name]
		if !ok {
			item = &HierarchyDesc{Name: c.Name}
			lookup[c.Name] = item
		}
		item.Label = c.Label
		if item.Label == "" {
			item.Label = c.Name
		}
		item.Color = c.Color
		if item.Color == "" {
			item.Color = DefaultColor
		}
		parent, ok := lookup[c.Parent]
		if !ok {
			parent = &HierarchyDesc{Name: c.Parent, Label: c.Parent, Color: DefaultColor}
			lookup[c.Parent] = parent
		}
		parent.Children = append(parent.Children, item)
	}
	root, ok := lookup[""]
	if !ok {
		return nil, errs.ErrMissingRoot
	}
	if len(root.Children) == 1 {
		return root.Children[0], nil
	}
	return root, nil
}
