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

func (p *Provider) MultiSelection() bool {
	return p.multiSelect
}

func (p *Provider) IsSelected(index int) bool {
	return p.selection.Has(index)
}

// Selection 按选中的先后顺序返回行下标
func (p *Provider) Selection() []int {
	return p.selection.Values()
}

func (p *Provider) selectionChanged() {
	p.fire([]string{EventSelectionChanged}, p.Selection())
}

// Select 单选模式下会替换掉已有的选择
func (p *Provider) Select(index int) {
	if p.selection.Has(index) {
		return
	}
	if !p.multiSelect && p.selection.Len() > 0 {
		p.selection.Clear()
	}
	p.selection.Add(index)
	p.selectionChanged()
}

// SelectAll 单选模式下只保留第一个下标
func (p *Provider) SelectAll(indices []int) {
	if len(indices) == 0 {
		return
	}
	if !p.multiSelect {
		indices = indices[:1]
	}
	if p.allSelected(indices) {
		return
	}
	if !p.multiSelect {
		p.selection.Clear()
	}
	p.selection.Add(indices...)
	p.selectionChanged()
}

func (p *Provider) allSelected(indices []int) bool {
	for _, i := range indices {
		if !p.selection.Has(i) {
			return false
		}
	}
	return true
}

// SelectAllOf 选中 r 当前结果中的所有行
func (p *Provider) SelectAllOf(r *Ranking) {
	p.SetSelection(r.Order())
}

// SetSelection 空列表等价于 ClearSelection，和当前选择相同时什么都不做
func (p *Provider) SetSelection(indices []int) {
	if len(indices) == 0 {
		p.ClearSelection()
		return
	}
	if !p.multiSelect {
		indices = indices[:1]
	}
	if p.selection.Equal(indices) {
		return
	}
	p.selection.Clear()
	p.SelectAll(indices)
}

// ToggleSelection 返回 index 现在是否被选中。
// additional 为 false 时替换或清空整个选择。
func (p *Provider) ToggleSelection(index int, additional bool) bool {
	if p.IsSelected(index) {
		if additional {
			p.Deselect(index)
		} else {
			p.ClearSelection()
		}
		return false
	}
	if additional {
		p.Select(index)
	} else {
		p.SetSelection([]int{index})
	}
	return true
}

func (p *Provider) Deselect(index int) {
	if p.selection.Delete(index) == 0 {
		return
	}
	p.selectionChanged()
}

func (p *Provider) DeselectAll(indices []int) {
	if p.selection.Delete(indices...) == 0 {
		return
	}
	p.selectionChanged()
}

func (p *Provider) ClearSelection() {
	if p.selection.Len() == 0 {
		return
	}
	p.selection.Clear()
	p.fire([]string{EventSelectionChanged}, []int{})
}

// SelectedRows 按选择顺序返回选中的行
func (p *Provider) SelectedRows(ctx context.Context) ([]DataRow, error) {
	if p.selection.Len() == 0 {
		return nil, nil
	}
	return p.storage.View(ctx, p.Selection())
}
