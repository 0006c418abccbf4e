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
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// ColumnDesc 列的描述符，创建后只读。
// 不同类型只会用到其中的一部分字段。
type ColumnDesc struct {
	Type        string `json:"type" yaml:"type"`
	Label       string `json:"label,omitempty" yaml:"label,omitempty"`
	Summary     string `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// Column 数据行中的字段名
	Column string  `json:"column,omitempty" yaml:"column,omitempty"`
	Color  string  `json:"color,omitempty" yaml:"color,omitempty"`
	Width  float64 `json:"width,omitempty" yaml:"width,omitempty"`
	// Visible 为 nil 时默认可见
	Visible         *bool  `json:"visible,omitempty" yaml:"visible,omitempty"`
	Renderer        string `json:"renderer,omitempty" yaml:"renderer,omitempty"`
	GroupRenderer   string `json:"groupRenderer,omitempty" yaml:"groupRenderer,omitempty"`
	SummaryRenderer string `json:"summaryRenderer,omitempty" yaml:"summaryRenderer,omitempty"`

	// number、numbers
	Domain []float64 `json:"domain,omitempty" yaml:"domain,omitempty"`
	Range  []float64 `json:"range,omitempty" yaml:"range,omitempty"`
	Map    Dump      `json:"map,omitempty" yaml:"map,omitempty"`
	// Sort numbers 和 dates 的归约方式
	Sort   string   `json:"sort,omitempty" yaml:"sort,omitempty"`
	Labels []string `json:"labels,omitempty" yaml:"labels,omitempty"`

	// categorical、hierarchy
	Categories         []CategoryDesc `json:"categories,omitempty" yaml:"categories,omitempty"`
	Hierarchy          *HierarchyDesc `json:"hierarchy,omitempty" yaml:"hierarchy,omitempty"`
	HierarchySeparator string         `json:"hierarchySeparator,omitempty" yaml:"hierarchySeparator,omitempty"`

	// dates，格式使用 Go 的 layout
	DateFormat string `json:"dateFormat,omitempty" yaml:"dateFormat,omitempty"`
	DateParse  string `json:"dateParse,omitempty" yaml:"dateParse,omitempty"`

	Script  string   `json:"script,omitempty" yaml:"script,omitempty"`
	Actions []string `json:"actions,omitempty" yaml:"actions,omitempty"`

	// Children 旧格式中组合列的子列
	Children []*ColumnDesc `json:"children,omitempty" yaml:"children,omitempty"`

	// Accessor 为 nil 时使用 DefaultAccessor
	Accessor Accessor `json:"-" yaml:"-" hash:"ignore"`

	// 以下回调由 Provider 在创建支撑列时注入
	RankAccessor   func(row DataRow, r *Ranking) int       `json:"-" yaml:"-" hash:"ignore"`
	IsSelected     func(row DataRow) bool                  `json:"-" yaml:"-" hash:"ignore"`
	SetSelected    func(row DataRow, v bool)               `json:"-" yaml:"-" hash:"ignore"`
	SetSelectedAll func(indices []int, v bool)             `json:"-" yaml:"-" hash:"ignore"`
	IsAggregated   func(r *Ranking, g *Group) bool         `json:"-" yaml:"-" hash:"ignore"`
	SetAggregated  func(r *Ranking, g *Group, v bool)      `json:"-" yaml:"-" hash:"ignore"`
	AggregateAll   func(r *Ranking, v bool)                `json:"-" yaml:"-" hash:"ignore"`
}

// Clone 浅拷贝，用于注入回调而不修改调用方的描述符
func (d *ColumnDesc) Clone() *ColumnDesc {
	res := *d
	return &res
}

// CategoryDesc 分类。JSON 和 YAML 中可以直接写成字符串。
type CategoryDesc struct {
	Name  string  `json:"name" yaml:"name"`
	Label string  `json:"label,omitempty" yaml:"label,omitempty"`
	Color string  `json:"color,omitempty" yaml:"color,omitempty"`
	Value float64 `json:"value,omitempty" yaml:"value,omitempty"`
}

func (c *CategoryDesc) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*c = CategoryDesc{Name: name}
		return nil
	}
	type plain CategoryDesc
	return json.Unmarshal(data, (*plain)(c))
}

func (c *CategoryDesc) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*c = CategoryDesc{Name: value.Value}
		return nil
	}
	type plain CategoryDesc
	return value.Decode((*plain)(c))
}

// HierarchyDesc 层级分类的一个节点。JSON 和 YAML 中叶子可以直接写成字符串。
type HierarchyDesc struct {
	Name     string           `json:"name" yaml:"name"`
	Label    string           `json:"label,omitempty" yaml:"label,omitempty"`
	Color    string           `json:"color,omitempty" yaml:"color,omitempty"`
	Children []*HierarchyDesc `json:"children,omitempty" yaml:"children,omitempty"`
}

func (h *HierarchyDesc) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*h = HierarchyDesc{Name: name}
		return nil
	}
	type plain HierarchyDesc
	return json.Unmarshal(data, (*plain)(h))
}

func (h *HierarchyDesc) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*h = HierarchyDesc{Name: value.Value}
		return nil
	}
	type plain HierarchyDesc
	return value.Decode((*plain)(h))
}

func CreateRankDesc() *ColumnDesc {
	return &ColumnDesc{Type: TypeRank, Label: "Rank"}
}

func CreateSelectionDesc() *ColumnDesc {
	return &ColumnDesc{Type: TypeSelection, Label: "Selections"}
}

func CreateAggregationDesc() *ColumnDesc {
	return &ColumnDesc{Type: TypeAggregate, Label: "Aggregate Groups"}
}

func CreateGroupDesc(label string) *ColumnDesc {
	if label == "" {
		label = "Group"
	}
	return &ColumnDesc{Type: TypeGroup, Label: label}
}

func CreateActionDesc(label string, actions ...string) *ColumnDesc {
	if label == "" {
		label = "actions"
	}
	return &ColumnDesc{Type: TypeActions, Label: label, Actions: actions}
}

func CreateStackDesc(label string) *ColumnDesc {
	if label == "" {
		label = "Weighted Sum"
	}
	return &ColumnDesc{Type: TypeStack, Label: label}
}

func CreateScriptDesc(label string) *ColumnDesc {
	if label == "" {
		label = "Combination"
	}
	return &ColumnDesc{Type: TypeScript, Label: label, Script: DefaultScript}
}

func CreateImpositionsDesc(label string) *ColumnDesc {
	if label == "" {
		label = ImpositionLabel
	}
	return &ColumnDesc{Type: TypeImpositions, Label: label}
}
