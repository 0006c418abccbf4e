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

// 默认注册的列类型
const (
	TypeString      = "string"
	TypeAnnotate    = "annotate"
	TypeBoolean     = "boolean"
	TypeCategorical = "categorical"
	TypeHierarchy   = "hierarchy"
	TypeNumber      = "number"
	TypeNumbers     = "numbers"
	TypeDates       = "dates"
	TypeMap         = "map"
	TypeStack       = "stack"
	TypeScript      = "script"
	TypeImpositions = "impositions"
	TypeRank        = "rank"
	TypeSelection   = "selection"
	TypeAggregate   = "aggregate"
	TypeGroup       = "group"
	TypeActions     = "actions"
)

const (
	// DefaultScript 脚本列的默认脚本
	DefaultScript = "return max(values)"
	// ImpositionLabel 叠加列的默认标题，使用它时标题由子列组成
	ImpositionLabel = "Imposition"
)

// ColumnConstructor 按描述符创建某一类型的列
type ColumnConstructor func(id string, desc *ColumnDesc) Column

// DefaultColumnTypes 返回默认的类型注册表，调用方可以修改返回值
func DefaultColumnTypes() map[string]ColumnConstructor {
	return map[string]ColumnConstructor{
		TypeString:      func(id string, d *ColumnDesc) Column { return NewStringColumn(id, d) },
		TypeAnnotate:    func(id string, d *ColumnDesc) Column { return NewAnnotateColumn(id, d) },
		TypeBoolean:     func(id string, d *ColumnDesc) Column { return NewBooleanColumn(id, d) },
		TypeCategorical: func(id string, d *ColumnDesc) Column { return NewCategoricalColumn(id, d) },
		TypeHierarchy:   func(id string, d *ColumnDesc) Column { return NewHierarchyColumn(id, d) },
		TypeNumber:      func(id string, d *ColumnDesc) Column { return NewNumberColumn(id, d) },
		TypeNumbers:     func(id string, d *ColumnDesc) Column { return NewNumbersColumn(id, d) },
		TypeDates:       func(id string, d *ColumnDesc) Column { return NewDatesColumn(id, d) },
		TypeMap:         func(id string, d *ColumnDesc) Column { return NewMapColumn(id, d) },
		TypeStack:       func(id string, d *ColumnDesc) Column { return NewStackColumn(id, d) },
		TypeScript:      func(id string, d *ColumnDesc) Column { return NewScriptColumn(id, d) },
		TypeImpositions: func(id string, d *ColumnDesc) Column { return NewImpositionsColumn(id, d) },
		TypeRank:        func(id string, d *ColumnDesc) Column { return NewRankColumn(id, d) },
		TypeSelection:   func(id string, d *ColumnDesc) Column { return NewSelectionColumn(id, d) },
		TypeAggregate:   func(id string, d *ColumnDesc) Column { return NewAggregateGroupColumn(id, d) },
		TypeGroup:       func(id string, d *ColumnDesc) Column { return NewGroupColumn(id, d) },
		TypeActions:     func(id string, d *ColumnDesc) Column { return NewActionColumn(id, d) },
	}
}

// 列的分类，供外部界面组织菜单
const (
	CategoryString  = "string"
	CategoryNumber  = "number"
	CategoryNumbers = "array"
	CategoryDate    = "date"
	CategoryCateg   = "categorical"
	CategoryCombine = "combined"
	CategoryMap     = "map"
	CategorySupport = "support"
)

// Traits 每种列类型的静态能力标签。
// 界面层按类型查询，模型本身不依赖它们。
type Traits struct {
	Category string
	// Toolbar 表头上可用的操作
	Toolbar []string
	// Dialogs 排序、过滤等对话框的种类
	Dialogs []string
	// Support 不代表数据的辅助列
	Support bool
	// SortByDefault 首次按这一列排序时的方向，"ascending" 或 "descending"
	SortByDefault string
}

var traits = map[string]Traits{
	TypeString:      {Category: CategoryString, Toolbar: []string{"filterString", "groupString"}, SortByDefault: "ascending"},
	TypeAnnotate:    {Category: CategoryString, Toolbar: []string{"filterString", "editAnnotation"}, SortByDefault: "ascending"},
	TypeBoolean:     {Category: CategoryCateg, Toolbar: []string{"filterBoolean"}, SortByDefault: "descending"},
	TypeCategorical: {Category: CategoryCateg, Toolbar: []string{"filterCategorical"}, SortByDefault: "ascending"},
	TypeHierarchy:   {Category: CategoryCateg, Toolbar: []string{"cutOffHierarchy"}, SortByDefault: "ascending"},
	TypeNumber:      {Category: CategoryNumber, Toolbar: []string{"filterMapped", "groupThresholds"}, SortByDefault: "descending"},
	TypeNumbers:     {Category: CategoryNumbers, Toolbar: []string{"filterMapped"}, Dialogs: []string{"sort", "sortNumbers"}, SortByDefault: "descending"},
	TypeDates:       {Category: CategoryDate, Dialogs: []string{"sort", "sortDates"}, SortByDefault: "descending"},
	TypeMap:         {Category: CategoryMap, SortByDefault: "ascending"},
	TypeStack:       {Category: CategoryCombine, Toolbar: []string{"editWeights", "compress", "expand"}, SortByDefault: "descending"},
	TypeScript:      {Category: CategoryCombine, Toolbar: []string{"script"}, SortByDefault: "descending"},
	TypeImpositions: {Category: CategoryCombine, Toolbar: []string{"filterMapped"}, Dialogs: []string{"sort", "sortNumbers"}, SortByDefault: "descending"},
	TypeRank:        {Category: CategorySupport, Support: true},
	TypeSelection:   {Category: CategorySupport, Toolbar: []string{"selectAll"}, Support: true},
	TypeAggregate:   {Category: CategorySupport, Toolbar: []string{"aggregateAll"}, Support: true},
	TypeGroup:       {Category: CategorySupport, Toolbar: []string{"sortGroup"}, Support: true},
	TypeActions:     {Category: CategorySupport, Support: true},
}

// TraitsOf 列类型的能力标签，未知类型返回零值
func TraitsOf(col Column) Traits {
	return traits[col.Type()]
}

// IsSupportType 是否是辅助列的类型
func IsSupportType(typ string) bool {
	return traits[typ].Support
}
