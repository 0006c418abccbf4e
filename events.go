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

// 列上的通用事件
const (
	EventWidthChanged           = "widthChanged"
	EventLabelChanged           = "labelChanged"
	EventMetaDataChanged        = "metaDataChanged"
	EventVisibilityChanged      = "visibilityChanged"
	EventRendererTypeChanged    = "rendererTypeChanged"
	EventGroupRendererChanged   = "groupRendererChanged"
	EventSummaryRendererChanged = "summaryRendererChanged"

	// EventDirty 任何变化
	EventDirty = "dirty"
	// EventDirtyHeader 只影响表头，例如宽度、标题
	EventDirtyHeader = "dirtyHeader"
	// EventDirtyValues 行的内容发生变化
	EventDirtyValues = "dirtyValues"
	// EventDirtyCaches 基于行计算的缓存失效
	EventDirtyCaches = "dirtyCaches"
)

// 值列和组合列上的事件
const (
	EventFilterChanged     = "filterChanged"
	EventGroupingChanged   = "groupingChanged"
	EventSortMethodChanged = "sortMethodChanged"
	EventMappingChanged    = "mappingChanged"
	EventScriptChanged     = "scriptChanged"
	EventValueChanged      = "valueChanged"
	EventCutOffChanged     = "cutOffChanged"
	EventWeightsChanged    = "weightsChanged"

	// EventSelect 选择列上某一行的选择状态变化
	EventSelect = "select"

	EventAddColumn    = "addColumn"
	EventMoveColumn   = "moveColumn"
	EventRemoveColumn = "removeColumn"
)

// Ranking 上的事件
const (
	EventOrderChanged             = "orderChanged"
	EventDirtyOrder               = "dirtyOrder"
	EventSortCriteriaChanged      = "sortCriteriaChanged"
	EventGroupCriteriaChanged     = "groupCriteriaChanged"
	EventGroupSortCriteriaChanged = "groupSortCriteriaChanged"
	EventGroupsChanged            = "groupsChanged"
)

// Provider 上的事件
const (
	EventAddRanking       = "addRanking"
	EventRemoveRanking    = "removeRanking"
	EventSelectionChanged = "selectionChanged"
	EventAggregate        = "aggregate"
	EventJumpToNearest    = "jumpToNearest"
	EventReorderFailed    = "reorderFailed"
)

// columnEvents 所有列都声明的事件，Ranking 和组合列依赖 filterChanged
var columnEvents = []string{
	EventWidthChanged, EventLabelChanged, EventMetaDataChanged, EventVisibilityChanged,
	EventFilterChanged, EventRendererTypeChanged, EventGroupRendererChanged, EventSummaryRendererChanged,
	EventDirty, EventDirtyHeader, EventDirtyValues, EventDirtyCaches,
}

var (
	valuesDirty = []string{EventDirtyValues, EventDirty}
	headerDirty = []string{EventDirtyHeader, EventDirty}
)

func with(first string, rest []string) []string {
	return append([]string{first}, rest...)
}
