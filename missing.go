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
	"strings"
)

// FirstIsMissing Compare 在第一个参数缺失、第二个参数不缺失时的返回值，
// 反过来时返回 -FirstIsMissing
const FirstIsMissing = 1

// IsMissingValue 默认的缺失判断：
// nil、空白字符串、"NA"、"null"（不区分大小写）以及 NaN
func IsMissingValue(val any) bool {
	switch v := val.(type) {
	case nil:
		return true
	case string:
		s := strings.TrimSpace(v)
		return s == "" || strings.EqualFold(s, "na") || strings.EqualFold(s, "null")
	case float64:
		return math.IsNaN(v)
	case float32:
		return math.IsNaN(float64(v))
	default:
		return false
	}
}

// compareMissing 处理任意一方缺失的情况，ok 为 false 表示两者都不缺失
func compareMissing(aMissing, bMissing bool) (int, bool) {
	switch {
	case aMissing && bMissing:
		return 0, true
	case aMissing:
		return FirstIsMissing, true
	case bMissing:
		return -FirstIsMissing, true
	}
	return 0, false
}

func compareFloat(a, b float64) int {
	if res, ok := compareMissing(math.IsNaN(a), math.IsNaN(b)); ok {
		return res
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
