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

package errs

import (
	"errors"
	"fmt"
)

var (
	ErrProviderClosed  = errors.New("erank: provider 已关闭")
	ErrRankingNotFound = errors.New("erank: ranking 不存在")
	// ErrMissingRoot 层级数据中没有根节点
	// 一般是 parent 指针成环
	ErrMissingRoot       = errors.New("erank: 层级数据缺少根节点")
	ErrScriptNotNumber   = errors.New("erank: 脚本结果不是数字")
	ErrScriptStateClosed = errors.New("erank: 脚本状态已关闭")
	ErrScriptTimeout     = errors.New("erank: 脚本执行超时")
	ErrEmptySource       = errors.New("erank: 数据源为空")
	ErrInvalidJSON       = errors.New("erank: 非法的 JSON")
)

// NewUnknownColumnTypeError 返回代表未注册列类型的错误
func NewUnknownColumnTypeError(typ string) error {
	return fmt.Errorf("erank: 未知列类型 %s", typ)
}

// NewUnknownDescRefError 返回代表无法解析的描述符引用的错误
func NewUnknownDescRefError(ref any) error {
	return fmt.Errorf("erank: 无法解析描述符引用 %v", ref)
}

func NewScriptCompileError(err error) error {
	return fmt.Errorf("erank: 脚本编译失败: %w", err)
}

func NewScriptRuntimeError(err error) error {
	return fmt.Errorf("erank: 脚本执行失败: %w", err)
}

func NewScriptPanicError(r any) error {
	return fmt.Errorf("erank: 脚本执行 panic: %v", r)
}

// NewUnsupportedRowError 返回代表不支持的行类型的错误
func NewUnsupportedRowError(row any) error {
	return fmt.Errorf("erank: 不支持的行类型 %T", row)
}

func NewInvalidFieldError(field string) error {
	return fmt.Errorf("erank: 未知字段 %s", field)
}

func NewUnsupportedSourceError(kind string) error {
	return fmt.Errorf("erank: 不支持的数据源 %s", kind)
}

func NewInvalidRowIndexError(idx int) error {
	return fmt.Errorf("erank: 行下标越界 %d", idx)
}

func NewScanWrongDestinationArgumentsError(expect int, actual int) error {
	return fmt.Errorf("erank: 扫描的目标参数数量不对，期望 %d，实际 %d", expect, actual)
}

func NewInvalidJSONError(path string) error {
	return fmt.Errorf("erank: %q 处不是对象数组", path)
}
