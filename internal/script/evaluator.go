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

// Package script 在受限的 Lua 环境中计算数值表达式。
// 只打开 base、table、string、math 库，并移除所有加载代码的入口。
// 每次求值使用新的全局变量表，并且有执行时间上限。
package script

import (
	"context"
	"errors"
	"math"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/ecodeclub/erank/internal/errs"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

var returnKeyword = regexp.MustCompile(`\breturn\b`)

// Wrap 没有 return 的脚本被视为单个表达式
func Wrap(src string) string {
	if returnKeyword.MatchString(src) {
		return src
	}
	return "return (" + strings.TrimSpace(src) + ")"
}

// DefaultTimeout 单次求值的时间上限
const DefaultTimeout = 100 * time.Millisecond

// Evaluator 一段编译好的脚本及其独占的 Lua 状态，并发调用会被串行化
type Evaluator struct {
	mu      sync.Mutex
	src     string
	L       *lua.LState
	proto   *lua.FunctionProto
	timeout time.Duration
	closed  bool
}

type Option func(e *Evaluator)

// WithTimeout 不大于 0 时不限制执行时间
func WithTimeout(timeout time.Duration) Option {
	return func(e *Evaluator) {
		e.timeout = timeout
	}
}

// Compile 编译脚本。编译失败时返回错误，调用方通常把它当作恒为 NaN 的脚本。
func Compile(src string, opts ...Option) (*Evaluator, error) {
	code := Wrap(src)
	chunk, err := parse.Parse(strings.NewReader(code), "script")
	if err != nil {
		return nil, errs.NewScriptCompileError(err)
	}
	proto, err := lua.Compile(chunk, "script")
	if err != nil {
		return nil, errs.NewScriptCompileError(err)
	}
	e := &Evaluator{
		src:     src,
		L:       newSandbox(),
		proto:   proto,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func newSandbox() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module", "getfenv", "setfenv"} {
		L.SetGlobal(name, lua.LNil)
	}
	installHelpers(L)
	return L
}

// Source 返回未包装的脚本
func (e *Evaluator) Source() string {
	return e.src
}

// Eval 计算脚本，结果不是数字或者超时都返回 NaN 和错误。
// 脚本写入的全局变量只在本次求值中可见。
func (e *Evaluator) Eval(env Env) (res float64, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return math.NaN(), errs.ErrScriptStateClosed
	}
	top := e.L.GetTop()
	defer func() {
		if r := recover(); r != nil {
			res = math.NaN()
			err = errs.NewScriptPanicError(r)
		}
		e.L.SetTop(top)
	}()
	ctx := context.Background()
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
		e.L.SetContext(ctx)
		defer e.L.RemoveContext()
	}
	fn := e.L.NewFunctionFromProto(e.proto)
	fn.Env = e.globals()
	env.bind(e.L, fn.Env)
	e.L.Push(fn)
	if err := e.L.PCall(0, 1, nil); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return math.NaN(), errs.ErrScriptTimeout
		}
		return math.NaN(), errs.NewScriptRuntimeError(err)
	}
	if n, ok := e.L.Get(-1).(lua.LNumber); ok {
		return float64(n), nil
	}
	return math.NaN(), errs.ErrScriptNotNumber
}

// globals 本次求值的全局变量表，读取时回落到共享的库函数
func (e *Evaluator) globals() *lua.LTable {
	g := e.L.NewTable()
	mt := e.L.NewTable()
	mt.RawSetString("__index", e.L.G.Global)
	e.L.SetMetatable(g, mt)
	g.RawSetString("_G", g)
	return g
}

// Close 释放 Lua 状态，之后的 Eval 都会失败
func (e *Evaluator) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.L.Close()
}
