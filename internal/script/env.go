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

package script

import (
	"math"

	lua "github.com/yuin/gopher-lua"
)

// Columns 脚本能看到的一组列在当前行上的取值
type Columns interface {
	Len() int
	ID(i int) string
	Label(i int) string
	Type(i int) string
	// Value 归一化后的值
	Value(i int) float64
	Raw(i int) any
}

// Env 一次求值的全局变量
type Env struct {
	// Vars 直接以全局数字变量暴露
	Vars map[string]float64
	// Children 以 values、raws、children、col 暴露
	Children Columns
	// All 惰性计算的所有列，以 col.all 暴露
	All func() Columns
	// Index 当前行号
	Index int
}

// bind 把变量写入 g
func (env Env) bind(L *lua.LState, g *lua.LTable) {
	for k, v := range env.Vars {
		g.RawSetString(k, lua.LNumber(v))
	}
	g.RawSetString("index", lua.LNumber(env.Index))
	if env.Children == nil {
		return
	}
	ctx := newContext(L, env.Children)
	g.RawSetString("values", ctx.RawGetString("values"))
	g.RawSetString("raws", ctx.RawGetString("raws"))
	g.RawSetString("children", ctx)
	if env.All != nil {
		all := env.All
		mt := L.NewTable()
		mt.RawSetString("__index", L.NewFunction(func(L *lua.LState) int {
			if L.Get(2) != lua.LString("all") {
				L.Push(lua.LNil)
				return 1
			}
			tbl := newContext(L, all())
			L.CheckTable(1).RawSetString("all", tbl)
			L.Push(tbl)
			return 1
		}))
		L.SetMetatable(ctx, mt)
	}
	g.RawSetString("col", ctx)
}

// toLua 把任意 Go 值转为 Lua 值，不认识的类型为 nil
func toLua(L *lua.LState, v any) lua.LValue {
	switch x := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(x)
	case string:
		return lua.LString(x)
	case float64:
		return lua.LNumber(x)
	case float32:
		return lua.LNumber(x)
	case int:
		return lua.LNumber(x)
	case int64:
		return lua.LNumber(x)
	case []float64:
		tbl := L.NewTable()
		for _, f := range x {
			tbl.Append(lua.LNumber(f))
		}
		return tbl
	case []any:
		tbl := L.NewTable()
		for _, e := range x {
			tbl.Append(toLua(L, e))
		}
		return tbl
	default:
		return lua.LNil
	}
}

// newContext 构造列上下文：数组部分是每一列的描述，
// 另有 length、values、raws、byName、byID、byIndex、forEach
func newContext(L *lua.LState, cols Columns) *lua.LTable {
	ctx := L.NewTable()
	values := L.NewTable()
	raws := L.NewTable()
	byName := make(map[string]*lua.LTable, cols.Len())
	byID := make(map[string]*lua.LTable, cols.Len())
	items := make([]*lua.LTable, 0, cols.Len())
	for i := 0; i < cols.Len(); i++ {
		item := L.NewTable()
		item.RawSetString("id", lua.LString(cols.ID(i)))
		item.RawSetString("name", lua.LString(cols.Label(i)))
		item.RawSetString("type", lua.LString(cols.Type(i)))
		v := lua.LNumber(cols.Value(i))
		item.RawSetString("value", v)
		raw := toLua(L, cols.Raw(i))
		item.RawSetString("raw", raw)
		values.Append(v)
		raws.Append(raw)
		ctx.Append(item)
		items = append(items, item)
		if _, ok := byName[cols.Label(i)]; !ok {
			byName[cols.Label(i)] = item
		}
		byID[cols.ID(i)] = item
	}
	ctx.RawSetString("length", lua.LNumber(cols.Len()))
	ctx.RawSetString("values", values)
	ctx.RawSetString("raws", raws)
	ctx.RawSetString("byName", L.NewFunction(func(L *lua.LState) int {
		if item, ok := byName[L.CheckString(1)]; ok {
			L.Push(item)
		} else {
			L.Push(lua.LNil)
		}
		return 1
	}))
	ctx.RawSetString("byID", L.NewFunction(func(L *lua.LState) int {
		if item, ok := byID[L.CheckString(1)]; ok {
			L.Push(item)
		} else {
			L.Push(lua.LNil)
		}
		return 1
	}))
	ctx.RawSetString("byIndex", L.NewFunction(func(L *lua.LState) int {
		i := L.CheckInt(1)
		if i < 1 || i > len(items) {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(items[i-1])
		return 1
	}))
	ctx.RawSetString("forEach", L.NewFunction(func(L *lua.LState) int {
		fn := L.CheckFunction(1)
		for i, item := range items {
			L.Push(fn)
			L.Push(item)
			L.Push(lua.LNumber(i + 1))
			L.Call(2, 0)
		}
		return 0
	}))
	return ctx
}

// numbers 收集参数中的数字，单个 table 参数按数组展开，非数字和 NaN 被忽略
func numbers(L *lua.LState) []float64 {
	var res []float64
	add := func(v lua.LValue) {
		if n, ok := v.(lua.LNumber); ok && !math.IsNaN(float64(n)) {
			res = append(res, float64(n))
		}
	}
	for i := 1; i <= L.GetTop(); i++ {
		v := L.Get(i)
		if tbl, ok := v.(*lua.LTable); ok {
			tbl.ForEach(func(_, e lua.LValue) {
				add(e)
			})
			continue
		}
		add(v)
	}
	return res
}

func installHelpers(L *lua.LState) {
	nan := lua.LNumber(math.NaN())
	L.SetGlobal("min", L.NewFunction(func(L *lua.LState) int {
		vals := numbers(L)
		if len(vals) == 0 {
			L.Push(nan)
			return 1
		}
		res := vals[0]
		for _, v := range vals[1:] {
			res = math.Min(res, v)
		}
		L.Push(lua.LNumber(res))
		return 1
	}))
	L.SetGlobal("max", L.NewFunction(func(L *lua.LState) int {
		vals := numbers(L)
		if len(vals) == 0 {
			L.Push(nan)
			return 1
		}
		res := vals[0]
		for _, v := range vals[1:] {
			res = math.Max(res, v)
		}
		L.Push(lua.LNumber(res))
		return 1
	}))
	L.SetGlobal("extent", L.NewFunction(func(L *lua.LState) int {
		vals := numbers(L)
		lo, hi := math.NaN(), math.NaN()
		if len(vals) > 0 {
			lo, hi = vals[0], vals[0]
			for _, v := range vals[1:] {
				lo = math.Min(lo, v)
				hi = math.Max(hi, v)
			}
		}
		tbl := L.NewTable()
		tbl.Append(lua.LNumber(lo))
		tbl.Append(lua.LNumber(hi))
		L.Push(tbl)
		return 1
	}))
	L.SetGlobal("clamp", L.NewFunction(func(L *lua.LState) int {
		v := float64(L.CheckNumber(1))
		lo := float64(L.CheckNumber(2))
		hi := float64(L.CheckNumber(3))
		L.Push(lua.LNumber(math.Max(lo, math.Min(hi, v))))
		return 1
	}))
	L.SetGlobal("normalize", L.NewFunction(func(L *lua.LState) int {
		v := float64(L.CheckNumber(1))
		lo := float64(L.CheckNumber(2))
		hi := float64(L.CheckNumber(3))
		L.Push(lua.LNumber((v - lo) / (hi - lo)))
		return 1
	}))
	L.SetGlobal("denormalize", L.NewFunction(func(L *lua.LState) int {
		v := float64(L.CheckNumber(1))
		lo := float64(L.CheckNumber(2))
		hi := float64(L.CheckNumber(3))
		L.Push(lua.LNumber(v*(hi-lo) + lo))
		return 1
	}))
	// linear(v, source0, source1[, target0, target1])，目标区间默认 [0, 1]
	L.SetGlobal("linear", L.NewFunction(func(L *lua.LState) int {
		v := float64(L.CheckNumber(1))
		s0 := float64(L.CheckNumber(2))
		s1 := float64(L.CheckNumber(3))
		t0 := float64(L.OptNumber(4, 0))
		t1 := float64(L.OptNumber(5, 1))
		L.Push(lua.LNumber(t0 + (v-s0)/(s1-s0)*(t1-t0)))
		return 1
	}))
}
