package extension

import (
	"fmt"
	"os"
	"sync"

	"github.com/tidwall/gjson"
	lua "github.com/yuin/gopher-lua"
)

// Lua hook function names. A script implements the hooks it cares
// about; missing functions are skipped.
const (
	luaBeforeSurfaces  = "before_surfaces_added"
	luaAfterSurfaces   = "after_surfaces_added"
	luaBeforeHighlight = "before_highlight"
	luaAfterHighlight  = "after_highlight"
	luaAttrChanged     = "attribute_changed"
)

// LuaExtension adapts a Lua script to the Extension contract.
//
// The script runs in a restricted state: base, table, string and math
// libraries only, with the code-loading functions removed. Hooks are
// global functions; the global observed_attributes table declares
// extra attribute names to watch. Every hook receives an instance
// table whose fields are plain functions (dot-call style):
//
//	function before_highlight(inst)
//	  inst.bag_set("chars", string.len(inst.value()))
//	end
//
// gopher-lua states are not goroutine-safe; the mutex serializes all
// hook calls into the state.
type LuaExtension struct {
	name     string
	observed []string

	mu     sync.Mutex
	L      *lua.LState
	closed bool
}

// LoadLuaScript compiles and runs script, returning the extension it
// defines.
func LoadLuaScript(name, script string) (*LuaExtension, error) {
	if name == "" {
		return nil, ErrInvalidExtension
	}
	L := newLuaState()
	if err := L.DoString(script); err != nil {
		L.Close()
		return nil, fmt.Errorf("lua extension %q: %w", name, err)
	}
	ext := &LuaExtension{name: name, L: L}
	ext.observed = readObservedAttributes(L)
	return ext, nil
}

// LoadLuaFile loads a Lua extension from a file.
func LoadLuaFile(name, path string) (*LuaExtension, error) {
	script, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lua extension %q: %w", name, err)
	}
	return LoadLuaScript(name, string(script))
}

// newLuaState creates a restricted Lua state.
func newLuaState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	// io, os, debug and package stay closed; code loading goes too.
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}

// readObservedAttributes collects the observed_attributes global.
func readObservedAttributes(L *lua.LState) []string {
	tbl, ok := L.GetGlobal("observed_attributes").(*lua.LTable)
	if !ok {
		return nil
	}
	var names []string
	tbl.ForEach(func(_, v lua.LValue) {
		if s, ok := v.(lua.LString); ok {
			names = append(names, string(s))
		}
	})
	return names
}

// Name implements Extension.
func (e *LuaExtension) Name() string { return e.name }

// ObservedAttributes implements Extension.
func (e *LuaExtension) ObservedAttributes() []string {
	out := make([]string, len(e.observed))
	copy(out, e.observed)
	return out
}

// BeforeSurfacesAdded implements Extension.
func (e *LuaExtension) BeforeSurfacesAdded(inst Instance) {
	e.call(luaBeforeSurfaces, inst)
}

// AfterSurfacesAdded implements Extension.
func (e *LuaExtension) AfterSurfacesAdded(inst Instance) {
	e.call(luaAfterSurfaces, inst)
}

// BeforeHighlight implements Extension.
func (e *LuaExtension) BeforeHighlight(inst Instance) {
	e.call(luaBeforeHighlight, inst)
}

// AfterHighlight implements Extension.
func (e *LuaExtension) AfterHighlight(inst Instance) {
	e.call(luaAfterHighlight, inst)
}

// AttributeChanged implements Extension.
func (e *LuaExtension) AttributeChanged(inst Instance, name, oldValue, newValue string) {
	e.call(luaAttrChanged, inst, lua.LString(name), lua.LString(oldValue), lua.LString(newValue))
}

// Close releases the Lua state. Hooks after Close are no-ops.
func (e *LuaExtension) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.closed {
		e.closed = true
		e.L.Close()
	}
}

// call invokes a global hook function if the script defines it.
// Script errors are swallowed: a broken hook must not take down the
// widget's frame callback.
func (e *LuaExtension) call(fn string, inst Instance, extra ...lua.LValue) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	fnVal := e.L.GetGlobal(fn)
	if fnVal.Type() != lua.LTFunction {
		return
	}

	args := make([]lua.LValue, 0, len(extra)+1)
	args = append(args, e.instanceTable(inst))
	args = append(args, extra...)

	defer func() {
		// gopher-lua can panic on a corrupted state.
		_ = recover()
	}()
	_ = e.L.CallByParam(lua.P{Fn: fnVal, NRet: 0, Protect: true}, args...)
}

// instanceTable builds the Lua view of an instance for one hook call.
func (e *LuaExtension) instanceTable(inst Instance) *lua.LTable {
	L := e.L
	t := L.NewTable()
	L.SetField(t, "id", lua.LString(inst.ID()))
	L.SetField(t, "value", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(inst.Value()))
		return 1
	}))
	L.SetField(t, "set_value", L.NewFunction(func(L *lua.LState) int {
		inst.SetValue(L.CheckString(1))
		return 0
	}))
	L.SetField(t, "attr", L.NewFunction(func(L *lua.LState) int {
		if v, ok := inst.Attribute(L.CheckString(1)); ok {
			L.Push(lua.LString(v))
		} else {
			L.Push(lua.LNil)
		}
		return 1
	}))
	L.SetField(t, "set_attr", L.NewFunction(func(L *lua.LState) int {
		inst.SetAttribute(L.CheckString(1), L.CheckString(2))
		return 0
	}))
	L.SetField(t, "remove_attr", L.NewFunction(func(L *lua.LState) int {
		inst.RemoveAttribute(L.CheckString(1))
		return 0
	}))
	L.SetField(t, "language", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(inst.Language()))
		return 1
	}))
	L.SetField(t, "set_instructions", L.NewFunction(func(L *lua.LState) int {
		inst.SetInstructions(L.CheckString(1), L.OptBool(2, false))
		return 0
	}))
	L.SetField(t, "bag_get", L.NewFunction(func(L *lua.LState) int {
		res := inst.Bag(e.name).Get(L.CheckString(1))
		L.Push(resultToLua(res))
		return 1
	}))
	L.SetField(t, "bag_set", L.NewFunction(func(L *lua.LState) int {
		path := L.CheckString(1)
		value := luaToGo(L.Get(2))
		if err := inst.Bag(e.name).Set(path, value); err != nil {
			L.RaiseError("bag_set %s: %v", path, err)
		}
		return 0
	}))
	return t
}

// resultToLua converts a gjson result to a Lua value. Composite
// results come back as their raw JSON text.
func resultToLua(r gjson.Result) lua.LValue {
	switch r.Type {
	case gjson.String:
		return lua.LString(r.Str)
	case gjson.Number:
		return lua.LNumber(r.Num)
	case gjson.True:
		return lua.LTrue
	case gjson.False:
		return lua.LFalse
	case gjson.JSON:
		return lua.LString(r.Raw)
	default:
		return lua.LNil
	}
}

// luaToGo converts a Lua value to a Go value for the data bag.
func luaToGo(lv lua.LValue) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if n := v.MaxN(); n > 0 {
			arr := make([]any, 0, n)
			for i := 1; i <= n; i++ {
				arr = append(arr, luaToGo(v.RawGetInt(i)))
			}
			return arr
		}
		m := make(map[string]any)
		v.ForEach(func(k, val lua.LValue) {
			m[k.String()] = luaToGo(val)
		})
		return m
	default:
		return nil
	}
}
