// Package lua runs delegated click commands as Lua chunks.
//
// Each command string is compiled once and cached. Chunks run in a sandboxed
// state with only the base, table, string and math libraries, plus two modules
// bound to the current invocation:
//
//	vars.get(key)          read a blackboard value
//	vars.set(key, value)   write a blackboard value (nil deletes)
//	vars.add(key [, n])    add n (default 1) and return the new value
//	world.self()           id of the triggering object
//	world.exists(id)       whether an object is alive
//	world.despawn([id])    despawn id (default self) after the chunk returns
//	world.press(id)        report a press on id, seen by the next pass
//	log(msg)               debug log line
package lua

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/aretw0/onclick/internal/logging"
	"github.com/aretw0/onclick/pkg/domain"
	"github.com/aretw0/onclick/pkg/world"
	lua "github.com/yuin/gopher-lua"
)

// binding is the world access of the invocation currently running.
type binding struct {
	id   domain.ObjectID
	w    *world.World
	cmds *world.Commands
}

// Interpreter implements action.Interpreter on top of a single LState.
// gopher-lua states are not goroutine-safe, so Execute serializes callers.
type Interpreter struct {
	mu     sync.Mutex
	L      *lua.LState
	chunks map[string]*lua.LFunction
	cur    *binding
	logger *slog.Logger
}

// Option configures the Interpreter.
type Option func(*Interpreter)

// WithLogger routes the Lua log() function to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Interpreter) {
		i.logger = logger
	}
}

// New creates a sandboxed interpreter.
func New(opts ...Option) *Interpreter {
	i := &Interpreter{
		L:      lua.NewState(lua.Options{SkipOpenLibs: true}),
		chunks: make(map[string]*lua.LFunction),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	i.openSafeLibs()
	i.installModules()
	return i
}

func (i *Interpreter) openSafeLibs() {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		i.L.Push(i.L.NewFunction(lib.fn))
		i.L.Push(lua.LString(lib.name))
		i.L.Call(1, 0)
	}
	// Remove functions that load code from disk or strings.
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		i.L.SetGlobal(name, lua.LNil)
	}
}

func (i *Interpreter) installModules() {
	L := i.L

	vars := L.NewTable()
	L.SetFuncs(vars, map[string]lua.LGFunction{
		"get": i.varsGet,
		"set": i.varsSet,
		"add": i.varsAdd,
	})
	L.SetGlobal("vars", vars)

	w := L.NewTable()
	L.SetFuncs(w, map[string]lua.LGFunction{
		"self":    i.worldSelf,
		"exists":  i.worldExists,
		"despawn": i.worldDespawn,
		"press":   i.worldPress,
	})
	L.SetGlobal("world", w)

	L.SetGlobal("log", L.NewFunction(func(L *lua.LState) int {
		i.logger.Debug("lua", "msg", L.CheckString(1), "object", i.cur.id)
		return 0
	}))
}

// Execute compiles (once) and runs command for the triggering object id.
func (i *Interpreter) Execute(ctx context.Context, command string, id domain.ObjectID, w *world.World, cmds *world.Commands) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	fn, ok := i.chunks[command]
	if !ok {
		var err error
		fn, err = i.L.LoadString(command)
		if err != nil {
			return fmt.Errorf("failed to compile lua command: %w", err)
		}
		i.chunks[command] = fn
	}

	i.cur = &binding{id: id, w: w, cmds: cmds}
	i.L.SetContext(ctx)
	defer func() {
		i.cur = nil
		i.L.SetTop(0)
		i.L.RemoveContext()
	}()

	i.L.Push(fn)
	if err := i.L.PCall(0, lua.MultRet, nil); err != nil {
		return fmt.Errorf("lua command failed: %w", err)
	}
	return nil
}

// Close releases the Lua state.
func (i *Interpreter) Close() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.L.Close()
}

func (i *Interpreter) varsGet(L *lua.LState) int {
	v, _ := world.VarsOf(i.cur.w).Get(L.CheckString(1))
	L.Push(toLua(v))
	return 1
}

func (i *Interpreter) varsSet(L *lua.LState) int {
	key := L.CheckString(1)
	vars := world.VarsOf(i.cur.w)
	if v := L.Get(2); v == lua.LNil {
		vars.Delete(key)
	} else {
		vars.Set(key, fromLua(v))
	}
	return 0
}

func (i *Interpreter) varsAdd(L *lua.LState) int {
	key := L.CheckString(1)
	delta := L.OptInt64(2, 1)
	L.Push(lua.LNumber(world.VarsOf(i.cur.w).Add(key, delta)))
	return 1
}

func (i *Interpreter) worldSelf(L *lua.LState) int {
	L.Push(lua.LNumber(i.cur.id))
	return 1
}

func (i *Interpreter) worldExists(L *lua.LState) int {
	L.Push(lua.LBool(i.cur.w.Exists(domain.ObjectID(L.CheckInt64(1)))))
	return 1
}

func (i *Interpreter) worldDespawn(L *lua.LState) int {
	target := i.cur.id
	if L.GetTop() >= 1 {
		target = domain.ObjectID(L.CheckInt64(1))
	}
	i.cur.cmds.Despawn(target)
	return 0
}

func (i *Interpreter) worldPress(L *lua.LState) int {
	i.cur.cmds.Press(domain.ObjectID(L.CheckInt64(1)))
	return 0
}

func toLua(v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case string:
		return lua.LString(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	}
	return lua.LString(fmt.Sprint(v))
}

func fromLua(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LString:
		return string(val)
	case lua.LNumber:
		f := float64(val)
		if f == math.Trunc(f) {
			return int64(f)
		}
		return f
	}
	return v.String()
}
