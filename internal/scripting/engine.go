package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/hamugo/server/internal/scene"
)

// Engine wraps a single gopher-lua VM for tile logic.
// Single-goroutine access only (stage-host tick loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given
// directory. Core scripts load first so tile scripts can use their helpers.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	corePath := filepath.Join(scriptsDir, "core")
	if err := e.loadDir(corePath); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load core scripts: %w", err)
	}

	tilesPath := filepath.Join(scriptsDir, "tiles")
	if err := e.loadDir(tilesPath); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load tile scripts: %w", err)
	}

	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// tileTable packs a tile context into a Lua table.
func (e *Engine) tileTable(tile scene.TileContext) *lua.LTable {
	t := e.vm.NewTable()
	t.RawSetString("type", lua.LString(tile.Type))
	t.RawSetString("script", lua.LString(tile.Script))
	t.RawSetString("x", lua.LNumber(tile.X))
	t.RawSetString("y", lua.LNumber(tile.Y))
	t.RawSetString("z", lua.LNumber(tile.Z))
	t.RawSetString("ticks", lua.LNumber(tile.Ticks))
	return t
}

// TileReset calls the Lua tile_reset hook for one scripted tile. Returns
// false when no script handles the tile.
func (e *Engine) TileReset(tile scene.TileContext) bool {
	fn := e.vm.GetGlobal("tile_reset")
	if fn == lua.LNil {
		e.log.Error("lua function tile_reset not found")
		return false
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, e.tileTable(tile)); err != nil {
		e.log.Error("lua tile_reset error", zap.Error(err))
		return false
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	return result == lua.LTrue
}

// TileTick calls the Lua tile_tick hook for one scripted tile and reports
// whether the tile wants its cell cleared.
func (e *Engine) TileTick(tile scene.TileContext) bool {
	fn := e.vm.GetGlobal("tile_tick")
	if fn == lua.LNil {
		e.log.Error("lua function tile_tick not found")
		return false
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, e.tileTable(tile)); err != nil {
		e.log.Error("lua tile_tick error", zap.Error(err))
		return false
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	return result == lua.LTrue
}

// OnWorldSpawned notifies scripts that a level finished spawning. Missing
// hook is fine; levels do not have to care.
func (e *Engine) OnWorldSpawned(mapID, name string, count int) {
	fn := e.vm.GetGlobal("on_world_spawned")
	if fn == lua.LNil {
		return
	}

	t := e.vm.NewTable()
	t.RawSetString("map_id", lua.LString(mapID))
	t.RawSetString("name", lua.LString(name))
	t.RawSetString("count", lua.LNumber(count))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua on_world_spawned error", zap.Error(err))
	}
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
