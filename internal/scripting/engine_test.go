package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/hamugo/server/internal/scene"
)

func writeScript(t *testing.T, dir, sub, name, body string) {
	t.Helper()
	full := filepath.Join(dir, sub)
	if err := os.MkdirAll(full, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", full, err)
	}
	if err := os.WriteFile(filepath.Join(full, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestTileHooks(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "core", "util.lua", `
function is_lamp(tile)
  return tile.script == "lamp"
end
`)
	writeScript(t, dir, "tiles", "lamp.lua", `
reset_count = 0

function tile_reset(tile)
  if not is_lamp(tile) then
    return false
  end
  reset_count = reset_count + 1
  return true
end

function tile_tick(tile)
  -- burn out after 5 ticks
  return is_lamp(tile) and tile.ticks >= 5
end
`)

	e, err := NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	defer e.Close()

	lamp := scene.TileContext{Type: "lamp", Script: "lamp", X: 1, Y: 0, Z: 2}
	if !e.TileReset(lamp) {
		t.Fatalf("expected tile_reset to handle the lamp")
	}
	if e.TileReset(scene.TileContext{Type: "wheel", Script: "wheel"}) {
		t.Fatalf("tile_reset handled a tile it should ignore")
	}

	lamp.Ticks = 4
	if e.TileTick(lamp) {
		t.Fatalf("lamp wanted clearing before its time")
	}
	lamp.Ticks = 5
	if !e.TileTick(lamp) {
		t.Fatalf("expected the lamp to burn out at tick 5")
	}
}

func TestMissingHooksDefaultSafe(t *testing.T) {
	e, err := NewEngine(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	defer e.Close()

	tile := scene.TileContext{Type: "lamp", Script: "lamp"}
	if e.TileReset(tile) {
		t.Fatalf("missing tile_reset must report unhandled")
	}
	if e.TileTick(tile) {
		t.Fatalf("missing tile_tick must not clear cells")
	}
	e.OnWorldSpawned("map-1", "burrow", 3) // must not panic
}

func TestScriptErrorDefaultsSafe(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "tiles", "broken.lua", `
function tile_tick(tile)
  error("boom")
end
`)
	e, err := NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	defer e.Close()

	if e.TileTick(scene.TileContext{Type: "lamp"}) {
		t.Fatalf("a failing script must not clear cells")
	}
}

func TestBadScriptFailsLoad(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "core", "bad.lua", "function tile_reset( -- unterminated")
	if _, err := NewEngine(dir, zap.NewNop()); err == nil {
		t.Fatalf("expected load to fail on a syntax error")
	}
}

func TestOnWorldSpawned(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "core", "spawn.lua", `
spawned_name = ""
spawned_count = 0

function on_world_spawned(map)
  spawned_name = map.name
  spawned_count = map.count
end

function spawn_seen(tile)
  return spawned_count > 0 and spawned_name == "burrow"
end

function tile_reset(tile)
  return spawn_seen(tile)
end
`)
	e, err := NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	defer e.Close()

	if e.TileReset(scene.TileContext{}) {
		t.Fatalf("spawn flag set before the event")
	}
	e.OnWorldSpawned("map-1", "burrow", 7)
	if !e.TileReset(scene.TileContext{}) {
		t.Fatalf("on_world_spawned state not visible to later calls")
	}
}
