package system

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hamugo/server/internal/scene"
	"github.com/hamugo/server/internal/world"
)

func TestCrumbleTileClearsItsCell(t *testing.T) {
	s, g, _, table := newTestWorld(t, nil)
	sys := NewBehaviorSystem(s, g, table, zap.NewNop(), "clear_object")

	pos := world.Vec3{X: 4, Z: 4}
	place(t, s, "cheese", pos)
	key := world.PlacementKey(pos, "object")

	// crumble_ticks is 3: two ticks pass, the tile survives.
	sys.Update(tick)
	sys.Update(tick)
	if !s.Level().Has(key) {
		t.Fatalf("cheese cleared early")
	}

	sys.Update(tick)
	if s.Level().Has(key) {
		t.Fatalf("cheese still in logical map after crumbling")
	}
	if _, ok := s.Instance(key); ok {
		t.Fatalf("cheese handle still registered after crumbling")
	}
	if s.IsOccupied(pos) {
		t.Fatalf("cell still occupied after crumbling")
	}
	if g.NodeCount() != 0 {
		t.Fatalf("scene node leaked after crumbling")
	}
	if !s.Consistent() {
		t.Fatalf("stage maps out of sync after clear")
	}
}

func TestSpinnerAccumulatesAngle(t *testing.T) {
	s, g, _, table := newTestWorld(t, nil)
	sys := NewBehaviorSystem(s, g, table, zap.NewNop(), "clear_object")

	pos := world.Vec3{X: 1, Z: 1}
	place(t, s, "wheel", pos)
	id, ok := s.Instance(world.PlacementKey(pos, "wheel"))
	if !ok {
		t.Fatalf("wheel not registered")
	}

	for i := 0; i < 4; i++ {
		sys.Update(500 * time.Millisecond)
	}

	var spinner *scene.Spinner
	for _, b := range g.Behaviors(id) {
		if sp, ok := b.(*scene.Spinner); ok {
			spinner = sp
		}
	}
	if spinner == nil {
		t.Fatalf("wheel has no spinner behavior")
	}
	// spin_rate 2 over 2 simulated seconds.
	if spinner.Angle != 4 {
		t.Fatalf("expected angle 4, got %v", spinner.Angle)
	}
	if !s.Level().Has(world.PlacementKey(pos, "wheel")) {
		t.Fatalf("spinner must never clear its cell")
	}
}

// stubHooks drives scripted tiles without a Lua engine.
type stubHooks struct {
	clearAtTick int
	resets      int
}

func (h *stubHooks) TileReset(scene.TileContext) bool { h.resets++; return true }

func (h *stubHooks) TileTick(ctx scene.TileContext) bool {
	return h.clearAtTick > 0 && ctx.Ticks >= h.clearAtTick
}

func TestScriptTileClearedWhenHookSignals(t *testing.T) {
	hooks := &stubHooks{clearAtTick: 3}
	s, g, _, table := newTestWorld(t, hooks)
	sys := NewBehaviorSystem(s, g, table, zap.NewNop(), "clear_object")

	pos := world.Vec3{X: 7, Z: 7}
	place(t, s, "lamp", pos)
	key := world.PlacementKey(pos, "object")

	sys.Update(tick)
	sys.Update(tick)
	if !s.Level().Has(key) {
		t.Fatalf("lamp cleared before its hook fired")
	}

	sys.Update(tick)
	if s.Level().Has(key) {
		t.Fatalf("lamp still placed after hook requested clearing")
	}
	if !s.Consistent() {
		t.Fatalf("stage maps out of sync after script clear")
	}
}

func TestExpiredTileOutsideClearLayerStays(t *testing.T) {
	s, graph, _, table := newTestWorld(t, nil)
	sys := NewBehaviorSystem(s, graph, table, zap.NewNop(), "clear_object")

	// sparkler has no layer, so clear_object (object layer) cannot empty
	// its slot. The tile expires but must stay on the stage.
	pos := world.Vec3{X: 9, Z: 9}
	place(t, s, "sparkler", pos)
	key := world.PlacementKey(pos, "sparkler")

	for i := 0; i < 5; i++ {
		sys.Update(tick)
	}

	if !s.Level().Has(key) {
		t.Fatalf("sparkler removed despite layer mismatch")
	}
	if !s.Consistent() {
		t.Fatalf("stage maps out of sync")
	}
}
