package system

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/hamugo/server/internal/world"
)

type savedSnapshot struct {
	mapID    string
	elements int
	fp       []byte
}

type fakeSaver struct {
	saved []savedSnapshot
	calls int
	fail  bool
}

func (f *fakeSaver) Save(_ context.Context, m *world.LevelMap, fp []byte) error {
	f.calls++
	if f.fail {
		return errors.New("database unavailable")
	}
	f.saved = append(f.saved, savedSnapshot{mapID: m.MapID, elements: m.Len(), fp: fp})
	return nil
}

type fakeCompacter struct {
	marked []string
}

func (f *fakeCompacter) MarkCompacted(_ context.Context, mapID string) error {
	f.marked = append(f.marked, mapID)
	return nil
}

func TestAutosavePersistsDirtyStage(t *testing.T) {
	s, _, bus, table := newTestWorld(t, nil)
	saver := &fakeSaver{}
	compacter := &fakeCompacter{}
	autosave := NewAutosaveSystem(bus, s, saver, compacter, zap.NewNop(), 2)
	dispatch := NewEventDispatchSystem(bus)

	spawnTestMap(t, s, table, "map-1", world.Element{
		Type: "wall_dirt", Pos: world.Vec3{X: 1}, Scale: world.UnitScale(),
	})
	dispatch.Update(tick)

	// Interval is 2 ticks.
	autosave.Update(tick)
	if len(saver.saved) != 0 {
		t.Fatalf("saved before the interval elapsed")
	}
	autosave.Update(tick)
	if len(saver.saved) != 1 {
		t.Fatalf("expected one save, got %d", len(saver.saved))
	}
	got := saver.saved[0]
	if got.mapID != "map-1" || got.elements != 1 {
		t.Fatalf("saved %q with %d elements, want map-1 with 1", got.mapID, got.elements)
	}
	if len(compacter.marked) != 1 || compacter.marked[0] != "map-1" {
		t.Fatalf("journal not compacted after save: %v", compacter.marked)
	}
}

func TestAutosaveSkipsCleanStage(t *testing.T) {
	s, _, bus, table := newTestWorld(t, nil)
	saver := &fakeSaver{}
	autosave := NewAutosaveSystem(bus, s, saver, &fakeCompacter{}, zap.NewNop(), 1)
	dispatch := NewEventDispatchSystem(bus)

	spawnTestMap(t, s, table, "map-1")
	dispatch.Update(tick)
	autosave.Update(tick)
	if saver.calls != 1 {
		t.Fatalf("expected the initial save, got %d calls", saver.calls)
	}

	// No edits since: nothing to save.
	autosave.Update(tick)
	autosave.Update(tick)
	if saver.calls != 1 {
		t.Fatalf("clean stage saved again, %d calls", saver.calls)
	}
}

func TestAutosaveSkipsUnchangedContent(t *testing.T) {
	s, _, bus, table := newTestWorld(t, nil)
	saver := &fakeSaver{}
	autosave := NewAutosaveSystem(bus, s, saver, &fakeCompacter{}, zap.NewNop(), 1)
	dispatch := NewEventDispatchSystem(bus)

	pos := world.Vec3{X: 1}
	spawnTestMap(t, s, table, "map-1", world.Element{
		Type: "wall_dirt", Pos: pos, Scale: world.UnitScale(),
	})
	dispatch.Update(tick)
	autosave.Update(tick)
	if saver.calls != 1 {
		t.Fatalf("expected the initial save, got %d calls", saver.calls)
	}

	// Replacing a wall with an identical wall dirties the stage but leaves
	// the content fingerprint unchanged.
	place(t, s, "wall_dirt", pos)
	dispatch.Update(tick)
	autosave.Update(tick)
	if saver.calls != 1 {
		t.Fatalf("identical content saved again, %d calls", saver.calls)
	}

	// A real change saves.
	place(t, s, "cheese", pos)
	dispatch.Update(tick)
	autosave.Update(tick)
	if saver.calls != 2 {
		t.Fatalf("changed content not saved, %d calls", saver.calls)
	}
}

func TestAutosaveIgnoresUnspawnedStage(t *testing.T) {
	s, _, bus, _ := newTestWorld(t, nil)
	saver := &fakeSaver{}
	autosave := NewAutosaveSystem(bus, s, saver, &fakeCompacter{}, zap.NewNop(), 1)
	dispatch := NewEventDispatchSystem(bus)

	place(t, s, "wall_dirt", world.Vec3{X: 1})
	dispatch.Update(tick)
	autosave.Update(tick)

	if saver.calls != 0 {
		t.Fatalf("stage without a map id must not be saved")
	}
}

func TestAutosaveRetriesAfterFailure(t *testing.T) {
	s, _, bus, table := newTestWorld(t, nil)
	saver := &fakeSaver{fail: true}
	autosave := NewAutosaveSystem(bus, s, saver, &fakeCompacter{}, zap.NewNop(), 1)
	dispatch := NewEventDispatchSystem(bus)

	spawnTestMap(t, s, table, "map-1")
	dispatch.Update(tick)
	autosave.Update(tick)
	if saver.calls != 1 || len(saver.saved) != 0 {
		t.Fatalf("expected one failed attempt")
	}

	saver.fail = false
	autosave.Update(tick)
	if len(saver.saved) != 1 {
		t.Fatalf("save not retried after failure")
	}
}
