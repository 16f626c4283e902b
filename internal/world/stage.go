package world

import (
	"time"

	"github.com/hamugo/server/internal/core/event"
	"github.com/hamugo/server/internal/data"
	"github.com/hamugo/server/internal/scene"
)

// Stage owns the live burrow: the logical level map and the scene objects
// spawned for it, keyed identically. The two maps are always mutated
// together, never independently; between calls their key sets are equal.
// Accessed only from the stage-host tick goroutine; no locks needed.
type Stage struct {
	graph *scene.Graph
	tiles *data.TileTable
	bus   *event.Bus
	hooks scene.TileHooks

	level        *LevelMap
	sceneObjects map[string]scene.NodeID
	grid         *OccupancyGrid

	gameStartTime time.Time
	resetCount    int
}

// NewStage wires a stage over its collaborators. hooks may be nil, in which
// case script behaviors are not attached.
func NewStage(graph *scene.Graph, tiles *data.TileTable, bus *event.Bus, hooks scene.TileHooks) *Stage {
	return &Stage{
		graph:         graph,
		tiles:         tiles,
		bus:           bus,
		hooks:         hooks,
		level:         NewLevelMap(),
		sceneObjects:  make(map[string]scene.NodeID),
		grid:          newOccupancyGrid(),
		gameStartTime: time.Now(),
	}
}

// SpawnWorld places every element of src on the stage in unspecified order
// and applies each element's scale to its instance. Once all elements are
// placed it copies src's identity properties into the owned map and restarts
// the game clock. Fails fast on the first unregistered element type; there
// is no rollback, elements placed before the failure stay placed.
func (s *Stage) SpawnWorld(src *LevelMap) error {
	for _, e := range src.Elements() {
		id, err := s.PlaceTile(e)
		if err != nil {
			return err
		}
		if !id.IsZero() {
			s.graph.SetScale(id, e.Scale.X, e.Scale.Y, e.Scale.Z)
		}
	}
	s.level.SetProperties(src)
	s.gameStartTime = time.Now()
	event.Emit(s.bus, event.WorldSpawned{MapID: s.level.MapID, Name: s.level.Name, Count: s.level.Len()})
	return nil
}

// DisposeWorld clears the logical map, destroys every live scene object,
// clears the handle map, and resets the map's identity properties. Safe to
// call on an already-empty stage, any number of times.
func (s *Stage) DisposeWorld() {
	mapID := s.level.MapID
	count := s.level.Len()
	s.level.Clear()
	for _, id := range s.sceneObjects {
		s.graph.Destroy(id)
	}
	s.sceneObjects = make(map[string]scene.NodeID)
	s.grid.Clear()
	s.level.ResetProperties()
	event.Emit(s.bus, event.WorldDisposed{MapID: mapID, Count: count})
}

// PlaceTile places one element, replacing whatever occupies its slot. The
// registry lookup happens before the old entry is removed, so a failed
// lookup leaves the prior tile untouched. A template with no visual is a
// legitimate empty placement: the prior entry is gone and the slot ends up
// vacant in both maps. Returns the zero NodeID for empty placements.
func (s *Stage) PlaceTile(e Element) (scene.NodeID, error) {
	tmpl := s.tiles.Get(string(e.Type))
	if tmpl == nil {
		return 0, &UnregisteredElementTypeError{Type: e.Type}
	}
	key := PlacementKey(e.Pos, tmpl.SlotLayer())
	replaced := s.level.Has(key)
	if replaced {
		s.removeObject(key)
	}
	if tmpl.NoVisual {
		return 0, nil
	}
	id := s.graph.Instantiate(string(e.Type), e.Pos.X, e.Pos.Y, e.Pos.Z, e.Orient)
	s.attachBehaviors(id, tmpl, e)
	s.level.Put(key, e)
	s.sceneObjects[key] = id
	s.grid.Occupy(e.Pos, key)
	event.Emit(s.bus, event.ElementPlaced{Key: key, Type: string(e.Type), Replaced: replaced})
	return id, nil
}

// removeObject removes the logical entry at key, destroys its scene object,
// and removes the handle entry. The key must be present in both maps;
// callers guarantee that.
func (s *Stage) removeObject(key string) {
	e, _ := s.level.Get(key)
	id := s.sceneObjects[key]
	s.level.Delete(key)
	s.graph.Destroy(id)
	delete(s.sceneObjects, key)
	s.grid.Vacate(e.Pos, key)
	event.Emit(s.bus, event.ElementRemoved{Key: key, Type: string(e.Type)})
}

// ResetMap restarts the game clock and resets every live instance that
// exposes the resettable capability; instances without it are skipped.
// Neither map is touched.
func (s *Stage) ResetMap() {
	s.gameStartTime = time.Now()
	s.resetCount++
	for _, id := range s.sceneObjects {
		for _, b := range s.graph.Behaviors(id) {
			if r, ok := b.(scene.Resettable); ok {
				r.Reset()
			}
		}
	}
	event.Emit(s.bus, event.StageReset{ResetCount: s.resetCount})
}

// GameStartTime returns when the current attempt began: stage creation,
// last world spawn, or last reset, whichever came most recently.
func (s *Stage) GameStartTime() time.Time {
	return s.gameStartTime
}

// ElapsedGameTime returns the time since the current attempt began.
func (s *Stage) ElapsedGameTime() time.Duration {
	return time.Since(s.gameStartTime)
}

// Level returns the owned logical map.
func (s *Stage) Level() *LevelMap {
	return s.level
}

// Instance returns the live scene object at key.
func (s *Stage) Instance(key string) (scene.NodeID, bool) {
	id, ok := s.sceneObjects[key]
	return id, ok
}

// InstanceCount returns the number of live scene objects.
func (s *Stage) InstanceCount() int {
	return len(s.sceneObjects)
}

// IsOccupied reports whether any element occupies the cell containing pos.
func (s *Stage) IsOccupied(pos Vec3) bool {
	return s.grid.IsOccupied(pos)
}

// KeyAt returns one placement key occupying the cell containing pos, or ""
// if the cell is empty.
func (s *Stage) KeyAt(pos Vec3) string {
	return s.grid.KeyAt(pos)
}

// Consistent reports whether the logical map, the handle map, and the
// occupancy grid agree. The stage maintains this at all times; the cleanup
// system asserts it every tick.
func (s *Stage) Consistent() bool {
	if s.level.Len() != len(s.sceneObjects) {
		return false
	}
	ok := true
	s.level.Each(func(key string, e Element) {
		id, present := s.sceneObjects[key]
		if !present || !s.graph.Alive(id) {
			ok = false
			return
		}
		if !s.grid.IsOccupied(e.Pos) {
			ok = false
		}
	})
	return ok
}

// attachBehaviors attaches the template's behaviors to a fresh instance.
// Behavior names are validated at table load, so unknown names cannot
// reach here; they are skipped regardless.
func (s *Stage) attachBehaviors(id scene.NodeID, tmpl *data.TileTemplate, e Element) {
	for _, name := range tmpl.Behaviors {
		switch name {
		case "spin":
			s.graph.Attach(id, scene.NewSpinner(tmpl.SpinRate))
		case "crumble":
			s.graph.Attach(id, scene.NewCrumble(tmpl.CrumbleTicks))
		case "script":
			if s.hooks != nil {
				s.graph.Attach(id, scene.NewScriptTile(s.hooks, scene.TileContext{
					Type:   string(e.Type),
					Script: tmpl.Script,
					X:      e.Pos.X,
					Y:      e.Pos.Y,
					Z:      e.Pos.Z,
				}))
			}
		}
	}
}
