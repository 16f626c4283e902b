package event

// Stage lifecycle events. Emitted by the stage in tick N, dispatched to
// subscribers in tick N+1 by the event dispatch system.

// ElementPlaced fires after a tile is recorded in both stage maps.
type ElementPlaced struct {
	Key      string
	Type     string
	Replaced bool // a prior element occupied the slot and was removed first
}

// ElementRemoved fires after a tile's logical entry and scene object are gone.
type ElementRemoved struct {
	Key  string
	Type string
}

// WorldSpawned fires after a full level spawn completes.
type WorldSpawned struct {
	MapID string
	Name  string
	Count int // elements recorded on the stage
}

// WorldDisposed fires after the stage is torn down.
type WorldDisposed struct {
	MapID string // the map that was disposed
	Count int    // elements that were on the stage
}

// StageReset fires after per-tile state is reset between attempts.
type StageReset struct {
	ResetCount int
}
