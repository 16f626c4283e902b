package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseEvents   Phase = iota // 0: swap event buffers, dispatch last tick's events
	PhaseBehavior              // 1: tick tile behaviors, clear expired cells
	PhaseJournal               // 2: flush buffered edit-journal rows
	PhasePersist               // 3: autosave the live map
	PhaseCleanup               // 4: end-of-tick invariant checks
)

// System is the interface every stage system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
