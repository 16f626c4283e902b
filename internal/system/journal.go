package system

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hamugo/server/internal/core/event"
	coresys "github.com/hamugo/server/internal/core/system"
	"github.com/hamugo/server/internal/persist"
	"github.com/hamugo/server/internal/world"
)

// journalSink is the journal repo surface the system needs.
type journalSink interface {
	Append(ctx context.Context, entries []persist.EditEntry) error
}

// JournalSystem buffers stage edits from the event bus and flushes them to
// the edit journal in batches. A failed flush keeps the batch buffered for
// the next interval. Phase 2 (Journal).
type JournalSystem struct {
	stage     *world.Stage
	sink      journalSink
	log       *zap.Logger
	buf       []persist.EditEntry
	tickCount int
	interval  int // flush every N ticks
}

func NewJournalSystem(bus *event.Bus, stage *world.Stage, sink journalSink, log *zap.Logger, intervalTicks int) *JournalSystem {
	s := &JournalSystem{
		stage:    stage,
		sink:     sink,
		log:      log,
		interval: intervalTicks,
	}
	event.Subscribe(bus, func(e event.ElementPlaced) {
		s.record("place", e.Key, e.Type)
	})
	event.Subscribe(bus, func(e event.ElementRemoved) {
		s.record("remove", e.Key, e.Type)
	})
	event.Subscribe(bus, func(e event.WorldSpawned) {
		s.buf = append(s.buf, persist.EditEntry{MapID: e.MapID, Op: "spawn", At: time.Now()})
	})
	event.Subscribe(bus, func(e event.WorldDisposed) {
		if e.MapID == "" {
			return // nothing was spawned, nothing to attribute
		}
		s.buf = append(s.buf, persist.EditEntry{MapID: e.MapID, Op: "dispose", At: time.Now()})
	})
	event.Subscribe(bus, func(e event.StageReset) {
		s.record("reset", "", "")
	})
	return s
}

// record attributes one edit to the currently spawned map. Edits on an
// unspawned stage have no map row to attach to and are dropped.
func (s *JournalSystem) record(op, key, typ string) {
	mapID := s.stage.Level().MapID
	if mapID == "" {
		return
	}
	s.buf = append(s.buf, persist.EditEntry{
		MapID: mapID,
		Op:    op,
		Key:   key,
		Type:  typ,
		At:    time.Now(),
	})
}

func (s *JournalSystem) Phase() coresys.Phase { return coresys.PhaseJournal }

func (s *JournalSystem) Update(_ time.Duration) {
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	s.Flush()
}

// Flush writes the buffered entries now. Called on the flush interval and
// once more at graceful shutdown.
func (s *JournalSystem) Flush() {
	if len(s.buf) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.sink.Append(ctx, s.buf); err != nil {
		s.log.Error("編輯日誌寫入失敗", zap.Int("筆數", len(s.buf)), zap.Error(err))
		return
	}
	s.log.Debug("編輯日誌已寫入", zap.Int("筆數", len(s.buf)))
	s.buf = s.buf[:0]
}

// Pending returns the number of buffered entries awaiting flush.
func (s *JournalSystem) Pending() int {
	return len(s.buf)
}
