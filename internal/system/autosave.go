package system

import (
	"bytes"
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hamugo/server/internal/core/event"
	coresys "github.com/hamugo/server/internal/core/system"
	"github.com/hamugo/server/internal/world"
)

type mapSaver interface {
	Save(ctx context.Context, m *world.LevelMap, fingerprint []byte) error
}

type journalCompacter interface {
	MarkCompacted(ctx context.Context, mapID string) error
}

// AutosaveSystem persists the spawned map on an interval. Saves are skipped
// while the stage is clean or when the map content hashes to the same
// fingerprint as the last save. Phase 3 (Persist).
type AutosaveSystem struct {
	stage     *world.Stage
	saver     mapSaver
	compacter journalCompacter
	log       *zap.Logger
	tickCount int
	interval  int // save every N ticks
	dirty     bool
	lastFP    []byte
}

func NewAutosaveSystem(bus *event.Bus, stage *world.Stage, saver mapSaver, compacter journalCompacter, log *zap.Logger, intervalTicks int) *AutosaveSystem {
	s := &AutosaveSystem{
		stage:     stage,
		saver:     saver,
		compacter: compacter,
		log:       log,
		interval:  intervalTicks,
	}
	event.Subscribe(bus, func(event.ElementPlaced) { s.dirty = true })
	event.Subscribe(bus, func(event.ElementRemoved) { s.dirty = true })
	event.Subscribe(bus, func(event.WorldSpawned) { s.dirty = true })
	return s
}

func (s *AutosaveSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *AutosaveSystem) Update(_ time.Duration) {
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	if !s.dirty {
		return
	}
	s.Save()
}

// Save persists the current map now. Called on the autosave interval and
// once more at graceful shutdown.
func (s *AutosaveSystem) Save() {
	level := s.stage.Level()
	if level.MapID == "" {
		s.dirty = false
		return
	}

	fp := world.Fingerprint(level)
	if bytes.Equal(fp, s.lastFP) {
		s.dirty = false
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	start := time.Now()
	if err := s.saver.Save(ctx, level, fp); err != nil {
		s.log.Error("自動存檔失敗", zap.String("地圖", level.MapID), zap.Error(err))
		return
	}
	if err := s.compacter.MarkCompacted(ctx, level.MapID); err != nil {
		s.log.Warn("日誌壓縮標記失敗", zap.String("地圖", level.MapID), zap.Error(err))
	}

	s.lastFP = fp
	s.dirty = false
	s.log.Info("自動存檔完成",
		zap.String("地圖", level.MapID),
		zap.Int("元素數", level.Len()),
		zap.Duration("耗時", time.Since(start)),
	)
}
