package system

import (
	"time"

	"go.uber.org/zap"

	coresys "github.com/hamugo/server/internal/core/system"
	"github.com/hamugo/server/internal/world"
)

// CleanupSystem verifies at tick end that the logical map, the scene handles
// and the occupancy grid still agree. A mismatch means a stage invariant was
// broken earlier in the tick. Phase 4 (Cleanup).
type CleanupSystem struct {
	stage *world.Stage
	log   *zap.Logger
}

func NewCleanupSystem(stage *world.Stage, log *zap.Logger) *CleanupSystem {
	return &CleanupSystem{stage: stage, log: log}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	if !s.stage.Consistent() {
		s.log.Error("舞台地圖不同步",
			zap.Int("邏輯元素數", s.stage.Level().Len()),
			zap.Int("場景物件數", s.stage.InstanceCount()),
		)
	}
}
