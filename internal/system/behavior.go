package system

import (
	"time"

	"go.uber.org/zap"

	coresys "github.com/hamugo/server/internal/core/system"
	"github.com/hamugo/server/internal/data"
	"github.com/hamugo/server/internal/scene"
	"github.com/hamugo/server/internal/world"
)

// BehaviorSystem advances every attached tile behavior by one tick, then
// clears the cells of tiles that expired (crumbled cheese, burned-out script
// tiles). Clearing goes through the stage's normal placement path with the
// configured no-visual clear type, so both stage maps stay in sync.
// Phase 1 (Behavior).
type BehaviorSystem struct {
	stage     *world.Stage
	graph     *scene.Graph
	tiles     *data.TileTable
	log       *zap.Logger
	clearType string
}

func NewBehaviorSystem(stage *world.Stage, graph *scene.Graph, tiles *data.TileTable, log *zap.Logger, clearType string) *BehaviorSystem {
	return &BehaviorSystem{
		stage:     stage,
		graph:     graph,
		tiles:     tiles,
		log:       log,
		clearType: clearType,
	}
}

func (s *BehaviorSystem) Phase() coresys.Phase { return coresys.PhaseBehavior }

func (s *BehaviorSystem) Update(dt time.Duration) {
	// Collect first: clearing a cell mutates the graph, which must not
	// happen while iterating it.
	var expired []scene.NodeID
	s.graph.EachBehavior(func(id scene.NodeID, b scene.Behavior) {
		if u, ok := b.(scene.Updatable); ok {
			u.Update(dt)
		}
		if e, ok := b.(scene.Expiring); ok && e.Expired() {
			expired = append(expired, id)
		}
	})

	for _, id := range expired {
		s.clearCell(id)
	}
}

// clearCell replaces an expired tile with the no-visual clear template,
// which empties its slot in both stage maps.
func (s *BehaviorSystem) clearCell(id scene.NodeID) {
	tr := s.graph.Transform(id)
	if tr == nil {
		return // already gone this tick
	}
	typ := s.graph.TypeOf(id)

	clearTmpl := s.tiles.Get(s.clearType)
	if clearTmpl == nil {
		s.log.Error("清除磚塊失敗: 清除模板未註冊", zap.String("clear_type", s.clearType))
		return
	}
	tmpl := s.tiles.Get(typ)
	if tmpl == nil || tmpl.SlotLayer() != clearTmpl.SlotLayer() {
		// The clear template can only empty slots in its own layer.
		s.log.Warn("過期磚塊不在清除層, 跳過", zap.String("type", typ))
		return
	}

	pos := world.Vec3{X: tr.X, Y: tr.Y, Z: tr.Z}
	if _, err := s.stage.PlaceTile(world.Element{
		Type:  world.ElementType(s.clearType),
		Pos:   pos,
		Scale: world.UnitScale(),
	}); err != nil {
		s.log.Error("清除磚塊失敗", zap.String("type", typ), zap.Error(err))
		return
	}
	s.log.Debug("磚塊已崩塌", zap.String("type", typ),
		zap.Float32("x", pos.X), zap.Float32("y", pos.Y), zap.Float32("z", pos.Z))
}
