package scene

import "time"

// Behavior is per-node attached logic. Concrete behaviors opt into the
// optional capabilities below; the graph itself never inspects them.
type Behavior interface {
	Name() string
}

// Resettable restores a behavior's internal state when the stage resets
// between attempts. Behaviors without it are silently skipped.
type Resettable interface {
	Reset()
}

// Updatable advances a behavior by one tick.
type Updatable interface {
	Update(dt time.Duration)
}

// Expiring marks a behavior whose tile wants its cell cleared once expired.
type Expiring interface {
	Expired() bool
}

// Spinner turns wheel tiles at a fixed rate. Nothing renders server-side,
// but the accumulated angle is observable by scripts and tests.
type Spinner struct {
	Rate  float32 // quarter-turns per second
	Angle float32 // quarter-turns accumulated since spawn or reset
}

func NewSpinner(rate float32) *Spinner {
	return &Spinner{Rate: rate}
}

func (s *Spinner) Name() string { return "spin" }

func (s *Spinner) Update(dt time.Duration) {
	s.Angle += s.Rate * float32(dt.Seconds())
}

func (s *Spinner) Reset() {
	s.Angle = 0
}

// Crumble expires a tile after a fixed number of ticks. The behavior only
// counts; the behavior system clears the cell once Expired reports true.
type Crumble struct {
	TTL   int // ticks until the tile crumbles away; 0 disables
	ticks int
}

func NewCrumble(ttl int) *Crumble {
	return &Crumble{TTL: ttl}
}

func (c *Crumble) Name() string { return "crumble" }

func (c *Crumble) Update(dt time.Duration) {
	if c.TTL > 0 && c.ticks < c.TTL {
		c.ticks++
	}
}

func (c *Crumble) Expired() bool {
	return c.TTL > 0 && c.ticks >= c.TTL
}

func (c *Crumble) Reset() {
	c.ticks = 0
}

// TileContext identifies one scripted tile instance to the script engine.
type TileContext struct {
	Type    string
	Script  string
	X, Y, Z float32
	Ticks   int
}

// TileHooks bridges scripted tiles to the scripting engine. Implemented by
// scripting.Engine; a stage built without hooks attaches no script behaviors.
type TileHooks interface {
	// TileReset runs the tile's reset hook. Returns false when no script
	// handles the tile.
	TileReset(tile TileContext) bool
	// TileTick runs the tile's per-tick hook and reports whether the tile
	// wants its cell cleared.
	TileTick(tile TileContext) bool
}

// ScriptTile delegates reset and per-tick handling to a Lua hook.
type ScriptTile struct {
	hooks TileHooks
	ctx   TileContext
	clear bool
}

func NewScriptTile(hooks TileHooks, ctx TileContext) *ScriptTile {
	return &ScriptTile{hooks: hooks, ctx: ctx}
}

func (b *ScriptTile) Name() string { return "script" }

func (b *ScriptTile) Update(dt time.Duration) {
	b.ctx.Ticks++
	if b.hooks.TileTick(b.ctx) {
		b.clear = true
	}
}

func (b *ScriptTile) Expired() bool {
	return b.clear
}

func (b *ScriptTile) Reset() {
	b.ctx.Ticks = 0
	b.clear = false
	b.hooks.TileReset(b.ctx)
}
