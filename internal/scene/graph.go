package scene

// Transform places a node in stage space. Orientation is in quarter-turns
// so tile rotations stay exact.
type Transform struct {
	X, Y, Z float32
	Orient  int // quarter-turns clockwise, 0-3
	ScaleX  float32
	ScaleY  float32
	ScaleZ  float32
}

// Graph owns every live scene node: its generational identity, transform,
// template type, and attached behaviors. Destruction is immediate and is the
// sole release path for a node.
// Accessed only from the stage-host tick goroutine; no locks needed.
type Graph struct {
	pool       *nodePool
	transforms *store[*Transform]
	types      *store[string]
	behaviors  *store[[]Behavior]
	stores     []removable
}

func NewGraph() *Graph {
	g := &Graph{
		pool:       newNodePool(),
		transforms: newStore[*Transform](),
		types:      newStore[string](),
		behaviors:  newStore[[]Behavior](),
	}
	g.stores = []removable{g.transforms, g.types, g.behaviors}
	return g
}

// Instantiate creates a live node of the given template type at a position
// and orientation. Scale starts at 1 on every axis.
func (g *Graph) Instantiate(typ string, x, y, z float32, orient int) NodeID {
	id := g.pool.create()
	g.transforms.set(id, &Transform{X: x, Y: y, Z: z, Orient: orient, ScaleX: 1, ScaleY: 1, ScaleZ: 1})
	g.types.set(id, typ)
	return id
}

// Destroy releases a node and clears its data from every store. Destroying
// a stale or already-destroyed handle is a no-op, so each handle is safe to
// destroy exactly once and harmless to destroy twice.
func (g *Graph) Destroy(id NodeID) {
	if !g.pool.destroy(id) {
		return
	}
	for _, s := range g.stores {
		s.remove(id)
	}
}

// Alive reports whether id names a live node.
func (g *Graph) Alive(id NodeID) bool {
	return g.pool.alive(id)
}

// Transform returns a live node's transform for in-place mutation, or nil
// for a stale handle.
func (g *Graph) Transform(id NodeID) *Transform {
	t, ok := g.transforms.get(id)
	if !ok {
		return nil
	}
	return t
}

// TypeOf returns the template type a node was instantiated from.
func (g *Graph) TypeOf(id NodeID) string {
	typ, _ := g.types.get(id)
	return typ
}

// SetScale applies a non-uniform scale to a live node. Stale handles are
// ignored.
func (g *Graph) SetScale(id NodeID, sx, sy, sz float32) {
	if t, ok := g.transforms.get(id); ok {
		t.ScaleX, t.ScaleY, t.ScaleZ = sx, sy, sz
	}
}

// Attach adds a behavior to a live node. Stale handles are ignored.
func (g *Graph) Attach(id NodeID, b Behavior) {
	if b == nil || !g.pool.alive(id) {
		return
	}
	list, _ := g.behaviors.get(id)
	g.behaviors.set(id, append(list, b))
}

// Behaviors returns the behaviors attached to a node, nil if it has none.
func (g *Graph) Behaviors(id NodeID) []Behavior {
	list, _ := g.behaviors.get(id)
	return list
}

// EachBehavior calls fn for every behavior attached to any live node, in
// unspecified order. fn must not create or destroy nodes.
func (g *Graph) EachBehavior(fn func(NodeID, Behavior)) {
	g.behaviors.each(func(id NodeID, list []Behavior) {
		for _, b := range list {
			fn(id, b)
		}
	})
}

// NodeCount returns the number of live nodes.
func (g *Graph) NodeCount() int {
	return g.transforms.count()
}
