package scene

import (
	"testing"
	"time"
)

func TestInstantiateAndDestroy(t *testing.T) {
	g := NewGraph()

	id := g.Instantiate("wall_dirt", 1, 2, 3, 1)
	if id.IsZero() {
		t.Fatalf("expected a live handle, got the zero NodeID")
	}
	if !g.Alive(id) {
		t.Fatalf("expected node to be alive after Instantiate")
	}
	tr := g.Transform(id)
	if tr == nil {
		t.Fatalf("expected a transform for a live node")
	}
	if tr.X != 1 || tr.Y != 2 || tr.Z != 3 || tr.Orient != 1 {
		t.Fatalf("transform mismatch: got %+v", *tr)
	}
	if tr.ScaleX != 1 || tr.ScaleY != 1 || tr.ScaleZ != 1 {
		t.Fatalf("expected unit scale on a fresh node, got %+v", *tr)
	}
	if got := g.TypeOf(id); got != "wall_dirt" {
		t.Fatalf("expected type wall_dirt, got %q", got)
	}

	g.Destroy(id)
	if g.Alive(id) {
		t.Fatalf("expected node to be dead after Destroy")
	}
	if g.Transform(id) != nil {
		t.Fatalf("expected nil transform for a destroyed node")
	}
	if g.NodeCount() != 0 {
		t.Fatalf("expected empty graph, got %d nodes", g.NodeCount())
	}
}

func TestStaleHandleAfterSlotReuse(t *testing.T) {
	g := NewGraph()

	a := g.Instantiate("cheese", 0, 0, 0, 0)
	g.Destroy(a)
	b := g.Instantiate("wheel", 0, 0, 0, 0)

	if a.Slot() != b.Slot() {
		t.Fatalf("expected the free list to reuse slot %d, got %d", a.Slot(), b.Slot())
	}
	if g.Alive(a) {
		t.Fatalf("stale handle must not be alive after its slot was reused")
	}
	if !g.Alive(b) {
		t.Fatalf("expected reissued node to be alive")
	}

	// Destroying the stale handle must not touch the new occupant.
	g.Destroy(a)
	if !g.Alive(b) {
		t.Fatalf("destroying a stale handle killed the reissued node")
	}
	g.SetScale(a, 9, 9, 9)
	if tr := g.Transform(b); tr.ScaleX != 1 {
		t.Fatalf("SetScale through a stale handle leaked onto the new node: %+v", *tr)
	}
}

func TestDoubleDestroyIsSafe(t *testing.T) {
	g := NewGraph()
	id := g.Instantiate("cheese", 0, 0, 0, 0)
	g.Destroy(id)
	g.Destroy(id)
	if g.NodeCount() != 0 {
		t.Fatalf("expected empty graph after double destroy, got %d", g.NodeCount())
	}
}

func TestZeroHandleNeverLive(t *testing.T) {
	g := NewGraph()
	var zero NodeID
	if g.Alive(zero) {
		t.Fatalf("zero NodeID must never be alive")
	}
	if id := g.Instantiate("cheese", 0, 0, 0, 0); id.IsZero() {
		t.Fatalf("first allocated node collided with the zero NodeID")
	}
}

func TestAttachAndEachBehavior(t *testing.T) {
	g := NewGraph()
	id := g.Instantiate("wheel", 0, 0, 0, 0)
	g.Attach(id, NewSpinner(2))
	g.Attach(id, NewCrumble(5))

	if n := len(g.Behaviors(id)); n != 2 {
		t.Fatalf("expected 2 behaviors, got %d", n)
	}

	seen := map[string]int{}
	g.EachBehavior(func(nid NodeID, b Behavior) {
		if nid != id {
			t.Fatalf("unexpected node %v in EachBehavior", nid)
		}
		seen[b.Name()]++
	})
	if seen["spin"] != 1 || seen["crumble"] != 1 {
		t.Fatalf("EachBehavior visits wrong: %v", seen)
	}

	g.Destroy(id)
	if g.Behaviors(id) != nil {
		t.Fatalf("expected behaviors cleared on destroy")
	}
}

func TestAttachToStaleHandle(t *testing.T) {
	g := NewGraph()
	id := g.Instantiate("wheel", 0, 0, 0, 0)
	g.Destroy(id)
	g.Attach(id, NewSpinner(1))
	count := 0
	g.EachBehavior(func(NodeID, Behavior) { count++ })
	if count != 0 {
		t.Fatalf("behavior attached through a stale handle: %d", count)
	}
}

func TestSpinnerUpdateAndReset(t *testing.T) {
	s := NewSpinner(2) // two quarter-turns per second
	s.Update(500 * time.Millisecond)
	if s.Angle != 1 {
		t.Fatalf("expected angle 1 after half a second, got %v", s.Angle)
	}
	s.Reset()
	if s.Angle != 0 {
		t.Fatalf("expected angle 0 after reset, got %v", s.Angle)
	}
}

func TestCrumbleExpiry(t *testing.T) {
	c := NewCrumble(3)
	for i := 0; i < 2; i++ {
		c.Update(time.Millisecond)
		if c.Expired() {
			t.Fatalf("crumble expired after %d ticks, ttl is 3", i+1)
		}
	}
	c.Update(time.Millisecond)
	if !c.Expired() {
		t.Fatalf("expected crumble to expire after 3 ticks")
	}
	c.Reset()
	if c.Expired() {
		t.Fatalf("expected reset to rearm the crumble timer")
	}

	// TTL 0 never expires.
	never := NewCrumble(0)
	for i := 0; i < 10; i++ {
		never.Update(time.Millisecond)
	}
	if never.Expired() {
		t.Fatalf("ttl 0 crumble must never expire")
	}
}
