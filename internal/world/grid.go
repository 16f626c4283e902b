package world

import "math"

// cellKey uniquely identifies one grid cell of the stage.
type cellKey struct {
	X, Y, Z int32
}

// cellOf quantizes a position to the cell containing it.
func cellOf(pos Vec3) cellKey {
	return cellKey{
		X: int32(math.Floor(float64(pos.X) + 0.5)),
		Y: int32(math.Floor(float64(pos.Y) + 0.5)),
		Z: int32(math.Floor(float64(pos.Z) + 0.5)),
	}
}

// OccupancyGrid is a cell index over placed elements for O(1) occupancy
// checks. Entries mirror the stage's logical map; several keys may share a
// cell when their layers differ.
type OccupancyGrid struct {
	cells map[cellKey]map[string]struct{}
}

func newOccupancyGrid() *OccupancyGrid {
	return &OccupancyGrid{cells: make(map[cellKey]map[string]struct{})}
}

// Occupy marks key as occupying the cell containing pos.
func (g *OccupancyGrid) Occupy(pos Vec3, key string) {
	c := cellOf(pos)
	set, ok := g.cells[c]
	if !ok {
		set = make(map[string]struct{})
		g.cells[c] = set
	}
	set[key] = struct{}{}
}

// Vacate removes key from the cell containing pos.
func (g *OccupancyGrid) Vacate(pos Vec3, key string) {
	c := cellOf(pos)
	set, ok := g.cells[c]
	if !ok {
		return
	}
	delete(set, key)
	if len(set) == 0 {
		delete(g.cells, c)
	}
}

// IsOccupied reports whether any element occupies the cell containing pos.
func (g *OccupancyGrid) IsOccupied(pos Vec3) bool {
	return len(g.cells[cellOf(pos)]) > 0
}

// KeyAt returns one placement key occupying the cell containing pos, or ""
// if the cell is empty.
func (g *OccupancyGrid) KeyAt(pos Vec3) string {
	for k := range g.cells[cellOf(pos)] {
		return k
	}
	return ""
}

// Clear drops every cell.
func (g *OccupancyGrid) Clear() {
	g.cells = make(map[cellKey]map[string]struct{})
}
