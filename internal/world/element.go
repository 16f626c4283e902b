package world

import "strconv"

// ElementType identifies a tile template ("wall_dirt", "cheese", "wheel").
type ElementType string

// Vec3 is a 3D vector in stage space. One unit per grid cell.
type Vec3 struct {
	X, Y, Z float32
}

// UnitScale is the default element scale.
func UnitScale() Vec3 {
	return Vec3{X: 1, Y: 1, Z: 1}
}

// Element is the logical record of one placed tile: what it is, where it
// sits, how it is turned and stretched. Immutable once placed; the only way
// to change a slot is to place a new element over it.
type Element struct {
	Type   ElementType
	Pos    Vec3
	Orient int // quarter-turns clockwise, 0-3
	Scale  Vec3
}

// PlacementKey derives the slot key for a position and layer. The same
// inputs always produce the same key, so elements sharing a layer and
// position replace one another; the tile registry maps each type to its
// layer.
func PlacementKey(pos Vec3, layer string) string {
	return fmtCoord(pos.X) + "_" + fmtCoord(pos.Y) + "_" + fmtCoord(pos.Z) + "_" + layer
}

// fmtCoord renders a coordinate in its shortest round-trip form so equal
// float32 values always yield identical text.
func fmtCoord(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}
