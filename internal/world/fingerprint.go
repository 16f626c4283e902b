package world

import (
	"fmt"
	"sort"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint hashes a map's content deterministically: identity properties
// plus every element in key order. Two maps with equal fingerprints hold the
// same placements, so savers can skip writes that would change nothing.
func Fingerprint(m *LevelMap) []byte {
	h, _ := blake2b.New256(nil)
	fmt.Fprintf(h, "%s|%s|%s\n", m.MapID, m.OwnerID, NormalizeName(m.Name))

	keys := m.Keys()
	sort.Strings(keys)
	for _, k := range keys {
		e, _ := m.Get(k)
		fmt.Fprintf(h, "%s|%s|%s_%s_%s|%d|%s_%s_%s\n",
			k, e.Type,
			fmtCoord(e.Pos.X), fmtCoord(e.Pos.Y), fmtCoord(e.Pos.Z),
			e.Orient,
			fmtCoord(e.Scale.X), fmtCoord(e.Scale.Y), fmtCoord(e.Scale.Z),
		)
	}
	return h.Sum(nil)
}
