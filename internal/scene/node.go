package scene

// NodeID encodes a 32-bit slot in the lower bits and a 32-bit generation in
// the upper bits. The generation increments on destroy, so a handle held
// past its node's death stops matching and every use becomes a no-op.
type NodeID uint64

func newNodeID(slot uint32, generation uint32) NodeID {
	return NodeID(uint64(generation)<<32 | uint64(slot))
}

func (id NodeID) Slot() uint32       { return uint32(id) }
func (id NodeID) Generation() uint32 { return uint32(id >> 32) }

// IsZero reports whether id is the null handle. Slot 0 is never allocated,
// so the zero NodeID never names a live node.
func (id NodeID) IsZero() bool { return id == 0 }

// nodePool hands out generational node slots with a free list.
type nodePool struct {
	generations []uint32
	freeList    []uint32
	nextSlot    uint32
}

func newNodePool() *nodePool {
	return &nodePool{
		generations: make([]uint32, 1, 1024), // slot 0 reserved for the null handle
		freeList:    make([]uint32, 0, 256),
		nextSlot:    1,
	}
}

func (p *nodePool) create() NodeID {
	if len(p.freeList) > 0 {
		slot := p.freeList[len(p.freeList)-1]
		p.freeList = p.freeList[:len(p.freeList)-1]
		return newNodeID(slot, p.generations[slot])
	}
	slot := p.nextSlot
	p.nextSlot++
	if int(slot) >= len(p.generations) {
		p.generations = append(p.generations, 0)
	}
	return newNodeID(slot, p.generations[slot])
}

func (p *nodePool) alive(id NodeID) bool {
	slot := id.Slot()
	if slot == 0 || slot >= p.nextSlot {
		return false
	}
	return p.generations[slot] == id.Generation()
}

// destroy releases the slot behind id and reports whether it was live.
// Destroying a stale handle returns false and changes nothing.
func (p *nodePool) destroy(id NodeID) bool {
	slot := id.Slot()
	if slot == 0 || slot >= p.nextSlot {
		return false
	}
	if p.generations[slot] != id.Generation() {
		return false // already destroyed (stale handle)
	}
	p.generations[slot]++
	p.freeList = append(p.freeList, slot)
	return true
}
