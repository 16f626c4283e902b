package scene

// removable is implemented by every node store so the graph can clear a
// destroyed node's data from all of them in one pass.
type removable interface {
	remove(id NodeID)
}

// store is a typed map from node to attached data.
type store[T any] struct {
	data map[NodeID]T
}

func newStore[T any]() *store[T] {
	return &store[T]{data: make(map[NodeID]T, 256)}
}

func (s *store[T]) set(id NodeID, v T) {
	s.data[id] = v
}

func (s *store[T]) get(id NodeID) (T, bool) {
	v, ok := s.data[id]
	return v, ok
}

func (s *store[T]) remove(id NodeID) {
	delete(s.data, id)
}

func (s *store[T]) count() int {
	return len(s.data)
}

func (s *store[T]) each(fn func(NodeID, T)) {
	for id, v := range s.data {
		fn(id, v)
	}
}
