package world

import "golang.org/x/text/unicode/norm"

// LevelMap is the logical model of a level: placement key to element, plus
// the identity of the map row it came from.
// Accessed only from the stage-host tick goroutine; no locks needed.
type LevelMap struct {
	elements map[string]Element

	Name    string
	MapID   string
	OwnerID string
}

// NewLevelMap returns an empty map with default properties.
func NewLevelMap() *LevelMap {
	return &LevelMap{elements: make(map[string]Element)}
}

// NormalizeName returns the NFC form of a map name, so lookups behave the
// same however the client composed the characters.
func NormalizeName(name string) string {
	return norm.NFC.String(name)
}

// SetProperties copies the identity properties from src.
func (m *LevelMap) SetProperties(src *LevelMap) {
	m.Name = NormalizeName(src.Name)
	m.MapID = src.MapID
	m.OwnerID = src.OwnerID
}

// ResetProperties restores the identity properties to defaults.
func (m *LevelMap) ResetProperties() {
	m.Name = ""
	m.MapID = ""
	m.OwnerID = ""
}

// Put records an element under key, overwriting any previous entry.
func (m *LevelMap) Put(key string, e Element) {
	m.elements[key] = e
}

// Get returns the element at key.
func (m *LevelMap) Get(key string) (Element, bool) {
	e, ok := m.elements[key]
	return e, ok
}

// Has reports whether key holds an element.
func (m *LevelMap) Has(key string) bool {
	_, ok := m.elements[key]
	return ok
}

// Delete removes the entry at key.
func (m *LevelMap) Delete(key string) {
	delete(m.elements, key)
}

// Len returns the number of placed elements.
func (m *LevelMap) Len() int {
	return len(m.elements)
}

// Clear removes every element. Identity properties are untouched.
func (m *LevelMap) Clear() {
	m.elements = make(map[string]Element)
}

// Each calls fn for every element, in unspecified order.
func (m *LevelMap) Each(fn func(key string, e Element)) {
	for k, e := range m.elements {
		fn(k, e)
	}
}

// Elements returns the placed elements in unspecified order.
func (m *LevelMap) Elements() []Element {
	out := make([]Element, 0, len(m.elements))
	for _, e := range m.elements {
		out = append(out, e)
	}
	return out
}

// Keys returns the placement keys in unspecified order.
func (m *LevelMap) Keys() []string {
	out := make([]string, 0, len(m.elements))
	for k := range m.elements {
		out = append(out, k)
	}
	return out
}
