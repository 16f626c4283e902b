package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TileTemplate holds static data for a tile type loaded from YAML.
type TileTemplate struct {
	Type         string   `yaml:"type"`
	Name         string   `yaml:"name"`
	Layer        string   `yaml:"layer"` // slot layer; empty means the type is its own layer
	NoVisual     bool     `yaml:"no_visual"`
	Solid        bool     `yaml:"solid"`
	Behaviors    []string `yaml:"behaviors"`
	Script       string   `yaml:"script"`
	SpinRate     float32  `yaml:"spin_rate"`     // quarter-turns per second, spin behavior
	CrumbleTicks int      `yaml:"crumble_ticks"` // ticks until a crumble tile expires
}

// SlotLayer returns the layer this template's placements occupy. Templates
// without an explicit layer occupy a layer of their own, keyed by type, so
// they only ever replace placements of the same type.
func (t *TileTemplate) SlotLayer() string {
	if t.Layer != "" {
		return t.Layer
	}
	return t.Type
}

type tileListFile struct {
	Tiles []TileTemplate `yaml:"tiles"`
}

// TileTable holds all tile templates indexed by type.
type TileTable struct {
	templates map[string]*TileTemplate
}

// behaviorNames are the behaviors a template may attach.
var behaviorNames = map[string]struct{}{
	"spin":    {},
	"crumble": {},
	"script":  {},
}

// LoadTileTable loads tile templates from a YAML file. Template data is
// level content, so problems fail the load instead of degrading silently.
func LoadTileTable(path string) (*TileTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tile_list: %w", err)
	}
	var f tileListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse tile_list: %w", err)
	}
	t := &TileTable{templates: make(map[string]*TileTemplate, len(f.Tiles))}
	for i := range f.Tiles {
		tile := &f.Tiles[i]
		if tile.Type == "" {
			return nil, fmt.Errorf("tile_list: entry %d has no type", i)
		}
		if _, dup := t.templates[tile.Type]; dup {
			return nil, fmt.Errorf("tile_list: duplicate type %q", tile.Type)
		}
		for _, b := range tile.Behaviors {
			if _, ok := behaviorNames[b]; !ok {
				return nil, fmt.Errorf("tile_list: tile %q: unknown behavior %q", tile.Type, b)
			}
		}
		t.templates[tile.Type] = tile
	}
	return t, nil
}

// Get returns a tile template by type, or nil if not registered.
func (t *TileTable) Get(typ string) *TileTemplate {
	return t.templates[typ]
}

// Count returns the number of loaded templates.
func (t *TileTable) Count() int {
	return len(t.templates)
}
