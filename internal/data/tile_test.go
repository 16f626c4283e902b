package data

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTileList(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tile_list.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write tile_list: %v", err)
	}
	return path
}

func TestLoadTileTable(t *testing.T) {
	path := writeTileList(t, `
tiles:
  - type: wall_dirt
    name: 土牆
    layer: object
    solid: true
  - type: cheese
    name: 起司磚
    layer: object
    behaviors: [crumble]
    crumble_ticks: 20
  - type: wheel
    name: 滾輪
    behaviors: [spin]
    spin_rate: 1.5
  - type: clear_object
    layer: object
    no_visual: true
`)
	table, err := LoadTileTable(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if table.Count() != 4 {
		t.Fatalf("expected 4 templates, got %d", table.Count())
	}

	cheese := table.Get("cheese")
	if cheese == nil {
		t.Fatalf("expected cheese template")
	}
	if cheese.CrumbleTicks != 20 || len(cheese.Behaviors) != 1 || cheese.Behaviors[0] != "crumble" {
		t.Fatalf("cheese template mismatch: %+v", cheese)
	}
	if cheese.SlotLayer() != "object" {
		t.Fatalf("expected cheese in object layer, got %q", cheese.SlotLayer())
	}

	// No explicit layer: the type is its own layer.
	wheel := table.Get("wheel")
	if wheel.SlotLayer() != "wheel" {
		t.Fatalf("expected wheel to default to its own layer, got %q", wheel.SlotLayer())
	}
	if wheel.SpinRate != 1.5 {
		t.Fatalf("expected spin_rate 1.5, got %v", wheel.SpinRate)
	}

	clear := table.Get("clear_object")
	if clear == nil || !clear.NoVisual {
		t.Fatalf("expected clear_object to be no_visual: %+v", clear)
	}

	if table.Get("lava") != nil {
		t.Fatalf("expected nil for an unregistered type")
	}
}

func TestLoadTileTableRejectsBadContent(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"duplicate type", "tiles:\n  - type: cheese\n  - type: cheese\n"},
		{"missing type", "tiles:\n  - name: nameless\n"},
		{"unknown behavior", "tiles:\n  - type: cheese\n    behaviors: [melt]\n"},
		{"bad yaml", "tiles: [\n"},
	}
	for _, tc := range cases {
		path := writeTileList(t, tc.body)
		if _, err := LoadTileTable(path); err == nil {
			t.Fatalf("%s: expected load to fail", tc.name)
		}
	}
}

func TestLoadTileTableMissingFile(t *testing.T) {
	if _, err := LoadTileTable(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
