// tileconv converts legacy tile definition SQL dumps to the YAML tile list
// the stage server loads at boot.
//
// Usage:
//
//	go run ./cmd/tileconv [-sqldir path] [-outdir path]
//
// The legacy dump stores behavior parameters as bare columns; behaviors are
// derived from whichever parameters are set.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// YAML output structs
// ---------------------------------------------------------------------------

type tileListYAML struct {
	Tiles []tileEntryYAML `yaml:"tiles"`
}

type tileEntryYAML struct {
	Type         string   `yaml:"type"`
	Name         string   `yaml:"name,omitempty"`
	Layer        string   `yaml:"layer,omitempty"`
	NoVisual     bool     `yaml:"no_visual,omitempty"`
	Solid        bool     `yaml:"solid,omitempty"`
	Behaviors    []string `yaml:"behaviors,omitempty"`
	Script       string   `yaml:"script,omitempty"`
	SpinRate     float32  `yaml:"spin_rate,omitempty"`
	CrumbleTicks int      `yaml:"crumble_ticks,omitempty"`
}

// ---------------------------------------------------------------------------
// SQL parsing helpers
// ---------------------------------------------------------------------------

// parseValues extracts column values from a single INSERT INTO ... VALUES (...) line.
func parseValues(line string) []string {
	upper := strings.ToUpper(line)
	idx := strings.Index(upper, "VALUES")
	if idx == -1 {
		return nil
	}
	rest := line[idx+6:]
	start := strings.IndexByte(rest, '(')
	if start == -1 {
		return nil
	}
	end := strings.LastIndexByte(rest, ')')
	if end == -1 || end <= start {
		return nil
	}
	inner := rest[start+1 : end]

	var values []string
	var cur strings.Builder
	inQuote := false
	for i := 0; i < len(inner); i++ {
		ch := inner[i]
		if inQuote {
			if ch == '\'' {
				if i+1 < len(inner) && inner[i+1] == '\'' {
					cur.WriteByte('\'')
					i++
				} else {
					inQuote = false
				}
			} else {
				cur.WriteByte(ch)
			}
		} else {
			switch ch {
			case '\'':
				inQuote = true
			case ',':
				values = append(values, strings.TrimSpace(cur.String()))
				cur.Reset()
			default:
				cur.WriteByte(ch)
			}
		}
	}
	values = append(values, strings.TrimSpace(cur.String()))

	for i, v := range values {
		if strings.EqualFold(v, "null") {
			values[i] = ""
		}
	}
	return values
}

// parseAllInserts reads a SQL file and returns all parsed INSERT rows.
func parseAllInserts(path string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(data), "\n")
	var rows [][]string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(strings.ToUpper(line), "INSERT INTO") {
			continue
		}
		vals := parseValues(line)
		if vals != nil {
			rows = append(rows, vals)
		}
	}
	return rows, nil
}

func parseInt(s string) int {
	if s == "" {
		return 0
	}
	v, _ := strconv.Atoi(s)
	return v
}

func parseFloat32(s string) float32 {
	if s == "" {
		return 0
	}
	v, _ := strconv.ParseFloat(s, 32)
	return float32(v)
}

func parseBool01(s string) bool { return s != "" && s != "0" }

// ---------------------------------------------------------------------------
// YAML writer
// ---------------------------------------------------------------------------

func writeYAML(path string, data interface{}, comment string) error {
	out, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if comment != "" {
		fmt.Fprintln(f, comment)
		fmt.Fprintln(f)
	}
	_, err = f.Write(out)
	return err
}

// ---------------------------------------------------------------------------
// Converter
// ---------------------------------------------------------------------------

func convertTiles(sqlDir, outDir string) error {
	rows, err := parseAllInserts(filepath.Join(sqlDir, "tiles.sql"))
	if err != nil {
		return err
	}
	// tiles columns (0-indexed):
	// 0:tile_id 1:type 2:name 3:layer 4:no_visual 5:solid
	// 6:spin_rate 7:crumble_ticks 8:script
	var tiles []tileEntryYAML
	for _, r := range rows {
		if len(r) < 9 {
			continue
		}
		entry := tileEntryYAML{
			Type:         r[1],
			Name:         r[2],
			Layer:        r[3],
			NoVisual:     parseBool01(r[4]),
			Solid:        parseBool01(r[5]),
			SpinRate:     parseFloat32(r[6]),
			CrumbleTicks: parseInt(r[7]),
			Script:       r[8],
		}
		if entry.Type == "" {
			continue
		}
		if entry.SpinRate > 0 {
			entry.Behaviors = append(entry.Behaviors, "spin")
		}
		if entry.CrumbleTicks > 0 {
			entry.Behaviors = append(entry.Behaviors, "crumble")
		}
		if entry.Script != "" {
			entry.Behaviors = append(entry.Behaviors, "script")
		}
		tiles = append(tiles, entry)
	}
	sort.Slice(tiles, func(i, j int) bool { return tiles[i].Type < tiles[j].Type })
	fmt.Printf("  tiles: %d entries (from %d total rows)\n", len(tiles), len(rows))
	return writeYAML(filepath.Join(outDir, "tile_list.yaml"),
		tileListYAML{Tiles: tiles},
		"# Tile templates - converted from legacy tiles.sql")
}

// ---------------------------------------------------------------------------
// main
// ---------------------------------------------------------------------------

func main() {
	fs := flag.NewFlagSet("tileconv", flag.ExitOnError)
	sqlDir := fs.String("sqldir", filepath.Join("..", "legacy", "db"), "SQL source directory")
	outDir := fs.String("outdir", filepath.Join("data", "yaml"), "YAML output directory")
	_ = fs.Parse(os.Args[1:])

	fmt.Println("Converting tiles SQL -> YAML...")
	if err := convertTiles(*sqlDir, *outDir); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Done!")
}
