package maplib

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/1siamBot/geojump/engine/core"
)

// TileEmpty is the tile index of an empty cell
const TileEmpty = 0

// TilePos represents integer tile coordinates
type TilePos struct {
	X, Y int
}

// TileMap represents the game map
type TileMap struct {
	Name      string `json:"name"`
	Width     int    `json:"width"`      // in tiles
	Height    int    `json:"height"`     // in tiles
	TileWidth int    `json:"tile_width"` // pixel size of a square tile
	Tiles     []int  `json:"tiles"`      // tileset indices, row-major

	// Tileset indices that block bodies
	Collision []int `json:"collision"`

	solid    map[int]bool
	triggers *TriggerRegistry
}

// NewTileMap creates a new empty map
func NewTileMap(name string, width, height, tileSize int) *TileMap {
	tm := &TileMap{
		Name:      name,
		Width:     width,
		Height:    height,
		TileWidth: tileSize,
		Tiles:     make([]int, width*height),
	}
	tm.init()
	return tm
}

func (tm *TileMap) init() {
	tm.solid = make(map[int]bool, len(tm.Collision))
	for _, idx := range tm.Collision {
		tm.solid[idx] = true
	}
	tm.triggers = NewTriggerRegistry(tm)
}

// At returns the tile index at (x, y), or TileEmpty outside the map
func (tm *TileMap) At(x, y int) int {
	if !tm.InBounds(x, y) {
		return TileEmpty
	}
	return tm.Tiles[y*tm.Width+x]
}

// Set writes a tile index at (x, y); out of bounds writes are ignored
func (tm *TileMap) Set(x, y, index int) {
	if tm.InBounds(x, y) {
		tm.Tiles[y*tm.Width+x] = index
	}
}

// Fill sets tiles for a rectangular region
func (tm *TileMap) Fill(x1, y1, x2, y2, index int) {
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			tm.Set(x, y, index)
		}
	}
}

// InBounds checks if coordinates are within map bounds
func (tm *TileMap) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < tm.Width && y < tm.Height
}

// SetCollision marks a tileset index as solid
func (tm *TileMap) SetCollision(indices ...int) {
	for _, idx := range indices {
		if !tm.solid[idx] {
			tm.solid[idx] = true
			tm.Collision = append(tm.Collision, idx)
		}
	}
}

// SolidAt reports whether the tile at (x, y) blocks bodies. Cells outside
// the map are open so bodies can leave the world.
func (tm *TileMap) SolidAt(x, y int) bool {
	idx := tm.At(x, y)
	return idx != TileEmpty && tm.solid[idx]
}

// TileSize returns the tile size in pixels
func (tm *TileMap) TileSize() float64 {
	return float64(tm.TileWidth)
}

// Bounds returns the world rectangle in pixels
func (tm *TileMap) Bounds() core.Rect {
	return core.Rect{
		W: float64(tm.Width * tm.TileWidth),
		H: float64(tm.Height * tm.TileWidth),
	}
}

// WorldToTile converts a world position to tile coordinates
func (tm *TileMap) WorldToTile(wx, wy float64) (int, int) {
	ts := tm.TileSize()
	return floorDiv(wx, ts), floorDiv(wy, ts)
}

// Triggers returns the map's trigger registry
func (tm *TileMap) Triggers() *TriggerRegistry {
	return tm.triggers
}

// SaveJSON saves the map to a JSON file
func (tm *TileMap) SaveJSON(path string) error {
	data, err := json.MarshalIndent(tm, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadJSON loads a map from a JSON file
func LoadJSON(path string) (*TileMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseJSON(data)
}

// ParseJSON decodes and validates a map
func ParseJSON(data []byte) (*TileMap, error) {
	var tm TileMap
	if err := json.Unmarshal(data, &tm); err != nil {
		return nil, err
	}
	if tm.Width <= 0 || tm.Height <= 0 || tm.TileWidth <= 0 {
		return nil, fmt.Errorf("map %q: invalid dimensions %dx%d tile %d", tm.Name, tm.Width, tm.Height, tm.TileWidth)
	}
	if len(tm.Tiles) != tm.Width*tm.Height {
		return nil, fmt.Errorf("map %q: %d tiles, want %d", tm.Name, len(tm.Tiles), tm.Width*tm.Height)
	}
	tm.init()
	return &tm, nil
}

func floorDiv(v, size float64) int {
	q := int(v / size)
	if v < 0 && float64(q)*size != v {
		q--
	}
	return q
}
