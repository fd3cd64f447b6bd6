package maplib

import (
	"errors"
	"fmt"
	"math"

	"github.com/1siamBot/geojump/engine/core"
)

// ErrTileOutOfBounds is returned when a trigger is bound to a tile the map doesn't have
var ErrTileOutOfBounds = errors.New("tile out of bounds")

// TriggerFunc runs when the player enters the tile it is bound to
type TriggerFunc func(tx, ty int)

// TriggerRegistry maps tile coordinates to location callbacks
type TriggerRegistry struct {
	tm       *TileMap
	bindings map[TilePos]TriggerFunc
}

// NewTriggerRegistry creates an empty registry for a map
func NewTriggerRegistry(tm *TileMap) *TriggerRegistry {
	return &TriggerRegistry{
		tm:       tm,
		bindings: make(map[TilePos]TriggerFunc),
	}
}

// Bind attaches fn to the tile at (x, y), replacing any earlier binding.
// Tiles outside the map are rejected.
func (r *TriggerRegistry) Bind(x, y int, fn TriggerFunc) error {
	if !r.tm.InBounds(x, y) {
		return fmt.Errorf("bind trigger at (%d, %d) on %dx%d map: %w", x, y, r.tm.Width, r.tm.Height, ErrTileOutOfBounds)
	}
	if fn == nil {
		return fmt.Errorf("bind trigger at (%d, %d): nil callback", x, y)
	}
	r.bindings[TilePos{X: x, Y: y}] = fn
	return nil
}

// BindArea attaches fn to every tile of a w x h block starting at (x, y)
func (r *TriggerRegistry) BindArea(x, y, w, h int, fn TriggerFunc) error {
	if !r.tm.InBounds(x, y) || !r.tm.InBounds(x+w-1, y+h-1) {
		return fmt.Errorf("bind trigger area (%d, %d) %dx%d: %w", x, y, w, h, ErrTileOutOfBounds)
	}
	for ty := y; ty < y+h; ty++ {
		for tx := x; tx < x+w; tx++ {
			if err := r.Bind(tx, ty, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// Lookup returns the callback bound at (x, y)
func (r *TriggerRegistry) Lookup(x, y int) (TriggerFunc, bool) {
	fn, ok := r.bindings[TilePos{X: x, Y: y}]
	return fn, ok
}

// Len returns the number of bound tiles
func (r *TriggerRegistry) Len() int {
	return len(r.bindings)
}

// Positions returns every bound tile
func (r *TriggerRegistry) Positions() []TilePos {
	out := make([]TilePos, 0, len(r.bindings))
	for p := range r.bindings {
		out = append(out, p)
	}
	return out
}

// TriggersIn calls fn for every bound tile the rectangle covers, row by row
func (tm *TileMap) TriggersIn(rect core.Rect, fn func(pos TilePos, cb TriggerFunc)) {
	if len(tm.triggers.bindings) == 0 || tm.TileWidth <= 0 {
		return
	}
	ts := tm.TileSize()
	x0 := int(math.Floor(rect.X / ts))
	y0 := int(math.Floor(rect.Y / ts))
	x1 := int(math.Ceil(rect.Right()/ts)) - 1
	y1 := int(math.Ceil(rect.Bottom()/ts)) - 1
	for ty := y0; ty <= y1; ty++ {
		for tx := x0; tx <= x1; tx++ {
			if cb, ok := tm.triggers.Lookup(tx, ty); ok {
				fn(TilePos{X: tx, Y: ty}, cb)
			}
		}
	}
}
