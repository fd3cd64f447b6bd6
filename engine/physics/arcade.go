// Package physics is a small arcade-style physics provider: gravity
// integration, AABB overlap and separation, and tile grid collision.
package physics

import (
	"math"

	"github.com/1siamBot/geojump/engine/core"
)

// TileGrid is the terrain view the physics needs
type TileGrid interface {
	TileSize() float64
	SolidAt(tx, ty int) bool
}

// VelocityFromAngle decomposes a speed along an angle in degrees.
// 0 points along +X, 90 along +Y (screen down).
func VelocityFromAngle(angleDeg, speed float64) (vx, vy float64) {
	rad := angleDeg * math.Pi / 180
	return math.Cos(rad) * speed, math.Sin(rad) * speed
}

// Arcade implements the physics the session consumes
type Arcade struct {
	MaxVelocity float64 // per-axis velocity clamp, 0 = none
}

// NewArcade creates an arcade physics provider
func NewArcade() *Arcade {
	return &Arcade{MaxVelocity: 10000}
}

// Integrate applies gravity then velocity for one step. Dead and
// immovable bodies are left untouched.
func (a *Arcade) Integrate(b *core.Body, dt float64) {
	if !b.Alive || b.Immovable {
		return
	}
	b.PrevX, b.PrevY = b.X, b.Y
	b.VX += b.GravityX * dt
	b.VY += b.GravityY * dt
	if a.MaxVelocity > 0 {
		b.VX = clamp(b.VX, -a.MaxVelocity, a.MaxVelocity)
		b.VY = clamp(b.VY, -a.MaxVelocity, a.MaxVelocity)
	}
	b.X += b.VX * dt
	b.Y += b.VY * dt
	b.Blocked = core.Touching{}
}

// Overlap is the broad-phase test between two live bodies
func (a *Arcade) Overlap(x, y *core.Body) bool {
	if !x.Alive || !y.Alive {
		return false
	}
	return x.Rect().Overlaps(y.Rect())
}

// Separate pushes moving out of fixed along the axis of least
// penetration and stops it on that axis. Returns false if they don't overlap.
func (a *Arcade) Separate(moving, fixed *core.Body) bool {
	if !a.Overlap(moving, fixed) {
		return false
	}
	mr, fr := moving.Rect(), fixed.Rect()
	overlapX := math.Min(mr.Right(), fr.Right()) - math.Max(mr.X, fr.X) + epsilon
	overlapY := math.Min(mr.Bottom(), fr.Bottom()) - math.Max(mr.Y, fr.Y) + epsilon

	if overlapX <= overlapY {
		if moving.X < fixed.X {
			moving.X -= overlapX
			moving.Blocked.Right = true
		} else {
			moving.X += overlapX
			moving.Blocked.Left = true
		}
		moving.VX = 0
	} else {
		if moving.Y < fixed.Y {
			moving.Y -= overlapY
			moving.Blocked.Down = true
		} else {
			moving.Y += overlapY
			moving.Blocked.Up = true
		}
		moving.VY = 0
	}
	return true
}

// CollideTiles separates a body from solid tiles, X axis first using the
// pre-integration Y, then Y. Returns true if any side was blocked.
func (a *Arcade) CollideTiles(b *core.Body, grid TileGrid) bool {
	if !b.Alive || b.Immovable {
		return false
	}
	ts := grid.TileSize()
	if ts <= 0 {
		return false
	}

	// Horizontal pass at the previous height
	r := core.Rect{X: b.X - b.W/2, Y: b.PrevY - b.H/2, W: b.W, H: b.H}
	if tx, ok := firstSolidColumn(grid, r, ts, b.X-b.PrevX); ok {
		if b.X > b.PrevX {
			b.X = float64(tx)*ts - b.W/2 - epsilon
			b.Blocked.Right = true
		} else {
			b.X = float64(tx+1)*ts + b.W/2 + epsilon
			b.Blocked.Left = true
		}
		b.VX = 0
	}

	// Vertical pass at the resolved X
	r = b.Rect()
	if ty, ok := firstSolidRow(grid, r, ts, b.Y-b.PrevY); ok {
		if b.Y > b.PrevY {
			b.Y = float64(ty)*ts - b.H/2 - epsilon
			b.Blocked.Down = true
		} else {
			b.Y = float64(ty+1)*ts + b.H/2 + epsilon
			b.Blocked.Up = true
		}
		b.VY = 0
	}
	return b.Blocked.Any()
}

const epsilon = 1e-6

// firstSolidColumn returns the solid tile column nearest to where the
// body came from, scanning in the direction of motion.
func firstSolidColumn(grid TileGrid, r core.Rect, ts, dx float64) (int, bool) {
	if dx == 0 {
		return 0, false
	}
	x0, y0, x1, y1 := tileSpan(r, ts)
	if dx > 0 {
		for tx := x0; tx <= x1; tx++ {
			if columnSolid(grid, tx, y0, y1) {
				return tx, true
			}
		}
	} else {
		for tx := x1; tx >= x0; tx-- {
			if columnSolid(grid, tx, y0, y1) {
				return tx, true
			}
		}
	}
	return 0, false
}

func firstSolidRow(grid TileGrid, r core.Rect, ts, dy float64) (int, bool) {
	if dy == 0 {
		return 0, false
	}
	x0, y0, x1, y1 := tileSpan(r, ts)
	if dy > 0 {
		for ty := y0; ty <= y1; ty++ {
			if rowSolid(grid, ty, x0, x1) {
				return ty, true
			}
		}
	} else {
		for ty := y1; ty >= y0; ty-- {
			if rowSolid(grid, ty, x0, x1) {
				return ty, true
			}
		}
	}
	return 0, false
}

func columnSolid(grid TileGrid, tx, y0, y1 int) bool {
	for ty := y0; ty <= y1; ty++ {
		if grid.SolidAt(tx, ty) {
			return true
		}
	}
	return false
}

func rowSolid(grid TileGrid, ty, x0, x1 int) bool {
	for tx := x0; tx <= x1; tx++ {
		if grid.SolidAt(tx, ty) {
			return true
		}
	}
	return false
}

// tileSpan returns the inclusive tile range covered by r. Edges that sit
// exactly on a tile boundary don't reach into the next tile.
func tileSpan(r core.Rect, ts float64) (x0, y0, x1, y1 int) {
	x0 = int(math.Floor(r.X / ts))
	y0 = int(math.Floor(r.Y / ts))
	x1 = int(math.Ceil(r.Right()/ts)) - 1
	y1 = int(math.Ceil(r.Bottom()/ts)) - 1
	return
}

// TilesUnder calls fn for every tile coordinate the rect covers
func TilesUnder(r core.Rect, ts float64, fn func(tx, ty int)) {
	if ts <= 0 {
		return
	}
	x0, y0, x1, y1 := tileSpan(r, ts)
	for ty := y0; ty <= y1; ty++ {
		for tx := x0; tx <= x1; tx++ {
			fn(tx, ty)
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
