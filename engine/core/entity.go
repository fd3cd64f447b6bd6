package core

import "math"

// EntityID is a unique identifier for bodies within one session
type EntityID uint64

// IDSource hands out entity IDs for a single session
type IDSource struct {
	next uint64
}

// Next returns a fresh ID
func (s *IDSource) Next() EntityID {
	s.next++
	return EntityID(s.next)
}

// BoundsPolicy decides when a body is killed for leaving a region
type BoundsPolicy uint8

const (
	BoundsNone BoundsPolicy = iota
	BoundsKillOnExitWorld
	BoundsKillOnExitCamera
)

// ---- Geometry ----

// Rect is an axis-aligned rectangle (X, Y is the top-left corner)
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Intersects reports whether two rectangles overlap. Touching edges count.
func (r Rect) Intersects(o Rect) bool {
	return r.X <= o.Right() && o.X <= r.Right() && r.Y <= o.Bottom() && o.Y <= r.Bottom()
}

// Overlaps reports whether two rectangles share interior area. Touching
// edges don't count.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Contains reports whether the point lies inside r
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.Right() && y >= r.Y && y <= r.Bottom()
}

// ---- Body ----

// Touching records which sides of a body were blocked during the last collision pass
type Touching struct {
	Up, Down, Left, Right bool
}

// Any returns true if any side is blocked
func (t Touching) Any() bool { return t.Up || t.Down || t.Left || t.Right }

// Body is the minimal moving, collidable thing in the world.
// X and Y are the center of the bounding box.
type Body struct {
	ID EntityID

	X, Y         float64
	PrevX, PrevY float64 // position before the last integration step
	VX, VY       float64
	W, H         float64

	GravityX, GravityY float64

	Alive     bool
	Immovable bool
	Bounds    BoundsPolicy
	Frame     int // current animation/state frame, 0 = base state
	Blocked   Touching
}

// Rect returns the body's bounding box
func (b *Body) Rect() Rect {
	return Rect{X: b.X - b.W/2, Y: b.Y - b.H/2, W: b.W, H: b.H}
}

// Reset revives the body at (x, y) with zero velocity
func (b *Body) Reset(x, y float64) {
	b.X, b.Y = x, y
	b.PrevX, b.PrevY = x, y
	b.VX, b.VY = 0, 0
	b.Blocked = Touching{}
	b.Alive = true
}

// Kill marks the body dead. Dead bodies are skipped by physics and collision.
func (b *Body) Kill() {
	b.Alive = false
	b.VX, b.VY = 0, 0
}

// Speed returns the velocity magnitude
func (b *Body) Speed() float64 {
	return math.Hypot(b.VX, b.VY)
}

// Heading returns the direction of travel in radians
func (b *Body) Heading() float64 {
	return math.Atan2(b.VY, b.VX)
}

// Outside reports whether the body's rect no longer intersects region
func (b *Body) Outside(region Rect) bool {
	return !b.Rect().Intersects(region)
}
