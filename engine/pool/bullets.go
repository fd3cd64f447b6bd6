// Package pool holds the fixed-capacity object pools: projectiles, the
// weapons that fire them and particle-burst emitters. Nothing here
// allocates after construction.
package pool

import (
	"math"

	"github.com/1siamBot/geojump/engine/core"
	"github.com/1siamBot/geojump/engine/physics"
)

// Bullet is a projectile body with visual capabilities
type Bullet struct {
	core.Body

	Angle     float64 // firing angle in degrees
	Speed     float64
	Tracking  bool    // keep Rotation aligned with velocity
	ScaleRate float64 // added to Scale every tick when > 0
	Scale     float64
	Rotation  float64 // radians
}

// BulletPool is a fixed ring of bullets
type BulletPool struct {
	slots  []Bullet
	cursor int // index of the last slot handed out
}

// BulletOptions configures every bullet of a pool
type BulletOptions struct {
	Width, Height float64
	Bounds        core.BoundsPolicy
	Tracking      bool
	ScaleRate     float64
}

// NewBulletPool allocates capacity dead bullets
func NewBulletPool(capacity int, ids *core.IDSource, opts BulletOptions) *BulletPool {
	if capacity < 1 {
		capacity = 1
	}
	p := &BulletPool{
		slots:  make([]Bullet, capacity),
		cursor: capacity - 1,
	}
	for i := range p.slots {
		b := &p.slots[i]
		b.ID = ids.Next()
		b.W, b.H = opts.Width, opts.Height
		b.Bounds = opts.Bounds
		b.Tracking = opts.Tracking
		b.ScaleRate = opts.ScaleRate
		b.Scale = 1
	}
	return p
}

// Fire activates the first dead slot after the last one used, wrapping
// around. Returns false without side effects when every slot is live.
func (p *BulletPool) Fire(x, y, angle, speed, gx, gy float64) bool {
	n := len(p.slots)
	for i := 1; i <= n; i++ {
		idx := (p.cursor + i) % n
		b := &p.slots[idx]
		if b.Alive {
			continue
		}
		b.Reset(x, y)
		b.VX, b.VY = physics.VelocityFromAngle(angle, speed)
		b.GravityX, b.GravityY = gx, gy
		b.Angle = angle
		b.Speed = speed
		b.Scale = 1
		b.Rotation = angle * math.Pi / 180
		p.cursor = idx
		return true
	}
	return false
}

// Update runs the per-tick visual update of live bullets
func (p *BulletPool) Update() {
	for i := range p.slots {
		b := &p.slots[i]
		if !b.Alive {
			continue
		}
		if b.Tracking {
			b.Rotation = b.Heading()
		}
		if b.ScaleRate > 0 {
			b.Scale += b.ScaleRate
		}
	}
}

// Cull kills live bullets that left the region their bounds policy names.
// Returns how many were killed.
func (p *BulletPool) Cull(world, camera core.Rect) int {
	culled := 0
	for i := range p.slots {
		b := &p.slots[i]
		if !b.Alive {
			continue
		}
		out := false
		switch b.Bounds {
		case core.BoundsKillOnExitWorld:
			out = b.Outside(world)
		case core.BoundsKillOnExitCamera:
			out = b.Outside(camera) || b.Outside(world)
		}
		if out {
			b.Kill()
			culled++
		}
	}
	return culled
}

// Each calls fn for every live bullet in slot order
func (p *BulletPool) Each(fn func(b *Bullet)) {
	for i := range p.slots {
		if p.slots[i].Alive {
			fn(&p.slots[i])
		}
	}
}

// Slot returns the bullet at index i
func (p *BulletPool) Slot(i int) *Bullet {
	return &p.slots[i]
}

// Active returns the number of live bullets
func (p *BulletPool) Active() int {
	n := 0
	for i := range p.slots {
		if p.slots[i].Alive {
			n++
		}
	}
	return n
}

// Capacity returns the fixed pool size
func (p *BulletPool) Capacity() int { return len(p.slots) }

// Reset kills every bullet
func (p *BulletPool) Reset() {
	for i := range p.slots {
		p.slots[i].Kill()
	}
	p.cursor = len(p.slots) - 1
}
