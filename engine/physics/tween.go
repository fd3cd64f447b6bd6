package physics

import (
	"time"

	"github.com/1siamBot/geojump/engine/core"
)

// Tween moves a body linearly from one position to another over a fixed
// duration. While running it overrides the integrated position.
type Tween struct {
	Target          *core.Body
	FromX, FromY    float64
	ToX, ToY        float64
	Start, Duration time.Duration
	done            bool
}

// NewTween starts a tween of b towards (x, y) at simulation time now
func NewTween(b *core.Body, x, y float64, now, d time.Duration) *Tween {
	return &Tween{
		Target:   b,
		FromX:    b.X,
		FromY:    b.Y,
		ToX:      x,
		ToY:      y,
		Start:    now,
		Duration: d,
	}
}

// Apply positions the target for time now. An axis with no displacement
// is left to the physics. Returns false once the tween has finished (the
// final frame lands exactly on the destination).
func (t *Tween) Apply(now time.Duration) bool {
	if t.done {
		return false
	}
	p := 1.0
	if t.Duration > 0 {
		p = float64(now-t.Start) / float64(t.Duration)
	}
	if p >= 1 {
		p = 1
		t.done = true
	}
	if p < 0 {
		p = 0
	}
	if t.ToX != t.FromX {
		t.Target.X = t.FromX + (t.ToX-t.FromX)*p
	}
	if t.ToY != t.FromY {
		t.Target.Y = t.FromY + (t.ToY-t.FromY)*p
	}
	return !t.done
}

// Done reports whether the tween has reached its destination
func (t *Tween) Done() bool { return t.done }
