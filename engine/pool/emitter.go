package pool

import (
	"math/rand"
	"time"
)

// SlotState is the lifecycle state of an emitter slot
type SlotState uint8

const (
	SlotIdle         SlotState = iota // free for the next trigger
	SlotActive                        // triggered this tick, particles just released
	SlotPendingReset                  // burst running, slot reserved until ResetAt
)

func (s SlotState) String() string {
	switch s {
	case SlotActive:
		return "active"
	case SlotPendingReset:
		return "pending_reset"
	default:
		return "idle"
	}
}

// Particle is one point of a burst
type Particle struct {
	X, Y   float64
	VX, VY float64
	Age    time.Duration
	Life   time.Duration // zero when the particle is not running
}

// Alive reports whether the particle is still animating
func (p *Particle) Alive() bool {
	return p.Life > 0 && p.Age < p.Life
}

// EmitterSlot is one reusable burst effect
type EmitterSlot struct {
	X, Y      float64
	State     SlotState
	ResetAt   time.Duration
	Particles []Particle
}

// Running returns the number of particles still animating
func (s *EmitterSlot) Running() int {
	n := 0
	for i := range s.Particles {
		if s.Particles[i].Alive() {
			n++
		}
	}
	return n
}

// EmitterSpec holds burst tuning
type EmitterSpec struct {
	Slots      int           // pool size
	Capacity   int           // particles allocated per slot
	BurstCount int           // particles released per trigger
	Lifespan   time.Duration // particle lifetime
	ResetDelay time.Duration // time until a triggered slot is reusable
	Spread     float64       // max speed per axis, px/s
}

// EmitterPool is a fixed set of burst emitters with debounced reuse
type EmitterPool struct {
	spec  EmitterSpec
	slots []EmitterSlot
	rng   *rand.Rand
}

// NewEmitterPool allocates every slot and its particles up front
func NewEmitterPool(spec EmitterSpec, rng *rand.Rand) *EmitterPool {
	if spec.Slots < 1 {
		spec.Slots = 1
	}
	if spec.BurstCount > spec.Capacity {
		spec.BurstCount = spec.Capacity
	}
	p := &EmitterPool{
		spec:  spec,
		slots: make([]EmitterSlot, spec.Slots),
		rng:   rng,
	}
	for i := range p.slots {
		p.slots[i].Particles = make([]Particle, spec.Capacity)
	}
	return p
}

// Trigger starts a burst at (x, y) on the first idle slot in construction
// order. Returns ok == false and changes nothing when no slot is idle.
func (p *EmitterPool) Trigger(now time.Duration, x, y float64) (int, bool) {
	for i := range p.slots {
		s := &p.slots[i]
		if s.State != SlotIdle {
			continue
		}
		s.X, s.Y = x, y
		s.State = SlotActive
		s.ResetAt = now + p.spec.ResetDelay
		p.explode(s)
		return i, true
	}
	return -1, false
}

// explode releases BurstCount particles at once and stops the rest
func (p *EmitterPool) explode(s *EmitterSlot) {
	spread := p.spec.Spread
	for i := range s.Particles {
		pt := &s.Particles[i]
		if i >= p.spec.BurstCount {
			pt.Life = 0
			continue
		}
		pt.X, pt.Y = s.X, s.Y
		pt.VX = (p.rng.Float64()*2 - 1) * spread
		pt.VY = (p.rng.Float64()*2 - 1) * spread
		pt.Age = 0
		pt.Life = p.spec.Lifespan
	}
}

// Maintain advances slot states and particles by one step ending at now
func (p *EmitterPool) Maintain(now time.Duration, dt float64) {
	step := time.Duration(dt * float64(time.Second))
	for i := range p.slots {
		s := &p.slots[i]
		switch s.State {
		case SlotActive:
			s.State = SlotPendingReset
			fallthrough
		case SlotPendingReset:
			if now >= s.ResetAt {
				s.State = SlotIdle
			}
		}
		for j := range s.Particles {
			pt := &s.Particles[j]
			if !pt.Alive() {
				continue
			}
			pt.X += pt.VX * dt
			pt.Y += pt.VY * dt
			pt.Age += step
			if pt.Age >= pt.Life {
				pt.Life = 0
			}
		}
	}
}

// Available returns the number of idle slots
func (p *EmitterPool) Available() int {
	n := 0
	for i := range p.slots {
		if p.slots[i].State == SlotIdle {
			n++
		}
	}
	return n
}

// Slots exposes the slots for rendering
func (p *EmitterPool) Slots() []EmitterSlot {
	return p.slots
}

// Size returns the fixed number of slots
func (p *EmitterPool) Size() int { return len(p.slots) }

// Reset idles every slot and stops all particles
func (p *EmitterPool) Reset() {
	for i := range p.slots {
		s := &p.slots[i]
		s.State = SlotIdle
		s.X, s.Y = 0, 0
		s.ResetAt = 0
		for j := range s.Particles {
			s.Particles[j].Life = 0
		}
	}
}
