package systems

import (
	"github.com/1siamBot/geojump/engine/core"
)

// AnimationSystem steps the state frame of a group of bodies at a fixed
// rate. Every live body advances together, keeping its own offset.
type AnimationSystem struct {
	Frames int     // frames per cycle
	Speed  float64 // frames per second
	Loop   bool    // wrap to frame 0; otherwise hold the last frame

	timer    float64
	Finished bool
}

// NewAnimationSystem creates a looping animation
func NewAnimationSystem(frames int, speed float64) *AnimationSystem {
	return &AnimationSystem{Frames: frames, Speed: speed, Loop: true}
}

// Update advances the shared timer by dt and steps frames when it elapses
func (s *AnimationSystem) Update(bodies []core.Body, dt float64) {
	if s.Finished || s.Speed <= 0 || s.Frames < 2 {
		return
	}

	s.timer += dt
	frameDur := 1.0 / s.Speed
	for s.timer >= frameDur {
		s.timer -= frameDur
		s.step(bodies)
	}
}

func (s *AnimationSystem) step(bodies []core.Body) {
	last := s.Frames - 1
	for i := range bodies {
		b := &bodies[i]
		if !b.Alive {
			continue
		}
		switch {
		case b.Frame < last:
			b.Frame++
		case s.Loop:
			b.Frame = 0
		default:
			s.Finished = true
		}
	}
}

// Reset rewinds the timer
func (s *AnimationSystem) Reset() {
	s.timer = 0
	s.Finished = false
}
