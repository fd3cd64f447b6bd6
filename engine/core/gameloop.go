package core

import "time"

// GameState represents the overall game state
type GameState uint8

const (
	StateMenu GameState = iota
	StatePlaying
	StatePaused
	StateGameOver
)

func (s GameState) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "game over"
	default:
		return "menu"
	}
}

// Simulation is advanced by the game loop one fixed step at a time
type Simulation interface {
	Tick(dt float64)
	TickCount() uint64
}

// GameLoop manages the fixed-timestep game loop for deterministic simulation
type GameLoop struct {
	Sim         Simulation
	State       GameState
	TickRate    float64 // fixed ticks per second
	MaxFrame    float64 // longest frame (seconds) fed into the accumulator
	accumulator float64
	lastTime    time.Time
	now         func() time.Time
}

// NewGameLoop creates a game loop with fixed tick rate
func NewGameLoop(sim Simulation, tickRate float64) *GameLoop {
	return &GameLoop{
		Sim:      sim,
		TickRate: tickRate,
		MaxFrame: 0.25,
		now:      time.Now,
		lastTime: time.Now(),
	}
}

// Update should be called every render frame. It runs the simulation
// at fixed timestep and returns the interpolation alpha for rendering.
func (gl *GameLoop) Update() float64 {
	now := gl.now()
	frameTime := now.Sub(gl.lastTime).Seconds()
	gl.lastTime = now
	return gl.Advance(frameTime)
}

// Advance feeds frameTime seconds into the accumulator and runs
// as many fixed steps as fit.
func (gl *GameLoop) Advance(frameTime float64) float64 {
	// Cap frame time to avoid spiral of death
	if frameTime > gl.MaxFrame {
		frameTime = gl.MaxFrame
	}

	dt := gl.Step()
	gl.accumulator += frameTime

	for gl.accumulator >= dt {
		if gl.State == StatePlaying {
			gl.Sim.Tick(dt)
		}
		gl.accumulator -= dt
	}

	return gl.accumulator / dt
}

// Step returns the fixed step length in seconds
func (gl *GameLoop) Step() float64 {
	return 1.0 / gl.TickRate
}

// Play starts or resumes the game
func (gl *GameLoop) Play() {
	gl.State = StatePlaying
	gl.lastTime = gl.now()
}

// Pause pauses the game
func (gl *GameLoop) Pause() {
	gl.State = StatePaused
}

// TogglePause flips between playing and paused; other states are left alone
func (gl *GameLoop) TogglePause() {
	switch gl.State {
	case StatePlaying:
		gl.Pause()
	case StatePaused:
		gl.Play()
	}
}

// End stops the simulation for good
func (gl *GameLoop) End() {
	gl.State = StateGameOver
}

// CurrentTick returns the current simulation tick
func (gl *GameLoop) CurrentTick() uint64 {
	return gl.Sim.TickCount()
}
