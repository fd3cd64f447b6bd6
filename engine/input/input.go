package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/1siamBot/geojump/engine/core"
)

// InputState tracks keyboard, mouse and touch state per frame
type InputState struct {
	// Mouse
	MouseX, MouseY  int
	LeftPressed     bool
	LeftJustPressed bool

	// Touch
	touchIDs []ebiten.TouchID

	// Keyboard
	KeysPressed map[ebiten.Key]bool

	// The frame handed to the simulation on the next Poll
	frame core.InputFrame
}

func NewInputState() *InputState {
	return &InputState{
		KeysPressed: make(map[ebiten.Key]bool),
	}
}

var gameKeys = []ebiten.Key{
	ebiten.KeyW, ebiten.KeyA, ebiten.KeyS, ebiten.KeyD,
	ebiten.KeyUp, ebiten.KeyDown, ebiten.KeyLeft, ebiten.KeyRight,
	ebiten.KeySpace, ebiten.KeyEscape, ebiten.KeyEnter,
	ebiten.KeyP, ebiten.KeyR,
}

// Update should be called every frame
func (s *InputState) Update() {
	s.MouseX, s.MouseY = ebiten.CursorPosition()
	s.LeftPressed = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	s.LeftJustPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)

	for _, k := range gameKeys {
		s.KeysPressed[k] = ebiten.IsKeyPressed(k)
	}

	f := core.InputFrame{
		Up:    s.KeysPressed[ebiten.KeyUp] || s.KeysPressed[ebiten.KeyW],
		Down:  s.KeysPressed[ebiten.KeyDown] || s.KeysPressed[ebiten.KeyS],
		Left:  s.KeysPressed[ebiten.KeyLeft] || s.KeysPressed[ebiten.KeyA],
		Right: s.KeysPressed[ebiten.KeyRight] || s.KeysPressed[ebiten.KeyD],
		Fire:  s.KeysPressed[ebiten.KeySpace],
	}

	// A fresh touch wins over the mouse; only one tap per frame
	s.touchIDs = inpututil.AppendJustPressedTouchIDs(s.touchIDs[:0])
	switch {
	case len(s.touchIDs) > 0:
		f.Tapped = true
		f.TapX, f.TapY = ebiten.TouchPosition(s.touchIDs[0])
	case s.LeftJustPressed:
		f.Tapped = true
		f.TapX, f.TapY = s.MouseX, s.MouseY
	}

	// Taps are edge events: keep one until the simulation consumes it,
	// since several frames may pass between ticks.
	if s.frame.Tapped && !f.Tapped {
		f.Tapped, f.TapX, f.TapY = true, s.frame.TapX, s.frame.TapY
	}
	s.frame = f
}

// Poll returns the current frame and consumes any pending tap
func (s *InputState) Poll() core.InputFrame {
	f := s.frame
	s.frame.Tapped = false
	return f
}

// IsKeyJustPressed returns true if key was just pressed this frame
func (s *InputState) IsKeyJustPressed(key ebiten.Key) bool {
	return inpututil.IsKeyJustPressed(key)
}
