package core

// Side partitions the view for pointer taps
type Side uint8

const (
	SideNone Side = iota
	SideLeft
	SideRight
)

// InputFrame is the input state sampled for one simulation tick
type InputFrame struct {
	Up, Down, Left, Right bool
	Fire                  bool // fire key held

	Tapped     bool // pointer/touch went down this tick
	TapX, TapY int  // screen coordinates of the tap
}

// TapSide returns which half of a view of the given width the tap landed on
func (f InputFrame) TapSide(viewWidth float64) Side {
	if !f.Tapped {
		return SideNone
	}
	if float64(f.TapX) < viewWidth/2 {
		return SideLeft
	}
	return SideRight
}
