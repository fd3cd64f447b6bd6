package core

// Script is an authored input source. Each Poll returns the next frame;
// once the script runs out it returns the Hold frame forever.
type Script struct {
	Frames []InputFrame
	Hold   InputFrame
	pos    int
}

// NewScript creates a script over frames
func NewScript(frames ...InputFrame) *Script {
	return &Script{Frames: frames}
}

// Repeat appends n copies of f
func (s *Script) Repeat(f InputFrame, n int) *Script {
	for i := 0; i < n; i++ {
		s.Frames = append(s.Frames, f)
	}
	return s
}

func (s *Script) Poll() InputFrame {
	if s.pos >= len(s.Frames) {
		return s.Hold
	}
	f := s.Frames[s.pos]
	s.pos++
	return f
}

// Done reports whether every scripted frame was consumed
func (s *Script) Done() bool { return s.pos >= len(s.Frames) }
