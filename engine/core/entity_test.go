package core

import "testing"

func TestRectIntersectsVsOverlaps(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}
	tests := []struct {
		name       string
		b          Rect
		intersects bool
		overlaps   bool
	}{
		{"inside", Rect{X: 2, Y: 2, W: 2, H: 2}, true, true},
		{"partial", Rect{X: 5, Y: 5, W: 10, H: 10}, true, true},
		{"touching edge", Rect{X: 10, Y: 0, W: 5, H: 5}, true, false},
		{"touching corner", Rect{X: 10, Y: 10, W: 5, H: 5}, true, false},
		{"apart", Rect{X: 11, Y: 0, W: 5, H: 5}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Intersects(tt.b); got != tt.intersects {
				t.Errorf("Intersects = %v, want %v", got, tt.intersects)
			}
			if got := a.Overlaps(tt.b); got != tt.overlaps {
				t.Errorf("Overlaps = %v, want %v", got, tt.overlaps)
			}
		})
	}
}

func TestBodyRectIsCentered(t *testing.T) {
	b := Body{W: 20, H: 10}
	b.Reset(100, 50)
	r := b.Rect()
	if r.X != 90 || r.Y != 45 || r.W != 20 || r.H != 10 {
		t.Errorf("Rect = %+v", r)
	}
	if !b.Alive {
		t.Error("Reset should revive the body")
	}
}

func TestBodyOutside(t *testing.T) {
	world := Rect{W: 100, H: 100}
	b := Body{W: 4, H: 4}
	b.Reset(50, 50)
	if b.Outside(world) {
		t.Error("body in the middle reported outside")
	}
	b.X = 101 // left edge at 99, still touching
	if b.Outside(world) {
		t.Error("body straddling the edge reported outside")
	}
	b.X = 103
	if !b.Outside(world) {
		t.Error("body past the edge reported inside")
	}
}

func TestKillStopsBody(t *testing.T) {
	b := Body{}
	b.Reset(0, 0)
	b.VX, b.VY = 3, 4
	if b.Speed() != 5 {
		t.Errorf("Speed = %v, want 5", b.Speed())
	}
	b.Kill()
	if b.Alive || b.VX != 0 || b.VY != 0 {
		t.Errorf("killed body = %+v", b)
	}
}

func TestIDSourceIsUnique(t *testing.T) {
	var ids IDSource
	seen := make(map[EntityID]bool)
	for i := 0; i < 100; i++ {
		id := ids.Next()
		if id == 0 || seen[id] {
			t.Fatalf("bad id %d at %d", id, i)
		}
		seen[id] = true
	}
}

func TestTapSide(t *testing.T) {
	tests := []struct {
		in   InputFrame
		want Side
	}{
		{InputFrame{}, SideNone},
		{InputFrame{Tapped: true, TapX: 0}, SideLeft},
		{InputFrame{Tapped: true, TapX: 399}, SideLeft},
		{InputFrame{Tapped: true, TapX: 400}, SideRight},
		{InputFrame{Tapped: true, TapX: 799}, SideRight},
	}
	for _, tt := range tests {
		if got := tt.in.TapSide(800); got != tt.want {
			t.Errorf("TapSide(%+v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
