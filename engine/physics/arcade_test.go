package physics

import (
	"math"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/1siamBot/geojump/engine/core"
)

type gridStub struct {
	size  float64
	solid map[[2]int]bool
}

func newGrid(size float64, cells ...[2]int) *gridStub {
	g := &gridStub{size: size, solid: make(map[[2]int]bool)}
	for _, c := range cells {
		g.solid[c] = true
	}
	return g
}

func (g *gridStub) TileSize() float64       { return g.size }
func (g *gridStub) SolidAt(tx, ty int) bool { return g.solid[[2]int{tx, ty}] }

func near(a, b float64) bool { return math.Abs(a-b) < 1e-3 }

func body(x, y, w, h float64) *core.Body {
	b := &core.Body{W: w, H: h}
	b.Reset(x, y)
	return b
}

func TestVelocityFromAngle(t *testing.T) {
	tests := []struct {
		angle, speed float64
		vx, vy       float64
	}{
		{0, 600, 600, 0},
		{90, 600, 0, 600},
		{180, 10, -10, 0},
		{-90, 10, 0, -10},
	}
	for _, tt := range tests {
		vx, vy := VelocityFromAngle(tt.angle, tt.speed)
		if !near(vx, tt.vx) || !near(vy, tt.vy) {
			t.Errorf("VelocityFromAngle(%v, %v) = (%v, %v), want (%v, %v)", tt.angle, tt.speed, vx, vy, tt.vx, tt.vy)
		}
	}
}

func TestVelocityMagnitudeMatchesSpeed(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		angle := rapid.Float64Range(-720, 720).Draw(t, "angle")
		speed := rapid.Float64Range(0, 5000).Draw(t, "speed")
		vx, vy := VelocityFromAngle(angle, speed)
		if got := math.Hypot(vx, vy); math.Abs(got-speed) > 1e-6*math.Max(1, speed) {
			t.Fatalf("|v| = %v, want %v", got, speed)
		}
	})
}

func TestIntegrateAppliesGravity(t *testing.T) {
	a := NewArcade()
	b := body(0, 0, 10, 10)
	b.GravityY = 3000
	a.Integrate(b, 0.5)
	if b.VY != 1500 || b.Y != 750 {
		t.Errorf("after integrate VY=%v Y=%v, want 1500 and 750", b.VY, b.Y)
	}
	if b.PrevY != 0 {
		t.Errorf("PrevY = %v, want 0", b.PrevY)
	}

	dead := body(0, 0, 10, 10)
	dead.GravityY = 3000
	dead.Kill()
	a.Integrate(dead, 0.5)
	if dead.Y != 0 || dead.VY != 0 {
		t.Errorf("dead body moved: %+v", dead)
	}

	wall := body(0, 0, 10, 10)
	wall.Immovable = true
	wall.VX = 100
	a.Integrate(wall, 0.5)
	if wall.X != 0 {
		t.Errorf("immovable body moved to %v", wall.X)
	}
}

func TestIntegrateClampsVelocity(t *testing.T) {
	a := &Arcade{MaxVelocity: 100}
	b := body(0, 0, 1, 1)
	b.VX, b.VY = 500, -500
	a.Integrate(b, 1)
	if b.VX != 100 || b.VY != -100 {
		t.Errorf("velocity = (%v, %v), want clamped to 100", b.VX, b.VY)
	}
}

func TestCollideTilesLandsOnFloor(t *testing.T) {
	a := NewArcade()
	grid := newGrid(20, [2]int{0, 5}, [2]int{1, 5}, [2]int{2, 5}, [2]int{3, 5})
	b := body(30, 85, 20, 20)
	b.X, b.Y = 30, 95 // moved 10px down, bottom now at 105 inside row 5
	b.VY = 600

	if !a.CollideTiles(b, grid) {
		t.Fatal("expected a collision with the floor")
	}
	if !near(b.Y, 90) {
		t.Errorf("Y = %v, want resting on the floor at 90", b.Y)
	}
	if b.VY != 0 || !b.Blocked.Down {
		t.Errorf("VY=%v Blocked=%+v", b.VY, b.Blocked)
	}

	// standing still on the floor is not a collision
	b.PrevX, b.PrevY = b.X, b.Y
	b.Blocked = core.Touching{}
	if a.CollideTiles(b, grid) {
		t.Errorf("resting body collided again: %+v", b.Blocked)
	}
}

func TestCollideTilesStopsAtWall(t *testing.T) {
	a := NewArcade()
	grid := newGrid(20, [2]int{3, 1})
	b := body(45, 30, 20, 20)
	b.X = 52
	b.VX = 400

	a.CollideTiles(b, grid)
	if !near(b.X, 50) || !b.Blocked.Right || b.VX != 0 {
		t.Errorf("X=%v VX=%v Blocked=%+v, want stopped at 50", b.X, b.VX, b.Blocked)
	}
}

func TestCollideTilesCeilingWithFlippedGravity(t *testing.T) {
	a := NewArcade()
	grid := newGrid(20, [2]int{1, 0})
	b := body(30, 35, 20, 20)
	b.Y = 28 // top at 18, inside row 0
	b.VY = -400

	a.CollideTiles(b, grid)
	if !near(b.Y, 30) || !b.Blocked.Up || b.VY != 0 {
		t.Errorf("Y=%v VY=%v Blocked=%+v, want stopped under the ceiling at 30", b.Y, b.VY, b.Blocked)
	}
}

func TestOverlapIgnoresTouchingAndDead(t *testing.T) {
	a := NewArcade()
	x := body(0, 0, 10, 10)
	y := body(10, 0, 10, 10)
	if a.Overlap(x, y) {
		t.Error("touching bodies overlap")
	}
	y.X = 9
	if !a.Overlap(x, y) {
		t.Error("overlapping bodies don't overlap")
	}
	y.Kill()
	if a.Overlap(x, y) {
		t.Error("dead body overlaps")
	}
}

func TestSeparatePushesOutAlongShallowAxis(t *testing.T) {
	a := NewArcade()
	bullet := body(21, 10, 4, 4)
	bullet.VX = 600
	enemy := body(30, 10, 20, 20)
	enemy.Immovable = true

	if !a.Separate(bullet, enemy) {
		t.Fatal("Separate reported no overlap")
	}
	if a.Overlap(bullet, enemy) {
		t.Errorf("still overlapping after Separate: bullet at %v", bullet.X)
	}
	if bullet.VX != 0 || !bullet.Blocked.Right {
		t.Errorf("VX=%v Blocked=%+v", bullet.VX, bullet.Blocked)
	}
	if enemy.X != 30 || enemy.Y != 10 {
		t.Errorf("fixed body moved to (%v, %v)", enemy.X, enemy.Y)
	}
	if a.Separate(bullet, enemy) {
		t.Error("second Separate should find nothing to do")
	}
}

func TestTilesUnder(t *testing.T) {
	var got [][2]int
	TilesUnder(core.Rect{X: 10, Y: 0, W: 20, H: 20}, 20, func(tx, ty int) {
		got = append(got, [2]int{tx, ty})
	})
	want := [][2]int{{0, 0}, {1, 0}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tile %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTweenReachesDestination(t *testing.T) {
	b := body(100, 50, 20, 20)
	tw := NewTween(b, 460, 50, time.Second, 100*time.Millisecond)

	if !tw.Apply(time.Second + 50*time.Millisecond) {
		t.Fatal("tween finished halfway")
	}
	if !near(b.X, 280) {
		t.Errorf("halfway X = %v, want 280", b.X)
	}

	b.Y = 77 // physics moved the body vertically
	if tw.Apply(time.Second + 100*time.Millisecond) {
		t.Error("tween still running at its end")
	}
	if b.X != 460 {
		t.Errorf("final X = %v, want 460", b.X)
	}
	if b.Y != 77 {
		t.Errorf("tween touched the undisplaced axis: Y = %v", b.Y)
	}
	if !tw.Done() || tw.Apply(2*time.Second) {
		t.Error("finished tween should stay done")
	}
}
