// Package camera is the side-scrolling viewport. It has no drawing
// dependencies so headless runs cull against the same view the window shows.
package camera

import (
	"math"

	"github.com/1siamBot/geojump/engine/config"
	"github.com/1siamBot/geojump/engine/core"
)

// Camera is the side-scrolling viewport into the world
type Camera struct {
	X, Y    float64 // top-left corner in world pixels
	ScreenW int     // viewport width in pixels
	ScreenH int     // viewport height in pixels

	// Lead is how far from the left edge the followed target sits, as a
	// fraction of the screen width. 0.5 centers it.
	Lead float64

	// World bounds for clamping; zero size disables clamping
	World core.Rect
}

// New creates a camera that centers its target
func New(screenW, screenH int) *Camera {
	return &Camera{
		ScreenW: screenW,
		ScreenH: screenH,
		Lead:    0.5,
	}
}

// ForWorld builds the game camera from the world config, clamped to world
func ForWorld(w config.World, world core.Rect) *Camera {
	c := New(int(w.ViewWidth), int(w.ViewHeight))
	c.Lead = w.CameraLead
	c.SetWorldBounds(world)
	return c
}

// SetWorldBounds sets the world rectangle for camera clamping
func (c *Camera) SetWorldBounds(r core.Rect) {
	c.World = r
	c.clamp()
}

// Follow moves the camera so the target sits at the lead point
func (c *Camera) Follow(x, y float64) {
	c.X = x - float64(c.ScreenW)*c.Lead
	c.Y = y - float64(c.ScreenH)/2
	c.clamp()
}

// Pan moves the camera by pixel delta
func (c *Camera) Pan(dx, dy float64) {
	c.X += dx
	c.Y += dy
	c.clamp()
}

// View returns the visible world rectangle
func (c *Camera) View() core.Rect {
	return core.Rect{X: c.X, Y: c.Y, W: float64(c.ScreenW), H: float64(c.ScreenH)}
}

// WorldToScreen converts a world position to a screen pixel position
func (c *Camera) WorldToScreen(wx, wy float64) (float32, float32) {
	return float32(wx - c.X), float32(wy - c.Y)
}

// ScreenToWorld converts a screen pixel to a world position
func (c *Camera) ScreenToWorld(sx, sy int) (float64, float64) {
	return float64(sx) + c.X, float64(sy) + c.Y
}

// VisibleTileRange returns the inclusive range of tiles visible on screen
func (c *Camera) VisibleTileRange(tileSize float64, mapW, mapH int) (minX, minY, maxX, maxY int) {
	minX = int(math.Floor(c.X / tileSize))
	minY = int(math.Floor(c.Y / tileSize))
	maxX = int(math.Ceil((c.X+float64(c.ScreenW))/tileSize)) - 1
	maxY = int(math.Ceil((c.Y+float64(c.ScreenH))/tileSize)) - 1

	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX >= mapW {
		maxX = mapW - 1
	}
	if maxY >= mapH {
		maxY = mapH - 1
	}
	return
}

func (c *Camera) clamp() {
	if c.World.W <= 0 || c.World.H <= 0 {
		return
	}
	c.X = clampAxis(c.X, c.World.X, c.World.Right()-float64(c.ScreenW))
	c.Y = clampAxis(c.Y, c.World.Y, c.World.Bottom()-float64(c.ScreenH))
}

// clampAxis keeps v in [lo, hi]; a world smaller than the screen pins to lo
func clampAxis(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
