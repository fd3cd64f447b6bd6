package render

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/1siamBot/geojump/engine/camera"
	"github.com/1siamBot/geojump/engine/core"
	"github.com/1siamBot/geojump/engine/maplib"
	"github.com/1siamBot/geojump/engine/pool"
	"github.com/1siamBot/geojump/engine/session"
)

// TileColors maps tile indices to colors (placeholder until real sprites)
var TileColors = map[int]color.RGBA{
	maplib.TileStone:  {96, 96, 112, 255},
	maplib.TileWood:   {139, 90, 43, 255},
	maplib.TileLedge:  {70, 130, 70, 255},
	maplib.TilePillar: {60, 60, 90, 255},
}

var (
	colPlayer   = color.RGBA{0, 220, 255, 255}
	colEnemy    = color.RGBA{230, 60, 60, 255}
	colShielded = color.RGBA{150, 60, 200, 255}
	colBullet   = color.RGBA{255, 255, 120, 255}
	colParticle = color.RGBA{255, 160, 40, 255}
	colTrigger  = color.RGBA{255, 255, 255, 60}
	colWarpPad  = color.RGBA{200, 180, 40, 90}
	colSky      = color.RGBA{20, 20, 36, 255}
)

// Renderer draws a session with flat debug shapes
type Renderer struct {
	Camera       *camera.Camera
	ShowTriggers bool
	TileCache    map[int]*ebiten.Image
	face         text.Face
}

// NewRenderer creates a renderer drawing through cam
func NewRenderer(cam *camera.Camera) *Renderer {
	return &Renderer{
		Camera:    cam,
		TileCache: make(map[int]*ebiten.Image),
		face:      text.NewGoXFace(basicfont.Face7x13),
	}
}

// GetTileImage returns (or creates) a cached square for a tile index
func (r *Renderer) GetTileImage(index, size int) *ebiten.Image {
	if img, ok := r.TileCache[index]; ok {
		return img
	}
	clr, ok := TileColors[index]
	if !ok {
		clr = color.RGBA{255, 0, 255, 255}
	}
	img := ebiten.NewImage(size, size)
	img.Fill(clr)
	s := float32(size)
	edge := color.RGBA{0, 0, 0, 80}
	vector.StrokeLine(img, 0, 0, s, 0, 1, edge, false)
	vector.StrokeLine(img, 0, 0, 0, s, 1, edge, false)
	r.TileCache[index] = img
	return img
}

// Draw renders the whole frame: terrain, bodies, particles and the HUD
func (r *Renderer) Draw(screen *ebiten.Image, s *session.Session, tm *maplib.TileMap, state core.GameState) {
	screen.Fill(colSky)
	r.DrawMap(screen, tm)
	if r.ShowTriggers {
		r.DrawTriggers(screen, tm)
	}
	enemies := s.Enemies()
	for i := range enemies {
		e := &enemies[i]
		if !e.Alive {
			continue
		}
		clr := colEnemy
		if e.Frame != 0 {
			clr = colShielded
		}
		r.drawBody(screen, e, clr)
	}
	for _, w := range s.Weapons() {
		r.DrawBullets(screen, w.Pool)
	}
	r.DrawParticles(screen, s.Emitters())
	if p := s.Player(); p.Alive {
		r.drawBody(screen, p, colPlayer)
	}
	r.DrawHUD(screen, s, state)
}

// DrawMap renders the visible portion of the tile map
func (r *Renderer) DrawMap(screen *ebiten.Image, tm *maplib.TileMap) {
	ts := tm.TileSize()
	minX, minY, maxX, maxY := r.Camera.VisibleTileRange(ts, tm.Width, tm.Height)
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			idx := tm.At(x, y)
			if idx == maplib.TileEmpty {
				continue
			}
			sx, sy := r.Camera.WorldToScreen(float64(x)*ts, float64(y)*ts)
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(float64(sx), float64(sy))
			screen.DrawImage(r.GetTileImage(idx, tm.TileWidth), op)
		}
	}
}

// DrawTriggers shades and outlines every bound trigger tile on screen
func (r *Renderer) DrawTriggers(screen *ebiten.Image, tm *maplib.TileMap) {
	ts := tm.TileSize()
	minX, minY, maxX, maxY := r.Camera.VisibleTileRange(ts, tm.Width, tm.Height)
	for _, pos := range tm.Triggers().Positions() {
		if pos.X < minX || pos.X > maxX || pos.Y < minY || pos.Y > maxY {
			continue
		}
		sx, sy := r.Camera.WorldToScreen(float64(pos.X)*ts, float64(pos.Y)*ts)
		vector.DrawFilledRect(screen, sx, sy, float32(ts), float32(ts), colWarpPad, false)
		vector.StrokeRect(screen, sx, sy, float32(ts), float32(ts), 1, colTrigger, false)
	}
}

// DrawBullets renders the live bullets of a pool
func (r *Renderer) DrawBullets(screen *ebiten.Image, p *pool.BulletPool) {
	p.Each(func(b *pool.Bullet) {
		sx, sy := r.Camera.WorldToScreen(b.X, b.Y)
		w := float32(b.W * b.Scale)
		h := float32(b.H * b.Scale)
		vector.DrawFilledRect(screen, sx-w/2, sy-h/2, w, h, colBullet, false)
	})
}

// DrawParticles renders the running particles of every burst slot
func (r *Renderer) DrawParticles(screen *ebiten.Image, ep *pool.EmitterPool) {
	for _, slot := range ep.Slots() {
		for i := range slot.Particles {
			pt := &slot.Particles[i]
			if !pt.Alive() {
				continue
			}
			// fade out over the particle's lifetime
			a := 1 - float64(pt.Age)/float64(pt.Life)
			clr := colParticle
			clr.A = uint8(255 * a)
			sx, sy := r.Camera.WorldToScreen(pt.X, pt.Y)
			vector.DrawFilledRect(screen, sx-1, sy-1, 3, 3, clr, false)
		}
	}
}

func (r *Renderer) drawBody(screen *ebiten.Image, b *core.Body, clr color.RGBA) {
	rect := b.Rect()
	sx, sy := r.Camera.WorldToScreen(rect.X, rect.Y)
	vector.DrawFilledRect(screen, sx, sy, float32(rect.W), float32(rect.H), clr, false)
}

// DrawHUD draws the status text in the top-left corner
func (r *Renderer) DrawHUD(screen *ebiten.Image, s *session.Session, state core.GameState) {
	st := s.Stats()
	w := s.Weapon()
	lines := []string{
		fmt.Sprintf("%s  tick %d  %s", state, s.TickCount(), s.Now().Truncate(1e6)),
		fmt.Sprintf("%s  %d/%d live  fired %d  dropped %d", w.Name, w.Pool.Active(), w.Pool.Capacity(), st.BulletsFired, st.ShotsDropped),
		fmt.Sprintf("kills %d  vetoed %d  bursts %d/%d idle  warps %d", st.EnemiesKilled, st.HitsVetoed, s.Emitters().Available(), s.Emitters().Size(), st.Warps),
	}
	switch state {
	case core.StatePaused:
		lines = append(lines, "PAUSED - P to resume")
	case core.StateGameOver:
		lines = append(lines, "GAME OVER - R to restart")
	}
	for i, l := range lines {
		op := &text.DrawOptions{}
		op.GeoM.Translate(8, float64(8+i*16))
		op.ColorScale.ScaleWithColor(color.White)
		text.Draw(screen, l, r.face, op)
	}
}
