// Package session owns one run of the game: the player, enemies, weapons,
// emitters and terrain, and advances them through the fixed tick pipeline.
package session

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/1siamBot/geojump/engine/camera"
	"github.com/1siamBot/geojump/engine/config"
	"github.com/1siamBot/geojump/engine/core"
	"github.com/1siamBot/geojump/engine/maplib"
	"github.com/1siamBot/geojump/engine/physics"
	"github.com/1siamBot/geojump/engine/pool"
	"github.com/1siamBot/geojump/engine/systems"
)

// Physics is the collision provider the session runs on
type Physics interface {
	Integrate(b *core.Body, dt float64)
	Overlap(a, b *core.Body) bool
	Separate(moving, fixed *core.Body) bool
	CollideTiles(b *core.Body, grid physics.TileGrid) bool
}

// Terrain is the tile world with its location triggers
type Terrain interface {
	physics.TileGrid
	Bounds() core.Rect
	TriggersIn(r core.Rect, fn func(pos maplib.TilePos, cb maplib.TriggerFunc))
}

// Camera follows the player and defines the visible region
type Camera interface {
	Follow(x, y float64)
	View() core.Rect
}

// InputSource yields the input for the next tick
type InputSource interface {
	Poll() core.InputFrame
}

// Options carries the collaborators of a session. Zero values get defaults.
type Options struct {
	Input  InputSource
	Camera Camera // camera.ForWorld over the map when nil

	Physics Physics
	Bus     *core.EventBus
	Logger  *slog.Logger
	Rand    *rand.Rand
}

// Stats counts what happened during a run
type Stats struct {
	BulletsFired  int
	ShotsDropped  int
	BulletsCulled int
	EnemiesKilled int
	HitsVetoed    int
	BurstsStarted int
	BurstsDropped int
	Warps         int
	Deaths        int
}

// Session is the explicit owner of all game state
type Session struct {
	ID string

	cfg     config.Config
	log     *slog.Logger
	bus     *core.EventBus
	ids     core.IDSource
	terrain Terrain
	phys    Physics
	camera  Camera
	input   InputSource

	player   core.Body
	enemies  []core.Body
	weapons  []*pool.Weapon
	bullets  []*pool.BulletPool
	current  int
	emitters *pool.EmitterPool
	resolver *Resolver
	tween    *physics.Tween
	anim     *systems.AnimationSystem

	now      time.Duration
	ticks    uint64
	diedAt   time.Duration
	gameOver bool
	stats    Stats
}

// New builds a session on top of a tile map. Warp triggers from the
// config are bound to the map here; bad tiles are rejected.
func New(cfg config.Config, tm *maplib.TileMap, opts Options) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if tm == nil {
		return nil, fmt.Errorf("session: nil tile map")
	}

	s := &Session{
		ID:      uuid.NewString(),
		cfg:     cfg,
		terrain: tm,
		phys:    opts.Physics,
		camera:  opts.Camera,
		input:   opts.Input,
		bus:     opts.Bus,
	}
	if s.phys == nil {
		s.phys = physics.NewArcade()
	}
	if s.input == nil {
		s.input = idleInput{}
	}
	if s.camera == nil {
		s.camera = camera.ForWorld(cfg.World, tm.Bounds())
	}
	if s.bus == nil {
		s.bus = core.NewEventBus()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s.log = logger.With("session", s.ID)
	rng := opts.Rand
	if rng == nil {
		seed := cfg.World.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}

	s.resolver = NewResolver(s.phys)
	s.buildWeapons()
	s.emitters = pool.NewEmitterPool(pool.EmitterSpec{
		Slots:      cfg.Emitters.Slots,
		Capacity:   cfg.Emitters.Capacity,
		BurstCount: cfg.Emitters.BurstCount,
		Lifespan:   cfg.Emitters.Lifespan.Std(),
		ResetDelay: cfg.Emitters.ResetDelay.Std(),
		Spread:     cfg.Emitters.Spread,
	}, rng)
	s.enemies = make([]core.Body, cfg.Enemies.Count)
	for i := range s.enemies {
		s.enemies[i].ID = s.ids.Next()
	}
	if cfg.Enemies.AnimFrames > 1 && cfg.Enemies.AnimRate > 0 {
		s.anim = systems.NewAnimationSystem(cfg.Enemies.AnimFrames, cfg.Enemies.AnimRate)
	}
	s.player.ID = s.ids.Next()

	if err := s.bindWarps(tm); err != nil {
		return nil, err
	}
	s.spawn()

	s.log.Info("session ready",
		"map", tm.Name,
		"bullets", cfg.Weapon.Capacity,
		"emitters", cfg.Emitters.Slots,
		"enemies", len(s.enemies),
		"triggers", tm.Triggers().Len())
	return s, nil
}

func (s *Session) buildWeapons() {
	wc := s.cfg.Weapon
	bounds := core.BoundsKillOnExitWorld
	if wc.CameraCull {
		bounds = core.BoundsKillOnExitCamera
	}
	bullets := pool.NewBulletPool(wc.Capacity, &s.ids, pool.BulletOptions{
		Width:     wc.BulletSize,
		Height:    wc.BulletSize,
		Bounds:    bounds,
		Tracking:  wc.Tracking,
		ScaleRate: wc.ScaleRate,
	})
	policy := pool.CooldownAlways
	if wc.CooldownOnlyHit {
		policy = pool.CooldownOnSuccess
	}
	s.weapons = []*pool.Weapon{pool.NewWeapon(pool.WeaponSpec{
		Name:     wc.Name,
		FireRate: wc.FireRate.Std(),
		Speed:    wc.Speed,
		Angle:    wc.Angle,
		MuzzleX:  wc.MuzzleX,
		MuzzleY:  wc.MuzzleY,
		Policy:   policy,
	}, bullets)}
	s.bullets = []*pool.BulletPool{bullets}
	s.current = 0
}

func (s *Session) bindWarps(tm *maplib.TileMap) error {
	for i, w := range s.cfg.Warps {
		for _, t := range w.Tiles {
			err := tm.Triggers().Bind(t[0], t[1], func(tx, ty int) {
				s.warp(tx, ty, w.OffsetX, w.OffsetY, w.Duration.Std())
			})
			if err != nil {
				return fmt.Errorf("warp %d: %w", i, err)
			}
		}
	}
	return nil
}

// spawn places the player and enemies at their starting positions
func (s *Session) spawn() {
	world := s.terrain.Bounds()
	pc := s.cfg.Player
	s.player.W, s.player.H = pc.Width, pc.Height
	s.player.Reset(pc.SpawnX, world.H/2)
	s.player.GravityX, s.player.GravityY = 0, pc.Gravity
	s.player.Bounds = core.BoundsNone
	s.camera.Follow(s.player.X, s.player.Y)

	ec := s.cfg.Enemies
	for i := range s.enemies {
		e := &s.enemies[i]
		e.W, e.H = ec.Size, ec.Size
		e.Immovable = true
		e.Frame = 0
		if i < len(ec.Frames) {
			e.Frame = ec.Frames[i]
		}
		// config positions are top-left corners
		e.Reset(ec.X+ec.Size/2, ec.TopY-ec.Spacing*float64(i)+ec.Size/2)
	}
}

// Restart respawns everything and clears the pools. Simulation time keeps running.
func (s *Session) Restart() {
	for _, w := range s.weapons {
		w.Reset()
	}
	s.emitters.Reset()
	s.resolver.reset()
	s.tween = nil
	if s.anim != nil {
		s.anim.Reset()
	}
	s.gameOver = false
	s.diedAt = 0
	s.spawn()
	s.log.Info("session restarted", "tick", s.ticks)
}

// Tick advances the simulation by one fixed step:
// input, physics, collisions, pool maintenance, bounds. Events raised
// during the tick are dispatched only after the whole pipeline ran.
func (s *Session) Tick(dt float64) {
	s.applyInput(s.input.Poll())
	s.integrate(dt)
	s.resolver.resolve(scene{
		player:  &s.player,
		enemies: s.enemies,
		pools:   s.bullets,
		terrain: s.terrain,
	}, s)
	s.maintain(dt)
	s.checkBounds()

	s.ticks++
	s.now += time.Duration(dt * float64(time.Second))
	s.bus.Dispatch()
}

// ---- (a) input ----

func (s *Session) applyInput(in core.InputFrame) {
	p := &s.player
	if !p.Alive {
		return
	}

	switch in.TapSide(s.camera.View().W) {
	case core.SideLeft:
		s.setGravity(-p.GravityY)
	case core.SideRight:
		s.fire()
	}

	pc := s.cfg.Player
	switch {
	case in.Up:
		s.setGravity(-pc.Gravity)
	case in.Down:
		s.setGravity(pc.Gravity)
	case in.Right:
		p.VX = pc.RunSpeed
	default:
		p.VX = 0
	}

	if in.Fire {
		s.fire()
	}

	if p.VX < pc.MinSpeed {
		p.VX = pc.MinSpeed
	}
}

func (s *Session) setGravity(gy float64) {
	if s.player.GravityY == gy {
		return
	}
	s.player.GravityY = gy
	s.emit(core.EvtGravityFlipped, core.PointPayload{X: s.player.X, Y: s.player.Y})
}

// fire shoots the current weapon. A weapon still cooling down is silent.
func (s *Session) fire() {
	w := s.weapons[s.current]
	if !w.Ready(s.now) {
		return
	}
	if w.Fire(s.now, &s.player) {
		s.stats.BulletsFired++
		s.emit(core.EvtBulletFired, core.PointPayload{X: s.player.X + w.MuzzleX, Y: s.player.Y + w.MuzzleY})
		return
	}
	s.stats.ShotsDropped++
	s.emit(core.EvtShotDropped, core.PointPayload{X: s.player.X, Y: s.player.Y})
}

// ---- (b) physics ----

func (s *Session) integrate(dt float64) {
	s.phys.Integrate(&s.player, dt)
	if s.tween != nil && s.player.Alive {
		if !s.tween.Apply(s.now) {
			s.tween = nil
		}
	}
	for i := range s.enemies {
		s.phys.Integrate(&s.enemies[i], dt)
	}
	if s.anim != nil {
		s.anim.Update(s.enemies, dt)
	}
	for _, w := range s.weapons {
		w.Pool.Each(func(b *pool.Bullet) {
			s.phys.Integrate(&b.Body, dt)
		})
		w.Pool.Update()
	}
	if s.player.Alive {
		s.camera.Follow(s.player.X, s.player.Y)
	}
}

// ---- (c) collision outcomes ----

func (s *Session) playerTouchedEnemy(_ *core.Body) {
	s.die(core.CauseEnemy)
}

func (s *Session) bulletHit(b *pool.Bullet, enemy *core.Body) {
	s.burst(enemy.X, enemy.Y)
	enemy.Kill()
	b.Kill()
	s.stats.EnemiesKilled++
	s.emit(core.EvtEnemyKilled, core.HitPayload{
		Bullet: b.ID,
		Enemy:  enemy.ID,
		Frame:  enemy.Frame,
		X:      enemy.X,
		Y:      enemy.Y,
	})
}

func (s *Session) bulletVetoed(b *pool.Bullet, enemy *core.Body) {
	s.stats.HitsVetoed++
	s.log.Debug("hit vetoed", "enemy", enemy.ID, "frame", enemy.Frame)
	s.emit(core.EvtHitVetoed, core.HitPayload{
		Bullet: b.ID,
		Enemy:  enemy.ID,
		Frame:  enemy.Frame,
		X:      b.X,
		Y:      b.Y,
	})
}

func (s *Session) triggerEntered(pos maplib.TilePos, cb maplib.TriggerFunc) {
	cb(pos.X, pos.Y)
}

// warp tweens the player by (dx, dy) over d
func (s *Session) warp(tx, ty int, dx, dy float64, d time.Duration) {
	p := &s.player
	if !p.Alive {
		return
	}
	s.tween = physics.NewTween(p, p.X+dx, p.Y+dy, s.now, d)
	s.stats.Warps++
	s.log.Info("warp", "tile_x", tx, "tile_y", ty, "dx", dx, "dy", dy)
	s.emit(core.EvtWarpStarted, core.WarpPayload{
		TileX: tx, TileY: ty,
		FromX: p.X, FromY: p.Y,
		ToX: p.X + dx, ToY: p.Y + dy,
	})
}

// burst starts a particle burst, or drops it when every emitter is busy
func (s *Session) burst(x, y float64) {
	slot, ok := s.emitters.Trigger(s.now, x, y)
	if !ok {
		s.stats.BurstsDropped++
		s.log.Debug("burst dropped", "x", x, "y", y)
		s.emit(core.EvtBurstDropped, core.PointPayload{X: x, Y: y})
		return
	}
	s.stats.BurstsStarted++
	s.emit(core.EvtBurstStarted, core.BurstPayload{Slot: slot, X: x, Y: y})
}

// die runs the death path once: burst at the last position, then kill
func (s *Session) die(cause core.DeathCause) {
	p := &s.player
	if !p.Alive {
		return
	}
	x, y := p.X, p.Y
	s.burst(x, y)
	p.Kill()
	s.tween = nil
	s.diedAt = s.now
	s.stats.Deaths++
	s.log.Info("player died", "cause", cause.String(), "x", x, "y", y, "tick", s.ticks)
	s.emit(core.EvtPlayerDied, core.DeathPayload{Cause: cause, X: x, Y: y})
}

// ---- (d) pool maintenance ----

func (s *Session) maintain(dt float64) {
	world, view := s.terrain.Bounds(), s.camera.View()
	for _, w := range s.weapons {
		s.stats.BulletsCulled += w.Pool.Cull(world, view)
	}
	s.emitters.Maintain(s.now, dt)
}

// ---- (e) bounds ----

func (s *Session) checkBounds() {
	p := &s.player
	if p.Alive {
		if world := s.terrain.Bounds(); p.Y < world.Y || p.Y > world.Bottom() {
			s.die(core.CauseOutOfWorld)
		}
		return
	}
	if !s.gameOver && s.now-s.diedAt >= s.cfg.Player.GameOverDelay.Std() {
		s.gameOver = true
		s.log.Info("game over", "tick", s.ticks)
		s.emit(core.EvtGameOver, nil)
	}
}

func (s *Session) emit(t core.EventType, payload interface{}) {
	s.bus.Emit(core.Event{Type: t, Tick: s.ticks, Time: s.now, Payload: payload})
}

// ---- accessors ----

// Now returns the simulation time at the start of the next tick
func (s *Session) Now() time.Duration { return s.now }

// TickCount returns the number of completed ticks
func (s *Session) TickCount() uint64 { return s.ticks }

// Player returns the player body
func (s *Session) Player() *core.Body { return &s.player }

// Enemies returns the enemy bodies
func (s *Session) Enemies() []core.Body { return s.enemies }

// Weapon returns the current weapon
func (s *Session) Weapon() *pool.Weapon { return s.weapons[s.current] }

// Weapons returns every active weapon
func (s *Session) Weapons() []*pool.Weapon { return s.weapons }

// Emitters returns the burst emitter pool
func (s *Session) Emitters() *pool.EmitterPool { return s.emitters }

// Resolver exposes the collision resolver, mostly to swap its hit predicate
func (s *Session) Resolver() *Resolver { return s.resolver }

// Bus returns the event bus the session emits on
func (s *Session) Bus() *core.EventBus { return s.bus }

// Camera returns the camera the session follows the player with
func (s *Session) Camera() Camera { return s.camera }

// Stats returns the run counters
func (s *Session) Stats() Stats { return s.stats }

// GameOver reports whether the game-over delay after death has passed
func (s *Session) GameOver() bool { return s.gameOver }

// Config returns the configuration the session was built with
func (s *Session) Config() config.Config { return s.cfg }

// idleInput never presses anything
type idleInput struct{}

func (idleInput) Poll() core.InputFrame { return core.InputFrame{} }
