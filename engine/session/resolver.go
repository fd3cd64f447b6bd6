package session

import (
	"github.com/1siamBot/geojump/engine/core"
	"github.com/1siamBot/geojump/engine/maplib"
	"github.com/1siamBot/geojump/engine/pool"
)

// HitPredicate is the narrow-phase check run after a bullet physically
// touches an enemy. Returning false leaves both alive.
type HitPredicate func(bullet, enemy *core.Body) bool

// BaseFrameOnly resolves hits only against enemies in their base frame
func BaseFrameOnly(_, enemy *core.Body) bool {
	return enemy.Frame == 0
}

// resolution receives the domain outcomes of a collision pass
type resolution interface {
	playerTouchedEnemy(enemy *core.Body)
	bulletHit(b *pool.Bullet, enemy *core.Body)
	bulletVetoed(b *pool.Bullet, enemy *core.Body)
	triggerEntered(pos maplib.TilePos, cb maplib.TriggerFunc)
}

// scene is what one collision pass looks at
type scene struct {
	player  *core.Body
	enemies []core.Body
	pools   []*pool.BulletPool
	terrain Terrain
}

// Resolver runs the per-tick collision passes in fixed order
type Resolver struct {
	Physics Physics
	Hit     HitPredicate

	// trigger tiles the player covered last tick and this tick
	inside, covering []maplib.TilePos
}

// NewResolver creates a resolver with the base-frame hit predicate
func NewResolver(phys Physics) *Resolver {
	return &Resolver{
		Physics:  phys,
		Hit:      BaseFrameOnly,
		inside:   make([]maplib.TilePos, 0, 8),
		covering: make([]maplib.TilePos, 0, 8),
	}
}

func (r *Resolver) resolve(sc scene, out resolution) {
	r.playerVsTerrain(sc)
	r.playerVsEnemies(sc, out)
	r.bulletsVsEnemies(sc, out)
	r.locationTriggers(sc, out)
}

// playerVsTerrain is a purely physical collision
func (r *Resolver) playerVsTerrain(sc scene) {
	if sc.player.Alive {
		r.Physics.CollideTiles(sc.player, sc.terrain)
	}
}

// playerVsEnemies is an overlap: touching any enemy kills the player
func (r *Resolver) playerVsEnemies(sc scene, out resolution) {
	for i := range sc.enemies {
		if !sc.player.Alive {
			return
		}
		e := &sc.enemies[i]
		if r.Physics.Overlap(sc.player, e) {
			out.playerTouchedEnemy(e)
		}
	}
}

// bulletsVsEnemies stops every touching bullet, then lets the hit
// predicate decide whether the contact counts.
func (r *Resolver) bulletsVsEnemies(sc scene, out resolution) {
	for _, p := range sc.pools {
		p.Each(func(b *pool.Bullet) {
			for i := range sc.enemies {
				if !b.Alive {
					return
				}
				e := &sc.enemies[i]
				if !r.Physics.Overlap(&b.Body, e) {
					continue
				}
				r.Physics.Separate(&b.Body, e)
				if r.Hit(&b.Body, e) {
					out.bulletHit(b, e)
				} else {
					out.bulletVetoed(b, e)
				}
			}
		})
	}
}

// locationTriggers fires callbacks for bound tiles the player just entered
func (r *Resolver) locationTriggers(sc scene, out resolution) {
	r.covering = r.covering[:0]
	if sc.player.Alive {
		sc.terrain.TriggersIn(sc.player.Rect(), func(pos maplib.TilePos, cb maplib.TriggerFunc) {
			r.covering = append(r.covering, pos)
			if !containsTile(r.inside, pos) {
				out.triggerEntered(pos, cb)
			}
		})
	}
	r.inside, r.covering = r.covering, r.inside
}

// reset forgets which trigger tiles the player was on
func (r *Resolver) reset() {
	r.inside = r.inside[:0]
	r.covering = r.covering[:0]
}

func containsTile(list []maplib.TilePos, p maplib.TilePos) bool {
	for _, q := range list {
		if q == p {
			return true
		}
	}
	return false
}
