package pool

import (
	"time"

	"github.com/1siamBot/geojump/engine/core"
)

// CooldownPolicy decides whether an exhausted pool still consumes the cooldown
type CooldownPolicy uint8

const (
	// CooldownAlways starts the cooldown on every attempt past the rate
	// limiter, even when the pool had no free bullet.
	CooldownAlways CooldownPolicy = iota
	// CooldownOnSuccess starts the cooldown only when a bullet was fired.
	CooldownOnSuccess
)

// Weapon is a rate-limited firing policy over one bullet pool
type Weapon struct {
	Name     string
	Pool     *BulletPool
	FireRate time.Duration
	NextFire time.Duration // simulation time the weapon is ready again
	Speed    float64
	Angle    float64 // degrees
	MuzzleX  float64 // offset from the source body
	MuzzleY  float64
	Policy   CooldownPolicy
}

// WeaponSpec holds a weapon's tuning
type WeaponSpec struct {
	Name             string
	FireRate         time.Duration
	Speed            float64
	Angle            float64
	MuzzleX, MuzzleY float64
	Policy           CooldownPolicy
}

// NewWeapon wraps pool. A weapon owns its pool; pools are never shared.
func NewWeapon(spec WeaponSpec, pool *BulletPool) *Weapon {
	return &Weapon{
		Name:     spec.Name,
		Pool:     pool,
		FireRate: spec.FireRate,
		Speed:    spec.Speed,
		Angle:    spec.Angle,
		MuzzleX:  spec.MuzzleX,
		MuzzleY:  spec.MuzzleY,
		Policy:   spec.Policy,
	}
}

// Ready reports whether the cooldown has elapsed at now
func (w *Weapon) Ready(now time.Duration) bool {
	return now >= w.NextFire
}

// Fire shoots one bullet from the source's muzzle. Returns true if a
// bullet left the pool; a cooling-down weapon or an exhausted pool
// returns false.
func (w *Weapon) Fire(now time.Duration, source *core.Body) bool {
	if !w.Ready(now) {
		return false
	}
	fired := w.Pool.Fire(source.X+w.MuzzleX, source.Y+w.MuzzleY, w.Angle, w.Speed, 0, 0)
	if fired || w.Policy == CooldownAlways {
		w.NextFire = now + w.FireRate
	}
	return fired
}

// Reset makes the weapon ready and empties its pool
func (w *Weapon) Reset() {
	w.NextFire = 0
	w.Pool.Reset()
}
