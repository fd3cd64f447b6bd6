// Package config holds the game's tuning values. Defaults reproduce the
// classic arcade feel; a JSON file and GEOJUMP_* environment variables
// may override them.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid config")

// Duration is a time.Duration that reads and writes as "100ms" in JSON
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		var n int64
		if err2 := json.Unmarshal(b, &n); err2 != nil {
			return fmt.Errorf("duration: %w", err)
		}
		*d = Duration(time.Duration(n) * time.Millisecond)
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// World describes the playfield and the simulation rate
type World struct {
	ViewWidth  float64 `json:"view_width"`
	ViewHeight float64 `json:"view_height"`
	TickRate   float64 `json:"tick_rate"`
	CameraLead float64 `json:"camera_lead"` // player position across the view, 0 = left edge
	Seed       int64   `json:"seed"`        // particle RNG seed, 0 = time based
}

// Player tuning
type Player struct {
	Width         float64  `json:"width"`
	Height        float64  `json:"height"`
	SpawnX        float64  `json:"spawn_x"`
	Gravity       float64  `json:"gravity"`
	RunSpeed      float64  `json:"run_speed"` // applied while Right is held
	MinSpeed      float64  `json:"min_speed"` // horizontal speed floor
	GameOverDelay Duration `json:"game_over_delay"`
}

// Weapon tuning for the single-bullet weapon
type Weapon struct {
	Name            string   `json:"name"`
	Capacity        int      `json:"capacity"`
	FireRate        Duration `json:"fire_rate"`
	Speed           float64  `json:"speed"`
	Angle           float64  `json:"angle"`
	MuzzleX         float64  `json:"muzzle_x"`
	MuzzleY         float64  `json:"muzzle_y"`
	BulletSize      float64  `json:"bullet_size"`
	Tracking        bool     `json:"tracking"`
	ScaleRate       float64  `json:"scale_rate"`
	CameraCull      bool     `json:"camera_cull"`       // kill on leaving the camera, not just the world
	CooldownOnlyHit bool     `json:"cooldown_only_hit"` // advance cooldown only when a bullet fired
}

// Emitters tuning
type Emitters struct {
	Slots      int      `json:"slots"`
	Capacity   int      `json:"capacity"`
	BurstCount int      `json:"burst_count"`
	Lifespan   Duration `json:"lifespan"`
	ResetDelay Duration `json:"reset_delay"`
	Spread     float64  `json:"spread"`
}

// Enemies describes the stationary enemy column
type Enemies struct {
	Count   int     `json:"count"`
	X       float64 `json:"x"`
	TopY    float64 `json:"top_y"` // y of the first enemy; the rest stack upwards
	Spacing float64 `json:"spacing"`
	Size    float64 `json:"size"`
	Frames  []int   `json:"frames"` // state frame per enemy, missing entries are 0

	AnimFrames int     `json:"anim_frames"` // frames per animation cycle, < 2 = static
	AnimRate   float64 `json:"anim_rate"`   // frames per second
}

// Warp binds a list of tiles to a horizontal jump
type Warp struct {
	OffsetX  float64  `json:"offset_x"`
	OffsetY  float64  `json:"offset_y"`
	Duration Duration `json:"duration"`
	Tiles    [][2]int `json:"tiles"`
}

// Config is the full game configuration
type Config struct {
	World    World    `json:"world"`
	Player   Player   `json:"player"`
	Weapon   Weapon   `json:"weapon"`
	Emitters Emitters `json:"emitters"`
	Enemies  Enemies  `json:"enemies"`
	Warps    []Warp   `json:"warps"`
}

// Default returns the stock configuration
func Default() Config {
	return Config{
		World: World{
			ViewWidth:  800,
			ViewHeight: 340,
			TickRate:   60,
			CameraLead: 0.25,
		},
		Player: Player{
			Width:         20,
			Height:        20,
			SpawnX:        20,
			Gravity:       3000,
			RunSpeed:      300,
			MinSpeed:      400,
			GameOverDelay: Duration(500 * time.Millisecond),
		},
		Weapon: Weapon{
			Name:       "Single Bullet",
			Capacity:   64,
			FireRate:   Duration(100 * time.Millisecond),
			Speed:      600,
			MuzzleX:    10,
			MuzzleY:    10,
			BulletSize: 4,
			CameraCull: true,
		},
		Emitters: Emitters{
			Slots:      5,
			Capacity:   20,
			BurstCount: 10,
			Lifespan:   Duration(1000 * time.Millisecond),
			ResetDelay: Duration(200 * time.Millisecond),
			Spread:     150,
		},
		Enemies: Enemies{
			Count:   7,
			X:       540,
			TopY:    300,
			Spacing: 20,
			Size:    20,
		},
		Warps: []Warp{
			{
				OffsetX:  360,
				Duration: Duration(100 * time.Millisecond),
				Tiles:    [][2]int{{283, 15}, {460, 10}, {492, 10}, {698, 10}},
			},
			{
				OffsetX:  220,
				Duration: Duration(100 * time.Millisecond),
				Tiles:    [][2]int{{541, 7}, {541, 15}},
			},
		},
	}
}

// Load reads a JSON config on top of the defaults
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides a few values from the environment. getenv is
// usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	floats := []struct {
		key string
		dst *float64
	}{
		{"GEOJUMP_TICK_RATE", &c.World.TickRate},
		{"GEOJUMP_GRAVITY", &c.Player.Gravity},
		{"GEOJUMP_BULLET_SPEED", &c.Weapon.Speed},
	}
	for _, f := range floats {
		v := getenv(f.key)
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", f.key, v, err)
		}
		*f.dst = n
	}
	if v := getenv("GEOJUMP_SEED"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("GEOJUMP_SEED=%q: %w", v, err)
		}
		c.World.Seed = n
	}
	if v := getenv("GEOJUMP_FIRE_RATE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("GEOJUMP_FIRE_RATE=%q: %w", v, err)
		}
		c.Weapon.FireRate = Duration(d)
	}
	return nil
}

// Validate rejects configurations the session cannot run with
func (c *Config) Validate() error {
	switch {
	case c.World.TickRate <= 0:
		return fmt.Errorf("%w: world.tick_rate must be positive", ErrInvalid)
	case c.World.ViewWidth <= 0 || c.World.ViewHeight <= 0:
		return fmt.Errorf("%w: world view must be positive", ErrInvalid)
	case c.World.CameraLead < 0 || c.World.CameraLead > 1:
		return fmt.Errorf("%w: world.camera_lead must be within [0, 1]", ErrInvalid)
	case c.Player.Width <= 0 || c.Player.Height <= 0:
		return fmt.Errorf("%w: player size must be positive", ErrInvalid)
	case c.Weapon.Capacity < 1:
		return fmt.Errorf("%w: weapon.capacity must be at least 1", ErrInvalid)
	case c.Weapon.FireRate < 0:
		return fmt.Errorf("%w: weapon.fire_rate must not be negative", ErrInvalid)
	case c.Weapon.BulletSize <= 0:
		return fmt.Errorf("%w: weapon.bullet_size must be positive", ErrInvalid)
	case c.Emitters.Slots < 1:
		return fmt.Errorf("%w: emitters.slots must be at least 1", ErrInvalid)
	case c.Emitters.BurstCount > c.Emitters.Capacity:
		return fmt.Errorf("%w: emitters.burst_count %d exceeds capacity %d", ErrInvalid, c.Emitters.BurstCount, c.Emitters.Capacity)
	case c.Emitters.ResetDelay < 0 || c.Emitters.Lifespan <= 0:
		return fmt.Errorf("%w: emitter timings must be positive", ErrInvalid)
	case c.Enemies.Count < 0:
		return fmt.Errorf("%w: enemies.count must not be negative", ErrInvalid)
	case c.Enemies.AnimFrames < 0 || c.Enemies.AnimRate < 0:
		return fmt.Errorf("%w: enemy animation must not be negative", ErrInvalid)
	}
	for i, w := range c.Warps {
		if len(w.Tiles) == 0 {
			return fmt.Errorf("%w: warps[%d] has no tiles", ErrInvalid, i)
		}
		if w.Duration < 0 {
			return fmt.Errorf("%w: warps[%d].duration must not be negative", ErrInvalid, i)
		}
	}
	return nil
}

// TickDuration returns the fixed step as a duration
func (c *Config) TickDuration() time.Duration {
	return time.Duration(float64(time.Second) / c.World.TickRate)
}
