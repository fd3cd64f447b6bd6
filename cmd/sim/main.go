// Command sim runs the game headless at full speed. It drives the session
// from a replay file or a simple autopilot and logs what happened.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/1siamBot/geojump/engine/config"
	"github.com/1siamBot/geojump/engine/core"
	"github.com/1siamBot/geojump/engine/maplib"
	"github.com/1siamBot/geojump/engine/replay"
	"github.com/1siamBot/geojump/engine/session"
)

type options struct {
	config   string
	mapPath  string
	ticks    uint64
	replay   string
	record   string
	seed     int64
	seedSet  bool // -seed given on the command line
	flipEach int
	progress time.Duration
}

func main() {
	var o options
	flag.StringVar(&o.config, "config", "", "JSON config file")
	flag.StringVar(&o.mapPath, "map", "", "JSON tile map (the stock level when empty)")
	flag.Uint64Var(&o.ticks, "ticks", 3600, "maximum ticks to simulate")
	flag.StringVar(&o.replay, "replay", "", "replay file to drive the input")
	flag.StringVar(&o.record, "record", "", "record the autopilot input to this file")
	flag.Int64Var(&o.seed, "seed", 1, "particle RNG seed when the config has none (ignored with -replay)")
	flag.IntVar(&o.flipEach, "flip", 45, "autopilot: flip gravity every n ticks, 0 = never")
	flag.DurationVar(&o.progress, "progress", time.Second, "progress log interval")
	flag.Parse()
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			o.seedSet = true
		}
	})

	logger, err := config.LoggerFromEnv(os.Stderr, os.Getenv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, o, logger); err != nil {
		logger.Error("sim failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, o options, logger *slog.Logger) error {
	cfg := config.Default()
	if o.config != "" {
		var err error
		if cfg, err = config.Load(o.config); err != nil {
			return err
		}
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return err
	}
	cfg.World.Seed = o.resolveSeed(cfg.World.Seed)

	tm := maplib.GenerateLevel(720)
	if o.mapPath != "" {
		var err error
		if tm, err = maplib.LoadJSON(o.mapPath); err != nil {
			return err
		}
	}

	var src session.InputSource
	if o.replay != "" {
		rp, err := replay.Load(o.replay)
		if err != nil {
			return err
		}
		cfg.World.Seed = rp.Seed
		p := replay.NewPlayer(rp)
		if uint64(p.Len()) < o.ticks {
			o.ticks = uint64(p.Len())
		}
		src = p
	} else {
		src = autopilot(o.ticks, o.flipEach, cfg.World.ViewWidth)
	}

	if o.record != "" {
		rec, err := replay.Create(o.record, src, cfg.World.Seed)
		if err != nil {
			return err
		}
		defer func() {
			if err := rec.Close(); err != nil {
				logger.Error("close replay", "err", err)
			}
		}()
		src = rec
	}

	bus := core.NewEventBus()
	counts := make(map[core.EventType]int)
	bus.OnAll(func(e core.Event) { counts[e.Type]++ })

	s, err := session.New(cfg, tm, session.Options{Input: src, Bus: bus, Logger: logger})
	if err != nil {
		return err
	}
	loop := core.NewGameLoop(s, cfg.World.TickRate)
	bus.On(core.EvtGameOver, func(core.Event) { loop.End() })
	loop.Play()

	var done atomic.Uint64
	finished := make(chan struct{})
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(finished)
		for loop.CurrentTick() < o.ticks && loop.State == core.StatePlaying {
			if gctx.Err() != nil {
				logger.Warn("interrupted", "tick", loop.CurrentTick())
				return nil
			}
			loop.Advance(loop.Step())
			done.Store(loop.CurrentTick())
		}
		return nil
	})

	g.Go(func() error {
		t := time.NewTicker(o.progress)
		defer t.Stop()
		for {
			select {
			case <-finished:
				return nil
			case <-gctx.Done():
				return nil
			case <-t.C:
				logger.Info("progress", "tick", done.Load(), "of", o.ticks)
			}
		}
	})

	start := time.Now()
	err = g.Wait()
	summarize(logger, s, counts, time.Since(start))
	return err
}

// resolveSeed picks the RNG seed: an explicit -seed wins, then the config
// file or GEOJUMP_SEED, then the flag default.
func (o options) resolveSeed(cfgSeed int64) int64 {
	if o.seedSet || cfgSeed == 0 {
		return o.seed
	}
	return cfgSeed
}

// autopilot runs right holding fire and flips gravity by tapping the left
// half of the screen every flipEach ticks.
func autopilot(ticks uint64, flipEach int, viewWidth float64) *core.Script {
	run := core.InputFrame{Right: true, Fire: true}
	sc := core.NewScript()
	sc.Hold = run
	if flipEach <= 0 {
		return sc
	}
	flip := run
	flip.Tapped, flip.TapX, flip.TapY = true, int(viewWidth/4), 10
	sc.Repeat(run, flipEach)
	for uint64(len(sc.Frames)) < ticks {
		sc.Frames = append(sc.Frames, flip)
		sc.Repeat(run, flipEach-1)
	}
	return sc
}

func summarize(logger *slog.Logger, s *session.Session, counts map[core.EventType]int, elapsed time.Duration) {
	types := make([]core.EventType, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	attrs := make([]any, 0, 2*len(types)+8)
	for _, t := range types {
		attrs = append(attrs, t.String(), counts[t])
	}
	st := s.Stats()
	attrs = append(attrs,
		"ticks", s.TickCount(),
		"sim_time", s.Now(),
		"culled", st.BulletsCulled,
		"elapsed", elapsed)
	logger.Info("run finished", attrs...)
}
