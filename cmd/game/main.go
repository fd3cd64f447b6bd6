package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/1siamBot/geojump/engine/camera"
	"github.com/1siamBot/geojump/engine/config"
	"github.com/1siamBot/geojump/engine/core"
	"github.com/1siamBot/geojump/engine/input"
	"github.com/1siamBot/geojump/engine/maplib"
	"github.com/1siamBot/geojump/engine/render"
	"github.com/1siamBot/geojump/engine/replay"
	"github.com/1siamBot/geojump/engine/session"
)

const LevelWidth = 720 // tiles

// Game implements ebiten.Game interface
type Game struct {
	cfg      config.Config
	renderer *render.Renderer
	tileMap  *maplib.TileMap
	gameLoop *core.GameLoop
	input    *input.InputState
	session  *session.Session
	recorder *replay.Recorder
	log      *slog.Logger
}

func NewGame(cfg config.Config, tm *maplib.TileMap, recordPath string, logger *slog.Logger) (*Game, error) {
	g := &Game{
		cfg:      cfg,
		renderer: render.NewRenderer(camera.ForWorld(cfg.World, tm.Bounds())),
		tileMap:  tm,
		input:    input.NewInputState(),
		log:      logger,
	}

	var src session.InputSource = g.input
	if recordPath != "" {
		rec, err := replay.Create(recordPath, g.input, cfg.World.Seed)
		if err != nil {
			return nil, fmt.Errorf("record: %w", err)
		}
		g.recorder = rec
		src = rec
	}

	bus := core.NewEventBus()
	s, err := session.New(cfg, tm, session.Options{
		Input:  src,
		Camera: g.renderer.Camera,
		Bus:    bus,
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	g.session = s
	g.gameLoop = core.NewGameLoop(s, cfg.World.TickRate)

	bus.On(core.EvtGameOver, func(core.Event) {
		g.gameLoop.End()
	})

	// Start the game
	g.gameLoop.Play()
	return g, nil
}

func (g *Game) Update() error {
	g.input.Update()

	if g.input.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if g.input.IsKeyJustPressed(ebiten.KeyP) {
		g.gameLoop.TogglePause()
	}
	if g.input.IsKeyJustPressed(ebiten.KeyR) {
		// a replay has no restart marker, so the recording ends here
		if err := g.stopRecording("restart"); err != nil {
			g.log.Error("close replay", "err", err)
		}
		g.session.Restart()
		g.gameLoop.Play()
	}
	if g.input.IsKeyJustPressed(ebiten.KeyT) {
		g.renderer.ShowTriggers = !g.renderer.ShowTriggers
	}

	g.gameLoop.Update()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen, g.session, g.tileMap, g.gameLoop.State)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(g.cfg.World.ViewWidth), int(g.cfg.World.ViewHeight)
}

// Close finishes the replay recording if there is one
func (g *Game) Close() error {
	return g.stopRecording("exit")
}

// stopRecording closes the replay. Input keeps passing through the
// recorder unrecorded.
func (g *Game) stopRecording(reason string) error {
	if g.recorder == nil {
		return nil
	}
	rec := g.recorder
	g.recorder = nil
	if err := rec.Close(); err != nil {
		return err
	}
	g.log.Info("replay saved", "frames", rec.Frames(), "reason", reason)
	return nil
}

func loadLevel(path string) (*maplib.TileMap, error) {
	if path == "" {
		return maplib.GenerateLevel(LevelWidth), nil
	}
	return maplib.LoadJSON(path)
}

func main() {
	cfgPath := flag.String("config", "", "JSON config file (defaults apply when empty)")
	mapPath := flag.String("map", "", "JSON tile map (the stock level when empty)")
	record := flag.String("record", "", "record the input to this replay file")
	flag.Parse()

	logger, err := config.LoggerFromEnv(os.Stderr, os.Getenv)
	if err != nil {
		log.Fatal(err)
	}
	slog.SetDefault(logger)

	cfg := config.Default()
	if *cfgPath != "" {
		if cfg, err = config.Load(*cfgPath); err != nil {
			log.Fatal(err)
		}
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		log.Fatal(err)
	}
	// pin the seed so a recording can be replayed
	if cfg.World.Seed == 0 {
		cfg.World.Seed = time.Now().UnixNano()
	}

	tm, err := loadLevel(*mapPath)
	if err != nil {
		log.Fatal(err)
	}

	game, err := NewGame(cfg, tm, *record, logger)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowSize(int(cfg.World.ViewWidth), int(cfg.World.ViewHeight))
	ebiten.SetWindowTitle("GeoJump")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(int(cfg.World.TickRate))

	runErr := ebiten.RunGame(game)
	if err := game.Close(); err != nil {
		logger.Error("close replay", "err", err)
	}
	if runErr != nil && !errors.Is(runErr, ebiten.Termination) {
		log.Fatal(runErr)
	}
}
