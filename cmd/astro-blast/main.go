package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/astro-blast/audio"
	"github.com/lixenwraith/astro-blast/config"
	"github.com/lixenwraith/astro-blast/engine"
	"github.com/lixenwraith/astro-blast/event"
	"github.com/lixenwraith/astro-blast/game"
	"github.com/lixenwraith/astro-blast/physics"
	"github.com/lixenwraith/astro-blast/render"
	"github.com/lixenwraith/astro-blast/worker"
)

var (
	configFlag = flag.String("config", "astro-blast.toml", "Path to the configuration file")
	playerFlag = flag.String("player", "", "Player name, overrides the configured one")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *playerFlag != "" {
		cfg.Game.Player = *playerFlag
	}

	// The terminal owns stdout, so all logging goes to a file
	logger, err := cfg.Log.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Simulation core
	dispatcher := event.NewDispatcher[engine.Event]()
	ecs := engine.NewECS(dispatcher.Sender())
	players := game.NewPlayers()
	game.RegisterSystems(ecs, players)

	collisions := physics.New(ecs, dispatcher.Sender())
	dispatcher.AddHandler(collisions.HandleEvent)
	dispatcher.AddHandler(players.HandleEvent)

	sound, err := audio.New(cfg.Audio.Enabled)
	if err != nil {
		// Non-fatal, the game runs without sound
		logger.Warn("audio unavailable", zap.Error(err))
	}
	dispatcher.AddHandler(sound.HandleEvent)

	controller := game.NewController(ecs, players, cfg.Game.Player)

	// World-level rules on the logic loop
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	logic := game.NewLoop()
	logic.Add(game.NewAsteroidSpawner(ecs, players, rng))
	logic.Add(game.NewWeaponFirer(ecs))

	respawner := game.NewPlayerRespawner(ecs, players)
	respawner.Bound = func(name string, craft engine.EntityID) {
		logger.Info("spacecraft issued", zap.String("player", name), zap.Uint64("entity", uint64(craft)))
		if name == controller.Name() {
			controller.Track(craft)
		}
	}
	logic.Add(respawner)

	renderer, err := render.New(ecs, controller)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		os.Exit(1)
	}
	defer renderer.Close()

	logger.Info("starting",
		zap.String("player", cfg.Game.Player),
		zap.Int("engine_rate", cfg.Engine.Rate),
		zap.Int("physics_rate", cfg.Physics.Rate),
		zap.Int("logic_rate", cfg.Logic.Rate))

	// One worker per subsystem, each on its own cadence
	pool := worker.NewPool(logger)
	defer pool.StopAll()

	pool.Spawn("engine", func(t *worker.Token) {
		worker.Loop(t, cfg.Engine.Interval(), ecs.Tick)
	})
	pool.Spawn("physics", func(t *worker.Token) {
		worker.Loop(t, cfg.Physics.Interval(), func(float32) { collisions.Tick() })
	})
	pool.Spawn("logic", func(t *worker.Token) {
		worker.Loop(t, cfg.Logic.Interval(), logic.Tick)
	})
	pool.Spawn("events", func(t *worker.Token) {
		for !t.Cancelled() {
			dispatcher.DispatchOne(t.Done())
		}
	})
	pool.Spawn("render", func(t *worker.Token) {
		worker.Loop(t, cfg.Render.Interval(), func(float32) { renderer.Frame() })
	})

	// Input on the main goroutine until quit
	inputLoop(renderer.Screen(), controller)

	logger.Info("shutting down")
}

// inputLoop maps key presses onto the controller. Terminals report no
// key releases, so held controls toggle: movement keys engage, 's'
// releases everything.
func inputLoop(screen tcell.Screen, controller *game.Controller) {
	for {
		ev := screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEscape, tcell.KeyCtrlC:
				return
			case tcell.KeyUp:
				controller.Thrust(true)
			case tcell.KeyDown:
				controller.Thrust(false)
			case tcell.KeyLeft:
				controller.Incline(1)
			case tcell.KeyRight:
				controller.Incline(-1)
			case tcell.KeyRune:
				switch ev.Rune() {
				case 'q':
					return
				case 'w':
					controller.Thrust(true)
				case 'a':
					controller.Incline(1)
				case 'd':
					controller.Incline(-1)
				case 's':
					controller.Thrust(false)
					controller.Incline(0)
				case ' ':
					controller.Fire()
				case '+', '=':
					controller.ZoomIn()
				case '-':
					controller.ZoomOut()
				}
			}
		case nil:
			// Screen finalized under us
			return
		}
	}
}
