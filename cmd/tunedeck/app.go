package main

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/famish99/tunedeck/internal/backends"
	"github.com/famish99/tunedeck/internal/backends/beep"
	"github.com/famish99/tunedeck/internal/backends/null"
	"github.com/famish99/tunedeck/internal/cache"
	"github.com/famish99/tunedeck/internal/config"
	"github.com/famish99/tunedeck/internal/console"
	"github.com/famish99/tunedeck/internal/mpd"
	"github.com/famish99/tunedeck/internal/mpris"
	"github.com/famish99/tunedeck/internal/player"
	"github.com/famish99/tunedeck/internal/playlist"
	"github.com/famish99/tunedeck/internal/web"
)

// defaultNullDuration is the simulated length of tracks without a duration
const defaultNullDuration = 180.0

// AppOptions wires the player, its engine and every enabled surface
func AppOptions(cfg *config.Config) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		fx.Provide(
			newLogger,
			newCatalogProbe,
			newEngine,
			newLoop,
			newHub,
			mpd.NewIdle,
			mpris.NewView,
			newController,
			newDispatcher,
		),
		fx.Invoke(
			loadCatalog,
			registerMPD,
			registerWeb,
			registerMPRIS,
			registerKeyboard,
		),
	)
}

// newLogger creates the zap logger described by the config
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Log.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel())

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// catalogProbe reports track durations from the catalog for the null
// engine, which has no media to measure. It watches song changes so the
// answer belongs to the track being loaded, even when two catalog entries
// share a source.
type catalogProbe struct {
	player.Views // only RenderSong matters

	mu     sync.Mutex
	track  playlist.Track
	loaded bool
}

func newCatalogProbe() *catalogProbe {
	return &catalogProbe{}
}

func (p *catalogProbe) RenderSong(info player.SongInfo) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.track = info.Track
	p.loaded = !info.Placeholder
}

func (p *catalogProbe) Duration(ref string) (float64, error) {
	p.mu.Lock()
	track, loaded := p.track, p.loaded
	p.mu.Unlock()

	if !loaded || track.Source != ref {
		return 0, fmt.Errorf("%s is not the loaded track", ref)
	}
	if track.Duration > 0 {
		return track.Duration, nil
	}
	return defaultNullDuration, nil
}

func newEngine(lc fx.Lifecycle, cfg *config.Config, probe *catalogProbe, logger *zap.Logger) (backends.Engine, error) {
	registry := backends.Registry{
		"null": func() (backends.Engine, error) {
			return null.New(logger.Named("null"), null.WithProbe(probe.Duration)), nil
		},
		"beep": func() (backends.Engine, error) {
			diskCache, err := cache.NewDiskCache(cfg.Cache.Directory, cfg.CacheMaxBytes(), logger.Named("cache"))
			if err != nil {
				return nil, err
			}
			engine, err := beep.New(logger.Named("beep"), diskCache)
			if err != nil {
				return nil, err
			}
			return engine, nil
		},
	}

	engine, err := registry.Create(cfg.Engine)
	if err != nil {
		return nil, err
	}
	logger.Info("Playback engine ready", zap.String("engine", engine.GetBackendName()))

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return engine.Close()
		},
	})
	return engine, nil
}

// runUntilStopped starts run on its own goroutine for the app's lifetime
func runUntilStopped(lc fx.Lifecycle, run func(ctx context.Context), done func() <-chan struct{}) {
	var cancel context.CancelFunc
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			var ctx context.Context
			ctx, cancel = context.WithCancel(context.Background())
			go run(ctx)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			select {
			case <-done():
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}

func newLoop(lc fx.Lifecycle, logger *zap.Logger) *player.Loop {
	loop := player.NewLoop(logger.Named("loop"))
	runUntilStopped(lc, loop.Run, loop.Done)
	return loop
}

func newHub(lc fx.Lifecycle, logger *zap.Logger) *web.Hub {
	hub := web.NewHub(logger.Named("hub"))
	runUntilStopped(lc, hub.Run, hub.Done)
	return hub
}

type controllerParams struct {
	fx.In

	Config *config.Config
	Engine backends.Engine
	Loop   *player.Loop
	Probe  *catalogProbe
	Idle   *mpd.Idle
	Hub    *web.Hub
	MPRIS  *mpris.View
	Logger *zap.Logger
}

func newController(p controllerParams) (*player.Controller, error) {
	repeat, err := p.Config.RepeatMode()
	if err != nil {
		return nil, err
	}

	views := player.Views{p.Probe, p.Idle, p.Hub}
	if p.Config.MPRIS.Enabled {
		views = append(views, p.MPRIS)
	}

	c := player.New(p.Engine, views, p.Logger.Named("player"),
		player.WithPoster(p.Loop.Post),
		player.WithVolume(p.Config.Player.Volume),
		player.WithAutoplay(p.Config.Player.Autoplay),
		player.WithShuffle(p.Config.Player.Shuffle),
		player.WithRepeat(repeat),
	)
	return c, nil
}

func newDispatcher(loop *player.Loop, c *player.Controller) player.Dispatcher {
	return player.NewDispatcher(loop, c)
}

// loadCatalog loads the configured songs once the loop is running
func loadCatalog(lc fx.Lifecycle, cfg *config.Config, d player.Dispatcher, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			var loadErr error
			if err := d.Do(func(c *player.Controller) {
				loadErr = c.Load(cfg.Songs)
			}); err != nil {
				return err
			}
			if loadErr != nil {
				return fmt.Errorf("failed to load catalog: %w", loadErr)
			}
			logger.Info("Catalog loaded", zap.Int("songs", len(cfg.Songs)))
			return nil
		},
	})
}

func registerMPD(lc fx.Lifecycle, cfg *config.Config, d player.Dispatcher, idle *mpd.Idle, logger *zap.Logger) {
	if cfg.MPD.Addr == "" {
		return
	}
	server := mpd.NewServer(cfg.MPD.Addr, d, idle, logger.Named("mpd"))
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			return server.Start()
		},
		OnStop: func(context.Context) error {
			return server.Stop()
		},
	})
}

func registerWeb(lc fx.Lifecycle, cfg *config.Config, d player.Dispatcher, hub *web.Hub, logger *zap.Logger) {
	if cfg.HTTP.Addr == "" {
		return
	}
	server := web.NewServer(cfg.HTTP.Addr, cfg.HTTP.AllowedOrigins, d, hub, logger.Named("web"))
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			return server.Start()
		},
		OnStop: server.Stop,
	})
}

// registerMPRIS publishes the player on the session bus. A missing bus is
// not fatal.
func registerMPRIS(lc fx.Lifecycle, cfg *config.Config, d player.Dispatcher, view *mpris.View, shutdowner fx.Shutdowner, logger *zap.Logger) {
	if !cfg.MPRIS.Enabled {
		return
	}
	service := mpris.NewService(cfg.MPRIS.Identity, d, view, logger.Named("mpris"),
		mpris.WithQuit(func() { shutdowner.Shutdown() }))
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if err := service.Start(); err != nil {
				logger.Warn("MPRIS unavailable", zap.Error(err))
			}
			return nil
		},
		OnStop: func(context.Context) error {
			return service.Stop()
		},
	})
}

func registerKeyboard(lc fx.Lifecycle, cfg *config.Config, d player.Dispatcher, shutdowner fx.Shutdowner, logger *zap.Logger) {
	if !cfg.Keyboard {
		return
	}
	host := console.NewHost(d, func() { shutdowner.Shutdown() }, logger.Named("keys"))
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if err := host.Start(); err != nil {
				logger.Warn("Keyboard shortcuts unavailable", zap.Error(err))
			}
			return nil
		},
		OnStop: func(context.Context) error {
			return host.Stop()
		},
	})
}
