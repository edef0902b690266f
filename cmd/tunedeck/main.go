package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/famish99/tunedeck/internal/config"
)

var (
	configPath = flag.String("config", getDefaultConfigPath(), "Path to configuration file")
	mpdAddr    = flag.String("mpd-addr", "", "MPD server listen address (overrides config, \"-\" disables)")
	httpAddr   = flag.String("http-addr", "", "Web UI listen address (overrides config, \"-\" disables)")
	engineName = flag.String("engine", "", "Playback engine: null or beep (overrides config)")
	noMPRIS    = flag.Bool("no-mpris", false, "Do not register on the D-Bus session bus")
	keys       = flag.Bool("keys", false, "Enable keyboard shortcuts on the controlling terminal")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := applyFlags(cfg); err != nil {
		log.Fatalf("Invalid flags: %v", err)
	}

	app := fx.New(
		AppOptions(cfg),
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger}
		}),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	// Quit from MPRIS or the keyboard arrives through the shutdowner
	select {
	case <-ctx.Done():
	case <-app.Done():
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), fx.DefaultTimeout)
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Fatalf("Failed to stop cleanly: %v", err)
	}
}

// applyFlags overrides config values with the flags given on the command line
func applyFlags(cfg *config.Config) error {
	if *mpdAddr != "" {
		cfg.MPD.Addr = disabledAddr(*mpdAddr)
	}
	if *httpAddr != "" {
		cfg.HTTP.Addr = disabledAddr(*httpAddr)
	}
	if *engineName != "" {
		cfg.Engine = *engineName
	}
	if *noMPRIS {
		cfg.MPRIS.Enabled = false
	}
	if *keys {
		cfg.Keyboard = true
	}
	return cfg.Validate()
}

func disabledAddr(addr string) string {
	if addr == "-" {
		return ""
	}
	return addr
}

func getDefaultConfigPath() string {
	locations := []string{
		"./tunedeck.yaml",
		"./config.yaml",
		filepath.Join(os.Getenv("HOME"), ".config", "tunedeck", "config.yaml"),
		"/etc/tunedeck/config.yaml",
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	// Default to first location if none exist
	return locations[0]
}
