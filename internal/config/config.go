package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/famish99/tunedeck/internal/player"
	"github.com/famish99/tunedeck/internal/playlist"
)

// Config represents the application configuration
type Config struct {
	// Playback engine: "null" or "beep"
	Engine string `yaml:"engine"`

	// Control surfaces. An empty address disables the surface.
	MPD      MPDConfig   `yaml:"mpd"`
	HTTP     HTTPConfig  `yaml:"http"`
	MPRIS    MPRISConfig `yaml:"mpris"`
	Keyboard bool        `yaml:"keyboard"`

	// Cache settings for remote sources
	Cache CacheConfig `yaml:"cache"`

	// Initial player settings
	Player PlayerConfig `yaml:"player"`

	Log LogConfig `yaml:"log"`

	// Startup catalog, in playback order
	Songs []playlist.Track `yaml:"songs"`
}

// MPDConfig represents the MPD protocol server
type MPDConfig struct {
	Addr string `yaml:"addr"`
}

// HTTPConfig represents the websocket UI server
type HTTPConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"` // Empty allows any origin
}

// MPRISConfig represents the D-Bus media player service
type MPRISConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Identity string `yaml:"identity,omitempty"`
}

// CacheConfig represents cache settings
type CacheConfig struct {
	Directory string `yaml:"directory"`
	MaxSizeGB int    `yaml:"max_size_gb"`
}

// PlayerConfig represents the initial player state
type PlayerConfig struct {
	Volume   float64 `yaml:"volume"`
	Autoplay bool    `yaml:"autoplay"`
	Shuffle  bool    `yaml:"shuffle"`
	Repeat   string  `yaml:"repeat"` // off, all or one
}

// LogConfig represents logger settings
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Engine: "null",
		MPD: MPDConfig{
			Addr: "localhost:6600",
		},
		HTTP: HTTPConfig{
			Addr: "localhost:8080",
		},
		MPRIS: MPRISConfig{
			Enabled:  true,
			Identity: "tunedeck",
		},
		Cache: CacheConfig{
			Directory: "/tmp/tunedeck-cache",
			MaxSizeGB: 2,
		},
		Player: PlayerConfig{
			Volume:   player.DefaultVolume,
			Autoplay: true,
			Repeat:   "off",
		},
		Log: LogConfig{
			Level: "info",
		},
		Songs: DefaultSongs(),
	}
}

// DefaultSongs returns the built-in catalog
func DefaultSongs() []playlist.Track {
	return []playlist.Track{
		{
			Title:    "Silence",
			Artist:   "Young Sammy",
			Album:    "Silence",
			CoverArt: "covers/Silence.png",
			Source:   "music/Silence.mp3",
			Duration: 115,
		},
		{
			Title:    "Millionaire",
			Artist:   "Honey Singh",
			Album:    "Glory",
			CoverArt: "covers/Millionare.png",
			Source:   "music/Millionaire.mp3",
			Duration: 199,
		},
		{
			Title:    "STFU",
			Artist:   "AP Dillon",
			Album:    "Rush",
			CoverArt: "covers/STFU.png",
			Source:   "music/STFU.mp3",
			Duration: 174,
		},
	}
}

// LoadConfig loads configuration from file. Fields missing from the file
// keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, return default config
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig saves configuration to file
func SaveConfig(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks value ranges and enumerations
func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.Engine) {
	case "null", "beep":
	default:
		errs = append(errs, fmt.Errorf("unknown engine %q", c.Engine))
	}

	if c.Player.Volume < 0 || c.Player.Volume > 1 {
		errs = append(errs, fmt.Errorf("player volume %v outside [0,1]", c.Player.Volume))
	}
	if _, err := c.RepeatMode(); err != nil {
		errs = append(errs, err)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log level: %w", err))
	}
	if c.Cache.MaxSizeGB < 0 {
		errs = append(errs, fmt.Errorf("cache max_size_gb must not be negative"))
	}

	for i := range c.Songs {
		if err := c.Songs[i].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("song %d: %w", i, err))
		}
	}

	return errors.Join(errs...)
}

// RepeatMode returns the configured initial repeat mode
func (c *Config) RepeatMode() (player.RepeatMode, error) {
	return player.ParseRepeatMode(c.Player.Repeat)
}

// LogLevel returns the configured log level, defaulting to info
func (c *Config) LogLevel() zapcore.Level {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// CacheMaxBytes returns the cache limit in bytes
func (c *Config) CacheMaxBytes() int64 {
	return int64(c.Cache.MaxSizeGB) * 1024 * 1024 * 1024
}
