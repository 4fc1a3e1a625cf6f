package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything marquee reads from config.toml.
type Config struct {
	// Catalog is the slide catalog file. Empty selects the built-in catalog.
	Catalog          string
	MediaDir         string
	Player           string
	Probe            string
	AutoplayInterval time.Duration
	SettleDelay      time.Duration
	LogLevel         string
	LogFormat        string
	LogDir           string
}

// Disabled is the player/probe value that turns the external tool off.
const Disabled = "none"

const (
	defaultConfigPath       = "~/.config/marquee/config.toml"
	defaultMediaDir         = "~/Videos/marquee"
	defaultLogDir           = "~/.local/share/marquee/logs"
	defaultPlayer           = "ffplay"
	defaultProbe            = "ffprobe"
	defaultLogLevel         = "info"
	defaultLogFormat        = "console"
	defaultAutoplayInterval = 8 * time.Second
	defaultSettleDelay      = 50 * time.Millisecond
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		MediaDir:         mustExpand(defaultMediaDir),
		Player:           defaultPlayer,
		Probe:            defaultProbe,
		AutoplayInterval: defaultAutoplayInterval,
		SettleDelay:      defaultSettleDelay,
		LogLevel:         defaultLogLevel,
		LogFormat:        defaultLogFormat,
		LogDir:           mustExpand(defaultLogDir),
	}
}

// Load locates and parses the marquee config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Catalog          string `toml:"catalog"`
		MediaDir         string `toml:"media_dir"`
		Player           string `toml:"player"`
		Probe            string `toml:"probe"`
		AutoplayInterval string `toml:"autoplay_interval"`
		SettleDelay      string `toml:"settle_delay"`
		LogLevel         string `toml:"log_level"`
		LogFormat        string `toml:"log_format"`
		LogDir           string `toml:"log_dir"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if catalog := strings.TrimSpace(raw.Catalog); catalog != "" {
		cfg.Catalog = mustExpand(catalog)
	}
	if dir := strings.TrimSpace(raw.MediaDir); dir != "" {
		cfg.MediaDir = mustExpand(dir)
	}
	if dir := strings.TrimSpace(raw.LogDir); dir != "" {
		cfg.LogDir = mustExpand(dir)
	}
	cfg.Player = orDefault(raw.Player, defaultPlayer)
	cfg.Probe = orDefault(raw.Probe, defaultProbe)
	cfg.LogLevel = strings.ToLower(orDefault(raw.LogLevel, defaultLogLevel))
	cfg.LogFormat = strings.ToLower(orDefault(raw.LogFormat, defaultLogFormat))

	if cfg.AutoplayInterval, err = parseDuration("autoplay_interval", raw.AutoplayInterval, defaultAutoplayInterval); err != nil {
		return Config{}, err
	}
	if cfg.SettleDelay, err = parseDuration("settle_delay", raw.SettleDelay, defaultSettleDelay); err != nil {
		return Config{}, err
	}

	switch cfg.LogFormat {
	case "console", "json":
	default:
		return Config{}, fmt.Errorf("parse config: log_format %q must be console or json", cfg.LogFormat)
	}

	return cfg, nil
}

// LogPath returns the marquee log file.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir + "/marquee.log")
	}
	return filepath.Join(c.LogDir, "marquee.log")
}

// PlayerEnabled reports whether slides get a real player process.
func (c Config) PlayerEnabled() bool {
	return c.Player != "" && c.Player != Disabled
}

// ProbeEnabled reports whether media is probed before the banner starts.
func (c Config) ProbeEnabled() bool {
	return c.Probe != "" && c.Probe != Disabled
}

// ExpandPath expands a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func parseDuration(field, value string, fallback time.Duration) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, fmt.Errorf("parse config: %s: %w", field, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("parse config: %s must be positive, got %s", field, trimmed)
	}
	return d, nil
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
