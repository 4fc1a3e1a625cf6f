// Package config loads marquee's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/marquee/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # TOML Format
//
//	catalog = "~/Videos/marquee/catalog.toml"
//	media_dir = "~/Videos/marquee"
//	player = "ffplay"          # "none" disables playback
//	probe = "ffprobe"          # "none" skips duration probing
//	autoplay_interval = "8s"
//	settle_delay = "50ms"
//	log_level = "info"
//	log_format = "console"     # or "json"
//	log_dir = "~/.local/share/marquee/logs"
//
// Every field is optional. Tilde expansion is performed on path fields and
// durations use time.ParseDuration syntax.
//
// Missing config files are not an error. Malformed values are reported as
// "parse config" errors so a typo never silently falls back to a default.
package config
