package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/five82/marquee/internal/autoplay"
	"github.com/five82/marquee/internal/carousel"
	"github.com/five82/marquee/internal/catalog"
	"github.com/five82/marquee/internal/clock"
	"github.com/five82/marquee/internal/config"
	"github.com/five82/marquee/internal/logging"
	"github.com/five82/marquee/internal/media"
	"github.com/five82/marquee/internal/prefs"
	"github.com/five82/marquee/internal/ui"
)

// Options configure the marquee application.
type Options struct {
	ConfigPath string
	PrefsPath  string        // empty uses default ~/.config/marquee/prefs.toml
	Catalog    string        // overrides the config catalog
	Interval   time.Duration // overrides the config autoplay interval
	Headless   bool
	// LogWriter receives headless logs. Defaults to stderr.
	LogWriter io.Writer
}

// Run boots the banner until the context is cancelled or the viewer quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.Catalog != "" {
		cfg.Catalog = opts.Catalog
	}
	if opts.Interval > 0 {
		cfg.AutoplayInterval = opts.Interval
	}

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	interactive := !opts.Headless && isTerminal(os.Stdout)

	logOpts := logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Writer: opts.LogWriter}
	if interactive {
		// The banner owns the terminal.
		if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
		logOpts.Path = cfg.LogPath()
	}
	logger, closeLog, err := logging.New(logOpts)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = closeLog() }()

	cat, err := LoadCatalog(cfg)
	if err != nil {
		return err
	}
	logger.Info("catalog loaded", "slides", cat.Len(), "source", catalogSource(cfg))

	handles := BuildHandles(cfg, cat, userPrefs.Muted, interactive)
	syncer := media.NewSynchronizer(mediaHandles(handles), cat.StartOffset, logger)

	var renderer carousel.Renderer
	var tui *ui.Renderer
	if interactive {
		tui = ui.NewRenderer()
		renderer = tui
	} else {
		renderer = NewLogRenderer(cat, logger)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	car, err := carousel.New(carousel.Options{
		Catalog:     cat,
		Media:       syncer,
		Renderer:    renderer,
		Clock:       clock.Real(),
		Logger:      logger,
		SettleDelay: cfg.SettleDelay,
	})
	if err != nil {
		return fmt.Errorf("init carousel: %w", err)
	}
	sched := autoplay.New(car, clock.Real(), cfg.AutoplayInterval, logger)
	car.SetIndexChangeHook(func(int, int) { sched.Rearm() })

	defer func() {
		cancel()
		sched.Stop()
		car.Close()
		for i, h := range handles {
			if err := h.Close(); err != nil {
				logger.Warn("player close failed", "slide", i, "error", err)
			}
		}
		syncer.Wait()
		if n := syncer.Failures(); n > 0 {
			logger.Info("playback failures during session", "count", n)
		}
	}()

	start := func() {
		ProbeMedia(runCtx, cfg, cat, logger)
		if runCtx.Err() != nil {
			return
		}
		car.MarkReady()
		sched.Start()
	}

	if !interactive {
		start()
		<-runCtx.Done()
		return nil
	}

	return ui.Run(runCtx, ui.Options{
		Catalog:   cat,
		Carousel:  car,
		Autoplay:  sched,
		Renderer:  tui,
		ThemeName: userPrefs.Theme,
		Muted:     userPrefs.Muted,
		PrefsPath: opts.PrefsPath,
		OnMute:    func(muted bool) { setMuted(handles, muted) },
		OnStart:   start,
		Logger:    logger,
	})
}

// LoadCatalog reads the configured catalog file, or returns the built-in
// catalog rooted at the media directory.
func LoadCatalog(cfg config.Config) (*catalog.Catalog, error) {
	if cfg.Catalog == "" {
		return catalog.Default(cfg.MediaDir), nil
	}
	cat, err := catalog.Load(cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return cat, nil
}

func catalogSource(cfg config.Config) string {
	if cfg.Catalog == "" {
		return "built-in"
	}
	return cfg.Catalog
}

// player is a media handle the application owns and must release.
type player interface {
	media.Handle
	Close() error
}

type nopPlayer struct{ media.NopHandle }

func (nopPlayer) Close() error { return nil }

// BuildHandles returns one player per slide. Slides get a real player process
// only when a player is configured and the banner runs in a terminal.
func BuildHandles(cfg config.Config, cat *catalog.Catalog, muted, interactive bool) []player {
	handles := make([]player, cat.Len())
	for i, slide := range cat.Slides() {
		if !cfg.PlayerEnabled() || !interactive {
			handles[i] = nopPlayer{}
			continue
		}
		handles[i] = media.NewProcessHandle(media.ProcessOptions{
			Binary: cfg.Player,
			Source: slide.MediaSource,
			Title:  slide.Title,
			Muted:  muted,
		})
	}
	return handles
}

func mediaHandles(players []player) []media.Handle {
	out := make([]media.Handle, len(players))
	for i, p := range players {
		out[i] = p
	}
	return out
}

func setMuted(players []player, muted bool) {
	for _, p := range players {
		if m, ok := p.(interface{ SetMuted(bool) }); ok {
			m.SetMuted(muted)
		}
	}
}

// ProbeMedia checks every slide's media concurrently and logs what it finds.
// Failures never stop the banner; a slide whose media is missing still
// rotates, it just does not play.
func ProbeMedia(ctx context.Context, cfg config.Config, cat *catalog.Catalog, logger *slog.Logger) []media.ProbeResult {
	logger = logging.Component(logger, "probe")

	prober, err := NewProber(cfg)
	if err != nil {
		logger.Warn("probe tool unavailable; checking files only", "probe", cfg.Probe, "error", err)
	}

	results, err := media.Probe(ctx, cat.Sources(), prober)
	for _, res := range results {
		if res.Err != nil {
			logger.Warn("media unavailable", "slide", res.Index, "source", res.Source, "error", res.Err)
			continue
		}
		logger.Debug("media ready", "slide", res.Index, "source", res.Source, "duration", res.Duration)
	}
	if err != nil {
		logger.Debug("probe finished with errors", "error", err)
	}
	return results
}

// NewProber returns the configured duration prober. It returns nil when
// probing is disabled, and nil with an error when the tool is not installed.
func NewProber(cfg config.Config) (media.Prober, error) {
	if !cfg.ProbeEnabled() {
		return nil, nil
	}
	if _, err := exec.LookPath(cfg.Probe); err != nil {
		return nil, err
	}
	return media.FFprobe(cfg.Probe), nil
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
