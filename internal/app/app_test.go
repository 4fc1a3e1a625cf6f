package app

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/five82/marquee/internal/carousel"
	"github.com/five82/marquee/internal/catalog"
	"github.com/five82/marquee/internal/config"
	"github.com/five82/marquee/internal/logging"
	"github.com/five82/marquee/internal/media"
	"github.com/five82/marquee/internal/transition"
)

// syncBuffer guards a bytes.Buffer; timer callbacks may log while the test reads.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func writeCatalog(t *testing.T, dir string) string {
	t.Helper()
	for _, name := range []string{"a.mp4", "b.mp4", "c.mp4"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write media: %v", err)
		}
	}
	path := filepath.Join(dir, "slides.toml")
	body := `
[[slides]]
id = "one"
media = "a.mp4"
title = "First"

[[slides]]
id = "two"
media = "b.mp4"
title = "Second"
style = "vertical-wipe"
start_offset = 3

[[slides]]
id = "three"
media = "c.mp4"
title = "Third"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

func TestFormatPlacements(t *testing.T) {
	got := FormatPlacements([]carousel.Placement{
		{Index: 0, Offset: transition.Offset{Axis: transition.AxisX, Magnitude: -100}},
		{Index: 1, Offset: transition.Offset{Axis: transition.AxisX}, Active: true},
		{Index: 2, Offset: transition.Offset{Axis: transition.AxisY, Magnitude: 100}},
	})
	want := "0:(X,-100%) 1*:(X,0) 2:(Y,+100%)"
	if got != want {
		t.Fatalf("FormatPlacements() = %q, want %q", got, want)
	}
}

func TestLogRenderer(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := logging.New(logging.Options{Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}
	r := NewLogRenderer(catalog.Default(t.TempDir()), logger)
	if _, ok := any(r).(carousel.Committer); ok {
		t.Fatal("LogRenderer should not implement Committer")
	}

	placements := []carousel.Placement{
		{Index: 0, Offset: transition.Offset{Axis: transition.AxisX}},
		{Index: 1, Offset: transition.Offset{Axis: transition.AxisY, Magnitude: 100}, Active: true},
		{Index: 2, Offset: transition.Offset{Axis: transition.AxisX}},
	}
	r.Render(carousel.Frame{Seq: 1, TransitionID: "t1", Stage: carousel.StageInitial, Current: 1, Placements: placements})
	if out := buf.String(); !strings.Contains(out, "stage=initial") || strings.Contains(out, "layout") {
		t.Fatalf("initial frame output = %q", out)
	}

	buf.Reset()
	r.Render(carousel.Frame{Seq: 2, TransitionID: "t1", Stage: carousel.StageFinal, Current: 1, Placements: placements})
	out := buf.String()
	for _, want := range []string{"banner: frame", "stage=final", "banner: layout", "title=\"STAY CENTRAL\"", "1*:(Y,+100%)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("final frame output missing %q:\n%s", want, out)
		}
	}
}

func TestBuildHandles(t *testing.T) {
	cat := catalog.Default(t.TempDir())
	tests := []struct {
		name        string
		player      string
		interactive bool
		wantProcess bool
	}{
		{name: "disabled player", player: config.Disabled, interactive: true},
		{name: "not a terminal", player: "ffplay", interactive: false},
		{name: "terminal with player", player: "ffplay", interactive: true, wantProcess: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Player = tt.player
			handles := BuildHandles(cfg, cat, true, tt.interactive)
			if len(handles) != cat.Len() {
				t.Fatalf("len(handles) = %d, want %d", len(handles), cat.Len())
			}
			for i, h := range handles {
				_, isProcess := h.(*media.ProcessHandle)
				if isProcess != tt.wantProcess {
					t.Fatalf("handle %d process = %v, want %v", i, isProcess, tt.wantProcess)
				}
				if err := h.Close(); err != nil {
					t.Fatalf("Close() error = %v", err)
				}
			}
		})
	}
}

func TestLoadCatalog(t *testing.T) {
	cfg := config.Default()
	cfg.MediaDir = t.TempDir()
	cat, err := LoadCatalog(cfg)
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	if cat.Len() != 3 || cat.StyleOf(1) != catalog.StyleVerticalWipe {
		t.Fatalf("built-in catalog = %d slides, style[1] = %s", cat.Len(), cat.StyleOf(1))
	}

	cfg.Catalog = writeCatalog(t, t.TempDir())
	cat, err = LoadCatalog(cfg)
	if err != nil {
		t.Fatalf("LoadCatalog(file) error = %v", err)
	}
	if s, _ := cat.Slide(0); s.ID != "one" {
		t.Fatalf("slide 0 id = %q, want one", s.ID)
	}

	cfg.Catalog = filepath.Join(t.TempDir(), "missing.toml")
	if _, err := LoadCatalog(cfg); err == nil {
		t.Fatal("expected error for missing catalog")
	}
}

func TestProbeMedia_ReportsMissingFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Probe = config.Disabled
	cfg.Catalog = writeCatalog(t, dir)
	cat, err := LoadCatalog(cfg)
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	if err := os.Remove(filepath.Join(dir, "b.mp4")); err != nil {
		t.Fatalf("remove: %v", err)
	}

	results := ProbeMedia(context.Background(), cfg, cat, logging.Discard())
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	for i, res := range results {
		if failed := res.Err != nil; failed != (i == 1) {
			t.Fatalf("result %d err = %v", i, res.Err)
		}
	}
}

func TestNewProber_Disabled(t *testing.T) {
	cfg := config.Default()
	cfg.Probe = config.Disabled
	prober, err := NewProber(cfg)
	if prober != nil || err != nil {
		t.Fatalf("NewProber() = %v, %v, want nil, nil", prober != nil, err)
	}

	cfg.Probe = "marquee-no-such-probe"
	if _, err := NewProber(cfg); err == nil {
		t.Fatal("expected error for missing probe binary")
	}
}

func TestRun_HeadlessRotates(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	catalogPath := writeCatalog(t, dir)
	configPath := filepath.Join(dir, "config.toml")
	body := fmt.Sprintf(`catalog = %q
player = "none"
probe = "none"
autoplay_interval = "20ms"
settle_delay = "5ms"
log_level = "debug"
log_dir = %q
`, catalogPath, filepath.Join(dir, "logs"))
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	var out syncBuffer
	err := Run(ctx, Options{
		ConfigPath: configPath,
		PrefsPath:  filepath.Join(dir, "prefs.toml"),
		Headless:   true,
		LogWriter:  &out,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	logs := out.String()
	for _, want := range []string{"catalog loaded", "slide active", "banner: layout", "stage=initial"} {
		if !strings.Contains(logs, want) {
			t.Fatalf("logs missing %q:\n%s", want, logs)
		}
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(configPath, []byte(`autoplay_interval = "soon"`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	err := Run(context.Background(), Options{ConfigPath: configPath, Headless: true, LogWriter: &syncBuffer{}})
	if err == nil || !strings.Contains(err.Error(), "load config") {
		t.Fatalf("Run() error = %v, want load config error", err)
	}
}
