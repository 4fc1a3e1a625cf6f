package ui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/marquee/internal/carousel"
	"github.com/five82/marquee/internal/catalog"
	"github.com/five82/marquee/internal/logging"
	"github.com/five82/marquee/internal/prefs"
	"github.com/five82/marquee/internal/transition"
)

// Carousel is the part of the choreographer the banner drives.
type Carousel interface {
	Advance(target int) error
	Next() error
	Prev() error
}

// Autoplay is the part of the scheduler the banner drives.
type Autoplay interface {
	Toggle() bool
	Paused() bool
	Remaining() time.Duration
	Interval() time.Duration
}

// Options configures the UI.
type Options struct {
	Catalog   *catalog.Catalog
	Carousel  Carousel
	Autoplay  Autoplay
	Renderer  *Renderer
	ThemeName string
	Muted     bool
	PrefsPath string
	// OnMute applies a sound toggle to the players.
	OnMute func(muted bool)
	// OnStart runs on its own goroutine once the program is ready to receive
	// frames.
	OnStart func()
	Logger  *slog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	catalog   *catalog.Catalog
	carousel  Carousel
	autoplay  Autoplay
	prefsPath string
	onMute    func(bool)
	logger    *slog.Logger
	now       func() time.Time

	// UI state
	theme     Theme
	keys      keyMap
	help      help.Model
	countdown progress.Model
	width     int
	height    int
	ready     bool
	showHelp  bool
	muted     bool
	status    string

	// Frame state
	frame     carousel.Frame
	hasFrame  bool
	committed int

	// Animation state
	from      []motion
	to        []transition.Offset
	animStart time.Time
	animating bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Dracula"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	theme := GetTheme(themeName)
	return Model{
		catalog:   opts.Catalog,
		carousel:  opts.Carousel,
		autoplay:  opts.Autoplay,
		prefsPath: prefsPath,
		onMute:    opts.OnMute,
		logger:    logging.Component(opts.Logger, "ui"),
		now:       time.Now,
		theme:     theme,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		countdown: newCountdown(theme),
		muted:     opts.Muted,
		committed: -1,
	}
}

func newCountdown(t Theme) progress.Model {
	return progress.New(
		progress.WithGradient(t.GradientFrom, t.GradientTo),
		progress.WithoutPercentage(),
	)
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return clockTickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.countdown.Width = clampInt(msg.Width-countdownLabelWidth, 10, 80)
		m.ready = true
		return m, nil

	case frameMsg:
		return m, m.applyFrame(carousel.Frame(msg))

	case commitMsg:
		if m.hasFrame && m.frame.Stage == carousel.StageInitial && m.frame.Current == msg.index {
			m.committed = msg.index
		}
		return m, nil

	case animTickMsg:
		if !m.animating {
			return m, nil
		}
		if m.now().Sub(m.animStart) >= TransitionDuration {
			m.settleAnimation()
			return m, nil
		}
		return m, animTickCmd()

	case clockTickMsg:
		return m, clockTickCmd()

	case advanceResultMsg:
		m.status = ""
		if msg.err != nil && !errors.Is(msg.err, carousel.ErrNotReady) {
			m.status = msg.err.Error()
			m.logger.Warn("advance rejected", "error", msg.err)
		}
		return m, nil

	case prefsSavedMsg:
		if msg.err != nil {
			m.status = "save preferences: " + msg.err.Error()
			m.logger.Warn("save preferences failed", "error", msg.err)
		}
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	return m.renderMain()
}

// applyFrame records a published frame. Initial and settled frames snap into
// place. A final frame animates from the initial placement only when the
// renderer committed that placement first; otherwise it snaps as well.
func (m *Model) applyFrame(f carousel.Frame) tea.Cmd {
	offsets := make([]transition.Offset, len(f.Placements))
	for i, p := range f.Placements {
		offsets[i] = p.Offset
	}

	animate := f.Stage == carousel.StageFinal && m.committed == f.Current
	var from []motion
	if animate {
		from = m.display(m.now())
	}

	m.frame = f
	m.hasFrame = true
	m.to = offsets
	// A commit only applies to the initial frame it follows.
	m.committed = -1

	if !animate || len(from) != len(offsets) {
		m.settleAnimation()
		return nil
	}

	m.from = from
	m.animStart = m.now()
	m.animating = true
	return animTickCmd()
}

// shown reports whether a placement is drawn. Slides outside the transition
// keep a neutral offset and stay hidden; only the outgoing slide joins the
// active one while a transition is on screen.
func (m Model) shown(p carousel.Placement) bool {
	if p.Active {
		return true
	}
	inFlight := m.frame.Stage == carousel.StageInitial || m.animating
	return inFlight && p.Index == m.frame.Previous && m.frame.Previous != m.frame.Current
}

func (m *Model) settleAnimation() {
	m.animating = false
	m.from = make([]motion, len(m.to))
	for i, off := range m.to {
		m.from[i] = rest(off)
	}
}

// display returns where every slide is drawn at now.
func (m Model) display(now time.Time) []motion {
	out := make([]motion, len(m.to))
	if !m.animating {
		for i, off := range m.to {
			out[i] = rest(off)
		}
		return out
	}
	t := float64(now.Sub(m.animStart)) / float64(TransitionDuration)
	for i, off := range m.to {
		out[i] = interpolate(m.from[i], off, t)
	}
	return out
}

// handleKey processes keyboard input. Carousel calls run inside commands,
// never on the event loop, because the carousel delivers frames with Send.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Next):
		if m.carousel == nil {
			return m, nil
		}
		return m, advanceCmd(m.carousel.Next)

	case key.Matches(msg, m.keys.Prev):
		if m.carousel == nil {
			return m, nil
		}
		return m, advanceCmd(m.carousel.Prev)

	case key.Matches(msg, m.keys.Jump):
		index := int(msg.String()[0] - '1')
		if m.carousel == nil || m.catalog == nil || index >= m.catalog.Len() {
			return m, nil
		}
		c := m.carousel
		return m, advanceCmd(func() error { return c.Advance(index) })

	case key.Matches(msg, m.keys.Pause):
		if m.autoplay != nil {
			m.autoplay.Toggle()
		}
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		width := m.countdown.Width
		m.countdown = newCountdown(m.theme)
		m.countdown.Width = width
		return m, m.savePrefsCmd()

	case key.Matches(msg, m.keys.Mute):
		m.muted = !m.muted
		cmds := []tea.Cmd{m.savePrefsCmd()}
		if m.onMute != nil {
			onMute, muted := m.onMute, m.muted
			cmds = append(cmds, func() tea.Msg {
				onMute(muted)
				return nil
			})
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m Model) savePrefsCmd() tea.Cmd {
	if m.prefsPath == "" {
		return nil
	}
	path := m.prefsPath
	p := prefs.Prefs{Theme: m.theme.Name, Muted: m.muted}
	return func() tea.Msg {
		return prefsSavedMsg{err: prefs.Save(path, p)}
	}
}

// Messages

type animTickMsg time.Time

type clockTickMsg time.Time

type advanceResultMsg struct {
	err error
}

type prefsSavedMsg struct {
	err error
}

// Commands

func animTickCmd() tea.Cmd {
	return tea.Tick(animFrame, func(t time.Time) tea.Msg {
		return animTickMsg(t)
	})
}

func clockTickCmd() tea.Cmd {
	return tea.Tick(CountdownRefresh, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}

func advanceCmd(fn func() error) tea.Cmd {
	return func() tea.Msg {
		return advanceResultMsg{err: fn()}
	}
}

// Run starts the Bubble Tea program and blocks until it exits or ctx is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if opts.Renderer != nil {
		opts.Renderer.Attach(p)
	}
	if opts.OnStart != nil {
		go opts.OnStart()
	}
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
