package media

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"
)

const defaultPlayer = "ffplay"

// ProcessOptions configure a player process handle.
type ProcessOptions struct {
	Binary string // defaults to ffplay
	Source string
	Title  string
	Muted  bool
}

// ProcessHandle plays a looping media source in an external player process.
// Pause stops the process in place; a seek restarts it at the new offset on
// the next Play.
type ProcessHandle struct {
	mu     sync.Mutex
	opts   ProcessOptions
	offset time.Duration
	cmd    *exec.Cmd
	done   chan struct{}
	paused bool
}

// NewProcessHandle returns a handle for opts.Source. No process is started
// until Play.
func NewProcessHandle(opts ProcessOptions) *ProcessHandle {
	if strings.TrimSpace(opts.Binary) == "" {
		opts.Binary = defaultPlayer
	}
	return &ProcessHandle{opts: opts}
}

// Play starts the player, or resumes a paused one.
func (h *ProcessHandle) Play() <-chan error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.runningLocked() {
		if !h.paused {
			return nil
		}
		if err := continueProcess(h.cmd.Process); err != nil {
			return Rejected(fmt.Errorf("resume %s: %w", h.opts.Binary, err))
		}
		h.paused = false
		return nil
	}

	cmd := exec.Command(h.opts.Binary, h.args()...)
	if err := cmd.Start(); err != nil {
		return Rejected(fmt.Errorf("start %s: %w", h.opts.Binary, err))
	}
	done := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(done)
	}()
	h.cmd = cmd
	h.done = done
	h.paused = false
	return nil
}

// Pause suspends a running player.
func (h *ProcessHandle) Pause() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.runningLocked() || h.paused {
		return nil
	}
	if err := stopProcess(h.cmd.Process); err != nil {
		return fmt.Errorf("pause %s: %w", h.opts.Binary, err)
	}
	h.paused = true
	return nil
}

// SeekTo records the offset for the next Play and terminates any running
// player so playback restarts there.
func (h *ProcessHandle) SeekTo(offset time.Duration) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if offset < 0 {
		offset = 0
	}
	h.offset = offset
	return h.killLocked()
}

// SetMuted changes the audio setting. It applies the next time the player is
// started.
func (h *ProcessHandle) SetMuted(muted bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.opts.Muted = muted
}

// Close terminates the player process.
func (h *ProcessHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.killLocked()
}

func (h *ProcessHandle) args() []string {
	args := []string{"-loglevel", "quiet", "-loop", "0"}
	if h.offset > 0 {
		args = append(args, "-ss", strconv.FormatFloat(h.offset.Seconds(), 'f', 3, 64))
	}
	if h.opts.Muted {
		args = append(args, "-an")
	}
	if title := strings.TrimSpace(h.opts.Title); title != "" {
		args = append(args, "-window_title", title)
	}
	return append(args, h.opts.Source)
}

func (h *ProcessHandle) runningLocked() bool {
	if h.cmd == nil || h.done == nil {
		return false
	}
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

func (h *ProcessHandle) killLocked() error {
	if !h.runningLocked() {
		h.cmd = nil
		h.paused = false
		return nil
	}
	if err := h.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("stop %s: %w", h.opts.Binary, err)
	}
	<-h.done
	h.cmd = nil
	h.done = nil
	h.paused = false
	return nil
}
