package ui

import (
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/marquee/internal/carousel"
)

// Sender delivers messages to a running program. *tea.Program implements it.
type Sender interface {
	Send(msg tea.Msg)
}

var errNotAttached = errors.New("renderer is not attached to a program")

// Renderer forwards carousel frames into the Bubble Tea event loop. It
// implements carousel.Renderer and carousel.Committer.
//
// Send blocks until the event loop receives the message, so the Model must
// never call into the carousel from Update; it does so from commands.
type Renderer struct {
	mu     sync.RWMutex
	sender Sender
}

// NewRenderer returns a Renderer that drops frames until Attach is called.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Attach connects the renderer to a program.
func (r *Renderer) Attach(s Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sender = s
}

// Render implements carousel.Renderer.
func (r *Renderer) Render(f carousel.Frame) {
	if s := r.target(); s != nil {
		s.Send(frameMsg(f))
	}
}

// Commit implements carousel.Committer. The Model only animates a final frame
// whose initial placement was committed; without a commit it snaps.
func (r *Renderer) Commit(index int) error {
	s := r.target()
	if s == nil {
		return errNotAttached
	}
	s.Send(commitMsg{index: index})
	return nil
}

func (r *Renderer) target() Sender {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sender
}

type frameMsg carousel.Frame

type commitMsg struct {
	index int
}
