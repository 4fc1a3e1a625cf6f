package media

import "time"

// Handle is the playback capability of one slide's media resource.
type Handle interface {
	Pause() error
	SeekTo(offset time.Duration) error
	// Play requests playback without blocking. The returned channel yields at
	// most one error and is closed once the request resolves. A nil channel
	// means the request resolved successfully.
	Play() <-chan error
}

// NopHandle accepts every request. It stands in for slides when no player is
// configured.
type NopHandle struct{}

func (NopHandle) Pause() error               { return nil }
func (NopHandle) SeekTo(time.Duration) error { return nil }
func (NopHandle) Play() <-chan error         { return nil }

// Rejected returns a resolved play result carrying err.
func Rejected(err error) <-chan error {
	ch := make(chan error, 1)
	ch <- err
	close(ch)
	return ch
}
