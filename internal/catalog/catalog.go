package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Style selects how a slide enters and leaves the banner.
type Style string

const (
	StyleHorizontal   Style = "horizontal"
	StyleVerticalWipe Style = "vertical-wipe"
)

// ParseStyle normalizes a style name. An empty value means horizontal.
func ParseStyle(value string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "horizontal":
		return StyleHorizontal, nil
	case "vertical-wipe", "vertical_wipe", "verticalwipe":
		return StyleVerticalWipe, nil
	default:
		return "", fmt.Errorf("unknown transition style %q", value)
	}
}

// Slide is one rotation unit of the banner.
type Slide struct {
	ID          string
	MediaSource string
	// StartOffset is the playback position to seek to when the slide becomes
	// active. Nil means the media is not sought.
	StartOffset *time.Duration
	Title       string
	Description string
	Style       Style
}

var (
	ErrEmptyCatalog = errors.New("catalog has no slides")
	ErrDuplicateID  = errors.New("duplicate slide id")
	ErrInvalidSlide = errors.New("invalid slide")
)

// Catalog is an immutable ordered sequence of slides.
type Catalog struct {
	slides []Slide
}

// New validates slides and returns a catalog holding a private copy of them.
func New(slides []Slide) (*Catalog, error) {
	if len(slides) == 0 {
		return nil, ErrEmptyCatalog
	}

	seen := make(map[string]int, len(slides))
	out := make([]Slide, len(slides))
	for i, s := range slides {
		s.ID = strings.TrimSpace(s.ID)
		s.MediaSource = strings.TrimSpace(s.MediaSource)
		if s.ID == "" {
			return nil, fmt.Errorf("slide %d: empty id: %w", i, ErrInvalidSlide)
		}
		if prev, ok := seen[s.ID]; ok {
			return nil, fmt.Errorf("slide %d: id %q already used by slide %d: %w", i, s.ID, prev, ErrDuplicateID)
		}
		seen[s.ID] = i
		if s.MediaSource == "" {
			return nil, fmt.Errorf("slide %d (%s): empty media source: %w", i, s.ID, ErrInvalidSlide)
		}
		if s.StartOffset != nil {
			if *s.StartOffset < 0 {
				return nil, fmt.Errorf("slide %d (%s): negative start offset: %w", i, s.ID, ErrInvalidSlide)
			}
			offset := *s.StartOffset
			s.StartOffset = &offset
		}
		style, err := ParseStyle(string(s.Style))
		if err != nil {
			return nil, fmt.Errorf("slide %d (%s): %v: %w", i, s.ID, err, ErrInvalidSlide)
		}
		s.Style = style
		out[i] = s
	}
	return &Catalog{slides: out}, nil
}

// Len returns the number of slides.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.slides)
}

// Slide returns the slide at index i.
func (c *Catalog) Slide(i int) (Slide, bool) {
	if c == nil || i < 0 || i >= len(c.slides) {
		return Slide{}, false
	}
	s := c.slides[i]
	if s.StartOffset != nil {
		offset := *s.StartOffset
		s.StartOffset = &offset
	}
	return s, true
}

// StyleOf returns the transition style of slide i, horizontal when out of range.
func (c *Catalog) StyleOf(i int) Style {
	s, ok := c.Slide(i)
	if !ok {
		return StyleHorizontal
	}
	return s.Style
}

// StartOffset returns the configured start offset of slide i.
func (c *Catalog) StartOffset(i int) *time.Duration {
	s, ok := c.Slide(i)
	if !ok {
		return nil
	}
	return s.StartOffset
}

// Slides returns a copy of every slide in order.
func (c *Catalog) Slides() []Slide {
	out := make([]Slide, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		s, _ := c.Slide(i)
		out = append(out, s)
	}
	return out
}

// Neighbors returns the ring neighbours of slide i.
func (c *Catalog) Neighbors(i int) (prev, next int) {
	n := c.Len()
	if n == 0 {
		return 0, 0
	}
	return (i - 1 + n) % n, (i + 1) % n
}

// Sources returns the media source of every slide in order.
func (c *Catalog) Sources() []string {
	out := make([]string, c.Len())
	for i := range out {
		out[i] = c.slides[i].MediaSource
	}
	return out
}
