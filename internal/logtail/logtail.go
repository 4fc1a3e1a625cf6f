package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Match selects log lines. A nil Match keeps every line.
type Match func(line string) bool

// Contains returns a Match that keeps lines containing every non-empty term.
func Contains(terms ...string) Match {
	var keep []string
	for _, term := range terms {
		if term = strings.TrimSpace(term); term != "" {
			keep = append(keep, term)
		}
	}
	if len(keep) == 0 {
		return nil
	}
	return func(line string) bool {
		for _, term := range keep {
			if !strings.Contains(line, term) {
				return false
			}
		}
		return true
	}
}

// Read returns at most maxLines matching lines from the end of the file at
// path. A missing file yields no lines and no error.
func Read(path string, maxLines int, match Match) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := newRing(maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if match != nil && !match(line) {
			continue
		}
		ring.push(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	return ring.lines(), nil
}

// ring keeps the last len(buf) lines pushed.
type ring struct {
	buf   []string
	next  int
	count int
}

func newRing(size int) *ring {
	return &ring{buf: make([]string, size)}
}

func (r *ring) push(line string) {
	r.buf[r.next] = line
	r.next = (r.next + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

func (r *ring) lines() []string {
	out := make([]string, r.count)
	start := 0
	if r.count == len(r.buf) {
		start = r.next
	}
	for i := range out {
		out[i] = r.buf[(start+i)%len(r.buf)]
	}
	return out
}
