package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Prober inspects a media source and returns its duration.
type Prober func(ctx context.Context, source string) (time.Duration, error)

// ProbeResult describes one probed source.
type ProbeResult struct {
	Index    int
	Source   string
	Duration time.Duration
	Err      error
}

const defaultProbeLimit = 4

// Probe checks every source concurrently. Local sources must exist; when
// prober is non-nil it is consulted for the duration. The returned error joins
// every per-source failure and is nil when all sources passed.
func Probe(ctx context.Context, sources []string, prober Prober) ([]ProbeResult, error) {
	results := make([]ProbeResult, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(defaultProbeLimit)

	for i, source := range sources {
		i, source := i, source
		results[i] = ProbeResult{Index: i, Source: source}
		g.Go(func() error {
			res := &results[i]
			if !isRemote(source) {
				if _, err := os.Stat(source); err != nil {
					res.Err = fmt.Errorf("slide %d: %w", i, err)
					return nil
				}
			}
			if prober == nil {
				return nil
			}
			d, err := prober(gctx, source)
			if err != nil {
				res.Err = fmt.Errorf("slide %d: %w", i, err)
				return nil
			}
			res.Duration = d
			return nil
		})
	}
	// Per-source failures are recorded in results, never returned to the group.
	_ = g.Wait()

	var errs []error
	for _, res := range results {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}
	return results, errors.Join(errs...)
}

func isRemote(source string) bool {
	return strings.Contains(source, "://")
}

// FFprobe returns a Prober that reads the container duration with ffprobe.
func FFprobe(binary string) Prober {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	return func(ctx context.Context, source string) (time.Duration, error) {
		cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_entries", "format=duration", "-of", "json", "--", source)
		output, err := cmd.Output()
		if err != nil {
			return 0, fmt.Errorf("ffprobe inspect: %w", err)
		}
		var parsed struct {
			Format struct {
				Duration string `json:"duration"`
			} `json:"format"`
		}
		if err := json.Unmarshal(output, &parsed); err != nil {
			return 0, fmt.Errorf("ffprobe parse: %w", err)
		}
		seconds, err := strconv.ParseFloat(strings.TrimSpace(parsed.Format.Duration), 64)
		if err != nil {
			return 0, fmt.Errorf("ffprobe duration %q: %w", parsed.Format.Duration, err)
		}
		return time.Duration(seconds * float64(time.Second)), nil
	}
}
