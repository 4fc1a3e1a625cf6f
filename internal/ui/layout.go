package ui

import "time"

// Vertical space reserved around the hero area: header, title strip,
// description, countdown, footer and spacing.
const (
	chromeHeight        = 8
	minHeroHeight       = 5
	descriptionLines    = 2
	countdownLabelWidth = 16
)

// Timing constants.
const (
	// CountdownRefresh is how often the autoplay countdown is redrawn.
	CountdownRefresh = 250 * time.Millisecond
)
