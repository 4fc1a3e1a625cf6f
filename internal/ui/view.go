package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderMain renders the banner: header, hero, title strip, description,
// countdown and key help.
func (m Model) renderMain() string {
	sections := []string{
		m.renderHeader(),
		m.renderHero(m.now()),
		m.renderStrip(),
		m.renderDescription(),
		m.renderCountdown(),
		m.help.View(m.keys),
	}
	if m.status != "" {
		sections = append(sections, m.theme.Styles().DangerText.Render(truncate(m.status, m.width)))
	}
	return strings.Join(sections, "\n")
}

func (m Model) heroHeight() int {
	return maxInt(minHeroHeight, m.height-chromeHeight)
}

func (m Model) slideCount() int {
	if m.catalog == nil {
		return 0
	}
	return m.catalog.Len()
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	parts := []string{styles.Logo.Render("MARQUEE")}

	if m.hasFrame {
		parts = append(parts, styles.MutedText.Render(fmt.Sprintf("slide %d/%d", m.frame.Current+1, m.slideCount())))
	}
	if m.autoplay != nil {
		if m.autoplay.Paused() {
			parts = append(parts, styles.WarningText.Render("autoplay paused"))
		} else {
			parts = append(parts, styles.SuccessText.Render("autoplay"))
		}
	}
	if m.muted {
		parts = append(parts, styles.FaintText.Render("muted"))
	} else {
		parts = append(parts, styles.Text.Render("sound on"))
	}
	return strings.Join(parts, styles.FaintText.Render("  ·  "))
}

// renderHero draws the slides taking part in the current layout. The outgoing
// slide is drawn first and faded; the active slide is drawn last.
func (m Model) renderHero(now time.Time) string {
	width, height := m.width, m.heroHeight()
	if !m.hasFrame || m.slideCount() == 0 {
		msg := m.theme.Styles().MutedText.Render("Preparing media...")
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, msg)
	}

	positions := m.display(now)
	var inactive, active []layer
	for _, p := range m.frame.Placements {
		if p.Index >= len(positions) || !m.shown(p) {
			continue
		}
		at := positions[p.Index]
		if !at.visible() {
			continue
		}
		l := layer{lines: strings.Split(m.renderCard(p.Index, p.Active, width, height), "\n"), at: at}
		if p.Active {
			active = append(active, l)
		} else {
			inactive = append(inactive, l)
		}
	}
	return strings.Join(compose(width, height, append(inactive, active...)), "\n")
}

func (m Model) renderCard(index int, active bool, width, height int) string {
	styles := m.theme.Styles()
	slide, ok := m.catalog.Slide(index)
	if !ok {
		return ""
	}

	card := styles.InactiveCard
	title := styles.MutedText.Bold(true)
	if active {
		card = styles.ActiveCard
		title = styles.AccentText
	}

	inner := maxInt(1, width-6)
	lines := []string{
		styles.FaintText.Render(fmt.Sprintf("%02d / %02d", index+1, m.slideCount())),
		"",
		title.Render(truncate(slide.Title, inner)),
		"",
		styles.FaintText.Render(truncate(filepath.Base(slide.MediaSource), inner)),
	}
	if slide.StartOffset != nil {
		lines = append(lines, styles.FaintText.Render("from "+slide.StartOffset.String()))
	}

	return card.
		Width(maxInt(1, width-2)).
		Height(maxInt(1, height-2)).
		Align(lipgloss.Center, lipgloss.Center).
		Render(strings.Join(lines, "\n"))
}

// renderStrip shows the previous, current and next titles in ring order.
func (m Model) renderStrip() string {
	styles := m.theme.Styles()
	if !m.hasFrame || m.slideCount() == 0 {
		return ""
	}
	current := m.frame.Current
	slide, _ := m.catalog.Slide(current)
	if m.slideCount() == 1 {
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, styles.AccentText.Render(slide.Title))
	}

	prevIdx, nextIdx := m.catalog.Neighbors(current)
	prev, _ := m.catalog.Slide(prevIdx)
	next, _ := m.catalog.Slide(nextIdx)
	limit := maxInt(8, m.width/4)
	strip := strings.Join([]string{
		styles.MutedText.Render("‹ " + truncate(prev.Title, limit)),
		styles.AccentText.Render(truncate(slide.Title, limit)),
		styles.MutedText.Render(truncate(next.Title, limit) + " ›"),
	}, "   ")
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, strip)
}

func (m Model) renderDescription() string {
	if !m.hasFrame {
		return strings.Repeat("\n", descriptionLines-1)
	}
	slide, _ := m.catalog.Slide(m.frame.Current)
	text := lipgloss.NewStyle().
		Width(maxInt(1, m.width-4)).
		MaxHeight(descriptionLines).
		Align(lipgloss.Center).
		Render(slide.Description)
	text = m.theme.Styles().MutedText.Render(text)

	// Keep the layout stable for short descriptions.
	if n := strings.Count(text, "\n") + 1; n < descriptionLines {
		text += strings.Repeat("\n", descriptionLines-n)
	}
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, text)
}

// renderCountdown shows how far autoplay is toward the next slide.
func (m Model) renderCountdown() string {
	styles := m.theme.Styles()
	if m.autoplay == nil || m.slideCount() <= 1 {
		return ""
	}
	interval := m.autoplay.Interval()
	remaining := m.autoplay.Remaining()

	label := fmt.Sprintf(" next in %2ds", int((remaining+time.Second-1)/time.Second))
	if m.autoplay.Paused() {
		label = " paused"
	}

	percent := 0.0
	if interval > 0 {
		percent = 1 - float64(remaining)/float64(interval)
	}
	return m.countdown.ViewAs(percent) + styles.MutedText.Render(label)
}
