package app

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/five82/marquee/internal/carousel"
	"github.com/five82/marquee/internal/catalog"
	"github.com/five82/marquee/internal/logging"
)

// LogRenderer is the render collaborator for headless runs. It has no layout
// to flush, so it deliberately does not implement carousel.Committer.
type LogRenderer struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// NewLogRenderer returns a renderer that writes frames to logger.
func NewLogRenderer(cat *catalog.Catalog, logger *slog.Logger) *LogRenderer {
	return &LogRenderer{catalog: cat, logger: logging.Component(logger, "banner")}
}

// Render logs every frame at debug and every resting layout at info.
func (r *LogRenderer) Render(f carousel.Frame) {
	placements := FormatPlacements(f.Placements)
	r.logger.Debug("frame",
		"seq", f.Seq,
		"stage", f.Stage.String(),
		"transition_id", f.TransitionID,
		"previous", f.Previous,
		"current", f.Current,
		"placements", placements,
	)
	if f.Stage == carousel.StageInitial {
		return
	}
	title := ""
	if slide, ok := r.catalog.Slide(f.Current); ok {
		title = slide.Title
	}
	r.logger.Info("layout", "slide", f.Current, "title", title, "placements", placements)
}

// FormatPlacements renders placements compactly, marking the active slide
// with an asterisk: "0:(X,-100%) 1*:(X,0) 2:(X,0)".
func FormatPlacements(placements []carousel.Placement) string {
	parts := make([]string, len(placements))
	for i, p := range placements {
		label := strconv.Itoa(p.Index)
		if p.Active {
			label += "*"
		}
		parts[i] = label + ":" + p.Offset.String()
	}
	return strings.Join(parts, " ")
}
