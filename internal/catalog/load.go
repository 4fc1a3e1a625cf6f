package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

type fileSlide struct {
	ID          string   `toml:"id" yaml:"id"`
	Media       string   `toml:"media" yaml:"media"`
	StartOffset *float64 `toml:"start_offset" yaml:"start_offset"` // seconds
	Title       string   `toml:"title" yaml:"title"`
	Description string   `toml:"description" yaml:"description"`
	Style       string   `toml:"style" yaml:"style"`
}

type fileCatalog struct {
	Slides []fileSlide `toml:"slides" yaml:"slides"`
}

// Load reads a catalog from a TOML or YAML file. Relative media paths resolve
// against the directory holding the catalog file.
func Load(path string) (*Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("catalog path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var raw fileCatalog
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse catalog: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse catalog: %w", err)
		}
	default:
		return nil, fmt.Errorf("catalog %s: unsupported format %q", path, ext)
	}

	base := filepath.Dir(path)
	slides := make([]Slide, 0, len(raw.Slides))
	for _, fs := range raw.Slides {
		slide := Slide{
			ID:          strings.TrimSpace(fs.ID),
			MediaSource: resolveMedia(base, fs.Media),
			Title:       strings.TrimSpace(fs.Title),
			Description: strings.TrimSpace(fs.Description),
			Style:       Style(fs.Style),
		}
		if slide.ID == "" {
			slide.ID = uuid.NewString()
		}
		if fs.StartOffset != nil {
			offset := time.Duration(*fs.StartOffset * float64(time.Second))
			slide.StartOffset = &offset
		}
		slides = append(slides, slide)
	}
	return New(slides)
}

func resolveMedia(base, media string) string {
	media = strings.TrimSpace(media)
	if media == "" || filepath.IsAbs(media) || strings.Contains(media, "://") {
		return media
	}
	return filepath.Join(base, media)
}

// Default returns the reference catalog with media resolved under mediaDir.
func Default(mediaDir string) *Catalog {
	const blurb = "A modern business hotel in the heart of vizag - where comfort meets convenience for travelers corporates, and event guests."
	c, err := New([]Slide{
		{ID: "1", MediaSource: filepath.Join(mediaDir, "01.mp4"), Title: "STAY SMART", Description: blurb, Style: StyleHorizontal},
		{ID: "2", MediaSource: filepath.Join(mediaDir, "02.mp4"), Title: "STAY CENTRAL", Description: blurb, Style: StyleVerticalWipe},
		{ID: "3", MediaSource: filepath.Join(mediaDir, "03.mp4"), Title: "STAY LEMON PARK", Description: blurb, Style: StyleHorizontal},
	})
	if err != nil {
		panic(fmt.Sprintf("default catalog: %v", err))
	}
	return c
}
