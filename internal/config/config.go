package config

import (
	"os"
	"strconv"

	"github.com/reportsite/reportsite/internal/structure"
)

type Config struct {
	Port string

	// Candidate scanning
	ScanWindow  int // leading pages searched for a rendered TOC
	SamplePages int // pages fed to heading detection; 0 = whole document
	ScanWorkers int

	// Heading heuristic
	HeadingMargin float64 // points above page median font size
	MinHeadingLen int
	MaxHeadingLen int

	// Resolution
	MinGapPages int

	// Figure extraction
	MinFigurePixels int
	MaxFigures      int // per section
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8080"),

		ScanWindow:  envInt("SCAN_WINDOW", 15),
		SamplePages: envInt("SAMPLE_PAGES", 0),
		ScanWorkers: envInt("SCAN_WORKERS", 4),

		HeadingMargin: envFloat("HEADING_MARGIN", 3.0),
		MinHeadingLen: envInt("MIN_HEADING_LEN", 4),
		MaxHeadingLen: envInt("MAX_HEADING_LEN", 80),

		MinGapPages: envInt("MIN_GAP_PAGES", 5),

		MinFigurePixels: envInt("MIN_FIGURE_PIXELS", 120000),
		MaxFigures:      envInt("MAX_FIGURES_PER_SECTION", 20),
	}

	if cfg.ScanWindow <= 0 {
		cfg.ScanWindow = 15
	}
	if cfg.SamplePages < 0 {
		cfg.SamplePages = 0
	}
	if cfg.ScanWorkers <= 0 {
		cfg.ScanWorkers = 4
	}
	if cfg.HeadingMargin <= 0 {
		cfg.HeadingMargin = 3.0
	}
	if cfg.MinHeadingLen <= 0 {
		cfg.MinHeadingLen = 4
	}
	if cfg.MaxHeadingLen <= cfg.MinHeadingLen {
		cfg.MaxHeadingLen = 80
	}
	if cfg.MinGapPages <= 0 {
		cfg.MinGapPages = 5
	}
	if cfg.MinFigurePixels < 0 {
		cfg.MinFigurePixels = 120000
	}
	if cfg.MaxFigures <= 0 {
		cfg.MaxFigures = 20
	}

	return cfg
}

// Pipeline maps the loaded configuration onto the extraction pipeline knobs.
func (c Config) Pipeline() structure.Config {
	return structure.Config{
		Scan: structure.ScanConfig{
			Heuristic: structure.HeuristicConfig{
				SizeMargin: c.HeadingMargin,
				MinLen:     c.MinHeadingLen,
				MaxLen:     c.MaxHeadingLen,
			},
			TOC: structure.TOCConfig{
				ScanWindow: c.ScanWindow,
				MinLineLen: 6,
			},
			SamplePages: c.SamplePages,
			Workers:     c.ScanWorkers,
		},
		Resolve: structure.ResolveConfig{
			MinGapPages: c.MinGapPages,
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
