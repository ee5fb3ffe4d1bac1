package site

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/reportsite/reportsite/internal/pdfdoc"
)

// ImageSource yields embedded images per page. *pdfdoc.Document satisfies
// it; a nil source disables figure extraction.
type ImageSource interface {
	ExtractPageImages(n int) ([]pdfdoc.Image, error)
}

// figure is one extracted image placed in the built site.
type figure struct {
	Src     string // path relative to the site root
	Caption string
}

// extractFigures pulls embedded raster images for a section's page range
// into outDir/assets/figures. Images below minPixels are skipped as page
// furniture; images shared across pages are written once per section (they
// repeat as letterhead otherwise). Per-page failures are tolerated.
func (b *Builder) extractFigures(src ImageSource, slug string, start, end int, outDir string) ([]figure, error) {
	if src == nil {
		return nil, nil
	}
	figDir := filepath.Join(outDir, "assets", "figures")
	if err := os.MkdirAll(figDir, 0o755); err != nil {
		return nil, err
	}

	var figs []figure
	seen := make(map[int]bool)
	for p := start; p <= end; p++ {
		imgs, err := src.ExtractPageImages(p)
		if err != nil {
			b.log.Warn("figure extraction skipped page", "page", p, "error", err)
			continue
		}
		for _, img := range imgs {
			if seen[img.ObjNr] {
				continue
			}
			seen[img.ObjNr] = true
			if img.Width*img.Height < b.minFigurePixels {
				continue
			}
			ext := img.FileType
			if ext == "" {
				ext = "png"
			}
			name := fmt.Sprintf("%s-p%03d-x%d.%s", slug, p, img.ObjNr, ext)
			if err := os.WriteFile(filepath.Join(figDir, name), img.Data, 0o644); err != nil {
				return nil, fmt.Errorf("write figure %s: %w", name, err)
			}
			figs = append(figs, figure{
				Src:     "assets/figures/" + name,
				Caption: fmt.Sprintf("Extracted figure (source page %d)", p),
			})
			if len(figs) >= b.maxFigures {
				return figs, nil
			}
		}
	}
	return figs, nil
}
