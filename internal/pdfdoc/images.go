package pdfdoc

import (
	"bytes"
	"image"
	"io"
	"sort"

	// Register decoders for DecodeConfig dimension sniffing.
	_ "image/jpeg"
	_ "image/png"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
)

// Image is one embedded raster image extracted from a page.
type Image struct {
	Page     int    // 1-based source page
	ObjNr    int    // PDF object number, stable across pages for shared images
	FileType string // "png", "jpg", ...
	Width    int    // 0 when dimensions could not be sniffed
	Height   int
	Data     []byte
}

// ExtractPageImages returns the embedded raster images of a page, ordered by
// object number. Out-of-range pages fail with *PageIndexError; decode
// problems on individual images skip that image rather than failing the page.
func (d *Document) ExtractPageImages(n int) ([]Image, error) {
	if n < 1 || n > d.pageCount {
		return nil, &PageIndexError{Index: n, Count: d.pageCount}
	}

	imgs, err := pdfcpu.ExtractPageImages(d.ctx, n, false)
	if err != nil {
		return nil, &PageReadError{Page: n, Err: err}
	}

	out := make([]Image, 0, len(imgs))
	for _, im := range imgs {
		data, err := io.ReadAll(im)
		if err != nil || len(data) == 0 {
			continue
		}
		img := Image{
			Page:     n,
			ObjNr:    im.ObjNr,
			FileType: im.FileType,
			Data:     data,
		}
		if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
			img.Width = cfg.Width
			img.Height = cfg.Height
		}
		out = append(out, img)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ObjNr < out[j].ObjNr })
	return out, nil
}
