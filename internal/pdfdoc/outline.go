package pdfdoc

import (
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
)

// OutlineEntry is one node of the document's embedded bookmark tree.
// Entries appear in document order. Page is the 1-based target page, or 0
// when the bookmark's destination did not resolve; unresolved entries are
// kept for title ordering but excluded from page-range resolution.
type OutlineEntry struct {
	Title    string         `json:"title"`
	Depth    int            `json:"depth"`
	Page     int            `json:"page"`
	Children []OutlineEntry `json:"children,omitempty"`
}

// Outline returns the embedded bookmark tree, or an empty slice when the
// document carries none. A malformed outline dictionary is treated the same
// as a missing one.
func (d *Document) Outline() []OutlineEntry {
	bms, err := pdfcpu.Bookmarks(d.ctx)
	if err != nil || len(bms) == 0 {
		return nil
	}
	return convertBookmarks(bms, 0, d.pageCount)
}

func convertBookmarks(bms []pdfcpu.Bookmark, depth, pageCount int) []OutlineEntry {
	out := make([]OutlineEntry, 0, len(bms))
	for _, bm := range bms {
		title := collapseSpaces(bm.Title)
		if title == "" {
			continue
		}
		page := bm.PageFrom
		if page < 1 || page > pageCount {
			page = 0
		}
		out = append(out, OutlineEntry{
			Title:    title,
			Depth:    depth,
			Page:     page,
			Children: convertBookmarks(bm.Kids, depth+1, pageCount),
		})
	}
	return out
}

// collapseSpaces normalizes runs of whitespace to single spaces and trims.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
