package structure

import (
	"context"
	"log/slog"

	"github.com/reportsite/reportsite/internal/pdfdoc"
)

// DocumentSource is the document-level view the pipeline consumes.
// *pdfdoc.Document satisfies it.
type DocumentSource interface {
	PageSource
	Outline() []pdfdoc.OutlineEntry
	Metadata() pdfdoc.Metadata
	Path() string
}

// Config collects every pipeline knob.
type Config struct {
	Scan    ScanConfig
	Resolve ResolveConfig
}

// DefaultConfig returns the pipeline defaults.
func DefaultConfig() Config {
	return Config{
		Scan:    DefaultScanConfig(),
		Resolve: DefaultResolveConfig(),
	}
}

// Extract runs the whole pipeline over an open document: scan pages for
// candidates, locate rendered TOC pages, resolve the section tree, verify
// page coverage, and assemble the report. Emission is all-or-nothing: a
// coverage failure returns the error and no report.
func Extract(ctx context.Context, doc DocumentSource, cfg Config, log *slog.Logger) (*Report, error) {
	scan := Scan(ctx, doc, cfg.Scan, log)

	outline := doc.Outline()
	root := Resolve(outline, scan.TOCPages, scan.Candidates, doc.PageCount(), cfg.Resolve)

	if meta := doc.Metadata(); meta.Title != "" {
		root.Title = meta.Title
	}

	// Assertion boundary: a malformed tree here is a resolver bug.
	if _, err := AssignPages(root, doc.PageCount()); err != nil {
		return nil, err
	}

	report := &Report{
		Source:     doc.Path(),
		PageCount:  doc.PageCount(),
		Metadata:   doc.Metadata(),
		Root:       root,
		Outline:    outline,
		Candidates: scan.Candidates,
		Prefixes:   scan.Prefixes,
		Skipped:    scan.Skipped,
	}
	for _, tp := range scan.TOCPages {
		report.TOCPages = append(report.TOCPages, tp.Page)
		report.TOCEntries = append(report.TOCEntries, tp.Entries...)
	}
	log.Info("structure resolved",
		"sections", countSections(root),
		"provenance", root.Provenance,
		"pages", doc.PageCount(),
	)
	return report, nil
}

func countSections(root *Section) int {
	n := 0
	root.Walk(func(*Section) { n++ })
	return n
}
