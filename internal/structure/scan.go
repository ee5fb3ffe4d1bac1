package structure

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/reportsite/reportsite/internal/pdfdoc"
)

// PageSource yields pages for scanning. *pdfdoc.Document satisfies it;
// tests substitute fakes.
type PageSource interface {
	PageCount() int
	Page(n int) (*pdfdoc.Page, error)
}

// ScanConfig tunes the candidate scan.
type ScanConfig struct {
	Heuristic HeuristicConfig
	TOC       TOCConfig
	// SamplePages caps how many leading pages feed heading detection and
	// the numbering survey. Zero means the whole document.
	SamplePages int
	// Workers bounds scan concurrency. Pages are independent during the
	// scan; only resolution needs the full collected set.
	Workers int
}

// DefaultScanConfig returns the scan defaults.
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		Heuristic: DefaultHeuristicConfig(),
		TOC:       DefaultTOCConfig(),
		Workers:   4,
	}
}

// ScanResult is everything one pass over the document collected.
type ScanResult struct {
	Candidates []HeadingCandidate
	TOCPages   []TOCPage
	Prefixes   []PrefixSample
	Skipped    []SkippedPage
}

// Scan runs heading detection over the document with a bounded worker pool
// and locates rendered TOC pages in the leading window. A page that fails
// to read is skipped with a diagnostic note and contributes zero
// candidates. Output ordering is deterministic regardless of worker
// interleaving.
func Scan(ctx context.Context, src PageSource, cfg ScanConfig, log *slog.Logger) *ScanResult {
	total := src.PageCount()
	limit := total
	if cfg.SamplePages > 0 && cfg.SamplePages < limit {
		limit = cfg.SamplePages
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	type pageScan struct {
		page    int
		cands   []HeadingCandidate
		lines   []string
		tocPage *pdfdoc.Page
		err     error
	}
	results := make([]pageScan, limit)

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for n := 1; n <= limit; n++ {
		// Treat remaining pages as skipped on cancellation; the pipeline
		// still resolves with what it has.
		if err := ctx.Err(); err != nil {
			results[n-1] = pageScan{page: n, err: err}
			continue
		}
		select {
		case <-ctx.Done():
			results[n-1] = pageScan{page: n, err: ctx.Err()}
			continue
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			defer func() { <-sem }()
			page, err := src.Page(n)
			if err != nil {
				results[n-1] = pageScan{page: n, err: err}
				return
			}
			ps := pageScan{
				page:  n,
				cands: DetectHeadings(page, cfg.Heuristic),
				lines: page.Lines(),
			}
			if n <= cfg.TOC.ScanWindow {
				ps.tocPage = page
			}
			results[n-1] = ps
		}(n)
	}
	wg.Wait()

	out := &ScanResult{}
	prefixes := NewPrefixCounter()
	var tocWindow []*pdfdoc.Page
	for _, ps := range results {
		if ps.err != nil {
			log.Warn("page skipped", "page", ps.page, "error", ps.err)
			out.Skipped = append(out.Skipped, SkippedPage{Page: ps.page, Reason: ps.err.Error()})
			continue
		}
		out.Candidates = append(out.Candidates, ps.cands...)
		for _, line := range ps.lines {
			prefixes.AddLine(line)
		}
		if ps.tocPage != nil {
			tocWindow = append(tocWindow, ps.tocPage)
		}
	}
	sort.SliceStable(tocWindow, func(i, j int) bool { return tocWindow[i].Number < tocWindow[j].Number })

	out.TOCPages = LocateTOC(tocWindow, cfg.TOC)
	out.Prefixes = prefixes.Top()
	log.Info("scan complete",
		"pages", limit,
		"candidates", len(out.Candidates),
		"toc_pages", len(out.TOCPages),
		"skipped", len(out.Skipped),
	)
	return out
}
