// Package structure turns a PDF's outline, rendered table-of-contents text,
// and visual heading cues into one canonical section tree covering every
// page of the document.
package structure

// Method tags where a structural signal came from. Detectors attach one to
// every candidate so the resolver can arbitrate with full information.
type Method string

const (
	// MethodOutline marks boundaries taken from the embedded bookmark tree.
	MethodOutline Method = "outline"
	// MethodTOCText marks entries parsed from a rendered table-of-contents page.
	MethodTOCText Method = "toc-text"
	// MethodHeading marks candidates from the font-size heuristic.
	MethodHeading Method = "heading"
	// MethodNumbering marks candidates matched by a section-numbering prefix.
	MethodNumbering Method = "numbering"
	// MethodUnresolved marks filler sections created when no signal exists.
	MethodUnresolved Method = "unresolved"
)

// HeadingCandidate is a heuristically detected probable section title.
// Candidates are advisory: the detectors intentionally over-report and the
// resolver decides what becomes a boundary.
type HeadingCandidate struct {
	Page   int     `json:"page"`
	Text   string  `json:"text"`
	Weight float64 `json:"weight"`
	Method Method  `json:"method"`
}

// TOCEntry is one (title, page) pair parsed from a rendered TOC page. Page
// is the printed page number, which may differ from the physical page index
// by an offset the resolver detects.
type TOCEntry struct {
	Title string `json:"title"`
	Page  int    `json:"page"`
}

// TOCPage is a page judged to contain a rendered table of contents, with a
// best-effort parse of its entries.
type TOCPage struct {
	Page    int        `json:"page"`
	Entries []TOCEntry `json:"entries"`
}

// PrefixSample summarizes one section-numbering prefix ("1", "2.3", ...)
// seen in the scanned pages, with its occurrence count and first example
// line. Diagnostics only; rendering never consumes these.
type PrefixSample struct {
	Prefix  string `json:"prefix"`
	Count   int    `json:"count"`
	Example string `json:"example"`
}

// SkippedPage records a page the scan could not read. The page contributes
// zero candidates and the run continues.
type SkippedPage struct {
	Page   int    `json:"page"`
	Reason string `json:"reason"`
}
