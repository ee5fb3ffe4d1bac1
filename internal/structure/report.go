package structure

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/reportsite/reportsite/internal/pdfdoc"
)

// Report is the pipeline's final artifact: the resolved section tree plus
// the raw candidate lists kept for human review. Rendering consumes only
// Root; the diagnostic lists exist so a reviewer can see why the resolver
// decided what it did.
type Report struct {
	Source     string                `json:"source"`
	PageCount  int                   `json:"pageCount"`
	Metadata   pdfdoc.Metadata       `json:"metadata"`
	Root       *Section              `json:"sections"`
	Outline    []pdfdoc.OutlineEntry `json:"outline,omitempty"`
	TOCPages   []int                 `json:"tocPages,omitempty"`
	TOCEntries []TOCEntry            `json:"tocEntries,omitempty"`
	Candidates []HeadingCandidate    `json:"headingCandidates,omitempty"`
	Prefixes   []PrefixSample        `json:"numberingPrefixes,omitempty"`
	Skipped    []SkippedPage         `json:"skippedPages,omitempty"`
}

// WriteJSON serializes the report as indented JSON, preserving section
// ordering and nesting exactly as resolved.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteMarkdown writes the human-review summary: metadata block, outline
// with depth indentation, detected TOC pages and their parsed entries,
// heading candidates, and the numbering survey.
func (r *Report) WriteMarkdown(w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Extracted structure summary\n\n")
	fmt.Fprintf(&b, "- Source: %s\n", r.Source)
	fmt.Fprintf(&b, "- Pages: %d\n", r.PageCount)
	if r.Metadata.Title != "" {
		fmt.Fprintf(&b, "- Title: %s\n", r.Metadata.Title)
	}
	if r.Metadata.Author != "" {
		fmt.Fprintf(&b, "- Author: %s\n", r.Metadata.Author)
	}
	if r.Metadata.Producer != "" {
		fmt.Fprintf(&b, "- Producer: %s\n", r.Metadata.Producer)
	}

	b.WriteString("\n## Resolved sections\n\n")
	if r.Root != nil {
		for _, s := range r.Root.Children {
			writeSectionLines(&b, s, 0)
		}
		if len(r.Root.Children) == 0 {
			fmt.Fprintf(&b, "- p%d-%d: %s [%s]\n", r.Root.Start, r.Root.End, r.Root.Title, r.Root.Provenance)
		}
	}

	b.WriteString("\n## Outline (embedded bookmarks)\n\n")
	if len(r.Outline) > 0 {
		writeOutlineLines(&b, r.Outline)
	} else {
		b.WriteString("- (No embedded outline found)\n")
	}

	b.WriteString("\n## TOC pages detected by text\n\n")
	if len(r.TOCPages) > 0 {
		pages := make([]string, len(r.TOCPages))
		for i, p := range r.TOCPages {
			pages[i] = fmt.Sprintf("%d", p)
		}
		fmt.Fprintf(&b, "- %s\n", strings.Join(pages, ", "))
	} else {
		b.WriteString("- (No TOC page detected in scan window)\n")
	}

	b.WriteString("\n## TOC entries parsed from detected pages\n\n")
	if len(r.TOCEntries) > 0 {
		for _, e := range r.TOCEntries {
			fmt.Fprintf(&b, "- p%d: %s\n", e.Page, e.Title)
		}
	} else {
		b.WriteString("- (No TOC-like lines parsed)\n")
	}

	b.WriteString("\n## Heading candidates\n\n")
	if len(r.Candidates) > 0 {
		for _, c := range r.Candidates {
			fmt.Fprintf(&b, "- p%d (%s, weight %.1f): %s\n", c.Page, c.Method, c.Weight, c.Text)
		}
	} else {
		b.WriteString("- (No heading candidates found)\n")
	}

	b.WriteString("\n## Section numbering prefixes\n\n")
	if len(r.Prefixes) > 0 {
		for _, p := range r.Prefixes {
			fmt.Fprintf(&b, "- %s (x%d): %s\n", p.Prefix, p.Count, p.Example)
		}
	} else {
		b.WriteString("- (No section numbering patterns detected)\n")
	}

	if len(r.Skipped) > 0 {
		b.WriteString("\n## Skipped pages\n\n")
		for _, s := range r.Skipped {
			fmt.Fprintf(&b, "- p%d: %s\n", s.Page, s.Reason)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeSectionLines(b *strings.Builder, s *Section, indent int) {
	fmt.Fprintf(b, "%s- p%d-%d: %s [%s]\n", strings.Repeat("  ", indent), s.Start, s.End, s.Title, s.Provenance)
	for _, c := range s.Children {
		writeSectionLines(b, c, indent+1)
	}
}

func writeOutlineLines(b *strings.Builder, entries []pdfdoc.OutlineEntry) {
	for _, e := range entries {
		page := "p?"
		if e.Page > 0 {
			page = fmt.Sprintf("p%d", e.Page)
		}
		fmt.Fprintf(b, "%s- %s: %s\n", strings.Repeat("  ", e.Depth), page, e.Title)
		writeOutlineLines(b, e.Children)
	}
}
