package structure

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/reportsite/reportsite/internal/pdfdoc"
)

// TOCConfig tunes the rendered-TOC locator.
type TOCConfig struct {
	// ScanWindow is how many leading pages to inspect for TOC cues.
	ScanWindow int
	// MinLineLen drops fragments too short to be a plausible TOC row.
	MinLineLen int
}

// DefaultTOCConfig returns the locator defaults.
func DefaultTOCConfig() TOCConfig {
	return TOCConfig{
		ScanWindow: 15,
		MinLineLen: 6,
	}
}

// tocCues are the lowercase phrases that mark a rendered contents page.
var tocCues = []string{"table of contents", "contents"}

// tocLineRe matches a TOC row: a title, filler, and a trailing 1-4 digit
// printed page number.
var tocLineRe = regexp.MustCompile(`^(.+?)\s+(\d{1,4})\s*$`)

// LocateTOC scans the given pages (the caller passes the document's leading
// pages, in order) for rendered table-of-contents pages and parses their
// (title, printed page) rows. An empty result is a normal outcome for
// documents whose embedded outline is authoritative.
func LocateTOC(pages []*pdfdoc.Page, cfg TOCConfig) []TOCPage {
	if cfg.ScanWindow <= 0 {
		return nil
	}
	var out []TOCPage
	for i, page := range pages {
		if i >= cfg.ScanWindow || page == nil {
			break
		}
		lower := strings.ToLower(page.Text)
		cueHit := false
		for _, cue := range tocCues {
			if strings.Contains(lower, cue) {
				cueHit = true
				break
			}
		}
		if !cueHit {
			continue
		}
		out = append(out, TOCPage{
			Page:    page.Number,
			Entries: ParseTOCLines(page.Lines(), cfg),
		})
	}
	return out
}

// ParseTOCLines extracts (title, page) pairs from candidate TOC rows.
// Dotted leaders and trailing filler are stripped from titles; rows whose
// title is empty or purely numeric are rejected as false positives.
func ParseTOCLines(lines []string, cfg TOCConfig) []TOCEntry {
	var entries []TOCEntry
	for _, raw := range lines {
		line := strings.Join(strings.Fields(raw), " ")
		if len(line) < cfg.MinLineLen {
			continue
		}
		m := tocLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		title := strings.TrimRight(m[1], " .·")
		if title == "" || isDigits(title) {
			continue
		}
		page, err := strconv.Atoi(m[2])
		if err != nil || page < 1 {
			continue
		}
		entries = append(entries, TOCEntry{Title: title, Page: page})
	}
	return entries
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
