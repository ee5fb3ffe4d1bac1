package structure

import (
	"regexp"
	"sort"
	"strings"

	"github.com/reportsite/reportsite/internal/pdfdoc"
)

// HeuristicConfig tunes the per-page heading detector.
type HeuristicConfig struct {
	// SizeMargin is how far above the page's median font size a line must
	// be to count as a visual heading.
	SizeMargin float64
	// MinLen and MaxLen bound the candidate text length in characters.
	// Headings are short; anything at MaxLen or longer is paragraph text.
	MinLen int
	MaxLen int
}

// DefaultHeuristicConfig returns the detector defaults.
func DefaultHeuristicConfig() HeuristicConfig {
	return HeuristicConfig{
		SizeMargin: 3.0,
		MinLen:     4,
		MaxLen:     80,
	}
}

// numberingRe matches section-numbering prefixes like "3 Title", "2.4 Title"
// and the spelled-out form "Section 4 Title".
var numberingRe = regexp.MustCompile(`^(?i:(?:section|chapter|part)\s+)?(\d+(?:\.\d+)*)\s+\S`)

// DetectHeadings proposes heading candidates for one page. Two signals run
// side by side: lines whose font size sits well above the page median, and
// lines that open with a section-numbering prefix regardless of size. The
// output is advisory and deterministic; an empty slice is the normal result
// for body-only pages, never an error.
func DetectHeadings(page *pdfdoc.Page, cfg HeuristicConfig) []HeadingCandidate {
	if page == nil || len(page.Runs) == 0 {
		return nil
	}

	lines, lineSizes := groupLines(page.Runs)
	median := medianSize(page.Runs)
	threshold := median + cfg.SizeMargin

	// Uniform-size pages carry no visual signal; only numbering applies.
	uniform := true
	for _, r := range page.Runs {
		if r.FontSize > median+0.01 || r.FontSize < median-0.01 {
			uniform = false
			break
		}
	}

	var out []HeadingCandidate
	index := make(map[string]int) // text -> position in out, dedup per page

	add := func(text string, weight float64, method Method) {
		if i, ok := index[text]; ok {
			// A numbering match upgrades an existing visual candidate; the
			// heavier weight survives either way.
			if method == MethodNumbering {
				out[i].Method = MethodNumbering
			}
			if weight > out[i].Weight {
				out[i].Weight = weight
			}
			return
		}
		index[text] = len(out)
		out = append(out, HeadingCandidate{
			Page:   page.Number,
			Text:   text,
			Weight: weight,
			Method: method,
		})
	}

	for i, text := range lines {
		if n := len(text); n < cfg.MinLen || n >= cfg.MaxLen {
			continue
		}
		if !uniform && lineSizes[i] >= threshold {
			add(text, lineSizes[i]-median, MethodHeading)
		}
		if m := numberingRe.FindStringSubmatch(text); m != nil {
			depth := strings.Count(m[1], ".") + 1
			add(text, float64(depth), MethodNumbering)
		}
	}
	return out
}

// groupLines joins the page's runs into full line texts, each tagged with
// the smallest font size on the line. A heading line is all heading-sized;
// mixing in body-sized runs disqualifies it, which keeps inline emphasis
// inside paragraphs from surfacing as candidates.
func groupLines(runs []pdfdoc.TextRun) (texts []string, sizes []float64) {
	var sb strings.Builder
	var minSize float64
	last := -1

	flush := func() {
		if t := strings.TrimSpace(sb.String()); t != "" {
			texts = append(texts, t)
			sizes = append(sizes, minSize)
		}
		sb.Reset()
	}

	for _, r := range runs {
		if last >= 0 && r.Line != last {
			flush()
			minSize = 0
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(r.Text)
		if minSize == 0 || r.FontSize < minSize {
			minSize = r.FontSize
		}
		last = r.Line
	}
	flush()
	return texts, sizes
}

func medianSize(runs []pdfdoc.TextRun) float64 {
	sizes := make([]float64, len(runs))
	for i, r := range runs {
		sizes[i] = r.FontSize
	}
	sort.Float64s(sizes)
	return sizes[len(sizes)/2]
}
