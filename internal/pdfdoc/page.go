package pdfdoc

import (
	"fmt"
	"math"
	"sort"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// TextRun is a horizontal stretch of same-sized text on one page line.
type TextRun struct {
	Text     string  `json:"text"`
	FontSize float64 `json:"fontSize"`
	Line     int     `json:"line"`
}

// Page is a read-only view of one document page.
type Page struct {
	Number int       // 1-based page index
	Text   string    // assembled plain text, one entry per layout line
	Runs   []TextRun // reading-order runs with font-size metadata
}

// Lines splits the page text into its layout lines.
func (p *Page) Lines() []string {
	if p.Text == "" {
		return nil
	}
	return strings.Split(p.Text, "\n")
}

// Page returns the page with the given 1-based number. Out-of-range numbers
// fail with *PageIndexError; pages whose content stream cannot be decoded
// fail with *PageReadError.
func (d *Document) Page(n int) (p *Page, err error) {
	if n < 1 || n > d.pageCount {
		return nil, &PageIndexError{Index: n, Count: d.pageCount}
	}

	// The content-stream interpreter panics on malformed operators rather
	// than returning an error; contain that to a per-page failure.
	defer func() {
		if r := recover(); r != nil {
			p = nil
			err = &PageReadError{Page: n, Err: fmt.Errorf("content: %v", r)}
		}
	}()

	raw := d.reader.Page(n)
	if raw.V.IsNull() {
		return nil, &PageReadError{Page: n, Err: fmt.Errorf("page object missing")}
	}

	runs := assembleRuns(raw.Content().Text)
	return &Page{
		Number: n,
		Text:   runsToText(runs),
		Runs:   runs,
	}, nil
}

// Line-grouping tolerances, in points. Glyphs within lineTolerance of a
// line's running Y average belong to that line; a horizontal gap wider than
// 20% of the font size becomes a space.
const (
	lineTolerance = 2.0
	sizeTolerance = 0.05
	minGap        = 0.5
)

// assembleRuns groups the reader's per-glyph content items into reading-order
// text runs: glyphs are sorted top-to-bottom, clustered into lines by Y
// proximity, ordered left-to-right within a line, and split into a new run
// whenever the font size changes.
func assembleRuns(texts []pdflib.Text) []TextRun {
	if len(texts) == 0 {
		return nil
	}

	glyphs := append([]pdflib.Text(nil), texts...)
	sort.Sort(pdflib.TextVertical(glyphs))

	var lines [][]pdflib.Text
	var current []pdflib.Text
	var currentY float64

	flush := func() {
		if len(current) == 0 {
			return
		}
		sort.SliceStable(current, func(i, j int) bool {
			return current[i].X < current[j].X
		})
		lines = append(lines, current)
		current = nil
	}

	for i, g := range glyphs {
		if i == 0 || math.Abs(g.Y-currentY) <= lineTolerance {
			current = append(current, g)
			// Running average keeps slightly sloped baselines together.
			currentY = (currentY*float64(len(current)-1) + g.Y) / float64(len(current))
			continue
		}
		flush()
		current = []pdflib.Text{g}
		currentY = g.Y
	}
	flush()

	var runs []TextRun
	for lineNo, line := range lines {
		var sb strings.Builder
		var size float64
		var prevEnd float64
		started := false

		emit := func() {
			text := strings.TrimSpace(sb.String())
			if text != "" {
				runs = append(runs, TextRun{Text: text, FontSize: size, Line: lineNo})
			}
			sb.Reset()
		}

		for _, g := range line {
			if started && math.Abs(g.FontSize-size) > sizeTolerance {
				emit()
				started = false
			}
			if started {
				gap := g.X - prevEnd
				if gap > math.Max(g.FontSize*0.2, minGap) {
					sb.WriteByte(' ')
				}
			}
			sb.WriteString(g.S)
			size = g.FontSize
			prevEnd = g.X + g.W
			started = true
		}
		emit()
	}
	return runs
}

// runsToText joins runs back into plain text, one line per layout line.
func runsToText(runs []TextRun) string {
	var sb strings.Builder
	lastLine := -1
	for _, r := range runs {
		if lastLine >= 0 {
			if r.Line != lastLine {
				sb.WriteByte('\n')
			} else {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(r.Text)
		lastLine = r.Line
	}
	return sb.String()
}
