package structure

import (
	"sort"
	"strings"

	"github.com/reportsite/reportsite/internal/pdfdoc"
)

// ResolveConfig tunes boundary resolution.
type ResolveConfig struct {
	// MinGapPages is the smallest page span with no outline or TOC boundary
	// that heading candidates are allowed to split.
	MinGapPages int
}

// DefaultResolveConfig returns the resolver defaults.
func DefaultResolveConfig() ResolveConfig {
	return ResolveConfig{MinGapPages: 5}
}

// boundary is a resolved section start before tree assembly. depth is
// tree depth: the synthetic root sits at 0, top-level sections at 1.
type boundary struct {
	page  int
	title string
	depth int
	prov  Method
	order int // source arrival order, breaks remaining ties
}

// Resolve merges the embedded outline, rendered-TOC entries, and heading
// candidates into one canonical section tree rooted at a synthetic
// document-spanning section.
//
// Precedence is strict and deterministic:
//
//  1. An outline whose top-level entries all resolve to valid pages is the
//     primary source of boundaries; section nesting mirrors outline nesting.
//  2. When the outline is absent or incomplete, TOC-text entries fill in
//     titles. Their printed page numbers are shifted by an offset detected
//     from titles the outline and TOC share; with no outline to calibrate
//     against, printed and physical numbers are assumed to coincide.
//  3. Heading and numbering candidates only split spans of at least
//     MinGapPages that no higher-precedence boundary covers. They never
//     override an outline boundary.
//
// Two boundaries on the same page: the shallower one takes the boundary and
// the deeper becomes a child starting on the same page. Every page gap is
// closed by extending the preceding section forward; pages before the first
// boundary become an unlabeled front-matter filler. With no usable signal
// at all the result is a single root tagged unresolved: a degraded but
// valid output, not an error.
func Resolve(outline []pdfdoc.OutlineEntry, tocPages []TOCPage, cands []HeadingCandidate, pageCount int, cfg ResolveConfig) *Section {
	root := &Section{
		Title:      "Document",
		Start:      1,
		End:        pageCount,
		Depth:      0,
		Provenance: MethodUnresolved,
	}
	if pageCount <= 0 {
		root.End = 0
		return root
	}

	var bounds []boundary
	order := 0
	addBound := func(page int, title string, depth int, prov Method) {
		if page < 1 || page > pageCount || title == "" {
			return
		}
		bounds = append(bounds, boundary{page: page, title: title, depth: depth, prov: prov, order: order})
		order++
	}

	// 1. Outline boundaries. Entries with unresolved targets are skipped
	// here but still anchor title matching below.
	flat := flattenOutline(outline)
	for _, e := range flat {
		if e.Page > 0 {
			addBound(e.Page, e.Title, e.Depth+1, MethodOutline)
		}
	}

	// 2. TOC-text boundaries, only when the outline cannot stand alone.
	tocEntries := flattenTOC(tocPages)
	if !outlineComplete(outline, pageCount) && len(tocEntries) > 0 {
		offset := detectPageOffset(flat, tocEntries)
		known := make(map[string]bool, len(flat))
		for _, e := range flat {
			known[normalizeTitle(e.Title)] = true
		}
		for _, e := range tocEntries {
			if known[normalizeTitle(e.Title)] {
				continue
			}
			depth := 1
			if m := numberingRe.FindStringSubmatch(e.Title); m != nil {
				depth = strings.Count(m[1], ".") + 1
			}
			addBound(e.Page+offset, e.Title, depth, MethodTOCText)
		}
	}

	if len(bounds) == 0 && len(cands) == 0 {
		return root
	}

	sortBounds(bounds)
	bounds = dedupeBounds(bounds)

	// 3. Heading candidates split remaining sizeable gaps, recursively
	// until no gap of MinGapPages or more has a usable candidate.
	bounds = fillGaps(bounds, cands, pageCount, cfg.MinGapPages)

	if len(bounds) == 0 {
		return root
	}

	buildTree(root, bounds)
	root.Provenance = primaryProvenance(bounds)
	if first := root.Children[0]; first.Start > 1 {
		filler := &Section{
			Title:      "Front Matter",
			Start:      1,
			End:        first.Start - 1,
			Depth:      1,
			Provenance: MethodUnresolved,
		}
		root.Children = append([]*Section{filler}, root.Children...)
	}
	return root
}

// flattenOutline lists outline entries in document order.
func flattenOutline(entries []pdfdoc.OutlineEntry) []pdfdoc.OutlineEntry {
	var out []pdfdoc.OutlineEntry
	var walk func(es []pdfdoc.OutlineEntry)
	walk = func(es []pdfdoc.OutlineEntry) {
		for _, e := range es {
			children := e.Children
			e.Children = nil
			out = append(out, e)
			walk(children)
		}
	}
	walk(entries)
	return out
}

func flattenTOC(pages []TOCPage) []TOCEntry {
	var out []TOCEntry
	for _, p := range pages {
		out = append(out, p.Entries...)
	}
	return out
}

// outlineComplete reports whether the outline exists and every top-level
// entry resolved to a page, the condition for rule 1 to stand alone.
func outlineComplete(outline []pdfdoc.OutlineEntry, pageCount int) bool {
	if len(outline) == 0 {
		return false
	}
	for _, e := range outline {
		if e.Page < 1 || e.Page > pageCount {
			return false
		}
	}
	return true
}

// detectPageOffset estimates physical-minus-printed page offset by matching
// TOC titles against outline entries with resolved pages. The most common
// difference wins; ties prefer the smaller magnitude, then the positive
// shift (front matter pushes physical numbers past printed ones, never the
// reverse). Zero means printed and physical numbering coincide (or nothing
// matched).
func detectPageOffset(outline []pdfdoc.OutlineEntry, toc []TOCEntry) int {
	byTitle := make(map[string]int)
	for _, e := range outline {
		if e.Page > 0 {
			if _, ok := byTitle[normalizeTitle(e.Title)]; !ok {
				byTitle[normalizeTitle(e.Title)] = e.Page
			}
		}
	}
	votes := make(map[int]int)
	for _, e := range toc {
		if phys, ok := byTitle[normalizeTitle(e.Title)]; ok {
			votes[phys-e.Page]++
		}
	}
	if len(votes) == 0 {
		return 0
	}
	offsets := make([]int, 0, len(votes))
	for off := range votes {
		offsets = append(offsets, off)
	}
	sort.Slice(offsets, func(i, j int) bool {
		a, b := offsets[i], offsets[j]
		if votes[a] != votes[b] {
			return votes[a] > votes[b]
		}
		if abs(a) != abs(b) {
			return abs(a) < abs(b)
		}
		return a > b
	})
	return offsets[0]
}

func normalizeTitle(s string) string {
	s = strings.ToLower(strings.Join(strings.Fields(s), " "))
	return strings.TrimRight(s, " .·")
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// methodRank orders provenance by resolution precedence.
var methodRank = map[Method]int{
	MethodOutline:    0,
	MethodTOCText:    1,
	MethodNumbering:  2,
	MethodHeading:    3,
	MethodUnresolved: 4,
}

// primaryProvenance reports the highest-precedence source that contributed a
// boundary; the root carries it so a reader can tell at a glance what the
// tree rests on.
func primaryProvenance(bounds []boundary) Method {
	best := MethodUnresolved
	for _, b := range bounds {
		if methodRank[b.prov] < methodRank[best] {
			best = b.prov
		}
	}
	return best
}

// sortBounds orders boundaries by page, then depth (shallower first, the
// same-page tie-break), then arrival order.
func sortBounds(bounds []boundary) {
	sort.SliceStable(bounds, func(i, j int) bool {
		if bounds[i].page != bounds[j].page {
			return bounds[i].page < bounds[j].page
		}
		if bounds[i].depth != bounds[j].depth {
			return bounds[i].depth < bounds[j].depth
		}
		return bounds[i].order < bounds[j].order
	})
}

// dedupeBounds drops repeated (page, title) pairs and demotes same-page
// rivals: after the shallowest boundary claims a page, later boundaries on
// that page nest strictly deeper.
func dedupeBounds(bounds []boundary) []boundary {
	var out []boundary
	seen := make(map[string]bool)
	prevDepth := -1
	prevPage := -1
	for _, b := range bounds {
		key := normalizeTitle(b.title)
		if b.page == prevPage {
			if seen[key] {
				continue
			}
			if b.depth <= prevDepth {
				b.depth = prevDepth + 1
			}
		} else {
			seen = make(map[string]bool)
		}
		seen[key] = true
		out = append(out, b)
		prevPage = b.page
		prevDepth = b.depth
	}
	return out
}

// fillGaps inserts the best heading candidate into every span of minGap or
// more pages that has no boundary, repeating until no insertable gap
// remains. Inserted boundaries nest one level under the section they split.
func fillGaps(bounds []boundary, cands []HeadingCandidate, pageCount, minGap int) []boundary {
	if minGap <= 0 || len(cands) == 0 {
		return bounds
	}

	// Best candidate per page, deterministic under equal weights.
	byPage := make(map[int]HeadingCandidate)
	for _, c := range cands {
		cur, ok := byPage[c.Page]
		if !ok || c.Weight > cur.Weight || (c.Weight == cur.Weight && c.Text < cur.Text) {
			byPage[c.Page] = c
		}
	}
	used := make(map[int]bool)
	for _, b := range bounds {
		used[b.page] = true
	}

	for {
		gaps := openGaps(bounds, pageCount, minGap)
		if len(gaps) == 0 {
			return bounds
		}
		inserted := false
		for _, g := range gaps {
			best, ok := bestInGap(byPage, used, g.lo, g.hi)
			if !ok {
				continue
			}
			// Numbering prefixes encode their own absolute depth ("2.1" is
			// a level-two heading wherever it lands); visual headings nest
			// one level under the section they split.
			depth := g.depth + 1
			if best.Method == MethodNumbering {
				if m := numberingRe.FindStringSubmatch(best.Text); m != nil {
					depth = strings.Count(m[1], ".") + 1
				}
			}
			bounds = append(bounds, boundary{
				page:  best.Page,
				title: best.Text,
				depth: depth,
				prov:  best.Method,
				order: 1 << 20, // after every primary-source boundary
			})
			used[best.Page] = true
			inserted = true
		}
		if !inserted {
			return bounds
		}
		sortBounds(bounds)
	}
}

type gap struct {
	lo, hi int // candidate pages in [lo, hi] may split this span
	depth  int // depth of the section being split
}

// openGaps lists spans of minGap or more pages that no outline or TOC
// boundary governs: the whole document when there are no boundaries, the
// head before the first boundary, and spans whose governing boundary is
// itself heading-derived. Spans governed by an outline or TOC boundary are
// covered by that section (extend-forward gap policy) and are never split,
// so a complete outline always survives resolution untouched.
func openGaps(bounds []boundary, pageCount, minGap int) []gap {
	var gaps []gap
	if len(bounds) == 0 {
		if pageCount >= minGap {
			gaps = append(gaps, gap{lo: 1, hi: pageCount, depth: 0})
		}
		return gaps
	}
	if first := bounds[0].page; first > 1 && first-1 >= minGap {
		gaps = append(gaps, gap{lo: 1, hi: first - 1, depth: 0})
	}
	for i, b := range bounds {
		if b.prov != MethodHeading && b.prov != MethodNumbering {
			continue
		}
		next := pageCount + 1
		if i+1 < len(bounds) {
			next = bounds[i+1].page
		}
		// Pages strictly inside the span can split it further.
		if next-b.page >= minGap {
			gaps = append(gaps, gap{lo: b.page + 1, hi: next - 1, depth: b.depth})
		}
	}
	return gaps
}

func bestInGap(byPage map[int]HeadingCandidate, used map[int]bool, lo, hi int) (HeadingCandidate, bool) {
	var best HeadingCandidate
	found := false
	for p := lo; p <= hi; p++ {
		c, ok := byPage[p]
		if !ok || used[p] {
			continue
		}
		if !found || c.Weight > best.Weight {
			best = c
			found = true
		}
	}
	return best, found
}

// buildTree assembles the boundary list into nested sections under root and
// computes inclusive end pages: a section runs until the next boundary at
// its depth or shallower, its parent's end otherwise.
func buildTree(root *Section, bounds []boundary) {
	type frame struct {
		sec   *Section
		depth int
	}
	stack := []frame{{sec: root, depth: 0}}
	for _, b := range bounds {
		for len(stack) > 1 && stack[len(stack)-1].depth >= b.depth {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1].sec
		sec := &Section{
			Title:      b.title,
			Start:      b.page,
			Depth:      parent.Depth + 1,
			Provenance: b.prov,
		}
		parent.Children = append(parent.Children, sec)
		stack = append(stack, frame{sec: sec, depth: b.depth})
	}
	setEnds(root, root.End)
}

func setEnds(s *Section, end int) {
	s.End = end
	for i, c := range s.Children {
		childEnd := end
		if i+1 < len(s.Children) {
			childEnd = s.Children[i+1].Start - 1
		}
		setEnds(c, childEnd)
	}
}
