package structure

import (
	"fmt"
	"testing"

	"github.com/reportsite/reportsite/internal/pdfdoc"
)

func sectionSpans(root *Section) []string {
	var out []string
	for _, c := range root.Children {
		out = append(out, spanString(c))
	}
	return out
}

func spanString(s *Section) string {
	return fmt.Sprintf("%s|%d-%d", s.Title, s.Start, s.End)
}

func TestResolve_OutlineSpans(t *testing.T) {
	outline := []pdfdoc.OutlineEntry{
		{Title: "Intro", Page: 1},
		{Title: "Methods", Page: 3},
	}
	root := Resolve(outline, nil, nil, 5, DefaultResolveConfig())

	if len(root.Children) != 2 {
		t.Fatalf("children = %d, want 2: %v", len(root.Children), sectionSpans(root))
	}
	intro, methods := root.Children[0], root.Children[1]
	if intro.Title != "Intro" || intro.Start != 1 || intro.End != 2 {
		t.Errorf("Intro spans [%d, %d], want [1, 2]", intro.Start, intro.End)
	}
	if methods.Title != "Methods" || methods.Start != 3 || methods.End != 5 {
		t.Errorf("Methods spans [%d, %d], want [3, 5]", methods.Start, methods.End)
	}
	if intro.Provenance != MethodOutline {
		t.Errorf("provenance = %q, want outline", intro.Provenance)
	}
	if root.Start != 1 || root.End != 5 {
		t.Errorf("root spans [%d, %d], want [1, 5]", root.Start, root.End)
	}
}

func TestResolve_OutlineNesting(t *testing.T) {
	outline := []pdfdoc.OutlineEntry{
		{Title: "Background", Page: 1, Children: []pdfdoc.OutlineEntry{
			{Title: "Site History", Page: 2, Depth: 1},
		}},
		{Title: "Findings", Page: 4},
	}
	root := Resolve(outline, nil, nil, 5, DefaultResolveConfig())

	if len(root.Children) != 2 {
		t.Fatalf("children = %d, want 2: %v", len(root.Children), sectionSpans(root))
	}
	bg := root.Children[0]
	if bg.Start != 1 || bg.End != 3 {
		t.Errorf("Background spans [%d, %d], want [1, 3]", bg.Start, bg.End)
	}
	if len(bg.Children) != 1 {
		t.Fatalf("Background children = %d, want 1", len(bg.Children))
	}
	sub := bg.Children[0]
	if sub.Title != "Site History" || sub.Start != 2 || sub.End != 3 {
		t.Errorf("Site History spans [%d, %d], want [2, 3]", sub.Start, sub.End)
	}
	if sub.Depth != 2 || bg.Depth != 1 {
		t.Errorf("depths = %d/%d, want 1/2", bg.Depth, sub.Depth)
	}
	if f := root.Children[1]; f.Start != 4 || f.End != 5 {
		t.Errorf("Findings spans [%d, %d], want [4, 5]", f.Start, f.End)
	}
}

func TestResolve_CompleteOutlineNeverSplit(t *testing.T) {
	// A strong heading candidate inside an outline-governed span must not
	// split it: outline boundaries carry full authority.
	outline := []pdfdoc.OutlineEntry{
		{Title: "Intro", Page: 1},
		{Title: "Methods", Page: 3},
	}
	cands := []HeadingCandidate{
		{Page: 10, Text: "Surprise Heading", Weight: 99, Method: MethodHeading},
	}
	root := Resolve(outline, nil, cands, 20, DefaultResolveConfig())

	got := sectionSpans(root)
	want := []string{"Intro|1-2", "Methods|3-20"}
	if len(got) != len(want) {
		t.Fatalf("sections = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("section %d = %q, want %q", i, got[i], want[i])
		}
	}
	root.Walk(func(s *Section) {
		if s.Provenance == MethodHeading {
			t.Errorf("heading candidate leaked into outline-governed tree: %q", s.Title)
		}
	})
}

func TestResolve_NoSignalsFallsBackToSingleRoot(t *testing.T) {
	root := Resolve(nil, nil, nil, 40, DefaultResolveConfig())
	if root.Provenance != MethodUnresolved {
		t.Errorf("provenance = %q, want unresolved", root.Provenance)
	}
	if root.Start != 1 || root.End != 40 {
		t.Errorf("root spans [%d, %d], want [1, 40]", root.Start, root.End)
	}
	if len(root.Children) != 0 {
		t.Errorf("expected no children, got %v", sectionSpans(root))
	}
}

func TestResolve_TOCOffsetFromOutlineAnchors(t *testing.T) {
	// Printed page numbers trail physical numbers by 2 (cover + TOC page).
	// The shared "Introduction" title calibrates the offset, which then
	// shifts the TOC-only "Results" entry.
	outline := []pdfdoc.OutlineEntry{
		{Title: "Introduction", Page: 3},
		{Title: "Appendix A", Page: 0}, // unresolved target: outline incomplete
	}
	toc := []TOCPage{{Page: 2, Entries: []TOCEntry{
		{Title: "Introduction", Page: 1},
		{Title: "Results", Page: 5},
	}}}
	root := Resolve(outline, toc, nil, 10, DefaultResolveConfig())

	if len(root.Children) != 3 {
		t.Fatalf("sections = %v, want front matter + 2", sectionSpans(root))
	}
	if fm := root.Children[0]; fm.Title != "Front Matter" || fm.Start != 1 || fm.End != 2 {
		t.Errorf("front matter = %s, want Front Matter|1-2", spanString(fm))
	}
	if in := root.Children[1]; in.Start != 3 || in.End != 6 || in.Provenance != MethodOutline {
		t.Errorf("Introduction = %s (%s), want 3-6 from outline", spanString(in), in.Provenance)
	}
	res := root.Children[2]
	if res.Title != "Results" || res.Start != 7 || res.End != 10 {
		t.Errorf("Results = %s, want Results|7-10 (printed 5 + offset 2)", spanString(res))
	}
	if res.Provenance != MethodTOCText {
		t.Errorf("Results provenance = %q, want toc-text", res.Provenance)
	}
}

func TestResolve_TOCWithoutOutlineAssumesNoOffset(t *testing.T) {
	toc := []TOCPage{{Page: 1, Entries: []TOCEntry{
		{Title: "Scope", Page: 2},
		{Title: "Conclusions", Page: 6},
	}}}
	root := Resolve(nil, toc, nil, 8, DefaultResolveConfig())

	got := sectionSpans(root)
	want := []string{"Front Matter|1-1", "Scope|2-5", "Conclusions|6-8"}
	if len(got) != len(want) {
		t.Fatalf("sections = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("section %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDetectPageOffset_TieBreaksAreStable(t *testing.T) {
	// One anchor votes +2, the other -2: equal counts, equal magnitude.
	// The positive shift must win, on every run.
	outline := []pdfdoc.OutlineEntry{
		{Title: "Alpha", Page: 5},
		{Title: "Beta", Page: 9},
	}
	toc := []TOCEntry{
		{Title: "Alpha", Page: 3},
		{Title: "Beta", Page: 11},
	}
	for i := 0; i < 50; i++ {
		if got := detectPageOffset(outline, toc); got != 2 {
			t.Fatalf("run %d: offset = %d, want 2", i, got)
		}
	}
}

func TestResolve_OffsetTieResolvesSections(t *testing.T) {
	outline := []pdfdoc.OutlineEntry{
		{Title: "Alpha", Page: 5},
		{Title: "Beta", Page: 9},
		{Title: "Annex", Page: 0}, // unresolved target: outline incomplete
	}
	toc := []TOCPage{{Page: 2, Entries: []TOCEntry{
		{Title: "Alpha", Page: 3},
		{Title: "Beta", Page: 11},
		{Title: "Results", Page: 12},
	}}}

	want := []string{"Front Matter|1-4", "Alpha|5-8", "Beta|9-13", "Results|14-20"}
	for i := 0; i < 50; i++ {
		root := Resolve(outline, toc, nil, 20, DefaultResolveConfig())
		got := sectionSpans(root)
		if len(got) != len(want) {
			t.Fatalf("run %d: sections = %v, want %v", i, got, want)
		}
		for j := range want {
			if got[j] != want[j] {
				t.Fatalf("run %d: section %d = %q, want %q", i, j, got[j], want[j])
			}
		}
	}
}

func TestResolve_RootProvenanceIsPrimarySource(t *testing.T) {
	// The first boundary comes from TOC text, but an outline boundary
	// exists: the root reports the strongest source, not the earliest.
	outline := []pdfdoc.OutlineEntry{
		{Title: "Alpha", Page: 5},
		{Title: "Annex", Page: 0},
	}
	toc := []TOCPage{{Page: 1, Entries: []TOCEntry{
		{Title: "Alpha", Page: 5},
		{Title: "Preface", Page: 2},
	}}}
	root := Resolve(outline, toc, nil, 8, DefaultResolveConfig())

	if root.Provenance != MethodOutline {
		t.Errorf("root provenance = %q, want outline", root.Provenance)
	}
	got := sectionSpans(root)
	want := []string{"Front Matter|1-1", "Preface|2-4", "Alpha|5-8"}
	if len(got) != len(want) {
		t.Fatalf("sections = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("section %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestResolve_SamePageTieBreak(t *testing.T) {
	// Two boundaries landing on the same physical page: the shallower takes
	// the boundary, the deeper nests under it starting on the same page.
	outline := []pdfdoc.OutlineEntry{
		{Title: "Analysis", Page: 2, Children: []pdfdoc.OutlineEntry{
			{Title: "Load Cases", Page: 2, Depth: 1},
		}},
	}
	root := Resolve(outline, nil, nil, 6, DefaultResolveConfig())

	if len(root.Children) != 2 { // front matter + Analysis
		t.Fatalf("sections = %v", sectionSpans(root))
	}
	an := root.Children[1]
	if an.Title != "Analysis" || an.Start != 2 || an.End != 6 {
		t.Fatalf("Analysis = %s, want Analysis|2-6", spanString(an))
	}
	if len(an.Children) != 1 {
		t.Fatalf("Analysis children = %d, want 1", len(an.Children))
	}
	lc := an.Children[0]
	if lc.Title != "Load Cases" || lc.Start != 2 || lc.End != 6 {
		t.Errorf("Load Cases = %s, want Load Cases|2-6", spanString(lc))
	}
	if lc.Depth != an.Depth+1 {
		t.Errorf("Load Cases depth = %d, want %d", lc.Depth, an.Depth+1)
	}
}

func TestResolve_CandidatesFillUnboundedDocument(t *testing.T) {
	cands := []HeadingCandidate{
		{Page: 3, Text: "2 Methods", Weight: 2, Method: MethodNumbering},
		{Page: 8, Text: "3 Results", Weight: 2, Method: MethodNumbering},
	}
	root := Resolve(nil, nil, cands, 12, DefaultResolveConfig())

	got := sectionSpans(root)
	want := []string{"Front Matter|1-2", "2 Methods|3-7", "3 Results|8-12"}
	if len(got) != len(want) {
		t.Fatalf("sections = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("section %d = %q, want %q", i, got[i], want[i])
		}
	}
	if root.Children[1].Provenance != MethodNumbering {
		t.Errorf("provenance = %q, want numbering", root.Children[1].Provenance)
	}
}

func TestResolve_MinGapSuppressesSmallSplits(t *testing.T) {
	cands := []HeadingCandidate{
		{Page: 2, Text: "Stray Heading", Weight: 5, Method: MethodHeading},
	}
	root := Resolve(nil, nil, cands, 4, DefaultResolveConfig())

	// Four pages is under the default gap threshold: nothing splits, and
	// with no primary boundaries the root stays a single unresolved span.
	if len(root.Children) != 0 {
		t.Errorf("expected no splits under min gap, got %v", sectionSpans(root))
	}
	if root.Provenance != MethodUnresolved {
		t.Errorf("provenance = %q, want unresolved", root.Provenance)
	}
}

func TestResolve_ZeroPages(t *testing.T) {
	root := Resolve(nil, nil, nil, 0, DefaultResolveConfig())
	if root.Start != 1 || root.End != 0 {
		t.Errorf("root spans [%d, %d], want degenerate [1, 0]", root.Start, root.End)
	}
}
