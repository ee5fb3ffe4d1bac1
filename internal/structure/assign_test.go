package structure

import (
	"errors"
	"testing"

	"github.com/reportsite/reportsite/internal/pdfdoc"
)

func TestAssignPages_DeepestSectionWins(t *testing.T) {
	root := &Section{Title: "Document", Start: 1, End: 10, Children: []*Section{
		{Title: "A", Start: 1, End: 4, Depth: 1, Children: []*Section{
			{Title: "A.1", Start: 2, End: 3, Depth: 2},
		}},
		{Title: "B", Start: 5, End: 10, Depth: 1},
	}}

	got, err := AssignPages(root, 10)
	if err != nil {
		t.Fatalf("AssignPages: %v", err)
	}
	if len(got) != 10 {
		t.Fatalf("assigned %d pages, want 10", len(got))
	}
	want := map[int]string{
		1: "A", 2: "A.1", 3: "A.1", 4: "A",
		5: "B", 6: "B", 7: "B", 8: "B", 9: "B", 10: "B",
	}
	for page, title := range want {
		if got[page].Title != title {
			t.Errorf("page %d -> %q, want %q", page, got[page].Title, title)
		}
	}
}

func TestAssignPages_GapPagesFallToParent(t *testing.T) {
	// Children leave pages 3-4 uncovered; those belong to the root itself.
	root := &Section{Title: "Document", Start: 1, End: 6, Children: []*Section{
		{Title: "Head", Start: 1, End: 2, Depth: 1},
		{Title: "Tail", Start: 5, End: 6, Depth: 1},
	}}

	got, err := AssignPages(root, 6)
	if err != nil {
		t.Fatalf("AssignPages: %v", err)
	}
	for _, page := range []int{3, 4} {
		if got[page] != root {
			t.Errorf("page %d -> %q, want the root section", page, got[page].Title)
		}
	}
}

func TestAssignPages_OverlappingSiblings(t *testing.T) {
	root := &Section{Title: "Document", Start: 1, End: 10, Children: []*Section{
		{Title: "A", Start: 1, End: 5, Depth: 1},
		{Title: "B", Start: 4, End: 10, Depth: 1},
	}}

	_, err := AssignPages(root, 10)
	var ie *IntegrityError
	if !errors.As(err, &ie) {
		t.Fatalf("err = %v, want *IntegrityError", err)
	}
}

func TestAssignPages_ChildEscapesParent(t *testing.T) {
	root := &Section{Title: "Document", Start: 1, End: 8, Children: []*Section{
		{Title: "A", Start: 1, End: 4, Depth: 1, Children: []*Section{
			{Title: "A.1", Start: 3, End: 6, Depth: 2},
		}},
	}}

	_, err := AssignPages(root, 8)
	var ie *IntegrityError
	if !errors.As(err, &ie) {
		t.Fatalf("err = %v, want *IntegrityError", err)
	}
}

func TestAssignPages_RootTooNarrow(t *testing.T) {
	root := &Section{Title: "Document", Start: 1, End: 5}
	if _, err := AssignPages(root, 9); err == nil {
		t.Fatal("expected error for root not covering the document")
	}
}

func TestAssignPages_ResolvedTreeRoundTrip(t *testing.T) {
	// Resolver output must always survive assignment, front matter included.
	outline := []pdfdoc.OutlineEntry{
		{Title: "Observations", Page: 3},
		{Title: "Discussion", Page: 8},
	}
	root := Resolve(outline, nil, nil, 12, DefaultResolveConfig())
	got, err := AssignPages(root, 12)
	if err != nil {
		t.Fatalf("AssignPages on resolver output: %v", err)
	}
	if got[1].Title != "Front Matter" {
		t.Errorf("page 1 -> %q, want front matter", got[1].Title)
	}
	if got[12].Title != "Discussion" {
		t.Errorf("page 12 -> %q, want Discussion", got[12].Title)
	}
}
