package structure

import "fmt"

// IntegrityError reports a malformed section tree: overlapping siblings,
// children escaping their parent, or pages left uncovered. It indicates a
// resolver bug, not a property of the input document.
type IntegrityError struct {
	Detail string
}

func (e *IntegrityError) Error() string {
	return "structure integrity: " + e.Detail
}

// AssignPages maps every page index in [1, pageCount] to the deepest
// section containing it. Parents with pages no child covers stand in as the
// leaf for those pages. The mapping always has exactly pageCount entries;
// anything else fails with *IntegrityError.
func AssignPages(root *Section, pageCount int) (map[int]*Section, error) {
	if root == nil {
		return nil, &IntegrityError{Detail: "nil root"}
	}
	if err := checkTree(root); err != nil {
		return nil, err
	}
	if root.Start > 1 || root.End < pageCount {
		return nil, &IntegrityError{
			Detail: fmt.Sprintf("root spans [%d, %d], want cover of [1, %d]", root.Start, root.End, pageCount),
		}
	}

	assigned := make(map[int]*Section, pageCount)
	for page := 1; page <= pageCount; page++ {
		leaf := root.deepestAt(page)
		if leaf == nil {
			return nil, &IntegrityError{Detail: fmt.Sprintf("page %d unassigned", page)}
		}
		assigned[page] = leaf
	}
	if len(assigned) != pageCount {
		return nil, &IntegrityError{
			Detail: fmt.Sprintf("assigned %d pages, want %d", len(assigned), pageCount),
		}
	}
	return assigned, nil
}

// checkTree verifies ordering and containment invariants for s and all
// descendants.
func checkTree(s *Section) error {
	if s.Start > s.End && !(s.Start == 1 && s.End == 0) {
		return &IntegrityError{Detail: fmt.Sprintf("section %q spans [%d, %d]", s.Title, s.Start, s.End)}
	}
	prevEnd := s.Start - 1
	for _, c := range s.Children {
		if c.Start < s.Start || c.End > s.End {
			return &IntegrityError{
				Detail: fmt.Sprintf("child %q [%d, %d] escapes parent %q [%d, %d]",
					c.Title, c.Start, c.End, s.Title, s.Start, s.End),
			}
		}
		if c.Start <= prevEnd {
			return &IntegrityError{
				Detail: fmt.Sprintf("child %q starts at %d inside its predecessor (ends %d)",
					c.Title, c.Start, prevEnd),
			}
		}
		if err := checkTree(c); err != nil {
			return err
		}
		prevEnd = c.End
	}
	return nil
}
