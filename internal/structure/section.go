package structure

// Section is the canonical resolved unit of structure: a labeled page range
// with a nesting depth. Start and End are 1-based physical page numbers and
// both are inclusive. Siblings are strictly ordered by Start and do not
// overlap; children lie within their parent's range. Pages of a parent not
// covered by any child are assigned to the parent itself.
type Section struct {
	Title      string     `json:"title"`
	Start      int        `json:"start"`
	End        int        `json:"end"`
	Depth      int        `json:"depth"`
	Provenance Method     `json:"provenance"`
	Children   []*Section `json:"children,omitempty"`
}

// Walk visits s and every descendant in document order.
func (s *Section) Walk(fn func(*Section)) {
	fn(s)
	for _, c := range s.Children {
		c.Walk(fn)
	}
}

// Contains reports whether page lies within the section's range.
func (s *Section) Contains(page int) bool {
	return page >= s.Start && page <= s.End
}

// PageSpan returns the number of pages the section covers.
func (s *Section) PageSpan() int {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start + 1
}

// deepestAt returns the deepest section in s whose range contains page, or
// nil when the page is outside s entirely.
func (s *Section) deepestAt(page int) *Section {
	if !s.Contains(page) {
		return nil
	}
	for _, c := range s.Children {
		if hit := c.deepestAt(page); hit != nil {
			return hit
		}
	}
	return s
}
