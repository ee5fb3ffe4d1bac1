package pdfdoc

import "fmt"

// OpenError indicates the source PDF could not be opened at all:
// missing file, corrupt structure, or encryption. It is fatal to the run.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open pdf %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// PageIndexError indicates a request for a page outside [1, PageCount].
// It is a caller error, fatal only to that call.
type PageIndexError struct {
	Index int
	Count int
}

func (e *PageIndexError) Error() string {
	return fmt.Sprintf("page %d out of range [1, %d]", e.Index, e.Count)
}

// PageReadError indicates a single page could not be decoded. Callers
// scanning the whole document skip the page and continue.
type PageReadError struct {
	Page int
	Err  error
}

func (e *PageReadError) Error() string {
	return fmt.Sprintf("read page %d: %v", e.Page, e.Err)
}

func (e *PageReadError) Unwrap() error { return e.Err }
