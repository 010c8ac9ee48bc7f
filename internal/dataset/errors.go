package dataset

import (
	"errors"
	"fmt"
)

// ErrEmptyDataset is returned when the file has a header but no data rows.
var ErrEmptyDataset = errors.New("dataset has no rows")

// LoadError describes why a dataset file could not be loaded. Line is the
// 1-based line (or sheet row) and is zero for file-level failures.
type LoadError struct {
	Path   string
	Column string
	Line   int
	Err    error
}

func (e *LoadError) Error() string {
	switch {
	case e.Line > 0 && e.Column != "":
		return fmt.Sprintf("load %s: line %d: column %q: %v", e.Path, e.Line, e.Column, e.Err)
	case e.Column != "":
		return fmt.Sprintf("load %s: column %q: %v", e.Path, e.Column, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("load %s: line %d: %v", e.Path, e.Line, e.Err)
	default:
		return fmt.Sprintf("load %s: %v", e.Path, e.Err)
	}
}

func (e *LoadError) Unwrap() error { return e.Err }
