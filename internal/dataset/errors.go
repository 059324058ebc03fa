package dataset

import (
	"errors"
	"fmt"
)

// ErrNoHeader is returned (wrapped in a FileReadError) when the input has no header row.
var ErrNoHeader = errors.New("file is empty: no header row")

// FileReadError reports an unreadable or malformed input file.
type FileReadError struct {
	Name string
	Err  error
}

func (e *FileReadError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("read dataset: %v", e.Err)
	}
	return fmt.Sprintf("read dataset %s: %v", e.Name, e.Err)
}

func (e *FileReadError) Unwrap() error { return e.Err }

// SchemaError reports a header that does not fit the expected layout, such as
// a missing Country column.
type SchemaError struct {
	Name   string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Name == "" {
		return "invalid dataset schema: " + e.Reason
	}
	return fmt.Sprintf("invalid dataset schema in %s: %s", e.Name, e.Reason)
}

func readErr(name string, err error) error {
	return &FileReadError{Name: name, Err: err}
}
