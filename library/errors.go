package library

import (
	"errors"
	"fmt"
)

// Domain failures handed back to the caller for presentation. They are never
// swallowed or retried inside the services; check them with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrAlreadyReturned = errors.New("loan already returned")
	ErrUnavailable     = errors.New("no copies available")
	ErrInvalidState    = errors.New("invalid availability change")
)

// FormatError reports a stored record that cannot be decoded, or a field
// value that cannot be encoded. A FormatError while loading aborts the whole
// table load; there is no partial recovery.
type FormatError struct {
	File string
	Line int
	Msg  string
}

func (e *FormatError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("format error: %s", e.Msg)
	}
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
}
