package opord

import (
	"errors"
	"fmt"
)

var (
	ErrIndexOutOfRange = errors.New("opord: index out of range")
	ErrUnknownField    = errors.New("opord: unknown field")
	ErrWindowUnset     = errors.New("opord: llab window is not set")
	ErrEmptySchedule   = errors.New("opord: no activities fit the llab window")

	// ErrUnimplemented is returned by export formats that are not available.
	ErrUnimplemented = errors.New("opord: DOCX export not available in this environment")
)

// ParseError reports a document that could not be decoded into a FormState.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("opord: parse document: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func indexError(kind string, index, length int) error {
	return fmt.Errorf("%w: %s %d (have %d)", ErrIndexOutOfRange, kind, index, length)
}

func fieldError(kind, key string) error {
	return fmt.Errorf("%w: %s %q", ErrUnknownField, kind, key)
}
