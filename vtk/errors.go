package vtk

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownElementType is a configuration error, the element type is not in the table
	ErrUnknownElementType = errors.New("unsupported element type")
	// ErrSequence reports an operation called out of order for the session state
	ErrSequence = errors.New("vtk section out of sequence")
	// ErrSizeMismatch reports data whose shape disagrees with the mesh
	ErrSizeMismatch = errors.New("vtk data size mismatch")
	// ErrFieldName rejects attribute names the format cannot tokenize
	ErrFieldName = errors.New("invalid vtk field name")
	// ErrSessionFailed is returned by every call after a session has failed
	ErrSessionFailed = errors.New("vtk session failed")
)

// IOError wraps a failure of the underlying file or stream
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("vtk %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("vtk %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
