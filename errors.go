package cryptomator

import (
	"errors"
	"fmt"
)

// ErrUnsupported indicates an optional capability the backend does not
// implement, such as setting creation times or cross-store renames.
var ErrUnsupported = errors.New("operation not supported")

// InvalidPathError indicates a path that cannot name the requested node
// kind, such as resolving a file against a path with no terminal segment.
type InvalidPathError struct {
	Path string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid path %q: a non-empty terminal segment is required", e.Path)
}

// IOError wraps a backend I/O failure together with the operation and the
// path it occurred on. Synchronous operations return it directly; child
// enumeration defers it to consumption time.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *IOError) Unwrap() error { return e.Err }

// SelfContainmentError rejects a copy or move whose target is the source
// itself or a descendant of the source.
type SelfContainmentError struct {
	Source string
	Target string
}

func (e *SelfContainmentError) Error() string {
	return fmt.Sprintf("target %q is the source %q or contained in it", e.Target, e.Source)
}
