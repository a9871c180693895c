// Package cryptomator contains the core node contract for hierarchical
// storage backends plus the traversal algorithms (path resolution,
// recursive copy and move, ancestry checks) layered on top of it.
//
// A backend implements the three interfaces [Node], [File] and [Folder];
// everything else in this package is a free function derived purely from
// those primitives, so a backend gets resolution, filtered enumeration and
// bulk copy/move for free. Optional capabilities such as atomic renames and
// creation timestamps are modeled as interface upgrades ([Renamer],
// [FileRenamer], [CreationTimer]) discovered by type assertion.
package cryptomator

import (
	"context"
	"fmt"
	"io"
	"iter"
	"time"
)

// Kind discriminates the two node kinds.
type Kind int

const (
	KindFile Kind = iota + 1
	KindFolder
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindFolder:
		return "folder"
	default:
		return "unknown"
	}
}

// Node is the identity contract shared by File and Folder.
//
// A Node value is a reference to a location, not proof that anything exists
// there: handles are produced by name and path resolution alone, and a
// handle stays valid (but stale) after the thing it names is deleted.
// Identity is path-based, not reference-based; see [Equal].
type Node interface {
	// Name returns the node's name, the last segment of its path. The
	// root folder's name is the empty string.
	Name() string

	// Parent returns the containing folder. The root folder has none.
	Parent() (Folder, bool)

	// Kind reports whether the node is a file or a folder.
	Kind() Kind

	// Exists reports whether a node of this kind is present on backing
	// storage at the handle's location.
	Exists(ctx context.Context) (bool, error)

	// Delete removes whatever occupies the node's location on backing
	// storage, recursively for folders. Deleting a location where
	// nothing exists is a no-op, not an error.
	Delete(ctx context.Context) error
}

// File is a leaf node.
type File interface {
	Node

	// Open returns a reader over the file's content.
	Open(ctx context.Context) (io.ReadCloser, error)

	// Create returns a writer that replaces the file's content, creating
	// the file and any missing ancestor folders. The new content becomes
	// visible when the writer is closed.
	Create(ctx context.Context) (io.WriteCloser, error)
}

// Folder is an interior node.
type Folder interface {
	Node

	// Children enumerates the folder's direct children. The sequence is
	// lazy: backend I/O may happen while it is consumed, and failures
	// surface as *IOError at consumption time, possibly after some
	// children were already yielded. Each call re-queries the backend;
	// two enumerations are independent and need not observe a consistent
	// snapshot if storage mutates concurrently.
	Children(ctx context.Context) iter.Seq2[Node, error]

	// File returns a handle for the named child file without checking
	// whether it exists or is a folder instead. No I/O is performed.
	File(name string) File

	// Folder returns a handle for the named child folder without
	// checking whether it exists or is a file instead. No I/O is
	// performed.
	Folder(name string) Folder

	// Create makes the folder and any missing ancestor folders. It has
	// no effect if the folder already exists.
	Create(ctx context.Context) error
}

// Renamer is an optional capability for backends that can relocate a
// folder atomically within the same backing store. Rename must replace an
// existing target and must return [ErrUnsupported] when the target lives
// on a different store, in which case [Move] falls back to copy-then-delete.
type Renamer interface {
	Rename(ctx context.Context, target Folder) error
}

// FileRenamer is the [Renamer] capability for files.
type FileRenamer interface {
	Rename(ctx context.Context, target File) error
}

// CreationTimer is an optional capability for backends that record a
// creation timestamp.
type CreationTimer interface {
	SetCreationTime(ctx context.Context, t time.Time) error
}

// Path returns the node's absolute path: the names of its ancestors from
// the root down to the node itself, joined by "/". The root folder's path
// is the empty string.
func Path(n Node) string {
	parent, ok := n.Parent()
	if !ok {
		return n.Name()
	}
	prefix := Path(parent)
	if prefix == "" {
		return n.Name()
	}
	return prefix + "/" + n.Name()
}

// Equal reports whether two handles name the same logical location.
// Backends may hand out fresh handles for the same location, so identity
// is decided by kind and resolved path, never by reference. The path
// carries no store identity: the roots of two different stores both
// resolve to "" and compare equal, as do same-path nodes on distinct
// stores. Callers that operate across stores must track provenance
// themselves.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Kind() == b.Kind() && Path(a) == Path(b)
}

// IsAncestorOf reports whether node lies strictly below folder, i.e. the
// node's parent chain reaches folder at depth one or more. A folder is
// never its own ancestor. The walk stops at the first node without a
// parent.
func IsAncestorOf(folder Folder, node Node) bool {
	parent, ok := node.Parent()
	if !ok {
		return false
	}
	if Equal(folder, parent) {
		return true
	}
	return IsAncestorOf(folder, parent)
}

// SetCreationTime records t as the node's creation time on backends that
// implement [CreationTimer] and fails with an error wrapping
// [ErrUnsupported] on those that do not. The error is not an *IOError:
// nothing was attempted against the backend. Callers must not assume
// success.
func SetCreationTime(ctx context.Context, n Node, t time.Time) error {
	if ct, ok := n.(CreationTimer); ok {
		return ct.SetCreationTime(ctx, t)
	}
	return fmt.Errorf("setcreationtime %s: %w", Path(n), ErrUnsupported)
}
