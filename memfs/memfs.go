// Package memfs implements the node contract on an in-memory tree. It
// supports atomic renames and creation timestamps, and is the reference
// backend for tests; nothing is persisted.
package memfs

import (
	"strings"
	"sync"
	"time"

	"github.com/Alishankhan/cryptomator"
	"github.com/Alishankhan/cryptomator/internal/util"
	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v4"
	"github.com/rs/zerolog"
)

// FS is an in-memory filesystem.
type FS struct {
	root   *entry
	logger zerolog.Logger
}

// New returns an empty in-memory filesystem.
func New() *FS {
	return &FS{
		root:   newEntry("", true),
		logger: util.GetLogger("memfs"),
	}
}

// Root returns the root folder handle.
func (fs *FS) Root() cryptomator.Folder {
	return &folder{node{fs: fs}}
}

// entry is a materialized node in the tree. Handles reference entries by
// path, never by pointer, so a handle stays valid (but stale) after its
// entry is removed.
type entry struct {
	id       string // correlates log records across operations
	mu       sync.RWMutex
	name     string // protected by mu; renames rewrite it
	dir      bool
	data     []byte    // file entries only; protected by mu
	created  time.Time // protected by mu
	children *xsync.Map[string, *entry] // folder entries only
}

func newEntry(name string, dir bool) *entry {
	e := &entry{
		id:      uuid.NewString(),
		name:    name,
		dir:     dir,
		created: time.Now(),
	}
	if dir {
		e.children = xsync.NewMap[string, *entry]()
	}
	return e
}

// lookup resolves path segments from the root to the entry they name, or
// nil when nothing exists there.
func (fs *FS) lookup(segments []string) *entry {
	cur := fs.root
	for _, segment := range segments {
		if !cur.dir {
			return nil
		}
		next, ok := cur.children.Load(segment)
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

// makeDirs walks the path from the root, creating missing folders along
// the way, and returns the leaf entry. Existing folders are left alone; a
// file occupying any segment is an error.
func (fs *FS) makeDirs(segments []string) (*entry, error) {
	cur := fs.root
	created := 0
	for i, segment := range segments {
		child, loaded := cur.children.LoadOrStore(segment, newEntry(segment, true))
		if loaded && !child.dir {
			return nil, &cryptomator.IOError{
				Op:   "create",
				Path: strings.Join(segments[:i+1], "/"),
				Err:  errNotFolder,
			}
		}
		if !loaded {
			created++
		}
		cur = child
	}
	if created > 0 {
		fs.logger.Debug().
			Str("path", strings.Join(segments, "/")).
			Int("created", created).
			Msg("Created folders")
	}
	return cur, nil
}
