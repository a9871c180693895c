package memfs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"iter"
	"strings"
	"time"

	"github.com/Alishankhan/cryptomator"
)

var (
	errNotExist  = errors.New("does not exist")
	errNotFolder = errors.New("not a folder")
	errNotFile   = errors.New("not a file")
)

// node is the handle state shared by folder and file: a location inside
// the tree, resolved against the stored entries at operation time. It
// deliberately holds no entry pointer.
type node struct {
	fs     *FS
	parent *folder // nil only for the root handle
	name   string
}

type (
	folder struct{ node }
	file   struct{ node }
)

var (
	_ cryptomator.Folder        = (*folder)(nil)
	_ cryptomator.File          = (*file)(nil)
	_ cryptomator.Renamer       = (*folder)(nil)
	_ cryptomator.FileRenamer   = (*file)(nil)
	_ cryptomator.CreationTimer = (*folder)(nil)
	_ cryptomator.CreationTimer = (*file)(nil)
)

func (n *node) Name() string { return n.name }

func (n *node) Parent() (cryptomator.Folder, bool) {
	if n.parent == nil {
		return nil, false
	}
	return n.parent, true
}

// segments returns the handle's path segments from the root down.
func (n *node) segments() []string {
	if n.parent == nil {
		return nil
	}
	return append(n.parent.segments(), n.name)
}

func (n *node) path() string {
	return strings.Join(n.segments(), "/")
}

// Delete removes whatever entry occupies the handle's location, subtree
// included. Nothing there means nothing to do. Deleting the root handle
// clears the tree but keeps the root itself.
func (n *node) Delete(_ context.Context) error {
	segments := n.segments()
	if len(segments) == 0 {
		n.fs.root.children.Clear()
		return nil
	}
	parent := n.fs.lookup(segments[:len(segments)-1])
	if parent == nil || !parent.dir {
		return nil
	}
	if e, ok := parent.children.LoadAndDelete(segments[len(segments)-1]); ok {
		n.fs.logger.Debug().Str("id", e.id).Str("path", n.path()).Msg("Deleted node")
	}
	return nil
}

// SetCreationTime records t on the entry at the handle's location.
func (n *node) SetCreationTime(_ context.Context, t time.Time) error {
	e := n.fs.lookup(n.segments())
	if e == nil {
		return &cryptomator.IOError{Op: "setcreationtime", Path: n.path(), Err: errNotExist}
	}
	e.mu.Lock()
	e.created = t
	e.mu.Unlock()
	return nil
}

func (f *folder) Kind() cryptomator.Kind { return cryptomator.KindFolder }

func (f *folder) Exists(_ context.Context) (bool, error) {
	e := f.fs.lookup(f.segments())
	return e != nil && e.dir, nil
}

func (f *folder) Folder(name string) cryptomator.Folder {
	return &folder{node{fs: f.fs, parent: f, name: name}}
}

func (f *folder) File(name string) cryptomator.File {
	return &file{node{fs: f.fs, parent: f, name: name}}
}

func (f *folder) Create(_ context.Context) error {
	_, err := f.fs.makeDirs(f.segments())
	return err
}

// Children re-reads the child map on every call. The map is snapshotted
// up front, so concurrent mutations during consumption do not surface; two
// separate enumerations may still disagree.
func (f *folder) Children(_ context.Context) iter.Seq2[cryptomator.Node, error] {
	return func(yield func(cryptomator.Node, error) bool) {
		e := f.fs.lookup(f.segments())
		if e == nil || !e.dir {
			yield(nil, &cryptomator.IOError{Op: "children", Path: f.path(), Err: errNotExist})
			return
		}
		type childInfo struct {
			name string
			dir  bool
		}
		var snapshot []childInfo
		e.children.Range(func(name string, child *entry) bool {
			snapshot = append(snapshot, childInfo{name: name, dir: child.dir})
			return true
		})
		for _, child := range snapshot {
			var n cryptomator.Node
			if child.dir {
				n = f.Folder(child.name)
			} else {
				n = f.File(child.name)
			}
			if !yield(n, nil) {
				return
			}
		}
	}
}

// Rename reattaches the folder's subtree at target in one step. Only
// targets on the same FS qualify; anything else reports ErrUnsupported so
// the caller falls back to copy-then-delete.
func (f *folder) Rename(ctx context.Context, target cryptomator.Folder) error {
	t, ok := target.(*folder)
	if !ok || t.fs != f.fs {
		return cryptomator.ErrUnsupported
	}
	return f.fs.rename(ctx, &f.node, &t.node, true)
}

func (f *file) Kind() cryptomator.Kind { return cryptomator.KindFile }

func (f *file) Exists(_ context.Context) (bool, error) {
	e := f.fs.lookup(f.segments())
	return e != nil && !e.dir, nil
}

func (f *file) Open(_ context.Context) (io.ReadCloser, error) {
	e := f.fs.lookup(f.segments())
	if e == nil || e.dir {
		return nil, &cryptomator.IOError{Op: "open", Path: f.path(), Err: errNotFile}
	}
	e.mu.RLock()
	data := bytes.Clone(e.data)
	e.mu.RUnlock()
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Create returns a writer buffering the new content; the entry is swapped
// in when the writer is closed, replacing whatever the location held.
func (f *file) Create(_ context.Context) (io.WriteCloser, error) {
	segments := f.segments()
	if len(segments) == 0 {
		return nil, &cryptomator.IOError{Op: "create", Path: f.path(), Err: errNotFile}
	}
	parent, err := f.fs.makeDirs(segments[:len(segments)-1])
	if err != nil {
		return nil, err
	}
	return &writer{fs: f.fs, parent: parent, name: segments[len(segments)-1], path: f.path()}, nil
}

// Rename relocates a single file within the same FS.
func (f *file) Rename(ctx context.Context, target cryptomator.File) error {
	t, ok := target.(*file)
	if !ok || t.fs != f.fs {
		return cryptomator.ErrUnsupported
	}
	return f.fs.rename(ctx, &f.node, &t.node, false)
}

// rename detaches the entry at src and reattaches it at dst, replacing
// anything already there and creating dst's missing ancestors.
func (fs *FS) rename(ctx context.Context, src, dst *node, dir bool) error {
	srcSegs := src.segments()
	if len(srcSegs) == 0 {
		return &cryptomator.IOError{Op: "rename", Path: "", Err: errNotExist}
	}
	e := fs.lookup(srcSegs)
	if e == nil || e.dir != dir {
		return &cryptomator.IOError{Op: "rename", Path: src.path(), Err: errNotExist}
	}
	dstSegs := dst.segments()
	if len(dstSegs) == 0 {
		return &cryptomator.IOError{Op: "rename", Path: "", Err: errNotFolder}
	}
	if err := dst.Delete(ctx); err != nil {
		return err
	}
	dstParent, err := fs.makeDirs(dstSegs[:len(dstSegs)-1])
	if err != nil {
		return err
	}
	srcParent := fs.lookup(srcSegs[:len(srcSegs)-1])
	if srcParent == nil || !srcParent.dir {
		return &cryptomator.IOError{Op: "rename", Path: src.path(), Err: errNotExist}
	}
	srcParent.children.Delete(srcSegs[len(srcSegs)-1])
	name := dstSegs[len(dstSegs)-1]
	e.mu.Lock()
	e.name = name
	e.mu.Unlock()
	dstParent.children.Store(name, e)
	fs.logger.Debug().
		Str("id", e.id).
		Str("from", src.path()).
		Str("to", dst.path()).
		Msg("Renamed node")
	return nil
}

// writer buffers content for a pending file entry.
type writer struct {
	fs     *FS
	parent *entry
	name   string
	path   string
	buf    bytes.Buffer
}

func (w *writer) Write(p []byte) (int, error) { return w.buf.Write(p) }

func (w *writer) Close() error {
	e := newEntry(w.name, false)
	e.data = w.buf.Bytes()
	w.parent.children.Store(w.name, e)
	w.fs.logger.Debug().
		Str("id", e.id).
		Str("path", w.path).
		Int("size", w.buf.Len()).
		Msg("Wrote file")
	return nil
}
