package osfs

import (
	"context"
	"errors"
	"io"
	iofs "io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/Alishankhan/cryptomator"
)

var (
	errNotFile    = errors.New("not a regular file")
	errUnsafeName = errors.New("name cannot be confined to the base directory")
)

// node is the handle state shared by folder and file: a location under the
// base directory, checked against the disk at operation time.
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
	_ cryptomator.Folder      = (*folder)(nil)
	_ cryptomator.File        = (*file)(nil)
	_ cryptomator.Renamer     = (*folder)(nil)
	_ cryptomator.FileRenamer = (*file)(nil)
)

func (n *node) Name() string { return n.name }

func (n *node) Parent() (cryptomator.Folder, bool) {
	if n.parent == nil {
		return nil, false
	}
	return n.parent, true
}

func (n *node) segments() []string {
	if n.parent == nil {
		return nil
	}
	return append(n.parent.segments(), n.name)
}

func (n *node) path() string {
	return strings.Join(n.segments(), "/")
}

func (n *node) hostPath() string {
	return n.fs.hostPath(n.segments())
}

// unsafeName reports whether a segment name changes meaning under
// filepath.Join: "", "." and ".." alias other locations and a separator
// splices extra path elements in. Such names stay ordinary map keys on
// backends like memfs, but on disk they would escape the base directory.
func unsafeName(name string) bool {
	return name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`)
}

// checkConfined rejects handles whose location cannot be represented
// under the base directory.
func (n *node) checkConfined(op string) error {
	for _, segment := range n.segments() {
		if unsafeName(segment) {
			return &cryptomator.IOError{Op: op, Path: n.path(), Err: errUnsafeName}
		}
	}
	return nil
}

// Delete removes whatever occupies the handle's location, subtree
// included. A location where nothing exists is left alone.
func (n *node) Delete(_ context.Context) error {
	if err := n.checkConfined("delete"); err != nil {
		return err
	}
	if err := os.RemoveAll(n.hostPath()); err != nil {
		return &cryptomator.IOError{Op: "delete", Path: n.path(), Err: err}
	}
	n.fs.logger.Debug().Str("path", n.path()).Msg("Deleted node")
	return nil
}

func (f *folder) Kind() cryptomator.Kind { return cryptomator.KindFolder }

func (f *folder) Exists(_ context.Context) (bool, error) {
	if err := f.checkConfined("stat"); err != nil {
		return false, err
	}
	info, err := os.Stat(f.hostPath())
	if errors.Is(err, iofs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, &cryptomator.IOError{Op: "stat", Path: f.path(), Err: err}
	}
	return info.IsDir(), nil
}

func (f *folder) Folder(name string) cryptomator.Folder {
	return &folder{node{fs: f.fs, parent: f, name: name}}
}

func (f *folder) File(name string) cryptomator.File {
	return &file{node{fs: f.fs, parent: f, name: name}}
}

func (f *folder) Create(_ context.Context) error {
	if err := f.checkConfined("create"); err != nil {
		return err
	}
	if err := os.MkdirAll(f.hostPath(), 0o755); err != nil {
		return &cryptomator.IOError{Op: "create", Path: f.path(), Err: err}
	}
	return nil
}

// Children reads the directory in pages of the configured size, so listing
// failures surface while the sequence is consumed, after any entries read
// so far were yielded.
func (f *folder) Children(_ context.Context) iter.Seq2[cryptomator.Node, error] {
	return func(yield func(cryptomator.Node, error) bool) {
		if err := f.checkConfined("children"); err != nil {
			yield(nil, err)
			return
		}
		dir, err := os.Open(f.hostPath())
		if err != nil {
			yield(nil, &cryptomator.IOError{Op: "children", Path: f.path(), Err: err})
			return
		}
		defer dir.Close()
		for {
			entries, err := dir.ReadDir(f.fs.pageSize)
			for _, entry := range entries {
				var n cryptomator.Node
				if entry.IsDir() {
					n = f.Folder(entry.Name())
				} else {
					n = f.File(entry.Name())
				}
				if !yield(n, nil) {
					return
				}
			}
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(nil, &cryptomator.IOError{Op: "children", Path: f.path(), Err: err})
				return
			}
		}
	}
}

// Rename relocates the folder with os.Rename. Only targets on an FS with
// the same base qualify; anything else reports ErrUnsupported so the
// caller falls back to copy-then-delete.
func (f *folder) Rename(ctx context.Context, target cryptomator.Folder) error {
	t, ok := target.(*folder)
	if !ok || t.fs.base != f.fs.base {
		return cryptomator.ErrUnsupported
	}
	return rename(ctx, &f.node, &t.node)
}

func (f *file) Kind() cryptomator.Kind { return cryptomator.KindFile }

func (f *file) Exists(_ context.Context) (bool, error) {
	if err := f.checkConfined("stat"); err != nil {
		return false, err
	}
	info, err := os.Stat(f.hostPath())
	if errors.Is(err, iofs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, &cryptomator.IOError{Op: "stat", Path: f.path(), Err: err}
	}
	return !info.IsDir(), nil
}

func (f *file) Open(_ context.Context) (io.ReadCloser, error) {
	if err := f.checkConfined("open"); err != nil {
		return nil, err
	}
	h, err := os.Open(f.hostPath())
	if err != nil {
		return nil, &cryptomator.IOError{Op: "open", Path: f.path(), Err: err}
	}
	info, err := h.Stat()
	if err != nil {
		h.Close()
		return nil, &cryptomator.IOError{Op: "open", Path: f.path(), Err: err}
	}
	if info.IsDir() {
		h.Close()
		return nil, &cryptomator.IOError{Op: "open", Path: f.path(), Err: errNotFile}
	}
	return h, nil
}

// Create truncates or creates the file, making missing ancestor folders
// first.
func (f *file) Create(_ context.Context) (io.WriteCloser, error) {
	if err := f.checkConfined("create"); err != nil {
		return nil, err
	}
	hostPath := f.hostPath()
	if err := os.MkdirAll(filepath.Dir(hostPath), 0o755); err != nil {
		return nil, &cryptomator.IOError{Op: "create", Path: f.path(), Err: err}
	}
	h, err := os.Create(hostPath)
	if err != nil {
		return nil, &cryptomator.IOError{Op: "create", Path: f.path(), Err: err}
	}
	return h, nil
}

// Rename relocates a single file within the same FS.
func (f *file) Rename(ctx context.Context, target cryptomator.File) error {
	t, ok := target.(*file)
	if !ok || t.fs.base != f.fs.base {
		return cryptomator.ErrUnsupported
	}
	return rename(ctx, &f.node, &t.node)
}

func rename(ctx context.Context, src, dst *node) error {
	if err := src.checkConfined("rename"); err != nil {
		return err
	}
	if err := dst.checkConfined("rename"); err != nil {
		return err
	}
	if err := dst.Delete(ctx); err != nil {
		return err
	}
	dstHost := dst.hostPath()
	if err := os.MkdirAll(filepath.Dir(dstHost), 0o755); err != nil {
		return &cryptomator.IOError{Op: "rename", Path: dst.path(), Err: err}
	}
	if err := os.Rename(src.hostPath(), dstHost); err != nil {
		return &cryptomator.IOError{Op: "rename", Path: src.path(), Err: err}
	}
	src.fs.logger.Debug().
		Str("from", src.path()).
		Str("to", dst.path()).
		Msg("Renamed node")
	return nil
}
