// Package osfs implements the node contract on a directory of the local
// filesystem. Handles are confined to the configured base directory: names
// that would resolve elsewhere under filepath.Join ("", ".", ".." and names
// containing a separator) are rejected at operation time. Moves inside one
// FS use an atomic rename, and creation timestamps are not supported.
package osfs

import (
	"path/filepath"

	"github.com/Alishankhan/cryptomator"
	"github.com/Alishankhan/cryptomator/internal/util"
	"github.com/rs/zerolog"
)

// DefaultPageSize is the number of directory entries read from disk per
// batch while a child enumeration is consumed.
const DefaultPageSize = 64

// FS exposes a directory of the local filesystem.
type FS struct {
	base     string
	pageSize int
	logger   zerolog.Logger
}

// Option configures an FS.
type Option func(*FS)

// WithPageSize overrides the enumeration batch size.
func WithPageSize(n int) Option {
	return func(fs *FS) {
		if n > 0 {
			fs.pageSize = n
		}
	}
}

// New returns an FS rooted at base. The directory does not have to exist
// yet; calling Create on the root folder handle brings it into being.
func New(base string, opts ...Option) (*FS, error) {
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, err
	}
	fs := &FS{
		base:     abs,
		pageSize: DefaultPageSize,
		logger:   util.GetLogger("osfs"),
	}
	for _, opt := range opts {
		opt(fs)
	}
	return fs, nil
}

// Base returns the absolute base directory the FS is rooted at.
func (fs *FS) Base() string { return fs.base }

// Root returns the root folder handle.
func (fs *FS) Root() cryptomator.Folder {
	return &folder{node{fs: fs}}
}

// hostPath maps path segments to an absolute location under the base.
func (fs *FS) hostPath(segments []string) string {
	return filepath.Join(append([]string{fs.base}, segments...)...)
}
