package cryptomator

import (
	"context"
	"iter"
)

// Files narrows the folder's children down to files. Order, laziness and
// the deferred-error contract of [Folder.Children] are preserved; errors
// pass through unfiltered.
func Files(ctx context.Context, f Folder) iter.Seq2[File, error] {
	return func(yield func(File, error) bool) {
		for child, err := range f.Children(ctx) {
			if err != nil {
				if !yield(nil, err) {
					return
				}
				continue
			}
			if child.Kind() != KindFile {
				continue
			}
			if !yield(child.(File), nil) {
				return
			}
		}
	}
}

// Folders narrows the folder's children down to folders, under the same
// contract as [Files].
func Folders(ctx context.Context, f Folder) iter.Seq2[Folder, error] {
	return func(yield func(Folder, error) bool) {
		for child, err := range f.Children(ctx) {
			if err != nil {
				if !yield(nil, err) {
					return
				}
				continue
			}
			if child.Kind() != KindFolder {
				continue
			}
			if !yield(child.(Folder), nil) {
				return
			}
		}
	}
}
