package cryptomator

import (
	"context"
	"errors"
	"io"
)

// Copy replicates source's entire subtree (source itself, not merely its
// contents) at target's location. Missing ancestor folders of target are
// created, and anything already existing at target is deleted up front:
// the result replaces prior content, it is not merged into it.
//
// target must not be source itself nor a descendant of source; violating
// that fails with *SelfContainmentError before anything is mutated.
//
// Children are copied in whatever order enumeration yields them. If the
// copy fails partway through, children copied so far remain at target and
// the error propagates; there is no rollback.
func Copy(ctx context.Context, source, target Folder) error {
	if Equal(source, target) || IsAncestorOf(source, target) {
		return &SelfContainmentError{Source: Path(source), Target: Path(target)}
	}
	if err := target.Delete(ctx); err != nil {
		return err
	}
	if err := target.Create(ctx); err != nil {
		return err
	}
	for child, err := range source.Children(ctx) {
		if err != nil {
			return err
		}
		switch child.Kind() {
		case KindFolder:
			err = Copy(ctx, child.(Folder), target.Folder(child.Name()))
		case KindFile:
			err = CopyFile(ctx, child.(File), target.File(child.Name()))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// CopyFile duplicates src's content at dst, replacing whatever content dst
// had and creating missing ancestor folders. dst must not be src.
func CopyFile(ctx context.Context, src, dst File) error {
	if Equal(src, dst) {
		return &SelfContainmentError{Source: Path(src), Target: Path(dst)}
	}
	r, err := src.Open(ctx)
	if err != nil {
		return err
	}
	defer r.Close()
	w, err := dst.Create(ctx)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// Move relocates source and its contents to target, replacing target if it
// exists, under the same self-containment guard as [Copy]. Backends that
// implement [Renamer] are asked for an atomic rename first; when the
// rename is unsupported (or the endpoints live on different stores) Move
// falls back to Copy followed by deleting source. The fallback is not
// atomic: interrupting it between the two steps can leave both trees
// present.
func Move(ctx context.Context, source, target Folder) error {
	if Equal(source, target) || IsAncestorOf(source, target) {
		return &SelfContainmentError{Source: Path(source), Target: Path(target)}
	}
	if r, ok := source.(Renamer); ok {
		err := r.Rename(ctx, target)
		if err == nil || !errors.Is(err, ErrUnsupported) {
			return err
		}
	}
	if err := Copy(ctx, source, target); err != nil {
		return err
	}
	return source.Delete(ctx)
}

// MoveFile relocates a single file under the same semantics as [Move],
// preferring the [FileRenamer] capability over copy-then-delete.
func MoveFile(ctx context.Context, src, dst File) error {
	if Equal(src, dst) {
		return &SelfContainmentError{Source: Path(src), Target: Path(dst)}
	}
	if r, ok := src.(FileRenamer); ok {
		err := r.Rename(ctx, dst)
		if err == nil || !errors.Is(err, ErrUnsupported) {
			return err
		}
	}
	if err := CopyFile(ctx, src, dst); err != nil {
		return err
	}
	return src.Delete(ctx)
}
