package cryptomator_test

import (
	"context"
	"errors"
	"io"
	"iter"
	"strings"
	"testing"

	"github.com/Alishankhan/cryptomator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFolder is a scripted backend for exercising the enumeration and
// copy contracts without real I/O.
type fakeFolder struct {
	name     string
	parent   cryptomator.Folder
	children []cryptomator.Node
	listErr  error // yielded after the scripted children
}

func (f *fakeFolder) Name() string { return f.name }

func (f *fakeFolder) Parent() (cryptomator.Folder, bool) {
	return f.parent, f.parent != nil
}

func (f *fakeFolder) Kind() cryptomator.Kind { return cryptomator.KindFolder }

func (f *fakeFolder) Exists(context.Context) (bool, error) { return true, nil }

func (f *fakeFolder) Delete(context.Context) error { return nil }

func (f *fakeFolder) Create(context.Context) error { return nil }

func (f *fakeFolder) File(name string) cryptomator.File {
	return &fakeFile{name: name, parent: f}
}

func (f *fakeFolder) Folder(name string) cryptomator.Folder {
	return &fakeFolder{name: name, parent: f}
}

func (f *fakeFolder) Children(context.Context) iter.Seq2[cryptomator.Node, error] {
	return func(yield func(cryptomator.Node, error) bool) {
		for _, child := range f.children {
			if !yield(child, nil) {
				return
			}
		}
		if f.listErr != nil {
			yield(nil, f.listErr)
		}
	}
}

type fakeFile struct {
	name    string
	parent  cryptomator.Folder
	content string
	openErr error
}

func (f *fakeFile) Name() string { return f.name }

func (f *fakeFile) Parent() (cryptomator.Folder, bool) {
	return f.parent, f.parent != nil
}

func (f *fakeFile) Kind() cryptomator.Kind { return cryptomator.KindFile }

func (f *fakeFile) Exists(context.Context) (bool, error) { return true, nil }

func (f *fakeFile) Delete(context.Context) error { return nil }

func (f *fakeFile) Open(context.Context) (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return io.NopCloser(strings.NewReader(f.content)), nil
}

func (f *fakeFile) Create(context.Context) (io.WriteCloser, error) {
	return nopWriteCloser{io.Discard}, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func TestFilesAndFolders_FilterByKind(t *testing.T) {
	t.Parallel()

	root := &fakeFolder{name: "root"}
	fileA := &fakeFile{name: "a.txt", parent: root}
	folderB := &fakeFolder{name: "b", parent: root}
	fileC := &fakeFile{name: "c.txt", parent: root}
	root.children = []cryptomator.Node{fileA, folderB, fileC}

	ctx := context.Background()

	var fileNames []string
	for f, err := range cryptomator.Files(ctx, root) {
		require.NoError(t, err)
		fileNames = append(fileNames, f.Name())
	}
	// files come out in the order children yielded them
	assert.Equal(t, []string{"a.txt", "c.txt"}, fileNames)

	var folderNames []string
	for f, err := range cryptomator.Folders(ctx, root) {
		require.NoError(t, err)
		folderNames = append(folderNames, f.Name())
	}
	assert.Equal(t, []string{"b"}, folderNames)
}

func TestChildren_DeferredFailure(t *testing.T) {
	t.Parallel()

	root := &fakeFolder{name: "root"}
	root.children = []cryptomator.Node{
		&fakeFile{name: "a.txt", parent: root},
		&fakeFile{name: "b.txt", parent: root},
	}
	root.listErr = &cryptomator.IOError{Op: "children", Path: "root", Err: errors.New("disk gone")}

	var names []string
	var failure error
	for child, err := range root.Children(context.Background()) {
		if err != nil {
			failure = err
			break
		}
		names = append(names, child.Name())
	}

	// both healthy children were observable before the failure surfaced
	assert.Equal(t, []string{"a.txt", "b.txt"}, names)
	require.Error(t, failure)
	var ioErr *cryptomator.IOError
	require.ErrorAs(t, failure, &ioErr)
	assert.Equal(t, "children", ioErr.Op)
}

func TestFiles_PassesErrorsThrough(t *testing.T) {
	t.Parallel()

	listErr := &cryptomator.IOError{Op: "children", Path: "root", Err: errors.New("boom")}
	root := &fakeFolder{name: "root", listErr: listErr}
	root.children = []cryptomator.Node{&fakeFile{name: "a.txt", parent: root}}

	var names []string
	var failure error
	for f, err := range cryptomator.Files(context.Background(), root) {
		if err != nil {
			failure = err
			continue
		}
		names = append(names, f.Name())
	}

	assert.Equal(t, []string{"a.txt"}, names)
	assert.ErrorIs(t, failure, listErr)
}
