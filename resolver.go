package cryptomator

import "strings"

// ResolveFolder returns the folder named by a slash-separated path
// relative to start. A leading slash does not anchor the path anywhere; it
// is stripped and the path is treated as relative regardless. Empty
// segments produced by leading, trailing or duplicate slashes are
// discarded, as is the self-reference ".". The segment ".." is not
// interpreted: it passes through verbatim as a folder name, so backends
// that allow a literal ".." name observe it unchanged.
//
// Resolution performs no I/O and no existence checks; the returned handle
// may name a location where nothing exists yet. An empty effective path
// returns start itself.
func ResolveFolder(start Folder, path string) Folder {
	folder := start
	for _, segment := range splitPath(path) {
		folder = folder.Folder(segment)
	}
	return folder
}

// ResolveFile returns the file named by a slash-separated path relative to
// start, under the same path syntax as [ResolveFolder]. A file requires a
// non-empty terminal segment, so a path that is empty after segment
// filtering fails with *InvalidPathError.
func ResolveFile(start Folder, path string) (File, error) {
	segments := splitPath(path)
	if len(segments) == 0 {
		return nil, &InvalidPathError{Path: path}
	}
	folder := start
	for _, segment := range segments[:len(segments)-1] {
		folder = folder.Folder(segment)
	}
	return folder.File(segments[len(segments)-1]), nil
}

func splitPath(path string) []string {
	var segments []string
	for part := range strings.SplitSeq(path, "/") {
		if part == "" || part == "." {
			continue
		}
		segments = append(segments, part)
	}
	return segments
}
