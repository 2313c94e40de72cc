package liveindex

// File-order tracks compilation visibility. It matters for exactly one of
// the nine supported languages: F#, where a file may only reference
// symbols declared in files compiled before it (per its .fsproj). Every
// other extractor never populates this, so by default every file can
// reference every other.

// SetFileOrder records the compilation order of files, index 0 compiled
// first. Paths are converted to relative before storage.
func (idx *Index) SetFileOrder(files []string) {
	ordered := make([]string, len(files))
	for i, f := range files {
		ordered[i] = idx.toRelative(f)
	}
	idx.fileOrder = ordered
}

// HasFileOrder reports whether a compilation order has been recorded.
func (idx *Index) HasFileOrder() bool { return len(idx.fileOrder) > 0 }

// FileOrderCount returns the number of files with a known compilation order.
func (idx *Index) FileOrderCount() int { return len(idx.fileOrder) }

// CompilationOrder returns file's position in the compilation order, or
// (-1, false) if no order is known or file isn't part of the project.
func (idx *Index) CompilationOrder(file string) (int, bool) {
	relFile := idx.toRelative(file)
	for i, f := range idx.fileOrder {
		if f == relFile {
			return i, true
		}
	}
	return -1, false
}

// CanReference reports whether fromFile may reference a symbol declared in
// toFile: true when no compilation order is set, when either file falls
// outside the recorded project, or when toFile precedes fromFile in the
// order.
func (idx *Index) CanReference(fromFile, toFile string) bool {
	if len(idx.fileOrder) == 0 {
		return true
	}
	fromOrder, fromOK := idx.CompilationOrder(fromFile)
	toOrder, toOK := idx.CompilationOrder(toFile)
	if !fromOK || !toOK {
		return true
	}
	return toOrder < fromOrder
}

// FilesVisibleFrom returns the files that may be referenced from file: the
// compilation-order prefix strictly before it, or every indexed file if no
// order is set or file isn't part of the ordered project.
func (idx *Index) FilesVisibleFrom(file string) []string {
	if len(idx.fileOrder) == 0 {
		return idx.Files()
	}
	order, ok := idx.CompilationOrder(file)
	if !ok {
		return idx.Files()
	}
	visible := make([]string, order)
	copy(visible, idx.fileOrder[:order])
	return visible
}
