package bundle

import "lwcgraph/internal/source"

// File is one physical member of a bundle.
type File struct {
	Name    string
	Content string
	Kind    Kind

	hash    source.Digest
	primary bool
}

func newFile(name, content string, kind Kind) *File {
	return &File{
		Name:    name,
		Content: content,
		Kind:    kind,
		hash:    source.HashString(content),
	}
}

// IsPrimary reports whether the file is the one currently under analysis.
func (f *File) IsPrimary() bool {
	return f != nil && f.primary
}

// Hash returns the sha256 digest of Content, computed at construction.
func (f *File) Hash() source.Digest {
	return f.hash
}
