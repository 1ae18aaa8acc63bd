package storage

import (
	"path/filepath"
)

// FileID is a stable, comparable identity for a file. Two File values that
// refer to the same underlying storage have equal IDs.
type FileID string

// NewFileID derives a FileID from a path. The path is made absolute and
// cleaned so that "./data/t" and "data/t" map to the same identity.
func NewFileID(path string) FileID {
	if abs, err := filepath.Abs(path); err == nil {
		return FileID(abs)
	}
	return FileID(filepath.Clean(path))
}

// File is the page-level view of one database file.
type File interface {
	ID() FileID
	Filename() string

	// ReadPage returns a copy of the page, or ErrInvalidPage if it does not exist.
	ReadPage(pageNo PageNumber) (*Page, error)
	WritePage(p *Page) error
	// AllocatePage assigns a new page number and returns the fresh page.
	AllocatePage() (*Page, error)
	DeletePage(pageNo PageNumber) error

	// Close releases OS resources held by the file. The file reopens lazily
	// on its next use.
	Close() error
}
