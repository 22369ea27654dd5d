// Package storage defines the file-tree abstraction used for the source
// vault (read side) and the destination site tree (write side).
package storage

import "github.com/arnestad/mdxpress/internal/models"

// Provider is the interface for tree file operations. All paths are
// relative to the tree root.
type Provider interface {
	// List returns metadata for every regular file under dir.
	List(dir string) ([]models.FileMetadata, error)
	// Entries returns the immediate children of dir.
	Entries(dir string) ([]models.Entry, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path, creating parent directories.
	Write(path string, content []byte) error
	// Stat reports whether path exists and whether it is a directory.
	Stat(path string) (exists, isDir bool, err error)
	// Root returns the absolute root of the tree.
	Root() string
}
