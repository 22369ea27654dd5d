// Package models defines the domain types for mdxpress.
package models

import "time"

// Entry is an immediate child of a source folder, the unit the push
// orchestrator dispatches on.
type Entry struct {
	Path  string `json:"path"` // relative to the tree root
	Name  string `json:"name"`
	IsDir bool   `json:"is_dir"`
}

// FileMetadata is a lightweight representation returned by list operations.
type FileMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Artifact records one published output in the manifest.
type Artifact struct {
	SourcePath  string    `json:"source_path"`
	OutputPath  string    `json:"output_path"`
	Checksum    string    `json:"checksum"` // checksum of the source bytes
	ContentType string    `json:"content_type"`
	Title       string    `json:"title,omitempty"`
	PushedAt    time.Time `json:"pushed_at"`
}
