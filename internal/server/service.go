// Package server implements the mdxpress preview and control API using chi.
package server

import (
	"context"
	"time"

	"github.com/arnestad/mdxpress/internal/manifest"
	"github.com/arnestad/mdxpress/internal/models"
	"github.com/arnestad/mdxpress/internal/push"
)

// Status is the response payload for GET /api/status.
type Status struct {
	Folder     string     `json:"folder"`
	URLPrefix  string     `json:"url_prefix"`
	Artifacts  int        `json:"artifacts"`
	LastPushed *time.Time `json:"last_pushed,omitempty"`
}

// ArtifactList wraps paginated artifact listings.
type ArtifactList struct {
	Artifacts []models.Artifact `json:"artifacts"`
	Total     int               `json:"total"`
}

// Service coordinates pushes and manifest queries for the API layer.
type Service struct {
	pusher *push.Pusher
	man    manifest.Store
	folder string
}

// NewService creates a new API service publishing the given source folder.
func NewService(pusher *push.Pusher, man manifest.Store, folder string) *Service {
	return &Service{pusher: pusher, man: man, folder: folder}
}

// Status summarises the manifest for the configured folder.
func (s *Service) Status(_ context.Context) (*Status, error) {
	sum, err := s.man.Summary()
	if err != nil {
		return nil, err
	}
	return &Status{
		Folder:     s.folder,
		URLPrefix:  s.pusher.URLPrefix(s.folder),
		Artifacts:  sum.Artifacts,
		LastPushed: sum.LastPushed,
	}, nil
}

// Push runs a full batch push of the configured folder.
func (s *Service) Push(ctx context.Context) (*push.Report, error) {
	return s.pusher.PushFolder(ctx, s.folder)
}

// Artifacts returns a page of manifest records.
func (s *Service) Artifacts(_ context.Context, limit, offset int) (*ArtifactList, error) {
	items, total, err := s.man.List(limit, offset)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Artifact{}
	}
	return &ArtifactList{Artifacts: items, Total: total}, nil
}
