package manifest

import "github.com/arnestad/mdxpress/internal/models"

// Store defines the interface for manifest operations. Consumers should
// depend on this interface rather than the concrete *DB type to facilitate
// testing with mocks.
type Store interface {
	Upsert(a models.Artifact) error
	Get(sourcePath string) (*models.Artifact, error)
	GetChecksum(sourcePath string) (string, error)
	AllChecksums() (map[string]string, error)
	List(limit, offset int) ([]models.Artifact, int, error)
	Delete(sourcePath string) error
	Summary() (Stats, error)
	Close() error
}

// Verify *DB satisfies Store at compile time.
var _ Store = (*DB)(nil)
