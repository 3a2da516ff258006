package port

import (
	"context"

	"github.com/google/uuid"

	"docschema/internal/domain"
)

// SchemaRepository defines the contract for versioned schema persistence.
type SchemaRepository interface {
	// Save upserts on (schema_id, version): re-saving a version overwrites it.
	Save(ctx context.Context, s *domain.StoredSchema) error
	GetLatest(ctx context.Context, schemaID string) (*domain.StoredSchema, error)
	GetVersion(ctx context.Context, schemaID, version string) (*domain.StoredSchema, error)
	ListVersions(ctx context.Context, schemaID string) ([]domain.StoredSchema, error)
	List(ctx context.Context, includeInactive bool, offset, limit int) ([]domain.StoredSchema, int, error)
	SetActive(ctx context.Context, schemaID string, active bool) error
}

// ExtractionRepository defines the contract for extraction record persistence.
type ExtractionRepository interface {
	Create(ctx context.Context, e *domain.Extraction) error
	Update(ctx context.Context, e *domain.Extraction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Extraction, error)
	List(ctx context.Context, schemaID string, offset, limit int) ([]domain.Extraction, int, error)
}
