package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"docschema/internal/domain"
	"docschema/internal/port"
)

type schemaRepo struct {
	db *sqlx.DB
}

// NewSchemaRepo creates a new PostgreSQL-backed SchemaRepository.
func NewSchemaRepo(db *sqlx.DB) port.SchemaRepository {
	return &schemaRepo{db: db}
}

func (r *schemaRepo) Save(ctx context.Context, s *domain.StoredSchema) error {
	now := time.Now().UTC()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	query := `INSERT INTO schemas (
		id, schema_id, version, name, category, definition,
		is_active, created_by, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (schema_id, version) DO UPDATE SET
		name = EXCLUDED.name,
		category = EXCLUDED.category,
		definition = EXCLUDED.definition,
		is_active = EXCLUDED.is_active,
		updated_at = EXCLUDED.updated_at
	RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		s.ID, s.SchemaID, s.Version, s.Name, s.Category, s.Definition,
		s.IsActive, s.CreatedBy, s.CreatedAt, s.UpdatedAt,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("schemaRepo.Save: %w", err)
	}
	return nil
}

func (r *schemaRepo) GetLatest(ctx context.Context, schemaID string) (*domain.StoredSchema, error) {
	var s domain.StoredSchema
	err := r.db.GetContext(ctx, &s,
		`SELECT * FROM schemas WHERE schema_id = $1
		 ORDER BY created_at DESC LIMIT 1`, schemaID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSchemaNotFound
		}
		return nil, fmt.Errorf("schemaRepo.GetLatest: %w", err)
	}
	return &s, nil
}

func (r *schemaRepo) GetVersion(ctx context.Context, schemaID, version string) (*domain.StoredSchema, error) {
	var s domain.StoredSchema
	err := r.db.GetContext(ctx, &s,
		"SELECT * FROM schemas WHERE schema_id = $1 AND version = $2", schemaID, version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSchemaNotFound
		}
		return nil, fmt.Errorf("schemaRepo.GetVersion: %w", err)
	}
	return &s, nil
}

func (r *schemaRepo) ListVersions(ctx context.Context, schemaID string) ([]domain.StoredSchema, error) {
	var out []domain.StoredSchema
	err := r.db.SelectContext(ctx, &out,
		"SELECT * FROM schemas WHERE schema_id = $1 ORDER BY created_at DESC", schemaID)
	if err != nil {
		return nil, fmt.Errorf("schemaRepo.ListVersions: %w", err)
	}
	if len(out) == 0 {
		return nil, domain.ErrSchemaNotFound
	}
	return out, nil
}

// List returns the latest version of each schema.
func (r *schemaRepo) List(ctx context.Context, includeInactive bool, offset, limit int) ([]domain.StoredSchema, int, error) {
	latest := `SELECT DISTINCT ON (schema_id) * FROM schemas
		WHERE ($1 OR is_active)
		ORDER BY schema_id, created_at DESC`

	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM ("+latest+") latest", includeInactive)
	if err != nil {
		return nil, 0, fmt.Errorf("schemaRepo.List count: %w", err)
	}

	var out []domain.StoredSchema
	err = r.db.SelectContext(ctx, &out,
		"SELECT * FROM ("+latest+") latest ORDER BY category, name LIMIT $2 OFFSET $3",
		includeInactive, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("schemaRepo.List: %w", err)
	}
	return out, total, nil
}

// SetActive flips is_active on every version of a schema.
func (r *schemaRepo) SetActive(ctx context.Context, schemaID string, active bool) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE schemas SET is_active = $1, updated_at = $2 WHERE schema_id = $3",
		active, time.Now().UTC(), schemaID)
	if err != nil {
		return fmt.Errorf("schemaRepo.SetActive: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrSchemaNotFound
	}
	return nil
}
