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

type extractionRepo struct {
	db *sqlx.DB
}

// NewExtractionRepo creates a new PostgreSQL-backed ExtractionRepository.
func NewExtractionRepo(db *sqlx.DB) port.ExtractionRepository {
	return &extractionRepo{db: db}
}

func (r *extractionRepo) Create(ctx context.Context, e *domain.Extraction) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO extractions (
		id, schema_id, schema_version, file_name, content_type, file_size,
		s3_bucket, s3_key, status, parser_model, parser_prompt, attempts,
		data, validation, assessment, field_provenance, overall_score,
		confidence_level, passed, error, created_by, created_at, completed_at
	) VALUES (
		:id, :schema_id, :schema_version, :file_name, :content_type, :file_size,
		:s3_bucket, :s3_key, :status, :parser_model, :parser_prompt, :attempts,
		:data, :validation, :assessment, :field_provenance, :overall_score,
		:confidence_level, :passed, :error, :created_by, :created_at, :completed_at
	)`

	if _, err := r.db.NamedExecContext(ctx, query, e); err != nil {
		return fmt.Errorf("extractionRepo.Create: %w", err)
	}
	return nil
}

func (r *extractionRepo) Update(ctx context.Context, e *domain.Extraction) error {
	query := `UPDATE extractions SET
		status = :status, parser_model = :parser_model, parser_prompt = :parser_prompt,
		attempts = :attempts, data = :data, validation = :validation,
		assessment = :assessment, field_provenance = :field_provenance,
		overall_score = :overall_score,
		confidence_level = :confidence_level, passed = :passed, error = :error,
		completed_at = :completed_at
	WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, e)
	if err != nil {
		return fmt.Errorf("extractionRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrExtractionNotFound
	}
	return nil
}

func (r *extractionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Extraction, error) {
	var e domain.Extraction
	err := r.db.GetContext(ctx, &e, "SELECT * FROM extractions WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrExtractionNotFound
		}
		return nil, fmt.Errorf("extractionRepo.GetByID: %w", err)
	}
	return &e, nil
}

// List returns extractions newest first. An empty schemaID lists all schemas.
func (r *extractionRepo) List(ctx context.Context, schemaID string, offset, limit int) ([]domain.Extraction, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM extractions WHERE ($1 = '' OR schema_id = $1)", schemaID)
	if err != nil {
		return nil, 0, fmt.Errorf("extractionRepo.List count: %w", err)
	}

	var out []domain.Extraction
	err = r.db.SelectContext(ctx, &out,
		`SELECT * FROM extractions WHERE ($1 = '' OR schema_id = $1)
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		schemaID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("extractionRepo.List: %w", err)
	}
	return out, total, nil
}
