package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"docschema/internal/config"
	"docschema/internal/domain"
	"docschema/internal/port"
	"docschema/internal/schema"
)

// DefaultSchemaVersion is assigned to schemas saved without a version.
const DefaultSchemaVersion = "1.0.0"

// SaveSchemaResult carries the stored schema and the reports produced on the
// way. Structure is always set; Compatibility only when a previous version
// was compared. Schema is nil when the save was rejected.
type SaveSchemaResult struct {
	Schema        *domain.StoredSchema        `json:"schema,omitempty"`
	Structure     *domain.StructureResult     `json:"structure"`
	Compatibility *domain.CompatibilityResult `json:"compatibility,omitempty"`
}

// SchemaService manages versioned schema definitions.
type SchemaService interface {
	Save(ctx context.Context, raw []byte, actor string) (*SaveSchemaResult, error)
	Get(ctx context.Context, schemaID string) (*domain.StoredSchema, error)
	GetVersion(ctx context.Context, schemaID, version string) (*domain.StoredSchema, error)
	ListVersions(ctx context.Context, schemaID string) ([]domain.StoredSchema, error)
	List(ctx context.Context, includeInactive bool, offset, limit int) ([]domain.StoredSchema, int, error)
	Delete(ctx context.Context, schemaID string) error
	Restore(ctx context.Context, schemaID string) error
	JSONSchema(ctx context.Context, schemaID, version string) ([]byte, error)
}

type schemaService struct {
	repo   port.SchemaRepository
	assess AssessmentService
	cfg    *config.ExtractionConfig
	log    *zap.Logger
}

// NewSchemaService creates a new SchemaService implementation.
func NewSchemaService(
	repo port.SchemaRepository,
	assess AssessmentService,
	cfg *config.ExtractionConfig,
	log *zap.Logger,
) SchemaService {
	if log == nil {
		log = zap.NewNop()
	}
	return &schemaService{
		repo:   repo,
		assess: assess,
		cfg:    cfg,
		log:    log.Named("service.schema"),
	}
}

// Save validates, checks compatibility with the latest stored version and
// persists a schema. raw may be JSON or YAML. Re-saving an existing version
// overwrites it without a compatibility check.
func (s *schemaService) Save(ctx context.Context, raw []byte, actor string) (*SaveSchemaResult, error) {
	doc, err := schema.ToJSON(raw)
	if err != nil {
		doc = raw
	}

	res := &SaveSchemaResult{Structure: s.assess.ValidateSchema(doc, s.cfg.StrictSchemas)}
	if !res.Structure.IsValid {
		s.log.Info("schema rejected",
			zap.Int("errors", len(res.Structure.Errors)),
			zap.String("actor", actor))
		return res, fmt.Errorf("schemaService.Save: %w", domain.ErrSchemaInvalid)
	}

	var def domain.SchemaDefinition
	if err := json.Unmarshal(doc, &def); err != nil {
		return res, fmt.Errorf("schemaService.Save: decoding schema: %w", domain.ErrSchemaInvalid)
	}
	if def.Version == "" {
		def.Version = DefaultSchemaVersion
	}
	if def.Category == "" {
		def.Category = domain.DefaultCategory
	}

	prev, err := s.repo.GetLatest(ctx, def.ID)
	switch {
	case errors.Is(err, domain.ErrSchemaNotFound):
		prev = nil
	case err != nil:
		return res, fmt.Errorf("schemaService.Save: %w", err)
	case !prev.IsActive:
		return res, fmt.Errorf("schemaService.Save: %w", domain.ErrSchemaInactive)
	}

	if prev != nil && prev.Version != def.Version {
		prevDef, err := prev.Decode()
		if err != nil {
			return res, fmt.Errorf("schemaService.Save: decoding version %s: %w", prev.Version, err)
		}
		res.Compatibility = s.assess.CompareSchemas(&def, prevDef)
		if res.Compatibility.Metadata.BreakingChanges > 0 && !s.cfg.AllowBreakingChanges {
			s.log.Info("schema version rejected",
				zap.String("schema_id", def.ID),
				zap.String("from", prev.Version),
				zap.String("to", def.Version),
				zap.Int("breaking_changes", res.Compatibility.Metadata.BreakingChanges))
			return res, fmt.Errorf("schemaService.Save: %w", domain.ErrIncompatibleSchema)
		}
	}

	body, err := json.Marshal(&def)
	if err != nil {
		return res, fmt.Errorf("schemaService.Save: encoding schema: %w", err)
	}
	stored := &domain.StoredSchema{
		SchemaID:   def.ID,
		Version:    def.Version,
		Name:       def.Name,
		Category:   def.Category,
		Definition: body,
		IsActive:   true,
		CreatedBy:  actor,
	}
	if err := s.repo.Save(ctx, stored); err != nil {
		return res, fmt.Errorf("schemaService.Save: %w", err)
	}
	res.Schema = stored

	s.log.Info("schema saved",
		zap.String("schema_id", stored.SchemaID),
		zap.String("version", stored.Version),
		zap.Int("warnings", len(res.Structure.Warnings)),
		zap.String("actor", actor))
	return res, nil
}

func (s *schemaService) Get(ctx context.Context, schemaID string) (*domain.StoredSchema, error) {
	return s.repo.GetLatest(ctx, schemaID)
}

func (s *schemaService) GetVersion(ctx context.Context, schemaID, version string) (*domain.StoredSchema, error) {
	return s.repo.GetVersion(ctx, schemaID, version)
}

func (s *schemaService) ListVersions(ctx context.Context, schemaID string) ([]domain.StoredSchema, error) {
	return s.repo.ListVersions(ctx, schemaID)
}

func (s *schemaService) List(ctx context.Context, includeInactive bool, offset, limit int) ([]domain.StoredSchema, int, error) {
	return s.repo.List(ctx, includeInactive, offset, limit)
}

func (s *schemaService) Delete(ctx context.Context, schemaID string) error {
	if err := s.repo.SetActive(ctx, schemaID, false); err != nil {
		return fmt.Errorf("schemaService.Delete: %w", err)
	}
	s.log.Info("schema deactivated", zap.String("schema_id", schemaID))
	return nil
}

func (s *schemaService) Restore(ctx context.Context, schemaID string) error {
	if err := s.repo.SetActive(ctx, schemaID, true); err != nil {
		return fmt.Errorf("schemaService.Restore: %w", err)
	}
	s.log.Info("schema restored", zap.String("schema_id", schemaID))
	return nil
}

// JSONSchema exports a stored schema as a JSON Schema document. An empty
// version selects the latest.
func (s *schemaService) JSONSchema(ctx context.Context, schemaID, version string) ([]byte, error) {
	var (
		stored *domain.StoredSchema
		err    error
	)
	if version == "" {
		stored, err = s.repo.GetLatest(ctx, schemaID)
	} else {
		stored, err = s.repo.GetVersion(ctx, schemaID, version)
	}
	if err != nil {
		return nil, err
	}
	def, err := stored.Decode()
	if err != nil {
		return nil, fmt.Errorf("schemaService.JSONSchema: %w", err)
	}
	doc, err := schema.JSONSchemaDocument(def)
	if err != nil {
		return nil, fmt.Errorf("schemaService.JSONSchema: %w", err)
	}
	return doc, nil
}
