package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"docschema/internal/config"
	"docschema/internal/domain"
	"docschema/internal/parser"
	"docschema/internal/port"
	"docschema/internal/report"
	"docschema/internal/schema"
	"docschema/internal/value"
)

// sourceURLExpiry is how long a presigned source document link stays valid.
const sourceURLExpiry int64 = 15 * 60

// ExtractInput is the DTO for running a document through the parser and the
// scoring engine.
type ExtractInput struct {
	SchemaID    string
	Version     string // empty selects the latest version
	FileName    string
	ContentType string
	Bytes       []byte
	Actor       string
}

// ExtractionService runs and records document extractions.
type ExtractionService interface {
	Extract(ctx context.Context, input *ExtractInput) (*domain.Extraction, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Extraction, error)
	List(ctx context.Context, schemaID string, offset, limit int) ([]domain.Extraction, int, error)
	Report(ctx context.Context, id uuid.UUID) (*report.Report, error)
	SourceURL(ctx context.Context, id uuid.UUID) (string, error)
}

type extractionService struct {
	schemas     port.SchemaRepository
	extractions port.ExtractionRepository
	storage     port.ObjectStorage
	parser      port.DocumentParser
	assess      AssessmentService
	cfg         *config.ExtractionConfig
	s3cfg       *config.S3Config
	log         *zap.Logger

	mu     sync.Mutex
	active int
}

// NewExtractionService creates a new ExtractionService implementation.
func NewExtractionService(
	schemas port.SchemaRepository,
	extractions port.ExtractionRepository,
	storage port.ObjectStorage,
	docParser port.DocumentParser,
	assess AssessmentService,
	cfg *config.ExtractionConfig,
	s3cfg *config.S3Config,
	log *zap.Logger,
) ExtractionService {
	if log == nil {
		log = zap.NewNop()
	}
	return &extractionService{
		schemas:     schemas,
		extractions: extractions,
		storage:     storage,
		parser:      docParser,
		assess:      assess,
		cfg:         cfg,
		s3cfg:       s3cfg,
		log:         log.Named("service.extraction"),
	}
}

func (s *extractionService) acquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active >= s.cfg.MaxConcurrent {
		return false
	}
	s.active++
	return true
}

func (s *extractionService) release() {
	s.mu.Lock()
	s.active--
	s.mu.Unlock()
}

func (s *extractionService) Extract(ctx context.Context, input *ExtractInput) (*domain.Extraction, error) {
	if !s.acquire() {
		return nil, domain.ErrTooManyExtractions
	}
	defer s.release()

	stored, def, err := s.loadSchema(ctx, input.SchemaID, input.Version)
	if err != nil {
		return nil, err
	}

	contentType, err := s.checkFile(input)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	key := fmt.Sprintf("extractions/%s/%s/%s", stored.SchemaID, id, filepath.Base(input.FileName))
	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3cfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(input.Bytes),
		ContentType: contentType,
		Size:        int64(len(input.Bytes)),
	}); err != nil {
		s.log.Error("source upload failed", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("extractionService.Extract: %w", domain.ErrUploadFailed)
	}

	rec := &domain.Extraction{
		ID:            id,
		SchemaID:      stored.SchemaID,
		SchemaVersion: stored.Version,
		FileName:      input.FileName,
		ContentType:   contentType,
		FileSize:      int64(len(input.Bytes)),
		S3Bucket:      s.s3cfg.Bucket,
		S3Key:         key,
		Status:        domain.ExtractionStatusPending,
		CreatedBy:     input.Actor,
	}
	if err := s.extractions.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("extractionService.Extract: %w", err)
	}

	s.log.Info("extraction started",
		zap.String("extraction_id", id.String()),
		zap.String("schema_id", stored.SchemaID),
		zap.String("version", stored.Version),
		zap.String("content_type", contentType),
		zap.Int("bytes", len(input.Bytes)))

	out, attempts, err := s.parseWithRetry(ctx, port.ParseInput{
		FileBytes:   input.Bytes,
		ContentType: contentType,
		Schema:      def,
	})
	rec.Attempts = attempts
	if err != nil {
		return rec, s.fail(ctx, rec, err)
	}

	if err := s.score(rec, def, out); err != nil {
		return rec, s.fail(ctx, rec, err)
	}
	if err := s.extractions.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("extractionService.Extract: %w", err)
	}

	s.log.Info("extraction completed",
		zap.String("extraction_id", id.String()),
		zap.String("model", rec.ParserModel),
		zap.Int("attempts", attempts),
		zap.Float64("score", rec.OverallScore),
		zap.Bool("passed", rec.Passed))
	return rec, nil
}

func (s *extractionService) loadSchema(ctx context.Context, schemaID, version string) (*domain.StoredSchema, *domain.SchemaDefinition, error) {
	var (
		stored *domain.StoredSchema
		err    error
	)
	if version == "" {
		stored, err = s.schemas.GetLatest(ctx, schemaID)
	} else {
		stored, err = s.schemas.GetVersion(ctx, schemaID, version)
	}
	if err != nil {
		return nil, nil, err
	}
	if !stored.IsActive {
		return nil, nil, domain.ErrSchemaInactive
	}
	def, err := stored.Decode()
	if err != nil {
		return nil, nil, fmt.Errorf("extractionService.loadSchema: %w", err)
	}
	return stored, def, nil
}

// checkFile validates extension, size and magic bytes, and returns the
// detected content type.
func (s *extractionService) checkFile(input *ExtractInput) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.FileName), "."))
	if _, ok := domain.AllowedExtensions[ext]; !ok {
		return "", domain.ErrUnsupportedFileType
	}
	if int64(len(input.Bytes)) > s.s3cfg.MaxFileSize() {
		return "", domain.ErrFileTooLarge
	}

	head := input.Bytes
	if len(head) > 512 {
		head = head[:512]
	}
	detected := http.DetectContentType(head)
	if _, ok := domain.AllowedContentTypes[detected]; !ok {
		return "", domain.ErrUnsupportedFileType
	}
	return detected, nil
}

// parseWithRetry calls the parser under a per-attempt timeout. Failed
// attempts are retried with exponential backoff; a rate limit waits for its
// Retry-After instead, capped at the longest backoff step.
func (s *extractionService) parseWithRetry(ctx context.Context, in port.ParseInput) (*port.ParseOutput, int, error) {
	base := s.cfg.Backoff()
	maxWait := base << s.cfg.MaxRetries

	var lastErr error
	for attempt := 0; attempt <= s.cfg.MaxRetries; attempt++ {
		out, err := s.parseOnce(ctx, in)
		if err == nil {
			return out, attempt + 1, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, attempt + 1, ctx.Err()
		}
		if attempt == s.cfg.MaxRetries {
			break
		}

		wait := base << attempt
		var rl *parser.RateLimitError
		if errors.As(err, &rl) {
			wait = min(rl.RetryAfter, maxWait)
		}
		s.log.Warn("parse attempt failed",
			zap.Int("attempt", attempt+1),
			zap.Duration("retry_in", wait),
			zap.Error(err))
		if err := sleepCtx(ctx, wait); err != nil {
			return nil, attempt + 1, err
		}
	}
	return nil, s.cfg.MaxRetries + 1, lastErr
}

func (s *extractionService) parseOnce(ctx context.Context, in port.ParseInput) (*port.ParseOutput, error) {
	if timeout := s.cfg.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return s.parser.Parse(ctx, in)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// score validates and assesses a parser output and records the verdict on rec.
func (s *extractionService) score(rec *domain.Extraction, def *domain.SchemaDefinition, out *port.ParseOutput) error {
	var data map[string]any
	if err := json.Unmarshal(out.Data, &data); err != nil {
		return fmt.Errorf("decoding parser output: %w", err)
	}
	result := withFieldConfidence(data, out.ConfidenceScores)

	check := s.assess.ValidateExtraction(result, def)
	if err := schema.ConformsTo(def, data); err != nil {
		check.Warnings = append(check.Warnings, fmt.Sprintf("Result does not conform to the schema's JSON Schema: %v", err))
	}
	assessment := s.assess.AssessDocument(&AssessDocumentInput{
		Result:     result,
		Schema:     *def,
		AIMetadata: out.AIMetadata(),
	})

	validation, err := json.Marshal(check)
	if err != nil {
		return err
	}
	scored, err := json.Marshal(assessment)
	if err != nil {
		return err
	}
	if len(out.FieldProvenance) > 0 {
		if rec.FieldProvenance, err = json.Marshal(out.FieldProvenance); err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	rec.Status = domain.ExtractionStatusCompleted
	rec.ParserModel = out.ModelUsed
	rec.ParserPrompt = out.PromptUsed
	rec.Data = out.Data
	rec.Validation = validation
	rec.Assessment = scored
	rec.OverallScore = assessment.Document.Score
	rec.ConfidenceLevel = assessment.Document.Level
	rec.Passed = check.Passed
	rec.CompletedAt = &now
	return nil
}

// withFieldConfidence wraps each value that has a parser-reported confidence
// as {value, confidence}, so the score for that field uses it.
func withFieldConfidence(data map[string]any, scores map[string]float64) map[string]any {
	if len(scores) == 0 {
		return data
	}
	out := make(map[string]any, len(data))
	for k, v := range data {
		c, ok := scores[k]
		if !ok || value.Unwrap(v).IsWrapped {
			out[k] = v
			continue
		}
		out[k] = map[string]any{"value": v, "confidence": c}
	}
	return out
}

// fail records a failed extraction and returns the error for the caller.
func (s *extractionService) fail(ctx context.Context, rec *domain.Extraction, cause error) error {
	now := time.Now().UTC()
	rec.Status = domain.ExtractionStatusFailed
	rec.Error = parser.Truncate(cause.Error(), 2000)
	rec.CompletedAt = &now

	s.log.Error("extraction failed",
		zap.String("extraction_id", rec.ID.String()),
		zap.Int("attempts", rec.Attempts),
		zap.Error(cause))

	// Record the failure even when ctx itself is what failed.
	if err := s.extractions.Update(context.WithoutCancel(ctx), rec); err != nil {
		s.log.Error("recording failed extraction", zap.Error(err))
	}
	if errors.Is(cause, context.Canceled) || errors.Is(cause, context.DeadlineExceeded) {
		return fmt.Errorf("extractionService.Extract: %w", cause)
	}
	return fmt.Errorf("extractionService.Extract: %w: %v", domain.ErrParseFailed, cause)
}

func (s *extractionService) Get(ctx context.Context, id uuid.UUID) (*domain.Extraction, error) {
	return s.extractions.GetByID(ctx, id)
}

func (s *extractionService) List(ctx context.Context, schemaID string, offset, limit int) ([]domain.Extraction, int, error) {
	return s.extractions.List(ctx, schemaID, offset, limit)
}

func (s *extractionService) Report(ctx context.Context, id uuid.UUID) (*report.Report, error) {
	e, err := s.extractions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r, err := report.Build(e)
	if err != nil {
		return nil, fmt.Errorf("extractionService.Report: %w", err)
	}
	return r, nil
}

// SourceURL returns a short-lived download link for the archived document.
func (s *extractionService) SourceURL(ctx context.Context, id uuid.UUID) (string, error) {
	e, err := s.extractions.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return s.storage.GetPresignedURL(ctx, e.S3Bucket, e.S3Key, sourceURLExpiry)
}
