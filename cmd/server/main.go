package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"docschema/internal/config"
	"docschema/internal/handler"
	"docschema/internal/logger"
	"docschema/internal/parser"
	_ "docschema/internal/parser/claude"
	_ "docschema/internal/parser/gemini"
	_ "docschema/internal/parser/openai"
	"docschema/internal/repository/postgres"
	"docschema/internal/router"
	"docschema/internal/service"
	s3storage "docschema/internal/storage/s3"
)

const shutdownTimeout = 30 * time.Second

// @title docschema API
// @version 1.0
// @description Schema validation and confidence scoring for LLM document extraction.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "docschema: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	schemaRepo := postgres.NewSchemaRepo(db)
	extractionRepo := postgres.NewExtractionRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(ctx, &cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	docParser, err := parser.Build(&cfg.Parser, log.Named("parser"))
	if err != nil {
		return fmt.Errorf("failed to initialize document parser: %w", err)
	}

	// Initialize services
	authSvc := service.NewAuthService(cfg.JWT)
	assessSvc := service.NewAssessmentService(nil)
	schemaSvc := service.NewSchemaService(schemaRepo, assessSvc, &cfg.Extraction, log)
	extractionSvc := service.NewExtractionService(
		schemaRepo, extractionRepo, s3Client, docParser, assessSvc,
		&cfg.Extraction, &cfg.S3, log,
	)

	r := router.Setup(log, cfg.CORS.AllowedOrigins, authSvc, router.Handlers{
		Health:     handler.NewHealthHandler(db, s3Client),
		Assessment: handler.NewAssessmentHandler(assessSvc),
		Schema:     handler.NewSchemaHandler(schemaSvc),
		Extraction: handler.NewExtractionHandler(extractionSvc, cfg.S3.MaxFileSize()),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting",
			zap.String("addr", cfg.Server.Port),
			zap.String("environment", cfg.Server.Environment),
			zap.String("parser_mode", cfg.Parser.Mode),
			zap.Strings("parser_providers", parser.Providers()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
