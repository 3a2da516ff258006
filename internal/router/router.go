package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "docschema/docs" // registers the OpenAPI document
	"docschema/internal/domain"
	"docschema/internal/handler"
	"docschema/internal/middleware"
	"docschema/internal/service"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Health     *handler.HealthHandler
	Assessment *handler.AssessmentHandler
	Schema     *handler.SchemaHandler
	Extraction *handler.ExtractionHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(log *zap.Logger, allowedOrigins []string, authSvc service.AuthService, h Handlers) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes - require valid JWT
	v1 := r.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(authSvc))

	assess := v1.Group("/assess")
	assess.POST("/schema", h.Assessment.ValidateSchema)
	assess.POST("/field", h.Assessment.AssessField)
	assess.POST("/document", h.Assessment.AssessDocument)
	assess.POST("/compare", h.Assessment.CompareSchemas)
	assess.POST("/extraction", h.Assessment.ValidateExtraction)

	admin := middleware.RequireRole(domain.RoleAdmin)

	schemas := v1.Group("/schemas")
	schemas.POST("", admin, h.Schema.Save)
	schemas.GET("", h.Schema.List)
	schemas.GET("/:id", h.Schema.Get)
	schemas.GET("/:id/versions", h.Schema.ListVersions)
	schemas.GET("/:id/versions/:version", h.Schema.GetVersion)
	schemas.GET("/:id/jsonschema", h.Schema.JSONSchema)
	schemas.DELETE("/:id", admin, h.Schema.Delete)
	schemas.POST("/:id/restore", admin, h.Schema.Restore)

	extractions := v1.Group("/extractions")
	extractions.POST("", h.Extraction.Create)
	extractions.GET("", h.Extraction.List)
	extractions.GET("/:id", h.Extraction.Get)
	extractions.GET("/:id/source", h.Extraction.Source)
	extractions.GET("/:id/report", h.Extraction.Report)

	return r
}
