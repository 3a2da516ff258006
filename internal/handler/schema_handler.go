package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"docschema/internal/domain"
	"docschema/internal/service"
)

// SchemaHandler handles schema registry endpoints.
type SchemaHandler struct {
	schemas service.SchemaService
}

// NewSchemaHandler creates a new SchemaHandler.
func NewSchemaHandler(schemas service.SchemaService) *SchemaHandler {
	return &SchemaHandler{schemas: schemas}
}

// Save handles POST /api/v1/schemas
// @Summary Save a schema version
// @Description Validates the schema, checks compatibility with the latest stored version when the version changes, and stores it. Rejected saves return the reports in data.
// @Tags schemas
// @Accept json
// @Produce json
// @Param body body SchemaDocument true "Schema document (JSON or YAML)"
// @Success 201 {object} Response{data=service.SaveSchemaResult}
// @Failure 409 {object} ErrorResponseBody "Breaking change or inactive schema"
// @Failure 422 {object} ErrorResponseBody "Schema failed validation"
// @Security BearerAuth
// @Router /schemas [post]
func (h *SchemaHandler) Save(c *gin.Context) {
	raw, ok := readBody(c)
	if !ok {
		return
	}
	res, err := h.schemas.Save(c.Request.Context(), raw, actor(c))
	if err != nil {
		if res != nil && (errors.Is(err, domain.ErrSchemaInvalid) || errors.Is(err, domain.ErrIncompatibleSchema)) {
			status, code, msg := MapDomainError(err)
			RespondErrorWithData(c, status, code, msg, res)
			return
		}
		HandleError(c, err)
		return
	}
	RespondCreated(c, res)
}

// List handles GET /api/v1/schemas
// @Summary List schemas
// @Description Lists the latest version of each schema.
// @Tags schemas
// @Produce json
// @Param include_inactive query bool false "Include soft-deleted schemas"
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit" default(20)
// @Success 200 {object} Response{data=[]domain.StoredSchema,meta=PagMeta}
// @Security BearerAuth
// @Router /schemas [get]
func (h *SchemaHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)
	includeInactive, _ := strconv.ParseBool(c.DefaultQuery("include_inactive", "false"))

	schemas, total, err := h.schemas.List(c.Request.Context(), includeInactive, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, schemas, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Get handles GET /api/v1/schemas/:id
// @Summary Get the latest version of a schema
// @Tags schemas
// @Produce json
// @Param id path string true "Schema ID"
// @Success 200 {object} Response{data=domain.StoredSchema}
// @Failure 404 {object} ErrorResponseBody
// @Security BearerAuth
// @Router /schemas/{id} [get]
func (h *SchemaHandler) Get(c *gin.Context) {
	s, err := h.schemas.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, s)
}

// ListVersions handles GET /api/v1/schemas/:id/versions
// @Summary List the versions of a schema
// @Tags schemas
// @Produce json
// @Param id path string true "Schema ID"
// @Success 200 {object} Response{data=[]domain.StoredSchema}
// @Failure 404 {object} ErrorResponseBody
// @Security BearerAuth
// @Router /schemas/{id}/versions [get]
func (h *SchemaHandler) ListVersions(c *gin.Context) {
	versions, err := h.schemas.ListVersions(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, versions)
}

// GetVersion handles GET /api/v1/schemas/:id/versions/:version
// @Summary Get one version of a schema
// @Tags schemas
// @Produce json
// @Param id path string true "Schema ID"
// @Param version path string true "Version"
// @Success 200 {object} Response{data=domain.StoredSchema}
// @Failure 404 {object} ErrorResponseBody
// @Security BearerAuth
// @Router /schemas/{id}/versions/{version} [get]
func (h *SchemaHandler) GetVersion(c *gin.Context) {
	s, err := h.schemas.GetVersion(c.Request.Context(), c.Param("id"), c.Param("version"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, s)
}

// JSONSchema handles GET /api/v1/schemas/:id/jsonschema
// @Summary Export a schema as JSON Schema
// @Description Returns the raw JSON Schema document describing a valid extraction result.
// @Tags schemas
// @Produce json
// @Param id path string true "Schema ID"
// @Param version query string false "Version (defaults to latest)"
// @Success 200 {object} object
// @Failure 404 {object} ErrorResponseBody
// @Security BearerAuth
// @Router /schemas/{id}/jsonschema [get]
func (h *SchemaHandler) JSONSchema(c *gin.Context) {
	doc, err := h.schemas.JSONSchema(c.Request.Context(), c.Param("id"), c.Query("version"))
	if err != nil {
		HandleError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/schema+json", doc)
}

// Delete handles DELETE /api/v1/schemas/:id
// @Summary Soft-delete a schema
// @Tags schemas
// @Produce json
// @Param id path string true "Schema ID"
// @Success 200 {object} Response{data=MessageResponse}
// @Failure 404 {object} ErrorResponseBody
// @Security BearerAuth
// @Router /schemas/{id} [delete]
func (h *SchemaHandler) Delete(c *gin.Context) {
	if err := h.schemas.Delete(c.Request.Context(), c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "schema deactivated"})
}

// Restore handles POST /api/v1/schemas/:id/restore
// @Summary Restore a soft-deleted schema
// @Tags schemas
// @Produce json
// @Param id path string true "Schema ID"
// @Success 200 {object} Response{data=MessageResponse}
// @Failure 404 {object} ErrorResponseBody
// @Security BearerAuth
// @Router /schemas/{id}/restore [post]
func (h *SchemaHandler) Restore(c *gin.Context) {
	if err := h.schemas.Restore(c.Request.Context(), c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "schema restored"})
}
