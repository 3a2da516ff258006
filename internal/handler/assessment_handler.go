package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"docschema/internal/schema"
	"docschema/internal/service"
)

// maxSchemaBody caps schema documents posted to the API.
const maxSchemaBody = 2 << 20

// AssessmentHandler exposes the validation and scoring engine.
type AssessmentHandler struct {
	assess service.AssessmentService
}

// NewAssessmentHandler creates a new AssessmentHandler.
func NewAssessmentHandler(assess service.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{assess: assess}
}

// ValidateSchema handles POST /api/v1/assess/schema
// @Summary Validate a schema definition
// @Description Checks a JSON or YAML schema document for structural problems. Invalid schemas still return 200; see is_valid.
// @Tags assess
// @Accept json
// @Produce json
// @Param strict query bool false "Enable strict checks"
// @Param body body SchemaDocument true "Schema document"
// @Success 200 {object} Response{data=domain.StructureResult}
// @Failure 400 {object} ErrorResponseBody
// @Security BearerAuth
// @Router /assess/schema [post]
func (h *AssessmentHandler) ValidateSchema(c *gin.Context) {
	raw, ok := readBody(c)
	if !ok {
		return
	}
	strict, _ := strconv.ParseBool(c.DefaultQuery("strict", "false"))
	if doc, err := schema.ToJSON(raw); err == nil {
		raw = doc
	}
	RespondOK(c, h.assess.ValidateSchema(raw, strict))
}

// AssessField handles POST /api/v1/assess/field
// @Summary Score one extracted value
// @Tags assess
// @Accept json
// @Produce json
// @Param body body service.AssessFieldInput true "Field, value and model metadata"
// @Success 200 {object} Response{data=domain.ConfidenceScore}
// @Failure 400 {object} ErrorResponseBody
// @Security BearerAuth
// @Router /assess/field [post]
func (h *AssessmentHandler) AssessField(c *gin.Context) {
	var input service.AssessFieldInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	RespondOK(c, h.assess.AssessField(&input))
}

// AssessDocument handles POST /api/v1/assess/document
// @Summary Score an extraction result
// @Description Returns the document score and a per-field breakdown in schema order.
// @Tags assess
// @Accept json
// @Produce json
// @Param body body service.AssessDocumentInput true "Result, schema and model metadata"
// @Success 200 {object} Response{data=domain.DocumentAssessment}
// @Failure 400 {object} ErrorResponseBody
// @Security BearerAuth
// @Router /assess/document [post]
func (h *AssessmentHandler) AssessDocument(c *gin.Context) {
	var input service.AssessDocumentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if input.Result == nil {
		input.Result = map[string]any{}
	}
	RespondOK(c, h.assess.AssessDocument(&input))
}

// CompareSchemas handles POST /api/v1/assess/compare
// @Summary Compare two schema versions
// @Tags assess
// @Accept json
// @Produce json
// @Param body body service.CompareSchemasInput true "New and old schema"
// @Success 200 {object} Response{data=domain.CompatibilityResult}
// @Failure 400 {object} ErrorResponseBody
// @Security BearerAuth
// @Router /assess/compare [post]
func (h *AssessmentHandler) CompareSchemas(c *gin.Context) {
	var input service.CompareSchemasInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	RespondOK(c, h.assess.CompareSchemas(&input.New, &input.Old))
}

// ValidateExtraction handles POST /api/v1/assess/extraction
// @Summary Check an extraction result against a schema
// @Tags assess
// @Accept json
// @Produce json
// @Param body body service.ValidateExtractionInput true "Result and schema"
// @Success 200 {object} Response{data=domain.ExtractionCheck}
// @Failure 400 {object} ErrorResponseBody
// @Security BearerAuth
// @Router /assess/extraction [post]
func (h *AssessmentHandler) ValidateExtraction(c *gin.Context) {
	var input service.ValidateExtractionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	RespondOK(c, h.assess.ValidateExtraction(input.Result, &input.Schema))
}

// readBody reads a bounded request body. It writes the error response and
// returns false on failure.
func readBody(c *gin.Context) ([]byte, bool) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxSchemaBody+1))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "could not read request body")
		return nil, false
	}
	if len(raw) > maxSchemaBody {
		RespondError(c, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", "request body exceeds 2MB")
		return nil, false
	}
	if len(raw) == 0 {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "request body is empty")
		return nil, false
	}
	return raw, true
}
