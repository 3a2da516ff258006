package handler

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"docschema/internal/domain"
	"docschema/internal/report"
	"docschema/internal/service"
)

// ExtractionHandler handles document extraction endpoints.
type ExtractionHandler struct {
	extractions service.ExtractionService
	maxUpload   int64
}

// NewExtractionHandler creates a new ExtractionHandler. maxUpload is the
// largest accepted file in bytes.
func NewExtractionHandler(extractions service.ExtractionService, maxUpload int64) *ExtractionHandler {
	return &ExtractionHandler{extractions: extractions, maxUpload: maxUpload}
}

// Create handles POST /api/v1/extractions
// @Summary Extract a document
// @Description Archives the document, runs it through the configured parser and scores the result against the schema.
// @Tags extractions
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document (PDF, JPG or PNG)"
// @Param schema_id formData string true "Schema ID"
// @Param version formData string false "Schema version (defaults to latest)"
// @Success 201 {object} Response{data=domain.Extraction}
// @Failure 400 {object} ErrorResponseBody "Missing file or unsupported type"
// @Failure 404 {object} ErrorResponseBody "Schema not found"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 429 {object} ErrorResponseBody "Too many concurrent extractions"
// @Failure 502 {object} ErrorResponseBody "Parser failed"
// @Security BearerAuth
// @Router /extractions [post]
func (h *ExtractionHandler) Create(c *gin.Context) {
	schemaID := c.PostForm("schema_id")
	if schemaID == "" {
		RespondError(c, http.StatusBadRequest, "MISSING_SCHEMA", "schema_id is required")
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file is required")
		return
	}
	if header.Size > h.maxUpload {
		HandleError(c, domain.ErrFileTooLarge)
		return
	}

	file, err := header.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FILE", "could not read uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUpload+1))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FILE", "could not read uploaded file")
		return
	}

	rec, err := h.extractions.Extract(c.Request.Context(), &service.ExtractInput{
		SchemaID:    schemaID,
		Version:     c.PostForm("version"),
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Bytes:       data,
		Actor:       actor(c),
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, rec)
}

// List handles GET /api/v1/extractions
// @Summary List extractions
// @Tags extractions
// @Produce json
// @Param schema_id query string false "Filter by schema"
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit" default(20)
// @Success 200 {object} Response{data=[]domain.Extraction,meta=PagMeta}
// @Security BearerAuth
// @Router /extractions [get]
func (h *ExtractionHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)
	items, total, err := h.extractions.List(c.Request.Context(), c.Query("schema_id"), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, items, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Get handles GET /api/v1/extractions/:id
// @Summary Get an extraction
// @Tags extractions
// @Produce json
// @Param id path string true "Extraction ID"
// @Success 200 {object} Response{data=domain.Extraction}
// @Failure 400 {object} ErrorResponseBody
// @Failure 404 {object} ErrorResponseBody
// @Security BearerAuth
// @Router /extractions/{id} [get]
func (h *ExtractionHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	rec, err := h.extractions.Get(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, rec)
}

// Source handles GET /api/v1/extractions/:id/source
// @Summary Get a download link for the source document
// @Tags extractions
// @Produce json
// @Param id path string true "Extraction ID"
// @Success 200 {object} Response{data=SourceURLResponse}
// @Failure 404 {object} ErrorResponseBody
// @Security BearerAuth
// @Router /extractions/{id}/source [get]
func (h *ExtractionHandler) Source(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	url, err := h.extractions.SourceURL(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, SourceURLResponse{DownloadURL: url})
}

// Report handles GET /api/v1/extractions/:id/report
// @Summary Download a per-field confidence report
// @Tags extractions
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Extraction ID"
// @Param format query string false "csv or xlsx" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponseBody
// @Failure 404 {object} ErrorResponseBody
// @Security BearerAuth
// @Router /extractions/{id}/report [get]
func (h *ExtractionHandler) Report(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		RespondError(c, http.StatusBadRequest, "INVALID_FORMAT", "format must be csv or xlsx")
		return
	}

	r, err := h.extractions.Report(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	var (
		buf         bytes.Buffer
		contentType string
	)
	switch format {
	case "xlsx":
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		err = report.WriteXLSX(&buf, r)
	default:
		contentType = "text/csv; charset=utf-8"
		err = report.WriteCSV(&buf, r)
	}
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := report.BuildFilename(r.SchemaID+"_"+r.ExtractionID.String()[:8], format)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid extraction ID")
		return uuid.Nil, false
	}
	return id, true
}
