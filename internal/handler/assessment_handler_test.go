package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docschema/internal/handler"
	"docschema/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const invoiceSchemaJSON = `{
	"id": "invoice",
	"name": "Invoice",
	"version": "1.0.0",
	"fields": {
		"invoice_number": {"type": "string", "required": true},
		"total": {"type": "decimal", "required": true},
		"notes": {"type": "text"}
	}
}`

func postJSON(t *testing.T, fn gin.HandlerFunc, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, target, bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	fn(c)

	var resp struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp.Data
}

func newAssessmentHandler() *handler.AssessmentHandler {
	return handler.NewAssessmentHandler(service.NewAssessmentService(nil))
}

func TestAssessmentHandler_ValidateSchema(t *testing.T) {
	h := newAssessmentHandler()

	w, data := postJSON(t, h.ValidateSchema, "/api/v1/assess/schema", invoiceSchemaJSON)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, data["is_valid"])

	w, data = postJSON(t, h.ValidateSchema, "/api/v1/assess/schema?strict=true", `{"id": "1bad", "name": "x", "fields": {}}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, data["is_valid"])
}

func TestAssessmentHandler_ValidateSchema_YAML(t *testing.T) {
	h := newAssessmentHandler()
	doc := "id: receipt\nname: Receipt\nfields:\n  amount:\n    type: number\n    required: true\n"

	w, data := postJSON(t, h.ValidateSchema, "/api/v1/assess/schema", doc)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, data["is_valid"])
}

func TestAssessmentHandler_ValidateSchema_EmptyBody(t *testing.T) {
	h := newAssessmentHandler()
	w, _ := postJSON(t, h.ValidateSchema, "/api/v1/assess/schema", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssessmentHandler_AssessField(t *testing.T) {
	h := newAssessmentHandler()
	body := `{
		"name": "email",
		"value": "ops@example.com",
		"field": {"type": "email", "required": true},
		"ai_metadata": {"model_confidence": 0.9, "model_type": "claude-sonnet"}
	}`

	w, data := postJSON(t, h.AssessField, "/api/v1/assess/field", body)
	assert.Equal(t, http.StatusOK, w.Code)
	score := data["score"].(float64)
	assert.Greater(t, score, 0.5)
	assert.LessOrEqual(t, score, 1.0)
	assert.Len(t, data["factors"], 6)
}

func TestAssessmentHandler_AssessField_MissingName(t *testing.T) {
	h := newAssessmentHandler()
	w, _ := postJSON(t, h.AssessField, "/api/v1/assess/field", `{"value": 1, "field": {"type": "number"}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssessmentHandler_AssessDocument(t *testing.T) {
	h := newAssessmentHandler()
	body := `{"result": {"invoice_number": "INV-9", "total": "150.00"}, "schema": ` + invoiceSchemaJSON + `}`

	w, data := postJSON(t, h.AssessDocument, "/api/v1/assess/document", body)
	assert.Equal(t, http.StatusOK, w.Code)

	fields := data["fields"].([]any)
	require.Len(t, fields, 3)
	assert.Equal(t, "invoice_number", fields[0].(map[string]any)["field"])
	assert.Equal(t, "notes", fields[2].(map[string]any)["field"])
	doc := data["document"].(map[string]any)
	assert.Equal(t, 1.0, doc["factors"].(map[string]any)["required_completion"])
}

func TestAssessmentHandler_CompareSchemas(t *testing.T) {
	h := newAssessmentHandler()
	newSchema := `{"id":"invoice","name":"Invoice","fields":{"invoice_number":{"type":"integer","required":true}}}`
	body := `{"new_schema": ` + newSchema + `, "old_schema": ` + invoiceSchemaJSON + `}`

	w, data := postJSON(t, h.CompareSchemas, "/api/v1/assess/compare", body)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, data["is_valid"])
	md := data["metadata"].(map[string]any)
	assert.ElementsMatch(t, []any{"total", "notes"}, md["removed_fields"])
	assert.Equal(t, 2.0, md["breaking_changes"])
}

func TestAssessmentHandler_ValidateExtraction(t *testing.T) {
	h := newAssessmentHandler()
	body := `{"result": {"total": "abc"}, "schema": ` + invoiceSchemaJSON + `}`

	w, data := postJSON(t, h.ValidateExtraction, "/api/v1/assess/extraction", body)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, data["passed"])
	assert.Len(t, data["errors"], 1)
	assert.Len(t, data["warnings"], 1)
}
