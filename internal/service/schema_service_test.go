package service_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docschema/internal/config"
	"docschema/internal/domain"
	"docschema/internal/service"
	"docschema/mocks"
)

const invoiceV1 = `{
	"id": "invoice",
	"name": "Invoice",
	"description": "Supplier invoice",
	"version": "1.0.0",
	"fields": {
		"invoice_number": {"type": "string", "required": true, "description": "Invoice identifier"},
		"total": {"type": "decimal", "required": true, "description": "Grand total"}
	}
}`

func storedSchema(t *testing.T, raw string, active bool) *domain.StoredSchema {
	t.Helper()
	var def domain.SchemaDefinition
	require.NoError(t, json.Unmarshal([]byte(raw), &def))
	body, err := json.Marshal(&def)
	require.NoError(t, err)
	return &domain.StoredSchema{
		SchemaID:   def.ID,
		Version:    def.Version,
		Name:       def.Name,
		Definition: body,
		IsActive:   active,
	}
}

func newSchemaService(repo *mocks.MockSchemaRepo, cfg config.ExtractionConfig) service.SchemaService {
	return service.NewSchemaService(repo, service.NewAssessmentService(nil), &cfg, nil)
}

func TestSchemaService_Save_New(t *testing.T) {
	repo := new(mocks.MockSchemaRepo)
	svc := newSchemaService(repo, config.ExtractionConfig{})

	repo.On("GetLatest", mock.Anything, "invoice").Return(nil, domain.ErrSchemaNotFound)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.StoredSchema")).Return(nil)

	res, err := svc.Save(context.Background(), []byte(invoiceV1), "alice")
	require.NoError(t, err)
	require.NotNil(t, res.Schema)
	assert.True(t, res.Structure.IsValid)
	assert.Nil(t, res.Compatibility)
	assert.Equal(t, "invoice", res.Schema.SchemaID)
	assert.Equal(t, "1.0.0", res.Schema.Version)
	assert.Equal(t, domain.DefaultCategory, res.Schema.Category)
	assert.Equal(t, "alice", res.Schema.CreatedBy)
	assert.True(t, res.Schema.IsActive)

	def, err := res.Schema.Decode()
	require.NoError(t, err)
	assert.Equal(t, []string{"invoice_number", "total"}, def.Fields.Names())
	repo.AssertExpectations(t)
}

func TestSchemaService_Save_YAML(t *testing.T) {
	repo := new(mocks.MockSchemaRepo)
	svc := newSchemaService(repo, config.ExtractionConfig{})

	repo.On("GetLatest", mock.Anything, "receipt").Return(nil, domain.ErrSchemaNotFound)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.StoredSchema")).Return(nil)

	doc := `
id: receipt
name: Receipt
fields:
  merchant:
    type: string
    required: true
  amount:
    type: number
`
	res, err := svc.Save(context.Background(), []byte(doc), "bob")
	require.NoError(t, err)
	assert.Equal(t, service.DefaultSchemaVersion, res.Schema.Version)

	def, err := res.Schema.Decode()
	require.NoError(t, err)
	assert.Equal(t, []string{"merchant", "amount"}, def.Fields.Names())
}

func TestSchemaService_Save_Invalid(t *testing.T) {
	repo := new(mocks.MockSchemaRepo)
	svc := newSchemaService(repo, config.ExtractionConfig{})

	res, err := svc.Save(context.Background(), []byte(`{"id":"invoice","fields":{}}`), "alice")
	assert.ErrorIs(t, err, domain.ErrSchemaInvalid)
	require.NotNil(t, res)
	assert.False(t, res.Structure.IsValid)
	assert.Nil(t, res.Schema)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSchemaService_Save_BreakingChangeRejected(t *testing.T) {
	repo := new(mocks.MockSchemaRepo)
	svc := newSchemaService(repo, config.ExtractionConfig{})

	repo.On("GetLatest", mock.Anything, "invoice").Return(storedSchema(t, invoiceV1, true), nil)

	v2 := `{"id":"invoice","name":"Invoice","version":"2.0.0","fields":{
		"invoice_number": {"type": "string", "required": true},
		"total": {"type": "decimal", "required": true},
		"currency": {"type": "string", "required": true}
	}}`
	res, err := svc.Save(context.Background(), []byte(v2), "alice")
	assert.ErrorIs(t, err, domain.ErrIncompatibleSchema)
	require.NotNil(t, res.Compatibility)
	assert.Equal(t, 1, res.Compatibility.Metadata.BreakingChanges)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSchemaService_Save_BreakingChangeAllowed(t *testing.T) {
	repo := new(mocks.MockSchemaRepo)
	svc := newSchemaService(repo, config.ExtractionConfig{AllowBreakingChanges: true})

	repo.On("GetLatest", mock.Anything, "invoice").Return(storedSchema(t, invoiceV1, true), nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.StoredSchema")).Return(nil)

	v2 := `{"id":"invoice","name":"Invoice","version":"2.0.0","fields":{
		"invoice_number": {"type": "string", "required": true}
	}}`
	res, err := svc.Save(context.Background(), []byte(v2), "alice")
	require.NoError(t, err)
	require.NotNil(t, res.Compatibility)
	assert.Equal(t, []string{"total"}, res.Compatibility.Metadata.RemovedFields)
	assert.Equal(t, "2.0.0", res.Schema.Version)
}

func TestSchemaService_Save_SameVersionSkipsCompatibility(t *testing.T) {
	repo := new(mocks.MockSchemaRepo)
	svc := newSchemaService(repo, config.ExtractionConfig{})

	repo.On("GetLatest", mock.Anything, "invoice").Return(storedSchema(t, invoiceV1, true), nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.StoredSchema")).Return(nil)

	overwrite := `{"id":"invoice","name":"Invoice","version":"1.0.0","fields":{
		"invoice_number": {"type": "integer", "required": true}
	}}`
	res, err := svc.Save(context.Background(), []byte(overwrite), "alice")
	require.NoError(t, err)
	assert.Nil(t, res.Compatibility)
}

func TestSchemaService_Save_Inactive(t *testing.T) {
	repo := new(mocks.MockSchemaRepo)
	svc := newSchemaService(repo, config.ExtractionConfig{})

	repo.On("GetLatest", mock.Anything, "invoice").Return(storedSchema(t, invoiceV1, false), nil)

	_, err := svc.Save(context.Background(), []byte(invoiceV1), "alice")
	assert.ErrorIs(t, err, domain.ErrSchemaInactive)
}

func TestSchemaService_Save_StrictWarnings(t *testing.T) {
	repo := new(mocks.MockSchemaRepo)
	svc := newSchemaService(repo, config.ExtractionConfig{StrictSchemas: true})

	repo.On("GetLatest", mock.Anything, "notes").Return(nil, domain.ErrSchemaNotFound)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.StoredSchema")).Return(nil)

	res, err := svc.Save(context.Background(),
		[]byte(`{"id":"notes","name":"Notes","fields":{"body":{"type":"text"}}}`), "alice")
	require.NoError(t, err)
	assert.Contains(t, res.Structure.Warnings, "Schema has no required fields")
}

func TestSchemaService_DeleteRestore(t *testing.T) {
	repo := new(mocks.MockSchemaRepo)
	svc := newSchemaService(repo, config.ExtractionConfig{})

	repo.On("SetActive", mock.Anything, "invoice", false).Return(nil)
	repo.On("SetActive", mock.Anything, "invoice", true).Return(nil)
	repo.On("SetActive", mock.Anything, "missing", false).Return(domain.ErrSchemaNotFound)

	require.NoError(t, svc.Delete(context.Background(), "invoice"))
	require.NoError(t, svc.Restore(context.Background(), "invoice"))
	assert.ErrorIs(t, svc.Delete(context.Background(), "missing"), domain.ErrSchemaNotFound)
	repo.AssertExpectations(t)
}

func TestSchemaService_JSONSchema(t *testing.T) {
	repo := new(mocks.MockSchemaRepo)
	svc := newSchemaService(repo, config.ExtractionConfig{})

	repo.On("GetLatest", mock.Anything, "invoice").Return(storedSchema(t, invoiceV1, true), nil)
	repo.On("GetVersion", mock.Anything, "invoice", "9.9.9").Return(nil, domain.ErrSchemaNotFound)

	doc, err := svc.JSONSchema(context.Background(), "invoice", "")
	require.NoError(t, err)

	var js map[string]any
	require.NoError(t, json.Unmarshal(doc, &js))
	assert.Equal(t, "object", js["type"])
	assert.ElementsMatch(t, []any{"invoice_number", "total"}, js["required"])

	_, err = svc.JSONSchema(context.Background(), "invoice", "9.9.9")
	assert.ErrorIs(t, err, domain.ErrSchemaNotFound)
}
