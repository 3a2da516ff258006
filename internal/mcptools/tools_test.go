package mcptools_test

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docschema/internal/domain"
	"docschema/internal/mcptools"
	"docschema/internal/service"
)

const invoiceYAML = `id: invoice
name: Invoice
version: 1.0.0
fields:
  invoice_number:
    type: string
    required: true
  total:
    type: decimal
    required: true
  notes:
    type: text
`

const invoiceV2JSON = `{"id":"invoice","name":"Invoice","version":"2.0.0","fields":{
	"invoice_number":{"type":"string","required":true},
	"total":{"type":"decimal","required":true},
	"currency":{"type":"string","required":true}
}}`

func newTools() *mcptools.Tools {
	return mcptools.New(service.NewAssessmentService(nil))
}

func TestValidateSchema(t *testing.T) {
	ctx := context.Background()
	req := &mcp.CallToolRequest{}
	tools := newTools()

	tests := []struct {
		name           string
		input          mcptools.InputValidateSchema
		wantErr        bool
		errContains    string
		validateOutput func(t *testing.T, output *domain.StructureResult)
	}{
		{
			name:        "empty schema returns error",
			input:       mcptools.InputValidateSchema{},
			wantErr:     true,
			errContains: "schema is required",
		},
		{
			name:  "yaml schema is valid",
			input: mcptools.InputValidateSchema{Schema: invoiceYAML},
			validateOutput: func(t *testing.T, output *domain.StructureResult) {
				assert.True(t, output.IsValid)
				assert.Equal(t, 3, output.Metadata.TotalFields)
				assert.Equal(t, 2, output.Metadata.RequiredFields)
			},
		},
		{
			name:  "unparseable document is reported as invalid",
			input: mcptools.InputValidateSchema{Schema: "{not json"},
			validateOutput: func(t *testing.T, output *domain.StructureResult) {
				assert.False(t, output.IsValid)
				assert.NotEmpty(t, output.Errors)
			},
		},
		{
			name:  "strict mode adds warnings",
			input: mcptools.InputValidateSchema{Schema: invoiceYAML, Strict: true},
			validateOutput: func(t *testing.T, output *domain.StructureResult) {
				assert.True(t, output.IsValid)
				assert.NotEmpty(t, output.Warnings)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, output, err := tools.ValidateSchema(ctx, req, tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			tt.validateOutput(t, output)
		})
	}
}

func TestAssessField(t *testing.T) {
	tools := newTools()
	conf := 0.95

	_, score, err := tools.AssessField(context.Background(), &mcp.CallToolRequest{}, mcptools.InputAssessField{
		Name:       "total",
		Value:      "1250.50",
		Field:      domain.FieldDefinition{Type: domain.FieldTypeDecimal, Required: true},
		AIMetadata: &domain.AIMetadata{ModelConfidence: &conf, ModelType: "gpt-4o"},
	})
	require.NoError(t, err)
	assert.Greater(t, score.Score, 0.0)
	assert.LessOrEqual(t, score.Score, 1.0)
	assert.Equal(t, domain.LevelFor(score.Score), score.Level)

	_, _, err = tools.AssessField(context.Background(), &mcp.CallToolRequest{}, mcptools.InputAssessField{})
	assert.EqualError(t, err, "name is required")
}

func TestAssessDocument(t *testing.T) {
	tools := newTools()

	_, out, err := tools.AssessDocument(context.Background(), &mcp.CallToolRequest{}, mcptools.InputAssessDocument{
		Result: map[string]any{"invoice_number": "INV-1", "total": 99.5},
		Schema: invoiceYAML,
	})
	require.NoError(t, err)
	require.Len(t, out.Fields, 3)
	assert.Equal(t, []string{"invoice_number", "total", "notes"},
		[]string{out.Fields[0].Field, out.Fields[1].Field, out.Fields[2].Field})
	assert.Equal(t, 1.0, out.Document.Factors[domain.FactorRequiredCompletion])

	_, _, err = tools.AssessDocument(context.Background(), &mcp.CallToolRequest{}, mcptools.InputAssessDocument{})
	assert.EqualError(t, err, "schema is required")
}

func TestCompareSchemas(t *testing.T) {
	tools := newTools()

	_, out, err := tools.CompareSchemas(context.Background(), &mcp.CallToolRequest{}, mcptools.InputCompareSchemas{
		NewSchema: invoiceV2JSON,
		OldSchema: invoiceYAML,
	})
	require.NoError(t, err)
	assert.False(t, out.IsValid)
	assert.Equal(t, []string{"notes"}, out.Metadata.RemovedFields)
	assert.Equal(t, []string{"currency"}, out.Metadata.NewFields)
	assert.Equal(t, 1, out.Metadata.BreakingChanges)

	_, _, err = tools.CompareSchemas(context.Background(), &mcp.CallToolRequest{}, mcptools.InputCompareSchemas{NewSchema: invoiceV2JSON})
	assert.EqualError(t, err, "old_schema is required")
}

func TestValidateExtraction(t *testing.T) {
	tools := newTools()

	_, check, err := tools.ValidateExtraction(context.Background(), &mcp.CallToolRequest{}, mcptools.InputValidateExtraction{
		Result: map[string]any{"invoice_number": "INV-1"},
		Schema: invoiceYAML,
	})
	require.NoError(t, err)
	assert.False(t, check.Passed)
	assert.Equal(t, []string{"Required field 'total' is missing"}, check.Errors)
}

func TestServer_ListsTools(t *testing.T) {
	ctx := context.Background()
	server := mcptools.NewServer(service.NewAssessmentService(nil), "test")

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer serverSession.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close()

	res, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"validate_schema", "assess_field", "assess_document", "compare_schemas", "validate_extraction",
	}, names)

	call, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "validate_extraction",
		Arguments: map[string]any{"result": map[string]any{"invoice_number": "A", "total": "10"}, "schema": invoiceYAML},
	})
	require.NoError(t, err)
	assert.False(t, call.IsError)
	assert.NotNil(t, call.StructuredContent)
}
