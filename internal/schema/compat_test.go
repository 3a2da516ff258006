package schema_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docschema/internal/domain"
	"docschema/internal/schema"
)

func mustDecode(t *testing.T, doc string) *domain.SchemaDefinition {
	t.Helper()
	var def domain.SchemaDefinition
	require.NoError(t, json.Unmarshal([]byte(doc), &def))
	return &def
}

func TestCompare_TypeChange(t *testing.T) {
	newer := mustDecode(t, `{"fields":{"a":{"type":"string","required":true}}}`)
	older := mustDecode(t, `{"fields":{"a":{"type":"number","required":true}}}`)

	res := schema.NewCompatibilityChecker().Compare(newer, older)

	assert.False(t, res.IsValid)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "type changed from 'number' to 'string'")
	assert.Equal(t, 1, res.Metadata.BreakingChanges)
	assert.Equal(t, []string{"a"}, res.Metadata.CommonFields)
	require.Len(t, res.Changes, 1)
	assert.Equal(t, domain.ChangeTypeChanged, res.Changes[0].Kind)
	assert.True(t, res.Changes[0].Breaking)
}

func TestCompare_AllChangeKinds(t *testing.T) {
	older := mustDecode(t, `{"fields":{
		"gone_required":{"type":"string","required":true},
		"gone_optional":{"type":"string"},
		"now_required":{"type":"string"},
		"now_optional":{"type":"string","required":true},
		"same":{"type":"string"}
	}}`)
	newer := mustDecode(t, `{"fields":{
		"now_required":{"type":"string","required":true},
		"now_optional":{"type":"string"},
		"same":{"type":"string"},
		"added_required":{"type":"number","required":true},
		"added_optional":{"type":"number"}
	}}`)

	res := schema.NewCompatibilityChecker().Compare(newer, older)

	assert.Equal(t, []string{"gone_required", "gone_optional"}, res.Metadata.RemovedFields)
	assert.Equal(t, []string{"added_required", "added_optional"}, res.Metadata.NewFields)
	assert.Equal(t, []string{"now_required", "now_optional", "same"}, res.Metadata.CommonFields)

	assert.ElementsMatch(t, []string{
		"Required field 'gone_required' was removed",
		"Field 'now_required' changed from optional to required",
		"New required field 'added_required' was added",
	}, res.Errors)
	assert.ElementsMatch(t, []string{
		"Optional field 'gone_optional' was removed",
		"Field 'now_optional' changed from required to optional",
		"New optional field 'added_optional' was added",
	}, res.Warnings)
	assert.Equal(t, 3, res.Metadata.BreakingChanges)

	breaking := 0
	for _, c := range res.Changes {
		if c.Breaking {
			breaking++
			assert.Equal(t, domain.SeverityError, c.Severity)
		}
	}
	assert.Equal(t, res.Metadata.BreakingChanges, breaking)
}

func TestCompare_UITypeAliasIsNotAChange(t *testing.T) {
	newer := mustDecode(t, `{"fields":{"status":{"type":"select"}}}`)
	older := mustDecode(t, `{"fields":{"status":{"type":"string"}}}`)

	res := schema.NewCompatibilityChecker().Compare(newer, older)

	assert.True(t, res.IsValid)
	assert.Empty(t, res.Changes)
}

func TestCompare_SelfIsCompatible(t *testing.T) {
	doc := []byte(`{"id":"inv","name":"Invoice","fields":{
		"number":{"type":"string","required":true},
		"total":{"type":"number","required":true,"validation_rules":[{"type":"range","min":0,"message":"positive"}]},
		"notes":{"type":"text"}
	}}`)
	structure := newValidator().ValidateJSON(doc, false)
	require.Empty(t, structure.Errors)

	def := mustDecode(t, string(doc))
	res := schema.NewCompatibilityChecker().Compare(def, def)

	assert.True(t, res.IsValid)
	assert.Empty(t, res.Metadata.RemovedFields)
	assert.Empty(t, res.Metadata.NewFields)
	assert.Equal(t, 0, res.Metadata.BreakingChanges)
	assert.Len(t, res.Metadata.CommonFields, 3)
}

func TestCompare_NilSchemas(t *testing.T) {
	def := mustDecode(t, `{"fields":{"a":{"type":"string","required":true}}}`)

	res := schema.NewCompatibilityChecker().Compare(def, nil)

	assert.Equal(t, []string{"a"}, res.Metadata.NewFields)
	assert.Equal(t, 1, res.Metadata.BreakingChanges)
}
