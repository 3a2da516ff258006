package parser

import (
	"fmt"
	"strings"

	"docschema/internal/domain"
	"docschema/internal/schema"
)

// BuildPrompt returns the extraction prompt for documents described by def.
// The prompt embeds the JSON Schema rendering of def as the response contract.
func BuildPrompt(def *domain.SchemaDefinition) (string, error) {
	if def == nil {
		return "", fmt.Errorf("parser.BuildPrompt: schema is required")
	}
	jsonSchema, err := schema.JSONSchemaDocument(def)
	if err != nil {
		return "", fmt.Errorf("parser.BuildPrompt: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a document data extraction assistant. Analyze the provided %s document and extract the fields listed below.\n\n", documentLabel(def))

	b.WriteString("IMPORTANT INSTRUCTIONS:\n")
	b.WriteString("- Extract only what is printed in the document. Do not guess or invent values.\n")
	b.WriteString("- If a field is not present in the document, use null.\n")
	b.WriteString("- Normalize dates to YYYY-MM-DD and numbers to plain JSON numbers without currency symbols or thousands separators.\n")
	b.WriteString("- The document may span multiple pages. Read every page before answering.\n\n")

	b.WriteString("FIELDS:\n")
	for _, name := range def.Fields.Names() {
		fd, _ := def.Fields.Get(name)
		fmt.Fprintf(&b, "- %s (%s", name, fd.Type)
		if fd.Required {
			b.WriteString(", required")
		}
		b.WriteString(")")
		if fd.DisplayName != "" && fd.DisplayName != name {
			fmt.Fprintf(&b, " %q", fd.DisplayName)
		}
		if fd.Description != "" {
			fmt.Fprintf(&b, ": %s", fd.Description)
		}
		if len(fd.Examples) > 0 {
			fmt.Fprintf(&b, " Examples: %s.", strings.Join(fd.Examples, ", "))
		}
		b.WriteString("\n")
	}

	b.WriteString("\nReturn ONLY valid JSON with no markdown formatting, no code fences and no explanation.\n\n")
	b.WriteString("Return three top-level keys: \"data\", \"confidence_scores\" and \"overall_confidence\".\n\n")
	b.WriteString("The \"data\" object must conform to this JSON Schema:\n")
	b.Write(jsonSchema)
	b.WriteString("\n\n")
	b.WriteString("The \"confidence_scores\" object maps each field name to a float between 0.0 and 1.0 indicating your confidence in that field. Use 0.0 for fields not found in the document.\n")
	b.WriteString("\"overall_confidence\" is a float between 0.0 and 1.0 for the extraction as a whole.")

	return b.String(), nil
}

func documentLabel(def *domain.SchemaDefinition) string {
	if def.Name != "" {
		return def.Name
	}
	return "business"
}
