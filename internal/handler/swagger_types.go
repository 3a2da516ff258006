package handler

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Request Types ---

// SchemaDocument is a schema definition as posted to the API. YAML bodies
// are accepted as well.
type SchemaDocument struct {
	ID          string                 `json:"id" example:"invoice"`
	Name        string                 `json:"name" example:"Supplier Invoice"`
	Description string                 `json:"description" example:"Invoices received from suppliers"`
	Category    string                 `json:"category" example:"Finance"`
	Version     string                 `json:"version" example:"1.0.0"`
	Fields      map[string]interface{} `json:"fields"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// --- Response Types ---

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"database not reachable"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message" example:"operation completed successfully"`
}

// SourceURLResponse carries a presigned link to an archived document.
type SourceURLResponse struct {
	DownloadURL string `json:"download_url" example:"https://s3.amazonaws.com/docschema-documents/...?X-Amz-Signature=..."`
}

// --- Generic Response Wrappers ---

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
