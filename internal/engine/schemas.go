package engine

import "github.com/google/jsonschema-go/jsonschema"

// Declared input schemas for the three MCP tools (spec §6 tool surface,
// §4.9 step 2 "JSON-Schema-like parameter contract"). These are exposed to
// MCP clients via the tools/list transport method; the actual enforcement
// happens in validate.go, which can report the richer parameter/value/
// suggestions detail the spec's ValidationError requires.
var (
	searchEndpointsSchema = &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"keywords":    {Type: "string", MaxLength: intPtr(500)},
			"httpMethods": {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
			"page":        {Type: "integer", Minimum: float64Ptr(1)},
			"perPage":     {Type: "integer", Minimum: float64Ptr(1), Maximum: float64Ptr(50)},
		},
		Required: []string{"keywords"},
	}

	getSchemaSchema = &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"componentName":      {Type: "string", MaxLength: intPtr(255)},
			"resolveDependencies": {Type: "boolean"},
			"maxDepth":            {Type: "integer", Minimum: float64Ptr(1), Maximum: float64Ptr(10)},
			"includeExamples":     {Type: "boolean"},
			"includeExtensions":   {Type: "boolean"},
		},
		Required: []string{"componentName"},
	}

	getExampleSchema = &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"endpoint":    {Type: "string"},
			"format":      {Type: "string", Enum: []any{"curl", "javascript", "python"}},
			"method":      {Type: "string"},
			"includeAuth": {Type: "boolean"},
			"baseUrl":     {Type: "string"},
		},
		Required: []string{"endpoint", "format"},
	}
)

// ToolSchemas maps each tool name to its declared input schema, for
// mcpwire's tools/list response.
func ToolSchemas() map[string]*jsonschema.Schema {
	return map[string]*jsonschema.Schema{
		ToolSearchEndpoints: searchEndpointsSchema,
		ToolGetSchema:       getSchemaSchema,
		ToolGetExample:      getExampleSchema,
	}
}

func intPtr(n int) *int             { return &n }
func float64Ptr(f float64) *float64 { return &f }
