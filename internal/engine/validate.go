package engine

import (
	"strings"

	"openapi-mcp-navigator/internal/apperrors"
	"openapi-mcp-navigator/internal/codegen"
	"openapi-mcp-navigator/internal/query/suggest"
	"openapi-mcp-navigator/internal/resolver"
	"openapi-mcp-navigator/internal/results"
)

var knownMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "PATCH": true, "DELETE": true, "HEAD": true, "OPTIONS": true,
}

var knownFormats = []string{string(codegen.Curl), string(codegen.JavaScript), string(codegen.Python)}

func getString(args map[string]interface{}, key string) (string, bool) {
	v, ok := args[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func getBool(args map[string]interface{}, key string, fallback bool) bool {
	v, ok := args[key]
	if !ok {
		return fallback
	}
	b, ok := v.(bool)
	if !ok {
		return fallback
	}
	return b
}

func getInt(args map[string]interface{}, key string, fallback int) (int, bool) {
	v, ok := args[key]
	if !ok {
		return fallback, true
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

func getStringSlice(args map[string]interface{}, key string) ([]string, bool) {
	v, ok := args[key]
	if !ok {
		return nil, true
	}
	raw, ok := v.([]interface{})
	if !ok {
		if ss, ok := v.([]string); ok {
			return ss, true
		}
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// validateSearchEndpoints enforces spec §4.9 step 2's searchEndpoints
// contract and shapes a results.SearchRequest.
func validateSearchEndpoints(args map[string]interface{}) (results.SearchRequest, *apperrors.Error) {
	keywords, ok := getString(args, "keywords")
	if !ok || strings.TrimSpace(keywords) == "" {
		return results.SearchRequest{}, apperrors.Validation("keywords", args["keywords"], "must be a non-empty string", nil)
	}
	if len(keywords) > 500 {
		return results.SearchRequest{}, apperrors.Validation("keywords", keywords, "must be at most 500 characters", nil)
	}

	methods, ok := getStringSlice(args, "httpMethods")
	if !ok {
		return results.SearchRequest{}, apperrors.Validation("httpMethods", args["httpMethods"], "must be an array of strings", nil)
	}
	for _, m := range methods {
		if !knownMethods[strings.ToUpper(m)] {
			return results.SearchRequest{}, apperrors.Validation("httpMethods", m, "not a known HTTP method", knownMethodNames())
		}
	}

	page, ok := getInt(args, "page", 1)
	if !ok || page < 1 {
		return results.SearchRequest{}, apperrors.Validation("page", args["page"], "must be an integer >= 1", nil)
	}

	perPage, ok := getInt(args, "perPage", 20)
	if !ok || perPage < 1 || perPage > 50 {
		return results.SearchRequest{}, apperrors.Validation("perPage", args["perPage"], "must be an integer between 1 and 50", nil)
	}

	return results.SearchRequest{
		Query: keywords,
		Filters: results.Filters{
			Methods: upperAll(methods),
		},
		Pagination: results.Pagination{Page: page, PerPage: perPage},
	}, nil
}

func knownMethodNames() []string {
	return []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
}

func upperAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.ToUpper(s)
	}
	return out
}

// getSchemaParams is the validated, normalized argument set for getSchema.
type getSchemaParams struct {
	ComponentName       string
	ResolveDependencies bool
	Opts                resolver.Options
}

func validateGetSchema(args map[string]interface{}) (getSchemaParams, *apperrors.Error) {
	name, ok := getString(args, "componentName")
	if !ok || strings.TrimSpace(name) == "" {
		return getSchemaParams{}, apperrors.Validation("componentName", args["componentName"], "must be a non-empty string", nil)
	}
	if len(name) > 255 {
		return getSchemaParams{}, apperrors.Validation("componentName", name, "must be at most 255 characters", nil)
	}

	maxDepth, ok := getInt(args, "maxDepth", 5)
	if !ok || maxDepth < 1 || maxDepth > 10 {
		return getSchemaParams{}, apperrors.Validation("maxDepth", args["maxDepth"], "must be an integer between 1 and 10", nil)
	}

	return getSchemaParams{
		ComponentName:       name,
		ResolveDependencies: getBool(args, "resolveDependencies", true),
		Opts: resolver.Options{
			MaxDepth:          maxDepth,
			IncludeExamples:   getBool(args, "includeExamples", true),
			IncludeExtensions: getBool(args, "includeExtensions", true),
		},
	}, nil
}

// getExampleParams is the validated, normalized argument set for getExample.
type getExampleParams struct {
	Endpoint string
	Method   string
	Opts     codegen.Options
}

func validateGetExample(args map[string]interface{}) (getExampleParams, *apperrors.Error) {
	endpoint, ok := getString(args, "endpoint")
	if !ok || strings.TrimSpace(endpoint) == "" {
		return getExampleParams{}, apperrors.Validation("endpoint", args["endpoint"], "must be a non-empty string", nil)
	}

	format, ok := getString(args, "format")
	if !ok || !containsFold(knownFormats, format) {
		return getExampleParams{}, apperrors.Validation("format", args["format"], "must be one of curl, javascript, python", knownFormats)
	}

	method, _ := getString(args, "method")
	if strings.HasPrefix(endpoint, "/") && strings.TrimSpace(method) == "" {
		return getExampleParams{}, apperrors.Validation("method", method, "required when endpoint is a path", knownMethodNames())
	}

	baseURL, _ := getString(args, "baseUrl")

	return getExampleParams{
		Endpoint: endpoint,
		Method:   strings.ToUpper(method),
		Opts: codegen.Options{
			Format:      codegen.Format(strings.ToLower(format)),
			BaseURL:     baseURL,
			IncludeAuth: getBool(args, "includeAuth", true),
		},
	}, nil
}

func containsFold(ss []string, v string) bool {
	for _, s := range ss {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

// suggestToolName offers the closest known tool name for an unrecognized
// dispatch target (spec §4.9 step 1).
func suggestToolName(tool string) []string {
	return suggest.Spelling(tool, []string{ToolSearchEndpoints, ToolGetSchema, ToolGetExample}, 3)
}
