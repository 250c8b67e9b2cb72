package index

import (
	"strings"

	"openapi-mcp-navigator/internal/model"
)

// OperationType buckets an endpoint by HTTP semantics and path shape, a
// derived field used both for indexing and for result enrichment (spec
// §4.4, §4.6).
func OperationType(ep model.Endpoint) string {
	switch ep.Method {
	case "POST":
		if hintsFileUpload(ep) {
			return "upload"
		}
		return "create"
	case "PUT", "PATCH":
		return "update"
	case "DELETE":
		return "delete"
	case "GET":
		if len(model.PathParamNames(ep.Path)) > 0 {
			return "read"
		}
		if hintsSearch(ep) {
			return "search"
		}
		return "list"
	default:
		return "action"
	}
}

// hintsSearch reports whether the operation's summary suggests a search
// endpoint rather than a plain listing (spec §4.4 operation-type table).
func hintsSearch(ep model.Endpoint) bool {
	return strings.Contains(strings.ToLower(ep.Summary), "search")
}

// hintsFileUpload reports whether the path, a parameter name, or the
// request body's content type suggests a file upload (spec §4.4
// operation-type table, POST → upload).
func hintsFileUpload(ep model.Endpoint) bool {
	lowerPath := strings.ToLower(ep.Path)
	if strings.Contains(lowerPath, "upload") || strings.Contains(lowerPath, "file") {
		return true
	}
	for _, p := range ep.Parameters {
		name := strings.ToLower(p.Name)
		if strings.Contains(name, "file") || strings.Contains(name, "upload") {
			return true
		}
	}
	if ep.RequestBody != nil {
		for _, mt := range ep.RequestBody.Content {
			ct := strings.ToLower(mt.ContentType)
			if strings.Contains(ct, "multipart/form-data") || strings.Contains(ct, "octet-stream") {
				return true
			}
		}
	}
	return false
}

// ResourceGroup is the first path segment, a coarse grouping key for
// clustering (spec §4.6 "cluster by resource").
func ResourceGroup(path string) string {
	trimmed := path
	for len(trimmed) > 0 && trimmed[0] == '/' {
		trimmed = trimmed[1:]
	}
	for i, c := range trimmed {
		if c == '/' {
			return trimmed[:i]
		}
	}
	return trimmed
}

// Stability reports "deprecated" or "stable".
func Stability(ep model.Endpoint) string {
	if ep.Deprecated {
		return "deprecated"
	}
	return "stable"
}

// ComplexityLevel buckets a schema by its structural size, used both for
// the `complexity` filter and for result enrichment. The score is property
// count + composition-list length + validation-rule count, plus one when
// `items` is set; depth is the nesting depth of inline property/items
// schemas ($ref targets are not followed). simple: score <= 3 and depth <= 1;
// moderate: score <= 10 and depth <= 3; otherwise complex (spec §4.4).
func ComplexityLevel(s model.Schema) string {
	score := len(s.Properties) + len(s.CompositionList) + validationRuleCount(s)
	if s.Items != nil {
		score++
	}
	depth := schemaDepth(s, 0)

	switch {
	case score <= 3 && depth <= 1:
		return "simple"
	case score <= 10 && depth <= 3:
		return "moderate"
	default:
		return "complex"
	}
}

// validationRuleCount counts the constraint keywords declared directly on
// s, one of the four factors ComplexityLevel's score is derived from.
func validationRuleCount(s model.Schema) int {
	count := 0
	if s.Minimum != nil {
		count++
	}
	if s.Maximum != nil {
		count++
	}
	if s.MinLength != nil {
		count++
	}
	if s.MaxLength != nil {
		count++
	}
	if s.MultipleOf != nil {
		count++
	}
	if s.Pattern != "" {
		count++
	}
	if len(s.Enum) > 0 {
		count++
	}
	if s.Const != nil {
		count++
	}
	return count
}

func schemaDepth(s model.Schema, current int) int {
	if current > 8 {
		return current // circular schemas are capped elsewhere; avoid runaway recursion here
	}
	max := current
	for _, p := range s.Properties {
		if p.Schema.Inline != nil {
			if d := schemaDepth(*p.Schema.Inline, current+1); d > max {
				max = d
			}
		}
	}
	if s.Items != nil && s.Items.Inline != nil {
		if d := schemaDepth(*s.Items.Inline, current+1); d > max {
			max = d
		}
	}
	return max
}
