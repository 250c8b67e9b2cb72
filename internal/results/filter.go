package results

import (
	"openapi-mcp-navigator/internal/model"
)

// applyFilters reports whether ep passes every configured filter. Each
// filter is evaluated independently; an endpoint that doesn't expose the
// data a filter needs (e.g. MinUsageFrequency against a schema-less
// endpoint) simply doesn't match that filter rather than panicking or being
// silently admitted.
func applyFilters(ep model.Endpoint, f Filters, schemasByName map[string]model.Schema) bool {
	if len(f.Methods) > 0 && !containsFold(f.Methods, ep.Method) {
		return false
	}
	if len(f.Tags) > 0 && !anyContains(ep.Tags, f.Tags) {
		return false
	}
	if !f.IncludeDeprecated && ep.Deprecated {
		return false
	}
	if f.AuthRequired != nil {
		hasAuth := len(ep.Security) > 0
		if hasAuth != *f.AuthRequired {
			return false
		}
	}
	if len(f.AuthSchemes) > 0 {
		matched := false
		for _, s := range ep.Security {
			if containsFold(f.AuthSchemes, s.SchemeName) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	if len(f.Complexity) > 0 && !containsFold(f.Complexity, endpointComplexity(ep)) {
		return false
	}
	if f.MinUsageFrequency != nil {
		total := 0
		for _, dep := range ep.SchemaDeps {
			total += len(schemasByName[dep].UsedBy)
		}
		if total < *f.MinUsageFrequency {
			return false
		}
	}
	if len(f.SchemaTypes) > 0 {
		matched := false
		for _, dep := range ep.SchemaDeps {
			if sc, ok := schemasByName[dep]; ok && containsFold(f.SchemaTypes, sc.Type) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// endpointComplexity classifies an endpoint by how much request/response
// surface it exposes: parameter count plus referenced-schema count, simple
// up to 2, moderate up to 6, otherwise complex. These thresholds are its own
// and differ from index.ComplexityLevel's for schemas.
func endpointComplexity(ep model.Endpoint) string {
	score := len(ep.Parameters) + len(ep.SchemaDeps)
	switch {
	case score <= 2:
		return "simple"
	case score <= 6:
		return "moderate"
	default:
		return "complex"
	}
}

func containsFold(ss []string, s string) bool {
	for _, v := range ss {
		if equalFold(v, s) {
			return true
		}
	}
	return false
}

func anyContains(haystack, needles []string) bool {
	for _, n := range needles {
		if containsFold(haystack, n) {
			return true
		}
	}
	return false
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
