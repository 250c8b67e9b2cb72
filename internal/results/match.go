package results

import (
	"strings"

	"openapi-mcp-navigator/internal/model"
	"openapi-mcp-navigator/internal/query"
	"openapi-mcp-navigator/internal/query/suggest"
)

// endpointTermMatcher builds a query.TermMatcher bound to one endpoint's
// tokenized text, so Term/Phrase/Fuzzy leaves can be evaluated against it.
func endpointTermMatcher(ep model.Endpoint) query.TermMatcher {
	text := strings.ToLower(strings.Join([]string{ep.Path, ep.Method, ep.OperationID, ep.Summary, ep.Description, strings.Join(ep.Tags, " ")}, " "))
	tokens := strings.Fields(strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return ' '
	}, text))

	return func(n *query.Node) bool {
		switch n.Kind {
		case query.KindPhrase:
			return strings.Contains(text, strings.ToLower(n.Value))
		case query.KindFuzzy:
			for _, t := range tokens {
				if suggest.WithinDistance(strings.ToLower(n.Value), t) {
					return true
				}
			}
			return false
		default: // KindTerm
			needle := strings.ToLower(n.Value)
			for _, t := range tokens {
				if t == needle {
					return true
				}
			}
			return strings.Contains(text, needle)
		}
	}
}

// endpointFieldMatcher builds a query.FieldMatcher for field:value clauses
// against the small set of structured fields the grammar supports.
func endpointFieldMatcher(ep model.Endpoint) query.FieldMatcher {
	return func(field, value string) bool {
		value = strings.ToLower(value)
		switch strings.ToLower(field) {
		case "method":
			return strings.EqualFold(ep.Method, value)
		case "tag", "tags":
			for _, t := range ep.Tags {
				if strings.EqualFold(t, value) {
					return true
				}
			}
			return false
		case "path":
			return strings.Contains(strings.ToLower(ep.Path), value)
		case "param", "parameter":
			for _, p := range ep.Parameters {
				if strings.EqualFold(p.Name, value) {
					return true
				}
			}
			return false
		case "operationid":
			return strings.EqualFold(ep.OperationID, value)
		case "auth":
			for _, sec := range ep.Security {
				if strings.EqualFold(sec.SchemeName, value) {
					return true
				}
			}
			return false
		case "response":
			for _, resp := range ep.Responses {
				for _, mt := range resp.Content {
					if strings.EqualFold(mt.SchemaRef, value) {
						return true
					}
				}
			}
			return false
		case "status":
			for _, resp := range ep.Responses {
				if strings.EqualFold(resp.StatusCode, value) {
					return true
				}
			}
			return false
		default:
			return strings.Contains(strings.ToLower(ep.Summary+" "+ep.Description), value)
		}
	}
}
