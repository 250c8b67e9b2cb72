package results

import (
	"fmt"
	"strings"

	"openapi-mcp-navigator/internal/index"
	"openapi-mcp-navigator/internal/model"
)

// enrich fills in an EndpointResult's derived, human-oriented fields (spec
// §4.6 "enrichment"): a short natural-language parameter summary,
// authentication info, response info, and the classification fields the
// Indexer also uses for filtering.
func enrich(ep model.Endpoint, schemesByName map[string]model.SecurityScheme) EndpointResult {
	return EndpointResult{
		Endpoint:           ep,
		ParameterSummary:   parameterSummary(ep),
		AuthenticationInfo: authenticationInfo(ep, schemesByName),
		ResponseInfo:       responseInfo(ep),
		ComplexityLevel:    endpointComplexity(ep),
		OperationType:      index.OperationType(ep),
		ResourceGroup:      index.ResourceGroup(ep.Path),
		Stability:          index.Stability(ep),
	}
}

func parameterSummary(ep model.Endpoint) string {
	if len(ep.Parameters) == 0 {
		return "no parameters"
	}
	var required, optional int
	for _, p := range ep.Parameters {
		if p.Required {
			required++
		} else {
			optional++
		}
	}
	return fmt.Sprintf("%d required, %d optional", required, optional)
}

func authenticationInfo(ep model.Endpoint, schemesByName map[string]model.SecurityScheme) string {
	if len(ep.Security) == 0 {
		return "none"
	}
	names := make([]string, 0, len(ep.Security))
	for _, s := range ep.Security {
		kind := "unknown"
		if sc, ok := schemesByName[s.SchemeName]; ok {
			kind = string(sc.Kind)
		}
		names = append(names, s.SchemeName+" ("+kind+")")
	}
	return strings.Join(names, ", ")
}

func responseInfo(ep model.Endpoint) string {
	if len(ep.Responses) == 0 {
		return "undocumented"
	}
	codes := make([]string, 0, len(ep.Responses))
	for _, r := range ep.Responses {
		codes = append(codes, r.StatusCode)
	}
	return strings.Join(codes, ", ")
}
