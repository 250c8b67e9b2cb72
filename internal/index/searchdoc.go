package index

import (
	"strconv"
	"strings"

	"openapi-mcp-navigator/internal/model"
)

// EndpointKey is the stable identity of an endpoint within the index,
// independent of its Store row id (useful once multiple documents are
// loaded side by side).
func EndpointKey(ep model.Endpoint) string {
	return strconv.FormatInt(ep.DocumentID, 10) + ":" + ep.Method + " " + ep.Path
}

// SchemaKey is the stable identity of a schema within the index.
func SchemaKey(s model.Schema) string {
	return strconv.FormatInt(s.DocumentID, 10) + ":" + s.Name
}

// FieldWeights are the spec's pinned per-field BM25 weights (§9 Open
// Question resolution): path 3.0, summary 2.0, tags 1.5, description 1.0,
// params 1.0.
var FieldWeights = map[string]float64{
	"path":        3.0,
	"summary":     2.0,
	"tags":        1.5,
	"description": 1.0,
	"params":      1.0,
}

// SchemaFieldWeights mirrors FieldWeights for the schema index, whose
// fields are named differently.
var SchemaFieldWeights = map[string]float64{
	"name":        3.0,
	"title":       2.0,
	"description": 1.0,
	"properties":  1.0,
}

// endpointFields builds the per-field token bag for one endpoint.
func endpointFields(ep model.Endpoint) map[string][]string {
	params := make([]string, 0, len(ep.Parameters))
	for _, p := range ep.Parameters {
		params = append(params, p.Name, p.Description)
	}
	return map[string][]string{
		"path":        tokenize(ep.Path),
		"summary":     tokenize(ep.Summary),
		"tags":        tokenizeAll(ep.Tags),
		"description": tokenize(stripMarkdown(ep.Description)),
		"params":      tokenizeAll(params),
	}
}

// schemaFields builds the per-field token bag for one schema.
func schemaFields(s model.Schema) map[string][]string {
	propNames := make([]string, 0, len(s.Properties))
	for _, p := range s.Properties {
		propNames = append(propNames, p.Name)
	}
	return map[string][]string{
		"name":        tokenize(s.Name),
		"title":       tokenize(s.Title),
		"description": tokenize(stripMarkdown(s.Description)),
		"properties":  tokenizeAll(propNames),
	}
}

// searchableSummary renders a field token bag as one human-readable blob.
// It is not stored on the Snapshot and is not used for scoring.
func searchableSummary(fields map[string][]string) string {
	var parts []string
	for _, toks := range fields {
		parts = append(parts, strings.Join(toks, " "))
	}
	return strings.Join(parts, " ")
}
