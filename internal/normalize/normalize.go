// Package normalize implements the Normalizer (C2): it turns a
// parser.RawDocument into a canonical, immutable model.APIDocument, merging
// path- and operation-level parameters, resolving the schema reference
// graph, and running the consistency validator described in spec §4.2.
package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"time"

	"openapi-mcp-navigator/internal/model"
	"openapi-mcp-navigator/internal/parser"
)

// Normalize converts one parsed document into a canonical APIDocument.
// sourcePath and sourceBytes describe the ingested file; the size and the
// sha256 content hash derived from sourceBytes are recorded on the result,
// and the hash is the Store's idempotent-ingest key (spec §8 "Ingest
// idempotence").
func Normalize(doc *parser.RawDocument, sourcePath string, sourceBytes []byte) *model.APIDocument {
	sum := sha256.Sum256(sourceBytes)

	out := &model.APIDocument{
		Title:           doc.Info.Title,
		Version:         doc.Info.Version,
		OpenAPIVersion:  firstNonEmpty(doc.OpenAPI, doc.Swagger),
		Description:     doc.Info.Description,
		Servers:         serverURLs(doc.Servers),
		ContentHash:     hex.EncodeToString(sum[:]),
		SourcePath:      sourcePath,
		SourceSizeBytes: int64(len(sourceBytes)),
		IngestedAt:      time.Now().UTC(),
	}
	if len(out.Servers) > 0 {
		out.BaseURL = out.Servers[0]
	}
	if doc.Info.Contact != nil {
		out.ContactName, out.ContactEmail = doc.Info.Contact.Name, doc.Info.Contact.Email
	}
	if doc.Info.License != nil {
		out.LicenseName = doc.Info.License.Name
	}

	out.SecuritySchemes = normalizeSecuritySchemes(doc)
	out.Schemas = normalizeSchemas(doc)
	out.Endpoints, out.ConsistencyWarns = normalizeEndpoints(doc, out)

	refWarns, refErrs := resolveReferenceGraph(out)
	out.UnresolvedRefs = refErrs
	out.ConsistencyWarns = append(out.ConsistencyWarns, refWarns...)

	computeUsage(out)

	out.ConsistencyWarns = append(out.ConsistencyWarns, validateConsistency(out)...)

	return out
}

func serverURLs(servers []parser.RawServer) []string {
	out := make([]string, 0, len(servers))
	for _, s := range servers {
		if s.URL != "" {
			out = append(out, s.URL)
		}
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func normalizeEndpoints(doc *parser.RawDocument, out *model.APIDocument) ([]model.Endpoint, []model.Warning) {
	var endpoints []model.Endpoint
	var warns []model.Warning

	for _, path := range doc.PathOrder {
		item := doc.Paths[path]
		methods := make([]string, 0, len(item.Operations))
		for m := range item.Operations {
			methods = append(methods, m)
		}
		sort.Strings(methods)

		pathParamNames := model.PathParamNames(path)

		for _, method := range methods {
			op := item.Operations[method]
			params := mergeParameters(item.Parameters, op.Parameters)

			ep := model.Endpoint{
				Path:          path,
				Method:        method,
				OperationID:   op.OperationID,
				Summary:       op.Summary,
				Description:   op.Description,
				Tags:          append([]string(nil), op.Tags...),
				Deprecated:    op.Deprecated,
				Extensions:    op.Extensions,
				ExtensionKeys: op.ExtensionKeys,
			}
			for _, p := range params {
				ep.Parameters = append(ep.Parameters, model.Parameter{
					Name:        p.Name,
					In:          model.ParamLocation(p.In),
					Required:    p.Required,
					SchemaRef:   p.SchemaRef,
					SchemaType:  p.SchemaType,
					Description: p.Description,
					Example:     p.Example,
				})
			}
			if op.RequestBody != nil {
				ep.RequestBody = &model.RequestBody{
					Required:    op.RequestBody.Required,
					Description: op.RequestBody.Description,
					Content:     mediaTypes(op.RequestBody.Content),
				}
			}
			ep.Responses = responses(op.Responses)
			ep.Security = securityRequirements(op.Security)

			ep.SchemaDeps = dedupe(endpointSchemaDeps(ep))
			ep.SecurityDeps = dedupe(securityDepNames(ep.Security))
			ep.SearchableText = basicSearchableText(ep)

			for _, name := range pathParamNames {
				if !hasParam(params, name, "path") {
					warns = append(warns, model.Warning{
						Pointer: path + " " + method,
						Message: "path template declares {" + name + "} with no matching path parameter",
					})
				}
			}
			for _, p := range params {
				if p.In == "path" && !contains(pathParamNames, p.Name) {
					warns = append(warns, model.Warning{
						Pointer: path + " " + method,
						Message: "parameter " + p.Name + " is declared in:path but not present in the path template",
					})
				}
			}

			endpoints = append(endpoints, ep)
		}
	}
	return endpoints, warns
}

// mergeParameters applies operation-level parameters over path-level ones,
// keyed by (name, in), operation wins on conflict (spec §4.2).
func mergeParameters(pathLevel, opLevel []parser.RawParameter) []parser.RawParameter {
	type key struct{ name, in string }
	merged := map[key]parser.RawParameter{}
	var order []key

	for _, p := range pathLevel {
		k := key{p.Name, p.In}
		if _, ok := merged[k]; !ok {
			order = append(order, k)
		}
		merged[k] = p
	}
	for _, p := range opLevel {
		k := key{p.Name, p.In}
		if _, ok := merged[k]; !ok {
			order = append(order, k)
		}
		merged[k] = p
	}

	out := make([]parser.RawParameter, 0, len(order))
	for _, k := range order {
		out = append(out, merged[k])
	}
	return out
}

func hasParam(params []parser.RawParameter, name, in string) bool {
	for _, p := range params {
		if p.Name == name && p.In == in {
			return true
		}
	}
	return false
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

func mediaTypes(raw []parser.RawMediaType) []model.MediaType {
	out := make([]model.MediaType, 0, len(raw))
	for _, m := range raw {
		out = append(out, model.MediaType{ContentType: m.ContentType, SchemaRef: m.SchemaRef, Example: m.Example})
	}
	return out
}

func responses(raw map[string]parser.RawResponse) []model.Response {
	codes := make([]string, 0, len(raw))
	for c := range raw {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	out := make([]model.Response, 0, len(codes))
	for _, c := range codes {
		r := raw[c]
		out = append(out, model.Response{StatusCode: c, Description: r.Description, Content: mediaTypes(r.Content)})
	}
	return out
}

func securityRequirements(raw []map[string][]string) []model.SecurityRequirement {
	var out []model.SecurityRequirement
	for _, req := range raw {
		names := make([]string, 0, len(req))
		for name := range req {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			out = append(out, model.SecurityRequirement{SchemeName: name, Scopes: req[name]})
		}
	}
	return out
}

func securityDepNames(reqs []model.SecurityRequirement) []string {
	out := make([]string, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, r.SchemeName)
	}
	return out
}

func endpointSchemaDeps(ep model.Endpoint) []string {
	var deps []string
	for _, p := range ep.Parameters {
		if p.SchemaRef != "" {
			deps = append(deps, p.SchemaRef)
		}
	}
	if ep.RequestBody != nil {
		for _, c := range ep.RequestBody.Content {
			if c.SchemaRef != "" {
				deps = append(deps, c.SchemaRef)
			}
		}
	}
	for _, r := range ep.Responses {
		for _, c := range r.Content {
			if c.SchemaRef != "" {
				deps = append(deps, c.SchemaRef)
			}
		}
	}
	return deps
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// basicSearchableText gives Endpoint.SearchableText a sensible default; the
// Indexer builds the field-weighted searchable document used for scoring
// independently (spec §4.4), so this value is informational only.
func basicSearchableText(ep model.Endpoint) string {
	parts := []string{ep.Method, ep.Path, ep.OperationID, ep.Summary, ep.Description}
	parts = append(parts, ep.Tags...)
	return strings.Join(nonEmpty(parts), " ")
}

func nonEmpty(ss []string) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
