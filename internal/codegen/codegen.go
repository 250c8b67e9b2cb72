// Package codegen implements the Code-Example Generator (C8): deterministic
// curl/JavaScript/Python request snippets for one Endpoint (spec §4.8).
package codegen

import (
	"fmt"
	"sort"
	"strings"

	"openapi-mcp-navigator/internal/apperrors"
	"openapi-mcp-navigator/internal/model"
)

// Format is one of the supported emitter targets.
type Format string

const (
	Curl       Format = "curl"
	JavaScript Format = "javascript"
	Python     Format = "python"
)

// Options controls one Generate call.
type Options struct {
	Format      Format
	BaseURL     string
	IncludeAuth bool
}

// placeholder policy: a single rule per type, no per-parameter-name
// special-casing (spec §9 Open Question 3).
const (
	stringPlaceholder = "EXAMPLE_VALUE"
	numberPlaceholder = "12345"

	// bearerTokenPlaceholder is the fixed literal for a Bearer auth header,
	// distinct from stringPlaceholder (spec §8 scenario 5).
	bearerTokenPlaceholder = "YOUR_TOKEN_HERE"
)

// Generate emits a syntactically valid snippet for ep in the requested
// format. Deterministic given the same (endpoint, options).
func Generate(ep model.Endpoint, schemasByName map[string]model.Schema, schemesByName map[string]model.SecurityScheme, opts Options) (string, error) {
	switch opts.Format {
	case Curl, JavaScript, Python:
	default:
		return "", apperrors.CodeGeneration(ep.Path, string(opts.Format), "unsupported format")
	}

	url := substitutePathParams(ep.Path)
	if opts.BaseURL != "" {
		url = strings.TrimSuffix(opts.BaseURL, "/") + url
	}

	headers := requestHeaders(ep)
	var authComment string
	if opts.IncludeAuth {
		var authHeader string
		authHeader, authComment = authHeaderFor(ep, schemesByName)
		if authHeader != "" {
			parts := strings.SplitN(authHeader, ": ", 2)
			headers = append(headers, [2]string{parts[0], parts[1]})
		}
	}

	query := queryParams(ep)
	body := requestBodyPlaceholder(ep, schemasByName)

	switch opts.Format {
	case Curl:
		return curlSnippet(ep.Method, url, headers, query, body, authComment), nil
	case JavaScript:
		return jsSnippet(ep.Method, url, headers, query, body, authComment), nil
	default:
		return pythonSnippet(ep.Method, url, headers, query, body, authComment), nil
	}
}

func substitutePathParams(path string) string {
	var b strings.Builder
	i := 0
	for i < len(path) {
		if path[i] == '{' {
			j := strings.IndexByte(path[i:], '}')
			if j < 0 {
				b.WriteString(path[i:])
				break
			}
			name := path[i+1 : i+j]
			b.WriteString(placeholderFor(name))
			i += j + 1
			continue
		}
		b.WriteByte(path[i])
		i++
	}
	return b.String()
}

// placeholderFor applies the single string/number placeholder rule. Names
// conventionally ending "id"/"count"/"number" get the numeric placeholder;
// everything else gets the string placeholder.
func placeholderFor(paramName string) string {
	lower := strings.ToLower(paramName)
	if strings.HasSuffix(lower, "id") || strings.HasSuffix(lower, "count") || strings.HasSuffix(lower, "number") {
		return numberPlaceholder
	}
	return stringPlaceholder
}

func requestHeaders(ep model.Endpoint) [][2]string {
	headers := [][2]string{{"Accept", "application/json"}}
	if hasBody(ep.Method) && ep.RequestBody != nil {
		headers = append(headers, [2]string{"Content-Type", "application/json"})
	}
	return headers
}

func hasBody(method string) bool {
	switch strings.ToUpper(method) {
	case "POST", "PUT", "PATCH":
		return true
	default:
		return false
	}
}

func queryParams(ep model.Endpoint) [][2]string {
	var out [][2]string
	for _, p := range ep.Parameters {
		if p.In != model.ParamQuery {
			continue
		}
		value := stringPlaceholder
		if p.SchemaType == "integer" || p.SchemaType == "number" {
			value = numberPlaceholder
		}
		out = append(out, [2]string{p.Name, value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

// authHeaderFor honors the endpoint's first declared security requirement
// (spec §4.8 includeAuth policy). Returns an empty header and a comment when
// the scheme kind doesn't map to a simple header.
func authHeaderFor(ep model.Endpoint, schemesByName map[string]model.SecurityScheme) (header, comment string) {
	if len(ep.Security) == 0 {
		return "", ""
	}
	scheme, ok := schemesByName[ep.Security[0].SchemeName]
	if !ok {
		return "", "# authentication: scheme \"" + ep.Security[0].SchemeName + "\" not declared"
	}
	return authHeaderForScheme(scheme)
}

// authHeaderForScheme resolves the concrete header for a known scheme.
func authHeaderForScheme(scheme model.SecurityScheme) (header, comment string) {
	switch scheme.Kind {
	case model.SecurityHTTP:
		if strings.EqualFold(scheme.HTTPScheme, "bearer") {
			return "Authorization: Bearer " + bearerTokenPlaceholder, ""
		}
		return "", "# authentication: HTTP " + scheme.HTTPScheme + " scheme \"" + scheme.Name + "\""
	case model.SecurityAPIKey:
		if scheme.APIKeyLocation == "header" {
			return scheme.APIKeyName + ": " + stringPlaceholder, ""
		}
		return "", "# authentication: apiKey \"" + scheme.Name + "\" passed via " + scheme.APIKeyLocation
	default:
		return "", "# authentication: " + string(scheme.Kind) + " scheme \"" + scheme.Name + "\""
	}
}

func requestBodyPlaceholder(ep model.Endpoint, schemasByName map[string]model.Schema) string {
	if !hasBody(ep.Method) || ep.RequestBody == nil || len(ep.RequestBody.Content) == 0 {
		return ""
	}
	ref := ep.RequestBody.Content[0].SchemaRef
	schema, ok := schemasByName[ref]
	if !ok || len(schema.Properties) == 0 {
		return `{"data": "example_value"}`
	}
	return simpleObjectExample(schema, schemasByName, 0)
}

func simpleObjectExample(s model.Schema, schemasByName map[string]model.Schema, depth int) string {
	if depth > 2 || len(s.Properties) == 0 {
		return `{"data": "example_value"}`
	}
	var b strings.Builder
	b.WriteString("{")
	for i, p := range s.Properties {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%q: %s", p.Name, propertyExampleValue(p.Schema, schemasByName, depth))
	}
	b.WriteString("}")
	return b.String()
}

func propertyExampleValue(sr model.SchemaOrRef, schemasByName map[string]model.Schema, depth int) string {
	if sr.Ref != "" {
		if target, ok := schemasByName[sr.Ref]; ok {
			return propertyExampleValue(model.SchemaOrRef{Inline: &target}, schemasByName, depth+1)
		}
		return `"` + stringPlaceholder + `"`
	}
	if sr.Inline == nil {
		return `"` + stringPlaceholder + `"`
	}
	switch sr.Inline.Type {
	case "integer", "number":
		return numberPlaceholder
	case "boolean":
		return "true"
	case "object":
		return simpleObjectExample(*sr.Inline, schemasByName, depth+1)
	case "array":
		return "[]"
	default:
		return `"` + stringPlaceholder + `"`
	}
}

func curlSnippet(method, url string, headers, query [][2]string, body, authComment string) string {
	var b strings.Builder
	if authComment != "" {
		fmt.Fprintf(&b, "%s\n", authComment)
	}
	fmt.Fprintf(&b, "curl -X %s '%s'", strings.ToUpper(method), withQuery(url, query))
	for _, h := range headers {
		fmt.Fprintf(&b, " \\\n  -H '%s: %s'", h[0], h[1])
	}
	if body != "" {
		fmt.Fprintf(&b, " \\\n  -d '%s'", body)
	}
	return b.String()
}

func jsSnippet(method, url string, headers, query [][2]string, body, authComment string) string {
	var b strings.Builder
	if authComment != "" {
		// JavaScript has no '#' line comments; re-prefix the shared comment.
		fmt.Fprintf(&b, "// %s\n", strings.TrimPrefix(authComment, "# "))
	}
	b.WriteString("const response = await fetch('")
	b.WriteString(withQuery(url, query))
	b.WriteString("', {\n")
	fmt.Fprintf(&b, "  method: '%s',\n", strings.ToUpper(method))
	b.WriteString("  headers: {\n")
	for i, h := range headers {
		comma := ","
		if i == len(headers)-1 {
			comma = ""
		}
		fmt.Fprintf(&b, "    '%s': '%s'%s\n", h[0], h[1], comma)
	}
	b.WriteString("  },\n")
	if body != "" {
		fmt.Fprintf(&b, "  body: JSON.stringify(%s),\n", body)
	}
	b.WriteString("});\n")
	b.WriteString("const data = await response.json();")
	return b.String()
}

func pythonSnippet(method, url string, headers, query [][2]string, body, authComment string) string {
	var b strings.Builder
	if authComment != "" {
		fmt.Fprintf(&b, "%s\n", authComment)
	}
	b.WriteString("import requests\n\n")
	b.WriteString("headers = {\n")
	for _, h := range headers {
		fmt.Fprintf(&b, "    %q: %q,\n", h[0], h[1])
	}
	b.WriteString("}\n")
	if len(query) > 0 {
		b.WriteString("params = {\n")
		for _, q := range query {
			fmt.Fprintf(&b, "    %q: %q,\n", q[0], q[1])
		}
		b.WriteString("}\n")
	}
	if body != "" {
		fmt.Fprintf(&b, "json_body = %s\n", body)
	}
	fmt.Fprintf(&b, "response = requests.%s(%q, headers=headers", strings.ToLower(method), url)
	if len(query) > 0 {
		b.WriteString(", params=params")
	}
	if body != "" {
		b.WriteString(", json=json_body")
	}
	b.WriteString(")\n")
	b.WriteString("data = response.json()")
	return b.String()
}

func withQuery(url string, query [][2]string) string {
	if len(query) == 0 {
		return url
	}
	var parts []string
	for _, q := range query {
		parts = append(parts, q[0]+"="+q[1])
	}
	return url + "?" + strings.Join(parts, "&")
}
