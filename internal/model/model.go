// Package model defines the canonical, immutable records produced by the
// ingest pipeline: APIDocument, Endpoint, Schema, SecurityScheme, and the
// reference graph that ties schemas together.
package model

import "time"

// APIDocument is the root record for one ingested OpenAPI/Swagger file.
type APIDocument struct {
	ID              int64
	Title           string
	Version         string
	OpenAPIVersion  string
	Description     string
	BaseURL         string
	ContactName     string
	ContactEmail    string
	LicenseName     string
	Servers         []string
	ContentHash     string
	SourcePath      string
	SourceSizeBytes int64
	IngestedAt      time.Time

	Endpoints        []Endpoint
	Schemas          []Schema
	SecuritySchemes  []SecurityScheme
	UnresolvedRefs   []RefError
	ConsistencyWarns []Warning
}

// SchemaIndex returns the position of a named schema within Schemas, or -1.
func (d *APIDocument) SchemaIndex(name string) int {
	for i := range d.Schemas {
		if d.Schemas[i].Name == name {
			return i
		}
	}
	return -1
}

// SchemaByName looks up a schema by its canonical (unprefixed) name.
func (d *APIDocument) SchemaByName(name string) (*Schema, bool) {
	idx := d.SchemaIndex(name)
	if idx < 0 {
		return nil, false
	}
	return &d.Schemas[idx], true
}

// SecuritySchemeByName looks up a security scheme by name.
func (d *APIDocument) SecuritySchemeByName(name string) (*SecurityScheme, bool) {
	for i := range d.SecuritySchemes {
		if d.SecuritySchemes[i].Name == name {
			return &d.SecuritySchemes[i], true
		}
	}
	return nil, false
}

// ParamLocation is where a Parameter lives.
type ParamLocation string

const (
	ParamPath   ParamLocation = "path"
	ParamQuery  ParamLocation = "query"
	ParamHeader ParamLocation = "header"
	ParamCookie ParamLocation = "cookie"
)

// Parameter describes one request parameter.
type Parameter struct {
	Name        string
	In          ParamLocation
	Required    bool
	SchemaRef   string // named schema this parameter's schema refers to, if any
	SchemaType  string // inline type when there's no $ref ("string", "integer", ...)
	Description string
	Example     interface{}
}

// MediaType is one content-type entry of a RequestBody or Response.
type MediaType struct {
	ContentType string
	SchemaRef   string
	Example     interface{}
}

// RequestBody describes an operation's request body.
type RequestBody struct {
	Required    bool
	Description string
	Content     []MediaType // ordered by content-type as declared
}

// Response describes one status-code response.
type Response struct {
	StatusCode  string
	Description string
	Content     []MediaType
}

// SecurityRequirement names one security scheme plus required scopes.
type SecurityRequirement struct {
	SchemeName string
	Scopes     []string
}

// Endpoint is one (path, method) operation under an APIDocument.
type Endpoint struct {
	ID            int64
	DocumentID    int64
	Path          string
	Method        string // upper-cased
	OperationID   string
	Summary       string
	Description   string
	Tags          []string
	Parameters    []Parameter
	RequestBody   *RequestBody
	Responses     []Response // ordered by status code as declared
	Security      []SecurityRequirement
	Deprecated    bool
	Extensions    map[string]interface{}
	ExtensionKeys []string // preserves declaration order for Extensions

	// Derived, computed by the Normalizer/Indexer.
	SchemaDeps      []string // referenced schema names, de-duplicated, stable order
	SecurityDeps    []string
	SearchableText  string
}

// PathParamNames returns the `{x}` tokens present in the path template, in order.
func PathParamNames(path string) []string {
	var names []string
	i := 0
	for i < len(path) {
		if path[i] == '{' {
			j := i + 1
			for j < len(path) && path[j] != '}' {
				j++
			}
			if j < len(path) {
				names = append(names, path[i+1:j])
				i = j + 1
				continue
			}
		}
		i++
	}
	return names
}

// CompositionKind names which composition slot a Schema uses, if any.
type CompositionKind string

const (
	CompositionNone  CompositionKind = ""
	CompositionAllOf CompositionKind = "allOf"
	CompositionOneOf CompositionKind = "oneOf"
	CompositionAnyOf CompositionKind = "anyOf"
)

// Property is one named member of an object Schema.
type Property struct {
	Name   string
	Schema SchemaOrRef
}

// SchemaOrRef is either an inline schema body or a named $ref.
type SchemaOrRef struct {
	Ref    string // bare schema name, empty if inline
	Inline *Schema
}

// Schema is one named component schema.
type Schema struct {
	ID          int64
	DocumentID  int64
	Name        string
	Type        string
	Format      string
	Title       string
	Description string
	Properties  []Property
	Required    []string
	Items       *SchemaOrRef
	AdditionalProperties *SchemaOrRef
	AdditionalPropertiesBool *bool

	Composition     CompositionKind
	CompositionList []SchemaOrRef
	If, Then, Else  *SchemaOrRef

	Minimum, Maximum           *float64
	MinLength, MaxLength       *int
	Pattern                    string
	MultipleOf                 *float64
	Enum                       []interface{}
	Const                      interface{}

	Discriminator string
	Deprecated    bool
	Extensions    map[string]interface{}
	ExtensionKeys []string

	// Example/Examples/Default are the schema's illustrative values (spec
	// §4.7 "includeExamples suppresses or includes example / examples /
	// default"), distinct from Enum/Const which are validation constraints.
	Example  interface{}
	Examples map[string]interface{}
	Default  interface{}

	// Derived.
	DependsOn []string // outbound named-schema refs, de-duplicated, stable order
	UsedBy    []string // inbound, computed by the usage sub-pass
}

// SecuritySchemeKind enumerates the canonical security scheme kinds.
type SecuritySchemeKind string

const (
	SecurityAPIKey SecuritySchemeKind = "apiKey"
	SecurityHTTP   SecuritySchemeKind = "http"
	SecurityOAuth2 SecuritySchemeKind = "oauth2"
	SecurityOIDC   SecuritySchemeKind = "openIdConnect"
)

// OAuthFlow is one OAuth2 flow definition.
type OAuthFlow struct {
	Name             string // "implicit", "password", "clientCredentials", "authorizationCode"
	AuthorizationURL string
	TokenURL         string
	RefreshURL       string
	Scopes           map[string]string
}

// SecurityScheme is a named, canonicalized security scheme.
type SecurityScheme struct {
	Name        string
	Kind        SecuritySchemeKind
	Description string

	// apiKey
	APIKeyLocation string // "query" | "header" | "cookie"
	APIKeyName     string

	// http
	HTTPScheme string // "basic" | "bearer" | ...
	BearerFormat string

	// oauth2
	Flows []OAuthFlow

	// openIdConnect
	OpenIDConnectURL string
}

// RefError records a $ref that never resolved within this document.
type RefError struct {
	Pointer string // JSON-pointer-ish location of the offending $ref
	Target  string // the unresolved target name
}

// Warning is a non-fatal, stylistic or circularity diagnostic.
type Warning struct {
	Pointer string
	Message string
}
