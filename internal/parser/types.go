// Package parser implements the Streaming Parser (C1): incremental
// JSON/YAML decode of an OpenAPI/Swagger document into a RawDocument, with
// progress reporting and error/warning accumulation, per spec §4.1.
package parser

import "encoding/json"

// RawDocument is the parser's output: a typed-but-not-yet-canonicalized view
// of the source document, handed to the Normalizer (C2).
type RawDocument struct {
	OpenAPI string   `json:"openapi" yaml:"openapi"`
	Swagger string   `json:"swagger" yaml:"swagger"`
	Info    RawInfo  `json:"info" yaml:"info"`
	Servers []RawServer `json:"servers" yaml:"servers"`

	Paths      map[string]RawPathItem `json:"-" yaml:"-"` // filled incrementally by the decoders
	PathOrder  []string               // declaration order, for deterministic output

	Schemas      map[string]RawSchema `json:"-" yaml:"-"`
	SchemaOrder  []string

	SecuritySchemes map[string]RawSecurityScheme `json:"-" yaml:"-"`
	SecurityOrder   []string
}

// RawInfo mirrors the OpenAPI `info` object.
type RawInfo struct {
	Title       string      `json:"title" yaml:"title"`
	Version     string      `json:"version" yaml:"version"`
	Description string      `json:"description" yaml:"description"`
	Contact     *RawContact `json:"contact" yaml:"contact"`
	License     *RawLicense `json:"license" yaml:"license"`
}

type RawContact struct {
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
}

type RawLicense struct {
	Name string `json:"name" yaml:"name"`
}

// RawServer mirrors one `servers[]` entry.
type RawServer struct {
	URL string `json:"url" yaml:"url"`
}

// RawPathItem holds the per-method operations and path-level parameters of
// one `paths` entry.
type RawPathItem struct {
	Parameters []RawParameter           `json:"parameters" yaml:"parameters"`
	Operations map[string]RawOperation // keyed by upper-cased HTTP method
}

// RawOperation mirrors one HTTP-method operation object.
type RawOperation struct {
	Tags        []string             `json:"tags" yaml:"tags"`
	Summary     string               `json:"summary" yaml:"summary"`
	Description string               `json:"description" yaml:"description"`
	OperationID string               `json:"operationId" yaml:"operationId"`
	Parameters  []RawParameter       `json:"parameters" yaml:"parameters"`
	RequestBody *RawRequestBody      `json:"requestBody" yaml:"requestBody"`
	Responses   map[string]RawResponse `json:"responses" yaml:"responses"`
	Deprecated  bool                 `json:"deprecated" yaml:"deprecated"`
	Security    []map[string][]string `json:"security" yaml:"security"`

	ExtensionKeys []string
	Extensions    map[string]interface{}
}

// RawParameter mirrors one parameter object (inline schema collapsed to a
// type string; a $ref schema is kept as SchemaRef).
type RawParameter struct {
	Name        string      `json:"name" yaml:"name"`
	In          string      `json:"in" yaml:"in"`
	Required    bool        `json:"required" yaml:"required"`
	Description string      `json:"description" yaml:"description"`
	Example     interface{} `json:"example" yaml:"example"`
	SchemaRef   string      // bare name, set when schema is a $ref
	SchemaType  string      // set when schema is inline
}

// RawMediaType mirrors one content-type entry.
type RawMediaType struct {
	ContentType string
	SchemaRef   string
	Example     interface{}
}

// RawRequestBody mirrors the `requestBody` object.
type RawRequestBody struct {
	Required    bool           `json:"required" yaml:"required"`
	Description string         `json:"description" yaml:"description"`
	Content     []RawMediaType `json:"-" yaml:"-"`
}

// RawResponse mirrors one status-code response object.
type RawResponse struct {
	Description string         `json:"description" yaml:"description"`
	Content     []RawMediaType `json:"-" yaml:"-"`
}

// RawSchema mirrors one `components.schemas` entry. $ref targets in nested
// positions (properties, items, composition lists) are recorded as bare
// names in the *Ref fields; everything else is copied through.
type RawSchema struct {
	Type        string                 `json:"type" yaml:"type"`
	Format      string                 `json:"format" yaml:"format"`
	Title       string                 `json:"title" yaml:"title"`
	Description string                 `json:"description" yaml:"description"`
	Properties  []RawProperty          `json:"-" yaml:"-"`
	Required    []string               `json:"required" yaml:"required"`
	ItemsRef    string                 `json:"-" yaml:"-"`
	ItemsInline *RawSchema             `json:"-" yaml:"-"`

	AdditionalPropertiesRef    string
	AdditionalPropertiesBool   *bool
	AdditionalPropertiesInline *RawSchema

	Composition     string // "allOf" | "oneOf" | "anyOf" | ""
	CompositionRefs []RawSchemaOrRef

	Minimum, Maximum     *float64
	MinLength, MaxLength *int
	Pattern              string
	MultipleOf           *float64
	Enum                 []interface{}
	Const                interface{}

	Discriminator string
	Deprecated    bool

	Example  interface{}
	Examples map[string]interface{}
	Default  interface{}

	ExtensionKeys []string
	Extensions    map[string]interface{}

	DependsOn []string // every $ref encountered anywhere in this schema's body
}

// RawSchemaOrRef is either a bare $ref name or an inline schema.
type RawSchemaOrRef struct {
	Ref    string
	Inline *RawSchema
}

// RawProperty is one named member of an object schema.
type RawProperty struct {
	Name string
	Ref  string
	Inline *RawSchema
}

// RawSecurityScheme mirrors one `components.securitySchemes` entry.
type RawSecurityScheme struct {
	Type             string            `json:"type" yaml:"type"`
	Description      string            `json:"description" yaml:"description"`
	Name             string            `json:"name" yaml:"name"` // apiKey header/query/cookie name
	In               string            `json:"in" yaml:"in"`
	Scheme           string            `json:"scheme" yaml:"scheme"`
	BearerFormat     string            `json:"bearerFormat" yaml:"bearerFormat"`
	OpenIDConnectURL string            `json:"openIdConnectUrl" yaml:"openIdConnectUrl"`
	Flows            map[string]RawOAuthFlow `json:"flows" yaml:"flows"`
}

type RawOAuthFlow struct {
	AuthorizationURL string            `json:"authorizationUrl" yaml:"authorizationUrl"`
	TokenURL         string            `json:"tokenUrl" yaml:"tokenUrl"`
	RefreshURL       string            `json:"refreshUrl" yaml:"refreshUrl"`
	Scopes           map[string]string `json:"scopes" yaml:"scopes"`
}

// Diagnostic is one parse-time error or warning, keyed to a location.
type Diagnostic struct {
	Pointer string `json:"pointer"`
	Message string `json:"message"`
	Offset  int64  `json:"offset,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// Metrics summarizes one parse run (spec §4.1 contract).
type Metrics struct {
	BytesRead   int64
	PathCount   int
	SchemaCount int
}

// Progress is emitted at a configurable byte interval while parsing.
type Progress struct {
	BytesRead int64
}

// Options configures a parse run.
type Options struct {
	ProgressIntervalBytes int64 // default ~2MB
	ValidateEnvelope      bool  // default true
	DeepValidate          bool  // optional kin-openapi pass, default false
	MaxBytes              int64 // 0 = unbounded
	Progress              chan<- Progress
}

// DefaultOptions returns the spec's defaults (§4.1).
func DefaultOptions() Options {
	return Options{
		ProgressIntervalBytes: 2 << 20,
		ValidateEnvelope:      true,
	}
}

// ErrParseFailed is returned when the source cannot be read, its root is not
// a JSON object or YAML mapping, a JSON `paths` or `components` section is
// not a well-formed object, or the document declares neither an openapi nor
// a swagger version. A missing or empty `info` does not cause it; that is
// reported as an error diagnostic when ValidateEnvelope is set.
type ErrParseFailed struct {
	Reason string
}

func (e *ErrParseFailed) Error() string { return "parse failed: " + e.Reason }

// rawMessageOrNil is an alias for json.RawMessage; neither decoder refers to
// it.
type rawMessageOrNil = json.RawMessage
