package parser

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseYAML streams a YAML OpenAPI/Swagger document into a RawDocument. The
// source is decoded once into a yaml.Node tree (there is no token-level
// streaming API in yaml.v3), but `paths` and `components.schemas` entries
// are walked and converted one mapping pair at a time and their Node content
// is released as we go, rather than materializing a parallel
// map[string]interface{} tree the way a naive yaml.Unmarshal into `any`
// would (spec §4.1).
func ParseYAML(r io.Reader, opts Options) (*RawDocument, []Diagnostic, []Diagnostic, Metrics, error) {
	var errs, warns []Diagnostic

	interval := opts.ProgressIntervalBytes
	if interval <= 0 {
		interval = DefaultOptions().ProgressIntervalBytes
	}
	nextProgress := interval
	cr := &countingReader{r: io.LimitReader(r, maxReadBytes(opts))}
	cr.onTap = func(n int64) {
		if opts.Progress != nil && n >= nextProgress {
			select {
			case opts.Progress <- Progress{BytesRead: n}:
			default:
			}
			nextProgress += interval
		}
	}
	data, err := io.ReadAll(cr)
	if err != nil {
		return nil, nil, nil, Metrics{}, &ErrParseFailed{Reason: err.Error()}
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, nil, nil, Metrics{}, &ErrParseFailed{Reason: "invalid YAML: " + err.Error()}
	}
	if len(root.Content) == 0 {
		return nil, nil, nil, Metrics{}, &ErrParseFailed{Reason: "empty document"}
	}
	docNode := root.Content[0]
	if docNode.Kind != yaml.MappingNode {
		return nil, nil, nil, Metrics{}, &ErrParseFailed{Reason: "document root is not a mapping"}
	}

	doc := &RawDocument{
		Paths:           map[string]RawPathItem{},
		Schemas:         map[string]RawSchema{},
		SecuritySchemes: map[string]RawSecurityScheme{},
	}

	for i := 0; i+1 < len(docNode.Content); i += 2 {
		key := docNode.Content[i]
		val := docNode.Content[i+1]
		switch key.Value {
		case "openapi":
			doc.OpenAPI = val.Value
		case "swagger":
			doc.Swagger = val.Value
		case "info":
			val.Decode(&doc.Info)
		case "servers":
			val.Decode(&doc.Servers)
		case "paths":
			pe, pw := walkPathsYAML(val, doc)
			errs, warns = append(errs, pe...), append(warns, pw...)
		case "components":
			ce, cw := walkComponentsYAML(val, doc)
			errs, warns = append(errs, ce...), append(warns, cw...)
		}
		// free the decoded node's children once handled, to avoid retaining
		// both the yaml.Node tree and the typed RawDocument simultaneously
		// for the large paths/components sections.
		if key.Value == "paths" || key.Value == "components" {
			val.Content = nil
		}
	}

	metrics := Metrics{BytesRead: int64(len(data)), PathCount: len(doc.Paths), SchemaCount: len(doc.Schemas)}

	if opts.ValidateEnvelope {
		if doc.Info.Title == "" {
			errs = append(errs, Diagnostic{Pointer: "/info/title", Message: "missing required info.title"})
		}
		if len(doc.Paths) == 0 {
			warns = append(warns, Diagnostic{Pointer: "/paths", Message: "document declares no paths"})
		}
	}
	if doc.OpenAPI == "" && doc.Swagger == "" {
		return nil, errs, warns, metrics, &ErrParseFailed{Reason: "document declares neither openapi nor swagger version"}
	}
	return doc, errs, warns, metrics, nil
}

func maxReadBytes(opts Options) int64 {
	if opts.MaxBytes > 0 {
		return opts.MaxBytes
	}
	return 1 << 34 // effectively unbounded absent an explicit cap
}

func walkPathsYAML(node *yaml.Node, doc *RawDocument) (errs, warns []Diagnostic) {
	if node.Kind != yaml.MappingNode {
		return nil, nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		pathKey := node.Content[i].Value
		item, ie, iw := decodePathItemYAML(pathKey, node.Content[i+1])
		doc.Paths[pathKey] = item
		doc.PathOrder = append(doc.PathOrder, pathKey)
		errs, warns = append(errs, ie...), append(warns, iw...)
		node.Content[i+1] = nil
	}
	return errs, warns
}

func walkComponentsYAML(node *yaml.Node, doc *RawDocument) (errs, warns []Diagnostic) {
	if node.Kind != yaml.MappingNode {
		return nil, nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		switch node.Content[i].Value {
		case "schemas":
			se, sw := walkSchemasYAML(node.Content[i+1], doc)
			errs, warns = append(errs, se...), append(warns, sw...)
		case "securitySchemes":
			sec := node.Content[i+1]
			if sec.Kind != yaml.MappingNode {
				continue
			}
			for j := 0; j+1 < len(sec.Content); j += 2 {
				name := sec.Content[j].Value
				var scheme RawSecurityScheme
				if err := sec.Content[j+1].Decode(&scheme); err != nil {
					errs = append(errs, Diagnostic{Pointer: "/components/securitySchemes/" + name, Message: err.Error()})
					continue
				}
				doc.SecuritySchemes[name] = scheme
				doc.SecurityOrder = append(doc.SecurityOrder, name)
			}
		}
	}
	return errs, warns
}

func walkSchemasYAML(node *yaml.Node, doc *RawDocument) (errs, warns []Diagnostic) {
	if node.Kind != yaml.MappingNode {
		return nil, nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		schema, err := decodeSchemaYAML(node.Content[i+1])
		if err != nil {
			errs = append(errs, Diagnostic{Pointer: "/components/schemas/" + name, Message: err.Error()})
			node.Content[i+1] = nil
			continue
		}
		schema.DependsOn = collectSchemaDependsOn(&schema)
		doc.Schemas[name] = schema
		doc.SchemaOrder = append(doc.SchemaOrder, name)
		node.Content[i+1] = nil
	}
	return errs, warns
}

func decodePathItemYAML(path string, node *yaml.Node) (RawPathItem, []Diagnostic, []Diagnostic) {
	var errs, warns []Diagnostic
	item := RawPathItem{Operations: map[string]RawOperation{}}
	if node.Kind != yaml.MappingNode {
		errs = append(errs, Diagnostic{Pointer: "/paths/" + path, Message: "path item is not a mapping"})
		return item, errs, warns
	}
	methods := map[string]bool{"get": true, "put": true, "post": true, "delete": true, "options": true, "head": true, "patch": true, "trace": true}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		val := node.Content[i+1]
		lower := strings.ToLower(key)
		switch {
		case key == "parameters":
			for _, pn := range val.Content {
				item.Parameters = append(item.Parameters, decodeParameterYAML(pn))
			}
		case methods[lower]:
			op, oe, ow := decodeOperationYAML(val)
			item.Operations[strings.ToUpper(lower)] = op
			errs, warns = append(errs, oe...), append(warns, ow...)
		}
	}
	return item, errs, warns
}

func decodeOperationYAML(node *yaml.Node) (RawOperation, []Diagnostic, []Diagnostic) {
	var errs, warns []Diagnostic
	var op RawOperation
	if node.Kind != yaml.MappingNode {
		return op, errs, warns
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		val := node.Content[i+1]
		switch key {
		case "tags":
			val.Decode(&op.Tags)
		case "summary":
			op.Summary = val.Value
		case "description":
			op.Description = val.Value
		case "operationId":
			op.OperationID = val.Value
		case "deprecated":
			val.Decode(&op.Deprecated)
		case "security":
			val.Decode(&op.Security)
		case "parameters":
			for _, pn := range val.Content {
				op.Parameters = append(op.Parameters, decodeParameterYAML(pn))
			}
		case "requestBody":
			op.RequestBody = decodeRequestBodyYAML(val)
		case "responses":
			op.Responses = map[string]RawResponse{}
			for j := 0; j+1 < len(val.Content); j += 2 {
				op.Responses[val.Content[j].Value] = decodeResponseYAML(val.Content[j+1])
			}
		default:
			if strings.HasPrefix(key, "x-") {
				var v interface{}
				if val.Decode(&v) == nil {
					if op.Extensions == nil {
						op.Extensions = map[string]interface{}{}
					}
					op.Extensions[key] = v
					op.ExtensionKeys = append(op.ExtensionKeys, key)
				}
			}
		}
	}
	return op, errs, warns
}

func decodeParameterYAML(node *yaml.Node) RawParameter {
	var p RawParameter
	if node.Kind != yaml.MappingNode {
		return p
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		val := node.Content[i+1]
		switch key {
		case "name":
			p.Name = val.Value
		case "in":
			p.In = val.Value
		case "required":
			val.Decode(&p.Required)
		case "description":
			p.Description = val.Value
		case "example":
			val.Decode(&p.Example)
		case "schema":
			ref := refOrInlineYAML(val)
			if ref.Ref != "" {
				p.SchemaRef = ref.Ref
			} else if ref.Inline != nil {
				p.SchemaType = ref.Inline.Type
			}
		}
	}
	return p
}

func decodeRequestBodyYAML(node *yaml.Node) *RawRequestBody {
	rb := &RawRequestBody{}
	if node.Kind != yaml.MappingNode {
		return rb
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		val := node.Content[i+1]
		switch key {
		case "required":
			val.Decode(&rb.Required)
		case "description":
			rb.Description = val.Value
		case "content":
			rb.Content = decodeContentYAML(val)
		}
	}
	return rb
}

func decodeResponseYAML(node *yaml.Node) RawResponse {
	var resp RawResponse
	if node.Kind != yaml.MappingNode {
		return resp
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		val := node.Content[i+1]
		switch key {
		case "description":
			resp.Description = val.Value
		case "content":
			resp.Content = decodeContentYAML(val)
		}
	}
	return resp
}

func decodeContentYAML(node *yaml.Node) []RawMediaType {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	var out []RawMediaType
	for i := 0; i+1 < len(node.Content); i += 2 {
		mt := RawMediaType{ContentType: node.Content[i].Value}
		mNode := node.Content[i+1]
		for j := 0; j+1 < len(mNode.Content); j += 2 {
			switch mNode.Content[j].Value {
			case "schema":
				ref := refOrInlineYAML(mNode.Content[j+1])
				mt.SchemaRef = ref.Ref
			case "example":
				mNode.Content[j+1].Decode(&mt.Example)
			}
		}
		out = append(out, mt)
	}
	return out
}

func decodeSchemaYAML(node *yaml.Node) (RawSchema, error) {
	var s RawSchema
	if node == nil {
		return s, fmt.Errorf("nil schema node")
	}
	if node.Kind != yaml.MappingNode {
		return s, nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		val := node.Content[i+1]
		switch key {
		case "type":
			s.Type = val.Value
		case "format":
			s.Format = val.Value
		case "title":
			s.Title = val.Value
		case "description":
			s.Description = val.Value
		case "pattern":
			s.Pattern = val.Value
		case "deprecated":
			val.Decode(&s.Deprecated)
		case "required":
			val.Decode(&s.Required)
		case "minimum":
			s.Minimum = decodeFloatPtrYAML(val)
		case "maximum":
			s.Maximum = decodeFloatPtrYAML(val)
		case "minLength":
			s.MinLength = decodeIntPtrYAML(val)
		case "maxLength":
			s.MaxLength = decodeIntPtrYAML(val)
		case "multipleOf":
			s.MultipleOf = decodeFloatPtrYAML(val)
		case "const":
			val.Decode(&s.Const)
		case "enum":
			val.Decode(&s.Enum)
		case "example":
			val.Decode(&s.Example)
		case "default":
			val.Decode(&s.Default)
		case "examples":
			val.Decode(&s.Examples)
		case "discriminator":
			var d struct {
				PropertyName string `yaml:"propertyName"`
			}
			val.Decode(&d)
			s.Discriminator = d.PropertyName
		case "properties":
			for j := 0; j+1 < len(val.Content); j += 2 {
				ref := refOrInlineYAML(val.Content[j+1])
				s.Properties = append(s.Properties, RawProperty{Name: val.Content[j].Value, Ref: ref.Ref, Inline: ref.Inline})
			}
		case "items":
			ref := refOrInlineYAML(val)
			s.ItemsRef, s.ItemsInline = ref.Ref, ref.Inline
		case "additionalProperties":
			if val.Tag == "!!bool" {
				var b bool
				val.Decode(&b)
				s.AdditionalPropertiesBool = &b
			} else {
				ref := refOrInlineYAML(val)
				s.AdditionalPropertiesRef, s.AdditionalPropertiesInline = ref.Ref, ref.Inline
			}
		case "allOf", "oneOf", "anyOf":
			var refs []RawSchemaOrRef
			for _, c := range val.Content {
				refs = append(refs, refOrInlineYAML(c))
			}
			s.Composition, s.CompositionRefs = key, refs
		default:
			if strings.HasPrefix(key, "x-") {
				var v interface{}
				if val.Decode(&v) == nil {
					if s.Extensions == nil {
						s.Extensions = map[string]interface{}{}
					}
					s.Extensions[key] = v
					s.ExtensionKeys = append(s.ExtensionKeys, key)
				}
			}
		}
	}
	return s, nil
}

func refOrInlineYAML(node *yaml.Node) RawSchemaOrRef {
	if node == nil || node.Kind != yaml.MappingNode {
		return RawSchemaOrRef{}
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == "$ref" {
			return RawSchemaOrRef{Ref: refToBareName(node.Content[i+1].Value)}
		}
	}
	s, err := decodeSchemaYAML(node)
	if err != nil {
		return RawSchemaOrRef{}
	}
	return RawSchemaOrRef{Inline: &s}
}

func decodeFloatPtrYAML(node *yaml.Node) *float64 {
	var f float64
	if node.Decode(&f) != nil {
		return nil
	}
	return &f
}

func decodeIntPtrYAML(node *yaml.Node) *int {
	var n int
	if node.Decode(&n) != nil {
		return nil
	}
	return &n
}
