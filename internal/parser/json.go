package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// countingReader tracks bytes consumed so progress events and the final
// Metrics.BytesRead can be reported without buffering the source twice.
type countingReader struct {
	r     io.Reader
	n     int64
	onTap func(int64)
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	if c.onTap != nil {
		c.onTap(c.n)
	}
	return n, err
}

// ParseJSON streams a JSON OpenAPI/Swagger document into a RawDocument. Only
// `paths` and `components.schemas` are decoded entry-by-entry off the token
// stream; `components.securitySchemes` and the small top-level values (info,
// servers) are each decoded as one value (spec §4.1).
func ParseJSON(r io.Reader, opts Options) (*RawDocument, []Diagnostic, []Diagnostic, Metrics, error) {
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

	doc := &RawDocument{
		Paths:           map[string]RawPathItem{},
		Schemas:         map[string]RawSchema{},
		SecuritySchemes: map[string]RawSecurityScheme{},
	}

	dec := json.NewDecoder(cr)
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, nil, Metrics{}, &ErrParseFailed{Reason: "document is not a JSON object: " + err.Error()}
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, nil, Metrics{}, &ErrParseFailed{Reason: "document root is not a JSON object"}
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, nil, Metrics{}, &ErrParseFailed{Reason: err.Error()}
		}
		key, _ := keyTok.(string)

		switch key {
		case "openapi":
			dec.Decode(&doc.OpenAPI)
		case "swagger":
			dec.Decode(&doc.Swagger)
		case "info":
			if err := dec.Decode(&doc.Info); err != nil {
				errs = append(errs, Diagnostic{Pointer: "/info", Message: err.Error()})
			}
		case "servers":
			dec.Decode(&doc.Servers)
		case "paths":
			pe, pw, err := streamPathsJSON(dec, doc)
			errs, warns = append(errs, pe...), append(warns, pw...)
			if err != nil {
				return nil, errs, warns, Metrics{BytesRead: cr.n}, &ErrParseFailed{Reason: "paths: " + err.Error()}
			}
		case "components":
			ce, cw, err := streamComponentsJSON(dec, doc)
			errs, warns = append(errs, ce...), append(warns, cw...)
			if err != nil {
				return nil, errs, warns, Metrics{BytesRead: cr.n}, &ErrParseFailed{Reason: "components: " + err.Error()}
			}
		default:
			var skip json.RawMessage
			dec.Decode(&skip)
		}
	}
	dec.Token() // closing '}'

	metrics := Metrics{BytesRead: cr.n, PathCount: len(doc.Paths), SchemaCount: len(doc.Schemas)}

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

func streamPathsJSON(dec *json.Decoder, doc *RawDocument) (errs, warns []Diagnostic, err error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("expected object")
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return errs, warns, err
		}
		path, _ := keyTok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return errs, warns, fmt.Errorf("path %q: %w", path, err)
		}
		item, ie, iw := decodePathItemJSON(path, raw)
		doc.Paths[path] = item
		doc.PathOrder = append(doc.PathOrder, path)
		errs, warns = append(errs, ie...), append(warns, iw...)
	}
	_, err = dec.Token()
	return errs, warns, err
}

func streamComponentsJSON(dec *json.Decoder, doc *RawDocument) (errs, warns []Diagnostic, err error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("expected object")
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return errs, warns, err
		}
		key, _ := keyTok.(string)
		switch key {
		case "schemas":
			se, sw, err := streamSchemasJSON(dec, doc)
			errs, warns = append(errs, se...), append(warns, sw...)
			if err != nil {
				return errs, warns, err
			}
		case "securitySchemes":
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return errs, warns, err
			}
			fields, err := decodeOrderedObject(raw)
			if err != nil {
				return errs, warns, err
			}
			for _, f := range fields {
				var scheme RawSecurityScheme
				if err := json.Unmarshal(f.Value, &scheme); err != nil {
					errs = append(errs, Diagnostic{Pointer: "/components/securitySchemes/" + f.Key, Message: err.Error()})
					continue
				}
				doc.SecuritySchemes[f.Key] = scheme
				doc.SecurityOrder = append(doc.SecurityOrder, f.Key)
			}
		default:
			var skip json.RawMessage
			dec.Decode(&skip)
		}
	}
	_, err = dec.Token()
	return errs, warns, err
}

func streamSchemasJSON(dec *json.Decoder, doc *RawDocument) (errs, warns []Diagnostic, err error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("expected object")
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return errs, warns, err
		}
		name, _ := keyTok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return errs, warns, fmt.Errorf("schema %q: %w", name, err)
		}
		schema, serr := decodeSchemaJSON(raw)
		if serr != nil {
			errs = append(errs, Diagnostic{Pointer: "/components/schemas/" + name, Message: serr.Error()})
			continue
		}
		schema.DependsOn = collectSchemaDependsOn(&schema)
		doc.Schemas[name] = schema
		doc.SchemaOrder = append(doc.SchemaOrder, name)
	}
	_, err = dec.Token()
	return errs, warns, err
}

func decodePathItemJSON(path string, raw json.RawMessage) (RawPathItem, []Diagnostic, []Diagnostic) {
	var errs, warns []Diagnostic
	item := RawPathItem{Operations: map[string]RawOperation{}}

	fields, err := decodeOrderedObject(raw)
	if err != nil {
		errs = append(errs, Diagnostic{Pointer: "/paths/" + path, Message: err.Error()})
		return item, errs, warns
	}

	methods := map[string]bool{"get": true, "put": true, "post": true, "delete": true, "options": true, "head": true, "patch": true, "trace": true}
	for _, f := range fields {
		lower := strings.ToLower(f.Key)
		switch {
		case f.Key == "parameters":
			var raws []json.RawMessage
			json.Unmarshal(f.Value, &raws)
			for _, pr := range raws {
				item.Parameters = append(item.Parameters, decodeParameterJSON(pr))
			}
		case methods[lower]:
			op, oe, ow := decodeOperationJSON(f.Value)
			item.Operations[strings.ToUpper(lower)] = op
			errs, warns = append(errs, oe...), append(warns, ow...)
		case strings.HasPrefix(f.Key, "x-"), f.Key == "$ref", f.Key == "summary", f.Key == "description":
			// vendor extensions / path-level refs and descriptions are not
			// tool-surface relevant at this layer; silently ignored.
		}
	}
	return item, errs, warns
}

func decodeOperationJSON(raw json.RawMessage) (RawOperation, []Diagnostic, []Diagnostic) {
	var errs, warns []Diagnostic
	var op RawOperation

	fields, err := decodeOrderedObject(raw)
	if err != nil {
		errs = append(errs, Diagnostic{Message: err.Error()})
		return op, errs, warns
	}

	var tagsRaw, summaryRaw, descRaw, opIDRaw, paramsRaw, rbRaw, respRaw, depRaw, secRaw json.RawMessage
	known := map[string]*json.RawMessage{
		"tags": &tagsRaw, "summary": &summaryRaw, "description": &descRaw,
		"operationId": &opIDRaw, "parameters": &paramsRaw, "requestBody": &rbRaw,
		"responses": &respRaw, "deprecated": &depRaw, "security": &secRaw,
	}
	extKeys, ext, _ := splitExtensions(fields, known)
	op.ExtensionKeys, op.Extensions = extKeys, ext

	json.Unmarshal(tagsRaw, &op.Tags)
	json.Unmarshal(summaryRaw, &op.Summary)
	json.Unmarshal(descRaw, &op.Description)
	json.Unmarshal(opIDRaw, &op.OperationID)
	json.Unmarshal(depRaw, &op.Deprecated)
	json.Unmarshal(secRaw, &op.Security)

	if len(paramsRaw) > 0 {
		var raws []json.RawMessage
		json.Unmarshal(paramsRaw, &raws)
		for _, pr := range raws {
			op.Parameters = append(op.Parameters, decodeParameterJSON(pr))
		}
	}
	if len(rbRaw) > 0 {
		op.RequestBody = decodeRequestBodyJSON(rbRaw)
	}
	if len(respRaw) > 0 {
		op.Responses = map[string]RawResponse{}
		respFields, err := decodeOrderedObject(respRaw)
		if err != nil {
			warns = append(warns, Diagnostic{Message: "responses: " + err.Error()})
		}
		for _, rf := range respFields {
			op.Responses[rf.Key] = decodeResponseJSON(rf.Value)
		}
	}
	return op, errs, warns
}

func decodeParameterJSON(raw json.RawMessage) RawParameter {
	var p RawParameter
	fields, err := decodeOrderedObject(raw)
	if err != nil {
		return p
	}
	var schemaRaw json.RawMessage
	for _, f := range fields {
		switch f.Key {
		case "name":
			json.Unmarshal(f.Value, &p.Name)
		case "in":
			json.Unmarshal(f.Value, &p.In)
		case "required":
			json.Unmarshal(f.Value, &p.Required)
		case "description":
			json.Unmarshal(f.Value, &p.Description)
		case "example":
			json.Unmarshal(f.Value, &p.Example)
		case "schema":
			schemaRaw = f.Value
		}
	}
	if len(schemaRaw) > 0 {
		ref := refOrInlineJSON(schemaRaw)
		if ref.Ref != "" {
			p.SchemaRef = ref.Ref
		} else if ref.Inline != nil {
			p.SchemaType = ref.Inline.Type
		}
	}
	return p
}

func decodeRequestBodyJSON(raw json.RawMessage) *RawRequestBody {
	rb := &RawRequestBody{}
	fields, err := decodeOrderedObject(raw)
	if err != nil {
		return rb
	}
	for _, f := range fields {
		switch f.Key {
		case "required":
			json.Unmarshal(f.Value, &rb.Required)
		case "description":
			json.Unmarshal(f.Value, &rb.Description)
		case "content":
			rb.Content = decodeContentJSON(f.Value)
		}
	}
	return rb
}

func decodeResponseJSON(raw json.RawMessage) RawResponse {
	var resp RawResponse
	fields, err := decodeOrderedObject(raw)
	if err != nil {
		return resp
	}
	for _, f := range fields {
		switch f.Key {
		case "description":
			json.Unmarshal(f.Value, &resp.Description)
		case "content":
			resp.Content = decodeContentJSON(f.Value)
		}
	}
	return resp
}

func decodeContentJSON(raw json.RawMessage) []RawMediaType {
	fields, err := decodeOrderedObject(raw)
	if err != nil {
		return nil
	}
	var out []RawMediaType
	for _, f := range fields {
		mt := RawMediaType{ContentType: f.Key}
		mFields, _ := decodeOrderedObject(f.Value)
		for _, mf := range mFields {
			switch mf.Key {
			case "schema":
				ref := refOrInlineJSON(mf.Value)
				mt.SchemaRef = ref.Ref
			case "example":
				json.Unmarshal(mf.Value, &mt.Example)
			}
		}
		out = append(out, mt)
	}
	return out
}

// decodeSchemaJSON decodes one components.schemas entry, recording $ref
// targets at every nested position as bare names.
func decodeSchemaJSON(raw json.RawMessage) (RawSchema, error) {
	var s RawSchema
	fields, err := decodeOrderedObject(raw)
	if err != nil {
		return s, err
	}

	var propsRaw, itemsRaw, addlRaw, allOfRaw, oneOfRaw, anyOfRaw, enumRaw, discRaw json.RawMessage
	known := map[string]*json.RawMessage{
		"properties": &propsRaw, "items": &itemsRaw, "additionalProperties": &addlRaw,
		"allOf": &allOfRaw, "oneOf": &oneOfRaw, "anyOf": &anyOfRaw,
		"enum": &enumRaw, "discriminator": &discRaw,
	}

	extKeys, ext, unknown := splitExtensions(fields, known)
	s.ExtensionKeys, s.Extensions = extKeys, ext

	for _, f := range unknown {
		switch f.Key {
		case "type":
			json.Unmarshal(f.Value, &s.Type)
		case "format":
			json.Unmarshal(f.Value, &s.Format)
		case "title":
			json.Unmarshal(f.Value, &s.Title)
		case "description":
			json.Unmarshal(f.Value, &s.Description)
		case "pattern":
			json.Unmarshal(f.Value, &s.Pattern)
		case "deprecated":
			json.Unmarshal(f.Value, &s.Deprecated)
		case "required":
			json.Unmarshal(f.Value, &s.Required)
		case "minimum":
			s.Minimum = decodeFloatPtr(f.Value)
		case "maximum":
			s.Maximum = decodeFloatPtr(f.Value)
		case "minLength":
			s.MinLength = decodeIntPtr(f.Value)
		case "maxLength":
			s.MaxLength = decodeIntPtr(f.Value)
		case "multipleOf":
			s.MultipleOf = decodeFloatPtr(f.Value)
		case "const":
			json.Unmarshal(f.Value, &s.Const)
		case "example":
			json.Unmarshal(f.Value, &s.Example)
		case "default":
			json.Unmarshal(f.Value, &s.Default)
		case "examples":
			json.Unmarshal(f.Value, &s.Examples)
		}
	}

	if len(propsRaw) > 0 {
		propFields, _ := decodeOrderedObject(propsRaw)
		for _, pf := range propFields {
			ref := refOrInlineJSON(pf.Value)
			s.Properties = append(s.Properties, RawProperty{Name: pf.Key, Ref: ref.Ref, Inline: ref.Inline})
		}
	}
	if len(itemsRaw) > 0 {
		ref := refOrInlineJSON(itemsRaw)
		s.ItemsRef, s.ItemsInline = ref.Ref, ref.Inline
	}
	if len(addlRaw) > 0 {
		trimmed := strings.TrimSpace(string(addlRaw))
		if trimmed == "true" || trimmed == "false" {
			var b bool
			json.Unmarshal(addlRaw, &b)
			s.AdditionalPropertiesBool = &b
		} else {
			ref := refOrInlineJSON(addlRaw)
			s.AdditionalPropertiesRef, s.AdditionalPropertiesInline = ref.Ref, ref.Inline
		}
	}
	switch {
	case len(allOfRaw) > 0:
		s.Composition, s.CompositionRefs = "allOf", decodeSchemaOrRefListJSON(allOfRaw)
	case len(oneOfRaw) > 0:
		s.Composition, s.CompositionRefs = "oneOf", decodeSchemaOrRefListJSON(oneOfRaw)
	case len(anyOfRaw) > 0:
		s.Composition, s.CompositionRefs = "anyOf", decodeSchemaOrRefListJSON(anyOfRaw)
	}
	if len(enumRaw) > 0 {
		json.Unmarshal(enumRaw, &s.Enum)
	}
	if len(discRaw) > 0 {
		var d struct {
			PropertyName string `json:"propertyName"`
		}
		json.Unmarshal(discRaw, &d)
		s.Discriminator = d.PropertyName
	}

	return s, nil
}

func decodeSchemaOrRefListJSON(raw json.RawMessage) []RawSchemaOrRef {
	var raws []json.RawMessage
	json.Unmarshal(raw, &raws)
	out := make([]RawSchemaOrRef, 0, len(raws))
	for _, r := range raws {
		out = append(out, refOrInlineJSON(r))
	}
	return out
}

func refOrInlineJSON(raw json.RawMessage) RawSchemaOrRef {
	var probe struct {
		Ref string `json:"$ref"`
	}
	json.Unmarshal(raw, &probe)
	if probe.Ref != "" {
		return RawSchemaOrRef{Ref: refToBareName(probe.Ref)}
	}
	s, err := decodeSchemaJSON(raw)
	if err != nil {
		return RawSchemaOrRef{}
	}
	return RawSchemaOrRef{Inline: &s}
}

func decodeFloatPtr(raw json.RawMessage) *float64 {
	var f float64
	if json.Unmarshal(raw, &f) != nil {
		return nil
	}
	return &f
}

func decodeIntPtr(raw json.RawMessage) *int {
	var n int
	if json.Unmarshal(raw, &n) != nil {
		return nil
	}
	return &n
}
