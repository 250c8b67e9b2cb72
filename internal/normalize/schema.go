package normalize

import (
	"openapi-mcp-navigator/internal/model"
	"openapi-mcp-navigator/internal/parser"
)

func normalizeSchemas(doc *parser.RawDocument) []model.Schema {
	out := make([]model.Schema, 0, len(doc.SchemaOrder))
	for _, name := range doc.SchemaOrder {
		raw := doc.Schemas[name]
		out = append(out, convertSchema(name, raw))
	}
	return out
}

func convertSchema(name string, raw parser.RawSchema) model.Schema {
	s := model.Schema{
		Name:          name,
		Type:          raw.Type,
		Format:        raw.Format,
		Title:         raw.Title,
		Description:   raw.Description,
		Required:      raw.Required,
		Minimum:       raw.Minimum,
		Maximum:       raw.Maximum,
		MinLength:     raw.MinLength,
		MaxLength:     raw.MaxLength,
		Pattern:       raw.Pattern,
		MultipleOf:    raw.MultipleOf,
		Enum:          raw.Enum,
		Const:         raw.Const,
		Example:       raw.Example,
		Examples:      raw.Examples,
		Default:       raw.Default,
		Discriminator: raw.Discriminator,
		Deprecated:    raw.Deprecated,
		Extensions:    raw.Extensions,
		ExtensionKeys: raw.ExtensionKeys,
		DependsOn:     dedupe(raw.DependsOn),
	}

	for _, p := range raw.Properties {
		s.Properties = append(s.Properties, model.Property{Name: p.Name, Schema: convertSchemaOrRef(p.Ref, p.Inline)})
	}
	if raw.ItemsRef != "" || raw.ItemsInline != nil {
		v := convertSchemaOrRef(raw.ItemsRef, raw.ItemsInline)
		s.Items = &v
	}
	if raw.AdditionalPropertiesBool != nil {
		s.AdditionalPropertiesBool = raw.AdditionalPropertiesBool
	} else if raw.AdditionalPropertiesRef != "" || raw.AdditionalPropertiesInline != nil {
		v := convertSchemaOrRef(raw.AdditionalPropertiesRef, raw.AdditionalPropertiesInline)
		s.AdditionalProperties = &v
	}
	if raw.Composition != "" {
		s.Composition = model.CompositionKind(raw.Composition)
		for _, c := range raw.CompositionRefs {
			s.CompositionList = append(s.CompositionList, convertSchemaOrRef(c.Ref, c.Inline))
		}
	}
	return s
}

func convertSchemaOrRef(ref string, inline *parser.RawSchema) model.SchemaOrRef {
	if ref != "" {
		return model.SchemaOrRef{Ref: ref}
	}
	if inline == nil {
		return model.SchemaOrRef{}
	}
	nested := convertSchema("", *inline)
	return model.SchemaOrRef{Inline: &nested}
}
