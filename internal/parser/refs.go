package parser

import "strings"

// refToBareName collapses any of the four $ref spellings the spec calls out
// (bare name, components/schemas/Name, #/components/schemas/Name,
// #/definitions/Name) down to the bare schema name (spec §4.7 "tool-surface
// name normalization", reused here so RawSchema.DependsOn is already
// comparable against SchemaOrder).
func refToBareName(ref string) string {
	ref = strings.TrimPrefix(ref, "#/")
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

// collectSchemaDependsOn walks a RawSchema's body and returns every $ref
// target it mentions, directly or through a nested inline schema.
func collectSchemaDependsOn(s *RawSchema) []string {
	var deps []string
	var visit func(*RawSchema)
	visitRef := func(r RawSchemaOrRef) {
		if r.Ref != "" {
			deps = append(deps, r.Ref)
		} else if r.Inline != nil {
			visit(r.Inline)
		}
	}
	visit = func(s *RawSchema) {
		if s == nil {
			return
		}
		for _, p := range s.Properties {
			if p.Ref != "" {
				deps = append(deps, p.Ref)
			} else if p.Inline != nil {
				visit(p.Inline)
			}
		}
		if s.ItemsRef != "" {
			deps = append(deps, s.ItemsRef)
		} else if s.ItemsInline != nil {
			visit(s.ItemsInline)
		}
		if s.AdditionalPropertiesRef != "" {
			deps = append(deps, s.AdditionalPropertiesRef)
		} else if s.AdditionalPropertiesInline != nil {
			visit(s.AdditionalPropertiesInline)
		}
		for _, c := range s.CompositionRefs {
			visitRef(c)
		}
	}
	visit(s)
	return dedupeStrings(deps)
}

func dedupeStrings(in []string) []string {
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
