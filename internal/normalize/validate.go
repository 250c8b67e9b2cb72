package normalize

import "openapi-mcp-navigator/internal/model"

// validateConsistency runs the remaining structural checks of spec §4.2
// that are not already covered by parameter merging (path-param
// consistency) or resolveReferenceGraph (outbound-deps-must-resolve):
// required-vs-defined properties, items-required-on-arrays, discriminator
// must name a declared property, and security requirements must reference a
// known scheme.
func validateConsistency(doc *model.APIDocument) []model.Warning {
	var warns []model.Warning

	for _, s := range doc.Schemas {
		propNames := make(map[string]bool, len(s.Properties))
		for _, p := range s.Properties {
			propNames[p.Name] = true
		}
		composed := len(s.CompositionList) > 0

		for _, req := range s.Required {
			if !propNames[req] && !composed {
				warns = append(warns, model.Warning{
					Pointer: "components/schemas/" + s.Name,
					Message: "required property " + req + " is not declared in properties",
				})
			}
		}
		if s.Type == "array" && s.Items == nil {
			warns = append(warns, model.Warning{
				Pointer: "components/schemas/" + s.Name,
				Message: "array schema declares no items",
			})
		}
		if s.Discriminator != "" && !propNames[s.Discriminator] && !composed {
			warns = append(warns, model.Warning{
				Pointer: "components/schemas/" + s.Name,
				Message: "discriminator property " + s.Discriminator + " is not declared",
			})
		}
	}

	schemeNames := make(map[string]bool, len(doc.SecuritySchemes))
	for _, sc := range doc.SecuritySchemes {
		schemeNames[sc.Name] = true
	}
	for _, ep := range doc.Endpoints {
		for _, sec := range ep.Security {
			if !schemeNames[sec.SchemeName] {
				warns = append(warns, model.Warning{
					Pointer: ep.Path + " " + ep.Method,
					Message: "security requirement references unknown scheme " + sec.SchemeName,
				})
			}
		}
	}
	return warns
}
