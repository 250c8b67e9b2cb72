package normalize

import (
	"strings"

	"openapi-mcp-navigator/internal/model"
)

// resolveReferenceGraph classifies every outbound $ref as resolved or
// unresolved and finds reference cycles among schemas. It deliberately uses
// a name->index map rather than storing pointers on each Schema: the arena
// (doc.Schemas) stays the single owner of schema data and edges are
// integer lookups, not back-pointers (spec §9 redesign note on the
// reference graph).
func resolveReferenceGraph(doc *model.APIDocument) (warns []model.Warning, refErrs []model.RefError) {
	index := make(map[string]int, len(doc.Schemas))
	for i, s := range doc.Schemas {
		index[s.Name] = i
	}

	for i := range doc.Schemas {
		for _, dep := range doc.Schemas[i].DependsOn {
			if _, ok := index[dep]; !ok {
				refErrs = append(refErrs, model.RefError{
					Pointer: "components/schemas/" + doc.Schemas[i].Name,
					Target:  dep,
				})
			}
		}
	}
	for _, ep := range doc.Endpoints {
		for _, dep := range ep.SchemaDeps {
			if _, ok := index[dep]; !ok {
				refErrs = append(refErrs, model.RefError{
					Pointer: ep.Path + " " + ep.Method,
					Target:  dep,
				})
			}
		}
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make([]int, len(doc.Schemas))
	var path []string
	seenCycles := map[string]bool{}

	var visit func(i int)
	visit = func(i int) {
		color[i] = gray
		path = append(path, doc.Schemas[i].Name)
		defer func() {
			path = path[:len(path)-1]
			color[i] = black
		}()

		for _, dep := range doc.Schemas[i].DependsOn {
			j, ok := index[dep]
			if !ok {
				continue
			}
			switch color[j] {
			case white:
				visit(j)
			case gray:
				cycle := append(append([]string{}, path...), doc.Schemas[j].Name)
				key := strings.Join(cycle, ">")
				if !seenCycles[key] {
					seenCycles[key] = true
					warns = append(warns, model.Warning{
						Pointer: "components/schemas/" + doc.Schemas[i].Name,
						Message: "circular reference: " + strings.Join(cycle, " -> "),
					})
				}
			}
		}
	}
	for i := range doc.Schemas {
		if color[i] == white {
			visit(i)
		}
	}
	return warns, refErrs
}

// computeUsage inverts each Schema's DependsOn edges into UsedBy on the
// target schema (the usage sub-pass, spec §4.2).
func computeUsage(doc *model.APIDocument) {
	usage := make(map[string][]string)
	for _, s := range doc.Schemas {
		for _, dep := range s.DependsOn {
			usage[dep] = append(usage[dep], s.Name)
		}
	}
	for i := range doc.Schemas {
		doc.Schemas[i].UsedBy = dedupe(usage[doc.Schemas[i].Name])
	}
}
