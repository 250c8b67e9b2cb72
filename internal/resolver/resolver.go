// Package resolver implements the Schema Resolver (C7): bounded-depth,
// cycle-tracked $ref expansion for the getSchema tool and the code example
// generator (spec §4.7).
//
// Arena-plus-index, per the spec's §9 design note: schemas already live in
// model.APIDocument.Schemas as a dense slice; this package never chases a
// pointer graph, it resolves a name against doc.SchemaIndex and walks the
// dense slice with an explicit resolution stack.
package resolver

import (
	"strings"

	"openapi-mcp-navigator/internal/apperrors"
	"openapi-mcp-navigator/internal/model"
)

// Options controls one resolve call (spec §4.7 contract).
type Options struct {
	MaxDepth          int
	IncludeExamples   bool
	IncludeExtensions bool
}

// Resolved is the expanded tree returned to callers. Ref is set when this
// node is a verbatim, unexpanded reference (cycle hit or depth cap); in that
// case Inline is nil and every other field is zero.
type Resolved struct {
	Ref    string
	Inline *ResolvedSchema
}

// ResolvedSchema mirrors model.Schema but with Properties/Items/etc.
// expanded in place instead of left as SchemaOrRef indirections.
type ResolvedSchema struct {
	Name        string
	Type        string
	Format      string
	Title       string
	Description string
	Properties  []ResolvedProperty
	Required    []string
	Items       *Resolved

	Composition     model.CompositionKind
	CompositionList []Resolved

	Minimum, Maximum     *float64
	MinLength, MaxLength *int
	Pattern              string
	MultipleOf           *float64
	Enum                 []interface{}
	Const                interface{}
	HasConst             bool

	Discriminator string
	Deprecated    bool
	Extensions    map[string]interface{}
	ExtensionKeys []string

	// Example/Examples/Default are suppressed entirely when
	// Options.IncludeExamples is false (spec §4.7); they carry no
	// validation semantics, unlike Enum/Const above.
	Example  interface{}
	Examples map[string]interface{}
	Default  interface{}
}

// ResolvedProperty is one expanded object member.
type ResolvedProperty struct {
	Name   string
	Schema Resolved
}

// Result is the full resolve() output (spec §4.7 contract tuple).
type Result struct {
	Resolved         Resolved
	DependencyMap    map[string][]string // name -> names it directly depends on
	CircularRefs     []string            // e.g. "User -> Profile -> User"
	DepthReached     bool
	TotalDependencies int
}

// NormalizeComponentName reduces any of the tool-surface spellings to the
// bare schema name (spec §4.7 "Tool-surface parameter normalization").
func NormalizeComponentName(raw string) string {
	name := strings.TrimPrefix(raw, "#/")
	name = strings.TrimPrefix(name, "components/schemas/")
	name = strings.TrimPrefix(name, "definitions/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// Resolve expands schemaName within doc per opts, per spec §4.7.
func Resolve(doc *model.APIDocument, schemaName string, opts Options) (*Result, error) {
	name := NormalizeComponentName(schemaName)
	root, ok := doc.SchemaByName(name)
	if !ok {
		return nil, apperrors.NotFound("schema", name, similarNames(doc, name))
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = 5
	}

	r := &resolution{
		doc:       doc,
		opts:      opts,
		onStack:   map[string]int{},
		deps:      map[string][]string{},
		cycleSeen: map[string]bool{},
	}

	resolved := r.resolveRef(name, 0)

	res := &Result{
		Resolved:      resolved,
		DependencyMap: r.deps,
		CircularRefs:  r.cycles,
		DepthReached:  r.depthReached,
	}
	for _, deps := range r.deps {
		res.TotalDependencies += len(deps)
	}
	_ = root
	return res, nil
}

type resolution struct {
	doc  *model.APIDocument
	opts Options

	stack        []string
	onStack      map[string]int // name -> stack depth, for O(1) membership
	deps         map[string][]string
	cycles       []string
	cycleSeen    map[string]bool
	depthReached bool
}

// resolveRef expands the named schema at the given depth, or returns it
// verbatim as a $ref if it's already on the resolution stack (cycle) or the
// depth cap has been hit.
func (r *resolution) resolveRef(name string, depth int) Resolved {
	if _, onStack := r.onStack[name]; onStack {
		r.recordCycle(name)
		return Resolved{Ref: refString(name)}
	}
	if depth >= r.opts.MaxDepth {
		r.depthReached = true
		return Resolved{Ref: refString(name)}
	}

	schema, ok := r.doc.SchemaByName(name)
	if !ok {
		return Resolved{Ref: refString(name)}
	}

	r.stack = append(r.stack, name)
	r.onStack[name] = len(r.stack) - 1
	defer func() {
		delete(r.onStack, name)
		r.stack = r.stack[:len(r.stack)-1]
	}()

	if _, seen := r.deps[name]; !seen {
		r.deps[name] = append([]string{}, schema.DependsOn...)
	}

	return Resolved{Inline: r.expandSchema(schema, depth)}
}

func refString(name string) string {
	return "#/components/schemas/" + name
}

func (r *resolution) recordCycle(closingName string) {
	idx, ok := r.onStack[closingName]
	if !ok {
		return
	}
	cycle := append(append([]string{}, r.stack[idx:]...), closingName)
	key := strings.Join(cycle, "->")
	if r.cycleSeen[key] {
		return
	}
	r.cycleSeen[key] = true
	r.cycles = append(r.cycles, strings.Join(cycle, " -> "))
}

func (r *resolution) expandSchema(s *model.Schema, depth int) *ResolvedSchema {
	out := &ResolvedSchema{
		Name:        s.Name,
		Type:        s.Type,
		Format:      s.Format,
		Title:       s.Title,
		Description: s.Description,
		Required:    s.Required,
		Minimum:     s.Minimum,
		Maximum:     s.Maximum,
		MinLength:   s.MinLength,
		MaxLength:   s.MaxLength,
		Pattern:     s.Pattern,
		MultipleOf:  s.MultipleOf,
		Enum:        s.Enum,
		Discriminator: s.Discriminator,
		Deprecated:  s.Deprecated,
		Composition: s.Composition,
	}

	if s.Const != nil {
		out.Const = s.Const
		out.HasConst = true
	}

	if r.opts.IncludeExtensions {
		out.Extensions = s.Extensions
		out.ExtensionKeys = s.ExtensionKeys
	}
	if r.opts.IncludeExamples {
		out.Example = s.Example
		out.Examples = s.Examples
		out.Default = s.Default
	}

	for _, p := range s.Properties {
		out.Properties = append(out.Properties, ResolvedProperty{
			Name:   p.Name,
			Schema: r.resolveOrRef(p.Schema, depth+1),
		})
	}

	if s.Items != nil {
		expanded := r.resolveOrRef(*s.Items, depth+1)
		out.Items = &expanded
	}

	for _, c := range s.CompositionList {
		out.CompositionList = append(out.CompositionList, r.resolveOrRef(c, depth+1))
	}

	return out
}

// resolveOrRef expands a SchemaOrRef: named refs go through resolveRef
// (cycle/depth tracked), inline bodies are expanded directly at the same
// depth since they carry no distinct identity on the resolution stack.
func (r *resolution) resolveOrRef(sr model.SchemaOrRef, depth int) Resolved {
	if sr.Ref != "" {
		return r.resolveRef(sr.Ref, depth)
	}
	if sr.Inline == nil {
		return Resolved{}
	}
	return Resolved{Inline: r.expandSchema(sr.Inline, depth)}
}

func similarNames(doc *model.APIDocument, name string) []string {
	var out []string
	lower := strings.ToLower(name)
	for _, s := range doc.Schemas {
		if strings.Contains(strings.ToLower(s.Name), lower) || strings.Contains(lower, strings.ToLower(s.Name)) {
			out = append(out, s.Name)
			if len(out) >= 5 {
				break
			}
		}
	}
	return out
}
