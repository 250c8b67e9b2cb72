package results

import (
	"fmt"
	"time"

	"openapi-mcp-navigator/internal/index"
	"openapi-mcp-navigator/internal/model"
	"openapi-mcp-navigator/internal/query"
	"openapi-mcp-navigator/internal/query/suggest"
)

// maxSuggestions bounds the combined spelling/generalization/cross-modal
// suggestion list (spec §4.5 "proposes up to 5 alternatives").
const maxSuggestions = 5

// lowHitThreshold is the "no hits or very few hits" trigger for suggestions
// (spec §4.5).
const lowHitThreshold = 5

// Processor runs the filter -> enrich -> rank -> cluster -> paginate ->
// cache pipeline against one Indexer snapshot.
type Processor struct {
	cache          *responseCache
	defaultPerPage int
	maxPerPage     int
}

// New builds a Processor with the given cache bounds and pagination
// defaults (spec §9 Open Question resolution: 20/100, 512 entries, 5m TTL).
func New(cacheSize int, cacheTTL time.Duration, defaultPerPage, maxPerPage int) *Processor {
	return &Processor{
		cache:          newResponseCache(cacheSize, cacheTTL),
		defaultPerPage: defaultPerPage,
		maxPerPage:     maxPerPage,
	}
}

// Search runs the full pipeline against snap and returns a cached or freshly
// computed SearchResponse.
func (p *Processor) Search(snap *index.Snapshot, schemesByName map[string]model.SecurityScheme, req SearchRequest) *SearchResponse {
	key := cacheKey(req)
	if cached, ok := p.cache.get(key); ok {
		return cached
	}

	q := query.Parse(req.Query)
	var warnings []string
	for _, w := range q.Warnings {
		warnings = append(warnings, w.Message)
	}

	schemasByDoc := schemasByDocument(snap)

	filters := req.Filters
	for _, c := range filters.Complexity {
		if !containsFold([]string{"simple", "moderate", "complex"}, c) {
			warnings = append(warnings, fmt.Sprintf("complexity filter value %q is not simple, moderate or complex; complexity filter skipped", c))
			filters.Complexity = nil
			break
		}
	}

	var candidates []EndpointResult
	for _, epKey := range snap.EndpointOrder {
		ep := snap.Endpoints[epKey]

		if !applyFilters(ep, filters, schemasByDoc[ep.DocumentID]) {
			continue
		}
		if !query.Match(q.Root, endpointTermMatcher(ep), endpointFieldMatcher(ep)) {
			continue
		}
		candidates = append(candidates, enrich(ep, schemesByName))
	}

	ranked := rank(snap.EndpointIndex, q.Terms, candidates)
	clusters := cluster(ranked)
	page, pageInfo := paginate(ranked, req.Pagination, p.defaultPerPage, p.maxPerPage)

	if len(ranked) < lowHitThreshold {
		warnings = append(warnings, suggestAlternatives(q, snap.EndpointIndex.Vocabulary(), len(ranked) == 0)...)
	}

	resp := &SearchResponse{
		Results:  page,
		Clusters: clusters,
		Page:     pageInfo,
		Warnings: warnings,
	}
	p.cache.put(key, resp)
	return resp
}

// suggestAlternatives combines spelling corrections, a field-filter
// generalization, and a cross-modal hint into one capped suggestion list
// (spec §4.5: "spelling corrections ..., term generalizations ..., and
// cross-modal suggestions").
func suggestAlternatives(q *query.Query, vocabulary []string, zeroResults bool) []string {
	var out []string
	for _, term := range q.Terms {
		if len(out) >= maxSuggestions {
			return out[:maxSuggestions]
		}
		for _, corrected := range suggest.Spelling(term, vocabulary, maxSuggestions-len(out)) {
			out = append(out, fmt.Sprintf("did you mean %q instead of %q?", corrected, term))
			if len(out) >= maxSuggestions {
				return out[:maxSuggestions]
			}
		}
	}
	if field, value, ok := firstFieldClause(q.Root); ok {
		out = append(out, fmt.Sprintf("try dropping the %s: filter and searching for %q", field, suggest.FieldGeneralization(field, value)))
		if len(out) >= maxSuggestions {
			return out[:maxSuggestions]
		}
	}
	out = append(out, suggest.CrossModal(true, zeroResults)...)
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}

// firstFieldClause returns the first field:value clause found in the parsed
// query tree, for the "drop the most restrictive field filter" suggestion.
func firstFieldClause(n *query.Node) (field string, value string, ok bool) {
	if n == nil {
		return "", "", false
	}
	switch n.Kind {
	case query.KindField:
		return n.Field, n.Value, true
	case query.KindAnd, query.KindOr:
		for _, c := range n.Children {
			if f, v, ok := firstFieldClause(c); ok {
				return f, v, true
			}
		}
	case query.KindNot:
		if len(n.Children) == 1 {
			return firstFieldClause(n.Children[0])
		}
	}
	return "", "", false
}

func schemasByDocument(snap *index.Snapshot) map[int64]map[string]model.Schema {
	out := map[int64]map[string]model.Schema{}
	for _, s := range snap.Schemas {
		if out[s.DocumentID] == nil {
			out[s.DocumentID] = map[string]model.Schema{}
		}
		out[s.DocumentID][s.Name] = s
	}
	return out
}
