// Package suggest implements the Query Processor's suggestion generation
// (spec §4.5): spelling correction via bounded edit distance, field-filter
// generalization, and cross-modal hints when a search comes back empty.
package suggest

import "sort"

// MaxEditDistance is the spec-pinned fuzzy-match bound (also used for
// trailing-~ fuzzy terms).
const MaxEditDistance = 2

// Spelling returns every vocabulary entry within MaxEditDistance of term,
// closest first, capped at limit.
func Spelling(term string, vocabulary []string, limit int) []string {
	type scored struct {
		word string
		dist int
	}
	var candidates []scored
	for _, w := range vocabulary {
		if w == term {
			continue
		}
		if d, ok := boundedLevenshtein(term, w, MaxEditDistance); ok {
			candidates = append(candidates, scored{w, d})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		return candidates[i].word < candidates[j].word
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.word
	}
	return out
}

// boundedLevenshtein computes edit distance, bailing out early once it's
// clear the result exceeds max (full row still computed, but the row-min
// short-circuit keeps large vocabularies cheap).
func boundedLevenshtein(a, b string, max int) (int, bool) {
	if abs(len(a)-len(b)) > max {
		return 0, false
	}
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur := make([]int, len(rb)+1)
		cur[0] = i
		rowMin := cur[0]
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min3(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
			if cur[j] < rowMin {
				rowMin = cur[j]
			}
		}
		if rowMin > max {
			return 0, false
		}
		prev = cur
	}
	d := prev[len(rb)]
	return d, d <= max
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// WithinDistance reports whether a and b are within MaxEditDistance of each
// other, used both for spelling suggestions and for trailing-~ fuzzy term
// matching against a document's tokens.
func WithinDistance(a, b string) bool {
	_, ok := boundedLevenshtein(a, b, MaxEditDistance)
	return ok
}

// FieldGeneralization suggests dropping a field scope when a field:value
// clause returned nothing, e.g. "tags:admin" -> "admin".
func FieldGeneralization(field, value string) string {
	return value
}

// CrossModal returns a short hint suggesting the other search surface
// (endpoints vs schemas) when one comes back empty.
func CrossModal(searchedEndpoints bool, zeroResults bool) []string {
	if !zeroResults {
		return nil
	}
	if searchedEndpoints {
		return []string{"no matching endpoints; try searching schemas for this term instead"}
	}
	return []string{"no matching schemas; try searching endpoints for this term instead"}
}
