package results

import (
	"sort"

	"openapi-mcp-navigator/internal/index"
	"openapi-mcp-navigator/internal/index/invindex"
)

// typePreference gives list/read operations a small edge over
// create/update/delete when relevance is otherwise tied, since navigation
// queries skew toward "how do I fetch X" (spec §4.6 "type preference").
var typePreference = map[string]float64{
	"list":   1.05,
	"read":   1.05,
	"search": 1.05,
	"create": 1.0,
	"upload": 1.0,
	"update": 1.0,
	"delete": 0.95,
	"action": 1.0,
}

// rank scores and sorts candidates by BM25 relevance, deprecation, and
// operation-type preference; deprecated endpoints always sort after
// non-deprecated ones regardless of score (spec §4.6 "deprecated sorts
// last").
func rank(idx *invindex.Index, terms []string, candidates []EndpointResult) []EndpointResult {
	for i := range candidates {
		key := index.EndpointKey(candidates[i].Endpoint)
		score := idx.Score(terms, key)
		score *= typePreference[candidates[i].OperationType]
		if candidates[i].Endpoint.Deprecated {
			score *= 0.5
		}
		candidates[i].Score = score
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := candidates[i].Endpoint.Deprecated, candidates[j].Endpoint.Deprecated
		if di != dj {
			return !di
		}
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}
