package results

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"openapi-mcp-navigator/internal/index"
	"openapi-mcp-navigator/internal/model"
)

func sampleEndpoints() []model.Endpoint {
	return []model.Endpoint{
		{
			DocumentID:  1,
			Path:        "/users",
			Method:      "GET",
			OperationID: "listUsers",
			Summary:     "List users",
			Description: "Returns every user in the system",
			Tags:        []string{"users"},
		},
		{
			DocumentID:  1,
			Path:        "/users/{id}",
			Method:      "DELETE",
			OperationID: "deleteUser",
			Summary:     "Delete a user",
			Description: "Removes a user by id",
			Tags:        []string{"users"},
		},
		{
			DocumentID:  1,
			Path:        "/orders",
			Method:      "GET",
			OperationID: "listOrders",
			Summary:     "List orders",
			Description: "Returns every order",
			Tags:        []string{"orders"},
		},
	}
}

func buildSnapshot() *index.Snapshot {
	return index.Build(sampleEndpoints(), nil)
}

func TestSearch_MatchesKeywordAcrossFields(t *testing.T) {
	p := New(64, time.Minute, 20, 100)
	resp := p.Search(buildSnapshot(), nil, SearchRequest{Query: "users", Pagination: Pagination{Page: 1, PerPage: 20}})
	require.Len(t, resp.Results, 2)
	for _, r := range resp.Results {
		assert.Contains(t, r.Endpoint.Tags, "users")
	}
}

func TestSearch_MethodFilterNarrowsResults(t *testing.T) {
	p := New(64, time.Minute, 20, 100)
	resp := p.Search(buildSnapshot(), nil, SearchRequest{
		Query:      "users",
		Filters:    Filters{Methods: []string{"DELETE"}},
		Pagination: Pagination{Page: 1, PerPage: 20},
	})
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "DELETE", resp.Results[0].Endpoint.Method)
}

func TestSearch_NoMatchEmitsCrossModalWarning(t *testing.T) {
	p := New(64, time.Minute, 20, 100)
	resp := p.Search(buildSnapshot(), nil, SearchRequest{Query: "nonexistentterm", Pagination: Pagination{Page: 1, PerPage: 20}})
	assert.Empty(t, resp.Results)
	assert.NotEmpty(t, resp.Warnings)
}

// Spec §8 "pagination conservation": result count equals total across pages.
func TestSearch_PaginationConservesTotal(t *testing.T) {
	p := New(64, time.Minute, 20, 100)
	snap := buildSnapshot()

	first := p.Search(snap, nil, SearchRequest{Query: "list", Pagination: Pagination{Page: 1, PerPage: 1}})
	second := p.Search(snap, nil, SearchRequest{Query: "list", Pagination: Pagination{Page: 2, PerPage: 1}})

	assert.Equal(t, first.Page.Total, second.Page.Total)
	assert.Len(t, first.Results, 1)
	assert.Len(t, second.Results, 1)
	assert.NotEqual(t, first.Results[0].Endpoint.OperationID, second.Results[0].Endpoint.OperationID)
}

func TestSearch_CachesIdenticalRequests(t *testing.T) {
	p := New(64, time.Minute, 20, 100)
	snap := buildSnapshot()
	req := SearchRequest{Query: "users", Pagination: Pagination{Page: 1, PerPage: 20}}

	first := p.Search(snap, nil, req)
	second := p.Search(snap, nil, req)
	assert.Same(t, first, second)
}

// Spec §8 "filter cache key uniqueness": distinct filter sets must not share
// a cache entry even when the keyword query is identical.
func TestSearch_DifferentFiltersProduceDifferentCacheEntries(t *testing.T) {
	p := New(64, time.Minute, 20, 100)
	snap := buildSnapshot()

	withFilter := p.Search(snap, nil, SearchRequest{Query: "users", Filters: Filters{Methods: []string{"GET"}}, Pagination: Pagination{Page: 1, PerPage: 20}})
	withoutFilter := p.Search(snap, nil, SearchRequest{Query: "users", Pagination: Pagination{Page: 1, PerPage: 20}})

	assert.NotSame(t, withFilter, withoutFilter)
	assert.Len(t, withFilter.Results, 1)
	assert.Len(t, withoutFilter.Results, 2)
}
