// Package results implements the Result Processor (C6): filter, enrich,
// rank, cluster, paginate, and cache the candidate set the Query Processor
// and Indexer produce (spec §4.6).
package results

import "openapi-mcp-navigator/internal/model"

// Filters narrows the candidate set before ranking. It has a fixed set of
// fields, so unknown filter keys never reach this layer. A Complexity value
// other than simple, moderate or complex makes Search skip the complexity
// filter and add a warning, rather than emptying the result set.
type Filters struct {
	Methods             []string
	Tags                []string
	AuthRequired        *bool
	AuthSchemes         []string
	Complexity          []string
	IncludeDeprecated   bool
	SchemaTypes         []string
	MinUsageFrequency   *int
}

// Pagination is the request-side paging request; bounds are enforced by the
// Processor against its configured default/ceiling.
type Pagination struct {
	Page    int
	PerPage int
}

// SearchRequest is the full input to one Search call.
type SearchRequest struct {
	Query      string
	Filters    Filters
	Pagination Pagination
}

// EndpointResult is one ranked, enriched endpoint in a SearchResponse.
type EndpointResult struct {
	Endpoint model.Endpoint
	Score    float64

	ParameterSummary    string
	AuthenticationInfo  string
	ResponseInfo        string
	ComplexityLevel     string
	OperationType       string
	ResourceGroup       string
	Stability           string
}

// Cluster groups result keys under one cluster dimension value. MemberIDs
// holds the index.EndpointKey of every matching endpoint across all pages,
// not only those in the current page's Results; it does not duplicate the
// records themselves (spec §4.6 "member-ids-only").
type Cluster struct {
	Dimension string
	Value     string
	MemberIDs []string
}

// PageInfo is the pagination envelope returned alongside Results.
type PageInfo struct {
	Total       int
	Page        int
	PerPage     int
	TotalPages  int
	HasNext     bool
	HasPrevious bool
}

// SearchResponse is the full output of one Search call.
type SearchResponse struct {
	Results  []EndpointResult
	Clusters []Cluster
	Page     PageInfo
	Warnings []string
}
