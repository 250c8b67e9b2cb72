package results

import (
	"openapi-mcp-navigator/internal/index"
	"sort"
)

// clusterDimensions are evaluated in this fixed order (spec §4.6 "cluster
// by tag/resource/complexity/method/operation_type/auth").
var clusterDimensions = []string{"tag", "resource", "complexity", "method", "operation_type", "auth"}

// cluster groups already-ranked results along every dimension, referencing
// result positions by endpoint key rather than copying the records.
func cluster(results []EndpointResult) []Cluster {
	buckets := map[string]map[string][]string{}
	for _, dim := range clusterDimensions {
		buckets[dim] = map[string][]string{}
	}

	for _, r := range results {
		key := index.EndpointKey(r.Endpoint)

		for _, tag := range r.Endpoint.Tags {
			buckets["tag"][tag] = append(buckets["tag"][tag], key)
		}
		buckets["resource"][r.ResourceGroup] = append(buckets["resource"][r.ResourceGroup], key)
		buckets["complexity"][r.ComplexityLevel] = append(buckets["complexity"][r.ComplexityLevel], key)
		buckets["method"][r.Endpoint.Method] = append(buckets["method"][r.Endpoint.Method], key)
		buckets["operation_type"][r.OperationType] = append(buckets["operation_type"][r.OperationType], key)
		buckets["auth"][r.AuthenticationInfo] = append(buckets["auth"][r.AuthenticationInfo], key)
	}

	var out []Cluster
	for _, dim := range clusterDimensions {
		values := make([]string, 0, len(buckets[dim]))
		for v := range buckets[dim] {
			values = append(values, v)
		}
		sort.Strings(values)
		for _, v := range values {
			out = append(out, Cluster{Dimension: dim, Value: v, MemberIDs: buckets[dim][v]})
		}
	}
	return out
}
