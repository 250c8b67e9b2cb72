// Package index implements the Indexer (C4): it builds field-weighted
// searchable documents for endpoints and schemas, an inverted index scored
// with BM25, and the schema<->endpoint cross-reference map, and publishes
// them as one immutable Snapshot behind an atomic pointer so readers never
// observe a half-built index during a rebuild (spec §4.4).
package index

import (
	"strconv"
	"sync/atomic"

	"openapi-mcp-navigator/internal/index/invindex"
	"openapi-mcp-navigator/internal/model"
)

// Snapshot is one complete, immutable generation of the index.
type Snapshot struct {
	Endpoints map[string]model.Endpoint
	Schemas   map[string]model.Schema

	EndpointOrder []string // stable order, for deterministic pagination ties
	SchemaOrder   []string

	EndpointIndex *invindex.Index
	SchemaIndex   *invindex.Index

	// Dense cross-reference map: no back-pointers on model.Endpoint/Schema
	// themselves, just name-keyed slices living on the snapshot (spec §9
	// redesign note, generalized from the schema graph to the full
	// cross-reference map).
	EndpointToSchemas map[string][]string
	SchemaToEndpoints map[string][]string
}

// Indexer holds the currently published Snapshot and rebuilds it from
// scratch on demand.
type Indexer struct {
	current atomic.Pointer[Snapshot]
}

// New returns an Indexer with an empty snapshot.
func New() *Indexer {
	ix := &Indexer{}
	ix.current.Store(Build(nil, nil))
	return ix
}

// Current returns the currently published snapshot. Safe for concurrent use
// with Rebuild.
func (ix *Indexer) Current() *Snapshot {
	return ix.current.Load()
}

// Rebuild constructs a new Snapshot from the full endpoint/schema set and
// atomically swaps it in.
func (ix *Indexer) Rebuild(endpoints []model.Endpoint, schemas []model.Schema) *Snapshot {
	snap := Build(endpoints, schemas)
	ix.current.Store(snap)
	return snap
}

// Build constructs a Snapshot without touching any shared state; exported so
// tests and the ingest path can build throwaway snapshots.
func Build(endpoints []model.Endpoint, schemas []model.Schema) *Snapshot {
	snap := &Snapshot{
		Endpoints:         map[string]model.Endpoint{},
		Schemas:           map[string]model.Schema{},
		EndpointToSchemas: map[string][]string{},
		SchemaToEndpoints: map[string][]string{},
	}

	endpointDocs := make(map[string]map[string][]string, len(endpoints))
	for _, ep := range endpoints {
		key := EndpointKey(ep)
		snap.Endpoints[key] = ep
		snap.EndpointOrder = append(snap.EndpointOrder, key)
		endpointDocs[key] = endpointFields(ep)
	}
	snap.EndpointIndex = invindex.Build(endpointDocs, FieldWeights)

	schemaDocs := make(map[string]map[string][]string, len(schemas))
	schemaNameToKey := make(map[string]map[string]string) // documentID -> name -> key
	for _, s := range schemas {
		key := SchemaKey(s)
		snap.Schemas[key] = s
		snap.SchemaOrder = append(snap.SchemaOrder, key)
		schemaDocs[key] = schemaFields(s)

		docKey := strconv.FormatInt(s.DocumentID, 10)
		if schemaNameToKey[docKey] == nil {
			schemaNameToKey[docKey] = map[string]string{}
		}
		schemaNameToKey[docKey][s.Name] = key
	}
	snap.SchemaIndex = invindex.Build(schemaDocs, SchemaFieldWeights)

	for _, ep := range endpoints {
		epKey := EndpointKey(ep)
		docKey := strconv.FormatInt(ep.DocumentID, 10)
		for _, dep := range ep.SchemaDeps {
			schemaKey, ok := schemaNameToKey[docKey][dep]
			if !ok {
				continue
			}
			snap.EndpointToSchemas[epKey] = append(snap.EndpointToSchemas[epKey], schemaKey)
			snap.SchemaToEndpoints[schemaKey] = append(snap.SchemaToEndpoints[schemaKey], epKey)
		}
	}

	return snap
}
