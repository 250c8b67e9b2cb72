package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"openapi-mcp-navigator/internal/logging"
	"openapi-mcp-navigator/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir(), logging.New(logging.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleDocument(contentHash string) *model.APIDocument {
	return &model.APIDocument{
		Title:          "Demo API",
		Version:        "1.0.0",
		OpenAPIVersion: "3.0.0",
		ContentHash:    contentHash,
		SourcePath:     "/tmp/demo.json",
		IngestedAt:     time.Now().UTC(),
		Endpoints: []model.Endpoint{
			{Path: "/users", Method: "GET", OperationID: "listUsers"},
			{Path: "/users", Method: "POST", OperationID: "createUser"},
		},
		Schemas: []model.Schema{
			{Name: "User", Type: "object"},
		},
		SecuritySchemes: []model.SecurityScheme{
			{Name: "bearerAuth", Kind: model.SecurityHTTP, HTTPScheme: "bearer"},
		},
	}
}

func TestOpen_CreatesDataDirectory(t *testing.T) {
	dir := t.TempDir() + "/nested/data"
	s, err := Open(dir, logging.New(logging.ERROR))
	require.NoError(t, err)
	defer s.Close()
}

func TestIngestDocument_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.IngestDocument(ctx, sampleDocument("hash-1"))
	require.NoError(t, err)
	require.NotZero(t, id)

	doc, err := s.GetDocument(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Demo API", doc.Title)
	assert.Len(t, doc.Endpoints, 2)
	assert.Len(t, doc.Schemas, 1)
}

// Re-ingesting the same bytes (same content hash) must be idempotent,
// returning the existing document's id and not creating a duplicate row
// (spec §3 invariant, §8 "Ingest idempotence").
func TestIngestDocument_SameContentHashIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.IngestDocument(ctx, sampleDocument("dup-hash"))
	require.NoError(t, err)

	second, err := s.IngestDocument(ctx, sampleDocument("dup-hash"))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	ids, err := s.ListDocumentIDs(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}

func TestIngestDocument_DifferentHashesCreateSeparateDocuments(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.IngestDocument(ctx, sampleDocument("hash-a"))
	require.NoError(t, err)
	second, err := s.IngestDocument(ctx, sampleDocument("hash-b"))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	ids, err := s.ListDocumentIDs(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}

func TestGetEndpoint_Found(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	docID, err := s.IngestDocument(ctx, sampleDocument("hash-ep"))
	require.NoError(t, err)

	ep, err := s.GetEndpoint(ctx, docID, "/users", "GET")
	require.NoError(t, err)
	assert.Equal(t, "listUsers", ep.OperationID)
}

func TestGetEndpoint_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	docID, err := s.IngestDocument(ctx, sampleDocument("hash-missing"))
	require.NoError(t, err)

	_, err = s.GetEndpoint(ctx, docID, "/ghost", "GET")
	require.Error(t, err)
}

func TestListEndpoints_Paginates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	docID, err := s.IngestDocument(ctx, sampleDocument("hash-page"))
	require.NoError(t, err)

	page, total, err := s.ListEndpoints(ctx, docID, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, page, 1)

	page2, _, err := s.ListEndpoints(ctx, docID, 1, 1)
	require.NoError(t, err)
	assert.Len(t, page2, 1)
	assert.NotEqual(t, page[0].Method, page2[0].Method)
}

func TestAllEndpointsAndSchemas_SpanDocuments(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.IngestDocument(ctx, sampleDocument("hash-all-1"))
	require.NoError(t, err)
	_, err = s.IngestDocument(ctx, sampleDocument("hash-all-2"))
	require.NoError(t, err)

	eps, err := s.AllEndpoints(ctx)
	require.NoError(t, err)
	assert.Len(t, eps, 4)

	schemas, err := s.AllSchemas(ctx)
	require.NoError(t, err)
	assert.Len(t, schemas, 2)
}

func TestGetSchema_Found(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	docID, err := s.IngestDocument(ctx, sampleDocument("hash-schema"))
	require.NoError(t, err)

	sc, err := s.GetSchema(ctx, docID, "User")
	require.NoError(t, err)
	assert.Equal(t, "object", sc.Type)
}

func TestGetSecurityScheme_Found(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	docID, err := s.IngestDocument(ctx, sampleDocument("hash-sec"))
	require.NoError(t, err)

	sec, err := s.GetSecurityScheme(ctx, docID, "bearerAuth")
	require.NoError(t, err)
	assert.Equal(t, "bearer", sec.HTTPScheme)
}

func TestOpen_RefusesNewerSchemaVersion(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, logging.New(logging.ERROR))
	require.NoError(t, err)

	ctx := context.Background()
	_, execErr := s.write.ExecContext(ctx, `UPDATE schema_meta SET value = ? WHERE key = 'schema_version'`, "999")
	require.NoError(t, execErr)
	require.NoError(t, s.Close())

	_, err = Open(dir, logging.New(logging.ERROR))
	assert.ErrorIs(t, err, ErrSchemaVersionNewer)
}
