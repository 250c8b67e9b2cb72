package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"

	"openapi-mcp-navigator/internal/apperrors"
	"openapi-mcp-navigator/internal/model"
)

// GetDocument loads one APIDocument by id, reconstructed entirely from its
// stored payload (the fastest path; callers needing only a slice of
// endpoints or schemas should prefer ListEndpoints/GetSchema instead).
func (s *Store) GetDocument(ctx context.Context, id int64) (*model.APIDocument, error) {
	var payload []byte
	err := s.read.QueryRowContext(ctx, `SELECT payload FROM documents WHERE id = ?`, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("document", sprintID(id), nil)
	}
	if err != nil {
		return nil, apperrors.DatabaseConnection(err.Error())
	}
	var doc model.APIDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, apperrors.Internal("unmarshaling document: " + err.Error())
	}
	return &doc, nil
}

// ListDocumentIDs returns every ingested document's id, oldest first.
func (s *Store) ListDocumentIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.read.QueryContext(ctx, `SELECT id FROM documents ORDER BY id ASC`)
	if err != nil {
		return nil, apperrors.DatabaseConnection(err.Error())
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.DatabaseConnection(err.Error())
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetEndpoint looks up one (document, path, method) endpoint.
func (s *Store) GetEndpoint(ctx context.Context, documentID int64, path, method string) (*model.Endpoint, error) {
	var payload []byte
	err := s.read.QueryRowContext(ctx,
		`SELECT payload FROM endpoints WHERE document_id = ? AND path = ? AND method = ?`,
		documentID, path, method).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("endpoint", method+" "+path, nil)
	}
	if err != nil {
		return nil, apperrors.DatabaseConnection(err.Error())
	}
	var ep model.Endpoint
	if err := json.Unmarshal(payload, &ep); err != nil {
		return nil, apperrors.Internal("unmarshaling endpoint: " + err.Error())
	}
	return &ep, nil
}

// ListEndpoints returns a bounded page of endpoints for a document, along
// with the total count before pagination (spec §4.6 relies on Store-level
// pagination staying consistent with in-memory pagination).
func (s *Store) ListEndpoints(ctx context.Context, documentID int64, offset, limit int) ([]model.Endpoint, int, error) {
	var total int
	if err := s.read.QueryRowContext(ctx, `SELECT COUNT(*) FROM endpoints WHERE document_id = ?`, documentID).Scan(&total); err != nil {
		return nil, 0, apperrors.DatabaseConnection(err.Error())
	}

	rows, err := s.read.QueryContext(ctx,
		`SELECT payload FROM endpoints WHERE document_id = ? ORDER BY path, method LIMIT ? OFFSET ?`,
		documentID, limit, offset)
	if err != nil {
		return nil, 0, apperrors.DatabaseConnection(err.Error())
	}
	defer rows.Close()

	var out []model.Endpoint
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, 0, apperrors.DatabaseConnection(err.Error())
		}
		var ep model.Endpoint
		if err := json.Unmarshal(payload, &ep); err != nil {
			return nil, 0, apperrors.Internal("unmarshaling endpoint: " + err.Error())
		}
		out = append(out, ep)
	}
	return out, total, rows.Err()
}

// AllEndpoints loads every endpoint across all documents, for the Indexer to
// build its in-memory inverted index from (spec §4.4 startup ordering).
func (s *Store) AllEndpoints(ctx context.Context) ([]model.Endpoint, error) {
	rows, err := s.read.QueryContext(ctx, `SELECT payload FROM endpoints ORDER BY document_id, path, method`)
	if err != nil {
		return nil, apperrors.DatabaseConnection(err.Error())
	}
	defer rows.Close()
	var out []model.Endpoint
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, apperrors.DatabaseConnection(err.Error())
		}
		var ep model.Endpoint
		if err := json.Unmarshal(payload, &ep); err != nil {
			return nil, apperrors.Internal("unmarshaling endpoint: " + err.Error())
		}
		out = append(out, ep)
	}
	return out, rows.Err()
}

// AllSchemas loads every schema across all documents.
func (s *Store) AllSchemas(ctx context.Context) ([]model.Schema, error) {
	rows, err := s.read.QueryContext(ctx, `SELECT payload FROM schemas ORDER BY document_id, name`)
	if err != nil {
		return nil, apperrors.DatabaseConnection(err.Error())
	}
	defer rows.Close()
	var out []model.Schema
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, apperrors.DatabaseConnection(err.Error())
		}
		var sc model.Schema
		if err := json.Unmarshal(payload, &sc); err != nil {
			return nil, apperrors.Internal("unmarshaling schema: " + err.Error())
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// GetSchema looks up one named schema within a document.
func (s *Store) GetSchema(ctx context.Context, documentID int64, name string) (*model.Schema, error) {
	var payload []byte
	err := s.read.QueryRowContext(ctx,
		`SELECT payload FROM schemas WHERE document_id = ? AND name = ?`, documentID, name).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("schema", name, nil)
	}
	if err != nil {
		return nil, apperrors.DatabaseConnection(err.Error())
	}
	var sc model.Schema
	if err := json.Unmarshal(payload, &sc); err != nil {
		return nil, apperrors.Internal("unmarshaling schema: " + err.Error())
	}
	return &sc, nil
}

// GetSecurityScheme looks up one named security scheme within a document.
func (s *Store) GetSecurityScheme(ctx context.Context, documentID int64, name string) (*model.SecurityScheme, error) {
	var payload []byte
	err := s.read.QueryRowContext(ctx,
		`SELECT payload FROM security_schemes WHERE document_id = ? AND name = ?`, documentID, name).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("security scheme", name, nil)
	}
	if err != nil {
		return nil, apperrors.DatabaseConnection(err.Error())
	}
	var sec model.SecurityScheme
	if err := json.Unmarshal(payload, &sec); err != nil {
		return nil, apperrors.Internal("unmarshaling security scheme: " + err.Error())
	}
	return &sec, nil
}

func sprintID(id int64) string {
	return strconv.FormatInt(id, 10)
}
