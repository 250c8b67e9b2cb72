package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"openapi-mcp-navigator/internal/apperrors"
	"openapi-mcp-navigator/internal/model"
)

// IngestDocument persists one normalized APIDocument atomically: the whole
// insert (document row plus every endpoint/schema/security-scheme row)
// happens inside a single BEGIN IMMEDIATE transaction on a dedicated
// connection, so a half-written document is never observable by a reader
// (spec §8 "Ingest idempotence"). Re-ingesting a document with the same
// ContentHash is a no-op that returns the existing document's ID.
func (s *Store) IngestDocument(ctx context.Context, doc *model.APIDocument) (int64, error) {
	allow, wait := s.breaker.Allow()
	if !allow {
		return 0, apperrors.ServiceUnavailable(int(wait.Seconds()))
	}

	conn, err := s.write.Conn(ctx)
	if err != nil {
		s.breaker.RecordFailure()
		return 0, apperrors.DatabaseConnection(err.Error())
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "BEGIN IMMEDIATE"); err != nil {
		s.breaker.RecordFailure()
		return 0, apperrors.DatabaseConnection(err.Error())
	}
	committed := false
	defer func() {
		if !committed {
			conn.ExecContext(context.Background(), "ROLLBACK")
		}
	}()

	var existingID int64
	err = conn.QueryRowContext(ctx, `SELECT id FROM documents WHERE content_hash = ?`, doc.ContentHash).Scan(&existingID)
	switch {
	case err == nil:
		if _, cerr := conn.ExecContext(ctx, "COMMIT"); cerr != nil {
			s.breaker.RecordFailure()
			return 0, apperrors.DatabaseConnection(cerr.Error())
		}
		committed = true
		s.breaker.RecordSuccess()
		return existingID, nil
	case err != sql.ErrNoRows:
		s.breaker.RecordFailure()
		return 0, apperrors.DatabaseConnection(err.Error())
	}

	docPayload, err := json.Marshal(doc)
	if err != nil {
		s.breaker.RecordFailure()
		return 0, apperrors.Internal("marshaling document: " + err.Error())
	}

	res, err := conn.ExecContext(ctx, `
		INSERT INTO documents(content_hash, source_path, title, version, openapi_version, ingested_at, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		doc.ContentHash, doc.SourcePath, doc.Title, doc.Version, doc.OpenAPIVersion, doc.IngestedAt.Format(timeLayout), docPayload)
	if err != nil {
		s.breaker.RecordFailure()
		return 0, apperrors.DatabaseConnection(err.Error())
	}
	docID, err := res.LastInsertId()
	if err != nil {
		s.breaker.RecordFailure()
		return 0, apperrors.DatabaseConnection(err.Error())
	}
	doc.ID = docID

	for i := range doc.Endpoints {
		doc.Endpoints[i].DocumentID = docID
		payload, err := json.Marshal(doc.Endpoints[i])
		if err != nil {
			s.breaker.RecordFailure()
			return 0, apperrors.Internal("marshaling endpoint: " + err.Error())
		}
		if _, err := conn.ExecContext(ctx, `
			INSERT INTO endpoints(document_id, path, method, operation_id, payload) VALUES (?, ?, ?, ?, ?)`,
			docID, doc.Endpoints[i].Path, doc.Endpoints[i].Method, doc.Endpoints[i].OperationID, payload); err != nil {
			s.breaker.RecordFailure()
			return 0, apperrors.DatabaseConnection(err.Error())
		}
	}

	for i := range doc.Schemas {
		doc.Schemas[i].DocumentID = docID
		payload, err := json.Marshal(doc.Schemas[i])
		if err != nil {
			s.breaker.RecordFailure()
			return 0, apperrors.Internal("marshaling schema: " + err.Error())
		}
		if _, err := conn.ExecContext(ctx, `
			INSERT INTO schemas(document_id, name, payload) VALUES (?, ?, ?)`,
			docID, doc.Schemas[i].Name, payload); err != nil {
			s.breaker.RecordFailure()
			return 0, apperrors.DatabaseConnection(err.Error())
		}
	}

	for _, sec := range doc.SecuritySchemes {
		payload, err := json.Marshal(sec)
		if err != nil {
			s.breaker.RecordFailure()
			return 0, apperrors.Internal("marshaling security scheme: " + err.Error())
		}
		if _, err := conn.ExecContext(ctx, `
			INSERT INTO security_schemes(document_id, name, payload) VALUES (?, ?, ?)`,
			docID, sec.Name, payload); err != nil {
			s.breaker.RecordFailure()
			return 0, apperrors.DatabaseConnection(err.Error())
		}
	}

	if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		s.breaker.RecordFailure()
		return 0, apperrors.DatabaseConnection(err.Error())
	}
	committed = true
	s.breaker.RecordSuccess()
	return docID, nil
}

const timeLayout = "2006-01-02T15:04:05.999999999Z07:00"
