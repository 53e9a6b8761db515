package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// MySQLStore persists documents in a single `documents` table with one JSON
// column per document.  Collections are a column, not separate tables, which
// keeps the schema fixed no matter which collections callers invent.
// Filtering decodes candidate rows and matches in Go; the collections here
// (users, habit templates) are small and read-mostly, so pushing filters
// into JSON_EXTRACT queries is not worth the coupling to MySQL.
type MySQLStore struct{ DB *sql.DB }

func NewMySQLStore(db *sql.DB) *MySQLStore { return &MySQLStore{DB: db} }

// EnsureSchema creates the documents table if it does not exist yet.
func (s *MySQLStore) EnsureSchema(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS documents (
			collection VARCHAR(64)  NOT NULL,
			id         VARCHAR(64)  NOT NULL,
			doc        JSON         NOT NULL,
			PRIMARY KEY (collection, id)
		)`)
	if err != nil {
		return fmt.Errorf("ensure documents schema: %w", err)
	}
	return nil
}

func (s *MySQLStore) Insert(ctx context.Context, collection string, doc Document) (Document, error) {
	id, _ := doc["_id"].(string)
	if id == "" {
		id = uuid.NewString()
	}
	out := make(Document, len(doc)+1)
	for k, v := range doc {
		out[k] = v
	}
	out["_id"] = id

	raw, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	if _, err := s.DB.ExecContext(ctx,
		"INSERT INTO documents (collection, id, doc) VALUES (?,?,?)",
		collection, id, raw); err != nil {
		return nil, fmt.Errorf("insert into %s: %w", collection, err)
	}
	return out, nil
}

func (s *MySQLStore) Find(ctx context.Context, collection string, filter Document) (Document, error) {
	docs, err := s.List(ctx, collection, filter)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrNotFound
	}
	return docs[0], nil
}

func (s *MySQLStore) Update(ctx context.Context, collection, id string, fields Document) (Document, error) {
	var raw []byte
	err := s.DB.QueryRowContext(ctx,
		"SELECT doc FROM documents WHERE collection=? AND id=? LIMIT 1",
		collection, id).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load %s/%s: %w", collection, id, err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	for k, v := range fields {
		doc[k] = v
	}
	doc["_id"] = id // the id is immutable

	merged, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}
	if _, err := s.DB.ExecContext(ctx,
		"UPDATE documents SET doc=? WHERE collection=? AND id=?",
		merged, collection, id); err != nil {
		return nil, fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

func (s *MySQLStore) Delete(ctx context.Context, collection, id string) (bool, error) {
	res, err := s.DB.ExecContext(ctx,
		"DELETE FROM documents WHERE collection=? AND id=?", collection, id)
	if err != nil {
		return false, fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *MySQLStore) List(ctx context.Context, collection string, filter Document) ([]Document, error) {
	rows, err := s.DB.QueryContext(ctx,
		"SELECT doc FROM documents WHERE collection=?", collection)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var doc Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode document in %s: %w", collection, err)
		}
		if len(filter) == 0 || matches(doc, filter) {
			out = append(out, doc)
		}
	}
	return out, rows.Err()
}
