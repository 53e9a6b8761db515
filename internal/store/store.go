// Package store implements a small generic document store: create, read,
// update, delete and list over named collections, keyed by an opaque string
// id held under "_id".  Higher layers never see the backing engine; the
// repository layer translates documents to and from typed models, so the
// MySQL-backed store can be swapped for the in-memory one (used by tests)
// without touching any business logic.
package store

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound is returned by Find and Update when no document in the
// collection matches.
var ErrNotFound = errors.New("document not found")

// Document is a decoded JSON object.  The "_id" key holds the document id.
type Document = map[string]any

// Store is the persistence contract consumed by the repositories.
type Store interface {
	// Insert stores a new document and returns it with its id assigned.
	// A caller-supplied "_id" is respected; otherwise one is generated.
	Insert(ctx context.Context, collection string, doc Document) (Document, error)
	// Find returns the first document whose top-level fields match every
	// key/value pair of filter, or ErrNotFound.
	Find(ctx context.Context, collection string, filter Document) (Document, error)
	// Update merges fields into the document with the given id and returns
	// the updated document.  Merge semantics: existing keys are
	// overwritten, others kept.  The store does not validate field values.
	Update(ctx context.Context, collection, id string, fields Document) (Document, error)
	// Delete removes the document with the given id.  It reports whether a
	// document was actually deleted.
	Delete(ctx context.Context, collection, id string) (bool, error)
	// List returns every document in the collection matching filter.  A nil
	// or empty filter matches all.
	List(ctx context.Context, collection string, filter Document) ([]Document, error)
}

// matches reports whether every key of filter is present in doc with an
// equal value.  Values are compared after a JSON round trip, so only
// JSON-representable values are meaningful filter targets.
func matches(doc, filter Document) bool {
	for k, want := range filter {
		got, ok := doc[k]
		if !ok || got != want {
			return false
		}
	}
	return true
}

// EncodeDoc converts a typed model into a Document via its JSON tags.
func EncodeDoc(v any) (Document, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// DecodeDoc converts a Document back into a typed model via its JSON tags.
func DecodeDoc(doc Document, v any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}
