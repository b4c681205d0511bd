// Package docstore is an embedded, file-backed document store. Documents
// are JSON objects keyed by their "_id" field, grouped into named
// collections (one bbolt bucket each). Filters match on exact field
// equality only; updates merge a partial document into every match.
package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/datapar/analysis-backend/internal/platform/logger"
)

const IDField = "_id"

var (
	ErrMissingID    = fmt.Errorf("document has no %s field", IDField)
	ErrDuplicateKey = fmt.Errorf("duplicate %s", IDField)
)

type Document = map[string]any

type Store struct {
	db  *bolt.DB
	log *logger.Logger
}

// Open opens (creating if needed) the store file. bbolt serializes all
// writes internally, so the store is safe for concurrent request handling
// within a single process.
func Open(path string, baseLog *logger.Logger) (*Store, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open document store %q: %w", path, err)
	}
	return &Store{db: db, log: baseLog.With("component", "docstore")}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Collection(name string) *Collection {
	return &Collection{
		db:   s.db,
		name: []byte(name),
		log:  s.log.With("collection", name),
	}
}

type Collection struct {
	db   *bolt.DB
	name []byte
	log  *logger.Logger
}

type UpdateOptions struct {
	ReturnUpdated bool
}

type UpdateResult struct {
	Count int
	// Docs holds the post-update documents when ReturnUpdated was set.
	Docs []Document
}

// Insert persists doc and returns the stored form. The document must
// already carry its id.
func (c *Collection) Insert(ctx context.Context, doc Document) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id, ok := doc[IDField].(string)
	if !ok || id == "" {
		return nil, ErrMissingID
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	err = c.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(c.name)
		if err != nil {
			return err
		}
		if b.Get([]byte(id)) != nil {
			return ErrDuplicateKey
		}
		return b.Put([]byte(id), raw)
	})
	if err != nil {
		return nil, err
	}
	return decode(raw)
}

// FindOne returns the first document matching filter, or nil when nothing
// matches.
func (c *Collection) FindOne(ctx context.Context, filter Document) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var found Document
	err := c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(c.name)
		if b == nil {
			return nil
		}
		// Id filters hit the key index directly.
		if id, ok := idOnlyFilter(filter); ok {
			raw := b.Get([]byte(id))
			if raw == nil {
				return nil
			}
			doc, err := decode(raw)
			if err != nil {
				return err
			}
			found = doc
			return nil
		}
		return b.ForEach(func(_, raw []byte) error {
			if found != nil {
				return nil
			}
			doc, err := decode(raw)
			if err != nil {
				return err
			}
			if matches(doc, filter) {
				found = doc
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// Find returns every document matching filter. An empty filter matches the
// whole collection. Order is unspecified.
func (c *Collection) Find(ctx context.Context, filter Document) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []Document
	err := c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(c.name)
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, raw []byte) error {
			doc, err := decode(raw)
			if err != nil {
				return err
			}
			if matches(doc, filter) {
				out = append(out, doc)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Update merges set into every document matching filter.
func (c *Collection) Update(ctx context.Context, filter, set Document, opts UpdateOptions) (UpdateResult, error) {
	var res UpdateResult
	if err := ctx.Err(); err != nil {
		return res, err
	}
	err := c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(c.name)
		if b == nil {
			return nil
		}
		type pending struct {
			key []byte
			raw []byte
			doc Document
		}
		var updates []pending
		if err := b.ForEach(func(key, raw []byte) error {
			doc, err := decode(raw)
			if err != nil {
				return err
			}
			if !matches(doc, filter) {
				return nil
			}
			for k, v := range set {
				if k == IDField {
					continue
				}
				doc[k] = v
			}
			merged, err := json.Marshal(doc)
			if err != nil {
				return fmt.Errorf("encode document: %w", err)
			}
			updates = append(updates, pending{key: append([]byte(nil), key...), raw: merged, doc: doc})
			return nil
		}); err != nil {
			return err
		}
		for _, u := range updates {
			if err := b.Put(u.key, u.raw); err != nil {
				return err
			}
			res.Count++
			if opts.ReturnUpdated {
				stored, err := decode(u.raw)
				if err != nil {
					return err
				}
				res.Docs = append(res.Docs, stored)
			}
		}
		return nil
	})
	if err != nil {
		return UpdateResult{}, err
	}
	return res, nil
}

// Remove hard-deletes every document matching filter and returns how many
// were removed.
func (c *Collection) Remove(ctx context.Context, filter Document) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	removed := 0
	err := c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(c.name)
		if b == nil {
			return nil
		}
		var keys [][]byte
		if err := b.ForEach(func(key, raw []byte) error {
			doc, err := decode(raw)
			if err != nil {
				return err
			}
			if matches(doc, filter) {
				keys = append(keys, append([]byte(nil), key...))
			}
			return nil
		}); err != nil {
			return err
		}
		for _, key := range keys {
			if err := b.Delete(key); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func decode(raw []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

func idOnlyFilter(filter Document) (string, bool) {
	if len(filter) != 1 {
		return "", false
	}
	id, ok := filter[IDField].(string)
	return id, ok && id != ""
}

func matches(doc, filter Document) bool {
	for k, want := range filter {
		got, ok := doc[k]
		if !ok || !valueEqual(got, want) {
			return false
		}
	}
	return true
}

// valueEqual compares through a JSON round trip so that filter values
// written in Go (int, time.Time, ...) compare equal to their stored form.
func valueEqual(a, b any) bool {
	ra, errA := json.Marshal(a)
	rb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(ra, rb)
}
