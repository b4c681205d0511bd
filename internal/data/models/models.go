// Package models defines the persisted record types. Each model composes
// the schema validator, the default applier, and a docstore collection
// into create/read/update/delete operations. Documents round-trip to the
// store on every call; nothing is cached.
package models

import (
	"time"

	"github.com/datapar/analysis-backend/internal/platform/docstore"
)

// Collection names. One file-backed namespace per entity type.
const (
	UsersCollection      = "users"
	DatasetsCollection   = "datasets"
	JobsCollection       = "jobs"
	MLResultsCollection  = "ml_results"
	StatisticsCollection = "statistics"
)

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// clone copies data so callers never see their payload mutated by id or
// default assignment.
func clone(data docstore.Document) docstore.Document {
	doc := make(docstore.Document, len(data)+1)
	for k, v := range data {
		doc[k] = v
	}
	return doc
}

func withID(data docstore.Document, id string) docstore.Document {
	doc := clone(data)
	doc[docstore.IDField] = id
	return doc
}

func firstOrNil(docs []docstore.Document) docstore.Document {
	if len(docs) == 0 {
		return nil
	}
	return docs[0]
}
