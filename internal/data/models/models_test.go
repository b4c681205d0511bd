package models

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/datapar/analysis-backend/internal/platform/apierr"
	"github.com/datapar/analysis-backend/internal/platform/docstore"
	"github.com/datapar/analysis-backend/internal/platform/logger"
)

func testStore(t *testing.T) *docstore.Store {
	t.Helper()
	store, err := docstore.Open(filepath.Join(t.TempDir(), "models.db"), logger.NewNop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func validationDetails(t *testing.T, err error) []string {
	t.Helper()
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Kind != apierr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	return ae.Details
}

func TestUserCreateRoundTrip(t *testing.T) {
	ctx := context.Background()
	users := NewUserModel(testStore(t), logger.NewNop())

	created, err := users.Create(ctx, docstore.Document{
		"name":         "Ada",
		"email":        "ada@example.com",
		"passwordHash": "$2a$10$abcdefghijklmnopqrstuv",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id, _ := created[docstore.IDField].(string)
	if len(id) != 24 {
		t.Fatalf("expected 24-char hex id, got %q", id)
	}
	if created["createdAt"] == nil || created["updatedAt"] == nil {
		t.Fatalf("timestamps not defaulted: %v", created)
	}

	found, err := users.FindByID(ctx, id)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	for _, k := range []string{"name", "email", "passwordHash"} {
		if found[k] != created[k] {
			t.Fatalf("round trip mismatch on %s: %v vs %v", k, found[k], created[k])
		}
	}

	byEmail, err := users.FindByEmail(ctx, "ada@example.com")
	if err != nil || byEmail == nil || byEmail[docstore.IDField] != id {
		t.Fatalf("FindByEmail: doc=%v err=%v", byEmail, err)
	}
}

func TestUserCreateGeneratesDistinctIDs(t *testing.T) {
	ctx := context.Background()
	users := NewUserModel(testStore(t), logger.NewNop())

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		doc, err := users.Create(ctx, docstore.Document{
			"name":         "u",
			"email":        "u@example.com",
			"passwordHash": "h",
		})
		if err != nil {
			t.Fatalf("Create #%d: %v", i, err)
		}
		id := doc[docstore.IDField].(string)
		if seen[id] {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = true
	}
}

func TestUserRejectsMalformedEmail(t *testing.T) {
	ctx := context.Background()
	users := NewUserModel(testStore(t), logger.NewNop())

	_, err := users.Create(ctx, docstore.Document{
		"name":         "Ada",
		"email":        "not-an-email",
		"passwordHash": "h",
	})
	got := validationDetails(t, err)
	if len(got) != 1 || !strings.Contains(got[0], "email") {
		t.Fatalf("details: %v", got)
	}
}

func TestUserUpdatePartialFieldsOnly(t *testing.T) {
	ctx := context.Background()
	users := NewUserModel(testStore(t), logger.NewNop())

	created, err := users.Create(ctx, docstore.Document{
		"name":         "Ada",
		"email":        "ada@example.com",
		"passwordHash": "h",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := created[docstore.IDField].(string)

	// Supplying only name must not trip required checks on the rest.
	updated, err := users.UpdateByID(ctx, id, docstore.Document{"name": "Ada L."})
	if err != nil {
		t.Fatalf("UpdateByID: %v", err)
	}
	if updated["name"] != "Ada L." || updated["email"] != "ada@example.com" {
		t.Fatalf("merge-set failed: %v", updated)
	}
	if updated["updatedAt"] == nil {
		t.Fatalf("updatedAt not stamped: %v", updated)
	}
}

func TestDatasetDefaultsAndFileTypeEnum(t *testing.T) {
	ctx := context.Background()
	datasets := NewDatasetModel(testStore(t), logger.NewNop())

	created, err := datasets.Create(ctx, docstore.Document{
		"userId":      "u1",
		"fileName":    "data.csv",
		"fileSize":    128,
		"storagePath": "datasets/u1/data.csv",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created["fileType"] != "csv" || created["status"] != "uploaded" {
		t.Fatalf("defaults not applied: %v", created)
	}
	if created["uploadDate"] == nil {
		t.Fatalf("uploadDate not defaulted: %v", created)
	}

	_, err = datasets.Create(ctx, docstore.Document{
		"userId":      "u1",
		"fileName":    "tool.exe",
		"fileType":    "exe",
		"fileSize":    128,
		"storagePath": "datasets/u1/tool.exe",
	})
	got := validationDetails(t, err)
	if len(got) != 1 || got[0] != "fileType must be one of: pdf, csv, txt, json" {
		t.Fatalf("details: %v", got)
	}
}

func TestJobCreateDefaultsAndFinders(t *testing.T) {
	ctx := context.Background()
	jobs := NewJobModel(testStore(t), logger.NewNop())

	created, err := jobs.Create(ctx, docstore.Document{
		"datasetId":     "d1",
		"jobType":       "descriptive",
		"parameters":    map[string]any{"statistics": []any{"rowCount"}},
		"clusterConfig": 2,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created["status"] != "pending" {
		t.Fatalf("status default: %v", created)
	}
	for _, k := range []string{"executionTimes", "speedup", "efficiency"} {
		if _, ok := created[k].(map[string]any); !ok {
			t.Fatalf("%s not defaulted to empty map: %v", k, created[k])
		}
	}

	id := created[docstore.IDField].(string)
	byDataset, err := jobs.FindByDatasetID(ctx, "d1")
	if err != nil || len(byDataset) != 1 || byDataset[0][docstore.IDField] != id {
		t.Fatalf("FindByDatasetID: docs=%v err=%v", byDataset, err)
	}

	pending, err := jobs.FindByStatus(ctx, "pending")
	if err != nil || len(pending) != 1 {
		t.Fatalf("FindByStatus: docs=%v err=%v", pending, err)
	}
	if _, err := jobs.FindByStatus(ctx, "sleeping"); err == nil {
		t.Fatal("FindByStatus should reject unknown status")
	}
}

func TestJobCreateRejectsBadEnumValues(t *testing.T) {
	ctx := context.Background()
	jobs := NewJobModel(testStore(t), logger.NewNop())

	_, err := jobs.Create(ctx, docstore.Document{
		"datasetId":     "d1",
		"jobType":       "quantum",
		"clusterConfig": 3,
	})
	got := validationDetails(t, err)
	if len(got) != 2 {
		t.Fatalf("expected jobType and clusterConfig errors, got %v", got)
	}
	if got[0] != "jobType must be one of: descriptive, ml" {
		t.Fatalf("details[0]: %q", got[0])
	}
	if got[1] != "clusterConfig must be one of: 1, 2, 4" {
		t.Fatalf("details[1]: %q", got[1])
	}
}

func TestJobUpdateMergesMetrics(t *testing.T) {
	ctx := context.Background()
	jobs := NewJobModel(testStore(t), logger.NewNop())

	created, err := jobs.Create(ctx, docstore.Document{
		"datasetId":     "d1",
		"jobType":       "ml",
		"parameters":    map[string]any{"algorithm": "kmeans"},
		"clusterConfig": 4,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := created[docstore.IDField].(string)

	updated, err := jobs.UpdateByID(ctx, id, docstore.Document{
		"status":         "completed",
		"executionTimes": map[string]any{"1": 42.5, "4": 13.1},
		"completedAt":    "2026-02-01T10:00:00Z",
	})
	if err != nil {
		t.Fatalf("UpdateByID: %v", err)
	}
	if updated["status"] != "completed" || updated["completedAt"] != "2026-02-01T10:00:00Z" {
		t.Fatalf("update not applied: %v", updated)
	}
	times, _ := updated["executionTimes"].(map[string]any)
	if times["1"] != 42.5 {
		t.Fatalf("executionTimes not merged: %v", updated["executionTimes"])
	}
}

func TestMLResultAndStatisticsDefaults(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)
	results := NewMLResultModel(store, logger.NewNop())
	stats := NewStatisticsModel(store, logger.NewNop())

	res, err := results.Create(ctx, docstore.Document{"jobId": "j1", "modelType": "kmeans"})
	if err != nil {
		t.Fatalf("MLResult Create: %v", err)
	}
	if _, ok := res["metrics"].(map[string]any); !ok {
		t.Fatalf("metrics default: %v", res)
	}
	if _, ok := res["outputFiles"].([]any); !ok {
		t.Fatalf("outputFiles default: %v", res)
	}

	st, err := stats.Create(ctx, docstore.Document{"jobId": "j1"})
	if err != nil {
		t.Fatalf("Statistics Create: %v", err)
	}
	if _, ok := st["statistics"].(map[string]any); !ok {
		t.Fatalf("statistics default: %v", st)
	}

	byJob, err := results.FindByJobID(ctx, "j1")
	if err != nil || len(byJob) != 1 {
		t.Fatalf("MLResult FindByJobID: %v %v", byJob, err)
	}
	if _, err := results.Create(ctx, docstore.Document{"modelType": "kmeans"}); err == nil {
		t.Fatal("MLResult without jobId should fail")
	}
}

func TestDeleteByIDIsHardDelete(t *testing.T) {
	ctx := context.Background()
	datasets := NewDatasetModel(testStore(t), logger.NewNop())

	created, err := datasets.Create(ctx, docstore.Document{
		"userId":      "u1",
		"fileName":    "a.json",
		"fileType":    "json",
		"fileSize":    1,
		"storagePath": "datasets/u1/a.json",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := created[docstore.IDField].(string)

	n, err := datasets.DeleteByID(ctx, id)
	if err != nil || n != 1 {
		t.Fatalf("DeleteByID: n=%d err=%v", n, err)
	}
	gone, err := datasets.FindByID(ctx, id)
	if err != nil || gone != nil {
		t.Fatalf("expected document gone, got %v err=%v", gone, err)
	}
}
