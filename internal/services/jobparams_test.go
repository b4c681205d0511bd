package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/datapar/analysis-backend/internal/platform/apierr"
)

func paramError(t *testing.T, err error) *apierr.Error {
	t.Helper()
	if err == nil {
		t.Fatal("expected a parameter validation error, got nil")
	}
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Kind != apierr.KindParameterValidation {
		t.Fatalf("expected parameter validation error, got %v", err)
	}
	return ae
}

func TestDescriptiveParameters(t *testing.T) {
	err := ValidateJobParameters("descriptive", "", map[string]any{
		"statistics": []any{"rowCount", "columnCount"},
		"columns":    []any{"age", "salary"},
	})
	if err != nil {
		t.Fatalf("valid descriptive parameters rejected: %v", err)
	}

	ae := paramError(t, ValidateJobParameters("descriptive", "", map[string]any{
		"statistics": []any{"rowCount", "bogus"},
	}))
	if !strings.Contains(ae.Message, "bogus") {
		t.Fatalf("invalid statistic not named: %q", ae.Message)
	}

	ae = paramError(t, ValidateJobParameters("descriptive", "", map[string]any{}))
	if ae.Message != "Descriptive job must include a statistics array" {
		t.Fatalf("message: %q", ae.Message)
	}

	ae = paramError(t, ValidateJobParameters("descriptive", "", map[string]any{
		"statistics": []any{"rowCount"},
		"columns":    "age",
	}))
	if ae.Message != "columns must be an array" {
		t.Fatalf("message: %q", ae.Message)
	}
}

func TestKMeansParameters(t *testing.T) {
	valid := map[string]any{
		"algorithm": "kmeans",
		"features":  []any{"age", "salary"},
		"k":         float64(4),
	}
	if err := ValidateJobParameters("ml", "kmeans", valid); err != nil {
		t.Fatalf("valid kmeans parameters rejected: %v", err)
	}

	missingK := map[string]any{
		"algorithm": "kmeans",
		"features":  []any{"age", "salary"},
	}
	ae := paramError(t, ValidateJobParameters("ml", "kmeans", missingK))
	if ae.Message != "Missing required field: k" {
		t.Fatalf("message: %q", ae.Message)
	}

	wrongKType := map[string]any{
		"algorithm": "kmeans",
		"features":  []any{"age"},
		"k":         "four",
	}
	ae = paramError(t, ValidateJobParameters("ml", "kmeans", wrongKType))
	if ae.Message != "k must be a number" {
		t.Fatalf("message: %q", ae.Message)
	}

	wrongAlgorithm := map[string]any{
		"algorithm": "dbscan",
		"features":  []any{"age"},
		"k":         float64(2),
	}
	ae = paramError(t, ValidateJobParameters("ml", "kmeans", wrongAlgorithm))
	if ae.Message != "algorithm value must be one of: kmeans" {
		t.Fatalf("message: %q", ae.Message)
	}
}

func TestLinearRegressionParameters(t *testing.T) {
	valid := map[string]any{
		"algorithm":  "linear_regression",
		"label":      "price",
		"features":   []any{"sqft", "rooms"},
		"trainRatio": 0.8,
	}
	if err := ValidateJobParameters("ml", "linear_regression", valid); err != nil {
		t.Fatalf("valid linear_regression parameters rejected: %v", err)
	}

	delete(valid, "label")
	ae := paramError(t, ValidateJobParameters("ml", "linear_regression", valid))
	if ae.Message != "Missing required field: label" {
		t.Fatalf("message: %q", ae.Message)
	}
}

func TestFPGrowthParameters(t *testing.T) {
	valid := map[string]any{
		"algorithm":   "fp_growth",
		"itemsColumn": "items",
	}
	if err := ValidateJobParameters("ml", "fp_growth", valid); err != nil {
		t.Fatalf("valid fp_growth parameters rejected: %v", err)
	}

	valid["itemsColumn"] = 7
	ae := paramError(t, ValidateJobParameters("ml", "fp_growth", valid))
	if ae.Message != "itemsColumn must be a string" {
		t.Fatalf("message: %q", ae.Message)
	}
}

func TestUnknownSubTypeAndJobType(t *testing.T) {
	ae := paramError(t, ValidateJobParameters("ml", "dbscan", map[string]any{}))
	if ae.Message != "Unsupported ML algorithm. Allowed: kmeans, linear_regression, fp_growth" {
		t.Fatalf("message: %q", ae.Message)
	}

	ae = paramError(t, ValidateJobParameters("batch", "", map[string]any{}))
	if ae.Message != "Invalid job type" {
		t.Fatalf("message: %q", ae.Message)
	}
}
