package services

import (
	"fmt"
	"strings"

	"github.com/datapar/analysis-backend/internal/platform/apierr"
)

// Job parameter validation. A stricter, job-type-specific gate that runs
// before the generic job schema on creation. Descriptive jobs pick from a
// fixed statistic set; ML jobs name one of the supported algorithms, each
// with its own field schema.

var descriptiveStatistics = []string{"rowCount", "columnCount", "missingValues", "minMaxMean"}

type paramKind int

const (
	paramString paramKind = iota
	paramNumber
	paramArray
)

func (k paramKind) name() string {
	switch k {
	case paramString:
		return "string"
	case paramNumber:
		return "number"
	default:
		return "array"
	}
}

type paramField struct {
	name     string
	kind     paramKind
	required bool
	allowed  []string
}

// Per-algorithm schemas, in field order so error output is stable.
var mlSchemas = map[string][]paramField{
	"kmeans": {
		{name: "algorithm", kind: paramString, required: true, allowed: []string{"kmeans"}},
		{name: "features", kind: paramArray, required: true},
		{name: "k", kind: paramNumber, required: true},
		{name: "maxIter", kind: paramNumber},
	},
	"linear_regression": {
		{name: "algorithm", kind: paramString, required: true, allowed: []string{"linear_regression"}},
		{name: "label", kind: paramString, required: true},
		{name: "features", kind: paramArray, required: true},
		{name: "trainRatio", kind: paramNumber},
	},
	"fp_growth": {
		{name: "algorithm", kind: paramString, required: true, allowed: []string{"fp_growth"}},
		{name: "itemsColumn", kind: paramString, required: true},
		{name: "minSupport", kind: paramNumber},
	},
}

var mlAlgorithmNames = []string{"kmeans", "linear_regression", "fp_growth"}

// ValidateJobParameters gates job creation by (jobType, subType). It is a
// pure function; nothing is persisted or defaulted here.
func ValidateJobParameters(jobType, subType string, parameters map[string]any) error {
	switch jobType {
	case "descriptive":
		return validateDescriptiveParameters(parameters)
	case "ml":
		return validateMLParameters(subType, parameters)
	default:
		return apierr.ParameterValidation("Invalid job type")
	}
}

func validateDescriptiveParameters(parameters map[string]any) error {
	stats, ok := parameters["statistics"].([]any)
	if !ok {
		return apierr.ParameterValidation("Descriptive job must include a statistics array")
	}
	var invalid []string
	for _, s := range stats {
		name, _ := s.(string)
		if !containsString(descriptiveStatistics, name) {
			invalid = append(invalid, fmt.Sprintf("%v", s))
		}
	}
	if len(invalid) > 0 {
		return apierr.ParameterValidation(fmt.Sprintf("Invalid statistics: %s", strings.Join(invalid, ", ")))
	}
	if columns, present := parameters["columns"]; present {
		if _, ok := columns.([]any); !ok {
			return apierr.ParameterValidation("columns must be an array")
		}
	}
	return nil
}

func validateMLParameters(subType string, parameters map[string]any) error {
	fields, ok := mlSchemas[subType]
	if !ok {
		return apierr.ParameterValidation(fmt.Sprintf(
			"Unsupported ML algorithm. Allowed: %s", strings.Join(mlAlgorithmNames, ", ")))
	}
	for _, f := range fields {
		value, present := parameters[f.name]
		if f.required && (!present || value == nil) {
			return apierr.ParameterValidation(fmt.Sprintf("Missing required field: %s", f.name))
		}
		if !present || value == nil {
			continue
		}
		switch f.kind {
		case paramString:
			if _, ok := value.(string); !ok {
				return apierr.ParameterValidation(fmt.Sprintf("%s must be a %s", f.name, f.kind.name()))
			}
		case paramNumber:
			if !isNumeric(value) {
				return apierr.ParameterValidation(fmt.Sprintf("%s must be a %s", f.name, f.kind.name()))
			}
		case paramArray:
			if _, ok := value.([]any); !ok {
				return apierr.ParameterValidation(fmt.Sprintf("%s must be an %s", f.name, f.kind.name()))
			}
		}
		if len(f.allowed) > 0 {
			s, _ := value.(string)
			if !containsString(f.allowed, s) {
				return apierr.ParameterValidation(fmt.Sprintf(
					"%s value must be one of: %s", f.name, strings.Join(f.allowed, ", ")))
			}
		}
	}
	return nil
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func isNumeric(value any) bool {
	switch value.(type) {
	case float64, float32, int, int64:
		return true
	}
	return false
}
