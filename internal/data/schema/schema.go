// Package schema validates documents against declarative per-field rules
// and fills creation defaults. Validation is not fail-fast: every field is
// checked and the failures are reported together, in schema order.
package schema

import (
	"fmt"
	"strings"

	"github.com/datapar/analysis-backend/internal/platform/apierr"
	"github.com/datapar/analysis-backend/internal/platform/docstore"
)

type Mode int

const (
	// ModeCreate checks every field in the schema.
	ModeCreate Mode = iota
	// ModeUpdate checks only the fields present in the payload; missing
	// required fields are not an error on update.
	ModeUpdate
)

// Field binds a document key to its rule. HasDefault (or Skip) exempts an
// absent field from creation checks; the default is applied later by
// ApplyDefaults.
type Field struct {
	Name       string
	Rule       Rule
	HasDefault bool
	Skip       bool
}

// Schema is ordered so that error output is deterministic.
type Schema []Field

// Rule is the closed set of field kinds. Adding a kind means adding a type
// here, not extending a runtime switch.
type Rule interface {
	check(name string, value any, present bool) []string
}

// String accepts only string values. Required additionally rejects absent
// fields; present strings must be non-blank unless AllowEmpty.
type String struct {
	Required   bool
	AllowEmpty bool
}

func (r String) check(name string, value any, present bool) []string {
	s, isString := value.(string)
	if (present && !isString) || (r.Required && !present) {
		return []string{fmt.Sprintf("%s must be a string", name)}
	}
	if present && !r.AllowEmpty && strings.TrimSpace(s) == "" {
		return []string{fmt.Sprintf("%s cannot be empty", name)}
	}
	return nil
}

// Number always requires a numeric value; numbers must be > 0 unless
// AllowNonPositive.
type Number struct {
	AllowNonPositive bool
}

func (r Number) check(name string, value any, present bool) []string {
	f, isNumber := toFloat(value)
	if !present || !isNumber {
		return []string{fmt.Sprintf("%s must be a number", name)}
	}
	if !r.AllowNonPositive && f <= 0 {
		return []string{fmt.Sprintf("%s must be positive", name)}
	}
	return nil
}

// Enum requires membership in Values. Absent values pass unless Required.
type Enum struct {
	Required bool
	Values   []any
}

func (r Enum) check(name string, value any, present bool) []string {
	if !present {
		if r.Required {
			return []string{fmt.Sprintf("%s must be one of: %s", name, joinValues(r.Values))}
		}
		return nil
	}
	for _, allowed := range r.Values {
		if looseEqual(value, allowed) {
			return nil
		}
	}
	return []string{fmt.Sprintf("%s must be one of: %s", name, joinValues(r.Values))}
}

// Object requires a map value when Required; otherwise anything passes.
type Object struct {
	Required bool
}

func (r Object) check(name string, value any, present bool) []string {
	if !r.Required {
		return nil
	}
	if _, ok := value.(map[string]any); !ok {
		return []string{fmt.Sprintf("%s must be an object", name)}
	}
	return nil
}

type ElementKind int

const (
	ElementAny ElementKind = iota
	ElementString
	ElementNumber
)

// Array requires a slice value when Required. When ElementKind is set,
// every element is checked and failures are reported per index.
type Array struct {
	Required bool
	Elements ElementKind
}

func (r Array) check(name string, value any, present bool) []string {
	items, isArray := value.([]any)
	if r.Required && (!present || !isArray) {
		return []string{fmt.Sprintf("%s must be an array", name)}
	}
	if !isArray || r.Elements == ElementAny {
		return nil
	}
	var errs []string
	for i, el := range items {
		switch r.Elements {
		case ElementString:
			if _, ok := el.(string); !ok {
				errs = append(errs, fmt.Sprintf("%s[%d] must be a string", name, i))
			}
		case ElementNumber:
			if _, ok := toFloat(el); !ok {
				errs = append(errs, fmt.Sprintf("%s[%d] must be a number", name, i))
			}
		}
	}
	return errs
}

// Validate checks doc against s and reports every failing field at once.
func Validate(doc docstore.Document, s Schema, mode Mode) error {
	var errs []string
	for _, f := range s {
		value, present := doc[f.Name]
		if !present && (f.HasDefault || f.Skip) {
			continue
		}
		if mode == ModeUpdate && !present {
			continue
		}
		errs = append(errs, f.Rule.check(f.Name, value, present)...)
	}
	if len(errs) > 0 {
		return apierr.Validation("Validation failed", errs)
	}
	return nil
}

// ApplyDefaults assigns each default whose key is absent on doc. Supplied
// values are never overwritten. Only creation paths call this.
func ApplyDefaults(doc docstore.Document, defaults map[string]any) {
	for k, v := range defaults {
		if _, ok := doc[k]; !ok {
			doc[k] = v
		}
	}
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// looseEqual compares enum members across the numeric representations JSON
// decoding produces.
func looseEqual(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return fa == fb
		}
		return false
	}
	return a == b
}

func joinValues(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%v", v)
	}
	return strings.Join(parts, ", ")
}
