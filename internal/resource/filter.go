package resource

import (
	"strings"

	"github.com/gobwas/glob"

	apperrors "github.com/pratik-mahalle/gcli/internal/pkg/errors"
)

// Filter matches one field of a record against a glob pattern.
type Filter struct {
	Field    string
	Pattern  string
	selector *Selector
	glob     glob.Glob
}

// ParseFilters parses FIELD=GLOB expressions. Each field must be a
// flattened field of spec.
func ParseFilters(spec *Spec, exprs []string) ([]Filter, error) {
	filters := make([]Filter, 0, len(exprs))
	for _, expr := range exprs {
		field, pattern, ok := strings.Cut(expr, "=")
		if !ok || field == "" {
			return nil, apperrors.Tool("invalid filter [%s]: expected FIELD=PATTERN", expr)
		}
		if !spec.HasField(field) {
			return nil, apperrors.Tool("invalid filter [%s]: %s has no field [%s]", expr, spec.Name, field)
		}
		sel, err := Compile(field)
		if err != nil {
			return nil, apperrors.Tool("invalid filter [%s]: %v", expr, err)
		}
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, apperrors.Tool("invalid filter [%s]: %v", expr, err)
		}
		filters = append(filters, Filter{Field: field, Pattern: pattern, selector: sel, glob: g})
	}
	return filters, nil
}

// Match reports whether the record's field value matches. For [] paths
// any element may match. The transformation registered for the field is
// applied first, so "zone=us-*" matches zone URLs.
func (f Filter) Match(spec *Spec, record Record) bool {
	v, ok := f.selector.Select(record)
	if !ok {
		return f.glob.Match("")
	}
	t := spec.Transformations[normalizeIndexes(f.Field)]
	if items, isSeq := v.([]any); isSeq && f.selector.Unbounded() {
		for _, item := range items {
			if f.glob.Match(renderWith(t, item)) {
				return true
			}
		}
		return false
	}
	return f.glob.Match(renderWith(t, v))
}

func renderWith(t Transform, v any) string {
	if t == nil {
		return Render(v)
	}
	return t(v)
}

// FilterRecords keeps records matching every filter.
func FilterRecords(spec *Spec, records []Record, filters []Filter) []Record {
	if len(filters) == 0 {
		return records
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		keep := true
		for _, f := range filters {
			if !f.Match(spec, r) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, r)
		}
	}
	return out
}
