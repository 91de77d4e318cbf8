package resource

import (
	"fmt"
	"strings"
)

// Transform post-processes a selected value into its display form. A
// Transform must accept nil (Absent) and any JSON value without panicking.
type Transform func(value any) string

// Name returns the last path segment of a URL or resource path.
func Name(value any) string {
	s, ok := value.(string)
	if !ok || s == "" {
		return Render(value)
	}
	return s[strings.LastIndex(s, "/")+1:]
}

// ScopedSuffix keeps the scope and name of a resource URL, for example
// "zones/us-central1-a/instances/foo". Global resources keep only
// "TYPE/NAME".
func ScopedSuffix(value any) string {
	s, ok := value.(string)
	if !ok || s == "" {
		return Render(value)
	}
	for _, marker := range []string{"/zones/", "/regions/", "/global/"} {
		if i := strings.Index(s, marker); i >= 0 {
			return strings.TrimPrefix(s[i+1:], "global/")
		}
	}
	return s
}

// ProjectSuffix returns everything after "projects/" in a resource URL.
func ProjectSuffix(value any) string {
	s, ok := value.(string)
	if !ok || s == "" {
		return Render(value)
	}
	const marker = "projects/"
	if i := strings.Index(s, marker); i >= 0 {
		return s[i+len(marker):]
	}
	return s
}

// CommaList joins a list of values with ", ". An empty or absent list
// renders as def.
func CommaList(def string) Transform {
	return func(value any) string {
		items, ok := asSequence(value)
		if !ok || len(items) == 0 {
			return def
		}
		parts := make([]string, 0, len(items))
		for _, item := range items {
			parts = append(parts, Render(item))
		}
		return strings.Join(parts, ", ")
	}
}

// MemoryGB formats a megabyte count as gigabytes with two decimals.
func MemoryGB(value any) string {
	mb, ok := toFloat(value)
	if !ok || mb == 0 {
		return ""
	}
	return fmt.Sprintf("%5.2f", mb/1024)
}

// applyTransform runs t on a selector result. Results of unbounded
// selectors are transformed element by element and comma-joined.
func applyTransform(sel *Selector, t Transform, value any, ok bool) string {
	if !ok {
		value = nil
	}
	if t == nil {
		return Render(value)
	}
	if !sel.Unbounded() {
		return t(value)
	}
	items, isSeq := value.([]any)
	if !isSeq {
		return t(value)
	}
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, t(item))
	}
	return strings.Join(parts, ",")
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		var f float64
		if _, err := fmt.Sscan(v, &f); err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
