package resource

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Record is a JSON-decoded API response object. Nested objects are
// map[string]any and arrays are []any, as produced by encoding/json.
type Record = map[string]any

type stepKind int

const (
	stepField stepKind = iota
	stepIndex
	stepEach
)

type step struct {
	kind  stepKind
	field string
	index int
}

// Selector is a compiled field path such as
// "networkInterfaces[0].accessConfigs[0].natIP" or "disks[].source".
type Selector struct {
	path      string
	steps     []step
	unbounded bool
}

// Compile parses path. It fails only on malformed input: empty segments,
// unbalanced brackets or a non-numeric index.
func Compile(path string) (*Selector, error) {
	if path == "" {
		return nil, fmt.Errorf("empty selector path")
	}
	s := &Selector{path: path}
	for _, segment := range strings.Split(path, ".") {
		steps, err := parseSegment(segment)
		if err != nil {
			return nil, fmt.Errorf("invalid selector %q: %w", path, err)
		}
		for _, st := range steps {
			if st.kind == stepEach {
				s.unbounded = true
			}
		}
		s.steps = append(s.steps, steps...)
	}
	return s, nil
}

// MustCompile is like Compile but panics on a malformed path. It is meant
// for the static spec table.
func MustCompile(path string) *Selector {
	s, err := Compile(path)
	if err != nil {
		panic(err)
	}
	return s
}

func parseSegment(segment string) ([]step, error) {
	open := strings.IndexByte(segment, '[')
	name := segment
	if open >= 0 {
		name = segment[:open]
	}
	if name == "" {
		return nil, fmt.Errorf("empty field name in segment %q", segment)
	}
	if strings.ContainsAny(name, "]") {
		return nil, fmt.Errorf("unbalanced brackets in segment %q", segment)
	}
	steps := []step{{kind: stepField, field: name}}

	rest := ""
	if open >= 0 {
		rest = segment[open:]
	}
	for rest != "" {
		if rest[0] != '[' {
			return nil, fmt.Errorf("unexpected %q after index in segment %q", rest, segment)
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return nil, fmt.Errorf("unbalanced brackets in segment %q", segment)
		}
		inner := rest[1:end]
		switch {
		case inner == "":
			steps = append(steps, step{kind: stepEach})
		case strings.ContainsAny(inner, "[]"):
			return nil, fmt.Errorf("unbalanced brackets in segment %q", segment)
		default:
			n, err := strconv.Atoi(inner)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("invalid index %q in segment %q", inner, segment)
			}
			steps = append(steps, step{kind: stepIndex, index: n})
		}
		rest = rest[end+1:]
	}
	return steps, nil
}

// Path returns the source path string.
func (s *Selector) Path() string {
	return s.path
}

// Unbounded reports whether the path contains a [] step, in which case
// Select returns a []any of per-element values.
func (s *Selector) Unbounded() bool {
	return s.unbounded
}

// Select walks record along the path. ok is false when any step is
// missing, nil, of the wrong container type or out of range. It never
// panics.
func (s *Selector) Select(record any) (any, bool) {
	return walk(record, s.steps)
}

func walk(current any, steps []step) (any, bool) {
	for i, st := range steps {
		if current == nil {
			return nil, false
		}
		switch st.kind {
		case stepField:
			m, ok := current.(map[string]any)
			if !ok {
				return nil, false
			}
			v, ok := m[st.field]
			if !ok || v == nil {
				return nil, false
			}
			current = v
		case stepIndex:
			seq, ok := asSequence(current)
			if !ok || st.index >= len(seq) {
				return nil, false
			}
			current = seq[st.index]
		case stepEach:
			seq, ok := asSequence(current)
			if !ok {
				return nil, false
			}
			out := make([]any, 0, len(seq))
			for _, elem := range seq {
				v, ok := walk(elem, steps[i+1:])
				if !ok {
					continue
				}
				if nested, isSeq := v.([]any); isSeq && hasEach(steps[i+1:]) {
					out = append(out, nested...)
					continue
				}
				out = append(out, v)
			}
			return out, true
		}
	}
	if current == nil {
		return nil, false
	}
	return current, true
}

func hasEach(steps []step) bool {
	for _, st := range steps {
		if st.kind == stepEach {
			return true
		}
	}
	return false
}

func asSequence(v any) ([]any, bool) {
	switch seq := v.(type) {
	case []any:
		return seq, true
	case []string:
		out := make([]any, len(seq))
		for i, s := range seq {
			out[i] = s
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(seq))
		for i, m := range seq {
			out[i] = m
		}
		return out, true
	default:
		return nil, false
	}
}

// Render formats a selected value for a table cell. Absent values (nil)
// render as the empty string and sequences are comma-joined.
func Render(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case json.Number:
		return val.String()
	case []any:
		parts := make([]string, 0, len(val))
		for _, elem := range val {
			parts = append(parts, Render(elem))
		}
		return strings.Join(parts, ",")
	case []string:
		return strings.Join(val, ",")
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}
