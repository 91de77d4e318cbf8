package resource

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	apperrors "github.com/pratik-mahalle/gcli/internal/pkg/errors"
)

// CellFunc renders a column from the whole record. It is used for
// columns that combine several fields.
type CellFunc func(Record) string

// ColumnSource says where a column's value comes from: a field path or a
// cell function.
type ColumnSource struct {
	path string
	fn   CellFunc
}

// Path builds a column from a selector path.
func Path(path string) ColumnSource {
	return ColumnSource{path: path}
}

// Func builds a column from a cell function.
func Func(fn CellFunc) ColumnSource {
	return ColumnSource{fn: fn}
}

// Column is a named table column with its resolved projector.
type Column struct {
	Name    string
	project CellFunc
}

// Definition is the static description of one resource type.
type Definition struct {
	Name            string
	Schema          Schema
	Columns         []ColumnDef
	Transformations map[string]Transform
	// Editable lists the top-level fields accepted in a partial update.
	// nil means the type does not support partial update.
	Editable []string
}

// ColumnDef pairs a header with its source.
type ColumnDef struct {
	Name   string
	Source ColumnSource
}

// Col is shorthand for a ColumnDef.
func Col(name string, source ColumnSource) ColumnDef {
	return ColumnDef{Name: name, Source: source}
}

// Spec is the resolved, immutable description of a resource type.
type Spec struct {
	Name            string
	Schema          Schema
	Fields          []string
	Columns         []Column
	Transformations map[string]Transform
	Editable        []string
}

// SupportsUpdate reports whether partial updates are allowed at all.
func (s *Spec) SupportsUpdate() bool {
	return s.Editable != nil
}

// HasField reports whether path names a flattened field or a message
// above one. Indexed steps such as "disks[0]" are matched against
// "disks[]", and a repeated field may be named without its brackets.
func (s *Spec) HasField(path string) bool {
	normalized := normalizeIndexes(path)
	for _, candidate := range []string{normalized, normalized + "[]"} {
		if s.hasExact(candidate) || s.hasPrefix(candidate+".") {
			return true
		}
	}
	return false
}

func (s *Spec) hasExact(path string) bool {
	i := sort.SearchStrings(s.Fields, path)
	return i < len(s.Fields) && s.Fields[i] == path
}

func (s *Spec) hasPrefix(prefix string) bool {
	i := sort.SearchStrings(s.Fields, prefix)
	return i < len(s.Fields) && strings.HasPrefix(s.Fields[i], prefix)
}

func newSpec(def Definition) (*Spec, error) {
	if def.Name == "" {
		return nil, apperrors.Config("resource definition without a name", nil)
	}
	if def.Schema == nil {
		return nil, apperrors.Config(fmt.Sprintf("resource type [%s] has no schema", def.Name), nil)
	}
	fields, err := Flatten(def.Schema)
	if err != nil {
		return nil, apperrors.Config(fmt.Sprintf("resource type [%s]", def.Name), err)
	}

	spec := &Spec{
		Name:            def.Name,
		Schema:          def.Schema,
		Fields:          fields,
		Transformations: def.Transformations,
		Editable:        def.Editable,
	}
	for _, cd := range def.Columns {
		project, err := resolveColumn(cd.Source, def.Transformations)
		if err != nil {
			return nil, apperrors.Config(fmt.Sprintf("resource type [%s] column %s", def.Name, cd.Name), err)
		}
		spec.Columns = append(spec.Columns, Column{Name: cd.Name, project: project})
	}
	return spec, nil
}

func resolveColumn(src ColumnSource, transforms map[string]Transform) (CellFunc, error) {
	if src.fn != nil {
		return src.fn, nil
	}
	sel, err := Compile(src.path)
	if err != nil {
		return nil, err
	}
	t := transforms[src.path]
	return func(r Record) string {
		v, ok := sel.Select(r)
		return applyTransform(sel, t, v, ok)
	}, nil
}

// Registry is the immutable lookup table of resource specs.
type Registry struct {
	specs map[string]*Spec
}

// NewRegistry resolves every definition. Duplicate names are an error.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{specs: make(map[string]*Spec, len(defs))}
	for _, def := range defs {
		if _, dup := r.specs[def.Name]; dup {
			return nil, apperrors.Config(fmt.Sprintf("resource type [%s] registered twice", def.Name), nil)
		}
		spec, err := newSpec(def)
		if err != nil {
			return nil, err
		}
		r.specs[def.Name] = spec
	}
	return r, nil
}

// Get returns the spec for name or an unknown resource type error.
func (r *Registry) Get(name string) (*Spec, error) {
	spec, ok := r.specs[name]
	if !ok {
		return nil, apperrors.UnknownResourceType(name)
	}
	return spec, nil
}

// Names lists registered resource types in ascending order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.specs))
	for name := range r.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
	defaultErr      error
)

// DefaultRegistry builds the Compute Engine and Cloud SQL table on first
// use and returns the same registry afterwards.
func DefaultRegistry() (*Registry, error) {
	defaultOnce.Do(func() {
		defs := append(ComputeDefinitions(), SQLDefinitions()...)
		defaultRegistry, defaultErr = NewRegistry(defs...)
	})
	return defaultRegistry, defaultErr
}

func normalizeIndexes(path string) string {
	out := make([]byte, 0, len(path))
	for i := 0; i < len(path); i++ {
		c := path[i]
		if c != '[' {
			out = append(out, c)
			continue
		}
		j := i + 1
		for j < len(path) && path[j] >= '0' && path[j] <= '9' {
			j++
		}
		if j < len(path) && path[j] == ']' {
			out = append(out, '[', ']')
			i = j
			continue
		}
		out = append(out, c)
	}
	return string(out)
}
