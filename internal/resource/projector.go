package resource

import (
	"fmt"
	"strings"

	apperrors "github.com/pratik-mahalle/gcli/internal/pkg/errors"
	"github.com/pratik-mahalle/gcli/internal/pkg/logger"
)

// Projector turns records into table rows. It holds no state besides its
// logger, so projecting the same input twice gives the same rows.
type Projector struct {
	log *logger.Logger
}

// NewProjector returns a Projector that reports failed cells to log.
func NewProjector(log *logger.Logger) *Projector {
	if log == nil {
		log = logger.Nop()
	}
	return &Projector{log: log}
}

// Headers returns column names in display order.
func Headers(spec *Spec) []string {
	headers := make([]string, len(spec.Columns))
	for i, c := range spec.Columns {
		headers[i] = c.Name
	}
	return headers
}

// Project renders every record.
func (p *Projector) Project(spec *Spec, records []Record) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, p.ProjectRow(spec, r))
	}
	return rows
}

// ProjectRow renders one record. A cell whose projector panics is
// rendered empty and the rest of the row is still produced.
func (p *Projector) ProjectRow(spec *Spec, record Record) []string {
	row := make([]string, len(spec.Columns))
	for i, c := range spec.Columns {
		row[i] = p.cell(spec.Name, c, record)
	}
	return row
}

func (p *Projector) cell(resourceType string, c Column, record Record) (out string) {
	defer func() {
		if r := recover(); r != nil {
			p.log.WithFields(map[string]interface{}{
				"resource": resourceType,
				"column":   c.Name,
			}).Warnf("could not render cell: %v", r)
			out = ""
		}
	}()
	return c.project(record)
}

// Project renders records without logging failed cells.
func Project(spec *Spec, records []Record) [][]string {
	return NewProjector(nil).Project(spec, records)
}

// ProjectRow renders one record without logging failed cells.
func ProjectRow(spec *Spec, record Record) []string {
	return NewProjector(nil).ProjectRow(spec, record)
}

// FieldValue is one selected field of a record.
type FieldValue struct {
	Path  string
	Value string
}

// SelectFields renders the requested paths of record, applying the spec's
// transformation for each exact path. Paths that are not fields of the
// resource type fail.
func SelectFields(spec *Spec, record Record, paths []string) ([]FieldValue, error) {
	var unknown []string
	for _, path := range paths {
		if !spec.HasField(path) {
			unknown = append(unknown, path)
		}
	}
	if len(unknown) > 0 {
		return nil, apperrors.Tool("unknown field(s) for %s: %s", spec.Name, strings.Join(unknown, ", "))
	}

	out := make([]FieldValue, 0, len(paths))
	for _, path := range paths {
		sel, err := Compile(path)
		if err != nil {
			return nil, apperrors.Tool("%v", err)
		}
		v, ok := sel.Select(record)
		out = append(out, FieldValue{
			Path:  path,
			Value: applyTransform(sel, spec.Transformations[normalizeIndexes(path)], v, ok),
		})
	}
	return out, nil
}

// String renders field values as "path: value" lines.
func (f FieldValue) String() string {
	return fmt.Sprintf("%s: %s", f.Path, f.Value)
}
