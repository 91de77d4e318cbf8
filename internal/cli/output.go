package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"gopkg.in/yaml.v3"

	"github.com/pratik-mahalle/gcli/internal/resource"
)

// renderTable writes a borderless table, the way gcloud lists look.
func renderTable(w io.Writer, headers []string, rows [][]string) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeaderAutoFormat(tw.Off),
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					BetweenRows:    tw.Off,
					BetweenColumns: tw.Off,
				},
				Lines: tw.Lines{
					ShowTop:        tw.Off,
					ShowBottom:     tw.Off,
					ShowHeaderLine: tw.Off,
				},
			},
		})))

	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	table.Header(header...)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// printRecords prints a list in the requested format. Tables use the
// columns of spec; json and yaml print the records as they came back.
func (a *app) printRecords(w io.Writer, spec *resource.Spec, records []resource.Record) error {
	switch a.opts.format {
	case "json":
		return printJSON(w, records)
	case "yaml":
		return printYAML(w, records)
	}
	if len(spec.Columns) == 0 {
		return printYAML(w, records)
	}
	p := resource.NewProjector(a.log)
	return renderTable(w, resource.Headers(spec), p.Project(spec, records))
}

// printRecord prints one resource. Describe output defaults to yaml.
func (a *app) printRecord(w io.Writer, record resource.Record) error {
	if a.opts.format == "json" {
		return printJSON(w, record)
	}
	return printYAML(w, record)
}

// printFields prints the result of --fields, one "path: value" per line.
func (a *app) printFields(w io.Writer, fields []resource.FieldValue) error {
	switch a.opts.format {
	case "json", "yaml":
		m := make(map[string]string, len(fields))
		for _, f := range fields {
			m[f.Path] = f.Value
		}
		if a.opts.format == "json" {
			return printJSON(w, m)
		}
		return printYAML(w, m)
	}
	for _, f := range fields {
		if _, err := fmt.Fprintln(w, f.String()); err != nil {
			return err
		}
	}
	return nil
}

// describe prints a record, narrowed to fields when any are given.
func (a *app) describe(w io.Writer, spec *resource.Spec, record resource.Record, fields []string) error {
	if len(fields) == 0 {
		return a.printRecord(w, record)
	}
	selected, err := resource.SelectFields(spec, record, fields)
	if err != nil {
		return err
	}
	return a.printFields(w, selected)
}

func printJSON(w io.Writer, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func printYAML(w io.Writer, data interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(data)
}
