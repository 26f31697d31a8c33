package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"hbm-source/internal/diagnostic"
	"hbm-source/internal/plan"
	"hbm-source/internal/registry"
)

type hierarchyRow struct {
	Root        string   `json:"root"`
	Inheritance string   `json:"inheritance"`
	Entities    []string `json:"entities"`
	Attributes  int      `json:"attributes"`
}

type resolveReport struct {
	RunID       string         `json:"run_id"`
	Documents   []string       `json:"documents"`
	Hierarchies []hierarchyRow `json:"hierarchies"`
	Registry    map[string]int `json:"registry"`
}

type diagnosticRow struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Document string `json:"document"`
	Element  string `json:"element,omitempty"`
	Message  string `json:"message"`
}

func hierarchyRows(res *plan.Result) []hierarchyRow {
	rows := make([]hierarchyRow, 0, len(res.Hierarchies))

	for _, h := range res.Hierarchies {
		row := hierarchyRow{
			Root:        h.Root().EntityName,
			Inheritance: h.InheritanceType().String(),
		}

		for _, e := range h.Entities() {
			row.Entities = append(row.Entities, e.EntityName)
			row.Attributes += len(e.Attributes)
		}

		rows = append(rows, row)
	}

	return rows
}

func diagnosticRows(diags diagnostic.Diagnostics) []diagnosticRow {
	var rows []diagnosticRow

	for _, group := range [][]diagnostic.Diagnostic{diags.Errors, diags.Warnings} {
		for _, d := range group {
			rows = append(rows, diagnosticRow{
				Severity: d.Severity.String(),
				Code:     d.Code,
				Document: d.Document,
				Element:  d.Element,
				Message:  d.Message,
			})
		}
	}

	return rows
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	return t
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

func renderResolve(w io.Writer, format string, res *plan.Result, reg *registry.InMemory) error {
	report := resolveReport{
		RunID:       res.ID.String(),
		Documents:   res.Documents,
		Hierarchies: hierarchyRows(res),
		Registry:    reg.Counts(),
	}

	if format == "json" {
		return writeJSON(w, report)
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Root", "Inheritance", "Entities", "Attributes"})

	for _, row := range report.Hierarchies {
		t.AppendRow(table.Row{row.Root, row.Inheritance, strings.Join(row.Entities, "\n"), row.Attributes})
	}

	t.Render()

	keys := make([]string, 0, len(report.Registry))
	for k := range report.Registry {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	counts := newTable(w)
	counts.AppendHeader(table.Row{"Registry", "Count"})

	for _, k := range keys {
		counts.AppendRow(table.Row{k, report.Registry[k]})
	}

	counts.Render()

	_, _ = fmt.Fprintf(w, "(%d documents, %d hierarchies, %d entities)\n",
		len(res.Documents), len(res.Hierarchies), res.EntityCount())

	return nil
}

func renderDiagnostics(w io.Writer, format string, diags diagnostic.Diagnostics) error {
	rows := diagnosticRows(diags)

	if format == "json" {
		if rows == nil {
			rows = []diagnosticRow{}
		}

		return writeJSON(w, rows)
	}

	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "(no diagnostics)")
		return nil
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Severity", "Code", "Document", "Element", "Message"})

	for _, row := range rows {
		t.AppendRow(table.Row{row.Severity, row.Code, row.Document, row.Element, row.Message})
	}

	t.Render()

	return nil
}
