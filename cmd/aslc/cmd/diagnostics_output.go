package cmd

import (
	"fmt"

	"github.com/tidwall/sjson"

	"github.com/aslcore/aslc/internal/diagnostics"
)

// renderDiagnosticsText formats every diagnostic in d, in source order,
// the way the teacher's CompilerError does: one "Error in file:line:col"
// block per diagnostic, with a source-line caret.
func renderDiagnosticsText(d *diagnostics.Sink, file, source string) string {
	var out string
	for _, diag := range d.Sorted() {
		out += diagnostics.Format(diag, file, source)
	}
	return out
}

// renderDiagnosticsJSON builds a JSON array of diagnostics with
// sjson.SetRaw, one object append per entry, so --json output never
// round-trips through an intermediate Go struct.
func renderDiagnosticsJSON(d *diagnostics.Sink) (string, error) {
	json := "[]"
	var err error
	for i, diag := range d.Sorted() {
		entry := "{}"
		entry, err = sjson.Set(entry, "kind", string(diag.Kind))
		if err != nil {
			return "", err
		}
		entry, err = sjson.Set(entry, "line", diag.Pos.Line)
		if err != nil {
			return "", err
		}
		entry, err = sjson.Set(entry, "column", diag.Pos.Column)
		if err != nil {
			return "", err
		}
		entry, err = sjson.Set(entry, "message", diag.Message)
		if err != nil {
			return "", err
		}
		if diag.Kind == diagnostics.IncompatibleParameter && diag.Index != 0 {
			entry, err = sjson.Set(entry, "index", diag.Index)
			if err != nil {
				return "", err
			}
		}
		json, err = sjson.SetRaw(json, fmt.Sprintf("%d", i), entry)
		if err != nil {
			return "", err
		}
	}
	return json, nil
}
