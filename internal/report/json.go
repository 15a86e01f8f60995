// Package report provides output formatters for stubmock results in
// JSON and human-readable text formats.
package report

import (
	"encoding/json"
	"io"

	"github.com/unbound-force/stubmock/internal/taxonomy"
)

// SchemaVersion is the version of the JSON output format described by
// Schema.
const SchemaVersion = "1.0.0"

// JSONReport is the top-level JSON output structure.
type JSONReport struct {
	Version  string                `json:"version"`
	Files    []taxonomy.FileResult `json:"files"`
	Summary  taxonomy.Summary      `json:"summary"`
	Metadata taxonomy.Metadata     `json:"metadata"`
}

// WriteJSON writes a report as formatted JSON to the writer.
func WriteJSON(w io.Writer, r *taxonomy.Report) error {
	if r == nil {
		r = &taxonomy.Report{}
		r.Summarize()
	}
	out := JSONReport{
		Version:  SchemaVersion,
		Files:    make([]taxonomy.FileResult, len(r.Files)),
		Summary:  r.Summary,
		Metadata: r.Metadata,
	}
	copy(out.Files, r.Files)
	for i := range out.Files {
		if out.Files[i].Findings == nil {
			out.Files[i].Findings = []taxonomy.Finding{}
		}
	}
	if out.Summary.ByVariant == nil {
		out.Summary.ByVariant = map[taxonomy.ReceiverVariant]int{}
	}
	if out.Metadata.Warnings == nil {
		out.Metadata.Warnings = []string{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
