package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pders01/vidrank/internal/tracker"
)

// ExportJSON writes the report as indented JSON, for piping into jq or
// downstream tooling. Field names follow the report's json tags.
func ExportJSON(w io.Writer, report *tracker.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}
