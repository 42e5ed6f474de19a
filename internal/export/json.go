package export

import (
	"encoding/json"
	"io"

	"github.com/iksnae/cursor-workspace/internal"
)

// JSONExporter exports sessions in JSON format (pretty-printed)
type JSONExporter struct {
	Options Options
}

// Export exports a session to JSON format
func (e *JSONExporter) Export(session *internal.ChatSession, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(filterSession(session, e.Options))
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
