package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/cursor-workspace/internal"
)

// JSONLExporter exports sessions in JSONL format (one turn per line)
type JSONLExporter struct {
	Options Options
}

// Export exports a session to JSONL format
func (e *JSONLExporter) Export(session *internal.ChatSession, w io.Writer) error {
	enc := json.NewEncoder(w)

	filtered := filterSession(session, e.Options)
	for i := range filtered.Turns {
		turn := &filtered.Turns[i]

		obj := map[string]interface{}{
			"session": session.ID,
			"role":    turn.Role,
			"text":    turn.Text,
		}

		if turn.Timestamp > 0 {
			obj["timestamp"] = turn.Timestamp
		}
		if turn.Model != "" {
			obj["model"] = turn.Model
		}
		if turn.Thinking != nil {
			obj["thinking"] = turn.Thinking
		}
		if len(turn.ToolCalls) > 0 {
			obj["tool_calls"] = turn.ToolCalls
		}
		if turn.Tokens != nil {
			obj["tokens"] = turn.Tokens
		}

		// Encode to single line
		if err := enc.Encode(obj); err != nil {
			return fmt.Errorf("failed to encode turn: %w", err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
