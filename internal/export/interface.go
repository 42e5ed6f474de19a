package export

import (
	"fmt"
	"io"

	"github.com/iksnae/cursor-workspace/internal"
)

// Options controls which optional turn details are rendered
type Options struct {
	Thinking bool
	Tools    bool
	Stats    bool
}

// Exporter defines the interface for all export formats
type Exporter interface {
	Export(session *internal.ChatSession, w io.Writer) error
	Extension() string
}

// NewExporter creates a new exporter based on format
func NewExporter(format string, opts Options) (Exporter, error) {
	switch format {
	case "jsonl":
		return &JSONLExporter{Options: opts}, nil
	case "md", "markdown":
		return &MarkdownExporter{Options: opts}, nil
	case "yaml":
		return &YAMLExporter{Options: opts}, nil
	case "json":
		return &JSONExporter{Options: opts}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: jsonl, md, yaml, json)", format)
	}
}

// filterSession returns a copy of the session with the optional turn
// details the options exclude cleared out. The input is never mutated.
func filterSession(session *internal.ChatSession, opts Options) *internal.ChatSession {
	if opts.Thinking && opts.Tools && opts.Stats {
		return session
	}

	out := *session
	out.Turns = make([]internal.ChatTurn, len(session.Turns))
	for i, turn := range session.Turns {
		if !opts.Thinking {
			turn.Thinking = nil
		}
		if !opts.Tools {
			turn.ToolCalls = nil
		}
		if !opts.Stats {
			turn.Tokens = nil
			turn.Model = ""
		}
		out.Turns[i] = turn
	}
	return &out
}
