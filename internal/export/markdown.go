package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/cursor-workspace/internal"
)

// MarkdownExporter exports sessions in Markdown format
type MarkdownExporter struct {
	Options Options
}

// Export exports a session to Markdown format
func (e *MarkdownExporter) Export(session *internal.ChatSession, w io.Writer) error {
	// Header
	title := session.Title
	if title == "" {
		title = session.ID
	}
	_, _ = fmt.Fprintf(w, "# %s\n\n", title)

	_, _ = fmt.Fprintf(w, "**Session:** %s  \n", session.ID)
	if session.CreatedAt > 0 {
		_, _ = fmt.Fprintf(w, "**Created:** %s  \n", internal.FormatUnixTime(session.CreatedAt))
	}
	_, _ = fmt.Fprintf(w, "**Turns:** %d\n\n", len(session.Turns))

	_, _ = fmt.Fprintf(w, "---\n\n")

	filtered := filterSession(session, e.Options)
	for i := range filtered.Turns {
		turn := &filtered.Turns[i]

		label := turn.Role
		if label != "" {
			label = strings.ToUpper(label[:1]) + label[1:]
		}
		timestamp := ""
		if turn.Timestamp > 0 {
			timestamp = fmt.Sprintf(" (%s)", internal.FormatUnixTime(turn.Timestamp))
		}
		_, _ = fmt.Fprintf(w, "**%s:**%s\n\n", label, timestamp)

		if turn.Thinking != nil {
			_, _ = fmt.Fprintf(w, "<details><summary>Thinking")
			if turn.Thinking.DurationMs > 0 {
				_, _ = fmt.Fprintf(w, " (%.1fs)", float64(turn.Thinking.DurationMs)/1000)
			}
			_, _ = fmt.Fprintf(w, "</summary>\n\n%s\n\n</details>\n\n", escapeMarkdown(turn.Thinking.Text))
		}

		if turn.Text != "" {
			_, _ = fmt.Fprintf(w, "%s\n\n", escapeMarkdown(turn.Text))
		}

		for _, call := range turn.ToolCalls {
			_, _ = fmt.Fprintf(w, "> **Tool:** `%s`", call.Name)
			if call.Status != "" {
				_, _ = fmt.Fprintf(w, " (%s)", call.Status)
			}
			_, _ = fmt.Fprintf(w, "  \n")
			if call.Params != "" {
				_, _ = fmt.Fprintf(w, "> Params: `%s`  \n", call.Params)
			}
			if call.Result != "" {
				_, _ = fmt.Fprintf(w, "> Result: `%s`  \n", call.Result)
			}
			_, _ = fmt.Fprintf(w, "\n")
		}

		if turn.Tokens != nil || turn.Model != "" {
			var parts []string
			if turn.Model != "" {
				parts = append(parts, turn.Model)
			}
			if turn.Tokens != nil {
				parts = append(parts, fmt.Sprintf("%d in / %d out", turn.Tokens.Input, turn.Tokens.Output))
			}
			_, _ = fmt.Fprintf(w, "*%s*\n\n", strings.Join(parts, ", "))
		}

		// Add horizontal rule after each turn (except the last one)
		if i < len(filtered.Turns)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

// escapeMarkdown escapes markdown special characters
func escapeMarkdown(text string) string {
	// Basic escaping - preserve code blocks
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			// Escape markdown syntax outside code blocks
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
