package export

import (
	"bytes"
	"testing"

	"github.com/iksnae/cursor-workspace/internal"
	"github.com/iksnae/cursor-workspace/testutil"
)

func TestJSONExporter_Export(t *testing.T) {
	var buf bytes.Buffer
	exporter := &JSONExporter{Options: Options{Thinking: true, Tools: true, Stats: true}}
	if err := exporter.Export(testSession(), &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}

	var decoded internal.ChatSession
	testutil.JSONUnmarshal(t, buf.Bytes(), &decoded)

	if decoded.ID != "s1" || decoded.Title != "Fix the build" {
		t.Errorf("decoded session = %+v", decoded)
	}
	if len(decoded.Turns) != 2 {
		t.Fatalf("got %d turns, want 2", len(decoded.Turns))
	}
	if decoded.Turns[1].Thinking == nil || decoded.Turns[1].Tokens == nil {
		t.Error("optional fields lost in JSON round trip")
	}
}

func TestJSONExporter_OmitsAbsentFields(t *testing.T) {
	session := &internal.ChatSession{
		ID:    "s2",
		Turns: []internal.ChatTurn{{Role: "user", Text: "plain"}},
	}
	var buf bytes.Buffer
	if err := (&JSONExporter{Options: Options{Thinking: true, Tools: true, Stats: true}}).Export(session, &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}
	out := buf.String()
	for _, field := range []string{"thinking", "tool_calls", "tokens", "model", "title", "archived"} {
		if bytes.Contains(buf.Bytes(), []byte(`"`+field+`"`)) {
			t.Errorf("absent field %q serialized:\n%s", field, out)
		}
	}
}
