package export

import (
	"bytes"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestYAMLExporter_Export(t *testing.T) {
	var buf bytes.Buffer
	exporter := &YAMLExporter{Options: Options{Thinking: true, Tools: true, Stats: true}}
	if err := exporter.Export(testSession(), &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}

	var decoded map[string]interface{}
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if decoded["id"] != "s1" {
		t.Errorf("decoded id = %v", decoded["id"])
	}
	turns, ok := decoded["turns"].([]interface{})
	if !ok || len(turns) != 2 {
		t.Fatalf("decoded turns = %v", decoded["turns"])
	}
}

func TestYAMLExporter_Filtered(t *testing.T) {
	var buf bytes.Buffer
	if err := (&YAMLExporter{}).Export(testSession(), &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if bytes.Contains(buf.Bytes(), []byte("thinking")) {
		t.Error("filtered YAML still contains thinking")
	}
}
