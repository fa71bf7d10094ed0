package config

import (
	"encoding/json"
	"testing"
)

func TestGenerateSchema(t *testing.T) {
	out, err := GenerateSchema()
	if err != nil {
		t.Fatalf("GenerateSchema failed: %v", err)
	}

	var doc struct {
		Title      string                     `json:"title"`
		Properties map[string]json.RawMessage `json:"properties"`
	}
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("Schema is not valid JSON: %v", err)
	}

	if doc.Title != "libremotec configuration" {
		t.Errorf("Unexpected title %q", doc.Title)
	}
	for _, key := range []string{"logging", "transport", "client", "server"} {
		if _, ok := doc.Properties[key]; !ok {
			t.Errorf("Schema is missing top-level property %q", key)
		}
	}
}
