package ollama

import (
	"strings"
	"testing"
)

func TestRenderTemplate(t *testing.T) {
	got, err := RenderTemplate("Skills in: {{.Description}}", map[string]string{"Description": "Go services"})
	if err != nil {
		t.Fatalf("RenderTemplate: %v", err)
	}
	if got != "Skills in: Go services" {
		t.Fatalf("unexpected render %q", got)
	}
}

func TestRenderTemplateMissingKey(t *testing.T) {
	if _, err := RenderTemplate("{{.Missing}}", map[string]string{"Description": "x"}); err == nil {
		t.Fatal("expected error for missing key")
	}
}

func TestRenderTemplateBadSyntax(t *testing.T) {
	_, err := RenderTemplate("{{.Oops", nil)
	if err == nil || !strings.Contains(err.Error(), "parse prompt template") {
		t.Fatalf("expected parse error, got %v", err)
	}
}
