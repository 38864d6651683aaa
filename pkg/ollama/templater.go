package ollama

import (
	"fmt"
	"strings"
	"text/template"
)

// RenderTemplate executes a prompt template against data. Missing keys
// are an error so a half-filled prompt never reaches the model.
func RenderTemplate(prompt string, data any) (string, error) {
	tpl, err := template.New("prompt").Option("missingkey=error").Parse(prompt)
	if err != nil {
		return "", fmt.Errorf("parse prompt template: %w", err)
	}

	var sb strings.Builder
	if err := tpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render prompt template: %w", err)
	}

	return sb.String(), nil
}
