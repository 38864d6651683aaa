// Package ai extracts required skills from job descriptions using an
// LLM, with a keyword fallback for when the model is unavailable.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/garnizeh/internradar/internal/config"
	"github.com/garnizeh/internradar/pkg/ollama"
	"github.com/qri-io/jsonschema"
)

const promptTemplate = `Extract the technical skills required by this job description.
Respond with ONLY a JSON array of skill names, for example: ["JavaScript", "React", "SQL"].
Do not include any other text.

Job description:
{{.Description}}`

// skillsSchema validates that the model returned a plain array of
// non-empty strings.
const skillsSchema = `{
  "type": "array",
  "items": {"type": "string", "minLength": 1},
  "maxItems": 30
}`

// minDescriptionLength guards against feeding the model junk; shorter
// descriptions yield no skills.
const minDescriptionLength = 20

// commonSkills drives the keyword fallback when the model output is
// unusable.
var commonSkills = []string{
	"JavaScript", "TypeScript", "Python", "Java", "Go", "Rust", "C++", "C#",
	"React", "Angular", "Vue", "Node.js", "Express", "Django", "Flask",
	"Spring", "SQL", "MySQL", "PostgreSQL", "MongoDB", "Redis", "Docker",
	"Kubernetes", "AWS", "Azure", "GCP", "Git", "Linux", "HTML", "CSS",
	"REST", "GraphQL", "Machine Learning", "Data Analysis",
}

type generator interface {
	Generate(ctx context.Context, model string, prompt string) (ollama.GenerateResult, error)
}

// Engine asks the model for the skills in a description and validates
// the answer before trusting it.
type Engine struct {
	client generator
	cfg    config.EngineConfig
	schema *jsonschema.Schema
	logger *slog.Logger
}

func NewEngine(client generator, cfg config.EngineConfig, logger *slog.Logger) (*Engine, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("engine model is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 20 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	schema := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(skillsSchema), schema); err != nil {
		return nil, fmt.Errorf("parse skills schema: %w", err)
	}

	return &Engine{client: client, cfg: cfg, schema: schema, logger: logger}, nil
}

// ExtractSkills returns the skills the description asks for. The model
// answer must validate as a JSON string array; anything else falls back
// to the keyword scan. Descriptions too short to mean anything yield an
// empty list.
func (e *Engine) ExtractSkills(ctx context.Context, description string) []string {
	description = strings.TrimSpace(description)
	if len(description) < minDescriptionLength {
		return []string{}
	}

	prompt, err := ollama.RenderTemplate(promptTemplate, map[string]string{"Description": description})
	if err != nil {
		e.logger.Error("render prompt", "err", err)
		return e.fallback(description)
	}

	ctxReq, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	out, err := e.client.Generate(ctxReq, e.cfg.Model, prompt)
	if err != nil {
		e.logger.Warn("skill extraction generate failed", "err", err)
		return e.fallback(description)
	}

	skills, err := e.parse(ctxReq, out.Text)
	if err != nil {
		e.logger.Warn("skill extraction parse failed", "err", err, "raw", out.Text)
		return e.fallback(description)
	}
	return skills
}

func (e *Engine) parse(ctx context.Context, raw string) ([]string, error) {
	j := extractJSONArray(raw)
	if j == "" {
		return nil, fmt.Errorf("no JSON array found in response")
	}

	verrs, err := e.schema.ValidateBytes(ctx, []byte(j))
	if err != nil {
		return nil, fmt.Errorf("schema validate: %w", err)
	}
	if len(verrs) > 0 {
		var sb strings.Builder
		for _, v := range verrs {
			sb.WriteString(v.Message)
			sb.WriteString("; ")
		}
		return nil, fmt.Errorf("response does not match schema: %s", sb.String())
	}

	var skills []string
	if err := json.Unmarshal([]byte(j), &skills); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}

	out := make([]string, 0, len(skills))
	seen := map[string]struct{}{}
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out, nil
}

// fallback scans the description for well-known skill names.
func (e *Engine) fallback(description string) []string {
	lower := strings.ToLower(description)
	var out []string
	for _, skill := range commonSkills {
		if containsWord(lower, strings.ToLower(skill)) {
			out = append(out, skill)
		}
	}
	if out == nil {
		out = []string{}
	}
	return out
}

// containsWord reports whether needle occurs in haystack as a whole
// word, so "java" never matches inside "javascript" and "go" never
// matches inside "django".
func containsWord(haystack, needle string) bool {
	for start := 0; ; start++ {
		i := strings.Index(haystack[start:], needle)
		if i < 0 {
			return false
		}
		start += i
		end := start + len(needle)
		if !isWordChar(haystack, start-1) && !isWordChar(haystack, end) {
			return true
		}
	}
}

func isWordChar(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return false
	}
	c := s[i]
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

// extractJSONArray returns the substring from the first '[' to the last
// ']', stripping markdown fences the model sometimes wraps around its
// answer.
func extractJSONArray(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	first := strings.Index(s, "[")
	last := strings.LastIndex(s, "]")
	if first == -1 || last == -1 || last < first {
		return ""
	}
	return s[first : last+1]
}
