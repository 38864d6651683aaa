// Dev tool: run the skill extraction prompt against a local Ollama
// instance with a sample job description.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/garnizeh/internradar/internal/ai"
	"github.com/garnizeh/internradar/internal/config"
	"github.com/garnizeh/internradar/pkg/ollama"
)

const sampleDescription = `We are hiring a software engineering intern to join our
platform team. You will build REST APIs in Go, write SQL against PostgreSQL,
containerize services with Docker and collaborate through Git. Familiarity with
React is a plus.`

func main() {
	cfg, err := config.LoadConfig("")
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	client, err := ollama.NewDefaultClient(cfg.Ollama)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	engine, err := ai.NewEngine(client, cfg.Engine, nil)
	if err != nil {
		log.Fatal(err)
	}

	skills := engine.ExtractSkills(context.Background(), sampleDescription)
	fmt.Printf("extracted %d skills: %v\n", len(skills), skills)
}
