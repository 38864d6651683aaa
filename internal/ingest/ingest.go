// Package ingest pulls internship postings from the JSearch feed,
// enriches them with extracted skills and stores the new ones.
package ingest

import (
	"context"
	"log/slog"
	"strings"

	"github.com/garnizeh/internradar/internal/jsearch"
	"github.com/garnizeh/internradar/pkg/models"
	"github.com/garnizeh/internradar/pkg/repository"
)

// maxDescriptionLength keeps stored descriptions card-sized; the feed
// routinely ships multi-page texts.
const maxDescriptionLength = 400

const sourceJSearch = "jsearch+llm"

// SkillExtractor annotates a description with required skills.
type SkillExtractor interface {
	ExtractSkills(ctx context.Context, description string) []string
}

type Searcher interface {
	Search(ctx context.Context, query string) ([]jsearch.Posting, error)
}

type Service struct {
	feed      Searcher
	extractor SkillExtractor
	repo      repository.InternshipRepo
	logger    *slog.Logger
}

// Result summarizes one refresh run.
type Result struct {
	Fetched int `json:"fetched"`
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

func NewService(feed Searcher, extractor SkillExtractor, repo repository.InternshipRepo, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{feed: feed, extractor: extractor, repo: repo, logger: logger}
}

// Refresh fetches the feed once and stores postings not seen before.
// The apply link is the dedup key; postings without one are dropped.
func (s *Service) Refresh(ctx context.Context, query string) (Result, error) {
	var res Result

	postings, err := s.feed.Search(ctx, query)
	if err != nil {
		return res, err
	}
	res.Fetched = len(postings)

	for _, p := range postings {
		if p.ApplyLink == "" || p.Title == "" {
			res.Skipped++
			continue
		}

		existing, err := s.repo.GetInternshipByApplyLink(ctx, p.ApplyLink)
		if err != nil {
			return res, err
		}
		if existing != nil {
			res.Skipped++
			continue
		}

		description := strings.TrimSpace(p.Description)
		skills := s.extractor.ExtractSkills(ctx, description)
		if runes := []rune(description); len(runes) > maxDescriptionLength {
			description = string(runes[:maxDescriptionLength])
		}

		internship := &models.Internship{
			Title:          p.Title,
			Company:        p.Employer,
			Location:       p.Location(),
			Stipend:        p.Stipend(),
			Description:    description,
			RequiredSkills: skills,
			Source:         sourceJSearch,
			ApplyLink:      p.ApplyLink,
		}
		if _, err := s.repo.CreateInternship(ctx, internship); err != nil {
			return res, err
		}
		res.Created++
	}

	s.logger.Info("feed refresh", "query", query, "fetched", res.Fetched, "created", res.Created, "skipped", res.Skipped)
	return res, nil
}
