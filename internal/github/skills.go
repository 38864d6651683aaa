package github

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Extractor turns a GitHub username into the set of languages used
// across that user's public repositories.
type Extractor struct {
	client        *Client
	maxConcurrent int
	logger        *slog.Logger
}

func NewExtractor(client *Client, maxConcurrent int, logger *slog.Logger) *Extractor {
	if maxConcurrent <= 0 {
		maxConcurrent = 8
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{client: client, maxConcurrent: maxConcurrent, logger: logger}
}

// Skills lists the user's repositories and unions the language names
// across them, fanning the per-repo fetches out with a bounded worker
// group. A user with zero repositories yields an empty, non-nil slice.
func (e *Extractor) Skills(ctx context.Context, username string) ([]string, error) {
	repos, err := e.client.ListRepositories(ctx, username)
	if err != nil {
		return nil, err
	}
	if len(repos) == 0 {
		e.logger.Info("no repositories", "username", username)
		return []string{}, nil
	}

	var mu sync.Mutex
	seen := map[string]struct{}{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.maxConcurrent)
	for _, repo := range repos {
		g.Go(func() error {
			langs := e.client.Languages(gctx, repo.LanguagesURL)
			mu.Lock()
			for name := range langs {
				seen[name] = struct{}{}
			}
			mu.Unlock()
			return nil
		})
	}
	// goroutines never return errors, Wait only drains them
	_ = g.Wait()

	skills := make([]string, 0, len(seen))
	for name := range seen {
		skills = append(skills, name)
	}
	sort.Strings(skills)

	e.logger.Info("skills extracted", "username", username, "repos", len(repos), "skills", len(skills))
	return skills, nil
}
