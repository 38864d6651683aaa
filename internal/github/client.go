// Package github talks to the public GitHub REST API to derive a
// user's skills from the languages of their repositories.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

var (
	// ErrAccountNotFound means the username does not exist upstream.
	ErrAccountNotFound = errors.New("github account not found")
	// ErrUpstreamUnavailable covers transport failures and non-404
	// upstream errors.
	ErrUpstreamUnavailable = errors.New("github unavailable")
)

const defaultBaseURL = "https://api.github.com"

type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// Repo is the subset of the repository document the extractor needs.
type Repo struct {
	Name         string `json:"name"`
	LanguagesURL string `json:"languages_url"`
}

type userDoc struct {
	Login    string `json:"login"`
	ReposURL string `json:"repos_url"`
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		logger:     logger,
	}
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrAccountNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrUpstreamUnavailable, err)
	}
	return nil
}

// ListRepositories resolves the username to its account document and
// follows repos_url, matching the API contract instead of guessing URL
// shapes.
func (c *Client) ListRepositories(ctx context.Context, username string) ([]Repo, error) {
	var u userDoc
	if err := c.getJSON(ctx, fmt.Sprintf("%s/users/%s", c.baseURL, username), &u); err != nil {
		return nil, err
	}

	var repos []Repo
	if err := c.getJSON(ctx, u.ReposURL, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

// Languages fetches the byte counts per language for one repository.
// Any failure degrades to an empty map so a single broken repo never
// sinks the whole extraction.
func (c *Client) Languages(ctx context.Context, languagesURL string) map[string]int64 {
	langs := map[string]int64{}
	if languagesURL == "" {
		return langs
	}
	if err := c.getJSON(ctx, languagesURL, &langs); err != nil {
		c.logger.Warn("languages fetch failed", "url", languagesURL, "err", err)
		return map[string]int64{}
	}
	return langs
}
