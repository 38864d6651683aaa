// Package jsearch fetches internship postings from the JSearch API on
// RapidAPI.
package jsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// ErrNotConfigured means no API key is set, so ingestion is disabled.
var ErrNotConfigured = errors.New("jsearch api key not configured")

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	host       string
	logger     *slog.Logger
}

// Posting is the subset of the JSearch job document the ingester uses.
type Posting struct {
	Title       string `json:"job_title"`
	Employer    string `json:"employer_name"`
	City        string `json:"job_city"`
	Country     string `json:"job_country"`
	IsRemote    bool   `json:"job_is_remote"`
	Description string `json:"job_description"`
	ApplyLink   string `json:"job_apply_link"`
	MinSalary   *int64 `json:"job_min_salary"`
	MaxSalary   *int64 `json:"job_max_salary"`
}

type searchResponse struct {
	Data []Posting `json:"data"`
}

func NewClient(baseURL, apiKey, host string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
		host:       host,
		logger:     logger,
	}
}

// Search runs one query against the /search endpoint and returns the
// raw postings. The RapidAPI key and host headers authenticate the
// call.
func (c *Client) Search(ctx context.Context, query string) ([]Posting, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	u := fmt.Sprintf("%s/search?query=%s&page=1&num_pages=1&employment_types=INTERN", c.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.host)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jsearch request: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jsearch status %d", resp.StatusCode)
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("jsearch decode: %w", err)
	}

	c.logger.Info("jsearch results", "query", query, "count", len(out.Data))
	return out.Data, nil
}

// Location renders the posting's place of work, defaulting to Remote
// when the feed gives nothing usable.
func (p Posting) Location() string {
	switch {
	case p.City != "" && p.Country != "":
		return p.City + ", " + p.Country
	case p.City != "":
		return p.City
	case p.Country != "":
		return p.Country
	default:
		return "Remote"
	}
}

// Stipend renders the salary range, or the feed's usual silence.
func (p Posting) Stipend() string {
	switch {
	case p.MinSalary != nil && p.MaxSalary != nil:
		return fmt.Sprintf("%d - %d", *p.MinSalary, *p.MaxSalary)
	case p.MinSalary != nil:
		return fmt.Sprintf("%d+", *p.MinSalary)
	default:
		return "Not Disclosed"
	}
}
