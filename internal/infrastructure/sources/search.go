package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"VentureScanner/internal/config"
	"VentureScanner/internal/domain"
	"VentureScanner/internal/ports"
)

const (
	maxResultsPerQuery = 15
	maxSearchSnippet   = 500
	queryPause         = 300 * time.Millisecond
)

// SearchSource queries a keyword-search API (Tavily-compatible JSON
// contract) with region-tagged queries. Also serves the bulk-seed archive
// lane through a wider day window.
type SearchSource struct {
	cfg    config.SearchConfig
	days   int
	client *http.Client
	logger *slog.Logger
	sleep  func(time.Duration)
}

var _ ports.CandidateSource = (*SearchSource)(nil)

// NewSearchSource wires the API endpoint; days is the search window.
func NewSearchSource(cfg config.SearchConfig, days int, client *http.Client, logger *slog.Logger) *SearchSource {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &SearchSource{cfg: cfg, days: days, client: client, logger: logger, sleep: time.Sleep}
}

// Name identifies the source in logs.
func (s *SearchSource) Name() string { return "search" }

// Fetch runs every configured query; a failing query is skipped. since is
// unused because the window is expressed in whole days to the API.
func (s *SearchSource) Fetch(ctx context.Context, since time.Time) ([]domain.Candidate, error) {
	if s.cfg.APIKey == "" {
		return nil, nil
	}

	var candidates []domain.Candidate
	seen := map[string]struct{}{}

	for i, query := range s.cfg.Queries {
		if i > 0 {
			s.sleep(queryPause)
		}

		results, err := s.search(ctx, query.Query)
		if err != nil {
			s.debug("query failed", "query", query.Query, "error", err)
			continue
		}

		for _, result := range results {
			if result.URL == "" {
				continue
			}
			if _, dup := seen[result.URL]; dup {
				continue
			}
			seen[result.URL] = struct{}{}

			snippet := result.Content
			if runes := []rune(snippet); len(runes) > maxSearchSnippet {
				snippet = string(runes[:maxSearchSnippet])
			}

			candidates = append(candidates, domain.Candidate{
				Title:       result.Title,
				URL:         result.URL,
				Snippet:     snippet,
				Region:      query.Region,
				Priority:    query.Region.StaticPriority(),
				Source:      "search",
				PublishedAt: time.Now(),
			})
		}
	}

	return candidates, nil
}

type searchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

func (s *SearchSource) search(ctx context.Context, query string) ([]searchResult, error) {
	body, err := json.Marshal(map[string]any{
		"api_key":      s.cfg.APIKey,
		"query":        query,
		"search_depth": "basic",
		"max_results":  maxResultsPerQuery,
		"days":         s.days,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned %s", resp.Status)
	}

	var payload struct {
		Results []searchResult `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return payload.Results, nil
}

func (s *SearchSource) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
