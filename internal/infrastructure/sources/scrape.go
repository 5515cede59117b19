package sources

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"VentureScanner/internal/config"
	"VentureScanner/internal/domain"
	"VentureScanner/internal/ports"
)

const (
	maxArticlesPerSite = 10
	sitePause          = time.Second
)

// ScrapeSource extracts article headlines from configured sites with CSS
// selectors. Engaged as a top-up when the feeds run dry.
type ScrapeSource struct {
	sites  []config.SiteConfig
	client *http.Client
	logger *slog.Logger
	sleep  func(time.Duration)
}

var _ ports.CandidateSource = (*ScrapeSource)(nil)

// NewScrapeSource wires an HTTP client; nil client gets a 10s timeout default.
func NewScrapeSource(sites []config.SiteConfig, client *http.Client, logger *slog.Logger) *ScrapeSource {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &ScrapeSource{sites: sites, client: client, logger: logger, sleep: time.Sleep}
}

// Name identifies the source in logs.
func (s *ScrapeSource) Name() string { return "scrape" }

// Fetch scrapes each configured site sequentially. A failing site is logged
// and skipped; since is ignored because scraped pages carry no dates.
func (s *ScrapeSource) Fetch(ctx context.Context, since time.Time) ([]domain.Candidate, error) {
	var candidates []domain.Candidate

	for i, site := range s.sites {
		if i > 0 {
			s.sleep(sitePause)
		}

		found, err := s.scrapeSite(ctx, site)
		if err != nil {
			s.debug("site failed", "site", site.Name, "error", err)
			continue
		}
		candidates = append(candidates, found...)
	}

	return candidates, nil
}

func (s *ScrapeSource) scrapeSite(ctx context.Context, site config.SiteConfig) ([]domain.Candidate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, site.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "VentureScanner/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("site returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	var candidates []domain.Candidate
	doc.Find(site.Selector).EachWithBreak(func(i int, article *goquery.Selection) bool {
		if i == maxArticlesPerSite {
			return false
		}

		title := strings.TrimSpace(article.Find("h1, h2, h3, a").First().Text())
		if title == "" {
			return true
		}

		href, _ := article.Find("a").First().Attr("href")
		href = absolutize(site.URL, href)

		candidates = append(candidates, domain.Candidate{
			Title:       title,
			URL:         href,
			Region:      site.Region,
			Priority:    site.Region.StaticPriority(),
			Source:      site.Name,
			PublishedAt: time.Now(),
		})
		return true
	})

	return candidates, nil
}

func absolutize(base, href string) string {
	if href == "" || strings.HasPrefix(href, "http") {
		return href
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(href, "/")
}

func (s *ScrapeSource) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
