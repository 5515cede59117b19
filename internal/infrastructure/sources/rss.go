package sources

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"VentureScanner/internal/config"
	"VentureScanner/internal/curation"
	"VentureScanner/internal/domain"
	"VentureScanner/internal/ports"
)

const (
	maxEntriesPerFeed = 20
	maxSnippetLen     = 800
	feedPause         = 500 * time.Millisecond
)

// RSSSource polls configured feeds via gofeed and normalizes entries into
// candidates. A broken feed contributes zero candidates, never an error.
type RSSSource struct {
	feeds  []config.FeedConfig
	parser *gofeed.Parser
	share  *curation.ShareabilityScorer
	logger *slog.Logger
	sleep  func(time.Duration)
}

var _ ports.CandidateSource = (*RSSSource)(nil)

// NewRSSSource wires the feed list; client may be nil for defaults.
func NewRSSSource(feeds []config.FeedConfig, client *http.Client, share *curation.ShareabilityScorer, logger *slog.Logger) *RSSSource {
	parser := gofeed.NewParser()
	if client != nil {
		parser.Client = client
	}
	return &RSSSource{
		feeds:  feeds,
		parser: parser,
		share:  share,
		logger: logger,
		sleep:  time.Sleep,
	}
}

// Name identifies the source in logs.
func (s *RSSSource) Name() string { return "rss" }

// Fetch walks every feed, keeps entries fresher than since, and returns
// them sorted by shareability descending so the strongest stories surface
// first within equal priorities.
func (s *RSSSource) Fetch(ctx context.Context, since time.Time) ([]domain.Candidate, error) {
	var candidates []domain.Candidate

	for i, feed := range s.feeds {
		if i > 0 {
			s.sleep(feedPause)
		}

		parsed, err := s.parser.ParseURLWithContext(feed.URL, ctx)
		if err != nil {
			s.debug("feed failed", "url", feed.URL, "error", err)
			continue
		}

		count := 0
		for _, item := range parsed.Items {
			if count == maxEntriesPerFeed {
				break
			}
			count++

			published := publishedAt(item)
			if published.Before(since) {
				continue
			}

			candidates = append(candidates, domain.Candidate{
				Title:       strings.TrimSpace(item.Title),
				URL:         item.Link,
				Snippet:     cleanSnippet(item.Description),
				Region:      feed.Region,
				Priority:    feed.Region.StaticPriority(),
				Source:      hostOf(feed.URL),
				PublishedAt: published,
			})
		}
	}

	if s.share != nil {
		sort.SliceStable(candidates, func(i, j int) bool {
			return s.share.Score(candidates[i]) > s.share.Score(candidates[j])
		})
	}

	return candidates, nil
}

func publishedAt(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	return time.Now()
}

// cleanSnippet strips HTML markup from a feed description and caps length.
func cleanSnippet(description string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(description))
	text := description
	if err == nil {
		text = doc.Text()
	}
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) > maxSnippetLen {
		return string(runes[:maxSnippetLen])
	}
	return text
}

func hostOf(feedURL string) string {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(feedURL, "https://"), "http://")
	if idx := strings.IndexByte(trimmed, '/'); idx > 0 {
		return trimmed[:idx]
	}
	return trimmed
}

func (s *RSSSource) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
