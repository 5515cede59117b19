package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"VentureScanner/internal/config"
	"VentureScanner/internal/curation"
	"VentureScanner/internal/domain"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <item>
      <title>Fund X raises $5M seed</title>
      <link>https://example.com/fund-x</link>
      <description>&lt;p&gt;The &lt;b&gt;startup&lt;/b&gt;   closed a seed round.&lt;/p&gt;</description>
      <pubDate>Thu, 27 Aug 2026 10:00:00 +0000</pubDate>
    </item>
    <item>
      <title>Old market overview</title>
      <link>https://example.com/old</link>
      <description>stale</description>
      <pubDate>Mon, 03 Aug 2026 10:00:00 +0000</pubDate>
    </item>
  </channel>
</rss>`

func TestRSSFetchFiltersBySince(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(feedXML))
	}))
	defer server.Close()

	source := NewRSSSource(
		[]config.FeedConfig{{URL: server.URL, Region: domain.RegionKazakhstan}},
		server.Client(), nil, nil)
	source.sleep = func(time.Duration) {}

	since := time.Date(2026, time.August, 26, 0, 0, 0, 0, time.UTC)
	candidates, err := source.Fetch(context.Background(), since)
	if err != nil {
		t.Fatalf("fetch returned error: %v", err)
	}

	if len(candidates) != 1 {
		t.Fatalf("expected 1 fresh candidate, got %d", len(candidates))
	}

	c := candidates[0]
	if c.Title != "Fund X raises $5M seed" {
		t.Fatalf("unexpected title: %s", c.Title)
	}
	if c.URL != "https://example.com/fund-x" {
		t.Fatalf("unexpected url: %s", c.URL)
	}
	if c.Snippet != "The startup closed a seed round." {
		t.Fatalf("snippet not cleaned: %q", c.Snippet)
	}
	if c.Region != domain.RegionKazakhstan || c.Priority != 0 {
		t.Fatalf("region metadata lost: %s/%d", c.Region, c.Priority)
	}
}

func TestRSSFetchSortsByShareability(t *testing.T) {
	t.Parallel()

	const xml = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>t</title>
  <item><title>Company plans office move</title><link>https://example.com/bland</link>
    <description>no numbers here</description>
    <pubDate>Thu, 27 Aug 2026 10:00:00 +0000</pubDate></item>
  <item><title>Fund raises $10 million seed</title><link>https://example.com/deal</link>
    <description>concrete round</description>
    <pubDate>Thu, 27 Aug 2026 11:00:00 +0000</pubDate></item>
</channel></rss>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(xml))
	}))
	defer server.Close()

	share := curation.NewShareabilityScorer(config.EditorialConfig{})
	source := NewRSSSource(
		[]config.FeedConfig{{URL: server.URL, Region: domain.RegionWorld}},
		server.Client(), share, nil)
	source.sleep = func(time.Duration) {}

	candidates, err := source.Fetch(context.Background(), time.Time{})
	if err != nil {
		t.Fatalf("fetch returned error: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].URL != "https://example.com/deal" {
		t.Fatalf("expected the concrete deal first, got %s", candidates[0].URL)
	}
}

func TestCleanSnippet(t *testing.T) {
	t.Parallel()

	got := cleanSnippet("<div>Hello   <b>world</b>\n</div>")
	if got != "Hello world" {
		t.Fatalf("unexpected snippet: %q", got)
	}
}

func TestHostOf(t *testing.T) {
	t.Parallel()

	if got := hostOf("https://kursiv.kz/feed/"); got != "kursiv.kz" {
		t.Fatalf("unexpected host: %s", got)
	}
	if got := hostOf("http://example.com"); got != "example.com" {
		t.Fatalf("unexpected host: %s", got)
	}
}
