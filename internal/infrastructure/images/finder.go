package images

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"VentureScanner/internal/config"
	"VentureScanner/internal/ports"
)

// Finder locates an illustration: og:image from the article page first,
// then a random Unsplash photo for the fallback query.
type Finder struct {
	unsplashKey string
	unsplashURL string
	client      *http.Client
}

var _ ports.ImageFinder = (*Finder)(nil)

// NewFinder wires the Unsplash key; client may be nil for defaults.
func NewFinder(cfg config.ImageConfig, client *http.Client) *Finder {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Finder{
		unsplashKey: cfg.UnsplashAccessKey,
		unsplashURL: "https://api.unsplash.com/photos/random",
		client:      client,
	}
}

// FindImage never fails the draft over a missing picture: both lookups are
// best effort and an empty result is a valid answer.
func (f *Finder) FindImage(ctx context.Context, articleURL, fallbackQuery string) (string, error) {
	if img := f.openGraphImage(ctx, articleURL); img != "" {
		return img, nil
	}
	return f.unsplashImage(ctx, fallbackQuery), nil
}

func (f *Finder) openGraphImage(ctx context.Context, articleURL string) string {
	if !strings.HasPrefix(articleURL, "http") {
		return ""
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, articleURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", "VentureScanner/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}

	for _, prop := range []string{"og:image", "twitter:image"} {
		selector := fmt.Sprintf(`meta[property="%s"], meta[name="%s"]`, prop, prop)
		if content, ok := doc.Find(selector).First().Attr("content"); ok && strings.HasPrefix(content, "http") {
			return content
		}
	}
	return ""
}

func (f *Finder) unsplashImage(ctx context.Context, query string) string {
	if f.unsplashKey == "" {
		return ""
	}

	endpoint := fmt.Sprintf("%s?query=%s&client_id=%s&orientation=landscape",
		f.unsplashURL, url.QueryEscape(query), f.unsplashKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ""
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var payload struct {
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ""
	}
	return payload.URLs.Regular
}
