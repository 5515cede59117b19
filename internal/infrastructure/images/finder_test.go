package images

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"VentureScanner/internal/config"
)

func TestFindImagePrefersOpenGraph(t *testing.T) {
	t.Parallel()

	article := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head>
			<meta property="og:image" content="https://cdn.example.com/cover.jpg">
		</head><body>text</body></html>`))
	}))
	defer article.Close()

	finder := NewFinder(config.ImageConfig{}, article.Client())

	img, err := finder.FindImage(context.Background(), article.URL, "venture capital")
	if err != nil {
		t.Fatalf("find image returned error: %v", err)
	}
	if img != "https://cdn.example.com/cover.jpg" {
		t.Fatalf("unexpected image: %s", img)
	}
}

func TestFindImageFallsBackToUnsplash(t *testing.T) {
	t.Parallel()

	article := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head></head><body>no og tags</body></html>`))
	}))
	defer article.Close()

	unsplash := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("client_id"); got != "unsplash-key" {
			t.Errorf("unexpected client_id: %s", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"urls": map[string]string{"regular": "https://images.unsplash.com/photo"},
		})
	}))
	defer unsplash.Close()

	finder := NewFinder(config.ImageConfig{UnsplashAccessKey: "unsplash-key"}, article.Client())
	finder.unsplashURL = unsplash.URL

	img, err := finder.FindImage(context.Background(), article.URL, "venture capital")
	if err != nil {
		t.Fatalf("find image returned error: %v", err)
	}
	if img != "https://images.unsplash.com/photo" {
		t.Fatalf("unexpected image: %s", img)
	}
}

func TestFindImageEmptyResultIsNotAnError(t *testing.T) {
	t.Parallel()

	finder := NewFinder(config.ImageConfig{}, nil)

	img, err := finder.FindImage(context.Background(), "not-a-url", "query")
	if err != nil {
		t.Fatalf("find image returned error: %v", err)
	}
	if img != "" {
		t.Fatalf("expected empty image, got %s", img)
	}
}
