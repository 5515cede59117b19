package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"VentureScanner/internal/config"
)

func newTestMessenger(handler http.HandlerFunc) (*Messenger, *httptest.Server) {
	server := httptest.NewServer(handler)
	m := NewMessenger(config.TelegramConfig{
		BotToken: "token",
		ChatID:   "chat",
		AdminID:  "admin",
	})
	m.baseURL = server.URL
	m.client = server.Client()
	return m, server
}

func TestPublishSendsPhotoWithCaption(t *testing.T) {
	t.Parallel()

	var methods []string
	m, server := newTestMessenger(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.URL.Path)
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.Form.Get("chat_id") != "chat" {
			t.Errorf("unexpected chat_id: %s", r.Form.Get("chat_id"))
		}
	})
	defer server.Close()

	err := m.Publish(context.Background(), "post text", "https://img.example.com/a.jpg")
	if err != nil {
		t.Fatalf("publish returned error: %v", err)
	}

	if len(methods) != 1 || !strings.HasSuffix(methods[0], "/sendPhoto") {
		t.Fatalf("expected a single sendPhoto call, got %v", methods)
	}
}

func TestPublishFallsBackToTextOnPhotoFailure(t *testing.T) {
	t.Parallel()

	var methods []string
	m, server := newTestMessenger(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.URL.Path)
		if strings.HasSuffix(r.URL.Path, "/sendPhoto") {
			w.WriteHeader(http.StatusBadRequest)
		}
	})
	defer server.Close()

	err := m.Publish(context.Background(), "post text", "https://img.example.com/broken.jpg")
	if err != nil {
		t.Fatalf("publish returned error: %v", err)
	}

	if len(methods) != 2 ||
		!strings.HasSuffix(methods[0], "/sendPhoto") ||
		!strings.HasSuffix(methods[1], "/sendMessage") {
		t.Fatalf("expected photo attempt then text fallback, got %v", methods)
	}
}

func TestPublishWithoutImageSendsText(t *testing.T) {
	t.Parallel()

	var methods []string
	m, server := newTestMessenger(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.URL.Path)
	})
	defer server.Close()

	if err := m.Publish(context.Background(), "post text", ""); err != nil {
		t.Fatalf("publish returned error: %v", err)
	}
	if len(methods) != 1 || !strings.HasSuffix(methods[0], "/sendMessage") {
		t.Fatalf("expected a single sendMessage call, got %v", methods)
	}
}

func TestPublishMisconfigured(t *testing.T) {
	t.Parallel()

	m := NewMessenger(config.TelegramConfig{})
	if err := m.Publish(context.Background(), "text", ""); err == nil {
		t.Fatal("expected an error for missing token")
	}
}

func TestNotifyOperatorWithoutAdminIsNoop(t *testing.T) {
	t.Parallel()

	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	m := NewMessenger(config.TelegramConfig{BotToken: "token", ChatID: "chat"})
	m.baseURL = server.URL
	m.client = server.Client()

	if err := m.NotifyOperator(context.Background(), "notice"); err != nil {
		t.Fatalf("notify returned error: %v", err)
	}
	if called {
		t.Fatal("expected no api call without an admin id")
	}
}

func TestClipLongMessages(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("щ", maxMessageLen+100)
	clipped := clip(long)

	if got := len([]rune(clipped)); got != maxMessageLen {
		t.Fatalf("unexpected clipped length: %d", got)
	}
	if !strings.HasSuffix(clipped, "...") {
		t.Fatal("expected ellipsis suffix")
	}
}
