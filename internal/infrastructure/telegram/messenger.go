package telegram

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"VentureScanner/internal/config"
	"VentureScanner/internal/ports"
)

const (
	apiBase       = "https://api.telegram.org"
	maxMessageLen = 4000
)

// Messenger publishes posts to the channel and sends operator notices via
// the Bot API.
type Messenger struct {
	botToken string
	chatID   string
	adminID  string
	baseURL  string
	client   *http.Client
}

var _ ports.Messenger = (*Messenger)(nil)

// NewMessenger registers bot token and destination identifiers.
func NewMessenger(cfg config.TelegramConfig) *Messenger {
	return &Messenger{
		botToken: cfg.BotToken,
		chatID:   cfg.ChatID,
		adminID:  cfg.AdminID,
		baseURL:  apiBase,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Publish sends the post to the channel, with the photo when one is set.
// A failed photo send falls back to a text-only retry before surfacing.
func (m *Messenger) Publish(ctx context.Context, text, imageURL string) error {
	if m.botToken == "" || m.chatID == "" {
		return fmt.Errorf("telegram messenger misconfigured")
	}

	text = clip(text)

	if imageURL != "" {
		if err := m.sendPhoto(ctx, m.chatID, text, imageURL); err == nil {
			return nil
		}
		// fall back to text-only
	}

	return m.sendMessage(ctx, m.chatID, text)
}

// NotifyOperator sends a short notice to the admin chat. Without an admin
// id configured the notice is silently dropped.
func (m *Messenger) NotifyOperator(ctx context.Context, text string) error {
	if m.adminID == "" {
		return nil
	}
	return m.sendMessage(ctx, m.adminID, clip(text))
}

func (m *Messenger) sendMessage(ctx context.Context, chatID, text string) error {
	form := url.Values{}
	form.Set("chat_id", chatID)
	form.Set("text", text)
	form.Set("disable_web_page_preview", "true")
	return m.post(ctx, "sendMessage", form)
}

func (m *Messenger) sendPhoto(ctx context.Context, chatID, caption, photoURL string) error {
	form := url.Values{}
	form.Set("chat_id", chatID)
	form.Set("photo", photoURL)
	form.Set("caption", caption)
	return m.post(ctx, "sendPhoto", form)
}

func (m *Messenger) post(ctx context.Context, method string, form url.Values) error {
	endpoint := fmt.Sprintf("%s/bot%s/%s", m.baseURL, m.botToken, method)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram %s error: %s", method, resp.Status)
	}

	return nil
}

func clip(text string) string {
	runes := []rune(text)
	if len(runes) <= maxMessageLen {
		return text
	}
	return string(runes[:maxMessageLen-3]) + "..."
}
