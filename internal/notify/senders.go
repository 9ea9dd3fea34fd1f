package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/nicholas-fedor/shoutrrr"
)

const sendTimeout = 10 * time.Second

// Sender delivers a message to one channel. Abstracted so the dispatcher
// can be tested without hitting real services.
type Sender interface {
	Send(ch Channel, message string) error
}

// LiveSender posts to the real channel endpoints.
type LiveSender struct{}

func (LiveSender) Send(ch Channel, message string) error {
	switch ch.ChannelType {
	case TypeTelegram:
		return sendTelegram(ch.ConfigJSON, message)
	case TypeMattermost:
		return sendMattermost(ch.ConfigJSON, message)
	case TypeSlack:
		return sendSlack(ch.ConfigJSON, message)
	case TypeWebhook:
		return sendWebhook(ch.ConfigJSON, message)
	case TypeShoutrrr:
		return sendShoutrrr(ch.ConfigJSON, message)
	default:
		return fmt.Errorf("unknown channel type: %s", ch.ChannelType)
	}
}

// sendTelegram posts to the Bot API, optionally through an HTTP proxy.
func sendTelegram(configJSON, message string) error {
	var cfg TelegramConfig
	if err := json.Unmarshal([]byte(configJSON), &cfg); err != nil {
		return fmt.Errorf("telegram config: %w", err)
	}

	client := &http.Client{Timeout: sendTimeout}
	if cfg.ProxyURL != "" {
		proxy, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			return fmt.Errorf("telegram proxy url: %w", err)
		}
		client.Transport = &http.Transport{Proxy: http.ProxyURL(proxy)}
	}

	api := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", cfg.BotToken)
	payload := map[string]string{
		"chat_id":    cfg.ChatID,
		"text":       message,
		"parse_mode": "Markdown",
	}
	return postJSON(client, api, payload, http.StatusOK)
}

// sendMattermost posts a plain message; long messages are upgraded to a
// rich attachment payload, which renders better in Mattermost.
func sendMattermost(configJSON, message string) error {
	var cfg WebhookConfig
	if err := json.Unmarshal([]byte(configJSON), &cfg); err != nil {
		return fmt.Errorf("mattermost config: %w", err)
	}

	var payload interface{} = map[string]string{
		"text":       message,
		"username":   "🔒 Domain Monitor",
		"icon_emoji": ":lock:",
	}
	if len(message) > 200 {
		payload = map[string]interface{}{
			"username": "🔒 Domain Monitor",
			"attachments": []map[string]string{{
				"fallback": message,
				"text":     message,
				"color":    "#6366f1",
			}},
		}
	}

	client := &http.Client{Timeout: sendTimeout}
	return postJSON(client, cfg.URL, payload, http.StatusOK, http.StatusCreated)
}

func sendSlack(configJSON, message string) error {
	var cfg WebhookConfig
	if err := json.Unmarshal([]byte(configJSON), &cfg); err != nil {
		return fmt.Errorf("slack config: %w", err)
	}
	client := &http.Client{Timeout: sendTimeout}
	return postJSON(client, cfg.URL, map[string]string{"text": message}, http.StatusOK)
}

func sendWebhook(configJSON, message string) error {
	var cfg WebhookConfig
	if err := json.Unmarshal([]byte(configJSON), &cfg); err != nil {
		return fmt.Errorf("webhook config: %w", err)
	}
	payload := map[string]string{
		"content": message,
		"title":   "Domain Monitor Alert",
		"source":  "domainwatch",
	}
	client := &http.Client{Timeout: sendTimeout}
	return postJSON(client, cfg.URL, payload,
		http.StatusOK, http.StatusCreated, http.StatusNoContent)
}

// sendShoutrrr delivers through any Shoutrrr service URL
// (discord://, smtp://, gotify://, ...).
func sendShoutrrr(configJSON, message string) error {
	var cfg WebhookConfig
	if err := json.Unmarshal([]byte(configJSON), &cfg); err != nil {
		return fmt.Errorf("shoutrrr config: %w", err)
	}
	return shoutrrr.Send(cfg.URL, message)
}

// postJSON sends the payload and checks the response against the
// accepted status codes.
func postJSON(client *http.Client, target string, payload interface{}, okStatuses ...int) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	resp, err := client.Post(target, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post: %w", err)
	}
	defer resp.Body.Close()

	for _, ok := range okStatuses {
		if resp.StatusCode == ok {
			return nil
		}
	}

	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
}
