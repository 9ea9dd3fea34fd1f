package notify

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Channel types understood by the dispatcher.
const (
	TypeTelegram   = "telegram"
	TypeMattermost = "mattermost"
	TypeSlack      = "slack"
	TypeWebhook    = "webhook"
	TypeShoutrrr   = "shoutrrr"
)

// Channel is a configured outbound notification target. The dispatcher
// iterates channels uniformly; channel_type selects the payload shape.
type Channel struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	ChannelType string    `json:"channel_type"`
	ConfigJSON  string    `json:"config_json"`
	Enabled     bool      `json:"enabled"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TelegramConfig is the config_json shape for telegram channels.
// ProxyURL optionally routes the Bot API call through an HTTP proxy.
type TelegramConfig struct {
	BotToken string `json:"bot_token"`
	ChatID   string `json:"chat_id"`
	ProxyURL string `json:"proxy_url,omitempty"`
}

// WebhookConfig is the config_json shape for mattermost, slack, webhook
// and shoutrrr channels.
type WebhookConfig struct {
	URL string `json:"url"`
}

// ValidateChannel checks that a channel's type is known and its config
// carries the required fields.
func ValidateChannel(channelType, configJSON string) error {
	switch channelType {
	case TypeTelegram:
		var cfg TelegramConfig
		if err := json.Unmarshal([]byte(configJSON), &cfg); err != nil {
			return fmt.Errorf("invalid telegram config: %w", err)
		}
		if strings.TrimSpace(cfg.BotToken) == "" || strings.TrimSpace(cfg.ChatID) == "" {
			return fmt.Errorf("telegram channel requires bot_token and chat_id")
		}
	case TypeMattermost, TypeSlack, TypeWebhook, TypeShoutrrr:
		var cfg WebhookConfig
		if err := json.Unmarshal([]byte(configJSON), &cfg); err != nil {
			return fmt.Errorf("invalid %s config: %w", channelType, err)
		}
		if strings.TrimSpace(cfg.URL) == "" {
			return fmt.Errorf("%s channel requires url", channelType)
		}
	default:
		return fmt.Errorf("unknown channel type: %s", channelType)
	}
	return nil
}
