package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

type DiscordEmbed struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Color       int            `json:"color"`
	Footer      *DiscordFooter `json:"footer,omitempty"`
	Timestamp   string         `json:"timestamp"`
}

type DiscordFooter struct {
	Text string `json:"text"`
}

type DiscordWebhookRequest struct {
	Username string         `json:"username"`
	Embeds   []DiscordEmbed `json:"embeds"`
}

type SlackAttachment struct {
	Color     string `json:"color"`
	Title     string `json:"title"`
	Text      string `json:"text"`
	Footer    string `json:"footer"`
	Timestamp int64  `json:"ts"`
}

type SlackWebhookRequest struct {
	Username    string            `json:"username"`
	IconEmoji   string            `json:"icon_emoji,omitempty"`
	Text        string            `json:"text"`
	Attachments []SlackAttachment `json:"attachments"`
}

const (
	ColorRed   = 16711680 // #FF0000 - mutation failed
	ColorGreen = 65280    // #00FF00 - mutation succeeded

	webhookUsername = "Kensetsu Records"
	webhookFooter   = "Kensetsu project records"
)

// SlackNotifier posts mutation outcomes to a Slack incoming webhook.
// Notifications are fire-and-forget; delivery failures are logged, never
// surfaced to the caller.
type SlackNotifier struct {
	WebhookURL string
}

func (n *SlackNotifier) ShowSuccess(title, message string) {
	n.send("good", ":white_check_mark:", title, message)
}

func (n *SlackNotifier) ShowError(title, message string) {
	n.send("danger", ":rotating_light:", title, message)
}

func (n *SlackNotifier) send(color, emoji, title, message string) {
	payload := SlackWebhookRequest{
		Username:  webhookUsername,
		IconEmoji: emoji,
		Text:      title,
		Attachments: []SlackAttachment{
			{
				Color:     color,
				Title:     title,
				Text:      message,
				Footer:    webhookFooter,
				Timestamp: time.Now().Unix(),
			},
		},
	}

	if err := postJSON(n.WebhookURL, payload); err != nil {
		log.Printf("Failed to send Slack notification: %v", err)
	}
}

// DiscordNotifier posts mutation outcomes to a Discord webhook.
type DiscordNotifier struct {
	WebhookURL string
}

func (n *DiscordNotifier) ShowSuccess(title, message string) {
	n.send(ColorGreen, title, message)
}

func (n *DiscordNotifier) ShowError(title, message string) {
	n.send(ColorRed, title, message)
}

func (n *DiscordNotifier) send(color int, title, message string) {
	payload := DiscordWebhookRequest{
		Username: webhookUsername,
		Embeds: []DiscordEmbed{
			{
				Title:       title,
				Description: message,
				Color:       color,
				Footer:      &DiscordFooter{Text: webhookFooter},
				Timestamp:   time.Now().Format(time.RFC3339),
			},
		},
	}

	if err := postJSON(n.WebhookURL, payload); err != nil {
		log.Printf("Failed to send Discord notification: %v", err)
	}
}

func postJSON(webhookURL string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	resp, err := http.Post(webhookURL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
