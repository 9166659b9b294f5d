package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pdrbrnd/whatsinthebox/internal/models"
)

// TelegramNotifier posts ingestion run reports to a Telegram chat. It is
// optional; an empty token or chat id disables it at the wiring level.
type TelegramNotifier struct {
	botToken   string
	chatID     string
	httpClient *http.Client
	baseURL    string
}

// NewTelegramNotifier creates a new TelegramNotifier
func NewTelegramNotifier(botToken, chatID string) *TelegramNotifier {
	return &TelegramNotifier{
		botToken: botToken,
		chatID:   chatID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: "https://api.telegram.org",
	}
}

// SetBaseURL allows overriding the base URL (useful for testing)
func (n *TelegramNotifier) SetBaseURL(baseURL string) {
	n.baseURL = baseURL
}

// telegramMessage represents the request body for sending a message
type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

// telegramResponse represents the response from Telegram API
type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}

// SendRunReport formats and sends a pipeline run summary
func (n *TelegramNotifier) SendRunReport(report *models.RunReport) error {
	if report == nil || report.Idle {
		return nil
	}

	text := fmt.Sprintf(
		"📺 <b>Ingestion run</b>\n"+
			"Channel: %d (day %d)\n"+
			"Programs: %d, movies: %d\n"+
			"Resolved: %d, enriched: %d, persisted: %d\n"+
			"Took %s",
		report.ChannelID, report.DayOffset,
		report.Programs, report.Movies,
		report.Resolved, report.Enriched, report.Persisted,
		report.Duration,
	)

	return n.SendMessage(text)
}

// SendMessage sends a message to Telegram
func (n *TelegramNotifier) SendMessage(text string) error {
	if n.botToken == "" || n.chatID == "" {
		return fmt.Errorf("telegram notifier not configured: missing bot token or chat ID")
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)

	msg := telegramMessage{
		ChatID:    n.chatID,
		Text:      text,
		ParseMode: "HTML",
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	resp, err := n.httpClient.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read telegram response: %w", err)
	}

	var result telegramResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return fmt.Errorf("failed to decode telegram response: %w", err)
	}

	if !result.OK {
		return fmt.Errorf("telegram API error: %s", result.Description)
	}

	return nil
}
