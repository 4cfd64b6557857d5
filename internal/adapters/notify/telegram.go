package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/f2re/diplom-monitor/internal/core/domain"
	"github.com/f2re/diplom-monitor/internal/core/workers"
)

var _ workers.Notifier = (*TelegramNotifier)(nil)

// TelegramNotifier delivers reminders through the Telegram Bot API.
type TelegramNotifier struct {
	token string
	http  *http.Client
}

func NewTelegramNotifier(token string) *TelegramNotifier {
	return &TelegramNotifier{
		token: token,
		http:  &http.Client{Timeout: 10 * time.Second},
	}
}

type sendMessageRequest struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

func (n *TelegramNotifier) Notify(ctx context.Context, user *domain.User, message string) error {
	if user.TelegramID == nil {
		return nil
	}

	payload, err := json.Marshal(sendMessageRequest{ChatID: *user.TelegramID, Text: message})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", n.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram: send message: status %d", resp.StatusCode)
	}
	return nil
}

var _ workers.Notifier = (*LogNotifier)(nil)

// LogNotifier is used when no bot token is configured.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, user *domain.User, message string) error {
	log.Printf("Reminder for %s (%s): %s", user.FullName, user.ID, message)
	return nil
}
