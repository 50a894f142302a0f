package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mti-it/onboarding-service/internal/settings"
)

// ErrNotConfigured is returned when the send proxy is disabled or has no URL.
var ErrNotConfigured = errors.New("whatsapp proxy is not configured")

// Client posts rendered messages to the WhatsApp send proxy.
// There is no retry or queueing: a failed send is reported to the caller.
type Client struct {
	cfg  settings.WhatsAppSettings
	http *http.Client
}

// NewClient builds a proxy client from the settings block.
func NewClient(cfg settings.WhatsAppSettings) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

// Recipient applies the configured recipient policy: "test" routes every
// message to the fixed test number, anything else uses the hire's number.
func (c *Client) Recipient(hireNumber string) string {
	if c.cfg.RecipientPolicy == "test" && c.cfg.TestNumber != "" {
		return c.cfg.TestNumber
	}
	return hireNumber
}

// Send posts one message to the proxy.
func (c *Client) Send(ctx context.Context, recipient, message string) error {
	if !c.cfg.Enabled || c.cfg.APIURL == "" {
		return ErrNotConfigured
	}
	if recipient == "" {
		return errors.New("recipient phone number is empty")
	}

	body, err := json.Marshal(map[string]string{
		"to":      recipient,
		"message": message,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp proxy: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("whatsapp proxy rejected send with status %d", resp.StatusCode)
	}
	return nil
}
