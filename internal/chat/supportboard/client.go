// Package supportboard is the outbound glue to the Support Board chat
// platform. Only the calls the bot actually needs are implemented.
package supportboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"namfulgor_backend/platform/config"
	"namfulgor_backend/platform/logger"
)

// Client talks to the Support Board web API. All calls go through the
// same form-encoded endpoint with a function discriminator.
type Client struct {
	baseURL   string
	token     string
	botUserID string
	http      *http.Client
	log       *logger.Logger
}

// New creates a Support Board client from configuration.
func New(cfg config.SupportBoardConfig, log *logger.Logger) *Client {
	return &Client{
		baseURL:   strings.TrimRight(cfg.GetSupportBoardURL(), "/"),
		token:     cfg.GetSupportBoardToken(),
		botUserID: cfg.GetSupportBoardBotUserID(),
		http:      &http.Client{Timeout: 15 * time.Second},
		log:       log,
	}
}

// BotUserID returns the Support Board user id the bot posts as.
func (c *Client) BotUserID() string {
	return c.botUserID
}

// Enabled reports whether outbound delivery is configured. When false,
// replies are logged instead of sent, which keeps local development
// working without a Support Board instance.
func (c *Client) Enabled() bool {
	return c.baseURL != "" && c.token != ""
}

type apiResponse struct {
	Success  bool            `json:"success"`
	Response json.RawMessage `json:"response"`
}

// SendMessage posts a bot reply into a conversation.
func (c *Client) SendMessage(ctx context.Context, conversationID, message string) error {
	if !c.Enabled() {
		c.log.WithContext(ctx).Info("support board not configured, dropping reply",
			"conversation_id", conversationID)
		return nil
	}

	return c.call(ctx, url.Values{
		"function":        {"send-message"},
		"conversation_id": {conversationID},
		"user_id":         {c.botUserID},
		"message":         {message},
	})
}

// UpdateConversationDepartment moves a conversation to a human queue.
func (c *Client) UpdateConversationDepartment(ctx context.Context, conversationID, department string) error {
	if !c.Enabled() {
		return nil
	}

	return c.call(ctx, url.Values{
		"function":        {"update-conversation-department"},
		"conversation_id": {conversationID},
		"department":      {department},
	})
}

func (c *Client) call(ctx context.Context, form url.Values) error {
	form.Set("token", c.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build support board request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("support board %s: %w", form.Get("function"), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("support board %s: status %d", form.Get("function"), resp.StatusCode)
	}

	var decoded apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return fmt.Errorf("decode support board response: %w", err)
	}
	if !decoded.Success {
		return fmt.Errorf("support board %s rejected: %s", form.Get("function"), string(decoded.Response))
	}

	return nil
}
