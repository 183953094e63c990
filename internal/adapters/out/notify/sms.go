package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"parceltrack/internal/core/domain/intent"
	"parceltrack/internal/core/domain/model/user"
)

const maxErrorBody = 256

// SMSChannel posts {to, message} to an SMS gateway with a bearer token.
// Without a gateway URL it only logs the message, which keeps local and test
// setups free of a real provider.
type SMSChannel struct {
	httpClient *http.Client
	gatewayURL string
	token      string
	logger     *slog.Logger
}

type smsRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

func NewSMSChannel(gatewayURL, token string, httpClient *http.Client, logger *slog.Logger) *SMSChannel {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &SMSChannel{
		httpClient: httpClient,
		gatewayURL: gatewayURL,
		token:      token,
		logger:     logger.With("channel", "sms"),
	}
}

func (c *SMSChannel) Name() string { return "sms" }

func (c *SMSChannel) Address(u *user.User) string { return u.Phone() }

func (c *SMSChannel) Accepts(prefs user.NotificationPreferences) bool { return prefs.SMS }

// Send uses the plain-text body; the subject is not sent.
func (c *SMSChannel) Send(ctx context.Context, address string, msg intent.Message) error {
	if c.gatewayURL == "" {
		c.logger.InfoContext(ctx, "sms gateway not configured, message logged only",
			"to", address,
			"message", msg.Text,
		)
		return nil
	}

	payload, err := json.Marshal(smsRequest{To: address, Message: msg.Text})
	if err != nil {
		return fmt.Errorf("marshal sms request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gatewayURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("sms gateway returned status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
