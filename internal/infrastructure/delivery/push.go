package delivery

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"

	"github.com/EsatCanStudent/UpdatedScores2/internal/platform/logging"
)

const pushTimeout = 10 * time.Second

// WebhookPushSender posts the notification payload to a push gateway.
type WebhookPushSender struct {
	client   *http.Client
	endpoint string
	apiKey   string
	logger   *logging.Logger
}

func NewWebhookPushSender(endpoint, apiKey string, logger *logging.Logger) *WebhookPushSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &WebhookPushSender{
		client:   &http.Client{Timeout: pushTimeout},
		endpoint: endpoint,
		apiKey:   apiKey,
		logger:   logger,
	}
}

type pushPayload struct {
	Token string `json:"token"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (s *WebhookPushSender) SendPush(ctx context.Context, token, title, body string) error {
	if token == "" {
		return fmt.Errorf("send push: token is required")
	}

	payload, err := sonic.Marshal(pushPayload{Token: token, Title: title, Body: body})
	if err != nil {
		return fmt.Errorf("encode push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send push: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	if resp.StatusCode >= 300 {
		return fmt.Errorf("send push: gateway returned %d", resp.StatusCode)
	}

	s.logger.DebugContext(ctx, "push sent", "title", title)
	return nil
}

// LogPushSender logs instead of delivering. Used when no gateway is
// configured.
type LogPushSender struct {
	logger *logging.Logger
}

func NewLogPushSender(logger *logging.Logger) *LogPushSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogPushSender{logger: logger}
}

func (s *LogPushSender) SendPush(ctx context.Context, token, title, body string) error {
	s.logger.InfoContext(ctx, "push (log only)", "title", title, "body", body)
	return nil
}
