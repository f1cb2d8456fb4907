package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// ModerationClient notifies the moderation service of flagged content.
// Case management happens there; the chat core only reports.
type ModerationClient interface {
	Flag(ctx context.Context, contentType string, contentID uuid.UUID, reason string) error
}

type moderationClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewModerationClient(baseURL string, timeout time.Duration) ModerationClient {
	return &moderationClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *moderationClient) Flag(ctx context.Context, contentType string, contentID uuid.UUID, reason string) error {
	url := fmt.Sprintf("%s/flags", c.baseURL)

	body, err := json.Marshal(map[string]string{
		"content_type": contentType,
		"content_id":   contentID.String(),
		"reason":       reason,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("flag failed: status=%d", resp.StatusCode)
	}
	return nil
}
