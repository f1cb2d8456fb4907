package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Identity is what the directory resolves a user id to.
type Identity struct {
	UserID          uuid.UUID `json:"user_id"`
	Alias           string    `json:"alias"`
	IsAuthenticated bool      `json:"is_authenticated"`
}

// DirectoryClient resolves user ids to display identity. Registration and
// identity issuance live in another service; this is the only view of it
// the chat core gets.
type DirectoryClient interface {
	Resolve(ctx context.Context, userID uuid.UUID) (*Identity, error)
}

type directoryClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewDirectoryClient(baseURL string, timeout time.Duration) DirectoryClient {
	return &directoryClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *directoryClient) Resolve(ctx context.Context, userID uuid.UUID) (*Identity, error) {
	url := fmt.Sprintf("%s/users/%s", c.baseURL, userID.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("resolve failed: status=%d, body=%s", resp.StatusCode, string(body))
	}

	var result Identity
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	result.UserID = userID
	result.IsAuthenticated = true

	return &result, nil
}
