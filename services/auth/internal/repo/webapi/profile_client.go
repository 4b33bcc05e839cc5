package webapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type ProfileClient interface {
	CreateProfile(ctx context.Context, userID int64, name, email, role string) error
}

type createProfileRequest struct {
	UserID int64  `json:"userId"`
	Name   string `json:"nombre"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type profileClient struct {
	baseURL string
	client  *http.Client
}

// NewProfileClient talks to the profile service at baseURL.
func NewProfileClient(baseURL string, timeout time.Duration) ProfileClient {
	return &profileClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *profileClient) CreateProfile(ctx context.Context, userID int64, name, email, role string) error {
	body, err := json.Marshal(createProfileRequest{
		UserID: userID,
		Name:   name,
		Email:  email,
		Role:   role,
	})
	if err != nil {
		return fmt.Errorf("encode profile request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/profiles", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build profile request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("call profile service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("profile service responded with status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}
