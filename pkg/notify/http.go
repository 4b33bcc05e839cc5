package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"geekplay/pkg/logger"
)

type HTTPConfig struct {
	URL     string
	Timeout time.Duration
}

// HTTPDispatcher POSTs each notification as JSON to the configured URL.
type HTTPDispatcher struct {
	url    string
	client *http.Client
	*async
}

// NewHTTPDispatcher uses client when non-nil, otherwise a fresh client.
// Per-call deadlines come from cfg.Timeout, not from the client.
func NewHTTPDispatcher(cfg HTTPConfig, client *http.Client, log *logger.Logger) *HTTPDispatcher {
	if client == nil {
		client = &http.Client{}
	}
	d := &HTTPDispatcher{
		url:    cfg.URL,
		client: client,
	}
	d.async = newAsync("http", cfg.Timeout, log, d.post)
	return d
}

func (d *HTTPDispatcher) Dispatch(userID int64, kind Kind, title, message string) {
	d.dispatch(Notification{UserID: userID, Kind: kind, Title: title, Message: message})
}

func (d *HTTPDispatcher) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("post notification: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode}
	}
	return nil
}
