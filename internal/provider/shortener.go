package provider

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Shortener calls a form-POST URL shortening service that replies
// with a plain-text short URL. It is best effort only: callers fall
// back to the long URL when shortening fails.
type Shortener struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewShortener creates a new shortener client
func NewShortener(endpoint string, timeout time.Duration, logger *slog.Logger) *Shortener {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Shortener{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.With("component", "shortener"),
	}
}

// Shorten submits a long URL and returns the shortened one.
func (s *Shortener) Shorten(ctx context.Context, longURL string) (string, error) {
	form := url.Values{}
	form.Set("format", "simple")
	form.Set("url", longURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("shortener error: %s (status %d)", strings.TrimSpace(string(body)), resp.StatusCode)
	}

	short := strings.TrimSpace(string(body))
	if !strings.HasPrefix(short, "http") {
		return "", fmt.Errorf("shortener returned unexpected body: %q", short)
	}
	return short, nil
}
