package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tmpmail/pkg/models"
)

// ErrProvider wraps network and decode failures talking to the mail API.
var ErrProvider = errors.New("provider request failed")

// ErrMessageNotFound is returned when the provider reports its
// not-found sentinel for a message id.
var ErrMessageNotFound = errors.New("message not found")

// notFoundSentinel is how the provider signals a missing message: a
// literal plain-text body, not an HTTP status.
const notFoundSentinel = "Message not found"

// Client is a read-only client for a 1secmail-compatible mailbox API.
// All calls are idempotent and side-effect-free on the provider; a
// failure is surfaced immediately, retries are up to the caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Config for the provider client
type Config struct {
	BaseURL string // e.g., https://www.1secmail.com/api/v1/
	Timeout time.Duration
}

// NewClient creates a new provider client
func NewClient(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.With("component", "provider"),
	}
}

// Domains returns the provider's currently supported mail domains.
// An empty domain list is a hard error, not a valid state.
func (c *Client) Domains(ctx context.Context) ([]string, error) {
	query := url.Values{}
	query.Set("action", "getDomainList")

	body, err := c.get(ctx, query)
	if err != nil {
		return nil, err
	}

	var domains []string
	if err := json.Unmarshal(body, &domains); err != nil {
		return nil, fmt.Errorf("%w: failed to parse domain list: %v", ErrProvider, err)
	}
	if len(domains) == 0 {
		return nil, fmt.Errorf("%w: provider returned no domains", ErrProvider)
	}
	return domains, nil
}

// Messages returns the inbox listing for an address in the provider's
// order. An empty inbox is a valid result.
func (c *Client) Messages(ctx context.Context, addr models.EmailAddress) ([]models.MessageSummary, error) {
	query := url.Values{}
	query.Set("action", "getMessages")
	query.Set("login", addr.Username)
	query.Set("domain", addr.Domain)

	body, err := c.get(ctx, query)
	if err != nil {
		return nil, err
	}

	var messages []models.MessageSummary
	if err := json.Unmarshal(body, &messages); err != nil {
		return nil, fmt.Errorf("%w: failed to parse message list: %v", ErrProvider, err)
	}
	return messages, nil
}

// Message fetches the full content of one message by id.
func (c *Client) Message(ctx context.Context, addr models.EmailAddress, id int) (*models.MessageDetail, error) {
	query := url.Values{}
	query.Set("action", "readMessage")
	query.Set("login", addr.Username)
	query.Set("domain", addr.Domain)
	query.Set("id", strconv.Itoa(id))

	body, err := c.get(ctx, query)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(string(body)) == notFoundSentinel {
		return nil, ErrMessageNotFound
	}

	var detail models.MessageDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, fmt.Errorf("%w: failed to parse message: %v", ErrProvider, err)
	}
	return &detail, nil
}

// AttachmentURL builds the download link for one attachment of a
// message. No request is made.
func (c *Client) AttachmentURL(addr models.EmailAddress, id int, filename string) string {
	query := url.Values{}
	query.Set("action", "download")
	query.Set("login", addr.Username)
	query.Set("domain", addr.Domain)
	query.Set("id", strconv.Itoa(id))
	query.Set("file", filename)

	return c.baseURL + "/?" + query.Encode()
}

// get performs one API query and returns the raw response body.
func (c *Client) get(ctx context.Context, query url.Values) ([]byte, error) {
	reqURL := c.baseURL + "/?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrProvider, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrProvider, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrProvider, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	c.logger.Debug("provider request", "action", query.Get("action"), "bytes", len(body))
	return body, nil
}
