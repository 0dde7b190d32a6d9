package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/carnetlify/carnetlify/internal/catalog"
)

// Client is the HTTP implementation of Store.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

var _ Store = (*Client)(nil)

// NewClient creates a client for the service at cfg.BaseURL that
// authenticates with tokens.
func NewClient(cfg Config, tokens TokenSource) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

func (c *Client) SetLessonFlag(ctx context.Context, key catalog.SlotKey) error {
	if err := key.Validate(); err != nil {
		return &ErrRequest{Status: http.StatusBadRequest, Code: "invalid_slot_key", Message: err.Error()}
	}
	body := SetLessonFlagRequest{SlotKey: key.String()}
	return c.do(ctx, http.MethodPost, "/api/v1/progress/lessons", body, nil)
}

func (c *Client) ProgressSnapshot(ctx context.Context) (Snapshot, error) {
	var resp ProgressResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/progress", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Lessons == nil {
		return Snapshot{}, nil
	}
	return Snapshot(resp.Lessons), nil
}

// EnsureProfile creates the user record on the service if it does not exist.
func (c *Client) EnsureProfile(ctx context.Context, email, displayName string) (*ProfileResponse, error) {
	var resp ProfileResponse
	req := ProfileRequest{Email: email, DisplayName: displayName}
	if err := c.do(ctx, http.MethodPost, "/api/v1/users", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RecentEvents returns up to limit of the user's latest flag writes,
// newest first.
func (c *Client) RecentEvents(ctx context.Context, limit int) (*EventsResponse, error) {
	var resp EventsResponse
	path := "/api/v1/progress/events"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if c.tokens == nil {
		return fmt.Errorf("%w: no token source", ErrUnauthorized)
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("%w: obtain token: %v", ErrUnauthorized, err)
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return &ErrUnavailable{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return classifyStatus(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ErrUnavailable{Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func classifyStatus(resp *http.Response) error {
	var eb ErrorBody
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&eb)
	msg := eb.Error.Message
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case resp.StatusCode == http.StatusTooManyRequests:
		return &ErrRateLimit{
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        errors.New(msg),
		}
	case resp.StatusCode >= 500:
		return &ErrUnavailable{Err: fmt.Errorf("status %d: %s", resp.StatusCode, msg)}
	default:
		return &ErrRequest{Status: resp.StatusCode, Code: eb.Error.Code, Message: msg}
	}
}

func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}
