package network

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultRequestTimeout bounds every coordinator call unless configured otherwise.
const DefaultRequestTimeout = 10 * time.Second

// StatusError is returned when the coordinator answers with a status the caller
// did not expect. Msg carries the body's msg field when there is one.
type StatusError struct {
	Status int
	Msg    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Status, e.Msg)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == code
}

// Client is a small JSON-over-HTTP client bound to one coordinator address.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the coordinator at baseURL.
// A scheme-less address such as "127.0.0.1:5000" is treated as http.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base != "" && !strings.Contains(base, "://") {
		base = "http://" + base
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

// PostJSON sends body as JSON to path. On 200 the response is decoded into out
// (when out is non-nil); on 204 out is left untouched. Any other status yields a
// *StatusError. The returned int is the HTTP status, or 0 on transport failure.
func (c *Client) PostJSON(ctx context.Context, path string, body, out any) (int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("marshal %s: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// GetJSON issues a GET with the given query; status handling matches PostJSON.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) (int, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, fmt.Errorf("build request %s: %w", path, err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) (int, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return resp.StatusCode, nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode %s response: %w", req.URL.Path, err)
		}
		return resp.StatusCode, nil
	case http.StatusNoContent:
		return resp.StatusCode, nil
	default:
		return resp.StatusCode, readStatusError(resp)
	}
}

func readStatusError(resp *http.Response) error {
	se := &StatusError{Status: resp.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var msg StatusMessage
	if err := json.Unmarshal(raw, &msg); err == nil && msg.Msg != "" {
		se.Msg = msg.Msg
	} else if text := strings.TrimSpace(string(raw)); text != "" && len(text) < 256 {
		se.Msg = text
	} else {
		se.Msg = http.StatusText(resp.StatusCode)
	}
	return se
}
