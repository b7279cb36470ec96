// internal/adapters/watchapi/client.go
package watchapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"flightwatch_web/internal/adapters/observability"
	"flightwatch_web/internal/domain"
)

const service = "watch_api"

type Client struct {
	base string
	hc   *http.Client
	rl   *rate.Limiter
}

// New builds a client for the watch backend rooted at base (API_URL).
// A nil hc gets a plain client; the caller's context bounds each call.
func New(base string, hc *http.Client, rps int) (*Client, error) {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return nil, fmt.Errorf("API base URL is required")
	}
	if rps <= 0 {
		rps = 10
	}
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{
		base: base,
		hc:   hc,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

func (c *Client) Base() string { return c.base }

// ListWatches fetches the whole collection. Any non-2xx becomes an
// *domain.APIError; the body is not inspected.
func (c *Client) ListWatches(ctx context.Context) ([]domain.Watch, error) {
	resp, err := c.do(ctx, http.MethodGet, "list", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &domain.APIError{Status: resp.StatusCode}
	}

	out := []domain.Watch{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode watch list: %w", err)
	}
	return out, nil
}

// CreateWatch posts one watch. On non-2xx it reads a string "detail" from
// the body when there is one.
func (c *Client) CreateWatch(ctx context.Context, w domain.NewWatch) error {
	body, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("encode watch: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPost, "create", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	return &domain.APIError{Status: resp.StatusCode, Detail: detailOf(b)}
}

// ---- Internals ----

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte) (*http.Response, error) {
	// client-side rate limiting
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}

	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+"/watch", rdr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "flightwatch-web/1.0")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal(service, endpoint, 0, time.Since(start))
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s %s/watch: %w", method, c.base, err)
	}
	observability.ObserveExternal(service, endpoint, resp.StatusCode, time.Since(start))
	return resp, nil
}

// detailOf returns the "detail" member of a JSON error body when it is a
// string. FastAPI validation errors carry a list there; those are ignored.
func detailOf(b []byte) string {
	var e struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(b, &e); err != nil || len(e.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(e.Detail, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}
