package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type HTTP struct{ c *http.Client }

func NewHTTP() *HTTP { return NewHTTPWithTimeout(60 * time.Second) }

// NewHTTPWithTimeout returns a client whose requests time out after d.
// A non-positive d falls back to 60 seconds.
func NewHTTPWithTimeout(d time.Duration) *HTTP {
	if d <= 0 {
		d = 60 * time.Second
	}
	return &HTTP{c: &http.Client{Timeout: d}}
}

// postJSON sends in as JSON to url and decodes a 200 response into out.
// svc prefixes every error.
func (h *HTTP) postJSON(ctx context.Context, svc, url string, in, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s encode: %w", svc, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return h.do(svc, req, out)
}

func (h *HTTP) do(svc string, req *http.Request, out any) error {
	resp, err := h.c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s: %s", svc, resp.Status, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s decode: %w", svc, err)
	}
	return nil
}
