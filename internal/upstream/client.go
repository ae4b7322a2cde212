// Package upstream is the gateway's client for the lab backend REST API.
// It owns the booking submission pipeline (multipart POST /bookings) and
// thin proxies for the catalog and current-user endpoints. The gateway
// never retries on its own; a submission is at most once, and failures are
// reported back with enough detail for the user to decide.
package upstream

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout bounds the booking submission request. The original flow
// had no timeout at all; thirty seconds keeps a stalled submission from
// hanging the confirm step forever.
const DefaultTimeout = 30 * time.Second

// Client talks to the lab backend. OpenFile resolves a stored prescription
// URI to its content and defaults to os.Open; tests substitute it.
type Client struct {
	BaseURL  string
	HTTP     *http.Client
	OpenFile func(uri string) (io.ReadCloser, error)
	Log      *zap.Logger
}

// NewClient returns a Client with the default timeout. baseURL is the API
// root, e.g. "https://lab.example.com/api".
func NewClient(baseURL string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		BaseURL:  baseURL,
		HTTP:     &http.Client{Timeout: DefaultTimeout},
		OpenFile: func(uri string) (io.ReadCloser, error) { return os.Open(uri) },
		Log:      log,
	}
}

// get issues an authenticated GET and decodes the JSON body into out.
func (c *Client) get(req *http.Request, token string, out any) error {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode upstream response: %w", err)
	}
	return nil
}
