package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/labcare/booking-gateway/internal/model"
)

// Catalog exposes the read-only lab catalog and identity lookups the
// booking flow consumes. Split out as an interface for handler tests.
type Catalog interface {
	Tests(ctx context.Context, query url.Values) (*model.TestPage, error)
	Packages(ctx context.Context, query url.Values) (*model.PackagePage, error)
	CurrentUser(ctx context.Context, token string) (*model.CurrentUser, error)
}

// Tests fetches a page of lab tests, forwarding pagination and filter
// parameters (page, limit, department, testName, minAmount, ...) untouched.
func (c *Client) Tests(ctx context.Context, query url.Values) (*model.TestPage, error) {
	req, err := c.catalogRequest(ctx, "/tests", query)
	if err != nil {
		return nil, err
	}
	var page model.TestPage
	if err := c.get(req, "", &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Packages fetches a page of test packages with the same query passthrough
// as Tests.
func (c *Client) Packages(ctx context.Context, query url.Values) (*model.PackagePage, error) {
	req, err := c.catalogRequest(ctx, "/packages", query)
	if err != nil {
		return nil, err
	}
	var page model.PackagePage
	if err := c.get(req, "", &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CurrentUser resolves the identity behind a bearer token. The response is
// used to prefill the draft when booking for self; a missing or anonymous
// token yields a nil user without error.
func (c *Client) CurrentUser(ctx context.Context, token string) (*model.CurrentUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/auth/current", nil)
	if err != nil {
		return nil, fmt.Errorf("build current-user request: %w", err)
	}
	var payload struct {
		User *model.CurrentUser `json:"user"`
	}
	if err := c.get(req, token, &payload); err != nil {
		return nil, err
	}
	return payload.User, nil
}

func (c *Client) catalogRequest(ctx context.Context, path string, query url.Values) (*http.Request, error) {
	u := c.BaseURL + path
	if enc := query.Encode(); enc != "" {
		u += "?" + enc
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	return req, nil
}
