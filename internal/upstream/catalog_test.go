package upstream

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"go.uber.org/zap"
)

func TestTests_QueryPassthrough(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		io.WriteString(w, `{"tests":[{"id":12,"testName":"CBC"}],"pagination":{"total":1,"page":2,"limit":5}}`)
	}))
	defer srv.Close()

	q := url.Values{}
	q.Set("page", "2")
	q.Set("limit", "5")
	q.Set("testName", "CBC")

	page, err := NewClient(srv.URL, zap.NewNop()).Tests(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/tests" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQuery != q.Encode() {
		t.Errorf("query = %q, want %q", gotQuery, q.Encode())
	}
	if len(page.Tests) != 1 || page.Pagination.Page != 2 {
		t.Errorf("page = %+v", page)
	}
}

func TestPackages_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL, zap.NewNop()).Packages(context.Background(), nil); err == nil {
		t.Fatal("expected an error on a 503 response")
	}
}

func TestCurrentUser_DecodesEnvelope(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		io.WriteString(w, `{"user":{"id":"u_7","name":"Anshu Sah","phone":"9800000001","dob":"2000-01-15"}}`)
	}))
	defer srv.Close()

	user, err := NewClient(srv.URL, zap.NewNop()).CurrentUser(context.Background(), "tok-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if user == nil || user.Name != "Anshu Sah" || user.Mobile != "9800000001" {
		t.Errorf("user = %+v", user)
	}
}
