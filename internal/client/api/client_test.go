package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"go.uber.org/zap"
)

type staticTokens string

func (s staticTokens) Token() string { return string(s) }

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func TestClient_GetDecodesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/courses" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, staticTokens("tok-1"), 0, zap.NewNop())
	var out []struct {
		ID int `json:"id"`
	}
	if err := c.Get(context.Background(), "/api/courses", nil, &out); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(out) != 1 || out[0].ID != 1 {
		t.Errorf("unexpected body: %+v", out)
	}
}

func TestClient_NoAuthHeaderWithoutToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Header["Authorization"]; ok {
			t.Error("Authorization header sent without a session")
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL, staticTokens(""), 0, zap.NewNop())
	if err := c.Get(context.Background(), "/api/settings", nil, nil); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
}

func TestClient_QueryEncoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "ada lovelace" {
			t.Errorf("query q = %q", got)
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL, staticTokens("t"), 0, zap.NewNop())
	q := url.Values{"q": {"ada lovelace"}}
	if err := c.Get(context.Background(), "/api/contacts", q, nil); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
}

func TestClient_ServerErrorKind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"submission is empty"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, staticTokens("t"), 0, zap.NewNop())
	err := c.Post(context.Background(), "/api/submit", map[string]string{}, nil)
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if apiErr.Kind != KindServer || apiErr.Status != http.StatusUnprocessableEntity {
		t.Errorf("got kind=%s status=%d", apiErr.Kind, apiErr.Status)
	}
	if apiErr.Message != "submission is empty" {
		t.Errorf("server message not extracted: %q", apiErr.Message)
	}
}

func TestClient_ServerErrorStatusTextFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<html>oops</html>`))
	}))
	defer srv.Close()

	c := New(srv.URL, staticTokens("t"), 0, zap.NewNop())
	err := c.Get(context.Background(), "/api/grades", nil, nil)
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if apiErr.Message != http.StatusText(http.StatusInternalServerError) {
		t.Errorf("expected status-text fallback, got %q", apiErr.Message)
	}
}

func TestClient_UnreachableKind(t *testing.T) {
	hc := &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})}
	c := NewWithHTTPClient("http://campus.invalid", staticTokens("t"), hc, zap.NewNop())
	err := c.Get(context.Background(), "/api/courses", nil, nil)
	if KindOf(err) != KindUnavailable {
		t.Errorf("expected KindUnavailable, got %v (%v)", KindOf(err), err)
	}
}

func TestClient_MalformedKind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json at all`))
	}))
	defer srv.Close()

	c := New(srv.URL, staticTokens("t"), 0, zap.NewNop())
	var out map[string]any
	err := c.Get(context.Background(), "/api/settings", nil, &out)
	if KindOf(err) != KindMalformed {
		t.Errorf("expected KindMalformed, got %v (%v)", KindOf(err), err)
	}
}

func TestKindOf_NonAPIError(t *testing.T) {
	if k := KindOf(errors.New("plain")); k != "" {
		t.Errorf("expected empty kind, got %q", k)
	}
	if k := KindOf(nil); k != "" {
		t.Errorf("expected empty kind for nil, got %q", k)
	}
}
