package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pricetrack/model"
	"pricetrack/session"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL+"/api/v1", opts...)
	if err != nil {
		t.Fatal(err)
	}
	return c, srv
}

func TestDefaultBaseURL(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatal(err)
	}
	if got := c.apiURL("/products/", nil).String(); got != "http://localhost:8000/api/v1/products/" {
		t.Fatalf("unexpected url: %s", got)
	}
}

func TestRejectsBadBaseURL(t *testing.T) {
	if _, err := New("not-a-url"); err == nil {
		t.Fatalf("expected error for base url without scheme")
	}
}

func TestAuthorizationHeaderLifecycle(t *testing.T) {
	var gotAuth string
	store := session.NewMemStore()
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}, WithSession(store))

	ctx := context.Background()
	if _, err := c.Me(ctx); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no Authorization header before login, got %q", gotAuth)
	}

	if err := store.SetCredential("tok123"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Me(ctx); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer tok123" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}

	if err := store.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Me(ctx); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no Authorization header after clear, got %q", gotAuth)
	}
}

func TestLoginStoresIssuedToken(t *testing.T) {
	store := session.NewMemStore()
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/users/login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var creds model.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Username != "alice" || creds.Password != "x" {
			t.Errorf("unexpected credentials: %+v", creds)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok123","token_type":"bearer","expires_in":1800,"user":{"id":1,"username":"alice"}}`))
	}, WithSession(store))

	got, _ := store.Credential(context.Background())
	if got != "" {
		t.Fatalf("expected absent credential before login, got %q", got)
	}
	tr, err := c.Login(context.Background(), model.Credentials{Username: "alice", Password: "x"})
	if err != nil {
		t.Fatal(err)
	}
	if tr.AccessToken != "tok123" || tr.TokenType != "bearer" || tr.ExpiresIn != 1800 || tr.User.Username != "alice" {
		t.Fatalf("unexpected token response: %+v", tr)
	}
	got, _ = store.Credential(context.Background())
	if got != "tok123" {
		t.Fatalf("expected stored token tok123, got %q", got)
	}
}

func TestRegisterStoresIssuedToken(t *testing.T) {
	store := session.NewMemStore()
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"access_token":"newtok","token_type":"bearer","expires_in":1800,"user":{"id":2,"username":"bob"}}`))
	}, WithSession(store))

	if _, err := c.Register(context.Background(), model.UserCreate{Username: "bob", Email: "b@example.com", Password: "Secret123"}); err != nil {
		t.Fatal(err)
	}
	got, _ := store.Credential(context.Background())
	if got != "newtok" {
		t.Fatalf("expected stored token newtok, got %q", got)
	}
}

func TestLoginDelegatedModeDoesNotPersist(t *testing.T) {
	provider := session.ProviderFunc(func(ctx context.Context) (string, error) {
		return "provider-token", nil
	})
	store := session.NewDelegated(provider)
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"backend-token","token_type":"bearer","expires_in":60,"user":{"id":1}}`))
	}, WithSession(store))

	if _, err := c.Login(context.Background(), model.Credentials{Username: "a", Password: "b"}); err != nil {
		t.Fatal(err)
	}
	// the provider owns the credential; the backend token is not adopted
	got, _ := store.Credential(context.Background())
	if got != "provider-token" {
		t.Fatalf("expected provider token, got %q", got)
	}
}

func TestEmptySuccessBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	if err := c.DeleteProduct(context.Background(), 7); err != nil {
		t.Fatalf("204 must resolve to an empty result, got %v", err)
	}
}

func TestNonJSONSuccessBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("accepted"))
	})
	// typed decode is skipped without a JSON content type
	if _, err := c.Me(context.Background()); err != nil {
		t.Fatalf("2xx without JSON content-type must not raise, got %v", err)
	}
}

func TestMalformedSuccessBodyIsServerError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":`))
	})
	_, err := c.Me(context.Background())
	if ErrKind(err) != KindServer {
		t.Fatalf("expected server error kind, got %v", err)
	}
}

func TestCanceledRequestIsDistinguishable(t *testing.T) {
	started := make(chan struct{})
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		close(started)
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	})
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := c.Me(ctx)
		errc <- err
	}()
	<-started
	cancel()
	err := <-errc
	if ErrKind(err) != KindCanceled {
		t.Fatalf("expected canceled kind, got %v", err)
	}
	if ErrKind(err) == KindNetwork {
		t.Fatalf("cancellation must not be reported as a network error")
	}
}

func TestNetworkErrorKind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()
	c, err := New(url + "/api/v1")
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.Me(context.Background())
	if ErrKind(err) != KindNetwork {
		t.Fatalf("expected network kind, got %v", err)
	}
	var e *Error
	if !errors.As(err, &e) || !e.Retryable() {
		t.Fatalf("network errors must be retryable: %v", err)
	}
}

func TestHealthServedAtOriginRoot(t *testing.T) {
	var gotPath string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if err := c.Health(context.Background()); err != nil {
		t.Fatal(err)
	}
	if gotPath != "/health" {
		t.Fatalf("health must bypass the API prefix, got %s", gotPath)
	}
}

func TestDefaultHeaderOverride(t *testing.T) {
	var gotAccept string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		w.WriteHeader(http.StatusNoContent)
	}, WithHeader("Accept", "application/vnd.pricetrack+json"))
	if err := c.Health(context.Background()); err != nil {
		t.Fatal(err)
	}
	if gotAccept != "application/vnd.pricetrack+json" {
		t.Fatalf("caller-supplied header must override default, got %q", gotAccept)
	}
}
