package client

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func TestUnauthorizedUsesBodyDetail(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Invalid or expired token"}`))
	})
	_, err := c.Me(context.Background())
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if e.Kind != KindUnauthorized || e.Status != 401 {
		t.Fatalf("unexpected error: %+v", e)
	}
	if e.Message != "Invalid or expired token" {
		t.Fatalf("message must come from the body, got %q", e.Message)
	}
	if e.Retryable() {
		t.Fatalf("401 must not be retryable")
	}
}

func TestErrorMessageFallbackWithoutBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := c.Me(context.Background())
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if e.Kind != KindServer || e.Message != "HTTP 502 Bad Gateway" {
		t.Fatalf("unexpected error: %+v", e)
	}
	if !e.Retryable() {
		t.Fatalf("5xx should be retryable")
	}
}

func TestErrorKindByStatus(t *testing.T) {
	cases := []struct {
		status int
		kind   Kind
	}{
		{http.StatusUnauthorized, KindUnauthorized},
		{http.StatusForbidden, KindForbidden},
		{http.StatusNotFound, KindNotFound},
		{http.StatusBadRequest, KindValidation},
		{http.StatusUnprocessableEntity, KindValidation},
		{http.StatusInternalServerError, KindServer},
		{http.StatusServiceUnavailable, KindServer},
	}
	for _, tc := range cases {
		if got := kindForStatus(tc.status); got != tc.kind {
			t.Errorf("status %d: got %s, want %s", tc.status, got, tc.kind)
		}
	}
}

func TestValidationDetailListFlattened(t *testing.T) {
	body := []byte(`{"detail":[{"loc":["body","price"],"msg":"must be positive"},{"loc":["body","url"],"msg":"invalid url"}]}`)
	got := errorMessage(body)
	want := "price: must be positive; url: invalid url"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestErrorMessageAlternateKeys(t *testing.T) {
	if got := errorMessage([]byte(`{"message":"nope"}`)); got != "nope" {
		t.Fatalf("message key: got %q", got)
	}
	if got := errorMessage([]byte(`{"error":"broken"}`)); got != "broken" {
		t.Fatalf("error key: got %q", got)
	}
	if got := errorMessage([]byte(`not json`)); got != "" {
		t.Fatalf("non-JSON body: got %q", got)
	}
}

func TestErrKindOnForeignError(t *testing.T) {
	if got := ErrKind(errors.New("plain")); got != "" {
		t.Fatalf("expected empty kind, got %q", got)
	}
}
