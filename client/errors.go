package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an API failure so callers can pick a recovery strategy
// without re-parsing HTTP bodies.
type Kind string

const (
	// KindUnauthorized means the credential is missing or was rejected (401).
	KindUnauthorized Kind = "unauthorized"
	// KindForbidden means the credential is valid but lacks access (403).
	KindForbidden Kind = "forbidden"
	// KindNotFound means the resource does not exist (404).
	KindNotFound Kind = "not_found"
	// KindValidation means the request was rejected as malformed (400/422).
	KindValidation Kind = "validation"
	// KindServer means the backend failed (5xx) or returned an unusable body.
	KindServer Kind = "server_error"
	// KindNetwork means the request never reached the server.
	KindNetwork Kind = "network_error"
	// KindCanceled means the caller aborted the request.
	KindCanceled Kind = "canceled"
)

// Error is the normalized failure surfaced by every client method. Status is
// zero for failures without an HTTP response (network, cancellation).
type Error struct {
	Kind    Kind
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Retryable reports whether the failure class is safe for caller-driven retry.
// The client itself never retries.
func (e *Error) Retryable() bool {
	return e.Kind == KindServer || e.Kind == KindNetwork
}

// ErrKind returns the Kind of err, or "" if err is not a client Error.
func ErrKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return KindValidation
	default:
		return KindServer
	}
}

// statusError builds the normalized error for a non-2xx response, deriving the
// message from the JSON body when one is present and synthesizing a fallback
// otherwise.
func statusError(status int, body []byte) *Error {
	msg := errorMessage(body)
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d %s", status, http.StatusText(status))
	}
	return &Error{Kind: kindForStatus(status), Status: status, Message: msg}
}

// errorMessage extracts a human-readable message from an error body. The
// backend writes {"detail": ...}; "message" and "error" keys are accepted for
// other upstreams. A structured detail list (field validation errors) is
// flattened into one line.
func errorMessage(body []byte) string {
	var payload struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
		Err     string          `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if len(payload.Detail) > 0 {
		if s := detailString(payload.Detail); s != "" {
			return s
		}
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Err
}

func detailString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var items []struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err != nil || len(items) == 0 {
		return ""
	}
	out := ""
	for i, it := range items {
		if i > 0 {
			out += "; "
		}
		if n := len(it.Loc); n > 0 {
			out += fmt.Sprintf("%v: %s", it.Loc[n-1], it.Msg)
		} else {
			out += it.Msg
		}
	}
	return out
}
