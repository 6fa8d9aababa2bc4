package github

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for the failure classes callers handle differently.
var (
	ErrNotFound           = errors.New("github: not found")
	ErrUnauthorized       = errors.New("github: authentication failed")
	ErrRateLimited        = errors.New("github: API rate limit exceeded")
	ErrSecondaryRateLimit = errors.New("github: secondary rate limit exceeded")
)

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Message string
	kind    error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("github: unexpected status %d", e.Status)
	}
	return fmt.Sprintf("github: unexpected status %d: %s", e.Status, e.Message)
}

// Unwrap exposes the sentinel matching the failure class, if any.
func (e *APIError) Unwrap() error { return e.kind }

func newAPIError(resp *http.Response, body []byte) *APIError {
	var payload struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &payload)

	e := &APIError{Status: resp.StatusCode, Message: payload.Message}
	msg := strings.ToLower(payload.Message)

	switch resp.StatusCode {
	case http.StatusNotFound:
		e.kind = ErrNotFound
	case http.StatusUnauthorized:
		e.kind = ErrUnauthorized
	case http.StatusForbidden, http.StatusTooManyRequests:
		switch {
		case strings.Contains(msg, "secondary rate limit"):
			e.kind = ErrSecondaryRateLimit
		case strings.Contains(msg, "rate limit") || resp.Header.Get("X-RateLimit-Remaining") == "0":
			e.kind = ErrRateLimited
		}
	}
	return e
}

// IsNotFound reports whether err means the resource does not exist.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsRateLimited reports whether err is a primary or secondary rate limit.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrSecondaryRateLimit)
}
