// Package model defines shared types for the frontend.
package model

import (
	"io"
	"net/http"
)

// UpstreamResponse is a raw response from the upstream service.
// The body is owned by whoever receives the value and must be closed.
type UpstreamResponse struct {
	StatusCode int
	Header     http.Header
	Body       io.ReadCloser
}

// HomePage is the data bound to the home template: the decoded upstream
// payload stored under a single configured key.
type HomePage map[string]any

// NewHomePage binds payload under key.
func NewHomePage(key string, payload any) HomePage {
	return HomePage{key: payload}
}
