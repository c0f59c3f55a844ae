package auth

import (
	"fmt"
	"net/http"
)

// Handler defines the interface for auth handlers. ApplyAuth is invoked on
// every outgoing request immediately before it is sent, and may mutate the
// request (typically by adding headers). Returning an error aborts the
// request before any network I/O.
type Handler interface {
	ApplyAuth(req *http.Request) error
}

// Func adapts a plain function to the Handler interface
type Func func(req *http.Request) error

// ApplyAuth calls f(req)
func (f Func) ApplyAuth(req *http.Request) error {
	return f(req)
}

// APIKeyAuth implements the Handler interface for API key authentication
type APIKeyAuth struct {
	HeaderName string // Header name for header-based auth (e.g., "X-API-Key")
	QueryParam string // Query parameter name for query-based auth (e.g., "api_key")
	Value      string // The actual API key value
}

// NewAPIKeyAuth creates a new API key authentication handler.
// Either headerName or queryParam (or both) should be provided.
func NewAPIKeyAuth(headerName, queryParam, value string) *APIKeyAuth {
	return &APIKeyAuth{
		HeaderName: headerName,
		QueryParam: queryParam,
		Value:      value,
	}
}

// ApplyAuth adds the API key to the request, either as a header or query parameter
func (a *APIKeyAuth) ApplyAuth(req *http.Request) error {
	// check that we have a value to use
	if a.Value == "" {
		return fmt.Errorf("API key value is required")
	}

	// If header name is set, add as a request header
	if a.HeaderName != "" {
		req.Header.Set(a.HeaderName, a.Value)
	}

	// If query parameter is set, add to the URL query string
	if a.QueryParam != "" {
		query := req.URL.Query()
		query.Set(a.QueryParam, a.Value)
		req.URL.RawQuery = query.Encode()
	}

	// If neither header nor query param was given just return an error
	if a.HeaderName == "" && a.QueryParam == "" {
		return fmt.Errorf("API key auth requires either header name or query parameter name")
	}

	return nil
}

// String returns a string representation of this auth method
func (a *APIKeyAuth) String() string {
	if a.HeaderName != "" {
		return fmt.Sprintf("APIKeyAuth(header: %s)", a.HeaderName)
	}
	return fmt.Sprintf("APIKeyAuth(query: %s)", a.QueryParam)
}
