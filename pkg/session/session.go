// Package session provides GraphQLSession, an HTTP session bound to a single
// GraphQL endpoint. It exposes the plain HTTP verbs against that endpoint and
// a Query method that assembles GraphQL requests, including file uploads per
// the multipart request convention.
package session

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/PiotrLaszczyk/graphql-requests/pkg/auth"
	"github.com/PiotrLaszczyk/graphql-requests/pkg/config"
	"github.com/PiotrLaszczyk/graphql-requests/pkg/transport"
)

// GraphQLSession is an HTTP session specialized to one GraphQL endpoint.
// The endpoint is fixed at construction; every request the session issues,
// verb methods and Query alike, targets that endpoint.
//
// A session is as safe for concurrent use as its underlying HTTP client;
// the session itself holds no per-request state.
type GraphQLSession struct {
	endpoint    string
	doer        transport.HTTPDoer
	headers     map[string]string
	authHandler auth.Handler
}

// Option defines config for GraphQLSession
type Option func(*GraphQLSession)

// New creates a session bound to the given endpoint. The default HTTP client
// has a 30 second timeout and an in-memory cookie jar, so server-set cookies
// persist across requests like they would in a browser session.
// No I/O happens until the first request.
func New(endpoint string, options ...Option) *GraphQLSession {
	jar, _ := cookiejar.New(nil)
	s := &GraphQLSession{
		endpoint: endpoint,
		doer: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
		headers: make(map[string]string),
	}

	// apply all options
	for _, option := range options {
		option(s)
	}

	return s
}

// NewFromConfig builds a session from a parsed config: endpoint, default
// headers, timeout, optional retry transport and auth handler. Options run
// after the config so they can override it.
func NewFromConfig(cfg *config.Session, options ...Option) (*GraphQLSession, error) {
	jar, _ := cookiejar.New(nil)
	client := &http.Client{
		Timeout: cfg.Timeout,
		Jar:     jar,
	}
	if client.Timeout <= 0 {
		client.Timeout = 30 * time.Second
	}
	if cfg.Retry != nil {
		client.Transport = transport.NewRetryTransport(nil, cfg.Retry)
	}

	s := &GraphQLSession{
		endpoint: cfg.Endpoint,
		doer:     client,
		headers:  make(map[string]string),
	}
	for k, v := range cfg.Headers {
		s.headers[k] = v
	}

	if cfg.Auth != nil {
		handler, err := auth.NewAuthRegistry().Create(cfg.Auth)
		if err != nil {
			return nil, err
		}
		s.authHandler = handler
	}

	for _, option := range options {
		option(s)
	}

	return s, nil
}

// Endpoint returns the endpoint URL the session was bound to.
func (s *GraphQLSession) Endpoint() string {
	return s.endpoint
}

// SetAuth assigns the auth handler applied to every outgoing request.
// Pass nil to remove authentication.
func (s *GraphQLSession) SetAuth(handler auth.Handler) {
	s.authHandler = handler
}

// Get performs a GET request against the bound endpoint
func (s *GraphQLSession) Get(ctx context.Context, options ...RequestOption) (*http.Response, error) {
	return s.Do(ctx, http.MethodGet, options...)
}

// Post performs a POST request against the bound endpoint
func (s *GraphQLSession) Post(ctx context.Context, options ...RequestOption) (*http.Response, error) {
	return s.Do(ctx, http.MethodPost, options...)
}

// Put performs a PUT request against the bound endpoint
func (s *GraphQLSession) Put(ctx context.Context, options ...RequestOption) (*http.Response, error) {
	return s.Do(ctx, http.MethodPut, options...)
}

// Patch performs a PATCH request against the bound endpoint
func (s *GraphQLSession) Patch(ctx context.Context, options ...RequestOption) (*http.Response, error) {
	return s.Do(ctx, http.MethodPatch, options...)
}

// Delete performs a DELETE request against the bound endpoint
func (s *GraphQLSession) Delete(ctx context.Context, options ...RequestOption) (*http.Response, error) {
	return s.Do(ctx, http.MethodDelete, options...)
}

// Head performs a HEAD request against the bound endpoint
func (s *GraphQLSession) Head(ctx context.Context, options ...RequestOption) (*http.Response, error) {
	return s.Do(ctx, http.MethodHead, options...)
}

// Options performs an OPTIONS request against the bound endpoint
func (s *GraphQLSession) Options(ctx context.Context, options ...RequestOption) (*http.Response, error) {
	return s.Do(ctx, http.MethodOptions, options...)
}

// Do performs an HTTP request with the given method against the bound
// endpoint. The response is returned exactly as the HTTP client produced it;
// the caller owns the body.
func (s *GraphQLSession) Do(ctx context.Context, method string, options ...RequestOption) (*http.Response, error) {
	spec := &requestSpec{}
	for _, option := range options {
		if err := option(spec); err != nil {
			return nil, err
		}
	}

	var bodyReader io.Reader
	if spec.body != nil {
		bodyReader = bytes.NewReader(spec.body)
	}

	return s.send(ctx, method, bodyReader, spec)
}

// send builds the request from a spec and hands it to the HTTP client.
func (s *GraphQLSession) send(ctx context.Context, method string, body io.Reader, spec *requestSpec) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, s.endpoint, body)
	if err != nil {
		return nil, err
	}

	// Session-level headers first so per-request headers can override them
	for key, value := range s.headers {
		req.Header.Set(key, value)
	}
	for key, value := range spec.headers {
		req.Header.Set(key, value)
	}
	if spec.contentType != "" {
		req.Header.Set("Content-Type", spec.contentType)
	}

	if len(spec.query) > 0 {
		q := req.URL.Query()
		for key, values := range spec.query {
			for _, value := range values {
				q.Add(key, value)
			}
		}
		req.URL.RawQuery = q.Encode()
	}

	// Sign last so the handler sees the final request
	if s.authHandler != nil {
		if err := s.authHandler.ApplyAuth(req); err != nil {
			return nil, err
		}
	}

	return s.doer.Do(req)
}
