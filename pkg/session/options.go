package session

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PiotrLaszczyk/graphql-requests/pkg/auth"
	"github.com/PiotrLaszczyk/graphql-requests/pkg/errors"
	"github.com/PiotrLaszczyk/graphql-requests/pkg/transport"
)

// WithHTTPClient swaps the underlying *http.Client
func WithHTTPClient(client *http.Client) Option {
	return func(s *GraphQLSession) {
		s.doer = client
	}
}

// WithHTTPDoer swaps the underlying HTTPDoer (e.g. a mock or a custom
// retry transport wrapper).
func WithHTTPDoer(doer transport.HTTPDoer) Option {
	return func(s *GraphQLSession) {
		s.doer = doer
	}
}

// WithTimeout sets a timeout on the HTTP client (if it's an *http.Client)
func WithTimeout(timeout time.Duration) Option {
	return func(s *GraphQLSession) {
		if httpClient, ok := s.doer.(*http.Client); ok {
			httpClient.Timeout = timeout
		}
	}
}

// WithHeader adds a default header to every request
func WithHeader(key, value string) Option {
	return func(s *GraphQLSession) {
		if s.headers == nil {
			s.headers = make(map[string]string)
		}
		s.headers[key] = value
	}
}

// WithHeaders adds multiple default headers to every request
func WithHeaders(headers map[string]string) Option {
	return func(s *GraphQLSession) {
		if s.headers == nil {
			s.headers = make(map[string]string)
		}
		for k, v := range headers {
			s.headers[k] = v
		}
	}
}

// WithAuth sets the auth handler applied to every outgoing request
func WithAuth(handler auth.Handler) Option {
	return func(s *GraphQLSession) {
		s.authHandler = handler
	}
}

// requestSpec collects the per-request parameters for a verb call
type requestSpec struct {
	headers     map[string]string
	query       url.Values
	body        []byte
	contentType string
}

// RequestOption configures a single request issued by a verb method
type RequestOption func(*requestSpec) error

// WithRequestHeader sets a header on this request only
func WithRequestHeader(key, value string) RequestOption {
	return func(spec *requestSpec) error {
		if spec.headers == nil {
			spec.headers = make(map[string]string)
		}
		spec.headers[key] = value
		return nil
	}
}

// WithQueryParam adds a URL query parameter to this request
func WithQueryParam(key, value string) RequestOption {
	return func(spec *requestSpec) error {
		if spec.query == nil {
			spec.query = make(url.Values)
		}
		spec.query.Add(key, value)
		return nil
	}
}

// WithBody sets a raw request body and its content type
func WithBody(body []byte, contentType string) RequestOption {
	return func(spec *requestSpec) error {
		spec.body = body
		spec.contentType = contentType
		return nil
	}
}

// WithJSONBody marshals v and sends it as an application/json body
func WithJSONBody(v interface{}) RequestOption {
	return func(spec *requestSpec) error {
		data, err := json.Marshal(v)
		if err != nil {
			return errors.WrapError(
				fmt.Errorf("marshal request body: %w", err),
				errors.ErrSerialization,
				"encode JSON body",
			)
		}
		spec.body = data
		spec.contentType = "application/json"
		return nil
	}
}
