package config

import "time"

// Session represents the full config for one GraphQL session
type Session struct {
	Name     string            `yaml:"name,omitempty"`     // Optional identifier for logging/debugging
	Endpoint string            `yaml:"endpoint"`           // Required GraphQL endpoint URL
	Headers  map[string]string `yaml:"headers,omitempty"`  // Default HTTP headers for every request
	Timeout  time.Duration     `yaml:"timeout,omitempty"`  // HTTP client timeout (default 30s)
	Auth     *Auth             `yaml:"auth,omitempty"`     // Optional authentication
	Retry    *Retry            `yaml:"retry,omitempty"`    // Optional retry transport config
}

// Auth defines auth methods.
type Auth struct {
	Type   AuthType    `yaml:"type"`              // Required authentication type
	Basic  *BasicAuth  `yaml:"basic,omitempty"`   // Basic authentication
	Bearer *BearerAuth `yaml:"bearer,omitempty"`  // Bearer token authentication
	Token  *TokenAuth  `yaml:"token,omitempty"`   // Token scheme authentication
	APIKey *APIKeyAuth `yaml:"api_key,omitempty"` // API key authentication
}

// AuthType defines current supported authentication types
type AuthType string

const (
	AuthTypeBasic  AuthType = "basic"
	AuthTypeBearer AuthType = "bearer"
	AuthTypeToken  AuthType = "token"
	AuthTypeAPIKey AuthType = "api_key"
)

// BasicAuth contains credentials for HTTP basic authentication
type BasicAuth struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// BearerAuth contains the token for "Bearer" scheme authentication
type BearerAuth struct {
	Token string `yaml:"token"`
}

// TokenAuth contains the token for "Token" scheme authentication
type TokenAuth struct {
	Token string `yaml:"token"`
}

// APIKeyAuth contains API key details
type APIKeyAuth struct {
	Header     string `yaml:"header,omitempty"`      // Header name
	QueryParam string `yaml:"query_param,omitempty"` // Query parameter name
	Value      string `yaml:"value"`                 // API key value
}

// Retry configures the opt-in retry transport
type Retry struct {
	MaxAttempts       int           `yaml:"max_attempts"`
	InitialBackoff    time.Duration `yaml:"initial_backoff,omitempty"`
	MaxBackoff        time.Duration `yaml:"max_backoff,omitempty"`
	RetryableStatuses []int         `yaml:"retryable_statuses,omitempty"`
}
