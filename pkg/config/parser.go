package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ConfigLoader defines the interface for loading configs
type ConfigLoader interface {
	Load(path string) (*Session, error)
	Parse(data []byte) (*Session, error)
}

type ValidationError struct {
	Field   string
	Message string
}

// Returns the string representation of validation error
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type Validator interface {
	Validate(cfg *Session) []ValidationError
}

// DefaultValueSetter handles the interface for setting default values
type DefaultValueSetter interface {
	SetDefaults(cfg *Session)
}

// VariableExpander defines the interface for expanding variables
type VariableExpander interface {
	Expand(data []byte) []byte
}

// EnvExpander implements VariableExpander using environment variables
type EnvExpander struct{}

// Expand expands environment variables with the given data
func (e *EnvExpander) Expand(data []byte) []byte {
	expanded := os.Expand(string(data), os.Getenv)
	return []byte(expanded)
}

// SessionLoader uses ConfigLoader for session configurations
type SessionLoader struct {
	expander      VariableExpander
	validators    []Validator
	defaultSetter DefaultValueSetter
}

// NewSessionLoader creates a new SessionLoader with the given components
func NewSessionLoader(
	expander VariableExpander,
	defaultSetter DefaultValueSetter,
	validators ...Validator,
) *SessionLoader {
	return &SessionLoader{
		expander:      expander,
		validators:    validators,
		defaultSetter: defaultSetter,
	}
}

// NewDefaultLoader creates a SessionLoader with the standard expander,
// defaults and validators.
func NewDefaultLoader() *SessionLoader {
	return NewSessionLoader(
		&EnvExpander{},
		&SessionDefaults{},
		&RequiredFieldValidator{},
		&AuthValidator{},
		&RetryValidator{},
	)
}

// Load a new session config from a YAML file
func (l *SessionLoader) Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return l.Parse(data)
}

// LoadWithEnv loads a .env file (if present) before reading the YAML file,
// so ${VAR} references in the config can resolve against it.
func (l *SessionLoader) LoadWithEnv(path, envPath string) (*Session, error) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	} else {
		// Default .env is optional; ignore a missing file
		_ = godotenv.Load()
	}

	return l.Load(path)
}

// Parse parses a yaml config
func (l *SessionLoader) Parse(data []byte) (*Session, error) {
	// Expand variables if an expander is configured
	if l.expander != nil {
		data = l.expander.Expand(data)
	}

	// Unmarshal YAML data into Session struct
	var session Session
	if err := yaml.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Set default values if a default setter is configured
	if l.defaultSetter != nil {
		l.defaultSetter.SetDefaults(&session)
	}

	// Validate the session configuration
	var allErrors []ValidationError
	for _, validator := range l.validators {
		errors := validator.Validate(&session)
		allErrors = append(allErrors, errors...)
	}

	// Return any validation errors if there are any
	if len(allErrors) > 0 {
		return nil, fmt.Errorf("validation errors: %v", allErrors)
	}

	return &session, nil
}

// SessionDefaults implements DefaultValueSetter for Session
type SessionDefaults struct{}

// SetDefaults sets default values for Session
func (d *SessionDefaults) SetDefaults(cfg *Session) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	if cfg.Retry != nil {
		if cfg.Retry.InitialBackoff <= 0 {
			cfg.Retry.InitialBackoff = 500 * time.Millisecond
		}
		if cfg.Retry.MaxBackoff <= 0 {
			cfg.Retry.MaxBackoff = 10 * time.Second
		}
		if len(cfg.Retry.RetryableStatuses) == 0 {
			cfg.Retry.RetryableStatuses = []int{429, 502, 503, 504}
		}
	}
}

// RequiredFieldValidator validates required fields for the session
type RequiredFieldValidator struct{}

// Validate checks that all required fields are present
func (v *RequiredFieldValidator) Validate(cfg *Session) []ValidationError {
	var errors []ValidationError

	if cfg.Endpoint == "" {
		errors = append(errors, ValidationError{Field: "endpoint", Message: "is required"})
	}

	return errors
}

// AuthValidator handles authentication validation
type AuthValidator struct{}

// Validate checks that authentication configuration is valid
func (v *AuthValidator) Validate(cfg *Session) []ValidationError {
	var errors []ValidationError

	// Skip validation if auth is not configured
	if cfg.Auth == nil {
		return errors
	}

	switch cfg.Auth.Type {
	case AuthTypeBasic:
		if cfg.Auth.Basic == nil {
			errors = append(errors, ValidationError{Field: "auth.basic", Message: "is required for basic auth"})
		} else if cfg.Auth.Basic.Username == "" {
			errors = append(errors, ValidationError{Field: "auth.basic.username", Message: "is required"})
		}
	case AuthTypeBearer:
		if cfg.Auth.Bearer == nil {
			errors = append(errors, ValidationError{Field: "auth.bearer", Message: "is required for bearer auth"})
		} else if cfg.Auth.Bearer.Token == "" {
			errors = append(errors, ValidationError{Field: "auth.bearer.token", Message: "is required"})
		}
	case AuthTypeToken:
		if cfg.Auth.Token == nil {
			errors = append(errors, ValidationError{Field: "auth.token", Message: "is required for token auth"})
		} else if cfg.Auth.Token.Token == "" {
			errors = append(errors, ValidationError{Field: "auth.token.token", Message: "is required"})
		}
	case AuthTypeAPIKey:
		if cfg.Auth.APIKey == nil {
			errors = append(errors, ValidationError{Field: "auth.api_key", Message: "is required for api_key auth"})
		} else {
			if cfg.Auth.APIKey.Value == "" {
				errors = append(errors, ValidationError{Field: "auth.api_key.value", Message: "is required"})
			}
			if cfg.Auth.APIKey.Header == "" && cfg.Auth.APIKey.QueryParam == "" {
				errors = append(errors, ValidationError{Field: "auth.api_key", Message: "requires either header or query_param"})
			}
		}
	default:
		errors = append(errors, ValidationError{Field: "auth.type", Message: fmt.Sprintf("unknown auth type: %s", cfg.Auth.Type)})
	}

	return errors
}

// RetryValidator validates retry transport configuration
type RetryValidator struct{}

// Validate checks that retry configuration is valid
func (v *RetryValidator) Validate(cfg *Session) []ValidationError {
	var errors []ValidationError

	if cfg.Retry == nil {
		return errors
	}

	if cfg.Retry.MaxAttempts < 1 {
		errors = append(errors, ValidationError{Field: "retry.max_attempts", Message: "must be at least 1"})
	}

	return errors
}
