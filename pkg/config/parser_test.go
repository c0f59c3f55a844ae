package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSessionLoader_ValidMinimalConfig(t *testing.T) {
	// minimal valid config
	yamlContent := `
name: test-session
endpoint: https://api.example.com/graphql
`

	loader := NewDefaultLoader()

	session, err := loader.Parse([]byte(yamlContent))
	if err != nil {
		t.Fatalf("Failed to parse valid config: %v", err)
	}

	if session.Name != "test-session" {
		t.Errorf("Expected name 'test-session', got '%s'", session.Name)
	}
	if session.Endpoint != "https://api.example.com/graphql" {
		t.Errorf("Expected endpoint, got '%s'", session.Endpoint)
	}
	// default timeout
	if session.Timeout != 30*time.Second {
		t.Errorf("Expected default 30s timeout, got %v", session.Timeout)
	}
}

func TestSessionLoader_FullConfig(t *testing.T) {
	yamlContent := `
name: full-session
endpoint: https://api.example.com/graphql
timeout: 10s
headers:
  X-Client: graphql-requests
auth:
  type: bearer
  bearer:
    token: sometoken
retry:
  max_attempts: 3
`

	loader := NewDefaultLoader()

	session, err := loader.Parse([]byte(yamlContent))
	if err != nil {
		t.Fatalf("Failed to parse config: %v", err)
	}

	if session.Timeout != 10*time.Second {
		t.Errorf("Expected 10s timeout, got %v", session.Timeout)
	}
	if session.Headers["X-Client"] != "graphql-requests" {
		t.Errorf("Expected header, got %v", session.Headers)
	}
	if session.Auth == nil || session.Auth.Type != AuthTypeBearer || session.Auth.Bearer.Token != "sometoken" {
		t.Errorf("Unexpected auth config: %+v", session.Auth)
	}

	// retry defaults filled in
	if session.Retry.MaxAttempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", session.Retry.MaxAttempts)
	}
	if session.Retry.InitialBackoff != 500*time.Millisecond {
		t.Errorf("Expected default initial backoff, got %v", session.Retry.InitialBackoff)
	}
	if session.Retry.MaxBackoff != 10*time.Second {
		t.Errorf("Expected default max backoff, got %v", session.Retry.MaxBackoff)
	}
	if len(session.Retry.RetryableStatuses) == 0 {
		t.Error("Expected default retryable statuses")
	}
}

func TestSessionLoader_MissingEndpoint(t *testing.T) {
	loader := NewDefaultLoader()

	_, err := loader.Parse([]byte(`name: broken`))
	if err == nil {
		t.Fatal("Expected validation error for missing endpoint, got nil")
	}
	if !strings.Contains(err.Error(), "endpoint") {
		t.Errorf("Expected endpoint error, got: %v", err)
	}
}

func TestSessionLoader_EnvExpansion(t *testing.T) {
	t.Setenv("GQL_TOKEN", "expanded-token")

	yamlContent := `
endpoint: https://api.example.com/graphql
auth:
  type: bearer
  bearer:
    token: ${GQL_TOKEN}
`

	loader := NewDefaultLoader()

	session, err := loader.Parse([]byte(yamlContent))
	if err != nil {
		t.Fatalf("Failed to parse config: %v", err)
	}

	if session.Auth.Bearer.Token != "expanded-token" {
		t.Errorf("Expected env-expanded token, got '%s'", session.Auth.Bearer.Token)
	}
}

func TestSessionLoader_AuthValidation(t *testing.T) {
	cases := []struct {
		name     string
		yaml     string
		expected string
	}{
		{
			name: "UnknownType",
			yaml: `
endpoint: https://x/
auth:
  type: kerberos
`,
			expected: "unknown auth type",
		},
		{
			name: "BasicWithoutSection",
			yaml: `
endpoint: https://x/
auth:
  type: basic
`,
			expected: "auth.basic",
		},
		{
			name: "BearerWithoutToken",
			yaml: `
endpoint: https://x/
auth:
  type: bearer
  bearer:
    token: ""
`,
			expected: "auth.bearer.token",
		},
		{
			name: "APIKeyWithoutTarget",
			yaml: `
endpoint: https://x/
auth:
  type: api_key
  api_key:
    value: v
`,
			expected: "requires either header or query_param",
		},
	}

	loader := NewDefaultLoader()

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := loader.Parse([]byte(tc.yaml))
			if err == nil {
				t.Fatalf("Expected validation error containing '%s', got nil", tc.expected)
			}
			if !strings.Contains(err.Error(), tc.expected) {
				t.Errorf("Expected error containing '%s', got: %v", tc.expected, err)
			}
		})
	}
}

func TestSessionLoader_RetryValidation(t *testing.T) {
	loader := NewDefaultLoader()

	_, err := loader.Parse([]byte(`
endpoint: https://x/
retry:
  max_attempts: 0
`))
	if err == nil {
		t.Fatal("Expected validation error for zero attempts, got nil")
	}
	if !strings.Contains(err.Error(), "max_attempts") {
		t.Errorf("Expected max_attempts error, got: %v", err)
	}
}

func TestSessionLoader_LoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.yaml")
	content := []byte("endpoint: https://api.example.com/graphql\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	loader := NewDefaultLoader()

	session, err := loader.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if session.Endpoint != "https://api.example.com/graphql" {
		t.Errorf("Unexpected endpoint: %s", session.Endpoint)
	}
}

func TestSessionLoader_LoadWithEnv(t *testing.T) {
	dir := t.TempDir()

	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("SESSION_TOKEN=from-dotenv\n"), 0o600); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}

	cfgPath := filepath.Join(dir, "session.yaml")
	cfgContent := []byte(`
endpoint: https://api.example.com/graphql
auth:
  type: token
  token:
    token: ${SESSION_TOKEN}
`)
	if err := os.WriteFile(cfgPath, cfgContent, 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	loader := NewDefaultLoader()

	session, err := loader.LoadWithEnv(cfgPath, envPath)
	if err != nil {
		t.Fatalf("LoadWithEnv failed: %v", err)
	}
	if session.Auth.Token.Token != "from-dotenv" {
		t.Errorf("Expected token from .env file, got '%s'", session.Auth.Token.Token)
	}
}
