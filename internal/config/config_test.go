// ABOUTME: Tests for YAML configuration loading
// ABOUTME: Covers env expansion, duration parsing, and validation failures

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

const validGatewayYAML = `
server:
  http_addr: ":8080"
auth:
  jwt_secret: "gateway-config-test-secret-32-b!"
routes:
  - prefix: /api/auth
    upstream: http://localhost:8081
    rewrite: /auth
  - prefix: /api/users
    upstream: http://localhost:8082
    rewrite: /users
logging:
  level: debug
  format: json
`

func TestLoadGateway_Valid(t *testing.T) {
	cfg, err := LoadGateway(writeConfig(t, validGatewayYAML))
	if err != nil {
		t.Fatalf("LoadGateway() error = %v", err)
	}

	if cfg.Server.HTTPAddr != ":8080" {
		t.Errorf("http_addr = %q", cfg.Server.HTTPAddr)
	}
	if len(cfg.Routes) != 2 {
		t.Fatalf("routes = %d, want 2", len(cfg.Routes))
	}
	if cfg.Routes[0].Rewrite != "/auth" {
		t.Errorf("rewrite = %q", cfg.Routes[0].Rewrite)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q", cfg.Logging.Level)
	}

	// No endpoint overrides: stock registry applies.
	reg := cfg.Endpoints.Registry()
	if !reg.IsGatewayPublic("/api/auth/login") {
		t.Error("default registry should mark /api/auth/login public")
	}
}

func TestLoadGateway_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_JWT_SECRET", "env-expanded-secret-32-bytes-long!!")

	yaml := strings.Replace(validGatewayYAML,
		`jwt_secret: "gateway-config-test-secret-32-b!"`,
		`jwt_secret: "${TEST_JWT_SECRET}"`, 1)

	cfg, err := LoadGateway(writeConfig(t, yaml))
	if err != nil {
		t.Fatalf("LoadGateway() error = %v", err)
	}
	if cfg.Auth.JWTSecret != "env-expanded-secret-32-bytes-long!!" {
		t.Errorf("jwt_secret = %q, want env value", cfg.Auth.JWTSecret)
	}
}

func TestLoadGateway_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "missing routes",
			yaml: "server:\n  http_addr: \":8080\"\nauth:\n  jwt_secret: \"gateway-config-test-secret-32-b!\"\n",
		},
		{
			name: "short secret",
			yaml: strings.Replace(validGatewayYAML, "gateway-config-test-secret-32-b!", "short", 1),
		},
		{
			name: "tailscale without hostname",
			yaml: validGatewayYAML + "tailscale:\n  enabled: true\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadGateway(writeConfig(t, tt.yaml)); err == nil {
				t.Error("LoadGateway() should have failed")
			}
		})
	}
}

func TestLoadService_Durations(t *testing.T) {
	cfg, err := LoadService(writeConfig(t, `
server:
  http_addr: ":8081"
database:
  path: /tmp/accounts.db
auth:
  jwt_secret: "service-config-test-secret-32-b!"
tokens:
  access_ttl: 15m
  refresh_ttl: 168h
`))
	if err != nil {
		t.Fatalf("LoadService() error = %v", err)
	}
	if cfg.Tokens.AccessTTL != 15*time.Minute {
		t.Errorf("access_ttl = %v", cfg.Tokens.AccessTTL)
	}
	if cfg.Tokens.RefreshTTL != 168*time.Hour {
		t.Errorf("refresh_ttl = %v", cfg.Tokens.RefreshTTL)
	}
}

func TestLoadService_DefaultDurations(t *testing.T) {
	cfg, err := LoadService(writeConfig(t, `
server:
  http_addr: ":8081"
database:
  path: /tmp/accounts.db
auth:
  jwt_secret: "service-config-test-secret-32-b!"
`))
	if err != nil {
		t.Fatalf("LoadService() error = %v", err)
	}
	if cfg.Tokens.AccessTTL != time.Hour {
		t.Errorf("access_ttl default = %v, want 1h", cfg.Tokens.AccessTTL)
	}
	if cfg.Tokens.RefreshTTL != 7*24*time.Hour {
		t.Errorf("refresh_ttl default = %v, want 168h", cfg.Tokens.RefreshTTL)
	}
}

func TestLoadService_BadDuration(t *testing.T) {
	_, err := LoadService(writeConfig(t, `
server:
  http_addr: ":8081"
auth:
  jwt_secret: "service-config-test-secret-32-b!"
tokens:
  access_ttl: soon
`))
	if err == nil {
		t.Error("LoadService() should reject an unparsable duration")
	}
}
