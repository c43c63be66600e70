// ABOUTME: Configuration loading and parsing for the BondHub services
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bondhub/platform/internal/routes"
	"github.com/bondhub/platform/internal/token"
)

// GatewayConfig is the complete edge gateway configuration.
type GatewayConfig struct {
	Server    ServerConfig    `yaml:"server"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Auth      AuthConfig      `yaml:"auth"`
	Routes    []RouteConfig   `yaml:"routes"`
	Endpoints EndpointsConfig `yaml:"endpoints"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServiceConfig is the configuration shared by the internal services.
type ServiceConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Tokens   TokensConfig   `yaml:"tokens"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds listen address configuration.
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr"`
	GRPCAddr string `yaml:"grpc_addr"`
}

// TailscaleConfig holds the optional tsnet ingress configuration. When
// enabled, the gateway listens on a tailnet instead of plain TCP, which
// makes the "gateway is the only reachable ingress" assumption a network
// property instead of a deployment promise.
type TailscaleConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Hostname  string `yaml:"hostname"`
	AuthKey   string `yaml:"auth_key"`
	StateDir  string `yaml:"state_dir"`
	Ephemeral bool   `yaml:"ephemeral"`
}

// AuthConfig holds the shared signing secret. The secret is never logged
// and never appears in any response.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// TokensConfig holds token lifetimes for the auth service.
type TokensConfig struct {
	AccessTTL  time.Duration `yaml:"-"`
	RefreshTTL time.Duration `yaml:"-"`

	// Raw string values for YAML unmarshaling
	AccessTTLRaw  string `yaml:"access_ttl"`
	RefreshTTLRaw string `yaml:"refresh_ttl"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// RouteConfig maps a gateway path prefix onto an upstream service. The
// prefix is replaced by rewrite before forwarding, e.g. /api/auth -> /auth.
type RouteConfig struct {
	Prefix   string `yaml:"prefix"`
	Upstream string `yaml:"upstream"`
	Rewrite  string `yaml:"rewrite"`
}

// EndpointsConfig optionally overrides the built-in endpoint registry.
type EndpointsConfig struct {
	Public   []routes.Endpoint `yaml:"public"`
	Internal []string          `yaml:"internal"`
}

// Registry builds the path registry from this config, falling back to the
// stock registry when nothing is configured.
func (e EndpointsConfig) Registry() *routes.Registry {
	if len(e.Public) == 0 && len(e.Internal) == 0 {
		return routes.DefaultRegistry()
	}
	return routes.NewRegistry(e.Public, e.Internal)
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// LoadGateway reads and validates a gateway configuration file.
// Environment variables in the format ${VAR_NAME} are expanded.
func LoadGateway(path string) (*GatewayConfig, error) {
	var cfg GatewayConfig
	if err := loadYAML(path, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

// LoadService reads and validates an internal service configuration file.
func LoadService(path string) (*ServiceConfig, error) {
	var cfg ServiceConfig
	if err := loadYAML(path, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.parseDurations(); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

func loadYAML(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal([]byte(expandEnvVars(string(data))), v); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding
// environment variable values. Unset variables become empty strings.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required gateway fields are present and valid.
func (c *GatewayConfig) Validate() error {
	if !c.Tailscale.Enabled && c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required (or enable tailscale)")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	if len(c.Auth.JWTSecret) < token.MinSecretLength {
		return fmt.Errorf("auth.jwt_secret must be at least %d bytes", token.MinSecretLength)
	}
	if len(c.Routes) == 0 {
		return fmt.Errorf("at least one route is required")
	}
	for i, r := range c.Routes {
		if r.Prefix == "" || r.Upstream == "" {
			return fmt.Errorf("routes[%d]: prefix and upstream are required", i)
		}
	}
	return nil
}

// Validate checks that all required service fields are present and valid.
func (c *ServiceConfig) Validate() error {
	if c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if len(c.Auth.JWTSecret) < token.MinSecretLength {
		return fmt.Errorf("auth.jwt_secret must be at least %d bytes", token.MinSecretLength)
	}
	return nil
}

// parseDurations converts the raw duration strings into time.Duration
// values, applying the stock lifetimes when unset.
func (c *ServiceConfig) parseDurations() error {
	var err error

	c.Tokens.AccessTTL = time.Hour
	if c.Tokens.AccessTTLRaw != "" {
		c.Tokens.AccessTTL, err = time.ParseDuration(c.Tokens.AccessTTLRaw)
		if err != nil {
			return fmt.Errorf("parsing access_ttl %q: %w", c.Tokens.AccessTTLRaw, err)
		}
	}

	c.Tokens.RefreshTTL = 7 * 24 * time.Hour
	if c.Tokens.RefreshTTLRaw != "" {
		c.Tokens.RefreshTTL, err = time.ParseDuration(c.Tokens.RefreshTTLRaw)
		if err != nil {
			return fmt.Errorf("parsing refresh_ttl %q: %w", c.Tokens.RefreshTTLRaw, err)
		}
	}

	return nil
}
