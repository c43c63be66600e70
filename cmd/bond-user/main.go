// ABOUTME: Entry point for the bond-user demo service
// ABOUTME: Trusts gateway-injected identity headers, enforces per-route rules

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/bondhub/platform/internal/config"
	"github.com/bondhub/platform/internal/identity"
	"github.com/bondhub/platform/internal/logging"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
 _                     _
| |__   ___  _ __   __| |      _   _ ___  ___ _ __
| '_ \ / _ \| '_ \ / _' |_____| | | / __|/ _ \ '__|
| |_) | (_) | | | | (_| |_____| |_| \__ \  __/ |
|_.__/ \___/|_| |_|\__,_|      \__,_|___/\___|_|
`

// getConfigPath returns the path to the user service config file.
// Priority: BOND_USER_CONFIG env var > XDG_CONFIG_HOME/bondhub/user.toml > ~/.config/bondhub/user.toml
func getConfigPath() string {
	if envPath := os.Getenv("BOND_USER_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "user.toml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "bondhub", "user.toml")
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	configPath := getConfigPath()
	cfg, err := Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config from %s: %w", configPath, err)
	}

	logger := logging.Setup(config.LoggingConfig{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	green := color.New(color.FgGreen)
	green.Print("    ▶ ")
	fmt.Printf("Config: %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("HTTP:   %s\n", cfg.Server.HTTPAddr)
	fmt.Println()

	h := &handlers{logger: logger.With("component", "user-service")}
	mux := http.NewServeMux()
	h.register(mux)

	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           identity.Middleware(logger)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("starting bond-user", "config", configPath, "http_addr", cfg.Server.HTTPAddr)

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
