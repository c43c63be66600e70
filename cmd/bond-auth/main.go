// ABOUTME: Entry point for the bond-auth token lifecycle service
// ABOUTME: Serves login/register/refresh/validate and account management

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/bondhub/platform/internal/authn"
	"github.com/bondhub/platform/internal/config"
	"github.com/bondhub/platform/internal/identity"
	"github.com/bondhub/platform/internal/logging"
	"github.com/bondhub/platform/internal/password"
	"github.com/bondhub/platform/internal/store"
	"github.com/bondhub/platform/internal/token"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
 _                     _                 _   _
| |__   ___  _ __   __| |       __ _ _  _| |_| |__
| '_ \ / _ \| '_ \ / _' |_____ / _' | || |  _| '_ \
| |_) | (_) | | | | (_| |_____| (_| | || | |_| | | |
|_.__/ \___/|_| |_|\__,_|      \__,_|\__,_|\__|_| |_|
`

// getConfigPath returns the path to the auth service config file.
// Priority: BOND_AUTH_CONFIG env var > XDG_CONFIG_HOME/bondhub/auth.yaml > ~/.config/bondhub/auth.yaml
func getConfigPath() string {
	if envPath := os.Getenv("BOND_AUTH_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "auth.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "bondhub", "auth.yaml")
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: bond-auth <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  serve                        Start the auth service")
		fmt.Println("  hash <password>              Print the bcrypt hash of a password")
		fmt.Println("  bootstrap-admin --email ...  Create the initial admin account")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "hash":
		err = runHash()
	case "bootstrap-admin":
		err = runBootstrapAdmin(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context) error {
	configPath := getConfigPath()

	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	cfg, err := config.LoadService(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.Setup(cfg.Logging)

	green := color.New(color.FgGreen)
	green.Print("    ▶ ")
	fmt.Printf("Config:   %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("HTTP:     %s\n", cfg.Server.HTTPAddr)
	green.Print("    ▶ ")
	fmt.Printf("Database: %s\n", cfg.Database.Path)
	fmt.Println()

	s, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer s.Close()

	codec, err := token.NewCodec([]byte(cfg.Auth.JWTSecret))
	if err != nil {
		return fmt.Errorf("creating token codec: %w", err)
	}

	svc := authn.NewService(s, codec, authn.Config{
		AccessTokenTTL:  cfg.Tokens.AccessTTL,
		RefreshTokenTTL: cfg.Tokens.RefreshTTL,
	}, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintln(w, `{"status":"ok"}`)
	})
	authn.NewAPI(svc, logger).Register(mux)
	authn.NewAccountsAPI(s, logger).Register(mux)

	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           identity.Middleware(logger)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting bond-auth",
		"config", configPath,
		"http_addr", cfg.Server.HTTPAddr,
		"access_ttl", cfg.Tokens.AccessTTL,
		"refresh_ttl", cfg.Tokens.RefreshTTL,
	)

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

func runHash() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: bond-auth hash <password>")
	}

	hash, err := password.Hash(os.Args[2])
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	fmt.Println(hash)
	return nil
}

// runBootstrapAdmin creates the first admin account directly in the
// database, bypassing the registration endpoint which only grants USER.
func runBootstrapAdmin(ctx context.Context) error {
	var email, phone, plain string
	args := os.Args[2:]
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--email":
			if i+1 >= len(args) {
				return fmt.Errorf("--email requires a value")
			}
			email = args[i+1]
			i++
		case strings.HasPrefix(arg, "--email="):
			email = strings.TrimPrefix(arg, "--email=")
		case arg == "--phone":
			if i+1 >= len(args) {
				return fmt.Errorf("--phone requires a value")
			}
			phone = args[i+1]
			i++
		case strings.HasPrefix(arg, "--phone="):
			phone = strings.TrimPrefix(arg, "--phone=")
		case arg == "--password":
			if i+1 >= len(args) {
				return fmt.Errorf("--password requires a value")
			}
			plain = args[i+1]
			i++
		case strings.HasPrefix(arg, "--password="):
			plain = strings.TrimPrefix(arg, "--password=")
		default:
			return fmt.Errorf("unknown flag: %s", arg)
		}
	}

	if email == "" || plain == "" {
		return fmt.Errorf("--email and --password are required")
	}

	cfg, err := config.LoadService(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	s, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer s.Close()

	hash, err := password.Hash(plain)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now().UTC()
	acct := &store.Account{
		ID:           uuid.New().String(),
		Email:        email,
		PhoneNumber:  phone,
		PasswordHash: hash,
		Roles:        []string{"ADMIN", authn.DefaultRole},
		Enabled:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.CreateAccount(ctx, acct); err != nil {
		return fmt.Errorf("creating admin account: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Println("  Admin account created")
	fmt.Printf("  ID:    %s\n", acct.ID)
	fmt.Printf("  Email: %s\n", acct.Email)
	fmt.Printf("  Roles: %s\n", strings.Join(acct.Roles, ", "))
	return nil
}
