// ABOUTME: Gateway runtime: wiring, listeners, serve loop, graceful shutdown
// ABOUTME: Listens on plain TCP or a Tailscale tsnet ingress per configuration

package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"tailscale.com/tsnet"

	"github.com/bondhub/platform/internal/config"
	"github.com/bondhub/platform/internal/token"
)

// Gateway is the sole externally reachable ingress. Every request passes
// the auth filter before any forwarding logic sees it.
type Gateway struct {
	config *config.GatewayConfig
	logger *slog.Logger

	httpServer  *http.Server
	tsnetServer *tsnet.Server
}

// New wires the gateway from configuration: codec, path registry, auth
// filter, and the reverse-proxy router.
func New(cfg *config.GatewayConfig, logger *slog.Logger) (*Gateway, error) {
	if logger == nil {
		logger = slog.Default()
	}

	codec, err := token.NewCodec([]byte(cfg.Auth.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("creating token codec: %w", err)
	}

	router, err := NewRouter(cfg.Routes, logger)
	if err != nil {
		return nil, fmt.Errorf("compiling routes: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintln(w, `{"status":"ok"}`)
	})
	mux.Handle("/", router)

	filter := NewAuthFilter(cfg.Endpoints.Registry(), codec, logger)

	g := &Gateway{
		config: cfg,
		logger: logger.With("component", "gateway"),
	}
	g.httpServer = &http.Server{
		Handler:           filter.Middleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return g, nil
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (g *Gateway) Run(ctx context.Context) error {
	ln, err := g.listen(ctx)
	if err != nil {
		return err
	}
	defer g.closeTailscale()

	errCh := make(chan error, 1)
	go func() {
		g.logger.Info("gateway listening", "addr", ln.Addr().String())
		if err := g.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	g.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return g.httpServer.Shutdown(shutdownCtx)
}

// listen creates the configured listener: tsnet when Tailscale is enabled,
// plain TCP otherwise.
func (g *Gateway) listen(ctx context.Context) (net.Listener, error) {
	if !g.config.Tailscale.Enabled {
		ln, err := net.Listen("tcp", g.config.Server.HTTPAddr)
		if err != nil {
			return nil, fmt.Errorf("listening on %s: %w", g.config.Server.HTTPAddr, err)
		}
		return ln, nil
	}

	tsCfg := g.config.Tailscale
	g.tsnetServer = &tsnet.Server{
		Hostname:  tsCfg.Hostname,
		AuthKey:   tsCfg.AuthKey,
		Dir:       tsCfg.StateDir,
		Ephemeral: tsCfg.Ephemeral,
		Logf: func(format string, args ...any) {
			g.logger.Debug(fmt.Sprintf(format, args...), "source", "tsnet")
		},
	}

	status, err := g.tsnetServer.Up(ctx)
	if err != nil {
		g.closeTailscale()
		return nil, fmt.Errorf("bringing up tailscale: %w", err)
	}
	g.logger.Info("tailscale ingress up", "hostname", tsCfg.Hostname, "ips", status.TailscaleIPs)

	ln, err := g.tsnetServer.Listen("tcp", ":80")
	if err != nil {
		g.closeTailscale()
		return nil, fmt.Errorf("tailscale listen: %w", err)
	}
	return ln, nil
}

func (g *Gateway) closeTailscale() {
	if g.tsnetServer != nil {
		_ = g.tsnetServer.Close()
	}
}
