// ABOUTME: Prefix-based reverse proxy routing to the internal services
// ABOUTME: Rewrites the gateway path prefix into each service's vocabulary

package gateway

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/bondhub/platform/internal/config"
)

// route is one compiled forwarding rule.
type route struct {
	prefix  string
	rewrite string
	proxy   *httputil.ReverseProxy
}

// Router forwards authenticated requests to the internal services. Routes
// match in configuration order, first prefix match wins.
type Router struct {
	routes []route
	logger *slog.Logger
}

// NewRouter compiles the configured routes.
func NewRouter(cfgRoutes []config.RouteConfig, logger *slog.Logger) (*Router, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "router")

	rt := &Router{logger: logger}
	for _, rc := range cfgRoutes {
		upstream, err := url.Parse(rc.Upstream)
		if err != nil {
			return nil, fmt.Errorf("parsing upstream %q: %w", rc.Upstream, err)
		}
		if upstream.Scheme == "" || upstream.Host == "" {
			return nil, fmt.Errorf("upstream %q must be an absolute URL", rc.Upstream)
		}

		prefix, rewrite := rc.Prefix, rc.Rewrite
		proxy := &httputil.ReverseProxy{
			Rewrite: func(pr *httputil.ProxyRequest) {
				pr.SetURL(upstream)
				pr.SetXForwarded()
				pr.Out.URL.Path = rewrite + strings.TrimPrefix(pr.In.URL.Path, prefix)
				pr.Out.URL.RawPath = ""
			},
			ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
				logger.Error("upstream error", "upstream", upstream.Host, "path", r.URL.Path, "err", err)
				w.WriteHeader(http.StatusBadGateway)
			},
		}
		rt.routes = append(rt.routes, route{prefix: prefix, rewrite: rewrite, proxy: proxy})
	}
	return rt, nil
}

// ServeHTTP forwards the request to the first matching route.
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	for _, route := range rt.routes {
		if strings.HasPrefix(r.URL.Path, route.prefix) {
			route.proxy.ServeHTTP(w, r)
			return
		}
	}
	rt.logger.Debug("no route", "path", r.URL.Path)
	http.NotFound(w, r)
}
