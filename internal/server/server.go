package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hackmate-ai/hackmate/internal/auth"
	"github.com/hackmate-ai/hackmate/internal/config"
	"github.com/hackmate-ai/hackmate/internal/handler"
	"github.com/hackmate-ai/hackmate/internal/handler/chat"
	"github.com/hackmate-ai/hackmate/internal/logging"
	"github.com/hackmate-ai/hackmate/internal/middleware"
	"github.com/hackmate-ai/hackmate/internal/svc"
)

// ServerOptions holds optional dependencies for the server
type ServerOptions struct {
	SvcCtx *svc.ServiceContext // Pre-initialized service context (tests inject fakes)
	Quiet  bool                // Suppress startup messages for clean CLI output
}

// Run starts the API server with the given configuration.
// It blocks until the context is cancelled or an error occurs.
func Run(ctx context.Context, c config.Config, opts ...ServerOptions) error {
	var o ServerOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	return run(ctx, c, o)
}

func run(ctx context.Context, c config.Config, opts ServerOptions) error {
	addr := fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
	if err := checkPortAvailable(addr); err != nil {
		return fmt.Errorf("port %d is already in use: %w", c.Server.Port, err)
	}

	svcCtx := opts.SvcCtx
	if svcCtx == nil {
		svcCtx = svc.NewServiceContext(c)
	}

	r := Router(svcCtx, opts.Quiet)

	// WriteTimeout is intentionally omitted: tool scans stream for minutes
	// and a response deadline would cut them off mid-report.
	httpServer := &http.Server{
		Addr:        addr,
		Handler:     r,
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	if !opts.Quiet {
		logging.Infof("server ready at http://%s", addr)
	}

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Errorf("HTTP server error: %v", err)
		}
	}()

	<-ctx.Done()

	if !opts.Quiet {
		logging.Info("shutting down server gracefully...")
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return httpServer.Shutdown(shutdownCtx)
}

// Router builds the chi router. Exposed so tests can drive the full HTTP
// surface through httptest.
func Router(svcCtx *svc.ServiceContext, quiet bool) chi.Router {
	r := chi.NewRouter()

	if !quiet {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(corsMiddleware(svcCtx.Config.Server.AllowedOrigin))

	r.Get("/health", handler.HealthCheckHandler(svcCtx))

	r.Route("/api/v1", func(r chi.Router) {
		if svcCtx.Config.IsRateLimitEnabled() {
			limiter := middleware.NewRateLimiter(
				svcCtx.Config.Security.RateLimitPerSec,
				svcCtx.Config.Security.RateLimitBurst,
			)
			r.Use(limiter.Middleware(auth.CallerKey))
		}

		r.Post("/chat", chat.ChatHandler(svcCtx))
		r.Post("/chat/completions", chat.CompletionsHandler(svcCtx))
	})

	return r
}

// corsMiddleware handles CORS for the configured chat client origin.
func corsMiddleware(allowedOrigin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (allowedOrigin == "*" || origin == allowedOrigin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// checkPortAvailable checks if the address is available for binding
func checkPortAvailable(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	ln.Close()
	return nil
}
