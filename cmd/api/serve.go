package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"portal/internal/auth"
	"portal/internal/httpapi"
	"portal/internal/httpmiddleware"
	"portal/internal/logging"
	"portal/internal/metrics"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.IsProduction() {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := buildApp(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			router, err := newRouter(a, metrics.New())
			if err != nil {
				return err
			}
			return serveHTTP(ctx, a, router)
		},
	}
}

func newRouter(a *app, m *metrics.Metrics) (*gin.Engine, error) {
	h, err := httpapi.New(httpapi.Config{
		Service:    a.svc,
		Sessions:   a.sessions,
		Cookie:     auth.CookieConfig{Name: a.cfg.SessionCookie, Secure: a.cfg.CookieSecure},
		Metrics:    m,
		Log:        a.log,
		LoginLimit: a.limit(a.loginLimit, "login"),
	})
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logging.Requests(a.log, "/healthz", "/metrics"))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}))
	r.Use(httpmiddleware.SecurityHeaders(a.cfg.IsProduction()))
	r.Use(m.Middleware())
	r.Use(a.limit(a.apiLimit, "api"))

	r.GET("/metrics", gin.WrapH(m.Handler()))
	r.GET("/healthz", httpapi.Health(a.healthChecks()))
	h.Register(r)
	return r, nil
}

func serveHTTP(ctx context.Context, a *app, handler http.Handler) error {
	srv := &http.Server{
		Addr:         ":" + a.cfg.HTTPPort,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.WithField("addr", srv.Addr).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	a.log.Info("shutting down server")

	// outstanding requests get 10 seconds
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.WithError(err).Warn("server forced shutdown")
	}
	a.log.Info("server exited")
	return nil
}
