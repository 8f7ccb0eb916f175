package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/soaringjerry/fairway/internal/answerstore"
	"github.com/soaringjerry/fairway/internal/api"
	"github.com/soaringjerry/fairway/internal/config"
	"github.com/soaringjerry/fairway/internal/db"
	"github.com/soaringjerry/fairway/internal/logger"
	"github.com/soaringjerry/fairway/internal/middleware"
	"github.com/soaringjerry/fairway/internal/observability"
	"github.com/soaringjerry/fairway/internal/services"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadRuntime()
			if err != nil {
				return err
			}
			defer log.Sync()
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, log)
		},
	}
}

func serve(ctx context.Context, cfg config.Config, log *logger.Logger) error {
	shutdownTracing, err := observability.InitTracing(ctx, log, cfg.Otel, cfg.Commit)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn("tracing_shutdown_failed", "error", err)
		}
	}()

	answers, closeAnswers, err := answerstore.Open(ctx, cfg.Answers)
	if err != nil {
		return fmt.Errorf("open answers store: %w", err)
	}
	defer func() { _ = closeAnswers() }()

	store, closeStore, err := openReservationStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	cards, err := services.NewCardRenderer(cfg.Quiz.FontDir, log)
	if err != nil {
		return fmt.Errorf("load card fonts: %w", err)
	}

	authority := middleware.NewAuthority(cfg.Admin.JWTSecret)
	admin := services.NewAdminService(cfg.Admin.Username, cfg.Admin.PasswordHash, authority.Sign, cfg.Admin.TokenTTL)
	if !admin.Enabled() {
		log.Warn("admin_login_disabled", "reason", "FAIRWAY_ADMIN_PASSWORD_HASH not set")
	}

	router := api.NewRouter(api.Options{
		Quiz:         services.NewQuizService(answers, services.VariantFor(cfg.Quiz.Variant), cfg.Quiz.PageSize).WithLogger(log),
		Cards:        cards,
		Reservations: services.NewReservationService(store, cfg.Location(), log),
		Admin:        admin,
		Auth:         authority,
		Log:          log,
		PublicURL:    cfg.PublicURL,
		Commit:       cfg.Commit,
		BuildTime:    cfg.BuildTime,
		Frontend:     frontendHandler(cfg, log),
	})

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router.Handler(cfg.CORS.Origins),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server_listening", "addr", cfg.Addr, "store", cfg.Store.Backend, "answers", cfg.Answers.Backend, "variant", cfg.Quiz.Variant)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("server_shutting_down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(sctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

// openReservationStore binds the configured reservation backend. The returned close func is never
// nil.
func openReservationStore(ctx context.Context, cfg config.Config, log *logger.Logger) (services.ReservationStore, func() error, error) {
	noop := func() error { return nil }
	today := time.Now().In(cfg.Location())
	switch cfg.Store.Backend {
	case config.StoreNone:
		log.Warn("reservation_store_unavailable", "reason", "store backend is none")
		return api.NewUnavailableStore(), noop, nil
	case config.StoreMemory:
		if !cfg.Store.Seed {
			return api.NewMemoryStore(nil, nil), noop, nil
		}
		return api.NewMemoryStore(db.SampleHotels(), db.SamplePrices(today)), noop, nil
	}

	gdb, dialect, err := db.Open(ctx, cfg.Store, log)
	if err != nil {
		return nil, noop, err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, noop, err
	}
	if cfg.Store.Seed {
		seeded, err := db.Seed(ctx, gdb, today)
		if err != nil {
			_ = sqlDB.Close()
			return nil, noop, fmt.Errorf("seed: %w", err)
		}
		if seeded {
			log.Info("sample_data_seeded", "dialect", dialect)
		}
	}
	return db.NewGormStore(gdb, dialect), sqlDB.Close, nil
}

// frontendHandler serves a built frontend directory, or proxies to a dev server, when configured.
func frontendHandler(cfg config.Config, log *logger.Logger) http.Handler {
	if cfg.StaticDir != "" {
		return http.FileServer(http.Dir(cfg.StaticDir))
	}
	if cfg.DevFrontendURL == "" {
		return nil
	}
	u, err := url.Parse(cfg.DevFrontendURL)
	if err != nil || u.Host == "" {
		log.Warn("invalid_dev_frontend_url", "url", cfg.DevFrontendURL, "error", err)
		return nil
	}
	rp := httputil.NewSingleHostReverseProxy(u)
	rp.ModifyResponse = func(res *http.Response) error {
		res.Header.Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
		res.Header.Set("Pragma", "no-cache")
		res.Header.Set("Expires", "0")
		return nil
	}
	return rp
}
