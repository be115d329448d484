package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/api"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/api/metrics"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/ports"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/service"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/infrastructure/db/redis"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/infrastructure/email"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/infrastructure/http/handlers"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/infrastructure/queue"
)

const shutdownTimeout = 10 * time.Second

var serveMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "migrate the record store before serving")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	displayAppName(appName)

	// 1. Record store.
	store, err := openStore(ctx, serveMigrate)
	if err != nil {
		return err
	}
	defer closeStore(store)
	health := []handlers.Dependency{{Name: cfg.Store.Driver, Pinger: store.Health}}

	// 2. Submission guard. Redis is optional.
	var guard ports.SubmissionGuard
	client, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	switch {
	case errors.Is(err, redis.ErrDisabled):
		log.Info().Msg("redis disabled, create submissions are not de-duplicated")
	case err != nil:
		log.Warn().Err(err).Msg("redis unreachable, create submissions are not de-duplicated")
	default:
		defer client.Close()
		g := redis.NewSubmissionGuard(client, cfg.Redis.SubmissionTTL)
		guard = g
		health = append(health, handlers.Dependency{Name: "redis", Pinger: g, Optional: true})
	}

	// 3. Translations.
	catalog, err := loadLocales()
	if err != nil {
		return err
	}
	for _, loc := range catalog.Locales() {
		if missing := catalog.Missing(loc); len(missing) > 0 {
			log.Debug().Str("locale", loc).Int("missing", len(missing)).Msg("locale falls back to default for some keys")
		}
	}

	// 4. Booking status delivery.
	mailer := email.NewMailer(email.Config{
		APIKey:   cfg.Mail.ResendAPIKey,
		From:     cfg.Mail.From,
		FromName: cfg.Mail.FromName,
	}, log.With().Str("component", "mailer").Logger())
	delivery := service.NewStatusDelivery(store, mailer, catalog, catalog.Default(), log.With().Str("component", "status_delivery").Logger())
	dispatcher := queue.NewDispatcher(cfg.Notify.Workers, delivery, metrics.QueueObserver{}, log.With().Str("component", "status_queue").Logger())
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	dispatcher.Start(workerCtx)

	// 5. Read policy and sessions.
	readPolicy, err := service.ParseReadPolicy(cfg.ReadPolicy)
	if err != nil {
		return err
	}

	auth := service.NewAuthService(store.Users, cfg.JWTSecret, cfg.SessionTTL, log.With().Str("component", "auth").Logger())

	e, err := api.NewRouter(api.Deps{
		Log:          log,
		SignInPath:   cfg.SignInPath,
		SecureCookie: !cfg.Development(),
		Store:        store,
		Auth:         auth,
		Locales:      catalog,
		ReadPolicy:   readPolicy,
		Guard:        guard,
		Notifier:     dispatcher,
		Health:       health,
	})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Str("store", cfg.Store.Driver).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("listen: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	// In-flight requests are done, so nothing enqueues anymore.
	dispatcher.Stop()
	log.Info().Msg("server stopped")
	return nil
}

func displayAppName(name string) {
	banner := figure.NewFigure(name, "cybermedium", true)
	banner.Print()
	fmt.Println()
}
