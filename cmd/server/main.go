package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tradeledger/internal/config"
	"tradeledger/internal/infra"
	"tradeledger/internal/repository"
	"tradeledger/internal/router"
	"tradeledger/internal/store"
	"tradeledger/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, err := store.NewFirebaseStore(ctx, cfg.FirebaseDatabaseURL, cfg.FirebaseCredentialsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to realtime database")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Reconcile worker pool + drift sweep. Wired here (composition root) so
	// the background side has full access to the same repositories as the
	// request path.
	lpoRepo := repository.NewLPORepository(s)
	invoiceRepo := repository.NewInvoiceRepository(s)
	paymentRepo := repository.NewPaymentRepository(s)

	dispatcher := worker.NewDispatcher(rdb)
	reconciler := worker.NewReconciler(lpoRepo, invoiceRepo, paymentRepo)
	worker.StartWorkerPool(ctx, rdb, reconciler, cfg.WorkerPoolSize)

	cb := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	worker.StartSweepCron(ctx, worker.SweepConfig{
		LPORepo:     lpoRepo,
		InvoiceRepo: invoiceRepo,
		Dispatcher:  dispatcher,
		CB:          cb,
		Interval:    time.Duration(cfg.SweepIntervalSeconds) * time.Second,
	})

	r := router.New(cfg, s, rdb, cb, dispatcher)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("tradeledger backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
