package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"paygate/internal/auth"
	"paygate/internal/config"
	"paygate/internal/gateway/paystack"
	httpx "paygate/internal/http"
	paymentsvc "paygate/internal/services/payment"
	"paygate/internal/store/postgres"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init DB
	pool := postgres.MustOpen(ctx, cfg.DB.DSN)
	defer pool.Close()
	payments := postgres.NewPaymentRepository(pool)

	// Gateway client and orchestration
	gateway := paystack.New(cfg.Paystack)
	resolver := auth.NewContextResolver()
	svc := paymentsvc.NewService(resolver, gateway, payments)

	// Router
	r := httpx.NewRouter(httpx.RouterDependencies{
		Config:         cfg,
		PaymentService: svc,
		PaymentRepo:    payments,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Msgf("PayGate API listening on :%s", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	cancel()
	ctx2, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	log.Info().Msg("server stopped")
}
