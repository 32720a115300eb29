package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"ecom-backend/internal/auth"
	"ecom-backend/internal/config"
	apphttp "ecom-backend/internal/http"
	"ecom-backend/internal/payment"
	"ecom-backend/internal/service"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := newLogger(cfg.Server.LogLevel)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.db.Close()

	hasher := newHasher(cfg)
	tokens, err := auth.NewTokenIssuer(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)
	if err != nil {
		return fmt.Errorf("token issuer: %w", err)
	}
	verifier, err := payment.NewVerifier(cfg.Payment.WebhookSecret)
	if err != nil {
		return fmt.Errorf("webhook verifier: %w", err)
	}

	var intents payment.IntentCreator
	if cfg.Payment.StripeSecretKey != "" {
		gateway, err := payment.NewStripeGateway(cfg.Payment.StripeSecretKey, cfg.Payment.Currency)
		if err != nil {
			return fmt.Errorf("stripe gateway: %w", err)
		}
		intents = gateway
	} else {
		logger.Warn("stripe secret key not set; payment intents are disabled")
	}

	archive, err := buildArchive(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("setup archive: %w", err)
	}

	payments := service.NewPaymentService(st.orders, st.events, intents, archive, logger)

	handler := apphttp.NewHandler(apphttp.Config{
		Users:           service.NewUserService(st.users, hasher),
		Orders:          service.NewOrderService(st.orders),
		Payments:        payments,
		Login:           auth.NewPasswordStrategy(st.users, hasher),
		Gate:            auth.NewTokenStrategy(st.users, tokens),
		Tokens:          tokens,
		Webhooks:        verifier,
		Archive:         archive,
		CookieName:      cfg.Auth.CookieName,
		CookieSecure:    cfg.Auth.CookieSecure,
		AllowAllOrigins: cfg.IsDevelopment(),
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		StaticDir:       cfg.Server.StaticDir,
		Logger:          logger,
	})

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s (%s)", cfg.Server.Addr, cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}
	payments.Wait()

	logger.Info("bye")
	return nil
}
