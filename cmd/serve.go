// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"github.com/canonical/subscription-service/internal/config"
	"github.com/canonical/subscription-service/internal/db"
	"github.com/canonical/subscription-service/internal/logging"
	"github.com/canonical/subscription-service/internal/monitoring/prometheus"
	"github.com/canonical/subscription-service/internal/storage"
	"github.com/canonical/subscription-service/internal/stripe"
	"github.com/canonical/subscription-service/internal/token"
	"github.com/canonical/subscription-service/internal/tracing"
	"github.com/canonical/subscription-service/pkg/auth"
	"github.com/canonical/subscription-service/pkg/billing"
	"github.com/canonical/subscription-service/pkg/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serve starts the web server",
	Long:  `Launch the web application, list of environment variables is available in the readme`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := serve(); err != nil {
			fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve() error {
	specs := new(config.EnvSpec)
	if err := envconfig.Process("", specs); err != nil {
		panic(fmt.Errorf("issues with environment sourcing: %s", err))
	}

	logger := logging.NewLogger(specs.LogLevel)
	defer logger.Sync()

	monitor := prometheus.NewMonitor("subscription-service", logger)
	tracer := tracing.NewTracer(tracing.NewConfig(specs.TracingEnabled, specs.OtelGRPCEndpoint, specs.OtelHTTPEndpoint, logger))

	dbConfig := db.Config{
		DSN:             specs.DSN,
		MaxConns:        specs.DBMaxConns,
		MinConns:        specs.DBMinConns,
		MaxConnLifetime: specs.DBMaxConnLifetime,
		MaxConnIdleTime: specs.DBMaxConnIdleTime,
		TracingEnabled:  specs.TracingEnabled,
	}
	dbClient, err := db.NewDBClient(dbConfig, tracer, monitor, logger)
	if err != nil {
		return fmt.Errorf("failed to create database client: %v", err)
	}
	defer dbClient.Close()
	s := storage.NewStorage(dbClient, tracer, monitor, logger)

	stripeClient := stripe.NewClient(
		stripe.Config{
			APIKey:        specs.StripeSecretKey,
			WebhookSecret: specs.StripeWebhookSecret,
			APIBase:       specs.StripeAPIBase,
		},
		tracer,
		monitor,
		logger,
	)

	codec := token.NewCodec([]byte(specs.AuthSecret), logger)

	authService := auth.NewService(s, codec, tracer, monitor, logger)
	authMiddleware := auth.NewMiddleware(authService, tracer, monitor, logger)
	authAPI := auth.NewAPI(authService, authMiddleware, specs.CookieSecure, tracer, monitor, logger)

	billingService := billing.NewService(
		s,
		stripeClient,
		billing.Config{
			BaseURL:    specs.BaseURL,
			PricingURL: specs.PricingURL,
			TrialDays:  specs.CheckoutTrialDays,
		},
		tracer,
		monitor,
		logger,
	)
	billingAPI := billing.NewAPI(
		billingService,
		authMiddleware,
		billing.RedirectConfig{
			DashboardURL: specs.DashboardURL,
			ErrorURL:     specs.CheckoutErrorURL,
		},
		tracer,
		monitor,
		logger,
	)

	router := web.NewRouter(authAPI, billingAPI, dbClient, tracer, monitor, logger)
	logger.Infof("Starting HTTP server on port %v", specs.Port)

	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%v", specs.Port),
		WriteTimeout: time.Second * 60,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      router,
	}

	var serverError error
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Security().SystemStartup()
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError = fmt.Errorf("server error: %w", err)
			c <- os.Interrupt
		}
	}()

	<-c

	// Create a deadline to wait for.
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger.Security().SystemShutdown()
	if err := srv.Shutdown(ctx); err != nil {
		serverError = fmt.Errorf("server shutdown error: %w", err)
	}

	return serverError
}
