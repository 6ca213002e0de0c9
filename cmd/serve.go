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

	"github.com/canonical/assessment-service/internal/authorization"
	"github.com/canonical/assessment-service/internal/config"
	"github.com/canonical/assessment-service/internal/db"
	"github.com/canonical/assessment-service/internal/kratos"
	"github.com/canonical/assessment-service/internal/logging"
	"github.com/canonical/assessment-service/internal/monitoring/prometheus"
	"github.com/canonical/assessment-service/internal/storage"
	"github.com/canonical/assessment-service/internal/tracing"
	"github.com/canonical/assessment-service/pkg/analytics"
	"github.com/canonical/assessment-service/pkg/authentication"
	"github.com/canonical/assessment-service/pkg/responses"
	"github.com/canonical/assessment-service/pkg/web"
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
		return fmt.Errorf("issues with environment sourcing: %s", err)
	}
	if err := specs.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.NewLogger(specs.LogLevel)
	defer logger.Sync()

	monitor := prometheus.NewMonitor("assessment-service", logger)
	tracer := tracing.NewTracer(tracing.NewConfig(specs.TracingEnabled, specs.OtelGRPCEndpoint, specs.OtelHTTPEndpoint, logger))

	thresholds, err := analytics.NewThresholds(specs.AssessmentThreshold, specs.DepartmentThreshold, specs.CategoryThreshold)
	if err != nil {
		return fmt.Errorf("invalid suppression thresholds: %w", err)
	}

	limiter, err := responses.NewRateLimiter(specs.SubmissionRate, logger)
	if err != nil {
		return fmt.Errorf("invalid submission rate: %w", err)
	}

	deps := web.Dependencies{
		Authorizer:         authorization.NewAuthorizer(tracer, monitor, logger),
		Kratos:             kratos.NewClient(specs.KratosAdminURL, tracer, monitor, logger),
		Thresholds:         thresholds,
		Limiter:            limiter,
		WebhookAPIKey:      specs.WebhookAPIKey,
		InvitationLifetime: specs.InvitationLifetime,
		AllowedOrigins:     specs.AllowedOrigins,
	}

	switch specs.StorageBackend {
	case config.StorageBackendMemory:
		logger.Warn("Using in-memory storage, data is lost on restart")
		deps.Storage = storage.NewMemoryStorage(tracer, monitor, logger)
	default:
		dbClient, err := db.NewDBClient(
			db.Config{
				DSN:             specs.DSN,
				MaxConns:        specs.DBMaxConns,
				MinConns:        specs.DBMinConns,
				MaxConnLifetime: specs.DBMaxConnLifetime,
				MaxConnIdleTime: specs.DBMaxConnIdleTime,
				TracingEnabled:  specs.TracingEnabled,
			},
			tracer,
			monitor,
			logger,
		)
		if err != nil {
			return fmt.Errorf("failed to create database client: %v", err)
		}
		defer dbClient.Close()

		deps.DBClient = dbClient
		deps.Storage = storage.NewStorage(dbClient, tracer, monitor, logger)
	}

	if specs.AuthenticationEnabled {
		verifier, err := authentication.NewJWTAuthenticator(
			context.Background(),
			authentication.Config{
				Issuer:          specs.OIDCIssuer,
				JWKSURL:         specs.OIDCJWKSURL,
				AllowedSubjects: specs.AllowedSubjects,
				RequiredScope:   specs.RequiredScope,
			},
			tracer,
			monitor,
			logger,
		)
		if err != nil {
			return fmt.Errorf("failed to create authenticator: %w", err)
		}
		deps.Verifier = verifier
	} else {
		logger.Warn("Authentication is disabled, bearer tokens are taken as user ids")
		deps.Verifier = authentication.NewNoopVerifier()
	}

	router := web.NewRouter(deps, tracer, monitor, logger)

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
