// Package main runs an identity service implementing the owner registration
// contract, for local development of the client. Owners live in PostgreSQL
// when a DSN is configured and in memory otherwise.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	nethttp "net/http"

	"github.com/atinyakov/ownerhub/internal/config"
	"github.com/atinyakov/ownerhub/internal/db"
	"github.com/atinyakov/ownerhub/internal/logger"
	"github.com/atinyakov/ownerhub/internal/repository"
	"github.com/atinyakov/ownerhub/internal/server/handler/http"
	"github.com/atinyakov/ownerhub/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options, err := config.ParseStub(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ownerRepo, closeRepo, err := openOwnerRepository(ctx, options.DatabaseDSN, zapLogger)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}
	defer closeRepo()

	authService := service.NewAuthService(ownerRepo, options.SessionTTL)
	service.StartSessionPurger(ctx, ownerRepo, time.Minute, zapLogger)

	authHandler := http.NewAuthHandler(authService, zapLogger)
	router := http.NewRouter(authHandler, authService, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("failed to shut down", zap.Error(err))
		}
	}()

	if options.TLS() {
		zapLogger.Info("starting HTTPS identity stub", zap.String("addr", options.Port))
		err = server.ListenAndServeTLS(options.CertFile, options.KeyFile)
	} else {
		zapLogger.Info("starting HTTP identity stub", zap.String("addr", options.Port))
		err = server.ListenAndServe()
	}
	if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		zapLogger.Fatal("identity stub stopped", zap.Error(err))
	}
}

// ownerRepository is what the stub needs from its store: the service's
// operations plus session purging.
type ownerRepository interface {
	service.OwnerRepository
	service.Purger
}

// openOwnerRepository returns the PostgreSQL repository when dsn is set,
// otherwise an in-memory one.
func openOwnerRepository(ctx context.Context, dsn string, log *zap.Logger) (ownerRepository, func(), error) {
	if dsn == "" {
		log.Info("no database dsn configured, owners are kept in memory")
		return repository.NewMemoryOwnerRepository(), func() {}, nil
	}

	postgresDB, err := db.InitPostgres(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := postgresDB.Close(); err != nil {
			log.Warn("failed to close database", zap.Error(err))
		}
	}
	return repository.NewPostgresOwnerRepository(postgresDB), closeDB, nil
}
