// Package main runs the OwnerHub client: the terminal UI by default, or a
// one-shot registration on the command line.
package main

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/atinyakov/ownerhub/internal/client/identity"
	"github.com/atinyakov/ownerhub/internal/client/navigation"
	"github.com/atinyakov/ownerhub/internal/client/prompt"
	"github.com/atinyakov/ownerhub/internal/client/register"
	"github.com/atinyakov/ownerhub/internal/client/session"
	"github.com/atinyakov/ownerhub/internal/client/tui"
	"github.com/atinyakov/ownerhub/internal/config"
	"github.com/atinyakov/ownerhub/internal/db"
	"github.com/atinyakov/ownerhub/internal/i18n"
	"github.com/atinyakov/ownerhub/internal/logger"
)

// cleanInterval is how often the stored session is checked for expiry.
var cleanInterval = time.Minute

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	options, err := config.ParseClient(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if options.ShowVersion {
		fmt.Printf("OwnerHub Client\nVersion: %s\nBuild Date: %s\n", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))
		return
	}

	// The terminal belongs to the UI, so logs go to a file.
	log := logger.New()
	if err := log.InitFile(options.LogLevel, options.LogFile); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Log.Sync() }()
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, options, zapLogger); err != nil {
		zapLogger.Error("client stopped", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, options *config.ClientOptions, log *zap.Logger) error {
	httpClient, err := identity.NewHTTPClient(options.CAFile, options.Timeout)
	if err != nil {
		return err
	}
	idClient := identity.New(options.BaseURL, httpClient, log.Named("identity"))

	sess, closeStore, err := openSession(ctx, options, log)
	if err != nil {
		return err
	}
	defer closeStore()

	restored, err := sess.Restore(ctx, idClient.Verify)
	if err != nil {
		log.Warn("failed to restore session", zap.Error(err))
	}

	start := navigation.Route{Stack: navigation.StackAuth, Screen: navigation.ScreenSocialLogin}
	if restored {
		start = navigation.OwnerLanding
	}
	nav := navigation.NewStack(start)
	printer := i18n.New(options.Lang)

	switch options.Command {
	case "register":
		return registerOnce(ctx, options, idClient, sess, nav, printer, log)
	default:
		app := tui.New(tui.Deps{
			Ctx:      ctx,
			Nav:      nav,
			Session:  sess,
			Identity: idClient,
			Printer:  printer,
			Log:      log.Named("tui"),
		})
		_, err := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
}

// openSession returns the session context, persisted in SQLite when a
// session key is configured.
func openSession(ctx context.Context, options *config.ClientOptions, log *zap.Logger) (*session.Context, func(), error) {
	sessLog := log.Named("session")
	if options.SessionKey == "" {
		log.Warn("no session key configured, the session will not be persisted")
		return session.NewContext(session.WithLogger(sessLog)), func() {}, nil
	}

	sealer, err := session.NewSealer([]byte(options.SessionKey))
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.InitSQLite(ctx, options.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot init database: %w", err)
	}
	cleanCtx, stopCleaner := context.WithCancel(ctx)
	db.StartExpiredSessionCleaner(cleanCtx, sqlDB, cleanInterval, log.Named("cleaner"))

	sess := session.NewContext(
		session.WithStore(session.NewSQLStore(sqlDB, sealer)),
		session.WithLogger(sessLog),
	)
	return sess, closeDB(sqlDB, stopCleaner, log), nil
}

// closeDB stops the cleaner before closing the database it uses.
func closeDB(sqlDB *sql.DB, stopCleaner context.CancelFunc, log *zap.Logger) func() {
	return func() {
		stopCleaner()
		if err := sqlDB.Close(); err != nil {
			log.Warn("failed to close database", zap.Error(err))
		}
	}
}

// registerOnce runs the registration flow against credentials read from
// the terminal.
func registerOnce(
	ctx context.Context,
	options *config.ClientOptions,
	svc register.IdentityService,
	sess *session.Context,
	nav *navigation.Stack,
	printer *i18n.Printer,
	log *zap.Logger,
) error {
	creds, err := prompt.NewTerminal(printer).Credentials(options.Login)
	if err != nil {
		return err
	}

	flow := register.New(svc, sess, nav,
		register.WithLogger(log.Named("register")),
		register.WithPrinter(printer),
	)
	owner, err := flow.Submit(ctx, creds)
	if err != nil {
		var verr *register.ValidationError
		if errors.As(err, &verr) {
			return errors.New(verr.Message)
		}
		return err
	}
	fmt.Println(printer.T(i18n.Welcome, owner.Username))
	return nil
}
