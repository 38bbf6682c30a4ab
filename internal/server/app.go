// Package server initializes and runs the wayplan server: it opens the
// database, runs migrations, connects object storage, starts the change
// feed hub and serves the HTTP API until shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wayplan/wayplan/internal/blob"
	"github.com/wayplan/wayplan/internal/feed"
	"github.com/wayplan/wayplan/internal/logging"
	"github.com/wayplan/wayplan/internal/server/config"
	"github.com/wayplan/wayplan/internal/server/httpapi"
	"github.com/wayplan/wayplan/internal/server/repositories/repomanager"
	"github.com/wayplan/wayplan/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	hub    *feed.Hub
	server *http.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	store, err := blob.NewS3Store(ctx, blob.S3Config{
		RootUser:     c.S3RootUser,
		RootPassword: c.S3RootPassword,
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("object storage init error: %w", err)
	}

	hub := feed.NewHub(logger)

	us := services.NewUserService(db, rm, c)
	ms := services.NewMediaService(db, rm, store, hub, logger)
	ss := services.NewShareService(db, rm, store, c.PublicBaseURL)
	bs := services.NewBoardService(db, rm, hub)
	es := services.NewExpenseService(db, rm, hub)

	api := httpapi.New(logger, us, ms, ss, bs, es, hub, c.CORSAllowedOrigin)

	srv := &http.Server{
		Addr:    c.HTTPAddr,
		Handler: api.Routes(),
	}

	return &App{config: c, logger: logger, db: db, hub: hub, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled or an OS signal arrives. Shutdown
// order matters: the HTTP server drains first so feed subscribers can
// still unsubscribe, only then is the hub stopped and the DB closed.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting server", "addr", app.config.HTTPAddr)

	app.initSignalHandler(cancelFunc)

	hubCtx, stopHub := context.WithCancel(context.Background())
	go app.hub.Run(hubCtx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			app.logger.Error(ctx, "http server failed", "error", err.Error())
		}
	case <-ctx.Done():
		app.logger.Info(ctx, "shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.server.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "http shutdown failed", "error", err.Error())
		}
		<-errCh
	}

	stopHub()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close failed", "error", err.Error())
	}

	app.logger.Info(ctx, "server stopped")
}
