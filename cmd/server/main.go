package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"

	"github.com/renterra/backoffice/internal/server"
	"github.com/renterra/backoffice/modules"
	"github.com/renterra/backoffice/pkg/application"
	"github.com/renterra/backoffice/pkg/authz"
	"github.com/renterra/backoffice/pkg/configuration"
	"github.com/renterra/backoffice/pkg/eventbus"
	"github.com/renterra/backoffice/pkg/metrics"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	logger := conf.Logger()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		panic(err)
	}
	defer pool.Close()

	authzService, err := authz.NewService(authz.Config{
		ModelPath:  conf.Authz.ModelPath,
		PolicyPath: conf.Authz.PolicyPath,
		Logger:     logger,
	})
	if err != nil {
		log.Fatalf("failed to load access policy: %v", err)
	}

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
		Authz:    authzService,
	})
	if err := modules.Load(app, modules.BuiltInModules...); err != nil {
		log.Fatalf("failed to load modules: %v", err)
	}

	if err := applyMigrations(app, conf); err != nil {
		log.Fatalf("failed to apply migrations: %v", err)
	}

	if conf.Prometheus.Enabled {
		app.RegisterControllers(metrics.NewPrometheusController(conf.Prometheus.Path))
	}

	serverInstance, err := server.Default(&server.DefaultOptions{
		Logger:        logger,
		Configuration: conf,
		Application:   app,
		Pool:          pool,
	})
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second*10)
		defer shutdownCancel()
		if err := serverInstance.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("server shutdown failed")
		}
	}()

	log.Printf("Listening on: %s\n", conf.SocketAddress)
	if err := serverInstance.Start(conf.SocketAddress); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("failed to start server: %v", err)
	}
}

func applyMigrations(app application.Application, conf *configuration.Configuration) error {
	db, err := sql.Open("postgres", conf.Database.ConnectionString())
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()
	return app.Migrations().Apply(db)
}
