// main.go
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"product-registry/config"
	"product-registry/logger"
	"product-registry/metrics"
	"product-registry/routes"
	"product-registry/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped with error")
	}
}

func run(cfg config.Config, log *logrus.Logger) error {
	gin.SetMode(cfg.GinMode)

	reg, closeStore, err := openRegistry(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	ctx := context.Background()
	if cfg.SeedProducts {
		n, err := store.Seed(ctx, reg, store.DefaultProducts)
		if err != nil {
			return fmt.Errorf("seed products: %w", err)
		}
		log.WithField("inserted", n).Info("products_seeded")
	}

	m := metrics.New(func() float64 {
		n, err := reg.Count(context.Background())
		if err != nil {
			return 0
		}
		return float64(n)
	})

	router, err := routes.NewRouter(reg, routes.Options{
		Log:           log,
		Metrics:       m,
		AllowedOrigin: cfg.AllowedOrigin,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{"addr": srv.Addr, "store": cfg.StoreDriver}).Info("http_listen")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case s := <-sigc:
		log.WithField("signal", s.String()).Info("shutdown_signal")
	case err := <-errc:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	log.Info("service_stopped")
	return nil
}

// openRegistry builds the configured backend and a matching close func.
func openRegistry(cfg config.Config) (store.Registry, func(), error) {
	if cfg.StoreDriver != config.DriverSQLite {
		return store.NewMemoryRegistry(), func() {}, nil
	}
	db, err := config.OpenDB(cfg.SQLitePath)
	if err != nil {
		return nil, nil, err
	}
	return store.NewSQLiteRegistry(db), func() { closeDB(db) }, nil
}

func closeDB(db *sql.DB) {
	if err := db.Close(); err != nil {
		logrus.WithError(err).Warn("close database")
	}
}
