package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/getshort/getshort/internal/cache"
	"github.com/getshort/getshort/internal/config"
	"github.com/getshort/getshort/internal/db"
	"github.com/getshort/getshort/internal/geo"
	"github.com/getshort/getshort/internal/handlers"
	"github.com/getshort/getshort/internal/logs"
	"github.com/getshort/getshort/internal/tracking"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}

	log := logs.New(cfg.LogLevel, cfg.IsProduction())

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer database.Close()

	geoReader, err := geo.Open(cfg.GeoIPPath)
	if err != nil {
		log.Warnf("geo: %v (geo lookups disabled)", err)
		geoReader, _ = geo.Open("")
	}
	defer geoReader.Close()

	urlCache, err := cache.New(cfg.CacheSize)
	if err != nil {
		log.Fatalf("cache: %v", err)
	}

	recorder := tracking.NewRecorder(database, geoReader)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handlers.NewRouter(database, cfg, urlCache, recorder, log),
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Infof("getshort listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	<-stop
	log.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("server shutdown: %v", err)
	}
	log.Info("goodbye")
}
