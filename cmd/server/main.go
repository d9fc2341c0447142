package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/tilawat/internal/app"
	"github.com/Nixie-Tech-LLC/tilawat/internal/config"
	"github.com/Nixie-Tech-LLC/tilawat/internal/events"
	"github.com/Nixie-Tech-LLC/tilawat/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/tilawat/internal/quranapi"
	"github.com/Nixie-Tech-LLC/tilawat/internal/render"
)

const catalogCacheSize = 1024

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.Development() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func initEvents(cfg *config.Config) events.Publisher {
	if cfg.MQTTBroker == "" {
		return events.Noop{}
	}
	pub, err := events.NewMQTTPublisher(cfg.MQTTBroker, cfg.MQTTClientID)
	if err != nil {
		log.Warn().Err(err).Str("broker", cfg.MQTTBroker).Msg("MQTT unavailable, events disabled")
		return events.Noop{}
	}
	return pub
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogging(cfg)

	client, err := quranapi.NewClient(cfg.APIBaseURL, quranapi.WithTimeout(cfg.RequestTimeout))
	if err != nil {
		log.Fatal().Err(err).Msg("api client")
	}
	renderer, err := render.New()
	if err != nil {
		log.Fatal().Err(err).Msg("templates")
	}

	repo := InitLikes(cfg)
	defer repo.Close()

	publisher := initEvents(cfg)
	defer publisher.Close()

	site := &app.Site{
		API:      client,
		Renderer: renderer,
		Likes:    repo,
		Catalogs: app.NewCatalogs(client, catalogCacheSize, cfg.CatalogTTL),
		Events:   publisher,
	}

	if !cfg.Development() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())
	RegisterRoutes(r, cfg, site)

	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("address", cfg.ServerAddress).Str("api", cfg.APIBaseURL).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-done
	log.Info().Msg("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		_ = srv.Close()
	}
}
