package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/tilawat/internal/config"
	"github.com/Nixie-Tech-LLC/tilawat/internal/likes"
)

// InitLikes selects and returns the configured liked-items backend
func InitLikes(cfg *config.Config) *likes.Repository {
	var (
		backend likes.Backend
		err     error
	)
	switch cfg.LikesBackend {
	case config.LikesMemory:
		backend = likes.NewMemoryBackend()
	case config.LikesFile:
		backend, err = likes.NewFileBackend(cfg.LikesPath)
	case config.LikesRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		backend, err = likes.NewRedisBackend(ctx, cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword)
	case config.LikesPostgres:
		backend, err = likes.OpenSQL(likes.DriverPostgres, cfg.DatabaseURL, cfg.MigrationsPath)
	case config.LikesSQLite:
		backend, err = likes.OpenSQL(likes.DriverSQLite, cfg.DatabaseURL, cfg.MigrationsPath)
	}
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.LikesBackend).Msg("failed to initialize likes storage")
	}
	log.Info().Str("backend", cfg.LikesBackend).Msg("likes storage ready")
	return likes.NewRepository(backend)
}
