// Command createadmin provisions the bootstrap administrator account. It is
// idempotent: when a user with the configured admin email already exists it
// does nothing and exits cleanly.
package main

import (
	"context"
	"time"

	"github.com/loadboard/access-api/internal/core/service"
	"github.com/loadboard/access-api/internal/infrastructure/config"
	mongorepo "github.com/loadboard/access-api/internal/infrastructure/db/mongo"
	"github.com/loadboard/access-api/pkg/logger"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{})
		l.Fatal().Err(err).Msg("config load failed")
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true})

	if cfg.Admin.Password == "" {
		log.Fatal().Msg("ADMIN_PASSWORD is required")
	}

	client, db, err := mongorepo.Connect(ctx, mongorepo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connect failed")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	userRepo := mongorepo.NewUserRepository(db)
	permRepo := mongorepo.NewPermissionRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}
	if err := permRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	users := service.NewUserService(
		userRepo,
		permRepo,
		mongorepo.NewSessionRepository(db),
		mongorepo.NewDataSessionRepository(db),
		log,
	)

	created, err := users.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password)
	if err != nil {
		log.Fatal().Err(err).Msg("admin bootstrap failed")
	}
	if !created {
		log.Info().Str("email", cfg.Admin.Email).Msg("admin already exists, nothing to do")
		return
	}
	log.Info().Str("email", cfg.Admin.Email).Msg("admin created")
}
