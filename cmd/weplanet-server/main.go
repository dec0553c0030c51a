package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/weplanet/weplanet/pkg/weplanet/auth"
	"github.com/weplanet/weplanet/pkg/weplanet/badges"
	"github.com/weplanet/weplanet/pkg/weplanet/config"
	"github.com/weplanet/weplanet/pkg/weplanet/database"
	"github.com/weplanet/weplanet/pkg/weplanet/logging"
	"github.com/weplanet/weplanet/pkg/weplanet/models"
	"github.com/weplanet/weplanet/pkg/weplanet/server"
)

// @title WePlanet API
// @version 1.0
// @description Household eco-activity tracking with families, points, levels and badges.

// @contact.name WePlanet Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token or API key. Format: "Bearer {token}"

func main() {
	cfg, warnings := config.Load()

	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	for _, w := range warnings {
		log.Warn().Msg(w)
	}
	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is not set, using the development secret")
	}
	auth.Configure(cfg.JWTSecret, cfg.JWTTTL)
	auth.SetRefreshTTL(cfg.JWTRefreshTTL)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseDSN); err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DatabaseDriver).Msg("failed to connect to database")
	}

	if err := models.AutoMigrate(database.GetDB()); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	log.Info().Msg("database migrations completed")

	if cfg.SeedBadges {
		svc := badges.NewService(database.GetDB())
		if _, err := svc.SeedDefaults(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("failed to seed badges")
		}
		if _, err := svc.SeedMissions(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("failed to seed missions")
		}
	}

	r := server.NewRouter(database.GetDB(), cfg)

	log.Info().Str("port", cfg.Port).Str("environment", cfg.Environment).Msg("starting WePlanet server")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
