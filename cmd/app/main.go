package main

import (
	"stayops/config"
	"stayops/di"
	"stayops/helper"
	"stayops/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title stayops API
// @version 1.0
// @description Room inventory, bookings, allocation and folios for lodging properties.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
