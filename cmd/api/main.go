package main

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/helioworks/solar-fleet-telemetry/internal/cloud"
	"github.com/helioworks/solar-fleet-telemetry/internal/config"
	"github.com/helioworks/solar-fleet-telemetry/internal/database"
	httpHandlers "github.com/helioworks/solar-fleet-telemetry/internal/http"
	"github.com/helioworks/solar-fleet-telemetry/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	db, err := database.Connect()
	if err != nil {
		log.Fatal().Err(err).Msg("db open failed")
	}
	defer db.Close()

	// Schema bootstrap is non-fatal: the API serves (and fails requests
	// with 500s) until the database comes back.
	if err := db.Ping(); err != nil {
		log.Error().Err(err).Msg("db unreachable at startup")
	} else if err := database.Migrate(db); err != nil {
		log.Error().Err(err).Msg("schema bootstrap failed")
	}

	svcs := service.New(db)

	if config.UseCloudServices() {
		ctx := context.Background()
		s3c, err := cloud.NewS3Client(ctx, config.AWSRegion(), config.S3Bucket())
		if err != nil {
			log.Fatal().Err(err).Msg("s3 client init failed")
		}
		snsc, err := cloud.NewSNSClient(ctx, config.AWSRegion(), config.SNSTopicArn())
		if err != nil {
			log.Fatal().Err(err).Msg("sns client init failed")
		}
		svcs.EnableCloud(s3c, snsc, config.DirtyAlertThreshold())
		log.Info().Msg("cloud services enabled")
	}

	app := fiber.New(fiber.Config{ErrorHandler: httpHandlers.ErrorHandler})

	httpHandlers.Register(app, svcs)

	addr := config.APIAddr()
	if addr == "" {
		addr = ":8080"
	}
	log.Info().Str("addr", addr).Msg("api listening")
	log.Fatal().Err(app.Listen(addr)).Msg("server exit")
}
