package main

import (
	"database/sql"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"booking-route-service/internal/adapters/repositories"
	"booking-route-service/internal/config"
	"booking-route-service/internal/platform/db"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal().Msg("DATABASE_URL is required")
	}

	database, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect db")
	}
	defer database.Close()

	if err := initAndSeed(database, cfg.SeedPath); err != nil {
		log.Fatal().Err(err).Msg("db setup failed")
	}
}

func initAndSeed(database *sql.DB, seedPath string) error {
	log.Info().Msg("Initializing database schema...")
	if err := repositories.InitSchema(database); err != nil {
		return err
	}
	log.Info().Msg("Schema ready.")

	log.Info().Str("path", seedPath).Msg("Seeding database...")
	if err := repositories.SeedFromJSON(database, seedPath); err != nil {
		return err
	}
	log.Info().Msg("Seeding complete.")

	return nil
}
