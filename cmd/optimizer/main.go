package main

import (
	"context"
	"flag"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"booking-route-service/internal/adapters/cache"
	"booking-route-service/internal/adapters/distance"
	"booking-route-service/internal/adapters/repositories"
	"booking-route-service/internal/config"
	"booking-route-service/internal/metrics"
	"booking-route-service/internal/platform/db"
	"booking-route-service/internal/ports"
	"booking-route-service/internal/services"
)

// main is the daily optimization composition root.
// It wires concrete adapters (Postgres, ORS) behind ports and runs one
// batch pass over the requested workers and day.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log.Logger = log.Level(level).With().Str("service", "booking-optimizer").Logger()

	var (
		dayFlag     = flag.String("day", time.Now().Format("2006-01-02"), "calendar day to optimize (YYYY-MM-DD)")
		workersFlag = flag.String("workers", "", "comma-separated worker IDs (required)")
		acceptFlag  = flag.Bool("accept", false, "accept every generated suggestion immediately")
	)
	flag.Parse()

	day, err := time.Parse("2006-01-02", *dayFlag)
	if err != nil {
		log.Fatal().Err(err).Str("day", *dayFlag).Msg("invalid -day")
	}

	workerIDs := splitWorkers(*workersFlag)
	if len(workerIDs) == 0 {
		log.Fatal().Msg("-workers is required")
	}

	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Fatal().Msg("DATABASE_URL is required")
	}

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect db")
	}
	defer database.Close()

	metrics.RegisterDefault()

	repo := repositories.NewPostgresBookingRepository(database)

	// Without an API key the engine runs entirely on haversine estimates,
	// which degrades route quality but never availability.
	var oracle ports.DistanceOracle
	if strings.TrimSpace(cfg.ORSAPIKey) == "" {
		oracle = distance.NewHaversineOracle()
		log.Warn().Msg("ORS_API_KEY not set; using haversine travel estimates")
	} else {
		travelCache := cache.NewSQLTravelCache(database)
		oracle, err = distance.NewORSOracle(cfg.ORSAPIKey, travelCache, cfg.OracleRateLimit)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to build ORS oracle")
		}
	}

	workflow := services.NewWorkflow(repo, services.WorkflowConfig{})

	req := services.DailyRunRequest{
		Day:                day,
		WorkerIDs:          workerIDs,
		Optimize:           services.OptimizeOptions{CallTimeout: cfg.OracleCallTimeout},
		ClusterRadiusMiles: cfg.ClusterRadiusMi,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	suggestions, reports, err := services.RunDailyOptimization(ctx, req, repo, oracle, workflow)
	if err != nil {
		log.Fatal().Err(err).Msg("daily optimization failed")
	}

	log.Info().
		Str("day", day.Format("2006-01-02")).
		Int("workers", len(workerIDs)).
		Int("suggestions", len(suggestions)).
		Msg("daily optimization complete")

	for _, r := range reports {
		log.Info().
			Str("worker_id", r.WorkerID).
			Int("jobs", r.JobCount).
			Int("unlocated", r.UnlocatedCount).
			Int("clusters", len(r.Clusters)).
			Bool("spread_out", r.SpreadOut()).
			Msg("worker day report")
	}

	for _, s := range suggestions {
		evt := log.Info().
			Str("suggestion_id", s.ID).
			Str("worker_id", s.WorkerID).
			Dur("time_saved", s.Savings.TimeSaved()).
			Float64("miles_saved", s.Savings.DistanceSavedMiles).
			Float64("fuel_saved_dollars", s.Savings.FuelSavedDollars).
			Float64("carbon_saved_kg", s.Savings.CarbonSavedKg)

		if *acceptFlag {
			if err := workflow.Accept(ctx, s); err != nil {
				log.Error().Err(err).Str("suggestion_id", s.ID).Msg("acceptance failed; suggestion left pending")
				continue
			}
			evt = evt.Str("state", string(s.State))
		}

		evt.Msg("suggestion")
	}
}

func splitWorkers(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
