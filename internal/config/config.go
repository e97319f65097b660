package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config carries process-level settings for the batch runner and tools.
// Algorithm tuning knobs (speeds, thresholds, conversion constants) live on
// the service option structs; this is environment wiring only.
type Config struct {
	Env               string        `mapstructure:"ENV"`
	DatabaseURL       string        `mapstructure:"DATABASE_URL"`
	ORSAPIKey         string        `mapstructure:"ORS_API_KEY"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
	SeedPath          string        `mapstructure:"SEED_PATH"`
	OracleRateLimit   float64       `mapstructure:"ORACLE_RATE_LIMIT"`
	OracleCallTimeout time.Duration `mapstructure:"ORACLE_CALL_TIMEOUT"`
	ClusterRadiusMi   float64       `mapstructure:"CLUSTER_RADIUS_MILES"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	v.SetDefault("ENV", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SEED_PATH", "data/seeds/bookings.json")
	v.SetDefault("ORACLE_RATE_LIMIT", 5.0)
	v.SetDefault("ORACLE_CALL_TIMEOUT", "10s")
	v.SetDefault("CLUSTER_RADIUS_MILES", 10.0)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
