// internal/config/config.go
//
// Environment configuration.
// A .env file in the working directory is loaded first when present;
// variables already set in the environment win.
//
// Variables:
//   LOG_LEVEL     zerolog level name (default "info")
//   LOG_FORMAT    "console" for human-readable output, anything else for JSON
//   LEVELS_FILE   JSON level catalog replacing the embedded one
//   RESULTS_DB    SQLite ledger path (default ./data/results.db, empty disables)
//   ENTROPY_SALT  server salt for per-match entropy seeds (random when unset)
//   AGENT_ID      default agent id for the CLI

package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const DefaultResultsDB = "./data/results.db"

type Config struct {
	LogLevel    string
	LogFormat   string
	LevelsFile  string
	ResultsDB   string
	EntropySalt string
	AgentID     string
}

// Load reads .env (if any) and the process environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the process environment only.
func FromEnv() Config {
	c := Config{
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),
		LevelsFile:  os.Getenv("LEVELS_FILE"),
		ResultsDB:   DefaultResultsDB,
		EntropySalt: os.Getenv("ENTROPY_SALT"),
		AgentID:     getEnv("AGENT_ID", "Unknown"),
	}
	if v, ok := os.LookupEnv("RESULTS_DB"); ok {
		c.ResultsDB = v
	}
	return c
}

// SetupLogging applies the level and output format to the global logger.
func (c Config) SetupLogging() {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	if c.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
