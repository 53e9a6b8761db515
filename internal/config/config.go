// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Admin credentials are carried here explicitly
// and handed to the routing layer at startup; there is no process-wide
// mutable singleton.
type Config struct {
	Env           string // application environment (e.g. "dev", "prod")
	Port          string // HTTP port to listen on
	DBUser        string // database username
	DBPass        string // database password (optional)
	DBHost        string // database host address
	DBPort        string // database port number
	DBName        string // database name
	JWTSecret     string // secret used to sign access tokens
	AccessTTLMin  int    // access token time-to-live in minutes
	BcryptCost    int    // bcrypt cost for password hashing
	AdminUsername string // admin account name for gated endpoints
	AdminPassword string // admin account password (hashed at startup)

	// Demo data simulation, disabled unless SIMULATION_ENABLED=true.
	SimulationEnabled     bool
	SimulationConfigFile  string  // JSON file describing the demo dataset
	SimulationSuccessProb float64 // probability a simulated completion lands in range
	SimulationLogPath     string  // where the interactions log is written
}

// Load reads configuration from the environment.  A local .env file is
// applied first when present so development setups need no exported
// variables.  Required values are enforced by must() and missing ones cause
// the program to exit with a fatal log message.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: skipping .env: %v", err)
	}
	return Config{
		Env:           getenv("APP_ENV", "dev"),
		Port:          getenv("APP_PORT", "5000"),
		DBUser:        must("DB_USER"),
		DBPass:        os.Getenv("DB_PASS"),
		DBHost:        must("DB_HOST"),
		DBPort:        must("DB_PORT"),
		DBName:        must("DB_NAME"),
		JWTSecret:     must("JWT_SECRET"),
		AccessTTLMin:  intenv("ACCESS_TOKEN_TTL_MIN", 30),
		BcryptCost:    intenv("BCRYPT_COST", 10),
		AdminUsername: getenv("ADMIN_USERNAME", "admin"),
		AdminPassword: must("ADMIN_PASSWORD"),

		SimulationEnabled:     getenv("SIMULATION_ENABLED", "false") == "true",
		SimulationConfigFile:  getenv("SIMULATION_CONFIG_FILE", "data/test_data_config.json"),
		SimulationSuccessProb: floatenv("SIMULATION_SUCCESS_PROBABILITY", 0.8),
		SimulationLogPath:     getenv("SIMULATION_INTERACTIONS_PATH", "data/interactions.json"),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intenv(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func floatenv(key string, def float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		log.Fatalf("invalid float for %s: %q", key, s)
	}
	return f
}
