package config // package config loads application configuration from environment variables

import (
	"log"  // log is used to report configuration errors and halt execution
	"os"   // os provides access to environment variables
	"time" // time parses duration-valued settings
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, durations for TTLs.
type Config struct {
	Env             string        // application environment (e.g. "dev", "prod")
	Port            string        // HTTP port to listen on
	DBUser          string        // database username
	DBPass          string        // database password (optional)
	DBHost          string        // database host address
	DBPort          string        // database port number
	DBName          string        // database name
	JWTSecret       string        // secret used to verify client bearer tokens
	UpstreamBaseURL string        // root URL of the lab backend API, e.g. https://lab.example.com/api
	UploadDir       string        // directory where prescription uploads are stored
	DraftTTL        time.Duration // lifetime of an untouched booking draft session
	SubmitLockTTL   time.Duration // upper bound on how long a submission may hold its lock
	CartTTL         time.Duration // lifetime of an untouched cart
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  TTLs accept Go
// duration syntax and fall back to sensible defaults.
func Load() Config {
	return Config{
		Env:             must("APP_ENV"),          // environment (dev/test/prod)
		Port:            must("APP_PORT"),         // port to bind the HTTP server
		DBUser:          must("DB_USER"),          // database user
		DBPass:          os.Getenv("DB_PASS"),     // database password (empty allowed)
		DBHost:          must("DB_HOST"),          // database host
		DBPort:          must("DB_PORT"),          // database port
		DBName:          must("DB_NAME"),          // database name
		JWTSecret:       must("JWT_SECRET"),       // secret used for verifying JWTs
		UpstreamBaseURL: must("UPSTREAM_BASE_URL"), // lab backend API root
		UploadDir:       getenvDefault("UPLOAD_DIR", "uploads"),
		DraftTTL:        durDefault("DRAFT_TTL", 30*time.Minute),
		SubmitLockTTL:   durDefault("SUBMIT_LOCK_TTL", time.Minute),
		CartTTL:         durDefault("CART_TTL", 7*24*time.Hour),
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

// getenvDefault returns the variable's value or def when unset.
func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// durDefault parses a duration-valued variable, returning def when the
// variable is unset or malformed.
func durDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid duration for %s: %q; using default %s", key, v, def)
		return def
	}
	return d
}
