package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

type Config struct {
	Mode Mode

	Port string

	// LLM
	GCPProjectID string
	GCPLocation  string
	ModelName    string
	UseMockLLM   bool // true = use mock even on GCP

	// Session persistence: "memory", "file", "firestore" or "postgres"
	StorageBackend string
	SessionFile    string

	// Postgres backend
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Shopping API credentials
	RakutenAppID       string
	RakutenAffiliateID string
	YahooAppID         string

	// Pipeline tuning
	TurnThreshold int           // turns before extraction unlocks
	HitLimit      int           // max listings requested per adapter
	TopN          int           // default size of the ranked result set
	CallTimeout   time.Duration // per remote call (search / LLM)
}

// Load reads the .env file (if any) and env vars and builds the config.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	modeStr := getEnv("SHOPSCOUT_MODE", "local")
	var mode Mode
	switch modeStr {
	case "gcp":
		mode = ModeGCP
	default:
		mode = ModeLocal
	}

	cfg := &Config{
		Mode: mode,

		Port: getEnv("SHOPSCOUT_PORT", "8080"),

		GCPProjectID: getEnv("SHOPSCOUT_GCP_PROJECT", ""),
		GCPLocation:  getEnv("SHOPSCOUT_GCP_LOCATION", "us-central1"),
		ModelName:    getEnv("SHOPSCOUT_MODEL_NAME", "gemini-2.5-flash"),
		UseMockLLM:   getBoolEnv("SHOPSCOUT_USE_MOCK_LLM", mode == ModeLocal),

		StorageBackend: getEnv("SHOPSCOUT_STORAGE_BACKEND", "memory"),
		SessionFile:    getEnv("SHOPSCOUT_SESSION_FILE", "./sessions.json"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "shopscout"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", ""),
		PostgresDB:       getEnv("POSTGRES_DB", "shopscout"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RakutenAppID:       getEnv("RAKUTEN_APP_ID", ""),
		RakutenAffiliateID: getEnv("RAKUTEN_AFFILIATE_ID", ""),
		YahooAppID:         getEnv("YAHOO_APP_ID", ""),

		TurnThreshold: getIntEnv("SHOPSCOUT_TURN_THRESHOLD", 3),
		HitLimit:      getIntEnv("SHOPSCOUT_HIT_LIMIT", 5),
		TopN:          getIntEnv("SHOPSCOUT_TOP_N", 5),
		CallTimeout:   time.Duration(getIntEnv("SHOPSCOUT_CALL_TIMEOUT_MS", 8000)) * time.Millisecond,
	}

	// Minimal validation in GCP mode
	if cfg.Mode == ModeGCP && cfg.GCPProjectID == "" {
		log.Fatal("SHOPSCOUT_GCP_PROJECT must be set in gcp mode")
	}

	return cfg
}

// DSN returns the PostgreSQL connection string for the postgres backend.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}

func getIntEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
