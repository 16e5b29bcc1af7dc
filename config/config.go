package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Storage types understood by the store factory.
const (
	StorageCSV    = "csv"
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

type Config struct {
	StorageType    string
	StoragePath    string
	DataSourceName string
	LogLevel       string
	LogFormat      string
}

// Load reads configuration from a .env file (if present) and the
// environment, falling back to defaults.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		StorageType:    getEnv("STORAGE_TYPE", StorageCSV),
		StoragePath:    getEnv("STORAGE_PATH", "bookings_final_state.csv"),
		DataSourceName: getEnv("DATA_SOURCE_NAME", "rooms.db"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
