package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service desk.
type Config struct {
	App    AppConfig
	Data   DataConfig
	Logger LoggerConfig
	Admin  AdminConfig
}

// AppConfig controls application level behavior.
type AppConfig struct {
	Name string
	Env  string
}

// DataConfig holds catalog and export locations.
type DataConfig struct {
	Dir            string
	ExportDir      string
	SeedOnFirstRun bool
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AdminConfig defines the administrator gate parameters.
type AdminConfig struct {
	PIN        string
	BcryptCost int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name: getEnv("APP_NAME", "service-desk"),
			Env:  getEnv("APP_ENV", "development"),
		},
		Data: DataConfig{
			Dir:            getEnv("DATA_DIR", "data"),
			ExportDir:      getEnv("EXPORT_DIR", "exports"),
			SeedOnFirstRun: getEnvAsBool("SEED_ON_FIRST_RUN", true),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Admin: AdminConfig{
			PIN:        getEnv("ADMIN_PIN", "1234"),
			BcryptCost: getEnvAsInt("ADMIN_BCRYPT_COST", 10),
		},
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
