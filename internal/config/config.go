package config

import (
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Database DatabaseConfig
	Cache    CacheConfig
	AI       AIConfig
	Forecast ForecastConfig
	LogLevel string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled            bool
	RedisURL           string
	RedisHost          string
	RedisPort          string
	RedisPassword      string
	RedisDB            int
	ForecastTTLSeconds int
}

// AIConfig describes the optional language-model backend for query
// interpretation. An empty APIKey (or Disabled set, as tests do) means the
// interpreter runs in rules-only mode.
type AIConfig struct {
	APIKey         string
	Model          string
	TimeoutSeconds int
	Disabled       bool
}

// Timeout bounds a single model call.
func (c AIConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}

	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ForecastConfig holds the default tuning windows for the forecast engine.
type ForecastConfig struct {
	LookbackDays int
	TargetDays   int
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "stocklens")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_FORECAST_TTL_SECONDS", 60)
		viper.SetDefault("GEMINI_API_KEY", "")
		viper.SetDefault("GEMINI_MODEL", "gemini-2.0-flash")
		viper.SetDefault("AI_TIMEOUT_SECONDS", 10)
		viper.SetDefault("AI_DISABLED", false)
		viper.SetDefault("FORECAST_LOOKBACK_DAYS", 30)
		viper.SetDefault("FORECAST_TARGET_DAYS", 14)
		viper.SetDefault("LOG_LEVEL", "info")

		// Read from environment variables
		viper.AutomaticEnv()

		instance = &Config{
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:            viper.GetBool("CACHE_ENABLED"),
				RedisURL:           viper.GetString("REDIS_URL"),
				RedisHost:          viper.GetString("REDIS_HOST"),
				RedisPort:          viper.GetString("REDIS_PORT"),
				RedisPassword:      viper.GetString("REDIS_PASSWORD"),
				RedisDB:            viper.GetInt("REDIS_DB"),
				ForecastTTLSeconds: viper.GetInt("CACHE_FORECAST_TTL_SECONDS"),
			},
			AI: AIConfig{
				APIKey:         viper.GetString("GEMINI_API_KEY"),
				Model:          viper.GetString("GEMINI_MODEL"),
				TimeoutSeconds: viper.GetInt("AI_TIMEOUT_SECONDS"),
				Disabled:       viper.GetBool("AI_DISABLED"),
			},
			Forecast: ForecastConfig{
				LookbackDays: viper.GetInt("FORECAST_LOOKBACK_DAYS"),
				TargetDays:   viper.GetInt("FORECAST_TARGET_DAYS"),
			},
			LogLevel: viper.GetString("LOG_LEVEL"),
		}
	})

	return instance
}
