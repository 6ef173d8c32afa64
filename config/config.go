package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every runtime setting the server needs. It is built once at
// startup and passed down explicitly; nothing reads the environment after Load.
type Config struct {
	ServerPort string

	MongoURI    string
	MongoDB     string
	SeedOnStart bool
	SeedDir     string

	JWTSecret string
	TokenTTL  time.Duration

	RateLimitMax    int
	RateLimitWindow time.Duration

	AMQPURL    string
	EventQueue string

	LogLevel  string
	LogFormat string

	AllowedOrigins []string
}

// Load reads an optional .env file and the process environment. Defaults are
// suitable for local development against a docker-compose MongoDB.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGODB_DATABASE", "dealershipsDB")
	viper.SetDefault("SEED_ON_START", true)
	viper.SetDefault("SEED_DIR", "data")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("TOKEN_TTL", "24h")
	viper.SetDefault("RATE_LIMIT_MAX", 100)
	viper.SetDefault("RATE_LIMIT_WINDOW", "1m")
	viper.SetDefault("EVENTS_AMQP_URL", "")
	viper.SetDefault("EVENTS_QUEUE", "review_events")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
	viper.SetDefault("ALLOWED_ORIGINS", []string{"http://localhost:3000"})
	viper.AutomaticEnv()

	return Config{
		ServerPort:      viper.GetString("SERVER_PORT"),
		MongoURI:        viper.GetString("MONGODB_URI"),
		MongoDB:         viper.GetString("MONGODB_DATABASE"),
		SeedOnStart:     viper.GetBool("SEED_ON_START"),
		SeedDir:         viper.GetString("SEED_DIR"),
		JWTSecret:       viper.GetString("JWT_SECRET"),
		TokenTTL:        viper.GetDuration("TOKEN_TTL"),
		RateLimitMax:    viper.GetInt("RATE_LIMIT_MAX"),
		RateLimitWindow: viper.GetDuration("RATE_LIMIT_WINDOW"),
		AMQPURL:         viper.GetString("EVENTS_AMQP_URL"),
		EventQueue:      viper.GetString("EVENTS_QUEUE"),
		LogLevel:        viper.GetString("LOG_LEVEL"),
		LogFormat:       viper.GetString("LOG_FORMAT"),
		AllowedOrigins:  viper.GetStringSlice("ALLOWED_ORIGINS"),
	}
}
