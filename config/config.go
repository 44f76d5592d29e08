package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisHost     string
	RedisPassword string

	KafkaBroker      string
	ElasticsearchURL string

	SentryDSN string

	SMTPHost  string
	SMTPPort  int
	SMTPUser  string
	SMTPPass  string
	EmailFrom string

	JWTSecret      string
	JWTAlgorithm   string
	TokenExpiry    time.Duration
	SeedAdminPass  string
	SeedAdminEmail string
}

var AppConfig Config

func Load() {
	// Try loading .env from different locations
	envLocations := []string{
		".env",
		"config/.env",
		"../config/.env",
	}

	envLoaded := false
	for _, location := range envLocations {
		if err := godotenv.Load(location); err == nil {
			envLoaded = true
			break
		}
	}

	if !envLoaded {
		log.Println("No .env file found, using environment variables")
	}

	AppConfig = Config{
		Port: getEnvWithDefault("PORT", "8080"),

		DBHost:     getEnvWithDefault("DB_HOST", "localhost"),
		DBPort:     getEnvWithDefault("DB_PORT", "5432"),
		DBUser:     getEnvWithDefault("DB_USER", "postgres"),
		DBPassword: getEnvWithDefault("DB_PASSWORD", "postgres"),
		DBName:     getEnvWithDefault("DB_NAME", "case_management"),

		RedisHost:     getEnvWithDefault("REDIS_HOST", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		KafkaBroker:      getEnvWithDefault("KAFKA_BROKER", "localhost:9092"),
		ElasticsearchURL: getEnvWithDefault("ELASTICSEARCH_URL", "http://localhost:9200"),

		SentryDSN: os.Getenv("SENTRY_DSN"),

		SMTPHost:  getEnvWithDefault("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:  getEnvIntWithDefault("SMTP_PORT", 587),
		SMTPUser:  os.Getenv("SMTP_USER"),
		SMTPPass:  os.Getenv("SMTP_PASS"),
		EmailFrom: os.Getenv("EMAIL_FROM"),

		JWTSecret:      getEnvWithDefault("SECRET_KEY", "change-me-in-production"),
		JWTAlgorithm:   getEnvWithDefault("TOKEN_ALGORITHM", "HS256"),
		TokenExpiry:    time.Duration(getEnvIntWithDefault("TOKEN_EXPIRY_MINUTES", 30)) * time.Minute,
		SeedAdminPass:  getEnvWithDefault("SEED_ADMIN_PASSWORD", "admin123"),
		SeedAdminEmail: getEnvWithDefault("SEED_ADMIN_EMAIL", "admin@example.com"),
	}
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
	}
	return defaultValue
}

func DBConnString() string {
	return "host=" + AppConfig.DBHost +
		" port=" + AppConfig.DBPort +
		" user=" + AppConfig.DBUser +
		" password=" + AppConfig.DBPassword +
		" dbname=" + AppConfig.DBName +
		" sslmode=disable"
}
