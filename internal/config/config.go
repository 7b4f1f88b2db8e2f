package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Env   string
	Port  int
	Store string

	DBURL    string
	MongoURI string
	MongoDB  string

	JWTSecret           string
	JWTAccessTTLMinutes int
	JWTRefreshTTLDays   int
	PasswordPepper      string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	FeedCacheTTL  time.Duration

	OTELEndpoint    string
	ServiceName     string
	OTELSampleRatio float64

	SeedUserName     string
	SeedUserPassword string

	MaxBodyBytes int64
}

func Load() Config {
	return Config{
		Env:   getEnv("APP_ENV", "dev"),
		Port:  getEnvInt("PORT", 8080),
		Store: getEnv("STORE_DRIVER", StoreMongo),

		DBURL:    buildDBURL(),
		MongoURI: getEnv("MONGO_URI", "mongodb://127.0.0.1:27017"),
		MongoDB:  getEnv("MONGO_DB", "sharedfeed"),

		JWTSecret:           os.Getenv("JWT_SECRET"),
		JWTAccessTTLMinutes: getEnvInt("JWT_ACCESS_TTL_MINUTES", 15),
		JWTRefreshTTLDays:   getEnvInt("JWT_REFRESH_TTL_DAYS", 30),
		PasswordPepper:      os.Getenv("PASSWORD_PEPPER"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		FeedCacheTTL:  time.Duration(getEnvInt("FEED_CACHE_TTL_SECONDS", 0)) * time.Second,

		OTELEndpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ServiceName:     getEnv("OTEL_SERVICE_NAME", "sharedfeed-api"),
		OTELSampleRatio: getEnvRatio("OTEL_TRACES_SAMPLER_ARG", 1),

		SeedUserName:     os.Getenv("SEED_USER_NAME"),
		SeedUserPassword: os.Getenv("SEED_USER_PASSWORD"),

		MaxBodyBytes: int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),
	}
}

func (c Config) AccessTTL() time.Duration {
	return time.Duration(c.JWTAccessTTLMinutes) * time.Minute
}

func (c Config) RefreshTTL() time.Duration {
	return time.Duration(c.JWTRefreshTTLDays) * 24 * time.Hour
}

func buildDBURL() string {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		return v
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "sharedfeed")
	pass := getEnv("DB_PASSWORD", "sharedfeed")
	name := getEnv("DB_NAME", "sharedfeed")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %s=%q is not an integer, using %d\n", key, v, fallback)
			return fallback
		}

		return num
	}
	return fallback
}

// getEnvRatio reads a sampling ratio in [0, 1].
func getEnvRatio(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	num, err := strconv.ParseFloat(v, 64)
	if err != nil || num < 0 || num > 1 {
		fmt.Fprintf(os.Stderr, "config: %s=%q is not a ratio in [0,1], using %g\n", key, v, fallback)
		return fallback
	}

	return num
}
