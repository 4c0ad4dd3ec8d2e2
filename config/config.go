package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type Config struct {
	Env      string `validate:"oneof=development production test"`
	Port     string `validate:"required,numeric"`
	LogLevel string `validate:"oneof=debug info warn error"`
	Location *time.Location

	DB    DBConfig
	Auth  AuthConfig
	HTTP  HTTPConfig
	Redis RedisConfig
	SMTP  SMTPConfig

	UploadDir string `validate:"required"`

	Pricing PricingConfig

	// StrictTransitions rejects booking status changes off the forward path unless forced.
	StrictTransitions bool
	SeedSampleData    bool
}

type DBConfig struct {
	DSN             string `validate:"required"`
	Name            string
	LogLevel        string        `validate:"oneof=silent error warn info"`
	MaxOpenConns    int           `validate:"min=1"`
	MaxIdleConns    int           `validate:"min=0"`
	ConnMaxLifetime time.Duration `validate:"gt=0"`
}

type AuthConfig struct {
	JWTSecret     string        `validate:"required,min=16"`
	TokenTTL      time.Duration `validate:"gt=0"`
	AdminUsername string        `validate:"required"`
	AdminPassword string        `validate:"required,min=6"`
	AdminFullName string
}

type HTTPConfig struct {
	CORSOrigins        []string      `validate:"min=1"`
	RateLimitPerMinute int           `validate:"min=0"`
	RateLimitBurst     int           `validate:"min=0"`
	ReadTimeout        time.Duration `validate:"gt=0"`
	WriteTimeout       time.Duration `validate:"gt=0"`
	MaxUploadBytes     int64         `validate:"gt=0"`
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int           `validate:"min=0"`
	TTL      time.Duration `validate:"gte=0"`
}

// Enabled reports whether a Redis address was configured.
func (r RedisConfig) Enabled() bool { return r.Addr != "" }

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	FromName string
}

type PricingConfig struct {
	AmenitiesPerNight bool
	MinorUnitDigits   int32 `validate:"min=0,max=4"`
}

// Load reads .env (optional) and the process environment into a validated Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}

	dsn, dbName, err := resolveMySQLDSN()
	if err != nil {
		return nil, errors.Wrap(err, "resolve mysql dsn")
	}

	loc, err := time.LoadLocation(envOrDefault("TZ_REPORTING", "UTC"))
	if err != nil {
		return nil, errors.Wrap(err, "load reporting location")
	}

	cfg := &Config{
		Env:      envOrDefault("APP_ENV", "development"),
		Port:     envOrDefault("PORT", "8080"),
		LogLevel: envOrDefault("LOG_LEVEL", "info"),
		Location: loc,
		DB: DBConfig{
			DSN:             dsn,
			Name:            dbName,
			LogLevel:        envOrDefault("DB_LOG_LEVEL", "warn"),
			MaxOpenConns:    envInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    envInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Auth: AuthConfig{
			JWTSecret:     os.Getenv("JWT_SECRET"),
			TokenTTL:      envDuration("JWT_TTL", 12*time.Hour),
			AdminUsername: envOrDefault("ADMIN_USERNAME", "admin@hotel.local"),
			AdminPassword: os.Getenv("ADMIN_PASSWORD"),
			AdminFullName: envOrDefault("ADMIN_FULL_NAME", "Admin User"),
		},
		HTTP: HTTPConfig{
			CORSOrigins:        parseCorsOrigins(os.Getenv("CORS_ORIGINS")),
			RateLimitPerMinute: envInt("RATE_LIMIT_PER_MINUTE", 300),
			RateLimitBurst:     envInt("RATE_LIMIT_BURST", 50),
			ReadTimeout:        envDuration("HTTP_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:       envDuration("HTTP_WRITE_TIMEOUT", 20*time.Second),
			MaxUploadBytes:     int64(envInt("MAX_UPLOAD_MB", 20)) << 20,
		},
		Redis: RedisConfig{
			Addr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       envInt("REDIS_DB", 0),
			TTL:      envDuration("ROOM_CACHE_TTL", 5*time.Minute),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     os.Getenv("SMTP_PORT"),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			FromName: os.Getenv("SMTP_FROM_NAME"),
		},
		UploadDir: envOrDefault("UPLOAD_DIR", "uploads"),
		Pricing: PricingConfig{
			AmenitiesPerNight: envBool("PRICING_AMENITIES_PER_NIGHT", false),
			MinorUnitDigits:   int32(envInt("PRICING_MINOR_UNIT_DIGITS", 2)),
		},
		StrictTransitions: envBool("BOOKING_STRICT_TRANSITIONS", false),
		SeedSampleData:    envBool("SEED_SAMPLE_DATA", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("warning: %s=%q is not an integer, using %d", key, raw, def)
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("warning: %s=%q is not a boolean, using %t", key, raw, def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("warning: %s=%q is not a duration, using %s", key, raw, def)
		return def
	}
	return d
}

func parseCorsOrigins(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func mysqlDSNFromURL(raw string) (string, string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "UTC")
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode())
	return dsn, dbName, nil
}

func resolveMySQLDSN() (string, string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, strings.TrimSpace(os.Getenv("DB_NAME")), nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := os.Getenv("DB_PASS")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "hotel_admin")

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		user, pass, host, port, dbName,
	)
	return dsn, dbName, nil
}
