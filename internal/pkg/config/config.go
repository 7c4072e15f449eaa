package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, backend URL), security settings
// - default: Values common across all environments (timezone, timeout, retry budgets), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server    ServerConfig
	DB        DBConfig
	CORS      CORSConfig
	Log       LogConfig
	JWT       JWTConfig
	Backend   BackendConfig
	Booking   BookingConfig
	Loyalty   LoyaltyConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Broker    BrokerConfig
	Jobs      JobsConfig
	Migrate   MigrateConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,Idempotency-Key"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,Idempotency-Key"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

// JWTConfig verifies the access tokens issued by the backend's auth service.
type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Issuer   string `envconfig:"JWT_ISSUER"`
	Audience string `envconfig:"JWT_AUDIENCE" default:"authenticated"`
	Duration string `envconfig:"JWT_DURATION" default:"1h"`
}

type BackendConfig struct {
	BaseURL     string        `envconfig:"BACKEND_BASE_URL" required:"true"`
	APIKey      string        `envconfig:"BACKEND_API_KEY"`
	CallTimeout time.Duration `envconfig:"BACKEND_CALL_TIMEOUT" default:"5s"`
	// CapacityRPC names the backend function that increments a lot's occupancy atomically.
	// Empty means the backend has none and the compare-and-set path is used.
	CapacityRPC string `envconfig:"BACKEND_CAPACITY_RPC"`
	TimeZone    string `envconfig:"BACKEND_TIMEZONE" default:"UTC"`
}

type BookingConfig struct {
	TimeZone               string        `envconfig:"BOOKING_TIMEZONE" default:"UTC"`
	SubmitMaxAttempts      int           `envconfig:"BOOKING_SUBMIT_MAX_ATTEMPTS" default:"3"`
	ReconcileMaxAttempts   int           `envconfig:"BOOKING_RECONCILE_MAX_ATTEMPTS" default:"3"`
	RetryBaseDelay         time.Duration `envconfig:"BOOKING_RETRY_BASE_DELAY" default:"200ms"`
	RetryMaxDelay          time.Duration `envconfig:"BOOKING_RETRY_MAX_DELAY" default:"2s"`
	IdempotencyKeyTTL      time.Duration `envconfig:"BOOKING_IDEMPOTENCY_TTL" default:"24h"`
	InFlightWindow         time.Duration `envconfig:"BOOKING_INFLIGHT_WINDOW" default:"30s"`
	DefaultDurationMinutes int           `envconfig:"BOOKING_DEFAULT_DURATION_MINUTES" default:"60"`
}

type LoyaltyConfig struct {
	PointsPerUnit int `envconfig:"LOYALTY_POINTS_PER_UNIT" default:"10"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type RateLimitConfig struct {
	Enabled        bool          `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	Capacity       int           `envconfig:"RATE_LIMIT_CAPACITY" default:"10"`
	RefillTokens   int           `envconfig:"RATE_LIMIT_REFILL_TOKENS" default:"1"`
	RefillInterval time.Duration `envconfig:"RATE_LIMIT_REFILL_INTERVAL" default:"6s"`
	TTL            time.Duration `envconfig:"RATE_LIMIT_TTL" default:"10m"`
	Prefix         string        `envconfig:"RATE_LIMIT_PREFIX" default:"rl:booking"`
}

type BrokerConfig struct {
	URL        string `envconfig:"RABBITMQ_URL"`
	Exchange   string `envconfig:"RABBITMQ_EXCHANGE" default:"bookings"`
	RoutingKey string `envconfig:"RABBITMQ_ROUTING_KEY" default:"booking.reconciliation_required"`
}

type JobsConfig struct {
	Enabled          bool          `envconfig:"JOBS_ENABLED" default:"true"`
	JanitorSchedule  string        `envconfig:"JOBS_JANITOR_SCHEDULE" default:"@every 15m"`
	AttemptRetention time.Duration `envconfig:"JOBS_ATTEMPT_RETENTION" default:"720h"`
}

type MigrateConfig struct {
	SchemaURL string `envconfig:"MIGRATE_SCHEMA_URL" default:"file://migrations/schema.sql"`
	DevURL    string `envconfig:"MIGRATE_DEV_URL" default:"docker://postgres/17/dev?search_path=public"`
	WorkDir   string `envconfig:"MIGRATE_WORKDIR" default:"."`
	AtlasBin  string `envconfig:"MIGRATE_ATLAS_BIN" default:"atlas"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func (c BookingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.TimeZone)
}

func (c BackendConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.TimeZone)
}

// LoadConfig reads an optional .env file, then the process environment.
// Variables already set in the environment win over the file.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 5,
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeZone:   "UTC",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Audience: "authenticated",
			Duration: "1h",
		},
		Backend: BackendConfig{
			BaseURL:     "http://localhost:18080",
			CallTimeout: 2 * time.Second,
			TimeZone:    "UTC",
		},
		Booking: BookingConfig{
			TimeZone:               "UTC",
			SubmitMaxAttempts:      3,
			ReconcileMaxAttempts:   3,
			RetryBaseDelay:         time.Millisecond,
			RetryMaxDelay:          5 * time.Millisecond,
			IdempotencyKeyTTL:      24 * time.Hour,
			InFlightWindow:         30 * time.Second,
			DefaultDurationMinutes: 60,
		},
		Loyalty: LoyaltyConfig{
			PointsPerUnit: 10,
		},
		RateLimit: RateLimitConfig{
			Enabled: false,
		},
		Jobs: JobsConfig{
			Enabled: false,
		},
	}
}
