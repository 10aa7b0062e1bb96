package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"

	QueueDriverMemory = "memory"
	QueueDriverKafka  = "kafka"
)

type Config struct {
	Server    ServerConfig
	DB        DBConfig
	Store     StoreConfig
	CORS      CORSConfig
	Log       LogConfig
	Queue     QueueConfig
	Relay     RelayConfig
	Saga      SagaConfig
	Payment   PaymentConfig
	Sweeper   SweeperConfig
	Telemetry TelemetryConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER"`
	Password string `envconfig:"DB_PASSWORD"`
	DBName   string `envconfig:"DB_NAME"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
	Migrate  bool   `envconfig:"DB_MIGRATE" default:"true"`
}

type StoreConfig struct {
	Driver string `envconfig:"STORE_DRIVER" default:"postgres"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Idempotency-Key"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,Idempotency-Replayed"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

type QueueConfig struct {
	Driver         string        `envconfig:"QUEUE_DRIVER" default:"memory"`
	Concurrency    int           `envconfig:"QUEUE_CONCURRENCY" default:"4"`
	DefaultBackoff time.Duration `envconfig:"QUEUE_DEFAULT_BACKOFF" default:"1s"`
	KafkaBrokers   []string      `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	KafkaGroupID   string        `envconfig:"KAFKA_GROUP_ID" default:"order-fulfillment"`
}

type RelayConfig struct {
	Enabled      bool          `envconfig:"RELAY_ENABLED" default:"true"`
	PollInterval time.Duration `envconfig:"RELAY_POLL_INTERVAL" default:"1s"`
	BatchSize    int           `envconfig:"RELAY_BATCH_SIZE" default:"50"`
	MaxAttempts  int           `envconfig:"RELAY_MAX_ATTEMPTS" default:"5"`
	RetryBackoff time.Duration `envconfig:"RELAY_RETRY_BACKOFF" default:"2s"`
	ClaimTimeout time.Duration `envconfig:"RELAY_CLAIM_TIMEOUT" default:"5m"`
	JobAttempts  int           `envconfig:"RELAY_JOB_ATTEMPTS" default:"3"`
	JobBackoff   time.Duration `envconfig:"RELAY_JOB_BACKOFF" default:"2s"`
}

type SagaConfig struct {
	ReservationTTL         time.Duration `envconfig:"SAGA_RESERVATION_TTL" default:"15m"`
	DefaultLocation        string        `envconfig:"SAGA_DEFAULT_LOCATION" default:"main"`
	RetryBaseDelay         time.Duration `envconfig:"SAGA_RETRY_BASE_DELAY" default:"200ms"`
	RetryMaxDelay          time.Duration `envconfig:"SAGA_RETRY_MAX_DELAY" default:"5s"`
	RetryMaxAttempts       int           `envconfig:"SAGA_RETRY_MAX_ATTEMPTS" default:"3"`
	MaxPaymentRounds       int           `envconfig:"SAGA_MAX_PAYMENT_ROUNDS" default:"5"`
	RequeueDelay           time.Duration `envconfig:"SAGA_REQUEUE_DELAY" default:"30s"`
	CompensationAttempts   int           `envconfig:"SAGA_COMPENSATION_MAX_ATTEMPTS" default:"5"`
	CompensationBaseDelay  time.Duration `envconfig:"SAGA_COMPENSATION_BASE_DELAY" default:"500ms"`
	ProcessOrderAttempts   int           `envconfig:"SAGA_JOB_ATTEMPTS" default:"5"`
	ProcessOrderJobBackoff time.Duration `envconfig:"SAGA_JOB_BACKOFF" default:"2s"`
}

type PaymentConfig struct {
	Timeout          time.Duration   `envconfig:"PAYMENT_TIMEOUT" default:"5s"`
	SimulatedLatency time.Duration   `envconfig:"PAYMENT_SIMULATED_LATENCY" default:"50ms"`
	FraudThreshold   decimal.Decimal `envconfig:"PAYMENT_FRAUD_THRESHOLD" default:"10000"`
	RateLimit        int             `envconfig:"PAYMENT_RATE_LIMIT" default:"10"`
	RateWindow       time.Duration   `envconfig:"PAYMENT_RATE_WINDOW" default:"1m"`
	BreakerTripAfter uint32          `envconfig:"PAYMENT_BREAKER_TRIP_AFTER" default:"3"`
	BreakerWindow    time.Duration   `envconfig:"PAYMENT_BREAKER_WINDOW" default:"1m"`
	BreakerCooldown  time.Duration   `envconfig:"PAYMENT_BREAKER_COOLDOWN" default:"30s"`
	BreakerProbes    uint32          `envconfig:"PAYMENT_BREAKER_PROBES" default:"1"`
}

type SweeperConfig struct {
	Enabled   bool          `envconfig:"SWEEPER_ENABLED" default:"true"`
	Interval  time.Duration `envconfig:"SWEEPER_INTERVAL" default:"30s"`
	BatchSize int           `envconfig:"SWEEPER_BATCH_SIZE" default:"100"`
}

type TelemetryConfig struct {
	Endpoint    string `envconfig:"OTEL_ENDPOINT"`
	URLPath     string `envconfig:"OTEL_TRACES_PATH" default:"/v1/traces"`
	ServiceName string `envconfig:"OTEL_SERVICE_NAME" default:"order-fulfillment"`
	Insecure    bool   `envconfig:"OTEL_INSECURE" default:"true"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if cfg.Store.Driver == StoreDriverPostgres && (cfg.DB.User == "" || cfg.DB.DBName == "") {
		return Config{}, fmt.Errorf("DB_USER and DB_NAME are required when STORE_DRIVER=%s", StoreDriverPostgres)
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
			MaxConns: 10,
		},
		Store: StoreConfig{Driver: StoreDriverMemory},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeZone:   "UTC",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		Queue: QueueConfig{
			Driver:         QueueDriverMemory,
			Concurrency:    2,
			DefaultBackoff: 10 * time.Millisecond,
		},
		Relay: RelayConfig{
			Enabled:      false,
			PollInterval: 20 * time.Millisecond,
			BatchSize:    10,
			MaxAttempts:  3,
			RetryBackoff: 10 * time.Millisecond,
			ClaimTimeout: time.Minute,
			JobAttempts:  3,
			JobBackoff:   10 * time.Millisecond,
		},
		Saga: SagaConfig{
			ReservationTTL:         15 * time.Minute,
			DefaultLocation:        "main",
			RetryBaseDelay:         time.Millisecond,
			RetryMaxDelay:          5 * time.Millisecond,
			RetryMaxAttempts:       3,
			MaxPaymentRounds:       5,
			RequeueDelay:           10 * time.Millisecond,
			CompensationAttempts:   3,
			CompensationBaseDelay:  time.Millisecond,
			ProcessOrderAttempts:   3,
			ProcessOrderJobBackoff: 10 * time.Millisecond,
		},
		Payment: PaymentConfig{
			Timeout:          200 * time.Millisecond,
			SimulatedLatency: 0,
			FraudThreshold:   decimal.NewFromInt(10000),
			RateLimit:        10,
			RateWindow:       time.Minute,
			BreakerTripAfter: 3,
			BreakerWindow:    time.Minute,
			BreakerCooldown:  50 * time.Millisecond,
			BreakerProbes:    1,
		},
		Sweeper: SweeperConfig{
			Enabled:   false,
			Interval:  20 * time.Millisecond,
			BatchSize: 100,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "order-fulfillment-test",
			URLPath:     "/v1/traces",
		},
	}
}
