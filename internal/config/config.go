package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type DatabaseConfig struct {
	Host       string `env:"DB_HOST" envDefault:"localhost"`
	User       string `env:"DB_USER" envDefault:"postgres"`
	Password   string `env:"DB_PASSWORD"`
	Name       string `env:"DB_NAME" envDefault:"fieldtime"`
	Port       string `env:"DB_PORT" envDefault:"5432"`
	SSLMode    string `env:"DB_SSLMODE" envDefault:"disable"`
	MaxRetries int    `env:"DB_MAX_RETRIES" envDefault:"5"`
}

type Config struct {
	Env              string        `env:"APP_ENV" envDefault:"development"`
	Port             string        `env:"PORT" envDefault:"3000"`
	JWTSecret        string        `env:"JWT_SECRET"`
	RedisAddr        string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	KafkaBroker      string        `env:"KAFKA_BROKER"`
	OperationTimeout time.Duration `env:"OPERATION_TIMEOUT" envDefault:"10s"`
	LocationTimeout  time.Duration `env:"LOCATION_TIMEOUT" envDefault:"3s"`
	SweepInterval    time.Duration `env:"SWEEP_INTERVAL" envDefault:"1h"`
	OutboxInterval   time.Duration `env:"OUTBOX_POLL_INTERVAL" envDefault:"3s"`
	BulkCap          int           `env:"BULK_CAP" envDefault:"500"`
	DocumentURL      string        `env:"DOCUMENT_SERVICE_URL"`
	LogFile          string        `env:"LOG_FILE"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info"`

	// client side (fieldctl)
	APIBaseURL string `env:"FIELDTIME_API_URL" envDefault:"http://localhost:3000/api/v1"`
	APIToken   string `env:"FIELDTIME_API_TOKEN"`
	QueuePath  string `env:"FIELDTIME_QUEUE_PATH" envDefault:"fieldtime-queue.db"`

	Database DatabaseConfig
}

// Load reads .env files (if present) and then the process environment.
func Load(files ...string) (Config, error) {
	_ = godotenv.Load(files...)

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.BulkCap <= 0 {
		return Config{}, fmt.Errorf("BULK_CAP must be positive, got %d", cfg.BulkCap)
	}
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}
