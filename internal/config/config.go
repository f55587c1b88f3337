package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	pkgredis "github.com/rl1809/axion/pkg/redis"
)

type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

func (e Environment) IsProduction() bool {
	return e == Production
}

type Backend string

const (
	BackendMemory Backend = "memory"
	BackendRedis  Backend = "redis"
	BackendMySQL  Backend = "mysql"
)

type Config struct {
	Environment Environment `envconfig:"APP_ENVIRONMENT" default:"development"`
	HTTPAddr    string      `envconfig:"HTTP_ADDR" default:":8080"`
	GRPCAddr    string      `envconfig:"GRPC_ADDR" default:":50051"`

	Store StoreConfig
	Redis pkgredis.Config
	MySQL MySQLConfig
	Auth  AuthConfig
	Sync  SyncConfig

	SimulatorElasticity float64 `envconfig:"SIMULATOR_ELASTICITY" default:"1.5"`
}

type StoreConfig struct {
	Backend   Backend `envconfig:"STORE_BACKEND" default:"redis"`
	KeyPrefix string  `envconfig:"STORE_KEY_PREFIX"`
}

type MySQLConfig struct {
	DSN string `envconfig:"MYSQL_DSN" default:"root:root@tcp(localhost:3306)/axion?parseTime=true"`
}

type AuthConfig struct {
	Username string `envconfig:"AUTH_USERNAME" default:"admin"`
	Password string `envconfig:"AUTH_PASSWORD" default:"admin"`
}

type SyncConfig struct {
	Hold           time.Duration `envconfig:"SYNC_HOLD" default:"800ms"`
	QueueSize      int           `envconfig:"PERSIST_QUEUE_SIZE" default:"64"`
	PersistTimeout time.Duration `envconfig:"PERSIST_TIMEOUT" default:"5s"`
}

// Load reads an optional .env file and then the process environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load(envFiles...)

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendRedis, BackendMySQL:
	default:
		return fmt.Errorf("unsupported STORE_BACKEND %q", c.Store.Backend)
	}

	switch c.Environment {
	case Development, Staging, Testing, Production:
	default:
		return fmt.Errorf("unsupported APP_ENVIRONMENT %q", c.Environment)
	}

	if c.Sync.QueueSize <= 0 {
		return fmt.Errorf("PERSIST_QUEUE_SIZE must be positive, got %d", c.Sync.QueueSize)
	}

	return nil
}
