package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config es la configuración del proceso. Orden de precedencia:
// defaults < archivo YAML < variables de entorno < flags.
type Config struct {
	AppName string `yaml:"app_name"`
	Port    string `yaml:"port"`

	DB        DB            `yaml:"db"`
	TxTimeout time.Duration `yaml:"tx_timeout"`

	Redis  Redis  `yaml:"redis"`
	Notify Notify `yaml:"notify"`
	Log    Log    `yaml:"log"`
}

type DB struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// Redis vacío (sin Addr) = lock local y sin publicación.
type Redis struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Channel  string        `yaml:"channel"`
	LockTTL  time.Duration `yaml:"lock_ttl"`
}

type Notify struct {
	WebhookURL     string        `yaml:"webhook_url"`
	WebhookTimeout time.Duration `yaml:"webhook_timeout"`
	WebhookRetries int           `yaml:"webhook_retries"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() Config {
	return Config{
		AppName:   "shelter-adoptions",
		Port:      "8080",
		DB:        DB{Driver: DriverMemory},
		TxTimeout: 5 * time.Second,
		Redis: Redis{
			Channel: "shelter:adoptions",
			LockTTL: 10 * time.Second,
		},
		Notify: Notify{
			WebhookTimeout: 5 * time.Second,
			WebhookRetries: 2,
		},
		Log: Log{Level: "info", Format: "text"},
	}
}

// FromEnv arma la config solo desde el entorno.
func FromEnv() (Config, error) {
	return Load("")
}

// Load lee el YAML de path (si path no es vacío) y después aplica el entorno.
func Load(path string) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := os.LookupEnv(key)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
		return nil
	}
	num := func(key string, dst *int) error {
		v, ok := os.LookupEnv(key)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		return nil
	}

	str("APP_NAME", &c.AppName)
	str("PORT", &c.Port)
	str("DB_DRIVER", &c.DB.Driver)
	str("DB_DSN", &c.DB.DSN)
	str("REDIS_ADDR", &c.Redis.Addr)
	str("REDIS_PASSWORD", &c.Redis.Password)
	str("REDIS_CHANNEL", &c.Redis.Channel)
	str("NOTIFY_WEBHOOK_URL", &c.Notify.WebhookURL)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)

	// DB_DSN sin DB_DRIVER: postgres, como antes de existir DB_DRIVER.
	if _, ok := os.LookupEnv("DB_DRIVER"); !ok && strings.TrimSpace(os.Getenv("DB_DSN")) != "" {
		c.DB.Driver = DriverPostgres
	}

	return errors.Join(
		dur("TX_TIMEOUT", &c.TxTimeout),
		dur("LOCK_TTL", &c.Redis.LockTTL),
		num("REDIS_DB", &c.Redis.DB),
	)
}

func (c *Config) normalize() {
	c.DB.Driver = strings.ToLower(strings.TrimSpace(c.DB.Driver))
	if c.DB.Driver == "" {
		c.DB.Driver = DriverMemory
	}
	if c.DB.Driver == DriverSQLite && c.DB.DSN == "" {
		c.DB.DSN = "shelter.db"
	}
	c.Port = strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
}

func (c Config) Validate() error {
	var errs []error
	switch c.DB.Driver {
	case DriverMemory, DriverSQLite:
	case DriverPostgres:
		if c.DB.DSN == "" {
			errs = append(errs, errors.New("db.dsn is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown db driver %q (memory|postgres|sqlite)", c.DB.Driver))
	}
	if p, err := strconv.Atoi(c.Port); err != nil || p <= 0 || p > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %q", c.Port))
	}
	if c.TxTimeout <= 0 {
		errs = append(errs, errors.New("tx_timeout must be positive"))
	}
	if c.Redis.Addr != "" && c.Redis.LockTTL <= 0 {
		errs = append(errs, errors.New("redis.lock_ttl must be positive"))
	}
	return errors.Join(errs...)
}

func (c Config) Addr() string {
	return ":" + c.Port
}
