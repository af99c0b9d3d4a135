package config

import (
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/EliteSamurai/RehabFlow-sub000/pkg/logger"
)

var config *Config

// Config holds every env-derived value the engine uses. Nothing else in the
// codebase reads the process environment directly.
type Config struct {
	AppEnv   string `env:"APP_ENV" default:"dev"`
	AppName  string `env:"APP_NAME" default:"rehabflow_engine"`
	AppDebug bool   `env:"APP_DEBUG" default:"1"`

	HttpListenAddr string `env:"HTTP_LISTEN_ADDR" default:":8080"`

	// Shared secret the external cron must present on the trigger endpoint.
	CronSecret string `env:"CRON_SECRET"`

	// Real sends only happen when live mode is on; otherwise the
	// deterministic mock gateway is used.
	SMSLiveMode     bool          `env:"SMS_LIVE_MODE"`
	ProviderURL     string        `env:"SMS_PROVIDER_URL"`
	ProviderAPIKey  string        `env:"SMS_PROVIDER_API_KEY"`
	ProviderTimeout time.Duration `env:"SMS_PROVIDER_TIMEOUT" default:"5s"`

	// Internal ticker for deployments without an external cron. Zero
	// disables it.
	SchedulerInterval time.Duration `env:"SCHEDULER_INTERVAL"`

	DispatchRatePerSec float64 `env:"DISPATCH_RATE_PER_SEC" default:"10"`

	PostgresReadHost     string `env:"POSTGRES_READ_HOST"`
	PostgresReadPort     string `env:"POSTGRES_READ_PORT"`
	PostgresReadUser     string `env:"POSTGRES_READ_USER"`
	PostgresReadPassword string `env:"POSTGRES_READ_PASSWORD"`
	PostgresReadDatabase string `env:"POSTGRES_READ_DBNAME"`

	PostgresWriteHost     string `env:"POSTGRES_WRITE_HOST"`
	PostgresWritePort     string `env:"POSTGRES_WRITE_PORT"`
	PostgresWriteUser     string `env:"POSTGRES_WRITE_USER"`
	PostgresWritePassword string `env:"POSTGRES_WRITE_PASSWORD"`
	PostgresWriteDatabase string `env:"POSTGRES_WRITE_DBNAME"`

	RedisAddr               string `env:"REDIS_ADDR"`
	RedisUsername           string `env:"REDIS_USER"`
	RedisPassword           string `env:"REDIS_PASS"`
	RedisDatabase           int    `env:"REDIS_DATABASE"`
	RedisUniversalKeyPrefix string `env:"REDIS_UNIVERSAL_KEY_PREFIX"`

	PromNamespace string `env:"PROM_NAMESPACE" default:"rehabflow"`
	MetricsAddr   string `env:"METRICS_ADDR" default:":9100"`
}

func Load(path string) error {
	logger.Info("loading configs..", "path", path)
	c := &Config{}
	var err error
	if path != "" {
		logger.Info("trying to publish env from file", "path", path)
		err = godotenv.Load(path)
		if err != nil {
			return errors.New("failed to load configuration file " + path + " error: " + err.Error())
		}
	}

	_, err = env.UnmarshalFromEnviron(c)
	if err != nil {
		return errors.New("failed to map env variables to Configuration object " + " error: " + err.Error())
	}

	if err := c.Validate(); err != nil {
		return err
	}

	config = c
	return nil
}

// Validate fails fast on startup so misconfiguration never surfaces as a
// mid-dispatch error.
func (c *Config) Validate() error {
	if c.CronSecret == "" {
		return errors.New("CRON_SECRET is required")
	}
	if c.SMSLiveMode {
		if c.ProviderURL == "" {
			return errors.New("SMS_PROVIDER_URL is required when SMS_LIVE_MODE is on")
		}
		if c.ProviderAPIKey == "" {
			return errors.New("SMS_PROVIDER_API_KEY is required when SMS_LIVE_MODE is on")
		}
	}
	return nil
}

func Get() *Config {
	if config == nil {
		logger.Panic("Config is not initialized")
	}
	return config
}

// Set replaces the global config. Test use only.
func Set(c *Config) {
	config = c
}
