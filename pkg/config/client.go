package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// ClientConfig configures the shop CLI and any other API consumer.
type ClientConfig struct {
	APIBaseURL     string        `envconfig:"STRIDE_API_BASE_URL" default:"http://localhost:8080"`
	RequestTimeout time.Duration `envconfig:"STRIDE_CLIENT_REQUEST_TIMEOUT" default:"0s"`
	StateDriver    string        `envconfig:"STRIDE_CLIENT_STATE_DRIVER" default:"sqlite"`
	StatePath      string        `envconfig:"STRIDE_CLIENT_STATE_PATH" default:".stride-shop.db"`
	RedisURL       string        `envconfig:"STRIDE_CLIENT_REDIS_URL"`
	LogLevel       string        `envconfig:"STRIDE_CLIENT_LOG_LEVEL" default:"warn"`
	MetricsFile    string        `envconfig:"STRIDE_CLIENT_METRICS_FILE"`
}

// LoadClient reads client settings from the environment.
func LoadClient() (*ClientConfig, error) {
	var cfg ClientConfig
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing client config: %w", err)
	}
	cfg.StateDriver = strings.ToLower(strings.TrimSpace(cfg.StateDriver))
	switch cfg.StateDriver {
	case StateDriverSQLite, StateDriverMemory:
	case StateDriverRedis:
		if strings.TrimSpace(cfg.RedisURL) == "" {
			return nil, fmt.Errorf("%s is required when %s=%s", EnvClientRedisURL, EnvClientStateDriver, StateDriverRedis)
		}
	default:
		return nil, fmt.Errorf("unsupported %s %q", EnvClientStateDriver, cfg.StateDriver)
	}
	return &cfg, nil
}
