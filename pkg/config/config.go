package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds everything the API server needs at boot.
type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Idempotency   IdempotencyConfig
	Admin         AdminConfig
	Housekeeping  HousekeepingConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STRIDE_APP_ENV" required:"true"`
	Port         string `envconfig:"STRIDE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"STRIDE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STRIDE_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"STRIDE_CORS_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"STRIDE_DB_DSN"`
	Driver string `envconfig:"STRIDE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"STRIDE_DB_HOST"`
	LegacyPort     int    `envconfig:"STRIDE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"STRIDE_DB_USER"`
	LegacyPassword string `envconfig:"STRIDE_DB_PASSWORD"`
	LegacyName     string `envconfig:"STRIDE_DB_NAME"`
	LegacySSLMode  string `envconfig:"STRIDE_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"STRIDE_DB_SQLITE_PATH" default:"stride.db"`

	MaxOpenConns    int           `envconfig:"STRIDE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STRIDE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STRIDE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STRIDE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the configured driver targets SQLite.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DriverSQLite)
}

// Redis is optional for the API: without it idempotency records live in process
// memory and login attempts are not rate limited.
type RedisConfig struct {
	URL          string        `envconfig:"STRIDE_REDIS_URL"`
	Address      string        `envconfig:"STRIDE_REDIS_ADDR"`
	Password     string        `envconfig:"STRIDE_REDIS_PASSWORD"`
	DB           int           `envconfig:"STRIDE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STRIDE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STRIDE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STRIDE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STRIDE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STRIDE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"STRIDE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"STRIDE_JWT_ISSUER" default:"stride-storefront"`
	ExpirationMinutes int    `envconfig:"STRIDE_JWT_EXPIRATION_MINUTES" default:"720"`
}

// TTL returns the access token lifetime.
func (j JWTConfig) TTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"STRIDE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"STRIDE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"STRIDE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"STRIDE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"STRIDE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"STRIDE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginIPLimit    int           `envconfig:"STRIDE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	LoginEmailLimit int           `envconfig:"STRIDE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"STRIDE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"STRIDE_AUTO_MIGRATE" default:"false"`
	SeedCatalog bool `envconfig:"STRIDE_SEED_CATALOG" default:"false"`
}

type IdempotencyConfig struct {
	OrderTTL   time.Duration `envconfig:"STRIDE_IDEMPOTENCY_ORDER_TTL" default:"168h"`
	DefaultTTL time.Duration `envconfig:"STRIDE_IDEMPOTENCY_DEFAULT_TTL" default:"24h"`
}

// AdminConfig seeds the first back-office account when the admins table is empty.
type AdminConfig struct {
	Email    string `envconfig:"STRIDE_ADMIN_EMAIL"`
	Password string `envconfig:"STRIDE_ADMIN_PASSWORD"`
	Name     string `envconfig:"STRIDE_ADMIN_NAME" default:"Store Admin"`
}

// HousekeepingConfig drives cmd/worker. A zero PendingOrderTTL disables order
// expiry.
type HousekeepingConfig struct {
	Interval          time.Duration `envconfig:"STRIDE_HOUSEKEEPING_INTERVAL" default:"1h"`
	PendingOrderTTL   time.Duration `envconfig:"STRIDE_PENDING_ORDER_TTL" default:"240h"`
	ExpiryBatch       int           `envconfig:"STRIDE_PENDING_ORDER_EXPIRY_BATCH" default:"100"`
	LowStockThreshold int           `envconfig:"STRIDE_LOW_STOCK_THRESHOLD" default:"5"`
	MetricsPort       string        `envconfig:"STRIDE_WORKER_METRICS_PORT" default:"9091"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if useSQLite {
		db.Driver = DriverSQLite
	}
	if db.IsSQLite() {
		if db.DSN == "" {
			db.DSN = db.SQLitePath
		}
		return nil
	}
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
