package config

const EnvPrefix = "STRIDE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	StateDriverSQLite = "sqlite"
	StateDriverRedis  = "redis"
	StateDriverMemory = "memory"
)

const (
	EnvAppEnv    = "STRIDE_APP_ENV"
	EnvPort      = "STRIDE_APP_PORT"
	EnvDBDSN     = "STRIDE_DB_DSN"
	EnvDBDriver  = "STRIDE_DB_DRIVER"
	EnvDBHost    = "STRIDE_DB_HOST"
	EnvDBUser    = "STRIDE_DB_USER"
	EnvDBName    = "STRIDE_DB_NAME"
	EnvUseSQLite = "STRIDE_USE_SQLITE"
	EnvRedisURL  = "STRIDE_REDIS_URL"
	EnvJWTSecret = "STRIDE_JWT_SECRET"
	EnvJWTIssuer = "STRIDE_JWT_ISSUER"

	EnvClientAPIBaseURL  = "STRIDE_API_BASE_URL"
	EnvClientStateDriver = "STRIDE_CLIENT_STATE_DRIVER"
	EnvClientRedisURL    = "STRIDE_CLIENT_REDIS_URL"
	EnvClientMetricsFile = "STRIDE_CLIENT_METRICS_FILE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
