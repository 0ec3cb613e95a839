package config

// EnvPrefix is passed to envconfig.Process; individual fields override it
// with explicit TOWNBASKET_* names.
const EnvPrefix = "townbasket"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Canonical env var names referenced by error messages and tests.
const (
	EnvAppEnv    = "TOWNBASKET_APP_ENV"
	EnvPort      = "TOWNBASKET_APP_PORT"
	EnvDBDSN     = "TOWNBASKET_DB_DSN"
	EnvDBHost    = "TOWNBASKET_DB_HOST"
	EnvDBUser    = "TOWNBASKET_DB_USER"
	EnvDBName    = "TOWNBASKET_DB_NAME"
	EnvRedisURL  = "TOWNBASKET_REDIS_URL"
	EnvJWTSecret = "TOWNBASKET_JWT_SECRET"
	EnvJWTIssuer = "TOWNBASKET_JWT_ISSUER"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
