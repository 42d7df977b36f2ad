package config

// EnvPrefix namespaces every configuration variable the service reads.
const EnvPrefix = "SIMS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "SIMS_APP_ENV"
	EnvAppPort  = "SIMS_APP_PORT"
	EnvLogLevel = "SIMS_LOG_LEVEL"

	EnvServiceKind = "SIMS_SERVICE_KIND"

	EnvDBDSN      = "SIMS_DB_DSN"
	EnvDBHost     = "SIMS_DB_HOST"
	EnvDBPort     = "SIMS_DB_PORT"
	EnvDBUser     = "SIMS_DB_USER"
	EnvDBPassword = "SIMS_DB_PASSWORD"
	EnvDBName     = "SIMS_DB_NAME"
	EnvDBSSLMode  = "SIMS_DB_SSLMODE"

	EnvRedisURL = "SIMS_REDIS_URL"

	EnvJWTSecret            = "SIMS_JWT_SECRET"
	EnvJWTIssuer            = "SIMS_JWT_ISSUER"
	EnvJWTExpirationMinutes = "SIMS_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTL      = "SIMS_REFRESH_TOKEN_TTL_MINUTES"

	EnvAutoMigrate = "SIMS_AUTO_MIGRATE"

	EnvReconcileInterval = "SIMS_RECONCILE_INTERVAL"
)

// legacyDBEnvVars are the discrete connection variables accepted when
// SIMS_DB_DSN is not set, kept for parity with the old deployment scripts.
var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
