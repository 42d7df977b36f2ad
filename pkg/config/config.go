package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Reconcile     ReconcileConfig
	CORS          CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SIMS_APP_ENV" required:"true"`
	Port         string `envconfig:"SIMS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SIMS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SIMS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.HasPrefix(strings.ToLower(a.Env), AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.HasPrefix(strings.ToLower(a.Env), AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"SIMS_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN string `envconfig:"SIMS_DB_DSN"`

	LegacyHost     string `envconfig:"SIMS_DB_HOST"`
	LegacyPort     int    `envconfig:"SIMS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SIMS_DB_USER"`
	LegacyPassword string `envconfig:"SIMS_DB_PASSWORD"`
	LegacyName     string `envconfig:"SIMS_DB_NAME"`
	LegacySSLMode  string `envconfig:"SIMS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SIMS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SIMS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SIMS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SIMS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SIMS_REDIS_URL" required:"true"`
	PoolSize     int           `envconfig:"SIMS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SIMS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SIMS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SIMS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SIMS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"SIMS_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"SIMS_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"SIMS_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"SIMS_REFRESH_TOKEN_TTL_MINUTES" default:"10080"`
}

func (j JWTConfig) AccessTokenTTL() time.Duration {
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

func (j JWTConfig) RefreshTokenTTL() time.Duration {
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SIMS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SIMS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SIMS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SIMS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SIMS_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SIMS_AUTH_LOGIN_WINDOW" default:"1m"`
	LoginUsernameLimit int           `envconfig:"SIMS_AUTH_LOGIN_USERNAME_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"SIMS_AUTH_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SIMS_AUTO_MIGRATE" default:"false"`
}

// ReconcileConfig tunes the stock reconciliation job run by the cron worker.
type ReconcileConfig struct {
	Interval  time.Duration `envconfig:"SIMS_RECONCILE_INTERVAL" default:"1h"`
	BatchSize int           `envconfig:"SIMS_RECONCILE_BATCH_SIZE" default:"500"`
	LockTTL   time.Duration `envconfig:"SIMS_RECONCILE_LOCK_TTL" default:"10m"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"SIMS_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
}

func (db *DBConfig) ensureDSN() error {
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
