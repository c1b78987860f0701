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
	Cron          CronConfig
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
	Env          string `envconfig:"ROPERO_APP_ENV" required:"true"`
	Port         string `envconfig:"ROPERO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ROPERO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ROPERO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"ROPERO_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"ROPERO_DB_DSN"`
	Driver string `envconfig:"ROPERO_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ROPERO_DB_HOST"`
	LegacyPort     int    `envconfig:"ROPERO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ROPERO_DB_USER"`
	LegacyPassword string `envconfig:"ROPERO_DB_PASSWORD"`
	LegacyName     string `envconfig:"ROPERO_DB_NAME"`
	LegacySSLMode  string `envconfig:"ROPERO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ROPERO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ROPERO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ROPERO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ROPERO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ROPERO_REDIS_URL"`
	Address      string        `envconfig:"ROPERO_REDIS_ADDR"`
	Password     string        `envconfig:"ROPERO_REDIS_PASSWORD"`
	DB           int           `envconfig:"ROPERO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ROPERO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ROPERO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ROPERO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ROPERO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ROPERO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"ROPERO_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"ROPERO_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"ROPERO_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ROPERO_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ROPERO_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ROPERO_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ROPERO_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ROPERO_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"ROPERO_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"ROPERO_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"ROPERO_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"ROPERO_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"ROPERO_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"ROPERO_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"ROPERO_AUTO_MIGRATE" default:"false"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"ROPERO_CRON_INTERVAL" default:"1h"`
	LockTTL  time.Duration `envconfig:"ROPERO_CRON_LOCK_TTL" default:"55m"`
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
