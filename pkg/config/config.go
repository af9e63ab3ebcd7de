package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable read by the service.
const EnvPrefix = "RETAILPOS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"RETAILPOS_APP_ENV" required:"true"`
	Port         string `envconfig:"RETAILPOS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"RETAILPOS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RETAILPOS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"RETAILPOS_DB_DSN"`
	Driver string `envconfig:"RETAILPOS_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"RETAILPOS_DB_HOST"`
	Port     int    `envconfig:"RETAILPOS_DB_PORT" default:"5432"`
	User     string `envconfig:"RETAILPOS_DB_USER"`
	Password string `envconfig:"RETAILPOS_DB_PASSWORD"`
	Name     string `envconfig:"RETAILPOS_DB_NAME"`
	SSLMode  string `envconfig:"RETAILPOS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"RETAILPOS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RETAILPOS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RETAILPOS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RETAILPOS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"RETAILPOS_REDIS_URL"`
	Address      string        `envconfig:"RETAILPOS_REDIS_ADDR"`
	Password     string        `envconfig:"RETAILPOS_REDIS_PASSWORD"`
	DB           int           `envconfig:"RETAILPOS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RETAILPOS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RETAILPOS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RETAILPOS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RETAILPOS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RETAILPOS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"RETAILPOS_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"RETAILPOS_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"RETAILPOS_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"RETAILPOS_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"RETAILPOS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"RETAILPOS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"RETAILPOS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"RETAILPOS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"RETAILPOS_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"RETAILPOS_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	required := []struct {
		env   string
		value string
	}{
		{"RETAILPOS_DB_HOST", db.Host},
		{"RETAILPOS_DB_USER", db.User},
		{"RETAILPOS_DB_NAME", db.Name},
	}
	for _, item := range required {
		if item.value == "" {
			missing = append(missing, item.env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either RETAILPOS_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
