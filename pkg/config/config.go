package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Features FeatureFlagsConfig
	Pricing   PricingConfig
	Delivery  DeliveryConfig
	Rewards   RewardsConfig
	RateLimit RateLimitConfig
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
	Env          string `envconfig:"TOWNBASKET_APP_ENV" required:"true"`
	Port         string `envconfig:"TOWNBASKET_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TOWNBASKET_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TOWNBASKET_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TOWNBASKET_DB_DSN"`
	Driver string `envconfig:"TOWNBASKET_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TOWNBASKET_DB_HOST"`
	LegacyPort     int    `envconfig:"TOWNBASKET_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TOWNBASKET_DB_USER"`
	LegacyPassword string `envconfig:"TOWNBASKET_DB_PASSWORD"`
	LegacyName     string `envconfig:"TOWNBASKET_DB_NAME"`
	LegacySSLMode  string `envconfig:"TOWNBASKET_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TOWNBASKET_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TOWNBASKET_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TOWNBASKET_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TOWNBASKET_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TOWNBASKET_REDIS_URL" required:"true"`
	Address      string        `envconfig:"TOWNBASKET_REDIS_ADDR"`
	Password     string        `envconfig:"TOWNBASKET_REDIS_PASSWORD"`
	DB           int           `envconfig:"TOWNBASKET_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TOWNBASKET_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TOWNBASKET_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TOWNBASKET_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TOWNBASKET_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TOWNBASKET_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"TOWNBASKET_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"TOWNBASKET_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"TOWNBASKET_JWT_EXPIRATION_MINUTES" default:"60"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"TOWNBASKET_AUTO_MIGRATE" default:"false"`
}

// PricingConfig carries the fee-composition business rules consumed by the
// cart engine. Defaults mirror the launch-market constants.
type PricingConfig struct {
	GSTRateBasisPoints int  `envconfig:"TOWNBASKET_GST_RATE_BPS" default:"500"`
	HandlingFeeCents   int  `envconfig:"TOWNBASKET_HANDLING_FEE_CENTS" default:"0"`
	HandlingFeeWaived  bool `envconfig:"TOWNBASKET_HANDLING_FEE_WAIVED" default:"true"`
}

// DeliveryConfig drives the slab-based delivery fee quote.
type DeliveryConfig struct {
	BaseFeeCents        int           `envconfig:"TOWNBASKET_DELIVERY_BASE_FEE_CENTS" default:"1500"`
	BaseDistanceKm      float64       `envconfig:"TOWNBASKET_DELIVERY_BASE_DISTANCE_KM" default:"2"`
	PerKmFeeCents       int           `envconfig:"TOWNBASKET_DELIVERY_PER_KM_FEE_CENTS" default:"700"`
	DefaultRadiusKm     float64       `envconfig:"TOWNBASKET_DELIVERY_DEFAULT_RADIUS_KM" default:"8"`
	StrikethroughFactor float64       `envconfig:"TOWNBASKET_DELIVERY_STRIKETHROUGH_FACTOR" default:"1.21"`
	QuoteCacheTTL       time.Duration `envconfig:"TOWNBASKET_DELIVERY_QUOTE_CACHE_TTL" default:"2m"`
}

// RewardsConfig bounds point redemption against the cart subtotal.
type RewardsConfig struct {
	RedeemUnlockThresholdCents int     `envconfig:"TOWNBASKET_REDEEM_UNLOCK_THRESHOLD_CENTS" default:"49900"`
	MaxRedeemFraction          float64 `envconfig:"TOWNBASKET_MAX_REDEEM_FRACTION" default:"0.3"`
}

// RateLimitConfig throttles authenticated API traffic per user.
type RateLimitConfig struct {
	Enabled  bool          `envconfig:"TOWNBASKET_RATE_LIMIT_ENABLED" default:"true"`
	Requests int           `envconfig:"TOWNBASKET_RATE_LIMIT_REQUESTS" default:"120"`
	Window   time.Duration `envconfig:"TOWNBASKET_RATE_LIMIT_WINDOW" default:"1m"`
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
