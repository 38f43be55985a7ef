package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App     AppConfig
	Service ServiceConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Pricing PricingConfig
	Cart    CartConfig
	Catalog CatalogConfig
	Orders  OrdersConfig
	Cron    CronConfig
	GCP     GCPConfig
	PubSub  PubSubConfig
	Outbox  OutboxConfig

	RateLimit RateLimitConfig

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
	Env          string `envconfig:"QUICKKART_APP_ENV" required:"true"`
	Port         string `envconfig:"QUICKKART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"QUICKKART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"QUICKKART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"QUICKKART_SERVICE_KIND" default:"api"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"QUICKKART_FEATURE_AUTO_MIGRATE" default:"false"`
}

type DBConfig struct {
	DSN    string `envconfig:"QUICKKART_DB_DSN"`
	Driver string `envconfig:"QUICKKART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"QUICKKART_DB_HOST"`
	LegacyPort     int    `envconfig:"QUICKKART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"QUICKKART_DB_USER"`
	LegacyPassword string `envconfig:"QUICKKART_DB_PASSWORD"`
	LegacyName     string `envconfig:"QUICKKART_DB_NAME"`
	LegacySSLMode  string `envconfig:"QUICKKART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"QUICKKART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"QUICKKART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"QUICKKART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"QUICKKART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the SQLite driver path is selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, "sqlite")
}

type RedisConfig struct {
	URL          string        `envconfig:"QUICKKART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"QUICKKART_REDIS_ADDR"`
	Password     string        `envconfig:"QUICKKART_REDIS_PASSWORD"`
	DB           int           `envconfig:"QUICKKART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"QUICKKART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"QUICKKART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"QUICKKART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"QUICKKART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"QUICKKART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"QUICKKART_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"QUICKKART_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"QUICKKART_JWT_EXPIRATION_MINUTES" required:"true"`
}

// PricingConfig carries the flat fee schedule for order pricing.
// All amounts are integer cents.
type PricingConfig struct {
	FreeDeliveryThresholdCents int `envconfig:"QUICKKART_PRICING_FREE_DELIVERY_THRESHOLD_CENTS" default:"59900"`
	DeliveryFeeCents           int `envconfig:"QUICKKART_PRICING_DELIVERY_FEE_CENTS" default:"5900"`
	FulfillmentFeeCents        int `envconfig:"QUICKKART_PRICING_FULFILLMENT_FEE_CENTS" default:"1000"`
	GiftWrapFeeCents           int `envconfig:"QUICKKART_PRICING_GIFT_WRAP_FEE_CENTS" default:"3000"`
}

type CartConfig struct {
	MaxItems int           `envconfig:"QUICKKART_CART_MAX_ITEMS" default:"20"`
	TTL      time.Duration `envconfig:"QUICKKART_CART_TTL" default:"168h"`
}

type CatalogConfig struct {
	SearchSnapshotLimit int `envconfig:"QUICKKART_CATALOG_SEARCH_SNAPSHOT_LIMIT" default:"500"`
}

type OrdersConfig struct {
	EstimatedDeliveryWindow time.Duration `envconfig:"QUICKKART_ORDERS_ESTIMATED_DELIVERY_WINDOW" default:"30m"`
	PendingTTL              time.Duration `envconfig:"QUICKKART_ORDERS_PENDING_TTL" default:"45m"`
}

type CronConfig struct {
	PendingOrderInterval time.Duration `envconfig:"QUICKKART_CRON_PENDING_ORDER_INTERVAL" default:"5m"`
	LockTTL              time.Duration `envconfig:"QUICKKART_CRON_LOCK_TTL" default:"4m"`
	ExpireBatchSize      int           `envconfig:"QUICKKART_CRON_EXPIRE_BATCH_SIZE" default:"100"`
	OutboxRetentionDays  int           `envconfig:"QUICKKART_CRON_OUTBOX_RETENTION_DAYS" default:"30"`
}

type RateLimitConfig struct {
	Requests int64         `envconfig:"QUICKKART_RATE_LIMIT_REQUESTS" default:"120"`
	Window   time.Duration `envconfig:"QUICKKART_RATE_LIMIT_WINDOW" default:"1m"`
}

type GCPConfig struct {
	ProjectID       string `envconfig:"QUICKKART_GCP_PROJECT_ID"`
	CredentialsJSON string `envconfig:"QUICKKART_GCP_CREDENTIALS_JSON"`
}

type PubSubConfig struct {
	OrdersTopic        string `envconfig:"QUICKKART_PUBSUB_ORDERS_TOPIC" default:"qk-order-events"`
	OrdersSubscription string `envconfig:"QUICKKART_PUBSUB_ORDERS_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"QUICKKART_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"QUICKKART_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"QUICKKART_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" || db.IsSQLite() {
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
