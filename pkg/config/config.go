package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "AMARO_DB_DSN"
	EnvDBHost = "AMARO_DB_HOST"
	EnvDBUser = "AMARO_DB_USER"
	EnvDBName = "AMARO_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Site         SiteConfig
	Shipping     ShippingConfig
	Admin        AdminConfig
	MercadoPago  MercadoPagoConfig
	Sendgrid     SendgridConfig
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
	if err := cfg.Shipping.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"AMARO_APP_ENV" required:"true"`
	Port         string `envconfig:"AMARO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"AMARO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AMARO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"AMARO_DB_DSN"`
	Driver string `envconfig:"AMARO_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"AMARO_DB_HOST"`
	LegacyPort     int    `envconfig:"AMARO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"AMARO_DB_USER"`
	LegacyPassword string `envconfig:"AMARO_DB_PASSWORD"`
	LegacyName     string `envconfig:"AMARO_DB_NAME"`
	LegacySSLMode  string `envconfig:"AMARO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"AMARO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AMARO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AMARO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AMARO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"AMARO_REDIS_URL"`
	Address      string        `envconfig:"AMARO_REDIS_ADDR"`
	Password     string        `envconfig:"AMARO_REDIS_PASSWORD"`
	DB           int           `envconfig:"AMARO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AMARO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AMARO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AMARO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AMARO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AMARO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// SiteConfig carries the externally reachable URL used to build the payment
// gateway callback and notification URLs.
type SiteConfig struct {
	BaseURL string `envconfig:"AMARO_SITE_BASE_URL"`
}

type ShippingConfig struct {
	DeliveryFee string `envconfig:"AMARO_SHIPPING_DELIVERY_FEE" default:"250"`

	parsedFee decimal.Decimal
}

func (s *ShippingConfig) Validate() error {
	fee, err := decimal.NewFromString(strings.TrimSpace(s.DeliveryFee))
	if err != nil {
		return fmt.Errorf("invalid delivery fee %q: %w", s.DeliveryFee, err)
	}
	if fee.IsNegative() {
		return fmt.Errorf("delivery fee must not be negative")
	}
	s.parsedFee = fee
	return nil
}

// DeliveryFeeAmount returns the flat per-order delivery charge.
func (s ShippingConfig) DeliveryFeeAmount() decimal.Decimal {
	return s.parsedFee
}

type AdminConfig struct {
	APIKey string `envconfig:"AMARO_ADMIN_API_KEY"`
	Email  string `envconfig:"AMARO_ADMIN_EMAIL"`
}

type MercadoPagoConfig struct {
	AccessToken string `envconfig:"AMARO_MERCADOPAGO_ACCESS_TOKEN"`
	PublicKey   string `envconfig:"AMARO_MERCADOPAGO_PUBLIC_KEY"`
	CurrencyID  string `envconfig:"AMARO_MERCADOPAGO_CURRENCY" default:"UYU"`
}

type SendgridConfig struct {
	APIKey      string `envconfig:"AMARO_SENDGRID_API_KEY"`
	DefaultFrom string `envconfig:"AMARO_SENDGRID_FROM_EMAIL"`
	FromName    string `envconfig:"AMARO_SENDGRID_FROM_NAME" default:"Amaro"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"AMARO_AUTO_MIGRATE" default:"false"`
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
