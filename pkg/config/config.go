package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"

	"github.com/cukedoh/bakery-backend/pkg/enums"
)

const (
	EnvPrefix  = ""
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Stripe       StripeConfig
	Pricing      PricingConfig
	Storage      StorageConfig
	Checkout     CheckoutConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Pricing.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BAKERY_APP_ENV" default:"dev"`
	Port         string `envconfig:"BAKERY_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"BAKERY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BAKERY_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"BAKERY_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN             string        `envconfig:"BAKERY_DB_DSN" required:"true"`
	MaxOpenConns    int           `envconfig:"BAKERY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BAKERY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BAKERY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BAKERY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BAKERY_REDIS_URL"`
	Address      string        `envconfig:"BAKERY_REDIS_ADDR"`
	Password     string        `envconfig:"BAKERY_REDIS_PASSWORD"`
	DB           int           `envconfig:"BAKERY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BAKERY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BAKERY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BAKERY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BAKERY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BAKERY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type StripeConfig struct {
	APIKey         string        `envconfig:"BAKERY_STRIPE_API_KEY"`
	WebhookSecret  string        `envconfig:"BAKERY_STRIPE_WEBHOOK_SECRET"`
	Env            string        `envconfig:"BAKERY_STRIPE_ENV" default:"test"`
	SessionTimeout time.Duration `envconfig:"BAKERY_STRIPE_SESSION_TIMEOUT" default:"15s"`
}

func (s StripeConfig) Environment() string {
	return strings.TrimSpace(strings.ToLower(s.Env))
}

// PricingConfig carries every money knob as a decimal string so amounts are
// never parsed through floats.
type PricingConfig struct {
	Currency           string `envconfig:"BAKERY_PRICING_CURRENCY" default:"thb"`
	CustomCakeUnitRate string `envconfig:"BAKERY_PRICING_CUSTOM_CAKE_UNIT_RATE" default:"342"`
	DeliveryFee        string `envconfig:"BAKERY_PRICING_DELIVERY_FEE" default:"130"`
	PaperBagFee        string `envconfig:"BAKERY_PRICING_PAPER_BAG_FEE" default:"0"`
	SnackBoxSFee       string `envconfig:"BAKERY_PRICING_SNACK_BOX_S_FEE" default:"20"`
	SnackBoxMFee       string `envconfig:"BAKERY_PRICING_SNACK_BOX_M_FEE" default:"30"`
}

func (p PricingConfig) validate() error {
	for name, raw := range map[string]string{
		"custom cake unit rate": p.CustomCakeUnitRate,
		"delivery fee":          p.DeliveryFee,
		"paper bag fee":         p.PaperBagFee,
		"snack box s fee":       p.SnackBoxSFee,
		"snack box m fee":       p.SnackBoxMFee,
	} {
		if _, err := decimal.NewFromString(raw); err != nil {
			return fmt.Errorf("pricing %s %q is not a decimal: %w", name, raw, err)
		}
	}
	return nil
}

func mustDecimal(raw string) decimal.Decimal {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		panic(fmt.Sprintf("pricing value %q not validated at load: %v", raw, err))
	}
	return d
}

// CustomCakeRate returns the per-size-unit custom cake rate.
func (p PricingConfig) CustomCakeRate() decimal.Decimal {
	return mustDecimal(p.CustomCakeUnitRate)
}

// DeliveryFeeAmount returns the flat delivery fee.
func (p PricingConfig) DeliveryFeeAmount() decimal.Decimal {
	return mustDecimal(p.DeliveryFee)
}

// PackageFee returns the flat assembly fee for a snack-box package type.
func (p PricingConfig) PackageFee(packageType enums.PackageType) decimal.Decimal {
	switch packageType {
	case enums.PackageSnackBoxS:
		return mustDecimal(p.SnackBoxSFee)
	case enums.PackageSnackBoxM:
		return mustDecimal(p.SnackBoxMFee)
	default:
		return mustDecimal(p.PaperBagFee)
	}
}

type StorageConfig struct {
	ImageBaseURL string `envconfig:"BAKERY_IMAGE_BASE_URL" default:"https://storage.googleapis.com/cukedoh-bakery"`
}

type CheckoutConfig struct {
	// RedirectBaseURL is the storefront origin the payment provider sends
	// the customer back to.
	RedirectBaseURL string        `envconfig:"BAKERY_CHECKOUT_REDIRECT_BASE_URL" default:"http://localhost:3000"`
	LockTTL         time.Duration `envconfig:"BAKERY_CHECKOUT_LOCK_TTL" default:"30s"`
	SessionTimeout  time.Duration `envconfig:"BAKERY_CHECKOUT_SESSION_TIMEOUT" default:"15s"`
	Currency        string        `envconfig:"BAKERY_CHECKOUT_CURRENCY" default:"thb"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BAKERY_AUTO_MIGRATE" default:"false"`
}
