package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "PRICELESS_APP_ENV"
	EnvDBDSN  = "PRICELESS_DB_DSN"
	EnvDBHost = "PRICELESS_DB_HOST"
	EnvDBUser = "PRICELESS_DB_USER"
	EnvDBName = "PRICELESS_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App    AppConfig
	DB     DBConfig
	Redis  RedisConfig
	Ledger LedgerConfig
	Mirror MirrorConfig
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
	Env          string `envconfig:"PRICELESS_APP_ENV" required:"true"`
	Port         string `envconfig:"PRICELESS_APP_PORT" default:"3000"`
	LogLevel     string `envconfig:"PRICELESS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PRICELESS_LOG_WARN_STACK" default:"false"`
	CORSOrigin   string `envconfig:"PRICELESS_CORS_ORIGIN" default:"http://localhost:5173"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PRICELESS_DB_DSN"`
	Driver string `envconfig:"PRICELESS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PRICELESS_DB_HOST"`
	LegacyPort     int    `envconfig:"PRICELESS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PRICELESS_DB_USER"`
	LegacyPassword string `envconfig:"PRICELESS_DB_PASSWORD"`
	LegacyName     string `envconfig:"PRICELESS_DB_NAME"`
	LegacySSLMode  string `envconfig:"PRICELESS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PRICELESS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PRICELESS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PRICELESS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PRICELESS_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	AutoMigrate bool `envconfig:"PRICELESS_DB_AUTO_MIGRATE" default:"false"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PRICELESS_REDIS_URL"`
	Address      string        `envconfig:"PRICELESS_REDIS_ADDR"`
	Password     string        `envconfig:"PRICELESS_REDIS_PASSWORD"`
	DB           int           `envconfig:"PRICELESS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PRICELESS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PRICELESS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PRICELESS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PRICELESS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PRICELESS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured at all. The API
// degrades gracefully (no idempotency cache) when it is absent.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

// LedgerConfig carries the on-chain object ids the orchestrator needs to
// address the marketplace package.
type LedgerConfig struct {
	MarketPackage    string `envconfig:"PRICELESS_LEDGER_PACKAGE_ID"`
	PlatformRegistry string `envconfig:"PRICELESS_LEDGER_PLATFORM_REGISTRY_ID"`
	CoinPackage      string `envconfig:"PRICELESS_LEDGER_COIN_PACKAGE_ID"`
	Shop             string `envconfig:"PRICELESS_LEDGER_SHOP_ID"`
	GasBudget        uint64 `envconfig:"PRICELESS_LEDGER_GAS_BUDGET" default:"100000000"`
	AgentFeeBps      uint64 `envconfig:"PRICELESS_LEDGER_AGENT_FEE_BPS" default:"500"`
}

// MirrorConfig points client-side components at the mirror API and bounds
// the post-confirmation reconciliation loop.
type MirrorConfig struct {
	BaseURL           string        `envconfig:"PRICELESS_MIRROR_BASE_URL" default:"http://localhost:3000"`
	RequestTimeout    time.Duration `envconfig:"PRICELESS_MIRROR_REQUEST_TIMEOUT" default:"10s"`
	ReconcileAttempts int           `envconfig:"PRICELESS_MIRROR_RECONCILE_ATTEMPTS" default:"5"`
	ReconcileBackoff  time.Duration `envconfig:"PRICELESS_MIRROR_RECONCILE_BACKOFF" default:"2s"`
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
