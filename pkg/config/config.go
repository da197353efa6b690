package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	AdminGate    AdminGateConfig
	Store        StoreConfig
	Catalog      CatalogConfig
	Uploads      UploadsConfig
	GCP          GCPConfig
	GCS          GCSConfig
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
	Env          string `envconfig:"TEESHIRTATE_APP_ENV" required:"true"`
	Port         string `envconfig:"TEESHIRTATE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TEESHIRTATE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TEESHIRTATE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TEESHIRTATE_DB_DSN"`
	Driver string `envconfig:"TEESHIRTATE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TEESHIRTATE_DB_HOST"`
	LegacyPort     int    `envconfig:"TEESHIRTATE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TEESHIRTATE_DB_USER"`
	LegacyPassword string `envconfig:"TEESHIRTATE_DB_PASSWORD"`
	LegacyName     string `envconfig:"TEESHIRTATE_DB_NAME"`
	LegacySSLMode  string `envconfig:"TEESHIRTATE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TEESHIRTATE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TEESHIRTATE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TEESHIRTATE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TEESHIRTATE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TEESHIRTATE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"TEESHIRTATE_REDIS_ADDR"`
	Password     string        `envconfig:"TEESHIRTATE_REDIS_PASSWORD"`
	DB           int           `envconfig:"TEESHIRTATE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TEESHIRTATE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TEESHIRTATE_REDIS_MIN_IDLE_CONNS" default:"2"`
	CartTTL      time.Duration `envconfig:"TEESHIRTATE_CART_TTL" default:"168h"`
	DialTimeout  time.Duration `envconfig:"TEESHIRTATE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TEESHIRTATE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TEESHIRTATE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"TEESHIRTATE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"TEESHIRTATE_JWT_ISSUER" default:"teeshirtate"`
	ExpirationMinutes      int    `envconfig:"TEESHIRTATE_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"TEESHIRTATE_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"TEESHIRTATE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"TEESHIRTATE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"TEESHIRTATE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"TEESHIRTATE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"TEESHIRTATE_ARGON_KEY_LEN" default:"32"`
}

// AdminGateConfig carries the shared-secret step-up gate on /api/admin routes.
type AdminGateConfig struct {
	Password string        `envconfig:"TEESHIRTATE_ADMIN_GATE_PASSWORD" default:"admin2024"`
	TTL      time.Duration `envconfig:"TEESHIRTATE_ADMIN_GATE_TTL" default:"12h"`
}

// StoreConfig describes storefront identity and the WhatsApp order hand-off.
type StoreConfig struct {
	Name                 string `envconfig:"TEESHIRTATE_STORE_NAME" default:"تيشيرتاتي"`
	WhatsAppPhone        string `envconfig:"TEESHIRTATE_WHATSAPP_PHONE" default:"966500000000"`
	DefaultAdminEmail    string `envconfig:"TEESHIRTATE_DEFAULT_ADMIN_EMAIL" default:"admin@teeshirtate.com"`
	DefaultAdminPassword string `envconfig:"TEESHIRTATE_DEFAULT_ADMIN_PASSWORD" default:"admin123"`
	DefaultAdminName     string `envconfig:"TEESHIRTATE_DEFAULT_ADMIN_NAME" default:"مدير المتجر"`
}

type CatalogConfig struct {
	// FeedCacheTTL matches the admin UI's refresh poll so a stale feed is
	// never older than one poll interval.
	FeedCacheTTL        time.Duration `envconfig:"TEESHIRTATE_CATALOG_FEED_CACHE_TTL" default:"15s"`
	MaxInlineImageBytes int           `envconfig:"TEESHIRTATE_CATALOG_MAX_INLINE_IMAGE_BYTES" default:"300000"`
}

type UploadsConfig struct {
	LocalDir    string `envconfig:"TEESHIRTATE_UPLOADS_LOCAL_DIR" default:"public/uploads"`
	PublicPath  string `envconfig:"TEESHIRTATE_UPLOADS_PUBLIC_PATH" default:"/uploads"`
	MaxUploadMB int    `envconfig:"TEESHIRTATE_MAX_UPLOAD_MB" default:"10"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"TEESHIRTATE_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"TEESHIRTATE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"TEESHIRTATE_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName   string `envconfig:"TEESHIRTATE_GCS_BUCKET_NAME"`
	ObjectPrefix string `envconfig:"TEESHIRTATE_GCS_OBJECT_PREFIX" default:"products"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"TEESHIRTATE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"TEESHIRTATE_AUTO_MIGRATE" default:"false"`
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
