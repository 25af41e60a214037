package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Simulation    SimulationConfig
	Documents     DocumentsConfig
	Seed          SeedConfig
	Admin         AdminConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TRAININGDESK_APP_ENV" required:"true"`
	Port         string `envconfig:"TRAININGDESK_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"TRAININGDESK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TRAININGDESK_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"TRAININGDESK_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// RedisConfig is optional; idempotency and auth rate limiting are skipped without it.
type RedisConfig struct {
	URL          string        `envconfig:"TRAININGDESK_REDIS_URL"`
	Address      string        `envconfig:"TRAININGDESK_REDIS_ADDR"`
	Password     string        `envconfig:"TRAININGDESK_REDIS_PASSWORD"`
	DB           int           `envconfig:"TRAININGDESK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TRAININGDESK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TRAININGDESK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TRAININGDESK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TRAININGDESK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TRAININGDESK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"TRAININGDESK_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"TRAININGDESK_JWT_ISSUER" default:"trainingdesk"`
	ExpirationMinutes int    `envconfig:"TRAININGDESK_JWT_EXPIRATION_MINUTES" default:"60"`
}

// TTL returns the access token lifetime.
func (j JWTConfig) TTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"TRAININGDESK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"TRAININGDESK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"TRAININGDESK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"TRAININGDESK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"TRAININGDESK_ARGON_KEY_LEN" default:"32"`
	// MinLength applies to self-service password changes. Admin-created accounts use the
	// looser account minimum enforced by the users service.
	MinLength int `envconfig:"TRAININGDESK_PASSWORD_MIN_LENGTH" default:"8"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"TRAININGDESK_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"TRAININGDESK_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"TRAININGDESK_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

// SimulationConfig holds the artificial latencies the dashboard used in place of a backend.
type SimulationConfig struct {
	AssistantReplyDelay time.Duration `envconfig:"TRAININGDESK_ASSISTANT_REPLY_DELAY" default:"1s"`
	UserSaveDelay       time.Duration `envconfig:"TRAININGDESK_USER_SAVE_DELAY" default:"500ms"`
	PasswordChangeDelay time.Duration `envconfig:"TRAININGDESK_PASSWORD_CHANGE_DELAY" default:"0s"`
}

type DocumentsConfig struct {
	MaxPerPurpose int `envconfig:"TRAININGDESK_DOCUMENTS_MAX_PER_PURPOSE" default:"10"`
	MaxUploadMB   int `envconfig:"TRAININGDESK_DOCUMENTS_MAX_UPLOAD_MB" default:"50"`
}

type SeedConfig struct {
	MockData     bool   `envconfig:"TRAININGDESK_SEED_MOCK_DATA" default:"true"`
	DemoPassword string `envconfig:"TRAININGDESK_SEED_DEMO_PASSWORD" default:"Welcome@123"`
}

// AdminConfig is the operator account. Admins are not part of the managed user list.
type AdminConfig struct {
	Name     string `envconfig:"TRAININGDESK_ADMIN_NAME" default:"Admin"`
	Email    string `envconfig:"TRAININGDESK_ADMIN_EMAIL" default:"admin@company.com"`
	Password string `envconfig:"TRAININGDESK_ADMIN_PASSWORD"`
}

func (c *Config) validate() error {
	if c.JWT.ExpirationMinutes <= 0 {
		return fmt.Errorf("%s must be positive", EnvJWTExpMins)
	}
	if c.Documents.MaxPerPurpose <= 0 {
		return fmt.Errorf("%s must be positive", EnvDocumentsMaxPerPurpose)
	}
	if c.Password.MinLength <= 0 {
		return fmt.Errorf("%s must be positive", EnvPasswordMinLength)
	}
	if c.Simulation.AssistantReplyDelay < 0 || c.Simulation.UserSaveDelay < 0 || c.Simulation.PasswordChangeDelay < 0 {
		return fmt.Errorf("simulation delays must not be negative")
	}
	return nil
}
