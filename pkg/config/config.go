package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

type Config struct {
	Env      string `env:"WEBSITE_ENV" env-default:"local"`
	LogLevel string `env:"WEBSITE_LOG_LEVEL" env-default:""`

	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Public   PublicConfig
	NATS     NATSConfig
}

type ServerConfig struct {
	Port         int           `env:"WEBSITE_BACKEND_PORT" env-default:"8000"`
	ReadTimeout  time.Duration `env:"WEBSITE_SERVER_READ_TIMEOUT" env-default:"5s"`
	WriteTimeout time.Duration `env:"WEBSITE_SERVER_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout  time.Duration `env:"WEBSITE_SERVER_IDLE_TIMEOUT" env-default:"60s"`
}

type DatabaseConfig struct {
	Host        string        `env:"WEBSITE_DB_HOST" env-default:"website-db"`
	Port        int           `env:"WEBSITE_DB_PORT" env-default:"5432"`
	Name        string        `env:"WEBSITE_DB_NAME" env-default:"casuse_hp_website"`
	User        string        `env:"WEBSITE_DB_USER" env-default:"website_user"`
	Password    string        `env:"WEBSITE_DB_PASSWORD" env-default:"website_password"`
	SSLMode     string        `env:"WEBSITE_DB_SSLMODE" env-default:"disable"`
	MaxConns    int32         `env:"WEBSITE_DB_MAX_CONNS" env-default:"10"`
	MinConns    int32         `env:"WEBSITE_DB_MIN_CONNS" env-default:"1"`
	MaxLifetime time.Duration `env:"WEBSITE_DB_MAX_CONN_LIFETIME" env-default:"1h"`
}

type AuthConfig struct {
	JWTSecret                   string `env:"WEBSITE_JWT_SECRET" env-default:"CHANGE_ME_LOCAL_ONLY"`
	JWTAlgorithm                string `env:"WEBSITE_JWT_ALGORITHM" env-default:"HS256"`
	AccessTokenExpireMinutes    int    `env:"WEBSITE_ACCESS_TOKEN_EXPIRE_MINUTES" env-default:"60"`
	RegistrationTokenTTLMinutes int    `env:"WEBSITE_REGISTRATION_TOKEN_TTL_MINUTES" env-default:"60"`
	PasswordHashScheme          string `env:"WEBSITE_PASSWORD_HASH_SCHEME" env-default:"bcrypt"`
	BcryptCost                  int    `env:"WEBSITE_BCRYPT_COST" env-default:"10"`
}

type PublicConfig struct {
	BaseURL     string `env:"WEBSITE_PUBLIC_BASE_URL" env-default:"http://localhost:20190"`
	CORSOrigins string `env:"WEBSITE_CORS_ORIGINS" env-default:"http://localhost:20060,http://localhost:5173,http://localhost:20190,https://www.casuse.mx,https://casuse.mx"`
}

type NATSConfig struct {
	URL string `env:"WEBSITE_NATS_URL" env-default:""`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("config: load .env: %w", err)
		}
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func (c *Config) Validate() error {
	switch c.Auth.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("config: unsupported jwt algorithm %q", c.Auth.JWTAlgorithm)
	}

	switch c.Auth.PasswordHashScheme {
	case "bcrypt", "argon2id":
	default:
		return fmt.Errorf("config: unsupported password hash scheme %q", c.Auth.PasswordHashScheme)
	}

	if c.Auth.JWTSecret == "" {
		return errors.New("config: jwt secret is empty")
	}
	if c.Env == EnvProd && c.Auth.JWTSecret == "CHANGE_ME_LOCAL_ONLY" {
		return errors.New("config: default jwt secret used in prod")
	}
	if c.Auth.AccessTokenExpireMinutes <= 0 || c.Auth.RegistrationTokenTTLMinutes <= 0 {
		return errors.New("config: token lifetimes must be positive")
	}

	return nil
}

func (c *Config) DatabaseURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port),
		Path:     c.Database.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.Database.SSLMode),
	}
	return u.String()
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.Auth.AccessTokenExpireMinutes) * time.Minute
}

func (c *Config) RegistrationTokenTTL() time.Duration {
	return time.Duration(c.Auth.RegistrationTokenTTLMinutes) * time.Minute
}

// CORSOrigins splits the comma separated origin list, dropping blanks.
func (c *Config) CORSOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.Public.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func (c *Config) EffectiveLogLevel() string {
	if c.LogLevel != "" {
		return c.LogLevel
	}
	if c.Env == EnvLocal {
		return "debug"
	}
	return "info"
}
