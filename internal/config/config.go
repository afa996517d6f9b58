package config

import (
	"errors"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/samber/oops"

	"github.com/hsm-gustavo/userauth-api/internal/common"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port int `env:"SERVER_PORT" envDefault:"8080"`
}

type DatabaseConfig struct {
	Host        string `env:"DB_HOST" envDefault:"localhost"`
	Port        int    `env:"DB_PORT" envDefault:"3306"`
	User        string `env:"DB_USER" envDefault:"gouser"`
	Password    string `env:"DB_PASSWORD" envDefault:"gopass"`
	Name        string `env:"DB_NAME" envDefault:"godb"`
	AutoMigrate bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`
}

type AuthConfig struct {
	JWTSecret   string   `env:"JWT_SECRET,required,notEmpty"`
	TokenExpiry Duration `env:"JWT_EXPIRATION_TIME" envDefault:"1h"`
	Issuer      string   `env:"JWT_ISSUER" envDefault:"userauth-api"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// Duration accepts Go durations ("15m"), plain seconds ("3600") and whole
// days ("7d").
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" {
		return errors.New("empty duration")
	}

	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(secs) * time.Second)
		return nil
	}

	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.ParseInt(days, 10, 64)
		if err != nil {
			return err
		}
		*d = Duration(time.Duration(n) * 24 * time.Hour)
		return nil
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	return LoadFrom(".env")
}

// LoadFrom is Load with an explicit dotenv path. Variables already set in the
// environment take precedence over the file.
func LoadFrom(path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, oops.Code("CONFIG_DOTENV").
			With("path", path).
			Wrapf(errors.Join(common.ErrConfiguration, err), "load dotenv")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, oops.Code("CONFIG_ENV").Wrapf(errors.Join(common.ErrConfiguration, err), "parse env")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return oops.Code("CONFIG_JWT_SECRET").Wrapf(common.ErrConfiguration, "JWT_SECRET must not be blank")
	}
	if c.Auth.TokenExpiry.Std() <= 0 {
		return oops.Code("CONFIG_JWT_EXPIRATION").
			With("expiry", c.Auth.TokenExpiry.Std().String()).
			Wrapf(common.ErrConfiguration, "JWT_EXPIRATION_TIME must be positive")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return oops.Code("CONFIG_SERVER_PORT").
			With("port", c.Server.Port).
			Wrapf(common.ErrConfiguration, "SERVER_PORT out of range")
	}
	return nil
}
