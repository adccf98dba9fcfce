// Package config resolves suds settings from defaults, an optional .env
// file, environment variables and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/habedi/suds/pkg/validation"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// EnvConfigPath names the variable that points at a YAML config file.
const EnvConfigPath = "SUDS_CONFIG"

// dotEnvFile is read from the working directory when present. Variables
// already set in the environment win over it.
var dotEnvFile = ".env"

// Config holds the client settings. Command-line flags override it.
type Config struct {
	APIURL    string        `yaml:"api_url" env:"SUDS_API_URL" env-default:"https://yourlaundry.pythonanywhere.com/api"`
	DBPath    string        `yaml:"db_path" env:"SUDS_DB_PATH"`
	Timeout   time.Duration `yaml:"timeout" env:"SUDS_TIMEOUT" env-default:"30s"`
	RateLimit float64       `yaml:"rate_limit" env:"SUDS_RATE_LIMIT" env-default:"0"`
	Threads   int           `yaml:"threads" env:"SUDS_THREADS" env-default:"5"`
}

// Load builds the configuration. Precedence, lowest first: defaults, .env,
// environment, then the YAML file given by path or SUDS_CONFIG. Environment
// variables are applied on top of the file as well.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(dotEnvFile); err != nil {
		return nil, err
	}

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}

	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		log.Debug().Str("path", path).Msg("Loaded config file")
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadDotEnv(file string) error {
	if file == "" {
		return nil
	}
	if _, err := os.Stat(file); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(file); err != nil {
		return fmt.Errorf("failed to load %s: %w", file, err)
	}
	log.Debug().Str("file", file).Msg("Loaded environment file")
	return nil
}

// Validate rejects settings the client cannot work with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api url must be an absolute http(s) URL, got %q", c.APIURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit cannot be negative, got %g", c.RateLimit)
	}
	return validation.ValidateThreadCount(c.Threads)
}
