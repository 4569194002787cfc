package authflow

import (
	"time"

	"github.com/caarlos0/env/v11"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// EnvConfig is the environment-backed Config implementation.
type EnvConfig struct {
	BaseURL           string        `env:"AUTHFLOW_BASE_URL"            envDefault:"http://localhost:8000"`
	RequestTimeout    time.Duration `env:"AUTHFLOW_REQUEST_TIMEOUT"     envDefault:"10s"`
	StorePath         string        `env:"AUTHFLOW_STORE_PATH"          envDefault:"authflow.db"`
	ValidateOnRestore bool          `env:"AUTHFLOW_VALIDATE_ON_RESTORE" envDefault:"false"`
}

var _ Config = (*EnvConfig)(nil)

// LoadConfigFromEnv parses configuration from AUTHFLOW_* environment
// variables, falling back to defaults for anything unset.
func LoadConfigFromEnv() (*EnvConfig, error) {
	cfg := &EnvConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c EnvConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.BaseURL, validation.Required, is.URL),
		validation.Field(&c.StorePath, validation.Required),
	)
}

func (c *EnvConfig) GetBaseURL() string {
	return c.BaseURL
}

func (c *EnvConfig) GetRequestTimeout() time.Duration {
	return c.RequestTimeout
}

func (c *EnvConfig) GetStorePath() string {
	return c.StorePath
}

func (c *EnvConfig) GetValidateOnRestore() bool {
	return c.ValidateOnRestore
}
