package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig mirrors Config with pointer fields so that only variables
// actually present in the environment override earlier layers.
type envConfig struct {
	RunAddress                  *string        `env:"RUN_ADDRESS"`
	DatabaseDSN                 *string        `env:"DATABASE_DSN"`
	SecretKey                   *string        `env:"SECRET_KEY"`
	AccessTokenValidityDuration *time.Duration `env:"ACCESS_TOKEN_VALIDITY_DURATION"`
	AdminUsername               *string        `env:"ADMIN_USERNAME"`
	AdminPassword               *string        `env:"ADMIN_PASSWORD"`
}

// parseEnv overlays configuration values from environment variables onto the
// provided Config. Unset variables leave the current values untouched.
func parseEnv(config *Config) {
	c := envConfig{}
	if err := env.Parse(&c); err != nil {
		panic(err)
	}

	if c.RunAddress != nil {
		config.RunAddress = *c.RunAddress
	}
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	if c.SecretKey != nil {
		config.SecretKey = *c.SecretKey
	}
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = *c.AccessTokenValidityDuration
	}
	if c.AdminUsername != nil {
		config.AdminUsername = *c.AdminUsername
	}
	if c.AdminPassword != nil {
		config.AdminPassword = *c.AdminPassword
	}
}
