package model

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Port          int    `koanf:"port" validate:"required"`
	AdminUsername string `koanf:"admin_username" validate:"required"`
	AdminPassword string `koanf:"admin_password"`
	SecretKey     string `koanf:"secret_key" validate:"required"`
	DatabaseURL   string `koanf:"database_url" validate:"required"`
	Production    bool   `koanf:"production"`
}

// LoadConfig reads SESSIONS_* environment variables into a Config.
// An empty admin password is allowed and disables login entirely.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:          8080,
		AdminUsername: "admin",
	}

	k := koanf.New(".")
	err := k.Load(env.Provider("SESSIONS_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "SESSIONS_"))
	}), nil)
	if err != nil {
		return cfg, fmt.Errorf("could not load environment: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("could not unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
