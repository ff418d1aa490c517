// Package config reads process-wide defaults from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"golang.org/x/text/language"
)

type Config struct {
	DB        string `env:"PARKEDIT_DB" envDefault:"parkedit.db"`
	Seed      int64  `env:"PARKEDIT_SEED" envDefault:"0"` // 0 picks a random seed
	Lang      string `env:"PARKEDIT_LANG" envDefault:"en"`
	RowHeight int    `env:"PARKEDIT_ROW_HEIGHT" envDefault:"12"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.RowHeight <= 0 {
		return Config{}, fmt.Errorf("PARKEDIT_ROW_HEIGHT must be positive, got %d", cfg.RowHeight)
	}
	if _, err := language.Parse(cfg.Lang); err != nil {
		return Config{}, fmt.Errorf("PARKEDIT_LANG: %w", err)
	}
	return cfg, nil
}

func (c Config) Language() language.Tag {
	tag, err := language.Parse(c.Lang)
	if err != nil {
		return language.English
	}
	return tag
}
