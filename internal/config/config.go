package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`
	JournalPath string `env:"JOURNAL_PATH" envDefault:"journal.jsonl"`
	// Dev switches to human-readable console logging.
	Dev bool `env:"DEV" envDefault:"false"`
}

func Load() (*Config, error) {
	// A local .env is a dev convenience, not a requirement.
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
