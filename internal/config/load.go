package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// LoadConfig reads an optional .env file and parses the environment.
// Variables already set in the environment win over the file.
func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env not loaded; continuing with existing environment")
	}

	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "parse environment")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) validate() error {
	if c.Bins <= 0 {
		return errors.Errorf("CHECK_BINS must be positive, got %d", c.Bins)
	}
	if c.Repeats <= 0 {
		return errors.Errorf("BENCH_REPEATS must be positive, got %d", c.Repeats)
	}
	for _, n := range c.SampleSizes {
		if n <= 0 {
			return errors.Errorf("CHECK_SAMPLE_SIZES entries must be positive, got %d", n)
		}
	}
	for _, nw := range c.ChannelCounts {
		if nw <= 0 {
			return errors.Errorf("CHECK_CHANNEL_COUNTS entries must be positive, got %d", nw)
		}
	}
	return nil
}
