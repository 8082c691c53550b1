// Package config defines environment configuration structs and loaders.
package config

import "strings"

type AppConfig struct {
	CheckEnvConfig
	BenchEnvConfig
	Environment string `env:"ENVIRONMENT" envDefault:"prod"`
}

// CheckEnvConfig configures the equivalence check grid.
type CheckEnvConfig struct {
	Seed          uint64 `env:"CHECK_SEED" envDefault:"0"`
	SampleSizes   []int  `env:"CHECK_SAMPLE_SIZES" envDefault:"1000000,10000000" envSeparator:","`
	ChannelCounts []int  `env:"CHECK_CHANNEL_COUNTS" envDefault:"1,5,10,20,40" envSeparator:","`
	Bins          int    `env:"CHECK_BINS" envDefault:"100"`
}

// BenchEnvConfig configures the benchmark runner.
type BenchEnvConfig struct {
	Repeats int `env:"BENCH_REPEATS" envDefault:"5"`
}

func (c *AppConfig) IsDev() bool {
	switch strings.ToLower(c.Environment) {
	case "dev", "test":
		return true
	}
	return false
}
