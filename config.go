// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package crocopat

import (
	"errors"
	"fmt"
	"io"

	"github.com/dalzilio/crocopat/bdd"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config is the configuration of an environment, usually read from a YAML
// document. Zero values stand for the defaults of the engine.
type Config struct {
	MemoryMB   int    `yaml:"memory_mb"`   // memory for the node table, in MB
	Nodes      int    `yaml:"nodes"`       // capacity of the node table, overrides memory_mb
	UniqueBits int    `yaml:"unique_bits"` // log2 of the number of buckets of the unique table
	CacheBits  int    `yaml:"cache_bits"`  // log2 of the size of the operation cache
	StatBits   int    `yaml:"stat_bits"`   // log2 of the size of the tuple count cache
	Closure    string `yaml:"closure"`     // fixpoint or warshall
	Warnings   bool   `yaml:"warnings"`    // report representation warnings
	LogLevel   string `yaml:"log_level"`   // debug, info, warn, error; empty for no log
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		MemoryMB: 50,
		Closure:  Fixpoint.String(),
		Warnings: true,
	}
}

// LoadConfig reads a YAML configuration. Keys that are not in the document
// keep their default value.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("crocopat: bad configuration: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that the values of the configuration are in range.
func (c Config) Validate() error {
	switch {
	case c.MemoryMB < 0:
		return fmt.Errorf("crocopat: negative memory_mb (%d)", c.MemoryMB)
	case c.Nodes < 0:
		return fmt.Errorf("crocopat: negative nodes (%d)", c.Nodes)
	case c.UniqueBits < 0 || c.CacheBits < 0 || c.StatBits < 0:
		return fmt.Errorf("crocopat: negative bit width")
	}
	if _, err := ParseClosureStrategy(c.Closure); err != nil {
		return err
	}
	if _, err := c.level(); err != nil {
		return err
	}
	return nil
}

func (c Config) level() (zapcore.Level, error) {
	if c.LogLevel == "" {
		return zapcore.InfoLevel, nil
	}
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return lvl, fmt.Errorf("crocopat: bad log_level: %w", err)
	}
	return lvl, nil
}

// Logger builds a production logger at the configured level. It returns a
// no-op logger when no level is given.
func (c Config) Logger() (*zap.Logger, error) {
	if c.LogLevel == "" {
		return zap.NewNop(), nil
	}
	lvl, err := c.level()
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}

// Options translates the configuration into engine options. Bit widths are
// capped by the engine.
func (c Config) Options() []bdd.Option {
	var opts []bdd.Option
	switch {
	case c.Nodes > 0:
		opts = append(opts, bdd.Nodesize(c.Nodes))
	case c.MemoryMB > 0:
		opts = append(opts, bdd.Nodesize(c.MemoryMB*bdd.NodesPerMB))
	}
	if c.UniqueBits > 0 {
		opts = append(opts, bdd.Uniquebits(c.UniqueBits))
	}
	if c.CacheBits > 0 {
		opts = append(opts, bdd.Cachebits(c.CacheBits))
	}
	if c.StatBits > 0 {
		opts = append(opts, bdd.Statbits(c.StatBits))
	}
	return opts
}
