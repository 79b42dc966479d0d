// Package config provides configuration helpers and TOML parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
	Kafka    KafkaConfig    `toml:"kafka"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Text         *string   `toml:"text"`
	Phonemes     *[]string `toml:"phonemes"`
	PhonemesFile *string   `toml:"phonemes-file"`
	Delay        *Duration `toml:"delay"`
	Seed         *int64    `toml:"seed"`
}

// ServerConfig maps HTTP server settings.
type ServerConfig struct {
	Addr         *string   `toml:"addr"`
	ReadTimeout  *Duration `toml:"read-timeout"`
	WriteTimeout *Duration `toml:"write-timeout"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level  *string `toml:"level"`
	Format *string `toml:"format"`
}

// KafkaConfig maps analysis event publishing settings.
type KafkaConfig struct {
	Enabled *bool     `toml:"enabled"`
	Brokers *[]string `toml:"brokers"`
	Topic   *string   `toml:"topic"`
}

// Duration decodes TOML strings such as "1.5s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return FileConfig{}, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return FileConfig{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values that are set but unusable.
func (c FileConfig) Validate() error {
	var errs []error
	p := c.Practice
	if p.Text != nil && strings.TrimSpace(*p.Text) == "" {
		errs = append(errs, errors.New("practice.text must contain at least one word"))
	}
	if p.Phonemes != nil && len(*p.Phonemes) == 0 {
		errs = append(errs, errors.New("practice.phonemes must not be empty"))
	}
	if p.Phonemes != nil && p.PhonemesFile != nil {
		errs = append(errs, errors.New("practice.phonemes and practice.phonemes-file are mutually exclusive"))
	}
	if p.Delay != nil && p.Delay.Duration < 0 {
		errs = append(errs, errors.New("practice.delay must not be negative"))
	}
	s := c.Server
	if s.Addr != nil && strings.TrimSpace(*s.Addr) == "" {
		errs = append(errs, errors.New("server.addr must not be empty"))
	}
	if s.ReadTimeout != nil && s.ReadTimeout.Duration <= 0 {
		errs = append(errs, errors.New("server.read-timeout must be positive"))
	}
	if s.WriteTimeout != nil && s.WriteTimeout.Duration <= 0 {
		errs = append(errs, errors.New("server.write-timeout must be positive"))
	}
	if l := c.Log.Format; l != nil && *l != "json" && *l != "console" {
		errs = append(errs, fmt.Errorf("log.format must be json or console, got %q", *l))
	}
	if k := c.Kafka; k.Enabled != nil && *k.Enabled && (k.Brokers == nil || len(*k.Brokers) == 0) {
		errs = append(errs, errors.New("kafka.brokers is required when kafka.enabled is true"))
	}
	return errors.Join(errs...)
}
