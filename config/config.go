// Package config loads flow-agent settings from a local .env file and the
// process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// ErrMissingAPIKey is returned when the required credential is absent; the
// process refuses to start in that case.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY not found; put it in .env or your environment")

// Config holds the process-wide settings shared by both front ends.
type Config struct {
	APIKey    string `mapstructure:"openai_api_key"`
	Model     string `mapstructure:"agent_model"`
	Addr      string `mapstructure:"agent_addr"`
	LogLevel  string `mapstructure:"agent_log_level"`
	LogPretty bool   `mapstructure:"agent_log_pretty"`
	WebSearch bool   `mapstructure:"agent_web_search"`
}

// Load reads ./.env (when present) and the environment.
func Load() (Config, error) {
	return LoadFrom(".env")
}

// LoadFrom reads the given env file (when present) and the environment.
// Environment variables override file values.
func LoadFrom(envFile string) (Config, error) {
	v := viper.New()
	v.SetDefault("agent_model", "gpt-4.1")
	v.SetDefault("agent_addr", ":8000")
	v.SetDefault("agent_log_level", "info")
	v.SetDefault("agent_log_pretty", false)
	v.SetDefault("agent_web_search", true)

	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read %s: %w", envFile, err)
		}
	}

	v.AutomaticEnv()
	for _, key := range []string{
		"openai_api_key",
		"agent_model",
		"agent_addr",
		"agent_log_level",
		"agent_log_pretty",
		"agent_web_search",
	} {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return Config{}, ErrMissingAPIKey
	}
	return cfg, nil
}
