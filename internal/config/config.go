// Package config loads the gateway configuration from the environment.
//
// All settings come from environment variables with the names the MORT
// tooling already uses (PRIMARY_CLOUD_*, SECONDARY_CLOUD_*, LOCAL_API_*,
// SAFE_SEPARATOR, ACTIVE_MODE, ...). The configuration is read once at
// startup into an immutable Config value that is passed into every component;
// nothing performs ambient lookups afterwards.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Mode selects which engine set the router drives.
type Mode string

const (
	// ModeRemote routes to the primary/secondary cloud pair with failover.
	ModeRemote Mode = "Remote"
	// ModeLocal routes to the single local slot with no failover.
	ModeLocal Mode = "Local"
)

// SlotConfig holds the per-backend settings of one engine slot.
type SlotConfig struct {
	URL            string
	Key            string
	Model          string
	Temperature    float64
	ContextEnabled bool
}

// HasKey reports whether a credential is configured.
func (s SlotConfig) HasKey() bool {
	return s.Key != ""
}

// Config is the immutable startup configuration of the gateway.
type Config struct {
	Mode       Mode
	Separator  string
	ControlLog bool

	ServerHost string
	ServerPort int

	ContextDepth     int
	ProbeInterval    time.Duration
	FailureThreshold int
	RequestTimeout   time.Duration

	CacheDBPath string

	Primary   SlotConfig
	Secondary SlotConfig
	Local     SlotConfig
}

// Load reads the configuration from the environment, applying the gateway's
// historical defaults for anything unset.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SAFE_SEPARATOR", "//////")
	v.SetDefault("ACTIVE_MODE", "Remote")
	v.SetDefault("ENABLE_CONTROL_LOG", false)

	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 5000)

	v.SetDefault("CONTEXT_DEPTH", 2)
	v.SetDefault("HEALTH_PROBE_INTERVAL", "60s")
	v.SetDefault("HEALTH_FAILURE_THRESHOLD", 3)
	v.SetDefault("REQUEST_TIMEOUT", "60s")

	v.SetDefault("CACHE_DB_PATH", "")

	v.SetDefault("PRIMARY_CLOUD_URL", "https://api.intelligence.io.solutions/api/v1/chat/completions")
	v.SetDefault("PRIMARY_CLOUD_KEY", "")
	v.SetDefault("PRIMARY_CLOUD_MODEL", "meta-llama/Llama-4-Maverick-17B-128E-Instruct-FP8")
	v.SetDefault("PRIMARY_CLOUD_TEMPERATURE", 0.7)
	v.SetDefault("PRIMARY_CLOUD_ENABLE_CONTEXT", true)

	v.SetDefault("SECONDARY_CLOUD_URL", "https://api.intelligence.io.solutions/api/v1/chat/completions")
	v.SetDefault("SECONDARY_CLOUD_KEY", "")
	v.SetDefault("SECONDARY_CLOUD_MODEL", "Qwen/Qwen3-Next-80B-A3B-Instruct")
	v.SetDefault("SECONDARY_CLOUD_TEMPERATURE", 0.7)
	v.SetDefault("SECONDARY_CLOUD_ENABLE_CONTEXT", true)

	v.SetDefault("LOCAL_API_URL", "http://localhost:11434/v1/chat/completions")
	v.SetDefault("LOCAL_API_KEY", "")
	v.SetDefault("LOCAL_API_MODEL", "zongwei/gemma3-translator:4b")
	v.SetDefault("LOCAL_API_TEMPERATURE", 0.0)
	v.SetDefault("LOCAL_API_ENABLE_CONTEXT", false)

	mode, err := parseMode(v.GetString("ACTIVE_MODE"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Mode:       mode,
		Separator:  v.GetString("SAFE_SEPARATOR"),
		ControlLog: v.GetBool("ENABLE_CONTROL_LOG"),

		ServerHost: v.GetString("SERVER_HOST"),
		ServerPort: v.GetInt("SERVER_PORT"),

		ContextDepth:     v.GetInt("CONTEXT_DEPTH"),
		ProbeInterval:    v.GetDuration("HEALTH_PROBE_INTERVAL"),
		FailureThreshold: v.GetInt("HEALTH_FAILURE_THRESHOLD"),
		RequestTimeout:   v.GetDuration("REQUEST_TIMEOUT"),

		CacheDBPath: v.GetString("CACHE_DB_PATH"),

		Primary:   slotConfig(v, "PRIMARY_CLOUD"),
		Secondary: slotConfig(v, "SECONDARY_CLOUD"),
		Local:     slotConfig(v, "LOCAL_API"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func slotConfig(v *viper.Viper, prefix string) SlotConfig {
	return SlotConfig{
		URL:            v.GetString(prefix + "_URL"),
		Key:            v.GetString(prefix + "_KEY"),
		Model:          v.GetString(prefix + "_MODEL"),
		Temperature:    v.GetFloat64(prefix + "_TEMPERATURE"),
		ContextEnabled: v.GetBool(prefix + "_ENABLE_CONTEXT"),
	}
}

// parseMode accepts both the current mode names and the historical "Cloud"
// spelling for the remote pair.
func parseMode(raw string) (Mode, error) {
	switch raw {
	case "Remote", "remote", "Cloud", "cloud":
		return ModeRemote, nil
	case "Local", "local":
		return ModeLocal, nil
	default:
		return "", fmt.Errorf("config: invalid ACTIVE_MODE %q (must be Remote, Cloud or Local)", raw)
	}
}

func (c *Config) validate() error {
	if c.Separator == "" {
		return fmt.Errorf("config: SAFE_SEPARATOR must not be empty")
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("config: invalid SERVER_PORT %d", c.ServerPort)
	}
	if c.ContextDepth < 0 {
		return fmt.Errorf("config: CONTEXT_DEPTH must not be negative")
	}
	if c.ProbeInterval <= 0 {
		return fmt.Errorf("config: HEALTH_PROBE_INTERVAL must be positive")
	}
	if c.FailureThreshold <= 0 {
		return fmt.Errorf("config: HEALTH_FAILURE_THRESHOLD must be positive")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("config: REQUEST_TIMEOUT must be positive")
	}

	for _, slot := range []struct {
		name string
		cfg  SlotConfig
	}{
		{"PRIMARY_CLOUD", c.Primary},
		{"SECONDARY_CLOUD", c.Secondary},
		{"LOCAL_API", c.Local},
	} {
		if err := validateSlot(slot.name, slot.cfg); err != nil {
			return err
		}
	}
	return nil
}

func validateSlot(name string, s SlotConfig) error {
	if s.URL == "" {
		return fmt.Errorf("config: %s_URL is required", name)
	}
	if s.Model == "" {
		return fmt.Errorf("config: %s_MODEL is required", name)
	}
	if s.Temperature < 0.0 || s.Temperature > 2.0 {
		return fmt.Errorf("config: %s_TEMPERATURE %.2f out of range [0.0, 2.0]", name, s.Temperature)
	}
	return nil
}
