// Package config loads settings from flags, environment variables, an
// optional .dailytracker.yaml file and defaults, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	KeyToken        = "token"
	KeyDBPath       = "db_path"
	KeySessionDir   = "session_dir"
	KeyTickInterval = "tick_interval"
	KeyTolerance    = "tolerance"
	KeySendRate     = "send_rate"
	KeyDebug        = "debug"
)

// env names kept from earlier deployments of the bot
var envNames = map[string]string{
	KeyToken:        "TELEGRAM_BOT_TOKEN",
	KeyDBPath:       "DB_PATH",
	KeySessionDir:   "SESSION_DIR",
	KeyTickInterval: "TICK_INTERVAL",
	KeyTolerance:    "REMINDER_TOLERANCE",
	KeySendRate:     "SEND_RATE",
	KeyDebug:        "DEBUG",
}

// flag name to config key
var flagKeys = map[string]string{
	"token":     KeyToken,
	"db":        KeyDBPath,
	"sessions":  KeySessionDir,
	"debug":     KeyDebug,
	"tick":      KeyTickInterval,
	"tolerance": KeyTolerance,
}

// Config is the resolved process configuration
type Config struct {
	Token        string
	DBPath       string
	SessionDir   string // empty keeps sessions in memory
	TickInterval time.Duration
	Tolerance    time.Duration
	SendRate     float64
	Debug        bool
}

// Load resolves the configuration. flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault(KeyDBPath, "data/mood_tracker.db")
	v.SetDefault(KeySessionDir, "data/sessions")
	v.SetDefault(KeyTickInterval, "30s")
	v.SetDefault(KeyTolerance, "60s")
	v.SetDefault(KeySendRate, 25)
	v.SetDefault(KeyDebug, false)

	v.SetConfigName(".dailytracker") // .yaml is implicit
	v.SetEnvPrefix("DAILYTRACKER")
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()
	for key, env := range envNames {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if override := os.Getenv("DAILYTRACKER_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
				}
			}
		}
	}

	c := &Config{
		Token:        v.GetString(KeyToken),
		DBPath:       v.GetString(KeyDBPath),
		SessionDir:   v.GetString(KeySessionDir),
		TickInterval: v.GetDuration(KeyTickInterval),
		Tolerance:    v.GetDuration(KeyTolerance),
		SendRate:     v.GetFloat64(KeySendRate),
		Debug:        v.GetBool(KeyDebug),
	}
	return c, c.Validate()
}

// Validate checks the reminder window: tolerance must cover at least one
// tick and stay under half a day.
func (c *Config) Validate() error {
	switch {
	case c.DBPath == "":
		return errors.New("db_path must not be empty")
	case c.TickInterval <= 0:
		return fmt.Errorf("tick_interval must be positive, got %s", c.TickInterval)
	case c.Tolerance < c.TickInterval:
		return fmt.Errorf("tolerance %s is shorter than tick_interval %s", c.Tolerance, c.TickInterval)
	case c.Tolerance >= 12*time.Hour:
		return fmt.Errorf("tolerance %s must be under 12h", c.Tolerance)
	case c.SendRate <= 0:
		return fmt.Errorf("send_rate must be positive, got %v", c.SendRate)
	}
	return nil
}

// RequireToken fails when no bot token is configured
func (c *Config) RequireToken() error {
	if c.Token == "" {
		return errors.New("telegram bot token is required: use --token or TELEGRAM_BOT_TOKEN")
	}
	return nil
}
