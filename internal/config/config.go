package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything selected once at startup. Schema variants and the
// shuffle mode are configuration, not runtime switches.
type Config struct {
	ListenAddr    string
	DBPath        string
	AdminUser     string
	AdminPassword string
	SessionTTL    time.Duration

	// ShuffleMode is "uniform" or "legacy".
	ShuffleMode string
	// ParticipantSchema is "strict" or "sniffed".
	ParticipantSchema string
	GiftHasUnit       bool
	GiftHasCost       bool
	ExpandUnits       bool
}

// Load reads configuration from an optional .env file and the environment.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	// A missing .env is fine; the environment alone may carry everything.
	_ = v.ReadInConfig()

	v.SetDefault("LISTEN_ADDR", ":8080")
	v.SetDefault("DB_PATH", "data/raffle.db")
	v.SetDefault("ADMIN_USER", "admin")
	v.SetDefault("SESSION_TTL", "30m")
	v.SetDefault("SHUFFLE_MODE", "uniform")
	v.SetDefault("PARTICIPANT_SCHEMA", "strict")
	v.SetDefault("GIFT_HAS_UNIT", true)
	v.SetDefault("GIFT_HAS_COST", true)
	v.SetDefault("EXPAND_UNITS", true)

	cfg := &Config{
		ListenAddr:        v.GetString("LISTEN_ADDR"),
		DBPath:            v.GetString("DB_PATH"),
		AdminUser:         v.GetString("ADMIN_USER"),
		AdminPassword:     v.GetString("ADMIN_PASSWORD"),
		SessionTTL:        v.GetDuration("SESSION_TTL"),
		ShuffleMode:       v.GetString("SHUFFLE_MODE"),
		ParticipantSchema: v.GetString("PARTICIPANT_SCHEMA"),
		GiftHasUnit:       v.GetBool("GIFT_HAS_UNIT"),
		GiftHasCost:       v.GetBool("GIFT_HAS_COST"),
		ExpandUnits:       v.GetBool("EXPAND_UNITS"),
	}

	if cfg.AdminPassword == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD is required")
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive")
	}
	if cfg.ShuffleMode != "uniform" && cfg.ShuffleMode != "legacy" {
		return nil, fmt.Errorf("SHUFFLE_MODE must be uniform or legacy, got %q", cfg.ShuffleMode)
	}
	if cfg.ParticipantSchema != "strict" && cfg.ParticipantSchema != "sniffed" {
		return nil, fmt.Errorf("PARTICIPANT_SCHEMA must be strict or sniffed, got %q", cfg.ParticipantSchema)
	}
	return cfg, nil
}
