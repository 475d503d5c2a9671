package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvProduction represents the production environment.
	EnvProduction = "production"
	// EnvDevelopment represents the development environment.
	EnvDevelopment = "development"

	// Prefix is prepended to every environment variable name.
	Prefix = "BREATHE"
)

// Config holds all application configuration.
type Config struct {
	Env      string `envconfig:"ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// DataDir overrides the default data directory.
	DataDir string `envconfig:"DATA_DIR"`

	// Session pacing
	TickRate       int           `envconfig:"TICK_RATE" default:"60"`
	CountdownFrom  int           `envconfig:"COUNTDOWN_FROM" default:"5"`
	Cooldown       time.Duration `envconfig:"COOLDOWN" default:"2s"`
	MaxDuration    time.Duration `envconfig:"MAX_DURATION" default:"30m"`
	AllowUnbounded bool          `envconfig:"ALLOW_UNBOUNDED" default:"false"`

	// Gestures
	TurnDuration time.Duration `envconfig:"TURN_DURATION" default:"4m"`
	TapDistance  float64       `envconfig:"TAP_DISTANCE" default:"10"`
	TapTimeout   time.Duration `envconfig:"TAP_TIMEOUT" default:"500ms"`

	// Audio and platform
	Mute     bool   `envconfig:"MUTE" default:"false"`
	CueDir   string `envconfig:"CUE_DIR"`
	WakeLock bool   `envconfig:"WAKE_LOCK" default:"true"`

	// Server settings
	Port       string `envconfig:"PORT" default:"8080"`
	HSTSMaxAge int    `envconfig:"HSTS_MAX_AGE" default:"31536000"`
	CSPMode    string `envconfig:"CSP_MODE" default:"relaxed"`

	// FrameSendTimeout is how long a frame stream client may stall before it
	// misses a frame. Zero drops frames for a full client immediately.
	FrameSendTimeout time.Duration `envconfig:"FRAME_SEND_TIMEOUT" default:"5ms"`
}

// LoadConfig loads configuration from .env file and environment variables.
func LoadConfig() (*Config, error) {
	// Try to load .env file (optional for development)
	if err := godotenv.Load(); err != nil {
		// Not an error if file doesn't exist
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	var config Config
	if err := envconfig.Process(Prefix, &config); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects settings the session cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.TickRate < 1 || c.TickRate > 240 {
		errs = append(errs, fmt.Errorf("%s_TICK_RATE must be within 1..240, got %d", Prefix, c.TickRate))
	}
	if c.CountdownFrom < 0 {
		errs = append(errs, fmt.Errorf("%s_COUNTDOWN_FROM must not be negative, got %d", Prefix, c.CountdownFrom))
	}
	if c.Cooldown < 0 {
		errs = append(errs, fmt.Errorf("%s_COOLDOWN must not be negative, got %s", Prefix, c.Cooldown))
	}
	if c.MaxDuration < time.Minute {
		errs = append(errs, fmt.Errorf("%s_MAX_DURATION must be at least 1m, got %s", Prefix, c.MaxDuration))
	}
	if c.TurnDuration <= 0 {
		errs = append(errs, fmt.Errorf("%s_TURN_DURATION must be positive, got %s", Prefix, c.TurnDuration))
	}
	if c.TapDistance < 0 {
		errs = append(errs, fmt.Errorf("%s_TAP_DISTANCE must not be negative, got %g", Prefix, c.TapDistance))
	}
	if c.FrameSendTimeout < 0 {
		errs = append(errs, fmt.Errorf("%s_FRAME_SEND_TIMEOUT must not be negative, got %s", Prefix, c.FrameSendTimeout))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("%s_LOG_LEVEL must be debug, info, warn or error, got %q", Prefix, c.LogLevel))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}

// TickInterval is the period of the session tick.
func (c *Config) TickInterval() time.Duration {
	return time.Second / time.Duration(max(c.TickRate, 1))
}

// BuildCSP constructs Content Security Policy based on mode.
func BuildCSP(mode string) string {
	if mode == "strict" {
		// Production CSP
		return "default-src 'self'; " +
			"style-src 'self' 'unsafe-inline'; " +
			"script-src 'self'; " +
			"connect-src 'self'; " +
			"img-src 'self' data:; " +
			"object-src 'none'; " +
			"base-uri 'self'; " +
			"form-action 'self'"
	}

	// Development/relaxed CSP
	return "default-src 'self'; " +
		"style-src 'self' 'unsafe-inline'; " +
		"script-src 'self' 'unsafe-inline'; " +
		"connect-src 'self'; " +
		"img-src 'self' data:"
}
