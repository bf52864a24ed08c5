package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"diskmanager/internal/models"

	"github.com/adrg/xdg"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const AppName = "diskmanager"

// Config represents the complete diskmanager configuration
type Config struct {
	Poll    PollConfig    `yaml:"poll"`
	Volumes VolumesConfig `yaml:"volumes"`
	History HistoryConfig `yaml:"history"`
	HTTP    HTTPConfig    `yaml:"http"`
	Logging LoggingConfig `yaml:"logging"`
}

// PollConfig contains the controller schedules
type PollConfig struct {
	Mode            models.Mode   `yaml:"mode"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	AccessInterval  time.Duration `yaml:"access_interval"`
	AccessDuration  time.Duration `yaml:"access_duration"`
	EvictAbsent     bool          `yaml:"evict_absent"`
}

// VolumesConfig narrows the enumerated volumes
type VolumesConfig struct {
	IncludeFstypes     []string `yaml:"include_fstypes"`
	ExcludeMountpoints []string `yaml:"exclude_mountpoints"`
}

// HistoryConfig bounds the kept usage samples
type HistoryConfig struct {
	MaxPoints int `yaml:"max_points"`
}

// HTTPConfig contains the API server settings
type HTTPConfig struct {
	Enabled        bool          `yaml:"enabled"`
	Listen         string        `yaml:"listen"`
	Auth           bool          `yaml:"auth"`
	Secret         string        `yaml:"secret"`
	TokenExpiry    time.Duration `yaml:"token_expiry"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	AllowedIPs     []string      `yaml:"allowed_ips"`
	RateLimit      float64       `yaml:"rate_limit"`
	RateBurst      int           `yaml:"rate_burst"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

var DefaultConfig Config

func init() {
	DefaultConfig = Config{
		Poll: PollConfig{
			Mode:            models.ModeChange,
			RefreshInterval: 5 * time.Second,
			AccessInterval:  1 * time.Second,
			AccessDuration:  3 * time.Second,
			EvictAbsent:     true,
		},
		History: HistoryConfig{
			MaxPoints: 60,
		},
		HTTP: HTTPConfig{
			Enabled:     false,
			Listen:      "localhost:8080",
			Auth:        true,
			TokenExpiry: 90 * 24 * time.Hour,
			RateLimit:   100,
			RateBurst:   200,
		},
		Logging: LoggingConfig{
			Level: "warning",
		},
	}
}

// DefaultPath returns the config file location under the XDG config home
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yml")
}

// DefaultLogFile returns the log file used while the dashboard owns the terminal
func DefaultLogFile() string {
	return filepath.Join(xdg.StateHome, AppName, AppName+".log")
}

// DefaultKeyFile returns the location of the persisted API signing key
func DefaultKeyFile() string {
	return filepath.Join(xdg.DataHome, AppName, "secret-key")
}

// Load reads the configuration at path on top of DefaultConfig. An empty path
// means DefaultPath, which may be missing.
func Load(path string) (Config, error) {
	res := DefaultConfig
	explicit := len(path) > 0
	if explicit == false {
		path = DefaultPath()
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && explicit == false {
			return res, nil
		}
		return Config{}, fmt.Errorf("could not read config file: %w", err)
	}

	if err := Parse(content, &res); err != nil {
		return Config{}, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return res, nil
}

// Parse decodes YAML content over cfg and validates the result
func Parse(content []byte, cfg *Config) error {
	if len(strings.TrimSpace(string(content))) > 0 {
		if err := yaml.Unmarshal(content, cfg); err != nil {
			return err
		}
	}
	return cfg.Validate()
}

// Validate checks that every setting is usable
func (c *Config) Validate() error {
	switch c.Poll.Mode {
	case models.ModeChange, models.ModeSimulated:
	default:
		return fmt.Errorf("poll.mode: unknown mode '%s' (expected %s or %s)",
			c.Poll.Mode, models.ModeChange, models.ModeSimulated)
	}
	if c.Poll.RefreshInterval <= 0 {
		return fmt.Errorf("poll.refresh_interval: must be positive, got %s", c.Poll.RefreshInterval)
	}
	if c.Poll.AccessInterval <= 0 {
		return fmt.Errorf("poll.access_interval: must be positive, got %s", c.Poll.AccessInterval)
	}
	if c.Poll.AccessDuration <= 0 {
		return fmt.Errorf("poll.access_duration: must be positive, got %s", c.Poll.AccessDuration)
	}
	if c.History.MaxPoints <= 0 {
		return fmt.Errorf("history.max_points: must be positive, got %d", c.History.MaxPoints)
	}
	if c.HTTP.Enabled && len(c.HTTP.Listen) == 0 {
		return fmt.Errorf("http.listen: required when http is enabled")
	}
	if c.HTTP.RateLimit <= 0 || c.HTTP.RateBurst <= 0 {
		return fmt.Errorf("http.rate_limit/http.rate_burst: must be positive")
	}
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}
