// Package config provides configuration management for Prayer Times.
// It handles loading, saving, and managing application settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yllada/prayer-times/aladhan"
	"github.com/yllada/prayer-times/common"
)

// Config represents the application configuration.
// All settings are persisted to a YAML file in the user's config directory.
type Config struct {
	// City is the city prayer times are fetched for.
	City string `yaml:"city"`
	// Country is the country the city belongs to.
	Country string `yaml:"country"`
	// Method is the Aladhan calculation method id.
	Method int `yaml:"method"`
	// SoundFile is the athan audio file (.mp3 or .wav). Empty means beep.
	SoundFile string `yaml:"sound_file,omitempty"`
	// MinimizeToTray hides the window to the tray instead of quitting.
	MinimizeToTray bool `yaml:"minimize_to_tray"`
	// ShowNotifications enables desktop notifications when a prayer arrives.
	ShowNotifications bool `yaml:"show_notifications"`
	// UseCityTimezone compares against the city's clock instead of the local one.
	UseCityTimezone bool `yaml:"use_city_timezone"`
	// CatchUpSeconds is how late a missed alert may still fire.
	CatchUpSeconds int `yaml:"catch_up_seconds"`
	// Theme sets the color theme: "light", "dark", or "auto".
	Theme string `yaml:"theme"`

	path string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		City:              common.DefaultCity,
		Country:           common.DefaultCountry,
		Method:            common.DefaultMethod,
		MinimizeToTray:    true,
		ShowNotifications: true,
		CatchUpSeconds:    int(common.CatchUpWindow / time.Second),
		Theme:             common.ThemeAuto,
	}
}

// Load loads the configuration from the default config file.
// If the file doesn't exist, it creates one with default values.
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the configuration stored at configPath.
func LoadFrom(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		cfg.path = configPath
		if err := cfg.Save(); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrConfigLoad, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	config := DefaultConfig()
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", common.ErrConfigLoad, configPath, err)
	}
	config.path = configPath
	config.validate()

	return config, nil
}

// validate replaces out-of-range values with their defaults.
func (c *Config) validate() {
	defaults := DefaultConfig()

	c.City = strings.TrimSpace(c.City)
	c.Country = strings.TrimSpace(c.Country)
	if c.City == "" {
		c.City = defaults.City
		c.Country = defaults.Country
	}
	if !aladhan.ValidMethod(c.Method) {
		c.Method = defaults.Method
	}
	if c.SoundFile != "" && !common.HasSoundExtension(c.SoundFile) {
		common.LogWarn("Ignoring sound file with unsupported extension: %s", c.SoundFile)
		c.SoundFile = ""
	}
	if c.CatchUpSeconds < 0 {
		c.CatchUpSeconds = defaults.CatchUpSeconds
	}
	switch c.Theme {
	case common.ThemeAuto, common.ThemeLight, common.ThemeDark:
	default:
		c.Theme = common.ThemeAuto
	}
}

// Location returns the configured location.
func (c *Config) Location() common.Location {
	return common.Location{City: c.City, Country: c.Country, Method: c.Method}
}

// SetLocation updates the configured location.
func (c *Config) SetLocation(loc common.Location) {
	c.City = loc.City
	c.Country = loc.Country
	c.Method = loc.Method
}

// CatchUpWindow returns CatchUpSeconds as a duration.
func (c *Config) CatchUpWindow() time.Duration {
	return time.Duration(c.CatchUpSeconds) * time.Second
}

// Save saves the configuration to the file it was loaded from.
func (c *Config) Save() error {
	configPath := c.path
	if configPath == "" {
		p, err := getConfigPath()
		if err != nil {
			return err
		}
		configPath = p
		c.path = p
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return fmt.Errorf("%w: creating config directory: %v", common.ErrConfigSave, err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrConfigSave, err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("%w: %v", common.ErrConfigSave, err)
	}

	return nil
}

func getConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error getting home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", common.ConfigDirName, common.ConfigFileName), nil
}
