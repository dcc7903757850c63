package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/FluidXR/droidlog/internal/adb"
)

// Destination is an rclone remote screenshots can be pushed to.
type Destination struct {
	Name         string `yaml:"name"`
	RcloneRemote string `yaml:"rclone_remote"`
}

// DeviceConfig stores per-device settings.
type DeviceConfig struct {
	Nickname string `yaml:"nickname,omitempty"`
	Address  string `yaml:"address,omitempty"` // host:port for `adb connect`
}

// Config is the top-level configuration.
type Config struct {
	ADBPath        string                  `yaml:"adb_path"`
	CommandTimeout time.Duration           `yaml:"command_timeout"`
	PidofMinSDK    int                     `yaml:"pidof_min_sdk"`
	ScreenshotDir  string                  `yaml:"screenshot_dir"`
	SettingsPath   string                  `yaml:"settings_path"`
	LogLevel       string                  `yaml:"log_level"`
	Destinations   []Destination           `yaml:"destinations"`
	Devices        map[string]DeviceConfig `yaml:"devices,omitempty"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ADBPath:        "adb",
		CommandTimeout: adb.DefaultTimeout,
		PidofMinSDK:    adb.DefaultPidofMinSDK,
		ScreenshotDir:  os.TempDir(),
		SettingsPath:   filepath.Join(ConfigDir(), "settings.json"),
		LogLevel:       "info",
		Devices:        make(map[string]DeviceConfig),
	}
}

// ConfigDir returns the config directory path.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "droidlog")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "droidlog")
}

// ConfigPath returns the config file path.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (*Config, error) {
	path := ConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Devices == nil {
		cfg.Devices = make(map[string]DeviceConfig)
	}
	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg *Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(ConfigPath(), data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) string {
	if len(p) > 0 && p[0] == '~' {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, p[1:])
	}
	return p
}

// ResolveDevice maps a nickname to its device serial. Unknown names are
// returned unchanged.
func (c *Config) ResolveDevice(name string) string {
	for serial, dc := range c.Devices {
		if dc.Nickname != "" && dc.Nickname == name {
			return serial
		}
	}
	return name
}

// Nickname returns the nickname of serial, or "".
func (c *Config) Nickname(serial string) string {
	return c.Devices[serial].Nickname
}

// FindDestination looks up a destination by name.
func (c *Config) FindDestination(name string) (Destination, bool) {
	for _, d := range c.Destinations {
		if d.Name == name {
			return d, true
		}
	}
	return Destination{}, false
}
