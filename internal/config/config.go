package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"github.com/wolfeidau/surplus/internal/catalog"
	"github.com/wolfeidau/surplus/internal/client"
	"github.com/wolfeidau/surplus/internal/session"
	"gopkg.in/yaml.v3"
)

// DirName is the per user directory holding config, session state and cache.
const DirName = ".surplus"

// FileName is the config file inside DirName.
const FileName = "config.yaml"

// Origin is the point catalog distances are measured from.
type Origin struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// Config is the client configuration. Zero fields in the file keep their
// defaults.
type Config struct {
	APIURL         string        `yaml:"api_url"`
	StateDir       string        `yaml:"state_dir"`
	CacheDir       string        `yaml:"cache_dir"`
	CheckInterval  time.Duration `yaml:"check_interval"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	LogFile        string        `yaml:"log_file"`
	Origin         *Origin       `yaml:"origin,omitempty"`
}

// Default returns the built in configuration rooted at ~/.surplus.
func Default() Config {
	base := baseDir()
	return Config{
		APIURL:         client.DefaultBaseURL,
		StateDir:       base,
		CacheDir:       filepath.Join(base, "cache"),
		CheckInterval:  session.DefaultCheckInterval,
		RequestTimeout: client.DefaultConfig().Timeout,
	}
}

// DefaultPath returns ~/.surplus/config.yaml.
func DefaultPath() string {
	return filepath.Join(baseDir(), FileName)
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error.
func Load(fsys afero.Fs, path string) (Config, error) {
	cfg := Default()

	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	if path == "" {
		path = DefaultPath()
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.merge(file)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the values that would otherwise fail later at runtime.
func (c Config) Validate() error {
	if c.CheckInterval < 0 {
		return fmt.Errorf("check_interval must not be negative")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative")
	}
	if o := c.Origin; o != nil {
		if o.Latitude < -90 || o.Latitude > 90 || o.Longitude < -180 || o.Longitude > 180 {
			return fmt.Errorf("origin %.4f,%.4f is out of range", o.Latitude, o.Longitude)
		}
	}
	return nil
}

// Coordinates returns the origin for catalog normalization, or nil.
func (c Config) Coordinates() *catalog.Coordinates {
	if c.Origin == nil {
		return nil
	}
	return &catalog.Coordinates{Latitude: c.Origin.Latitude, Longitude: c.Origin.Longitude}
}

// ClientConfig returns the API client settings.
func (c Config) ClientConfig(debug bool) client.Config {
	return client.Config{
		BaseURL:  c.APIURL,
		Timeout:  c.RequestTimeout,
		CacheDir: c.CacheDir,
		Debug:    debug,
	}
}

func (c *Config) merge(o Config) {
	if o.APIURL != "" {
		c.APIURL = o.APIURL
	}
	if o.StateDir != "" {
		c.StateDir = o.StateDir
	}
	if o.CacheDir != "" {
		c.CacheDir = o.CacheDir
	}
	if o.CheckInterval != 0 {
		c.CheckInterval = o.CheckInterval
	}
	if o.RequestTimeout != 0 {
		c.RequestTimeout = o.RequestTimeout
	}
	if o.LogFile != "" {
		c.LogFile = o.LogFile
	}
	if o.Origin != nil {
		c.Origin = o.Origin
	}
}

func baseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DirName
	}
	return filepath.Join(home, DirName)
}
