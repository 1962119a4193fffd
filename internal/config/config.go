package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/HartBrook/lexchunk/internal/chunk"
	"github.com/HartBrook/lexchunk/internal/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// LawConfig selects the code whose articles are chunked.
type LawConfig struct {
	Code string `yaml:"code" mapstructure:"code"` // Chunk ID prefix
	Name string `yaml:"name" mapstructure:"name"` // Used in citations and the law field
}

// StoreConfig contains chunk store settings.
type StoreConfig struct {
	Dir string `yaml:"dir,omitempty" mapstructure:"dir"` // Defaults to ~/.cache/lexchunk
}

// BatchConfig contains settings for parsing several documents at once.
type BatchConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// WatchConfig contains settings for the watch command.
type WatchConfig struct {
	Debounce   string   `yaml:"debounce" mapstructure:"debounce"` // e.g., "500ms"
	Extensions []string `yaml:"extensions,omitempty" mapstructure:"extensions"`
}

// MetricsConfig contains metrics export settings.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty" mapstructure:"textfile"` // Prometheus textfile path, empty disables
}

// Config represents the lexchunk configuration file.
type Config struct {
	Version int           `yaml:"version" mapstructure:"version"`
	Law     LawConfig     `yaml:"law" mapstructure:"law"`
	Store   StoreConfig   `yaml:"store,omitempty" mapstructure:"store"`
	Batch   BatchConfig   `yaml:"batch" mapstructure:"batch"`
	Watch   WatchConfig   `yaml:"watch" mapstructure:"watch"`
	Metrics MetricsConfig `yaml:"metrics,omitempty" mapstructure:"metrics"`
}

// Default values.
const (
	DefaultVersion  = 1
	DefaultWorkers  = 4
	DefaultDebounce = "500ms"

	// EnvPrefix prefixes environment overrides, e.g. LEXCHUNK_LAW_CODE.
	EnvPrefix = "LEXCHUNK"
)

// DefaultExtensions are the source file extensions watched by default.
var DefaultExtensions = []string{".txt"}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads config from the default location.
func Load() (*Config, error) {
	paths := NewPaths()
	cfg, err := LoadFrom(paths.ConfigFile)
	if err != nil {
		return nil, err
	}
	if cfg.Store.Dir == "" {
		cfg.Store.Dir = paths.CacheDir
	}
	return cfg, nil
}

// LoadFrom reads config from a specific path, layering LEXCHUNK_* environment
// variables on top. A missing file is not an error: defaults apply.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
		return nil, errors.Wrap(errors.ErrConfigInvalid, "failed to parse config YAML", "Check config syntax", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(errors.ErrConfigInvalid, "failed to decode config", "", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("version", DefaultVersion)
	v.SetDefault("law.code", chunk.DefaultLaw.Code)
	v.SetDefault("law.name", chunk.DefaultLaw.Name)
	v.SetDefault("store.dir", "")
	v.SetDefault("batch.workers", DefaultWorkers)
	v.SetDefault("watch.debounce", DefaultDebounce)
	v.SetDefault("watch.extensions", DefaultExtensions)
	v.SetDefault("metrics.textfile", "")
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return stderrors.As(err, &notFound) || stderrors.Is(err, fs.ErrNotExist)
}

// Save writes config to the default location.
func Save(cfg *Config) error {
	paths := NewPaths()
	return SaveTo(cfg, paths.ConfigFile)
}

// SaveTo writes config to a specific path.
func SaveTo(cfg *Config, path string) error {
	cfg.applyDefaults()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(errors.ErrConfigInvalid, "failed to marshal config", "", err)
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(errors.ErrConfigInvalid, "failed to create config directory", "", err)
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks config for required fields and valid values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Law.Code) == "" {
		return errors.ConfigInvalid("law.code must not be empty")
	}
	if strings.TrimSpace(c.Law.Name) == "" {
		return errors.ConfigInvalid("law.name must not be empty")
	}
	if c.Batch.Workers < 1 {
		return errors.ConfigInvalid("batch.workers must be at least 1")
	}
	if c.Watch.Debounce != "" {
		if _, err := time.ParseDuration(c.Watch.Debounce); err != nil {
			return errors.ConfigInvalid("invalid watch.debounce format, use Go duration format (e.g., 500ms)")
		}
	}
	return nil
}

// applyDefaults sets default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = DefaultVersion
	}
	if c.Law.Code == "" {
		c.Law.Code = chunk.DefaultLaw.Code
	}
	if c.Law.Name == "" {
		c.Law.Name = chunk.DefaultLaw.Name
	}
	if c.Batch.Workers == 0 {
		c.Batch.Workers = DefaultWorkers
	}
	if c.Watch.Debounce == "" {
		c.Watch.Debounce = DefaultDebounce
	}
	if len(c.Watch.Extensions) == 0 {
		c.Watch.Extensions = append([]string(nil), DefaultExtensions...)
	}
}

// ChunkLaw returns the configured law profile.
func (c *Config) ChunkLaw() chunk.Law {
	return chunk.Law{Code: c.Law.Code, Name: c.Law.Name}
}

// DebounceDuration returns the watch debounce as a time.Duration.
func (c *WatchConfig) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(c.Debounce)
	if err != nil {
		d, _ = time.ParseDuration(DefaultDebounce)
	}
	return d
}

// Exists checks if a config file exists at the default location.
func Exists() bool {
	paths := NewPaths()
	_, err := os.Stat(paths.ConfigFile)
	return err == nil
}
