package fileshaker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-ini/ini"
)

// Package-wide defaults, overridable through the config file
const (
	DefaultHashWorkers      = 4
	DefaultPhashWorkers     = 4
	DefaultHashBuffer       = 2 * 1024 * 1024
	DefaultHammingThreshold = 10
)

// Config represents the fshaker configuration
type Config struct {
	configPath string
	ini        *ini.File
}

// HashConfig represents content hash configuration
type HashConfig struct {
	Default string // Default hash algorithm
}

// OutputConfig represents output format configuration
type OutputConfig struct {
	Format string // Default output format: human, json
}

// VerboseConfig represents verbosity configuration
type VerboseConfig struct {
	Level int    // Default verbose level (0=quiet, 1=basic, 2=detailed, 3=trace)
	Debug string // Default debug flags (comma-separated)
}

// PerformanceConfig represents performance-related configuration
type PerformanceConfig struct {
	HashWorkers  int    // Number of concurrent hash workers
	PhashWorkers int    // Number of concurrent fingerprint workers
	HashBuffer   string // Hash read buffer size (e.g. "2M")
}

// PhashConfig represents near-duplicate detection configuration
type PhashConfig struct {
	Threshold int // Hamming distance bound for grouping
}

// AllConfig represents all configuration options
type AllConfig struct {
	Hash        *HashConfig
	Output      *OutputConfig
	Verbose     *VerboseConfig
	Performance *PerformanceConfig
	Phash       *PhashConfig
}

// LoadConfig loads configuration from the config file inside configDir,
// creating a default one on first use
func LoadConfig(configDir string) (*Config, error) {
	configPath := filepath.Join(configDir, "config")

	cfg := &Config{
		configPath: configPath,
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg.ini = ini.Empty()
		if err := cfg.setDefaults(); err != nil {
			return nil, fmt.Errorf("failed to set default config: %w", err)
		}
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("failed to save default config: %w", err)
		}
	} else {
		iniFile, err := ini.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
		cfg.ini = iniFile
	}

	return cfg, nil
}

// setDefaults sets default configuration values
func (c *Config) setDefaults() error {
	sections := []struct {
		name string
		keys map[string]string
	}{
		{"filehash", map[string]string{"default": "sha256"}},
		{"output", map[string]string{"format": "human"}},
		{"verbose", map[string]string{"level": "0", "debug": ""}},
		{"performance", map[string]string{
			"hash_workers":  fmt.Sprintf("%d", DefaultHashWorkers),
			"phash_workers": fmt.Sprintf("%d", DefaultPhashWorkers),
			"hash_buffer":   "2M",
		}},
		{"phash", map[string]string{"threshold": fmt.Sprintf("%d", DefaultHammingThreshold)}},
	}

	for _, s := range sections {
		section, err := c.ini.NewSection(s.name)
		if err != nil {
			return fmt.Errorf("failed to create %s section: %w", s.name, err)
		}
		for key, value := range s.keys {
			if _, err := section.NewKey(key, value); err != nil {
				return fmt.Errorf("failed to set default %s.%s: %w", s.name, key, err)
			}
		}
	}

	return nil
}

// GetHashConfig returns the hash configuration
func (c *Config) GetHashConfig() *HashConfig {
	hashConfig := &HashConfig{
		Default: "sha256", // fallback default
	}

	if c.ini.HasSection("filehash") {
		section := c.ini.Section("filehash")
		if section.HasKey("default") {
			hashConfig.Default = section.Key("default").String()
		}
	}

	return hashConfig
}

// GetOutputConfig returns the output configuration
func (c *Config) GetOutputConfig() *OutputConfig {
	outputConfig := &OutputConfig{
		Format: "human", // fallback default
	}

	if c.ini.HasSection("output") {
		section := c.ini.Section("output")
		if section.HasKey("format") {
			outputConfig.Format = section.Key("format").String()
		}
	}

	return outputConfig
}

// GetVerboseConfig returns the verbose configuration
func (c *Config) GetVerboseConfig() *VerboseConfig {
	verboseConfig := &VerboseConfig{
		Level: 0,  // fallback default
		Debug: "", // fallback default
	}

	if c.ini.HasSection("verbose") {
		section := c.ini.Section("verbose")
		if section.HasKey("level") {
			if level, err := section.Key("level").Int(); err == nil {
				verboseConfig.Level = level
			}
		}
		if section.HasKey("debug") {
			verboseConfig.Debug = section.Key("debug").String()
		}
	}

	return verboseConfig
}

// GetPerformanceConfig returns the performance configuration
func (c *Config) GetPerformanceConfig() *PerformanceConfig {
	performanceConfig := &PerformanceConfig{
		HashWorkers:  DefaultHashWorkers,
		PhashWorkers: DefaultPhashWorkers,
		HashBuffer:   "2M",
	}

	if c.ini.HasSection("performance") {
		section := c.ini.Section("performance")
		if section.HasKey("hash_workers") {
			if workers, err := section.Key("hash_workers").Int(); err == nil {
				performanceConfig.HashWorkers = workers
			}
		}
		if section.HasKey("phash_workers") {
			if workers, err := section.Key("phash_workers").Int(); err == nil {
				performanceConfig.PhashWorkers = workers
			}
		}
		if section.HasKey("hash_buffer") {
			if bufferSize := section.Key("hash_buffer").String(); bufferSize != "" {
				performanceConfig.HashBuffer = bufferSize
			}
		}
	}

	return performanceConfig
}

// GetPhashConfig returns the near-duplicate detection configuration
func (c *Config) GetPhashConfig() *PhashConfig {
	phashConfig := &PhashConfig{
		Threshold: DefaultHammingThreshold,
	}

	if c.ini.HasSection("phash") {
		section := c.ini.Section("phash")
		if section.HasKey("threshold") {
			if threshold, err := section.Key("threshold").Int(); err == nil {
				phashConfig.Threshold = threshold
			}
		}
	}

	return phashConfig
}

// GetAllConfig returns all configuration options
func (c *Config) GetAllConfig() *AllConfig {
	return &AllConfig{
		Hash:        c.GetHashConfig(),
		Output:      c.GetOutputConfig(),
		Verbose:     c.GetVerboseConfig(),
		Performance: c.GetPerformanceConfig(),
		Phash:       c.GetPhashConfig(),
	}
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	return c.ini.SaveTo(c.configPath)
}

// ApplyOverrides applies command-line overrides to the configuration.
// Accepts strings like "default:sha256", "format:json", "threshold:5".
func (c *Config) ApplyOverrides(overrides []string) error {
	for _, override := range overrides {
		parts := strings.SplitN(override, ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid override format '%s', expected 'key:value'", override)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch key {
		case "default":
			c.ini.Section("filehash").Key("default").SetValue(value)
		case "format":
			c.ini.Section("output").Key("format").SetValue(value)
		case "level":
			c.ini.Section("verbose").Key("level").SetValue(value)
		case "debug":
			c.ini.Section("verbose").Key("debug").SetValue(value)
		case "hash_workers":
			c.ini.Section("performance").Key("hash_workers").SetValue(value)
		case "phash_workers":
			c.ini.Section("performance").Key("phash_workers").SetValue(value)
		case "threshold":
			c.ini.Section("phash").Key("threshold").SetValue(value)
		default:
			return fmt.Errorf("unsupported override key '%s' (supported: default, format, level, debug, hash_workers, phash_workers, threshold)", key)
		}
	}

	return nil
}

// ValidateHashAlgorithm validates that a hash algorithm is supported
func ValidateHashAlgorithm(algorithm string) error {
	switch strings.ToLower(algorithm) {
	case "sha1", "sha256", "sha512":
		return nil
	default:
		return fmt.Errorf("unsupported hash algorithm: %s (supported: sha1, sha256, sha512)", algorithm)
	}
}

// ValidateOutputFormat validates that an output format is supported
func ValidateOutputFormat(format string) error {
	switch strings.ToLower(format) {
	case "human", "json":
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s (supported: human, json)", format)
	}
}

// ValidateVerboseLevel validates that a verbose level is valid
func ValidateVerboseLevel(level int) error {
	if level < 0 || level > 3 {
		return fmt.Errorf("invalid verbose level: %d (supported: 0-3)", level)
	}
	return nil
}

// ValidateWorkers validates that a worker count is reasonable
func ValidateWorkers(workers int) error {
	if workers < 1 {
		return fmt.Errorf("workers must be at least 1, got: %d", workers)
	}
	if workers > 64 {
		return fmt.Errorf("workers should not exceed 64, got: %d", workers)
	}
	return nil
}

// ValidateThreshold validates the Hamming distance threshold against the
// fingerprint width
func ValidateThreshold(threshold int) error {
	if threshold < 0 || threshold > FingerprintWidth {
		return fmt.Errorf("invalid threshold: %d (supported: 0-%d)", threshold, FingerprintWidth)
	}
	return nil
}
