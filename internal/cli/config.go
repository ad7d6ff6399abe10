// Package cli provides shared configuration and exit-code plumbing for the
// patroid command-line tool.
package cli

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	maxWalkDepth = 25
)

// Config is patroid's layered configuration, loaded from flags, environment
// variables, and an optional patroid.yaml/patroid.yml file.
type Config struct {
	// Path is a single project root to analyze.
	Path string `mapstructure:"path"`
	// Dir is a directory of sibling project roots to analyze in batch.
	Dir string `mapstructure:"dir"`
	// ModuleFile is the serialized relation graph to read from or write to.
	ModuleFile string `mapstructure:"module_file"`
	// DebugMode enables verbose per-stage logging during extraction.
	DebugMode bool `mapstructure:"debug_mode"`

	// Database configures the optional report store.
	Database DatabaseConfig `mapstructure:"database"`
	Analyze  AnalyzeConfig  `mapstructure:"analyze"`
	Doctor   DoctorConfig   `mapstructure:"doctor"`
	Serve    ServeConfig    `mapstructure:"serve"`
}

// DatabaseConfig holds report-store connection settings.
type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// AnalyzeConfig holds analyze-command settings.
type AnalyzeConfig struct {
	SourceExtension string `mapstructure:"source_extension"`
	Workers         int    `mapstructure:"workers"`
}

// DoctorConfig holds doctor-command settings.
type DoctorConfig struct {
	Verbose bool `mapstructure:"verbose"`
}

// ServeConfig holds the HTTP report server's settings.
type ServeConfig struct {
	Addr string `mapstructure:"addr"`
}

// LoadConfig discovers and loads configuration with proper precedence:
// flags (applied by the caller after this returns) > env > config file >
// defaults.
//
// Returns the loaded config, the path to the config file (empty if none
// found), and any error encountered.
func LoadConfig(explicitConfigPath string) (*Config, string, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("PATROID")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath, err := findConfigFile(explicitConfigPath)
	if err != nil {
		return nil, "", err
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, configPath, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, configPath, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, configPath, nil
}

func setDefaults(v *viper.Viper) {
	// Keys without a default are invisible to AutomaticEnv during
	// Unmarshal, so every environment-settable key is registered here.
	v.SetDefault("path", "")
	v.SetDefault("dir", "")
	v.SetDefault("module_file", "")
	v.SetDefault("debug_mode", false)

	v.SetDefault("database.url", "")
	v.SetDefault("database.host", "")
	v.SetDefault("database.name", "")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "prefer")

	v.SetDefault("analyze.source_extension", ".java")
	v.SetDefault("analyze.workers", 0)

	v.SetDefault("doctor.verbose", false)

	v.SetDefault("serve.addr", ":8088")
}

// findConfigFile finds the config file to use.
// If explicitPath is provided, it validates the file exists.
// Otherwise, it walks up from cwd looking for patroid.yaml or patroid.yml,
// stopping at a .git directory or after maxWalkDepth levels.
func findConfigFile(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicitPath)
		}
		return explicitPath, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting cwd: %w", err)
	}

	dir := cwd
	for i := 0; i < maxWalkDepth; i++ {
		for _, name := range []string{"patroid.yaml", "patroid.yml"} {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}

		gitPath := filepath.Join(dir, ".git")
		if _, err := os.Stat(gitPath); err == nil {
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", nil
}

// DSN returns the report store's connection string. If database.url is
// set, it's returned directly; otherwise it's built from discrete fields.
func (c *Config) DSN() (string, error) {
	db := c.Database

	if db.URL != "" {
		return db.URL, nil
	}

	if db.Host == "" {
		return "", fmt.Errorf("database.host is required when database.url is not set")
	}
	if db.Name == "" {
		return "", fmt.Errorf("database.name is required when database.url is not set")
	}
	if db.User == "" {
		return "", fmt.Errorf("database.user is required when database.url is not set")
	}

	u := &url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   "/" + db.Name,
	}

	if db.Password != "" {
		u.User = url.UserPassword(db.User, db.Password)
	} else {
		u.User = url.User(db.User)
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}

// HasDatabase reports whether enough configuration is present to attempt a
// report-store connection.
func (c *Config) HasDatabase() bool {
	return c.Database.URL != "" || c.Database.Host != ""
}
