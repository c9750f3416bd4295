package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Project struct {
		Root string `yaml:"root"`
	} `yaml:"project"`
	Output struct {
		Path string `yaml:"path"` // code map JSON
		DB   string `yaml:"db"`   // optional SQLite snapshot
	} `yaml:"output"`
	Scan struct {
		Include    []string `yaml:"include"`
		Exclude    []string `yaml:"exclude"`
		IgnoreDirs []string `yaml:"ignore_dirs"`
	} `yaml:"scan"`
	Entries struct {
		Special []string `yaml:"special"`
	} `yaml:"entries"`
	Check Thresholds `yaml:"check"`
	Log   struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Watch struct {
		DebounceMS int `yaml:"debounce_ms"`
	} `yaml:"watch"`
}

// Thresholds drive the CI gate.
type Thresholds struct {
	FailOnUnusedFiles   bool `yaml:"fail_on_unused_files"`
	FailOnUnusedExports bool `yaml:"fail_on_unused_exports"`
	MaxUnusedFiles      int  `yaml:"max_unused_files"`
	MaxUnusedExports    int  `yaml:"max_unused_exports"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var cfg Config
	cfg.Project.Root = "."
	cfg.Output.Path = "code-map.json"
	cfg.Scan.Include = []string{"**/*.{ts,tsx,js,jsx}"}
	cfg.Scan.Exclude = []string{"**/*.d.ts", "**/*.test.*", "**/*.spec.*", "**/*.stories.*"}
	cfg.Scan.IgnoreDirs = []string{".git", "node_modules", "dist", "build", ".next", "coverage"}
	cfg.Entries.Special = []string{
		"**/pages/_app.{ts,tsx,js,jsx}",
		"**/pages/_document.{ts,tsx,js,jsx}",
		"**/app/layout.{ts,tsx,js,jsx}",
	}
	cfg.Check = Thresholds{FailOnUnusedFiles: true, FailOnUnusedExports: true}
	cfg.Log.Level = "info"
	cfg.Watch.DebounceMS = 500
	return &cfg
}

// LoadConfig reads path over the defaults. A missing file is not an error.
// Environment variables (and a .env file, if any) override both.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config
	file, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	// 3. Override with Environment Variables if present
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("CODEMAP_ROOT"); v != "" {
		c.Project.Root = v
	}
	if v := os.Getenv("CODEMAP_PATH"); v != "" {
		c.Output.Path = v
	}
	if v := os.Getenv("CODEMAP_DB"); v != "" {
		c.Output.DB = v
	}
	if v := os.Getenv("CODEMAP_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	// Only the literal "false" disables a gate.
	if v, ok := os.LookupEnv("FAIL_ON_UNUSED_FILES"); ok {
		c.Check.FailOnUnusedFiles = v != "false"
	}
	if v, ok := os.LookupEnv("FAIL_ON_UNUSED_EXPORTS"); ok {
		c.Check.FailOnUnusedExports = v != "false"
	}
	if err := envInt("MAX_UNUSED_FILES", &c.Check.MaxUnusedFiles); err != nil {
		return err
	}
	return envInt("MAX_UNUSED_EXPORTS", &c.Check.MaxUnusedExports)
}

func envInt(name string, dst *int) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = n
	return nil
}
