package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	apperrors "notegraph/internal/platform/errors"
)

const (
	envPrefix = "NOTEGRAPH_"
	stateDir  = ".notegraph"
)

type GraphConfig struct {
	Window      int           `yaml:"window"`
	Workers     int           `yaml:"workers"`
	Timeout     time.Duration `yaml:"timeout"`
	CacheSize   int           `yaml:"cache_size"`
	Fingerprint string        `yaml:"fingerprint"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Config struct {
	VaultPath string      `yaml:"-"`
	NotesDir  string      `yaml:"notes_dir"`
	Graph     GraphConfig `yaml:"graph"`
	Log       LogConfig   `yaml:"log"`
}

func Default(vaultPath string) Config {
	return Config{
		VaultPath: vaultPath,
		NotesDir:  "notes",
		Graph: GraphConfig{
			Window:      2,
			Workers:     min(runtime.GOMAXPROCS(0), 4),
			Timeout:     10 * time.Second,
			CacheSize:   256,
			Fingerprint: "full",
		},
		Log: LogConfig{Level: "info", Format: "console"},
	}
}

// New layers <vault>/.notegraph/config.yaml, then <vault>/.env, then
// NOTEGRAPH_* process variables over the defaults.
func New(vaultPath string) (Config, error) {
	if vaultPath == "" {
		return Config{}, fmt.Errorf("vault path is required: %w", apperrors.ErrConfig)
	}
	cfg := Default(vaultPath)

	raw, err := os.ReadFile(filepath.Join(vaultPath, stateDir, "config.yaml"))
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("read config file: %w", err)
	default:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	dotenv, err := godotenv.Read(filepath.Join(vaultPath, ".env"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("read .env: %w", err)
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			return v, true
		}
		v, ok := dotenv[envPrefix+key]
		return v, ok
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	setString := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	setInt := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("parse %s%s: %w", envPrefix, key, apperrors.ErrConfig)
		}
		*dst = n
		return nil
	}

	setString("NOTES_DIR", &c.NotesDir)
	setString("GRAPH_FINGERPRINT", &c.Graph.Fingerprint)
	setString("LOG_LEVEL", &c.Log.Level)
	setString("LOG_FORMAT", &c.Log.Format)
	for key, dst := range map[string]*int{
		"GRAPH_WINDOW":     &c.Graph.Window,
		"GRAPH_WORKERS":    &c.Graph.Workers,
		"GRAPH_CACHE_SIZE": &c.Graph.CacheSize,
	} {
		if err := setInt(key, dst); err != nil {
			return err
		}
	}
	if v, ok := lookup("GRAPH_TIMEOUT"); ok && strings.TrimSpace(v) != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("parse %sGRAPH_TIMEOUT: %w", envPrefix, apperrors.ErrConfig)
		}
		c.Graph.Timeout = d
	}
	return nil
}

func (c Config) Validate() error {
	switch {
	case c.Graph.Window < 1:
		return fmt.Errorf("graph.window must be at least 1: %w", apperrors.ErrConfig)
	case c.Graph.Workers < 1:
		return fmt.Errorf("graph.workers must be at least 1: %w", apperrors.ErrConfig)
	case c.Graph.CacheSize < 1:
		return fmt.Errorf("graph.cache_size must be at least 1: %w", apperrors.ErrConfig)
	case c.Graph.Timeout <= 0:
		return fmt.Errorf("graph.timeout must be positive: %w", apperrors.ErrConfig)
	case strings.TrimSpace(c.NotesDir) == "":
		return fmt.Errorf("notes_dir is required: %w", apperrors.ErrConfig)
	}
	switch c.Graph.Fingerprint {
	case "full", "weak":
	default:
		return fmt.Errorf("graph.fingerprint %q: %w", c.Graph.Fingerprint, apperrors.ErrConfig)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format %q: %w", c.Log.Format, apperrors.ErrConfig)
	}
	return nil
}

func (c Config) StateDir() string {
	return filepath.Join(c.VaultPath, stateDir)
}

func (c Config) DBPath() string {
	return filepath.Join(c.StateDir(), "notegraph.db")
}

func (c Config) NotesPath() string {
	if filepath.IsAbs(c.NotesDir) {
		return c.NotesDir
	}
	return filepath.Join(c.VaultPath, c.NotesDir)
}
