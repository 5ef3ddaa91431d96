// Package config handles loading tasks.toml configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/amonks/tasks/internal/paths"
	"github.com/amonks/tasks/storage"
)

// ProjectFile is the per-directory config file name.
const ProjectFile = "tasks.toml"

// DefaultAddr is the listen address for the web UI when none is configured.
const DefaultAddr = "localhost:8080"

// Config represents the tasks.toml configuration file.
type Config struct {
	Storage Storage `toml:"storage"`
	Web     Web     `toml:"web"`
}

// Storage selects where the task list is persisted.
type Storage struct {
	// Backend is one of file, sqlite, postgres, or memory.
	Backend string `toml:"backend"`

	// Path is the directory for file storage or the database file for sqlite.
	Path string `toml:"path"`

	// DSN is the postgres connection string.
	DSN string `toml:"dsn"`

	// Key names the entry the list is stored under.
	Key string `toml:"key"`
}

// Web contains settings for tasks serve.
type Web struct {
	Addr string `toml:"addr"`
}

// Environment variables consulted by ApplyEnv.
const (
	EnvStorage = "TASKS_STORAGE"
	EnvPath    = "TASKS_PATH"
	EnvDSN     = "TASKS_DSN"
	EnvKey     = "TASKS_KEY"
	EnvAddr    = "TASKS_ADDR"
)

// Load loads configuration from dir and the global config file.
// Returns an empty config if no config files exist.
func Load(dir string) (*Config, error) {
	return load(filepath.Join(dir, ProjectFile), false)
}

// LoadPath loads the global config file overlaid with the file at path.
// Unlike Load, a missing file at path is an error.
func LoadPath(path string) (*Config, error) {
	return load(path, true)
}

func load(projectPath string, required bool) (*Config, error) {
	globalPath, err := paths.DefaultConfigPath()
	if err != nil {
		return nil, err
	}

	globalCfg, globalMeta, err := loadConfigFile(globalPath)
	if err != nil {
		return nil, err
	}

	if required {
		if _, err := os.Stat(projectPath); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", projectPath, err)
		}
	}
	projectCfg, projectMeta, err := loadConfigFile(projectPath)
	if err != nil {
		return nil, err
	}

	return mergeConfigs(globalCfg, projectCfg, globalMeta, projectMeta), nil
}

func loadConfigFile(path string) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return &cfg, meta, nil
}

func mergeConfigs(globalCfg, projectCfg *Config, globalMeta, projectMeta toml.MetaData) *Config {
	if globalCfg == nil {
		globalCfg = &Config{}
	}
	if projectCfg == nil {
		projectCfg = &Config{}
	}

	merged := Config{}
	merged.Storage.Backend = mergeString(projectMeta.IsDefined("storage", "backend"), projectCfg.Storage.Backend, globalCfg.Storage.Backend)
	merged.Storage.Path = mergeString(projectMeta.IsDefined("storage", "path"), projectCfg.Storage.Path, globalCfg.Storage.Path)
	merged.Storage.DSN = mergeString(projectMeta.IsDefined("storage", "dsn"), projectCfg.Storage.DSN, globalCfg.Storage.DSN)
	merged.Storage.Key = mergeString(projectMeta.IsDefined("storage", "key"), projectCfg.Storage.Key, globalCfg.Storage.Key)
	merged.Web.Addr = mergeString(projectMeta.IsDefined("web", "addr"), projectCfg.Web.Addr, globalCfg.Web.Addr)

	return &merged
}

func mergeString(projectDefined bool, projectValue, globalValue string) string {
	value := globalValue
	if projectDefined {
		value = projectValue
	}
	return strings.TrimSpace(value)
}

// ApplyEnv overlays non-empty TASKS_* variables onto the config.
// lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	overlay := func(name string, target *string) {
		if value, ok := lookup(name); ok && strings.TrimSpace(value) != "" {
			*target = strings.TrimSpace(value)
		}
	}
	overlay(EnvStorage, &c.Storage.Backend)
	overlay(EnvPath, &c.Storage.Path)
	overlay(EnvDSN, &c.Storage.DSN)
	overlay(EnvKey, &c.Storage.Key)
	overlay(EnvAddr, &c.Web.Addr)
}

// StorageConfig returns the storage settings with defaults filled in.
// File storage without a path uses the default state directory.
func (c *Config) StorageConfig() (storage.Config, error) {
	backend := strings.ToLower(c.Storage.Backend)
	if backend == "" {
		backend = storage.BackendFile
	}
	path := c.Storage.Path
	if backend == storage.BackendFile {
		resolved, err := paths.ResolveWithDefault(path, paths.DefaultStateDir)
		if err != nil {
			return storage.Config{}, err
		}
		path = resolved
	}
	return storage.Config{Backend: backend, Path: path, DSN: c.Storage.DSN}, nil
}

// Addr returns the configured web address or DefaultAddr.
func (c *Config) Addr() string {
	if c.Web.Addr == "" {
		return DefaultAddr
	}
	return c.Web.Addr
}
