package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/amonks/tasks/internal/config"
	"github.com/amonks/tasks/internal/testsupport"
	"github.com/amonks/tasks/storage"
)

func writeGlobalConfig(t *testing.T, homeDir, content string) {
	t.Helper()

	configDir := filepath.Join(homeDir, ".config", "tasks")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write global config: %v", err)
	}
}

func TestLoad_NotFound(t *testing.T) {
	testsupport.SetupTestHome(t)
	tmpDir := t.TempDir()

	cfg, err := config.Load(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg == nil {
		t.Fatal("expected non-nil config")
	}

	if cfg.Storage.Backend != "" {
		t.Error("expected empty backend")
	}

	if cfg.Addr() != config.DefaultAddr {
		t.Errorf("Addr() = %q, expected %q", cfg.Addr(), config.DefaultAddr)
	}
}

func TestLoad_Full(t *testing.T) {
	testsupport.SetupTestHome(t)
	tmpDir := t.TempDir()

	configContent := `
[storage]
backend = "sqlite"
path = "/var/lib/tasks.db"
key = "work"

[web]
addr = ":9090"
`

	if err := os.WriteFile(filepath.Join(tmpDir, "tasks.toml"), []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := config.Load(tmpDir)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("Backend = %q, expected %q", cfg.Storage.Backend, "sqlite")
	}
	if cfg.Storage.Path != "/var/lib/tasks.db" {
		t.Errorf("Path = %q, expected %q", cfg.Storage.Path, "/var/lib/tasks.db")
	}
	if cfg.Storage.Key != "work" {
		t.Errorf("Key = %q, expected %q", cfg.Storage.Key, "work")
	}
	if cfg.Addr() != ":9090" {
		t.Errorf("Addr() = %q, expected %q", cfg.Addr(), ":9090")
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	testsupport.SetupTestHome(t)
	tmpDir := t.TempDir()

	configContent := `this is not valid toml [`

	if err := os.WriteFile(filepath.Join(tmpDir, "tasks.toml"), []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	_, err := config.Load(tmpDir)
	if err == nil {
		t.Error("expected error for invalid TOML")
	}
}

func TestLoadPath_Missing(t *testing.T) {
	testsupport.SetupTestHome(t)

	_, err := config.LoadPath(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestLoadPath_OverlaysGlobal(t *testing.T) {
	homeDir := testsupport.SetupTestHome(t)
	writeGlobalConfig(t, homeDir, `
[storage]
backend = "postgres"
dsn = "postgres://global"
`)

	path := filepath.Join(t.TempDir(), "custom.toml")
	if err := os.WriteFile(path, []byte("[storage]\ndsn = \"postgres://custom\"\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := config.LoadPath(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Storage.Backend != "postgres" {
		t.Errorf("Backend = %q, expected %q", cfg.Storage.Backend, "postgres")
	}
	if cfg.Storage.DSN != "postgres://custom" {
		t.Errorf("DSN = %q, expected %q", cfg.Storage.DSN, "postgres://custom")
	}
}

func TestLoad_UsesGlobalWhenProjectMissing(t *testing.T) {
	homeDir := testsupport.SetupTestHome(t)
	writeGlobalConfig(t, homeDir, `
[storage]
backend = "file"
path = "/global/tasks"

[web]
addr = ":7000"
`)

	cfg, err := config.Load(t.TempDir())
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Storage.Path != "/global/tasks" {
		t.Errorf("Path = %q, expected %q", cfg.Storage.Path, "/global/tasks")
	}
	if cfg.Web.Addr != ":7000" {
		t.Errorf("Addr = %q, expected %q", cfg.Web.Addr, ":7000")
	}
}

func TestLoad_ProjectOverridesGlobal(t *testing.T) {
	homeDir := testsupport.SetupTestHome(t)
	writeGlobalConfig(t, homeDir, `
[storage]
backend = "file"
path = "/global/tasks"
key = "global"
`)

	projectContent := `
[storage]
key = "project"
`

	repoDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(repoDir, "tasks.toml"), []byte(projectContent), 0o644); err != nil {
		t.Fatalf("failed to write project config: %v", err)
	}

	cfg, err := config.Load(repoDir)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Storage.Path != "/global/tasks" {
		t.Errorf("Path = %q, expected %q", cfg.Storage.Path, "/global/tasks")
	}
	if cfg.Storage.Key != "project" {
		t.Errorf("Key = %q, expected %q", cfg.Storage.Key, "project")
	}
}

func TestLoad_ProjectEmptyOverridesGlobal(t *testing.T) {
	homeDir := testsupport.SetupTestHome(t)
	writeGlobalConfig(t, homeDir, `
[storage]
key = "global"

[web]
addr = ":7000"
`)

	projectContent := `
[storage]
key = ""

[web]
addr = ""
`

	repoDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(repoDir, "tasks.toml"), []byte(projectContent), 0o644); err != nil {
		t.Fatalf("failed to write project config: %v", err)
	}

	cfg, err := config.Load(repoDir)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Storage.Key != "" {
		t.Errorf("Key = %q, expected empty string", cfg.Storage.Key)
	}
	if cfg.Web.Addr != "" {
		t.Errorf("Addr = %q, expected empty string", cfg.Web.Addr)
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Backend = "file"
	cfg.Storage.Key = "from-file"

	env := map[string]string{
		config.EnvStorage: "sqlite",
		config.EnvPath:    " /tmp/tasks.db ",
		config.EnvKey:     "",
		config.EnvAddr:    ":9999",
	}
	cfg.ApplyEnv(func(name string) (string, bool) {
		value, ok := env[name]
		return value, ok
	})

	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("Backend = %q, expected %q", cfg.Storage.Backend, "sqlite")
	}
	if cfg.Storage.Path != "/tmp/tasks.db" {
		t.Errorf("Path = %q, expected %q", cfg.Storage.Path, "/tmp/tasks.db")
	}
	if cfg.Storage.Key != "from-file" {
		t.Errorf("Key = %q, expected blank env to be ignored", cfg.Storage.Key)
	}
	if cfg.Addr() != ":9999" {
		t.Errorf("Addr() = %q, expected %q", cfg.Addr(), ":9999")
	}
}

func TestStorageConfig_DefaultsToFileInStateDir(t *testing.T) {
	homeDir := testsupport.SetupTestHome(t)

	cfg := &config.Config{}
	storageCfg, err := cfg.StorageConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if storageCfg.Backend != storage.BackendFile {
		t.Errorf("Backend = %q, expected %q", storageCfg.Backend, storage.BackendFile)
	}
	expected := filepath.Join(homeDir, ".local", "state", "tasks")
	if storageCfg.Path != expected {
		t.Errorf("Path = %q, expected %q", storageCfg.Path, expected)
	}
}

func TestStorageConfig_PassesThroughPostgres(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Backend = "postgres"
	cfg.Storage.DSN = "postgres://localhost/tasks"

	storageCfg, err := cfg.StorageConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if storageCfg.Path != "" || storageCfg.DSN != "postgres://localhost/tasks" {
		t.Errorf("unexpected storage config %+v", storageCfg)
	}
}
