package server

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	v, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if v.GetInt("server.port") != 8080 {
		t.Errorf("server.port = %d", v.GetInt("server.port"))
	}
	if v.GetString("plugins.cognition.cache.backend") != "memory" {
		t.Errorf("cache backend = %q", v.GetString("plugins.cognition.cache.backend"))
	}
	if v.GetFloat64("plugins.cognition.default_thresholds.bands.alta.min") != 0.35 {
		t.Error("default alta band not set")
	}
}

func TestLoadConfig_file_env_and_dotenv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfgPath := filepath.Join(dir, "alzheon.yaml")
	yaml := "server:\n  port: 9000\nlogging:\n  level: debug\n"
	if err := os.WriteFile(cfgPath, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("ALZ_AUTH_JWT_SECRET=from-dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ALZ_LOGGING_LEVEL", "warn")
	t.Cleanup(func() { os.Unsetenv("ALZ_AUTH_JWT_SECRET") })

	v, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if v.GetInt("server.port") != 9000 {
		t.Errorf("server.port = %d, want 9000 from file", v.GetInt("server.port"))
	}
	if v.GetString("logging.level") != "warn" {
		t.Errorf("logging.level = %q, want env override", v.GetString("logging.level"))
	}
	if v.GetString("auth.jwt_secret") != "from-dotenv" {
		t.Errorf("auth.jwt_secret = %q, want value from .env", v.GetString("auth.jwt_secret"))
	}
}

func TestLoadConfig_bad_file(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "broken.yaml")
	os.WriteFile(path, []byte("server: [unclosed"), 0o600)
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestConfig_Addr(t *testing.T) {
	c := Config{Host: "127.0.0.1", Port: 8081}
	if c.Addr() != "127.0.0.1:8081" {
		t.Errorf("Addr = %q", c.Addr())
	}
}
