package config

import (
	"os"
	"testing"
)

func TestLoad_DefaultValues(t *testing.T) {
	os.Clearenv()

	cfg := Load()

	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("Expected HTTP_ADDR default ':8080', got '%s'", cfg.HTTP.Addr)
	}
	if !cfg.DBEnabled {
		t.Error("Expected DB_ENABLED default true")
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("Expected DB_HOST default 'localhost', got '%s'", cfg.Database.Host)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("Expected DB_PORT default 5432, got %d", cfg.Database.Port)
	}
	if cfg.Database.Database != "nongfang" {
		t.Errorf("Expected DB_NAME default 'nongfang', got '%s'", cfg.Database.Database)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("Expected REDIS_ADDR default 'localhost:6379', got '%s'", cfg.Redis.Addr)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Expected LOG_LEVEL default 'info', got '%s'", cfg.Log.Level)
	}
	if cfg.Audit.Stream != "nongfang:audit" {
		t.Errorf("Expected AUDIT_STREAM default 'nongfang:audit', got '%s'", cfg.Audit.Stream)
	}
	if cfg.Storage.BaseURL != "" {
		t.Errorf("Expected STORAGE_BASE_URL default empty, got '%s'", cfg.Storage.BaseURL)
	}
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	os.Setenv("HTTP_ADDR", ":9090")
	os.Setenv("DB_ENABLED", "false")
	os.Setenv("DB_HOST", "test-host")
	os.Setenv("DB_PORT", "15432")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("STORAGE_BASE_URL", "http://files.test.local")

	defer func() {
		os.Unsetenv("HTTP_ADDR")
		os.Unsetenv("DB_ENABLED")
		os.Unsetenv("DB_HOST")
		os.Unsetenv("DB_PORT")
		os.Unsetenv("LOG_LEVEL")
		os.Unsetenv("STORAGE_BASE_URL")
	}()

	cfg := Load()

	if cfg.HTTP.Addr != ":9090" {
		t.Errorf("Expected HTTP_ADDR ':9090', got '%s'", cfg.HTTP.Addr)
	}
	if cfg.DBEnabled {
		t.Error("Expected DB_ENABLED false")
	}
	if cfg.Database.Host != "test-host" {
		t.Errorf("Expected DB_HOST 'test-host', got '%s'", cfg.Database.Host)
	}
	if cfg.Database.Port != 15432 {
		t.Errorf("Expected DB_PORT 15432, got %d", cfg.Database.Port)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected LOG_LEVEL 'debug', got '%s'", cfg.Log.Level)
	}
	if cfg.Storage.BaseURL != "http://files.test.local" {
		t.Errorf("Expected STORAGE_BASE_URL 'http://files.test.local', got '%s'", cfg.Storage.BaseURL)
	}
}

func TestGetDSN(t *testing.T) {
	cfg := &DatabaseConfig{
		Host: "db", Port: 5432, User: "u", Password: "p", Database: "nongfang", SSLMode: "disable",
	}
	want := "host=db port=5432 user=u password=p dbname=nongfang sslmode=disable"
	if got := cfg.GetDSN(); got != want {
		t.Errorf("GetDSN() = %q, want %q", got, want)
	}
}
