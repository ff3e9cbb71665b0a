package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultValues(t *testing.T) {
	// 清除环境变量
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// 检查默认值
	if cfg.Database.Host != "localhost" {
		t.Errorf("Expected DB_HOST default 'localhost', got '%s'", cfg.Database.Host)
	}

	if cfg.Database.Port != 5432 {
		t.Errorf("Expected DB_PORT default 5432, got %d", cfg.Database.Port)
	}

	if cfg.Database.Database != "agrodrone" {
		t.Errorf("Expected DB_NAME default 'agrodrone', got '%s'", cfg.Database.Database)
	}

	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("Expected REDIS_ADDR default 'localhost:6379', got '%s'", cfg.Redis.Addr)
	}

	if cfg.MQTT.Broker != "tcp://localhost:1883" {
		t.Errorf("Expected MQTT_BROKER default 'tcp://localhost:1883', got '%s'", cfg.MQTT.Broker)
	}

	if cfg.Automation.MeasurementTopic != "agro/zones/+/measurements" {
		t.Errorf("Expected default measurement topic, got '%s'", cfg.Automation.MeasurementTopic)
	}

	if cfg.Automation.Cache.LatestKeyPrefix != "agro:sensor:" {
		t.Errorf("Expected cache key prefix 'agro:sensor:', got '%s'", cfg.Automation.Cache.LatestKeyPrefix)
	}

	if cfg.Automation.Cache.LatestTTL != 300 {
		t.Errorf("Expected cache TTL default 300, got %d", cfg.Automation.Cache.LatestTTL)
	}

	if !cfg.Automation.Sweep.Enabled {
		t.Error("Expected sweep enabled by default")
	}

	if cfg.Automation.Sweep.Schedule != "@every 5m" {
		t.Errorf("Expected sweep schedule '@every 5m', got '%s'", cfg.Automation.Sweep.Schedule)
	}

	if cfg.Log.Level != "info" {
		t.Errorf("Expected LOG_LEVEL default 'info', got '%s'", cfg.Log.Level)
	}
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	// 设置环境变量
	os.Setenv("DB_HOST", "test-host")
	os.Setenv("DB_USER", "test-user")
	os.Setenv("DB_NAME", "test-db")
	os.Setenv("MQTT_BROKER", "tcp://broker:1883")
	os.Setenv("MEASUREMENT_TOPIC", "farm/+/readings")
	os.Setenv("SWEEP_ENABLED", "false")
	os.Setenv("LOG_LEVEL", "debug")

	defer func() {
		os.Unsetenv("DB_HOST")
		os.Unsetenv("DB_USER")
		os.Unsetenv("DB_NAME")
		os.Unsetenv("MQTT_BROKER")
		os.Unsetenv("MEASUREMENT_TOPIC")
		os.Unsetenv("SWEEP_ENABLED")
		os.Unsetenv("LOG_LEVEL")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// 检查环境变量值
	if cfg.Database.Host != "test-host" {
		t.Errorf("Expected DB_HOST 'test-host', got '%s'", cfg.Database.Host)
	}

	if cfg.Database.User != "test-user" {
		t.Errorf("Expected DB_USER 'test-user', got '%s'", cfg.Database.User)
	}

	if cfg.MQTT.Broker != "tcp://broker:1883" {
		t.Errorf("Expected MQTT_BROKER 'tcp://broker:1883', got '%s'", cfg.MQTT.Broker)
	}

	if cfg.Automation.MeasurementTopic != "farm/+/readings" {
		t.Errorf("Expected measurement topic 'farm/+/readings', got '%s'", cfg.Automation.MeasurementTopic)
	}

	if cfg.Automation.Sweep.Enabled {
		t.Error("Expected sweep disabled via SWEEP_ENABLED=false")
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("Expected LOG_LEVEL 'debug', got '%s'", cfg.Log.Level)
	}
}

func TestLoad_YAMLFileThenEnvOverride(t *testing.T) {
	os.Clearenv()

	// YAML 覆盖默认值，环境变量再覆盖 YAML
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
database:
  host: yaml-host
  database: yaml-db
automation:
  sweep:
    schedule: "@every 1m"
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	os.Setenv("CONFIG_FILE", path)
	os.Setenv("DB_HOST", "env-host")
	defer func() {
		os.Unsetenv("CONFIG_FILE")
		os.Unsetenv("DB_HOST")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Database.Host != "env-host" {
		t.Errorf("Expected env to win over yaml, got '%s'", cfg.Database.Host)
	}

	if cfg.Database.Database != "yaml-db" {
		t.Errorf("Expected DB name from yaml, got '%s'", cfg.Database.Database)
	}

	if cfg.Automation.Sweep.Schedule != "@every 1m" {
		t.Errorf("Expected sweep schedule from yaml, got '%s'", cfg.Automation.Sweep.Schedule)
	}
}

func TestGetDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db",
		Port:     5432,
		User:     "agro",
		Password: "secret",
		Database: "agrodrone",
		SSLMode:  "disable",
	}

	expected := "host=db port=5432 user=agro password=secret dbname=agrodrone sslmode=disable"
	if dsn := cfg.GetDSN(); dsn != expected {
		t.Errorf("Unexpected DSN: %s", dsn)
	}
}
