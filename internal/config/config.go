package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
	MaxConns int    `yaml:"max_conns"`
	MaxIdle  int    `yaml:"max_idle"`
}

// GetDSN 获取数据库连接字符串
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// RedisConfig Redis配置
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// MQTTConfig MQTT配置
type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	QoS      byte   `yaml:"qos"`
}

// Config 自动化服务配置
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	MQTT     MQTTConfig     `yaml:"mqtt"`

	HTTP struct {
		Addr string `yaml:"addr"` // 健康检查与指标监听地址
	} `yaml:"http"`

	// 自动化引擎特定配置
	Automation struct {
		// 测量值上报主题（+ 为 zone 通配）
		MeasurementTopic string `yaml:"measurement_topic"`

		// Redis 最新测量值缓存
		Cache struct {
			LatestKeyPrefix string `yaml:"latest_key_prefix"` // 如 "agro:sensor:"
			LatestSuffix    string `yaml:"latest_suffix"`     // 如 ":latest"
			LatestTTL       int    `yaml:"latest_ttl"`        // TTL（秒）
		} `yaml:"cache"`

		// 定时规则扫描（无测量值评估，仅 always 条件可触发）
		Sweep struct {
			Enabled  bool   `yaml:"enabled"`
			Schedule string `yaml:"schedule"` // cron 表达式，如 "@every 5m"
		} `yaml:"sweep"`
	} `yaml:"automation"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Load 加载配置
// 优先级：默认值 < CONFIG_FILE 指定的 YAML 文件 < 环境变量
func Load() (*Config, error) {
	cfg := &Config{}

	// 默认值
	cfg.Database.Host = "localhost"
	cfg.Database.Port = 5432
	cfg.Database.User = "postgres"
	cfg.Database.Password = "postgres"
	cfg.Database.Database = "agrodrone"
	cfg.Database.SSLMode = "disable"
	cfg.Database.MaxConns = 10
	cfg.Database.MaxIdle = 5

	cfg.Redis.Addr = "localhost:6379"
	cfg.Redis.Password = ""
	cfg.Redis.DB = 0

	cfg.MQTT.Broker = "tcp://localhost:1883"
	cfg.MQTT.ClientID = "agrodrone-automation"
	cfg.MQTT.QoS = 1

	cfg.HTTP.Addr = ":8080"

	cfg.Automation.MeasurementTopic = "agro/zones/+/measurements"
	cfg.Automation.Cache.LatestKeyPrefix = "agro:sensor:"
	cfg.Automation.Cache.LatestSuffix = ":latest"
	cfg.Automation.Cache.LatestTTL = 300 // 5分钟

	cfg.Automation.Sweep.Enabled = true
	cfg.Automation.Sweep.Schedule = "@every 5m"

	cfg.Log.Level = "info"
	cfg.Log.Format = "json"

	// 可选 YAML 文件覆盖
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	// 环境变量覆盖
	cfg.Database.Host = getEnv("DB_HOST", cfg.Database.Host)
	if port := os.Getenv("DB_PORT"); port != "" {
		fmt.Sscanf(port, "%d", &cfg.Database.Port)
	}
	cfg.Database.User = getEnv("DB_USER", cfg.Database.User)
	cfg.Database.Password = getEnv("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.Database = getEnv("DB_NAME", cfg.Database.Database)
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", cfg.Database.SSLMode)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	if db := os.Getenv("REDIS_DB"); db != "" {
		fmt.Sscanf(db, "%d", &cfg.Redis.DB)
	}

	cfg.MQTT.Broker = getEnv("MQTT_BROKER", cfg.MQTT.Broker)
	cfg.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", cfg.MQTT.ClientID)
	cfg.MQTT.Username = getEnv("MQTT_USERNAME", cfg.MQTT.Username)
	cfg.MQTT.Password = getEnv("MQTT_PASSWORD", cfg.MQTT.Password)

	cfg.HTTP.Addr = getEnv("HTTP_ADDR", cfg.HTTP.Addr)

	cfg.Automation.MeasurementTopic = getEnv("MEASUREMENT_TOPIC", cfg.Automation.MeasurementTopic)
	if enabled := os.Getenv("SWEEP_ENABLED"); enabled != "" {
		cfg.Automation.Sweep.Enabled = enabled == "true"
	}
	cfg.Automation.Sweep.Schedule = getEnv("SWEEP_SCHEDULE", cfg.Automation.Sweep.Schedule)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
