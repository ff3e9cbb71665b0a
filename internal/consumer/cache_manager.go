package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"agrodrone-automation/internal/config"
	"agrodrone-automation/internal/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CacheManager Redis 缓存管理器
// 维护每个传感器的最新测量值快照，供看板类读取方使用
type CacheManager struct {
	config      *config.Config
	redisClient *redis.Client
	logger      *zap.Logger
}

// NewCacheManager 创建缓存管理器
func NewCacheManager(
	cfg *config.Config,
	redisClient *redis.Client,
	logger *zap.Logger,
) *CacheManager {
	return &CacheManager{
		config:      cfg,
		redisClient: redisClient,
		logger:      logger,
	}
}

// SetLatestMeasurement 写入传感器最新测量值（带 TTL）
func (c *CacheManager) SetLatestMeasurement(ctx context.Context, m *models.Measurement) error {
	key := c.latestKey(m.SensorID)

	jsonData, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal measurement: %w", err)
	}

	ttl := time.Duration(c.config.Automation.Cache.LatestTTL) * time.Second
	if err := c.redisClient.Set(ctx, key, jsonData, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set latest measurement cache: %w", err)
	}

	c.logger.Debug("Latest measurement cached",
		zap.Int64("sensor_id", m.SensorID),
		zap.String("key", key),
	)

	return nil
}

// GetLatestMeasurement 读取传感器最新测量值
func (c *CacheManager) GetLatestMeasurement(ctx context.Context, sensorID int64) (*models.Measurement, error) {
	key := c.latestKey(sensorID)

	val, err := c.redisClient.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("latest measurement not found for sensor: %d", sensorID)
		}
		return nil, fmt.Errorf("failed to get cache: %w", err)
	}

	var m models.Measurement
	if err := json.Unmarshal([]byte(val), &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal measurement: %w", err)
	}

	return &m, nil
}

// latestKey 构建缓存键
func (c *CacheManager) latestKey(sensorID int64) string {
	return fmt.Sprintf("%s%d%s",
		c.config.Automation.Cache.LatestKeyPrefix,
		sensorID,
		c.config.Automation.Cache.LatestSuffix,
	)
}
