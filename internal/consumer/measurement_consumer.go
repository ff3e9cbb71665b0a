package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"agrodrone-automation/internal/config"
	"agrodrone-automation/internal/evaluator"
	"agrodrone-automation/internal/metrics"
	"agrodrone-automation/internal/models"
	"agrodrone-automation/internal/mqtt"
	"agrodrone-automation/internal/repository"

	"go.uber.org/zap"
)

// measurementPayload 测量值上报消息格式
type measurementPayload struct {
	SensorID  int64    `json:"sensor_id"`
	Value     *float64 `json:"value"`
	Unit      *string  `json:"unit,omitempty"`
	Status    *string  `json:"status,omitempty"`
	Timestamp *string  `json:"timestamp,omitempty"` // RFC3339，缺省为接收时刻
}

// MeasurementConsumer 测量值消费者
// 订阅测量值上报主题，每条消息依次：持久化、刷新缓存、阈值评估、规则评估
// 坏消息记日志后丢弃，不影响订阅
type MeasurementConsumer struct {
	config          *config.Config
	mqttClient      *mqtt.Client
	measurementRepo repository.MeasurementRepository
	cacheManager    *CacheManager
	thresholdEval   *evaluator.ThresholdEvaluator
	ruleEngine      *evaluator.RuleEngine
	logger          *zap.Logger
}

// NewMeasurementConsumer 创建测量值消费者
func NewMeasurementConsumer(
	cfg *config.Config,
	mqttClient *mqtt.Client,
	measurementRepo repository.MeasurementRepository,
	cacheManager *CacheManager,
	thresholdEval *evaluator.ThresholdEvaluator,
	ruleEngine *evaluator.RuleEngine,
	logger *zap.Logger,
) *MeasurementConsumer {
	return &MeasurementConsumer{
		config:          cfg,
		mqttClient:      mqttClient,
		measurementRepo: measurementRepo,
		cacheManager:    cacheManager,
		thresholdEval:   thresholdEval,
		ruleEngine:      ruleEngine,
		logger:          logger,
	}
}

// Start 订阅测量值主题
func (c *MeasurementConsumer) Start() error {
	topic := c.config.Automation.MeasurementTopic
	qos := c.config.MQTT.QoS

	if err := c.mqttClient.Subscribe(topic, qos, c.handleMessage); err != nil {
		return fmt.Errorf("failed to subscribe to measurement topic: %w", err)
	}

	c.logger.Info("Measurement consumer started",
		zap.String("topic", topic),
		zap.Uint8("qos", qos),
	)

	return nil
}

// Stop 取消订阅
func (c *MeasurementConsumer) Stop() error {
	return c.mqttClient.Unsubscribe(c.config.Automation.MeasurementTopic)
}

// handleMessage 处理一条测量值消息
func (c *MeasurementConsumer) handleMessage(topic string, payload []byte) error {
	ctx := context.Background()

	measurement, err := c.decodePayload(payload)
	if err != nil {
		metrics.MeasurementsIngested.WithLabelValues("rejected").Inc()
		c.logger.Warn("Dropping malformed measurement message",
			zap.String("topic", topic),
			zap.Error(err),
		)
		return nil
	}

	if err := c.measurementRepo.CreateMeasurement(ctx, measurement); err != nil {
		metrics.MeasurementsIngested.WithLabelValues("rejected").Inc()
		return fmt.Errorf("failed to persist measurement: %w", err)
	}
	metrics.MeasurementsIngested.WithLabelValues("accepted").Inc()

	// 缓存失败只降级，不影响评估
	if err := c.cacheManager.SetLatestMeasurement(ctx, measurement); err != nil {
		c.logger.Warn("Failed to cache latest measurement",
			zap.Int64("sensor_id", measurement.SensorID),
			zap.Error(err),
		)
	}

	// 阈值评估与规则评估相互独立，一个失败不阻断另一个
	if _, err := c.thresholdEval.Evaluate(ctx, measurement); err != nil {
		c.logger.Error("Threshold evaluation failed",
			zap.Int64("sensor_id", measurement.SensorID),
			zap.Error(err),
		)
	}

	if err := c.ruleEngine.HandleNewMeasurement(ctx, measurement); err != nil {
		c.logger.Error("Rule evaluation failed",
			zap.Int64("sensor_id", measurement.SensorID),
			zap.Error(err),
		)
	}

	return nil
}

// decodePayload 解析并校验测量值消息
func (c *MeasurementConsumer) decodePayload(payload []byte) (*models.Measurement, error) {
	var p measurementPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("invalid measurement payload: %w", err)
	}

	if p.SensorID <= 0 {
		return nil, fmt.Errorf("sensor_id is required")
	}
	if p.Value == nil {
		return nil, fmt.Errorf("value is required")
	}

	timestamp := time.Now().UTC()
	if p.Timestamp != nil && *p.Timestamp != "" {
		parsed, err := time.Parse(time.RFC3339, *p.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("invalid timestamp %q: %w", *p.Timestamp, err)
		}
		timestamp = parsed.UTC()
	}

	return &models.Measurement{
		SensorID:  p.SensorID,
		Value:     *p.Value,
		Unit:      p.Unit,
		Status:    p.Status,
		Timestamp: timestamp,
	}, nil
}
