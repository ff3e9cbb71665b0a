package evaluator

import (
	"context"
	"errors"
	"fmt"

	"agrodrone-automation/internal/metrics"
	"agrodrone-automation/internal/models"
	"agrodrone-automation/internal/repository"

	"go.uber.org/zap"
)

// ThresholdEvaluator 阈值评估器
// 对新测量值逐条检查传感器的启用阈值配置，命中即生成告警
//
// 首个产生告警的配置生效，之后的配置不再检查：同一传感器配置了
// 多条重叠阈值时，每次测量最多只报一条（历史行为，保持不变）
type ThresholdEvaluator struct {
	sensorRepo    repository.SensorRepository
	thresholdRepo repository.ThresholdConfigRepository
	alertRepo     repository.AlertRepository
	logger        *zap.Logger
}

// NewThresholdEvaluator 创建阈值评估器
func NewThresholdEvaluator(
	sensorRepo repository.SensorRepository,
	thresholdRepo repository.ThresholdConfigRepository,
	alertRepo repository.AlertRepository,
	logger *zap.Logger,
) *ThresholdEvaluator {
	return &ThresholdEvaluator{
		sensorRepo:    sensorRepo,
		thresholdRepo: thresholdRepo,
		alertRepo:     alertRepo,
		logger:        logger,
	}
}

// Evaluate 评估一条测量值，必要时生成并持久化告警
// 传感器不存在或没有启用阈值时静默返回 (nil, nil)，不产生任何副作用
// 只有存储层故障才返回错误
func (e *ThresholdEvaluator) Evaluate(ctx context.Context, measurement *models.Measurement) (*models.Alert, error) {
	if measurement == nil {
		return nil, fmt.Errorf("measurement is required")
	}

	sensor, err := e.sensorRepo.GetSensor(ctx, measurement.SensorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve sensor: %w", err)
	}

	configs, err := e.thresholdRepo.ListActiveBySensor(ctx, sensor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load threshold configs: %w", err)
	}
	if len(configs) == 0 {
		return nil, nil
	}

	for i := range configs {
		alert, err := e.checkThreshold(ctx, &configs[i], measurement, sensor.ZoneID)
		if err != nil {
			return nil, err
		}
		if alert != nil {
			return alert, nil
		}
	}

	return nil, nil
}

// checkThreshold 按单条阈值配置评估测量值
// 未越界返回 (nil, nil)；越界时持久化告警并返回
func (e *ThresholdEvaluator) checkThreshold(
	ctx context.Context,
	threshold *models.ThresholdConfig,
	measurement *models.Measurement,
	zoneID int64,
) (*models.Alert, error) {
	value := measurement.Value

	// 1. 临界判断（按配置的操作符）
	critical := false

	switch threshold.Operator {
	case models.OperatorBetween:
		if threshold.MinValue != nil && value < *threshold.MinValue {
			critical = true
		}
		if threshold.MaxValue != nil && value > *threshold.MaxValue {
			critical = true
		}
	case models.OperatorGreater:
		// 比较的是 max_value 而非独立的阈值字段（沿用原有设计）
		if threshold.MaxValue != nil && value > *threshold.MaxValue {
			critical = true
		}
	case models.OperatorLess:
		if threshold.MinValue != nil && value < *threshold.MinValue {
			critical = true
		}
	case models.OperatorGreaterEqual:
		if threshold.MaxValue != nil && value >= *threshold.MaxValue {
			critical = true
		}
	case models.OperatorLessEqual:
		if threshold.MinValue != nil && value <= *threshold.MinValue {
			critical = true
		}
	}

	// 2. 告警级判断（仅在未达临界时）
	warn := false
	if !critical {
		if threshold.WarnMin != nil && value < *threshold.WarnMin {
			warn = true
		}
		if threshold.WarnMax != nil && value > *threshold.WarnMax {
			warn = true
		}
	}

	// 3. 未越界则无告警
	if !critical && !warn {
		return nil, nil
	}

	severity := models.SeverityWarning
	if critical {
		severity = models.SeverityCritical
	}

	message := fmt.Sprintf("Anomalous %s reading: %v", threshold.Parameter, value)
	details := fmt.Sprintf(
		"Measurement out of range. Min: %s, Max: %s, WarnMin: %s, WarnMax: %s",
		formatBound(threshold.MinValue),
		formatBound(threshold.MaxValue),
		formatBound(threshold.WarnMin),
		formatBound(threshold.WarnMax),
	)

	// 4. 持久化告警
	sensorID := measurement.SensorID
	alert := &models.Alert{
		Message:  message,
		Details:  &details,
		Severity: severity,
		SensorID: &sensorID,
		ZoneID:   zoneID,
	}

	if err := e.alertRepo.CreateAlert(ctx, alert); err != nil {
		return nil, fmt.Errorf("failed to persist alert: %w", err)
	}

	metrics.AlertsCreated.WithLabelValues(severity).Inc()
	e.logger.Info("Alert created from threshold",
		zap.Int64("alert_id", alert.ID),
		zap.Int64("threshold_id", threshold.ID),
		zap.Int64("sensor_id", sensorID),
		zap.String("severity", severity),
		zap.Float64("value", value),
	)

	return alert, nil
}

// CreateManualAlert 创建人工告警
// 绕过阈值逻辑，无条件持久化；severity 为空时默认 info
func (e *ThresholdEvaluator) CreateManualAlert(
	ctx context.Context,
	zoneID int64,
	message string,
	severity string,
	details *string,
	sensorID *int64,
) (*models.Alert, error) {
	if severity == "" {
		severity = models.SeverityInfo
	}

	alert := &models.Alert{
		Message:  message,
		Details:  details,
		Severity: severity,
		SensorID: sensorID,
		ZoneID:   zoneID,
	}

	if err := e.alertRepo.CreateAlert(ctx, alert); err != nil {
		return nil, fmt.Errorf("failed to persist manual alert: %w", err)
	}

	metrics.AlertsCreated.WithLabelValues(severity).Inc()
	e.logger.Info("Manual alert created",
		zap.Int64("alert_id", alert.ID),
		zap.Int64("zone_id", zoneID),
		zap.String("severity", severity),
	)

	return alert, nil
}

// formatBound 格式化可选边界值（nil 显示为 none）
func formatBound(v *float64) string {
	if v == nil {
		return "none"
	}
	return fmt.Sprintf("%v", *v)
}
