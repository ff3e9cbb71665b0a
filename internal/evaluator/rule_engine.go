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

// RuleEngine 自动化规则引擎
// 按优先级评估区内启用规则并对执行器下发动作
// 每条规则每次处理、每次动作尝试各写一条审计日志，任何分支都不丢
type RuleEngine struct {
	sensorRepo   repository.SensorRepository
	ruleRepo     repository.AutomationRuleRepository
	actuatorRepo repository.ActuatorRepository
	logRepo      repository.AutomationLogRepository
	logger       *zap.Logger
}

// NewRuleEngine 创建规则引擎
func NewRuleEngine(
	sensorRepo repository.SensorRepository,
	ruleRepo repository.AutomationRuleRepository,
	actuatorRepo repository.ActuatorRepository,
	logRepo repository.AutomationLogRepository,
	logger *zap.Logger,
) *RuleEngine {
	return &RuleEngine{
		sensorRepo:   sensorRepo,
		ruleRepo:     ruleRepo,
		actuatorRepo: actuatorRepo,
		logRepo:      logRepo,
		logger:       logger,
	}
}

// HandleNewMeasurement 处理一条新测量值
// 解析传感器所在区，按 priority 升序评估区内全部启用规则
// 传感器或其归属区不存在时整体静默返回
// 单条规则或单个执行器的失败不会影响后续规则/执行器
func (e *RuleEngine) HandleNewMeasurement(ctx context.Context, measurement *models.Measurement) error {
	if measurement == nil {
		return fmt.Errorf("measurement is required")
	}

	sensor, err := e.sensorRepo.GetSensor(ctx, measurement.SensorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to resolve sensor: %w", err)
	}
	if sensor.ZoneID <= 0 {
		return nil
	}

	return e.runRules(ctx, sensor.ZoneID, measurement)
}

// RunZoneRules 在没有测量值的情况下评估区内规则（定时扫描入口）
// 只有 always 条件可能触发，measurement 条件一律评估为 false
func (e *RuleEngine) RunZoneRules(ctx context.Context, zoneID int64) error {
	if zoneID <= 0 {
		return fmt.Errorf("zone_id is required")
	}
	return e.runRules(ctx, zoneID, nil)
}

// runRules 按优先级评估并执行一个区的启用规则
func (e *RuleEngine) runRules(ctx context.Context, zoneID int64, measurement *models.Measurement) error {
	rules, err := e.ruleRepo.ListActiveByZone(ctx, zoneID)
	if err != nil {
		return fmt.Errorf("failed to load rules for zone %d: %w", zoneID, err)
	}

	for i := range rules {
		if err := e.evaluateAndExecute(ctx, &rules[i], measurement); err != nil {
			// 只有存储层故障会走到这里；数据问题已记入审计日志
			return err
		}
	}

	return nil
}

// evaluateAndExecute 评估单条规则并执行其动作
// 数据级问题（坏条件、缺失执行器）记审计日志后返回 nil，
// 存储层故障返回错误并中止本次处理
func (e *RuleEngine) evaluateAndExecute(ctx context.Context, rule *models.AutomationRule, measurement *models.Measurement) error {
	var sensorID *int64
	if measurement != nil {
		id := measurement.SensorID
		sensorID = &id
	}

	cond, err := models.DecodeCondition(rule.Condition)
	if err != nil {
		var decodeErr *models.ConditionDecodeError
		if errors.As(err, &decodeErr) {
			details := fmt.Sprintf("condition=%s", rule.Condition)
			return e.createLog(ctx, rule, models.LogStatusFailed,
				"Failed to parse rule condition", &details, sensorID, nil, false)
		}
		return fmt.Errorf("failed to decode condition for rule %d: %w", rule.ID, err)
	}

	if !EvaluateCondition(cond, measurement) {
		details := fmt.Sprintf("condition=%s", rule.Condition)
		return e.createLog(ctx, rule, models.LogStatusSkipped,
			"Condition not met", &details, sensorID, nil, false)
	}

	links, err := e.ruleRepo.ListActuatorMaps(ctx, rule.ID)
	if err != nil {
		return fmt.Errorf("failed to load actuator maps for rule %d: %w", rule.ID, err)
	}

	if len(links) == 0 {
		// 规则触发但没有关联执行器
		details := fmt.Sprintf("condition=%s", rule.Condition)
		return e.createLog(ctx, rule, models.LogStatusTriggered,
			"Rule triggered with no linked actuators", &details, sensorID, nil, false)
	}

	// 按存储顺序逐个执行器下发动作，单个失败不影响后续
	for i := range links {
		if err := e.executeAction(ctx, rule, &links[i], sensorID); err != nil {
			return err
		}
	}

	return nil
}

// executeAction 对单个执行器关联下发动作并记录结果
func (e *RuleEngine) executeAction(ctx context.Context, rule *models.AutomationRule, link *models.RuleActuatorMap, sensorID *int64) error {
	actuator, err := e.actuatorRepo.GetActuator(ctx, link.ActuatorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			details := fmt.Sprintf("rule_actuator_map_id=%d", link.ID)
			return e.createLog(ctx, rule, models.LogStatusFailed,
				"Linked actuator not found", &details, sensorID, nil, false)
		}
		return fmt.Errorf("failed to resolve actuator %d: %w", link.ActuatorID, err)
	}

	if err := e.actuatorRepo.SetActuatorState(ctx, actuator.ID, link.DesiredState); err != nil {
		// 单行更新已在仓库层回滚，记录失败并继续后续关联
		e.logger.Warn("Failed to apply actuator action",
			zap.Int64("rule_id", rule.ID),
			zap.Int64("actuator_id", actuator.ID),
			zap.Error(err),
		)
		details := err.Error()
		actuatorID := actuator.ID
		return e.createLog(ctx, rule, models.LogStatusFailed,
			fmt.Sprintf("Failed to apply action on actuator %d", actuator.ID),
			&details, sensorID, &actuatorID, false)
	}

	details := fmt.Sprintf("desired_state=%t, duration_seconds=%s",
		link.DesiredState, formatDuration(link.DurationSeconds))
	actuatorID := actuator.ID
	return e.createLog(ctx, rule, models.LogStatusTriggered,
		fmt.Sprintf("Action applied to actuator %d", actuator.ID),
		&details, sensorID, &actuatorID, true)
}

// createLog 追加一条审计日志
// 日志写入失败视为存储层故障向上传播
func (e *RuleEngine) createLog(
	ctx context.Context,
	rule *models.AutomationRule,
	status string,
	message string,
	details *string,
	sensorID *int64,
	actuatorID *int64,
	actionExecuted bool,
) error {
	zoneID := rule.ZoneID
	log := &models.AutomationLog{
		RuleID:         rule.ID,
		Status:         status,
		Message:        message,
		Details:        details,
		ActionExecuted: actionExecuted,
		ActuatorID:     actuatorID,
		SensorID:       sensorID,
		ZoneID:         &zoneID,
	}

	if err := e.logRepo.CreateLog(ctx, log); err != nil {
		return fmt.Errorf("failed to create automation log for rule %d: %w", rule.ID, err)
	}

	metrics.RuleOutcomes.WithLabelValues(status).Inc()
	e.logger.Debug("Automation log created",
		zap.Int64("rule_id", rule.ID),
		zap.String("status", status),
		zap.Bool("action_executed", actionExecuted),
	)

	return nil
}

// formatDuration 格式化可选的持续秒数（nil 显示为 none）
func formatDuration(seconds *int) string {
	if seconds == nil {
		return "none"
	}
	return fmt.Sprintf("%d", *seconds)
}
