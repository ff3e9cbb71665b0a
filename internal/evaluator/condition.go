package evaluator

import (
	"agrodrone-automation/internal/models"
)

// EvaluateCondition 对规则条件求值（纯函数）
// measurement 可为 nil（定时扫描场景），此时只有 always 条件可能为真
// 任何不合法或未知的结构一律返回 false，规则不会因坏数据误触发
func EvaluateCondition(cond *models.Condition, measurement *models.Measurement) bool {
	if cond == nil {
		return false
	}

	switch cond.Type {
	case models.ConditionTypeAlways:
		if cond.Always == nil {
			return false
		}
		return cond.Always.Value

	case models.ConditionTypeMeasurement:
		if cond.Measurement == nil || measurement == nil {
			return false
		}
		return evaluateMeasurementClause(cond.Measurement, measurement)
	}

	return false
}

// evaluateMeasurementClause 基于测量值的条件判断
func evaluateMeasurementClause(clause *models.MeasurementClause, measurement *models.Measurement) bool {
	// 指定了 sensor_id 时必须与测量的传感器一致
	if clause.SensorID != nil && *clause.SensorID != measurement.SensorID {
		return false
	}

	value := measurement.Value

	switch clause.Operator {
	case models.OperatorGreater:
		return clause.Value != nil && value > *clause.Value
	case models.OperatorLess:
		return clause.Value != nil && value < *clause.Value
	case models.OperatorGreaterEqual:
		return clause.Value != nil && value >= *clause.Value
	case models.OperatorLessEqual:
		return clause.Value != nil && value <= *clause.Value
	case "==":
		return clause.Value != nil && value == *clause.Value
	case models.OperatorBetween:
		if clause.Min == nil || clause.Max == nil {
			return false
		}
		return *clause.Min <= value && value <= *clause.Max
	}

	return false
}
