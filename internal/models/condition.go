package models

import (
	"encoding/json"
	"fmt"
)

// 条件类型
const (
	ConditionTypeAlways      = "always"
	ConditionTypeMeasurement = "measurement"
)

// Condition 规则条件（从 automation_rules.condition 的 JSON 反序列化）
// 两种变体：
//   {"type": "always", "value": true}
//   {"type": "measurement", "sensor_id": 3, "operator": ">", "value": 30}
// Type 未知或结构不合法的条件永远不会触发
type Condition struct {
	Type        string             `json:"type"`
	Always      *AlwaysCondition   `json:"-"`
	Measurement *MeasurementClause `json:"-"`
}

// AlwaysCondition 恒定条件，忽略测量值
type AlwaysCondition struct {
	Value bool `json:"value"`
}

// MeasurementClause 基于测量值的条件
type MeasurementClause struct {
	SensorID *int64   `json:"sensor_id,omitempty"` // 指定时必须与测量的传感器一致
	Operator string   `json:"operator"`            // >, <, >=, <=, ==, between
	Value    *float64 `json:"value,omitempty"`
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
}

// ConditionDecodeError 条件反序列化失败
// 与"条件求值为 false"区分开，便于规则引擎记录 failed 日志
type ConditionDecodeError struct {
	Raw string
	Err error
}

func (e *ConditionDecodeError) Error() string {
	return fmt.Sprintf("failed to decode condition %q: %v", e.Raw, e.Err)
}

func (e *ConditionDecodeError) Unwrap() error {
	return e.Err
}

// DecodeCondition 反序列化条件表达式
// 缺省 type 视为 measurement（与历史数据兼容）
// 缺省 always.value 视为 true
func DecodeCondition(raw string) (*Condition, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal([]byte(raw), &head); err != nil {
		return nil, &ConditionDecodeError{Raw: raw, Err: err}
	}

	cond := &Condition{Type: head.Type}
	if cond.Type == "" {
		cond.Type = ConditionTypeMeasurement
	}

	switch cond.Type {
	case ConditionTypeAlways:
		var body struct {
			Value *bool `json:"value"`
		}
		if err := json.Unmarshal([]byte(raw), &body); err != nil {
			return nil, &ConditionDecodeError{Raw: raw, Err: err}
		}
		value := true
		if body.Value != nil {
			value = *body.Value
		}
		cond.Always = &AlwaysCondition{Value: value}

	case ConditionTypeMeasurement:
		var clause MeasurementClause
		if err := json.Unmarshal([]byte(raw), &clause); err != nil {
			return nil, &ConditionDecodeError{Raw: raw, Err: err}
		}
		if clause.Operator == "" {
			clause.Operator = OperatorGreater
		}
		cond.Measurement = &clause

	default:
		// 未知类型不算反序列化错误，求值时按不触发处理
	}

	return cond, nil
}
