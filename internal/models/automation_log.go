package models

import (
	"time"
)

// 规则执行结果状态
const (
	LogStatusTriggered = "triggered"
	LogStatusSkipped   = "skipped"
	LogStatusFailed    = "failed"
)

// AutomationLog 规则执行审计日志（对应 automation_logs 表）
// 只追加不修改；每条规则每次处理、每次执行器动作各产生一行
type AutomationLog struct {
	ID     int64  `json:"id" db:"id"`
	RuleID int64  `json:"rule_id" db:"rule_id"`
	Status string `json:"status" db:"status"` // triggered, skipped, failed

	Message string  `json:"message" db:"message"`
	Details *string `json:"details,omitempty" db:"details"`

	// 是否真正对执行器下发了动作
	ActionExecuted bool `json:"action_executed" db:"action_executed"`

	ActuatorID *int64 `json:"actuator_id,omitempty" db:"actuator_id"`
	SensorID   *int64 `json:"sensor_id,omitempty" db:"sensor_id"`
	ZoneID     *int64 `json:"zone_id,omitempty" db:"zone_id"`

	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	ExecutedAt time.Time `json:"executed_at" db:"executed_at"`
}
