package models

import (
	"time"
)

// AutomationRule 自动化规则（对应 automation_rules 表）
// priority 数值越小优先级越高，同一区内按 priority 升序执行
type AutomationRule struct {
	ID       int64  `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	IsActive bool   `json:"is_active" db:"is_active"`
	Priority int    `json:"priority" db:"priority"`

	// 条件表达式（JSON 序列化的 Condition，见 condition.go）
	Condition string `json:"condition" db:"condition"`

	ActionDescription *string `json:"action_description,omitempty" db:"action_description"`

	ZoneID int64 `json:"zone_id" db:"zone_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// RuleActuatorMap 规则与执行器的关联（对应 rule_actuator_map 表）
// 规则触发时按关联顺序逐个下发 desired_state
type RuleActuatorMap struct {
	ID         int64 `json:"id" db:"id"`
	RuleID     int64 `json:"rule_id" db:"rule_id"`
	ActuatorID int64 `json:"actuator_id" db:"actuator_id"`

	// 触发时的目标状态：true=开，false=关
	DesiredState bool `json:"desired_state" db:"desired_state"`

	// 动作持续时间（秒，可选，由外部任务处理）
	DurationSeconds *int    `json:"duration_seconds,omitempty" db:"duration_seconds"`
	ActionNote      *string `json:"action_note,omitempty" db:"action_note"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
