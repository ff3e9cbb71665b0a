package models

import (
	"time"
)

// Actuator 执行器（对应 actuators 表）
// is_on 为当前开关状态，由规则引擎或人工修改
type Actuator struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	ActuatorType string    `json:"actuator_type" db:"actuator_type"` // irrigation, fan, pump, light
	Model        *string   `json:"model,omitempty" db:"model"`
	IsOn         bool      `json:"is_on" db:"is_on"`
	AutoMode     bool      `json:"auto_mode" db:"auto_mode"`
	ZoneID       int64     `json:"zone_id" db:"zone_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
