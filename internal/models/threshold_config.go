package models

import (
	"time"
)

// 阈值比较操作符
const (
	OperatorGreater      = ">"
	OperatorLess         = "<"
	OperatorGreaterEqual = ">="
	OperatorLessEqual    = "<="
	OperatorBetween      = "between"
)

// ThresholdConfig 阈值配置（对应 threshold_configs 表）
// 一个传感器可以有多条阈值配置，每条绑定一个区
type ThresholdConfig struct {
	ID        int64   `json:"id" db:"id"`
	Parameter string  `json:"parameter" db:"parameter"` // temperature, humidity, ph, ndvi

	// 临界上下限（可选）
	MinValue *float64 `json:"min_value,omitempty" db:"min_value"`
	MaxValue *float64 `json:"max_value,omitempty" db:"max_value"`

	// 告警上下限（低于临界级别）
	WarnMin *float64 `json:"warn_min,omitempty" db:"warn_min"`
	WarnMax *float64 `json:"warn_max,omitempty" db:"warn_max"`

	IsActive bool   `json:"is_active" db:"is_active"`
	Operator string `json:"operator" db:"operator"` // >, <, >=, <=, between

	SensorID int64 `json:"sensor_id" db:"sensor_id"`
	ZoneID   int64 `json:"zone_id" db:"zone_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
