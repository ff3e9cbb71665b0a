package models

import (
	"time"
)

// 告警严重级别
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Alert 告警（对应 alerts 表）
// 必须归属一个区；sensor_id 可为空（人工告警）
type Alert struct {
	ID         int64      `json:"id" db:"id"`
	Message    string     `json:"message" db:"message"`
	Details    *string    `json:"details,omitempty" db:"details"`
	Severity   string     `json:"severity" db:"severity"` // info, warning, critical
	IsRead     bool       `json:"is_read" db:"is_read"`
	SensorID   *int64     `json:"sensor_id,omitempty" db:"sensor_id"`
	ZoneID     int64      `json:"zone_id" db:"zone_id"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty" db:"resolved_at"`
}
