package models

import (
	"time"
)

// 通知类型
const (
	NotificationTypeAlert      = "alert"
	NotificationTypeAutomation = "automation"
	NotificationTypeReport     = "report"
	NotificationTypeDevice     = "device"
	NotificationTypeSystem     = "system"
)

// 通知默认渠道
const ChannelInternal = "internal"

// Notification 用户通知（对应 notifications 表）
// 每行只属于一个用户；群发时逐用户各建一行
type Notification struct {
	ID      int64  `json:"id" db:"id"`
	Title   string `json:"title" db:"title"`
	Message string `json:"message" db:"message"`

	NotificationType string  `json:"notification_type" db:"notification_type"` // alert, automation, report, device, system
	IsRead           bool    `json:"is_read" db:"is_read"`
	Channel          *string `json:"channel,omitempty" db:"channel"` // push, email, sms, internal

	UserID     int64  `json:"user_id" db:"user_id"`
	AlertID    *int64 `json:"alert_id,omitempty" db:"alert_id"`
	SensorID   *int64 `json:"sensor_id,omitempty" db:"sensor_id"`
	ActuatorID *int64 `json:"actuator_id,omitempty" db:"actuator_id"`
	ZoneID     *int64 `json:"zone_id,omitempty" db:"zone_id"`

	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	ReadAt    *time.Time `json:"read_at,omitempty" db:"read_at"`
}
