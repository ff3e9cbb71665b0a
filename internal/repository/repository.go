package repository

import (
	"context"
	"errors"
	"time"

	"agrodrone-automation/internal/models"
)

// ErrNotFound 记录不存在
// 引擎层用 errors.Is 区分"数据缺失"（本地跳过）与存储故障（向上传播）
var ErrNotFound = errors.New("not found")

// SensorRepository 传感器目录
type SensorRepository interface {
	// GetSensor 根据 ID 获取传感器
	GetSensor(ctx context.Context, sensorID int64) (*models.Sensor, error)
}

// ActuatorRepository 执行器目录与状态写入
type ActuatorRepository interface {
	// GetActuator 根据 ID 获取执行器
	GetActuator(ctx context.Context, actuatorID int64) (*models.Actuator, error)

	// SetActuatorState 设置执行器开关状态（单行事务，失败时回滚）
	SetActuatorState(ctx context.Context, actuatorID int64, isOn bool) error
}

// ThresholdConfigRepository 阈值配置
type ThresholdConfigRepository interface {
	// ListActiveBySensor 获取传感器的启用阈值配置（按 id 升序）
	ListActiveBySensor(ctx context.Context, sensorID int64) ([]models.ThresholdConfig, error)
}

// AlertRepository 告警
type AlertRepository interface {
	// CreateAlert 持久化告警并回填 ID
	CreateAlert(ctx context.Context, alert *models.Alert) error
}

// AutomationRuleRepository 自动化规则及其执行器关联
type AutomationRuleRepository interface {
	// ListActiveByZone 获取区内启用规则（priority 升序，平级按 id 升序）
	ListActiveByZone(ctx context.Context, zoneID int64) ([]models.AutomationRule, error)

	// ListActuatorMaps 获取规则的执行器关联（按 id 升序）
	ListActuatorMaps(ctx context.Context, ruleID int64) ([]models.RuleActuatorMap, error)

	// ListZoneIDsWithActiveRules 获取存在启用规则的所有区 ID
	ListZoneIDsWithActiveRules(ctx context.Context) ([]int64, error)

	// DeleteRule 删除规则及其关联和日志（单事务显式级联）
	DeleteRule(ctx context.Context, ruleID int64) error
}

// AutomationLogRepository 规则执行审计日志（只追加）
type AutomationLogRepository interface {
	// CreateLog 追加一条审计日志并回填 ID
	CreateLog(ctx context.Context, log *models.AutomationLog) error
}

// NotificationRepository 用户通知
type NotificationRepository interface {
	// CreateNotification 持久化单条通知并回填 ID
	CreateNotification(ctx context.Context, notif *models.Notification) error

	// CreateNotificationBatch 在单事务中持久化一批通知并回填 ID
	CreateNotificationBatch(ctx context.Context, notifs []*models.Notification) error

	// MarkAllReadForUser 将用户的全部未读通知置为已读，返回修改行数
	MarkAllReadForUser(ctx context.Context, userID int64, readAt time.Time) (int64, error)
}

// MeasurementRepository 测量值（采集链路写入）
type MeasurementRepository interface {
	// CreateMeasurement 持久化测量值并回填 ID
	CreateMeasurement(ctx context.Context, m *models.Measurement) error
}
