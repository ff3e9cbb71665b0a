package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"agrodrone-automation/internal/models"

	"go.uber.org/zap"
)

// PostgresAutomationLogRepository 规则执行审计日志仓库实现（只追加）
type PostgresAutomationLogRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresAutomationLogRepository 创建审计日志仓库
func NewPostgresAutomationLogRepository(db *sql.DB, logger *zap.Logger) *PostgresAutomationLogRepository {
	return &PostgresAutomationLogRepository{
		db:     db,
		logger: logger,
	}
}

// 确保实现了接口
var _ AutomationLogRepository = (*PostgresAutomationLogRepository)(nil)

// CreateLog 追加一条审计日志并回填 ID
func (r *PostgresAutomationLogRepository) CreateLog(ctx context.Context, log *models.AutomationLog) error {
	if log == nil {
		return fmt.Errorf("log is required")
	}
	if log.RuleID <= 0 {
		return fmt.Errorf("rule_id is required")
	}
	if log.Status != models.LogStatusTriggered &&
		log.Status != models.LogStatusSkipped &&
		log.Status != models.LogStatusFailed {
		return fmt.Errorf("invalid log status: %s", log.Status)
	}

	now := time.Now().UTC()
	if log.CreatedAt.IsZero() {
		log.CreatedAt = now
	}
	if log.ExecutedAt.IsZero() {
		log.ExecutedAt = now
	}

	query := `
		INSERT INTO automation_logs (
			rule_id,
			status,
			message,
			details,
			action_executed,
			actuator_id,
			sensor_id,
			zone_id,
			created_at,
			executed_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
		RETURNING id
	`

	var details sql.NullString
	if log.Details != nil {
		details = sql.NullString{String: *log.Details, Valid: true}
	}
	var actuatorID, sensorID, zoneID sql.NullInt64
	if log.ActuatorID != nil {
		actuatorID = sql.NullInt64{Int64: *log.ActuatorID, Valid: true}
	}
	if log.SensorID != nil {
		sensorID = sql.NullInt64{Int64: *log.SensorID, Valid: true}
	}
	if log.ZoneID != nil {
		zoneID = sql.NullInt64{Int64: *log.ZoneID, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query,
		log.RuleID,
		log.Status,
		log.Message,
		details,
		log.ActionExecuted,
		actuatorID,
		sensorID,
		zoneID,
		log.CreatedAt,
		log.ExecutedAt,
	).Scan(&log.ID)
	if err != nil {
		return fmt.Errorf("failed to create automation log: %w", err)
	}

	return nil
}
