package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"agrodrone-automation/internal/models"

	"go.uber.org/zap"
)

// PostgresAlertRepository 告警仓库实现
type PostgresAlertRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresAlertRepository 创建告警仓库
func NewPostgresAlertRepository(db *sql.DB, logger *zap.Logger) *PostgresAlertRepository {
	return &PostgresAlertRepository{
		db:     db,
		logger: logger,
	}
}

// 确保实现了接口
var _ AlertRepository = (*PostgresAlertRepository)(nil)

// CreateAlert 持久化告警并回填 ID
func (r *PostgresAlertRepository) CreateAlert(ctx context.Context, alert *models.Alert) error {
	if alert == nil {
		return fmt.Errorf("alert is required")
	}
	if alert.ZoneID <= 0 {
		return fmt.Errorf("zone_id is required")
	}
	if alert.Message == "" {
		return fmt.Errorf("message is required")
	}

	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO alerts (
			message,
			details,
			severity,
			is_read,
			sensor_id,
			zone_id,
			created_at,
			resolved_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
		RETURNING id
	`

	var details sql.NullString
	if alert.Details != nil {
		details = sql.NullString{String: *alert.Details, Valid: true}
	}
	var sensorID sql.NullInt64
	if alert.SensorID != nil {
		sensorID = sql.NullInt64{Int64: *alert.SensorID, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query,
		alert.Message,
		details,
		alert.Severity,
		alert.IsRead,
		sensorID,
		alert.ZoneID,
		alert.CreatedAt,
		alert.ResolvedAt,
	).Scan(&alert.ID)
	if err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}

	r.logger.Debug("Alert created",
		zap.Int64("alert_id", alert.ID),
		zap.String("severity", alert.Severity),
		zap.Int64("zone_id", alert.ZoneID),
	)

	return nil
}
