package repository

import (
	"context"
	"database/sql"
	"fmt"

	"agrodrone-automation/internal/models"

	"go.uber.org/zap"
)

// PostgresSensorRepository 传感器仓库实现
type PostgresSensorRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresSensorRepository 创建传感器仓库
func NewPostgresSensorRepository(db *sql.DB, logger *zap.Logger) *PostgresSensorRepository {
	return &PostgresSensorRepository{
		db:     db,
		logger: logger,
	}
}

// 确保实现了接口
var _ SensorRepository = (*PostgresSensorRepository)(nil)

// GetSensor 根据 ID 获取传感器
func (r *PostgresSensorRepository) GetSensor(ctx context.Context, sensorID int64) (*models.Sensor, error) {
	if sensorID <= 0 {
		return nil, fmt.Errorf("sensor_id is required")
	}

	query := `
		SELECT
			id,
			name,
			sensor_type,
			model,
			unit,
			is_active,
			zone_id,
			created_at,
			updated_at
		FROM sensors
		WHERE id = $1
	`

	var sensor models.Sensor
	var model, unit sql.NullString

	err := r.db.QueryRowContext(ctx, query, sensorID).Scan(
		&sensor.ID,
		&sensor.Name,
		&sensor.SensorType,
		&model,
		&unit,
		&sensor.IsActive,
		&sensor.ZoneID,
		&sensor.CreatedAt,
		&sensor.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("sensor not found: id=%d: %w", sensorID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get sensor: %w", err)
	}

	if model.Valid {
		sensor.Model = &model.String
	}
	if unit.Valid {
		sensor.Unit = &unit.String
	}

	return &sensor, nil
}
