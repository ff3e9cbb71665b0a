package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"agrodrone-automation/internal/models"

	"go.uber.org/zap"
)

// PostgresMeasurementRepository 测量值仓库实现
type PostgresMeasurementRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresMeasurementRepository 创建测量值仓库
func NewPostgresMeasurementRepository(db *sql.DB, logger *zap.Logger) *PostgresMeasurementRepository {
	return &PostgresMeasurementRepository{
		db:     db,
		logger: logger,
	}
}

// 确保实现了接口
var _ MeasurementRepository = (*PostgresMeasurementRepository)(nil)

// CreateMeasurement 持久化测量值并回填 ID
func (r *PostgresMeasurementRepository) CreateMeasurement(ctx context.Context, m *models.Measurement) error {
	if m == nil {
		return fmt.Errorf("measurement is required")
	}
	if m.SensorID <= 0 {
		return fmt.Errorf("sensor_id is required")
	}

	now := time.Now().UTC()
	if m.Timestamp.IsZero() {
		m.Timestamp = now
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}

	query := `
		INSERT INTO measurements (
			sensor_id,
			value,
			unit,
			status,
			timestamp,
			created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
		RETURNING id
	`

	var unit, status sql.NullString
	if m.Unit != nil {
		unit = sql.NullString{String: *m.Unit, Valid: true}
	}
	if m.Status != nil {
		status = sql.NullString{String: *m.Status, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query,
		m.SensorID,
		m.Value,
		unit,
		status,
		m.Timestamp,
		m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("failed to create measurement: %w", err)
	}

	r.logger.Debug("Measurement created",
		zap.Int64("measurement_id", m.ID),
		zap.Int64("sensor_id", m.SensorID),
		zap.Float64("value", m.Value),
	)

	return nil
}
