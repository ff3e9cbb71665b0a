package repository

import (
	"context"
	"database/sql"
	"fmt"

	"agrodrone-automation/internal/models"

	"go.uber.org/zap"
)

// PostgresActuatorRepository 执行器仓库实现
type PostgresActuatorRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresActuatorRepository 创建执行器仓库
func NewPostgresActuatorRepository(db *sql.DB, logger *zap.Logger) *PostgresActuatorRepository {
	return &PostgresActuatorRepository{
		db:     db,
		logger: logger,
	}
}

// 确保实现了接口
var _ ActuatorRepository = (*PostgresActuatorRepository)(nil)

// GetActuator 根据 ID 获取执行器
func (r *PostgresActuatorRepository) GetActuator(ctx context.Context, actuatorID int64) (*models.Actuator, error) {
	if actuatorID <= 0 {
		return nil, fmt.Errorf("actuator_id is required")
	}

	query := `
		SELECT
			id,
			name,
			actuator_type,
			model,
			is_on,
			auto_mode,
			zone_id,
			created_at,
			updated_at
		FROM actuators
		WHERE id = $1
	`

	var actuator models.Actuator
	var model sql.NullString

	err := r.db.QueryRowContext(ctx, query, actuatorID).Scan(
		&actuator.ID,
		&actuator.Name,
		&actuator.ActuatorType,
		&model,
		&actuator.IsOn,
		&actuator.AutoMode,
		&actuator.ZoneID,
		&actuator.CreatedAt,
		&actuator.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("actuator not found: id=%d: %w", actuatorID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get actuator: %w", err)
	}

	if model.Valid {
		actuator.Model = &model.String
	}

	return &actuator, nil
}

// SetActuatorState 设置执行器开关状态
// 单行更新包在事务里，失败时整体回滚，调用方据此记录 failed 日志
func (r *PostgresActuatorRepository) SetActuatorState(ctx context.Context, actuatorID int64, isOn bool) error {
	if actuatorID <= 0 {
		return fmt.Errorf("actuator_id is required")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	query := `
		UPDATE actuators
		SET is_on = $1,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
	`

	result, err := tx.ExecContext(ctx, query, isOn, actuatorID)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to update actuator state: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		tx.Rollback()
		return fmt.Errorf("actuator not found: id=%d: %w", actuatorID, ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit actuator state: %w", err)
	}

	r.logger.Debug("Actuator state updated",
		zap.Int64("actuator_id", actuatorID),
		zap.Bool("is_on", isOn),
	)

	return nil
}
