package repository

import (
	"context"
	"database/sql"
	"fmt"

	"agrodrone-automation/internal/models"

	"go.uber.org/zap"
)

// PostgresThresholdConfigRepository 阈值配置仓库实现
type PostgresThresholdConfigRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresThresholdConfigRepository 创建阈值配置仓库
func NewPostgresThresholdConfigRepository(db *sql.DB, logger *zap.Logger) *PostgresThresholdConfigRepository {
	return &PostgresThresholdConfigRepository{
		db:     db,
		logger: logger,
	}
}

// 确保实现了接口
var _ ThresholdConfigRepository = (*PostgresThresholdConfigRepository)(nil)

// ListActiveBySensor 获取传感器的启用阈值配置
// 按 id 升序返回，阈值评估按此顺序首个命中生效
func (r *PostgresThresholdConfigRepository) ListActiveBySensor(ctx context.Context, sensorID int64) ([]models.ThresholdConfig, error) {
	if sensorID <= 0 {
		return nil, fmt.Errorf("sensor_id is required")
	}

	query := `
		SELECT
			id,
			parameter,
			min_value,
			max_value,
			warn_min,
			warn_max,
			is_active,
			operator,
			sensor_id,
			zone_id,
			created_at,
			updated_at
		FROM threshold_configs
		WHERE sensor_id = $1
		  AND is_active = TRUE
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, sensorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query threshold configs: %w", err)
	}
	defer rows.Close()

	var configs []models.ThresholdConfig
	for rows.Next() {
		var cfg models.ThresholdConfig
		var minValue, maxValue, warnMin, warnMax sql.NullFloat64

		if err := rows.Scan(
			&cfg.ID,
			&cfg.Parameter,
			&minValue,
			&maxValue,
			&warnMin,
			&warnMax,
			&cfg.IsActive,
			&cfg.Operator,
			&cfg.SensorID,
			&cfg.ZoneID,
			&cfg.CreatedAt,
			&cfg.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan threshold config: %w", err)
		}

		if minValue.Valid {
			cfg.MinValue = &minValue.Float64
		}
		if maxValue.Valid {
			cfg.MaxValue = &maxValue.Float64
		}
		if warnMin.Valid {
			cfg.WarnMin = &warnMin.Float64
		}
		if warnMax.Valid {
			cfg.WarnMax = &warnMax.Float64
		}

		configs = append(configs, cfg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate threshold configs: %w", err)
	}

	return configs, nil
}
